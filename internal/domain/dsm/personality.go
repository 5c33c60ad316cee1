package dsm

import "github.com/ehr/formulation/internal/domain/narrative"

func personality() []narrative.RuleSet {
	return []narrative.RuleSet{
		{
			Key:   "ASPD",
			Title: summary("Antisocial Personality Disorder"),
			Sections: []narrative.SectionRule{
				{Prefix: "A", Ref: narrative.Numbered()},
				{Prefix: "BCD", Ref: narrative.Letter()},
			},
			Gates: []narrative.Gate{
				{When: narrative.Below("A", 3), Alert: "fewer than three criteria from section A"},
				{When: narrative.Empty("BCD"), Alert: "developmental criteria B-D not documented"},
			},
			Clauses: []narrative.Clause{
				narrative.On("A", `The clinical presentation reveals a pervasive pattern of disregard for and violation of the rights of others, evidenced by {{.Count "A"}} specific behaviors: {{.List "A"}}.`),
				narrative.When(narrative.All(narrative.Has("A"), narrative.Below("A", 3)), `Note: Diagnosis requires at least three criteria from section A.`),
				narrative.On("BCD", `The diagnostic profile is supported by necessary developmental context, specifically that {{.List "BCD"}}.`),
				narrative.When(narrative.Empty("BCD"), `Note: Diagnosis cannot be confirmed without evidence of age requirements and history of Conduct Disorder.`),
			},
		},
		{
			Key:   "BPD",
			Title: summary("Borderline Personality Disorder"),
			Sections: []narrative.SectionRule{
				{Prefix: "C", Ref: narrative.Numbered()},
			},
			Gates: []narrative.Gate{
				{When: narrative.Below("C", 5), Alert: "fewer than five of nine criteria"},
			},
			Clauses: []narrative.Clause{
				narrative.On("C", `The clinical evaluation identifies a pervasive pattern of instability in interpersonal relationships, self-image, and affects, alongside marked impulsivity.`),
				narrative.On("C", `Beginning by early adulthood and present in a variety of contexts, this presentation is evidenced by {{.Count "C"}} specific diagnostic markers: {{.List "C"}}.`),
				narrative.When(narrative.AtLeast("C", 5), `These symptoms collectively represent the diagnostic threshold for Borderline Personality Disorder as defined by the DSM-5-TR.`),
				narrative.When(narrative.All(narrative.Has("C"), narrative.Below("C", 5)), `While significant, the current presentation does not meet the full numeric threshold for a formal diagnosis at this time.`),
			},
		},
		{
			Key:   "NARCISSISTIC",
			Title: summary("Narcissistic Personality Disorder"),
			Sections: []narrative.SectionRule{
				{Prefix: "A", Ref: narrative.Numbered()},
				{Prefix: "GEN", Ref: narrative.Letter()},
			},
			Gates: []narrative.Gate{
				{When: narrative.Below("A", 5), Alert: "fewer than five of nine criteria"},
			},
			Clauses: []narrative.Clause{
				narrative.On("A", `The individual demonstrates a pervasive pattern of grandiosity and a need for admiration, manifested by {{.Count "A"}} specific criteria: {{.List "A"}}.`),
				narrative.When(narrative.All(narrative.Has("A"), narrative.Below("A", 5)), `Note: The current symptom count is below the diagnostic threshold of five criteria.`),
				narrative.On("GEN", `The clinical significance is further established by the fact that the {{.List "GEN"}}.`),
			},
		},
	}
}
