package dsm

import "github.com/ehr/formulation/internal/domain/narrative"

// useDisorderScale rates substance use disorders by the number of criterion A items.
var useDisorderScale = narrative.Scale{
	Bucket: "A",
	Tiers: []narrative.Tier{
		{Min: 2, Label: "Mild"},
		{Min: 4, Label: "Moderate"},
		{Min: 6, Label: "Severe"},
	},
}

func useDisorder(key, name string, clauses ...narrative.Clause) narrative.RuleSet {
	scale := useDisorderScale
	return narrative.RuleSet{
		Key:   key,
		Title: summary(name),
		Sections: []narrative.SectionRule{
			{Prefix: "A", Ref: narrative.Numbered()},
			{Prefix: "SPEC", Ref: narrative.NoRef},
		},
		Severity: &scale,
		Clauses:  clauses,
	}
}

func substance() []narrative.RuleSet {
	return []narrative.RuleSet{
		useDisorder("AUD", "Alcohol Use Disorder",
			narrative.When(narrative.Rated, `The clinical presentation meets the criteria for a {{.Severity}} Alcohol Use Disorder, evidenced by a problematic pattern of alcohol use leading to clinically significant impairment or distress.`),
			narrative.On("A", `Specifically, the individual exhibits {{.List "A"}}.`),
			narrative.On("SPEC", `The diagnosis is further qualified by the status of {{.List "SPEC"}}.`),
		),
		useDisorder("CUD", "Cannabis Use Disorder",
			narrative.When(narrative.Rated, `The clinical presentation is consistent with a {{.Severity}} Cannabis Use Disorder, based on a problematic pattern of use leading to significant impairment or distress.`),
			narrative.On("A", `Specifically, the individual demonstrates {{.List "A"}}.`),
			narrative.On("SPEC", `Current status is further specified as {{.List "SPEC"}}.`),
		),
		useDisorder("OUD", "Opioid Use Disorder",
			narrative.When(narrative.Rated, `The clinical assessment reveals a problematic pattern of opioid use leading to clinically significant impairment, meeting the threshold for a {{.Severity}} presentation.`),
			narrative.On("A", `Diagnostic criteria are evidenced by {{.List "A"}}.`),
			narrative.On("SPEC", `Current clinical status is further specified as {{.List "SPEC"}}.`),
		),
		useDisorder("STIMULANT_USE", "Stimulant Use Disorder",
			narrative.When(narrative.Rated, `The clinical presentation indicates a {{.Severity}} Stimulant Use Disorder.`),
			narrative.On("A", `This diagnosis is established by a problematic pattern of use leading to significant impairment, manifested by {{.List "A"}}.`),
			narrative.On("SPEC", `The diagnosis is further specified by {{.List "SPEC"}}.`),
		),
		{
			Key:   "SUBSTANCE_INDUCED",
			Title: summary("Substance/Medication-Induced Disorder"),
			Sections: []narrative.SectionRule{
				{Prefix: "A", Ref: narrative.Fixed("A")},
				{Prefix: "B", Ref: narrative.Numbered()},
				{Prefix: "CD", Ref: narrative.Letter()},
				{Prefix: "SPEC", Ref: narrative.NoRef},
			},
			Clauses: []narrative.Clause{
				narrative.On("A", `The clinical presentation is dominated by {{.List "A"}}.`),
				narrative.On("B", `There is clear evidence from the history, physical examination, or laboratory findings that {{.List "B"}}.`),
				narrative.On("SPEC", `The condition is further characterized {{.List "SPEC"}}.`),
				narrative.On("CD", `Clinical rigor is maintained as the {{.List "CD"}}.`),
			},
		},
	}
}
