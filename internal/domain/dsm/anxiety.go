package dsm

import "github.com/ehr/formulation/internal/domain/narrative"

func anxiety() []narrative.RuleSet {
	return []narrative.RuleSet{
		{
			Key:   "GAD",
			Title: summary("Generalized Anxiety Disorder"),
			Sections: []narrative.SectionRule{
				{Prefix: "AB", Ref: narrative.Letter()},
				{Prefix: "C", Ref: narrative.Numbered()},
				{Prefix: "DEF", Ref: narrative.Letter()},
			},
			Clauses: []narrative.Clause{
				narrative.On("AB", `The clinical presentation is defined by {{.List "AB"}}.`),
				narrative.On("C", `This state of apprehension is associated with various physiological and cognitive features, including {{.List "C"}}.`),
				narrative.On("DEF", `Diagnostic validity is further supported by the fact that {{.List "DEF"}}.`),
			},
		},
		{
			Key:   "PANIC_DISORDER",
			Title: summary("Panic Disorder"),
			Sections: []narrative.SectionRule{
				{Prefix: "A", Ref: narrative.Numbered()},
				{Prefix: "B", Ref: narrative.Numbered()},
				{Prefix: "CD", Ref: narrative.Letter()},
			},
			Clauses: []narrative.Clause{
				narrative.On("A", `The presentation involves recurrent unexpected panic attacks characterized by {{.List "A"}}.`),
				narrative.On("B", `At least one of the attacks has been followed by one month or more of {{.List "B"}}.`),
				narrative.On("CD", `Differential analysis confirms that the {{.List "CD"}}.`),
			},
		},
		{
			Key:   "SOCIAL_PHOBIA",
			Title: summary("Social Anxiety Disorder (Social Phobia)"),
			Sections: []narrative.SectionRule{
				{Prefix: "A", Ref: narrative.Numbered()},
				{Prefix: "BC", Ref: narrative.Letter()},
				{Prefix: "DE", Ref: narrative.Letter()},
				{Prefix: "FGHI", Ref: narrative.Letter()},
				{Prefix: "SPEC", Ref: narrative.NoRef},
			},
			Clauses: []narrative.Clause{
				narrative.On("A", `The individual presents with marked fear or anxiety regarding {{.List "A"}}.`),
				narrative.On("SPEC", `This is specifically restricted to a **{{.List "SPEC"}}** context.`),
				narrative.On("BC", `This reaction is driven by a {{.List "BC"}}.`),
				narrative.On("DE", `In daily life, these {{.List "DE"}}.`),
				narrative.On("FGHI", `The clinical validity of the diagnosis is supported by findings that {{.List "FGHI"}}.`),
			},
		},
		{
			Key:   "SPECIFIC_PHOBIA",
			Title: summary("Specific Phobia"),
			Sections: []narrative.SectionRule{
				{Prefix: "A", Ref: narrative.Fixed("A1")},
				{Prefix: "BC", Ref: narrative.Letter()},
				{Prefix: "DE", Ref: narrative.Letter()},
				{Prefix: "FG", Ref: narrative.Letter()},
				{Prefix: "SPEC", Ref: narrative.NoRef},
			},
			Clauses: []narrative.Clause{
				narrative.On("A", `The clinical presentation is defined by {{.List "A"}}.`),
				narrative.On("SPEC", `The phobic stimulus falls under the category of {{.List "SPEC"}}.`),
				narrative.On("BC", `Exposure to the stimulus consistently triggers {{.List "BC"}}.`),
				narrative.On("DE", `Diagnostic markers indicate that {{.List "DE"}}.`),
				narrative.On("FG", `Furthermore, {{.List "FG"}}.`),
			},
		},
		{
			Key:   "OCD",
			Title: summary("Obsessive-Compulsive Disorder"),
			Sections: []narrative.SectionRule{
				{Prefix: "A1", Ref: narrative.Lettered()},
				{Prefix: "A2", Ref: narrative.Lettered()},
				{Prefix: "BCD", Ref: narrative.Letter()},
				{Prefix: "SPEC", Ref: narrative.NoRef},
			},
			Clauses: []narrative.Clause{
				narrative.On("A1", `The clinical presentation is characterized by the presence of obsessions, specifically {{.List "A1"}}.`),
				narrative.On("A2", `In response to these intrusions, the individual engages in compulsions manifested as {{.List "A2"}}.`),
				narrative.On("BCD", `These symptoms meet diagnostic thresholds as {{.List "BCD"}}.`),
				narrative.On("SPEC", `The presentation is further specified as {{.List "SPEC"}}.`),
			},
		},
	}
}
