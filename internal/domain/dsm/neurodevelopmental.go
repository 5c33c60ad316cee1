package dsm

import "github.com/ehr/formulation/internal/domain/narrative"

func neurodevelopmental() []narrative.RuleSet {
	return []narrative.RuleSet{
		{
			Key:   "ADHD",
			Title: summary("Attention-Deficit/Hyperactivity Disorder"),
			Sections: []narrative.SectionRule{
				{Prefix: "A1", Ref: narrative.Lettered()},
				{Prefix: "A2", Ref: narrative.Lettered()},
				{Prefix: "BE", Ref: narrative.Letter()},
			},
			Clauses: []narrative.Clause{
				narrative.On("A1", `The individual demonstrates a persistent pattern of inattention, evidenced by {{.List "A1"}}.`),
				narrative.On("A2", `The clinical picture also includes symptoms of hyperactivity and impulsivity, specifically {{.List "A2"}}.`),
				narrative.On("BE", `Diagnostic threshold is met as {{.List "BE"}}.`),
				narrative.When(narrative.All(narrative.Has("A1"), narrative.Has("A2")), `This clinical profile is consistent with the **Combined Presentation**.`),
				narrative.When(narrative.All(narrative.Has("A1"), narrative.Empty("A2")), `This clinical profile is consistent with the **Predominantly Inattentive Presentation**.`),
				narrative.When(narrative.All(narrative.Empty("A1"), narrative.Has("A2")), `This clinical profile is consistent with the **Predominantly Hyperactive/Impulsive Presentation**.`),
			},
		},
	}
}
