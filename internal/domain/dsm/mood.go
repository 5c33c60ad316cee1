package dsm

import "github.com/ehr/formulation/internal/domain/narrative"

func mood() []narrative.RuleSet {
	return []narrative.RuleSet{
		{
			Key:   "MDD",
			Title: summary("Major Depressive Disorder"),
			Sections: []narrative.SectionRule{
				{Prefix: "A", Ref: narrative.Numbered()},
				{Prefix: "BC", Ref: narrative.Letter()},
				// clinical specifiers share the D/E section but carry no letter
				{Prefix: "DE", Ref: narrative.Letter(), Uncoded: "SPEC"},
			},
			Clauses: []narrative.Clause{
				narrative.On("A", `The clinical presentation is characterized by {{.Count "A"}} depressive symptoms, notably {{.List "A"}}.`),
				narrative.On("BC", `The reported symptoms result in {{.List "BC"}}.`),
				narrative.On("DE", `Differential considerations indicate that the {{.List "DE"}}.`),
				narrative.On("SPEC", `The episode is further characterized by {{.List "SPEC"}}.`),
			},
		},
		{
			Key:   "PDD",
			Title: summary("Persistent Depressive Disorder (Dysthymia)"),
			Sections: []narrative.SectionRule{
				{Prefix: "A", Ref: narrative.Fixed("A")},
				{Prefix: "B", Ref: narrative.Numbered()},
				{Prefix: "CD", Ref: narrative.Letter()},
				{Prefix: "EH", Ref: narrative.Letter()},
			},
			Clauses: []narrative.Clause{
				narrative.On("A", `The presentation is defined by a chronic {{.List "A"}}.`),
				narrative.On("B", `While depressed, the individual exhibits {{.List "B"}}.`),
				narrative.On("CD", `The longitudinal course is established by the fact that {{.List "CD"}}.`),
				narrative.On("EH", `Clinical validity is confirmed as {{.List "EH"}}.`),
			},
		},
		{
			Key:   "BIPOLAR_I",
			Title: summary("Bipolar I Disorder, Manic Episode"),
			Sections: []narrative.SectionRule{
				{Prefix: "A", Ref: narrative.Numbered()},
				{Prefix: "B", Ref: narrative.Numbered()},
				{Prefix: "CD", Ref: narrative.Letter()},
			},
			Clauses: []narrative.Clause{
				narrative.On("A", `The individual is currently presenting with a distinct period of mood disturbance characterized by {{.List "A"}}. This period has persisted for at least one week and is present most of the day, nearly every day.`),
				narrative.On("B", `During this interval of increased energy, the clinical picture is further complicated by {{.List "B"}}.`),
				narrative.On("CD", `The severity of this episode is clinically significant, as evidenced by the fact that the {{.List "CD"}}.`),
			},
		},
		{
			Key:   "BIPOLAR_II",
			Title: summary("Bipolar II Disorder"),
			Sections: []narrative.SectionRule{
				{Prefix: "B", Ref: narrative.Numbered()},
				{Prefix: "A", Ref: narrative.Fixed("A")},
				{Prefix: "CDE", Ref: narrative.Letter()},
				{Prefix: "MDE", Ref: narrative.NoRef},
				{Prefix: "X", Ref: narrative.Letter()},
			},
			Clauses: []narrative.Clause{
				narrative.On("MDE", `The clinical history is marked by the {{.List "MDE"}}.`),
				narrative.On("A", `Diagnostic criteria for a hypomanic episode are met, defined by {{.List "A"}}.`),
				narrative.On("B", `During this period, the individual has consistently exhibited {{.List "B"}}.`),
				narrative.On("CDE", `The hypomanic presentation is further validated by several clinical markers: {{.List "CDE"}}.`),
				narrative.On("X", `Differential diagnosis is confirmed by the fact that {{.List "X"}}.`),
			},
		},
		{
			Key:   "UnspecDep",
			Title: "Unspecified Depressive Disorder – DSM-5-TR Documentation Snippet",
			Style: narrative.Documentation,
			Sections: []narrative.SectionRule{
				{Prefix: "A", Ref: narrative.NoRef},
				{Prefix: "B", Ref: narrative.NoRef},
			},
			Clauses: []narrative.Clause{
				narrative.On("A", `Criterion A (Depressive Features): The client presents with features of a depressive disorder, as evidenced by: {{.Series "A"}}.`),
				narrative.On("B", unspecifiedReason),
			},
		},
	}
}

const unspecifiedReason = `Criterion B (Unspecified Reason): The diagnosis is designated as "unspecified" because: {{.Series "B"}}.`
