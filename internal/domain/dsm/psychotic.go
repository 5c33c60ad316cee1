package dsm

import "github.com/ehr/formulation/internal/domain/narrative"

func psychotic() []narrative.RuleSet {
	return []narrative.RuleSet{
		{
			Key:   "SCHIZOPHRENIA",
			Title: summary("Schizophrenia"),
			Sections: []narrative.SectionRule{
				{Prefix: "A", Ref: narrative.Numbered()},
				{Prefix: "BCD", Ref: narrative.Letter()},
				{Prefix: "EF", Ref: narrative.Letter()},
			},
			Clauses: []narrative.Clause{
				narrative.On("A", `The clinical presentation is marked by active-phase symptoms, including {{.List "A"}}.`),
				narrative.On("BCD", `The course of the illness is further characterized by {{.List "BCD"}}.`),
				narrative.On("EF", `Diagnostic certainty is supported by the exclusion of external factors, specifically that the {{.List "EF"}}.`),
			},
		},
		{
			Key:   "SCHIZOAFFECTIVE",
			Title: summary("Schizoaffective Disorder"),
			Sections: []narrative.SectionRule{
				{Prefix: "A", Ref: narrative.Numbered()},
				{Prefix: "B", Ref: narrative.Fixed("B")},
				{Prefix: "C", Ref: narrative.Fixed("C")},
				{Prefix: "SPEC", Ref: narrative.NoRef},
			},
			Clauses: []narrative.Clause{
				narrative.On("A", `The diagnostic profile is characterized by {{.List "A"}}.`),
				narrative.On("B", `Crucially, the independent nature of the psychosis is confirmed by the presence of {{.List "B"}}.`),
				narrative.On("C", `The longitudinal course is further validated because {{.List "C"}}.`),
				narrative.On("SPEC", `The presentation is categorized as the {{.List "SPEC"}}.`),
			},
		},
		{
			Key:   "DELUSIONAL",
			Title: summary("Delusional Disorder"),
			Sections: []narrative.SectionRule{
				{Prefix: "A", Ref: narrative.Letter()},
				{Prefix: "BCD", Ref: narrative.Letter()},
				{Prefix: "E", Ref: narrative.Letter()},
				{Prefix: "TYPE", Ref: narrative.NoRef},
			},
			Clauses: []narrative.Clause{
				// the delusional type is only reported alongside the core delusion
				narrative.On("A", `The clinical picture is defined by the {{.List "A"}}{{if .Has "TYPE"}} of the {{.List "TYPE"}}{{end}}.`),
				narrative.On("BCD", `Crucial to this diagnosis is the observation that {{.List "BCD"}}.`),
				narrative.On("E", `The diagnosis is confirmed as {{.List "E"}}.`),
			},
		},
	}
}
