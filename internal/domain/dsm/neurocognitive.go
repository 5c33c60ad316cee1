package dsm

import "github.com/ehr/formulation/internal/domain/narrative"

var etiologyBuckets = []string{"ALZ", "VASC", "LBD", "FTD"}

func anyEtiology(t *narrative.Tally) bool {
	for _, b := range etiologyBuckets {
		if t.Has(b) {
			return true
		}
	}
	return false
}

func neurocognitive() []narrative.RuleSet {
	return []narrative.RuleSet{
		{
			Key:   "NCD",
			Title: summary("Neurocognitive Disorder"),
			TitleVariants: []narrative.TitleVariant{
				{When: narrative.Mentions("B", "major ncd"), Title: summary("Major Neurocognitive Disorder")},
				{When: narrative.Mentions("B", "mild ncd"), Title: summary("Mild Neurocognitive Disorder")},
			},
			Sections: []narrative.SectionRule{
				{Prefix: "A", Ref: narrative.AsFound()},
				{Prefix: "B", Ref: narrative.AsFound()},
				{Prefix: "CD", Ref: narrative.AsFound()},
				{Prefix: "ETIO", Ref: narrative.NoRef},
			},
			Clauses: []narrative.Clause{
				narrative.On("A", `The diagnosis is established by evidence of a {{.List "A"}}.`),
				narrative.On("B", `Regarding functional status, it is noted that the {{.List "B"}}.`),
				narrative.On("ETIO", `The clinical presentation is suspected to be {{.List "ETIO"}}.`),
				narrative.On("CD", `Diagnostic validity is maintained as the {{.List "CD"}}.`),
			},
		},
		{
			Key:   "NCD_FULL",
			Title: summary("Neurocognitive Disorder"),
			TitleVariants: []narrative.TitleVariant{
				{When: narrative.Mentions("SEV", "major"), Title: summary("Major Neurocognitive Disorder")},
				{When: narrative.Mentions("SEV", "mild"), Title: summary("Mild Neurocognitive Disorder")},
			},
			Sections: []narrative.SectionRule{
				{Prefix: "SEV", Ref: narrative.NoRef},
				{Prefix: "DOM", Ref: narrative.NoRef},
				{Prefix: "ALZ", Ref: narrative.NoRef},
				{Prefix: "VASC", Ref: narrative.NoRef},
				{Prefix: "LBD", Ref: narrative.NoRef},
				{Prefix: "FTD", Ref: narrative.NoRef},
				{Prefix: "BASE", Ref: narrative.NoRef},
			},
			Clauses: []narrative.Clause{
				narrative.On("SEV", `The presentation is characterized by {{.List "SEV"}}.`),
				narrative.On("DOM", `Impairments are specifically noted within the following domains: {{.List "DOM"}}.`),
				narrative.On("ALZ", `The profile is consistent with **Alzheimer's disease**, evidenced by {{.List "ALZ"}}.`),
				narrative.On("VASC", `The profile indicates a **Vascular etiology**, manifested by {{.List "VASC"}}.`),
				narrative.On("LBD", `The profile suggests **Lewy Body disease**, based on {{.List "LBD"}}.`),
				narrative.On("FTD", `The profile is consistent with **Frontotemporal degeneration**, showing {{.List "FTD"}}.`),
				narrative.When(narrative.Not(anyEtiology), `The specific etiology remains unspecified at this time.`),
				narrative.On("BASE", `This formulation is confirmed as the {{.List "BASE"}}.`),
			},
		},
	}
}
