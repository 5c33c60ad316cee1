package dsm

import "github.com/ehr/formulation/internal/domain/narrative"

func trauma() []narrative.RuleSet {
	return []narrative.RuleSet{
		{
			Key:   "PTSD",
			Title: summary("Posttraumatic Stress Disorder"),
			Sections: []narrative.SectionRule{
				{Prefix: "A", Ref: narrative.Numbered()},
				{Prefix: "B", Ref: narrative.Numbered()},
				{Prefix: "C", Ref: narrative.Numbered()},
				{Prefix: "D", Ref: narrative.Numbered()},
				{Prefix: "E", Ref: narrative.Numbered()},
				{Prefix: "FH", Ref: narrative.Letter(), Uncoded: "SPEC"},
			},
			Clauses: []narrative.Clause{
				narrative.On("A", `The individual’s history includes exposure to actual or threatened death, serious injury, or sexual violence through {{.List "A"}}.`),
				narrative.On("B", `Following the trauma, the clinical picture is marked by intrusive symptoms, including {{.List "B"}}.`),
				narrative.On("C", `Persistent avoidance of trauma-related stimuli is evidenced by {{.List "C"}}.`),
				narrative.On("D", `Negative alterations in cognition and mood began or worsened after the event, specifically {{.List "D"}}.`),
				narrative.On("E", `Marked alterations in arousal and reactivity are present, characterized by {{.List "E"}}.`),
				narrative.On("FH", `Further diagnostic requirements are met as {{.List "FH"}}.`),
				narrative.On("SPEC", `The presentation is further characterized by {{.List "SPEC"}}.`),
			},
		},
		{
			Key:   "ACUTE_STRESS",
			Title: summary("Acute Stress Disorder"),
			Sections: []narrative.SectionRule{
				{Prefix: "A", Ref: narrative.Fixed("A")},
				{Prefix: "B", Ref: narrative.Numbered()},
				{Prefix: "CDE", Ref: narrative.Letter()},
			},
			Clauses: []narrative.Clause{
				narrative.On("A", `Following {{.List "A"}}, the individual has developed a cluster of traumatic stress symptoms.`),
				narrative.On("B", `Clinical evaluation identifies {{.Count "B"}} symptoms across the intrusion, mood, dissociative, avoidance, and arousal categories, specifically: {{.List "B"}}.`),
				narrative.On("CDE", `The diagnostic framework is confirmed as {{.List "CDE"}}.`),
			},
		},
		{
			Key:   "ADJUSTMENT",
			Title: summary("Adjustment Disorder"),
			Sections: []narrative.SectionRule{
				{Prefix: "A", Ref: narrative.Fixed("A")},
				{Prefix: "B", Ref: narrative.Numbered()},
				{Prefix: "CDE", Ref: narrative.Letter()},
				{Prefix: "SUB", Ref: narrative.NoRef},
			},
			Clauses: []narrative.Clause{
				narrative.On("A", `The clinical presentation is marked by the {{.List "A"}}.`),
				narrative.On("SUB", `The symptomatic profile is characterized by a presentation {{.List "SUB"}}.`),
				narrative.On("B", `The clinical significance of this reaction is evidenced by {{.List "B"}}.`),
				narrative.On("CDE", `Diagnostic validity is maintained as the {{.List "CDE"}}.`),
			},
		},
		{
			Key:   "UnspecTrauma",
			Title: "Unspecified Trauma- and Stressor-Related Disorder – DSM-5-TR Documentation Snippet",
			Style: narrative.Documentation,
			Sections: []narrative.SectionRule{
				{Prefix: "A", Verbatim: true},
				{Prefix: "B", Verbatim: true},
			},
			Clauses: []narrative.Clause{
				narrative.On("A", `Criterion A (Trauma/Stressor Features): The client presents with symptoms characteristic of a trauma- or stressor-related disorder, as evidenced by: {{.Series "A"}}.`),
				narrative.On("B", unspecifiedReason),
			},
		},
	}
}
