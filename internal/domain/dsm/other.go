package dsm

import (
	"fmt"

	"github.com/ehr/formulation/internal/domain/narrative"
)

// sexDysGates are the B, C, D1, D2 and D3 items, all of which are mandatory.
const sexDysGates = 5

func other() []narrative.RuleSet {
	noPrimary := narrative.All(narrative.Empty("ED"), narrative.Empty("FSIAD"), narrative.Empty("GPP"))
	fsiadPrimary := narrative.All(narrative.Empty("ED"), narrative.Has("FSIAD"))

	return []narrative.RuleSet{
		{
			Key:   "ANOREXIA",
			Title: "**Diagnostic Formulation: Anorexia Nervosa**",
			Sections: []narrative.SectionRule{
				{Prefix: "A", Ref: narrative.NoRef},
				{Prefix: "GATE", Ref: narrative.NoRef},
			},
			Gates: []narrative.Gate{
				{When: narrative.Below("A", 3), Alert: "Insufficient symptoms selected for Criterion A (3 required)"},
				{When: narrative.Empty("GATE"), Alert: "Physical/Duration requirements not confirmed"},
			},
			Clauses: []narrative.Clause{
				narrative.On("A", `The presentation is characterized by {{.List "A"}}.`),
				narrative.On("GATE", `This is clinically confirmed by {{.List "GATE"}}.`),
			},
			Warning: `**Clinical Note:** Full diagnostic criteria not yet satisfied: {{.Alerts}}.`,
		},
		{
			Key:   "SEX_DYS_EXHAUSTIVE",
			Title: "**Comprehensive Diagnostic Formulation**",
			Sections: []narrative.SectionRule{
				{Prefix: "ED", Ref: narrative.NoRef},
				{Prefix: "FSIAD", Ref: narrative.NoRef},
				{Prefix: "GPP", Ref: narrative.NoRef},
				{Prefix: "GATE", Ref: narrative.NoRef},
			},
			Gates: []narrative.Gate{
				{When: narrative.All(fsiadPrimary, narrative.Below("FSIAD", 3)), Alert: "threshold for FSIAD (3 symptoms) not met"},
				{When: noPrimary, Alert: "no primary symptom (Criterion A) selected"},
				{When: narrative.Below("GATE", sexDysGates), Alert: fmt.Sprintf(`{{.Missing "GATE" %d}} mandatory gate(s) (Duration/Distress/Exclusions) missing`, sexDysGates)},
			},
			// only the first populated primary domain is reported
			Clauses: []narrative.Clause{
				narrative.On("ED", `Erectile dysfunction symptoms include {{.List "ED"}}.`),
				narrative.When(fsiadPrimary, `Female sexual interest/arousal deficits are manifested by {{.List "FSIAD"}}.`),
				narrative.When(narrative.All(narrative.Empty("ED"), narrative.Empty("FSIAD"), narrative.Has("GPP")), `Genito-pelvic pain/penetration difficulties are evidenced by {{.List "GPP"}}.`),
				narrative.On("GATE", `The clinical requirements are satisfied as the {{.List "GATE"}}.`),
			},
			Warning: `**Clinical Warning:** Full diagnostic criteria for a formal Sexual Dysfunction are not yet satisfied due to: {{.Alerts}}.`,
		},
		{
			Key:   "SLEEP_WAKE",
			Title: summary("Sleep-Wake Disorder"),
			TitleVariants: []narrative.TitleVariant{
				{When: narrative.Has("INS"), Title: summary("Insomnia Disorder")},
				{When: narrative.Has("NARC"), Title: summary("Narcolepsy")},
			},
			Sections: []narrative.SectionRule{
				{Prefix: "INS", Ref: narrative.NoRef},
				{Prefix: "NARC", Ref: narrative.NoRef},
				{Prefix: "DUR", Ref: narrative.NoRef},
				{Prefix: "EXCL", Ref: narrative.NoRef},
			},
			Clauses: []narrative.Clause{
				narrative.On("INS", `The individual reports significant dissatisfaction with sleep quantity or quality, specifically {{.List "INS"}}.`),
				narrative.On("NARC", `The presentation is marked by {{.List "NARC"}}.`),
				narrative.On("DUR", `The sleep disturbance is chronic, noted to {{.List "DUR"}}.`),
				narrative.On("EXCL", `The clinical formulation is confirmed as the {{.List "EXCL"}}.`),
			},
		},
	}
}
