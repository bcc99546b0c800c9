package pipeline

import (
	"fmt"

	"github.com/ppiankov/npo/internal/model"
)

const (
	docSALT   = "03_salt_report.pdf.txt"
	docSchool = "07_school_plan.docx.txt"
	docEP     = "12_ep_report.pdf.txt"
	docOT     = "ot_home_visit.pdf.txt"
)

func ann(a model.Annotation) *model.Annotation {
	return &a
}

// mayaCorpus has communication, cognition and SEMH needs and nothing for
// health or social care
func mayaCorpus() *model.Corpus {
	return &model.Corpus{
		Subject:       model.Subject{Name: "Maya", Gender: model.GenderFemale},
		Professionals: []string{"Dr Anita Patel"},
		Fragments: []model.SourceFragment{
			{ID: "ci-n1", Document: docSALT, Kind: model.KindNeed, Need: "ci-vocab", Text: "Maya has a limited expressive vocabulary for her age."},
			{ID: "ci-p1", Document: docSALT, Kind: model.KindProvision, Need: "ci-vocab", Recommendation: "salt", Text: "SALT recommended", Annotation: ann(model.Annotation{Modality: "1:1"})},
			{ID: "ci-s1", Document: docSchool, Kind: model.KindStrength, Text: "Maya enjoys conversations with adults."},
			{ID: "ci-o1", Document: docSALT, Kind: model.KindOutcome, Need: "ci-vocab", Recommendation: "peer-play", Text: "Maya will initiate play with a peer 3 times per week by July 2026."},
			{ID: "semh-n1", Document: docEP, Kind: model.KindNeed, Need: "semh-anxiety", Text: "Maya experiences anxiety when routines change."},
			{ID: "ci-p2", Document: docSchool, Kind: model.KindProvision, Need: "ci-vocab", Recommendation: "salt", Annotation: ann(model.Annotation{Frequency: "weekly", Duration: "30 minutes per session"})},
			{ID: "semh-p1", Document: docEP, Kind: model.KindProvision, Need: "semh-anxiety", Recommendation: "zones", Text: "Zones of Regulation programme delivered by a trained teaching assistant", Annotation: ann(model.Annotation{Frequency: "daily"})},
			{ID: "semh-o1", Document: docEP, Kind: model.KindOutcome, Need: "semh-anxiety", Recommendation: "peer-play", Text: "Maya will start play with a peer 3 times per week by July 2026."},
			{ID: "cl-n1", Document: docSchool, Kind: model.KindNeed, Need: "cl-reading", Text: "Maya's reading age is 18 months below her chronological age."},
			{ID: "cl-p1", Document: docSchool, Kind: model.KindProvision, Need: "cl-reading", Text: "Daily phonics intervention", Annotation: ann(model.Annotation{Personnel: "teaching assistant", Duration: "15 minutes"})},
		},
	}
}

// withSocialCare adds a Social Care need with one statutory and one
// non-statutory provision
func withSocialCare(c *model.Corpus) *model.Corpus {
	c.Fragments = append(c.Fragments,
		model.SourceFragment{ID: "sc-n1", Document: docOT, Kind: model.KindNeed, Need: "sc-bathing", Text: "Maya needs adult help with personal care at home."},
		model.SourceFragment{ID: "sc-p1", Document: docOT, Kind: model.KindProvision, Need: "sc-bathing", Recommendation: "shower", Text: "Level-access shower to be installed", Tags: []string{"home adaptation"}},
		model.SourceFragment{ID: "sc-p2", Document: docSchool, Kind: model.KindProvision, Need: "sc-bathing", Recommendation: "group", Text: "Attendance at a local family support group", Tags: []string{"family support group"}},
	)
	return c
}

// withCognitionNeeds adds n distinct Cognition and Learning needs
func withCognitionNeeds(c *model.Corpus, n int) *model.Corpus {
	for i := 1; i <= n; i++ {
		c.Fragments = append(c.Fragments, model.SourceFragment{
			ID:       fmt.Sprintf("cl-extra-%d", i),
			Document: docSchool,
			Kind:     model.KindNeed,
			Need:     fmt.Sprintf("cl-extra-%d", i),
			Text:     fmt.Sprintf("Maya finds spelling list %d difficult.", i),
		})
	}
	return c
}
