package render

import (
	"testing"
)

func TestClean(t *testing.T) {
	tests := []struct {
		desc string
		in   string
		want string
	}{
		{desc: "single tag", in: "Maya enjoys art. [SOURCE: 19_school.pdf.txt]", want: "Maya enjoys art."},
		{desc: "several documents", in: "Weekly SALT. [SOURCE: a.pdf.txt, b.docx.txt]\nNext line", want: "Weekly SALT.\nNext line"},
		{desc: "no tags", in: "**Health Care Outcome 1:** Not applicable", want: "**Health Care Outcome 1:** Not applicable"},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			if got := Clean(tt.in); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFactMapper(t *testing.T) {
	tests := []struct {
		desc string
		in   string
		want string
	}{
		{
			desc: "prefix and suffix",
			in:   "Text. [SOURCE: 19_ep_report.pdf.txt]",
			want: "Text. [SOURCE: ep_report]",
		},
		{
			desc: "several names",
			in:   "Text. [SOURCE: 3_salt.docx.txt,  school_plan.pdf.txt]",
			want: "Text. [SOURCE: salt, school_plan]",
		},
		{
			desc: "plain name untouched",
			in:   "Text. [SOURCE: parent views]",
			want: "Text. [SOURCE: parent views]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			if got := FactMapper(tt.in); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestShortName(t *testing.T) {
	if got := ShortName("07_gp_letter.pdf.txt"); got != "gp_letter" {
		t.Errorf("got %q", got)
	}
}
