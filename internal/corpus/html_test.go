package corpus

import "testing"

func TestVisibleText(t *testing.T) {
	tests := []struct {
		desc string
		in   string
		want string
	}{
		{desc: "plain text", in: "  Maya   enjoys\nart. ", want: "Maya enjoys art."},
		{desc: "inline markup", in: "<p>Maya <b>enjoys</b> art.</p>", want: "Maya enjoys art."},
		{desc: "entities", in: "<p>Speech &amp; language therapy</p>", want: "Speech & language therapy"},
		{desc: "blocks do not merge", in: "<ul><li>Weekly SALT</li><li>Visual timetable</li></ul>", want: "Weekly SALT Visual timetable"},
		{desc: "scripts dropped", in: "<div>Daily check-in<script>track()</script></div>", want: "Daily check-in"},
		{desc: "line break", in: "Reading age 6<br/>Spelling age 5", want: "Reading age 6 Spelling age 5"},
		{desc: "comparison is not markup", in: "Scores < 70 and > 50 are flagged", want: "Scores < 70 and > 50 are flagged"},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			got, err := VisibleText(tt.in)
			if err != nil {
				t.Fatalf("VisibleText: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
