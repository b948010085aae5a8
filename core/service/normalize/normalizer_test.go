package normalize

import (
	"strings"
	"testing"
)

func TestNormalize(t *testing.T) {
	opts := DefaultOptions()

	tests := []struct {
		name    string
		subject string
		body    string
		check   func(t *testing.T, subject, body string)
	}{
		{
			name:    "strips html tags and entities",
			subject: "  Quarterly report  ",
			body:    "<html><head><style>p{color:red}</style></head><body><p>Numbers are &gt; last year&#39;s.</p></body></html>",
			check: func(t *testing.T, subject, body string) {
				if subject != "Quarterly report" {
					t.Errorf("subject = %q", subject)
				}
				if strings.Contains(body, "<") || strings.Contains(body, "color:red") {
					t.Errorf("body still contains HTML: %q", body)
				}
				if !strings.Contains(body, "Numbers are > last year's.") {
					t.Errorf("entities not decoded: %q", body)
				}
			},
		},
		{
			name:    "removes quoted reply below header",
			subject: "Re: schedule",
			body:    "Works for me.\n\nOn Mon, Aug 3, 2026 at 9:00 AM Dana wrote:\n> Can we move the call?\n> Thanks",
			check: func(t *testing.T, _, body string) {
				if strings.Contains(body, "Can we move") || strings.Contains(body, "wrote:") {
					t.Errorf("quoted reply not removed: %q", body)
				}
				if !strings.Contains(body, "Works for me.") {
					t.Errorf("new content lost: %q", body)
				}
			},
		},
		{
			name:    "removes signature block",
			subject: "Update",
			body:    "Shipping tomorrow.\n\n-- \nJordan Reyes\nVP Operations\n555-0100",
			check: func(t *testing.T, _, body string) {
				if strings.Contains(body, "Jordan Reyes") || strings.Contains(body, "555-0100") {
					t.Errorf("signature not removed: %q", body)
				}
			},
		},
		{
			name:    "removes confidentiality disclaimer",
			subject: "Contract",
			body:    "Draft attached.\n\nThis email and any attachments are confidential and intended solely for the addressee.",
			check: func(t *testing.T, _, body string) {
				if strings.Contains(body, "confidential") {
					t.Errorf("disclaimer not removed: %q", body)
				}
				if !strings.Contains(body, "Draft attached.") {
					t.Errorf("content lost: %q", body)
				}
			},
		},
		{
			name:    "removes inline image placeholders",
			subject: "Screenshot",
			body:    "See below [image: dashboard.png] for details. [cid:logo123]",
			check: func(t *testing.T, _, body string) {
				if strings.Contains(body, "[image") || strings.Contains(body, "[cid") {
					t.Errorf("inline placeholders remain: %q", body)
				}
			},
		},
		{
			name:    "truncates long bodies after cleaning",
			subject: "Long",
			body:    strings.Repeat("word ", 2000),
			check: func(t *testing.T, _, body string) {
				if len(body) > opts.MaxLength {
					t.Errorf("body length = %d, want <= %d", len(body), opts.MaxLength)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			subject, body := Normalize(tt.subject, tt.body, opts)
			tt.check(t, subject, body)
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	opts := DefaultOptions()
	raw := "<p>Please review the attached report.</p>\n\nOn Tue Sep 1 2026 Alex wrote:\n> older text\n\n-- \nSig"

	s1, b1 := Normalize("Report", raw, opts)
	s2, b2 := Normalize(s1, b1, opts)

	if s1 != s2 || b1 != b2 {
		t.Errorf("second pass changed output:\nfirst  = %q / %q\nsecond = %q / %q", s1, b1, s2, b2)
	}
}
