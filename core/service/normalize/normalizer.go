// Package normalize cleans raw email content before classification and
// embedding.
package normalize

import (
	"regexp"
	"strings"
)

// Options toggles individual cleaning passes. Truncation always runs last.
type Options struct {
	StripHTML           bool
	RemoveQuotedReplies bool
	RemoveSignatures    bool
	RemoveDisclaimers   bool
	RemoveInlineContent bool
	MaxLength           int
}

// DefaultOptions enables every pass with the default body cap.
func DefaultOptions() Options {
	return Options{
		StripHTML:           true,
		RemoveQuotedReplies: true,
		RemoveSignatures:    true,
		RemoveDisclaimers:   true,
		RemoveInlineContent: true,
		MaxLength:           3000,
	}
}

var (
	htmlTagRe    = regexp.MustCompile(`(?s)<[^>]+>`)
	htmlStyleRe  = regexp.MustCompile(`(?is)<(style|script|head)[^>]*>.*?</(style|script|head)>`)
	whitespaceRe = regexp.MustCompile(`[ \t]+`)
	blankLinesRe = regexp.MustCompile(`\n{3,}`)

	quotedLineRe  = regexp.MustCompile(`(?m)^>.*$`)
	quoteHeaderRe = regexp.MustCompile(`(?im)^on .{1,100} wrote:\s*$`)
	forwardRe     = regexp.MustCompile(`(?im)^-{2,}\s*(original message|forwarded message)\s*-{2,}.*$`)

	signatureRe = regexp.MustCompile(`(?ms)^--\s*$.*\z`)
	closingRe   = regexp.MustCompile(`(?ims)^(best regards|kind regards|regards|thanks|thank you|sincerely|cheers|sent from my)\b[,.!]?\s*$.*\z`)

	disclaimerRe = regexp.MustCompile(`(?ims)^.{0,10}(this e-?mail (and any attachments )?(is|are|may be) confidential|confidentiality notice|legal disclaimer|if you are not the intended recipient).*\z`)

	inlineImageRe = regexp.MustCompile(`(?i)\[(image|cid|inline)[^\]]*\]`)
	dataURIRe     = regexp.MustCompile(`data:[a-z]+/[a-z0-9.+-]+;base64,[A-Za-z0-9+/=]+`)

	htmlEntities = strings.NewReplacer(
		"&nbsp;", " ",
		"&amp;", "&",
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", `"`,
		"&#39;", "'",
	)
)

// Normalize cleans a subject and body. Passes run in a fixed order: HTML
// stripping first so text passes see plain text, truncation last so the
// cap applies to the cleaned result. Idempotent for the default options.
func Normalize(rawSubject, rawBody string, opts Options) (string, string) {
	subject := strings.TrimSpace(rawSubject)
	body := rawBody

	if opts.StripHTML {
		body = stripHTML(body)
	}
	if opts.RemoveQuotedReplies {
		body = removeQuotedReplies(body)
	}
	if opts.RemoveSignatures {
		body = removeSignatures(body)
	}
	if opts.RemoveDisclaimers {
		body = disclaimerRe.ReplaceAllString(body, "")
	}
	if opts.RemoveInlineContent {
		body = inlineImageRe.ReplaceAllString(body, "")
		body = dataURIRe.ReplaceAllString(body, "")
	}

	body = collapseWhitespace(body)

	if opts.MaxLength > 0 && len(body) > opts.MaxLength {
		body = body[:opts.MaxLength]
	}

	return subject, body
}

func stripHTML(s string) string {
	s = htmlStyleRe.ReplaceAllString(s, " ")
	s = htmlTagRe.ReplaceAllString(s, " ")
	s = htmlEntities.Replace(s)
	return s
}

func removeQuotedReplies(s string) string {
	s = forwardRe.ReplaceAllString(s, "")
	// Drop everything below a reply header line, then any stray "> " lines.
	if loc := quoteHeaderRe.FindStringIndex(s); loc != nil {
		s = s[:loc[0]]
	}
	s = quotedLineRe.ReplaceAllString(s, "")
	return s
}

func removeSignatures(s string) string {
	s = signatureRe.ReplaceAllString(s, "")
	s = closingRe.ReplaceAllString(s, "")
	return s
}

func collapseWhitespace(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = whitespaceRe.ReplaceAllString(s, " ")
	s = blankLinesRe.ReplaceAllString(s, "\n\n")

	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	s = strings.Join(lines, "\n")
	s = blankLinesRe.ReplaceAllString(s, "\n\n")

	return strings.TrimSpace(s)
}
