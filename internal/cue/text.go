package cue

import (
	"regexp"
	"strings"
)

var (
	// tagPattern matches HTML-like markup, including YouTube's per-word
	// timing tags (<00:00:01.790><c> ... </c>) that leak into ASR VTT.
	tagPattern = regexp.MustCompile(`<[^>]*>`)

	// timestampPattern matches timestamp-looking substrings embedded in
	// visible text.
	timestampPattern = regexp.MustCompile(`\d{1,2}:\d{2}:\d{2}(?:\.\d{3})?`)

	// entityPattern matches candidate HTML entities. Unknown entities are
	// left untouched by DecodeEntities.
	entityPattern = regexp.MustCompile(`&[a-zA-Z0-9#]+;`)

	spacePattern = regexp.MustCompile(`\s+`)
)

// entities maps the standard five HTML entities (plus the apostrophe and
// non-breaking-space variants) to their replacements.
var entities = map[string]string{
	"&amp;":  "&",
	"&lt;":   "<",
	"&gt;":   ">",
	"&quot;": `"`,
	"&#39;":  "'",
	"&apos;": "'",
	"&nbsp;": " ",
}

// DecodeEntities replaces known HTML entities in text. Entities outside the
// standard set pass through unchanged.
func DecodeEntities(text string) string {
	return entityPattern.ReplaceAllStringFunc(text, func(e string) string {
		if r, ok := entities[e]; ok {
			return r
		}
		return e
	})
}

// StripTags removes HTML-like tag substrings.
func StripTags(text string) string {
	return tagPattern.ReplaceAllString(text, "")
}

// StripTimestamps removes embedded timestamp-looking substrings.
func StripTimestamps(text string) string {
	return timestampPattern.ReplaceAllString(text, "")
}

// CollapseSpace collapses whitespace runs to single spaces and trims.
func CollapseSpace(text string) string {
	return strings.TrimSpace(spacePattern.ReplaceAllString(text, " "))
}

// NormalizeText runs the full cleaning pass over cue text: strip markup,
// strip embedded timestamps, decode entities, collapse whitespace.
func NormalizeText(text string) string {
	text = StripTags(text)
	text = StripTimestamps(text)
	text = DecodeEntities(text)
	return CollapseSpace(text)
}

// foldText lowercases and collapses whitespace for comparison purposes.
func foldText(text string) string {
	return CollapseSpace(strings.ToLower(text))
}

// SameText reports whether two cue texts are identical after case folding
// and whitespace normalization.
func SameText(a, b string) bool {
	return foldText(a) == foldText(b)
}

// ContainsText reports whether the folded form of inner occurs inside the
// folded form of outer.
func ContainsText(outer, inner string) bool {
	return strings.Contains(foldText(outer), foldText(inner))
}
