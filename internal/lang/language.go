// Package lang normalizes subtitle language codes and picks the best
// caption track for a requested language.
package lang

import (
	"fmt"
	"strings"

	"github.com/alnah/go-captions/internal/cue"
)

// validLanguages contains ISO 639-1 codes commonly seen on YouTube caption
// tracks. Not exhaustive; locales with any of these base codes validate.
var validLanguages = map[string]bool{
	"af": true, "ar": true, "bg": true, "bn": true, "ca": true,
	"cs": true, "da": true, "de": true, "el": true, "en": true,
	"es": true, "et": true, "fa": true, "fi": true, "fr": true,
	"gu": true, "he": true, "hi": true, "hr": true, "hu": true,
	"id": true, "it": true, "ja": true, "kn": true, "ko": true,
	"lt": true, "lv": true, "mk": true, "ml": true, "mr": true,
	"ms": true, "nl": true, "no": true, "pa": true, "pl": true,
	"pt": true, "ro": true, "ru": true, "sk": true, "sl": true,
	"sr": true, "sv": true, "sw": true, "ta": true, "te": true,
	"th": true, "tl": true, "tr": true, "uk": true, "ur": true,
	"vi": true, "zh": true,
}

// Normalize normalizes a language code to lowercase with hyphen separator.
// Accepts: "pt-BR", "pt_BR", "PT-BR", "pt-br" -> "pt-br"
func Normalize(lang string) string {
	return strings.ToLower(strings.ReplaceAll(lang, "_", "-"))
}

// Validate checks if the language code is valid.
// Accepts ISO 639-1 codes (e.g., "en", "fr") and locales (e.g., "pt-BR").
// Returns ErrInvalid if the base language is not recognized.
func Validate(lang string) error {
	if lang == "" {
		return nil // Empty means default, which is valid
	}

	if !validLanguages[BaseCode(lang)] {
		return fmt.Errorf("invalid language code %q (use ISO 639-1 codes like 'en', 'fr', 'pt-BR'): %w",
			lang, ErrInvalid)
	}

	return nil
}

// BaseCode extracts the ISO 639-1 base language code from a locale.
// Examples: "pt-BR" -> "pt", "zh-CN" -> "zh", "en" -> "en"
func BaseCode(lang string) string {
	if lang == "" {
		return ""
	}
	normalized := Normalize(lang)
	if idx := strings.Index(normalized, "-"); idx != -1 {
		return normalized[:idx]
	}
	return normalized
}

// Matches reports whether a track's language code satisfies a requested
// language: exact normalized match, or same base code.
func Matches(trackCode, requested string) bool {
	if requested == "" {
		return true
	}
	t := Normalize(trackCode)
	r := Normalize(requested)
	return t == r || BaseCode(t) == BaseCode(r)
}

// PickTrack selects the best caption track for a requested language.
// Preference order: exact language match before base-code match, and
// manually authored captions before ASR within the same match tier.
// Returns false when no track matches.
func PickTrack(tracks []cue.CaptionTrack, requested string) (cue.CaptionTrack, bool) {
	var best cue.CaptionTrack
	bestScore := -1

	for _, t := range tracks {
		if !Matches(t.LangCode, requested) {
			continue
		}
		score := 0
		if Normalize(t.LangCode) == Normalize(requested) {
			score += 2
		}
		if t.Kind == cue.KindManual {
			score++
		}
		if score > bestScore {
			best = t
			bestScore = score
		}
	}

	return best, bestScore >= 0
}
