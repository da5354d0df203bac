package pipeline

import (
	"math"
	"sort"
	"strings"

	"github.com/alnah/go-captions/internal/cue"
)

// Post-processing defaults.
const (
	// DefaultMaxSegmentLength is the duration (seconds) above which a cue
	// is split into equal-duration chunks.
	DefaultMaxSegmentLength = 300.0

	// minTextLength is the shortest cue text kept after normalization.
	minTextLength = 3

	// mergeGap is the largest gap (seconds) across which adjacent cues are
	// merged.
	mergeGap = 2.0

	// mergeMaxChars caps the combined text length of a merge, preventing
	// runaway accumulation over long quiet stretches.
	mergeMaxChars = 500
)

// Options configures the Clean pass. The zero value is not useful; start
// from DefaultOptions.
type Options struct {
	// RemoveTags strips markup and embedded timestamps from cue text.
	RemoveTags bool

	// RemoveTimestamps strips timestamp-looking substrings even when
	// RemoveTags is off.
	RemoveTimestamps bool

	// Deduplicate runs a loose overlap-collapse pass (identical or
	// contained texts merge).
	Deduplicate bool

	// MergeSegments merges adjacent cues separated by small gaps.
	MergeSegments bool

	// MaxSegmentLength is the split threshold in seconds.
	MaxSegmentLength float64
}

// DefaultOptions returns the standard cleaning configuration: everything on,
// 300-second split threshold.
func DefaultOptions() Options {
	return Options{
		RemoveTags:       true,
		RemoveTimestamps: true,
		Deduplicate:      true,
		MergeSegments:    true,
		MaxSegmentLength: DefaultMaxSegmentLength,
	}
}

// Clean is the segment post-processor: a second, origin-agnostic cleaning
// pass over parsed cues. It normalizes text, drops degenerate and too-short
// cues, optionally collapses overlaps, merges small-gap neighbors, and
// always splits cues longer than MaxSegmentLength.
func Clean(cues []cue.Cue, opts Options) []cue.Cue {
	if opts.MaxSegmentLength <= 0 {
		opts.MaxSegmentLength = DefaultMaxSegmentLength
	}

	cleaned := make([]cue.Cue, 0, len(cues))
	for _, c := range cues {
		switch {
		case opts.RemoveTags:
			c.Text = cue.NormalizeText(c.Text)
		case opts.RemoveTimestamps:
			c.Text = cue.CollapseSpace(cue.StripTimestamps(c.Text))
		default:
			c.Text = cue.CollapseSpace(c.Text)
		}
		if len(strings.TrimSpace(c.Text)) < minTextLength || c.Degenerate() {
			continue
		}
		cleaned = append(cleaned, c)
	}

	if opts.Deduplicate {
		cleaned = collapseOverlaps(cleaned)
	}
	if opts.MergeSegments {
		cleaned = mergeAdjacent(cleaned)
	}

	return splitLong(cleaned, opts.MaxSegmentLength)
}

// collapseOverlaps merges a cue into its predecessor when they overlap in
// time and one text contains the other (or they are identical). Looser than
// DedupeCues: no gap tolerance, no duration-weighted text choice — just the
// longer text and the union of the spans.
func collapseOverlaps(cues []cue.Cue) []cue.Cue {
	if len(cues) == 0 {
		return cues
	}

	sorted := make([]cue.Cue, len(cues))
	copy(sorted, cues)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Start < sorted[j].Start
	})

	out := []cue.Cue{sorted[0]}
	for _, c := range sorted[1:] {
		last := &out[len(out)-1]

		overlapping := c.Start < last.End
		related := cue.SameText(c.Text, last.Text) ||
			cue.ContainsText(c.Text, last.Text) ||
			cue.ContainsText(last.Text, c.Text)

		if overlapping && related {
			if len(c.Text) > len(last.Text) {
				last.Text = c.Text
			}
			last.End = math.Max(last.End, c.End)
			continue
		}
		out = append(out, c)
	}
	return out
}

// mergeAdjacent joins neighbors whose gap is at most mergeGap seconds as
// long as the combined text stays under mergeMaxChars.
func mergeAdjacent(cues []cue.Cue) []cue.Cue {
	if len(cues) == 0 {
		return cues
	}

	out := make([]cue.Cue, 0, len(cues))
	current := cues[0]

	for _, next := range cues[1:] {
		gap := next.Start - current.End
		combined := len(current.Text) + 1 + len(next.Text)

		if gap <= mergeGap && combined < mergeMaxChars {
			current.Text = current.Text + " " + next.Text
			current.End = next.End
			continue
		}
		out = append(out, current)
		current = next
	}

	return append(out, current)
}

// splitLong breaks any cue longer than maxLen seconds into
// ceil(duration/maxLen) equal-duration chunks. Words are divided across
// chunks proportionally by count so each chunk gets a contiguous word range
// and a proportional time slice.
func splitLong(cues []cue.Cue, maxLen float64) []cue.Cue {
	var out []cue.Cue

	for _, c := range cues {
		duration := c.Duration()
		if duration <= maxLen {
			out = append(out, c)
			continue
		}

		chunkCount := int(math.Ceil(duration / maxLen))
		chunkDuration := duration / float64(chunkCount)
		words := strings.Fields(c.Text)
		wordsPerChunk := int(math.Ceil(float64(len(words)) / float64(chunkCount)))

		for i := 0; i < chunkCount; i++ {
			start := c.Start + float64(i)*chunkDuration
			end := math.Min(c.Start+float64(i+1)*chunkDuration, c.End)

			lo := i * wordsPerChunk
			hi := min((i+1)*wordsPerChunk, len(words))
			if lo >= hi {
				continue
			}
			text := strings.Join(words[lo:hi], " ")

			out = append(out, cue.Cue{
				Start: cue.RoundMillis(start),
				End:   cue.RoundMillis(end),
				Text:  text,
			})
		}
	}

	return out
}
