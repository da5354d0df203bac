// Package pipeline implements the cue cleaning passes: the rolling-caption
// deduplicator/merger and the configurable segment post-processor.
//
// YouTube's auto-generated captions arrive as a sliding window of rolling
// text where each cue repeats most of the previous cue's words plus a few
// new ones. Displayed naively that duplicates almost every word on screen.
// DedupeCues collapses the window into clean, non-overlapping cues while
// keeping every distinct word that was said.
package pipeline

import (
	"math"
	"sort"

	"github.com/alnah/go-captions/internal/cue"
)

// smallGap is the gap tolerance (seconds) under which two identical-text
// cues are still considered one rolling-caption repeat.
const smallGap = 0.3

// significantOverlapRatio is the fraction of the shorter cue's duration
// above which an overlap is merged instead of trimmed.
const significantOverlapRatio = 0.5

// DedupeCues collapses duplicated, overlapping rolling captions into a
// minimal, time-ordered, non-overlapping cue list.
//
// The pass is idempotent and pure: the input slice is not modified. Output
// invariants: sorted ascending by start, no adjacent overlap, no degenerate
// or empty-text cues, and when texts tie in quality the earlier-seen cue's
// text wins so identical input always yields identical output.
func DedupeCues(cues []cue.Cue) []cue.Cue {
	if len(cues) == 0 {
		return nil
	}

	sorted := make([]cue.Cue, 0, len(cues))
	for _, c := range cues {
		if c.Degenerate() {
			continue
		}
		if cue.CollapseSpace(c.Text) == "" {
			continue
		}
		sorted = append(sorted, c)
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Start < sorted[j].Start
	})

	var out []cue.Cue
	for _, c := range sorted {
		if len(out) == 0 {
			out = append(out, c)
			continue
		}
		last := &out[len(out)-1]

		// A merge may extend the accepted cue backward toward the new cue's
		// start, but never past the end of the cue accepted before it: once
		// a minor-overlap trim has pushed a start forward, pulling it back
		// would reintroduce the overlap the trim removed.
		prevEnd := math.Inf(-1)
		if len(out) > 1 {
			prevEnd = out[len(out)-2].End
		}

		overlapping := c.Start < last.End
		gap := c.Start - last.End
		identical := cue.SameText(c.Text, last.Text)
		subset := cue.ContainsText(c.Text, last.Text) || cue.ContainsText(last.Text, c.Text)
		newLonger := len(c.Text) > len(last.Text)

		switch {
		case identical && (overlapping || gap <= smallGap):
			// One rolling repeat: extend the accepted cue over both spans.
			last.End = max(last.End, c.End)
			if newLonger {
				last.Text = c.Text
			}

		case overlapping && subset:
			// One text contains the other: the longer text wins the span.
			if newLonger {
				last.Start = max(prevEnd, min(last.Start, c.Start))
				last.End = max(last.End, c.End)
				last.Text = c.Text
			} else {
				last.End = max(last.End, c.End)
			}

		case overlapping:
			overlap := last.End - c.Start
			shorter := min(last.Duration(), c.Duration())

			if overlap > shorter*significantOverlapRatio {
				// Significant overlap: merge, keeping the text of the cue
				// with the longer individual duration (earlier wins ties).
				if c.Duration() > last.Duration() {
					last.Text = c.Text
				}
				last.Start = max(prevEnd, min(last.Start, c.Start))
				last.End = max(last.End, c.End)
			} else {
				// Minor overlap: trim it off the new cue's front. A cue
				// fully consumed by the trim is dropped, never emitted with
				// a zero or negative span.
				trimmed := c
				trimmed.Start = last.End
				if trimmed.Start < trimmed.End {
					out = append(out, trimmed)
				}
			}

		default:
			out = append(out, c)
		}
	}

	return out
}
