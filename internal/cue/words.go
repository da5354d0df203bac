package cue

import "strings"

// AssignWordTimings populates Words on each cue by dividing the cue's span
// evenly across its space-separated words. The result is monotonic within a
// cue; it is an estimate for rendering, not ground truth.
func AssignWordTimings(cues []Cue) []Cue {
	out := make([]Cue, len(cues))
	for i, c := range cues {
		out[i] = c
		words := strings.Fields(c.Text)
		if len(words) == 0 || c.Degenerate() {
			out[i].Words = nil
			continue
		}

		per := c.Duration() / float64(len(words))
		timed := make([]Word, len(words))
		for j, w := range words {
			start := c.Start + float64(j)*per
			end := start + per
			if j == len(words)-1 {
				end = c.End
			}
			timed[j] = Word{
				Text:  w,
				Start: RoundMillis(start),
				End:   RoundMillis(end),
			}
		}
		out[i].Words = timed
	}
	return out
}
