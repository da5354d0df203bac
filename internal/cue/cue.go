// Package cue defines the caption cue data model shared by every stage of
// the cleaning pipeline, plus the timestamp and text normalization helpers
// the format parsers are built on.
package cue

import "math"

// Cue is one displayed unit of subtitle text. The field names start/end/text
// are the stable public shape downstream consumers depend on.
type Cue struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`

	// Words holds optional word-level sub-timing. Populated only by
	// AssignWordTimings; most pipeline stages ignore it.
	Words []Word `json:"words,omitempty"`
}

// Word is a single word with its estimated time span inside a cue.
type Word struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Duration returns the cue's time span in seconds.
func (c Cue) Duration() float64 {
	return c.End - c.Start
}

// Degenerate reports whether the cue has a zero or negative time span.
// Degenerate cues must never survive into any stage's output.
func (c Cue) Degenerate() bool {
	return c.End <= c.Start
}

// TrackKind distinguishes manually authored captions from ASR output.
type TrackKind string

const (
	KindManual TrackKind = "manual"
	KindASR    TrackKind = "asr"
)

// CaptionTrack describes one available subtitle language for a video.
// Tracks are fetched once per video, used to pick a language, and discarded.
type CaptionTrack struct {
	LangCode string    `json:"langCode"`
	LangName string    `json:"langName"`
	Kind     TrackKind `json:"kind"`
}

// TotalDuration returns the largest end time in the list, or 0 for an
// empty list.
func TotalDuration(cues []Cue) float64 {
	var max float64
	for _, c := range cues {
		max = math.Max(max, c.End)
	}
	return max
}
