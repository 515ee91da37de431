package models

import "time"

type Outcome string

const (
	OutcomeSkipped   Outcome = "skipped"
	OutcomeUnchanged Outcome = "unchanged"
	OutcomeNotified  Outcome = "notified"
	OutcomeError     Outcome = "error"
)

// ChannelResult is the per-reference record of one poll run.
type ChannelResult struct {
	Input        string         `json:"input"`
	ChannelID    string         `json:"channelId,omitempty"`
	ChannelTitle string         `json:"channelTitle,omitempty"`
	Outcome      Outcome        `json:"outcome"`
	Detail       string         `json:"detail,omitempty"`
	VideoID      string         `json:"videoId,omitempty"`
	NewVideos    []VideoSummary `json:"newVideos,omitempty"`
}

type Report struct {
	OK        bool             `json:"ok"`
	RunID     string           `json:"runId"`
	SentCount int              `json:"sentCount"`
	Results   []*ChannelResult `json:"results"`
	At        time.Time        `json:"at"`
}

// Count returns how many results ended with the given outcome.
func (r *Report) Count(outcome Outcome) int {
	n := 0
	for _, res := range r.Results {
		if res.Outcome == outcome {
			n++
		}
	}
	return n
}
