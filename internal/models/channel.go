package models

// ChannelSnapshot is rebuilt on every poll and never persisted.
type ChannelSnapshot struct {
	ID      string         `json:"channelId"`
	Title   string         `json:"channelTitle"`
	Uploads []VideoSummary `json:"videos"`
}

// Newest returns the most recent upload, or false when the channel has none.
func (s *ChannelSnapshot) Newest() (VideoSummary, bool) {
	if s == nil || len(s.Uploads) == 0 {
		return VideoSummary{}, false
	}
	return s.Uploads[0], true
}
