package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestVideoSummary_URL(t *testing.T) {
	v := VideoSummary{ID: "dQw4w9WgXcQ"}
	assert.Equal(t, "https://www.youtube.com/watch?v=dQw4w9WgXcQ", v.URL())
}

func TestChannelSnapshot_Newest(t *testing.T) {
	var nilSnap *ChannelSnapshot
	_, ok := nilSnap.Newest()
	assert.False(t, ok)

	_, ok = (&ChannelSnapshot{ID: "UC1"}).Newest()
	assert.False(t, ok)

	snap := &ChannelSnapshot{
		ID: "UC1",
		Uploads: []VideoSummary{
			{ID: "v2", PublishedAt: time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC)},
			{ID: "v1", PublishedAt: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)},
		},
	}
	newest, ok := snap.Newest()
	assert.True(t, ok)
	assert.Equal(t, "v2", newest.ID)
}

func TestReport_Count(t *testing.T) {
	r := &Report{Results: []*ChannelResult{
		{Input: "a", Outcome: OutcomeNotified},
		{Input: "b", Outcome: OutcomeSkipped},
		{Input: "c", Outcome: OutcomeNotified},
	}}

	assert.Equal(t, 2, r.Count(OutcomeNotified))
	assert.Equal(t, 1, r.Count(OutcomeSkipped))
	assert.Equal(t, 0, r.Count(OutcomeError))
}
