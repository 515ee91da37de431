package youtube

import (
	"context"
	"time"
	"ytwatch/internal/models"
)

type Lister struct {
	client *Client
}

func NewLister(client *Client) *Lister {
	return &Lister{client: client}
}

// ListRecentUploads returns up to maxResults uploads, newest first. A channel
// without an uploads playlist yields an empty snapshot, not an error.
func (l *Lister) ListRecentUploads(ctx context.Context, channelID string, maxResults int) (*models.ChannelSnapshot, error) {
	ch, err := l.client.channelDetails(ctx, channelID)
	if err != nil {
		return nil, err
	}

	snap := &models.ChannelSnapshot{
		ID:      channelID,
		Title:   ch.Snippet.Title,
		Uploads: []models.VideoSummary{},
	}
	if snap.Title == "" {
		snap.Title = channelID
	}

	uploads := ch.ContentDetails.RelatedPlaylists.Uploads
	if uploads == "" {
		return snap, nil
	}

	items, err := l.client.playlistItems(ctx, uploads, maxResults)
	if err != nil {
		return nil, err
	}
	for _, it := range items {
		if it.Snippet.ResourceID.VideoID == "" {
			continue
		}
		published, _ := time.Parse(time.RFC3339, it.Snippet.PublishedAt)
		snap.Uploads = append(snap.Uploads, models.VideoSummary{
			ID:          it.Snippet.ResourceID.VideoID,
			Title:       it.Snippet.Title,
			PublishedAt: published,
		})
		if len(snap.Uploads) == maxResults {
			break
		}
	}
	return snap, nil
}
