package models

import "time"

const watchURLPrefix = "https://www.youtube.com/watch?v="

type VideoSummary struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	PublishedAt time.Time `json:"publishedAt"`
}

func (v VideoSummary) URL() string {
	return watchURLPrefix + v.ID
}
