package models

import "time"

// SubscriberCount is the channel's subscriber figure, both display-formatted
// ("42.5K") and raw.
type SubscriberCount struct {
	Display string
	Raw     int64
}

// VideoSummary is one entry of the latest-videos listing.
type VideoSummary struct {
	ID          string
	Title       string
	Description string
	Thumbnail   string
	PublishedAt time.Time
	URL         string
	// Category is only set by the demo catalog.
	Category string
}

// VideoDetail describes a single video.
type VideoDetail struct {
	ID          string
	Title       string
	Description string
	Thumbnail   string
	PublishedAt time.Time
	ViewCount   string
	LikeCount   string
	URL         string
}
