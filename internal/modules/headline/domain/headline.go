package domain

import "time"

// UnknownSource is used when neither the upstream nor the configuration name a source.
const UnknownSource = "Unknown"

// Item is a normalized headline. A zero PublishedAt means the upstream gave no usable
// date; such items sort after every dated item.
type Item struct {
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	PublishedAt time.Time `json:"publishedAt,omitzero"`
	SourceLabel string    `json:"sourceLabel"`
}

// NewItem builds an item, filling in the source label fallback.
func NewItem(title, url string, publishedAt time.Time, sourceLabel string) Item {
	if sourceLabel == "" {
		sourceLabel = UnknownSource
	}
	return Item{
		Title:       title,
		URL:         url,
		PublishedAt: publishedAt,
		SourceLabel: sourceLabel,
	}
}

// Newer reports whether a sorts before b in recency order.
func Newer(a, b Item) int {
	return b.PublishedAt.Compare(a.PublishedAt)
}
