package service

import (
	"time"

	"github.com/gorilla/feeds"
	"github.com/reshetovitsme/news-highlights/internal/modules/headline/domain"
	"github.com/samber/lo"
)

// BuildFeed renders highlights as a syndication feed linking back to baseURL.
func BuildFeed(items []domain.Item, baseURL string, updated time.Time) *feeds.Feed {
	feed := &feeds.Feed{
		Title:       "News Highlights",
		Link:        &feeds.Link{Href: baseURL + "/highlights"},
		Description: "Latest headlines aggregated from all configured sources",
		Created:     updated,
		Updated:     updated,
	}

	feed.Items = lo.Map(items, func(it domain.Item, _ int) *feeds.Item {
		return &feeds.Item{
			Title:       it.Title,
			Link:        &feeds.Link{Href: it.URL},
			Description: it.SourceLabel,
			Author:      &feeds.Author{Name: it.SourceLabel},
			Created:     it.PublishedAt,
			Id:          it.URL,
		}
	})
	return feed
}
