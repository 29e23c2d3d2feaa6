package adapter

import (
	"bytes"
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	headline "github.com/reshetovitsme/news-highlights/internal/modules/headline/domain"
	"github.com/reshetovitsme/news-highlights/internal/modules/source/domain"
	"github.com/reshetovitsme/news-highlights/internal/shared/errors"
	"github.com/samber/lo"
)

// RSS reads RSS, Atom and JSON feeds.
type RSS struct {
	settings
}

// NewRSS creates a feed adapter.
func NewRSS(opts ...Option) *RSS {
	return &RSS{settings: newSettings(opts)}
}

func (f *RSS) Kind() domain.SourceKind {
	return domain.SourceKindRss
}

func (f *RSS) Validate(src domain.SourceConfig) error {
	if src.URL == "" {
		return &errors.ConfigurationError{Source: src.DisplayName(), Setting: "url"}
	}
	if src.TokenHeader != "" && src.Token == "" {
		return &errors.ConfigurationError{Source: src.DisplayName(), Setting: "token"}
	}
	return nil
}

func (f *RSS) Fetch(ctx context.Context, src domain.SourceConfig) ([]headline.Item, error) {
	if err := f.Validate(src); err != nil {
		return nil, err
	}

	body, err := f.get(ctx, src, src.URL, credentialHeader(src.TokenHeader, src.Token))
	if err != nil {
		return nil, err
	}

	feed, err := gofeed.NewParser().Parse(bytes.NewReader(body))
	if err != nil {
		return nil, &errors.SourceError{Source: src.DisplayName(), Err: err}
	}

	label := lo.CoalesceOrEmpty(src.Label, strings.TrimSpace(feed.Title))
	items := lo.FilterMap(feed.Items, func(it *gofeed.Item, _ int) (headline.Item, bool) {
		if it == nil {
			return headline.Item{}, false
		}
		link := itemLink(it)
		if link == "" {
			return headline.Item{}, false
		}
		return headline.NewItem(strings.TrimSpace(it.Title), link, itemTime(it), label), true
	})

	if limit := limitFor(src); len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func itemLink(it *gofeed.Item) string {
	if link := strings.TrimSpace(it.Link); link != "" {
		return link
	}
	if link, ok := lo.Find(it.Links, func(l string) bool { return strings.TrimSpace(l) != "" }); ok {
		return strings.TrimSpace(link)
	}
	if u, err := url.Parse(strings.TrimSpace(it.GUID)); err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != "" {
		return u.String()
	}
	return ""
}

func itemTime(it *gofeed.Item) time.Time {
	if it.PublishedParsed != nil {
		return *it.PublishedParsed
	}
	if it.UpdatedParsed != nil {
		return *it.UpdatedParsed
	}
	return time.Time{}
}
