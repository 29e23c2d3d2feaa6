package adapter

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
	"strings"
	"time"

	headline "github.com/reshetovitsme/news-highlights/internal/modules/headline/domain"
	"github.com/reshetovitsme/news-highlights/internal/modules/source/domain"
	"github.com/reshetovitsme/news-highlights/internal/shared/errors"
	"github.com/samber/lo"
)

// MinifluxTokenHeader is the header carrying a Miniflux API key.
const MinifluxTokenHeader = "X-Auth-Token"

// Miniflux reads entries from a Miniflux server, preferring unread entries and
// falling back to all entries when nothing is unread.
type Miniflux struct {
	settings
}

// NewMiniflux creates a Miniflux adapter.
func NewMiniflux(opts ...Option) *Miniflux {
	return &Miniflux{settings: newSettings(opts)}
}

type minifluxEntries struct {
	Total   int             `json:"total"`
	Entries []minifluxEntry `json:"entries"`
}

type minifluxEntry struct {
	Title       string        `json:"title"`
	URL         string        `json:"url"`
	PublishedAt string        `json:"published_at"`
	Feed        *minifluxFeed `json:"feed"`
}

type minifluxFeed struct {
	Title string `json:"title"`
}

func (m *Miniflux) Kind() domain.SourceKind {
	return domain.SourceKindMiniflux
}

func (m *Miniflux) Validate(src domain.SourceConfig) error {
	if src.URL == "" {
		return &errors.ConfigurationError{Source: src.DisplayName(), Setting: "url"}
	}
	if src.Token == "" {
		return &errors.ConfigurationError{
			Source:  src.DisplayName(),
			Setting: "token",
			Hint:    "Set MINIFLUX_API_KEY environment variable",
		}
	}
	return nil
}

func (m *Miniflux) Fetch(ctx context.Context, src domain.SourceConfig) ([]headline.Item, error) {
	if err := m.Validate(src); err != nil {
		return nil, err
	}

	entries, err := m.entries(ctx, src, true)
	if err != nil {
		return nil, err
	}

	if len(entries) == 0 {
		all, err := m.entries(ctx, src, false)
		if err != nil {
			m.logger.Debug("Miniflux fallback to all entries failed", "source", src.DisplayName(), "error", err)
		} else {
			entries = all
		}
	}

	return lo.FilterMap(entries, func(e minifluxEntry, _ int) (headline.Item, bool) {
		link := strings.TrimSpace(e.URL)
		if link == "" {
			return headline.Item{}, false
		}
		label := src.Label
		if e.Feed != nil && e.Feed.Title != "" {
			label = e.Feed.Title
		}
		return headline.NewItem(e.Title, link, parseMinifluxTime(e.PublishedAt), label), true
	}), nil
}

func (m *Miniflux) entries(ctx context.Context, src domain.SourceConfig, unreadOnly bool) ([]minifluxEntry, error) {
	endpoint, err := minifluxEntriesURL(src, unreadOnly)
	if err != nil {
		return nil, &errors.SourceError{Source: src.DisplayName(), Err: err}
	}

	header := lo.Ternary(src.TokenHeader != "", src.TokenHeader, MinifluxTokenHeader)
	body, err := m.get(ctx, src, endpoint, credentialHeader(header, src.Token))
	if err != nil {
		return nil, err
	}

	var payload minifluxEntries
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &errors.SourceError{Source: src.DisplayName(), Err: err}
	}
	return payload.Entries, nil
}

func minifluxEntriesURL(src domain.SourceConfig, unreadOnly bool) (string, error) {
	base, err := url.Parse(src.URL)
	if err != nil {
		return "", err
	}

	query := url.Values{}
	if unreadOnly {
		query.Set("status", "unread")
	}
	query.Set("order", "published_at")
	query.Set("direction", "desc")
	query.Set("limit", strconv.Itoa(limitFor(src)))

	endpoint := base.JoinPath("v1", "entries")
	endpoint.RawQuery = query.Encode()
	return endpoint.String(), nil
}

func parseMinifluxTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
