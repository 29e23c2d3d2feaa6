package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"runtime/debug"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/feeds"
	"github.com/reshetovitsme/news-highlights/internal/shared/errors"
)

func TestResolveVersion(t *testing.T) {
	tests := []struct {
		name    string
		ldflags string
		info    *debug.BuildInfo
		want    string
	}{
		{"ldflags wins", "v1.2.3", &debug.BuildInfo{Main: debug.Module{Version: "v0.0.0"}}, "v1.2.3"},
		{"build info fallback", "dev", &debug.BuildInfo{Main: debug.Module{Version: "v1.2.3"}}, "v1.2.3"},
		{"devel is dev", "dev", &debug.BuildInfo{Main: debug.Module{Version: "(devel)"}}, "dev"},
		{"nil build info", "dev", nil, "dev"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := resolveVersion(tt.ldflags, tt.info); got != tt.want {
				t.Errorf("resolveVersion() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !strings.HasPrefix(out.String(), "news-highlights version ") {
		t.Errorf("unexpected output %q", out.String())
	}
}

func TestNewLogger_Levels(t *testing.T) {
	var out, errOut bytes.Buffer
	logger := newLogger(false, &out, &errOut)

	logger.Debug("hidden")
	logger.Info("shown")
	logger.Error("failed")

	if strings.Contains(out.String(), "hidden") {
		t.Error("debug should be filtered without verbose")
	}
	if !strings.Contains(out.String(), "shown") || !strings.Contains(out.String(), "failed") {
		t.Errorf("text output missing records: %q", out.String())
	}
	if strings.Contains(errOut.String(), "shown") || !strings.Contains(errOut.String(), `"msg":"failed"`) {
		t.Errorf("json output should carry errors only: %q", errOut.String())
	}

	out.Reset()
	newLogger(true, &out, &errOut).Debug("verbose")
	if !strings.Contains(out.String(), "verbose") {
		t.Error("debug should be logged when verbose")
	}
}

func isolate(t *testing.T) {
	t.Helper()
	t.Chdir(t.TempDir())
	for _, key := range []string{"SOURCES", "MINIFLUX_URL", "MINIFLUX_API_KEY", "SNAPSHOT_STORE", "MAX_ITEMS", "APP_ENV"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestFetch_PrintsMergedItems(t *testing.T) {
	isolate(t)

	published := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		feed := &feeds.Feed{
			Title: "Upstream",
			Link:  &feeds.Link{Href: "https://upstream.example.com"},
			Items: []*feeds.Item{
				{Title: "Older", Link: &feeds.Link{Href: "https://upstream.example.com/1"}, Created: published.Add(-time.Hour)},
				{Title: "Newer", Link: &feeds.Link{Href: "https://upstream.example.com/2"}, Created: published},
			},
		}
		rss, _ := feed.ToRss()
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(rss))
	}))
	defer upstream.Close()

	t.Setenv("SOURCES", `[{"name":"up","kind":"rss","url":"`+upstream.URL+`"},{"name":"down","kind":"rss","url":"http://127.0.0.1:1/feed"}]`)

	var stdout, stderr bytes.Buffer
	if err := fetch(context.Background(), &stdout, &stderr, 30*time.Second); err != nil {
		t.Fatalf("fetch: %v", err)
	}

	var items []struct {
		Title       string `json:"title"`
		URL         string `json:"url"`
		SourceLabel string `json:"sourceLabel"`
	}
	if err := json.Unmarshal(stdout.Bytes(), &items); err != nil {
		t.Fatalf("stdout is not JSON: %v\n%s", err, stdout.String())
	}
	if len(items) != 2 || items[0].Title != "Newer" || items[1].Title != "Older" {
		t.Fatalf("unexpected items: %+v", items)
	}
	if items[0].SourceLabel != "Upstream" {
		t.Errorf("SourceLabel = %q, want Upstream", items[0].SourceLabel)
	}
	if !strings.Contains(stderr.String(), "source down failed") {
		t.Errorf("failed source should be reported on stderr: %q", stderr.String())
	}
}

func TestFetch_MissingAPIKey(t *testing.T) {
	isolate(t)

	var stdout, stderr bytes.Buffer
	err := fetch(context.Background(), &stdout, &stderr, time.Second)
	if !errors.IsConfiguration(err) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	if !strings.Contains(stderr.String(), "MINIFLUX_API_KEY") {
		t.Errorf("stderr should carry the hint: %q", stderr.String())
	}
	if stdout.Len() != 0 {
		t.Errorf("stdout should be empty, got %q", stdout.String())
	}
}
