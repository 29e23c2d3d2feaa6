package adapter

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/reshetovitsme/news-highlights/internal/modules/source/domain"
	"github.com/reshetovitsme/news-highlights/internal/shared/errors"
	"github.com/samber/oops"
)

// get issues a GET against endpoint, retrying transport errors and 5xx responses.
// Any failure is returned as *errors.SourceError.
func (s settings) get(ctx context.Context, src domain.SourceConfig, endpoint string, header http.Header) ([]byte, error) {
	var lastErr *errors.SourceError

	for attempt := 0; attempt <= s.retries; attempt++ {
		if attempt > 0 {
			delay := s.backoff * time.Duration(attempt)
			s.logger.Debug("Retrying source request", "source", src.DisplayName(), "attempt", attempt, "delay", delay)
			select {
			case <-ctx.Done():
				return nil, &errors.SourceError{Source: src.DisplayName(), Err: ctx.Err()}
			case <-time.After(delay):
			}
		}

		body, status, err := s.do(ctx, endpoint, header)
		if err == nil {
			return body, nil
		}

		lastErr = &errors.SourceError{Source: src.DisplayName(), StatusCode: status, Err: err}
		if status != 0 && status < http.StatusInternalServerError {
			break
		}
	}

	return nil, lastErr
}

func (s settings) do(ctx context.Context, endpoint string, header http.Header) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, 0, oops.With("endpoint", endpoint).Wrapf(err, "failed to create request")
	}
	for key, values := range header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseSize))
		return nil, resp.StatusCode, oops.With("endpoint", endpoint, "status", resp.StatusCode).Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, 0, oops.With("endpoint", endpoint).Wrapf(err, "failed to read response")
	}
	return body, resp.StatusCode, nil
}

func credentialHeader(name, token string) http.Header {
	header := http.Header{}
	if name != "" && token != "" {
		header.Set(name, token)
	}
	return header
}
