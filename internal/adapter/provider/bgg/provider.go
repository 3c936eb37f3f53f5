// Package bgg implements the BoardGameGeek source adapter on top of the
// public XML API2. It exposes a single lookup: fetch one game by its BGG id,
// normalized into the shape the ingestion path consumes.
package bgg

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/meeplelog/meeplelog-backend/internal/provider"
)

const defaultBaseURL = "https://boardgamegeek.com/xmlapi2"

// Provider fetches game data from the BoardGameGeek XML API2.
type Provider struct {
	baseURL    string
	httpClient *http.Client
	log        *slog.Logger
}

// NewProvider creates a Provider against the public BGG API.
func NewProvider(logger *slog.Logger) *Provider {
	return NewProviderWithURL(defaultBaseURL, logger)
}

// NewProviderWithURL creates a Provider with a custom base URL (for testing).
func NewProviderWithURL(baseURL string, logger *slog.Logger) *Provider {
	return &Provider{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		log:        logger.With("adapter", "bgg"),
	}
}

// FetchByID fetches one game by BGG id, including the statistics block that
// carries the complexity weight. Returns nil, nil when BGG has no record of
// the id (the API answers an empty items element, not a 404).
func (p *Provider) FetchByID(ctx context.Context, id int64) (*provider.GameResult, error) {
	reqURL := fmt.Sprintf("%s/thing?id=%d&stats=1", p.baseURL, id)

	p.log.DebugContext(ctx, "bgg request", slog.Int64("bgg_id", id))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("bgg: create request: %w", err)
	}

	resp, err := p.doWithRetry(ctx, req, id)
	if err != nil {
		p.log.ErrorContext(ctx, "bgg request failed", slog.Int64("bgg_id", id), slog.String("error", err.Error()))
		return nil, fmt.Errorf("bgg: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bgg: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("bgg: read body: %w", err)
	}

	var items apiItems
	if err := xml.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("bgg: decode xml: %w", err)
	}

	if len(items.Items) == 0 {
		return nil, nil
	}

	result := mapAPIItem(items.Items[0])

	p.log.DebugContext(ctx, "bgg response",
		slog.Int64("bgg_id", id),
		slog.String("name", firstOrEmpty(result.Names)),
		slog.Int("categories", len(result.Categories)),
		slog.Int("mechanics", len(result.Mechanics)),
	)

	return result, nil
}

// doWithRetry executes the request with a single retry on 5xx or network
// errors. BGG also answers 202 while an export is being prepared; that is
// treated the same way as a transient failure.
func (p *Provider) doWithRetry(ctx context.Context, req *http.Request, id int64) (*http.Response, error) {
	resp, err := p.httpClient.Do(req)

	shouldRetry := err != nil || (resp != nil && (resp.StatusCode >= 500 || resp.StatusCode == http.StatusAccepted))
	if !shouldRetry {
		return resp, err
	}

	// Don't retry if context is already cancelled.
	if ctx.Err() != nil {
		return resp, err
	}

	reason := "network error"
	if err == nil && resp != nil {
		reason = "status " + strconv.Itoa(resp.StatusCode)
	}
	p.log.WarnContext(ctx, "bgg retry", slog.Int64("bgg_id", id), slog.String("reason", reason))

	// Close body from the failed attempt before retrying.
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}

	time.Sleep(500 * time.Millisecond)

	return p.httpClient.Do(req)
}

// mapAPIItem converts one API item into a provider.GameResult. The primary
// name sorts first, followed by alternates in document order.
func mapAPIItem(item apiItem) *provider.GameResult {
	result := &provider.GameResult{
		BGGID:        item.ID,
		Published:    item.YearPublished.Value,
		MinPlayers:   item.MinPlayers.Value,
		MaxPlayers:   item.MaxPlayers.Value,
		MinPlayerAge: item.MinAge.Value,
		PlayTime:     item.PlayingTime.Value,
		MinPlayTime:  item.MinPlayTime.Value,
		MaxPlayTime:  item.MaxPlayTime.Value,
		Description:  item.Description,
		Thumbnail:    item.Thumbnail,
		Image:        item.Image,
		Complexity:   item.Statistics.Ratings.AverageWeight.Value,
		Names:        []string{},
		Categories:   []string{},
		Mechanics:    []string{},
		Designers:    []string{},
		Artists:      []string{},
		Publishers:   []string{},
	}

	for _, name := range item.Names {
		if name.Value == "" {
			continue
		}
		if name.Type == "primary" {
			result.Names = append([]string{name.Value}, result.Names...)
		} else {
			result.Names = append(result.Names, name.Value)
		}
	}

	for _, link := range item.Links {
		if link.Value == "" {
			continue
		}
		switch link.Type {
		case "boardgamecategory":
			result.Categories = append(result.Categories, link.Value)
		case "boardgamemechanic":
			result.Mechanics = append(result.Mechanics, link.Value)
		case "boardgamedesigner":
			result.Designers = append(result.Designers, link.Value)
		case "boardgameartist":
			result.Artists = append(result.Artists, link.Value)
		case "boardgamepublisher":
			result.Publishers = append(result.Publishers, link.Value)
		}
	}

	return result
}

func firstOrEmpty(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}
