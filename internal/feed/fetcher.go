package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"
	"github.com/paradiseofgeeks/blogmirror/internal/config"
	"github.com/paradiseofgeeks/blogmirror/internal/models"
)

// Fetcher retrieves the upstream feed documents. The timeout is fixed
// at construction; failures are returned as errors for the pipeline to
// absorb into fallback content.
type Fetcher struct {
	client *resty.Client
	cfg    *config.Config
}

func NewFetcher(cfg *config.Config) *Fetcher {
	return &Fetcher{
		client: resty.New().SetTimeout(cfg.FeedTimeout),
		cfg:    cfg,
	}
}

// FetchFeed retrieves and decodes the full feed document.
func (f *Fetcher) FetchFeed(ctx context.Context) (models.FeedDocument, error) {
	var doc models.FeedDocument

	resp, err := f.client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		Get(f.cfg.FeedURL())

	if err != nil {
		return doc, fmt.Errorf("failed to fetch feed from %s: %w", f.cfg.FeedURL(), err)
	}

	if resp.StatusCode() != http.StatusOK {
		return doc, fmt.Errorf("unexpected status code %d from %s", resp.StatusCode(), f.cfg.FeedURL())
	}

	if err := json.Unmarshal(resp.Body(), &doc); err != nil {
		return doc, fmt.Errorf("failed to parse feed response: %w", err)
	}

	return doc, nil
}

// FetchEntry retrieves and decodes a single entry by its suffix id.
func (f *Fetcher) FetchEntry(ctx context.Context, id string) (models.EntryDocument, error) {
	var doc models.EntryDocument
	url := f.cfg.EntryURL(id)

	resp, err := f.client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		Get(url)

	if err != nil {
		return doc, fmt.Errorf("failed to fetch entry from %s: %w", url, err)
	}

	if resp.StatusCode() != http.StatusOK {
		return doc, fmt.Errorf("unexpected status code %d from %s", resp.StatusCode(), url)
	}

	if err := json.Unmarshal(resp.Body(), &doc); err != nil {
		return doc, fmt.Errorf("failed to parse entry response: %w", err)
	}

	return doc, nil
}
