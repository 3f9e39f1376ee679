// Package workshop implements the Catalog port by reading the public Steam Workshop pages.
package workshop

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"go.trai.ch/wsm/internal/core/domain"
	"go.trai.ch/wsm/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/singleflight"
)

const (
	detailsURL        = "https://steamcommunity.com/sharedfiles/filedetails/"
	browseURL         = "https://steamcommunity.com/workshop/browse/"
	httpClientTimeout = 30 * time.Second
	maxPageBytes      = 8 << 20
)

var _ ports.Catalog = (*Client)(nil)

// Client implements ports.Catalog. Successful lookups are kept for the lifetime of the process.
type Client struct {
	httpClient *http.Client
	logger     ports.Logger
	now        func() time.Time

	items  sync.Map
	flight singleflight.Group
}

// NewClient creates a Client using a default HTTP client.
func NewClient(logger ports.Logger) *Client {
	return newClientWithClient(&http.Client{Timeout: httpClientTimeout}, logger, time.Now)
}

// newClientWithClient creates a Client with a custom http client and clock (used for testing).
func newClientWithClient(client *http.Client, logger ports.Logger, now func() time.Time) *Client {
	return &Client{
		httpClient: client,
		logger:     logger,
		now:        now,
	}
}

// Lookup returns the metadata published on the item's details page.
func (c *Client) Lookup(ctx context.Context, id domain.ItemID) (*domain.Item, error) {
	if cached, ok := c.items.Load(id); ok {
		return cached.(*domain.Item), nil //nolint:forcetypeassert // only *domain.Item is stored
	}

	// The shared fetch must outlive any single caller, so it drops the
	// caller's cancellation and each caller waits on its own ctx instead.
	flightCtx := context.WithoutCancel(ctx)
	ch := c.flight.DoChan(id.String(), func() (any, error) {
		item, err := c.fetchDetails(flightCtx, id)
		if err != nil {
			return nil, err
		}
		c.items.Store(id, item)
		return item, nil
	})

	select {
	case <-ctx.Done():
		return nil, zerr.With(ctx.Err(), "id", id.String())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*domain.Item), nil //nolint:forcetypeassert // fetchDetails returns *domain.Item
	}
}

// Search returns the ids listed on the first browse page for query.
func (c *Client) Search(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.ItemID, error) {
	sort := opts.Sort
	if sort == "" {
		sort = domain.SortTextSearch
	}

	params := url.Values{}
	params.Set("appid", opts.AppID)
	params.Set("searchtext", query)
	params.Set("childpublishedfileid", "0")
	params.Set("browsesort", string(sort))
	params.Set("section", "readytouseitems")
	for _, tag := range opts.Tags {
		params.Add("requiredtags[]", tag)
	}

	body, status, err := c.get(ctx, browseURL+"?"+params.Encode())
	if err != nil {
		return nil, zerr.With(err, "query", query)
	}
	if status != http.StatusOK {
		err := zerr.With(zerr.Wrap(domain.ErrCatalogRequestFailed, http.StatusText(status)), "status_code", status)
		return nil, zerr.With(err, "query", query)
	}

	ids, err := parseSearch(body)
	if err != nil {
		return nil, zerr.With(err, "query", query)
	}
	return ids, nil
}

func (c *Client) fetchDetails(ctx context.Context, id domain.ItemID) (*domain.Item, error) {
	params := url.Values{}
	params.Set("id", id.String())

	body, status, err := c.get(ctx, detailsURL+"?"+params.Encode())
	if err != nil {
		return nil, zerr.With(err, "id", id.String())
	}

	switch status {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, zerr.With(zerr.Wrap(domain.ErrItemNotFound, id.String()), "id", id.String())
	default:
		err := zerr.With(zerr.Wrap(domain.ErrCatalogRequestFailed, http.StatusText(status)), "status_code", status)
		return nil, zerr.With(err, "id", id.String())
	}

	item, err := parseDetails(body, id, c.now())
	if err != nil {
		return nil, zerr.With(err, "id", id.String())
	}
	return item, nil
}

func (c *Client) get(ctx context.Context, rawURL string) ([]byte, int, error) {
	c.logger.Debug("GET " + rawURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return nil, 0, zerr.Wrap(domain.ErrCatalogRequestFailed, err.Error())
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, zerr.Wrap(domain.ErrCatalogRequestFailed, err.Error())
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return nil, 0, zerr.Wrap(domain.ErrCatalogRequestFailed, err.Error())
	}
	return body, resp.StatusCode, nil
}
