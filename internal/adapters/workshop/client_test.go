package workshop_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/wsm/internal/adapters/workshop"
	"go.trai.ch/wsm/internal/core/domain"
	"go.trai.ch/wsm/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

// MockRoundTripper is a helper to mock http.Client behavior.
type MockRoundTripper struct {
	RoundTripFunc func(req *http.Request) (*http.Response, error)
}

func (m *MockRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	return m.RoundTripFunc(req)
}

var fixedNow = time.Date(2026, time.October, 19, 12, 0, 0, 0, time.UTC)

func newTestClient(t *testing.T, handler func(req *http.Request) (*http.Response, error)) *workshop.Client {
	t.Helper()

	ctrl := gomock.NewController(t)
	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Debug(gomock.Any()).AnyTimes()

	client := &http.Client{Transport: &MockRoundTripper{RoundTripFunc: handler}}
	return workshop.NewClientWithClient(client, logger, func() time.Time { return fixedNow })
}

func fixture(t *testing.T, name string) []byte {
	t.Helper()

	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return data
}

func respond(status int, body []byte) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewReader(body)),
		Header:     make(http.Header),
	}
}

func TestClient_Lookup(t *testing.T) {
	t.Parallel()

	page := fixture(t, "item_450814997.html")
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		if req.URL.String() == "https://steamcommunity.com/sharedfiles/filedetails/?id=450814997" {
			return respond(http.StatusOK, page), nil
		}
		return respond(http.StatusNotFound, nil), nil
	})

	item, err := client.Lookup(context.Background(), "450814997")
	require.NoError(t, err)

	assert.Equal(t, domain.ItemID("450814997"), item.ID)
	assert.Equal(t, "CBA_A3", item.Title)
	assert.Equal(t, "https://steamuserimages-a.akamaihd.net/ugc/cba/preview.jpg", item.PreviewURL)
	assert.Equal(t, int64(29270999), item.Size)
	assert.Equal(t, domain.Version(1578844920), item.Version, "updated date wins over posted date")
	assert.Equal(t, []domain.ItemID{"463939057", "843577117"}, item.Dependencies)
}

func TestClient_LookupYearlessDate(t *testing.T) {
	t.Parallel()

	page := fixture(t, "item_463939057.html")
	client := newTestClient(t, func(_ *http.Request) (*http.Response, error) {
		return respond(http.StatusOK, page), nil
	})

	item, err := client.Lookup(context.Background(), "463939057")
	require.NoError(t, err)

	assert.Equal(t, "https://steamuserimages-a.akamaihd.net/ugc/ace/preview.jpg", item.PreviewURL)
	assert.Equal(t, int64(1049088), item.Size)
	assert.Equal(t, domain.Version(1772529300), item.Version)
	assert.Empty(t, item.Dependencies)
}

func TestClient_LookupMemoized(t *testing.T) {
	t.Parallel()

	page := fixture(t, "item_450814997.html")
	var calls atomic.Int32
	client := newTestClient(t, func(_ *http.Request) (*http.Response, error) {
		calls.Add(1)
		return respond(http.StatusOK, page), nil
	})

	first, err := client.Lookup(context.Background(), "450814997")
	require.NoError(t, err)
	second, err := client.Lookup(context.Background(), "450814997")
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_LookupCancelledCallerDoesNotFailOthers(t *testing.T) {
	t.Parallel()

	page := fixture(t, "item_450814997.html")
	started := make(chan struct{})
	release := make(chan struct{})
	var calls atomic.Int32
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		if calls.Add(1) == 1 {
			close(started)
		}
		<-release
		if err := req.Context().Err(); err != nil {
			return nil, err
		}
		return respond(http.StatusOK, page), nil
	})

	first, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := client.Lookup(first, "450814997")
		firstErr <- err
	}()
	<-started

	type lookupResult struct {
		item *domain.Item
		err  error
	}
	second := make(chan lookupResult, 1)
	go func() {
		item, err := client.Lookup(context.Background(), "450814997")
		second <- lookupResult{item, err}
	}()

	cancel()
	require.ErrorIs(t, <-firstErr, context.Canceled)

	close(release)
	res := <-second
	require.NoError(t, res.err)
	assert.Equal(t, "CBA_A3", res.item.Title)
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_LookupNotFound(t *testing.T) {
	t.Parallel()

	t.Run("MessagePage", func(t *testing.T) {
		t.Parallel()

		page := fixture(t, "missing.html")
		client := newTestClient(t, func(_ *http.Request) (*http.Response, error) {
			return respond(http.StatusOK, page), nil
		})

		_, err := client.Lookup(context.Background(), "999999999")
		require.ErrorIs(t, err, domain.ErrItemNotFound)
	})

	t.Run("Status404", func(t *testing.T) {
		t.Parallel()

		client := newTestClient(t, func(_ *http.Request) (*http.Response, error) {
			return respond(http.StatusNotFound, nil), nil
		})

		_, err := client.Lookup(context.Background(), "999999999")
		require.ErrorIs(t, err, domain.ErrItemNotFound)
	})
}

func TestClient_LookupFailures(t *testing.T) {
	t.Parallel()

	t.Run("Network", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		client := newTestClient(t, func(_ *http.Request) (*http.Response, error) {
			calls.Add(1)
			return nil, errors.New("connection refused")
		})

		_, err := client.Lookup(context.Background(), "450814997")
		require.ErrorIs(t, err, domain.ErrCatalogRequestFailed)
		assert.NotErrorIs(t, err, domain.ErrItemNotFound)

		_, err = client.Lookup(context.Background(), "450814997")
		require.Error(t, err)
		assert.Equal(t, int32(2), calls.Load(), "failures are not memoized")
	})

	t.Run("ServerError", func(t *testing.T) {
		t.Parallel()

		client := newTestClient(t, func(_ *http.Request) (*http.Response, error) {
			return respond(http.StatusBadGateway, []byte("bad gateway")), nil
		})

		_, err := client.Lookup(context.Background(), "450814997")
		require.ErrorIs(t, err, domain.ErrCatalogRequestFailed)
	})

	t.Run("UnexpectedPage", func(t *testing.T) {
		t.Parallel()

		client := newTestClient(t, func(_ *http.Request) (*http.Response, error) {
			return respond(http.StatusOK, []byte("<html><body><p>maintenance</p></body></html>")), nil
		})

		_, err := client.Lookup(context.Background(), "450814997")
		require.ErrorIs(t, err, domain.ErrCatalogParseFailed)
	})
}

func TestClient_Search(t *testing.T) {
	t.Parallel()

	page := fixture(t, "search.html")
	var requested string
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		requested = req.URL.String()
		return respond(http.StatusOK, page), nil
	})

	ids, err := client.Search(context.Background(), "cba", domain.SearchOptions{
		AppID: "107410",
		Sort:  domain.SortTrend,
		Tags:  []string{"Mod", "Weapons"},
	})
	require.NoError(t, err)

	assert.Equal(t, []domain.ItemID{"450814997", "463939057", "843577117"}, ids)
	assert.Equal(t,
		"https://steamcommunity.com/workshop/browse/?appid=107410&browsesort=trend&childpublishedfileid=0"+
			"&requiredtags%5B%5D=Mod&requiredtags%5B%5D=Weapons&searchtext=cba&section=readytouseitems",
		requested)
}

func TestClient_SearchDefaultsToTextSearch(t *testing.T) {
	t.Parallel()

	var requested *http.Request
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		requested = req
		return respond(http.StatusOK, []byte("<html></html>")), nil
	})

	ids, err := client.Search(context.Background(), "nothing", domain.SearchOptions{AppID: "107410"})
	require.NoError(t, err)
	assert.Empty(t, ids)
	assert.Equal(t, "textsearch", requested.URL.Query().Get("browsesort"))
	assert.False(t, requested.URL.Query().Has("requiredtags[]"))
}

func TestClient_SearchFailure(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(_ *http.Request) (*http.Response, error) {
		return respond(http.StatusServiceUnavailable, nil), nil
	})

	_, err := client.Search(context.Background(), "cba", domain.SearchOptions{AppID: "107410"})
	require.ErrorIs(t, err, domain.ErrCatalogRequestFailed)
}

func TestParseWorkshopDate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want time.Time
	}{
		{in: "12 Jan, 2020 @ 4:02pm", want: time.Date(2020, time.January, 12, 16, 2, 0, 0, time.UTC)},
		{in: "Jan 12, 2020 @ 4:02am", want: time.Date(2020, time.January, 12, 4, 2, 0, 0, time.UTC)},
		{in: "3 Mar @ 9:15am", want: time.Date(2026, time.March, 3, 9, 15, 0, 0, time.UTC)},
		{in: "  1   Dec @ 12:00pm ", want: time.Date(2026, time.December, 1, 12, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			got, err := workshop.ParseWorkshopDate(tt.in, fixedNow)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s", got)
		})
	}

	_, err := workshop.ParseWorkshopDate("yesterday", fixedNow)
	require.ErrorIs(t, err, domain.ErrCatalogParseFailed)
}

func TestParseDetails_BadSize(t *testing.T) {
	t.Parallel()

	page := []byte(`<div class="workshopItemTitle">x</div><div class="detailsStatRight">huge</div>`)
	_, err := workshop.ParseDetails(page, "450814997", fixedNow)
	require.ErrorIs(t, err, domain.ErrCatalogParseFailed)
}
