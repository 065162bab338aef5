package handlers_test

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/hariprasanth02/2203031240132/internal/handlers"
	"github.com/hariprasanth02/2203031240132/internal/shortener"
	"github.com/hariprasanth02/2203031240132/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	testURL     = "https://example.com/very/long/path"
	testBaseURL = "http://localhost:8888"
)

var errMock = errors.New("mock error")

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now = c.now.Add(d)
}

// brokenRegistry fails every call.
type brokenRegistry struct{}

func (brokenRegistry) Exists(context.Context, shortener.Code) (bool, error) { return false, errMock }

func (brokenRegistry) Insert(context.Context, *shortener.ShortURL) error { return errMock }

func (brokenRegistry) Get(context.Context, shortener.Code) (*shortener.ShortURL, error) {
	return nil, errMock
}

func (brokenRegistry) IncrementHits(context.Context, shortener.Code) (int64, error) {
	return 0, errMock
}

func (brokenRegistry) List(context.Context) ([]shortener.ShortURL, error) { return nil, errMock }

type fixture struct {
	handler  *handlers.URLHandler
	registry shortener.Registry
	clock    *fakeClock
}

func newFixture(t *testing.T, registry shortener.Registry) *fixture {
	t.Helper()

	draw, err := shortener.NewDraw(shortener.Alphanumeric, shortener.DefaultCodeLength)
	require.NoError(t, err)

	clock := &fakeClock{now: time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)}
	service := shortener.NewService(registry, shortener.NewCodeGenerator(registry, draw), testBaseURL+"/", nil, clock)
	resolver := shortener.NewResolver(registry, nil, clock)

	return &fixture{
		handler:  handlers.NewURLHandler(service, resolver, zap.NewNop()),
		registry: registry,
		clock:    clock,
	}
}

func createRequest(url, duration, alias string) *handlers.CreateShortURLRequest {
	req := &handlers.CreateShortURLRequest{}
	req.Body.URL = url
	req.Body.Duration = handlers.DurationText(duration)
	req.Body.Alias = alias

	return req
}

func statusOf(t *testing.T, err error) int {
	t.Helper()

	var statusErr huma.StatusError
	require.ErrorAs(t, err, &statusErr)

	return statusErr.GetStatus()
}

func TestCreateShortURL(t *testing.T) {
	t.Run("creates short url with default duration", func(t *testing.T) {
		f := newFixture(t, store.NewMemoryStore())

		resp, err := f.handler.CreateShortURL(context.Background(), createRequest(testURL, "", ""))

		require.NoError(t, err)
		assert.Len(t, resp.Body.Code, shortener.DefaultCodeLength)
		assert.Equal(t, testURL, resp.Body.Destination)
		assert.Equal(t, testBaseURL+"/"+resp.Body.Code, resp.Body.ShortURL)
		assert.Equal(t, resp.Body.ShortURL, resp.Location)
		assert.Equal(t, 30*time.Minute, resp.Body.ExpiresAt.Sub(resp.Body.CreatedAt))
	})

	t.Run("uses custom alias and duration", func(t *testing.T) {
		f := newFixture(t, store.NewMemoryStore())

		resp, err := f.handler.CreateShortURL(context.Background(), createRequest(testURL, "90", "promo2025"))

		require.NoError(t, err)
		assert.Equal(t, "promo2025", resp.Body.Code)
		assert.Equal(t, 90*time.Minute, resp.Body.ExpiresAt.Sub(resp.Body.CreatedAt))
	})

	t.Run("returns 400 for invalid url", func(t *testing.T) {
		f := newFixture(t, store.NewMemoryStore())

		resp, err := f.handler.CreateShortURL(context.Background(), createRequest("not a url", "", ""))

		assert.Nil(t, resp)
		assert.Equal(t, http.StatusBadRequest, statusOf(t, err))
	})

	t.Run("returns 400 for invalid alias", func(t *testing.T) {
		f := newFixture(t, store.NewMemoryStore())

		_, err := f.handler.CreateShortURL(context.Background(), createRequest(testURL, "", "bad-alias!"))

		assert.Equal(t, http.StatusBadRequest, statusOf(t, err))
	})

	t.Run("returns 409 when alias is taken", func(t *testing.T) {
		f := newFixture(t, store.NewMemoryStore())

		_, err := f.handler.CreateShortURL(context.Background(), createRequest(testURL, "", "taken"))
		require.NoError(t, err)

		_, err = f.handler.CreateShortURL(context.Background(), createRequest("https://other.example", "", "taken"))

		assert.Equal(t, http.StatusConflict, statusOf(t, err))
	})

	t.Run("returns 500 on store error", func(t *testing.T) {
		f := newFixture(t, brokenRegistry{})

		_, err := f.handler.CreateShortURL(context.Background(), createRequest(testURL, "", ""))

		assert.Equal(t, http.StatusInternalServerError, statusOf(t, err))
	})
}

func TestListLinks(t *testing.T) {
	t.Run("lists links in creation order with hits", func(t *testing.T) {
		f := newFixture(t, store.NewMemoryStore())
		ctx := context.Background()

		_, err := f.handler.CreateShortURL(ctx, createRequest(testURL, "", "first"))
		require.NoError(t, err)
		_, err = f.handler.CreateShortURL(ctx, createRequest("https://second.example", "", "second"))
		require.NoError(t, err)
		_, err = f.handler.RedirectToURL(ctx, &handlers.RedirectRequest{Code: "second"})
		require.NoError(t, err)

		resp, err := f.handler.ListLinks(ctx, nil)

		require.NoError(t, err)
		require.Len(t, resp.Body.Links, 2)
		assert.Equal(t, "first", resp.Body.Links[0].Code)
		assert.Equal(t, int64(0), resp.Body.Links[0].Hits)
		assert.Equal(t, "second", resp.Body.Links[1].Code)
		assert.Equal(t, int64(1), resp.Body.Links[1].Hits)
	})

	t.Run("returns empty list", func(t *testing.T) {
		f := newFixture(t, store.NewMemoryStore())

		resp, err := f.handler.ListLinks(context.Background(), nil)

		require.NoError(t, err)
		assert.NotNil(t, resp.Body.Links)
		assert.Empty(t, resp.Body.Links)
	})

	t.Run("returns 500 on store error", func(t *testing.T) {
		f := newFixture(t, brokenRegistry{})

		_, err := f.handler.ListLinks(context.Background(), nil)

		assert.Equal(t, http.StatusInternalServerError, statusOf(t, err))
	})
}

func TestRedirectToURL(t *testing.T) {
	t.Run("redirects with 302 and counts the hit", func(t *testing.T) {
		f := newFixture(t, store.NewMemoryStore())
		ctx := context.Background()

		created, err := f.handler.CreateShortURL(ctx, createRequest(testURL, "", ""))
		require.NoError(t, err)

		resp, err := f.handler.RedirectToURL(ctx, &handlers.RedirectRequest{Code: created.Body.Code})

		require.NoError(t, err)
		assert.Equal(t, http.StatusFound, resp.Status)
		assert.Equal(t, testURL, resp.Location)

		stored, err := f.registry.Get(ctx, shortener.Code(created.Body.Code))
		require.NoError(t, err)
		assert.Equal(t, int64(1), stored.Hits)
	})

	t.Run("returns 404 when code not found", func(t *testing.T) {
		f := newFixture(t, store.NewMemoryStore())

		resp, err := f.handler.RedirectToURL(context.Background(), &handlers.RedirectRequest{Code: "nonexistent"})

		assert.Nil(t, resp)
		assert.Equal(t, http.StatusNotFound, statusOf(t, err))
	})

	t.Run("returns 410 when expired", func(t *testing.T) {
		f := newFixture(t, store.NewMemoryStore())
		ctx := context.Background()

		_, err := f.handler.CreateShortURL(ctx, createRequest(testURL, "1", "brief"))
		require.NoError(t, err)

		f.clock.Advance(time.Minute + time.Second)

		_, err = f.handler.RedirectToURL(ctx, &handlers.RedirectRequest{Code: "brief"})

		assert.Equal(t, http.StatusGone, statusOf(t, err))
	})

	t.Run("returns 500 on store error", func(t *testing.T) {
		f := newFixture(t, brokenRegistry{})

		_, err := f.handler.RedirectToURL(context.Background(), &handlers.RedirectRequest{Code: "abc123"})

		assert.Equal(t, http.StatusInternalServerError, statusOf(t, err))
	})
}

func TestContextWithRequestMeta(t *testing.T) {
	t.Run("adds and retrieves request metadata from context", func(t *testing.T) {
		meta := handlers.RequestMeta{
			ClientIP:  "192.168.1.1",
			UserAgent: "TestAgent/1.0",
			Referrer:  "https://referrer.com",
		}

		ctx := handlers.ContextWithRequestMeta(context.Background(), meta)

		assert.Equal(t, meta, handlers.RequestMetaFromContext(ctx))
	})

	t.Run("returns empty metadata when absent", func(t *testing.T) {
		assert.Equal(t, handlers.RequestMeta{}, handlers.RequestMetaFromContext(context.Background()))
	})
}
