package shellcache

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unicon-campus/unicon-client/internal/config"
	"github.com/unicon-campus/unicon-client/internal/logger"
)

type scriptedOrigin struct {
	assets     map[string][]byte
	fetchErr   error
	fetchCalls int

	forwardErr     error
	forwardStatus  int
	forwardBody    []byte
	forwarded      []string
	forwardHeaders []http.Header
}

func (o *scriptedOrigin) Fetch(_ context.Context, requestURI string) ([]byte, string, error) {
	o.fetchCalls++
	if o.fetchErr != nil {
		return nil, "", o.fetchErr
	}
	data, ok := o.assets[requestURI]
	if !ok {
		return nil, "", errors.New("fetch: http 404")
	}
	return data, "text/css", nil
}

func (o *scriptedOrigin) Forward(_ context.Context, method, requestURI string, header http.Header, _ []byte) (int, string, []byte, error) {
	o.forwarded = append(o.forwarded, method+" "+requestURI)
	o.forwardHeaders = append(o.forwardHeaders, header)
	if o.forwardErr != nil {
		return 0, "", nil, o.forwardErr
	}
	return o.forwardStatus, "application/json", o.forwardBody, nil
}

func newTestGateway(t *testing.T, origin Fetcher) (*Gateway, *Cache) {
	t.Helper()

	cfg := config.ClientShell{CacheDir: t.TempDir(), CacheVersion: "v3", GatewayAddress: "localhost:0"}
	cache := NewCache(cfg, logger.Nop())

	return NewGateway(cache, origin, cfg, logger.Nop()), cache
}

func TestGateway_ServesCachedAssetWithoutOrigin(t *testing.T) {
	origin := &scriptedOrigin{fetchErr: errors.New("origin down")}
	g, cache := newTestGateway(t, origin)
	require.NoError(t, cache.Put("/static/css/main.css", []byte("body{}")))

	rec := httptest.NewRecorder()
	g.Init().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/static/css/main.css", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "body{}", rec.Body.String())
	assert.Equal(t, "hit", rec.Header().Get("X-Shell-Cache"))
	assert.Zero(t, origin.fetchCalls, "cached assets must not touch the origin")
}

func TestGateway_MissFetchesAndCaches(t *testing.T) {
	origin := &scriptedOrigin{assets: map[string][]byte{"/static/css/main.css": []byte("body{}")}}
	g, cache := newTestGateway(t, origin)

	rec := httptest.NewRecorder()
	g.Init().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/static/css/main.css", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "miss", rec.Header().Get("X-Shell-Cache"))
	assert.Equal(t, "text/css", rec.Header().Get("Content-Type"))

	data, err := cache.Get("/static/css/main.css")
	require.NoError(t, err)
	assert.Equal(t, []byte("body{}"), data)

	// second request is served from cache
	rec = httptest.NewRecorder()
	g.Init().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/static/css/main.css", nil))
	assert.Equal(t, "hit", rec.Header().Get("X-Shell-Cache"))
	assert.Equal(t, 1, origin.fetchCalls)
}

func TestGateway_QueriesKeyDistinctCacheEntries(t *testing.T) {
	origin := &scriptedOrigin{assets: map[string][]byte{
		"/feed?page=1": []byte("page one"),
		"/feed?page=2": []byte("page two"),
	}}
	g, _ := newTestGateway(t, origin)

	rec := httptest.NewRecorder()
	g.Init().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/feed?page=1", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "page one", rec.Body.String(), "query must reach the origin")

	// a different query is a different resource, not a cache hit
	rec = httptest.NewRecorder()
	g.Init().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/feed?page=2", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "page two", rec.Body.String())
	assert.Equal(t, "miss", rec.Header().Get("X-Shell-Cache"))

	// repeats of each are served from their own entries
	rec = httptest.NewRecorder()
	g.Init().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/feed?page=1", nil))
	assert.Equal(t, "page one", rec.Body.String())
	assert.Equal(t, "hit", rec.Header().Get("X-Shell-Cache"))
	assert.Equal(t, 2, origin.fetchCalls)
}

func TestGateway_MissWithOriginDownIsBadGateway(t *testing.T) {
	origin := &scriptedOrigin{fetchErr: errors.New("dial tcp: connection refused")}
	g, _ := newTestGateway(t, origin)

	rec := httptest.NewRecorder()
	g.Init().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/static/js/main.js", nil))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestGateway_RootDocumentServedAsHTML(t *testing.T) {
	origin := &scriptedOrigin{}
	g, cache := newTestGateway(t, origin)
	require.NoError(t, cache.Put("/", []byte("<html></html>")))

	rec := httptest.NewRecorder()
	g.Init().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
}

func TestGateway_NonGETBypassesCache(t *testing.T) {
	origin := &scriptedOrigin{forwardStatus: http.StatusCreated, forwardBody: []byte(`{"id":1}`)}
	g, cache := newTestGateway(t, origin)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/posts", strings.NewReader(`{"body":"hi"}`))
	g.Init().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	body, _ := io.ReadAll(rec.Body)
	assert.JSONEq(t, `{"id":1}`, string(body))
	assert.Equal(t, []string{"POST /api/posts"}, origin.forwarded)

	_, err := cache.Get("/api/posts")
	assert.ErrorIs(t, err, ErrNotCached, "non-GET responses must never be cached")
}

func TestGateway_PassthroughForwardsHeadersAndQuery(t *testing.T) {
	origin := &scriptedOrigin{forwardStatus: http.StatusOK, forwardBody: []byte(`{}`)}
	g, _ := newTestGateway(t, origin)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/messages?draft=1", strings.NewReader(`{"body":"hi"}`))
	req.Header.Set("Authorization", "Bearer token-123")
	req.Header.Set("Content-Type", "application/json")
	g.Init().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, []string{"POST /api/messages?draft=1"}, origin.forwarded)

	// an authenticated request must not arrive anonymous at the origin
	require.Len(t, origin.forwardHeaders, 1)
	assert.Equal(t, "Bearer token-123", origin.forwardHeaders[0].Get("Authorization"))
	assert.Equal(t, "application/json", origin.forwardHeaders[0].Get("Content-Type"))
}

func TestGateway_NonGETWithOriginDownIsBadGateway(t *testing.T) {
	origin := &scriptedOrigin{forwardErr: errors.New("dial tcp: connection refused")}
	g, _ := newTestGateway(t, origin)

	rec := httptest.NewRecorder()
	g.Init().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/posts", nil))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}
