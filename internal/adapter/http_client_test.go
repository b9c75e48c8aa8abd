// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 UNICON Campus Hub

package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unicon-campus/unicon-client/internal/config"
	"github.com/unicon-campus/unicon-client/internal/logger"
	"github.com/unicon-campus/unicon-client/models"
)

// stubTokens is a TokenSource with a swappable value, mimicking the durable
// session store.
type stubTokens struct {
	token string
	err   error
}

func (s *stubTokens) Token(_ context.Context) (string, error) {
	return s.token, s.err
}

// newTestClient creates an httpHubClient pointed at a test server.
func newTestClient(t *testing.T, serverURL string, tokens TokenSource) *httpHubClient {
	t.Helper()
	c, err := NewHTTPHubClient(config.ClientAPI{
		BaseURL:        serverURL,
		HealthTimeout:  200 * time.Millisecond,
		RequestTimeout: time.Second,
	}, tokens, logger.Nop())
	require.NoError(t, err)
	return c.(*httpHubClient)
}

func signedTestToken(t *testing.T, sub string) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": sub})
	s, err := tok.SignedString([]byte("test-key"))
	require.NoError(t, err)
	return s
}

// ── Login ────────────────────────────────────────────────────────────────────

func TestLogin_Success(t *testing.T) {
	token := signedTestToken(t, "42")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/auth/login", r.URL.Path)
		assert.NotEmpty(t, r.Header.Get("X-Request-Id"))

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"token":%q}`, token)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, &stubTokens{})
	got, err := c.Login(context.Background(), models.User{Login: "jordan", Password: "pw"})

	require.NoError(t, err)
	assert.Equal(t, token, got.Token)
	assert.Equal(t, int64(42), got.UserID)
}

func TestLogin_TokenFromAuthorizationHeader(t *testing.T) {
	token := signedTestToken(t, "7")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Authorization", "Bearer "+token)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, &stubTokens{})
	got, err := c.Login(context.Background(), models.User{Login: "jordan"})

	require.NoError(t, err)
	assert.Equal(t, token, got.Token)
	assert.Equal(t, int64(7), got.UserID)
}

func TestLogin_NonNumericSubjectDisablesAttribution(t *testing.T) {
	token := signedTestToken(t, "jordan@example.edu")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"token":%q}`, token)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, &stubTokens{})
	got, err := c.Login(context.Background(), models.User{Login: "jordan"})

	require.NoError(t, err)
	assert.Zero(t, got.UserID)
	assert.Equal(t, token, got.Token)
}

func TestLogin_Unauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, &stubTokens{})
	_, err := c.Login(context.Background(), models.User{Login: "jordan", Password: "wrong"})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

// ── Health ───────────────────────────────────────────────────────────────────

func TestHealth_OK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/health", r.URL.Path)
		assert.Equal(t, "no-cache", r.Header.Get("Cache-Control"))
		assert.NotEmpty(t, r.URL.Query().Get("_"), "expected cache-busting query param")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, &stubTokens{})

	require.NoError(t, c.Health(context.Background()))
}

// TestHealth_Non200IsFailure pins the "exact 200" contract: even a 204 from
// a misbehaving proxy must not count as healthy.
func TestHealth_Non200IsFailure(t *testing.T) {
	for _, status := range []int{http.StatusNoContent, http.StatusServiceUnavailable, http.StatusBadGateway} {
		t.Run(http.StatusText(status), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(status)
			}))
			defer srv.Close()

			c := newTestClient(t, srv.URL, &stubTokens{})
			err := c.Health(context.Background())

			require.Error(t, err)
			assert.ErrorIs(t, err, ErrHealthCheckFailed)
		})
	}
}

func TestHealth_TimesOut(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(time.Second)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, &stubTokens{}) // 200ms health timeout

	start := time.Now()
	err := c.Health(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrHealthCheckFailed)
	assert.Less(t, time.Since(start), time.Second, "health check must abort on its own timeout")
}

// ── Replay ───────────────────────────────────────────────────────────────────

func TestReplay_Success(t *testing.T) {
	action := models.QueuedAction{
		ID:        "1700000000000",
		Type:      models.ActionPost,
		Payload:   models.ActionPayload{Body: "offline draft"},
		CreatedAt: time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC),
		UserID:    42,
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/sync", r.URL.Path)
		assert.Equal(t, "Bearer stored-token", r.Header.Get("Authorization"))

		var got models.QueuedAction
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		assert.Equal(t, action.ID, got.ID)
		assert.Equal(t, action.Payload.Body, got.Payload.Body)

		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, &stubTokens{token: "stored-token"})

	require.NoError(t, c.Replay(context.Background(), action))
}

func TestReplay_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, &stubTokens{token: "tok"})
	err := c.Replay(context.Background(), models.QueuedAction{ID: "1", Type: models.ActionSync})

	require.Error(t, err)
}

// TestReplay_TokenReadAtCallTime verifies the credential is read from the
// source per request, not cached at construction.
func TestReplay_TokenReadAtCallTime(t *testing.T) {
	var seen []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	tokens := &stubTokens{token: "first"}
	c := newTestClient(t, srv.URL, tokens)
	ctx := context.Background()

	require.NoError(t, c.Replay(ctx, models.QueuedAction{ID: "1", Type: models.ActionSync}))
	tokens.token = "second"
	require.NoError(t, c.Replay(ctx, models.QueuedAction{ID: "2", Type: models.ActionSync}))

	require.Len(t, seen, 2)
	assert.Equal(t, "Bearer first", seen[0])
	assert.Equal(t, "Bearer second", seen[1])
}

func TestReplay_TokenSourceFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request should be issued when the token cannot be read")
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, &stubTokens{err: fmt.Errorf("database is locked")})
	err := c.Replay(context.Background(), models.QueuedAction{ID: "1", Type: models.ActionSync})

	require.Error(t, err)
}

// ── CreatePost / SendMessage ─────────────────────────────────────────────────

func TestCreatePost_PostsPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/posts", r.URL.Path)

		var got models.ActionPayload
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		assert.Equal(t, "hello campus", got.Body)

		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, &stubTokens{token: "tok"})

	require.NoError(t, c.CreatePost(context.Background(), models.ActionPayload{Body: "hello campus"}))
}

func TestSendMessage_TargetsRecipient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/messages", r.URL.Path)

		var got models.ActionPayload
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		assert.Equal(t, "u-17", got.TargetID)

		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, &stubTokens{token: "tok"})

	require.NoError(t, c.SendMessage(context.Background(), models.ActionPayload{TargetID: "u-17", Body: "hi"}))
}
