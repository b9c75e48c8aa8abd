package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/unicon-campus/unicon-client/internal/config"
	"github.com/unicon-campus/unicon-client/internal/logger"
	"github.com/unicon-campus/unicon-client/models"
)

type httpHubClient struct {
	client        *resty.Client
	tokens        TokenSource
	healthPath    string
	healthTimeout time.Duration
	logger        *logger.Logger
}

// NewHTTPHubClient constructs the REST implementation of [HubClient] for the
// configured hub deployment.
func NewHTTPHubClient(cfg config.ClientAPI, tokens TokenSource, log *logger.Logger) (HubClient, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = config.DefaultBaseURL
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = config.DefaultRequestTimeout
	}
	if cfg.HealthTimeout <= 0 {
		cfg.HealthTimeout = config.DefaultHealthTimeout
	}
	if cfg.HealthPath == "" {
		cfg.HealthPath = config.DefaultHealthPath
	}

	cli := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.RequestTimeout)

	return &httpHubClient{
		client:        cli,
		tokens:        tokens,
		healthPath:    cfg.HealthPath,
		healthTimeout: cfg.HealthTimeout,
		logger:        log,
	}, nil
}

func (h *httpHubClient) Login(ctx context.Context, user models.User) (models.Session, error) {
	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("X-Request-Id", uuid.NewString()).
		SetBody(user).
		Post("/api/auth/login")
	if err != nil {
		return models.Session{}, fmt.Errorf("login request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.Session{}, err
	}

	var body struct {
		Token string `json:"token"`
	}
	if err = unmarshalBody(resp, &body); err != nil {
		return models.Session{}, fmt.Errorf("decode login response: %w", err)
	}
	token := body.Token
	if token == "" {
		// some deployments return the token in the Authorization header
		token, err = parseBearerToken(resp.Header().Get("Authorization"))
		if err != nil {
			return models.Session{}, fmt.Errorf("login parse bearer token: %w", err)
		}
	}

	userID, err := parseUserIDFromJWT(token)
	if err != nil {
		h.logger.Warn().Err(err).
			Str("func", "httpHubClient.Login").
			Msg("token subject is not a numeric user id, attribution disabled")
		userID = 0
	}

	return models.Session{Token: token, UserID: userID}, nil
}

// Health probes the hub's health endpoint with a hard abort timeout and
// cache-bypassing headers. Only an exact 200 counts as healthy: a proxy
// serving a stale 204 or an error page must not be read as reachability.
func (h *httpHubClient) Health(ctx context.Context) error {
	checkCtx, cancel := context.WithTimeout(ctx, h.healthTimeout)
	defer cancel()

	resp, err := h.client.R().
		SetContext(checkCtx).
		SetHeader("Cache-Control", "no-cache").
		SetHeader("Pragma", "no-cache").
		SetQueryParam("_", strconv.FormatInt(time.Now().UnixMilli(), 10)).
		Get(h.healthPath)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrHealthCheckFailed, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("%w: http %d", ErrHealthCheckFailed, resp.StatusCode())
	}

	return nil
}

func (h *httpHubClient) Replay(ctx context.Context, action models.QueuedAction) error {
	req, err := h.authedRequest(ctx)
	if err != nil {
		return fmt.Errorf("replay action %s: %w", action.ID, err)
	}

	resp, err := req.
		SetHeader("Content-Type", "application/json").
		SetBody(action).
		Post("/api/sync")
	if err != nil {
		return fmt.Errorf("replay request for action %s: %w", action.ID, err)
	}

	return mapHTTPError(resp)
}

func (h *httpHubClient) CreatePost(ctx context.Context, payload models.ActionPayload) error {
	req, err := h.authedRequest(ctx)
	if err != nil {
		return fmt.Errorf("create post: %w", err)
	}

	resp, err := req.
		SetHeader("Content-Type", "application/json").
		SetBody(payload).
		Post("/api/posts")
	if err != nil {
		return fmt.Errorf("create post request: %w", err)
	}

	return mapHTTPError(resp)
}

func (h *httpHubClient) SendMessage(ctx context.Context, payload models.ActionPayload) error {
	req, err := h.authedRequest(ctx)
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}

	resp, err := req.
		SetHeader("Content-Type", "application/json").
		SetBody(payload).
		Post("/api/messages")
	if err != nil {
		return fmt.Errorf("send message request: %w", err)
	}

	return mapHTTPError(resp)
}

// authedRequest builds a request carrying the bearer credential read from
// durable storage at call time.
func (h *httpHubClient) authedRequest(ctx context.Context) (*resty.Request, error) {
	req := h.client.R().
		SetContext(ctx).
		SetHeader("X-Request-Id", uuid.NewString())

	if h.tokens == nil {
		return req, nil
	}

	token, err := h.tokens.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("read bearer token: %w", err)
	}
	req.SetHeader("Authorization", "Bearer "+token)

	return req, nil
}

func mapHTTPError(resp *resty.Response) error {
	if resp.StatusCode() >= http.StatusOK && resp.StatusCode() < http.StatusMultipleChoices {
		return nil
	}

	if resp.StatusCode() == http.StatusUnauthorized {
		return ErrUnauthorized
	}

	body := strings.TrimSpace(string(resp.Body()))
	if body == "" {
		body = http.StatusText(resp.StatusCode())
	}
	return fmt.Errorf("http %d: %s", resp.StatusCode(), body)
}

func unmarshalBody(resp *resty.Response, v any) error {
	if len(resp.Body()) == 0 {
		return nil
	}
	return json.Unmarshal(resp.Body(), v)
}

func parseBearerToken(value string) (string, error) {
	parts := strings.Split(strings.TrimSpace(value), " ")
	if len(parts) != 2 || parts[1] == "" {
		return "", errors.New("invalid authorization header")
	}
	return parts[1], nil
}

func parseUserIDFromJWT(tokenString string) (int64, error) {
	token, _, err := jwt.NewParser().ParseUnverified(tokenString, jwt.MapClaims{})
	if err != nil {
		return 0, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, errors.New("invalid token claims")
	}

	sub, err := claims.GetSubject()
	if err != nil {
		return 0, err
	}

	id, err := strconv.ParseInt(sub, 10, 64)
	if err != nil {
		return 0, err
	}
	return id, nil
}
