// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 UNICON Campus Hub

package shellcache

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/unicon-campus/unicon-client/internal/config"
)

// Fetcher retrieves shell assets from the hub origin.
type Fetcher interface {
	// Fetch downloads one asset by request URI (path with optional query)
	// and returns its bytes and content type. Non-2xx responses are errors.
	Fetch(ctx context.Context, requestURI string) (data []byte, contentType string, err error)

	// Forward replays an arbitrary request against the origin without
	// caching, carrying the caller's headers, and returns the origin's
	// status, content type, and body.
	Forward(ctx context.Context, method, requestURI string, header http.Header, body []byte) (status int, respContentType string, respBody []byte, err error)
}

type originFetcher struct {
	client *resty.Client
}

// NewOriginFetcher builds a Fetcher bound to the hub base URL.
func NewOriginFetcher(cfg config.ClientAPI) Fetcher {
	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.RequestTimeout)

	return &originFetcher{client: client}
}

func (f *originFetcher) Fetch(ctx context.Context, requestURI string) ([]byte, string, error) {
	resp, err := f.client.R().
		SetContext(ctx).
		Get(requestURI)
	if err != nil {
		return nil, "", fmt.Errorf("fetch %s: %w", requestURI, err)
	}
	if resp.IsError() {
		return nil, "", fmt.Errorf("fetch %s: http %d", requestURI, resp.StatusCode())
	}

	return resp.Body(), resp.Header().Get("Content-Type"), nil
}

func (f *originFetcher) Forward(ctx context.Context, method, requestURI string, header http.Header, body []byte) (int, string, []byte, error) {
	req := f.client.R().SetContext(ctx)
	if header != nil {
		req.SetHeaderMultiValues(header)
		// the transport recomputes these for the outgoing request
		req.Header.Del("Content-Length")
		req.Header.Del("Connection")
	}
	if len(body) > 0 {
		req.SetBody(body)
	}

	resp, err := req.Execute(method, requestURI)
	if err != nil {
		return 0, "", nil, fmt.Errorf("forward %s %s: %w", method, requestURI, err)
	}

	return resp.StatusCode(), resp.Header().Get("Content-Type"), resp.Body(), nil
}
