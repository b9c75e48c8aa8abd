// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 UNICON Campus Hub

package shellcache

import (
	"context"
	"errors"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/unicon-campus/unicon-client/internal/config"
	"github.com/unicon-campus/unicon-client/internal/logger"
)

// Gateway is a local HTTP server that fronts the hub origin the way a
// service worker fronts fetch: GET requests are answered cache-first from
// the shell cache, keyed by the full request URI, and everything else is
// forwarded to the origin with its headers, query, and body intact. When an
// asset is neither cached nor reachable the gateway answers 502.
type Gateway struct {
	cache  *Cache
	origin Fetcher
	logger *logger.Logger
	server *http.Server
}

func NewGateway(cache *Cache, origin Fetcher, cfg config.ClientShell, log *logger.Logger) *Gateway {
	g := &Gateway{cache: cache, origin: origin, logger: log}
	g.server = &http.Server{Addr: cfg.GatewayAddress, Handler: g.Init()}
	return g
}

func (g *Gateway) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(g.withTraceID)
	router.Use(withLogging)

	router.Get("/*", g.serveShell)

	// everything that is not a plain GET bypasses the cache entirely
	router.MethodNotAllowed(g.passthrough)

	return router
}

// RunServer blocks serving the gateway until Shutdown is called.
func (g *Gateway) RunServer() {
	g.logger.Info().
		Str("func", "shellcache.Gateway.RunServer").
		Str("address", g.server.Addr).
		Msg("shell gateway listening")

	if err := g.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		g.logger.Error().Err(err).
			Str("func", "shellcache.Gateway.RunServer").
			Msg("shell gateway stopped")
	}
}

// Shutdown gracefully stops the gateway. Safe to call when not running.
func (g *Gateway) Shutdown() {
	if err := g.server.Shutdown(context.Background()); err != nil {
		g.logger.Error().Err(err).
			Str("func", "shellcache.Gateway.Shutdown").
			Msg("shell gateway shutdown")
	}
}

func (g *Gateway) serveShell(w http.ResponseWriter, r *http.Request) {
	// the full URI keys the cache: responses for the same path under
	// different queries are distinct
	assetKey := requestKey(r)

	if data, err := g.cache.Get(assetKey); err == nil {
		g.write(w, http.StatusOK, contentTypeFor(r.URL.Path, data), data, "hit")
		return
	}

	data, contentType, err := g.origin.Fetch(r.Context(), assetKey)
	if err != nil {
		g.logger.Warn().Err(err).
			Str("func", "shellcache.Gateway.serveShell").
			Str("asset", assetKey).
			Msg("asset not cached and origin unreachable")
		http.Error(w, "shell asset unavailable offline", http.StatusBadGateway)
		return
	}

	// successful same-origin responses join the cache for next time
	if err := g.cache.Put(assetKey, data); err != nil {
		g.logger.Warn().Err(err).
			Str("func", "shellcache.Gateway.serveShell").
			Str("asset", assetKey).
			Msg("failed to cache fetched asset")
	}

	if contentType == "" {
		contentType = contentTypeFor(r.URL.Path, data)
	}
	g.write(w, http.StatusOK, contentType, data, "miss")
}

func (g *Gateway) passthrough(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "read request body", http.StatusBadRequest)
		return
	}

	status, contentType, respBody, err := g.origin.Forward(r.Context(), r.Method, requestKey(r), r.Header, body)
	if err != nil {
		http.Error(w, "origin unreachable", http.StatusBadGateway)
		return
	}

	if contentType != "" {
		w.Header().Set("Content-Type", contentType)
	}
	w.WriteHeader(status)
	_, _ = w.Write(respBody)
}

func (g *Gateway) write(w http.ResponseWriter, status int, contentType string, data []byte, cacheResult string) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("X-Shell-Cache", cacheResult)
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// requestKey rebuilds the request URI the caller sent, query included.
func requestKey(r *http.Request) string {
	if r.URL.RawQuery == "" {
		return r.URL.Path
	}
	return r.URL.Path + "?" + r.URL.RawQuery
}

const traceIDHeader = "X-Trace-ID"

func (g *Gateway) withTraceID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := r.Header.Get(traceIDHeader)
		if traceID == "" {
			traceID = uuid.NewString()
		}

		l := g.logger.GetChildLogger()
		l.UpdateContext(func(c zerolog.Context) zerolog.Context {
			return c.Str("trace_id", traceID)
		})
		r = r.WithContext(l.WithContext(r.Context()))

		w.Header().Set(traceIDHeader, traceID)
		next.ServeHTTP(w, r)
	})
}

func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)

		start := time.Now()
		lw := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(lw, r)

		log.Info().
			Str("uri", r.RequestURI).
			Str("method", r.Method).
			Int("status", lw.Status()).
			Dur("duration", time.Since(start)).
			Int("size", lw.BytesWritten()).
			Send()
	})
}

// contentTypeFor derives a content type from the asset's extension, falling
// back to sniffing. The root document is always HTML.
func contentTypeFor(assetPath string, data []byte) string {
	if assetPath == "/" || assetPath == "" {
		return "text/html; charset=utf-8"
	}
	if byExt := mime.TypeByExtension(filepath.Ext(assetPath)); byExt != "" {
		return byExt
	}
	return http.DetectContentType(data)
}
