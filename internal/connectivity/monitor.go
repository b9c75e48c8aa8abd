// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 UNICON Campus Hub

// Package connectivity decides whether the hub is reachable.
//
// Two independent signals feed the decision: the OS-level link state (the
// equivalent of a browser's online/offline events, which can be wrong behind
// captive portals and VPNs) and an active health check against the hub. The
// monitor combines them with a deliberate agreement policy: the client is
// reported offline only when BOTH signals are negative. A failing health
// check while the link is up means the backend has a problem, not the
// network, and must not raise the offline banner.
package connectivity

import (
	"context"
	"sync"
	"time"

	"github.com/unicon-campus/unicon-client/internal/logger"
	"github.com/unicon-campus/unicon-client/models"
)

// HealthChecker probes the hub's health endpoint. Satisfied by
// [adapter.HubClient].
type HealthChecker interface {
	Health(ctx context.Context) error
}

// LinkProbe reports the coarse OS-level link signal.
type LinkProbe interface {
	Up() bool
}

// StateChange is delivered to subscribers whenever the monitor's belief
// flips between online and offline.
type StateChange struct {
	Online bool
	// Visible marks changes produced by a visible check (link event or
	// manual retry) as opposed to a silent background one.
	Visible bool
	At      time.Time
}

// Config holds the monitor's timing knobs.
type Config struct {
	// StartupDelay postpones the initial silent check so a slow app boot
	// does not flash a false offline state.
	StartupDelay time.Duration

	// CheckInterval is the period between silent background health checks.
	CheckInterval time.Duration

	// ProbeInterval is the period between link-state polls.
	ProbeInterval time.Duration
}

// Monitor derives a single trustworthy online/offline signal. Construct with
// [NewMonitor], wire subscribers with [Monitor.Subscribe], then call
// [Monitor.Start].
type Monitor struct {
	health HealthChecker
	probe  LinkProbe
	cfg    Config
	logger *logger.Logger
	now    func() time.Time

	mu              sync.Mutex
	online          bool
	confirmed       bool
	lastCheckedAt   time.Time
	lastLinkUp      bool
	bannerShown     bool
	bannerDismissed bool
	subs            []chan StateChange
	cancel          context.CancelFunc

	wg sync.WaitGroup
}

// NewMonitor constructs an idle Monitor. The initial belief is online: the
// app boots optimistic and lets the first check correct it, rather than
// flashing an offline banner while the network stack warms up. The belief is
// unconfirmed until that first check, so its result is always published even
// when it matches the optimistic default; listeners that act on an online
// confirmation (queued actions from a previous run) would otherwise wait for
// an offline episode that may never come.
func NewMonitor(health HealthChecker, probe LinkProbe, cfg Config, log *logger.Logger) *Monitor {
	return &Monitor{
		health: health,
		probe:  probe,
		cfg:    cfg,
		logger: log,
		now:    time.Now,
		online: true,
	}
}

// Subscribe registers a listener for online/offline transitions. The
// returned channel is buffered; a slow consumer drops updates rather than
// blocking the monitor. Detach with [Monitor.Unsubscribe]; Stop closes any
// channels still subscribed.
func (m *Monitor) Subscribe() <-chan StateChange {
	ch := make(chan StateChange, 8)

	m.mu.Lock()
	m.subs = append(m.subs, ch)
	m.mu.Unlock()

	return ch
}

// Unsubscribe detaches a channel obtained from Subscribe and closes it. A
// channel that was never subscribed, or was already closed by Stop, is
// ignored.
func (m *Monitor) Unsubscribe(ch <-chan StateChange) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, sub := range m.subs {
		if sub == ch {
			m.subs = append(m.subs[:i], m.subs[i+1:]...)
			close(sub)
			return
		}
	}
}

// Start launches the background loop: the initial silent check after the
// startup delay, periodic silent checks, and link-state polls that trigger
// visible re-evaluation on a link transition. The loop exits when ctx is
// cancelled or Stop is called.
func (m *Monitor) Start(ctx context.Context) {
	m.Stop()

	m.mu.Lock()
	runCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.lastLinkUp = m.probe.Up()
	m.wg.Add(1)
	m.mu.Unlock()

	go m.run(runCtx)
}

// Stop cancels the background loop and blocks until it has fully exited,
// then closes all subscriber channels. Safe to call when not running.
func (m *Monitor) Stop() {
	m.mu.Lock()
	cancel := m.cancel
	m.cancel = nil
	m.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	m.wg.Wait()

	m.mu.Lock()
	subs := m.subs
	m.subs = nil
	m.mu.Unlock()
	for _, ch := range subs {
		close(ch)
	}
}

func (m *Monitor) run(ctx context.Context) {
	defer m.wg.Done()

	startup := time.NewTimer(m.cfg.StartupDelay)
	defer startup.Stop()

	checks := time.NewTicker(m.cfg.CheckInterval)
	defer checks.Stop()

	probes := time.NewTicker(m.cfg.ProbeInterval)
	defer probes.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-startup.C:
			// initial check is silent: no banner flash during boot
			m.Check(ctx, false)
		case <-checks.C:
			m.Check(ctx, false)
		case <-probes.C:
			m.observeLink(ctx)
		}
	}
}

// observeLink polls the link probe and, on a transition, re-evaluates
// connectivity in visible mode — the Go analog of handling a browser
// online/offline event.
func (m *Monitor) observeLink(ctx context.Context) {
	up := m.probe.Up()

	m.mu.Lock()
	was := m.lastLinkUp
	m.lastLinkUp = up
	if up && !was {
		// a genuine link-up ends the offline episode the dismissal was
		// scoped to
		m.bannerDismissed = false
	}
	m.mu.Unlock()

	if up != was {
		m.logger.Debug().
			Str("func", "connectivity.Monitor.observeLink").
			Bool("link_up", up).
			Msg("link state transition")
		m.Check(ctx, true)
	}
}

// Check evaluates both signals and updates the monitor's belief.
//
// The agreement policy:
//   - offline only when the link is down AND the health check fails;
//   - a single positive signal is sufficient to report online;
//   - a health failure with the link up is a backend problem and keeps the
//     state online.
//
// Visible checks may show the banner on an offline result; silent checks
// only update internal state. Returns the resulting state.
func (m *Monitor) Check(ctx context.Context, visible bool) models.ConnectivityState {
	linkUp := m.probe.Up()
	healthErr := m.health.Health(ctx)
	healthy := healthErr == nil

	online := linkUp || healthy

	m.mu.Lock()
	m.lastLinkUp = linkUp
	prev := m.online
	m.online = online
	m.lastCheckedAt = m.now()
	if online {
		m.bannerShown = false
	} else if visible && !m.bannerDismissed {
		m.bannerShown = true
	}
	state := models.ConnectivityState{Online: online, LastCheckedAt: m.lastCheckedAt}
	// the first completed check confirms the optimistic default and is
	// always published, otherwise only genuine flips are
	changed := !m.confirmed || prev != online
	m.confirmed = true
	if changed {
		// non-blocking sends under the lock: Unsubscribe cannot close a
		// channel mid-send
		change := StateChange{Online: online, Visible: visible, At: state.LastCheckedAt}
		for _, ch := range m.subs {
			select {
			case ch <- change:
			default:
			}
		}
	}
	m.mu.Unlock()

	if healthErr != nil && linkUp {
		m.logger.Debug().Err(healthErr).
			Str("func", "connectivity.Monitor.Check").
			Msg("health check failed with link up, treating as backend issue")
	}

	if changed {
		m.logger.Info().
			Str("func", "connectivity.Monitor.Check").
			Bool("online", online).
			Bool("visible", visible).
			Msg("connectivity state transition")
	}

	return state
}

// CheckNow runs a user-triggered retry. Manual retries are always visible.
func (m *Monitor) CheckNow(ctx context.Context) models.ConnectivityState {
	return m.Check(ctx, true)
}

// Online reports the monitor's current belief.
func (m *Monitor) Online() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.online
}

// State returns the current derived connectivity state.
func (m *Monitor) State() models.ConnectivityState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return models.ConnectivityState{Online: m.online, LastCheckedAt: m.lastCheckedAt}
}

// BannerVisible reports whether the offline banner should be rendered.
func (m *Monitor) BannerVisible() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.bannerShown && !m.bannerDismissed
}

// DismissBanner hides the banner for the remainder of the current offline
// episode. The next genuine link-up transition clears the dismissal.
func (m *Monitor) DismissBanner() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bannerDismissed = true
	m.bannerShown = false
}
