// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 UNICON Campus Hub

package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/unicon-campus/unicon-client/internal/connectivity"
	"github.com/unicon-campus/unicon-client/internal/service"
	"github.com/unicon-campus/unicon-client/models"
)

type screen int

const (
	screenPost screen = iota
	screenMessage
	screenQueue
)

type mainLoopModel struct {
	ctx      context.Context
	services *service.ClientServices
	monitor  *connectivity.Monitor
	updates  <-chan connectivity.StateChange
	session  models.Session

	mode   screen
	online bool

	postArea textarea.Model

	recipient textinput.Model
	msgArea   textarea.Model
	msgFocus  int

	queue []models.QueuedAction
	idx   int

	submitting bool
	status     string
	errMsg     string
	logout     bool
}

func newMainLoopModel(ctx context.Context, services *service.ClientServices, monitor *connectivity.Monitor, updates <-chan connectivity.StateChange, session models.Session) mainLoopModel {
	postArea := textarea.New()
	postArea.Placeholder = "What's happening on campus?"
	postArea.SetWidth(56)
	postArea.SetHeight(5)
	postArea.Focus()

	recipient := textinput.New()
	recipient.Placeholder = "recipient id"
	recipient.CharLimit = 64
	recipient.Width = 40

	msgArea := textarea.New()
	msgArea.Placeholder = "Write a message..."
	msgArea.SetWidth(56)
	msgArea.SetHeight(4)

	return mainLoopModel{
		ctx:       ctx,
		services:  services,
		monitor:   monitor,
		updates:   updates,
		session:   session,
		online:    monitor.Online(),
		postArea:  postArea,
		recipient: recipient,
		msgArea:   msgArea,
		queue:     services.Queue.List(),
	}
}

func (m mainLoopModel) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.waitConnectivity())
}

func (m mainLoopModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case connectivityMsg:
		if msg.closed {
			return m, nil
		}
		m.online = msg.change.Online
		// the reconciler may have drained the queue behind our back
		m.queue = m.services.Queue.List()
		if m.idx >= len(m.queue) {
			m.idx = max(0, len(m.queue)-1)
		}
		return m, m.waitConnectivity()

	case retryDoneMsg:
		if msg.state.Online {
			m.status = "back online"
		} else {
			m.status = "still offline"
		}
		m.online = msg.state.Online
		m.queue = m.services.Queue.List()
		return m, m.cmdClearStatusLater()

	case submitDoneMsg:
		m.submitting = false
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			return m, nil
		}
		m.errMsg = ""
		if msg.result.Delivered {
			m.status = "delivered"
		} else {
			m.status = fmt.Sprintf("saved to outbox (#%s), will send when online", msg.result.Action.ID)
		}
		m.resetCompose()
		m.queue = m.services.Queue.List()
		return m, m.cmdClearStatusLater()

	case queueLoadedMsg:
		m.queue = msg.actions
		if m.idx >= len(m.queue) {
			m.idx = max(0, len(m.queue)-1)
		}
		return m, nil

	case copiedMsg:
		if msg.err != nil {
			m.errMsg = msg.err.Error()
		} else {
			m.status = "copied to clipboard"
		}
		return m, m.cmdClearStatusLater()

	case clearStatusMsg:
		m.status = ""
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.updateInputs(msg)
}

func (m mainLoopModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "ctrl+l":
		m.logout = true
		return m, tea.Quit
	case "ctrl+t":
		m.mode = (m.mode + 1) % 3
		m.errMsg = ""
		return m.applyFocus()
	case "ctrl+r":
		m.status = "checking connection..."
		return m, m.cmdRetryNow()
	case "ctrl+d":
		m.monitor.DismissBanner()
		return m, nil
	case "ctrl+s":
		if m.submitting {
			return m, nil
		}
		return m.submitCurrent()
	}

	if m.mode == screenQueue {
		return m.handleQueueKey(msg)
	}

	if m.mode == screenMessage && msg.String() == "tab" {
		m.msgFocus = (m.msgFocus + 1) % 2
		return m.applyFocus()
	}

	return m.updateInputs(msg)
}

func (m mainLoopModel) handleQueueKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.idx > 0 {
			m.idx--
		}
	case "down", "j":
		if m.idx < len(m.queue)-1 {
			m.idx++
		}
	case "x":
		if m.idx < len(m.queue) {
			m.services.Queue.Dequeue(m.ctx, m.queue[m.idx].ID)
			return m, m.cmdLoadQueue()
		}
	case "c":
		if m.idx < len(m.queue) {
			return m, m.cmdCopy(m.queue[m.idx].Payload.Body)
		}
	}
	return m, nil
}

func (m mainLoopModel) submitCurrent() (tea.Model, tea.Cmd) {
	switch m.mode {
	case screenPost:
		body := strings.TrimSpace(m.postArea.Value())
		if body == "" {
			m.errMsg = "nothing to post"
			return m, nil
		}
		m.submitting = true
		m.errMsg = ""
		return m, m.cmdSubmitPost(models.ActionPayload{Body: body})
	case screenMessage:
		body := strings.TrimSpace(m.msgArea.Value())
		target := strings.TrimSpace(m.recipient.Value())
		if body == "" || target == "" {
			m.errMsg = "recipient and message are required"
			return m, nil
		}
		m.submitting = true
		m.errMsg = ""
		return m, m.cmdSendMessage(models.ActionPayload{Body: body, TargetID: target})
	}
	return m, nil
}

func (m mainLoopModel) updateInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.mode {
	case screenPost:
		m.postArea, cmd = m.postArea.Update(msg)
	case screenMessage:
		if m.msgFocus == 0 {
			m.recipient, cmd = m.recipient.Update(msg)
		} else {
			m.msgArea, cmd = m.msgArea.Update(msg)
		}
	}
	return m, cmd
}

func (m mainLoopModel) applyFocus() (tea.Model, tea.Cmd) {
	m.postArea.Blur()
	m.msgArea.Blur()
	m.recipient.Blur()

	switch m.mode {
	case screenPost:
		return m, m.postArea.Focus()
	case screenMessage:
		if m.msgFocus == 0 {
			return m, m.recipient.Focus()
		}
		return m, m.msgArea.Focus()
	}
	return m, nil
}

func (m *mainLoopModel) resetCompose() {
	switch m.mode {
	case screenPost:
		m.postArea.Reset()
	case screenMessage:
		m.msgArea.Reset()
	}
}

// ── view ───────────────────────────────────────────────────────────────────

func (m mainLoopModel) View() string {
	var b strings.Builder

	b.WriteString(viewTitle(m.title()))

	if m.monitor.BannerVisible() {
		b.WriteString("  ")
		b.WriteString(bannerStyle.Render("You are offline. Content will be saved and sent when you reconnect."))
		b.WriteString("  ")
		b.WriteString(helpStyle.Render("ctrl+r: retry │ ctrl+d: dismiss"))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	switch m.mode {
	case screenPost:
		b.WriteString(indent(m.postArea.View()))
	case screenMessage:
		b.WriteString("  To [")
		b.WriteString(m.recipient.View())
		b.WriteString("]\n\n")
		b.WriteString(indent(m.msgArea.View()))
	case screenQueue:
		b.WriteString(m.viewQueue())
	}

	b.WriteString("\n\n")
	if m.status != "" {
		b.WriteString("  ")
		b.WriteString(m.status)
		b.WriteString("\n")
	}
	if m.errMsg != "" {
		b.WriteString("  ")
		b.WriteString(errorStyle.Render(m.errMsg))
		b.WriteString("\n")
	}

	b.WriteString("\n  ")
	b.WriteString(renderHelp(m.helpLine()))

	return b.String()
}

func (m mainLoopModel) title() string {
	status := "ONLINE"
	if !m.online {
		status = "OFFLINE"
	}

	name := [...]string{"Compose post", "Direct message", "Outbox"}[m.mode]
	return fmt.Sprintf("UNICON · %s · %s · %d pending", name, status, m.services.ComposerService.PendingCount())
}

func (m mainLoopModel) helpLine() string {
	submit := "ctrl+s: post"
	if !m.online {
		submit = "ctrl+s: save draft"
	}

	switch m.mode {
	case screenPost:
		return submit + " │ ctrl+t: next screen │ ctrl+l: logout"
	case screenMessage:
		if !m.online {
			submit = "ctrl+s: save copy"
		} else {
			submit = "ctrl+s: send"
		}
		return submit + " │ tab: switch field │ ctrl+t: next screen"
	default:
		return "x: remove │ c: copy │ ctrl+t: next screen"
	}
}

func (m mainLoopModel) viewQueue() string {
	if len(m.queue) == 0 {
		return "  outbox is empty"
	}

	var b strings.Builder
	for i, action := range m.queue {
		cursor := "  "
		if i == m.idx {
			cursor = "> "
		}
		line := fmt.Sprintf("%s%-8s %s  %s",
			cursor,
			action.Type,
			action.CreatedAt.Local().Format("Jan 02 15:04"),
			fitText(strings.ReplaceAll(action.Payload.Body, "\n", " "), 40),
		)
		if i == m.idx {
			b.WriteString(line)
		} else {
			b.WriteString(queuedStyle.Render(line))
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// ── commands ───────────────────────────────────────────────────────────────

func (m mainLoopModel) waitConnectivity() tea.Cmd {
	return func() tea.Msg {
		change, ok := <-m.updates
		return connectivityMsg{change: change, closed: !ok}
	}
}

func (m mainLoopModel) cmdSubmitPost(payload models.ActionPayload) tea.Cmd {
	return func() tea.Msg {
		result, err := m.services.ComposerService.SubmitPost(m.ctx, payload)
		return submitDoneMsg{result: result, err: err}
	}
}

func (m mainLoopModel) cmdSendMessage(payload models.ActionPayload) tea.Cmd {
	return func() tea.Msg {
		result, err := m.services.ComposerService.SendMessage(m.ctx, payload)
		return submitDoneMsg{result: result, err: err}
	}
}

func (m mainLoopModel) cmdRetryNow() tea.Cmd {
	return func() tea.Msg {
		return retryDoneMsg{state: m.monitor.CheckNow(m.ctx)}
	}
}

func (m mainLoopModel) cmdLoadQueue() tea.Cmd {
	return func() tea.Msg {
		return queueLoadedMsg{actions: m.services.Queue.List()}
	}
}

func (m mainLoopModel) cmdCopy(text string) tea.Cmd {
	return func() tea.Msg {
		if err := clipboard.WriteAll(text); err != nil {
			return copiedMsg{err: fmt.Errorf("copy to clipboard: %w", err)}
		}
		return copiedMsg{}
	}
}

func (m mainLoopModel) cmdClearStatusLater() tea.Cmd {
	return tea.Tick(3*time.Second, func(time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}
