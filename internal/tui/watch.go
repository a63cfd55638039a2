// Package tui holds the live sync indicator shown by `ritual sync --watch`.
// The model reacts to connectivity edges: every offline→online transition
// kicks off a reconciliation pass, and the footer reflects queue depth and
// the last pass's outcome.
package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ritualapp/ritual-cli/internal/connectivity"
	"github.com/ritualapp/ritual-cli/internal/models"
	"github.com/ritualapp/ritual-cli/internal/storage"
	"github.com/ritualapp/ritual-cli/internal/syncer"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			Padding(1, 2)

	onlineStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	offlineStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Padding(1, 2)
)

type connectivityMsg bool

type syncDoneMsg struct {
	summary models.SyncSummary
	err     error
}

type probeTickMsg time.Time

type countsMsg struct {
	pending int
	failed  int
}

// WatchModel is the bubbletea model behind `ritual sync --watch`.
type WatchModel struct {
	store   storage.Provider
	monitor *connectivity.Monitor
	rec     *syncer.Reconciler

	spin    spinner.Model
	edges   chan bool
	online  bool
	syncing bool

	pending     int
	failed      int
	lastSummary *models.SyncSummary
	lastErr     error
	lastSyncAt  time.Time
}

func NewWatch(store storage.Provider, monitor *connectivity.Monitor, rec *syncer.Reconciler) WatchModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	// Buffered so the monitor's synchronous notify never blocks on the TUI.
	edges := make(chan bool, 8)
	monitor.Subscribe(func(online bool) {
		select {
		case edges <- online:
		default:
		}
	})

	return WatchModel{
		store:   store,
		monitor: monitor,
		rec:     rec,
		spin:    sp,
		edges:   edges,
		online:  monitor.Online(),
	}
}

func (m WatchModel) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.spin.Tick,
		waitForEdge(m.edges),
		probeTick(),
		refreshCounts(m.store),
	}
	// Catch up on anything queued before the watch session started. The
	// reconciler's single-flight guard makes a redundant kick harmless.
	if m.online {
		cmds = append(cmds, runSync(m.rec))
	}
	return tea.Batch(cmds...)
}

func waitForEdge(edges chan bool) tea.Cmd {
	return func() tea.Msg {
		return connectivityMsg(<-edges)
	}
}

func probeTick() tea.Cmd {
	return tea.Tick(5*time.Second, func(t time.Time) tea.Msg {
		return probeTickMsg(t)
	})
}

func refreshCounts(store storage.Provider) tea.Cmd {
	return func() tea.Msg {
		pending, err := store.CountCompletionsByStatus(models.CompletionPending)
		if err != nil {
			return countsMsg{}
		}
		failed, _ := store.CountCompletionsByStatus(models.CompletionFailed)
		return countsMsg{pending: pending, failed: failed}
	}
}

func runSync(rec *syncer.Reconciler) tea.Cmd {
	return func() tea.Msg {
		summary, err := rec.Run(context.Background())
		return syncDoneMsg{summary: summary, err: err}
	}
}

func (m WatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "s":
			if m.online && !m.syncing {
				m.syncing = true
				return m, runSync(m.rec)
			}
		}
		return m, nil

	case connectivityMsg:
		wasOffline := !m.online
		m.online = bool(msg)
		cmds := []tea.Cmd{waitForEdge(m.edges)}
		if m.online && wasOffline && !m.syncing && m.pending > 0 {
			m.syncing = true
			cmds = append(cmds, runSync(m.rec))
		}
		return m, tea.Batch(cmds...)

	case probeTickMsg:
		return m, tea.Batch(
			func() tea.Msg {
				m.monitor.Probe(context.Background())
				return nil
			},
			refreshCounts(m.store),
			probeTick(),
		)

	case countsMsg:
		m.pending = msg.pending
		m.failed = msg.failed
		return m, nil

	case syncDoneMsg:
		m.syncing = false
		m.lastSyncAt = time.Now()
		if errors.Is(msg.err, syncer.ErrSyncInProgress) {
			return m, refreshCounts(m.store)
		}
		m.lastErr = msg.err
		if msg.err == nil {
			summary := msg.summary
			m.lastSummary = &summary
		}
		return m, refreshCounts(m.store)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m WatchModel) View() string {
	var state string
	if m.online {
		state = onlineStyle.Render("● online")
	} else {
		state = offlineStyle.Render("● offline")
	}

	var activity string
	switch {
	case m.syncing:
		activity = fmt.Sprintf("%s syncing…", m.spin.View())
	case m.lastErr != nil:
		activity = errorStyle.Render(fmt.Sprintf("last sync failed: %v", m.lastErr))
	case m.lastSummary != nil:
		activity = dimStyle.Render(fmt.Sprintf("last sync %s: %d synced, %d failed",
			m.lastSyncAt.Format("15:04:05"), m.lastSummary.Synced, m.lastSummary.Failed))
	default:
		activity = dimStyle.Render("waiting for changes")
	}

	queue := fmt.Sprintf("pending: %d", m.pending)
	if m.failed > 0 {
		queue += "  " + errorStyle.Render(fmt.Sprintf("failed: %d", m.failed))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("ritual sync"),
		"  "+state+"  "+dimStyle.Render(queue),
		"  "+activity,
		helpStyle.Render("s: sync now • q: quit"),
	)
}
