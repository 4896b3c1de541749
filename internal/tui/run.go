package tui

import (
	"context"
	"time"

	"github.com/RezaEskandarii/recordgrid/internal/refresh"
	tea "github.com/charmbracelet/bubbletea"
)

// RemoteNotifier reports invalidations made by other console instances.
type RemoteNotifier interface {
	OnRemote(handler func(route string))
}

// Run starts the browser full screen. With a non-empty schedule the current
// page is re-fetched on every activation, and on every remote invalidation.
func Run(ctx context.Context, m *Model, schedule string, remotes ...RemoteNotifier) error {
	defer m.Close()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	for _, r := range remotes {
		r.OnRemote(func(string) { p.Send(RefreshMsg{}) })
	}

	if schedule != "" {
		s, err := refresh.New(schedule, func(context.Context) { p.Send(RefreshMsg{}) }, m.logger)
		if err != nil {
			return err
		}
		s.Start()
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			s.Stop(stopCtx)
		}()
	}

	_, err := p.Run()
	return err
}
