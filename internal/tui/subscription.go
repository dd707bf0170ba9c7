package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sadopc/pomotrend/internal/backend"
	"github.com/sadopc/pomotrend/internal/countdown"
)

// subEvent wraps a message delivered by the backend subscription so the
// app knows to wait for the next one.
type subEvent struct {
	msg tea.Msg
}

// subscription forwards backend events into the Bubble Tea program. It is
// acquired before the program starts and must be closed when it exits.
type subscription struct {
	events chan tea.Msg
	done   chan struct{}
	unsubs []func()
	once   sync.Once
}

func subscribe(b backend.Backend) *subscription {
	s := &subscription{
		events: make(chan tea.Msg, 64),
		done:   make(chan struct{}),
	}
	s.unsubs = []func(){
		b.OnTick(func(snap countdown.Snapshot) { s.send(snapshotMsg{snap: snap}) }),
		b.OnPhaseCompleted(func(e backend.PhaseCompleted) { s.send(phaseCompletedMsg{event: e}) }),
		b.OnInsightsUpdated(func(i backend.Insights) { s.send(insightsMsg{insights: i}) }),
	}
	return s
}

func (s *subscription) send(msg tea.Msg) {
	select {
	case s.events <- msg:
	case <-s.done:
	}
}

// listen waits for the next event. It returns nil once the subscription
// is closed.
func (s *subscription) listen() tea.Cmd {
	return func() tea.Msg {
		select {
		case msg := <-s.events:
			return subEvent{msg: msg}
		case <-s.done:
			return nil
		}
	}
}

func (s *subscription) close() {
	s.once.Do(func() {
		for _, unsub := range s.unsubs {
			unsub()
		}
		close(s.done)
	})
}
