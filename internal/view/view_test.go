package view

import (
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"camctl/pkg/models"
)

// manualTimers records scheduled callbacks so tests can fire them in any order.
type manualTimers struct {
	mu     sync.Mutex
	timers []*manualTimer
}

type manualTimer struct {
	d       time.Duration
	f       func()
	stopped bool
}

func (t *manualTimer) Stop() bool {
	was := !t.stopped
	t.stopped = true
	return was
}

func (m *manualTimers) after(d time.Duration, f func()) timer {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := &manualTimer{d: d, f: f}
	m.timers = append(m.timers, t)
	return t
}

// fire runs the i-th callback even if it was stopped, the way a timer that
// already started firing would.
func (m *manualTimers) fire(i int) {
	m.mu.Lock()
	t := m.timers[i]
	m.mu.Unlock()
	t.f()
}

func TestStatusShowAndClear(t *testing.T) {
	var clears int
	timers := &manualTimers{}
	s := NewStatus(func(msg Message, visible bool) {
		if !visible {
			clears++
		}
	})
	s.after = timers.after

	s.Show("Comando enviado com sucesso.", Success)

	msg, ok := s.Current()
	require.True(t, ok)
	require.Equal(t, Message{Text: "Comando enviado com sucesso.", Severity: Success}, msg)
	require.Equal(t, ClearAfter, timers.timers[0].d)

	timers.fire(0)
	_, ok = s.Current()
	require.False(t, ok)
	require.Equal(t, 1, clears)
}

func TestStatusReplaceCancelsPendingClear(t *testing.T) {
	var clears int
	timers := &manualTimers{}
	s := NewStatus(func(msg Message, visible bool) {
		if !visible {
			clears++
			require.Equal(t, "second", msg.Text)
		}
	})
	s.after = timers.after

	s.Show("first", Info)
	s.Show("second", Danger)
	require.True(t, timers.timers[0].stopped)

	// a stale timer racing the replacement must not clear the new message
	timers.fire(0)
	msg, ok := s.Current()
	require.True(t, ok)
	require.Equal(t, "second", msg.Text)
	require.Zero(t, clears)

	timers.fire(1)
	_, ok = s.Current()
	require.False(t, ok)
	require.Equal(t, 1, clears)

	timers.fire(1)
	require.Equal(t, 1, clears)
}

func TestStatusRealTimer(t *testing.T) {
	cleared := make(chan struct{})
	s := NewStatus(func(msg Message, visible bool) {
		if !visible {
			close(cleared)
		}
	})
	s.after = func(d time.Duration, f func()) timer {
		return time.AfterFunc(10*time.Millisecond, f)
	}

	s.Show("deleted", Success)

	select {
	case <-cleared:
	case <-time.After(time.Second):
		t.Fatal("status was not cleared")
	}
}

func TestSeverityString(t *testing.T) {
	require.Equal(t, "info", Info.String())
	require.Equal(t, "success", Success.String())
	require.Equal(t, "danger", Danger.String())
}

func TestInfoPanel(t *testing.T) {
	var events []bool
	p := NewInfoPanel(func(pos models.Position, visible bool) {
		events = append(events, visible)
	})

	_, visible := p.Current()
	require.False(t, visible)

	p.Show(models.Position{X: 100, Y: -50, Z: 5})
	pos, visible := p.Current()
	require.True(t, visible)
	require.Equal(t, models.Position{X: 100, Y: -50, Z: 5}, pos)

	p.Hide()
	_, visible = p.Current()
	require.False(t, visible)
	require.Equal(t, []bool{true, false}, events)
}

func TestGridFadeOut(t *testing.T) {
	timers := &manualTimers{}
	g := NewGrid([]models.Camera{{ID: 3, Name: "Lobby"}, {ID: 7, Name: "Garage Cam"}}, nil)
	g.after = timers.after

	card, ok := g.Card(7)
	require.True(t, ok)
	require.Equal(t, "Garage Cam", card.Name)
	require.Equal(t, 1.0, card.Opacity)

	done, ok := g.FadeOut(7)
	require.True(t, ok)
	require.Equal(t, RemovalDelay, timers.timers[0].d)

	// fading: still in the grid but no longer live
	require.Len(t, g.Cards(), 2)
	require.Equal(t, 0.0, g.Cards()[1].Opacity)
	_, ok = g.Card(7)
	require.False(t, ok)

	again, ok := g.FadeOut(7)
	require.True(t, ok)
	require.Equal(t, done, again)
	require.Len(t, timers.timers, 1)

	timers.fire(0)
	select {
	case <-done:
	default:
		t.Fatal("removal not signaled")
	}
	require.Equal(t, []models.Camera{{ID: 3, Name: "Lobby"}}, g.Cameras())

	_, ok = g.FadeOut(7)
	require.False(t, ok)
}

func TestGridAdd(t *testing.T) {
	var seen int
	g := NewGrid(nil, func(cards []Card) { seen = len(cards) })

	g.Add(models.Camera{ID: 1, Name: "Dock"})
	require.Equal(t, 1, seen)

	card, ok := g.Card(1)
	require.True(t, ok)
	require.Equal(t, "Dock", card.Name)
}

func TestImage(t *testing.T) {
	img := &Image{}

	rec := httptest.NewRecorder()
	img.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/frame.jpg", nil))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	jpeg := []byte{0xff, 0xd8, 0xff, 0xe0, 0x00, 0x10}
	img.Display(models.FrameURIPrefix + base64.StdEncoding.EncodeToString(jpeg))
	img.Display(models.FrameURIPrefix + base64.StdEncoding.EncodeToString(jpeg[:2]))

	rec = httptest.NewRecorder()
	img.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/frame.jpg", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "image/jpeg", rec.Header().Get("Content-Type"))
	require.Equal(t, jpeg[:2], rec.Body.Bytes())

	img.Display(models.FrameURIPrefix + "***")
	rec = httptest.NewRecorder()
	img.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/frame.jpg", nil))
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}
