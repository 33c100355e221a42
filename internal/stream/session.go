package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"

	"github.com/rs/zerolog"

	"camctl/internal/channel"
	"camctl/internal/page"
	"camctl/pkg/models"
)

type State int32

const (
	Idle State = iota
	Connecting
	Connected
	Streaming
	Closed
)

var stateNames = [...]string{"idle", "connecting", "connected", "streaming", "closed"}

// States lists every state in transition order.
var States = []State{Idle, Connecting, Connected, Streaming, Closed}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}

// Sink displays one frame source. Implementations must not block.
type Sink interface {
	Display(src string)
}

type Stats struct {
	State    State
	Frames   uint64
	Connects uint64
}

// Session attaches a viewer to the live frame feed of one camera.
type Session struct {
	page page.Context
	sink Sink
	log  zerolog.Logger

	state    atomic.Int32
	frames   atomic.Uint64
	connects atomic.Uint64
}

func New(pc page.Context, sink Sink, log zerolog.Logger) *Session {
	return &Session{
		page: pc,
		sink: sink,
		log:  log.With().Int("cam_id", pc.CameraID).Logger(),
	}
}

func (s *Session) State() State {
	return State(s.state.Load())
}

func (s *Session) Stats() Stats {
	return Stats{
		State:    s.State(),
		Frames:   s.frames.Load(),
		Connects: s.connects.Load(),
	}
}

func (s *Session) setState(st State) {
	if prev := State(s.state.Swap(int32(st))); prev != st {
		s.log.Debug().Stringer("from", prev).Stringer("to", st).Msg("[stream] state")
	}
}

// Run opens the camera channel and renders frames until the transport
// disconnects or ctx is done. Without a bound camera it returns nil at once.
// There is no reconnect: a dropped channel ends the session.
func (s *Session) Run(ctx context.Context) error {
	if !s.page.HasCamera() {
		return nil
	}
	if s.State() != Idle {
		return fmt.Errorf("stream: session already %s", s.State())
	}

	s.setState(Connecting)

	ch, err := s.page.Dial(ctx, models.CameraNamespace)
	if err != nil {
		s.setState(Closed)
		return fmt.Errorf("stream: open channel: %w", err)
	}
	defer ch.Close()

	for {
		select {
		case <-ctx.Done():
			s.setState(Closed)
			return nil
		case ev, ok := <-ch.Events():
			if !ok {
				s.setState(Closed)
				return nil
			}

			switch ev.Type {
			case channel.Connected:
				s.onConnect(ch)
			case channel.Message:
				s.onMessage(ev)
			case channel.Disconnected:
				s.setState(Closed)
				if ev.Err != nil {
					return fmt.Errorf("stream: %w", ev.Err)
				}
				return nil
			}
		}
	}
}

// onConnect declares the frame subscription. Sent once per connect
// acknowledgment; the server treats a repeat as a restart of the same feed.
func (s *Session) onConnect(ch page.Channel) {
	s.connects.Add(1)
	s.setState(Connected)

	if err := ch.Emit(models.EventStartStream, models.StartStream{CamID: s.page.CameraID}); err != nil {
		s.log.Warn().Err(err).Msg("[stream] start_stream")
		return
	}
	s.log.Info().Msg("[stream] start_stream sent")
}

func (s *Session) onMessage(ev channel.Event) {
	if ev.Name != models.EventVideoFrame {
		s.log.Debug().Str("event", ev.Name).Msg("[stream] ignore event")
		return
	}

	var frame models.VideoFrame
	if err := json.Unmarshal(ev.Data, &frame); err != nil {
		s.log.Warn().Err(err).Msg("[stream] video_frame")
		return
	}

	// the payload goes to the sink as-is; a bad image is the renderer's problem
	s.sink.Display(models.FrameURIPrefix + frame.Image)

	s.frames.Add(1)
	if s.State() == Connected {
		s.setState(Streaming)
	}
}
