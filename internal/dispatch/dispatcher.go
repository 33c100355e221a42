package dispatch

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"camctl/internal/page"
	"camctl/internal/view"
	"camctl/pkg/models"
)

var (
	ErrNoCamera       = errors.New("no camera bound")
	ErrUnknownCommand = errors.New("invalid PTZ command")
	ErrCardGone       = errors.New("camera card not in grid")
	ErrCancelled      = errors.New("deletion cancelled")
)

// Outcomes recorded per command kind.
const (
	OutcomeOK      = "ok"
	OutcomeError   = "error"
	OutcomeSkipped = "skipped"
)

// API is the control endpoint set. *client.CameraClient implements it.
// A non-nil error means the exchange never completed.
type API interface {
	SendPTZCommand(ctx context.Context, camID int, command string) (models.Result, error)
	GetCameraInfo(ctx context.Context, camID int) (models.Result, error)
	DeleteCamera(ctx context.Context, camID int) (models.Result, error)
}

type StatusSurface interface {
	Show(text string, severity view.Severity)
}

type InfoPanel interface {
	Show(pos models.Position)
	Hide()
}

type Grid interface {
	Card(id int) (view.Card, bool)
	FadeOut(id int) (<-chan struct{}, bool)
}

// Confirmer is the human gate in front of destructive commands.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(prompt string) bool

func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

type Options struct {
	Status  StatusSurface
	Info    InfoPanel
	Grid    Grid
	Confirm Confirmer
	Logger  zerolog.Logger

	// DiscardStale drops status and info updates from a response that
	// resolves after a newer command's response was already shown.
	// Off by default: the last response to resolve wins.
	DiscardStale bool
}

type CommandCount struct {
	Kind    string
	Outcome string
	Total   uint64
}

type countKey struct {
	kind, outcome string
}

type Dispatcher struct {
	page page.Context
	api  API
	opts Options
	log  zerolog.Logger

	seq atomic.Uint64

	mu     sync.Mutex
	shown  uint64
	counts map[countKey]uint64
}

func New(pc page.Context, api API, opts Options) *Dispatcher {
	if opts.Status == nil {
		opts.Status = nopStatus{}
	}
	if opts.Info == nil {
		opts.Info = nopInfo{}
	}

	return &Dispatcher{
		page:   pc,
		api:    api,
		opts:   opts,
		log:    opts.Logger,
		counts: map[countKey]uint64{},
	}
}

// Dispatch runs one command to completion. Failures never escape as errors:
// they come back as a failed Result and, when a request was attempted or
// rejected, as a danger status. Safe for concurrent use; each call is an
// independent exchange.
func (d *Dispatcher) Dispatch(ctx context.Context, cmd Command) models.Result {
	seq := d.seq.Add(1)

	var res models.Result
	var outcome string

	switch c := cmd.(type) {
	case PTZ:
		res, outcome = d.ptz(ctx, seq, c)
	case GetInfo:
		res, outcome = d.info(ctx, seq)
	case Delete:
		res, outcome = d.delete(ctx, seq, c)
	default:
		res, outcome = models.Err(fmt.Sprintf("unsupported command %T", cmd)), OutcomeSkipped
	}

	d.log.Debug().Uint64("seq", seq).Str("kind", kindOf(cmd)).Str("outcome", outcome).
		Str("message", res.Message).Msg("[dispatch] done")

	d.mu.Lock()
	d.counts[countKey{kind: kindOf(cmd), outcome: outcome}]++
	d.mu.Unlock()

	return res
}

func (d *Dispatcher) ptz(ctx context.Context, seq uint64, c PTZ) (models.Result, string) {
	if !d.page.HasCamera() {
		return models.Err(ErrNoCamera.Error()), OutcomeSkipped
	}

	if !models.IsCommandToken(c.Token) {
		res := models.Err(fmt.Sprintf("%s: %q", ErrUnknownCommand, c.Token))
		d.report(seq, res, nil)
		return res, OutcomeError
	}

	res, err := d.api.SendPTZCommand(ctx, d.page.CameraID, c.Token)
	if err != nil {
		d.log.Error().Err(err).Str("command", c.Token).Msg("[dispatch] failed to send command")
		res = models.Err(err.Error())
	}

	d.report(seq, res, nil)
	return res, outcomeOf(res)
}

func (d *Dispatcher) info(ctx context.Context, seq uint64) (models.Result, string) {
	if !d.page.HasCamera() {
		return models.Err(ErrNoCamera.Error()), OutcomeSkipped
	}

	res, err := d.api.GetCameraInfo(ctx, d.page.CameraID)
	if err != nil {
		d.log.Error().Err(err).Msg("[dispatch] failed to get camera info")
		res = models.Err(err.Error())
	}

	d.report(seq, res, func() {
		if res.OK && res.Position != nil {
			d.opts.Info.Show(*res.Position)
		} else {
			d.opts.Info.Hide()
		}
	})
	return res, outcomeOf(res)
}

func (d *Dispatcher) delete(ctx context.Context, seq uint64, c Delete) (models.Result, string) {
	if d.opts.Grid == nil {
		return models.Err(ErrCardGone.Error()), OutcomeSkipped
	}

	card, ok := d.opts.Grid.Card(c.CameraID)
	if !ok {
		return models.Err(ErrCardGone.Error()), OutcomeSkipped
	}

	prompt := fmt.Sprintf("Are you sure you want to delete camera %q?", card.Name)
	if d.opts.Confirm == nil || !d.opts.Confirm.Confirm(prompt) {
		return models.Err(ErrCancelled.Error()), OutcomeSkipped
	}

	res, err := d.api.DeleteCamera(ctx, card.ID)
	if err != nil {
		d.log.Error().Err(err).Int("cam_id", card.ID).Msg("[dispatch] failed to delete camera")
		res = models.Err(err.Error())
	}

	// removal follows the server's answer, never the status ordering
	if res.OK {
		d.opts.Grid.FadeOut(card.ID)
	}

	d.report(seq, res, nil)
	return res, outcomeOf(res)
}

// report writes the single status update of a command.
func (d *Dispatcher) report(seq uint64, res models.Result, apply func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.opts.DiscardStale && seq < d.shown {
		d.log.Debug().Uint64("seq", seq).Uint64("shown", d.shown).Msg("[dispatch] stale response dropped")
		return
	}
	d.shown = seq

	if apply != nil {
		apply()
	}

	severity := view.Success
	if !res.OK {
		severity = view.Danger
	}
	d.opts.Status.Show(res.Message, severity)
}

// Counts returns per kind/outcome totals, sorted for stable output.
func (d *Dispatcher) Counts() []CommandCount {
	d.mu.Lock()
	counts := make([]CommandCount, 0, len(d.counts))
	for k, v := range d.counts {
		counts = append(counts, CommandCount{Kind: k.kind, Outcome: k.outcome, Total: v})
	}
	d.mu.Unlock()

	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Kind != counts[j].Kind {
			return counts[i].Kind < counts[j].Kind
		}
		return counts[i].Outcome < counts[j].Outcome
	})
	return counts
}

func outcomeOf(res models.Result) string {
	if res.OK {
		return OutcomeOK
	}
	return OutcomeError
}

func kindOf(cmd Command) string {
	if cmd == nil {
		return "unknown"
	}
	return cmd.Kind()
}

type nopStatus struct{}

func (nopStatus) Show(string, view.Severity) {}

type nopInfo struct{}

func (nopInfo) Show(models.Position) {}
func (nopInfo) Hide()                {}
