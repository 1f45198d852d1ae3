package transcript

import (
	"context"

	"github.com/DoyleJ11/arena-probe/internal/engine"
	itypes "github.com/DoyleJ11/arena-probe/internal/types"
)

// Sink receives every observed frame and the final report of a run.
type Sink interface {
	Line(obs engine.Observation)
	Finish(ctx context.Context, payload []byte, r itypes.Report) error
	Close() error
}

type saver interface {
	Save(ctx context.Context, run *Run) error
}

// Recorder buffers a run in memory and writes it once, at Finish.
type Recorder struct {
	store saver
	obs   []engine.Observation
}

func NewRecorder(store saver) *Recorder {
	return &Recorder{store: store}
}

func (r *Recorder) Line(obs engine.Observation) {
	r.obs = append(r.obs, obs)
}

// lines turns the buffered frames into rows, with each attack carrying the
// roll and damage that followed it.
func (r *Recorder) lines() []Line {
	events := make([]engine.Event, len(r.obs))
	for i, o := range r.obs {
		events[i] = o.Event
	}
	events = engine.Aggregate(events)

	out := make([]Line, len(r.obs))
	for i, o := range r.obs {
		evt := events[i]
		out[i] = Line{
			Seq:      o.Index,
			Category: string(evt.Category),
			Text:     evt.Raw,
			DeltaMS:  o.Delta.Milliseconds(),
			Source:   evt.Source,
			Target:   evt.Target,
			Amount:   evt.Amount,
			Dice:     evt.Dice,
			Ability:  evt.Ability,
		}
	}
	return out
}

func (r *Recorder) Finish(ctx context.Context, payload []byte, rep itypes.Report) error {
	run := &Run{
		Variant:     rep.Variant,
		URL:         rep.URL,
		Roster:      string(payload),
		Count:       rep.Count,
		Started:     rep.Started,
		Ended:       rep.Ended,
		Winner:      rep.Winner,
		Termination: string(rep.Termination),
		CloseCode:   rep.CloseCode,
		CloseReason: rep.CloseReason,
		StartedAt:   rep.StartedAt,
		FinishedAt:  rep.FinishedAt,
		Lines:       r.lines(),
	}
	if rep.Err != nil {
		run.Error = rep.Err.Error()
	}
	r.obs = nil
	return r.store.Save(ctx, run)
}

func (r *Recorder) Close() error {
	if c, ok := r.store.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}

// Nop discards everything. Used when no database is configured.
type Nop struct{}

func (Nop) Line(engine.Observation)                             {}
func (Nop) Finish(context.Context, []byte, itypes.Report) error { return nil }
func (Nop) Close() error                                        { return nil }
