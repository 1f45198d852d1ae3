package probe

import (
	"context"
	"errors"
	"time"

	"github.com/DoyleJ11/arena-probe/internal/engine"
	itypes "github.com/DoyleJ11/arena-probe/internal/types"
	"github.com/DoyleJ11/arena-probe/internal/ws"
)

// Policy decides when a receive loop stops besides a peer close.
type Policy struct {
	Timeout      time.Duration // per-read bound, 0 = none
	StopOnMarker bool          // stop right after a "combat ended" frame
}

// FrameSource is the read side of a session.
type FrameSource interface {
	Next(ctx context.Context, timeout time.Duration) (string, error)
}

// ReceiveLoop reads frames until the peer closes, a read times out, or
// (with StopOnMarker) the end-of-combat line arrives. onFrame runs for
// every frame before any stop decision. The returned error is non-nil
// only for transport faults; the report is filled in either way.
func ReceiveLoop(ctx context.Context, src FrameSource, pol Policy, now func() time.Time, onFrame func(engine.Observation)) (itypes.Report, error) {
	if now == nil {
		now = time.Now
	}
	state := engine.NewState(now())
	rep := itypes.Report{}

	finish := func(end itypes.Termination) itypes.Report {
		rep.Count = state.Count
		rep.Started = state.Started
		rep.Ended = state.Ended
		rep.Winner = state.Winner
		rep.Deaths = state.Deaths
		rep.Counts = state.Counts
		rep.Termination = end
		return rep
	}

	for {
		text, err := src.Next(ctx, pol.Timeout)
		if err != nil {
			var closed *ws.ClosedError
			switch {
			case errors.As(err, &closed):
				rep.CloseCode = closed.Code
				rep.CloseReason = closed.Reason
				return finish(itypes.EndClosed), nil
			case errors.Is(err, ws.ErrTimeout):
				return finish(itypes.EndTimeout), nil
			default:
				rep.Err = err
				return finish(itypes.EndError), err
			}
		}

		var obs engine.Observation
		obs, state = engine.Apply(state, engine.Frame{Text: text, At: now()})
		if onFrame != nil {
			onFrame(obs)
		}

		if pol.StopOnMarker && obs.Event.Category == engine.CatEnded {
			return finish(itypes.EndMarker), nil
		}
	}
}
