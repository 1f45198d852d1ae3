package probe

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/DoyleJ11/arena-probe/internal/config"
	"github.com/DoyleJ11/arena-probe/internal/engine"
	"github.com/DoyleJ11/arena-probe/internal/render"
	"github.com/DoyleJ11/arena-probe/internal/transcript"
	itypes "github.com/DoyleJ11/arena-probe/internal/types"
	"github.com/DoyleJ11/arena-probe/internal/ws"
	"github.com/DoyleJ11/arena-probe/pkg/types"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Probe is one configured smoke-test run against an arena endpoint.
type Probe struct {
	Config  config.Probe
	Roster  types.Roster
	Printer *render.Printer
	Sink    transcript.Sink
	Log     *zap.Logger
	Now     func() time.Time
}

// New wires a probe for a variant with its console style and policy.
func New(cfg config.Probe, roster types.Roster, out io.Writer, log *zap.Logger) *Probe {
	if log == nil {
		log = zap.NewNop()
	}
	return &Probe{
		Config:  cfg,
		Roster:  roster,
		Printer: render.New(out, StyleFor(cfg.Variant), cfg.PreviewLimit),
		Sink:    transcript.Nop{},
		Log:     log.With(zap.String("variant", string(cfg.Variant))),
		Now:     time.Now,
	}
}

func PolicyFor(cfg config.Probe) Policy {
	return Policy{
		Timeout:      cfg.Timeout,
		StopOnMarker: cfg.Variant == config.VariantFlow,
	}
}

func StyleFor(v config.Variant) render.Style {
	switch v {
	case config.VariantBasic:
		return render.StylePlain
	case config.VariantDocker:
		return render.StyleTimed
	default:
		return render.StyleClassified
	}
}

// Run connects, sends the roster once and prints the combat log until the
// variant's stop condition. Every failure ends up as a printed diagnostic;
// the report is returned for callers that want to inspect it.
func (p *Probe) Run(ctx context.Context) itypes.Report {
	url := p.Config.URL()
	startedAt := p.Now()
	rep := itypes.Report{
		Variant:    string(p.Config.Variant),
		URL:        url,
		Characters: len(p.Roster),
		StartedAt:  startedAt,
	}

	// encoded once, the same bytes are printed, sent and recorded
	payload, err := types.EncodeRoster(p.Roster)
	if err != nil {
		rep.Err = err
		rep.Termination = itypes.EndError
		p.Printer.Diagnostic(rep, p.Config.Port)
		return p.finish(ctx, nil, rep)
	}
	p.Printer.Connecting(url)

	dialCtx, cancel := ctxWithOptionalTimeout(ctx, p.Config.DialTimeout)
	session, err := ws.Dial(dialCtx, url, p.Log)
	cancel()
	if err != nil {
		rep.Err = err
		rep.Termination = itypes.EndError
		if errors.Is(err, ws.ErrConnectionRefused) {
			rep.Termination = itypes.EndRefused
		}
		p.Log.Debug("dial failed", zap.String("url", url), zap.Error(err))
		p.Printer.Diagnostic(rep, p.Config.Port)
		return p.finish(ctx, payload, rep)
	}

	defer func() {
		if cerr := session.Close(); cerr != nil {
			p.Log.Debug("closing session", zap.Error(cerr))
		}
	}()

	p.Printer.Connected()
	for _, c := range p.Roster.Unknown() {
		p.Log.Warn("unknown character type, sending anyway", zap.String("type", c.Type), zap.String("name", c.Name))
	}

	p.Printer.Sent(p.Roster, payload)
	if err := session.SendPayload(ctx, payload); err != nil {
		rep.Err = err
		rep.Termination = itypes.EndError
		p.Printer.Diagnostic(rep, p.Config.Port)
		return p.finish(ctx, payload, rep)
	}

	p.Printer.Listening()
	loopRep, err := ReceiveLoop(ctx, session, PolicyFor(p.Config), p.Now, func(obs engine.Observation) {
		p.Printer.Frame(obs)
		p.Sink.Line(obs)
	})
	loopRep.Variant = rep.Variant
	loopRep.URL = rep.URL
	loopRep.Characters = rep.Characters
	loopRep.StartedAt = rep.StartedAt
	rep = loopRep

	if err != nil {
		p.Printer.Diagnostic(rep, p.Config.Port)
	} else {
		p.Printer.Summary(rep)
	}
	return p.finish(ctx, payload, rep)
}

func (p *Probe) finish(ctx context.Context, payload []byte, rep itypes.Report) itypes.Report {
	rep.FinishedAt = p.Now()
	p.Log.Info("probe finished",
		zap.String("termination", string(rep.Termination)),
		zap.Int("frames", rep.Count),
		zap.Duration("elapsed", rep.Duration()),
	)
	// the transcript outlives a cancelled run
	err := multierr.Combine(
		p.Sink.Finish(context.WithoutCancel(ctx), payload, rep),
		p.Sink.Close(),
	)
	if err != nil {
		p.Log.Warn("saving transcript", zap.Error(err))
	}
	return rep
}

func ctxWithOptionalTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
