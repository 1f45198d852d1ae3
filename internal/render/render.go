package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/DoyleJ11/arena-probe/internal/engine"
	itypes "github.com/DoyleJ11/arena-probe/internal/types"
	"github.com/DoyleJ11/arena-probe/pkg/types"
)

type Style int

const (
	StyleClassified Style = iota // emoji-prefixed lines, started/ended summary
	StylePlain                   // raw lines
	StyleTimed                   // delta + index per line, truncated
)

const DefaultPreviewLimit = 150

var prefixes = map[engine.Category]string{
	engine.CatVictory: "👑 ",
	engine.CatDeath:   "☠️  ",
	engine.CatAttack:  "⚔️  ",
	engine.CatDamage:  "💢 ",
}

// Printer writes the human-readable side of a probe run. Write errors on
// the console are ignored.
type Printer struct {
	w            io.Writer
	style        Style
	previewLimit int
}

func New(w io.Writer, style Style, previewLimit int) *Printer {
	if previewLimit <= 0 {
		previewLimit = DefaultPreviewLimit
	}
	return &Printer{w: w, style: style, previewLimit: previewLimit}
}

func (p *Printer) printf(format string, args ...any) {
	fmt.Fprintf(p.w, format, args...)
}

func (p *Printer) Banner(title string) {
	rule := strings.Repeat("=", 80)
	p.printf("%s\n🎮 %s\n%s\n\n", rule, title, rule)
}

func (p *Printer) Connecting(url string) {
	p.printf("🔗 Connecting to %s...\n", url)
}

func (p *Printer) Connected() {
	p.printf("✅ Connected\n")
}

func (p *Printer) Sent(roster types.Roster, payload []byte) {
	switch p.style {
	case StylePlain:
		p.printf("📤 Sending configuration: %s\n", payload)
	default:
		p.printf("\n📤 Sending configuration: %d characters\n", len(roster))
	}
}

func (p *Printer) Listening() {
	switch p.style {
	case StyleClassified:
		p.printf("\n📜 Combat logs:\n\n%s\n", strings.Repeat("-", 80))
	case StylePlain:
		p.printf("\n📜 Combat logs:\n%s\n", strings.Repeat("=", 50))
	case StyleTimed:
		p.printf("\n📜 Listening for combat events...\n\n")
	}
}

// Frame prints exactly one line (plus spacing) per received frame.
func (p *Printer) Frame(obs engine.Observation) {
	text := obs.Event.Raw
	switch p.style {
	case StylePlain:
		p.printf("%s\n", text)
	case StyleTimed:
		p.printf("📨 [%.2fs] Event #%d: %s\n", obs.Delta.Seconds(), obs.Index, Truncate(text, p.previewLimit))
	default:
		switch obs.Event.Category {
		case engine.CatStarted:
			p.printf("\n🟢 COMBAT STARTED\n\n")
		case engine.CatEnded:
			p.printf("\n%s\n\n🛑 COMBAT ENDED\n\n", text)
		default:
			prefix, ok := prefixes[obs.Event.Category]
			if !ok {
				prefix = "   "
			}
			p.printf("%s%s\n", prefix, text)
		}
	}
}

func (p *Printer) Summary(r itypes.Report) {
	switch p.style {
	case StyleClassified:
		if r.Termination == itypes.EndTimeout {
			p.printf("\n⏱️ Timeout - stopped receiving logs\n")
		}
		p.printf("%s\n\n📊 Summary:\n", strings.Repeat("-", 80))
		p.printf("   - logs received = %d\n", r.Count)
		p.printf("   - combat started: %s\n", check(r.Started))
		p.printf("   - combat ended: %s\n", check(r.Ended))
		if len(r.Deaths) > 0 {
			p.printf("   - fallen: %s\n", strings.Join(r.Deaths, ", "))
		}
		if r.Winner != "" {
			p.printf("   - winner: %s\n", r.Winner)
		}
		if r.Termination == itypes.EndClosed {
			p.printf("   - %s\n", closeLine(r))
		}
	case StylePlain:
		p.printf("%s\n", strings.Repeat("=", 50))
		switch r.Termination {
		case itypes.EndTimeout:
			p.printf("\n⏱️ Timeout - no more logs\n")
		default:
			p.printf("\n✅ Combat finished - %s\n", closeLine(r))
		}
		p.printf("   - logs received = %d\n", r.Count)
	case StyleTimed:
		switch r.Termination {
		case itypes.EndTimeout:
			p.printf("\n⏱️  Timeout after %d events\n", r.Count)
		default:
			p.printf("\n🏁 Combat finished (%d: %s) - %d events received\n", r.CloseCode, r.CloseReason, r.Count)
		}
		p.printf("   - logs received = %d\n", r.Count)
	}
}

// Diagnostic is the one-line report for a run that failed outright.
func (p *Printer) Diagnostic(r itypes.Report, port int) {
	switch r.Termination {
	case itypes.EndRefused:
		p.printf("❌ Unable to reach the server\n")
		p.printf("   Make sure the RPG-Arena server is running on port %d\n", port)
	default:
		p.printf("❌ Error: %v\n", r.Err)
		if r.Count > 0 {
			p.printf("   - logs received = %d\n", r.Count)
		}
	}
}

func (p *Printer) Done() {
	p.printf("\n✅ Test finished\n")
}

// Truncate cuts s to limit runes, appending "..." when it had to cut.
func Truncate(s string, limit int) string {
	if limit <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}

func closeLine(r itypes.Report) string {
	if r.CloseReason == "" {
		return fmt.Sprintf("connection closed (%d)", r.CloseCode)
	}
	return fmt.Sprintf("connection closed (%d: %s)", r.CloseCode, r.CloseReason)
}

func check(ok bool) string {
	if ok {
		return "✅"
	}
	return "❌"
}
