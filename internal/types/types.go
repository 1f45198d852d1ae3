package types

import (
	"time"

	"github.com/DoyleJ11/arena-probe/internal/engine"
)

// Termination is why a receive loop stopped.
type Termination string

const (
	EndClosed  Termination = "closed"  // peer sent a close frame
	EndTimeout Termination = "timeout" // nothing arrived within the wait bound
	EndMarker  Termination = "marker"  // "combat ended" line seen
	EndRefused Termination = "refused" // never connected
	EndError   Termination = "error"   // transport fault
)

// Report is the outcome of one probe run.
type Report struct {
	Variant     string
	URL         string
	Characters  int
	Count       int
	Started     bool
	Ended       bool
	Winner      string
	Deaths      []string
	Termination Termination
	CloseCode   int
	CloseReason string
	Err         error
	StartedAt   time.Time
	FinishedAt  time.Time
	Counts      map[engine.Category]int
}

func (r Report) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}
