package arena

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/DoyleJ11/arena-probe/pkg/types"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	startingHP = 30
	maxRounds  = 200
)

// Options shape what the mock arena streams back.
type Options struct {
	Interval time.Duration // pause before each line
	Seed     int64         // 0 picks a random seed per battle
	HoldOpen bool          // keep the socket open after the last line
	Script   []string      // canned lines instead of a generated fight
}

var titler = cases.Title(language.French)

// Script generates a deterministic fight log for a roster. It is a test
// fixture that produces lines in the arena's format, not a combat engine.
func Script(roster types.Roster, seed int64) []string {
	if len(roster) == 0 {
		return nil
	}

	names := make([]string, 0, len(roster))
	for _, c := range roster {
		names = append(names, fmt.Sprintf("%s (%s)", c.Name, titler.String(c.Type)))
	}
	lines := []string{"🟢 Début du combat : " + strings.Join(names, " vs ")}

	if len(roster) == 1 {
		return append(lines,
			fmt.Sprintf("🏆 %s remporte le combat", roster[0].Name),
			"🛑 Fin du combat",
		)
	}

	rng := rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15))
	hp := make(map[string]int, len(roster))
	alive := make([]string, 0, len(roster))
	for _, c := range roster {
		hp[c.Name] = startingHP
		alive = append(alive, c.Name)
	}

	for round := 1; len(alive) > 1 && round <= maxRounds; round++ {
		lines = append(lines, fmt.Sprintf("Tour %d", round))

		attacker := alive[rng.IntN(len(alive))]
		target := attacker
		for target == attacker {
			target = alive[rng.IntN(len(alive))]
		}

		roll := rng.IntN(20) + 1
		dmg := roll/2 + 1
		hp[target] -= dmg
		lines = append(lines,
			fmt.Sprintf("🪓 %s fonce sur %s", attacker, target),
			fmt.Sprintf("🎲 %s lance les dés : %d", attacker, roll),
			fmt.Sprintf("💥 %s subit %d dégâts", target, dmg),
		)

		if hp[target] <= 0 {
			lines = append(lines, fmt.Sprintf("💀 %s est mort", target))
			alive = remove(alive, target)
		}
	}

	if len(alive) == 1 {
		lines = append(lines, fmt.Sprintf("🏆 %s est le dernier survivant", alive[0]))
	}
	return append(lines, "🛑 Fin du combat")
}

func remove(names []string, name string) []string {
	out := names[:0]
	for _, n := range names {
		if n != name {
			out = append(out, n)
		}
	}
	return out
}

// Battle streams one script to one connection.
type Battle struct {
	ID     string
	Roster types.Roster
	lines  []string
	out    chan string
	ctx    context.Context
	cancel context.CancelFunc
}

func NewBattle(parent context.Context, id string, roster types.Roster, opts Options) *Battle {
	ctx, cancel := context.WithCancel(parent)

	lines := opts.Script
	if lines == nil {
		seed := opts.Seed
		if seed == 0 {
			seed = rand.Int64()
		}
		lines = Script(roster, seed)
	}

	b := &Battle{
		ID:     id,
		Roster: roster,
		lines:  lines,
		out:    make(chan string), // unbuffered: pacing follows the writer
		ctx:    ctx,
		cancel: cancel,
	}
	go b.loop(opts.Interval)
	return b
}

func (b *Battle) loop(interval time.Duration) {
	defer close(b.out)
	for _, line := range b.lines {
		if interval > 0 {
			select {
			case <-b.ctx.Done():
				return
			case <-time.After(interval):
			}
		}
		select {
		case <-b.ctx.Done():
			return
		case b.out <- line:
		}
	}
}

// Lines is closed once the script is exhausted or the battle stopped.
func (b *Battle) Lines() <-chan string { return b.out }

func (b *Battle) Stop() { b.cancel() }
