package engine

import (
	"maps"
	"slices"
	"strings"
	"time"
)

type Category string

const (
	CatStarted Category = "started"
	CatEnded   Category = "ended"
	CatVictory Category = "victory"
	CatDeath   Category = "death"
	CatAttack  Category = "attack"
	CatDamage  Category = "damage"
	CatDice    Category = "dice"
	CatHeal    Category = "heal"
	CatAbility Category = "ability"
	CatInfo    Category = "info"
)

// Event is one classified combat log line.
type Event struct {
	Category Category
	Raw      string
	Source   string
	Target   string
	Amount   int
	Dice     int
	Ability  string
}

// Classify maps a raw line to its category using DisplayRules and pulls
// out whatever details the line carries. Pure, no side effects.
func Classify(text string) Event {
	evt := Event{Category: CatInfo, Raw: text}
	for _, rule := range DisplayRules {
		if rule.matches(text) {
			evt.Category = rule.Category
			break
		}
	}
	extractDetails(&evt)
	return evt
}

type State struct {
	Count   int
	Last    time.Time
	Started bool
	Ended   bool
	Counts  map[Category]int
	Winner  string
	Deaths  []string // in the order they fell
}

type Frame struct {
	Text string
	At   time.Time
}

// Observation is what the loop prints for one frame.
type Observation struct {
	Index int
	Delta time.Duration
	Event Event
}

func NewState(start time.Time) State {
	return State{
		Last:   start,
		Counts: map[Category]int{},
	}
}

// Apply folds one frame into the receive state. The input state is left
// untouched.
func Apply(s State, f Frame) (Observation, State) {
	evt := Decode(f.Text)

	newState := s
	newState.Counts = maps.Clone(s.Counts)
	if newState.Counts == nil {
		newState.Counts = map[Category]int{}
	}

	newState.Count++
	newState.Last = f.At
	newState.Counts[evt.Category]++

	switch evt.Category {
	case CatStarted:
		newState.Started = true
	case CatEnded:
		newState.Ended = true
	case CatVictory:
		if evt.Source != "" {
			newState.Winner = evt.Source
		}
	case CatDeath:
		if evt.Source != "" {
			newState.Deaths = append(slices.Clip(s.Deaths), evt.Source)
		}
	}

	obs := Observation{
		Index: newState.Count,
		Delta: f.At.Sub(s.Last),
		Event: evt,
	}
	return obs, newState
}

func contains(text, sub string) bool {
	return strings.Contains(text, sub)
}
