package engine

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

// RE2's \w is ASCII only, names like "Éloïse" need the Unicode classes.
const namePat = `([\p{L}\p{N}_]+)`

var (
	attackPattern  = regexp.MustCompile(namePat + ` (?:fonce sur|attaque|frappe|lance|utilise) ` + namePat)
	damagePattern  = regexp.MustCompile(`(\d+) (?:dégâts|PV|points de vie|HP)`)
	dicePattern    = regexp.MustCompile(`🎲 ` + namePat + ` lance les dés : (\d+)`)
	deathPattern   = regexp.MustCompile(`💀 ` + namePat + ` est (?:mort|tombé|éliminé)`)
	winnerPattern  = regexp.MustCompile(`🏆 ` + namePat + ` (?:est le dernier survivant|remporte le combat)`)
	abilityPattern = regexp.MustCompile(namePat + ` (?:crée|invoque|transforme|lance) (.+?) [:!]`)
)

func extractDetails(evt *Event) {
	text := evt.Raw
	switch evt.Category {
	case CatVictory:
		if m := winnerPattern.FindStringSubmatch(text); m != nil {
			evt.Source = m[1]
		}
	case CatDeath:
		if m := deathPattern.FindStringSubmatch(text); m != nil {
			evt.Source = m[1]
		}
	case CatDice:
		if m := dicePattern.FindStringSubmatch(text); m != nil {
			evt.Source = m[1]
			evt.Dice, _ = strconv.Atoi(m[2])
		}
	case CatAttack:
		if m := attackPattern.FindStringSubmatch(text); m != nil {
			evt.Source = m[1]
			evt.Target = m[2]
		}
	case CatDamage, CatHeal:
		if m := damagePattern.FindStringSubmatch(text); m != nil {
			evt.Amount, _ = strconv.Atoi(m[1])
		}
	case CatAbility:
		if m := abilityPattern.FindStringSubmatch(text); m != nil {
			evt.Source = m[1]
			evt.Ability = m[2]
		}
	}
}

// wireEvent is the tagged form a server may send instead of a bare line:
//
//	{"kind":"kill","text":"💀 Merlin est mort","source":"Merlin"}
type wireEvent struct {
	Kind    string `json:"kind"`
	Text    string `json:"text"`
	Source  string `json:"source,omitempty"`
	Target  string `json:"target,omitempty"`
	Amount  int    `json:"amount,omitempty"`
	Dice    int    `json:"dice,omitempty"`
	Ability string `json:"ability,omitempty"`
}

var kindToCategory = map[string]Category{
	"started": CatStarted,
	"ended":   CatEnded,
	"victory": CatVictory,
	"kill":    CatDeath,
	"death":   CatDeath,
	"attack":  CatAttack,
	"damage":  CatDamage,
	"dice":    CatDice,
	"heal":    CatHeal,
	"ability": CatAbility,
	"generic": CatInfo,
	"info":    CatInfo,
}

// Decode prefers the tagged JSON form and falls back to Classify for plain
// text or for objects with a kind it does not know.
func Decode(frame string) Event {
	trimmed := strings.TrimSpace(frame)
	if !strings.HasPrefix(trimmed, "{") {
		return Classify(frame)
	}

	var w wireEvent
	if err := json.Unmarshal([]byte(trimmed), &w); err != nil {
		return Classify(frame)
	}
	cat, ok := kindToCategory[strings.ToLower(w.Kind)]
	if !ok {
		return Classify(frame)
	}

	raw := w.Text
	if raw == "" {
		raw = frame
	}
	return Event{
		Category: cat,
		Raw:      raw,
		Source:   w.Source,
		Target:   w.Target,
		Amount:   w.Amount,
		Dice:     w.Dice,
		Ability:  w.Ability,
	}
}

// Aggregate folds the dice roll and damage that follow an attack (within
// the next two events) into the attack itself.
func Aggregate(events []Event) []Event {
	out := make([]Event, len(events))
	copy(out, events)

	for i := range out {
		if out[i].Category != CatAttack {
			continue
		}
		for j := i + 1; j < min(i+3, len(out)); j++ {
			switch {
			case out[j].Category == CatDice && out[j].Source == out[i].Source:
				out[i].Dice = out[j].Dice
			case out[j].Category == CatDamage:
				out[i].Amount = out[j].Amount
			}
		}
	}
	return out
}
