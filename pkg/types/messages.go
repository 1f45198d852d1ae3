package types

import (
	"encoding/json"
	"fmt"
	"slices"
)

// Client -> Server (sent once, right after the handshake)
//   [{"type": "guerrier", "name": "Conan"}, ...]
//
// Server -> Client
//   one text frame per combat log line, e.g.
//   "🟢 Début du combat !"
//   "🪓 Conan fonce sur Merlin"
//   "🏆 Conan est le dernier survivant"
//   "🛑 Fin du combat"
//   then a close frame (code + optional reason).

type Character struct {
	Type string `json:"type"`
	Name string `json:"name"`
}

type Roster []Character

const (
	TypeAlchimiste   = "alchimiste"
	TypeAssassin     = "assassin"
	TypeBerserker    = "berserker"
	TypeGuerrier     = "guerrier"
	TypeIllusioniste = "illusioniste"
	TypeMagicien     = "magicien"
	TypeNecromancien = "necromancien"
	TypePaladin      = "paladin"
	TypePretre       = "pretre"
	TypeRobot        = "robot"
	TypeVampire      = "vampire"
	TypeZombie       = "zombie"
)

// CharacterTypes is the catalogue the arena advertises. The client never
// enforces it, the server does (if at all).
var CharacterTypes = []string{
	TypeAlchimiste, TypeAssassin, TypeBerserker, TypeGuerrier,
	TypeIllusioniste, TypeMagicien, TypeNecromancien, TypePaladin,
	TypePretre, TypeRobot, TypeVampire, TypeZombie,
}

func IsKnownType(t string) bool {
	return slices.Contains(CharacterTypes, t)
}

// Unknown returns the characters whose type is not in the catalogue.
func (r Roster) Unknown() []Character {
	var out []Character
	for _, c := range r {
		if !IsKnownType(c.Type) {
			out = append(out, c)
		}
	}
	return out
}

func EncodeRoster(r Roster) ([]byte, error) {
	if r == nil {
		r = Roster{} // "[]" rather than "null"
	}
	b, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("encode roster: %w", err)
	}
	return b, nil
}

func DecodeRoster(data []byte) (Roster, error) {
	var r Roster
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("decode roster: %w", err)
	}
	return r, nil
}
