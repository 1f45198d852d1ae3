package engine

// Rule matches a raw log line by substring. AllOf must all be present,
// then at least one of AnyOf (when set).
type Rule struct {
	Category Category
	AllOf    []string
	AnyOf    []string
}

// DisplayRules is evaluated top to bottom, first match wins.
// Emoji are stored without the U+FE0F variation selector so "🛡" matches
// both "🛡" and "🛡️".
var DisplayRules = []Rule{
	{Category: CatStarted, AllOf: []string{"🟢", "Début"}},
	{Category: CatEnded, AnyOf: []string{"🛑", "Fin du combat"}},
	{Category: CatVictory, AnyOf: []string{"🏆"}},
	{Category: CatDeath, AnyOf: []string{"💀", "☠"}},
	{Category: CatAttack, AnyOf: []string{"🪓", "🛡"}},
	{Category: CatDamage, AnyOf: []string{"💥", "🩸"}},
	{Category: CatDice, AnyOf: []string{"🎲"}},
	{Category: CatHeal, AnyOf: []string{"❤"}},
	{Category: CatAbility, AnyOf: []string{"✨", "💨", "🧟", "⚡", "🧪"}},
}

func (r Rule) matches(text string) bool {
	for _, s := range r.AllOf {
		if !contains(text, s) {
			return false
		}
	}
	if len(r.AnyOf) == 0 {
		return len(r.AllOf) > 0
	}
	for _, s := range r.AnyOf {
		if contains(text, s) {
			return true
		}
	}
	return false
}
