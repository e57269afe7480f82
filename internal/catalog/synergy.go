package catalog

import "cardleague/internal/domain"

// Pairwise synergy bonuses, symmetric. Values are additive chemistry points
// on a 0-100 chemistry scale, so +-5 is a meaningful swing.
var archetypeSynergy = map[[2]domain.Archetype]float64{
	{domain.Tank, domain.Support}:    +5,
	{domain.Tank, domain.DPS}:        +2,
	{domain.Tank, domain.Control}:    -2,
	{domain.Tank, domain.Hybrid}:     +1,
	{domain.DPS, domain.Support}:     +1,
	{domain.DPS, domain.Control}:     +2,
	{domain.DPS, domain.Hybrid}:      +1,
	{domain.Control, domain.Support}: +3,
	{domain.Control, domain.Hybrid}:  +1,
	{domain.Support, domain.Hybrid}:  +2,
	{domain.Tank, domain.Tank}:       -3,
	{domain.DPS, domain.DPS}:         -2,
	{domain.Control, domain.Control}: -1,
}

var attackSynergy = map[[2]domain.AttackType]float64{
	{domain.Melee, domain.Ranged}:  +2,
	{domain.Melee, domain.Splash}:  +1,
	{domain.Ranged, domain.Magic}:  +2,
	{domain.Splash, domain.Magic}:  +1,
	{domain.Melee, domain.Melee}:   -2,
	{domain.Ranged, domain.Ranged}: -1,
	{domain.Splash, domain.Splash}: -2,
}

// ArchetypeSynergy looks up the symmetric bonus for an archetype pairing.
func ArchetypeSynergy(a, b domain.Archetype) float64 {
	if v, ok := archetypeSynergy[[2]domain.Archetype{a, b}]; ok {
		return v
	}
	return archetypeSynergy[[2]domain.Archetype{b, a}]
}

// AttackSynergy looks up the symmetric bonus for an attack-type pairing.
func AttackSynergy(a, b domain.AttackType) float64 {
	if v, ok := attackSynergy[[2]domain.AttackType{a, b}]; ok {
		return v
	}
	return attackSynergy[[2]domain.AttackType{b, a}]
}

// PairSynergy is the combined bonus for a pair of cards.
func PairSynergy(a, b *domain.Card) float64 {
	return ArchetypeSynergy(a.Archetype, b.Archetype) + AttackSynergy(a.AttackType, b.AttackType)
}
