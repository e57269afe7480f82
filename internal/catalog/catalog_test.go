package catalog

import (
	"math/rand"
	"testing"

	"cardleague/internal/constants"
	"cardleague/internal/domain"

	"github.com/rs/zerolog"
)

func testGenerator() *Generator {
	return NewGenerator(rand.New(rand.NewSource(42)), zerolog.Nop())
}

func TestGeneratePool_SizeAndBounds(t *testing.T) {
	pool, err := testGenerator().GeneratePool()
	if err != nil {
		t.Fatalf("GeneratePool: %v", err)
	}
	if len(pool) < constants.MinCardPool || len(pool) > constants.MaxCardPool {
		t.Errorf("pool size = %d, want %d-%d", len(pool), constants.MinCardPool, constants.MaxCardPool)
	}
	for _, c := range pool {
		if c.Rating < 50 || c.Rating > 95 {
			t.Errorf("card %s rating %.1f out of bounds", c.Name, c.Rating)
		}
		if c.Rating != c.BaseRating {
			t.Errorf("card %s rating %.1f != base %.1f at genesis", c.Name, c.Rating, c.BaseRating)
		}
		if c.Cost < 0.5 {
			t.Errorf("card %s cost %.2f below floor", c.Name, c.Cost)
		}
		if c.Lifespan < 3 || c.Lifespan > 8 {
			t.Errorf("card %s lifespan %d out of 3-8", c.Name, c.Lifespan)
		}
		if c.Fatigue != 100 {
			t.Errorf("card %s fatigue = %.1f, want 100", c.Name, c.Fatigue)
		}
		if c.Rookie {
			t.Errorf("genesis card %s flagged rookie", c.Name)
		}
	}
}

func TestGenerateRookies(t *testing.T) {
	rookies, err := testGenerator().GenerateRookies(4)
	if err != nil {
		t.Fatalf("GenerateRookies: %v", err)
	}
	if len(rookies) != 4 {
		t.Fatalf("rookies = %d, want 4", len(rookies))
	}
	for _, r := range rookies {
		if !r.Rookie {
			t.Errorf("rookie %s not flagged", r.Name)
		}
		if r.Age != 0 {
			t.Errorf("rookie %s age = %d, want 0", r.Name, r.Age)
		}
		if r.Rating < 55 || r.Rating > 92 {
			t.Errorf("rookie %s rating %.1f out of bounds", r.Name, r.Rating)
		}
	}
}

func TestApplyDelta_ClampsAtZero(t *testing.T) {
	c := &domain.Card{ID: "c1", Name: "Miner #1", Rating: 3, Grade: "D"}
	change := ApplyDelta(c, -10)
	if c.Rating != 0 {
		t.Errorf("rating = %.1f, want 0 after clamping", c.Rating)
	}
	if change.NewRating != 0 {
		t.Errorf("change.NewRating = %.1f, want 0", change.NewRating)
	}

	ApplyDelta(c, 85)
	if c.Rating != 85 {
		t.Errorf("rating = %.1f, want 85", c.Rating)
	}
	if c.Grade != "A" {
		t.Errorf("grade = %q, want A after buff", c.Grade)
	}
}

func TestSynergy_Symmetric(t *testing.T) {
	for _, a := range domain.Archetypes {
		for _, b := range domain.Archetypes {
			if ArchetypeSynergy(a, b) != ArchetypeSynergy(b, a) {
				t.Errorf("archetype synergy asymmetric for %s/%s", a, b)
			}
		}
	}
	for _, a := range domain.AttackTypes {
		for _, b := range domain.AttackTypes {
			if AttackSynergy(a, b) != AttackSynergy(b, a) {
				t.Errorf("attack synergy asymmetric for %s/%s", a, b)
			}
		}
	}
	if ArchetypeSynergy(domain.Tank, domain.Support) != 5 {
		t.Errorf("Tank/Support synergy = %.1f, want 5", ArchetypeSynergy(domain.Tank, domain.Support))
	}
}

func TestFindByName(t *testing.T) {
	cards := map[string]*domain.Card{
		"c1": {ID: "c1", Name: "Bandit #7"},
	}
	c, err := FindByName(cards, "Bandit #7")
	if err != nil {
		t.Fatalf("FindByName: %v", err)
	}
	if c.ID != "c1" {
		t.Errorf("found %q, want c1", c.ID)
	}

	if _, err := FindByName(cards, "Monk #9"); err == nil {
		t.Fatal("expected error for unknown card")
	}
}

func TestGradeFor(t *testing.T) {
	cases := []struct {
		rating float64
		want   string
	}{
		{95, "S"}, {90, "S"}, {85, "A"}, {72, "B"}, {65, "C"}, {40, "D"},
	}
	for _, tc := range cases {
		if got := GradeFor(tc.rating); got != tc.want {
			t.Errorf("GradeFor(%.0f) = %q, want %q", tc.rating, got, tc.want)
		}
	}
}
