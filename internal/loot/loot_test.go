package loot

import (
	"math/rand"
	"testing"
)

func TestRollTableCertainAndImpossibleEntries(t *testing.T) {
	table := Table{Entries: []Entry{
		{Kind: KindCurrency, Chance: 1, Min: 3, Max: 7},
		{Kind: KindItem, Item: "potion", Chance: 1, Count: 2},
		{Kind: KindItem, Item: "crown", Chance: 0},
	}}
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 200; i++ {
		d := RollTable(table, rng)
		if d.Gold < 3 || d.Gold > 7 {
			t.Fatalf("gold %d outside [3,7]", d.Gold)
		}
		if d.Items["potion"] != 2 {
			t.Fatalf("expected 2 potions, got %d", d.Items["potion"])
		}
		if _, ok := d.Items["crown"]; ok {
			t.Fatalf("zero-chance entry dropped")
		}
	}
}

func TestRollTableEntriesIndependent(t *testing.T) {
	table := Table{Entries: []Entry{
		{Kind: KindItem, Item: "a", Chance: 0.5},
		{Kind: KindItem, Item: "b", Chance: 0.5},
	}}
	rng := rand.New(rand.NewSource(42))
	both, seenA, seenB := 0, 0, 0
	const n = 4000
	for i := 0; i < n; i++ {
		d := RollTable(table, rng)
		_, a := d.Items["a"]
		_, b := d.Items["b"]
		if a {
			seenA++
		}
		if b {
			seenB++
		}
		if a && b {
			both++
		}
	}
	// independent rolls: roughly a quarter of drops carry both
	if both < n/4-200 || both > n/4+200 {
		t.Errorf("expected about %d joint drops, got %d (a=%d b=%d)", n/4, both, seenA, seenB)
	}
}

func TestGeneratorUnregisteredDropsNothing(t *testing.T) {
	g := NewGenerator()
	g.Register(1, Table{Entries: []Entry{{Kind: KindCurrency, Chance: 1, Min: 5, Max: 5}}})
	rng := rand.New(rand.NewSource(1))
	if d := g.Roll(1, rng); d.Gold != 5 {
		t.Errorf("expected 5 gold, got %d", d.Gold)
	}
	if d := g.Roll(99, rng); !d.Empty() {
		t.Errorf("expected empty drop for unknown archetype")
	}
}

func TestValidate(t *testing.T) {
	bad := []Table{
		{Entries: []Entry{{Kind: KindCurrency, Chance: 2}}},
		{Entries: []Entry{{Kind: KindCurrency, Chance: 1, Min: 5, Max: 2}}},
		{Entries: []Entry{{Kind: KindItem, Chance: 1}}},
		{Entries: []Entry{{Kind: "gem", Chance: 1}}},
	}
	for i, table := range bad {
		if err := table.Validate(); err == nil {
			t.Errorf("table %d: expected validation error", i)
		}
	}
}

func TestLoadShippedTables(t *testing.T) {
	cfg, err := LoadTables("../../assets/loot.yaml")
	if err != nil {
		t.Fatalf("failed to load loot tables: %v", err)
	}
	if _, ok := cfg.Tables["boss"]; !ok {
		t.Errorf("expected a boss table")
	}
}

func TestDropMerge(t *testing.T) {
	var d Drop
	d.Merge(Drop{Gold: 2, Items: map[string]int{"potion": 1}})
	d.Merge(Drop{Gold: 3, Items: map[string]int{"potion": 2, "tonic": 1}})
	if d.Gold != 5 || d.Items["potion"] != 3 || d.Items["tonic"] != 1 {
		t.Errorf("unexpected merge result %+v", d)
	}
	if keys := d.ItemKeys(); len(keys) != 2 || keys[0] != "potion" {
		t.Errorf("unexpected keys %v", keys)
	}
}
