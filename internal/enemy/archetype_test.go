package enemy

import (
	"strings"
	"testing"

	"ashgrove/internal/status"
)

func TestShippedArchetypesIndexedByID(t *testing.T) {
	for _, key := range testTable.Keys() {
		a, err := testTable.ByKey(key)
		if err != nil {
			t.Fatalf("lookup %q: %v", key, err)
		}
		byID, ok := testTable.ByID(a.ID)
		if !ok || byID != a {
			t.Errorf("archetype %q not reachable by id %d", key, a.ID)
		}
	}
	wolf, _ := testTable.ByKey("wolf")
	kind, proc, ok := wolf.OnHitStatus()
	if !ok || kind != status.Bleed || proc.Duration != 120 {
		t.Errorf("unexpected wolf on-hit %v %+v", kind, proc)
	}
}

func TestParseArchetypesValidation(t *testing.T) {
	cases := []struct {
		name string
		yaml string
		want string
	}{
		{
			name: "duplicate id",
			yaml: "archetypes:\n  a: {id: 1, max_health: 5}\n  b: {id: 1, max_health: 5}\n",
			want: "share id",
		},
		{
			name: "boss only special",
			yaml: "archetypes:\n  a:\n    id: 1\n    max_health: 5\n    specials:\n      - kind: summon\n        minion: a\n",
			want: "boss-only",
		},
		{
			name: "unknown minion",
			yaml: "archetypes:\n  a:\n    id: 1\n    max_health: 5\n    boss: true\n    specials:\n      - kind: summon\n        minion: ghost\n",
			want: "unknown minion",
		},
		{
			name: "unknown special",
			yaml: "archetypes:\n  a:\n    id: 1\n    max_health: 5\n    specials:\n      - kind: dance\n",
			want: "unknown kind",
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := ParseArchetypes([]byte(c.yaml))
			if err == nil || !strings.Contains(err.Error(), c.want) {
				t.Errorf("expected error containing %q, got %v", c.want, err)
			}
		})
	}
}

func TestUnknownArchetypeKey(t *testing.T) {
	if _, err := testTable.ByKey("dragon"); err == nil {
		t.Errorf("expected error for unknown key")
	}
}
