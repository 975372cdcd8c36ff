package sim

import (
	"os"
	"testing"

	"ashgrove/internal/enemy"
	"ashgrove/internal/loot"
	"ashgrove/internal/zone"
)

var shipped Assets

func TestMain(m *testing.M) {
	shipped = Assets{
		Archetypes: enemy.MustLoadArchetypes("../../assets/archetypes.yaml"),
		Loot:       loot.MustLoadTables("../../assets/loot.yaml"),
		Zones:      zone.MustLoad("../../assets/zones.yaml"),
	}
	os.Exit(m.Run())
}
