package enemy

import (
	"os"
	"testing"
)

var testTable *Table

func TestMain(m *testing.M) {
	testTable = MustLoadArchetypes("../../assets/archetypes.yaml")
	os.Exit(m.Run())
}
