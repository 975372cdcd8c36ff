package savestate

import (
	"os"
	"path/filepath"
	"testing"

	"ashgrove/internal/sim"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleState() sim.SaveState {
	return sim.SaveState{
		Zone: "glade",
		Player: sim.PlayerState{
			X: 212.5, Y: 96, HP: 64, Stamina: 37.5,
			Level: 4, XP: 55, Gold: 120, Weapon: "ember_axe",
			Skills:    map[string]int{"might": 2, "agility": 1},
			Inventory: map[string]int{"potion": 3, "fang_dagger": 1},
			Ultimate:  180,
		},
		Markers: map[string]int{"wolf_hunt": 3},
	}
}

func TestEncodeStampsID(t *testing.T) {
	data, stamped, err := Encode(sampleState())
	require.NoError(t, err)
	_, err = uuid.Parse(stamped.ID)
	require.NoError(t, err)

	got, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, stamped, got)
}

func TestEncodeKeepsExistingID(t *testing.T) {
	s := sampleState()
	s.ID = uuid.New().String()
	_, stamped, err := Encode(s)
	require.NoError(t, err)
	assert.Equal(t, s.ID, stamped.ID)
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := Decode([]byte{0xc1, 0x00})
	assert.Error(t, err)

	s := sampleState()
	s.ID = "not-a-uuid"
	data, _, err := Encode(s)
	require.NoError(t, err)
	_, err = Decode(data)
	assert.ErrorContains(t, err, "invalid id")
}

func TestSaveAndLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "slot1.sav")
	saved, err := SaveFile(path, sampleState())
	require.NoError(t, err)

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, saved, loaded)

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err), "temporary file should be renamed away")

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.sav"))
	assert.Error(t, err)
}

func TestTempExeDirDetection(t *testing.T) {
	assert.True(t, isTempExeDir(filepath.Join(os.TempDir(), "go-build1234", "b001", "exe")))
	assert.False(t, isTempExeDir(filepath.Join(string(filepath.Separator), "opt", "ashgrove")))
}
