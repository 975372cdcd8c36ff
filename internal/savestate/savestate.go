// Package savestate serializes sim.SaveState for the save/load collaborator.
package savestate

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"ashgrove/internal/sim"

	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"
)

const savesDirName = "saves"

// Encode stamps a save id if the state has none and marshals it.
func Encode(s sim.SaveState) ([]byte, sim.SaveState, error) {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	data, err := msgpack.Marshal(&s)
	if err != nil {
		return nil, s, fmt.Errorf("failed to encode save: %w", err)
	}
	return data, s, nil
}

// Decode unmarshals a save and checks its id.
func Decode(data []byte) (sim.SaveState, error) {
	var s sim.SaveState
	if err := msgpack.Unmarshal(data, &s); err != nil {
		return sim.SaveState{}, fmt.Errorf("failed to decode save: %w", err)
	}
	if _, err := uuid.Parse(s.ID); err != nil {
		return sim.SaveState{}, fmt.Errorf("save has invalid id %q: %w", s.ID, err)
	}
	return s, nil
}

// SaveFile writes the state to path through a temporary file so a crash
// never leaves a truncated save. It returns the stamped state.
func SaveFile(path string, s sim.SaveState) (sim.SaveState, error) {
	data, s, err := Encode(s)
	if err != nil {
		return s, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return s, fmt.Errorf("failed to create save dir: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return s, fmt.Errorf("failed to write save: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return s, fmt.Errorf("failed to replace save: %w", err)
	}
	return s, nil
}

// LoadFile reads a save written by SaveFile.
func LoadFile(path string) (sim.SaveState, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return sim.SaveState{}, fmt.Errorf("failed to read save: %w", err)
	}
	return Decode(data)
}

// SlotPath returns the file path of a numbered save slot.
func SlotPath(slot int) string {
	return filepath.Join(Dir(), fmt.Sprintf("slot%d.sav", slot))
}

// Dir returns the local saves directory next to the executable.
func Dir() string {
	if exePath, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exePath)
		// Under "go run" the executable lives in a temp build dir; prefer the
		// working directory so saves persist.
		if !isTempExeDir(exeDir) {
			return filepath.Join(exeDir, savesDirName)
		}
	}
	if cwd, err := os.Getwd(); err == nil {
		return filepath.Join(cwd, savesDirName)
	}
	return savesDirName
}

func isTempExeDir(dir string) bool {
	clean := filepath.Clean(dir)
	if strings.Contains(clean, string(filepath.Separator)+"go-build") {
		return true
	}
	return strings.HasPrefix(clean, filepath.Clean(os.TempDir())+string(filepath.Separator))
}
