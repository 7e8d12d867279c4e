package sounds

import "testing"

func TestDefaultIDIsValid(t *testing.T) {
	if !ValidID(DefaultID()) {
		t.Errorf("Default sound %q not in the catalog", DefaultID())
	}
}

func TestFileNameFallsBack(t *testing.T) {
	if got := FileName("bird_02_sparrow"); got != "bird_02_sparrow.wav" {
		t.Errorf("Expected bird_02_sparrow.wav, got %q", got)
	}
	if got := FileName("no_such_sound"); got != FileName(DefaultID()) {
		t.Errorf("Unknown ID must fall back to the default file, got %q", got)
	}
}

func TestAllSoundsHaveUniqueIDs(t *testing.T) {
	seen := map[string]bool{}
	for _, s := range All() {
		if seen[s.ID] {
			t.Errorf("Duplicate sound ID %q", s.ID)
		}
		seen[s.ID] = true
		if s.FileName == "" {
			t.Errorf("Sound %q has no file", s.ID)
		}
	}
	if len(seen) == 0 {
		t.Fatal("Catalog is empty")
	}
}

func TestDisplayName(t *testing.T) {
	cases := map[string]string{
		"insect_01":           "Insect 1",
		"bird_01_pigeon":      "Pigeon",
		"bird_03_sea":         "Bird with Sea",
		"bird_04_river":       "Bird with River",
		"bird_05_nightingale": "Nightingale",
	}
	for id, want := range cases {
		if got := DisplayName(id); got != want {
			t.Errorf("DisplayName(%q) = %q, want %q", id, got, want)
		}
	}
}
