package sounds

import (
	"strconv"
	"strings"
)

// Sound is one built-in alarm sound
type Sound struct {
	ID       string
	FileName string
	Group    string
}

// Group is a titled set of related sounds
type Group struct {
	Key    string
	Title  string
	Sounds []Sound
}

// SilentLoopFile is the near-silent loop the alarm bridge plays while armed
// so background audio keeps the process alive until trigger time.
const SilentLoopFile = "silence-loop.wav"

var groups = []Group{
	{
		Key:   "bird",
		Title: "Bird",
		Sounds: []Sound{
			{ID: "bird_01_pigeon", FileName: "bird_01_pigeon.wav", Group: "bird"},
			{ID: "bird_02_sparrow", FileName: "bird_02_sparrow.wav", Group: "bird"},
			{ID: "bird_03_sea", FileName: "bird_03_sea.wav", Group: "bird"},
			{ID: "bird_04_river", FileName: "bird_04_river.wav", Group: "bird"},
			{ID: "bird_05_nightingale", FileName: "bird_05_nightingale.wav", Group: "bird"},
		},
	},
	{
		Key:   "insect",
		Title: "Insect",
		Sounds: []Sound{
			{ID: "insect_01", FileName: "insect_01.wav", Group: "insect"},
			{ID: "insect_02", FileName: "insect_02.wav", Group: "insect"},
			{ID: "insect_03", FileName: "insect_03.wav", Group: "insect"},
			{ID: "insect_04", FileName: "insect_04.wav", Group: "insect"},
			{ID: "insect_05", FileName: "insect_05.wav", Group: "insect"},
		},
	},
}

var byID = func() map[string]Sound {
	m := make(map[string]Sound)
	for _, g := range groups {
		for _, s := range g.Sounds {
			m[s.ID] = s
		}
	}
	return m
}()

// Groups returns the built-in sound catalog
func Groups() []Group {
	return groups
}

// All returns every built-in sound in catalog order
func All() []Sound {
	var all []Sound
	for _, g := range groups {
		all = append(all, g.Sounds...)
	}
	return all
}

// DefaultID is the sound used when nothing is selected
func DefaultID() string {
	return groups[0].Sounds[0].ID
}

// ValidID reports whether id names a built-in sound
func ValidID(id string) bool {
	_, ok := byID[id]
	return ok
}

// FileName maps a sound ID to its audio file, falling back to the default
// sound for unknown IDs
func FileName(id string) string {
	if s, ok := byID[id]; ok {
		return s.FileName
	}
	return byID[DefaultID()].FileName
}

// DisplayName renders a sound ID as a human-readable label
func DisplayName(id string) string {
	parts := strings.Split(id, "_")
	if len(parts) == 0 {
		return id
	}

	switch parts[0] {
	case "insect":
		if len(parts) > 1 {
			if n, err := strconv.Atoi(parts[1]); err == nil {
				return "Insect " + strconv.Itoa(n)
			}
		}
		return titleCase(strings.Join(parts, " "))
	case "bird":
		switch {
		case len(parts) > 1 && parts[1] == "03":
			return "Bird with Sea"
		case len(parts) > 1 && parts[1] == "04":
			return "Bird with River"
		case len(parts) > 2:
			return titleCase(strings.Join(parts[2:], " "))
		}
	}
	return titleCase(strings.ReplaceAll(id, "_", " "))
}

func titleCase(value string) string {
	words := strings.Fields(strings.ToLower(value))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
