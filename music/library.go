// Package music holds the note registry, the tune partitions and the stepper
// that plays one partition token per tick.
package music

import (
	_ "embed"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Rest is the partition token that mutes the buzzer for one step.
const Rest = "-"

// TuneID names a partition in the library.
type TuneID int

const (
	Pacman TuneID = iota
	AuClairDeLaLune
	P1Reflex
	P2Reflex
	Win
)

var tuneNames = [...]string{
	Pacman:          "pacman",
	AuClairDeLaLune: "au-clair-de-la-lune",
	P1Reflex:        "p1-reflex",
	P2Reflex:        "p2-reflex",
	Win:             "win",
}

func (id TuneID) String() string {
	if id < 0 || int(id) >= len(tuneNames) {
		return fmt.Sprintf("tune(%d)", int(id))
	}
	return tuneNames[id]
}

var (
	ErrUnknownTune = errors.New("unknown tune")
	ErrUnknownNote = errors.New("unknown note")
	ErrEmptyTune   = errors.New("empty tune")
)

// Note is a pitch the buzzer can play.
type Note struct {
	Name      string  `yaml:"name"`
	Frequency float64 `yaml:"frequency"`
	Period    uint16  `yaml:"period"`
}

// Library is the immutable set of notes and tunes.
type Library struct {
	notes []Note
	tunes [len(tuneNames)][]string
}

type libraryFile struct {
	Notes []Note              `yaml:"notes"`
	Tunes map[string][]string `yaml:"tunes"`
}

//go:embed tunes.yaml
var defaultTunes []byte

// DefaultLibrary parses the built-in tunes.
func DefaultLibrary() (*Library, error) {
	return ParseLibrary(defaultTunes)
}

// LoadLibrary reads a YAML library from r.
func LoadLibrary(r io.Reader) (*Library, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read library: %w", err)
	}
	return ParseLibrary(data)
}

// ParseLibrary decodes and validates a YAML library. Every tune ID must be
// present, non-empty, and reference only registered notes or rests.
func ParseLibrary(data []byte) (*Library, error) {
	var f libraryFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("yaml unmarshal: %w", err)
	}

	lib := &Library{notes: f.Notes}
	for i, n := range f.Notes {
		if n.Name == "" || n.Name == Rest {
			return nil, fmt.Errorf("note %d: invalid name %q", i, n.Name)
		}
	}

	for name := range f.Tunes {
		if _, ok := lookupTune(name); !ok {
			return nil, fmt.Errorf("tune %q: %w", name, ErrUnknownTune)
		}
	}

	for id, name := range tuneNames {
		tokens, ok := f.Tunes[name]
		if !ok {
			return nil, fmt.Errorf("tune %q missing: %w", name, ErrUnknownTune)
		}
		if len(tokens) == 0 {
			return nil, fmt.Errorf("tune %q: %w", name, ErrEmptyTune)
		}
		for i, tok := range tokens {
			if tok == Rest {
				continue
			}
			if _, ok := lib.Note(tok); !ok {
				return nil, fmt.Errorf("tune %q token %d %q: %w", name, i, tok, ErrUnknownNote)
			}
		}
		lib.tunes[id] = tokens
	}
	return lib, nil
}

func lookupTune(name string) (TuneID, bool) {
	for id, n := range tuneNames {
		if n == name {
			return TuneID(id), true
		}
	}
	return 0, false
}

// Note finds a registered note by name. Tunes are short, a linear scan is fine.
func (l *Library) Note(name string) (Note, bool) {
	for _, n := range l.notes {
		if n.Name == name {
			return n, true
		}
	}
	return Note{}, false
}

// NoteByPeriod finds the note played at a buzzer period.
func (l *Library) NoteByPeriod(period uint16) (Note, bool) {
	for _, n := range l.notes {
		if n.Period == period {
			return n, true
		}
	}
	return Note{}, false
}

// Tune returns the tokens of a tune.
func (l *Library) Tune(id TuneID) ([]string, error) {
	if id < 0 || int(id) >= len(l.tunes) {
		return nil, fmt.Errorf("%s: %w", id, ErrUnknownTune)
	}
	return l.tunes[id], nil
}

// Len returns the number of tokens in a tune, or 0 if unknown.
func (l *Library) Len(id TuneID) int {
	tokens, err := l.Tune(id)
	if err != nil {
		return 0
	}
	return len(tokens)
}
