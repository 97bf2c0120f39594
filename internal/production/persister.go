// Package production provides production integrations: snapshot persistence,
// transition publishing and a SQLite history of finished games.
package production

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/comalice/reflexpong"
)

// Record is a saved engine snapshot.
type Record struct {
	Name      string              `yaml:"name" json:"name"`
	Timestamp time.Time           `yaml:"timestamp" json:"timestamp"`
	Snapshot  reflexpong.Snapshot `yaml:"snapshot" json:"snapshot"`
}

// ErrUnknownFormat is returned for a snapshot format other than json or yaml.
var ErrUnknownFormat = errors.New("unknown snapshot format")

// Persister saves and loads named snapshot records.
type Persister interface {
	Path(name string) string
	Save(ctx context.Context, rec Record) error
	Load(ctx context.Context, name string) (Record, error)
}

var (
	_ Persister = (*JSONPersister)(nil)
	_ Persister = (*YAMLPersister)(nil)
)

// NewPersister returns the file persister for format ("json" or "yaml")
// writing into dir.
func NewPersister(format, dir string) (Persister, error) {
	switch strings.ToLower(format) {
	case "json":
		return NewJSONPersister(dir)
	case "yaml", "yml", "":
		return NewYAMLPersister(dir)
	default:
		return nil, fmt.Errorf("%q: %w", format, ErrUnknownFormat)
	}
}

// JSONPersister is a file-based persister using JSON serialization.
type JSONPersister struct {
	dir string
}

// NewJSONPersister creates a JSONPersister, ensuring the directory exists.
func NewJSONPersister(dir string) (*JSONPersister, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return &JSONPersister{dir: dir}, nil
}

// Path returns the file a record is saved to.
func (p *JSONPersister) Path(name string) string {
	return filepath.Join(p.dir, name+".json")
}

func (p *JSONPersister) Save(ctx context.Context, rec Record) error {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}

	fn := p.Path(rec.Name)
	if err := os.WriteFile(fn, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", fn, err)
	}
	return nil
}

func (p *JSONPersister) Load(ctx context.Context, name string) (Record, error) {
	fn := p.Path(name)
	data, err := os.ReadFile(fn)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Record{}, fmt.Errorf("snapshot %q: %w", name, os.ErrNotExist)
		}
		return Record{}, fmt.Errorf("read %s: %w", fn, err)
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return Record{}, fmt.Errorf("json unmarshal: %w", err)
	}
	rec.Name = name
	return rec, nil
}

// YAMLPersister is a file-based persister using YAML serialization.
type YAMLPersister struct {
	dir string
}

// NewYAMLPersister creates a YAMLPersister, ensuring the directory exists.
func NewYAMLPersister(dir string) (*YAMLPersister, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return &YAMLPersister{dir: dir}, nil
}

// Path returns the file a record is saved to.
func (p *YAMLPersister) Path(name string) string {
	return filepath.Join(p.dir, name+".yaml")
}

func (p *YAMLPersister) Save(ctx context.Context, rec Record) error {
	data, err := yaml.Marshal(rec)
	if err != nil {
		return fmt.Errorf("yaml marshal: %w", err)
	}

	fn := p.Path(rec.Name)
	if err := os.WriteFile(fn, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", fn, err)
	}
	return nil
}

func (p *YAMLPersister) Load(ctx context.Context, name string) (Record, error) {
	fn := p.Path(name)
	data, err := os.ReadFile(fn)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Record{}, fmt.Errorf("snapshot %q: %w", name, os.ErrNotExist)
		}
		return Record{}, fmt.Errorf("read %s: %w", fn, err)
	}

	var rec Record
	if err := yaml.Unmarshal(data, &rec); err != nil {
		return Record{}, fmt.Errorf("yaml unmarshal: %w", err)
	}
	rec.Name = name
	if !rec.Snapshot.State.Valid() {
		return Record{}, fmt.Errorf("snapshot %q: invalid state %d", name, rec.Snapshot.State)
	}
	return rec, nil
}
