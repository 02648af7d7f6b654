package level

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrNoLevels is returned for a document without any level.
var ErrNoLevels = errors.New("level document defines no levels")

// ConfigError describes a malformed level document.
type ConfigError struct {
	Level string
	Field string
	Err   error
}

func (e *ConfigError) Error() string {
	switch {
	case e.Level == "":
		return fmt.Sprintf("level config: %v", e.Err)
	case e.Field == "":
		return fmt.Sprintf("level %s: %v", e.Level, e.Err)
	default:
		return fmt.Sprintf("level %s: %s: %v", e.Level, e.Field, e.Err)
	}
}

func (e *ConfigError) Unwrap() error { return e.Err }

// Load reads and parses a level document from disk. JSON documents are
// accepted since they are valid YAML.
func Load(path string) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read level document: %w", err)
	}
	return Parse(data)
}

// LoadFS reads and parses a level document from fsys.
func LoadFS(fsys fs.FS, name string) (*Set, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("failed to read level document: %w", err)
	}
	return Parse(data)
}

// Parse decodes a level document. Levels keep their document order.
func Parse(data []byte) (*Set, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &ConfigError{Err: err}
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, &ConfigError{Err: ErrNoLevels}
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, &ConfigError{Err: fmt.Errorf("line %d: document must map level names to levels", root.Line)}
	}
	if len(root.Content) == 0 {
		return nil, &ConfigError{Err: ErrNoLevels}
	}

	levels := make([]*Level, 0, len(root.Content)/2)
	seen := make(map[string]bool)
	for i := 0; i+1 < len(root.Content); i += 2 {
		name := root.Content[i].Value
		if seen[name] {
			return nil, &ConfigError{Level: name, Err: errors.New("duplicate level name")}
		}
		seen[name] = true

		body := root.Content[i+1]
		if body.Kind != yaml.MappingNode {
			return nil, &ConfigError{Level: name, Err: fmt.Errorf("line %d: level must be a mapping", body.Line)}
		}

		l := &Level{Name: name}
		if err := body.Decode(l); err != nil {
			return nil, &ConfigError{Level: name, Err: err}
		}
		levels = append(levels, l)
	}

	set := NewSet(levels...)
	for _, l := range set.levels {
		if err := validate(l); err != nil {
			return nil, err
		}
	}
	return set, nil
}

func validate(l *Level) error {
	fail := func(field, format string, args ...any) error {
		return &ConfigError{Level: l.Name, Field: field, Err: fmt.Errorf(format, args...)}
	}

	if !l.Tutorial() && l.FlagPos == nil {
		return fail("flag_pos", "required")
	}
	for i, bg := range l.BackgroundImages {
		if bg.Image == "" {
			return fail("background_images", "entry %d has no image", i)
		}
		if r := bg.Rect(); r.Width <= 0 || r.Height <= 0 {
			return fail("background_images", "entry %d has an empty area", i)
		}
	}
	if l.WebcamPos != nil {
		if r := l.WebcamPos.Rect(); r.Width <= 0 || r.Height <= 0 {
			return fail("webcam_pos", "end_pos must be below and right of start_pos")
		}
	}
	return nil
}
