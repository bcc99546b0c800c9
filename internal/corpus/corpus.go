// Package corpus loads case files (subject, professionals and source
// fragments) and normalises fragment text before assembly.
package corpus

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ppiankov/npo/internal/model"
)

// Format of a case file
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatOf infers the format from a file extension
func FormatOf(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, true
	case ".json":
		return FormatJSON, true
	}
	return "", false
}

// Load reads and normalises one case file
func Load(path string) (*model.Corpus, error) {
	format, ok := FormatOf(path)
	if !ok {
		return nil, fmt.Errorf("load %s: unsupported extension", path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open case file: %w", err)
	}
	defer func() { _ = f.Close() }()

	c, err := Decode(f, format)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return c, nil
}

// Decode parses a case document and normalises it
func Decode(r io.Reader, format Format) (*model.Corpus, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}

	var c model.Corpus
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&c); err != nil && err != io.EOF {
			return nil, fmt.Errorf("decode YAML: %w", err)
		}
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&c); err != nil {
			return nil, fmt.Errorf("decode JSON: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}

	if err := Normalize(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

// Normalize cleans fragment text in place and checks the corpus is usable.
// Fragments without an ID get "<document>#<n>", n counting within the document.
func Normalize(c *model.Corpus) error {
	c.Subject.Name = strings.TrimSpace(c.Subject.Name)
	c.Subject.Gender = model.Gender(strings.ToLower(strings.TrimSpace(string(c.Subject.Gender))))
	if c.Subject.Name == "" {
		return fmt.Errorf("subject name is required")
	}

	seen := make(map[string]bool)
	perDocument := make(map[string]int)
	for i := range c.Fragments {
		f := &c.Fragments[i]

		f.Document = strings.TrimSpace(f.Document)
		if f.Document == "" {
			return fmt.Errorf("fragment %d: document is required", i+1)
		}
		perDocument[f.Document]++
		if f.ID = strings.TrimSpace(f.ID); f.ID == "" {
			f.ID = fmt.Sprintf("%s#%d", f.Document, perDocument[f.Document])
		}
		if seen[f.ID] {
			return fmt.Errorf("fragment %s: duplicate id", f.ID)
		}
		seen[f.ID] = true

		switch f.Kind {
		case model.KindNeed, model.KindProvision, model.KindOutcome, model.KindStrength:
		default:
			return fmt.Errorf("fragment %s: unknown kind %q", f.ID, f.Kind)
		}

		text, err := VisibleText(f.Text)
		if err != nil {
			return fmt.Errorf("fragment %s: %w", f.ID, err)
		}
		f.Text = text
		if f.Annotation != nil && f.Annotation.IsZero() {
			f.Annotation = nil
		}
		if strings.TrimSpace(f.Text) == "" && f.Annotation == nil {
			return fmt.Errorf("fragment %s: no text and no annotation", f.ID)
		}
	}
	return nil
}

// ListCases returns the case files in dir, sorted by name
func ListCases(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read case directory: %w", err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		if _, ok := FormatOf(e.Name()); ok {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(paths)
	return paths, nil
}
