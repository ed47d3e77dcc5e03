package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Binding attaches a named script to a spell.
type Binding struct {
	Spell  uint32 `yaml:"spell" json:"spell" jsonschema:"required,minimum=1"`
	Script string `yaml:"script" json:"script" jsonschema:"required,minLength=1"`
}

// BindingsDocument is the on-disk shape of a bindings file.
type BindingsDocument struct {
	Bindings []Binding `yaml:"bindings" json:"bindings" jsonschema:"required"`
}

// LoadBindingsFile reads a bindings file.
func LoadBindingsFile(path string) ([]Binding, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading bindings %s: %w", path, err)
	}
	return parseBindings(path, data)
}

// LoadBindings reads bindings from r.
func LoadBindings(r io.Reader) ([]Binding, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading bindings: %w", err)
	}
	return parseBindings("<reader>", data)
}

func parseBindings(source string, data []byte) ([]Binding, error) {
	var doc BindingsDocument
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, &ParseError{Path: source, Index: -1, Message: err.Error(), Err: err}
	}

	for i := range doc.Bindings {
		b := &doc.Bindings[i]
		b.Script = strings.TrimSpace(b.Script)
		if b.Script == "" {
			return nil, &ParseError{Path: source, Index: i, Message: "script name is empty", Err: ErrEmptyName}
		}
	}
	return doc.Bindings, nil
}
