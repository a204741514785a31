package deck

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// maxDeckFileSize bounds deck files read from disk.
const maxDeckFileSize = 8 << 20

// LoadYAML decodes a deck. Unknown fields are rejected.
func LoadYAML(r io.Reader) (Document, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var doc Document
	if err := dec.Decode(&doc); err != nil {
		if err == io.EOF {
			return Document{}, fmt.Errorf("%w: empty deck", ErrInvalid)
		}
		return Document{}, fmt.Errorf("decode deck: %w", err)
	}
	doc.ensureMaps()
	return doc, nil
}

// WriteYAML encodes doc with two-space indentation.
func WriteYAML(w io.Writer, doc Document) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode deck: %w", err)
	}
	return enc.Close()
}

// LoadJSON decodes a deck exported as JSON.
func LoadJSON(r io.Reader) (Document, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	var doc Document
	if err := dec.Decode(&doc); err != nil {
		return Document{}, fmt.Errorf("decode deck: %w", err)
	}
	doc.ensureMaps()
	return doc, nil
}

// ReadFile loads a deck from a .yaml, .yml or .json file and validates it.
func ReadFile(path string) (Document, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".yaml" && ext != ".yml" && ext != ".json" {
		return Document{}, fmt.Errorf("deck file must have a .yaml, .yml or .json extension, got %q", ext)
	}
	info, err := os.Stat(path)
	if err != nil {
		return Document{}, fmt.Errorf("stat deck file: %w", err)
	}
	if info.Size() > maxDeckFileSize {
		return Document{}, fmt.Errorf("deck file too large: %d bytes (max %d)", info.Size(), maxDeckFileSize)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("read deck file: %w", err)
	}

	var doc Document
	if ext == ".json" {
		doc, err = LoadJSON(bytes.NewReader(data))
	} else {
		doc, err = LoadYAML(bytes.NewReader(data))
	}
	if err != nil {
		return Document{}, fmt.Errorf("%s: %w", path, err)
	}
	if err := doc.Validate(); err != nil {
		return Document{}, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// WriteFile saves doc as YAML, or JSON when path ends in .json.
func WriteFile(path string, doc Document) error {
	var buf bytes.Buffer
	if strings.EqualFold(filepath.Ext(path), ".json") {
		enc := json.NewEncoder(&buf)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode deck: %w", err)
		}
	} else if err := WriteYAML(&buf, doc); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}
