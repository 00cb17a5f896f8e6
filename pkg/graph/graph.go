package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	apperrors "github.com/matzehuels/routeboard/pkg/errors"
	"github.com/matzehuels/routeboard/pkg/planar"
)

// =============================================================================
// Formats
// =============================================================================

// Format is a graph document encoding.
type Format string

// Supported document formats.
const (
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
)

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", apperrors.New(apperrors.ErrCodeUnsupported,
			"unsupported graph file extension %q (want .json or .toml)", filepath.Ext(path))
	}
}

// =============================================================================
// Document Serialization API
// =============================================================================

// Marshal encodes a document. JSON output is indented.
func Marshal(doc Document, f Format) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, doc, f); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes a document. The result is not validated; ToPlanar does
// that.
func Unmarshal(data []byte, f Format) (Document, error) {
	return Decode(bytes.NewReader(data), f)
}

// Encode writes a document to w.
func Encode(w io.Writer, doc Document, f Format) error {
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
		return nil
	case FormatTOML:
		if err := toml.NewEncoder(w).Encode(doc); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
		return nil
	default:
		return apperrors.New(apperrors.ErrCodeUnsupported, "unsupported format %q", f)
	}
}

// Decode reads a document from r.
func Decode(r io.Reader, f Format) (Document, error) {
	var doc Document
	switch f {
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&doc); err != nil {
			return Document{}, apperrors.Wrap(apperrors.ErrCodeInvalidFormat, err, "decode json graph")
		}
	case FormatTOML:
		if _, err := toml.NewDecoder(r).Decode(&doc); err != nil {
			return Document{}, apperrors.Wrap(apperrors.ErrCodeInvalidFormat, err, "decode toml graph")
		}
	default:
		return Document{}, apperrors.New(apperrors.ErrCodeUnsupported, "unsupported format %q", f)
	}
	return doc, nil
}

// ReadFile reads a document, choosing the format from the extension.
func ReadFile(path string) (Document, error) {
	f, err := FormatFromPath(path)
	if err != nil {
		return Document{}, err
	}
	fh, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Document{}, apperrors.Wrap(apperrors.ErrCodeFileNotFound, err, "graph file %s", path)
		}
		return Document{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer fh.Close()
	return Decode(fh, f)
}

// WriteFile writes a document, choosing the format from the extension.
// The file is created with 0644 permissions.
func WriteFile(path string, doc Document) error {
	f, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	data, err := Marshal(doc, f)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// =============================================================================
// Graph Serialization API
// =============================================================================

// MarshalGraph converts a graph to JSON bytes.
func MarshalGraph(g *planar.Graph) ([]byte, error) {
	doc, _ := FromPlanar(g)
	return Marshal(doc, FormatJSON)
}

// WriteGraph writes a graph as JSON to w.
func WriteGraph(g *planar.Graph, w io.Writer) error {
	doc, _ := FromPlanar(g)
	return Encode(w, doc, FormatJSON)
}

// ReadGraph decodes a JSON graph from r.
func ReadGraph(r io.Reader) (*planar.Graph, *Index, error) {
	doc, err := Decode(r, FormatJSON)
	if err != nil {
		return nil, nil, err
	}
	return ToPlanar(doc)
}

// WriteGraphFile writes a graph to path in the format its extension names.
func WriteGraphFile(g *planar.Graph, path string) error {
	doc, _ := FromPlanar(g)
	return WriteFile(path, doc)
}

// ReadGraphFile reads a graph file and rebuilds the graph.
// Returns INVALID_FORMAT errors for malformed documents.
func ReadGraphFile(path string) (*planar.Graph, *Index, error) {
	doc, err := ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	g, ix, err := ToPlanar(doc)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, ix, nil
}
