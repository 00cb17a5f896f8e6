package planar

import (
	"strings"

	"github.com/matzehuels/routeboard/pkg/arena"
	apperrors "github.com/matzehuels/routeboard/pkg/errors"
)

// NodeKey identifies a node within one Graph. The zero NodeKey never refers
// to a node.
type NodeKey arena.Key

// IsNil reports whether k is the zero key.
func (k NodeKey) IsNil() bool { return arena.Key(k).IsNil() }

func (k NodeKey) String() string { return "n" + arena.Key(k).String() }

// ParseNodeKey parses the "n<index>:<generation>" form produced by String.
// Malformed text is an INVALID_INPUT error. A well-formed key may still be
// stale; resolving it against the graph reports ErrUnknownNode.
func ParseNodeKey(s string) (NodeKey, error) {
	k, err := parseKey("n", "node", s)
	return NodeKey(k), err
}

// MarshalText encodes k as its String form, so keys travel as JSON strings.
func (k NodeKey) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// UnmarshalText decodes the form produced by MarshalText.
func (k *NodeKey) UnmarshalText(b []byte) error {
	parsed, err := ParseNodeKey(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// EdgeKey identifies an edge within one Graph. The zero EdgeKey never refers
// to an edge.
type EdgeKey arena.Key

// IsNil reports whether k is the zero key.
func (k EdgeKey) IsNil() bool { return arena.Key(k).IsNil() }

func (k EdgeKey) String() string { return "e" + arena.Key(k).String() }

// ParseEdgeKey parses the "e<index>:<generation>" form produced by String.
func ParseEdgeKey(s string) (EdgeKey, error) {
	k, err := parseKey("e", "edge", s)
	return EdgeKey(k), err
}

// MarshalText encodes k as its String form.
func (k EdgeKey) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// UnmarshalText decodes the form produced by MarshalText.
func (k *EdgeKey) UnmarshalText(b []byte) error {
	parsed, err := ParseEdgeKey(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

func parseKey(prefix, what, s string) (arena.Key, error) {
	rest, ok := strings.CutPrefix(s, prefix)
	if !ok {
		return arena.Key{}, apperrors.New(apperrors.ErrCodeInvalidInput, "%s key %q must start with %q", what, s, prefix)
	}
	k, err := arena.ParseKey(rest)
	if err != nil {
		return arena.Key{}, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "%s key %q", what, s)
	}
	return k, nil
}

// edgeSet is an insertion-ordered set of edge keys with O(1) add, remove
// and membership. Removal swaps the last element into the freed position.
type edgeSet struct {
	keys  []EdgeKey
	index map[EdgeKey]int
}

func (s *edgeSet) add(k EdgeKey) bool {
	if _, ok := s.index[k]; ok {
		return false
	}
	if s.index == nil {
		s.index = make(map[EdgeKey]int)
	}
	s.index[k] = len(s.keys)
	s.keys = append(s.keys, k)
	return true
}

func (s *edgeSet) remove(k EdgeKey) bool {
	i, ok := s.index[k]
	if !ok {
		return false
	}
	last := len(s.keys) - 1
	if i != last {
		moved := s.keys[last]
		s.keys[i] = moved
		s.index[moved] = i
	}
	s.keys = s.keys[:last]
	delete(s.index, k)
	return true
}

func (s *edgeSet) has(k EdgeKey) bool {
	_, ok := s.index[k]
	return ok
}

func (s *edgeSet) len() int { return len(s.keys) }

func (s *edgeSet) clone() []EdgeKey {
	if len(s.keys) == 0 {
		return nil
	}
	out := make([]EdgeKey, len(s.keys))
	copy(out, s.keys)
	return out
}

func (s *edgeSet) reset() {
	s.keys = nil
	s.index = nil
}
