package cache

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"

	"github.com/matzehuels/routeboard/pkg/graph"
)

// hashKey builds a key of the form prefix:sha256(json(parts)).
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	return fmt.Sprintf("%s:%s", prefix, Hash(data))
}

// Hash returns the hex SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// GraphHash returns the content hash of a graph document.
//
// Positions are hashed by their float32 bit patterns and edges by index, in
// document order, so two documents hash equal exactly when they describe the
// same board with the same node numbering.
func GraphHash(doc graph.Document) string {
	h := sha256.New()
	var buf [8]byte

	binary.LittleEndian.PutUint32(buf[:4], uint32(len(doc.Nodes)))
	h.Write(buf[:4])
	for _, n := range doc.Nodes {
		binary.LittleEndian.PutUint32(buf[:4], math.Float32bits(n.X))
		binary.LittleEndian.PutUint32(buf[4:], math.Float32bits(n.Y))
		h.Write(buf[:])
	}

	binary.LittleEndian.PutUint32(buf[:4], uint32(len(doc.Edges)))
	h.Write(buf[:4])
	for _, e := range doc.Edges {
		binary.LittleEndian.PutUint32(buf[:4], uint32(e.From))
		binary.LittleEndian.PutUint32(buf[4:], uint32(e.To))
		h.Write(buf[:])
	}
	return hex.EncodeToString(h.Sum(nil))
}
