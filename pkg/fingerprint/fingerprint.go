// Package fingerprint derives deterministic content hashes for list payloads,
// so downstream consumers can tell whether a new snapshot actually changed.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
	"strings"
)

// Text creates a fingerprint of raw list text. Whitespace runs are collapsed
// so reflowed copies of the same list hash identically.
func Text(text string) string {
	collapsed := strings.Join(strings.Fields(text), " ")
	hash := sha256.Sum256([]byte(collapsed))
	return hex.EncodeToString(hash[:])
}

// Tree creates a fingerprint of a decoded list tree. The fingerprint is a
// SHA256 hash of the canonicalized JSON, so key order does not matter.
func Tree(data map[string]any) string {
	canonical := canonicalize(data)
	hash := sha256.Sum256([]byte(canonical))
	return hex.EncodeToString(hash[:])
}

// FromJSON creates a fingerprint from raw JSON
func FromJSON(data json.RawMessage) (string, error) {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return "", err
	}
	return Tree(m), nil
}

// canonicalize creates a deterministic string representation of a value
// by sorting keys and recursively processing nested structures
func canonicalize(data any) string {
	switch v := data.(type) {
	case map[string]any:
		return canonicalizeMap(v)
	case []any:
		return canonicalizeArray(v)
	default:
		// For primitives, use JSON encoding
		b, _ := json.Marshal(v)
		return string(b)
	}
}

func canonicalizeMap(m map[string]any) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	result := "{"
	for i, k := range keys {
		if i > 0 {
			result += ","
		}
		keyJSON, _ := json.Marshal(k)
		result += string(keyJSON) + ":" + canonicalize(m[k])
	}
	result += "}"
	return result
}

func canonicalizeArray(arr []any) string {
	result := "["
	for i, v := range arr {
		if i > 0 {
			result += ","
		}
		result += canonicalize(v)
	}
	result += "]"
	return result
}

// HasChanged compares two fingerprints to detect changes
func HasChanged(oldFingerprint, newFingerprint string) bool {
	return oldFingerprint != newFingerprint
}
