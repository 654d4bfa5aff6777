package object

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// HashObject computes the SHA-256 of the envelope "type len\0content",
// mirroring Git's object hashing but with SHA-256.
func HashObject(objType ObjectType, data []byte) Hash {
	header := fmt.Sprintf("%s %d\x00", objType, len(data))
	h := sha256.New()
	h.Write([]byte(header))
	h.Write(data)
	return Hash(hex.EncodeToString(h.Sum(nil)))
}

// Valid reports whether h is a well-formed lowercase hex SHA-256 digest.
func (h Hash) Valid() bool {
	if len(h) != 2*RawHashLen {
		return false
	}
	for _, c := range h {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}

// Raw decodes the hash into its 32 raw bytes.
func (h Hash) Raw() ([]byte, error) {
	raw, err := hex.DecodeString(string(h))
	if err != nil {
		return nil, fmt.Errorf("decode hash %q: %w", h, err)
	}
	if len(raw) != RawHashLen {
		return nil, fmt.Errorf("decode hash %q: got %d bytes, want %d", h, len(raw), RawHashLen)
	}
	return raw, nil
}

// HashFromRaw encodes 32 raw digest bytes as a Hash.
func HashFromRaw(raw []byte) (Hash, error) {
	if len(raw) != RawHashLen {
		return "", fmt.Errorf("raw hash: got %d bytes, want %d", len(raw), RawHashLen)
	}
	return Hash(hex.EncodeToString(raw)), nil
}

// Short returns the first 8 characters of the hash for display.
func (h Hash) Short() string {
	if len(h) > 8 {
		return string(h[:8])
	}
	return string(h)
}
