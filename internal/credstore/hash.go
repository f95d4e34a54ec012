package credstore

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// EncodeHash renders a digest as uppercase hex, two digits per byte with no
// separators. This is the wire/storage representation of every digest the
// store exports.
func EncodeHash(digest []byte) string {
	return strings.ToUpper(hex.EncodeToString(digest))
}

// DecodeHash parses a hex-encoded digest in either case. It returns
// ErrMalformedHash for odd-length input or any non-hex character.
func DecodeHash(digestHex string) ([]byte, error) {
	digest, err := hex.DecodeString(digestHex)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedHash, err)
	}
	return digest, nil
}
