package security

import (
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/sha3"

	"hotornot/internal/models"
)

// NormalizeVoterID maps the identity a client sends to the identity stored
// with its votes. Wallet addresses are rewritten to EIP-55 checksum form so
// the same wallet always aggregates under one id regardless of letter case.
func NormalizeVoterID(raw string) string {
	id := strings.TrimSpace(raw)
	if id == "" {
		return models.AnonymousVoter
	}
	if IsAddress(id) {
		return ChecksumAddress(id)
	}
	return id
}

// IsAddress reports whether s is a 0x-prefixed 20-byte hex address.
func IsAddress(s string) bool {
	if len(s) != 42 || !(strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X")) {
		return false
	}
	_, err := hex.DecodeString(s[2:])
	return err == nil
}

// ChecksumAddress returns the EIP-55 mixed-case encoding of an address.
// The caller must pass a valid address (see IsAddress).
func ChecksumAddress(addr string) string {
	lower := strings.ToLower(addr[2:])

	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(lower))
	digest := h.Sum(nil)

	out := make([]byte, 0, 42)
	out = append(out, '0', 'x')
	for i := 0; i < len(lower); i++ {
		c := lower[i]
		nibble := digest[i/2]
		if i%2 == 0 {
			nibble >>= 4
		} else {
			nibble &= 0x0f
		}
		if c >= 'a' && c <= 'f' && nibble >= 8 {
			c -= 'a' - 'A'
		}
		out = append(out, c)
	}
	return string(out)
}
