package service

import (
	"crypto/rand"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// newInstanceAddress mints the address of a freshly "deployed" challenge
// instance. Random 20 bytes, checksummed then lowercased for storage.
func newInstanceAddress() (string, error) {
	var b [20]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", fmt.Errorf("generate instance address: %w", err)
	}
	return strings.ToLower(common.BytesToAddress(b[:]).Hex()), nil
}

// NormalizeAddress validates and lowercases a caller-supplied hex address.
func NormalizeAddress(addr string) (string, error) {
	addr = strings.TrimSpace(addr)
	if !common.IsHexAddress(addr) {
		return "", fmt.Errorf("%w: %q", ErrInvalidAddress, addr)
	}
	return strings.ToLower(common.HexToAddress(addr).Hex()), nil
}
