// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"net/http"
	"strings"

	"github.com/danielhkuo/ballotbox/pollstore"
)

// Request headers carrying the caller identity
const (
	HeaderCallerAddress = "X-Caller-Address"
	HeaderCallerToken   = "X-Caller-Token"
)

const maxAddressLen = 128

var (
	ErrMissingCaller  = errors.New("caller address required")
	ErrInvalidAddress = errors.New("invalid caller address")
	ErrInvalidToken   = errors.New("invalid caller token")
)

// NormalizeAddress trims the address and lower-cases 0x-prefixed hex
// addresses so checksummed and plain forms compare equal
func NormalizeAddress(raw string) (pollstore.Address, error) {
	addr := strings.TrimSpace(raw)
	if addr == "" {
		return "", ErrMissingCaller
	}
	if len(addr) > maxAddressLen {
		return "", ErrInvalidAddress
	}
	for _, c := range addr {
		if c <= ' ' || c == 0x7f {
			return "", ErrInvalidAddress
		}
	}

	if isHexAddress(addr) {
		addr = strings.ToLower(addr)
	}
	return pollstore.Address(addr), nil
}

func isHexAddress(s string) bool {
	if len(s) < 3 || (s[:2] != "0x" && s[:2] != "0X") {
		return false
	}
	for i := 2; i < len(s); i++ {
		c := s[i]
		if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')) {
			return false
		}
	}
	return true
}

// GenerateCallerToken creates an HMAC-based token for an address
// This is deterministic and verifiable
func GenerateCallerToken(address pollstore.Address, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(address))
	sum := h.Sum(nil)
	// Use URL-safe base64 and trim padding for cleaner tokens
	return strings.TrimRight(base64.URLEncoding.EncodeToString(sum), "=")
}

// ValidateCallerToken checks if the provided token is valid for the address
func ValidateCallerToken(address pollstore.Address, token, salt string) error {
	expected := GenerateCallerToken(address, salt)
	if !hmac.Equal([]byte(token), []byte(expected)) {
		return ErrInvalidToken
	}
	return nil
}

// CallerFromRequest extracts the authenticated caller. With an empty salt
// the identity provider in front of the server is trusted as-is; otherwise
// X-Caller-Token must match the address.
func CallerFromRequest(r *http.Request, salt string) (pollstore.Address, error) {
	addr, err := NormalizeAddress(r.Header.Get(HeaderCallerAddress))
	if err != nil {
		return "", err
	}
	if salt == "" {
		return addr, nil
	}
	if err := ValidateCallerToken(addr, r.Header.Get(HeaderCallerToken), salt); err != nil {
		return "", err
	}
	return addr, nil
}
