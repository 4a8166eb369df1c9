// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidToken = errors.New("invalid member token")

// GenerateMemberToken creates a random secure token for a party member.
// The token identifies the member on all subsequent requests.
func GenerateMemberToken() (string, error) {
	b := make([]byte, 24) // 24 bytes = 192 bits of entropy
	_, err := rand.Read(b)
	if err != nil {
		return "", fmt.Errorf("failed to generate member token: %w", err)
	}
	// URL-safe base64 without padding
	return strings.TrimRight(base64.URLEncoding.EncodeToString(b), "="), nil
}

// GenerateInviteCode creates a short, deterministic code for a party.
// Uses HMAC for determinism and base62 encoding so the code is easy to
// read out loud.
func GenerateInviteCode(partyID, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(partyID))
	sum := h.Sum(nil)

	// First 5 bytes keep the code short enough to share verbally
	return base62Encode(sum[:5])
}

// base62Encode converts bytes to base62 (0-9, a-z, A-Z)
// This creates URL-friendly codes without special characters
func base62Encode(data []byte) string {
	const base62Chars = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

	// Convert bytes to a big integer
	var num uint64
	for i := 0; i < len(data) && i < 8; i++ {
		num = num<<8 | uint64(data[i])
	}

	if num == 0 {
		return "0"
	}

	// Convert to base62
	result := make([]byte, 0, 11) // max length for uint64
	for num > 0 {
		result = append(result, base62Chars[num%62])
		num /= 62
	}

	// Reverse the string
	for i, j := 0, len(result)-1; i < j; i, j = i+1, j-1 {
		result[i], result[j] = result[j], result[i]
	}

	return string(result)
}
