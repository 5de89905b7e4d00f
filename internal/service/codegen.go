package service

import (
	"crypto/rand"
	"fmt"
)

// codeAlphabet leaves out I, O, 0 and 1. Its length of 32 divides 256, so
// reducing a random byte modulo the length is unbiased.
const (
	codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	codeLength   = 5
)

// generateCode returns a random verification code.
func generateCode() (string, error) {
	buf := make([]byte, codeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	for i, b := range buf {
		buf[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}
	return string(buf), nil
}
