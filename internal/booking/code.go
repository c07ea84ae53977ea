package booking

import (
	"crypto/rand"
	"fmt"
	"io"
)

const (
	codeLength   = 10
	codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// GenerateCode returns a random booking code of ten upper-case letters and digits.
func GenerateCode() (string, error) {
	return generateCode(rand.Reader)
}

func generateCode(r io.Reader) (string, error) {
	// 252 is the largest multiple of 36 below 256; bytes above it are redrawn
	// so every symbol is equally likely.
	const limit = 252
	out := make([]byte, 0, codeLength)
	buf := make([]byte, codeLength*2)
	for len(out) < codeLength {
		if _, err := io.ReadFull(r, buf); err != nil {
			return "", fmt.Errorf("booking code entropy: %w", err)
		}
		for _, b := range buf {
			if b >= limit {
				continue
			}
			out = append(out, codeAlphabet[int(b)%len(codeAlphabet)])
			if len(out) == codeLength {
				break
			}
		}
	}
	return string(out), nil
}
