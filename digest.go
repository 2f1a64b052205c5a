package ded

import (
	"crypto/sha1"
	"encoding/hex"
)

// DigestLen is the length of every identifier returned by Digest.
const DigestLen = sha1.Size * 2

// Digest returns the lowercase hex SHA-1 of s.
func Digest(s string) string {
	sum := sha1.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}

func digitCount(n int) int {
	count := 1
	for n >= 10 {
		n /= 10
		count++
	}
	return count
}
