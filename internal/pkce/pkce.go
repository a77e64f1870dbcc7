// Package pkce generates Proof Key for Code Exchange (RFC 7636) verifiers and S256 challenges.
package pkce

import (
	"crypto/rand"
	"fmt"
	"io"

	"github.com/desertthunder/spotsearch/internal/shared"
	"golang.org/x/oauth2"
)

// Charset is the unreserved character set a verifier is drawn from.
const Charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-._~"

const (
	MinVerifierLength     = 43
	MaxVerifierLength     = 128
	DefaultVerifierLength = MaxVerifierLength

	// MethodS256 is the only challenge method this package produces.
	MethodS256 = "S256"
)

// random is the entropy source; replaced in tests.
var random io.Reader = rand.Reader

// Pair is a verifier and the challenge derived from it.
type Pair struct {
	Verifier  string
	Challenge string
}

// Method returns the code_challenge_method for the pair.
func (Pair) Method() string { return MethodS256 }

// NewPair generates a verifier of the given length and computes its challenge.
func NewPair(length int) (Pair, error) {
	verifier, err := GenerateVerifier(length)
	if err != nil {
		return Pair{}, err
	}
	return Pair{Verifier: verifier, Challenge: ComputeChallenge(verifier)}, nil
}

// GenerateVerifier draws length characters uniformly from [Charset].
//
// Bytes at or above the largest multiple of len(Charset) are discarded so every character is equally likely.
func GenerateVerifier(length int) (string, error) {
	if length < MinVerifierLength || length > MaxVerifierLength {
		return "", fmt.Errorf("%w: verifier length must be between %d and %d, got %d",
			shared.ErrInvalidArgument, MinVerifierLength, MaxVerifierLength, length)
	}

	const limit = 256 - 256%len(Charset)

	out := make([]byte, 0, length)
	buf := make([]byte, length)
	for len(out) < length {
		if _, err := io.ReadFull(random, buf); err != nil {
			return "", fmt.Errorf("failed to read random bytes: %w", err)
		}
		for _, b := range buf {
			if int(b) >= limit {
				continue
			}
			out = append(out, Charset[int(b)%len(Charset)])
			if len(out) == length {
				break
			}
		}
	}

	return string(out), nil
}

// ComputeChallenge returns base64url(SHA-256(verifier)) without padding.
func ComputeChallenge(verifier string) string {
	return oauth2.S256ChallengeFromVerifier(verifier)
}

// Valid reports whether verifier has a legal length and only uses [Charset].
func Valid(verifier string) bool {
	if len(verifier) < MinVerifierLength || len(verifier) > MaxVerifierLength {
		return false
	}
	for i := 0; i < len(verifier); i++ {
		if !inCharset(verifier[i]) {
			return false
		}
	}
	return true
}

func inCharset(c byte) bool {
	switch {
	case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9':
		return true
	case c == '-', c == '.', c == '_', c == '~':
		return true
	}
	return false
}
