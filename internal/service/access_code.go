package service

import (
	"context"
	"crypto/rand"
	"fmt"
)

// Test codes are human-shareable, so the alphabet drops the visually
// ambiguous characters 0, O, I and 1. 32 symbols divide 256 evenly, which
// keeps a byte-modulo draw uniform.
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// CodeLength is the fixed length of a test access code.
const CodeLength = 8

// maxCodeAttempts bounds the generate-check-insert loop. Exhaustion fails
// the whole test creation; the caller retries the creation request.
const maxCodeAttempts = 10

// codeChecker is the narrow store view the generator needs.
type codeChecker interface {
	CodeExists(ctx context.Context, code string) (bool, error)
}

// randomTestCode draws CodeLength characters uniformly from the code
// alphabet using crypto/rand.
func randomTestCode() (string, error) {
	buf := make([]byte, CodeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random: %w", err)
	}
	for i := range buf {
		buf[i] = codeAlphabet[int(buf[i])%len(codeAlphabet)]
	}
	return string(buf), nil
}

// generateUniqueCode produces a code not currently used by any test. The
// pre-check is best-effort only: two concurrent creations can both pass it
// with the same code, so the insert path must still catch the storage-level
// unique violation and re-roll (see TestService.createWithCode).
func generateUniqueCode(ctx context.Context, store codeChecker, attemptsUsed int) (string, int, error) {
	for attemptsUsed < maxCodeAttempts {
		attemptsUsed++

		code, err := randomTestCode()
		if err != nil {
			return "", attemptsUsed, err
		}

		exists, err := store.CodeExists(ctx, code)
		if err != nil {
			return "", attemptsUsed, fmt.Errorf("check code: %w", err)
		}
		if !exists {
			return code, attemptsUsed, nil
		}
	}
	return "", attemptsUsed, ErrCodeGenerationFailed
}
