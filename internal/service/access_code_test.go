package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCodeChecker scripts CodeExists responses and records calls.
type fakeCodeChecker struct {
	exists []bool
	calls  int
}

func (f *fakeCodeChecker) CodeExists(_ context.Context, _ string) (bool, error) {
	if f.calls < len(f.exists) {
		defer func() { f.calls++ }()
		return f.exists[f.calls], nil
	}
	f.calls++
	return false, nil
}

func TestRandomTestCode(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		code, err := randomTestCode()
		require.NoError(t, err)

		assert.Len(t, code, CodeLength)
		for _, r := range code {
			assert.True(t, strings.ContainsRune(codeAlphabet, r), "unexpected character %q", r)
		}
		seen[code] = true
	}
	// 100 draws from a 32^8 space virtually never collide.
	assert.Greater(t, len(seen), 95)
}

func TestRandomTestCode_ExcludesAmbiguousCharacters(t *testing.T) {
	for _, r := range "01IO" {
		assert.False(t, strings.ContainsRune(codeAlphabet, r), "alphabet must not contain %q", r)
	}
}

func TestGenerateUniqueCode(t *testing.T) {
	t.Run("first draw free", func(t *testing.T) {
		store := &fakeCodeChecker{}

		code, used, err := generateUniqueCode(context.Background(), store, 0)
		require.NoError(t, err)

		assert.Len(t, code, CodeLength)
		assert.Equal(t, 1, used)
	})

	t.Run("retries taken codes", func(t *testing.T) {
		store := &fakeCodeChecker{exists: []bool{true, true, false}}

		code, used, err := generateUniqueCode(context.Background(), store, 0)
		require.NoError(t, err)

		assert.Len(t, code, CodeLength)
		assert.Equal(t, 3, used)
	})

	t.Run("attempt budget exhausted", func(t *testing.T) {
		store := &fakeCodeChecker{exists: []bool{true, true, true, true, true, true, true, true, true, true}}

		_, used, err := generateUniqueCode(context.Background(), store, 0)

		assert.ErrorIs(t, err, ErrCodeGenerationFailed)
		assert.Equal(t, maxCodeAttempts, used)
	})

	t.Run("shared budget with prior attempts", func(t *testing.T) {
		store := &fakeCodeChecker{}

		_, used, err := generateUniqueCode(context.Background(), store, maxCodeAttempts-1)
		require.NoError(t, err)
		assert.Equal(t, maxCodeAttempts, used)

		_, _, err = generateUniqueCode(context.Background(), store, maxCodeAttempts)
		assert.ErrorIs(t, err, ErrCodeGenerationFailed)
	})
}
