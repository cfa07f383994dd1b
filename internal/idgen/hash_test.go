package idgen

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestGenerateHashIDDeterministic(t *testing.T) {
	ts := time.Date(2024, 1, 2, 3, 4, 5, 6*1_000_000, time.UTC)
	var entropy [16]byte
	copy(entropy[:], []byte("0123456789abcdef"))

	a := GenerateHashID("bd", "Fix login", ts, entropy)
	b := GenerateHashID("bd", "Fix login", ts, entropy)
	require.Equal(t, a, b)
	require.Regexp(t, `^bd-[0-9a-z]{8,}$`, a)
}

func TestGenerateHashIDVariesWithEntropy(t *testing.T) {
	ts := time.Now()
	var e1, e2 [16]byte
	e2[0] = 1

	a := GenerateHashID("bd", "Same title", ts, e1)
	b := GenerateHashID("bd", "Same title", ts, e2)
	require.NotEqual(t, a, b)
}

func TestGenerateHashIDMinLength(t *testing.T) {
	ts := time.Now()
	var entropy [16]byte
	id := GenerateHashID("x", "t", ts, entropy)
	// "x-" + at least MinIDLength base36 chars.
	require.GreaterOrEqual(t, len(id), len("x-")+MinIDLength)
}

func TestMintRetriesOnCollision(t *testing.T) {
	seen := map[string]bool{}
	calls := 0
	exists := func(id string) (bool, error) {
		calls++
		if calls <= 2 {
			return true, nil // force two collisions before success
		}
		return seen[id], nil
	}

	id, err := Mint("bd", "Some title", time.Now(), exists)
	require.NoError(t, err)
	require.NotEmpty(t, id)
	require.GreaterOrEqual(t, calls, 3)
}

func TestMintExhaustion(t *testing.T) {
	exists := func(id string) (bool, error) { return true, nil }
	_, err := Mint("bd", "Always taken", time.Now(), exists)
	require.True(t, errors.Is(err, ErrExhausted))
}

func TestMintPropagatesStoreError(t *testing.T) {
	boom := errors.New("store offline")
	exists := func(id string) (bool, error) { return false, boom }
	_, err := Mint("bd", "title", time.Now(), exists)
	require.Error(t, err)
}
