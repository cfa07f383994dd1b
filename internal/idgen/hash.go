// Package idgen mints short, collision-resistant issue IDs from issue
// content and entropy, so independent agents can create issues without
// coordinating over a shared counter.
package idgen

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// base36Alphabet is the character set for base36 encoding (0-9, a-z).
// Matches the teacher's encoding choice: case-insensitive and denser than
// hex, so humans can still type an id without worrying about case.
const base36Alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// MinIDLength is the minimum digit width of a minted id's suffix, per
// spec.md §4.1: ids are left-padded with '0' up to this length.
const MinIDLength = 8

// maxMintAttempts bounds the collision-retry loop. Exceeding it raises
// ErrExhausted.
const maxMintAttempts = 8

// Exists is satisfied by any store that can report whether an id is
// already in use. Kept minimal so IdMinter has no dependency on the
// storage package.
type Exists func(id string) (bool, error)

// ErrExhausted is returned when maxMintAttempts collision redraws all fail
// to produce an unused id.
var ErrExhausted = fmt.Errorf("idgen: exhausted %d mint attempts", maxMintAttempts)

// encodeBase36 renders data's big-endian integer value in base36,
// left-padded with '0' to at least minLength digits.
func encodeBase36(data []byte, minLength int) string {
	num := new(big.Int).SetBytes(data)
	if num.Sign() == 0 {
		return strings.Repeat("0", minLength)
	}

	base := big.NewInt(36)
	zero := big.NewInt(0)
	mod := new(big.Int)

	var chars []byte
	for num.Cmp(zero) > 0 {
		num.DivMod(num, base, mod)
		chars = append(chars, base36Alphabet[mod.Int64()])
	}
	for i, j := 0, len(chars)-1; i < j; i, j = i+1, j-1 {
		chars[i], chars[j] = chars[j], chars[i]
	}

	s := string(chars)
	if len(s) < minLength {
		s = strings.Repeat("0", minLength-len(s)) + s
	}
	return s
}

// digest computes the 256-bit hash over title || 0x00 || RFC3339Nano
// timestamp || 0x00 || 128 bits of entropy, per spec.md §4.1 step 1.
func digest(title string, ts time.Time, entropy [16]byte) [32]byte {
	var buf []byte
	buf = append(buf, []byte(title)...)
	buf = append(buf, 0)
	buf = append(buf, []byte(ts.UTC().Format(time.RFC3339Nano))...)
	buf = append(buf, 0)
	buf = append(buf, entropy[:]...)
	return sha256.Sum256(buf)
}

// GenerateHashID computes a candidate id from the first 64 bits of the
// digest, base36-encoded with a minimum width of MinIDLength, per
// spec.md §4.1 steps 1-3. entropy must be 128 bits of randomness fresh to
// this call.
func GenerateHashID(prefix, title string, ts time.Time, entropy [16]byte) string {
	d := digest(title, ts, entropy)
	first64 := binary.BigEndian.Uint64(d[:8])
	var b8 [8]byte
	binary.BigEndian.PutUint64(b8[:], first64)
	suffix := encodeBase36(b8[:], MinIDLength)
	if prefix == "" {
		return suffix
	}
	return fmt.Sprintf("%s-%s", prefix, suffix)
}

// randomEntropy draws 128 bits from a cryptographically strong source.
func randomEntropy() ([16]byte, error) {
	var e [16]byte
	_, err := rand.Read(e[:])
	return e, err
}

// Mint produces a fresh, store-unique id for an issue, retrying with fresh
// entropy up to maxMintAttempts times (spec.md §4.1 step 4) before
// returning ErrExhausted.
func Mint(prefix, title string, ts time.Time, exists Exists) (string, error) {
	var id string
	attempt := 0
	op := func() error {
		attempt++
		entropy, err := randomEntropy()
		if err != nil {
			return backoff.Permanent(fmt.Errorf("idgen: reading entropy: %w", err))
		}
		candidate := GenerateHashID(prefix, title, ts, entropy)
		taken, err := exists(candidate)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("idgen: checking existence: %w", err))
		}
		if taken {
			if attempt >= maxMintAttempts {
				return backoff.Permanent(ErrExhausted)
			}
			return fmt.Errorf("idgen: collision on attempt %d", attempt)
		}
		id = candidate
		return nil
	}

	policy := backoff.WithMaxRetries(backoff.NewConstantBackOff(0), maxMintAttempts-1)
	if err := backoff.Retry(op, policy); err != nil {
		return "", err
	}
	return id, nil
}
