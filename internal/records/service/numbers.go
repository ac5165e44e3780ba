package service

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"time"
)

// NumberLength is the length of an account number.
const NumberLength = 10

// maxRedraws bounds how often Generate redraws a number that repeats one
// already handed out in the same batch.
const maxRedraws = 64

// NumberGenerator derives account numbers from the wall clock: the
// millisecond timestamp as 13 digits with the first 3 dropped, then the
// first digit replaced by a random 1-9 and the second by a random 0-9.
//
// Numbers are only unique per batch. Two batches in the same millisecond
// can collide; the store's unique index on number is what rejects that.
type NumberGenerator struct {
	Now  func() time.Time
	IntN func(n int) int
}

func NewNumberGenerator() *NumberGenerator {
	return &NumberGenerator{Now: time.Now, IntN: rand.IntN}
}

// Generate returns n numbers, distinct within the batch when the clock and
// random draws allow it.
func (g *NumberGenerator) Generate(n int) ([]string, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: count must be non-negative, got %d", ErrInvalidArgument, n)
	}

	out := make([]string, 0, n)
	seen := make(map[string]struct{}, n)
	for range n {
		num := g.next()
		for i := 0; i < maxRedraws; i++ {
			if _, dup := seen[num]; !dup {
				break
			}
			num = g.next()
		}
		seen[num] = struct{}{}
		out = append(out, num)
	}
	return out, nil
}

func (g *NumberGenerator) next() string {
	ts := fmt.Sprintf("%013d", g.Now().UnixMilli())
	digits := []byte(ts[len(ts)-NumberLength:])
	digits[0] = byte('1' + g.IntN(9))
	digits[1] = byte('0' + g.IntN(10))
	return string(digits)
}

// ParseCount reads a batch size from text.
func ParseCount(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: count %q is not an integer", ErrInvalidArgument, s)
	}
	if n < 0 {
		return 0, fmt.Errorf("%w: count must be non-negative, got %d", ErrInvalidArgument, n)
	}
	return n, nil
}
