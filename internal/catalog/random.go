package catalog

import (
	"math/rand"
	"sync"
	"time"
)

// Randomizer supplies the randomness used to vary discovery pages and sort
// orders and to shuffle assembled results.
type Randomizer interface {
	Intn(n int) int
	Shuffle(n int, swap func(i, j int))
}

type lockedRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

// NewRandomizer returns a goroutine-safe Randomizer seeded from the clock.
func NewRandomizer() Randomizer {
	return &lockedRand{r: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// NewSeededRandomizer returns a deterministic Randomizer.
func NewSeededRandomizer(seed int64) Randomizer {
	return &lockedRand{r: rand.New(rand.NewSource(seed))}
}

func (l *lockedRand) Intn(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Intn(n)
}

func (l *lockedRand) Shuffle(n int, swap func(i, j int)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.r.Shuffle(n, swap)
}

// Pick returns a random element of options.
func Pick[T any](r Randomizer, options []T) T {
	return options[r.Intn(len(options))]
}

// Page returns a random page number in [1, max].
func Page(r Randomizer, max int) int {
	if max <= 1 {
		return 1
	}
	return r.Intn(max) + 1
}
