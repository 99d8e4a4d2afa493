package rps

import (
	"math/rand/v2"
	"sync"
)

// Picker chooses the computer's hand.
type Picker interface {
	Pick() Choice
}

// RandomPicker picks uniformly at random. It is safe for concurrent use.
type RandomPicker struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomPicker creates a picker drawing from rng. If rng is nil, the
// picker uses the global source.
func NewRandomPicker(rng *rand.Rand) *RandomPicker {
	return &RandomPicker{rng: rng}
}

// NewSeededPicker creates a picker whose sequence is determined by seed.
func NewSeededPicker(seed uint64) *RandomPicker {
	return NewRandomPicker(rand.New(rand.NewPCG(seed, seed)))
}

// Pick implements Picker.
func (p *RandomPicker) Pick() Choice {
	c := Choices()
	if p.rng == nil {
		return c[rand.IntN(len(c))]
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return c[p.rng.IntN(len(c))]
}

// FixedPicker picks its choices in order, starting over after the last.
// An empty FixedPicker always picks Rock.
type FixedPicker struct {
	mu      sync.Mutex
	choices []Choice
	next    int
}

// NewFixedPicker creates a picker that plays choices in order.
func NewFixedPicker(choices ...Choice) *FixedPicker {
	return &FixedPicker{choices: choices}
}

// Pick implements Picker.
func (p *FixedPicker) Pick() Choice {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.choices) == 0 {
		return Rock
	}
	c := p.choices[p.next]
	p.next = (p.next + 1) % len(p.choices)
	return c
}
