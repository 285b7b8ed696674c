// Package namegen builds the two-part fallback names assigned to federated
// accounts that arrive without a usable display name or handle.
package namegen

import (
	"math/rand"
	"sync"
)

var adjectives = []string{
	"brave", "swift", "clever", "quiet", "cheerful", "cute", "mysterious",
	"funny", "fresh", "lively", "warm", "shiny", "gentle", "bold",
}

var animals = []string{
	"lion", "tiger", "deer", "eagle", "sloth", "cat", "rabbit",
	"puppy", "owl", "raccoon", "hamster", "squirrel", "penguin", "hedgehog",
}

// Generator produces adjective+animal names from an explicit random source,
// so callers control determinism (tests seed it, main uses a time seed).
// Safe for concurrent use.
type Generator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// New returns a Generator drawing from rng. The Generator owns rng after
// this call.
func New(rng *rand.Rand) *Generator {
	return &Generator{rng: rng}
}

// Name returns a random two-part name, e.g. "swift-penguin".
func (g *Generator) Name() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	adj := adjectives[g.rng.Intn(len(adjectives))]
	animal := animals[g.rng.Intn(len(animals))]
	return adj + "-" + animal
}
