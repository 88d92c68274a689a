// Package rng provides the engine's deterministic random number service.
// A single master seed derived from (game seed, turn number) produces
// per-subsystem sub-streams so that no subsystem's rolls can contaminate
// another's, and so that independent battles in the same turn are
// reproducible regardless of iteration order (spec.md §4.3, §6.4).
package rng

import "hash/fnv"

// Stream is an independent pseudo-random sequence. It is a splitmix64
// generator: small, allocation-free, and trivially seedable from a hash of
// arbitrary "this stream's identity" parts, which is what makes per-battle
// sub-streams possible without a global draw counter.
type Stream struct {
	state uint64
}

// NewStream returns a stream seeded directly from seed.
func NewStream(seed uint64) *Stream {
	if seed == 0 {
		seed = 0x9E3779B97F4A7C15
	}
	return &Stream{state: seed}
}

// Next returns the next raw 64-bit draw.
func (s *Stream) Next() uint64 {
	s.state += 0x9E3779B97F4A7C15
	z := s.state
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	z = z ^ (z >> 31)
	return z
}

// Intn returns a uniform draw in [0, n). Panics if n <= 0.
func (s *Stream) Intn(n int) int {
	if n <= 0 {
		panic("rng: Intn called with n <= 0")
	}
	return int(s.Next() % uint64(n))
}

// D20 returns a uniform draw in [1, 20], the engine's standard to-hit /
// detection die (spec.md §4.7, §4.9).
func (s *Stream) D20() int {
	return s.Intn(20) + 1
}

// Float64 returns a uniform draw in [0, 1).
func (s *Stream) Float64() float64 {
	return float64(s.Next()>>11) / float64(uint64(1)<<53)
}

// Bool returns a uniform coin flip.
func (s *Stream) Bool() bool {
	return s.Next()&1 == 1
}

func hashParts(parts ...uint64) uint64 {
	h := fnv.New64a()
	buf := make([]byte, 8)
	for _, p := range parts {
		for i := 0; i < 8; i++ {
			buf[i] = byte(p >> (8 * i))
		}
		_, _ = h.Write(buf)
	}
	return h.Sum64()
}

// HashString folds an arbitrary string into the 64-bit space used to seed
// sub-streams (subsystem names, entity id hex strings, etc).
func HashString(s string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return h.Sum64()
}

// Service is the per-turn RNG master: it derives named sub-streams on
// demand from (GameSeed, Turn, name, extra salts).
type Service struct {
	GameSeed uint64
	Turn     int
}

// Sub returns a fresh, independent stream for the given subsystem name and
// any extra salts the caller wants baked into the seed (e.g. a system id's
// hash and a combat round index).
func (svc Service) Sub(name string, salts ...uint64) *Stream {
	parts := make([]uint64, 0, len(salts)+3)
	parts = append(parts, svc.GameSeed, uint64(svc.Turn), HashString(name))
	parts = append(parts, salts...)
	return NewStream(hashParts(parts...))
}

// Subsystem name constants for the canonical sub-streams named in spec.md §4.3.
const (
	StreamMovement   = "movement"
	StreamCombat     = "combat"
	StreamEspionage  = "espionage"
	StreamDetection  = "detection"
	StreamDiplomacy  = "diplomacy"
)
