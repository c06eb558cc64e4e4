package combat

import "math/rand/v2"

// Rand is the source of every combat roll.
type Rand interface {
	Float64() float64
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) Float64() float64 { return rand.Float64() }
func (globalRand) IntN(n int) int   { return rand.IntN(n) }

// DefaultRand draws from the goroutine-safe package source.
var DefaultRand Rand = globalRand{}

func pick[T any](r Rand, options []T) T {
	return options[r.IntN(len(options))]
}
