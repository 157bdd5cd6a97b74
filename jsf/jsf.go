// Implements Bob Jenkins' small noncryptographic PRNG (the 32-bit "jsf" variant).
// See: https://burtleburtle.net/bob/rand/smallprng.html

package jsf

import "math/bits"

// Initial value of the first state word. The other three start out as the seed.
const initA uint32 = 0xf1ea5eed

// Number of outputs discarded while seeding.
const mixRounds = 20

// Ctx is the whole generator state. It is not safe for concurrent use;
// give each goroutine its own Ctx.
//
// The zero value is usable but unseeded: it stays all-zero and yields 0 forever.
type Ctx struct {
	a, b, c, d uint32
}

// State is an exported copy of the four state words, for callers that need to
// persist or transfer a generator.
type State struct {
	A, B, C, D uint32
}

func Init(seed uint32) *Ctx {
	x := &Ctx{}
	x.Seed(seed)
	return x
}

func FromState(s State) *Ctx {
	return &Ctx{a: s.A, b: s.B, c: s.C, d: s.D}
}

// Seed resets x to the state Init(seed) would return.
func (x *Ctx) Seed(seed uint32) {
	x.a = initA
	x.b, x.c, x.d = seed, seed, seed
	for i := 0; i < mixRounds; i++ {
		x.Next()
	}
}

func (x *Ctx) Next() uint32 {
	e := x.a - RotateLeft(x.b, 27)
	x.a = x.b ^ RotateLeft(x.c, 17)
	x.b = x.c + x.d
	x.c = x.d + e
	// d uses the a computed above.
	x.d = e + x.a
	return x.d
}

func (x *Ctx) State() State {
	return State{A: x.a, B: x.b, C: x.c, D: x.d}
}

// RotateLeft rotates x left by k bits. k is reduced modulo 32, so 0 and 32 are no-ops
// and negative values rotate right.
func RotateLeft(x uint32, k int) uint32 {
	return bits.RotateLeft32(x, k%32)
}
