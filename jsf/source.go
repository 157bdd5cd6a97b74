package jsf

import "math/rand"

// Source adapts Ctx to math/rand.
type Source struct {
	ctx Ctx
}

var _ rand.Source64 = (*Source)(nil)

func NewSource(seed uint32) *Source {
	s := &Source{}
	s.ctx.Seed(seed)
	return s
}

// Seed only uses the low 32 bits of seed.
func (s *Source) Seed(seed int64) {
	s.ctx.Seed(uint32(seed))
}

// Uint64 joins two consecutive outputs, the first one in the high word.
func (s *Source) Uint64() uint64 {
	hi := uint64(s.ctx.Next())
	return hi<<32 | uint64(s.ctx.Next())
}

func (s *Source) Int63() int64 {
	return int64(s.Uint64() >> 1)
}
