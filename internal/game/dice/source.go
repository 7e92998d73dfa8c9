package dice

import (
	"crypto/rand"
	"encoding/binary"
	"io"
	mrand "math/rand/v2"
)

// SeededSource is a reproducible Rand: two sources built from the same seed
// produce the same sequence for the same sequence of calls.
type SeededSource struct {
	seed uint64
	rng  *mrand.Rand
}

// NewSeededSource returns a SeededSource for seed.
func NewSeededSource(seed uint64) *SeededSource {
	return &SeededSource{
		seed: seed,
		rng:  mrand.New(mrand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

// Seed returns the seed the source was created with.
func (s *SeededSource) Seed() uint64 {
	return s.seed
}

// Intn returns a pseudo-random int in [0, n).
//
// Precondition: n > 0. Panics with "dice: Intn called with n <= 0" if n <= 0.
func (s *SeededSource) Intn(n int) int {
	if n <= 0 {
		panic("dice: Intn called with n <= 0")
	}
	return s.rng.IntN(n)
}

// Float64 returns a pseudo-random float in [0.0, 1.0).
func (s *SeededSource) Float64() float64 {
	return s.rng.Float64()
}

// RandomSeed draws a fresh seed from crypto/rand. Callers log it so a run can
// be replayed.
func RandomSeed() uint64 {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic("dice: crypto/rand failure: " + err.Error())
	}
	return binary.LittleEndian.Uint64(b[:])
}

// byteReader adapts a Source to io.Reader, one Intn(256) draw per byte.
type byteReader struct {
	src Source
}

// Reader returns an io.Reader whose bytes are drawn from src. Reading never
// fails.
func Reader(src Source) io.Reader {
	return byteReader{src: src}
}

func (r byteReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = byte(r.src.Intn(256))
	}
	return len(p), nil
}
