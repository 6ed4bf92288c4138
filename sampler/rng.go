// SPDX-License-Identifier: MIT

package sampler

// Deterministic random streams for runs and ensembles.
//
// Concurrency:
//   - math/rand.Rand is NOT goroutine-safe. Each run owns its streams.
//   - Ensemble samples get seeds from deriveSeed(base, index), so results do
//     not depend on worker count or scheduling.

import "math/rand"

// defaultRNGSeed is the fixed seed used when callers pass seed==0.
const defaultRNGSeed int64 = 1

// Stream identifiers of the per-channel generators of a run.
const (
	streamRotations uint64 = iota + 1
	streamTranslations
	streamTokens
)

// rngFromSeed returns a deterministic *rand.Rand.
// Policy: seed==0 ⇒ use defaultRNGSeed; otherwise use the provided seed verbatim.
//
// Complexity: O(1).
func rngFromSeed(seed int64) *rand.Rand {
	s := seed
	if s == 0 {
		s = defaultRNGSeed
	}
	return rand.New(rand.NewSource(s))
}

// deriveSeed mixes a parent seed and a stream identifier with a
// SplitMix64-style finalizer.
//
// Complexity: O(1).
func deriveSeed(parent int64, stream uint64) int64 {
	var x uint64
	x = uint64(parent) ^ (stream + 0x9e3779b97f4a7c15)
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	x ^= x >> 31
	return int64(x)
}

// deriveRNG creates an independent stream from base and a stream identifier.
// base.Int63() is consumed once so repeated ids still yield distinct children.
//
// Complexity: O(1).
func deriveRNG(base *rand.Rand, stream uint64) *rand.Rand {
	parent := defaultRNGSeed
	if base != nil {
		parent = base.Int63()
	}
	return rand.New(rand.NewSource(deriveSeed(parent, stream)))
}

// channelStreams are the per-channel generators of one run. Keeping channels
// apart means toggling SDE noise on one channel leaves the others' draws intact.
type channelStreams struct {
	rotations    *rand.Rand
	translations *rand.Rand
	tokens       *rand.Rand
}

func newChannelStreams(seed int64) channelStreams {
	base := rngFromSeed(seed)
	return channelStreams{
		rotations:    deriveRNG(base, streamRotations),
		translations: deriveRNG(base, streamTranslations),
		tokens:       deriveRNG(base, streamTokens),
	}
}
