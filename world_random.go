package server

import (
	"hash/fnv"
	"math/rand"
)

const defaultWorldSeed = "village-default"

// deterministicSeedValue maps a root seed plus a label to a stable RNG seed,
// so the same world seed always yields the same scenery and spawns while
// distinct subsystems still draw from independent streams.
func deterministicSeedValue(rootSeed, label string) int64 {
	hasher := fnv.New64a()
	hasher.Write([]byte(rootSeed))
	hasher.Write([]byte{0})
	hasher.Write([]byte(label))
	sum := hasher.Sum64()
	if sum == 0 {
		sum = 1
	}
	return int64(sum)
}

func newDeterministicRNG(rootSeed, label string) *rand.Rand {
	return rand.New(rand.NewSource(deterministicSeedValue(rootSeed, label)))
}

func randomDistance(rng *rand.Rand, min, max float64) float64 {
	if max <= min {
		return min
	}
	return min + rng.Float64()*(max-min)
}
