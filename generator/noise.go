package generator

import "math"

// hash32 mixes a 32-bit input into a well-distributed 32-bit output.
func hash32(x uint32) uint32 {
	x ^= x >> 16
	x *= 0x7feb352d
	x ^= x >> 15
	x *= 0x846ca68b
	x ^= x >> 16
	return x
}

// hash2 returns a stable hash for 2D integer coordinates and a seed.
func hash2(seed uint32, x, z int32) uint32 {
	h := seed
	h ^= uint32(x) * 0x9e3779b1
	h ^= uint32(z) * 0x85ebca6b
	return hash32(h)
}

// lattice returns the value at an integer lattice point in [0, 1].
func lattice(seed uint32, x, z int32) float64 {
	return float64(hash2(seed, x, z)) / math.MaxUint32
}

func smoothstep(t float64) float64 {
	return t * t * (3 - 2*t)
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// valueNoise2 samples smooth value noise in [0, 1]. It depends only on the
// world coordinates, so adjacent blocks agree along shared faces.
func valueNoise2(seed uint32, x, z float64) float64 {
	fx, fz := math.Floor(x), math.Floor(z)
	ix, iz := int32(fx), int32(fz)
	tx, tz := smoothstep(x-fx), smoothstep(z-fz)

	v00 := lattice(seed, ix, iz)
	v10 := lattice(seed, ix+1, iz)
	v01 := lattice(seed, ix, iz+1)
	v11 := lattice(seed, ix+1, iz+1)

	return lerp(lerp(v00, v10, tx), lerp(v01, v11, tx), tz)
}

// fbm2 sums octaves of value noise, each at double the frequency and half
// the weight of the previous one. The result is in [0, 1].
func fbm2(seed uint32, x, z float64, octaves int) float64 {
	var sum, norm float64
	amp := 1.0
	for o := range octaves {
		sum += amp * valueNoise2(seed+uint32(o)*0x632be5ab, x, z)
		norm += amp
		x *= 2
		z *= 2
		amp *= 0.5
	}
	if norm == 0 {
		return 0
	}
	return sum / norm
}
