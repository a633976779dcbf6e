package filter

import (
	"math"

	"github.com/gogpu/sketch/internal/cache"
)

// GaussianKernel generates a normalized 1D Gaussian kernel with sigma equal
// to radius/3, so the kernel spans exactly 2*ceil(radius)+1 taps.
// For radius <= 0 it returns the identity kernel [1].
func GaussianKernel(radius float64) []float32 {
	if radius <= 0 {
		return []float32{1}
	}
	half := int(math.Ceil(radius))
	sigma := math.Max(radius/3, 0.5)
	size := half*2 + 1
	kernel := make([]float32, size)
	twoSigmaSq := 2 * sigma * sigma
	sum := 0.0
	vals := make([]float64, size)
	for i := range size {
		x := float64(i - half)
		vals[i] = math.Exp(-(x * x) / twoSigmaSq)
		sum += vals[i]
	}
	for i := range kernel {
		kernel[i] = float32(vals[i] / sum)
	}
	return kernel
}

// kernels caches Gaussian kernels keyed by radius quantized to 0.01.
var kernels = cache.New[int, []float32](64)

// CachedGaussianKernel returns a shared kernel for radius. Callers must
// not modify it.
func CachedGaussianKernel(radius float64) []float32 {
	key := int(math.Round(radius * 100))
	return kernels.GetOrCreate(key, func() []float32 {
		return GaussianKernel(float64(key) / 100)
	})
}
