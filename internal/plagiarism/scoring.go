package plagiarism

import "math"

// Score returns the cosine similarity of two count vectors sharing one
// vocabulary. The result is in [0, 1]; it is 0 when either vector is all-zero.
func Score(a, b CountVector) float64 {
	normA := squaredNorm(a)
	normB := squaredNorm(b)
	if normA == 0 || normB == 0 {
		return 0.0
	}

	// Iterate over the smaller vector; integer sums keep the result symmetric.
	small, large := a, b
	if len(large) < len(small) {
		small, large = large, small
	}
	var dot int64
	for idx, count := range small {
		if other, ok := large[idx]; ok {
			dot += int64(count) * int64(other)
		}
	}

	similarity := float64(dot) / math.Sqrt(float64(normA)*float64(normB))

	// Clamp to [0, 1]
	if similarity > 1.0 {
		similarity = 1.0
	}
	if similarity < 0.0 {
		similarity = 0.0
	}
	return similarity
}

func squaredNorm(v CountVector) int64 {
	var sum int64
	for _, count := range v {
		sum += int64(count) * int64(count)
	}
	return sum
}
