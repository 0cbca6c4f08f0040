// Package utils holds configuration, the Fiat-Shamir channel and small
// helpers shared by the receipt prover and verifier.
package utils

// IsPowerOfTwo checks if a number is a power of 2
func IsPowerOfTwo(n uint64) bool {
	return n > 0 && (n&(n-1)) == 0
}

// Log2 computes the base-2 logarithm of a power of 2, or -1 otherwise
func Log2(n uint64) int {
	if !IsPowerOfTwo(n) {
		return -1
	}

	result := 0
	for n > 1 {
		n >>= 1
		result++
	}
	return result
}

// NextPowerOfTwo returns the smallest power of 2 >= n
func NextPowerOfTwo(n uint64) uint64 {
	power := uint64(1)
	for power < n {
		power <<= 1
	}
	return power
}
