//go:build !bigint1024

package bigint

// Limit is half the capacity of a [BigUint] in bytes. Products of two values
// of at most Limit bytes always fit.
//
// Build with the bigint1024 tag to double it.
const Limit = 512
