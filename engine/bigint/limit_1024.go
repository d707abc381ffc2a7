//go:build bigint1024

package bigint

const Limit = 1024
