// Package cpo implements Garmin's proprietary CPO binary protocol: DLE
// (0x10) framing with byte-stuff escaping, an additive checksum, and the
// PVT/SDR record decoders (spec.md §4.1, §4.2, §4.5).
package cpo

// updateChecksum folds one more logical (de-escaped) byte into the
// running 8-bit additive checksum, computed over ID, size, and payload
// only — never the sync DLE, the trailing DLE, or the ETX (spec.md §4.1).
func updateChecksum(sum, b byte) byte { return sum + b }

// finalizeChecksum renders the running sum as its two's-complement wire
// byte.
func finalizeChecksum(sum byte) byte { return ^sum + 1 }
