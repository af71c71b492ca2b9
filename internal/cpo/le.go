package cpo

import "math"

// CPO payloads, like UBX, are little-endian on the wire (spec.md §8
// "Endian conversion"). These helpers read fixed-width little-endian
// scalars without any in-place byte-swapping.

func u16(b []byte) uint16 { return uint16(b[0]) | uint16(b[1])<<8 }

func i16(b []byte) int16 { return int16(u16(b)) }

func u32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

func i32(b []byte) int32 { return int32(u32(b)) }

func f32(b []byte) float32 { return math.Float32frombits(u32(b)) }

func u64(b []byte) uint64 {
	return uint64(u32(b)) | uint64(u32(b[4:]))<<32
}

func f64(b []byte) float64 { return math.Float64frombits(u64(b)) }
