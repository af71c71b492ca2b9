package ubx

// Little-endian scalar readers for UBX payloads (spec.md §9: explicit
// byte-order reads rather than in-place byte-swapping).

func u8(p []byte, off int) uint8   { return p[off] }
func i8(p []byte, off int) int8    { return int8(p[off]) }
func u16(p []byte, off int) uint16 { return uint16(p[off]) | uint16(p[off+1])<<8 }
func i16(p []byte, off int) int16  { return int16(u16(p, off)) }
func u32(p []byte, off int) uint32 {
	return uint32(p[off]) | uint32(p[off+1])<<8 | uint32(p[off+2])<<16 | uint32(p[off+3])<<24
}
func i32(p []byte, off int) int32 { return int32(u32(p, off)) }
func u64(p []byte, off int) uint64 {
	return uint64(u32(p, off)) | uint64(u32(p, off+4))<<32
}
func i64(p []byte, off int) int64 { return int64(u64(p, off)) }
