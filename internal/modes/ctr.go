package modes

// xorCTR is its own inverse: out[i] = in[i] ^ E(ctr+i), with the counter
// treated as one 128-bit big-endian integer.
func xorCTR(b Block, src, iv []byte) []byte {
	dst := make([]byte, len(src))
	var ctr, ks [blockSize]byte
	copy(ctr[:], iv)
	for off := 0; off < len(src); off += blockSize {
		n := min(blockSize, len(src)-off)
		b.Encrypt(ks[:], ctr[:])
		xorBytes(dst[off:off+n], src[off:off+n], ks[:n])
		increment(&ctr)
	}
	return dst
}

// increment adds one to ctr, carrying leftwards. All-0xff wraps to zero.
func increment(ctr *[blockSize]byte) {
	for i := len(ctr) - 1; i >= 0; i-- {
		ctr[i]++
		if ctr[i] != 0 {
			return
		}
	}
}
