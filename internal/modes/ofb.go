package modes

// xorOFB is its own inverse: k[i] = E(k[i-1]), k[-1] = iv, out = in ^ k.
func xorOFB(b Block, src, iv []byte) []byte {
	dst := make([]byte, len(src))
	var ks [blockSize]byte
	copy(ks[:], iv)
	for off := 0; off < len(src); off += blockSize {
		n := min(blockSize, len(src)-off)
		b.Encrypt(ks[:], ks[:])
		xorBytes(dst[off:off+n], src[off:off+n], ks[:n])
	}
	return dst
}
