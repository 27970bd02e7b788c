package modes

// Full-block CFB (CFB128). Both directions run the forward cipher only. A
// trailing partial block consumes the leading bytes of its keystream block.

func encryptCFB(b Block, src, iv []byte) []byte {
	dst := make([]byte, len(src))
	var feedback [blockSize]byte
	copy(feedback[:], iv)
	for off := 0; off < len(src); off += blockSize {
		n := min(blockSize, len(src)-off)
		b.Encrypt(feedback[:], feedback[:])
		xorBytes(dst[off:off+n], src[off:off+n], feedback[:n])
		copy(feedback[:], dst[off:off+n])
	}
	return dst
}

func decryptCFB(b Block, src, iv []byte) []byte {
	dst := make([]byte, len(src))
	var feedback [blockSize]byte
	copy(feedback[:], iv)
	for off := 0; off < len(src); off += blockSize {
		n := min(blockSize, len(src)-off)
		b.Encrypt(feedback[:], feedback[:])
		xorBytes(dst[off:off+n], src[off:off+n], feedback[:n])
		copy(feedback[:], src[off:off+n])
	}
	return dst
}
