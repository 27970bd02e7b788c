package modes

// encryptCBC expects block-aligned src: c[i] = E(p[i] ^ c[i-1]), c[-1] = iv.
func encryptCBC(b Block, src, iv []byte) []byte {
	dst := make([]byte, len(src))
	var prev [blockSize]byte
	copy(prev[:], iv)
	for off := 0; off < len(src); off += blockSize {
		xorBytes(prev[:], prev[:], src[off:off+blockSize])
		b.Encrypt(prev[:], prev[:])
		copy(dst[off:], prev[:])
	}
	return dst
}

// decryptCBC: p[i] = D(c[i]) ^ c[i-1]. Each block depends only on
// ciphertext, never on an earlier decryption.
func decryptCBC(b Block, src, iv []byte) []byte {
	dst := make([]byte, len(src))
	prev := iv
	var tmp [blockSize]byte
	for off := 0; off < len(src); off += blockSize {
		cur := src[off : off+blockSize]
		b.Decrypt(tmp[:], cur)
		xorBytes(dst[off:off+blockSize], tmp[:], prev)
		prev = cur
	}
	return dst
}
