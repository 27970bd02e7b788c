package modes

// PCBC feeds both the previous plaintext and ciphertext forward:
// c[i] = E(p[i] ^ p[i-1] ^ c[i-1]) with p[-1] = 0 and c[-1] = iv. The
// running chain value below is p[i-1] ^ c[i-1].

func encryptPCBC(b Block, src, iv []byte) []byte {
	dst := make([]byte, len(src))
	var chain, buf [blockSize]byte
	copy(chain[:], iv)
	for off := 0; off < len(src); off += blockSize {
		p := src[off : off+blockSize]
		xorBytes(buf[:], p, chain[:])
		b.Encrypt(buf[:], buf[:])
		copy(dst[off:], buf[:])
		xorBytes(chain[:], p, buf[:])
	}
	return dst
}

func decryptPCBC(b Block, src, iv []byte) []byte {
	dst := make([]byte, len(src))
	var chain, buf [blockSize]byte
	copy(chain[:], iv)
	for off := 0; off < len(src); off += blockSize {
		c := src[off : off+blockSize]
		p := dst[off : off+blockSize]
		b.Decrypt(buf[:], c)
		xorBytes(p, buf[:], chain[:])
		xorBytes(chain[:], p, c)
	}
	return dst
}
