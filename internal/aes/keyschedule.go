package aes

// roundsFor maps a key length in bytes to the AES round count.
func roundsFor(keyLen int) (int, error) {
	switch keyLen {
	case 16:
		return 10, nil
	case 24:
		return 12, nil
	case 32:
		return 14, nil
	default:
		return 0, ConfigErrorf("key", "length %d, must be 16, 24 or 32 bytes", keyLen)
	}
}

func subWord(w *[4]byte) {
	for i, b := range w {
		w[i] = sbox[b]
	}
}

// expandKey derives rounds+1 round keys from key (FIPS-197 section 5.2).
func expandKey(key []byte) ([]state, error) {
	rounds, err := roundsFor(len(key))
	if err != nil {
		return nil, err
	}
	n := len(key) / 4
	total := 4 * (rounds + 1)

	words := make([][4]byte, 0, total)
	for i := 0; i < n; i++ {
		words = append(words, [4]byte(key[4*i:4*i+4]))
	}

	next := 0
	for len(words) < total {
		w := words[len(words)-1]
		switch {
		case len(words)%n == 0:
			w = [4]byte{w[1], w[2], w[3], w[0]}
			subWord(&w)
			w[0] ^= rcon[next]
			next++
		case n == 8 && len(words)%n == 4:
			subWord(&w)
		}
		prev := words[len(words)-n]
		for i := range w {
			w[i] ^= prev[i]
		}
		words = append(words, w)
	}

	keys := make([]state, rounds+1)
	for i := range keys {
		for c := 0; c < 4; c++ {
			*keys[i].column(c) = words[4*i+c]
		}
	}
	return keys, nil
}
