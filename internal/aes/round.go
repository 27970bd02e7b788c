package aes

func subBytes(s *state) {
	for i, b := range s {
		s[i] = sbox[b]
	}
}

func invSubBytes(s *state) {
	for i, b := range s {
		s[i] = invSbox[b]
	}
}

// shiftRows rotates row r left by r positions.
func shiftRows(s *state) {
	for r := 1; r < 4; r++ {
		var row [4]byte
		for c := range row {
			row[c] = s[at(r, (c+r)%4)]
		}
		for c, b := range row {
			s[at(r, c)] = b
		}
	}
}

// invShiftRows rotates row r right by r positions.
func invShiftRows(s *state) {
	for r := 1; r < 4; r++ {
		var row [4]byte
		for c := range row {
			row[c] = s[at(r, (c-r+4)%4)]
		}
		for c, b := range row {
			s[at(r, c)] = b
		}
	}
}

func mixColumn(a *[4]byte) {
	t := a[0] ^ a[1] ^ a[2] ^ a[3]
	u := a[0]
	a[0] ^= t ^ xtime(a[0]^a[1])
	a[1] ^= t ^ xtime(a[1]^a[2])
	a[2] ^= t ^ xtime(a[2]^a[3])
	a[3] ^= t ^ xtime(a[3]^u)
}

func mixColumns(s *state) {
	for c := 0; c < 4; c++ {
		mixColumn(s.column(c))
	}
}

// invMixColumns reduces the inverse matrix to a pre-multiplication by
// {04}x^2 + {05} followed by the forward MixColumns.
func invMixColumns(s *state) {
	for c := 0; c < 4; c++ {
		a := s.column(c)
		u := xtime(xtime(a[0] ^ a[2]))
		v := xtime(xtime(a[1] ^ a[3]))
		a[0] ^= u
		a[1] ^= v
		a[2] ^= u
		a[3] ^= v
	}
	mixColumns(s)
}

func addRoundKey(s *state, k *state) {
	for i := range s {
		s[i] ^= k[i]
	}
}
