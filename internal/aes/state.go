package aes

// state is the 4x4 working matrix, stored column-major as in FIPS-197:
// byte 4*c+r sits in row r of column c, so a block loads with a plain copy.
type state [BlockSize]byte

func at(r, c int) int { return 4*c + r }

func loadState(src []byte) state {
	var s state
	copy(s[:], src)
	return s
}

func (s *state) store(dst []byte) {
	copy(dst, s[:])
}

// column returns column c as an addressable 4-byte word.
func (s *state) column(c int) *[4]byte {
	return (*[4]byte)(s[4*c : 4*c+4])
}
