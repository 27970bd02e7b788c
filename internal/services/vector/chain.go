package vector

import "aescore/internal/modes"

// chain applies transform n times, each output becoming the next input.
// n <= 1 is a single call.
func chain(b modes.Block, mode string, encrypt bool, in, iv []byte, n int) ([]byte, error) {
	if n < 1 {
		n = 1
	}
	cur := in
	for j := 0; j < n; j++ {
		next, err := transform(b, mode, encrypt, cur, iv)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}
