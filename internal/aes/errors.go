package aes

import "fmt"

// ConfigurationError reports a caller-supplied parameter that the cipher or a
// chaining mode cannot accept: a key, IV, block or ciphertext of the wrong
// length, or an unknown mode. It is always returned before any cryptographic
// work is done.
type ConfigurationError struct {
	Param string
	Msg   string
}

func (e *ConfigurationError) Error() string {
	return "aes: invalid " + e.Param + ": " + e.Msg
}

// ConfigErrorf builds a *ConfigurationError for param.
func ConfigErrorf(param, format string, args ...any) error {
	return &ConfigurationError{Param: param, Msg: fmt.Sprintf(format, args...)}
}
