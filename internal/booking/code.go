package booking

import "crypto/rand"

// codeAlphabet deliberately omits 0/O and 1/I, which are hard to tell
// apart when a guest reads a confirmation code over the phone.  Its
// length (32) divides 256, so byte-modulo selection stays uniform.
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// codeLength is the number of characters in a confirmation code.
const codeLength = 6

// GenerateCode produces a 6-character confirmation code from the
// ambiguity-free alphabet.  The code is not globally unique by itself;
// the creation protocol probes the store and regenerates on collision.
func GenerateCode() (string, error) {
	buf := make([]byte, codeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i := range buf {
		buf[i] = codeAlphabet[int(buf[i])%len(codeAlphabet)]
	}
	return string(buf), nil
}
