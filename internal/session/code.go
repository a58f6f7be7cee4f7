package session

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// Alphabet holds the characters a code may contain. I, O, 0 and 1 are left
// out so codes survive being read aloud or copied from a projector.
const Alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const groupLen = 4

// NewCode returns a code of two hyphen-joined groups, e.g. 7F3K-QX9M.
func NewCode() (string, error) {
	buf := make([]byte, 0, groupLen*2+1)
	limit := big.NewInt(int64(len(Alphabet)))
	for i := 0; i < groupLen*2; i++ {
		if i == groupLen {
			buf = append(buf, '-')
		}
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", fmt.Errorf("generate session code: %w", err)
		}
		buf = append(buf, Alphabet[n.Int64()])
	}
	return string(buf), nil
}
