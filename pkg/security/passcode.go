package security

import (
	"crypto/rand"
	"math/big"
	"strconv"
)

const (
	passcodeMin = 100000
	passcodeMax = 999999
)

// NewPasscode returns a uniformly random 6 digit code in [100000, 999999]
func NewPasscode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(passcodeMax-passcodeMin+1))
	if err != nil {
		return "", err
	}

	return strconv.FormatInt(n.Int64()+passcodeMin, 10), nil
}
