package credentials

import (
	"crypto/rand"
	"math/big"
)

// PINLength is the number of digits in a learner PIN
const PINLength = 4

// GeneratePIN generates a random numeric PIN for a learner
func GeneratePIN() (string, error) {
	const digits = "0123456789"
	pin := make([]byte, PINLength)

	for i := 0; i < PINLength; i++ {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(digits))))
		if err != nil {
			return "", err
		}
		pin[i] = digits[num.Int64()]
	}

	return string(pin), nil
}

// GenerateNewPIN returns a PIN that differs from the current one
func GenerateNewPIN(current string) (string, error) {
	for {
		pin, err := GeneratePIN()
		if err != nil {
			return "", err
		}
		if pin != current {
			return pin, nil
		}
	}
}
