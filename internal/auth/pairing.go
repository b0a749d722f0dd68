package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"math/big"
	"sync"
)

const pairingCodeDigits = 6

// PairingCode is the short numeric code a device must present to be paired.
// A random code rotates after every successful pairing; a fixed code from
// configuration never rotates.
type PairingCode struct {
	mu    sync.Mutex
	code  string
	fixed bool
}

// NewPairingCode returns a pairing code, random unless fixed is set.
func NewPairingCode(fixed string) (*PairingCode, error) {
	if fixed != "" {
		return &PairingCode{code: fixed, fixed: true}, nil
	}
	code, err := randomCode()
	if err != nil {
		return nil, err
	}
	return &PairingCode{code: code}, nil
}

// Current returns the code to show the operator.
func (p *PairingCode) Current() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.code
}

// Redeem reports whether candidate matches the current code. A match
// rotates a random code so it cannot be replayed.
func (p *PairingCode) Redeem(candidate string) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if subtle.ConstantTimeCompare([]byte(candidate), []byte(p.code)) != 1 {
		return false, nil
	}
	if p.fixed {
		return true, nil
	}

	next, err := randomCode()
	if err != nil {
		return false, err
	}
	p.code = next
	return true, nil
}

func randomCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", fmt.Errorf("generate pairing code: %w", err)
	}
	return fmt.Sprintf("%0*d", pairingCodeDigits, n.Int64()), nil
}
