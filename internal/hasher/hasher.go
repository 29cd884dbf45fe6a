package hasher

import (
	"crypto/sha256"
	"encoding/base64"

	"golang.org/x/crypto/bcrypt"
)

// Cost is the bcrypt work factor used for every stored password.
const Cost = 10

// maxInput is the longest input bcrypt accepts.
const maxInput = 72

type Hasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hash string) bool
}

type Bcrypt struct {
	cost int
}

func NewBcrypt() *Bcrypt {
	return &Bcrypt{cost: Cost}
}

func (b *Bcrypt) Hash(plaintext string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword(prepare(plaintext), b.cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Verify never fails loudly: a mismatch and a malformed hash both report
// false.
func (b *Bcrypt) Verify(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), prepare(plaintext)) == nil
}

// prepare folds passwords longer than bcrypt's input limit into a 44-byte
// SHA-256 digest so that every byte of them still counts.
func prepare(plaintext string) []byte {
	if len(plaintext) <= maxInput {
		return []byte(plaintext)
	}
	sum := sha256.Sum256([]byte(plaintext))
	return []byte(base64.StdEncoding.EncodeToString(sum[:]))
}
