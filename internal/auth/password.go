package auth

import (
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword hashes a plaintext password with configured cost.
func HashPassword(password string, cost int) (string, error) {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// ComparePassword verifies a password against its hashed value.
func ComparePassword(hashed, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
}

var (
	dummyOnce sync.Once
	dummyHash string
)

// CompareDummy spends the same bcrypt work as ComparePassword for accounts that do not exist.
func CompareDummy(plain string, cost int) {
	dummyOnce.Do(func() {
		dummyHash, _ = HashPassword("goldennest-dummy-password", cost)
	})
	_ = ComparePassword(dummyHash, plain)
}
