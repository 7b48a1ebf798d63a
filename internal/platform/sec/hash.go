// Copyright (c) 2026 FarmConnect. All rights reserved.

package sec

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// PasswordHashCost is the bcrypt cost factor for new password digests.
// Raised above bcrypt.DefaultCost (10); each +1 doubles the hashing work.
const PasswordHashCost = 14

// HashPassword hashes a plain-text password using the bcrypt algorithm.
// The plain text is never logged, returned, or persisted outside the digest.
func HashPassword(plainTextPassword string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(plainTextPassword), PasswordHashCost)
	if err != nil {
		return "", fmt.Errorf("sec: failed to hash password: %w", err)
	}
	return string(hashedBytes), nil
}

// CheckPasswordHash compares a plain-text password with its hashed version.
// bcrypt performs the comparison itself, so no manual string equality is involved.
func CheckPasswordHash(plainTextPassword, existingHash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(existingHash), []byte(plainTextPassword))
	return err == nil
}
