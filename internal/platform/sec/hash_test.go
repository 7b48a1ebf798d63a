// Copyright (c) 2026 FarmConnect. All rights reserved.

package sec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golang.org/x/crypto/bcrypt"
)

func TestHashPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("Sunflower#42")
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	assert.NotEqual(t, "Sunflower#42", hash)

	assert.True(t, CheckPasswordHash("Sunflower#42", hash))
	assert.False(t, CheckPasswordHash("sunflower#42", hash))
	assert.False(t, CheckPasswordHash("", hash))
}

func TestHashPasswordUsesConfiguredCost(t *testing.T) {
	hash, err := HashPassword("Sunflower#42")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, PasswordHashCost, cost)
}

func TestCheckPasswordHashRejectsGarbageHash(t *testing.T) {
	assert.False(t, CheckPasswordHash("Sunflower#42", "not-a-bcrypt-hash"))
}
