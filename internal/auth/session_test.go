package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionRoundTrip(t *testing.T) {
	svc := NewSessionService("test-secret", 1)
	token, err := svc.Generate("0xwallet")
	require.NoError(t, err)

	claims, err := svc.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "0xwallet", claims.Address)
}

func TestValidateRejectsForeignSecret(t *testing.T) {
	token, err := NewSessionService("secret-a", 1).Generate("0xwallet")
	require.NoError(t, err)

	_, err = NewSessionService("secret-b", 1).Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateRejectsGarbage(t *testing.T) {
	_, err := NewSessionService("secret", 1).Validate("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
