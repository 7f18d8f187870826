package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateSecureOTP(t *testing.T) {
	otp := GenerateSecureOTP()
	assert.Len(t, otp, 6)
	for _, ch := range otp {
		assert.True(t, ch >= '0' && ch <= '9')
	}
}

func TestHashAndVerifyOTP(t *testing.T) {
	t.Setenv("OTP_SALT", "test-salt")

	hash := HashOTP("123456")
	assert.NotEqual(t, "123456", hash)
	assert.True(t, VerifyOTP("123456", hash))
	assert.False(t, VerifyOTP("654321", hash))
	assert.False(t, VerifyOTP("", hash))
}

func TestHashOTPDependsOnSalt(t *testing.T) {
	t.Setenv("OTP_SALT", "salt-one")
	first := HashOTP("123456")

	t.Setenv("OTP_SALT", "salt-two")
	second := HashOTP("123456")

	assert.NotEqual(t, first, second)
}

func TestGetJWTSecretFallsBack(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	assert.NotEmpty(t, GetJWTSecret())

	t.Setenv("JWT_SECRET", "configured")
	assert.Equal(t, []byte("configured"), GetJWTSecret())
}
