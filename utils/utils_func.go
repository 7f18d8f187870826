package utils

import (
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"os"

	"github.com/joy095/marketplace/logger"
	"golang.org/x/crypto/argon2"
)

func GetJWTSecret() []byte {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		logger.WarnLogger.Warn("JWT_SECRET environment variable not set.")
		return []byte("default-insecure-secret-only-for-development")
	}
	return []byte(secret)
}

// GenerateSecureOTP returns a 6-digit one-time code using crypto/rand.
func GenerateSecureOTP() string {
	const otpChars = "0123456789"
	bytes := make([]byte, 6)
	_, err := rand.Read(bytes)
	if err != nil {
		logger.ErrorLogger.Errorf("Error generating secure OTP: %v", err)
		return "000000"
	}
	for i := range bytes {
		bytes[i] = otpChars[bytes[i]%byte(len(otpChars))]
	}
	return string(bytes)
}

// HashOTP hashes an OTP with argon2id so the plain code never reaches Redis.
func HashOTP(otp string) string {
	salt := []byte(os.Getenv("OTP_SALT"))
	if len(salt) == 0 {
		salt = []byte("marketplace_otp_salt")
	}
	hashed := argon2.IDKey([]byte(otp), salt, 1, 64*1024, 4, 32)
	return fmt.Sprintf("%x", hashed)
}

// VerifyOTP compares a submitted OTP against a stored hash in constant time.
func VerifyOTP(otp, storedHash string) bool {
	return subtle.ConstantTimeCompare([]byte(HashOTP(otp)), []byte(storedHash)) == 1
}
