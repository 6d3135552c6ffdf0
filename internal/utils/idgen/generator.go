package idgen

import (
	"crypto/rand"
	"fmt"
)

// GenerateSecureID generates a cryptographically secure ID with the given prefix and length.
// Uses only alphanumeric characters (0-9, a-z) - no dashes or special characters.
func GenerateSecureID(prefix string, length int) (string, error) {
	// Use larger byte array for better entropy
	bytes := make([]byte, length*2)
	_, err := rand.Read(bytes)
	if err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	// Generate alphanumeric string (numbers and lowercase letters only)
	const charset = "0123456789abcdefghijklmnopqrstuvwxyz"
	encoded := make([]byte, length)
	for i := 0; i < length; i++ {
		encoded[i] = charset[bytes[i]%36] // 36 = len(charset)
	}

	return fmt.Sprintf("%s_%s", prefix, string(encoded)), nil
}

// ValidateIDFormat reports whether id has the expected prefix followed by an
// underscore and a non-empty lowercase alphanumeric suffix.
func ValidateIDFormat(id, expectedPrefix string) bool {
	want := expectedPrefix + "_"
	if len(id) <= len(want) {
		return false
	}
	if id[:len(want)] != want {
		return false
	}
	for _, char := range id[len(want):] {
		if !((char >= 'a' && char <= 'z') || (char >= '0' && char <= '9')) {
			return false
		}
	}
	return true
}

// GenerateConversationID returns a public conversation identifier.
func GenerateConversationID() (string, error) {
	return GenerateSecureID("conv", 16)
}

// GenerateMessageID returns a public message identifier.
func GenerateMessageID() (string, error) {
	return GenerateSecureID("msg", 16)
}

// GenerateSpaceID returns a public space identifier.
func GenerateSpaceID() (string, error) {
	return GenerateSecureID("space", 16)
}
