package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// rfcSecret is the RFC 6238 SHA-1 test secret ("12345678901234567890")
// in base32.
const rfcSecret = "GEZDGNBVGY3TQOJQGEZDGNBVGY3TQOJQ"

func TestValidateTOTPKnownVectors(t *testing.T) {
	// Truncated 6-digit versions of the RFC 6238 appendix B vectors.
	tests := []struct {
		unix int64
		code string
	}{
		{59, "287082"},
		{1111111109, "081804"},
		{1234567890, "005924"},
	}

	for _, tt := range tests {
		now := time.Unix(tt.unix, 0)
		assert.True(t, ValidateTOTP(rfcSecret, tt.code, now), "code %s at %d", tt.code, tt.unix)
	}
}

func TestValidateTOTPRejectsWrongCode(t *testing.T) {
	assert.False(t, ValidateTOTP(rfcSecret, "000000", time.Unix(59, 0)))
}

func TestValidateTOTPAcceptsAdjacentStep(t *testing.T) {
	// Code for t=59 is still valid one step later.
	assert.True(t, ValidateTOTP(rfcSecret, "287082", time.Unix(89, 0)))
}

func TestValidateTOTPBadSecret(t *testing.T) {
	assert.False(t, ValidateTOTP("not!base32", "287082", time.Unix(59, 0)))
}
