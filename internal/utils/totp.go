package utils

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base32"
	"encoding/binary"
	"fmt"
	"time"
)

// TOTP per RFC 6238: 30 second steps, 6 digits, HMAC-SHA1.
const (
	totpPeriod = 30 * time.Second
	totpDigits = 1000000
)

// ValidateTOTP checks a 6-digit code against a base32-encoded secret,
// accepting one time step of clock drift in either direction.
func ValidateTOTP(secret, code string, now time.Time) bool {
	key, err := base32.StdEncoding.WithPadding(base32.NoPadding).
		DecodeString(secret)
	if err != nil {
		return false
	}

	counter := uint64(now.Unix()) / uint64(totpPeriod.Seconds())
	for _, c := range []uint64{counter - 1, counter, counter + 1} {
		if hotp(key, c) == code {
			return true
		}
	}
	return false
}

func hotp(key []byte, counter uint64) string {
	var msg [8]byte
	binary.BigEndian.PutUint64(msg[:], counter)

	mac := hmac.New(sha1.New, key)
	mac.Write(msg[:])
	sum := mac.Sum(nil)

	offset := sum[len(sum)-1] & 0x0f
	value := binary.BigEndian.Uint32(sum[offset:offset+4]) & 0x7fffffff

	return fmt.Sprintf("%06d", value%totpDigits)
}
