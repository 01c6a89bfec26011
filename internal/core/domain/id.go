package domain

import "crypto/rand"

// AuditIDLength is fixed: ids double as public access tokens and the API
// rejects lookups that are not exactly this long.
const AuditIDLength = 10

const idAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// NewAuditID generates a fresh lowercase alphanumeric audit id.
func NewAuditID() string {
	buf := make([]byte, AuditIDLength)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand only fails when the OS entropy source is broken;
		// there is no reasonable recovery at this level.
		panic("audit id generation: " + err.Error())
	}
	for i, b := range buf {
		buf[i] = idAlphabet[int(b)%len(idAlphabet)]
	}
	return string(buf)
}

// ValidAuditID reports whether id has the expected shape.
func ValidAuditID(id string) bool {
	if len(id) != AuditIDLength {
		return false
	}
	for _, r := range id {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}
