// Package rand generates record identifiers for mocks and tests.
package rand

import "math/rand"

const (
	hexCharset    = "0123456789abcdef"
	numberCharset = "0123456789"
)

// StringWithCharset is safe for concurrent use; it draws from the
// package-level source, which is seeded at startup.
func StringWithCharset(length int, charset string) string {
	b := make([]byte, length)
	for i := range b {
		b[i] = charset[rand.Intn(len(charset))]
	}
	return string(b)
}

// SysID returns a 32 character lowercase hex id shaped like a sys_id.
func SysID() string {
	return StringWithCharset(32, hexCharset)
}

// Number returns a record number such as INC0012345.
func Number(prefix string) string {
	return prefix + StringWithCharset(7, numberCharset)
}
