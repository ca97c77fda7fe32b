package id

import (
	"crypto/md5"
	"io"
	"strings"

	"github.com/gofrs/uuid"
)

// GenTraceID new random trace id
func GenTraceID() string {
	return uuid.Must(uuid.NewV4()).String()
}

// UUIDFromString name based uuid, the same text always yields the same id
func UUIDFromString(text string) string {
	h := md5.New()
	_, _ = io.WriteString(h, text)
	sum := h.Sum(nil)
	sum[6] = (sum[6] & 0x0f) | 0x30
	sum[8] = (sum[8] & 0x3f) | 0x80
	return uuid.FromBytesOrNil(sum).String()
}

// TraceIDFrom trace id derived from parts joined by ":"
func TraceIDFrom(parts ...string) string {
	return UUIDFromString(strings.Join(parts, ":"))
}

// Valid s is a uuid
func Valid(s string) bool {
	_, err := uuid.FromString(s)
	return err == nil
}
