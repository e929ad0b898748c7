package storage_test

import (
	"strings"
	"testing"
	"time"

	"jobboard_backend/internal/storage"

	"github.com/stretchr/testify/assert"
)

func TestVerificationDocumentKey(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name, original, suffix string
	}{
		{"plain", "license.pdf", "_license.pdf"},
		{"spaces and case", "Business License.PDF", "_Business_License.pdf"},
		{"traversal", "../../etc/passwd.png", "_passwd.png"},
		{"only symbols", "###.jpg", ".jpg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := storage.VerificationDocumentKey("emp-1", tt.original, now)
			assert.True(t, strings.HasPrefix(key, "verification/emp-1/"), key)
			assert.True(t, strings.HasSuffix(key, tt.suffix), key)
			assert.NotContains(t, strings.TrimPrefix(key, "verification/emp-1/"), "/")
		})
	}

	a := storage.VerificationDocumentKey("emp-1", "a.pdf", now)
	b := storage.VerificationDocumentKey("emp-1", "a.pdf", now)
	assert.NotEqual(t, a, b, "Ключи должны быть уникальны даже в одну миллисекунду")
}
