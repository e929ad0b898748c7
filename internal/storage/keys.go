package storage

import (
	"crypto/rand"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

var unsafeName = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// VerificationDocumentKey строит ключ для документа верификации:
// verification/<employerID>/<ulid>_<безопасное имя><ext>.
// ULID сортируется по времени, поэтому ключи одного работодателя идут по порядку загрузки.
func VerificationDocumentKey(employerID, originalName string, now time.Time) string {
	ext := strings.ToLower(filepath.Ext(originalName))
	base := strings.TrimSuffix(filepath.Base(originalName), filepath.Ext(originalName))
	base = strings.Trim(unsafeName.ReplaceAllString(base, "_"), "_")
	if len(base) > 64 {
		base = base[:64]
	}

	id := ulid.MustNew(ulid.Timestamp(now), rand.Reader)

	name := id.String()
	if base != "" {
		name += "_" + base
	}
	return "verification/" + employerID + "/" + name + ext
}
