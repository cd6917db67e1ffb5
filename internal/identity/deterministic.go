package identity

import (
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// UUID derives a deterministic UUID from a stable key using go-hashid.
//
// Callers must ensure key construction prevents cross-entity collisions (prefix by domain/type).
func UUID(key string) uuid.UUID {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return uuid.Nil
	}
	uid, err := hashid.NewUUID(trimmed, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(true))
	if err != nil || uid == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(trimmed))
	}
	return uid
}

// SectionUUID identifies a manifest section independently of language.
func SectionUUID(sectionKey string) uuid.UUID {
	return UUID("go-lessons:section:" + strings.ToLower(strings.TrimSpace(sectionKey)))
}

// DocumentUUID identifies one localized document file.
func DocumentUUID(languageDir, folder, filename string) uuid.UUID {
	return UUID("go-lessons:document:" + strings.ToLower(strings.TrimSpace(languageDir)) + ":" +
		strings.TrimSpace(folder) + "/" + strings.TrimSpace(filename))
}

// CellUUID identifies the index-th code cell of a document.
func CellUUID(documentID uuid.UUID, index int) uuid.UUID {
	return uuid.NewSHA1(documentID, []byte{byte(index >> 24), byte(index >> 16), byte(index >> 8), byte(index)})
}

// SessionID returns a fresh random session identifier.
func SessionID() uuid.UUID {
	return uuid.New()
}
