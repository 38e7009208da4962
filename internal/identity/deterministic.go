package identity

import (
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

const namespace = "go-blog:"

// UUID derives a deterministic UUID from a stable key using go-hashid.
//
// Callers must prefix keys by entity type to prevent cross-entity collisions.
func UUID(key string) uuid.UUID {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return uuid.Nil
	}
	return derive(trimmed, true)
}

// PostUUID is the primary key for a post row, derived from its slug.
func PostUUID(slug string) uuid.UUID {
	return UUID(namespace + "post:" + strings.ToLower(strings.TrimSpace(slug)))
}

// RenderKey returns the cache key for rendered Markdown. The input is hashed
// verbatim so that whitespace and case changes produce distinct keys.
func RenderKey(markdown []byte) string {
	return namespace + "render:" + derive(string(markdown), false).String()
}

func derive(key string, normalize bool) uuid.UUID {
	uid, err := hashid.NewUUID(key, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(normalize))
	if err != nil || uid == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(key))
	}
	return uid
}
