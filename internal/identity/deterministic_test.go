package identity

import (
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestUUIDIsDeterministic(t *testing.T) {
	a := UUID("go-blog:post:kubernetes-best-practices")
	b := UUID("  go-blog:post:kubernetes-best-practices ")
	if a == uuid.Nil {
		t.Fatal("expected non-nil uuid")
	}
	if a != b {
		t.Fatalf("expected trimmed keys to match, got %s and %s", a, b)
	}
	if UUID("") != uuid.Nil {
		t.Fatal("expected nil uuid for blank key")
	}
}

func TestPostUUIDDistinguishesSlugs(t *testing.T) {
	if PostUUID("api-first-development") == PostUUID("api-first-design-building-for-future") {
		t.Fatal("expected distinct ids for distinct slugs")
	}
	if PostUUID("Cloud-Migration-Strategy") != PostUUID("cloud-migration-strategy") {
		t.Fatal("expected slug case to be ignored")
	}
}

func TestRenderKeyIsContentSensitive(t *testing.T) {
	first := RenderKey([]byte("# Title"))
	if first != RenderKey([]byte("# Title")) {
		t.Fatal("expected identical input to produce identical keys")
	}
	if first == RenderKey([]byte("# title")) {
		t.Fatal("expected case change to produce a new key")
	}
	if !strings.HasPrefix(first, "go-blog:render:") {
		t.Fatalf("unexpected key prefix %q", first)
	}
}
