package identity

import (
	"context"
	"testing"
)

func TestStatic(t *testing.T) {
	if _, ok := Static("").UserID(context.Background()); ok {
		t.Fatalf("empty static provider must be anonymous")
	}
	id, ok := Static("ada").UserID(context.Background())
	if !ok || id != "ada" {
		t.Fatalf("unexpected identity %q %v", id, ok)
	}
}

func TestContextProvider(t *testing.T) {
	var p Provider = ContextProvider{}
	if _, ok := p.UserID(context.Background()); ok {
		t.Fatalf("expected anonymous without user in context")
	}
	ctx := WithUserID(context.Background(), "grace")
	if id, ok := p.UserID(ctx); !ok || id != "grace" {
		t.Fatalf("unexpected identity %q %v", id, ok)
	}
}

func TestNormalize(t *testing.T) {
	if id, ok := Normalize("  ada.l@home "); !ok || id != "ada.l@home" {
		t.Fatalf("unexpected normalize result %q %v", id, ok)
	}
	for _, bad := range []string{"", "   ", "has space", "semi;colon"} {
		if _, ok := Normalize(bad); ok {
			t.Fatalf("expected %q to be rejected", bad)
		}
	}
}
