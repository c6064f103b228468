package mem

import (
	"testing"
	"time"
)

func TestConsumeIsSingleUse(t *testing.T) {
	store := NewResetTokens()
	store.Set("tok", "jamie@example.com", time.Minute)

	if got := store.Consume("tok"); got != "jamie@example.com" {
		t.Fatalf("Consume = %q, want the stored email", got)
	}
	if got := store.Consume("tok"); got != "" {
		t.Fatalf("second Consume = %q, want empty", got)
	}
}

func TestConsumeExpired(t *testing.T) {
	store := NewResetTokens()
	store.Set("tok", "jamie@example.com", -time.Second)

	if got := store.Consume("tok"); got != "" {
		t.Fatalf("Consume of expired token = %q, want empty", got)
	}
}

func TestPeekDoesNotConsume(t *testing.T) {
	store := NewResetTokens()
	store.Set("tok", "jamie@example.com", time.Minute)

	if email, ok := store.Peek("tok"); !ok || email != "jamie@example.com" {
		t.Fatalf("Peek = %q, %v", email, ok)
	}
	if got := store.Consume("tok"); got != "jamie@example.com" {
		t.Fatal("Peek consumed the token")
	}
}

func TestUnknownToken(t *testing.T) {
	store := NewResetTokens()

	if got := store.Consume("missing"); got != "" {
		t.Fatalf("Consume = %q, want empty", got)
	}
	if _, ok := store.Peek("missing"); ok {
		t.Fatal("Peek reported an unknown token as present")
	}
}
