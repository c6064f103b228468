package utils

import "testing"

func TestHashAndComparePasswords(t *testing.T) {
	hash, err := HashPassword("correct-horse")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "correct-horse" {
		t.Fatal("hash equals the plaintext")
	}
	if err := ComparePasswords(hash, "correct-horse"); err != nil {
		t.Errorf("ComparePasswords with right password: %v", err)
	}
	if err := ComparePasswords(hash, "wrong"); err == nil {
		t.Error("ComparePasswords accepted a wrong password")
	}
}

func TestGenerateSecureToken(t *testing.T) {
	a, err := GenerateSecureToken(32)
	if err != nil {
		t.Fatalf("GenerateSecureToken: %v", err)
	}
	if len(a) != 64 { // hex doubles the byte length
		t.Errorf("token length = %d, want 64", len(a))
	}
	b, err := GenerateSecureToken(32)
	if err != nil {
		t.Fatalf("GenerateSecureToken: %v", err)
	}
	if a == b {
		t.Error("two tokens came out identical")
	}
}
