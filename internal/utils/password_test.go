package utils

import "testing"

func TestHashAndCheck(t *testing.T) {
	hash, err := HashPassword("s3cret")
	if err != nil {
		t.Fatal(err)
	}
	if !CheckPassword(hash, "s3cret") {
		t.Fatal("expected match")
	}
	if CheckPassword(hash, "wrong") {
		t.Fatal("expected mismatch")
	}
}

func TestTemporaryPassword(t *testing.T) {
	a, err := TemporaryPassword()
	if err != nil {
		t.Fatal(err)
	}
	b, _ := TemporaryPassword()
	if len(a) != 12 || a == b {
		t.Fatalf("unexpected passwords %q %q", a, b)
	}
}
