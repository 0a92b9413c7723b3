package auth

import (
	"testing"
	"time"
)

func TestIssueParseRoundTrip(t *testing.T) {
	token, exp, err := Issue("ops", "operator", "class-reminder", "key", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if exp.Before(time.Now()) {
		t.Fatal("expiry in the past")
	}

	claims, err := Parse(token, "key", "class-reminder")
	if err != nil {
		t.Fatal(err)
	}
	if claims.Subject != "ops" || claims.Role != "operator" {
		t.Fatalf("claims %+v", claims)
	}
}

func TestParseRejectsWrongKey(t *testing.T) {
	token, _, err := Issue("ops", "operator", "class-reminder", "key", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Parse(token, "other-key", "class-reminder"); err == nil {
		t.Fatal("expected error with wrong key")
	}
}

func TestParseRejectsIssuerMismatch(t *testing.T) {
	token, _, err := Issue("ops", "operator", "someone-else", "key", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Parse(token, "key", "class-reminder"); err == nil {
		t.Fatal("expected issuer mismatch error")
	}
}

func TestParseRejectsExpired(t *testing.T) {
	token, _, err := Issue("ops", "operator", "class-reminder", "key", -time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Parse(token, "key", "class-reminder"); err == nil {
		t.Fatal("expected expiry error")
	}
}
