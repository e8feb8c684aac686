package token

import (
	"errors"
	"testing"
)

func TestNewServiceRejectsEmptySecret(t *testing.T) {
	if _, err := NewService(""); err == nil {
		t.Fatal("expected an error for an empty secret")
	}
}

func TestIssueVerifyRoundTrip(t *testing.T) {
	svc, err := NewService("test-secret")
	if err != nil {
		t.Fatalf("failed to create service: %v", err)
	}

	signed, err := svc.Issue("usr-0000000001")
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}

	userID, err := svc.Verify(signed)
	if err != nil {
		t.Fatalf("failed to verify token: %v", err)
	}
	if userID != "usr-0000000001" {
		t.Errorf("expected usr-0000000001, got %q", userID)
	}
}

func TestConcurrentTokensBindSameUser(t *testing.T) {
	svc, _ := NewService("test-secret")

	t1, err := svc.Issue("usr-0000000001")
	if err != nil {
		t.Fatalf("failed to issue first token: %v", err)
	}
	t2, err := svc.Issue("usr-0000000001")
	if err != nil {
		t.Fatalf("failed to issue second token: %v", err)
	}

	// Both may differ in encoding but must verify to the same user.
	for _, signed := range []string{t1, t2} {
		userID, err := svc.Verify(signed)
		if err != nil {
			t.Fatalf("failed to verify token: %v", err)
		}
		if userID != "usr-0000000001" {
			t.Errorf("expected usr-0000000001, got %q", userID)
		}
	}
}

func TestVerifyRejections(t *testing.T) {
	issuer, _ := NewService("issuer-secret")
	other, _ := NewService("other-secret")

	signed, err := issuer.Issue("usr-0000000001")
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}

	tests := []struct {
		name  string
		svc   *Service
		token string
	}{
		{name: "different secret", svc: other, token: signed},
		{name: "malformed token", svc: issuer, token: "not.a.jwt"},
		{name: "empty token", svc: issuer, token: ""},
		{name: "tampered payload", svc: issuer, token: signed[:len(signed)-2]},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.svc.Verify(tt.token); !errors.Is(err, ErrInvalidToken) {
				t.Errorf("expected ErrInvalidToken, got %v", err)
			}
		})
	}
}
