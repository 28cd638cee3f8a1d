package token

import (
	"errors"
	"testing"

	"github.com/golang-jwt/jwt/v5"
)

func signed(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-key"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return raw
}

func TestDecodeMalformed(t *testing.T) {
	for _, raw := range []string{"", "  ", "not-a-token", "a.b"} {
		if _, err := Decode(raw); !errors.Is(err, ErrMalformedToken) {
			t.Fatalf("%q expected ErrMalformedToken, got %v", raw, err)
		}
	}
}

func TestUserIDProbesKeysInOrder(t *testing.T) {
	const nameIdentifier = "http://schemas.xmlsoap.org/ws/2005/05/identity/claims/nameidentifier"

	cases := []struct {
		name   string
		claims jwt.MapClaims
		want   string
	}{
		{"sub wins", jwt.MapClaims{"sub": "u1", "nameid": "u2", nameIdentifier: "u3"}, "u1"},
		{"nameid second", jwt.MapClaims{"nameid": "u2", nameIdentifier: "u3"}, "u2"},
		{"uri key last", jwt.MapClaims{nameIdentifier: "u3"}, "u3"},
		{"empty sub skipped", jwt.MapClaims{"sub": "", "nameid": "u2"}, "u2"},
		{"numeric sub stringified", jwt.MapClaims{"sub": 42}, "42"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			claims, err := Decode(signed(t, tc.claims))
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			got, err := claims.UserID()
			if err != nil || got != tc.want {
				t.Fatalf("expected %q, got %q (err=%v)", tc.want, got, err)
			}
		})
	}
}

func TestUserIDMissing(t *testing.T) {
	claims, err := Decode(signed(t, jwt.MapClaims{"email": "a@b.c"}))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, err := claims.UserID(); !errors.Is(err, ErrMissingIdentity) {
		t.Fatalf("expected ErrMissingIdentity, got %v", err)
	}
}

func TestDisplayNameProbing(t *testing.T) {
	const nameClaim = "http://schemas.xmlsoap.org/ws/2005/05/identity/claims/name"

	cases := []struct {
		claims jwt.MapClaims
		want   string
	}{
		{jwt.MapClaims{nameClaim: "Ayşe", "name": "other"}, "Ayşe"},
		{jwt.MapClaims{"given_name": "Mehmet"}, "Mehmet"},
		{jwt.MapClaims{"name": "Zeynep"}, "Zeynep"},
		{jwt.MapClaims{"username": "zeynep42"}, "zeynep42"},
		{jwt.MapClaims{"sub": "u1"}, ""},
	}
	for i, tc := range cases {
		claims, err := Decode(signed(t, tc.claims))
		if err != nil {
			t.Fatalf("case %d decode: %v", i, err)
		}
		if got := claims.DisplayName(); got != tc.want {
			t.Fatalf("case %d expected %q, got %q", i, tc.want, got)
		}
	}
}
