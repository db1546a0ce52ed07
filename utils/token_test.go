package authUtils

import (
	"testing"

	"github.com/dgrijalva/jwt-go"
)

func TestGenerateAndSetToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	tokenString, err := GenerateAndSetToken("user-123", "worker")
	if err != nil {
		t.Fatalf("GenerateAndSetToken returned error: %v", err)
	}
	if tokenString == "" {
		t.Fatal("expected a non-empty token")
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	if err != nil || !token.Valid {
		t.Fatalf("token did not parse as valid: %v", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		t.Fatal("expected map claims")
	}
	if claims["user_id"] != "user-123" {
		t.Errorf("user_id claim = %v, want user-123", claims["user_id"])
	}
	if claims["role"] != "worker" {
		t.Errorf("role claim = %v, want worker", claims["role"])
	}
	if _, ok := claims["exp"]; !ok {
		t.Error("expected an exp claim")
	}
}

func TestGenerateAndSetTokenMissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	if _, err := GenerateAndSetToken("user-123", "citizen"); err == nil {
		t.Fatal("expected an error when JWT_SECRET is unset")
	}
}
