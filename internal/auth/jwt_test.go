package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/plink/plink/internal/model"
)

func TestGenerateAndValidateToken(t *testing.T) {
	secret := "test-secret-key"

	token, err := GenerateToken(secret, 1, "admin@plink.test", model.RoleAdmin)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}

	claims, err := ValidateToken(secret, token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}

	if claims.UserID != 1 {
		t.Errorf("expected user_id 1, got %d", claims.UserID)
	}
	if claims.Email != "admin@plink.test" {
		t.Errorf("expected email 'admin@plink.test', got %q", claims.Email)
	}
	if claims.Role != model.RoleAdmin {
		t.Errorf("expected role 'admin', got %q", claims.Role)
	}
	if claims.ID == "" {
		t.Error("expected a JTI")
	}
}

func TestValidateTokenWrongSecret(t *testing.T) {
	token, _ := GenerateToken("secret1", 1, "user@plink.test", model.RoleUser)

	if _, err := ValidateToken("secret2", token); err == nil {
		t.Error("expected error for wrong secret")
	}
}

func TestValidateTokenGarbage(t *testing.T) {
	if _, err := ValidateToken("secret", "not-a-token"); err == nil {
		t.Error("expected error for malformed token")
	}
}

func TestValidateExpiredToken(t *testing.T) {
	secret := "test-secret-key"

	claims := Claims{
		UserID: 1,
		Email:  "user@plink.test",
		Role:   model.RoleUser,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        "expired",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("signing: %v", err)
	}

	if _, err := ValidateToken(secret, signed); err == nil {
		t.Error("expected error for expired token")
	}
}

func TestUniqueJTIs(t *testing.T) {
	secret := "test-secret-key"
	t1, _ := GenerateToken(secret, 1, "a@plink.test", model.RoleUser)
	t2, _ := GenerateToken(secret, 1, "a@plink.test", model.RoleUser)

	c1, _ := ValidateToken(secret, t1)
	c2, _ := ValidateToken(secret, t2)
	if c1.ID == c2.ID {
		t.Error("expected distinct JTIs for separate tokens")
	}
}
