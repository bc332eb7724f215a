package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims incluye los claims estándar JWT más los campos propios de la aplicación.
// Role, CompanyID y DepartmentID permiten construir el Principal del motor de
// autorización sin consultar la DB en cada request.
type Claims struct {
	jwt.RegisteredClaims
	UserID       string `json:"user_id"`
	CompanyID    string `json:"company_id,omitempty"`    // vacío solo para super_admin
	DepartmentID string `json:"department_id,omitempty"` // vacío si no tiene departamento
	Role         string `json:"role"`                    // super_admin | company_owner | department_manager | staff
}

// TokenInput datos necesarios para emitir un token.
type TokenInput struct {
	UserID       string
	CompanyID    string
	DepartmentID string
	Role         string
}

// Generate genera un token JWT firmado con los claims de la aplicación.
func Generate(secret string, in TokenInput, issuer string, expMinutes int) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt: secret vacío")
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   in.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expMinutes) * time.Minute)),
		},
		UserID:       in.UserID,
		CompanyID:    in.CompanyID,
		DepartmentID: in.DepartmentID,
		Role:         in.Role,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// Parse valida el token y devuelve los claims de la aplicación.
// Retorna error si el token es inválido, expirado o tiene firma incorrecta.
func Parse(secret, tokenString string) (*Claims, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt: secret vacío")
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("claims inválidos")
	}
	return claims, nil
}
