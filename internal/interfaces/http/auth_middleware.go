package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stocklane-api/internal/application/dto"
	"github.com/jhoicas/stocklane-api/internal/domain/policy"
	"github.com/jhoicas/stocklane-api/pkg/jwt"
)

// Local key del Principal en Fiber.
const localPrincipal = "principal"

// AuthMiddleware valida el Bearer Token JWT y carga el Principal del motor de
// políticas en c.Locals. El rol del token debe ser uno del conjunto cerrado;
// un token con rol desconocido o vacío se rechaza aquí, no en los handlers.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"})
		}
		claims, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		role, err := policy.ParseRole(claims.Role)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_ROLE", Message: "el token no trae un rol válido"})
		}
		c.Locals(localPrincipal, policy.Principal{
			UserID:       claims.UserID,
			Role:         role,
			CompanyID:    claims.CompanyID,
			DepartmentID: claims.DepartmentID,
		})
		return c.Next()
	}
}

// GetPrincipal devuelve el Principal cargado por AuthMiddleware.
func GetPrincipal(c *fiber.Ctx) policy.Principal {
	v := c.Locals(localPrincipal)
	if v == nil {
		return policy.Principal{}
	}
	p, _ := v.(policy.Principal)
	return p
}

// RequireRole corta con 403 si el rol del principal no está en la lista.
// Es un pre-filtro de ruta; la autorización fina por fila la hace el motor de
// políticas dentro de cada caso de uso.
func RequireRole(roles ...policy.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p := GetPrincipal(c)
		if p.UserID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "no autenticado"})
		}
		for _, r := range roles {
			if p.Role == r {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "rol sin acceso a esta ruta"})
	}
}
