package http_test

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stocklane-api/internal/domain/policy"
	apphttp "github.com/jhoicas/stocklane-api/internal/interfaces/http"
	"github.com/jhoicas/stocklane-api/pkg/jwt"
)

const (
	testSecret    = "clave-de-pruebas"
	testIssuer    = "stocklane-test"
	testUserID    = "aaaaaaaa-2222-0000-0000-000000000001"
	testCompanyID = "aaaaaaaa-0000-0000-0000-000000000001"
)

func testApp(extra ...fiber.Handler) *fiber.App {
	app := fiber.New()
	handlers := []fiber.Handler{apphttp.AuthMiddleware(testSecret)}
	handlers = append(handlers, extra...)
	handlers = append(handlers, func(c *fiber.Ctx) error {
		p := apphttp.GetPrincipal(c)
		return c.JSON(fiber.Map{"user_id": p.UserID, "role": string(p.Role), "company_id": p.CompanyID})
	})
	app.Get("/protegida", handlers...)
	return app
}

func token(t *testing.T, role string) string {
	t.Helper()
	tok, err := jwt.Generate(testSecret, jwt.TokenInput{
		UserID:    testUserID,
		CompanyID: testCompanyID,
		Role:      role,
	}, testIssuer, 15)
	require.NoError(t, err)
	return tok
}

// ──────────────────────────────────────────────────────────────────────────────
// AuthMiddleware
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_TokenValidoCargaElPrincipal(t *testing.T) {
	app := testApp()
	req := httptest.NewRequest("GET", "/protegida", nil)
	req.Header.Set("Authorization", "Bearer "+token(t, "staff"))

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestAuthMiddleware_SinHeaderEs401(t *testing.T) {
	app := testApp()
	resp, err := app.Test(httptest.NewRequest("GET", "/protegida", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_FormatoSinBearerEs401(t *testing.T) {
	app := testApp()
	req := httptest.NewRequest("GET", "/protegida", nil)
	req.Header.Set("Authorization", token(t, "staff"))

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_FirmaIncorrectaEs401(t *testing.T) {
	otro, err := jwt.Generate("otra-clave", jwt.TokenInput{
		UserID: testUserID, CompanyID: testCompanyID, Role: "staff",
	}, testIssuer, 15)
	require.NoError(t, err)

	app := testApp()
	req := httptest.NewRequest("GET", "/protegida", nil)
	req.Header.Set("Authorization", "Bearer "+otro)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_TokenExpiradoEs401(t *testing.T) {
	vencido, err := jwt.Generate(testSecret, jwt.TokenInput{
		UserID: testUserID, CompanyID: testCompanyID, Role: "staff",
	}, testIssuer, -5)
	require.NoError(t, err)

	app := testApp()
	req := httptest.NewRequest("GET", "/protegida", nil)
	req.Header.Set("Authorization", "Bearer "+vencido)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_RolFueraDelConjuntoCerradoEs401(t *testing.T) {
	// Un token firmado correctamente pero con rol desconocido se corta en el
	// middleware, no llega a los handlers.
	app := testApp()
	req := httptest.NewRequest("GET", "/protegida", nil)
	req.Header.Set("Authorization", "Bearer "+token(t, "admin"))

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// RequireRole
// ──────────────────────────────────────────────────────────────────────────────

func TestRequireRole_RolPermitidoPasa(t *testing.T) {
	app := testApp(apphttp.RequireRole(policy.RoleSuperAdmin, policy.RoleCompanyOwner))
	req := httptest.NewRequest("GET", "/protegida", nil)
	req.Header.Set("Authorization", "Bearer "+token(t, "company_owner"))

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRequireRole_RolNoListadoEs403(t *testing.T) {
	app := testApp(apphttp.RequireRole(policy.RoleSuperAdmin))
	req := httptest.NewRequest("GET", "/protegida", nil)
	req.Header.Set("Authorization", "Bearer "+token(t, "staff"))

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}
