package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/perishables-api/internal/application/dto"
	"github.com/jhoicas/perishables-api/pkg/jwt"
)

// Locals keys del token en Fiber.
const (
	LocalSubject = "subject"
	LocalRole    = "role"
)

// AuthMiddleware valida el Bearer Token JWT y deja subject y role en c.Locals.
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
		c.Locals(LocalSubject, claims.Subject)
		c.Locals(LocalRole, claims.Role)
		return c.Next()
	}
}

// RequireRole autoriza solo los roles indicados. Debe usarse DESPUÉS de AuthMiddleware.
//   - 401 MISSING_ROLE → el token no trae rol.
//   - 403 FORBIDDEN    → el rol no está permitido.
func RequireRole(roles ...string) fiber.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *fiber.Ctx) error {
		role := GetRole(c)
		if role == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_ROLE", Message: "el token no incluye rol"})
		}
		if _, ok := allowed[role]; !ok {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "rol sin permiso para esta operación"})
		}
		return c.Next()
	}
}

// GetSubject devuelve el subject del token (después del middleware de auth).
func GetSubject(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalSubject).(string)
	return s
}

// GetRole devuelve el rol del token (después del middleware de auth).
func GetRole(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalRole).(string)
	return s
}
