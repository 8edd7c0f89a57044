package auth

import (
	"fmt"
	"strings"

	"sawitku-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const (
	CtxUserIDKey   = "user_id"
	CtxUserRoleKey = "user_role"
)

func JWTMiddleware(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Header Authorization tidak ada")
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return fiber.NewError(fiber.StatusUnauthorized, "Format Authorization harus 'Bearer <token>'")
		}

		token, err := jwt.ParseWithClaims(parts[1], &JWTCustomClaims{}, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("metode signing tidak valid")
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			return fiber.NewError(fiber.StatusUnauthorized, "Token tidak valid atau sudah kedaluwarsa")
		}

		claims, ok := token.Claims.(*JWTCustomClaims)
		if !ok || claims.UserID == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Token tidak dapat dibaca")
		}

		c.Locals(CtxUserIDKey, claims.UserID)
		c.Locals(CtxUserRoleKey, claims.Role)

		return c.Next()
	}
}

func RequireRole(allowedRoles ...models.UserRole) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals(CtxUserRoleKey).(models.UserRole)
		if !ok {
			return fiber.NewError(fiber.StatusForbidden, "Informasi role tidak ditemukan")
		}

		for _, r := range allowedRoles {
			if r == role {
				return c.Next()
			}
		}
		return fiber.NewError(fiber.StatusForbidden, "Anda tidak memiliki akses untuk aksi ini")
	}
}

// UserID id user yang sedang login (diisi JWTMiddleware).
func UserID(c *fiber.Ctx) (string, error) {
	id, ok := c.Locals(CtxUserIDKey).(string)
	if !ok || id == "" {
		return "", fiber.NewError(fiber.StatusUnauthorized, "Informasi user tidak ditemukan")
	}
	return id, nil
}

func Role(c *fiber.Ctx) models.UserRole {
	role, _ := c.Locals(CtxUserRoleKey).(models.UserRole)
	return role
}
