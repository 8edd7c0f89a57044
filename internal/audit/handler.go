package audit

import (
	"sawitku-backend/internal/httputil"

	"github.com/gofiber/fiber/v2"
)

// GET /api/activity?table=panen&user_id=...&limit=50
func ListActivityHandler(l *Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		v := l.Recent(c.Query("table"), c.Query("user_id"), c.QueryInt("limit", 100))
		if err := v.Load(c.UserContext()); err != nil {
			return httputil.StoreError(err, "Log aktivitas tidak dapat dimuat")
		}
		return httputil.Listed(c, v, nil)
	}
}
