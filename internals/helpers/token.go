// helpers/token.go
package helper

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"pesantren_backend/internals/helpers/apperror"
)

// Key Locals yang diisi middleware.
const (
	LocRawToken = "raw_token"
	LocActor    = "actor"
)

// HeaderUser: client mengirim username yang sedang login (objek user hasil login).
const HeaderUser = "X-User"

// GetRawAccessToken mengembalikan token sesi dari:
// 1) Locals("raw_token") yang diset middleware
// 2) Authorization header "Bearer <token>"
// 3) cookie "access_token"
func GetRawAccessToken(c *fiber.Ctx) string {
	if v, ok := c.Locals(LocRawToken).(string); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	const p = "Bearer "
	auth := c.Get(fiber.HeaderAuthorization)
	if len(auth) > len(p) && strings.EqualFold(auth[:len(p)], p) {
		return strings.TrimSpace(auth[len(p):])
	}
	return strings.TrimSpace(c.Cookies("access_token"))
}

func SetRawAccessToken(c *fiber.Ctx, raw string) {
	if strings.TrimSpace(raw) != "" {
		c.Locals(LocRawToken, strings.TrimSpace(raw))
	}
}

// GetActor: siapa yang melakukan perubahan (untuk audit).
// Prioritas subject JWT terverifikasi, lalu header X-User, lalu "anonymous".
func GetActor(c *fiber.Ctx) string {
	if v, ok := c.Locals(LocActor).(string); ok && v != "" {
		return v
	}
	if v := strings.TrimSpace(c.Get(HeaderUser)); v != "" {
		return v
	}
	return "anonymous"
}

// DecodeBody decode body JSON pakai decoder app (sonic). Body kosong bukan error,
// Content-Type tidak diperiksa (client lama mengirim text/plain).
func DecodeBody(c *fiber.Ctx, out any) error {
	body := c.Body()
	if len(strings.TrimSpace(string(body))) == 0 {
		return nil
	}
	if err := c.App().Config().JSONDecoder(body, out); err != nil {
		return apperror.BadRequest("body JSON tidak valid: " + err.Error())
	}
	return nil
}
