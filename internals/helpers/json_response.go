// file: internals/helpers/json_response.go
package helper

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"pesantren_backend/internals/helpers/apperror"
)

/* ===============================
   Paging resolver (query → page/perPage/offset)
=================================*/

type Paging struct {
	Page    int
	PerPage int
	Offset  int
	Limit   int
}

// ResolveOptionalPaging membaca ?page= & ?per_page= (atau alias ?limit=).
// Kalau dua-duanya kosong hasilnya nil: list dikirim utuh tanpa pagination.
// - defaultPerPage: fallback kalau per_page tidak ada/invalid
// - maxPerPage: batasi per_page maksimum (0 = tanpa batas)
func ResolveOptionalPaging(c *fiber.Ctx, defaultPerPage, maxPerPage int) *Paging {
	pageStr := strings.TrimSpace(c.Query("page"))
	perPageStr := strings.TrimSpace(c.Query("per_page"))
	if perPageStr == "" {
		perPageStr = strings.TrimSpace(c.Query("limit"))
	}
	if pageStr == "" && perPageStr == "" {
		return nil
	}

	page, _ := strconv.Atoi(pageStr)
	if page < 1 {
		page = 1
	}

	perPage, _ := strconv.Atoi(perPageStr)
	if perPage <= 0 {
		perPage = defaultPerPage
	}
	if maxPerPage > 0 && perPage > maxPerPage {
		perPage = maxPerPage
	}

	return &Paging{
		Page:    page,
		PerPage: perPage,
		Offset:  (page - 1) * perPage,
		Limit:   perPage,
	}
}

/* ===============================
   Error envelope
=================================*/

type ErrorResponse struct {
	Status  string `json:"status"`
	Error   string `json:"error"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// JsonError menulis body error standar: {status:"error", error, message, details?}.
func JsonError(c *fiber.Ctx, err error) error {
	ae := apperror.From(err)
	if ae == nil {
		ae = apperror.From(errors.New("unknown error"))
	}
	status := ae.Status
	if status == 0 {
		status = fiber.StatusInternalServerError
	}
	return c.Status(status).JSON(ErrorResponse{
		Status:  "error",
		Error:   ae.Code,
		Message: ae.Message,
		Details: ae.Details,
	})
}

// ErrorHandler dipasang di fiber.Config supaya semua error (termasuk 404 route dan
// panic yang sudah di-recover) keluar dengan format yang sama.
func ErrorHandler(c *fiber.Ctx, err error) error {
	ae := apperror.From(err)
	entry := logrus.WithFields(logrus.Fields{
		"reqid":  c.Locals("reqid"),
		"method": c.Method(),
		"path":   c.Path(),
		"action": c.Query("action"),
		"code":   ae.Code,
	})
	if ae.Status >= fiber.StatusInternalServerError {
		entry.WithError(err).Error("request failed")
	} else {
		entry.Debug(ae.Message)
	}
	return JsonError(c, ae)
}

/* ===============================
   Success responses (payload langsung, tanpa envelope)
=================================*/

// JsonData mengirim payload domain apa adanya (array / object).
func JsonData(c *fiber.Ctx, data any) error {
	return c.Status(fiber.StatusOK).JSON(data)
}

// JsonSuccess: {success:true, ...extra}
func JsonSuccess(c *fiber.Ctx, extra fiber.Map) error {
	body := fiber.Map{"success": true}
	for k, v := range extra {
		body[k] = v
	}
	return c.Status(fiber.StatusOK).JSON(body)
}
