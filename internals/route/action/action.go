// Package action memetakan (method, ?action=) ke handler. Semua endpoint API
// lewat satu path: /api?action=...&type=...&id=...
package action

import (
	"sort"
	"strings"

	"github.com/gofiber/fiber/v2"

	"pesantren_backend/internals/helpers/apperror"
)

type key struct {
	method string
	action string
}

type Router struct {
	handlers map[key]fiber.Handler
}

func New() *Router {
	return &Router{handlers: make(map[key]fiber.Handler)}
}

// Handle mendaftarkan handler. Daftar ganda untuk pasangan yang sama = bug wiring → panic.
func (r *Router) Handle(method, action string, h fiber.Handler) {
	k := key{method: strings.ToUpper(method), action: action}
	if _, dup := r.handlers[k]; dup {
		panic("action: duplicate handler " + k.method + " " + action)
	}
	r.handlers[k] = h
}

func (r *Router) Get(action string, h fiber.Handler)  { r.Handle(fiber.MethodGet, action, h) }
func (r *Router) Post(action string, h fiber.Handler) { r.Handle(fiber.MethodPost, action, h) }

func (r *Router) Lookup(method, action string) (fiber.Handler, bool) {
	h, ok := r.handlers[key{method: strings.ToUpper(method), action: action}]
	return h, ok
}

// Actions: daftar "METHOD action" terurut, untuk log startup.
func (r *Router) Actions() []string {
	out := make([]string, 0, len(r.handlers))
	for k := range r.handlers {
		out = append(out, k.method+" "+k.action)
	}
	sort.Strings(out)
	return out
}

// Dispatch dipasang sebagai handler fiber untuk path /api.
func (r *Router) Dispatch(c *fiber.Ctx) error {
	name := strings.TrimSpace(c.Query("action"))
	h, ok := r.Lookup(c.Method(), name)
	if !ok {
		return apperror.ActionNotFound(c.Method(), name)
	}
	return h(c)
}
