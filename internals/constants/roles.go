package constants

import (
	"fmt"
	"slices"
	"strings"
)

// Role pengguna dashboard. Role hanya menentukan menu & tombol yang tampil di client.
const (
	RoleAdmin     = "admin"
	RolePengurus  = "pengurus"
	RoleUstadz    = "ustadz"
	RoleKeamanan  = "keamanan"
	RoleBendahara = "bendahara"
)

// Template pesan error role
const ErrUnknownRole = "❌ Role '%s' tidak dikenal (pilihan: %s)."

// ==========================
// ✅ Grouped Role Slices
// ==========================
var (
	AllRoles = []string{
		RoleAdmin,
		RolePengurus,
		RoleUstadz,
		RoleKeamanan,
		RoleBendahara,
	}
)

// NormalizeRole: trim + lowercase.
func NormalizeRole(role string) string {
	return strings.ToLower(strings.TrimSpace(role))
}

func IsKnownRole(role string) bool {
	return slices.Contains(AllRoles, NormalizeRole(role))
}

func RoleError(role string) string {
	return fmt.Sprintf(ErrUnknownRole, role, strings.Join(AllRoles, ", "))
}
