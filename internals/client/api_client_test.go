package client

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pesantren_backend/internals/configs"
	"pesantren_backend/internals/databases/dbtest"
	signatureService "pesantren_backend/internals/features/files/signature/service"
	authService "pesantren_backend/internals/features/users/auth/service"
	"pesantren_backend/internals/helpers/apperror"
	routes "pesantren_backend/internals/route"
)

type fiberDoer struct{ app *fiber.App }

func (d fiberDoer) Do(req *http.Request) (*http.Response, error) { return d.app.Test(req, -1) }

func newTestClient(t *testing.T) *APIClient {
	t.Helper()
	db := dbtest.Open(t)
	require.NoError(t, db.Exec(`INSERT INTO users (username, password, role, fullname) VALUES (?, ?, ?, ?)`,
		"petugas", authService.HashPassword("amanah"), "keamanan", "Ust. Yusuf").Error)

	cfg := &configs.Config{CORSOrigins: "*", RequestTimeoutMS: 5000, AuditEnabled: true}
	signer, err := signatureService.NewSigner(cfg)
	require.NoError(t, err)
	app := routes.NewApp(routes.Deps{DB: db, Config: cfg, Signer: signer, Loc: time.UTC})
	return NewAPIClient("http://pesantren.test/api", fiberDoer{app: app})
}

func TestClientAgainstServer(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, c.Ping(ctx))

	_, err := c.Login(ctx, "petugas", "salah")
	var ae *apperror.Error
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, apperror.CodeInvalidCredentials, ae.Code)
	assert.Equal(t, http.StatusUnauthorized, ae.Status)

	sess, err := c.Login(ctx, "petugas", "amanah")
	require.NoError(t, err)
	assert.Equal(t, "keamanan", sess.Role)

	vc := NewViewController(c, "tamu", ViewOptions{Officer: sess.Fullname})
	require.NoError(t, vc.Load(ctx))
	assert.Empty(t, vc.Visible())

	vc.OpenCreate()
	require.NoError(t, vc.SetField("nama_tamu", "Pak Ahmad"))
	require.NoError(t, vc.SetField("keperluan", "menjenguk anak"))
	require.NoError(t, vc.Save(ctx))

	rows := vc.Visible()
	require.Len(t, rows, 1)
	assert.Equal(t, "Pak Ahmad", rows[0]["nama_tamu"])
	assert.Equal(t, "Ust. Yusuf", rows[0]["petugas"])
	assert.NotEmpty(t, rows[0]["tanggal"])

	id, ok := rowID(rows[0])
	require.True(t, ok)
	row, err := c.Get(ctx, "tamu", id)
	require.NoError(t, err)
	assert.Equal(t, "menjenguk anak", row["keperluan"])

	vc.RequestDelete(id)
	require.NoError(t, vc.ConfirmDelete(ctx))
	assert.Empty(t, vc.Visible())

	_, err = c.Get(ctx, "tamu", id)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	_, err = c.List(ctx, "hacker")
	assert.ErrorIs(t, err, apperror.ErrInvalidType)

	stats, err := c.QuickStats(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats["total_santri"])

	_, err = c.FileSignature(ctx, map[string]any{"folder": "x"})
	assert.ErrorIs(t, err, apperror.ErrConfigMissing)
}
