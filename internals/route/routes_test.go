package routes

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"pesantren_backend/internals/configs"
	"pesantren_backend/internals/databases/dbtest"
	signatureService "pesantren_backend/internals/features/files/signature/service"
	authService "pesantren_backend/internals/features/users/auth/service"
)

func testConfig() *configs.Config {
	return &configs.Config{
		CORSOrigins:      "*",
		RequestTimeoutMS: 5000,
		AuditEnabled:     true,
		UploadProvider:   signatureService.ProviderSignedParams,
		JWTSecret:        "test-secret",
	}
}

func newTestApp(t *testing.T, db *gorm.DB, cfg *configs.Config) *fiber.App {
	t.Helper()
	signer, err := signatureService.NewSigner(cfg)
	require.NoError(t, err)
	return NewApp(Deps{
		DB:     db,
		Config: cfg,
		Signer: signer,
		Tokens: authService.NewTokenIssuer(cfg.JWTSecret, time.Hour),
		Loc:    time.UTC,
	})
}

type call struct {
	method string
	target string
	body   any
	header map[string]string
}

func do(t *testing.T, app *fiber.App, c call) (int, []byte) {
	t.Helper()
	var rdr io.Reader
	if c.body != nil {
		raw, err := json.Marshal(c.body)
		require.NoError(t, err)
		rdr = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(c.method, c.target, rdr)
	if c.body != nil {
		// client lama mengirim text/plain
		req.Header.Set("Content-Type", "text/plain;charset=utf-8")
	}
	for k, v := range c.header {
		req.Header.Set(k, v)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, out
}

func decode[T any](t *testing.T, raw []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v), string(raw))
	return v
}

func TestKamarLifecycle(t *testing.T) {
	app := newTestApp(t, dbtest.Open(t), testConfig())

	status, raw := do(t, app, call{method: http.MethodPost, target: "/api?action=saveData&type=kamar",
		body: map[string]any{"nama_kamar": "A1", "asrama": "Utara", "kapasitas": 20, "penasihat": "Ust. X", "warna": "hijau"}})
	require.Equal(t, http.StatusOK, status, string(raw))
	saved := decode[map[string]any](t, raw)
	assert.Equal(t, true, saved["success"])
	assert.Equal(t, true, saved["created"])
	id := saved["id"].(float64)

	status, raw = do(t, app, call{method: http.MethodGet, target: "/api?action=getData&type=kamar"})
	require.Equal(t, http.StatusOK, status)
	rows := decode[[]map[string]any](t, raw)
	require.Len(t, rows, 1)
	assert.Equal(t, "A1", rows[0]["nama_kamar"])
	assert.Equal(t, "Utara", rows[0]["asrama"])
	assert.EqualValues(t, 20, rows[0]["kapasitas"])
	assert.Equal(t, "Ust. X", rows[0]["penasihat"])
	assert.EqualValues(t, id, rows[0]["id"])
	assert.NotContains(t, rows[0], "warna")

	status, _ = do(t, app, call{method: http.MethodPost, target: "/api?action=saveData&type=kamar",
		body: map[string]any{"id": id, "kapasitas": "25"}})
	require.Equal(t, http.StatusOK, status)

	status, raw = do(t, app, call{method: http.MethodGet, target: "/api?action=getData&type=kamar&id=1"})
	require.Equal(t, http.StatusOK, status)
	row := decode[map[string]any](t, raw)
	assert.EqualValues(t, 25, row["kapasitas"])
	assert.Equal(t, "A1", row["nama_kamar"])
	assert.Equal(t, "Utara", row["asrama"])

	status, raw = do(t, app, call{method: http.MethodGet, target: "/api?action=deleteData&type=kamar&id=1"})
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 1, decode[map[string]any](t, raw)["affected"])

	// delete kedua tetap sukses (id sudah tidak ada)
	status, raw = do(t, app, call{method: http.MethodPost, target: "/api?action=deleteData&type=kamar", body: map[string]any{"id": 1}})
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 0, decode[map[string]any](t, raw)["affected"])

	status, raw = do(t, app, call{method: http.MethodGet, target: "/api?action=getData&type=kamar&id=1"})
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NotFound", decode[map[string]any](t, raw)["error"])

	status, raw = do(t, app, call{method: http.MethodGet, target: "/api?action=getAuditLog&type=kamar&id=1"})
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, decode[[]map[string]any](t, raw), 3)
}

func TestQuickStatsOnEmptyStore(t *testing.T) {
	app := newTestApp(t, dbtest.Open(t), testConfig())

	status, raw := do(t, app, call{method: http.MethodGet, target: "/api?action=getQuickStats"})
	require.Equal(t, http.StatusOK, status, string(raw))

	stats := decode[map[string]any](t, raw)
	for _, k := range []string{
		"total_santri", "total_ustadz", "total_pengurus", "total_kamar", "total_alumni",
		"total_pemasukan", "total_pengeluaran", "saldo", "perizinan_aktif",
		"pelanggaran_bulan_ini", "absensi_hari_ini",
	} {
		require.Contains(t, stats, k)
		assert.EqualValues(t, 0, stats[k], k)
	}
}

func TestInvalidTypeNeverTouchesStore(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()
	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{Logger: gormLogger.Discard})
	require.NoError(t, err)

	app := newTestApp(t, db, testConfig())

	for _, c := range []call{
		{method: http.MethodGet, target: "/api?action=getData&type=hacker"},
		{method: http.MethodPost, target: "/api?action=saveData&type=hacker", body: map[string]any{"nama": "x"}},
		{method: http.MethodGet, target: "/api?action=deleteData&type=hacker&id=1"},
		{method: http.MethodGet, target: "/api?action=getData"},
	} {
		status, raw := do(t, app, c)
		assert.Equal(t, http.StatusBadRequest, status, c.target)
		body := decode[map[string]any](t, raw)
		assert.Equal(t, "error", body["status"])
		assert.Equal(t, "InvalidType", body["error"])
		assert.NotEmpty(t, body["message"])
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreFailureIsStoreError(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()
	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{Logger: gormLogger.Discard})
	require.NoError(t, err)
	mock.ExpectQuery(`SELECT \* FROM "santri"`).WillReturnError(assert.AnError)

	app := newTestApp(t, db, testConfig())
	status, raw := do(t, app, call{method: http.MethodGet, target: "/api?action=getData&type=santri"})
	assert.Equal(t, http.StatusInternalServerError, status)
	body := decode[map[string]any](t, raw)
	assert.Equal(t, "StoreError", body["error"])
	assert.Contains(t, body["message"], assert.AnError.Error())
}

func TestLoginAction(t *testing.T) {
	app := newTestApp(t, dbtest.Open(t), testConfig())

	status, raw := do(t, app, call{method: http.MethodPost, target: "/api?action=saveData&type=users",
		body: map[string]any{"username": "admin", "password": "admin123", "role": "admin", "fullname": "Administrator"}})
	require.Equal(t, http.StatusOK, status, string(raw))

	status, raw = do(t, app, call{method: http.MethodPost, target: "/api?action=login",
		body: map[string]any{"username": "admin", "password": "admin123"}})
	require.Equal(t, http.StatusOK, status, string(raw))
	user := decode[map[string]any](t, raw)
	assert.Equal(t, "admin", user["username"])
	assert.Equal(t, "admin", user["role"])
	assert.Equal(t, "Administrator", user["fullname"])
	assert.NotContains(t, user, "token")
	assert.NotContains(t, user, "password")

	for _, pw := range []string{"admin1234", "", "ADMIN123"} {
		status, raw = do(t, app, call{method: http.MethodPost, target: "/api?action=login",
			body: map[string]any{"username": "admin", "password": pw}})
		assert.Equal(t, http.StatusUnauthorized, status, pw)
		assert.Equal(t, "InvalidCredentials", decode[map[string]any](t, raw)["error"])
	}

	// hash password tidak pernah terbaca lewat getData
	status, raw = do(t, app, call{method: http.MethodGet, target: "/api?action=getData&type=users"})
	require.Equal(t, http.StatusOK, status)
	assert.NotContains(t, decode[[]map[string]any](t, raw)[0], "password")
}

func TestRequireTokenGate(t *testing.T) {
	cfg := testConfig()
	cfg.AuthIssueToken = true
	cfg.AuthRequireToken = true
	db := dbtest.Open(t)
	require.NoError(t, db.Exec(`INSERT INTO users (username, password, role) VALUES (?, ?, ?)`,
		"ustadz", authService.HashPassword("rahasia"), "ustadz").Error)
	app := newTestApp(t, db, cfg)

	status, _ := do(t, app, call{method: http.MethodGet, target: "/api?action=ping"})
	assert.Equal(t, http.StatusOK, status)
	status, _ = do(t, app, call{method: http.MethodGet, target: "/health"})
	assert.Equal(t, http.StatusOK, status)

	status, raw := do(t, app, call{method: http.MethodGet, target: "/api?action=getData&type=santri"})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Unauthorized", decode[map[string]any](t, raw)["error"])

	status, raw = do(t, app, call{method: http.MethodPost, target: "/api?action=login",
		body: map[string]any{"username": "ustadz", "password": "rahasia"}})
	require.Equal(t, http.StatusOK, status, string(raw))
	token := decode[map[string]any](t, raw)["token"].(string)
	require.NotEmpty(t, token)

	auth := map[string]string{"Authorization": "Bearer " + token}
	status, _ = do(t, app, call{method: http.MethodPost, target: "/api?action=saveData&type=santri",
		body: map[string]any{"nama": "Ali"}, header: auth})
	require.Equal(t, http.StatusOK, status)

	status, raw = do(t, app, call{method: http.MethodGet, target: "/api?action=getAuditLog&type=santri&id=1", header: auth})
	require.Equal(t, http.StatusOK, status)
	logs := decode[[]map[string]any](t, raw)
	require.Len(t, logs, 1)
	assert.Equal(t, "ustadz", logs[0]["audit_log_actor"])
}

func TestMiscActions(t *testing.T) {
	app := newTestApp(t, dbtest.Open(t), testConfig())

	status, raw := do(t, app, call{method: http.MethodGet, target: "/api?action=ping"})
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, decode[map[string]any](t, raw)["success"])

	status, raw = do(t, app, call{method: http.MethodGet, target: "/api?action=hapusSemua"})
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "ActionNotFound", decode[map[string]any](t, raw)["error"])

	status, raw = do(t, app, call{method: http.MethodPost, target: "/api?action=file-signature", body: map[string]any{"public_id": "x"}})
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "ConfigMissing", decode[map[string]any](t, raw)["error"])

	status, raw = do(t, app, call{method: http.MethodGet, target: "/api?action=getSchema&type=santri"})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "santri", decode[map[string]any](t, raw)["name"])

	status, raw = do(t, app, call{method: http.MethodPost, target: "/api?action=saveData&type=santri", body: "bukan objek"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "BadRequest", decode[map[string]any](t, raw)["error"])

	status, _ = do(t, app, call{method: http.MethodGet, target: "/health"})
	assert.Equal(t, http.StatusOK, status)
}

func TestSaveDataNullBodyWithQueryID(t *testing.T) {
	app := newTestApp(t, dbtest.Open(t), testConfig())

	status, raw := do(t, app, call{method: http.MethodPost, target: "/api?action=saveData&type=kamar&id=1",
		body: json.RawMessage("null")})
	require.Equal(t, http.StatusOK, status, string(raw))
	res := decode[map[string]any](t, raw)
	assert.Equal(t, false, res["created"])
	assert.EqualValues(t, 0, res["affected"])
}

func TestFileSignatureWithSecret(t *testing.T) {
	cfg := testConfig()
	cfg.UploadAPIKey = "k"
	cfg.UploadAPISecret = "s"
	app := newTestApp(t, dbtest.Open(t), cfg)

	status, raw := do(t, app, call{method: http.MethodPost, target: "/api?action=getFileSignature",
		body: map[string]any{"timestamp": "1700000000", "folder": "santri"}})
	require.Equal(t, http.StatusOK, status, string(raw))
	body := decode[map[string]any](t, raw)
	assert.Equal(t, signatureService.SignParams(map[string]string{"timestamp": "1700000000", "folder": "santri"}, "s"), body["signature"])
	assert.Equal(t, "k", body["api_key"])
}
