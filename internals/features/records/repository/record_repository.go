// internals/features/records/repository/record_repository.go
package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"pesantren_backend/internals/features/records/registry"
	"pesantren_backend/internals/helpers/apperror"
)

// Record adalah satu baris tabel tanpa tipe: nama kolom → nilai.
type Record = map[string]any

// Page membatasi hasil List. nil = ambil semua baris.
type Page struct {
	Limit  int
	Offset int
}

type SaveResult struct {
	ID       int64    `json:"id"`
	Created  bool     `json:"created"`
	Affected int64    `json:"affected"`
	Dropped  []string `json:"-"`
}

// Cond adalah filter sederhana untuk agregat (quick stats).
type Cond struct {
	Column string
	Op     string // =, <>, >=, <=, >, <
	Value  any
	// Fold: bandingkan teks tanpa beda huruf besar/kecil & spasi tepi ("Pemasukan " = "pemasukan")
	Fold bool
}

var allowedOps = map[string]bool{"=": true, "<>": true, ">=": true, "<=": true, ">": true, "<": true}

// RecordRepository menjalankan SELECT/INSERT/UPDATE/DELETE generik.
// Nama tabel & kolom hanya diambil dari registry; nilai selalu lewat bind parameter.
type RecordRepository struct {
	DB *gorm.DB
}

func NewRecordRepository(db *gorm.DB) *RecordRepository {
	return &RecordRepository{DB: db}
}

func resolve(entity string) (*registry.Entity, error) {
	e, ok := registry.Lookup(entity)
	if !ok {
		return nil, apperror.InvalidType(entity)
	}
	return e, nil
}

func quote(ident string) string { return pq.QuoteIdentifier(ident) }

/* ===============================
   READ
=================================*/

func (r *RecordRepository) List(ctx context.Context, entity string, page *Page) ([]Record, error) {
	e, err := resolve(entity)
	if err != nil {
		return nil, err
	}

	q := fmt.Sprintf("SELECT * FROM %s ORDER BY %s DESC", quote(e.Table), quote(registry.IDColumn))
	var args []any
	if page != nil && page.Limit > 0 {
		q += " LIMIT ? OFFSET ?"
		args = append(args, page.Limit, page.Offset)
	}

	rows := make([]map[string]any, 0)
	if err := r.DB.WithContext(ctx).Raw(q, args...).Scan(&rows).Error; err != nil {
		return nil, storeError(err)
	}

	out := make([]Record, 0, len(rows))
	for _, row := range rows {
		out = append(out, present(e, row))
	}
	return out, nil
}

func (r *RecordRepository) GetByID(ctx context.Context, entity string, id int64) (Record, error) {
	e, err := resolve(entity)
	if err != nil {
		return nil, err
	}

	q := fmt.Sprintf("SELECT * FROM %s WHERE %s = ? LIMIT 1", quote(e.Table), quote(registry.IDColumn))
	rows := make([]map[string]any, 0, 1)
	if err := r.DB.WithContext(ctx).Raw(q, id).Scan(&rows).Error; err != nil {
		return nil, storeError(err)
	}
	if len(rows) == 0 {
		return nil, apperror.NotFound(entity, id)
	}
	return present(e, rows[0]), nil
}

/* ===============================
   WRITE
=================================*/

// Save: ada id → UPDATE field whitelist yang dikirim saja; tanpa id → INSERT.
// UPDATE ke id yang tidak ada bukan error (affected = 0).
func (r *RecordRepository) Save(ctx context.Context, entity string, record Record) (SaveResult, error) {
	e, err := resolve(entity)
	if err != nil {
		return SaveResult{}, err
	}

	id, hasID, err := ParseID(record[registry.IDColumn])
	if err != nil {
		return SaveResult{}, apperror.InvalidValue(registry.IDColumn, err)
	}

	values, order, dropped, err := e.Normalize(record)
	if err != nil {
		var fe *registry.FieldError
		if errors.As(err, &fe) {
			return SaveResult{}, apperror.InvalidValue(fe.Field, fe.Err)
		}
		return SaveResult{}, apperror.BadRequest(err.Error())
	}

	if hasID {
		affected, err := r.update(ctx, e, id, values, order)
		if err != nil {
			return SaveResult{}, err
		}
		return SaveResult{ID: id, Affected: affected, Dropped: dropped}, nil
	}

	newID, err := r.insert(ctx, e, values, order)
	if err != nil {
		return SaveResult{}, err
	}
	return SaveResult{ID: newID, Created: true, Affected: 1, Dropped: dropped}, nil
}

func (r *RecordRepository) insert(ctx context.Context, e *registry.Entity, values map[string]any, order []string) (int64, error) {
	var q string
	args := make([]any, 0, len(order))
	if len(order) == 0 {
		q = fmt.Sprintf("INSERT INTO %s DEFAULT VALUES RETURNING %s", quote(e.Table), quote(registry.IDColumn))
	} else {
		cols := make([]string, 0, len(order))
		marks := make([]string, 0, len(order))
		for _, name := range order {
			cols = append(cols, quote(name))
			marks = append(marks, "?")
			args = append(args, values[name])
		}
		q = fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING %s",
			quote(e.Table), strings.Join(cols, ", "), strings.Join(marks, ", "), quote(registry.IDColumn))
	}

	var id int64
	if err := r.DB.WithContext(ctx).Raw(q, args...).Scan(&id).Error; err != nil {
		return 0, storeError(err)
	}
	return id, nil
}

func (r *RecordRepository) update(ctx context.Context, e *registry.Entity, id int64, values map[string]any, order []string) (int64, error) {
	if len(order) == 0 {
		return 0, nil
	}
	sets := make([]string, 0, len(order)+1)
	args := make([]any, 0, len(order)+1)
	for _, name := range order {
		sets = append(sets, quote(name)+" = ?")
		args = append(args, values[name])
	}
	sets = append(sets, quote("updated_at")+" = CURRENT_TIMESTAMP")
	args = append(args, id)

	q := fmt.Sprintf("UPDATE %s SET %s WHERE %s = ?", quote(e.Table), strings.Join(sets, ", "), quote(registry.IDColumn))
	res := r.DB.WithContext(ctx).Exec(q, args...)
	if res.Error != nil {
		return 0, storeError(res.Error)
	}
	return res.RowsAffected, nil
}

// Remove: hard delete by id. Id yang sudah tidak ada → affected 0, bukan error.
func (r *RecordRepository) Remove(ctx context.Context, entity string, id int64) (int64, error) {
	e, err := resolve(entity)
	if err != nil {
		return 0, err
	}
	q := fmt.Sprintf("DELETE FROM %s WHERE %s = ?", quote(e.Table), quote(registry.IDColumn))
	res := r.DB.WithContext(ctx).Exec(q, id)
	if res.Error != nil {
		return 0, storeError(res.Error)
	}
	return res.RowsAffected, nil
}

/* ===============================
   AGGREGATES
=================================*/

func (r *RecordRepository) Count(ctx context.Context, entity string, conds ...Cond) (int64, error) {
	e, err := resolve(entity)
	if err != nil {
		return 0, err
	}
	where, args, err := buildWhere(e, conds)
	if err != nil {
		return 0, err
	}

	var n int64
	q := fmt.Sprintf("SELECT COUNT(*) FROM %s%s", quote(e.Table), where)
	if err := r.DB.WithContext(ctx).Raw(q, args...).Scan(&n).Error; err != nil {
		return 0, storeError(err)
	}
	return n, nil
}

// Sum selalu mengembalikan 0 untuk tabel kosong (COALESCE), tidak pernah null.
func (r *RecordRepository) Sum(ctx context.Context, entity, column string, conds ...Cond) (float64, error) {
	e, err := resolve(entity)
	if err != nil {
		return 0, err
	}
	if f, ok := e.Field(column); !ok || (f.Kind != registry.KindInt && f.Kind != registry.KindNumber) {
		return 0, apperror.InvalidValue(column, errors.New("not a numeric field"))
	}
	where, args, err := buildWhere(e, conds)
	if err != nil {
		return 0, err
	}

	var total float64
	q := fmt.Sprintf("SELECT COALESCE(SUM(%s), 0) FROM %s%s", quote(column), quote(e.Table), where)
	if err := r.DB.WithContext(ctx).Raw(q, args...).Scan(&total).Error; err != nil {
		return 0, storeError(err)
	}
	return total, nil
}

func buildWhere(e *registry.Entity, conds []Cond) (string, []any, error) {
	if len(conds) == 0 {
		return "", nil, nil
	}
	parts := make([]string, 0, len(conds))
	args := make([]any, 0, len(conds))
	for _, c := range conds {
		if c.Column != registry.IDColumn && !e.Has(c.Column) {
			return "", nil, apperror.InvalidValue(c.Column, errors.New("unknown column"))
		}
		if !allowedOps[c.Op] {
			return "", nil, apperror.BadRequest("operator tidak didukung: " + c.Op)
		}
		if c.Fold {
			text, ok := c.Value.(string)
			if !ok {
				return "", nil, apperror.InvalidValue(c.Column, errors.New("fold needs a text value"))
			}
			parts = append(parts, "LOWER(TRIM("+quote(c.Column)+")) "+c.Op+" ?")
			args = append(args, strings.ToLower(strings.TrimSpace(text)))
			continue
		}
		parts = append(parts, quote(c.Column)+" "+c.Op+" ?")
		args = append(args, c.Value)
	}
	return " WHERE " + strings.Join(parts, " AND "), args, nil
}

/* ===============================
   Helpers
=================================*/

// ParseID menerima id dari query string (string) atau body JSON (float64).
// nil, "" dan 0 dianggap tidak ada id.
func ParseID(v any) (int64, bool, error) {
	switch t := v.(type) {
	case nil:
		return 0, false, nil
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return 0, false, nil
		}
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return 0, false, fmt.Errorf("invalid id %q", t)
		}
		return n, n != 0, nil
	case float64:
		if t != float64(int64(t)) {
			return 0, false, fmt.Errorf("invalid id %v", t)
		}
		return int64(t), t != 0, nil
	case int:
		return int64(t), t != 0, nil
	case int64:
		return t, t != 0, nil
	default:
		return 0, false, fmt.Errorf("invalid id type %T", v)
	}
}

// present merapikan satu baris hasil SELECT * dan membuang field write-only.
func present(e *registry.Entity, row map[string]any) Record {
	out := make(Record, len(row))
	for k, v := range row {
		if f, ok := e.Field(k); ok {
			out[k] = f.Present(v)
			continue
		}
		switch t := v.(type) {
		case []byte:
			out[k] = string(t)
		default:
			out[k] = v
		}
	}
	for _, name := range e.WriteOnlyFields() {
		delete(out, name)
	}
	if id, ok := out[registry.IDColumn]; ok {
		if n, has, err := ParseID(normalizeID(id)); err == nil && has {
			out[registry.IDColumn] = n
		}
	}
	return out
}

func normalizeID(v any) any {
	switch t := v.(type) {
	case int32:
		return int64(t)
	case []byte:
		return string(t)
	}
	return v
}

// storeError membungkus error gorm/driver menjadi StoreError. Untuk postgres, kode
// SQLSTATE & constraint ikut dikirim di details.
func storeError(err error) error {
	ae := apperror.StoreError(err)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return ae.WithDetails(map[string]string{
			"sqlstate":   pgErr.Code,
			"constraint": pgErr.ConstraintName,
			"detail":     pgErr.Detail,
		})
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ae.WithDetails(map[string]string{"reason": "timeout"})
	}
	return ae
}
