package client

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"pesantren_backend/internals/features/records/registry"
)

// Backend: operasi data yang dibutuhkan satu halaman. *APIClient memenuhinya.
type Backend interface {
	List(ctx context.Context, entity string) ([]Record, error)
	Save(ctx context.Context, entity string, record Record) (SaveResult, error)
	Delete(ctx context.Context, entity string, id int64) error
}

type ViewState int

const (
	StateIdle ViewState = iota
	StateLoading
	StateLoaded
	StateSearching
)

func (s ViewState) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StateSearching:
		return "searching"
	default:
		return "idle"
	}
}

type ModalMode int

const (
	ModalClosed ModalMode = iota
	ModalCreate
	ModalEdit
)

var (
	// ErrBusy: save/delete lain masih berjalan (tombol submit sedang disabled).
	ErrBusy         = errors.New("operation in progress")
	ErrModalClosed  = errors.New("modal is not open")
	ErrNoConfirm    = errors.New("no delete awaiting confirmation")
	ErrMissingRowID = errors.New("record has no id")
)

// NoticeLevel & Notice: pengganti toast di UI.
type NoticeLevel string

const (
	NoticeSuccess NoticeLevel = "success"
	NoticeError   NoticeLevel = "error"
)

type Notice struct {
	Level   NoticeLevel
	Message string
}

type ViewOptions struct {
	// SearchFields: field yang difilter Search. Kosong = field teks dari registry.
	SearchFields []string
	// Officer: nama lengkap user login untuk field AutoOfficer.
	Officer string
	Now     func() time.Time
	Notify  func(Notice)
}

// ViewController: state satu halaman data untuk satu entity. Tidak dibagi antar halaman.
type ViewController struct {
	backend Backend
	entity  string
	schema  *registry.Entity
	opts    ViewOptions

	mu        sync.Mutex
	state     ViewState
	rows      []Record
	query     string
	modal     ModalMode
	form      Record
	editingID int64
	confirmID *int64
	busy      bool
	lastErr   error
}

func NewViewController(backend Backend, entity string, opts ViewOptions) *ViewController {
	vc := &ViewController{backend: backend, entity: entity, opts: opts}
	if e, ok := registry.Lookup(entity); ok {
		vc.schema = e
		if len(vc.opts.SearchFields) == 0 {
			vc.opts.SearchFields = e.SearchFields()
		}
	}
	if vc.opts.Now == nil {
		vc.opts.Now = time.Now
	}
	return vc
}

func (vc *ViewController) notify(level NoticeLevel, msg string) {
	if vc.opts.Notify != nil {
		vc.opts.Notify(Notice{Level: level, Message: msg})
	}
}

/* ===============================
   Load & Search
=================================*/

// Load mengganti seluruh data dengan hasil getData. Gagal → data lama tetap tampil.
func (vc *ViewController) Load(ctx context.Context) error {
	vc.mu.Lock()
	vc.state = StateLoading
	vc.mu.Unlock()

	rows, err := vc.backend.List(ctx, vc.entity)

	vc.mu.Lock()
	defer vc.mu.Unlock()
	if err != nil {
		vc.lastErr = err
		vc.state = vc.settledState()
		vc.notify(NoticeError, "Gagal memuat data: "+err.Error())
		return err
	}
	vc.rows = rows
	vc.state = vc.settledState()
	return nil
}

func (vc *ViewController) settledState() ViewState {
	if vc.query != "" {
		return StateSearching
	}
	return StateLoaded
}

func (vc *ViewController) Search(query string) {
	vc.mu.Lock()
	defer vc.mu.Unlock()
	vc.query = strings.TrimSpace(query)
	if vc.state == StateLoaded || vc.state == StateSearching {
		vc.state = vc.settledState()
	}
}

// Visible: baris yang lolos filter pencarian (substring, tidak peka huruf besar).
func (vc *ViewController) Visible() []Record {
	vc.mu.Lock()
	defer vc.mu.Unlock()

	if vc.query == "" {
		out := make([]Record, len(vc.rows))
		copy(out, vc.rows)
		return out
	}
	needle := strings.ToLower(vc.query)
	out := make([]Record, 0, len(vc.rows))
	for _, row := range vc.rows {
		if vc.matches(row, needle) {
			out = append(out, row)
		}
	}
	return out
}

func (vc *ViewController) matches(row Record, needle string) bool {
	fields := vc.opts.SearchFields
	if len(fields) == 0 {
		for k := range row {
			fields = append(fields, k)
		}
	}
	for _, f := range fields {
		v, ok := row[f]
		if !ok || v == nil {
			continue
		}
		if strings.Contains(strings.ToLower(fmt.Sprint(v)), needle) {
			return true
		}
	}
	return false
}

/* ===============================
   Modal create/edit
=================================*/

// OpenCreate: form baru dengan default tanggal hari ini & nama petugas.
func (vc *ViewController) OpenCreate() {
	vc.mu.Lock()
	defer vc.mu.Unlock()

	form := Record{}
	if vc.schema != nil {
		today := vc.opts.Now().Format(registry.DateLayout)
		for _, f := range vc.schema.Fields() {
			switch {
			case f.AutoToday:
				form[f.Name] = today
			case f.AutoOfficer && vc.opts.Officer != "":
				form[f.Name] = vc.opts.Officer
			}
		}
	}
	vc.modal = ModalCreate
	vc.form = form
	vc.editingID = 0
	vc.lastErr = nil
}

func (vc *ViewController) OpenEdit(row Record) error {
	id, ok := rowID(row)
	if !ok {
		return ErrMissingRowID
	}

	vc.mu.Lock()
	defer vc.mu.Unlock()
	form := make(Record, len(row))
	for k, v := range row {
		form[k] = v
	}
	vc.modal = ModalEdit
	vc.form = form
	vc.editingID = id
	vc.lastErr = nil
	return nil
}

func (vc *ViewController) SetField(name string, value any) error {
	vc.mu.Lock()
	defer vc.mu.Unlock()
	if vc.modal == ModalClosed {
		return ErrModalClosed
	}
	vc.form[name] = value
	return nil
}

func (vc *ViewController) CloseModal() {
	vc.mu.Lock()
	defer vc.mu.Unlock()
	vc.modal = ModalClosed
	vc.form = nil
	vc.editingID = 0
}

// Save: kirim form ke saveData. Sukses → modal tertutup lalu Load ulang.
// Gagal → modal tetap terbuka, error disimpan di LastError.
func (vc *ViewController) Save(ctx context.Context) error {
	vc.mu.Lock()
	if vc.modal == ModalClosed {
		vc.mu.Unlock()
		return ErrModalClosed
	}
	if vc.busy {
		vc.mu.Unlock()
		return ErrBusy
	}
	vc.busy = true
	payload := make(Record, len(vc.form)+1)
	for k, v := range vc.form {
		payload[k] = v
	}
	if vc.modal == ModalEdit {
		payload[registry.IDColumn] = vc.editingID
	} else {
		delete(payload, registry.IDColumn)
	}
	vc.mu.Unlock()

	_, err := vc.backend.Save(ctx, vc.entity, payload)

	vc.mu.Lock()
	vc.busy = false
	if err != nil {
		vc.lastErr = err
		vc.mu.Unlock()
		vc.notify(NoticeError, "Gagal menyimpan: "+err.Error())
		return err
	}
	vc.modal = ModalClosed
	vc.form = nil
	vc.editingID = 0
	vc.lastErr = nil
	vc.mu.Unlock()

	vc.notify(NoticeSuccess, "Data berhasil disimpan")
	return vc.Load(ctx)
}

/* ===============================
   Delete dua langkah
=================================*/

func (vc *ViewController) RequestDelete(id int64) {
	vc.mu.Lock()
	defer vc.mu.Unlock()
	vc.confirmID = &id
}

func (vc *ViewController) CancelDelete() {
	vc.mu.Lock()
	defer vc.mu.Unlock()
	vc.confirmID = nil
}

// ConfirmDelete: panggil deleteData untuk id yang menunggu konfirmasi, lalu Load ulang.
func (vc *ViewController) ConfirmDelete(ctx context.Context) error {
	vc.mu.Lock()
	if vc.confirmID == nil {
		vc.mu.Unlock()
		return ErrNoConfirm
	}
	if vc.busy {
		vc.mu.Unlock()
		return ErrBusy
	}
	id := *vc.confirmID
	vc.confirmID = nil
	vc.busy = true
	vc.mu.Unlock()

	err := vc.backend.Delete(ctx, vc.entity, id)

	vc.mu.Lock()
	vc.busy = false
	if err != nil {
		vc.lastErr = err
	}
	vc.mu.Unlock()

	if err != nil {
		vc.notify(NoticeError, "Gagal menghapus: "+err.Error())
		return err
	}
	vc.notify(NoticeSuccess, "Data berhasil dihapus")
	return vc.Load(ctx)
}

/* ===============================
   State accessors
=================================*/

func (vc *ViewController) Entity() string { return vc.entity }

func (vc *ViewController) State() ViewState {
	vc.mu.Lock()
	defer vc.mu.Unlock()
	return vc.state
}

func (vc *ViewController) Query() string {
	vc.mu.Lock()
	defer vc.mu.Unlock()
	return vc.query
}

func (vc *ViewController) Modal() ModalMode {
	vc.mu.Lock()
	defer vc.mu.Unlock()
	return vc.modal
}

// Form: salinan isi form modal (nil kalau modal tertutup).
func (vc *ViewController) Form() Record {
	vc.mu.Lock()
	defer vc.mu.Unlock()
	if vc.form == nil {
		return nil
	}
	out := make(Record, len(vc.form))
	for k, v := range vc.form {
		out[k] = v
	}
	return out
}

func (vc *ViewController) EditingID() int64 {
	vc.mu.Lock()
	defer vc.mu.Unlock()
	return vc.editingID
}

// ConfirmTarget: id yang menunggu konfirmasi hapus.
func (vc *ViewController) ConfirmTarget() (int64, bool) {
	vc.mu.Lock()
	defer vc.mu.Unlock()
	if vc.confirmID == nil {
		return 0, false
	}
	return *vc.confirmID, true
}

func (vc *ViewController) Busy() bool {
	vc.mu.Lock()
	defer vc.mu.Unlock()
	return vc.busy
}

func (vc *ViewController) LastError() error {
	vc.mu.Lock()
	defer vc.mu.Unlock()
	return vc.lastErr
}

func rowID(row Record) (int64, bool) {
	switch v := row[registry.IDColumn].(type) {
	case int64:
		return v, v != 0
	case int:
		return int64(v), v != 0
	case float64:
		return int64(v), v != 0 && v == float64(int64(v))
	}
	return 0, false
}
