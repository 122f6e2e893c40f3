// internals/features/records/registry/registry.go
//
// Package registry adalah daftar statis entity → kolom yang boleh disimpan.
// Dipakai untuk validasi type, whitelist field saat tulis, dan kolom default saat render.
// Tidak ada API mutasi: menambah entity berarti deploy ulang.
package registry

import (
	"sort"
)

// Kind menentukan cara nilai field dinormalisasi sebelum masuk ke store.
type Kind string

const (
	KindText     Kind = "text"
	KindInt      Kind = "int"
	KindNumber   Kind = "number"
	KindDate     Kind = "date"
	KindDatetime Kind = "datetime"
)

// IDColumn adalah kolom identitas implisit di setiap tabel (tidak masuk daftar field).
const IDColumn = "id"

type Field struct {
	Name string `json:"name"`
	Kind Kind   `json:"kind"`

	// AutoToday: form create diisi tanggal hari ini.
	AutoToday bool `json:"auto_today,omitempty"`
	// AutoOfficer: form create diisi nama lengkap user yang sedang login.
	AutoOfficer bool `json:"auto_officer,omitempty"`
	// Secret: tidak ikut kolom default & tidak dicari.
	Secret bool `json:"secret,omitempty"`
	// WriteOnly: boleh ditulis tapi tidak pernah dikirim balik saat baca (hash password).
	WriteOnly bool `json:"write_only,omitempty"`
}

type Entity struct {
	Name   string
	Table  string
	Title  string
	fields []Field
	index  map[string]int
}

func newEntity(name, title string, fields ...Field) *Entity {
	e := &Entity{
		Name:   name,
		Table:  name,
		Title:  title,
		fields: fields,
		index:  make(map[string]int, len(fields)),
	}
	for i, f := range fields {
		if f.Name == IDColumn {
			panic("registry: field id is implicit, entity " + name)
		}
		if _, dup := e.index[f.Name]; dup {
			panic("registry: duplicate field " + f.Name + " on " + name)
		}
		e.index[f.Name] = i
	}
	return e
}

// Fields mengembalikan salinan daftar field sesuai urutan deklarasi.
func (e *Entity) Fields() []Field {
	out := make([]Field, len(e.fields))
	copy(out, e.fields)
	return out
}

func (e *Entity) FieldNames() []string {
	out := make([]string, len(e.fields))
	for i, f := range e.fields {
		out[i] = f.Name
	}
	return out
}

func (e *Entity) Field(name string) (Field, bool) {
	i, ok := e.index[name]
	if !ok {
		return Field{}, false
	}
	return e.fields[i], true
}

func (e *Entity) Has(name string) bool {
	_, ok := e.index[name]
	return ok
}

// Columns: kolom default untuk tabel listing (id + field non-secret).
func (e *Entity) Columns() []string {
	out := []string{IDColumn}
	for _, f := range e.fields {
		if !f.Secret {
			out = append(out, f.Name)
		}
	}
	return out
}

// WriteOnlyFields: field yang harus dibuang dari hasil baca.
func (e *Entity) WriteOnlyFields() []string {
	var out []string
	for _, f := range e.fields {
		if f.WriteOnly {
			out = append(out, f.Name)
		}
	}
	return out
}

// SearchFields: field teks non-secret, dipakai sebagai default filter pencarian client.
func (e *Entity) SearchFields() []string {
	var out []string
	for _, f := range e.fields {
		if f.Kind == KindText && !f.Secret {
			out = append(out, f.Name)
		}
	}
	return out
}

// Whitelist memisahkan key record yang terdaftar dan yang dibuang.
// Key "id" tidak ikut di keduanya. Urutan kept mengikuti urutan registry.
func (e *Entity) Whitelist(record map[string]any) (kept []string, dropped []string) {
	for _, f := range e.fields {
		if _, ok := record[f.Name]; ok {
			kept = append(kept, f.Name)
		}
	}
	for k := range record {
		if k == IDColumn {
			continue
		}
		if !e.Has(k) {
			dropped = append(dropped, k)
		}
	}
	sort.Strings(dropped)
	return kept, dropped
}

// Normalize menghasilkan nilai siap tulis: hanya field terdaftar yang ada di input,
// string kosong jadi nil, nilai dikonversi sesuai Kind.
// Field yang tidak dikenal dibuang diam-diam dan namanya dikembalikan di dropped.
func (e *Entity) Normalize(record map[string]any) (values map[string]any, order []string, dropped []string, err error) {
	kept, dropped := e.Whitelist(record)
	values = make(map[string]any, len(kept))
	for _, name := range kept {
		f := e.fields[e.index[name]]
		v, cerr := f.Coerce(record[name])
		if cerr != nil {
			return nil, nil, dropped, &FieldError{Field: name, Err: cerr}
		}
		values[name] = v
	}
	return values, kept, dropped, nil
}

/* ===============================
   Lookup
=================================*/

// Lookup mengembalikan entity berdasarkan nama; ok=false kalau tidak terdaftar.
func Lookup(name string) (*Entity, bool) {
	e, ok := entities[name]
	return e, ok
}

// MustLookup dipakai untuk entity yang pasti ada (quick stats, seed).
func MustLookup(name string) *Entity {
	e, ok := entities[name]
	if !ok {
		panic("registry: unknown entity " + name)
	}
	return e
}

// Names: semua nama entity, urut alfabet.
func Names() []string {
	out := make([]string, 0, len(entities))
	for name := range entities {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Schema adalah bentuk ekspor registry untuk client (action getSchema).
type Schema struct {
	Name    string   `json:"name"`
	Title   string   `json:"title"`
	Fields  []Field  `json:"fields"`
	Columns []string `json:"columns"`
}

func (e *Entity) Schema() Schema {
	return Schema{Name: e.Name, Title: e.Title, Fields: e.Fields(), Columns: e.Columns()}
}

func Export() []Schema {
	names := Names()
	out := make([]Schema, 0, len(names))
	for _, n := range names {
		out = append(out, entities[n].Schema())
	}
	return out
}
