package registry

func text(name string) Field    { return Field{Name: name, Kind: KindText} }
func integer(name string) Field { return Field{Name: name, Kind: KindInt} }
func number(name string) Field  { return Field{Name: name, Kind: KindNumber} }
func date(name string) Field    { return Field{Name: name, Kind: KindDate} }
func today(name string) Field   { return Field{Name: name, Kind: KindDate, AutoToday: true} }
func officer(name string) Field { return Field{Name: name, Kind: KindText, AutoOfficer: true} }
func secret(name string) Field  { return Field{Name: name, Kind: KindText, Secret: true} }
func hashed(name string) Field {
	return Field{Name: name, Kind: KindText, Secret: true, WriteOnly: true}
}

// Tabel di migrations harus sinkron dengan daftar ini.
var entities = func() map[string]*Entity {
	list := []*Entity{
		// ===================== SANTRI & PENGAJAR =====================
		newEntity("santri", "Data Santri",
			text("nis"), text("nama"), text("jenis_kelamin"), text("tempat_lahir"), date("tanggal_lahir"),
			text("alamat"), text("nama_wali"), text("no_hp_wali"), text("kamar"), text("kelas"),
			today("tanggal_masuk"), text("status"),
		),
		newEntity("ustadz", "Data Ustadz",
			text("nama"), text("jenis_kelamin"), text("no_hp"), text("alamat"), text("bidang"),
			text("pendidikan_terakhir"), today("tanggal_bergabung"), text("status"),
		),
		newEntity("pengurus", "Data Pengurus",
			text("nama"), text("jabatan"), text("divisi"), text("no_hp"), text("alamat"),
			text("periode"), text("status"),
		),
		newEntity("alumni", "Data Alumni",
			text("nama"), text("nis"), integer("tahun_masuk"), integer("tahun_lulus"), text("no_hp"),
			text("alamat"), text("pekerjaan"), text("keterangan"),
		),

		// ===================== ASRAMA & AKADEMIK =====================
		newEntity("kamar", "Kamar Asrama",
			text("nama_kamar"), text("asrama"), integer("kapasitas"), text("penasihat"), text("keterangan"),
		),
		newEntity("kelas", "Kelas",
			text("nama_kelas"), text("tingkat"), text("wali_kelas"), text("tahun_ajaran"), text("keterangan"),
		),
		newEntity("kegiatan", "Kegiatan",
			text("nama_kegiatan"), date("tanggal"), text("waktu"), text("tempat"), text("penanggung_jawab"),
			text("keterangan"),
		),
		newEntity("pengumuman", "Pengumuman",
			text("judul"), text("isi"), today("tanggal"), text("target"), officer("penulis"),
		),

		// ===================== KEUANGAN =====================
		newEntity("keuangan", "Kas Keuangan",
			today("tanggal"), text("jenis"), text("kategori"), number("nominal"), text("keterangan"),
			text("nama_santri"), officer("petugas"),
		),
		newEntity("pembayaran", "Pembayaran Santri",
			today("tanggal"), text("nama_santri"), text("jenis_pembayaran"), text("bulan"), number("nominal"),
			text("metode"), text("status"), officer("petugas"),
		),

		// ===================== ABSENSI =====================
		newEntity("absensi", "Absensi Santri",
			today("tanggal"), text("nama_santri"), text("kelas"), text("kegiatan"), text("status"),
			text("keterangan"), officer("petugas"),
		),
		newEntity("absensi_ustadz", "Absensi Ustadz",
			today("tanggal"), text("nama_ustadz"), text("jam_masuk"), text("jam_keluar"), text("status"),
			text("keterangan"),
		),

		// ===================== KEAMANAN =====================
		newEntity("perizinan", "Perizinan Santri",
			text("nama_santri"), text("jenis_izin"), text("alasan"), today("tanggal_keluar"),
			date("tanggal_kembali"), text("status"), text("penjemput"), officer("petugas"),
		),
		newEntity("pelanggaran", "Pelanggaran Santri",
			today("tanggal"), text("nama_santri"), text("jenis_pelanggaran"), text("tingkat"), integer("poin"),
			text("sanksi"), officer("petugas"),
		),
		newEntity("keamanan", "Jurnal Keamanan",
			today("tanggal"), text("shift"), officer("petugas"), text("lokasi"), text("kejadian"),
			text("tindakan"), text("status"),
		),
		newEntity("tamu", "Buku Tamu",
			today("tanggal"), text("nama_tamu"), text("asal"), text("keperluan"), text("bertemu_dengan"),
			text("jam_masuk"), text("jam_keluar"), officer("petugas"),
		),

		// ===================== LAIN-LAIN =====================
		newEntity("kesehatan", "Kesehatan Santri",
			today("tanggal"), text("nama_santri"), text("keluhan"), text("diagnosa"), text("tindakan"),
			text("obat"), text("status"), officer("petugas"),
		),
		newEntity("arsip", "Arsip Surat",
			text("nomor_surat"), text("judul"), text("kategori"), today("tanggal_surat"), text("pengirim"),
			text("penerima"), text("file_url"), text("keterangan"),
		),
		newEntity("inventaris", "Inventaris",
			text("nama_barang"), text("kategori"), integer("jumlah"), text("kondisi"), text("lokasi"),
			date("tanggal_pengadaan"), text("keterangan"),
		),

		// ===================== USERS =====================
		// password disimpan sebagai hash; password_plain hanya terisi kalau STORE_PLAIN_PASSWORD=true.
		newEntity("users", "Pengguna",
			text("username"), hashed("password"), secret("password_plain"), text("role"), text("fullname"),
			text("no_hp"),
		),
	}

	out := make(map[string]*Entity, len(list))
	for _, e := range list {
		out[e.Name] = e
	}
	return out
}()

// Nama entity yang dipakai langsung oleh kode (quick stats, auth).
const (
	EntitySantri      = "santri"
	EntityUstadz      = "ustadz"
	EntityPengurus    = "pengurus"
	EntityKamar       = "kamar"
	EntityAlumni      = "alumni"
	EntityKeuangan    = "keuangan"
	EntityAbsensi     = "absensi"
	EntityPerizinan   = "perizinan"
	EntityPelanggaran = "pelanggaran"
	EntityUsers       = "users"
)
