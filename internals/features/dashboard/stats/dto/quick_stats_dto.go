package dto

// QuickStats: ringkasan dashboard. Semua angka 0 kalau tabel kosong.
type QuickStats struct {
	TotalSantri         int64   `json:"total_santri"`
	TotalUstadz         int64   `json:"total_ustadz"`
	TotalPengurus       int64   `json:"total_pengurus"`
	TotalKamar          int64   `json:"total_kamar"`
	TotalAlumni         int64   `json:"total_alumni"`
	TotalPemasukan      float64 `json:"total_pemasukan"`
	TotalPengeluaran    float64 `json:"total_pengeluaran"`
	Saldo               float64 `json:"saldo"`
	PerizinanAktif      int64   `json:"perizinan_aktif"`
	PelanggaranBulanIni int64   `json:"pelanggaran_bulan_ini"`
	AbsensiHariIni      int64   `json:"absensi_hari_ini"`
}
