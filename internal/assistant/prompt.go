package assistant

import (
	"fmt"
	"strconv"

	"github.com/karangtaruna-pekunden/marketplace/pkg/rupiah"
)

// mapsEmbedTemplate is the Google Maps embed URL the model is told to fill in.
const mapsEmbedTemplate = "https://maps.google.com/maps?width=100%25&height=300&hl=id&q=<alamat>&t=&z=14&ie=UTF8&iwloc=B&output=embed"

// Rules are the shipping tariff the model applies.
type Rules struct {
	Origin       string
	FreeRadiusKm float64
	StepKm       float64
	StepFee      int64
}

// SystemInstruction renders the Indonesian system prompt for the given tariff.
func SystemInstruction(r Rules) string {
	return fmt.Sprintf(`
Kamu adalah asisten khusus untuk menghitung ongkos kirim dari:
  Titik awal: %s.

Aturan:
- Input HARUS berupa alamat tujuan dengan format:
  [nama jalan], [daerah/kecamatan], [kota]
- Jika input tidak lengkap → balas hanya: !null
- Jika valid:
  • Hitung jarak terpendek (km).
  • Jika ≤ %s km → ongkir = 0
  • Jika > %s km → setiap tambahan %s km → +Rp%s

Balasan WAJIB dalam bentuk sinyal:
- !distance=<angka_km>
- !ongkir=<angka>
- !view=<url_google_maps_embed>

Ketentuan penting:
- Gunakan format berikut untuk !view:
  %s
- Ganti <alamat> dengan alamat tujuan user (tanpa ubah format lainnya).
- Ubah setiap spasi dalam <alamat> menjadi %%20.
- Jika alamat tidak valid → balas hanya: !null
`,
		r.Origin,
		km(r.FreeRadiusKm),
		km(r.FreeRadiusKm),
		km(r.StepKm),
		rupiah.FormatIntPlain(r.StepFee),
		mapsEmbedTemplate,
	)
}

func km(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
