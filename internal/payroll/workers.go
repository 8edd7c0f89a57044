// Package payroll: data pekerja kebun dan penggajian per periode.
package payroll

import (
	"context"
	"strings"

	"sawitku-backend/internal/httputil"
	"sawitku-backend/internal/models"
	"sawitku-backend/internal/store"

	"gorm.io/gorm"
)

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Workers daftar pekerja urut nama.
type Workers struct {
	*store.View[models.Worker]
}

func (s *Service) workers() *store.Collection[models.Worker] {
	return store.NewCollection[models.Worker](s.db, store.Query{Order: "nama"})
}

func (s *Service) Workers(status models.WorkerStatus, search string) *Workers {
	c := s.workers()
	if status != "" {
		c = c.With(store.Eq("status", status))
	}
	if strings.TrimSpace(search) != "" {
		c = c.With(store.Search(search, "nama", "nik"))
	}
	return &Workers{View: store.NewView(c)}
}

func (s *Service) GetWorker(ctx context.Context, id string) (*models.Worker, error) {
	return s.workers().Get(ctx, id)
}

type WorkerInput struct {
	Name         *string              `json:"nama"`
	NIK          *string              `json:"nik"`
	Address      *string              `json:"alamat"`
	Phone        *string              `json:"telepon"`
	JoinDate     *string              `json:"tanggal_masuk"`
	ContractType *models.ContractType `json:"jenis_kontrak"`
	BaseSalary   *float64             `json:"gaji_pokok"`
	Status       *models.WorkerStatus `json:"status"`
}

func (in WorkerInput) fields() (map[string]any, error) {
	f := map[string]any{}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, store.Invalid("Nama pekerja wajib diisi")
		}
		f["nama"] = name
	}
	if in.NIK != nil {
		nik := strings.TrimSpace(*in.NIK)
		switch {
		case nik == "":
			// kosong disimpan NULL agar tidak bentrok di unique index
			f["nik"] = nil
		case len(nik) != 16:
			return nil, store.Invalid("NIK harus 16 digit")
		default:
			f["nik"] = nik
		}
	}
	if in.Address != nil {
		f["alamat"] = *in.Address
	}
	if in.Phone != nil {
		f["telepon"] = *in.Phone
	}
	if in.JoinDate != nil {
		d, err := httputil.ParseOptionalDate(*in.JoinDate)
		if err != nil {
			return nil, err
		}
		f["tanggal_masuk"] = d
	}
	if in.ContractType != nil {
		if !in.ContractType.Valid() {
			return nil, store.Invalid("Jenis kontrak harus tetap, harian atau borongan")
		}
		f["jenis_kontrak"] = *in.ContractType
	}
	if in.BaseSalary != nil {
		if *in.BaseSalary < 0 {
			return nil, store.Invalid("Gaji pokok tidak boleh negatif")
		}
		f["gaji_pokok"] = *in.BaseSalary
	}
	if in.Status != nil {
		if *in.Status != models.WorkerActive && *in.Status != models.WorkerInactive {
			return nil, store.Invalid("Status pekerja tidak valid")
		}
		f["status"] = *in.Status
	}
	return f, nil
}

func (w *Workers) Add(ctx context.Context, in WorkerInput) (*models.Worker, error) {
	if in.Name == nil {
		return nil, store.Invalid("Nama pekerja wajib diisi")
	}
	f, err := in.fields()
	if err != nil {
		return nil, err
	}
	row := &models.Worker{
		Name:         f["nama"].(string),
		Address:      in.Address,
		Phone:        in.Phone,
		ContractType: models.ContractDaily,
		Status:       models.WorkerActive,
	}
	if v, ok := f["nik"].(string); ok && v != "" {
		row.NIK = &v
	}
	if in.ContractType != nil {
		row.ContractType = *in.ContractType
	}
	if in.BaseSalary != nil {
		row.BaseSalary = *in.BaseSalary
	}
	if in.Status != nil {
		row.Status = *in.Status
	}
	if in.JoinDate != nil {
		row.JoinDate, _ = httputil.ParseOptionalDate(*in.JoinDate)
	}
	if err := w.Create(ctx, row); err != nil {
		return nil, err
	}
	return row, nil
}

func (w *Workers) Edit(ctx context.Context, id string, in WorkerInput) error {
	f, err := in.fields()
	if err != nil {
		return err
	}
	if len(f) == 0 {
		return store.Invalid("Tidak ada data yang diubah")
	}
	return w.Update(ctx, id, f)
}

type WorkerSummary struct {
	Count        int                         `json:"jumlah"`
	Active       int                         `json:"aktif"`
	ByContract   map[models.ContractType]int `json:"per_kontrak"`
	MonthlyTotal float64                     `json:"total_gaji_pokok"`
}

func SummarizeWorkers(rows []models.Worker) WorkerSummary {
	s := WorkerSummary{Count: len(rows), ByContract: map[models.ContractType]int{}}
	for _, w := range rows {
		s.ByContract[w.ContractType]++
		if w.Status == models.WorkerActive {
			s.Active++
			s.MonthlyTotal += w.BaseSalary
		}
	}
	return s
}
