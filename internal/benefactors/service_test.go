package benefactors

import (
	"context"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fundacion-saciar/saciar-api/internal/platform/httpx"
)

type memoryRepo struct {
	mu             sync.Mutex
	benefactors    []Benefactor
	donations      []Donation
	nextID         int64
	nextDonationID int64
}

type memoryTx struct {
	repo *memoryRepo
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{}
}

func (r *memoryRepo) seed(b Benefactor) int64 {
	r.nextID++
	b.ID = r.nextID
	r.benefactors = append(r.benefactors, b)
	return b.ID
}

func (r *memoryRepo) seedDonation(d Donation) int64 {
	r.nextDonationID++
	d.ID = r.nextDonationID
	r.donations = append(r.donations, d)
	return d.ID
}

func (r *memoryRepo) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	benefactors := make([]Benefactor, len(r.benefactors))
	copy(benefactors, r.benefactors)
	donations := make([]Donation, len(r.donations))
	copy(donations, r.donations)
	savedID, savedDonationID := r.nextID, r.nextDonationID
	if err := fn(ctx, &memoryTx{repo: r}); err != nil {
		r.benefactors = benefactors
		r.donations = donations
		r.nextID, r.nextDonationID = savedID, savedDonationID
		return err
	}
	return nil
}

func (r *memoryRepo) get(id int64) (*Benefactor, error) {
	for i := range r.benefactors {
		if r.benefactors[i].ID == id {
			b := r.benefactors[i]
			return &b, nil
		}
	}
	return nil, httpx.NotFound("Benefactor no encontrado.")
}

func (r *memoryRepo) latestDonation(benefactorID int64) *Donation {
	var latest *Donation
	for i := range r.donations {
		d := r.donations[i]
		if d.BenefactorID == benefactorID && (latest == nil || d.ID > latest.ID) {
			latest = &d
		}
	}
	return latest
}

func (r *memoryRepo) Get(ctx context.Context, id int64) (*Benefactor, error) { return r.get(id) }

func (r *memoryRepo) LatestDonation(ctx context.Context, benefactorID int64) (*Donation, error) {
	return r.latestDonation(benefactorID), nil
}

func (r *memoryRepo) List(ctx context.Context, req ListRequest) ([]Benefactor, int, error) {
	var matched []Benefactor
	for _, b := range r.benefactors {
		if req.Search == "" || strings.Contains(b.NombreBenefactor, req.Search) || strings.Contains(b.NumeroDocumento, req.Search) {
			matched = append(matched, b)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].NombreBenefactor < matched[j].NombreBenefactor
	})
	total := len(matched)
	start := (req.Page - 1) * req.Limit
	if start > total {
		start = total
	}
	end := start + req.Limit
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

func (r *memoryRepo) SearchCandidates(ctx context.Context) ([]SearchResult, error) {
	var out []SearchResult
	for _, b := range r.benefactors {
		out = append(out, SearchResult{
			ID:              b.ID,
			NombreCompleto:  b.NombreBenefactor,
			Empresa:         b.Empresa,
			FechaNacimiento: b.FechaFundacion,
		})
	}
	return out, nil
}

func (r *memoryRepo) BirthdaysOn(ctx context.Context, daysAhead int) ([]BirthdayRow, error) {
	return nil, nil
}

func (r *memoryRepo) PaymentsDueSoon(ctx context.Context, days int) ([]PaymentRow, error) {
	return nil, nil
}

func (r *memoryRepo) CountBirthdaysToday(ctx context.Context) (int64, error) { return 0, nil }

func (r *memoryRepo) CountPaymentsDueSoon(ctx context.Context, days int) (int64, error) {
	return 0, nil
}

func (tx *memoryTx) Get(ctx context.Context, id int64) (*Benefactor, error) {
	return tx.repo.get(id)
}

func (tx *memoryTx) LatestDonation(ctx context.Context, benefactorID int64) (*Donation, error) {
	return tx.repo.latestDonation(benefactorID), nil
}

func (tx *memoryTx) Insert(ctx context.Context, b Benefactor) (int64, error) {
	for _, existing := range tx.repo.benefactors {
		if existing.NumeroDocumento != "" && existing.NumeroDocumento == b.NumeroDocumento {
			return 0, httpx.Conflict("Ya existe un benefactor con ese número de documento.")
		}
	}
	tx.repo.nextID++
	b.ID = tx.repo.nextID
	tx.repo.benefactors = append(tx.repo.benefactors, b)
	return b.ID, nil
}

func (tx *memoryTx) InsertDonation(ctx context.Context, d Donation) error {
	tx.repo.seedDonation(d)
	return nil
}

func (tx *memoryTx) Update(ctx context.Context, b Benefactor) error {
	for i := range tx.repo.benefactors {
		if tx.repo.benefactors[i].ID == b.ID {
			tx.repo.benefactors[i] = b
			return nil
		}
	}
	return httpx.NotFound("Benefactor no encontrado.")
}

func (tx *memoryTx) UpdateDonation(ctx context.Context, d Donation) error {
	for i := range tx.repo.donations {
		if tx.repo.donations[i].ID == d.ID {
			tx.repo.donations[i] = d
			return nil
		}
	}
	return httpx.NotFound("Donación no encontrada.")
}

func (tx *memoryTx) DeleteDonations(ctx context.Context, benefactorID int64) error {
	var kept []Donation
	for _, d := range tx.repo.donations {
		if d.BenefactorID != benefactorID {
			kept = append(kept, d)
		}
	}
	tx.repo.donations = kept
	return nil
}

func (tx *memoryTx) Delete(ctx context.Context, id int64) error {
	for i, b := range tx.repo.benefactors {
		if b.ID == id {
			tx.repo.benefactors = append(tx.repo.benefactors[:i], tx.repo.benefactors[i+1:]...)
			return nil
		}
	}
	return httpx.NotFound("Benefactor no encontrado.")
}

func newTestService() (*Service, *memoryRepo) {
	repo := newMemoryRepo()
	return NewService(repo, nil), repo
}

func TestCreateInsertsBenefactorWithFirstDonation(t *testing.T) {
	svc, repo := newTestService()

	id, err := svc.Create(context.Background(), Payload{
		NombreCompleto: "Ana Pérez",
		Telefonos:      []string{"3001112233"},
		TipoDonacion:   "Alimentos",
	})
	require.NoError(t, err)
	require.Len(t, repo.benefactors, 1)
	require.Len(t, repo.donations, 1)
	require.Equal(t, id, repo.donations[0].BenefactorID)
	require.Equal(t, "Alimentos", repo.donations[0].TipoDonacion)
	require.Equal(t, `["3001112233"]`, repo.benefactors[0].NumeroContacto)
	require.Equal(t, PagoPendiente, repo.benefactors[0].EstadoPago)
}

func TestCreateRequiresName(t *testing.T) {
	svc, repo := newTestService()

	_, err := svc.Create(context.Background(), Payload{Empresa: "Sin nombre"})
	require.ErrorIs(t, err, httpx.ErrValidation)
	require.Empty(t, repo.benefactors)
}

func TestSmartUpdateKeepsUnsuppliedFields(t *testing.T) {
	svc, repo := newTestService()
	id := repo.seed(Benefactor{
		NombreBenefactor: "Carlos Ruiz",
		Ciudad:           "Medellín",
		Correo:           `["carlos@example.org"]`,
	})

	err := svc.SmartUpdate(context.Background(), id, Payload{Ciudad: "Itagüí"})
	require.NoError(t, err)

	stored, _ := repo.get(id)
	require.Equal(t, "Itagüí", stored.Ciudad)
	require.Equal(t, "Carlos Ruiz", stored.NombreBenefactor)
	require.Equal(t, `["carlos@example.org"]`, stored.Correo)
}

func TestSmartUpdateIsIdempotent(t *testing.T) {
	svc, repo := newTestService()
	id := repo.seed(Benefactor{NombreBenefactor: "Lucía", Direccion: "Calle 1"})
	repo.seedDonation(Donation{BenefactorID: id, TipoDonacion: "Ropa"})
	p := Payload{Direccion: "Calle 2", Observaciones: "Entrega anual"}

	require.NoError(t, svc.SmartUpdate(context.Background(), id, p))
	afterFirst, _ := repo.get(id)
	firstDonation := *repo.latestDonation(id)

	require.NoError(t, svc.SmartUpdate(context.Background(), id, p))
	afterSecond, _ := repo.get(id)
	require.Equal(t, *afterFirst, *afterSecond)
	require.Equal(t, firstDonation, *repo.latestDonation(id))
}

func TestSmartUpdateEmptyPhoneListRetainsStored(t *testing.T) {
	svc, repo := newTestService()
	id := repo.seed(Benefactor{NombreBenefactor: "Ana", NumeroContacto: `["111"]`})

	err := svc.SmartUpdate(context.Background(), id, Payload{Telefonos: []string{}})
	require.NoError(t, err)

	stored, _ := repo.get(id)
	require.Equal(t, `["111"]`, stored.NumeroContacto)
}

func TestSmartUpdateEditsLatestDonationOnly(t *testing.T) {
	svc, repo := newTestService()
	id := repo.seed(Benefactor{NombreBenefactor: "Pedro"})
	first := repo.seedDonation(Donation{BenefactorID: id, TipoDonacion: "Alimentos"})
	latest := repo.seedDonation(Donation{BenefactorID: id, TipoDonacion: "Dinero"})

	err := svc.SmartUpdate(context.Background(), id, Payload{DetallesDonacion: "Cheque"})
	require.NoError(t, err)

	for _, d := range repo.donations {
		switch d.ID {
		case first:
			require.Empty(t, d.DetallesDonacion)
		case latest:
			require.Equal(t, "Cheque", d.DetallesDonacion)
			require.Equal(t, "Dinero", d.TipoDonacion)
		}
	}
}

func TestSmartUpdateWithoutDonationsCreatesNone(t *testing.T) {
	svc, repo := newTestService()
	id := repo.seed(Benefactor{NombreBenefactor: "Marta"})

	err := svc.SmartUpdate(context.Background(), id, Payload{Ciudad: "Bello", Observaciones: "sin tipo"})
	require.NoError(t, err)
	require.Empty(t, repo.donations)
}

func TestSmartUpdateWithDonationTypeCreatesExactlyOne(t *testing.T) {
	svc, repo := newTestService()
	id := repo.seed(Benefactor{NombreBenefactor: "Marta"})

	err := svc.SmartUpdate(context.Background(), id, Payload{TipoDonacion: "Dinero"})
	require.NoError(t, err)
	require.Len(t, repo.donations, 1)
	require.Equal(t, "Desconocido", repo.donations[0].Procedencia)
}

func TestSmartUpdateMissingBenefactor(t *testing.T) {
	svc, _ := newTestService()

	err := svc.SmartUpdate(context.Background(), 99, Payload{Ciudad: "Bello"})
	require.ErrorIs(t, err, httpx.ErrNotFound)
}

func TestDeleteRemovesBenefactorAndDonationsAtomically(t *testing.T) {
	svc, repo := newTestService()
	id := repo.seed(Benefactor{NombreBenefactor: "Rosa"})
	repo.seedDonation(Donation{BenefactorID: id, TipoDonacion: "Alimentos"})
	repo.seedDonation(Donation{BenefactorID: id, TipoDonacion: "Dinero"})

	require.NoError(t, svc.Delete(context.Background(), id))
	require.Empty(t, repo.benefactors)
	require.Empty(t, repo.donations)
}

func TestDeleteMissingBenefactorRollsBackDonationCleanup(t *testing.T) {
	svc, repo := newTestService()
	// Orphan rows left behind by legacy imports: the failing delete must
	// not silently sweep them away.
	repo.seedDonation(Donation{BenefactorID: 42, TipoDonacion: "Alimentos"})

	err := svc.Delete(context.Background(), 42)
	require.ErrorIs(t, err, httpx.ErrNotFound)
	require.Len(t, repo.donations, 1)
}

func TestQuickSearchIgnoresAccents(t *testing.T) {
	svc, repo := newTestService()
	repo.seed(Benefactor{NombreBenefactor: "José Gutiérrez", Empresa: "Panadería"})
	repo.seed(Benefactor{NombreBenefactor: "Marta López"})

	results, err := svc.QuickSearch(context.Background(), "jose")
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, "José Gutiérrez", results[0].NombreCompleto)

	results, err = svc.QuickSearch(context.Background(), "panaderia")
	require.NoError(t, err)
	require.Len(t, results, 1)

	results, err = svc.QuickSearch(context.Background(), "")
	require.NoError(t, err)
	require.Empty(t, results)
}

func TestCreateDuplicateDocumentConflicts(t *testing.T) {
	svc, repo := newTestService()

	_, err := svc.Create(context.Background(), Payload{NombreCompleto: "Ana", NumeroDocumento: "900123"})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), Payload{NombreCompleto: "Otra Ana", NumeroDocumento: "900123"})
	require.ErrorIs(t, err, httpx.ErrConflict)
	require.Len(t, repo.benefactors, 1)
}

func TestListOrdersByNameAndMatchesDocument(t *testing.T) {
	svc, repo := newTestService()
	repo.seed(Benefactor{NombreBenefactor: "Zoila Mesa", NumeroDocumento: "900123"})
	repo.seed(Benefactor{NombreBenefactor: "Andrés Rúa", NumeroDocumento: "811456"})

	items, _, err := svc.List(context.Background(), ListRequest{})
	require.NoError(t, err)
	require.Equal(t, "Andrés Rúa", items[0].NombreBenefactor)
	require.Equal(t, "Zoila Mesa", items[1].NombreBenefactor)

	items, pagination, err := svc.List(context.Background(), ListRequest{Search: "900123"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, "Zoila Mesa", items[0].NombreBenefactor)
	require.Equal(t, 1, pagination.TotalItems)
}

func TestListClampsPagination(t *testing.T) {
	svc, repo := newTestService()
	for i := 0; i < 3; i++ {
		repo.seed(Benefactor{NombreBenefactor: "B"})
	}

	items, pagination, err := svc.List(context.Background(), ListRequest{Page: 0, Limit: -5})
	require.NoError(t, err)
	require.Len(t, items, 3)
	require.Equal(t, 1, pagination.Page)
	require.Equal(t, 20, pagination.Limit)
	require.Equal(t, 3, pagination.TotalItems)
	require.Equal(t, 1, pagination.TotalPages)
}
