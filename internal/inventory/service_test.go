package inventory

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fundacion-saciar/saciar-api/internal/platform/httpx"
)

type memoryRepo struct {
	mu     sync.Mutex
	items  []Item
	nextID int64
	locks  map[string]*sync.Mutex
}

// memoryTx buffers writes until commit and reads committed state on
// every statement, mirroring the allocator's ReadCommitted transaction.
// Serialization comes only from the per-category lock, as in production.
type memoryTx struct {
	repo    *memoryRepo
	pending []Item
	held    map[string]*sync.Mutex
}

func newMemoryRepo(seed ...Item) *memoryRepo {
	r := &memoryRepo{locks: map[string]*sync.Mutex{}}
	for _, it := range seed {
		r.nextID++
		it.ID = r.nextID
		r.items = append(r.items, it)
	}
	return r
}

func (r *memoryRepo) categoryLock(categoria string) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()
	lk, ok := r.locks[categoria]
	if !ok {
		lk = &sync.Mutex{}
		r.locks[categoria] = lk
	}
	return lk
}

func (r *memoryRepo) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	tx := &memoryTx{repo: r, held: map[string]*sync.Mutex{}}
	defer tx.release()
	if err := fn(ctx, tx); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, tx.pending...)
	return nil
}

// release runs after commit or rollback, like pg_advisory_xact_lock.
func (tx *memoryTx) release() {
	for _, lk := range tx.held {
		lk.Unlock()
	}
	tx.held = nil
}

func (tx *memoryTx) lockCategory(categoria string) {
	if _, ok := tx.held[categoria]; ok {
		return
	}
	lk := tx.repo.categoryLock(categoria)
	lk.Lock()
	tx.held[categoria] = lk
}

func lastCodeIn(items []Item, categoria string) (string, error) {
	best := ""
	bestLen := -1
	for _, it := range items {
		if it.Categoria != categoria {
			continue
		}
		suffix := strings.TrimPrefix(it.CodigoSerie, categoria)
		if len(suffix) > bestLen || (len(suffix) == bestLen && it.CodigoSerie > best) {
			best = it.CodigoSerie
			bestLen = len(suffix)
		}
	}
	if best == "" {
		return "", ErrNoCodes
	}
	return best, nil
}

func (r *memoryRepo) LastCode(ctx context.Context, categoria string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return lastCodeIn(r.items, categoria)
}

func (tx *memoryTx) LastCodeForUpdate(ctx context.Context, categoria string) (string, error) {
	tx.lockCategory(categoria)
	tx.repo.mu.Lock()
	defer tx.repo.mu.Unlock()
	if code, err := lastCodeIn(tx.pending, categoria); err == nil {
		return code, nil
	}
	return lastCodeIn(tx.repo.items, categoria)
}

func (tx *memoryTx) Insert(ctx context.Context, item Item) (int64, error) {
	tx.repo.mu.Lock()
	defer tx.repo.mu.Unlock()
	for _, existing := range tx.repo.items {
		if existing.CodigoSerie == item.CodigoSerie {
			return 0, httpx.Conflict("El código " + item.CodigoSerie + " ya existe.")
		}
	}
	for _, existing := range tx.pending {
		if existing.CodigoSerie == item.CodigoSerie {
			return 0, httpx.Conflict("El código " + item.CodigoSerie + " ya existe.")
		}
	}
	tx.repo.nextID++
	item.ID = tx.repo.nextID
	tx.pending = append(tx.pending, item)
	return item.ID, nil
}

func (r *memoryRepo) List(ctx context.Context, search string) ([]Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Item
	for _, it := range r.items {
		if search == "" || strings.Contains(it.CodigoSerie, search) || strings.Contains(it.Descripcion, search) {
			out = append(out, it)
		}
	}
	return out, nil
}

func (r *memoryRepo) Update(ctx context.Context, id int64, req UpdateItemRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, it := range r.items {
		if it.ID == id {
			it.CentroOperacion = req.CentroOperacion
			it.AreaPrincipal = req.AreaPrincipal
			it.TipoProducto = req.TipoProducto
			it.Descripcion = req.Descripcion
			it.AreaAsignada = req.AreaAsignada
			it.SubAreaAsignada = req.SubAreaAsignada
			it.CargoAsignado = req.CargoAsignado
			it.Estado = req.Estado
			r.items[i] = it
			return nil
		}
	}
	return httpx.NotFound("Item no encontrado.")
}

func (r *memoryRepo) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, it := range r.items {
		if it.ID == id {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return nil
		}
	}
	return httpx.NotFound("Item no encontrado.")
}

func (r *memoryRepo) Summary(ctx context.Context) ([]CategoryCount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	totals := make(map[string]int64)
	for _, it := range r.items {
		totals[it.Categoria]++
	}
	var out []CategoryCount
	for cat, n := range totals {
		out = append(out, CategoryCount{Categoria: cat, Total: n})
	}
	return out, nil
}

func newTestService(seed ...Item) (*Service, *memoryRepo) {
	repo := newMemoryRepo(seed...)
	return NewService(repo, nil), repo
}

func TestCreateFirstItemInCategory(t *testing.T) {
	svc, _ := newTestService()

	item, err := svc.Create(context.Background(), CreateItemRequest{Categoria: "FLT", Descripcion: "Camión"})
	require.NoError(t, err)
	require.Equal(t, "FLT0001", item.CodigoSerie)
	require.Equal(t, EstadoSinPrioridad, item.Estado)
}

func TestSequenceIsStrictlyIncreasing(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	var codes []string
	for i := 0; i < 12; i++ {
		item, err := svc.Create(ctx, CreateItemRequest{Categoria: "COM"})
		require.NoError(t, err)
		codes = append(codes, item.CodigoSerie)
	}
	require.Equal(t, "COM0001", codes[0])
	require.Equal(t, "COM0009", codes[8])
	require.Equal(t, "COM0010", codes[9])
	require.Equal(t, "COM0012", codes[11])
}

func TestSequencePastNineThousand(t *testing.T) {
	svc, _ := newTestService(Item{Categoria: "FLT", CodigoSerie: "FLT9999"})

	item, err := svc.Create(context.Background(), CreateItemRequest{Categoria: "FLT"})
	require.NoError(t, err)
	require.Equal(t, "FLT10000", item.CodigoSerie)
}

func TestCorruptSuffixRestartsAtOne(t *testing.T) {
	svc, _ := newTestService(Item{Categoria: "MOB", CodigoSerie: "MOBX-LEGACY"})

	item, err := svc.Create(context.Background(), CreateItemRequest{Categoria: "MOB"})
	require.NoError(t, err)
	require.Equal(t, "MOB0001", item.CodigoSerie)
}

func TestCreateRequiresCategory(t *testing.T) {
	svc, repo := newTestService()

	_, err := svc.Create(context.Background(), CreateItemRequest{Descripcion: "sin categoría"})
	require.ErrorIs(t, err, httpx.ErrValidation)
	require.Empty(t, repo.items)
}

func TestDuplicateCodeSurfacesConflictAndRollsBack(t *testing.T) {
	// The corrupted legacy row sorts first, its suffix fails to parse,
	// the sequence restarts at 1 and collides with the seeded MOB0001.
	svc, repo := newTestService(
		Item{Categoria: "MOB", CodigoSerie: "MOB0001"},
		Item{Categoria: "MOB", CodigoSerie: "MOBLEGACY99"},
	)

	_, err := svc.Create(context.Background(), CreateItemRequest{Categoria: "MOB"})
	require.ErrorIs(t, err, httpx.ErrConflict)
	require.Len(t, repo.items, 2, "failed insert must not leave partial state")
}

func TestPeekNextCodeIsAdvisory(t *testing.T) {
	svc, _ := newTestService(Item{Categoria: "FLT", CodigoSerie: "FLT0009"})
	ctx := context.Background()

	code, err := svc.PeekNextCode(ctx, "FLT")
	require.NoError(t, err)
	require.Equal(t, "FLT0010", code)

	// Peeking allocates nothing: the next create still gets the code.
	item, err := svc.Create(ctx, CreateItemRequest{Categoria: "FLT"})
	require.NoError(t, err)
	require.Equal(t, "FLT0010", item.CodigoSerie)
}

func TestPeekNextCodeEmptyCategory(t *testing.T) {
	svc, _ := newTestService()

	code, err := svc.PeekNextCode(context.Background(), "NEW")
	require.NoError(t, err)
	require.Equal(t, "NEW0001", code)

	_, err = svc.PeekNextCode(context.Background(), "")
	require.ErrorIs(t, err, httpx.ErrValidation)
}

// An allocator that waited on the category lock must base its code on
// the rows committed by the transaction that held it, not on state read
// before the wait.
func TestWaitingAllocatorObservesCommittedCode(t *testing.T) {
	svc, repo := newTestService(Item{Categoria: "FLT", CodigoSerie: "FLT0009"})
	ctx := context.Background()

	acquired := make(chan struct{})
	release := make(chan struct{})
	first := make(chan error, 1)

	go func() {
		first <- repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
			last, err := tx.LastCodeForUpdate(ctx, "FLT")
			if err != nil {
				return err
			}
			close(acquired)
			<-release
			_, err = tx.Insert(ctx, Item{Categoria: "FLT", CodigoSerie: nextCode("FLT", last)})
			return err
		})
	}()

	<-acquired
	type result struct {
		item *Item
		err  error
	}
	second := make(chan result, 1)
	go func() {
		item, err := svc.Create(ctx, CreateItemRequest{Categoria: "FLT"})
		second <- result{item: item, err: err}
	}()
	close(release)

	require.NoError(t, <-first)
	res := <-second
	require.NoError(t, res.err)
	require.Equal(t, "FLT0011", res.item.CodigoSerie)
}

func TestConcurrentCreatesNeverCollide(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	const n = 25
	errs := make(chan error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Create(ctx, CreateItemRequest{Categoria: "CON"})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	seen := make(map[string]bool)
	for _, it := range repo.items {
		require.False(t, seen[it.CodigoSerie], "duplicate code %s", it.CodigoSerie)
		seen[it.CodigoSerie] = true
	}
	require.Len(t, seen, n)
}

func TestUpdateAndDeleteMissingItem(t *testing.T) {
	svc, _ := newTestService()

	err := svc.Update(context.Background(), 42, UpdateItemRequest{Descripcion: "x"})
	require.ErrorIs(t, err, httpx.ErrNotFound)

	err = svc.Delete(context.Background(), 42)
	require.ErrorIs(t, err, httpx.ErrNotFound)
}

func TestNextCodeFormatting(t *testing.T) {
	require.Equal(t, "FLT0001", nextCode("FLT", ""))
	require.Equal(t, "FLT0002", nextCode("FLT", "FLT0001"))
	require.Equal(t, "FLT0010", nextCode("FLT", "FLT0009"))
	require.Equal(t, "FLT10000", nextCode("FLT", "FLT9999"))
	require.Equal(t, "FLT10001", nextCode("FLT", "FLT10000"))
	require.Equal(t, "FLT0001", nextCode("FLT", "FLTABC"))
}
