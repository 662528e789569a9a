// AngelaMos | 2026
// service_test.go

package product

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/templates/storefront/internal/core"
	"github.com/carterperez-dev/templates/storefront/internal/media"
)

// memRepo is an in-memory catalog. memTx snapshots it so a failed
// transaction leaves no trace.
type memRepo struct {
	mu       sync.Mutex
	rows     map[string]Product
	failNext error
	// concurrent is a competing write that commits once. A plain read sees
	// the row before it lands; a locking read waits for it.
	concurrent func(m *memRepo)
}

func newMemRepo() *memRepo {
	return &memRepo{rows: map[string]Product{}}
}

func (m *memRepo) WithTx(core.DBTX) Repository { return m }

func (m *memRepo) Create(_ context.Context, p *Product) error {
	if m.failNext != nil {
		err := m.failNext
		m.failNext = nil
		return err
	}
	for _, row := range m.rows {
		if row.DeletedAt == nil && row.Name == p.Name {
			return core.ErrDuplicateKey
		}
	}
	now := time.Now()
	p.CreatedAt, p.UpdatedAt = now, now
	m.rows[p.ID] = *p
	return nil
}

func (m *memRepo) GetByID(_ context.Context, id string) (*Product, error) {
	p, err := m.get(id)
	m.commitConcurrent()
	return p, err
}

func (m *memRepo) GetByIDForUpdate(_ context.Context, id string) (*Product, error) {
	m.commitConcurrent()
	return m.get(id)
}

func (m *memRepo) commitConcurrent() {
	if fn := m.concurrent; fn != nil {
		m.concurrent = nil
		fn(m)
	}
}

func (m *memRepo) get(id string) (*Product, error) {
	row, ok := m.rows[id]
	if !ok || row.DeletedAt != nil {
		return nil, core.ErrNotFound
	}
	return &row, nil
}

func (m *memRepo) List(_ context.Context, params ListProductsParams) ([]Product, int, error) {
	params.Normalize()
	var out []Product
	for _, row := range m.rows {
		if row.DeletedAt != nil {
			continue
		}
		if params.Category != "" && (row.Category == nil || *row.Category != params.Category) {
			continue
		}
		if params.Search != "" && !strings.Contains(strings.ToLower(row.Name), strings.ToLower(params.Search)) {
			continue
		}
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, len(out), nil
}

func (m *memRepo) Update(_ context.Context, p *Product) error {
	if m.failNext != nil {
		err := m.failNext
		m.failNext = nil
		return err
	}
	row, ok := m.rows[p.ID]
	if !ok || row.DeletedAt != nil {
		return core.ErrNotFound
	}
	m.rows[p.ID] = *p
	return nil
}

func (m *memRepo) SoftDelete(_ context.Context, id string) (*Product, error) {
	row, ok := m.rows[id]
	if !ok || row.DeletedAt != nil {
		return nil, core.ErrNotFound
	}
	now := time.Now()
	row.DeletedAt = &now
	row.ImageURL, row.ImagePublicID = nil, nil
	m.rows[id] = row
	return &row, nil
}

func (m *memRepo) Restore(_ context.Context, id string) (*Product, error) {
	row, ok := m.rows[id]
	if !ok || row.DeletedAt == nil {
		return nil, core.ErrNotFound
	}
	row.DeletedAt = nil
	m.rows[id] = row
	return &row, nil
}

func (m *memRepo) SetStock(_ context.Context, id string, stock int) (*Product, error) {
	row, ok := m.rows[id]
	if !ok || row.DeletedAt != nil {
		return nil, core.ErrNotFound
	}
	row.Stock = stock
	m.rows[id] = row
	return &row, nil
}

type memTx struct {
	repo *memRepo
}

func (t memTx) InTx(_ context.Context, fn func(tx core.DBTX) error) error {
	t.repo.mu.Lock()
	defer t.repo.mu.Unlock()

	snapshot := make(map[string]Product, len(t.repo.rows))
	for k, v := range t.repo.rows {
		snapshot[k] = v
	}
	if err := fn(nil); err != nil {
		t.repo.rows = snapshot
		return err
	}
	return nil
}

type fakeMedia struct {
	uploads   int
	discarded []string
	uploadErr error
}

func (f *fakeMedia) Upload(_ context.Context, r io.Reader, filename string) (*media.Asset, error) {
	if f.uploadErr != nil {
		return nil, f.uploadErr
	}
	_, _ = io.ReadAll(r)
	f.uploads++
	id := "storefront/" + strings.TrimSuffix(filename, ".png")
	return &media.Asset{URL: "https://res.cloudinary.com/demo/image/upload/v1/" + id + ".png", PublicID: id}, nil
}

func (f *fakeMedia) Discard(_ context.Context, publicID, url string) {
	if publicID == "" {
		publicID = url
	}
	f.discarded = append(f.discarded, publicID)
}

func newTestService() (*Service, *memRepo, *fakeMedia) {
	repo := newMemRepo()
	store := &fakeMedia{}
	svc := NewService(repo, memTx{repo: repo}, store, slog.New(slog.NewTextHandler(io.Discard, nil)))
	return svc, repo, store
}

func validRequest(name string) CreateProductRequest {
	return CreateProductRequest{
		Name:        name,
		Description: "A sturdy product described at length.",
		Price:       decimal.RequireFromString("19.99"),
	}
}

func intPtr(n int) *int { return &n }

func TestCreateDefaultsStockToZero(t *testing.T) {
	svc, _, _ := newTestService()

	p, err := svc.Create(context.Background(), validRequest("Mug"), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, p.Stock)
	assert.True(t, core.IsValidID(p.ID))
	assert.Nil(t, p.ImageURL)
}

func TestCreateWithImage(t *testing.T) {
	svc, _, store := newTestService()

	p, err := svc.Create(context.Background(), validRequest("Mug"),
		&Image{Reader: strings.NewReader("png"), Filename: "mug.png"})
	require.NoError(t, err)
	require.NotNil(t, p.ImagePublicID)
	assert.Equal(t, "storefront/mug", *p.ImagePublicID)
	assert.Equal(t, 1, store.uploads)
}

func TestCreateUploadFailureCreatesNothing(t *testing.T) {
	svc, repo, store := newTestService()
	store.uploadErr = core.ErrUpstream

	_, err := svc.Create(context.Background(), validRequest("Mug"),
		&Image{Reader: strings.NewReader("png"), Filename: "mug.png"})
	assert.ErrorIs(t, err, core.ErrUpstream)
	assert.Empty(t, repo.rows)
}

func TestCreateDuplicateNameDiscardsUpload(t *testing.T) {
	svc, _, store := newTestService()
	ctx := context.Background()

	_, err := svc.Create(ctx, validRequest("Mug"), nil)
	require.NoError(t, err)

	_, err = svc.Create(ctx, validRequest("Mug"),
		&Image{Reader: strings.NewReader("png"), Filename: "dup.png"})
	appErr := core.ToAppError(err)
	assert.Equal(t, 400, appErr.StatusCode)
	assert.Equal(t, []string{"storefront/dup"}, store.discarded)
}

func TestBulkCreateIsAllOrNothing(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Create(ctx, validRequest("Existing"), nil)
	require.NoError(t, err)

	_, err = svc.BulkCreate(ctx, []CreateProductRequest{
		validRequest("Fresh"),
		validRequest("Existing"),
	})
	assert.Equal(t, 400, core.ToAppError(err).StatusCode)
	assert.Len(t, repo.rows, 1)

	created, err := svc.BulkCreate(ctx, []CreateProductRequest{
		validRequest("Fresh"),
		validRequest("Other"),
	})
	require.NoError(t, err)
	assert.Len(t, created, 2)
	assert.Len(t, repo.rows, 3)
}

func TestBulkCreateRejectsEmptyList(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.BulkCreate(context.Background(), nil)
	assert.Equal(t, 400, core.ToAppError(err).StatusCode)
}

func TestSoftDeletedProductsAreHidden(t *testing.T) {
	svc, _, store := newTestService()
	ctx := context.Background()

	keep, err := svc.Create(ctx, validRequest("Keep"), nil)
	require.NoError(t, err)
	gone, err := svc.Create(ctx, validRequest("Gone"),
		&Image{Reader: strings.NewReader("png"), Filename: "gone.png"})
	require.NoError(t, err)

	_, err = svc.SoftDelete(ctx, gone.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"storefront/gone"}, store.discarded)

	list, total, err := svc.List(ctx, ListProductsParams{})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, keep.ID, list[0].ID)

	_, err = svc.Get(ctx, gone.ID)
	assert.Equal(t, 404, core.ToAppError(err).StatusCode)

	_, err = svc.Update(ctx, gone.ID, UpdateProductRequest{Stock: intPtr(3)}, nil)
	assert.Equal(t, 404, core.ToAppError(err).StatusCode)

	_, err = svc.DecrementStock(ctx, gone.ID, 1)
	assert.Equal(t, 404, core.ToAppError(err).StatusCode)
}

func TestRestore(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	p, err := svc.Create(ctx, validRequest("Lamp"), nil)
	require.NoError(t, err)

	_, err = svc.Restore(ctx, p.ID)
	assert.Equal(t, 404, core.ToAppError(err).StatusCode, "restoring an active product")

	_, err = svc.SoftDelete(ctx, p.ID)
	require.NoError(t, err)

	restored, err := svc.Restore(ctx, p.ID)
	require.NoError(t, err)
	assert.False(t, restored.IsDeleted())

	_, err = svc.Get(ctx, p.ID)
	assert.NoError(t, err)
}

func TestUpdateReplacesImageAfterWrite(t *testing.T) {
	svc, repo, store := newTestService()
	ctx := context.Background()

	p, err := svc.Create(ctx, validRequest("Mug"),
		&Image{Reader: strings.NewReader("png"), Filename: "old.png"})
	require.NoError(t, err)

	t.Run("write failure keeps old image", func(t *testing.T) {
		repo.failNext = errors.New("connection reset")

		_, err := svc.Update(ctx, p.ID, UpdateProductRequest{},
			&Image{Reader: strings.NewReader("png"), Filename: "new.png"})
		require.Error(t, err)
		assert.Equal(t, []string{"storefront/new"}, store.discarded)

		current, _ := repo.GetByID(ctx, p.ID)
		assert.Equal(t, "storefront/old", *current.ImagePublicID)
	})

	t.Run("success discards previous image", func(t *testing.T) {
		store.discarded = nil
		price := decimal.RequireFromString("24.5")

		updated, err := svc.Update(ctx, p.ID, UpdateProductRequest{Price: &price},
			&Image{Reader: strings.NewReader("png"), Filename: "new.png"})
		require.NoError(t, err)
		assert.Equal(t, "storefront/new", *updated.ImagePublicID)
		assert.True(t, updated.Price.Equal(price))
		assert.Equal(t, []string{"storefront/old"}, store.discarded)
	})
}

func TestUpdateLeavesUnsetFields(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	req := validRequest("Mug")
	req.Stock = intPtr(7)
	p, err := svc.Create(ctx, req, nil)
	require.NoError(t, err)

	name := "Big Mug"
	updated, err := svc.Update(ctx, p.ID, UpdateProductRequest{Name: &name}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Big Mug", updated.Name)
	assert.Equal(t, 7, updated.Stock)
	assert.Equal(t, p.Description, updated.Description)
}

func TestUpdateKeepsConcurrentDecrement(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	req := validRequest("Mug")
	req.Stock = intPtr(7)
	p, err := svc.Create(ctx, req, nil)
	require.NoError(t, err)

	repo.concurrent = func(m *memRepo) {
		row := m.rows[p.ID]
		row.Stock -= 3
		m.rows[p.ID] = row
	}

	name := "Big Mug"
	updated, err := svc.Update(ctx, p.ID, UpdateProductRequest{Name: &name}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Big Mug", updated.Name)
	assert.Equal(t, 4, updated.Stock)
	assert.Equal(t, 4, repo.rows[p.ID].Stock)
	assert.Equal(t, "Big Mug", repo.rows[p.ID].Name)
}

func TestUpdateRacingDecrementsLosesNothing(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	req := validRequest("Mug")
	req.Stock = intPtr(40)
	p, err := svc.Create(ctx, req, nil)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := svc.DecrementStock(ctx, p.ID, 1)
			assert.NoError(t, err)
		}()
		go func(i int) {
			defer wg.Done()
			desc := fmt.Sprintf("A sturdy product described at length, revision %d.", i)
			_, err := svc.Update(ctx, p.ID, UpdateProductRequest{Description: &desc}, nil)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 20, repo.rows[p.ID].Stock)
}

func TestDecrementStock(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	req := validRequest("Mug")
	req.Stock = intPtr(5)
	p, err := svc.Create(ctx, req, nil)
	require.NoError(t, err)

	t.Run("insufficient stock leaves stock unchanged", func(t *testing.T) {
		_, err := svc.DecrementStock(ctx, p.ID, 6)
		assert.ErrorIs(t, err, core.ErrInsufficientStock)
		assert.Equal(t, "insufficient stock", core.ToAppError(err).Message)
		assert.Equal(t, 5, repo.rows[p.ID].Stock)
	})

	t.Run("non positive quantity", func(t *testing.T) {
		for _, q := range []int{0, -2} {
			_, err := svc.DecrementStock(ctx, p.ID, q)
			assert.Equal(t, 400, core.ToAppError(err).StatusCode)
		}
		assert.Equal(t, 5, repo.rows[p.ID].Stock)
	})

	t.Run("decrements", func(t *testing.T) {
		updated, err := svc.DecrementStock(ctx, p.ID, 5)
		require.NoError(t, err)
		assert.Equal(t, 0, updated.Stock)
	})

	t.Run("unknown product", func(t *testing.T) {
		_, err := svc.DecrementStock(ctx, "00000000-0000-4000-8000-000000000000", 1)
		assert.Equal(t, 404, core.ToAppError(err).StatusCode)
	})
}
