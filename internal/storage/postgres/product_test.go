package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vzdolci/catalog/internal/domain/product"
)

var productCols = []string{
	"id", "name", "description", "price_cents", "ingredients",
	"story", "emoji", "slug", "is_active", "created_at", "updated_at",
}

func ptr[T any](v T) *T { return &v }

var seededAt = time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)

func newMockRepo(t *testing.T) (*ProductRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewProductRepository(mock), mock
}

func kremsnitaRow(rows *pgxmock.Rows) *pgxmock.Rows {
	return rows.AddRow(
		int64(1), "Kremšnita", ptr("Vanilla custard slice"), ptr(int64(350)),
		ptr("puff pastry, custard"), (*string)(nil), ptr("🍰"), ptr("kremsnita"),
		true, seededAt, seededAt,
	)
}

func caramelRow(rows *pgxmock.Rows) *pgxmock.Rows {
	return rows.AddRow(
		int64(2), "Salted Caramel", (*string)(nil), ptr(int64(420)),
		(*string)(nil), (*string)(nil), (*string)(nil), ptr("salted-caramel"),
		false, seededAt, seededAt,
	)
}

func TestProductRepository_FindAll(t *testing.T) {
	repo, mock := newMockRepo(t)

	rows := caramelRow(kremsnitaRow(pgxmock.NewRows(productCols)))
	mock.ExpectQuery(`SELECT .+ FROM products ORDER BY id`).WillReturnRows(rows)

	products, err := repo.FindAll(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2)

	assert.Equal(t, int64(1), products[0].ID)
	assert.Equal(t, "Kremšnita", products[0].Name)
	assert.Equal(t, "3.50", products[0].Price.Decimal.StringFixed(2))
	assert.Equal(t, "Vanilla custard slice", *products[0].Description)
	assert.Nil(t, products[0].Story)
	assert.True(t, products[0].Active)

	assert.Equal(t, int64(2), products[1].ID)
	assert.Nil(t, products[1].Description)
	assert.False(t, products[1].Active)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_FindAll_Empty(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery(`FROM products ORDER BY id`).WillReturnRows(pgxmock.NewRows(productCols))

	products, err := repo.FindAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, products)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_FindActive(t *testing.T) {
	repo, mock := newMockRepo(t)

	rows := kremsnitaRow(pgxmock.NewRows(productCols))
	mock.ExpectQuery(`FROM products WHERE is_active ORDER BY id`).WillReturnRows(rows)

	products, err := repo.FindActive(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, int64(1), products[0].ID)
	assert.True(t, products[0].Active)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_ListQueryFault(t *testing.T) {
	repo, mock := newMockRepo(t)
	fault := errors.New("connection refused")
	mock.ExpectQuery(`FROM products`).WillReturnError(fault)

	_, err := repo.FindAll(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, fault)
	assert.NotErrorIs(t, err, product.ErrNotFound)
	assert.Contains(t, err.Error(), "listing products")
}

func TestProductRepository_FindByID(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		rows := caramelRow(pgxmock.NewRows(productCols))
		mock.ExpectQuery(`FROM products WHERE id = \$1`).WithArgs(int64(2)).WillReturnRows(rows)

		p, err := repo.FindByID(context.Background(), 2)
		require.NoError(t, err)
		assert.Equal(t, int64(2), p.ID)
		assert.Equal(t, "Salted Caramel", p.Name)
		assert.True(t, decimal.RequireFromString("4.20").Equal(p.Price.Decimal))
		assert.False(t, p.Active)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing row maps to ErrNotFound", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectQuery(`FROM products WHERE id = \$1`).WithArgs(int64(99)).
			WillReturnRows(pgxmock.NewRows(productCols))

		p, err := repo.FindByID(context.Background(), 99)
		assert.Nil(t, p)
		assert.ErrorIs(t, err, product.ErrNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("storage fault is wrapped", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		fault := errors.New("timeout")
		mock.ExpectQuery(`FROM products WHERE id = \$1`).WithArgs(int64(1)).WillReturnError(fault)

		_, err := repo.FindByID(context.Background(), 1)
		require.ErrorIs(t, err, fault)
		assert.NotErrorIs(t, err, product.ErrNotFound)
		assert.Contains(t, err.Error(), "getting product 1")
	})
}

func TestProductRepository_FindBySlug(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery(`FROM products WHERE slug = \$1`).WithArgs("kremsnita").
		WillReturnRows(kremsnitaRow(pgxmock.NewRows(productCols)))
	mock.ExpectQuery(`FROM products WHERE slug = \$1`).WithArgs("baklava").
		WillReturnRows(pgxmock.NewRows(productCols))

	p, err := repo.FindBySlug(context.Background(), "kremsnita")
	require.NoError(t, err)
	assert.Equal(t, int64(1), p.ID)

	_, err = repo.FindBySlug(context.Background(), "baklava")
	assert.ErrorIs(t, err, product.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_Save_Insert(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`INSERT INTO products`).
		WithArgs("Orahnjača", pgxmock.AnyArg(), ptr(int64(275)), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), ptr("orahnjaca"), true).
		WillReturnRows(pgxmock.NewRows(productCols).AddRow(
			int64(3), "Orahnjača", (*string)(nil), ptr(int64(275)),
			(*string)(nil), (*string)(nil), (*string)(nil), ptr("orahnjaca"),
			true, seededAt, seededAt,
		))

	saved, err := repo.Save(context.Background(), &product.Product{
		Name:   "Orahnjača",
		Price:  decimal.NewNullDecimal(decimal.RequireFromString("2.75")),
		Slug:   ptr("orahnjaca"),
		Active: true,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), saved.ID)
	assert.Equal(t, "2.75", saved.Price.Decimal.StringFixed(2))
	assert.Equal(t, seededAt, saved.CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_Save_Update(t *testing.T) {
	t.Run("existing row", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		later := seededAt.Add(time.Hour)

		mock.ExpectQuery(`UPDATE products`).
			WithArgs(int64(2), "Salted Caramel", pgxmock.AnyArg(), ptr(int64(450)), pgxmock.AnyArg(),
				pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), true).
			WillReturnRows(pgxmock.NewRows(productCols).AddRow(
				int64(2), "Salted Caramel", (*string)(nil), ptr(int64(450)),
				(*string)(nil), (*string)(nil), (*string)(nil), ptr("salted-caramel"),
				true, seededAt, later,
			))

		saved, err := repo.Save(context.Background(), &product.Product{
			ID:     2,
			Name:   "Salted Caramel",
			Price:  decimal.NewNullDecimal(decimal.RequireFromString("4.50")),
			Slug:   ptr("salted-caramel"),
			Active: true,
		})
		require.NoError(t, err)
		assert.True(t, saved.Active)
		assert.Equal(t, later, saved.UpdatedAt)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing row maps to ErrNotFound", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		anyArgs := make([]any, 9)
		for i := range anyArgs {
			anyArgs[i] = pgxmock.AnyArg()
		}
		mock.ExpectQuery(`UPDATE products`).WithArgs(anyArgs...).WillReturnRows(pgxmock.NewRows(productCols))

		_, err := repo.Save(context.Background(), &product.Product{ID: 77, Name: "Ghost"})
		assert.ErrorIs(t, err, product.ErrNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestProductRepository_Save_RejectsInvalid(t *testing.T) {
	repo, mock := newMockRepo(t)

	_, err := repo.Save(context.Background(), &product.Product{Name: ""})
	assert.ErrorIs(t, err, product.ErrInvalidName)

	_, err = repo.Save(context.Background(), &product.Product{
		Name:  "Refund",
		Price: decimal.NewNullDecimal(decimal.RequireFromString("-1")),
	})
	assert.ErrorIs(t, err, product.ErrNegativePrice)

	_, err = repo.Save(context.Background(), &product.Product{
		Name:  "Gold leaf cake",
		Price: decimal.NewNullDecimal(decimal.RequireFromString("184467440737095517.16")),
	})
	assert.ErrorIs(t, err, product.ErrPriceTooLarge)

	_, err = repo.Save(context.Background(), nil)
	assert.ErrorIs(t, err, product.ErrNilProduct)

	// Nothing reached the database.
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_DeleteByID(t *testing.T) {
	t.Run("existing row", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectExec(`DELETE FROM products WHERE id = \$1`).WithArgs(int64(1)).
			WillReturnResult(pgxmock.NewResult("DELETE", 1))

		require.NoError(t, repo.DeleteByID(context.Background(), 1))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing row is not an error", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectExec(`DELETE FROM products WHERE id = \$1`).WithArgs(int64(404)).
			WillReturnResult(pgxmock.NewResult("DELETE", 0))

		require.NoError(t, repo.DeleteByID(context.Background(), 404))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("storage fault is wrapped", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		fault := errors.New("read-only transaction")
		mock.ExpectExec(`DELETE FROM products`).WithArgs(int64(1)).WillReturnError(fault)

		err := repo.DeleteByID(context.Background(), 1)
		require.ErrorIs(t, err, fault)
		assert.Contains(t, err.Error(), "deleting product 1")
	})
}
