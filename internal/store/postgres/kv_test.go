package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/sip/internal/errs"
)

func newDB(t *testing.T) (*DB, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	return &DB{Pool: mock}, mock
}

func TestStore_EnsureSchema(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	s := NewStore(db)

	mock.ExpectExec(regexp.QuoteMeta(createTableSQL)).
		WillReturnResult(pgxmock.NewResult("CREATE TABLE", 0))
	require.NoError(t, s.EnsureSchema(context.Background()))

	mock.ExpectExec(regexp.QuoteMeta(createTableSQL)).
		WillReturnError(errors.New("permission denied"))
	require.ErrorContains(t, s.EnsureSchema(context.Background()), "permission denied")

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_Get(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	s := NewStore(db)
	ctx := context.Background()

	mock.ExpectQuery(regexp.QuoteMeta(selectValueSQL)).
		WithArgs("drinkTracker.v1").
		WillReturnRows(pgxmock.NewRows([]string{"value"}).AddRow(`{"goalMl":2000}`))
	got, err := s.Get(ctx, "drinkTracker.v1")
	require.NoError(t, err)
	require.Equal(t, `{"goalMl":2000}`, got)

	mock.ExpectQuery(regexp.QuoteMeta(selectValueSQL)).
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)
	_, err = s.Get(ctx, "missing")
	require.ErrorIs(t, err, errs.ErrNotFound)

	mock.ExpectQuery(regexp.QuoteMeta(selectValueSQL)).
		WithArgs("broken").
		WillReturnError(errors.New("conn reset"))
	_, err = s.Get(ctx, "broken")
	require.Error(t, err)
	require.NotErrorIs(t, err, errs.ErrNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_Set(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	s := NewStore(db)

	mock.ExpectExec(regexp.QuoteMeta(upsertValueSQL)).
		WithArgs("drinkTracker.v1", `{"goalMl":2500}`).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	require.NoError(t, s.Set(context.Background(), "drinkTracker.v1", `{"goalMl":2500}`))

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_Ping(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	s := NewStore(db)

	require.NoError(t, s.Ping(context.Background()))
}
