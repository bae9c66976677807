package repositories

import (
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextOrderID_FormatsSequenceValue(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	dbMock.ExpectQuery(regexp.QuoteMeta("SELECT nextval('order_id_seq')")).
		WillReturnRows(sqlmock.NewRows([]string{"nextval"}).AddRow(42))

	repo := NewOrderRepository(db)
	id, err := repo.NextOrderID(db)

	require.NoError(t, err)
	assert.Equal(t, "ORD0000042", id)
	require.NoError(t, dbMock.ExpectationsWereMet())
}

func TestAllocateExtraIDs_BatchConsumption(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	// One round trip allocates the whole batch.
	dbMock.ExpectQuery(regexp.QuoteMeta("SELECT nextval('order_extra_id_seq') FROM generate_series(1, $1)")).
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"nextval"}).AddRow(7).AddRow(8).AddRow(9))

	repo := NewOrderRepository(db)
	alloc, err := repo.AllocateExtraIDs(db, 3)
	require.NoError(t, err)

	for _, want := range []string{"extra0000007", "extra0000008", "extra0000009"} {
		got, err := alloc.Next()
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	// A fourth draw exceeds the batch.
	_, err = alloc.Next()
	assert.Error(t, err)
	require.NoError(t, dbMock.ExpectationsWereMet())
}

func TestAllocateExtraIDs_ZeroCountSkipsQuery(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewOrderRepository(db)
	alloc, err := repo.AllocateExtraIDs(db, 0)
	require.NoError(t, err)

	_, err = alloc.Next()
	assert.Error(t, err)
	require.NoError(t, dbMock.ExpectationsWereMet())
}
