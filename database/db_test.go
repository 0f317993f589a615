package database

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountCollectionEmbeddings(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT to_regclass\(\$1\) IS NOT NULL`).
		WithArgs("langchain_pg_embedding").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM langchain_pg_embedding e\s+JOIN langchain_pg_collection c`).
		WithArgs("travel_tips").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(42))

	n, err := CountCollectionEmbeddings(context.Background(), db, "travel_tips")
	require.NoError(t, err)
	assert.Equal(t, 42, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCountCollectionEmbeddingsBeforeFirstBuild(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT to_regclass`).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	n, err := CountCollectionEmbeddings(context.Background(), db, "travel_tips")
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCountCollectionEmbeddingsError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT to_regclass`).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery(`SELECT COUNT`).WillReturnError(errors.New("connection reset"))

	_, err = CountCollectionEmbeddings(context.Background(), db, "travel_tips")
	assert.ErrorContains(t, err, "count travel_tips embeddings")
}
