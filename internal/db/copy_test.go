package db

import (
	"context"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCopyFrom_EmptyRows(t *testing.T) {
	n, err := CopyFrom(context.TODO(), nil, "facts", []string{"doc_id", "concept"}, nil)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestCopyFrom_Success(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectCopyFrom(pgx.Identifier{"facts"}, []string{"doc_id", "concept", "value"}).WillReturnResult(3)

	rows := [][]any{
		{"S100TEST", "sales", 1000.0},
		{"S100TEST", "op", 100.0},
		{"S100TEST", "ni", 70.0},
	}
	n, err := CopyFrom(context.Background(), mock, "facts", []string{"doc_id", "concept", "value"}, rows)
	assert.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCopyFrom_Error(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectCopyFrom(pgx.Identifier{"facts"}, []string{"doc_id"}).WillReturnError(fmt.Errorf("copy failed"))

	rows := [][]any{{"S100TEST"}}
	_, err = CopyFrom(context.Background(), mock, "facts", []string{"doc_id"}, rows)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "COPY INTO facts")
	assert.NoError(t, mock.ExpectationsWereMet())
}
