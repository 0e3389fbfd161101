package migrate

import (
	"testing"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureSchema_Idempotent(t *testing.T) {
	db, err := sqlx.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, EnsureSchema(db))
	require.NoError(t, EnsureSchema(db))

	var n int
	require.NoError(t, db.Get(&n, `SELECT COUNT(*) FROM casaroes`))
	assert.Equal(t, 0, n)
}

func TestEnsureSchema_UnknownDriver(t *testing.T) {
	db := sqlx.NewDb(nil, "oracle")
	assert.Error(t, EnsureSchema(db))
}

func TestSchemasCoverDrivers(t *testing.T) {
	for _, d := range []string{"postgres", "mysql", "sqlite3"} {
		assert.NotEmpty(t, schemas[d], d)
	}
}
