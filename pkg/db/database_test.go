package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_EmptyDSN(t *testing.T) {
	_, err := Open(context.Background(), "")
	require.Error(t, err)
}

func TestOpen_SQLiteMemory(t *testing.T) {
	gdb, err := Open(context.Background(), "sqlite:file::memory:")
	require.NoError(t, err)

	var one int
	require.NoError(t, gdb.Raw("SELECT 1").Scan(&one).Error)
	assert.Equal(t, 1, one)
}

func TestDialector(t *testing.T) {
	tests := []struct {
		dsn        string
		wantSQLite bool
		wantName   string
	}{
		{dsn: ":memory:", wantSQLite: true, wantName: "sqlite"},
		{dsn: "sqlite:shop.db", wantSQLite: true, wantName: "sqlite"},
		{dsn: "postgres://u:p@localhost:5432/shop", wantSQLite: false, wantName: "postgres"},
	}
	for _, tt := range tests {
		t.Run(tt.dsn, func(t *testing.T) {
			d, isSQLite := Dialector(tt.dsn)
			assert.Equal(t, tt.wantSQLite, isSQLite)
			assert.Equal(t, tt.wantName, d.Name())
		})
	}
}
