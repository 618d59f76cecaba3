package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func drivers(t *testing.T) map[string]Storage {
	_, client := setupTestRedis(t)
	return map[string]Storage{
		"memory": NewMemory(),
		"file":   NewFile(filepath.Join(t.TempDir(), "profile", "customer.json")),
		"redis":  NewRedis(client, "customer"),
	}
}

func TestDrivers_Contract(t *testing.T) {
	ctx := context.Background()

	for name, s := range drivers(t) {
		s := s
		t.Run(name, func(t *testing.T) {
			_, ok, err := s.Get(ctx, "access_token")
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, s.Set(ctx, "access_token", "a"))
			require.NoError(t, s.Set(ctx, "username", "asha"))
			require.NoError(t, s.Set(ctx, "access_token", "b"))

			v, ok, err := s.Get(ctx, "access_token")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, "b", v)

			require.NoError(t, s.Delete(ctx, "access_token", "username", "never_set"))
			_, ok, err = s.Get(ctx, "username")
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, s.Delete(ctx))
		})
	}
}

func TestRedis_Namespacing(t *testing.T) {
	mr, client := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, NewRedis(client, "admin").Set(ctx, "token", "x"))

	got, err := mr.Get("martclient:admin:token")
	require.NoError(t, err)
	assert.Equal(t, "x", got)

	_, ok, err := NewRedis(client, "seller").Get(ctx, "token")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFile_PersistsAcrossInstances(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "s.json")

	require.NoError(t, NewFile(path).Set(ctx, "user_id", "42"))

	v, ok, err := NewFile(path).Get(ctx, "user_id")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "42", v)
}

func TestFile_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s.json")
	require.NoError(t, os.WriteFile(path, []byte("{nope"), 0o600))

	_, _, err := NewFile(path).Get(context.Background(), "k")
	require.Error(t, err)
}

func TestNew(t *testing.T) {
	_, client := setupTestRedis(t)

	tests := []struct {
		name    string
		typ     Type
		opts    []Option
		wantErr error
	}{
		{name: "memory", typ: TypeMemory},
		{name: "default", typ: ""},
		{name: "file", typ: TypeFile, opts: []Option{WithPath(filepath.Join(t.TempDir(), "x.json"))}},
		{name: "file without path", typ: TypeFile, wantErr: ErrInvalidConfig},
		{name: "redis", typ: TypeRedis, opts: []Option{WithRedisClient(client), WithNamespace("delivery")}},
		{name: "redis without client", typ: TypeRedis, wantErr: ErrInvalidConfig},
		{name: "unknown", typ: "s3", wantErr: ErrInvalidType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New(tt.typ, tt.opts...)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, s)
		})
	}
}
