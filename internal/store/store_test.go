package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exerciseStore(t *testing.T, s Store) {
	ctx := context.Background()

	_, err := s.Get(ctx, "challenge_missing")
	assert.True(t, IsNotFound(err))

	require.NoError(t, s.Set(ctx, "challenge_q1", []byte(`{"isCompleted":false}`)))
	value, err := s.Get(ctx, "challenge_q1")
	require.NoError(t, err)
	assert.Equal(t, `{"isCompleted":false}`, string(value))

	require.NoError(t, s.Set(ctx, "challenge_q1", []byte(`{"isCompleted":true}`)))
	value, err = s.Get(ctx, "challenge_q1")
	require.NoError(t, err)
	assert.Equal(t, `{"isCompleted":true}`, string(value))

	require.NoError(t, s.Delete(ctx, "challenge_q1"))
	_, err = s.Get(ctx, "challenge_q1")
	assert.True(t, IsNotFound(err))

	require.NoError(t, s.Delete(ctx, "challenge_q1"))
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	exerciseStore(t, s)
	assert.Equal(t, 0, s.Len())
}

func TestMemoryStore_CopiesValues(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	value := []byte("abc")
	require.NoError(t, s.Set(ctx, "k", value))
	value[0] = 'x'

	got, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))
}

func TestSQLiteStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "challenges.db")
	s, err := NewSQLiteStore(path)
	require.NoError(t, err)
	defer s.Close()

	exerciseStore(t, s)
}

func TestSQLiteStore_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "challenges.db")
	ctx := context.Background()

	s, err := NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, "challenge_q1", []byte(`{"isCompleted":true}`)))
	require.NoError(t, s.Close())

	reopened, err := NewSQLiteStore(path)
	require.NoError(t, err)
	defer reopened.Close()

	value, err := reopened.Get(ctx, "challenge_q1")
	require.NoError(t, err)
	assert.Equal(t, `{"isCompleted":true}`, string(value))
}
