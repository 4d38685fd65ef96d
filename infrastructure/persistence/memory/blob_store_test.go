package memory

import (
	"context"
	"testing"

	"tangle-backend/application/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_AbsentKeyReturnsNilNil(t *testing.T) {
	s := NewBlobStore()

	data, err := s.Get(context.Background(), "missing.json", ports.GetOptions{})

	assert.NoError(t, err)
	assert.Nil(t, data)
}

func TestPutGet_Roundtrip(t *testing.T) {
	s := NewBlobStore()

	ref, err := s.Put(context.Background(), "captures.json", []byte(`[]`), ports.PutOptions{})
	require.NoError(t, err)
	assert.Equal(t, "captures.json", ref)

	data, err := s.Get(context.Background(), "captures.json", ports.GetOptions{})
	require.NoError(t, err)
	assert.Equal(t, []byte(`[]`), data)
}

func TestGet_ReturnsCopy(t *testing.T) {
	s := NewBlobStore()
	_, err := s.Put(context.Background(), "k", []byte("original"), ports.PutOptions{})
	require.NoError(t, err)

	data, err := s.Get(context.Background(), "k", ports.GetOptions{})
	require.NoError(t, err)
	data[0] = 'X'

	again, err := s.Get(context.Background(), "k", ports.GetOptions{})
	require.NoError(t, err)
	assert.Equal(t, []byte("original"), again)
}

func TestDelete_RemovesBlob(t *testing.T) {
	s := NewBlobStore()
	_, err := s.Put(context.Background(), "k", []byte("v"), ports.PutOptions{})
	require.NoError(t, err)

	s.Delete("k")

	data, err := s.Get(context.Background(), "k", ports.GetOptions{})
	assert.NoError(t, err)
	assert.Nil(t, data)
	assert.Equal(t, 0, s.Len())
}
