package zlog

import (
	"testing"

	"github.com/maximecaron/zlog/pkg/logstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreCommitAndReadBack(t *testing.T) {
	store := Open(logstore.NewMemLog(0), nil)

	it := store.Begin()
	it.Put([]byte("b"), []byte("1"))
	it.Put([]byte("a"), []byte("2"))
	it.Put([]byte("c"), []byte("3"))

	pos, err := store.Commit(it)
	require.NoError(t, err)
	assert.Equal(t, logstore.CSN(1), pos)
	assert.Equal(t, logstore.CSN(1), store.CurrentCSN())

	for k, v := range map[string]string{"a": "2", "b": "1", "c": "3"} {
		got, ok := Get(store.live.Root, []byte(k))
		require.True(t, ok, "key %s missing", k)
		assert.Equal(t, v, string(got))
	}
}

func TestStoreChainedCommitsResolveFromLog(t *testing.T) {
	store := Open(logstore.NewMemLog(0), nil)

	it1 := store.Begin()
	for _, k := range []string{"a", "b", "c", "d", "e"} {
		it1.Put([]byte(k), []byte(k))
	}
	_, err := store.Commit(it1)
	require.NoError(t, err)

	it2 := store.Begin()
	it2.Put([]byte("c"), []byte("X"))
	it2.Delete([]byte("e"))
	pos2, err := store.Commit(it2)
	require.NoError(t, err)

	// Resolve purely from the log, bypassing the in-process live cache,
	// to exercise the foreign-edge chain across two committed blobs.
	snap, err := store.Resolver().Snapshot(pos2)
	require.NoError(t, err)

	want := map[string]string{"a": "a", "b": "b", "c": "X", "d": "d"}
	for k, v := range want {
		got, ok := Get(snap.Root, []byte(k))
		require.True(t, ok, "key %s missing", k)
		assert.Equal(t, v, string(got))
	}
	_, ok := Get(snap.Root, []byte("e"))
	assert.False(t, ok, "deleted key e should not resolve")
}

func TestBeginAtHistoricalSnapshot(t *testing.T) {
	store := Open(logstore.NewMemLog(0), nil)

	it1 := store.Begin()
	it1.Put([]byte("a"), []byte("1"))
	pos1, err := store.Commit(it1)
	require.NoError(t, err)

	it2 := store.Begin()
	it2.Put([]byte("b"), []byte("2"))
	_, err = store.Commit(it2)
	require.NoError(t, err)

	historical, err := store.BeginAt(pos1)
	require.NoError(t, err)

	_, ok := Get(historical.Root(), []byte("b"))
	assert.False(t, ok, "historical snapshot should not see a later key")

	got, ok := Get(historical.Root(), []byte("a"))
	require.True(t, ok)
	assert.Equal(t, "1", string(got))
}
