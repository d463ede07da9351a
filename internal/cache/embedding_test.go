package cache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEntries() map[string]ResumeEntry {
	return map[string]ResumeEntry{
		"a.pdf": {Text: "alpha", Embedding: []float32{1, 0, 0}},
		"b.pdf": {Text: "beta", Embedding: []float32{0, 1, 0}},
	}
}

func TestEmbeddingStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "emb.json")
	store := NewEmbeddingStore(path)

	require.NoError(t, store.Save("model-x", 3, testEntries()))

	loaded := store.Load("model-x", 3)
	require.Len(t, loaded, 2)
	assert.Equal(t, "alpha", loaded["a.pdf"].Text)
	assert.Equal(t, []float32{0, 1, 0}, loaded["b.pdf"].Embedding)
}

func TestEmbeddingStoreMissingFile(t *testing.T) {
	store := NewEmbeddingStore(filepath.Join(t.TempDir(), "missing.json"))

	loaded := store.Load("model-x", 3)
	assert.NotNil(t, loaded)
	assert.Empty(t, loaded)
}

func TestEmbeddingStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "emb.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	store := NewEmbeddingStore(path)
	assert.Empty(t, store.Load("model-x", 3))
}

func TestEmbeddingStoreDiscardsOnModelChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "emb.json")
	store := NewEmbeddingStore(path)
	require.NoError(t, store.Save("model-x", 3, testEntries()))

	assert.Empty(t, store.Load("model-y", 3), "different model discards whole cache")
	assert.Empty(t, store.Load("model-x", 4), "different dimension discards whole cache")
	assert.Len(t, store.Load("model-x", 3), 2, "file untouched until next save")
}

func TestEmbeddingStoreDiscardsOnBadVector(t *testing.T) {
	path := filepath.Join(t.TempDir(), "emb.json")
	store := NewEmbeddingStore(path)

	entries := testEntries()
	entries["short.pdf"] = ResumeEntry{Text: "truncated", Embedding: []float32{1}}
	require.NoError(t, store.Save("model-x", 3, entries))

	// One bad vector poisons similarity math for the whole file, so
	// everything goes, not just the bad entry.
	assert.Empty(t, store.Load("model-x", 3))
}
