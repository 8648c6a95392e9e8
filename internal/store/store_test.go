package store

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/shoplist/internal/model"
	"github.com/idilsaglam/shoplist/internal/store/jsonstore"
	"github.com/idilsaglam/shoplist/internal/store/memstore"
)

func seqIDs() func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func newTestStore(t *testing.T, kv KV) *Store {
	t.Helper()
	return New(kv, WithIDFunc(seqIDs()), WithLogger(log.New(io.Discard, "", 0)))
}

func titles(items []model.Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Title)
	}
	return out
}

func TestStore_GetAllEmpty(t *testing.T) {
	s := newTestStore(t, memstore.New())

	items, err := s.GetAll()
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestStore_AddKeepsCallOrderAndDistinctIDs(t *testing.T) {
	s := New(memstore.New(), WithLogger(log.New(io.Discard, "", 0)))

	want := []string{"Milk", "Eggs", "Bread", "Milk"}
	for _, title := range want {
		_, err := s.Add(title)
		require.NoError(t, err)
	}

	items, err := s.GetAll()
	require.NoError(t, err)
	assert.Equal(t, want, titles(items))

	seen := map[string]bool{}
	for _, it := range items {
		assert.NotEmpty(t, it.ID)
		assert.False(t, seen[it.ID], "duplicate id %s", it.ID)
		seen[it.ID] = true
		assert.False(t, it.IsPurchased)
		assert.False(t, it.IsBookmarked)
	}
}

func TestStore_AddReturnsFullList(t *testing.T) {
	s := newTestStore(t, memstore.New())

	_, err := s.Add("Milk")
	require.NoError(t, err)
	items, err := s.Add("Eggs")
	require.NoError(t, err)

	assert.Equal(t, []model.Item{
		{ID: "id-1", Title: "Milk"},
		{ID: "id-2", Title: "Eggs"},
	}, items)
}

func TestStore_AddEmptyTitleIsNoop(t *testing.T) {
	kv := memstore.New()
	s := newTestStore(t, kv)
	_, err := s.Add("Milk")
	require.NoError(t, err)
	before, err := s.GetAll()
	require.NoError(t, err)

	got, err := s.Add("")
	require.NoError(t, err)
	assert.Equal(t, before, got)

	after, err := s.GetAll()
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestStore_AddWhitespaceIsNotEmpty(t *testing.T) {
	s := newTestStore(t, memstore.New())

	items, err := s.Add("  ")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "  ", items[0].Title)
}

func TestStore_AddEmptyOnFreshStoreWritesNothing(t *testing.T) {
	kv := memstore.New()
	s := newTestStore(t, kv)

	items, err := s.Add("")
	require.NoError(t, err)
	assert.Empty(t, items)

	_, ok, err := kv.Get(DefaultKey)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_UpdateChangesOnlyTargetField(t *testing.T) {
	s := newTestStore(t, memstore.New())
	for _, title := range []string{"Milk", "Eggs", "Bread"} {
		_, err := s.Add(title)
		require.NoError(t, err)
	}
	before, err := s.GetAll()
	require.NoError(t, err)

	target := before[1]
	target.IsBookmarked = !target.IsBookmarked
	require.NoError(t, s.Update(target))

	after, err := s.GetAll()
	require.NoError(t, err)
	require.Len(t, after, 3)
	assert.Equal(t, before[0], after[0])
	assert.Equal(t, before[2], after[2])
	assert.Equal(t, before[1].ID, after[1].ID)
	assert.Equal(t, before[1].Title, after[1].Title)
	assert.Equal(t, before[1].IsPurchased, after[1].IsPurchased)
	assert.True(t, after[1].IsBookmarked)
}

func TestStore_UpdateMissingIDIsNoop(t *testing.T) {
	s := newTestStore(t, memstore.New())
	_, err := s.Add("Milk")
	require.NoError(t, err)
	before, err := s.GetAll()
	require.NoError(t, err)

	err = s.Update(model.Item{ID: "nope", Title: "Ghost", IsPurchased: true})
	require.NoError(t, err)

	after, err := s.GetAll()
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestStore_UpdateMissingIDIsLogged(t *testing.T) {
	var buf bytes.Buffer
	s := New(memstore.New(), WithLogger(log.New(&buf, "", 0)))

	require.NoError(t, s.Update(model.Item{ID: "nope"}))
	assert.Contains(t, buf.String(), `no item with id "nope"`)
}

func TestStore_UpdateIsFullOverwrite(t *testing.T) {
	s := newTestStore(t, memstore.New())
	items, err := s.Add("Milk")
	require.NoError(t, err)

	replaced := model.Item{ID: items[0].ID, Title: "Oat milk", IsPurchased: true, IsBookmarked: true}
	require.NoError(t, s.Update(replaced))

	got, ok, err := s.Get(items[0].ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, replaced, got)
}

func TestStore_Get(t *testing.T) {
	s := newTestStore(t, memstore.New())
	_, err := s.Add("Milk")
	require.NoError(t, err)

	it, ok, err := s.Get("id-1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Milk", it.Title)

	_, ok, err = s.Get("id-9")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_UndecodableBlobReadsAsEmpty(t *testing.T) {
	kv := memstore.New()
	require.NoError(t, kv.Set(DefaultKey, []byte("{not json")))
	var buf bytes.Buffer
	s := New(kv, WithIDFunc(seqIDs()), WithLogger(log.New(&buf, "", 0)))

	items, err := s.GetAll()
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Contains(t, buf.String(), "undecodable")

	// The next add starts a fresh collection.
	items, err = s.Add("Milk")
	require.NoError(t, err)
	assert.Equal(t, []string{"Milk"}, titles(items))
}

func TestStore_NullBlobReadsAsEmpty(t *testing.T) {
	kv := memstore.New()
	require.NoError(t, kv.Set(DefaultKey, []byte("null")))
	s := newTestStore(t, kv)

	items, err := s.GetAll()
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestStore_RoundTripAcrossProcesses(t *testing.T) {
	dir := t.TempDir()
	first := newTestStore(t, jsonstore.New(dir))
	for _, title := range []string{"Milk", "Eggs", "Bread"} {
		_, err := first.Add(title)
		require.NoError(t, err)
	}
	items, err := first.GetAll()
	require.NoError(t, err)
	items[0].IsPurchased = true
	items[2].IsBookmarked = true
	require.NoError(t, first.Update(items[0]))
	require.NoError(t, first.Update(items[2]))
	want, err := first.GetAll()
	require.NoError(t, err)

	// A fresh store over the same directory simulates a relaunch.
	second := newTestStore(t, jsonstore.New(dir))
	got, err := second.GetAll()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestStore_WithKey(t *testing.T) {
	kv := memstore.New()
	s := New(kv, WithKey("weekly"), WithIDFunc(seqIDs()))

	_, err := s.Add("Milk")
	require.NoError(t, err)

	_, ok, _ := kv.Get(DefaultKey)
	assert.False(t, ok)
	_, ok, _ = kv.Get("weekly")
	assert.True(t, ok)
}

func TestStore_MilkEggsScenario(t *testing.T) {
	s := New(memstore.New())

	_, err := s.Add("Milk")
	require.NoError(t, err)
	_, err = s.Add("Eggs")
	require.NoError(t, err)

	items, err := s.GetAll()
	require.NoError(t, err)
	require.Equal(t, []string{"Milk", "Eggs"}, titles(items))
	assert.NotEqual(t, items[0].ID, items[1].ID)
	for _, it := range items {
		assert.False(t, it.IsPurchased)
		assert.False(t, it.IsBookmarked)
	}

	milk := items[0]
	milk.IsPurchased = true
	require.NoError(t, s.Update(milk))

	items, err = s.GetAll()
	require.NoError(t, err)
	require.Equal(t, []string{"Milk", "Eggs"}, titles(items))
	assert.True(t, items[0].IsPurchased)
	assert.False(t, items[1].IsPurchased)
}

func TestStore_ConcurrentAddAndUpdate(t *testing.T) {
	s := newTestStore(t, memstore.New())
	seed, err := s.Add("Seed")
	require.NoError(t, err)

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			_, err := s.Add(fmt.Sprintf("item-%d", i))
			assert.NoError(t, err)
		}(i)
		go func(i int) {
			defer wg.Done()
			it := seed[0]
			it.IsPurchased = i%2 == 0
			assert.NoError(t, s.Update(it))
		}(i)
	}
	wg.Wait()

	items, err := s.GetAll()
	require.NoError(t, err)
	assert.Len(t, items, n+1)
}

type brokenKV struct{ err error }

func (b brokenKV) Get(string) ([]byte, bool, error) { return nil, false, b.err }
func (b brokenKV) Set(string, []byte) error         { return b.err }

func TestStore_BackendErrorsPropagate(t *testing.T) {
	boom := errors.New("disk on fire")
	s := newTestStore(t, brokenKV{err: boom})

	_, err := s.GetAll()
	assert.ErrorIs(t, err, boom)

	_, err = s.Add("Milk")
	assert.ErrorIs(t, err, boom)

	err = s.Update(model.Item{ID: "x"})
	assert.ErrorIs(t, err, boom)
}
