package collection

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raggerhq/ragger/internal/log"
)

var errConflict = errors.New("collection already exists")

// fakeIndex tracks collections in memory the way the vector index would.
type fakeIndex struct {
	collections map[string]int // name -> create count
	deletes     []string
	failCreate  error
}

func newFakeIndex() *fakeIndex {
	return &fakeIndex{collections: make(map[string]int)}
}

func (f *fakeIndex) CreateCollection(_ context.Context, name string, dimension int, distance string) error {
	if f.failCreate != nil {
		return f.failCreate
	}
	if _, exists := f.collections[name]; exists {
		return errConflict
	}
	if dimension != VectorDimension || distance != Distance {
		return errors.New("unexpected collection parameters")
	}
	f.collections[name]++
	return nil
}

func (f *fakeIndex) DeleteCollection(_ context.Context, name string) error {
	f.deletes = append(f.deletes, name)
	delete(f.collections, name)
	return nil
}

func TestManager_Create(t *testing.T) {
	idx := newFakeIndex()
	m := NewManager(idx, NewLocks(), log.NewNop())

	name, err := m.Create(context.Background(), "user_2abcdefghijklmnop", "The Great Gatsby!")

	require.NoError(t, err)
	assert.Equal(t, "user_2abcd-the-great-gatsby", name)
	assert.Contains(t, idx.collections, name)
}

func TestManager_Create_Conflict(t *testing.T) {
	idx := newFakeIndex()
	m := NewManager(idx, NewLocks(), log.NewNop())

	_, err := m.Create(context.Background(), "user_2abcdefghij", "notes")
	require.NoError(t, err)

	_, err = m.Create(context.Background(), "user_2abcdefghij", "notes")
	require.Error(t, err)
	assert.ErrorIs(t, err, errConflict)

	// The existing collection must not be deleted or recreated.
	assert.Empty(t, idx.deletes)
	assert.Equal(t, 1, idx.collections["user_2abcd-notes"])
}

func TestManager_Clear(t *testing.T) {
	idx := newFakeIndex()
	m := NewManager(idx, NewLocks(), log.NewNop())

	_, err := m.Create(context.Background(), "user_2abcdefghij", "notes")
	require.NoError(t, err)

	err = m.Clear(context.Background(), "user_2abcd-notes")
	require.NoError(t, err)

	assert.Equal(t, []string{"user_2abcd-notes"}, idx.deletes)
	assert.Contains(t, idx.collections, "user_2abcd-notes")
}

func TestManager_Clear_Idempotent(t *testing.T) {
	idx := newFakeIndex()
	m := NewManager(idx, NewLocks(), log.NewNop())

	require.NoError(t, m.Clear(context.Background(), "c1"))
	require.NoError(t, m.Clear(context.Background(), "c1"))

	// Clearing twice leaves the same empty collection as clearing once.
	assert.Equal(t, 1, idx.collections["c1"])
	assert.Len(t, idx.deletes, 2)
}

func TestLocks_SameNameSharesLock(t *testing.T) {
	locks := NewLocks()

	a := locks.Get("c1")
	b := locks.Get("c1")
	c := locks.Get("c2")

	assert.Same(t, a, b)
	assert.NotSame(t, a, c)
}

func TestLocks_ClearExcludesIngest(t *testing.T) {
	locks := NewLocks()
	lock := locks.Get("c1")

	lock.RLock() // simulate an in-flight ingestion batch
	cleared := make(chan struct{})
	go func() {
		lock.Lock()
		lock.Unlock()
		close(cleared)
	}()

	select {
	case <-cleared:
		t.Fatal("clear acquired the lock while ingestion held it")
	case <-time.After(20 * time.Millisecond):
	}

	lock.RUnlock()
	<-cleared
}
