package cart

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hamnakhalid/kitchenia-backend/pkg/config"
	pkgerrors "github.com/hamnakhalid/kitchenia-backend/pkg/errors"
)

type fakeStorage struct {
	data map[string]string
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{data: make(map[string]string)}
}

func (f *fakeStorage) Get(ctx context.Context, key string) (string, error) {
	value, ok := f.data[key]
	if !ok {
		return "", goredis.Nil
	}
	return value, nil
}

func (f *fakeStorage) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	f.data[key] = value.(string)
	return nil
}

func (f *fakeStorage) Del(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.data, key)
	}
	return nil
}

func newTestStore(t *testing.T) (*Store, *fakeStorage) {
	t.Helper()
	storage := newFakeStorage()
	store, err := NewStore(storage, NewBroadcaster(), config.CartConfig{KeyNamespace: "kitchenia:cart", TTL: time.Hour}, nil)
	require.NoError(t, err)
	return store, storage
}

func karahi() ItemRef {
	return ItemRef{ID: uuid.New(), Name: "Chicken Karahi", Price: 350}
}

func TestAddMergesQuantities(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	item := karahi()

	require.NoError(t, store.Add(ctx, "cart-1", item, 2))
	require.NoError(t, store.Add(ctx, "cart-1", item, 1))

	snapshot, err := store.List(ctx, "cart-1")
	require.NoError(t, err)
	require.Len(t, snapshot.Entries, 1)
	assert.Equal(t, 3, snapshot.Entries[0].Quantity)
	assert.Equal(t, 350, snapshot.Entries[0].Price)
}

func TestAddValidatesInput(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	err := store.Add(ctx, "", karahi(), 1)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())

	err = store.Add(ctx, "cart-1", ItemRef{}, 1)
	require.Error(t, err)

	err = store.Add(ctx, "cart-1", karahi(), 0)
	require.Error(t, err)
}

func TestSetQuantityZeroRemoves(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	item := karahi()

	require.NoError(t, store.Add(ctx, "cart-1", item, 2))
	require.NoError(t, store.SetQuantity(ctx, "cart-1", item.ID, 0))

	count, err := store.TotalCount(ctx, "cart-1")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestSetQuantityOverwrites(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	item := karahi()

	require.NoError(t, store.Add(ctx, "cart-1", item, 2))
	require.NoError(t, store.SetQuantity(ctx, "cart-1", item.ID, 5))

	snapshot, err := store.List(ctx, "cart-1")
	require.NoError(t, err)
	require.Len(t, snapshot.Entries, 1)
	assert.Equal(t, 5, snapshot.Entries[0].Quantity)

}

func TestSetQuantityUnknownItemIsNoop(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	item := karahi()

	require.NoError(t, store.Add(ctx, "cart-1", item, 2))

	events, cancel := store.Broadcaster().Subscribe()
	defer cancel()

	require.NoError(t, store.SetQuantity(ctx, "cart-1", uuid.New(), 5))

	snapshot, err := store.List(ctx, "cart-1")
	require.NoError(t, err)
	require.Len(t, snapshot.Entries, 1)
	assert.Equal(t, 2, snapshot.Entries[0].Quantity)

	select {
	case <-events:
		t.Fatal("no change event expected for an untouched cart")
	default:
	}
}

func TestRemoveAbsentItemIsNoop(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	item := karahi()

	require.NoError(t, store.Add(ctx, "cart-1", item, 1))
	require.NoError(t, store.Remove(ctx, "cart-1", uuid.New()))

	snapshot, err := store.List(ctx, "cart-1")
	require.NoError(t, err)
	assert.Len(t, snapshot.Entries, 1)
}

func TestClearEmptiesCart(t *testing.T) {
	store, storage := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Add(ctx, "cart-1", karahi(), 2))
	require.NoError(t, store.Clear(ctx, "cart-1"))

	assert.Empty(t, storage.data)
	snapshot, err := store.List(ctx, "cart-1")
	require.NoError(t, err)
	assert.Empty(t, snapshot.Entries)
}

func TestTotals(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	naan := ItemRef{ID: uuid.New(), Name: "Naan", Price: 250}
	require.NoError(t, store.Add(ctx, "cart-1", karahi(), 2))
	require.NoError(t, store.Add(ctx, "cart-1", naan, 1))

	count, err := store.TotalCount(ctx, "cart-1")
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	value, err := store.TotalValue(ctx, "cart-1")
	require.NoError(t, err)
	assert.Equal(t, 950, value)
}

func TestCorruptBlobReadsAsEmptyCart(t *testing.T) {
	store, storage := newTestStore(t)
	ctx := context.Background()

	storage.data["kitchenia:cart:cart-1"] = "{not json"

	snapshot, err := store.List(ctx, "cart-1")
	require.NoError(t, err)
	assert.Empty(t, snapshot.Entries)

	// Next mutation overwrites the corrupt blob.
	require.NoError(t, store.Add(ctx, "cart-1", karahi(), 1))
	count, err := store.TotalCount(ctx, "cart-1")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestMissingKeyIsEmptyCart(t *testing.T) {
	store, _ := newTestStore(t)

	snapshot, err := store.List(context.Background(), "never-seen")
	require.NoError(t, err)
	assert.Empty(t, snapshot.Entries)
}

func TestMutationsBroadcast(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	events, cancel := store.Broadcaster().Subscribe()
	defer cancel()

	require.NoError(t, store.Add(ctx, "cart-1", karahi(), 2))

	select {
	case event := <-events:
		assert.Equal(t, "cart-1", event.CartID)
		assert.Equal(t, 2, event.TotalCount)
		assert.Equal(t, 700, event.TotalValue)
	default:
		t.Fatal("expected a change event")
	}
}

func TestBroadcasterCancelStopsDelivery(t *testing.T) {
	broadcaster := NewBroadcaster()
	events, cancel := broadcaster.Subscribe()
	cancel()

	broadcaster.Publish(Event{CartID: "cart-1"})

	if _, open := <-events; open {
		t.Fatal("expected channel to be closed after cancel")
	}
}

func TestPublishNeverBlocks(t *testing.T) {
	broadcaster := NewBroadcaster()
	events, cancel := broadcaster.Subscribe()
	defer cancel()

	for i := 0; i < subscriberBuffer*2; i++ {
		broadcaster.Publish(Event{CartID: "cart-1"})
	}
	// Buffer holds the first subscriberBuffer events; the rest were dropped.
	drained := 0
	for {
		select {
		case <-events:
			drained++
			continue
		default:
		}
		break
	}
	assert.Equal(t, subscriberBuffer, drained)
}
