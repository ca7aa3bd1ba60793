package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hamnakhalid/kitchenia-backend/pkg/config"
	pkgerrors "github.com/hamnakhalid/kitchenia-backend/pkg/errors"
	"github.com/hamnakhalid/kitchenia-backend/pkg/logger"
	"github.com/hamnakhalid/kitchenia-backend/pkg/redis"
)

type storage interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// Store is the durable cart keyed by cart id. Every mutation persists the
// whole snapshot and publishes a change event.
type Store struct {
	storage     storage
	broadcaster *Broadcaster
	logg        *logger.Logger
	namespace   string
	ttl         time.Duration
}

// NewStore builds a cart store on top of the provided storage.
func NewStore(store storage, broadcaster *Broadcaster, cfg config.CartConfig, logg *logger.Logger) (*Store, error) {
	if store == nil {
		return nil, fmt.Errorf("cart storage required")
	}
	if broadcaster == nil {
		broadcaster = NewBroadcaster()
	}
	namespace := strings.TrimSuffix(cfg.KeyNamespace, ":")
	if namespace == "" {
		namespace = "kitchenia:cart"
	}
	return &Store{
		storage:     store,
		broadcaster: broadcaster,
		logg:        logg,
		namespace:   namespace,
		ttl:         cfg.TTL,
	}, nil
}

// Broadcaster exposes the change feed for observers.
func (s *Store) Broadcaster() *Broadcaster {
	return s.broadcaster
}

// Add inserts the item or merges quantities when it is already present.
func (s *Store) Add(ctx context.Context, cartID string, item ItemRef, quantity int) error {
	if err := validateCartID(cartID); err != nil {
		return err
	}
	if item.ID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "item id required")
	}
	if quantity <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	snapshot, err := s.load(ctx, cartID)
	if err != nil {
		return err
	}

	merged := false
	for i := range snapshot.Entries {
		if snapshot.Entries[i].ItemID == item.ID {
			snapshot.Entries[i].Quantity += quantity
			merged = true
			break
		}
	}
	if !merged {
		snapshot.Entries = append(snapshot.Entries, Entry{
			ItemID:   item.ID,
			Name:     item.Name,
			Price:    item.Price,
			ImageURL: item.ImageURL,
			Quantity: quantity,
		})
	}
	return s.persist(ctx, cartID, snapshot)
}

// SetQuantity overwrites an entry's quantity; zero or less removes it.
func (s *Store) SetQuantity(ctx context.Context, cartID string, itemID uuid.UUID, quantity int) error {
	if err := validateCartID(cartID); err != nil {
		return err
	}
	if quantity <= 0 {
		return s.Remove(ctx, cartID, itemID)
	}

	snapshot, err := s.load(ctx, cartID)
	if err != nil {
		return err
	}
	for i := range snapshot.Entries {
		if snapshot.Entries[i].ItemID == itemID {
			snapshot.Entries[i].Quantity = quantity
			return s.persist(ctx, cartID, snapshot)
		}
	}
	// An item that was never added is ignored; nothing to persist or announce.
	return nil
}

// Remove deletes the entry if present; removing an absent item is a no-op.
func (s *Store) Remove(ctx context.Context, cartID string, itemID uuid.UUID) error {
	if err := validateCartID(cartID); err != nil {
		return err
	}

	snapshot, err := s.load(ctx, cartID)
	if err != nil {
		return err
	}
	kept := snapshot.Entries[:0]
	for _, entry := range snapshot.Entries {
		if entry.ItemID != itemID {
			kept = append(kept, entry)
		}
	}
	snapshot.Entries = kept
	return s.persist(ctx, cartID, snapshot)
}

// Clear empties the cart.
func (s *Store) Clear(ctx context.Context, cartID string) error {
	if err := validateCartID(cartID); err != nil {
		return err
	}
	if err := s.storage.Del(ctx, s.key(cartID)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
	}
	s.broadcaster.Publish(Event{CartID: cartID})
	return nil
}

// List returns the current snapshot.
func (s *Store) List(ctx context.Context, cartID string) (Snapshot, error) {
	if err := validateCartID(cartID); err != nil {
		return Snapshot{}, err
	}
	return s.load(ctx, cartID)
}

// TotalCount returns the summed quantity across the cart.
func (s *Store) TotalCount(ctx context.Context, cartID string) (int, error) {
	snapshot, err := s.List(ctx, cartID)
	if err != nil {
		return 0, err
	}
	return snapshot.TotalCount(), nil
}

// TotalValue returns the summed quantity times price across the cart.
func (s *Store) TotalValue(ctx context.Context, cartID string) (int, error) {
	snapshot, err := s.List(ctx, cartID)
	if err != nil {
		return 0, err
	}
	return snapshot.TotalValue(), nil
}

func (s *Store) key(cartID string) string {
	return s.namespace + ":" + cartID
}

func (s *Store) load(ctx context.Context, cartID string) (Snapshot, error) {
	raw, err := s.storage.Get(ctx, s.key(cartID))
	if err != nil {
		if redis.IsNil(err) {
			return Snapshot{}, nil
		}
		return Snapshot{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}

	var snapshot Snapshot
	if err := json.Unmarshal([]byte(raw), &snapshot); err != nil {
		// Corrupt blobs read as an empty cart rather than wedging the
		// customer; the next mutation overwrites them.
		if s.logg != nil {
			s.logg.Warn(s.logg.WithCartID(ctx, cartID), "discarding corrupt cart blob")
		}
		return Snapshot{}, nil
	}
	return snapshot, nil
}

func (s *Store) persist(ctx context.Context, cartID string, snapshot Snapshot) error {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode cart")
	}
	if err := s.storage.Set(ctx, s.key(cartID), string(payload), s.ttl); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist cart")
	}
	s.broadcaster.Publish(Event{
		CartID:     cartID,
		TotalCount: snapshot.TotalCount(),
		TotalValue: snapshot.TotalValue(),
	})
	return nil
}

func validateCartID(cartID string) error {
	if strings.TrimSpace(cartID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart id required")
	}
	return nil
}
