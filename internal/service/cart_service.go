package service

import (
	"context"
	"errors"
	"sync"

	"github.com/mkolchin/shopcart/internal/domain/entity"
	"github.com/mkolchin/shopcart/internal/platform/logger"
	"github.com/mkolchin/shopcart/internal/repository"
)

const defaultStorageKey = "cart:state"

// Failure messages surfaced through the notifier channel. These are the
// only user-visible strings the engine ever emits.
const (
	MsgQuotaExceeded   = "requested quantity exceeds stock"
	MsgAddFailed       = "could not add product"
	MsgRemoveFailed    = "could not remove product"
	MsgSetAmountFailed = "could not change product quantity"
)

// Observer receives a fresh snapshot after every successful mutation.
// Calls are fire-and-forget; the engine ignores whatever observers do.
type Observer interface {
	CartUpdated(items []entity.LineItem)
}

// Notifier receives the short human-readable message for every rejected or
// failed mutation. Fire-and-forget, no acknowledgement.
type Notifier interface {
	Failure(message string)
}

// CartService owns the authoritative in-memory cart and is the only path
// through which it mutates. Every mutation validates against live stock,
// persists the new state, and then publishes a snapshot.
type CartService interface {
	Add(ctx context.Context, productID int64) Outcome
	Remove(ctx context.Context, productID int64) Outcome
	SetAmount(ctx context.Context, productID int64, amount int) Outcome
	Snapshot() []entity.LineItem
}

type cartService struct {
	mu         sync.Mutex
	cart       *entity.Cart
	store      repository.CartStore
	inventory  repository.InventoryClient
	log        logger.Logger
	storageKey string
	observers  []Observer
	notifiers  []Notifier
}

type CartServiceConfig struct {
	StorageKey string
	Observers  []Observer
	Notifiers  []Notifier
}

// NewCartService bootstraps the cart from durable storage. An absent,
// malformed, or wrong-version blob degrades to an empty cart; only a
// storage read fault is returned as an error, since the prior state is
// then unknowable.
func NewCartService(
	store repository.CartStore,
	inventory repository.InventoryClient,
	log logger.Logger,
	cfg CartServiceConfig,
) (CartService, error) {
	storageKey := cfg.StorageKey
	if storageKey == "" {
		storageKey = defaultStorageKey
	}

	s := &cartService{
		store:      store,
		inventory:  inventory,
		log:        log,
		storageKey: storageKey,
		observers:  cfg.Observers,
		notifiers:  cfg.Notifiers,
	}

	cart, err := s.bootstrap(context.Background())
	if err != nil {
		return nil, err
	}
	s.cart = cart
	return s, nil
}

func (s *cartService) bootstrap(ctx context.Context) (*entity.Cart, error) {
	data, err := s.store.Read(ctx, s.storageKey)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.log.Debugf("No persisted cart under key %q, starting empty", s.storageKey)
			return entity.NewCart(), nil
		}
		return nil, err
	}

	cart, err := entity.DecodeCart(data)
	if err != nil {
		s.log.Warnf("Discarding unreadable persisted cart: %v", err)
		return entity.NewCart(), nil
	}
	s.log.Infof("Cart restored from storage with %d item(s)", len(cart.Items))
	return cart, nil
}

func (s *cartService) Add(ctx context.Context, productID int64) Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, _ := s.cart.Item(productID)
	currentAmount := 0
	if item != nil {
		currentAmount = item.Amount
	}

	quota, err := s.inventory.StockQuota(ctx, productID)
	if err != nil {
		s.log.Errorf("Stock lookup failed for product %d: %v", productID, err)
		return s.failed(MsgAddFailed)
	}

	candidateAmount := currentAmount + 1
	if candidateAmount > quota {
		s.log.Infof("Add rejected for product %d: want %d, stock %d", productID, candidateAmount, quota)
		return s.rejected(MsgQuotaExceeded)
	}

	next := s.cart.Clone()
	if item != nil {
		if err := next.SetAmount(productID, candidateAmount); err != nil {
			s.log.Errorf("Failed to raise amount for product %d: %v", productID, err)
			return s.failed(MsgAddFailed)
		}
	} else {
		product, err := s.inventory.Product(ctx, productID)
		if err != nil {
			s.log.Errorf("Metadata lookup failed for product %d: %v", productID, err)
			return s.failed(MsgAddFailed)
		}
		if err := next.Append(*product, 1); err != nil {
			s.log.Errorf("Failed to append product %d: %v", productID, err)
			return s.failed(MsgAddFailed)
		}
	}

	return s.commit(ctx, next, MsgAddFailed)
}

func (s *cartService) Remove(ctx context.Context, productID int64) Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.cart.Clone()
	if err := next.Remove(productID); err != nil {
		s.log.Warnf("Remove failed for product %d: %v", productID, err)
		return s.failed(MsgRemoveFailed)
	}

	return s.commit(ctx, next, MsgRemoveFailed)
}

func (s *cartService) SetAmount(ctx context.Context, productID int64, amount int) Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Deliberate guard, not an error: callers drive removal through Remove,
	// never by pushing the amount to zero.
	if amount < 1 {
		return noop()
	}

	quota, err := s.inventory.StockQuota(ctx, productID)
	if err != nil {
		s.log.Errorf("Stock lookup failed for product %d: %v", productID, err)
		return s.failed(MsgSetAmountFailed)
	}
	if amount > quota {
		s.log.Infof("SetAmount rejected for product %d: want %d, stock %d", productID, amount, quota)
		return s.rejected(MsgQuotaExceeded)
	}

	next := s.cart.Clone()
	if err := next.SetAmount(productID, amount); err != nil {
		s.log.Warnf("SetAmount failed for product %d: %v", productID, err)
		return s.failed(MsgSetAmountFailed)
	}

	return s.commit(ctx, next, MsgSetAmountFailed)
}

func (s *cartService) Snapshot() []entity.LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Snapshot()
}

// commit persists the candidate cart and, only once the write has
// succeeded, swaps it in and publishes a snapshot. A write fault leaves the
// previous state authoritative, so storage never holds partial state.
func (s *cartService) commit(ctx context.Context, next *entity.Cart, failureMsg string) Outcome {
	data, err := next.Encode()
	if err != nil {
		s.log.Errorf("Failed to encode cart: %v", err)
		return s.failed(failureMsg)
	}

	if err := s.store.Write(ctx, s.storageKey, data); err != nil {
		s.log.Errorf("Failed to persist cart: %v", err)
		return s.failed(failureMsg)
	}

	s.cart = next
	snapshot := s.cart.Snapshot()
	for _, observer := range s.observers {
		observer.CartUpdated(snapshot)
	}
	return applied()
}

func (s *cartService) rejected(message string) Outcome {
	s.signal(message)
	return Outcome{Status: StatusRejected, Reason: message}
}

func (s *cartService) failed(message string) Outcome {
	s.signal(message)
	return Outcome{Status: StatusFailed, Reason: message}
}

func (s *cartService) signal(message string) {
	for _, notifier := range s.notifiers {
		notifier.Failure(message)
	}
}
