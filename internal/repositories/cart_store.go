package repositories

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"booking-storefront/internal/models"

	"github.com/gorilla/sessions"
)

// CartKey is the fixed slot name the in-progress cart lives under,
// whatever the backing store.
const CartKey = "booking_cart"

// CartStore persists the single in-progress cart blob. Save overwrites
// wholesale; Load returns models.ErrCartNotFound when no cart was
// saved or it was cleared.
type CartStore interface {
	Load() (*models.Cart, error)
	Save(cart *models.Cart) error
	Clear() error
}

// MemoryCartStore keeps the cart in memory. Used in tests and for
// callers that manage their own persistence.
type MemoryCartStore struct {
	mu   sync.Mutex
	cart *models.Cart
}

// NewMemoryCartStore creates an empty in-memory cart store
func NewMemoryCartStore() *MemoryCartStore {
	return &MemoryCartStore{}
}

func (s *MemoryCartStore) Load() (*models.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cart == nil {
		return nil, models.ErrCartNotFound
	}
	copied := *s.cart
	return &copied, nil
}

func (s *MemoryCartStore) Save(cart *models.Cart) error {
	if cart == nil {
		return models.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *cart
	s.cart = &copied
	return nil
}

func (s *MemoryCartStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart = nil
	return nil
}

// FileCartStore persists the cart as one JSON file under a fixed name
// in a directory, the local-storage analogue for CLI hosts.
type FileCartStore struct {
	path string
}

// NewFileCartStore creates a store writing to dir/booking_cart.json
func NewFileCartStore(dir string) *FileCartStore {
	return &FileCartStore{path: filepath.Join(dir, CartKey+".json")}
}

func (s *FileCartStore) Load() (*models.Cart, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, models.ErrCartNotFound
		}
		return nil, fmt.Errorf("failed to read cart file: %w", err)
	}

	var cart models.Cart
	if err := json.Unmarshal(raw, &cart); err != nil {
		return nil, fmt.Errorf("failed to decode cart file: %w", err)
	}
	return &cart, nil
}

func (s *FileCartStore) Save(cart *models.Cart) error {
	if cart == nil {
		return models.ErrInvalidInput
	}
	raw, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}
	if err := os.WriteFile(s.path, raw, 0o644); err != nil {
		return fmt.Errorf("failed to write cart file: %w", err)
	}
	return nil
}

func (s *FileCartStore) Clear() error {
	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to clear cart file: %w", err)
	}
	return nil
}

// SessionCartStore keeps the cart as a JSON string inside a gorilla
// session, the slot web hosts use so the selection survives a reload.
// The caller owns saving the session back to the response.
type SessionCartStore struct {
	session *sessions.Session
}

// NewSessionCartStore wraps an existing session
func NewSessionCartStore(session *sessions.Session) *SessionCartStore {
	return &SessionCartStore{session: session}
}

func (s *SessionCartStore) Load() (*models.Cart, error) {
	raw, ok := s.session.Values[CartKey]
	if !ok {
		return nil, models.ErrCartNotFound
	}

	cartJSON, ok := raw.(string)
	if !ok {
		return nil, models.ErrCartNotFound
	}

	var cart models.Cart
	if err := json.Unmarshal([]byte(cartJSON), &cart); err != nil {
		return nil, fmt.Errorf("failed to decode session cart: %w", err)
	}
	return &cart, nil
}

func (s *SessionCartStore) Save(cart *models.Cart) error {
	if cart == nil {
		return models.ErrInvalidInput
	}
	cartJSON, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}
	s.session.Values[CartKey] = string(cartJSON)
	return nil
}

func (s *SessionCartStore) Clear() error {
	delete(s.session.Values, CartKey)
	return nil
}
