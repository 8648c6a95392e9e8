package store

import (
	"encoding/json"
	"fmt"
	"log"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/idilsaglam/shoplist/internal/model"
)

// DefaultKey is the single slot the whole collection lives under.
const DefaultKey = "items"

// KV is the durable get/set primitive the store is built on.
// Get reports ok=false when nothing was stored under key yet.
type KV interface {
	Get(key string) ([]byte, bool, error)
	Set(key string, value []byte) error
}

// Store owns the canonical item collection. Every operation loads the whole
// collection, changes it, and writes the whole collection back; this is fine
// for a personal list and nothing more.
type Store struct {
	mu     sync.Mutex
	kv     KV
	key    string
	newID  func() string
	logger *log.Logger
}

// Option configures a Store built by New.
type Option func(*Store)

// WithIDFunc replaces the id generator (uuid.NewString by default).
func WithIDFunc(f func() string) Option {
	return func(s *Store) { s.newID = f }
}

// WithKey stores the collection under a different key.
func WithKey(key string) Option {
	return func(s *Store) { s.key = key }
}

// WithLogger sets where decode failures and update misses are logged.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// New returns a Store over kv, with uuid ids and log.Default unless overridden.
func New(kv KV, opts ...Option) *Store {
	s := &Store{
		kv:     kv,
		key:    DefaultKey,
		newID:  uuid.NewString,
		logger: log.Default(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// GetAll returns the stored items in insertion order. A missing or
// undecodable blob reads as an empty list; only backend errors are returned.
func (s *Store) GetAll() ([]model.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Get looks up a single item by id.
func (s *Store) Get(id string) (model.Item, bool, error) {
	items, err := s.GetAll()
	if err != nil {
		return model.Item{}, false, err
	}
	if i := indexOf(items, id); i >= 0 {
		return items[i], true, nil
	}
	return model.Item{}, false, nil
}

// Add appends a new item and returns the full list. An empty title is a
// no-op that returns the current list; titles are not trimmed.
func (s *Store) Add(title string) ([]model.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.load()
	if err != nil {
		return nil, err
	}
	if title == "" {
		return items, nil
	}
	items = append(items, model.NewItem(s.newID(), title))
	if err := s.set(items); err != nil {
		return nil, err
	}
	return items, nil
}

// Update replaces the first stored item whose ID matches item.ID. When no
// item matches, the list is written back unchanged.
func (s *Store) Update(item model.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.load()
	if err != nil {
		return err
	}
	if i := indexOf(items, item.ID); i >= 0 {
		items[i] = item
	} else {
		s.logger.Printf("store: update: no item with id %q", item.ID)
	}
	return s.set(items)
}

func (s *Store) load() ([]model.Item, error) {
	b, ok, err := s.kv.Get(s.key)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", s.key, err)
	}
	if !ok {
		return []model.Item{}, nil
	}
	var items []model.Item
	if err := json.Unmarshal(b, &items); err != nil {
		s.logger.Printf("store: discarding undecodable %s blob: %v", s.key, err)
		return []model.Item{}, nil
	}
	if items == nil {
		items = []model.Item{}
	}
	return items, nil
}

func (s *Store) set(items []model.Item) error {
	b, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	if err := s.kv.Set(s.key, b); err != nil {
		return fmt.Errorf("save %s: %w", s.key, err)
	}
	return nil
}

func indexOf(items []model.Item, id string) int {
	return slices.IndexFunc(items, func(it model.Item) bool { return it.ID == id })
}
