package store

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	errors "github.com/frahmantamala/org-portal/internal"
	"github.com/frahmantamala/org-portal/internal/core/datamodel/document"
	"github.com/frahmantamala/org-portal/internal/core/events"
)

// Storage keys. The document key can be overridden through config.
const (
	DefaultDocumentKey     = "ipt_demo_v1"
	KeySessionToken        = "auth_token"
	KeyPendingVerification = "unverified_email"
	KeyJustVerified        = "just_verified"
)

// Store owns the live document. Reads return the same pointer until the
// next successful Mutate or Save; callers must not modify it.
type Store struct {
	backend Backend
	key     string
	bus     *events.EventBus
	logger  *slog.Logger

	mu  sync.RWMutex
	doc *document.Document
}

func New(backend Backend, documentKey string, bus *events.EventBus, logger *slog.Logger) *Store {
	if documentKey == "" {
		documentKey = DefaultDocumentKey
	}
	return &Store{
		backend: backend,
		key:     documentKey,
		bus:     bus,
		logger:  logger,
	}
}

// Load reads the persisted document. A missing or unreadable document is
// replaced by the default seed, which is persisted right away.
func (s *Store) Load() (*document.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, found, err := s.backend.Get(s.key)
	if err != nil {
		s.logger.Error("failed to read document", "key", s.key, "error", err)
		return nil, errors.NewInternalError("failed to read document", err)
	}

	if found {
		doc, err := s.loadOrDefault(raw)
		if err != nil {
			return nil, err
		}
		if doc != nil {
			s.doc = doc
			return s.doc, nil
		}
	}

	doc := document.Default()
	if err := s.write(doc); err != nil {
		return nil, err
	}
	s.doc = doc
	s.logger.Info("document seeded", "key", s.key)
	return s.doc, nil
}

// loadOrDefault decodes and migrates raw. It returns nil without error when
// raw cannot be decoded, which tells Load to reseed.
func (s *Store) loadOrDefault(raw string) (*document.Document, error) {
	var doc document.Document
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		s.logger.Warn("persisted document unreadable, reseeding", "key", s.key, "error", err)
		return nil, nil
	}
	if doc.Migrate() {
		s.logger.Info("document migrated", "key", s.key, "version", doc.Version)
		if err := s.write(&doc); err != nil {
			return nil, err
		}
	}
	return &doc, nil
}

// Document returns the live snapshot, loading it on first use.
func (s *Store) Document() *document.Document {
	s.mu.RLock()
	doc := s.doc
	s.mu.RUnlock()
	if doc != nil {
		return doc
	}

	doc, err := s.Load()
	if err != nil {
		// read-only fallback; Mutate reloads and refuses to write over it
		return document.Default()
	}
	return doc
}

// Save persists doc and makes it the live snapshot.
func (s *Store) Save(doc *document.Document) error {
	s.mu.Lock()
	if err := s.write(doc); err != nil {
		s.mu.Unlock()
		return err
	}
	s.doc = doc
	s.mu.Unlock()

	s.publishChanged(doc)
	return nil
}

// Mutate applies fn to a copy of the live document and persists the copy.
// When fn fails nothing is written. When the write fails the previous
// snapshot stays live. A document that cannot be read is never replaced.
func (s *Store) Mutate(fn func(doc *document.Document) error) (*document.Document, error) {
	s.mu.RLock()
	loaded := s.doc != nil
	s.mu.RUnlock()
	if !loaded {
		if _, err := s.Load(); err != nil {
			return nil, err
		}
	}

	s.mu.Lock()
	next := s.doc.Clone()
	if err := fn(next); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	if err := s.write(next); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	s.doc = next
	s.mu.Unlock()

	// handlers re-read the store, so publish outside the lock
	s.publishChanged(next)
	return next, nil
}

// Reset replaces the live document with the default seed.
func (s *Store) Reset() (*document.Document, error) {
	doc := document.Default()
	if err := s.Save(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *Store) Value(key string) (string, error) {
	v, _, err := s.backend.Get(key)
	if err != nil {
		return "", errors.NewInternalError("failed to read value", err)
	}
	return v, nil
}

func (s *Store) SetValue(key, value string) error {
	if err := s.backend.Set(key, value); err != nil {
		s.logger.Error("failed to write value", "key", key, "error", err)
		return errors.NewInternalError("failed to write value", err)
	}
	return nil
}

func (s *Store) ClearValue(key string) error {
	if err := s.backend.Delete(key); err != nil {
		s.logger.Error("failed to clear value", "key", key, "error", err)
		return errors.NewInternalError("failed to clear value", err)
	}
	return nil
}

// ConsumeValue returns the value under key and clears it.
func (s *Store) ConsumeValue(key string) (string, error) {
	v, found, err := s.backend.Get(key)
	if err != nil {
		return "", errors.NewInternalError("failed to read value", err)
	}
	if !found {
		return "", nil
	}
	if err := s.ClearValue(key); err != nil {
		return "", err
	}
	return v, nil
}

func (s *Store) Ping() error {
	return s.backend.Ping()
}

func (s *Store) write(doc *document.Document) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return errors.NewInternalError("failed to encode document", err)
	}
	if err := s.backend.Set(s.key, string(raw)); err != nil {
		s.logger.Error("failed to persist document", "key", s.key, "error", err)
		return errors.NewInternalError("failed to persist document", err)
	}
	return nil
}

func (s *Store) publishChanged(doc *document.Document) {
	if err := s.bus.Publish(context.Background(), events.NewDocumentChangedEvent(doc.Version)); err != nil {
		s.logger.Warn("document change notification failed", "error", err)
	}
}
