package catalogstore

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"sync"

	"github.com/riddaudit/backend/internal/domain"
)

// Store is the file-backed rule catalog: a JSON array of product rule
// entries loaded once at startup and held as shared in-memory state.
// Reads go through deep-copy snapshots; the single writer (AddRule)
// persists the whole file back on every mutation.
type Store struct {
	path     string
	mutex    sync.RWMutex
	entries  []domain.ProductRule
	warnings []string
}

// Load reads the catalog file at path. Malformed array elements (non-object
// entries, entries that fail to decode) are skipped and recorded as
// warnings rather than failing the load; only an unreadable file or a
// top-level shape that is not a JSON array is fatal.
func Load(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
	}

	var rawEntries []json.RawMessage
	if err := json.Unmarshal(data, &rawEntries); err != nil {
		return nil, fmt.Errorf("%w: catalog must be a JSON array: %v", domain.ErrCatalogUnavailable, err)
	}

	store := &Store{path: path}
	for i, raw := range rawEntries {
		var entry domain.ProductRule
		if err := json.Unmarshal(raw, &entry); err != nil {
			warning := fmt.Sprintf("invalid product entry at index %d: %v", i, err)
			log.Printf("[CATALOG] %s", warning)
			store.warnings = append(store.warnings, warning)
			continue
		}
		store.entries = append(store.entries, entry)
	}

	return store, nil
}

// Snapshot returns a deep copy of the catalog entries, safe to evaluate
// against while a concurrent AddRule is in flight.
func (s *Store) Snapshot() []domain.ProductRule {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	snapshot := make([]domain.ProductRule, len(s.entries))
	for i, entry := range s.entries {
		snapshot[i] = entry.Clone()
	}
	return snapshot
}

// Warnings returns the load-time warnings for entries that were skipped.
func (s *Store) Warnings() []string {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return append([]string(nil), s.warnings...)
}

// Size returns the number of usable catalog entries.
func (s *Store) Size() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.entries)
}

// AddRule appends an authored rule for the named product, creating the
// product entry if absent, and persists the updated catalog before
// returning. Mutation and save happen under the write lock so evaluations
// never observe a catalog that is not yet durable.
func (s *Store) AddRule(productName, description, ruleText string, missingApplicationRate bool) error {
	if productName == "" {
		return fmt.Errorf("%w: product name is required", domain.ErrInvalidRequest)
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.entries = domain.AddRule(s.entries, productName, description, ruleText, missingApplicationRate)
	return s.save()
}

// save overwrites the catalog file with the current entries. Caller must
// hold the write lock.
func (s *Store) save() error {
	data, err := json.MarshalIndent(s.entries, "", "    ")
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
	}
	return nil
}
