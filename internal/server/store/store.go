// Package store is the in-memory data store behind the development admin API.
package store

import (
	"cmp"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrInUse         = errors.New("in use")
)

type Lead struct {
	ID            string
	Name          string
	Email         string
	Phone         string
	FunnelKey     string
	Status        string // status of the lead record itself
	OverallStatus string // aggregated delivery status across routes
	ReceivedAt    time.Time
	RawPayload    json.RawMessage
}

type Destination struct {
	ID      string
	Name    string
	Type    string
	Enabled bool
	Config  json.RawMessage
}

type Funnel struct {
	Key     string
	Name    string
	Enabled bool
}

type Route struct {
	ID            string
	FunnelKey     string
	DestinationID string
	Priority      int
	Enabled       bool
}

type ProviderKey struct {
	Provider string
	APIKey   string
}

// TestDelivery records a test lead sent to a destination
type TestDelivery struct {
	DestinationID string
	SentAt        time.Time
}

// Store holds all records. It is safe for concurrent use.
type Store struct {
	mu           sync.RWMutex
	leads        []Lead // newest first
	destinations map[string]Destination
	funnels      map[string]Funnel
	routes       map[string]Route
	providerKeys map[string]string
	deliveries   []TestDelivery
	now          func() time.Time
}

func New() *Store {
	return &Store{
		destinations: make(map[string]Destination),
		funnels:      make(map[string]Funnel),
		routes:       make(map[string]Route),
		providerKeys: make(map[string]string),
		now:          time.Now,
	}
}

func newID() string {
	return uuid.New().String()
}

// =============================================================================
// LEADS
// =============================================================================

// AddLead stores a lead, assigning an id and receipt time when missing
func (s *Store) AddLead(l Lead) Lead {
	s.mu.Lock()
	defer s.mu.Unlock()

	if l.ID == "" {
		l.ID = newID()
	}
	if l.ReceivedAt.IsZero() {
		l.ReceivedAt = s.now().UTC()
	}
	if len(l.RawPayload) == 0 {
		l.RawPayload = json.RawMessage(`{}`)
	}
	s.leads = append(s.leads, l)
	slices.SortStableFunc(s.leads, func(a, b Lead) int {
		return b.ReceivedAt.Compare(a.ReceivedAt)
	})
	return l
}

// ListLeads returns one page of leads, newest first, and the total number of leads
func (s *Store) ListLeads(limit, offset int) ([]Lead, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := len(s.leads)
	if offset >= total || limit <= 0 {
		return []Lead{}, total
	}
	end := min(offset+limit, total)
	return slices.Clone(s.leads[max(offset, 0):end]), total
}

func (s *Store) GetLead(id string) (Lead, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, l := range s.leads {
		if l.ID == id {
			return l, nil
		}
	}
	return Lead{}, fmt.Errorf("lead %s: %w", id, ErrNotFound)
}

// =============================================================================
// DESTINATIONS
// =============================================================================

func (s *Store) AddDestination(d Destination) Destination {
	s.mu.Lock()
	defer s.mu.Unlock()

	if d.ID == "" {
		d.ID = newID()
	}
	if len(d.Config) == 0 {
		d.Config = json.RawMessage(`{}`)
	}
	s.destinations[d.ID] = d
	return d
}

// ListDestinations returns the destinations ordered by name
func (s *Store) ListDestinations() []Destination {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]Destination, 0, len(s.destinations))
	for _, d := range s.destinations {
		list = append(list, d)
	}
	slices.SortFunc(list, func(a, b Destination) int {
		return cmp.Or(cmp.Compare(a.Name, b.Name), cmp.Compare(a.ID, b.ID))
	})
	return list
}

func (s *Store) GetDestination(id string) (Destination, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.destinations[id]
	if !ok {
		return Destination{}, fmt.Errorf("destination %s: %w", id, ErrNotFound)
	}
	return d, nil
}

// UpdateDestination replaces the type, enabled flag and config of an existing destination
func (s *Store) UpdateDestination(id, destinationType string, enabled bool, config json.RawMessage) (Destination, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.destinations[id]
	if !ok {
		return Destination{}, fmt.Errorf("destination %s: %w", id, ErrNotFound)
	}
	if destinationType != "" {
		d.Type = destinationType
	}
	d.Enabled = enabled
	d.Config = config
	s.destinations[id] = d
	return d, nil
}

// RecordTestDelivery notes that a test lead was sent to the destination
func (s *Store) RecordTestDelivery(id string) (TestDelivery, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.destinations[id]; !ok {
		return TestDelivery{}, fmt.Errorf("destination %s: %w", id, ErrNotFound)
	}
	delivery := TestDelivery{DestinationID: id, SentAt: s.now().UTC()}
	s.deliveries = append(s.deliveries, delivery)
	return delivery, nil
}

// TestDeliveries returns the test deliveries sent so far, oldest first
func (s *Store) TestDeliveries() []TestDelivery {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.deliveries)
}

// =============================================================================
// FUNNELS
// =============================================================================

// ListFunnels returns the funnels ordered by key
func (s *Store) ListFunnels() []Funnel {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]Funnel, 0, len(s.funnels))
	for _, f := range s.funnels {
		list = append(list, f)
	}
	slices.SortFunc(list, func(a, b Funnel) int {
		return cmp.Compare(a.Key, b.Key)
	})
	return list
}

// FunnelExists reports whether key is in use
func (s *Store) FunnelExists(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.funnels[key]
	return ok
}

// CreateFunnel adds a new funnel. The key must not be in use.
func (s *Store) CreateFunnel(f Funnel) (Funnel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.funnels[f.Key]; ok {
		return Funnel{}, fmt.Errorf("funnel %s: %w", f.Key, ErrAlreadyExists)
	}
	s.funnels[f.Key] = f
	return f, nil
}

// PutFunnel creates or replaces the funnel with f.Key. created reports whether it was new.
func (s *Store) PutFunnel(f Funnel) (stored Funnel, created bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, exists := s.funnels[f.Key]
	s.funnels[f.Key] = f
	return f, !exists
}

// DeleteFunnel removes a funnel. Funnels that still have routes can not be deleted.
func (s *Store) DeleteFunnel(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.funnels[key]; !ok {
		return fmt.Errorf("funnel %s: %w", key, ErrNotFound)
	}
	for _, r := range s.routes {
		if r.FunnelKey == key {
			return fmt.Errorf("funnel %s has routes: %w", key, ErrInUse)
		}
	}
	delete(s.funnels, key)
	return nil
}

// =============================================================================
// ROUTES
// =============================================================================

// ListRoutes returns routes ordered by priority, optionally only those of one funnel
func (s *Store) ListRoutes(funnelKey string) []Route {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]Route, 0, len(s.routes))
	for _, r := range s.routes {
		if funnelKey == "" || r.FunnelKey == funnelKey {
			list = append(list, r)
		}
	}
	slices.SortFunc(list, func(a, b Route) int {
		return cmp.Or(
			cmp.Compare(a.FunnelKey, b.FunnelKey),
			cmp.Compare(a.Priority, b.Priority),
			cmp.Compare(a.ID, b.ID),
		)
	})
	return list
}

func (s *Store) checkRouteTargetsLocked(r Route) error {
	if _, ok := s.funnels[r.FunnelKey]; !ok {
		return fmt.Errorf("funnel %s: %w", r.FunnelKey, ErrNotFound)
	}
	if _, ok := s.destinations[r.DestinationID]; !ok {
		return fmt.Errorf("destination %s: %w", r.DestinationID, ErrNotFound)
	}
	return nil
}

// CreateRoute adds a route between an existing funnel and destination
func (s *Store) CreateRoute(r Route) (Route, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkRouteTargetsLocked(r); err != nil {
		return Route{}, err
	}
	if r.ID == "" {
		r.ID = newID()
	}
	s.routes[r.ID] = r
	return r, nil
}

// UpdateRoute replaces an existing route
func (s *Store) UpdateRoute(r Route) (Route, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.routes[r.ID]; !ok {
		return Route{}, fmt.Errorf("route %s: %w", r.ID, ErrNotFound)
	}
	if err := s.checkRouteTargetsLocked(r); err != nil {
		return Route{}, err
	}
	s.routes[r.ID] = r
	return r, nil
}

func (s *Store) DeleteRoute(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.routes[id]; !ok {
		return fmt.Errorf("route %s: %w", id, ErrNotFound)
	}
	delete(s.routes, id)
	return nil
}

// =============================================================================
// PROVIDER KEYS
// =============================================================================

func (s *Store) ListProviderKeys() []ProviderKey {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]ProviderKey, 0, len(s.providerKeys))
	for p, k := range s.providerKeys {
		list = append(list, ProviderKey{Provider: p, APIKey: k})
	}
	slices.SortFunc(list, func(a, b ProviderKey) int {
		return cmp.Compare(a.Provider, b.Provider)
	})
	return list
}

func (s *Store) PutProviderKey(provider, apiKey string) ProviderKey {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.providerKeys[provider] = apiKey
	return ProviderKey{Provider: provider, APIKey: apiKey}
}
