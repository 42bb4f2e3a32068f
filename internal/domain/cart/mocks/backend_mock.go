package mocks

import (
	"context"
	"fmt"
	"sync"

	"github.com/example/storefront-cart/internal/domain/cart"
)

// Backend operation names recorded in Calls.
const (
	OpListStores     = "ListStores"
	OpFetchStore     = "FetchStore"
	OpAddItem        = "AddItem"
	OpUpdateQuantity = "UpdateQuantity"
	OpRemoveItem     = "RemoveItem"
	OpClearStore     = "ClearStore"
)

// Call records one backend invocation
type Call struct {
	Op       string
	StoreID  string
	LineID   string
	Quantity int
	Item     cart.NewItem
}

// MockBackend is an in-memory cart.Backend that applies commands to its own
// store carts and records every call.
type MockBackend struct {
	mu     sync.Mutex
	order  []string
	stores map[string]*cart.Snapshot
	nextID int

	failures     map[string]error // op -> error
	lineFailures map[string]error // line id -> RemoveItem error

	Calls []Call
}

// NewMockBackend creates a MockBackend seeded with snapshots
func NewMockBackend(snapshots ...cart.Snapshot) *MockBackend {
	m := &MockBackend{
		stores:       make(map[string]*cart.Snapshot),
		failures:     make(map[string]error),
		lineFailures: make(map[string]error),
		Calls:        make([]Call, 0),
	}
	for _, s := range snapshots {
		m.PutStore(s)
	}
	return m
}

// PutStore replaces (or adds) a store cart
func (m *MockBackend) PutStore(s cart.Snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.stores[s.StoreID]; !ok {
		m.order = append(m.order, s.StoreID)
	}
	cp := s
	cp.Lines = append([]cart.RawLine(nil), s.Lines...)
	m.stores[s.StoreID] = &cp
}

// SetLineStatus changes the status tag of a line, as if the catalog changed
func (m *MockBackend) SetLineStatus(lineID, tag string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.stores {
		for i := range s.Lines {
			if s.Lines[i].LineID == lineID {
				s.Lines[i].StatusTag = tag
			}
		}
	}
}

// FailOn makes every call of op return err. A nil err clears the failure.
func (m *MockBackend) FailOn(op string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.failures, op)
		return
	}
	m.failures[op] = err
}

// FailRemoval makes RemoveItem fail for one line
func (m *MockBackend) FailRemoval(lineID string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lineFailures[lineID] = err
}

// CallsFor returns the recorded calls of one operation
func (m *MockBackend) CallsFor(op string) []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Call, 0)
	for _, c := range m.Calls {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

// Reset clears the recorded calls
func (m *MockBackend) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = make([]Call, 0)
}

func (m *MockBackend) ListStores(ctx context.Context) ([]cart.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, Call{Op: OpListStores})
	if err := m.failures[OpListStores]; err != nil {
		return nil, err
	}
	out := make([]cart.Snapshot, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.copyStore(id))
	}
	return out, nil
}

func (m *MockBackend) FetchStore(ctx context.Context, storeID string) (*cart.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, Call{Op: OpFetchStore, StoreID: storeID})
	if err := m.failures[OpFetchStore]; err != nil {
		return nil, err
	}
	if _, ok := m.stores[storeID]; !ok {
		return nil, nil
	}
	s := m.copyStore(storeID)
	return &s, nil
}

func (m *MockBackend) AddItem(ctx context.Context, storeID string, item cart.NewItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, Call{Op: OpAddItem, StoreID: storeID, Item: item, Quantity: item.Quantity})
	if err := m.failures[OpAddItem]; err != nil {
		return err
	}
	s, ok := m.stores[storeID]
	if !ok {
		s = &cart.Snapshot{StoreID: storeID}
		m.stores[storeID] = s
		m.order = append(m.order, storeID)
	}
	m.nextID++
	selling := item.SellingPrice
	s.Lines = append(s.Lines, cart.RawLine{
		LineID:        fmt.Sprintf("added-%d", m.nextID),
		ItemID:        item.ItemID,
		ItemName:      item.ItemName,
		OriginalPrice: item.OriginalPrice,
		SellingPrice:  &selling,
		Quantity:      item.Quantity,
		StatusTag:     cart.StatusTagActive,
	})
	return nil
}

func (m *MockBackend) UpdateQuantity(ctx context.Context, storeID, lineID string, quantity int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, Call{Op: OpUpdateQuantity, StoreID: storeID, LineID: lineID, Quantity: quantity})
	if err := m.failures[OpUpdateQuantity]; err != nil {
		return err
	}
	s, ok := m.stores[storeID]
	if !ok {
		return &cart.NetworkError{Op: "update quantity", StoreID: storeID, Status: 404}
	}
	for i := range s.Lines {
		if s.Lines[i].LineID == lineID {
			s.Lines[i].Quantity = quantity
			return nil
		}
	}
	return &cart.NetworkError{Op: "update quantity", StoreID: storeID, Status: 404}
}

func (m *MockBackend) RemoveItem(ctx context.Context, storeID, lineID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, Call{Op: OpRemoveItem, StoreID: storeID, LineID: lineID})
	if err := m.failures[OpRemoveItem]; err != nil {
		return err
	}
	if err := m.lineFailures[lineID]; err != nil {
		return err
	}
	s, ok := m.stores[storeID]
	if !ok {
		return nil
	}
	kept := s.Lines[:0]
	for _, l := range s.Lines {
		if l.LineID != lineID {
			kept = append(kept, l)
		}
	}
	s.Lines = kept
	return nil
}

func (m *MockBackend) ClearStore(ctx context.Context, storeID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, Call{Op: OpClearStore, StoreID: storeID})
	if err := m.failures[OpClearStore]; err != nil {
		return err
	}
	if s, ok := m.stores[storeID]; ok {
		s.Lines = nil
	}
	return nil
}

func (m *MockBackend) copyStore(id string) cart.Snapshot {
	s := *m.stores[id]
	s.Lines = append([]cart.RawLine(nil), s.Lines...)
	return s
}
