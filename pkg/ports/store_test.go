package ports_test

import (
	"context"
	"sort"
	"sync"
	"testing"

	"github.com/aretw0/cadence/pkg/domain"
	"github.com/aretw0/cadence/pkg/ports"
)

// mockStore is a minimal DefinitionStore used to exercise the contract suite itself.
type mockStore struct {
	mu   sync.Mutex
	data map[string]domain.Definition
}

func newMockStore() *mockStore {
	return &mockStore{data: make(map[string]domain.Definition)}
}

func (m *mockStore) Save(_ context.Context, def *domain.Definition) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[def.ID] = *def
	return nil
}

func (m *mockStore) Load(_ context.Context, id string) (*domain.Definition, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	def, ok := m.data[id]
	if !ok {
		return nil, domain.ErrDefinitionNotFound
	}
	return &def, nil
}

func (m *mockStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, id)
	return nil
}

func (m *mockStore) List(_ context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0, len(m.data))
	for id := range m.data {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func TestDefinitionStore_Contract(t *testing.T) {
	ports.RunDefinitionStoreContract(t, newMockStore())
}
