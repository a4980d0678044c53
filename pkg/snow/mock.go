package snow

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/clcollins/nowdesk/pkg/rand"
	"github.com/clcollins/nowdesk/pkg/record"
)

var ErrMockError = errors.New("snow.Mock(): mock error") // Used to mock errors in unit tests

// MockCall records one call made against a MockGateway.
type MockCall struct {
	Op      string
	ID      string
	Filters map[string]string
	Payload map[string]any
}

// MockGateway is an in-memory RecordGateway for tests.
// Any operation on the id "err" fails with ErrMockError, as does every
// operation while Err is set.
type MockGateway struct {
	Table string

	// ListFunc, when set, answers List instead of the stored records.
	ListFunc func(filters map[string]string) ([]record.Record, error)
	Err      error

	mu      sync.Mutex
	records []record.Record
	calls   []MockCall
}

var _ RecordGateway = (*MockGateway)(nil)

// NewMockGateway returns a mock seeded with records.
func NewMockGateway(table string, records ...record.Record) *MockGateway {
	return &MockGateway{Table: table, records: records}
}

// Calls returns the recorded calls for op, or every call when op is empty.
func (m *MockGateway) Calls(op string) []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []MockCall
	for _, c := range m.calls {
		if op == "" || c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

// Records returns a copy of the stored records.
func (m *MockGateway) Records() []record.Record {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]record.Record(nil), m.records...)
}

func (m *MockGateway) record(c MockCall) error {
	m.mu.Lock()
	m.calls = append(m.calls, c)
	m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	if c.ID == "err" {
		return ErrMockError
	}
	return nil
}

func (m *MockGateway) find(id string) int {
	for i, r := range m.records {
		if r.ID() == id {
			return i
		}
	}
	return -1
}

func (m *MockGateway) notFound(op string) error {
	return &FetchError{Op: op, Table: m.Table, Status: http.StatusNotFound, Message: "No Record found"}
}

func (m *MockGateway) List(ctx context.Context, filters map[string]string) ([]record.Record, error) {
	if err := m.record(MockCall{Op: opList, Filters: filters}); err != nil {
		return nil, err
	}
	if m.ListFunc != nil {
		return m.ListFunc(filters)
	}
	return m.Records(), nil
}

func (m *MockGateway) Get(ctx context.Context, id string) (record.Record, error) {
	if err := m.record(MockCall{Op: opGet, ID: id}); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if i := m.find(id); i >= 0 {
		return m.records[i], nil
	}
	return nil, m.notFound(opGet)
}

func (m *MockGateway) Create(ctx context.Context, payload map[string]any) (record.Record, error) {
	if err := m.record(MockCall{Op: opCreate, Payload: payload}); err != nil {
		return nil, err
	}
	r := record.Record{"sys_id": record.Scalar(rand.SysID())}
	if m.Table == IncidentResource.Table {
		r["number"] = record.Scalar(rand.Number("INC"))
	}
	merge(r, payload)

	m.mu.Lock()
	m.records = append(m.records, r)
	m.mu.Unlock()
	return r, nil
}

func (m *MockGateway) Update(ctx context.Context, id string, payload map[string]any) (record.Record, error) {
	if err := m.record(MockCall{Op: opUpdate, ID: id, Payload: payload}); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.find(id)
	if i < 0 {
		return nil, m.notFound(opUpdate)
	}
	updated := record.Record{}
	for k, v := range m.records[i] {
		updated[k] = v
	}
	merge(updated, payload)
	m.records[i] = updated
	return updated, nil
}

func (m *MockGateway) Delete(ctx context.Context, id string) (bool, error) {
	if err := m.record(MockCall{Op: opDelete, ID: id}); err != nil {
		return false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.find(id)
	if i < 0 {
		return false, m.notFound(opDelete)
	}
	m.records = append(m.records[:i], m.records[i+1:]...)
	return true, nil
}

func merge(r record.Record, payload map[string]any) {
	for k, v := range payload {
		r[k] = record.Scalar(fmt.Sprint(v))
	}
}
