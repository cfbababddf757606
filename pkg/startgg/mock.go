package startgg

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// MockClient is a mock start.gg client for testing and offline demos
type MockClient struct {
	mu          sync.Mutex
	baseURL     string
	phaseBody   []byte
	queues      []StreamQueue
	sets        map[string]*Set
	phaseErr    error
	queueErr    error
	setErr      error
	phaseCalls  int
	setRequests []string
}

// MockOption configures the mock client
type MockOption func(*MockClient)

// WithPhaseBody sets the raw phase document to return
func WithPhaseBody(body []byte) MockOption {
	return func(m *MockClient) {
		m.phaseBody = body
	}
}

// WithPhase encodes data as the phase document to return
func WithPhase(data PhaseData) MockOption {
	return func(m *MockClient) {
		m.phaseBody = EncodePhase(data)
	}
}

// WithPhaseError sets an error to return from FetchPhaseRaw
func WithPhaseError(err error) MockOption {
	return func(m *MockClient) {
		m.phaseErr = err
	}
}

// WithStreamQueue sets the stream queues to return
func WithStreamQueue(queues []StreamQueue) MockOption {
	return func(m *MockClient) {
		m.queues = queues
	}
}

// WithStreamQueueError sets an error to return from FetchStreamQueue
func WithStreamQueueError(err error) MockOption {
	return func(m *MockClient) {
		m.queueErr = err
	}
}

// WithSets sets the set details to return, keyed by id
func WithSets(sets ...*Set) MockOption {
	return func(m *MockClient) {
		for _, s := range sets {
			m.sets[s.ID.String()] = s
		}
	}
}

// WithSetError sets an error to return from FetchSet
func WithSetError(err error) MockOption {
	return func(m *MockClient) {
		m.setErr = err
	}
}

// WithBaseURL sets the base URL
func WithBaseURL(url string) MockOption {
	return func(m *MockClient) {
		m.baseURL = url
	}
}

// NewMockClient creates a new mock start.gg client
func NewMockClient(opts ...MockOption) *MockClient {
	m := &MockClient{
		baseURL:   "http://mock-startgg.local",
		phaseBody: EncodePhase(DefaultMockPhase()),
		sets:      make(map[string]*Set),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// BaseURL returns the configured base URL
func (m *MockClient) BaseURL() string {
	return m.baseURL
}

// FetchPhaseRaw returns the configured phase document or error
func (m *MockClient) FetchPhaseRaw(ctx context.Context, phaseID string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.phaseCalls++
	if m.phaseErr != nil {
		return nil, m.phaseErr
	}
	return m.phaseBody, nil
}

// FetchStreamQueue returns the configured stream queues or error
func (m *MockClient) FetchStreamQueue(ctx context.Context, slug string) ([]StreamQueue, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.queueErr != nil {
		return nil, m.queueErr
	}
	return m.queues, nil
}

// FetchSet returns the configured set or a not found error
func (m *MockClient) FetchSet(ctx context.Context, setID string) (*Set, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setRequests = append(m.setRequests, setID)
	if m.setErr != nil {
		return nil, m.setErr
	}
	s, ok := m.sets[setID]
	if !ok {
		return nil, fmt.Errorf("set %s not found", setID)
	}
	return s, nil
}

// SetPhaseBody replaces the phase document mid-test
func (m *MockClient) SetPhaseBody(body []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.phaseBody = body
}

// SetPhaseError replaces the phase error mid-test
func (m *MockClient) SetPhaseError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.phaseErr = err
}

// SetStreamQueue replaces the stream queues mid-test
func (m *MockClient) SetStreamQueue(queues []StreamQueue) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queues = queues
}

// PutSet adds or replaces a set detail
func (m *MockClient) PutSet(s *Set) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sets[s.ID.String()] = s
}

// PhaseCalls returns how many times FetchPhaseRaw was called (for testing)
func (m *MockClient) PhaseCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.phaseCalls
}

// SetRequests returns the ids passed to FetchSet in call order (for testing)
func (m *MockClient) SetRequests() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.setRequests))
	copy(out, m.setRequests)
	return out
}

// EncodePhase wraps data in a GraphQL envelope
func EncodePhase(data PhaseData) []byte {
	body, err := json.Marshal(map[string]any{"data": data})
	if err != nil {
		panic(err)
	}
	return body
}

// Str returns a pointer to s
func Str(s string) *string { return &s }

// Int returns a pointer to n
func Int(n int) *int { return &n }

// Int64 returns a pointer to n
func Int64(n int64) *int64 { return &n }

// MockSet builds a bracket set with two named entrants (empty name = no entrant)
func MockSet(id string, round int, label, a, b string) Set {
	s := Set{
		ID:    ID(id),
		Round: Int(round),
		Slots: []Slot{{}, {}},
	}
	if label != "" {
		s.FullRoundText = Str(label)
	}
	if a != "" {
		s.Slots[0].Entrant = &Entrant{ID: ID("e-" + a), Name: Str(a)}
	}
	if b != "" {
		s.Slots[1].Entrant = &Entrant{ID: ID("e-" + b), Name: Str(b)}
	}
	return s
}

// FedBy marks slot i of s as filled by the outcome of set prereq
func FedBy(s Set, i int, prereq string) Set {
	s.Slots[i].PrereqID = ID(prereq)
	s.Slots[i].PrereqType = Str(prereqSet)
	return s
}

// DefaultMockPhase returns a four-entrant double elimination phase in one pool
func DefaultMockPhase() PhaseData {
	sets := []Set{
		MockSet("preview_1001_1_0", 1, "Winners Semi-Final", "Sponsor | Alpha", "Bravo"),
		MockSet("preview_1001_1_1", 1, "Winners Semi-Final", "Charlie", "Delta"),
		FedBy(FedBy(MockSet("preview_1001_2_0", 2, "Winners Final", "", ""), 0, "preview_1001_1_0"), 1, "preview_1001_1_1"),
		FedBy(FedBy(MockSet("preview_1001_3_0", 3, "Grand Final", "", ""), 0, "preview_1001_2_0"), 1, "preview_1001_-3_0"),
		FedBy(MockSet("preview_1001_3_1", 3, "Grand Final Reset", "", ""), 0, "preview_1001_3_0"),
		MockSet("preview_1001_-1_0", -1, "Losers Round 1", "", ""),
		FedBy(MockSet("preview_1001_-2_0", -2, "Losers Semi-Final", "", ""), 0, "preview_1001_-1_0"),
		FedBy(MockSet("preview_1001_-3_0", -3, "Losers Final", "", ""), 0, "preview_1001_-2_0"),
	}
	return PhaseData{
		Phase: &Phase{
			ID:   "1001",
			Name: Str("Top 4"),
			PhaseGroups: &PhaseGroupConnection{
				Nodes: []PhaseGroup{{
					ID:                "2001",
					DisplayIdentifier: Str("1"),
					Sets: &SetConnection{
						PageInfo: &PageInfo{Total: len(sets), TotalPages: 1},
						Nodes:    sets,
					},
				}},
			},
		},
	}
}

// Ensure MockClient implements Client
var _ Client = (*MockClient)(nil)
