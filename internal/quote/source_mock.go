package quote

import (
	"context"
	"sync"
)

// SourceMock replays scripted outcomes per symbol. It is exported for tests
// in other packages.
type SourceMock struct {
	mu       sync.Mutex
	Outcomes map[string]Outcome
	Calls    []string
}

func (m *SourceMock) Fetch(_ context.Context, inst Instrument) Outcome {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, inst.Symbol)
	out, ok := m.Outcomes[inst.Symbol]
	if !ok {
		return Fail(ErrTransport)
	}
	return out
}
