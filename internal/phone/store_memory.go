package phone

import (
	"context"
	"sync"
)

// MemBackend keeps the set in process memory. LoadErr and SaveErr, when set,
// are returned by the next Load or Save to simulate a failing file.
type MemBackend struct {
	mu   sync.RWMutex
	rows []Fields

	LoadErr error
	SaveErr error
	Saves   int
}

func NewMemBackend(seed ...Fields) *MemBackend {
	return &MemBackend{rows: append([]Fields(nil), seed...)}
}

func (b *MemBackend) Ping(ctx context.Context) error { return nil }

func (b *MemBackend) Load(ctx context.Context) ([]Record, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]Record, 0, len(b.rows))
	for i, f := range b.rows {
		out = append(out, Record{ID: i + FirstID, Fields: f})
	}
	return out, b.LoadErr
}

func (b *MemBackend) Save(ctx context.Context, recs []Record) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.SaveErr != nil {
		return b.SaveErr
	}

	rows := make([]Fields, 0, len(recs))
	for _, r := range recs {
		rows = append(rows, r.Fields)
	}
	b.rows = rows
	b.Saves++
	return nil
}

// Rows returns a copy of the stored fields in order.
func (b *MemBackend) Rows() []Fields {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]Fields(nil), b.rows...)
}
