package mocks

import (
	"context"
	"sync/atomic"

	"github.com/phrazzld/contacts-api/internal/store"
)

// MockTxManager runs units of work without a database. Stores receive a nil
// *sql.Tx, which the in-memory stores ignore.
type MockTxManager struct {
	// Err, when set, is returned instead of running the unit of work.
	Err   error
	calls atomic.Int64
}

var _ store.TxManager = (*MockTxManager)(nil)

// RunInTx implements store.TxManager.
func (m *MockTxManager) RunInTx(ctx context.Context, fn store.TxFn) error {
	m.calls.Add(1)
	if m.Err != nil {
		return m.Err
	}
	return fn(ctx, nil)
}

// Calls returns how many transactions were opened.
func (m *MockTxManager) Calls() int {
	return int(m.calls.Load())
}
