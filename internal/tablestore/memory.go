package tablestore

import (
	"context"
	"sort"
	"strconv"
	"sync"
)

// Memory is an in-process Store used by tests and local development. It
// honors the same version-gating contract as the database-backed adapters.
type Memory struct {
	mu      sync.Mutex
	rows    map[string]map[string]Row
	counter uint64
}

// NewMemory returns an empty in-memory table.
func NewMemory() *Memory {
	return &Memory{rows: make(map[string]map[string]Row)}
}

func (m *Memory) nextVersion() string {
	m.counter++
	return "v" + strconv.FormatUint(m.counter, 10)
}

// Get returns the row at (kind, id) or ErrNotFound.
func (m *Memory) Get(ctx context.Context, kind, id string) (Row, error) {
	if err := ctx.Err(); err != nil {
		return Row{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	row, ok := m.rows[kind][id]
	if !ok {
		return Row{}, ErrNotFound
	}
	return cloneRow(row), nil
}

// Scan returns every row of the given kind, ordered by id.
func (m *Memory) Scan(ctx context.Context, kind string) ([]Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	partition := m.rows[kind]
	out := make([]Row, 0, len(partition))
	for _, row := range partition {
		out = append(out, cloneRow(row))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Insert writes a new row, failing with ErrExists on a key collision.
func (m *Memory) Insert(ctx context.Context, row Row) (Row, error) {
	if err := ctx.Err(); err != nil {
		return Row{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	partition, ok := m.rows[row.Kind]
	if !ok {
		partition = make(map[string]Row)
		m.rows[row.Kind] = partition
	}
	if _, ok := partition[row.ID]; ok {
		return Row{}, ErrExists
	}

	row.Version = m.nextVersion()
	partition[row.ID] = cloneRow(row)
	return row, nil
}

// Update rewrites the row if the version tag still matches.
func (m *Memory) Update(ctx context.Context, row Row) (Row, error) {
	if err := ctx.Err(); err != nil {
		return Row{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.rows[row.Kind][row.ID]
	if !ok {
		return Row{}, ErrNotFound
	}
	if current.Version != row.Version {
		return Row{}, ErrVersionMismatch
	}

	row.Version = m.nextVersion()
	m.rows[row.Kind][row.ID] = cloneRow(row)
	return row, nil
}

// Delete removes the row, version-gated when a version is supplied.
func (m *Memory) Delete(ctx context.Context, kind, id, version string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.rows[kind][id]
	if !ok {
		return ErrNotFound
	}
	if version != "" && current.Version != version {
		return ErrVersionMismatch
	}
	delete(m.rows[kind], id)
	return nil
}

// Close is a no-op for the in-memory table.
func (m *Memory) Close() error { return nil }

func cloneRow(row Row) Row {
	doc := make([]byte, len(row.Doc))
	copy(doc, row.Doc)
	row.Doc = doc
	return row
}
