package repositories

import (
	"errors"
	"fmt"
)

// Display ids (ORD0000001, item0000001, ...) are backed by PostgreSQL
// sequences rather than read-max-then-insert, so concurrent allocations can
// never collide. nextval is transactional-safe by construction.

func nextDisplayID(executor SQLExecutor, sequence, prefix string) (string, error) {
	var n int64
	err := executor.QueryRow(fmt.Sprintf("SELECT nextval('%s')", sequence)).Scan(&n)
	if err != nil {
		return "", fmt.Errorf("%w: allocating id from %s: %v", ErrDatabaseError, sequence, err)
	}
	return formatDisplayID(prefix, n), nil
}

func formatDisplayID(prefix string, n int64) string {
	return fmt.Sprintf("%s%07d", prefix, n)
}

// ExtraIDAllocator hands out extra-dish ids pre-allocated for one
// order-creation call. The whole batch comes from a single round trip and the
// allocator is scoped to that call, never shared across requests.
type ExtraIDAllocator struct {
	ids []string
}

// Next pops the next pre-allocated id.
func (a *ExtraIDAllocator) Next() (string, error) {
	if len(a.ids) == 0 {
		return "", errors.New("extra id allocator exhausted")
	}
	id := a.ids[0]
	a.ids = a.ids[1:]
	return id, nil
}

func allocateExtraIDs(executor SQLExecutor, count int) (*ExtraIDAllocator, error) {
	if count == 0 {
		return &ExtraIDAllocator{}, nil
	}
	rows, err := executor.Query("SELECT nextval('order_extra_id_seq') FROM generate_series(1, $1)", count)
	if err != nil {
		return nil, fmt.Errorf("%w: allocating %d extra ids: %v", ErrDatabaseError, count, err)
	}
	defer rows.Close()

	ids := make([]string, 0, count)
	for rows.Next() {
		var n int64
		if err := rows.Scan(&n); err != nil {
			return nil, fmt.Errorf("%w: scanning extra id: %v", ErrDatabaseError, err)
		}
		ids = append(ids, formatDisplayID("extra", n))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating extra ids: %v", ErrDatabaseError, err)
	}
	return &ExtraIDAllocator{ids: ids}, nil
}
