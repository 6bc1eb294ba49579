package repositories

import (
	"context"
	"fmt"

	"github.com/desertthunder/waslerr/internal/shared"
)

// NextSequence increments and returns the next sequence number for the given table.
//
// Must run inside a transaction for the increment and read to be atomic.
func NextSequence(ctx context.Context, db shared.DBTX, table string) (int, error) {
	sequenceTable := table + "_sequence"

	if _, err := db.ExecContext(ctx, fmt.Sprintf("UPDATE %s SET value = value + 1 WHERE id = 1", sequenceTable)); err != nil {
		return 0, fmt.Errorf("failed to increment sequence: %w", err)
	}

	var sequence int
	if err := db.QueryRowContext(ctx, fmt.Sprintf("SELECT value FROM %s WHERE id = 1", sequenceTable)).Scan(&sequence); err != nil {
		return 0, fmt.Errorf("failed to get sequence value: %w", err)
	}

	return sequence, nil
}
