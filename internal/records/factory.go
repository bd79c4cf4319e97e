package records

import (
	"context"
	"strings"
)

// NewStore creates a postgres-backed store when a database URL is configured,
// otherwise a local sqlite store at sqlitePath.
func NewStore(ctx context.Context, databaseURL, sqlitePath string) (Store, error) {
	if strings.TrimSpace(databaseURL) != "" {
		return NewPostgresStore(ctx, databaseURL)
	}
	return NewSQLiteStore(ctx, sqlitePath)
}
