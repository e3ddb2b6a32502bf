package pagination

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// Count executes a count aggregate over the key column of a filtered
// query. It operates on a derived session, so the caller's query stays
// untouched and reusable.
func Count(ctx context.Context, q *gorm.DB, column string) (int64, error) {
	var total int64
	err := q.WithContext(ctx).
		Select(fmt.Sprintf("count(%s)", column)).
		Count(&total).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}
