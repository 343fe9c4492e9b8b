package database

import (
	"context"
	"fmt"
)

// Delete removes the usuario with the given id and reports whether a row was
// removed. Deleting a missing id is not an error.
func (db *Db) Delete(ctx context.Context, id int64) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, db.GetQueryTimeout())
	defer cancel()

	result := db.Engine.WithContext(ctx).Delete(&usuarioORM{}, id)
	if result.Error != nil {
		return false, fmt.Errorf("failed to delete usuario: %w", result.Error)
	}

	return result.RowsAffected > 0, nil
}
