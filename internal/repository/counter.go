package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/socialgraph-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var errInvalidAffectedRows = errors.New("the number of affected rows is invalid")

// increaseCounter atomically adds one to column of the row with the given id.
func increaseCounter(ctx context.Context, model any, id, column string) error {
	tx := xcontext.DB(ctx).
		Model(model).
		Where("id=?", id).
		UpdateColumn(column, gorm.Expr(fmt.Sprintf("%s+1", column)))

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected > 1 {
		return errInvalidAffectedRows
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

// decreaseCounter atomically subtracts one from column of the row with the given id. A
// counter which is already zero stays zero.
func decreaseCounter(ctx context.Context, model any, id, column string) error {
	tx := xcontext.DB(ctx).
		Model(model).
		Where(fmt.Sprintf("id=? AND %s>0", column), id).
		UpdateColumn(column, gorm.Expr(fmt.Sprintf("%s-1", column)))

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected > 1 {
		return errInvalidAffectedRows
	}

	return nil
}

// flooredDelta is an expression adding delta to column without going below zero.
func flooredDelta(column string, delta int) clause.Expr {
	return gorm.Expr(
		fmt.Sprintf("CASE WHEN %s+? < 0 THEN 0 ELSE %s+? END", column, column),
		delta, delta,
	)
}
