package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"time"

	"gearshare/infras/otel"
	"gearshare/infras/postgres"
	"gearshare/internal/domains/reservation/model"
	"gearshare/shared/constant"
	gDto "gearshare/shared/dto"
	"gearshare/shared/failure"
	"gearshare/shared/logger"
	gRepo "gearshare/shared/repository"
	"gearshare/shared/timezone"
)

// Overlap check inside the insert transaction. Bounds are inclusive on both
// ends: a window ending exactly when another begins still conflicts.
const overlapExistsQuery = `SELECT EXISTS(
	SELECT 1 FROM reservations
	WHERE item_id = $1 AND status = $2 AND (
		(start_time BETWEEN $3 AND $4) OR
		(end_time BETWEEN $3 AND $4) OR
		(start_time <= $3 AND end_time >= $4)
	))`

const updateStatusIfPendingQuery = `UPDATE reservations
	SET status = :status, modified_at = :modified_at, modified_by = :modified_by
	WHERE id = :id AND status = :pending_status`

type Reservation interface {
	Insert(ctx context.Context, model model.Reservation) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Reservation, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Reservation, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
	FindOverlapping(ctx context.Context, itemID, status string, start, end time.Time) ([]model.Reservation, error)
	InsertIfVacant(ctx context.Context, res model.Reservation) error
	UpdateStatusIfPending(ctx context.Context, id, status, modifiedBy string) (bool, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Reservation]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Reservation {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Reservation](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// OverlapFilter matches reservations of the given status on the item whose
// window collides with [start, end], bounds inclusive: the candidate start or
// end falls inside an existing window, or the candidate fully contains one.
func OverlapFilter(itemID, status string, start, end time.Time) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldItemID,
				Operator: gDto.FilterOperatorEq,
				Value:    itemID,
				Table:    model.TableName,
			},
			gDto.Filter{
				Field:    model.FieldStatus,
				Operator: gDto.FilterOperatorEq,
				Value:    status,
				Table:    model.TableName,
			},
			gDto.FilterGroup{
				Operator: gDto.FilterGroupOperatorOr,
				Filters: []any{
					gDto.FilterGroup{
						Operator: gDto.FilterGroupOperatorAnd,
						Filters: []any{
							gDto.Filter{
								ArgName:  "ov_start_ge",
								Field:    model.FieldStartTime,
								Operator: gDto.FilterOperatorGreaterEq,
								Value:    start,
								Table:    model.TableName,
							},
							gDto.Filter{
								ArgName:  "ov_start_le",
								Field:    model.FieldStartTime,
								Operator: gDto.FilterOperatorLessEq,
								Value:    end,
								Table:    model.TableName,
							},
						},
					},
					gDto.FilterGroup{
						Operator: gDto.FilterGroupOperatorAnd,
						Filters: []any{
							gDto.Filter{
								ArgName:  "ov_end_ge",
								Field:    model.FieldEndTime,
								Operator: gDto.FilterOperatorGreaterEq,
								Value:    start,
								Table:    model.TableName,
							},
							gDto.Filter{
								ArgName:  "ov_end_le",
								Field:    model.FieldEndTime,
								Operator: gDto.FilterOperatorLessEq,
								Value:    end,
								Table:    model.TableName,
							},
						},
					},
					gDto.FilterGroup{
						Operator: gDto.FilterGroupOperatorAnd,
						Filters: []any{
							gDto.Filter{
								ArgName:  "ov_contains_start",
								Field:    model.FieldStartTime,
								Operator: gDto.FilterOperatorLessEq,
								Value:    start,
								Table:    model.TableName,
							},
							gDto.Filter{
								ArgName:  "ov_contains_end",
								Field:    model.FieldEndTime,
								Operator: gDto.FilterOperatorGreaterEq,
								Value:    end,
								Table:    model.TableName,
							},
						},
					},
				},
			},
		},
	}
}

func (repo *repositoryImpl) FindOverlapping(ctx context.Context, itemID, status string, start, end time.Time) ([]model.Reservation, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".reservation.FindOverlapping")
	defer scope.End()

	return repo.GetAll(ctx, gDto.QueryParams{}, OverlapFilter(itemID, status, start, end))
}

// InsertIfVacant inserts the reservation unless an approved reservation with
// an overlapping window already exists for the same item. The overlap check
// and the insert run in one transaction under a per-item advisory lock, so
// two concurrent creates for the same item serialize here.
func (repo *repositoryImpl) InsertIfVacant(ctx context.Context, res model.Reservation) (err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".reservation.InsertIfVacant")
	defer scope.End()
	defer scope.TraceIfError(err)

	tx, err := repo.db.Write.BeginTxx(ctx, nil)
	if err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		_ = tx.Rollback()
	}()

	if _, err = tx.ExecContext(ctx, "SELECT pg_advisory_xact_lock(hashtext($1))", res.ItemID); err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to acquire item lock: %w", err)
	}

	occupied := false
	if err = tx.GetContext(ctx, &occupied, overlapExistsQuery, res.ItemID, model.StatusApproved, res.StartTime, res.EndTime); err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to check overlapping reservations: %w", err)
	}

	if occupied {
		return failure.SlotConflict("time window conflicts with an approved reservation") //nolint:wrapcheck
	}

	if err = repo.InsertTx(ctx, tx, res); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// UpdateStatusIfPending flips the reservation status in a single compare and
// swap. It reports false when the row was no longer pending, which is how
// concurrent decide calls lose the race.
func (repo *repositoryImpl) UpdateStatusIfPending(ctx context.Context, id, status, modifiedBy string) (decided bool, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".reservation.UpdateStatusIfPending")
	defer scope.End()
	defer scope.TraceIfError(err)

	scope.SetAttribute(constant.OtelQueryAttributeKey, updateStatusIfPendingQuery)

	result, err := repo.db.Write.NamedExecContext(ctx, updateStatusIfPendingQuery, map[string]any{
		"id":             id,
		"status":         status,
		"pending_status": model.StatusPending,
		"modified_at":    timezone.Now(),
		"modified_by":    modifiedBy,
	})
	if err != nil {
		logger.ErrorWithStack(err)

		return false, fmt.Errorf("failed to update reservation status: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		logger.ErrorWithStack(err)

		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}

	return affected > 0, nil
}
