package persistence

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"cpc_bidder/internal/domain"
	"cpc_bidder/internal/domain/entity"
	"cpc_bidder/pkg/errcodes"
	"cpc_bidder/pkg/lox"
)

const bidColumns = `id, product_id, current_cpc, target_roas, adjusted_cpc, calculated_at, created_at, updated_at`

type BidRepository struct {
	db *sqlx.DB
}

func NewBidRepository(db *sqlx.DB) *BidRepository {
	return &BidRepository{db: db}
}

// Create сохраняет ставку и заполняет сгенерированные id и метки времени.
func (r *BidRepository) Create(ctx context.Context, bid *entity.Bid) error {
	query := `
		INSERT INTO product_bids (product_id, current_cpc, target_roas, adjusted_cpc, calculated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		bid.ProductID,
		bid.CurrentCPC,
		bid.TargetROAS,
		bid.AdjustedCPC,
		bid.CalculatedAt,
	).Scan(&bid.ID, &bid.CreatedAt, &bid.UpdatedAt)
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to create bid")
	}

	return nil
}

func (r *BidRepository) GetByID(ctx context.Context, id int64) (*entity.Bid, error) {
	query := `SELECT ` + bidColumns + ` FROM product_bids WHERE id = $1`

	var schema bidSchema
	if err := r.db.GetContext(ctx, &schema, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewError(errcodes.BidNotFound, "bid not found")
		}

		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to get bid")
	}

	bid := schema.toDomain()

	return &bid, nil
}

// ListCalculatedSince возвращает ставки с calculated_at >= since по возрастанию
// product_id. Вторичная сортировка по id держит порядок стабильным между запусками.
func (r *BidRepository) ListCalculatedSince(ctx context.Context, since time.Time) ([]entity.Bid, error) {
	query := `
		SELECT ` + bidColumns + `
		FROM product_bids
		WHERE calculated_at >= $1
		ORDER BY product_id, id`

	var schemas []bidSchema
	if err := r.db.SelectContext(ctx, &schemas, query, since); err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to list bids")
	}

	return lox.Map(schemas, bidSchema.toDomain), nil
}

// Purge удаляет все ставки. Только для сервисных утилит.
func (r *BidRepository) Purge(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM product_bids`)
	if err != nil {
		return 0, domain.WrapError(err, errcodes.InternalServerError, "failed to purge bids")
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, domain.WrapError(err, errcodes.InternalServerError, "failed to count purged bids")
	}

	return n, nil
}
