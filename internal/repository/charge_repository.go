package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/iliyamo/tennis-court-reservation/internal/model"
)

// ChargeRepo persists payment charge outcomes so voucher links keep
// resolving after the booking flow finished.  Metadata is stored as a JSON
// blob.
type ChargeRepo struct {
	db *sql.DB
}

// NewChargeRepo constructs a ChargeRepo with the given DB handle.
func NewChargeRepo(db *sql.DB) *ChargeRepo { return &ChargeRepo{db: db} }

// Create inserts a charge record.  Charge ids come from the payment
// provider and are unique by construction; a duplicate insert is treated
// as already persisted and ignored.
func (r *ChargeRepo) Create(ctx context.Context, c *model.Charge) error {
	meta, err := json.Marshal(c.Metadata)
	if err != nil {
		return err
	}
	const q = `INSERT INTO charges
	           (id, status, amount_cents, currency, email, method, description, metadata, voucher_url)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, q,
		c.ID, c.Status, c.AmountCents, c.Currency, c.Email, c.Method, c.Description, meta, c.VoucherURL)
	if err != nil && !isDuplicateKey(err) {
		return err
	}
	return nil
}

// GetByID retrieves a charge by its provider id.  Returns ErrChargeNotFound
// when no such charge exists.
func (r *ChargeRepo) GetByID(ctx context.Context, id string) (*model.Charge, error) {
	const q = `SELECT id, status, amount_cents, currency, email, method, description, metadata, voucher_url, created_at
	           FROM charges WHERE id = ?`
	var (
		c    model.Charge
		meta []byte
	)
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&c.ID, &c.Status, &c.AmountCents, &c.Currency, &c.Email,
		&c.Method, &c.Description, &meta, &c.VoucherURL, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrChargeNotFound
		}
		return nil, err
	}
	if len(meta) > 0 {
		if err := json.Unmarshal(meta, &c.Metadata); err != nil {
			return nil, err
		}
	}
	return &c, nil
}
