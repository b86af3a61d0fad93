// Package payment provides the payment collaborator used by the booking
// commit pipeline.  The shipped implementation is a mock gateway that
// approves or rejects charges deterministically from the request, while
// persisting every outcome so voucher links stay resolvable.
package payment

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/iliyamo/tennis-court-reservation/internal/booking"
	"github.com/iliyamo/tennis-court-reservation/internal/model"
)

// ChargeStore persists charge outcomes.
type ChargeStore interface {
	Create(ctx context.Context, c *model.Charge) error
}

// Trigger values recognized in ChargeRequest.Metadata["simulate"], used by
// integration environments to exercise the failure paths.
const (
	SimulateFailed    = "failed"
	SimulateCancelled = "cancelled"
)

// MockProcessor is a stand-in payment gateway.  It approves every charge
// unless the request asks for a simulated failure, and records each charge
// through the store.  Cancelled flows are not persisted: the holder backed
// out before a transaction existed.
type MockProcessor struct {
	store ChargeStore
}

// NewMockProcessor builds a processor over the given store.  store may be
// nil, in which case outcomes are not persisted.
func NewMockProcessor(store ChargeStore) *MockProcessor {
	return &MockProcessor{store: store}
}

// Charge implements booking.PaymentProcessor.
func (p *MockProcessor) Charge(ctx context.Context, req booking.ChargeRequest) (*model.Charge, error) {
	switch strings.ToLower(req.Metadata["simulate"]) {
	case SimulateCancelled:
		return nil, booking.ErrPaymentCancelled
	case SimulateFailed:
		charge := p.build(req, model.ChargeStatusFailed)
		if p.store != nil {
			if err := p.store.Create(ctx, charge); err != nil {
				return nil, fmt.Errorf("persist failed charge: %w", err)
			}
		}
		return nil, fmt.Errorf("%w: charge %s", booking.ErrPaymentDeclined, charge.ID)
	}

	charge := p.build(req, model.ChargeStatusPaid)
	if p.store != nil {
		if err := p.store.Create(ctx, charge); err != nil {
			return nil, fmt.Errorf("persist charge: %w", err)
		}
	}
	return charge, nil
}

func (p *MockProcessor) build(req booking.ChargeRequest, status string) *model.Charge {
	return &model.Charge{
		ID:          newChargeID(),
		Status:      status,
		AmountCents: req.AmountCents,
		Currency:    req.Currency,
		Email:       req.Email,
		Method:      req.Method,
		Description: req.Description,
		Metadata:    req.Metadata,
		CreatedAt:   time.Now().UTC(),
	}
}

// newChargeID produces an id in the provider's "ch_" namespace.
func newChargeID() string {
	buf := make([]byte, 12)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand never fails on supported platforms; fall back to a
		// timestamp id rather than panic inside a payment call.
		return fmt.Sprintf("ch_%d", time.Now().UnixNano())
	}
	return "ch_" + hex.EncodeToString(buf)
}
