package payment

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/tennis-court-reservation/internal/booking"
	"github.com/iliyamo/tennis-court-reservation/internal/model"
)

type memChargeStore struct {
	charges []*model.Charge
}

func (m *memChargeStore) Create(_ context.Context, c *model.Charge) error {
	m.charges = append(m.charges, c)
	return nil
}

func chargeReq(simulate string) booking.ChargeRequest {
	md := map[string]string{"date": "2026-09-01", "court": "1"}
	if simulate != "" {
		md["simulate"] = simulate
	}
	return booking.ChargeRequest{
		AmountCents: 7000,
		Currency:    "PEN",
		Email:       "ana@example.com",
		Method:      model.PaymentTypeCard,
		Description: "Court 1 on 2026-09-01, 10:00-12:00",
		Metadata:    md,
	}
}

func TestMockProcessorApprovesAndPersists(t *testing.T) {
	store := &memChargeStore{}
	proc := NewMockProcessor(store)

	charge, err := proc.Charge(context.Background(), chargeReq(""))
	require.NoError(t, err)
	require.NotNil(t, charge)

	assert.True(t, charge.Approved())
	assert.True(t, strings.HasPrefix(charge.ID, "ch_"))
	assert.Equal(t, int64(7000), charge.AmountCents)
	assert.Equal(t, "PEN", charge.Currency)
	require.Len(t, store.charges, 1)
	assert.Equal(t, charge.ID, store.charges[0].ID)
}

func TestMockProcessorSimulatedFailure(t *testing.T) {
	store := &memChargeStore{}
	proc := NewMockProcessor(store)

	charge, err := proc.Charge(context.Background(), chargeReq(SimulateFailed))
	assert.Nil(t, charge)
	assert.ErrorIs(t, err, booking.ErrPaymentDeclined)

	// the failed transaction is still recorded
	require.Len(t, store.charges, 1)
	assert.Equal(t, model.ChargeStatusFailed, store.charges[0].Status)
}

func TestMockProcessorSimulatedCancellation(t *testing.T) {
	store := &memChargeStore{}
	proc := NewMockProcessor(store)

	charge, err := proc.Charge(context.Background(), chargeReq(SimulateCancelled))
	assert.Nil(t, charge)
	assert.ErrorIs(t, err, booking.ErrPaymentCancelled)
	assert.Empty(t, store.charges, "a cancelled flow never produced a transaction")
}

func TestMockProcessorWithoutStore(t *testing.T) {
	proc := NewMockProcessor(nil)

	charge, err := proc.Charge(context.Background(), chargeReq(""))
	require.NoError(t, err)
	assert.True(t, charge.Approved())
}

func TestChargeIDsAreUnique(t *testing.T) {
	proc := NewMockProcessor(nil)
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		charge, err := proc.Charge(context.Background(), chargeReq(""))
		require.NoError(t, err)
		assert.False(t, seen[charge.ID])
		seen[charge.ID] = true
	}
}
