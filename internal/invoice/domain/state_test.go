package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluateStatusDraftExempt(t *testing.T) {
	past := time.Now().UTC().Add(-72 * time.Hour)
	inv := &Invoice{
		IsDraft:    true,
		Status:     InvoiceStatusDraft,
		DueDate:    &past,
		GrandTotal: 1000,
		Balance:    1000,
	}

	EvaluateStatus(inv, time.Now().UTC())
	assert.Equal(t, InvoiceStatusDraft, inv.Status)
}

func TestEvaluateStatusPaidFloorsBalance(t *testing.T) {
	inv := &Invoice{
		Status:     InvoiceStatusSent,
		GrandTotal: 1000,
		AmountPaid: 1200,
		Balance:    -200,
	}

	EvaluateStatus(inv, time.Now().UTC())
	assert.Equal(t, InvoiceStatusPaid, inv.Status)
	assert.Equal(t, int64(0), inv.Balance)
}

func TestEvaluateStatusOverdue(t *testing.T) {
	past := time.Now().UTC().Add(-time.Hour)
	inv := &Invoice{
		Status:     InvoiceStatusSent,
		DueDate:    &past,
		GrandTotal: 1000,
		Balance:    1000,
	}

	EvaluateStatus(inv, time.Now().UTC())
	assert.Equal(t, InvoiceStatusOverdue, inv.Status)
}

func TestEvaluateStatusTerminalIsSticky(t *testing.T) {
	past := time.Now().UTC().Add(-time.Hour)

	cancelled := &Invoice{
		Status:     InvoiceStatusCancelled,
		DueDate:    &past,
		GrandTotal: 1000,
		Balance:    1000,
	}
	EvaluateStatus(cancelled, time.Now().UTC())
	assert.Equal(t, InvoiceStatusCancelled, cancelled.Status)

	// A draft settled by a direct payment never regresses to draft.
	paidDraft := &Invoice{
		IsDraft:    true,
		Status:     InvoiceStatusPaid,
		GrandTotal: 1000,
		AmountPaid: 1000,
	}
	EvaluateStatus(paidDraft, time.Now().UTC())
	assert.Equal(t, InvoiceStatusPaid, paidDraft.Status)
}

func TestEvaluateStatusDraftBecomesSent(t *testing.T) {
	inv := &Invoice{
		Status:     InvoiceStatusDraft,
		GrandTotal: 1000,
		Balance:    1000,
	}

	EvaluateStatus(inv, time.Now().UTC())
	assert.Equal(t, InvoiceStatusSent, inv.Status)
}

func TestEvaluateStatusSentStaysSentBeforeDue(t *testing.T) {
	future := time.Now().UTC().Add(72 * time.Hour)
	inv := &Invoice{
		Status:     InvoiceStatusSent,
		DueDate:    &future,
		GrandTotal: 1000,
		Balance:    1000,
	}

	EvaluateStatus(inv, time.Now().UTC())
	assert.Equal(t, InvoiceStatusSent, inv.Status)
}

func TestFinalize(t *testing.T) {
	inv := &Invoice{
		IsDraft:    true,
		Status:     InvoiceStatusDraft,
		GrandTotal: 1000,
		Balance:    1000,
	}

	require.NoError(t, Finalize(inv, time.Now().UTC()))
	assert.False(t, inv.IsDraft)
	assert.Equal(t, InvoiceStatusSent, inv.Status)

	assert.ErrorIs(t, Finalize(inv, time.Now().UTC()), ErrNotDraft)
}

func TestFinalizePastDueLandsOnOverdue(t *testing.T) {
	past := time.Now().UTC().Add(-24 * time.Hour)
	inv := &Invoice{
		IsDraft:    true,
		Status:     InvoiceStatusDraft,
		DueDate:    &past,
		GrandTotal: 1000,
		Balance:    1000,
	}

	require.NoError(t, Finalize(inv, time.Now().UTC()))
	assert.Equal(t, InvoiceStatusOverdue, inv.Status)
}

func TestApplyPaymentValidation(t *testing.T) {
	inv := &Invoice{Status: InvoiceStatusSent, GrandTotal: 1000, Balance: 1000}

	assert.ErrorIs(t, ApplyPayment(inv, 0, time.Now().UTC()), ErrInvalidPaymentAmount)
	assert.ErrorIs(t, ApplyPayment(inv, -500, time.Now().UTC()), ErrInvalidPaymentAmount)
	assert.Equal(t, int64(0), inv.AmountPaid)
}

func TestApplyPaymentPartialThenFull(t *testing.T) {
	now := time.Now().UTC()
	inv := &Invoice{Status: InvoiceStatusSent, GrandTotal: 1000, Balance: 1000}

	require.NoError(t, ApplyPayment(inv, 400, now))
	assert.Equal(t, InvoiceStatusSent, inv.Status)
	assert.Equal(t, int64(600), inv.Balance)

	require.NoError(t, ApplyPayment(inv, 600, now))
	assert.Equal(t, InvoiceStatusPaid, inv.Status)
	assert.Equal(t, int64(0), inv.Balance)
	assert.Equal(t, int64(1000), inv.AmountPaid)
}

func TestApplyPaymentOverpayFloorsBalance(t *testing.T) {
	inv := &Invoice{Status: InvoiceStatusSent, GrandTotal: 1000, Balance: 1000}

	require.NoError(t, ApplyPayment(inv, 1500, time.Now().UTC()))
	assert.Equal(t, InvoiceStatusPaid, inv.Status)
	assert.Equal(t, int64(0), inv.Balance)
	assert.Equal(t, int64(1500), inv.AmountPaid)
}

func TestApplyPaymentPartialOnOverdueStaysOverdue(t *testing.T) {
	past := time.Now().UTC().Add(-time.Hour)
	inv := &Invoice{
		Status:     InvoiceStatusOverdue,
		DueDate:    &past,
		GrandTotal: 1000,
		Balance:    1000,
	}

	require.NoError(t, ApplyPayment(inv, 300, time.Now().UTC()))
	assert.Equal(t, InvoiceStatusOverdue, inv.Status)
	assert.Equal(t, int64(700), inv.Balance)
}

func TestApplyPaymentSettlesDraftDirectly(t *testing.T) {
	// A settling payment wins over the draft exemption.
	inv := &Invoice{
		IsDraft:    true,
		Status:     InvoiceStatusDraft,
		GrandTotal: 1000,
		Balance:    1000,
	}

	require.NoError(t, ApplyPayment(inv, 1000, time.Now().UTC()))
	assert.Equal(t, InvoiceStatusPaid, inv.Status)
}

func TestFinancialsFrozen(t *testing.T) {
	assert.True(t, (&Invoice{Status: InvoiceStatusPaid}).FinancialsFrozen())
	assert.True(t, (&Invoice{Status: InvoiceStatusCancelled}).FinancialsFrozen())
	assert.False(t, (&Invoice{Status: InvoiceStatusSent}).FinancialsFrozen())
	assert.False(t, (&Invoice{Status: InvoiceStatusOverdue}).FinancialsFrozen())
	assert.False(t, (&Invoice{Status: InvoiceStatusDraft}).FinancialsFrozen())
}
