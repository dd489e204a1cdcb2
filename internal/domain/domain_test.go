package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHybridSplit(t *testing.T) {
	cases := []struct {
		amount    int64
		immediate int64
		held      int64
	}{
		{5, 4, 1},
		{10, 8, 2},
		{1, 1, 0},
		{2, 2, 0},
		{3, 3, 0},
		{7, 6, 1},
		{100, 80, 20},
	}
	for _, tc := range cases {
		immediate, held := HybridSplit(tc.amount)
		assert.Equal(t, tc.immediate, immediate, "immediate share of %d", tc.amount)
		assert.Equal(t, tc.held, held, "held share of %d", tc.amount)
		assert.Equal(t, tc.amount, immediate+held, "split of %d must conserve the amount", tc.amount)
	}
}

func TestCreditPrice(t *testing.T) {
	assert.Equal(t, int64(1), CreditPrice(0))
	assert.Equal(t, int64(1), CreditPrice(15))
	assert.Equal(t, int64(1), CreditPrice(30))
	assert.Equal(t, int64(2), CreditPrice(31))
	assert.Equal(t, int64(2), CreditPrice(60))
	assert.Equal(t, int64(3), CreditPrice(90))
	assert.Equal(t, int64(5), CreditPrice(150))
}

func TestSessionStatusHelpers(t *testing.T) {
	for _, s := range []string{SessionScheduled, SessionCompleted, SessionCancelled, SessionMissed} {
		assert.True(t, ValidSessionStatus(s), s)
	}
	assert.False(t, ValidSessionStatus("postponed"))
	assert.False(t, ValidSessionStatus(""))

	assert.False(t, TerminalSessionStatus(SessionScheduled))
	assert.True(t, TerminalSessionStatus(SessionCompleted))
	assert.True(t, TerminalSessionStatus(SessionCancelled))
	assert.True(t, TerminalSessionStatus(SessionMissed))
}

func TestValidPaymentPlan(t *testing.T) {
	assert.True(t, ValidPaymentPlan(PlanPerSession))
	assert.True(t, ValidPaymentPlan(PlanPerCourse))
	assert.True(t, ValidPaymentPlan(PlanHybrid))
	assert.False(t, ValidPaymentPlan("monthly"))
	assert.False(t, ValidPaymentPlan(""))
}
