package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		in   string
		want Kind
		ok   bool
	}{
		{in: "deposit", want: KindDeposit, ok: true},
		{in: "DEPOSIT", want: KindDeposit, ok: true},
		{in: "Withdrawal", want: KindWithdrawal, ok: true},
		{in: "transfer", ok: false},
		{in: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseKind(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTransaction_Apply(t *testing.T) {
	t.Run("accepted deposit is recorded once", func(t *testing.T) {
		clock := newFakeClock()
		a := NewCheckingAccount(nil, 1, clock)

		require.NoError(t, NewDeposit(dec("1000")).Apply(a))

		recs := a.History().Records()
		require.Len(t, recs, 1)
		assert.Equal(t, KindDeposit, recs[0].Kind)
		assert.True(t, recs[0].Amount.Equal(dec("1000")))
		assert.Equal(t, clock.Now().Truncate(time.Second), recs[0].Timestamp)
	})

	t.Run("rejected withdrawal leaves history untouched", func(t *testing.T) {
		a := NewCheckingAccount(nil, 1, newFakeClock())

		err := NewWithdrawal(dec("10")).Apply(a)

		assert.ErrorIs(t, err, ErrInsufficientFunds)
		assert.Zero(t, a.History().Len())
	})

	t.Run("rejected deposit leaves history untouched", func(t *testing.T) {
		a := NewBasicAccount(nil, 1, newFakeClock())

		assert.ErrorIs(t, NewDeposit(dec("0")).Apply(a), ErrInvalidAmount)
		assert.Zero(t, a.History().Len())
	})
}

func TestNewTransaction(t *testing.T) {
	tx, err := NewTransaction(KindWithdrawal, dec("12.5"))
	require.NoError(t, err)
	assert.Equal(t, KindWithdrawal, tx.Kind())
	assert.True(t, tx.Amount().Equal(dec("12.5")))

	_, err = NewTransaction(Kind("transfer"), dec("1"))
	var ve *ValidationError
	assert.ErrorAs(t, err, &ve)
}
