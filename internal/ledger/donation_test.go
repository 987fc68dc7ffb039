package ledger_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/kwhmarket/internal/apperr"
	"github.com/MrJamesThe3rd/kwhmarket/internal/ledger"
)

func TestSplit(t *testing.T) {
	created := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	d := ledger.Donation{
		ID:        uuid.New(),
		DonorID:   9,
		AdminID:   1,
		KwhAmount: decimal.RequireFromString("3"),
		CreatedAt: created,
	}

	used, rest, err := ledger.Split(d, decimal.RequireFromString("1"))
	require.NoError(t, err)

	assert.Equal(t, uuid.Nil, used.ID)
	assert.True(t, used.IsUsed)
	assert.True(t, decimal.RequireFromString("1").Equal(used.KwhAmount))
	assert.Equal(t, created, used.CreatedAt)
	assert.Equal(t, d.DonorID, used.DonorID)

	assert.Equal(t, d.ID, rest.ID)
	assert.False(t, rest.IsUsed)
	assert.True(t, decimal.RequireFromString("2").Equal(rest.KwhAmount))

	assert.True(t, d.KwhAmount.Equal(used.KwhAmount.Add(rest.KwhAmount)))
	assert.True(t, decimal.RequireFromString("3").Equal(d.KwhAmount), "input must not change")
}

func TestSplit_RejectsNonPartialAmounts(t *testing.T) {
	d := ledger.Donation{ID: uuid.New(), KwhAmount: decimal.RequireFromString("3")}

	for _, amount := range []string{"0", "-1", "3", "4.5"} {
		_, _, err := ledger.Split(d, decimal.RequireFromString(amount))
		assert.ErrorIs(t, err, apperr.ErrValidation, amount)
	}
}
