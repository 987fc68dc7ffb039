package offer_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/kwhmarket/internal/apperr"
	"github.com/MrJamesThe3rd/kwhmarket/internal/offer"
)

func TestCallback_RoundTrip(t *testing.T) {
	o := &offer.Offer{ID: uuid.New(), Status: offer.StatusPaymentSent}

	data := offer.Callback(offer.ActionConfirmPayment, o)
	assert.Equal(t, "offer:confirm_payment:"+o.ID.String()+":payment_sent", data)

	a, id, s, err := offer.ParseCallback(data)
	require.NoError(t, err)
	assert.Equal(t, offer.ActionConfirmPayment, a)
	assert.Equal(t, o.ID, id)
	assert.Equal(t, offer.StatusPaymentSent, s)
}

func TestParseCallback_Malformed(t *testing.T) {
	id := uuid.NewString()

	tests := []struct {
		name string
		data string
	}{
		{name: "Empty", data: ""},
		{name: "WrongPrefix", data: "feedback:accept:" + id + ":pending"},
		{name: "UnknownAction", data: "offer:fly:" + id + ":pending"},
		{name: "BadID", data: "offer:accept:nope:pending"},
		{name: "UnknownStatus", data: "offer:accept:" + id + ":lost"},
		{name: "ExtraPart", data: "offer:accept:" + id + ":pending:x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, _, err := offer.ParseCallback(tt.data)
			assert.ErrorIs(t, err, apperr.ErrValidation)
		})
	}
}

func TestFeedbackCallback(t *testing.T) {
	o := &offer.Offer{ID: uuid.New()}

	assert.Equal(t, "feedback:"+o.ID.String()+":1", offer.FeedbackCallback(o, true))
	assert.Equal(t, "feedback:"+o.ID.String()+":0", offer.FeedbackCallback(o, false))
}

func TestInputFor(t *testing.T) {
	tests := []struct {
		action    offer.Action
		wantField string
	}{
		{action: offer.ActionReject, wantField: "reason"},
		{action: offer.ActionBuyerCancel, wantField: "reason"},
		{action: offer.ActionReportIssue, wantField: "reason"},
		{action: offer.ActionDeclareKwh, wantField: "kwh"},
		{action: offer.ActionSubmitPhoto, wantField: "photo"},
		{action: offer.ActionDisputeKwh, wantField: "reason"},
		{action: offer.ActionSetPrice, wantField: "unit_price"},
		{action: offer.ActionMarkPaid, wantField: "payment_method"},
		{action: offer.ActionDisputePayment, wantField: "reason"},
		{action: offer.ActionAccept},
		{action: offer.ActionStartCharging},
		{action: offer.ActionConfirmPayment},
	}

	for _, tt := range tests {
		t.Run(string(tt.action), func(t *testing.T) {
			in, ok := offer.InputFor(tt.action)

			assert.Equal(t, tt.wantField != "", ok)
			assert.Equal(t, tt.wantField, in.Field)

			if ok {
				assert.NotEmpty(t, in.Prompt)
			}
		})
	}
}
