// Copyright (C) 2023 Gobalsky Labs Limited
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.
package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"

	"code.refchain.io/node/api"
	"code.refchain.io/node/api/mocks"
	"code.refchain.io/node/gateway/coinbase"
	"code.refchain.io/node/payments"

	"github.com/golang/mock/gomock"
	"github.com/inhies/go-bytesize"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completedEvent(t *testing.T, code string) []byte {
	t.Helper()
	body, err := json.Marshal(map[string]interface{}{
		"id": "delivery",
		"event": map[string]interface{}{
			"id":   "evt-1",
			"type": coinbase.EventChargeConfirmed,
			"data": map[string]interface{}{
				"code": code,
				"timeline": []map[string]string{
					{"status": "NEW"},
					{"status": "PENDING"},
					{"status": "COMPLETED"},
				},
				"payments": []map[string]interface{}{{
					"network":        "ethereum",
					"transaction_id": "0xfeed",
					"status":         "CONFIRMED",
					"value": map[string]interface{}{
						"local":  map[string]string{"amount": "100.00", "currency": "USD"},
						"crypto": map[string]string{"amount": "0.05", "currency": "ETH"},
					},
				}},
			},
		},
	})
	require.NoError(t, err)
	return body
}

type webhookBody struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
}

func TestWebhookSettlesCompletedChargeOnce(t *testing.T) {
	ta := newTestAPI(t, api.NewDefaultConfig(), nil)
	charge := ta.addCharge(t, "CHG")
	body := completedEvent(t, "CHG")

	for i := 0; i < 2; i++ {
		rec := ta.webhook(t, body, coinbase.Sign(body, webhookSecret))
		require.Equal(t, http.StatusOK, rec.Code)
		var res webhookBody
		decode(t, rec, &res)
		assert.Equal(t, http.StatusOK, res.StatusCode)
	}

	lines, err := ta.store.Commissions.ListByCharge(context.Background(), charge.ID)
	require.NoError(t, err)
	assert.Len(t, lines, 2)

	activity, err := ta.store.PurchaseActivities.GetByChargeID(context.Background(), charge.ID)
	require.NoError(t, err)
	assert.True(t, activity.PurchaseConfirmed)
}

func TestWebhookRejectsBadSignatureWithoutMutation(t *testing.T) {
	ta := newTestAPI(t, api.NewDefaultConfig(), nil)
	charge := ta.addCharge(t, "CHG")
	body := completedEvent(t, "CHG")

	rec := ta.webhook(t, body, coinbase.Sign(body, "wrong"))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	var res webhookBody
	decode(t, rec, &res)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.NotEmpty(t, res.Message)

	recorded, err := ta.store.Payments.ListByCharge(context.Background(), charge.ID)
	require.NoError(t, err)
	assert.Empty(t, recorded)
}

func TestWebhookAcknowledgesIgnoredEvents(t *testing.T) {
	ta := newTestAPI(t, api.NewDefaultConfig(), nil)
	body := []byte(`{"event":{"type":"invoice:created","data":{"code":"X"}}}`)

	rec := ta.webhook(t, body, coinbase.Sign(body, webhookSecret))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestWebhookUnknownChargeIsClientError(t *testing.T) {
	ta := newTestAPI(t, api.NewDefaultConfig(), nil)
	body := completedEvent(t, "MISSING")

	rec := ta.webhook(t, body, coinbase.Sign(body, webhookSecret))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWebhookRecoversFromPanics(t *testing.T) {
	ctrl := gomock.NewController(t)
	events := mocks.NewMockEventProcessor(ctrl)
	events.EXPECT().Process(gomock.Any(), gomock.Any()).DoAndReturn(
		func(context.Context, coinbase.Event) (payments.Outcome, error) {
			panic("boom")
		})

	ta := newTestAPI(t, api.NewDefaultConfig(), events)
	body := completedEvent(t, "CHG")

	rec := ta.webhook(t, body, coinbase.Sign(body, webhookSecret))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWebhookProcessingErrorIsClientError(t *testing.T) {
	ctrl := gomock.NewController(t)
	events := mocks.NewMockEventProcessor(ctrl)
	events.EXPECT().Process(gomock.Any(), gomock.Any()).Return(payments.Outcome(""), errors.New("db down"))

	ta := newTestAPI(t, api.NewDefaultConfig(), events)
	body := completedEvent(t, "CHG")

	rec := ta.webhook(t, body, coinbase.Sign(body, webhookSecret))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "db down"))
}

func TestWebhookBodyLimit(t *testing.T) {
	cfg := api.NewDefaultConfig()
	cfg.MaxWebhookBodySize.ByteSize = 64 * bytesize.B
	ta := newTestAPI(t, cfg, nil)
	body := completedEvent(t, "CHG")

	rec := ta.webhook(t, body, coinbase.Sign(body, webhookSecret))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "too large")
}
