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
package coinbase_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"code.refchain.io/node/config/encoding"
	"code.refchain.io/node/gateway/coinbase"
	"code.refchain.io/node/internal/logging"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(url string) *coinbase.Client {
	cfg := coinbase.NewDefaultConfig()
	cfg.APIURL = url
	cfg.APIKey = "key"
	cfg.Retries = 2
	cfg.Timeout = encoding.Duration{Duration: time.Second}
	return coinbase.NewClient(logging.NewTestLogger(), cfg)
}

func TestCreateChargeRetriesServerErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/charges", r.URL.Path)
		assert.Equal(t, "key", r.Header.Get("X-CC-Api-Key"))
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		var req coinbase.ChargeRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "fixed_price", req.PricingType)
		assert.Equal(t, "42", req.Metadata["customer_id"])
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"data": map[string]interface{}{
				"code":       "NEWCODE",
				"hosted_url": "https://commerce.example/NEWCODE",
				"pricing": map[string]interface{}{
					"local": map[string]string{"amount": "10.00", "currency": "USD"},
				},
			},
		})
	}))
	defer srv.Close()

	charge, err := newClient(srv.URL).CreateCharge(context.Background(), coinbase.ChargeRequest{
		Name:       "tokens",
		LocalPrice: coinbase.Money{Amount: decimal.RequireFromString("10"), Currency: "USD"},
		Metadata:   map[string]string{"customer_id": "42"},
	})
	require.NoError(t, err)
	assert.Equal(t, "NEWCODE", charge.Code)
	assert.Equal(t, "10", charge.Pricing["local"].Amount.String())
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestCreateChargeDoesNotRetryClientErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"type":"authorization_error"}}`))
	}))
	defer srv.Close()

	_, err := newClient(srv.URL).CreateCharge(context.Background(), coinbase.ChargeRequest{Name: "tokens"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestClientVerifyUsesConfiguredSecret(t *testing.T) {
	cfg := coinbase.NewDefaultConfig()
	cfg.WebhookSecret = "s3cret"
	client := coinbase.NewClient(logging.NewTestLogger(), cfg)

	body := []byte(`{"type":"charge:created","data":{"code":"C"}}`)
	_, err := client.Verify(body, coinbase.Sign(body, "s3cret"))
	require.NoError(t, err)

	_, err = client.Verify(body, coinbase.Sign(body, "nope"))
	assert.ErrorIs(t, err, coinbase.ErrInvalidSignature)
}
