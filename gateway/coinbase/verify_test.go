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
	"testing"

	"code.refchain.io/node/gateway/coinbase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "whsec"

const wrapped = `{"id":"1","scheduled_for":"2026-01-01T00:00:00Z","event":{"id":"e1","type":"charge:confirmed","data":{"code":"ABCD","timeline":[{"status":"NEW"},{"status":"COMPLETED"}],"payments":[{"network":"ethereum","transaction_id":"0xabc","status":"CONFIRMED","value":{"local":{"amount":"100.00","currency":"USD"},"crypto":{"amount":"0.05","currency":"ETH"}}}]}}}`

func TestVerifyWrappedEvent(t *testing.T) {
	body := []byte(wrapped)

	evt, err := coinbase.Verify(body, coinbase.Sign(body, secret), secret)
	require.NoError(t, err)
	assert.Equal(t, coinbase.EventChargeConfirmed, evt.Type)
	assert.Equal(t, "ABCD", evt.Data.Code)
	require.Len(t, evt.Data.Payments, 1)
	assert.Equal(t, "0.05", evt.Data.Payments[0].Value.Crypto.Amount.String())

	latest, ok := evt.Data.LatestStatus()
	require.True(t, ok)
	assert.Equal(t, coinbase.StatusCompleted, latest.Status)
}

func TestVerifyBareEvent(t *testing.T) {
	body := []byte(`{"type":"charge:pending","data":{"code":"XYZ","timeline":[]}}`)

	evt, err := coinbase.Verify(body, coinbase.Sign(body, secret), secret)
	require.NoError(t, err)
	assert.Equal(t, "XYZ", evt.Data.Code)
	_, ok := evt.Data.LatestStatus()
	assert.False(t, ok)
}

func TestVerifyRejectsBadSignatures(t *testing.T) {
	body := []byte(wrapped)

	cases := map[string]struct {
		signature, secret string
	}{
		"wrong secret": {coinbase.Sign(body, "other"), secret},
		"not hex":      {"zz", secret},
		"empty":        {"", secret},
		"no secret":    {coinbase.Sign(body, ""), ""},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := coinbase.Verify(body, c.signature, c.secret)
			assert.ErrorIs(t, err, coinbase.ErrInvalidSignature)
		})
	}
}

func TestVerifyRejectsMalformedBody(t *testing.T) {
	for _, body := range [][]byte{[]byte(`{"event":`), []byte(`{"data":{}}`)} {
		_, err := coinbase.Verify(body, coinbase.Sign(body, secret), secret)
		assert.ErrorIs(t, err, coinbase.ErrMalformedEvent)
	}
}
