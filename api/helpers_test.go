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
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"code.refchain.io/node/api"
	"code.refchain.io/node/commission"
	"code.refchain.io/node/customers"
	"code.refchain.io/node/entities"
	"code.refchain.io/node/gateway/coinbase"
	"code.refchain.io/node/internal/logging"
	"code.refchain.io/node/internal/memstore"
	"code.refchain.io/node/payments"
	"code.refchain.io/node/purchases"
	purchasemocks "code.refchain.io/node/purchases/mocks"
	"code.refchain.io/node/referral"

	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

const webhookSecret = "test-secret"

type testAPI struct {
	handler http.Handler
	store   *memstore.Store
	gateway *purchasemocks.MockGateway
	a, b, c entities.Customer
}

// newTestAPI serves the full stack over an in memory store seeded with the
// chain A <- B <- C and tiers 1 and 2 at 10% and 5%.
func newTestAPI(t *testing.T, cfg api.Config, events api.EventProcessor) *testAPI {
	t.Helper()
	ctx := context.Background()
	log := logging.NewTestLogger()
	store := memstore.New()

	a := entities.Customer{ReferralCode: "A", CustomerStatus: entities.CustomerStatusActive}
	require.NoError(t, store.Customers.Add(ctx, &a))
	b := entities.Customer{ReferralCode: "B", CustomerStatus: entities.CustomerStatusActive, ReferralCustomerID: &a.ID}
	require.NoError(t, store.Customers.Add(ctx, &b))
	c := entities.Customer{ReferralCode: "C", CustomerStatus: entities.CustomerStatusActive, ReferralCustomerID: &b.ID}
	require.NoError(t, store.Customers.Add(ctx, &c))
	require.NoError(t, store.CommissionTiers.Add(ctx, entities.CommissionTier{Tier: 1, CommissionRate: decimal.RequireFromString("0.1")}))
	require.NoError(t, store.CommissionTiers.Add(ctx, entities.CommissionTier{Tier: 2, CommissionRate: decimal.RequireFromString("0.05")}))

	refCfg := referral.NewDefaultConfig()
	walker := referral.NewAncestryWalker(store.Customers, refCfg)
	settlement := commission.NewSettlement(log, commission.NewDefaultConfig(),
		store.Charges, store.PurchaseActivities, store.Commissions, store,
		commission.NewCalculator(store.CommissionTiers, walker))
	commissions := commission.NewService(log, store.CommissionTiers, store.Commissions, settlement, nil)

	if events == nil {
		events = payments.NewProcessor(log, payments.NewDefaultConfig(),
			store.Charges, store.PurchaseActivities, store.Payments, store, settlement, nil)
	}

	customerSvc, err := customers.NewService(log, customers.NewDefaultConfig(), store.Customers)
	require.NoError(t, err)

	gateway := purchasemocks.NewMockGateway(gomock.NewController(t))
	purchaseSvc := purchases.NewService(log, purchases.NewDefaultConfig(), gateway,
		store.Customers, store.Charges, store.PurchaseActivities, store.Payments, store)

	cbCfg := coinbase.NewDefaultConfig()
	cbCfg.WebhookSecret = webhookSecret

	srv := api.NewServer(log, cfg, api.Services{
		Webhook:     coinbase.NewClient(log, cbCfg),
		Events:      events,
		Commissions: commissions,
		Referrals:   referral.NewMapBuilder(log, refCfg, store.Customers),
		Customers:   customerSvc,
		Purchases:   purchaseSvc,
	})
	return &testAPI{handler: srv.Handler(), store: store, gateway: gateway, a: a, b: b, c: c}
}

func (ta *testAPI) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	ta.handler.ServeHTTP(rec, req)
	return rec
}

func (ta *testAPI) webhook(t *testing.T, body []byte, signature string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/coinbase/webhook", bytes.NewReader(body))
	req.Header.Set(coinbase.SignatureHeader, signature)
	rec := httptest.NewRecorder()
	ta.handler.ServeHTTP(rec, req)
	return rec
}

// addCharge stores a 10000 USD purchase by C under code.
func (ta *testAPI) addCharge(t *testing.T, code string) entities.Charge {
	t.Helper()
	ctx := context.Background()
	charge := entities.Charge{Code: code, CustomerID: ta.c.ID}
	require.NoError(t, ta.store.Charges.Add(ctx, &charge))
	amount, currency := int64(10000), "USD"
	require.NoError(t, ta.store.PurchaseActivities.Add(ctx, &entities.PurchaseActivity{
		ChargeID:   charge.ID,
		CustomerID: ta.c.ID,
		Amount:     &amount,
		Currency:   &currency,
	}))
	return charge
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, into interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), into))
}
