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
package payments_test

import (
	"context"
	"testing"

	"code.refchain.io/node/commission"
	"code.refchain.io/node/entities"
	"code.refchain.io/node/gateway/coinbase"
	"code.refchain.io/node/internal/logging"
	"code.refchain.io/node/internal/memstore"
	"code.refchain.io/node/payments"
	"code.refchain.io/node/referral"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type testProcessor struct {
	*payments.Processor
	store  *memstore.Store
	charge entities.Charge
	a, b   entities.Customer
}

// newTestProcessor wires a processor over an in memory store holding the
// chain A <- B <- C and a 10000 USD purchase by C under charge CHG.
func newTestProcessor(t *testing.T, settler payments.Settler, notifier commission.Notifier) *testProcessor {
	t.Helper()
	ctx := context.Background()
	store := memstore.New()

	a := entities.Customer{ReferralCode: "A", CustomerStatus: entities.CustomerStatusActive}
	require.NoError(t, store.Customers.Add(ctx, &a))
	b := entities.Customer{ReferralCode: "B", CustomerStatus: entities.CustomerStatusActive, ReferralCustomerID: &a.ID}
	require.NoError(t, store.Customers.Add(ctx, &b))
	c := entities.Customer{ReferralCode: "C", CustomerStatus: entities.CustomerStatusActive, ReferralCustomerID: &b.ID}
	require.NoError(t, store.Customers.Add(ctx, &c))
	require.NoError(t, store.CommissionTiers.Add(ctx, entities.CommissionTier{Tier: 1, CommissionRate: decimal.RequireFromString("0.10")}))
	require.NoError(t, store.CommissionTiers.Add(ctx, entities.CommissionTier{Tier: 2, CommissionRate: decimal.RequireFromString("0.05")}))

	charge := entities.Charge{Code: "CHG", CustomerID: c.ID}
	require.NoError(t, store.Charges.Add(ctx, &charge))
	amount, currency := int64(10000), "USD"
	require.NoError(t, store.PurchaseActivities.Add(ctx, &entities.PurchaseActivity{
		ChargeID:      charge.ID,
		CustomerID:    c.ID,
		Amount:        &amount,
		Currency:      &currency,
		PaymentStatus: entities.PaymentStatusNew,
	}))

	if settler == nil {
		walker := referral.NewAncestryWalker(store.Customers, referral.NewDefaultConfig())
		settler = commission.NewSettlement(
			logging.NewTestLogger(),
			commission.NewDefaultConfig(),
			store.Charges,
			store.PurchaseActivities,
			store.Commissions,
			store,
			commission.NewCalculator(store.CommissionTiers, walker),
		)
	}

	p := payments.NewProcessor(
		logging.NewTestLogger(),
		payments.NewDefaultConfig(),
		store.Charges,
		store.PurchaseActivities,
		store.Payments,
		store,
		settler,
		notifier,
	)
	return &testProcessor{Processor: p, store: store, charge: charge, a: a, b: b}
}

func event(typ, status, detail string, txs ...string) coinbase.Event {
	data := coinbase.ChargeResource{
		Code: "CHG",
		Timeline: []coinbase.TimelineEntry{
			{Status: coinbase.StatusNew},
			{Status: status, Context: detail},
		},
		Pricing: map[string]coinbase.Money{
			"local": {Amount: decimal.RequireFromString("100.00"), Currency: "USD"},
		},
	}
	for _, tx := range txs {
		data.Payments = append(data.Payments, coinbase.PaymentEntry{
			Network:       "ethereum",
			TransactionID: tx,
			Status:        "CONFIRMED",
			Value: coinbase.PaymentValue{
				Local:  coinbase.Money{Amount: decimal.RequireFromString("100.00"), Currency: "USD"},
				Crypto: coinbase.Money{Amount: decimal.RequireFromString("0.05"), Currency: "ETH"},
			},
		})
	}
	return coinbase.Event{ID: "evt", Type: typ, Data: data}
}
