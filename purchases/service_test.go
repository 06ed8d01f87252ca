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
package purchases_test

import (
	"context"
	"errors"
	"testing"

	"code.refchain.io/node/entities"
	"code.refchain.io/node/gateway/coinbase"
	"code.refchain.io/node/internal/logging"
	"code.refchain.io/node/internal/memstore"
	"code.refchain.io/node/purchases"
	"code.refchain.io/node/purchases/mocks"

	"github.com/golang/mock/gomock"
	uuid "github.com/satori/go.uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T) (*purchases.Service, *mocks.MockGateway, *memstore.Store, entities.Customer) {
	t.Helper()
	store := memstore.New()
	buyer := entities.Customer{ReferralCode: "BUYER", CustomerStatus: entities.CustomerStatusActive}
	require.NoError(t, store.Customers.Add(context.Background(), &buyer))

	gateway := mocks.NewMockGateway(gomock.NewController(t))
	svc := purchases.NewService(
		logging.NewTestLogger(),
		purchases.NewDefaultConfig(),
		gateway,
		store.Customers,
		store.Charges,
		store.PurchaseActivities,
		store.Payments,
		store,
	)
	return svc, gateway, store, buyer
}

func TestInitiateStoresChargeAndActivity(t *testing.T) {
	svc, gateway, store, buyer := newService(t)
	ctx := context.Background()

	gateway.EXPECT().CreateCharge(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, req coinbase.ChargeRequest) (coinbase.ChargeResource, error) {
			assert.Equal(t, "123.45", req.LocalPrice.Amount.String())
			assert.Equal(t, "USD", req.LocalPrice.Currency)
			assert.NotEmpty(t, req.Metadata[purchases.MetadataCustomerID])
			_, err := uuid.FromString(req.Metadata[purchases.MetadataReference])
			assert.NoError(t, err)
			return coinbase.ChargeResource{
				Code:      "GW123",
				HostedURL: "https://commerce.example/GW123",
				Pricing: map[string]coinbase.Money{
					"local": req.LocalPrice,
				},
			}, nil
		})

	status, err := svc.Initiate(ctx, purchases.Request{
		CustomerID:  buyer.ID,
		Amount:      12345,
		Currency:    "USD",
		TokenAmount: decimal.RequireFromString("50"),
	})
	require.NoError(t, err)
	assert.Equal(t, "GW123", status.Charge.Code)
	assert.Equal(t, "123.45", status.Charge.Pricing["local"].Amount)

	got, err := svc.Status(ctx, "GW123")
	require.NoError(t, err)
	assert.Equal(t, buyer.ID, got.Charge.CustomerID)
	assert.Equal(t, int64(12345), *got.Activity.Amount)
	assert.Equal(t, "USD", *got.Activity.Currency)
	assert.Equal(t, entities.PaymentStatusNew, got.Activity.PaymentStatus)
	assert.False(t, got.Activity.PurchaseConfirmed)
	assert.Empty(t, got.Payments)

	_, err = store.Charges.GetByCode(ctx, "GW123")
	require.NoError(t, err)
}

func TestInitiateValidatesRequest(t *testing.T) {
	svc, _, _, buyer := newService(t)
	ctx := context.Background()

	cases := map[string]purchases.Request{
		"zero amount":       {CustomerID: buyer.ID, Amount: 0, Currency: "USD"},
		"lower case":        {CustomerID: buyer.ID, Amount: 1, Currency: "usd"},
		"negative tokens":   {CustomerID: buyer.ID, Amount: 1, Currency: "USD", TokenAmount: decimal.NewFromInt(-1)},
		"too long currency": {CustomerID: buyer.ID, Amount: 1, Currency: "USDT"},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Initiate(ctx, req)
			assert.ErrorIs(t, err, entities.ErrInvalidArgument)
		})
	}

	_, err := svc.Initiate(ctx, purchases.Request{CustomerID: 404, Amount: 1, Currency: "USD"})
	assert.ErrorIs(t, err, entities.ErrNotFound)
}

func TestInitiateStoresNothingWhenGatewayFails(t *testing.T) {
	svc, gateway, _, buyer := newService(t)
	ctx := context.Background()
	boom := errors.New("gateway down")
	gateway.EXPECT().CreateCharge(gomock.Any(), gomock.Any()).Return(coinbase.ChargeResource{}, boom)

	_, err := svc.Initiate(ctx, purchases.Request{CustomerID: buyer.ID, Amount: 100, Currency: "EUR"})
	assert.ErrorIs(t, err, boom)
}

func TestInitiateRejectsDuplicateChargeCode(t *testing.T) {
	svc, gateway, _, buyer := newService(t)
	ctx := context.Background()
	gateway.EXPECT().CreateCharge(gomock.Any(), gomock.Any()).Return(coinbase.ChargeResource{Code: "SAME"}, nil).Times(2)

	req := purchases.Request{CustomerID: buyer.ID, Amount: 100, Currency: "EUR"}
	_, err := svc.Initiate(ctx, req)
	require.NoError(t, err)
	_, err = svc.Initiate(ctx, req)
	assert.ErrorIs(t, err, entities.ErrConflict)
}

func TestStatusUnknownCharge(t *testing.T) {
	svc, _, _, _ := newService(t)
	_, err := svc.Status(context.Background(), "NOPE")
	assert.ErrorIs(t, err, entities.ErrNotFound)
}
