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
package commission_test

import (
	"context"
	"testing"

	"code.refchain.io/node/commission"
	"code.refchain.io/node/commission/mocks"
	"code.refchain.io/node/entities"
	"code.refchain.io/node/internal/logging"

	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommissionTierLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := commission.NewService(logging.NewTestLogger(), f.store.CommissionTiers, f.store.Commissions, f.settlement(nil), nil)

	_, err := svc.CreateCommissionTier(ctx, 3, decimal.RequireFromString("0.02"))
	require.NoError(t, err)

	rates, err := svc.GetAllCommissionRates(ctx)
	require.NoError(t, err)
	require.Len(t, rates, 3)
	assert.Equal(t, int32(3), rates[2].Tier)

	_, err = svc.CreateCommissionTier(ctx, 3, decimal.RequireFromString("0.02"))
	assert.ErrorIs(t, err, entities.ErrConflict)

	updated, err := svc.UpdateCommissionTier(ctx, 3, decimal.RequireFromString("0.03"))
	require.NoError(t, err)
	assert.Equal(t, "0.03", updated.CommissionRate.String())

	require.NoError(t, svc.DeleteCommissionTier(ctx, 3))
	rates, err = svc.GetAllCommissionRates(ctx)
	require.NoError(t, err)
	assert.Len(t, rates, 2)

	assert.ErrorIs(t, svc.DeleteCommissionTier(ctx, 3), entities.ErrNotFound)
	_, err = svc.UpdateCommissionTier(ctx, 3, decimal.RequireFromString("0.03"))
	assert.ErrorIs(t, err, entities.ErrNotFound)
}

func TestCommissionTierValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := commission.NewService(logging.NewTestLogger(), f.store.CommissionTiers, f.store.Commissions, f.settlement(nil), nil)

	_, err := svc.CreateCommissionTier(ctx, 0, decimal.RequireFromString("0.1"))
	assert.ErrorIs(t, err, entities.ErrInvalidArgument)

	_, err = svc.CreateCommissionTier(ctx, 4, decimal.RequireFromString("1.5"))
	assert.ErrorIs(t, err, entities.ErrInvalidArgument)

	_, err = svc.UpdateCommissionTier(ctx, 1, decimal.RequireFromString("0.00001"))
	assert.ErrorIs(t, err, entities.ErrInvalidArgument)
}

func TestCalculateCommissionNotifiesOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addPurchase(t, "CHG-N", amountOf(2000), currencyOf("EUR"))

	ctrl := gomock.NewController(t)
	notifier := mocks.NewMockNotifier(ctrl)
	notifier.EXPECT().NotifySettlement(gomock.Any(), gomock.Any()).Times(1).Do(func(_ context.Context, res *commission.Result) {
		assert.Equal(t, "CHG-N", res.Charge.Code)
		assert.Len(t, res.Commissions, 2)
	})

	svc := commission.NewService(logging.NewTestLogger(), f.store.CommissionTiers, f.store.Commissions, f.settlement(nil), notifier)
	_, err := svc.CalculateCommission(ctx, "CHG-N")
	require.NoError(t, err)

	_, err = svc.CalculateCommission(ctx, "CHG-N")
	assert.ErrorIs(t, err, entities.ErrAlreadySettled)

	earned, err := svc.ListByCustomer(ctx, f.b.ID)
	require.NoError(t, err)
	require.Len(t, earned, 1)
	assert.Equal(t, int64(200), earned[0].Amount)

	require.NoError(t, svc.MarkTransferred(ctx, earned[0].ID))
	earned, err = svc.ListByCustomer(ctx, f.b.ID)
	require.NoError(t, err)
	assert.True(t, earned[0].IsTransferred)
}
