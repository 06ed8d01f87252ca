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
package sqlstore_test

import (
	"testing"

	"code.refchain.io/node/entities"
	"code.refchain.io/node/sqlstore"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChargesAndPurchaseActivities(t *testing.T) {
	ctx := tempTransaction(t)
	cs := sqlstore.NewCustomers(connectionSource)
	charges := sqlstore.NewCharges(connectionSource)
	activities := sqlstore.NewPurchaseActivities(connectionSource)

	buyer := addTestCustomer(t, ctx, cs, nil, entities.CustomerStatusActive)
	charge, activity := addTestPurchase(t, ctx, buyer, 10000, "USD")

	gotCharge, err := charges.GetByCode(ctx, charge.Code)
	require.NoError(t, err)
	assert.Equal(t, charge.ID, gotCharge.ID)
	assert.Equal(t, "100.00", gotCharge.Pricing["local"].Amount)

	gotActivity, err := activities.GetByChargeID(ctx, charge.ID)
	require.NoError(t, err)
	assert.Equal(t, activity.ID, gotActivity.ID)
	require.NotNil(t, gotActivity.Amount)
	assert.Equal(t, int64(10000), *gotActivity.Amount)
	assert.Equal(t, entities.PaymentStatusNew, gotActivity.PaymentStatus)
	assert.False(t, gotActivity.PurchaseConfirmed)
	assert.True(t, decimal.NewFromInt(250).Equal(gotActivity.TokenAmount))

	_, err = charges.GetByCode(ctx, "missing")
	assert.ErrorIs(t, err, entities.ErrNotFound)
}

func TestPurchaseActivityStatusAndConfirm(t *testing.T) {
	ctx := tempTransaction(t)
	cs := sqlstore.NewCustomers(connectionSource)
	activities := sqlstore.NewPurchaseActivities(connectionSource)

	buyer := addTestCustomer(t, ctx, cs, nil, entities.CustomerStatusActive)
	charge, _ := addTestPurchase(t, ctx, buyer, 500, "USD")

	reason := entities.UnresolvedReasonUnderpaid
	require.NoError(t, activities.UpdatePaymentStatus(ctx, charge.ID, entities.PaymentStatusUnresolved, &reason))

	got, err := activities.GetByChargeID(ctx, charge.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.PaymentStatusUnresolved, got.PaymentStatus)
	require.NotNil(t, got.UnresolvedReason)
	assert.Equal(t, entities.UnresolvedReasonUnderpaid, *got.UnresolvedReason)

	require.NoError(t, activities.UpdatePaymentStatus(ctx, charge.ID, entities.PaymentStatusCompleted, nil))
	require.NoError(t, activities.Confirm(ctx, charge.ID))
	// the flag flips only once
	assert.ErrorIs(t, activities.Confirm(ctx, charge.ID), entities.ErrAlreadySettled)

	got, err = activities.GetByChargeID(ctx, charge.ID)
	require.NoError(t, err)
	assert.True(t, got.PurchaseConfirmed)
	assert.Nil(t, got.UnresolvedReason)

	assert.ErrorIs(t, activities.UpdatePaymentStatus(ctx, entities.ChargeID(-1), entities.PaymentStatusPending, nil), entities.ErrNotFound)
}
