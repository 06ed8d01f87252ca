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
	"context"
	"testing"

	"code.refchain.io/node/entities"
	"code.refchain.io/node/sqlstore"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T {
	return &v
}

func TestPaymentsDedupAndCount(t *testing.T) {
	ctx := tempTransaction(t)
	cs := sqlstore.NewCustomers(connectionSource)
	payments := sqlstore.NewPayments(connectionSource)

	buyer := addTestCustomer(t, ctx, cs, nil, entities.CustomerStatusActive)
	charge, _ := addTestPurchase(t, ctx, buyer, 500, "USD")

	require.NoError(t, payments.LockCharge(ctx, charge.Code))

	first := entities.Payment{
		ChargeID:      charge.ID,
		Transaction:   ptr("0xabc"),
		Network:       "ethereum",
		Amount:        decimal.RequireFromString("0.0123"),
		Currency:      "ETH",
		PaymentStatus: entities.PaymentStatusCompleted,
	}
	inserted, err := payments.Add(ctx, &first)
	require.NoError(t, err)
	assert.True(t, inserted)
	assert.NotZero(t, first.ID)

	again := first
	again.ID = 0
	inserted, err = payments.Add(ctx, &again)
	require.NoError(t, err)
	assert.False(t, inserted)

	// synthetic entries carry no transaction and are never deduplicated
	for i := 0; i < 2; i++ {
		synthetic := entities.Payment{ChargeID: charge.ID, PaymentStatus: entities.PaymentStatusPending}
		inserted, err = payments.Add(ctx, &synthetic)
		require.NoError(t, err)
		assert.True(t, inserted)
	}

	ids, err := payments.ListTransactionIDs(ctx, charge.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"0xabc"}, ids)

	count, err := payments.CountByStatus(ctx, charge.ID, entities.PaymentStatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	all, err := payments.ListByCharge(ctx, charge.ID)
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.True(t, decimal.RequireFromString("0.0123").Equal(all[0].Amount))
	assert.Nil(t, all[1].Transaction)
}

func TestPaymentsLockRequiresTransaction(t *testing.T) {
	payments := sqlstore.NewPayments(connectionSource)
	assert.ErrorIs(t, payments.LockCharge(context.Background(), "code"), sqlstore.ErrNoTransaction)
}
