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
package referral_test

import (
	"context"
	"errors"
	"testing"

	"code.refchain.io/node/entities"
	"code.refchain.io/node/internal/memstore"
	"code.refchain.io/node/referral"
	"code.refchain.io/node/referral/mocks"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func id(v int64) *entities.CustomerID {
	c := entities.CustomerID(v)
	return &c
}

// chain stores customers 1 <- 2 <- ... <- n, each referred by the previous one.
func chain(t *testing.T, n int) *memstore.Store {
	t.Helper()
	store := memstore.New()
	for i := 1; i <= n; i++ {
		c := entities.Customer{ID: entities.CustomerID(i), CustomerStatus: entities.CustomerStatusActive}
		if i > 1 {
			c.ReferralCustomerID = id(int64(i - 1))
		}
		store.Customers.Put(c)
	}
	return store
}

func TestWalkerYieldsAncestorsInTierOrder(t *testing.T) {
	store := chain(t, 4)
	walker := referral.NewAncestryWalker(store.Customers, referral.NewDefaultConfig())

	w, err := walker.Walk(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, entities.CustomerID(4), w.Seed().ID)

	expected := []entities.CustomerID{3, 2, 1}
	for i, exp := range expected {
		c, ok, err := w.Next(context.Background())
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, exp, c.ID)
		assert.Equal(t, int32(i+1), w.Tier())
	}

	_, ok, err := w.Next(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
	// exhausted walkers stay exhausted
	_, ok, err = w.Next(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestWalkerWithoutReferrer(t *testing.T) {
	store := chain(t, 1)
	w, err := referral.NewAncestryWalker(store.Customers, referral.NewDefaultConfig()).Walk(context.Background(), 1)
	require.NoError(t, err)

	ancestors, err := w.Ancestors(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ancestors)
}

func TestWalkerUnknownSeed(t *testing.T) {
	store := chain(t, 2)
	_, err := referral.NewAncestryWalker(store.Customers, referral.NewDefaultConfig()).Walk(context.Background(), 99)
	assert.ErrorIs(t, err, entities.ErrNotFound)
}

func TestWalkerStopsOnMissingAncestor(t *testing.T) {
	store := memstore.New()
	store.Customers.Put(entities.Customer{ID: 2, ReferralCustomerID: id(77)})
	store.Customers.Put(entities.Customer{ID: 3, ReferralCustomerID: id(2)})

	w, err := referral.NewAncestryWalker(store.Customers, referral.NewDefaultConfig()).Walk(context.Background(), 3)
	require.NoError(t, err)

	ancestors, err := w.Ancestors(context.Background())
	require.NoError(t, err)
	require.Len(t, ancestors, 1)
	assert.Equal(t, entities.CustomerID(2), ancestors[0].ID)
}

func TestWalkerDetectsCycles(t *testing.T) {
	store := memstore.New()
	store.Customers.Put(entities.Customer{ID: 1, ReferralCustomerID: id(3)})
	store.Customers.Put(entities.Customer{ID: 2, ReferralCustomerID: id(1)})
	store.Customers.Put(entities.Customer{ID: 3, ReferralCustomerID: id(2)})

	w, err := referral.NewAncestryWalker(store.Customers, referral.NewDefaultConfig()).Walk(context.Background(), 3)
	require.NoError(t, err)

	_, err = w.Ancestors(context.Background())
	assert.ErrorIs(t, err, referral.ErrAncestryCycle)
}

func TestWalkerHopCap(t *testing.T) {
	store := chain(t, 10)
	cfg := referral.NewDefaultConfig()
	cfg.MaxAncestryDepth = 3

	w, err := referral.NewAncestryWalker(store.Customers, cfg).Walk(context.Background(), 10)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, ok, err := w.Next(context.Background())
		require.NoError(t, err)
		require.True(t, ok)
	}
	_, _, err = w.Next(context.Background())
	assert.ErrorIs(t, err, referral.ErrAncestryCycle)
}

func TestWalkerPropagatesStoreErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	customers := mocks.NewMockCustomerStore(ctrl)

	boom := errors.New("connection reset")
	customers.EXPECT().GetByID(gomock.Any(), entities.CustomerID(5)).Return(entities.Customer{ID: 5, ReferralCustomerID: id(4)}, nil)
	customers.EXPECT().GetByID(gomock.Any(), entities.CustomerID(4)).Return(entities.Customer{}, boom)

	w, err := referral.NewAncestryWalker(customers, referral.NewDefaultConfig()).Walk(context.Background(), 5)
	require.NoError(t, err)

	_, ok, err := w.Next(context.Background())
	assert.False(t, ok)
	assert.ErrorIs(t, err, boom)
}
