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
package notify_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"code.refchain.io/node/commission"
	"code.refchain.io/node/entities"
	"code.refchain.io/node/internal/logging"
	"code.refchain.io/node/internal/memstore"
	"code.refchain.io/node/notify"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu   sync.Mutex
	msgs []notify.Message
	got  chan struct{}
}

func newRecorder() *recorder {
	return &recorder{got: make(chan struct{}, 100)}
}

func (r *recorder) Send(_ context.Context, msg notify.Message) error {
	r.mu.Lock()
	r.msgs = append(r.msgs, msg)
	r.mu.Unlock()
	r.got <- struct{}{}
	return nil
}

func (r *recorder) messages() []notify.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]notify.Message(nil), r.msgs...)
}

func (r *recorder) wait(t *testing.T, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-r.got:
		case <-time.After(5 * time.Second):
			t.Fatalf("received %d notifications out of %d", i, n)
		}
	}
}

func TestDispatcherNotifiesPurchaserAndReferrers(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	a := entities.Customer{ReferralCode: "A", Email: "a@example.com"}
	require.NoError(t, store.Customers.Add(ctx, &a))
	b := entities.Customer{ReferralCode: "B", Email: ""}
	require.NoError(t, store.Customers.Add(ctx, &b))
	c := entities.Customer{ReferralCode: "C", Email: "c@example.com"}
	require.NoError(t, store.Customers.Add(ctx, &c))

	cfg := fastConfig(1)
	cfg.QueueSize = 1
	cfg.Workers = 2
	rec := newRecorder()
	d := notify.NewDispatcher(logging.NewTestLogger(), cfg, rec, store.Customers)

	res := &commission.Result{
		Charge: entities.Charge{Code: "CHG", CustomerID: c.ID},
		Commissions: []entities.Commission{
			{CustomerID: b.ID, Tier: 1, Amount: 1000, Currency: "USD"},
			{CustomerID: a.ID, Tier: 2, Amount: 500, Currency: "USD"},
			{CustomerID: 999, Tier: 3, Amount: 0, Currency: "USD"},
		},
	}
	d.NotifySettlement(ctx, res)
	// the queue holds a single settlement so this one is dropped
	d.NotifySettlement(ctx, &commission.Result{Charge: entities.Charge{Code: "OTHER", CustomerID: a.ID}})

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan error, 1)
	go func() { done <- d.Start(runCtx) }()

	rec.wait(t, 2)
	cancel()
	require.NoError(t, <-done)

	msgs := rec.messages()
	require.Len(t, msgs, 2)
	byKind := map[notify.Kind]notify.Message{}
	for _, m := range msgs {
		byKind[m.Kind] = m
	}
	assert.Equal(t, "c@example.com", byKind[notify.KindPurchaseConfirmed].To)
	assert.Equal(t, "a@example.com", byKind[notify.KindCommissionEarned].To)
	assert.Contains(t, byKind[notify.KindCommissionEarned].Body, "500 USD")
}

func TestDispatcherDrainsQueueOnShutdown(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	c := entities.Customer{ReferralCode: "C", Email: "c@example.com"}
	require.NoError(t, store.Customers.Add(ctx, &c))

	rec := newRecorder()
	d := notify.NewDispatcher(logging.NewTestLogger(), fastConfig(1), rec, store.Customers)
	d.NotifySettlement(ctx, &commission.Result{Charge: entities.Charge{Code: "X", CustomerID: c.ID}})

	runCtx, cancel := context.WithCancel(ctx)
	cancel()
	require.NoError(t, d.Start(runCtx))

	rec.wait(t, 1)
	assert.Len(t, rec.messages(), 1)
}

func TestLogSender(t *testing.T) {
	s := notify.NewLogSender(logging.NewTestLogger())
	assert.NoError(t, s.Send(context.Background(), notify.Message{Kind: notify.KindPurchaseConfirmed, To: "x@example.com"}))
}
