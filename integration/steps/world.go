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

package steps

import (
	"context"
	"fmt"
	"sync"

	"code.refchain.io/node/commission"
	"code.refchain.io/node/customers"
	"code.refchain.io/node/entities"
	"code.refchain.io/node/gateway/coinbase"
	"code.refchain.io/node/internal/logging"
	"code.refchain.io/node/internal/memstore"
	"code.refchain.io/node/payments"
	"code.refchain.io/node/purchases"
	"code.refchain.io/node/referral"
)

// World holds the services a scenario runs against, backed by an in memory
// store.
type World struct {
	Store       *memstore.Store
	Customers   *customers.Service
	Commissions *commission.Service
	Processor   *payments.Processor
	Purchases   *purchases.Service
	Referrals   *referral.MapBuilder
	Gateway     *StubGateway
	Notifier    *RecordingNotifier

	// customers by referral code
	codes map[string]entities.Customer
}

func NewWorld() (*World, error) {
	log := logging.NewTestLogger()
	store := memstore.New()

	refCfg := referral.NewDefaultConfig()
	walker := referral.NewAncestryWalker(store.Customers, refCfg)
	settlement := commission.NewSettlement(log, commission.NewDefaultConfig(),
		store.Charges, store.PurchaseActivities, store.Commissions, store,
		commission.NewCalculator(store.CommissionTiers, walker))

	notifier := &RecordingNotifier{}
	customerSvc, err := customers.NewService(log, customers.NewDefaultConfig(), store.Customers)
	if err != nil {
		return nil, err
	}
	gateway := &StubGateway{}

	return &World{
		Store:       store,
		Customers:   customerSvc,
		Commissions: commission.NewService(log, store.CommissionTiers, store.Commissions, settlement, notifier),
		Processor: payments.NewProcessor(log, payments.NewDefaultConfig(),
			store.Charges, store.PurchaseActivities, store.Payments, store, settlement, notifier),
		Purchases: purchases.NewService(log, purchases.NewDefaultConfig(), gateway,
			store.Customers, store.Charges, store.PurchaseActivities, store.Payments, store),
		Referrals: referral.NewMapBuilder(log, refCfg, store.Customers),
		Gateway:   gateway,
		Notifier:  notifier,
		codes:     map[string]entities.Customer{},
	}, nil
}

func (w *World) Customer(code string) (entities.Customer, error) {
	c, ok := w.codes[code]
	if !ok {
		return entities.Customer{}, fmt.Errorf("unknown customer %q", code)
	}
	return c, nil
}

// CodeOf returns the referral code of a customer id.
func (w *World) CodeOf(id entities.CustomerID) string {
	for code, c := range w.codes {
		if c.ID == id {
			return code
		}
	}
	return fmt.Sprintf("#%d", id)
}

// StubGateway answers charge creation with the next queued charge code.
type StubGateway struct {
	mu    sync.Mutex
	codes []string
}

func (g *StubGateway) Queue(code string) {
	g.mu.Lock()
	g.codes = append(g.codes, code)
	g.mu.Unlock()
}

func (g *StubGateway) CreateCharge(_ context.Context, req coinbase.ChargeRequest) (coinbase.ChargeResource, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.codes) == 0 {
		return coinbase.ChargeResource{}, fmt.Errorf("no charge code queued")
	}
	code := g.codes[0]
	g.codes = g.codes[1:]
	return coinbase.ChargeResource{
		Code:      code,
		HostedURL: "https://commerce.example/charges/" + code,
		Pricing:   map[string]coinbase.Money{"local": req.LocalPrice},
	}, nil
}

// RecordingNotifier keeps every settlement it is told about.
type RecordingNotifier struct {
	mu      sync.Mutex
	results []*commission.Result
}

func (n *RecordingNotifier) NotifySettlement(_ context.Context, res *commission.Result) {
	n.mu.Lock()
	n.results = append(n.results, res)
	n.mu.Unlock()
}

func (n *RecordingNotifier) Count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.results)
}
