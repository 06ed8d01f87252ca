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
package referral

import (
	"context"
	"errors"
	"fmt"

	"code.refchain.io/node/entities"

	"github.com/emirpasic/gods/sets/hashset"
)

var ErrAncestryCycle = errors.New("referral ancestry does not terminate")

//go:generate go run github.com/golang/mock/mockgen -destination mocks/customer_store_mock.go -package mocks code.refchain.io/node/referral CustomerStore
type CustomerStore interface {
	GetByID(ctx context.Context, id entities.CustomerID) (entities.Customer, error)
	ListReferees(ctx context.Context, referrers []entities.CustomerID) ([]entities.Customer, error)
}

// AncestryWalker follows referral_customer_id links upward from a customer.
type AncestryWalker struct {
	customers CustomerStore
	maxDepth  int
}

func NewAncestryWalker(customers CustomerStore, cfg Config) *AncestryWalker {
	return &AncestryWalker{
		customers: customers,
		maxDepth:  cfg.MaxAncestryDepth,
	}
}

// Walk loads the seed customer and returns an iterator over its ancestors,
// tier 1 first. It fails with entities.ErrNotFound if the seed does not
// exist.
func (a *AncestryWalker) Walk(ctx context.Context, id entities.CustomerID) (*Walker, error) {
	seed, err := a.customers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &Walker{
		customers: a.customers,
		maxDepth:  a.maxDepth,
		seed:      seed,
		next:      seed.ReferralCustomerID,
		visited:   hashset.New(seed.ID),
	}, nil
}

// Walker is a single use iterator over the ancestors of a customer.
type Walker struct {
	customers CustomerStore
	maxDepth  int
	seed      entities.Customer
	next      *entities.CustomerID
	visited   *hashset.Set
	tier      int32
}

func (w *Walker) Seed() entities.Customer {
	return w.seed
}

// Tier returns the tier of the last ancestor returned by Next.
func (w *Walker) Tier() int32 {
	return w.tier
}

// Next returns the next ancestor. The boolean is false once the chain ends,
// either on a customer without referrer or on a referrer that no longer
// exists. A chain that revisits a customer or exceeds the configured depth
// fails with ErrAncestryCycle.
func (w *Walker) Next(ctx context.Context) (entities.Customer, bool, error) {
	if w.next == nil {
		return entities.Customer{}, false, nil
	}
	id := *w.next
	if w.visited.Contains(id) {
		return entities.Customer{}, false, fmt.Errorf("customer %d seen twice above customer %d: %w", id, w.seed.ID, ErrAncestryCycle)
	}
	if w.maxDepth > 0 && int(w.tier) >= w.maxDepth {
		return entities.Customer{}, false, fmt.Errorf("more than %d referrers above customer %d: %w", w.maxDepth, w.seed.ID, ErrAncestryCycle)
	}

	ancestor, err := w.customers.GetByID(ctx, id)
	if errors.Is(err, entities.ErrNotFound) {
		w.next = nil
		return entities.Customer{}, false, nil
	}
	if err != nil {
		return entities.Customer{}, false, err
	}

	w.visited.Add(id)
	w.tier++
	w.next = ancestor.ReferralCustomerID
	return ancestor, true, nil
}

// Ancestors drains the walker into a slice.
func (w *Walker) Ancestors(ctx context.Context) ([]entities.Customer, error) {
	var out []entities.Customer
	for {
		c, ok, err := w.Next(ctx)
		if err != nil {
			return nil, err
		}
		if !ok {
			return out, nil
		}
		out = append(out, c)
	}
}
