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
	"fmt"

	"code.refchain.io/node/entities"
	"code.refchain.io/node/internal/logging"

	"github.com/emirpasic/gods/sets/hashset"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// MapBuilder expands the referee tree below a customer breadth first.
type MapBuilder struct {
	log       *logging.Logger
	cfg       Config
	customers CustomerStore
}

func NewMapBuilder(log *logging.Logger, cfg Config, customers CustomerStore) *MapBuilder {
	log = log.Named(namedLogger)
	log.SetLevel(cfg.Level.Get())
	return &MapBuilder{
		log:       log,
		cfg:       cfg,
		customers: customers,
	}
}

func (b *MapBuilder) DefaultDepth() int {
	return b.cfg.DefaultMapDepth
}

// Build returns the referral levels startLevel..startLevel+depth below root.
// Levels without any referee are omitted and the expansion stops as soon as
// a level has no referee at all. The first startLevel levels are expanded
// without being reported.
func (b *MapBuilder) Build(ctx context.Context, root entities.CustomerID, startLevel, depth int) ([]entities.ReferralLevel, error) {
	if startLevel < 0 {
		return nil, fmt.Errorf("start level must not be negative, got %d: %w", startLevel, entities.ErrInvalidArgument)
	}
	if depth < 0 {
		return nil, fmt.Errorf("depth must not be negative, got %d: %w", depth, entities.ErrInvalidArgument)
	}
	if b.cfg.MaxMapDepth > 0 && depth > b.cfg.MaxMapDepth {
		return nil, fmt.Errorf("depth must be at most %d, got %d: %w", b.cfg.MaxMapDepth, depth, entities.ErrInvalidArgument)
	}

	rootCustomer, err := b.customers.GetByID(ctx, root)
	if err != nil {
		return nil, err
	}

	visited := hashset.New(rootCustomer.ID)
	frontier := []entities.Customer{rootCustomer}

	for i := 0; i < startLevel && len(frontier) > 0; i++ {
		groups, err := b.expand(ctx, frontier, visited)
		if err != nil {
			return nil, err
		}
		frontier = flatten(groups)
	}

	levels := []entities.ReferralLevel{}
	for step := 0; step <= depth && len(frontier) > 0; step++ {
		groups, err := b.expand(ctx, frontier, visited)
		if err != nil {
			return nil, err
		}

		entries := make([]entities.ReferralEntry, 0, groups.Len())
		for pair := groups.Oldest(); pair != nil; pair = pair.Next() {
			if len(pair.Value.Referees) > 0 {
				entries = append(entries, *pair.Value)
			}
		}
		if len(entries) > 0 {
			levels = append(levels, entities.ReferralLevel{
				Level:           entities.LevelName(startLevel + step),
				ReferralEntries: entries,
			})
		}
		frontier = flatten(groups)
	}

	b.log.Debug("referral map built",
		logging.CustomerID(int64(root)),
		logging.Int("start-level", startLevel),
		logging.Int("levels", len(levels)))
	return levels, nil
}

// expand fetches the direct referees of the whole frontier in one query and
// groups them by referrer, keeping the frontier order. Customers already seen
// are dropped.
func (b *MapBuilder) expand(ctx context.Context, frontier []entities.Customer, visited *hashset.Set) (*orderedmap.OrderedMap[entities.CustomerID, *entities.ReferralEntry], error) {
	ids := make([]entities.CustomerID, 0, len(frontier))
	groups := orderedmap.New[entities.CustomerID, *entities.ReferralEntry]()
	for _, c := range frontier {
		ids = append(ids, c.ID)
		groups.Set(c.ID, &entities.ReferralEntry{Referrer: c, Referees: []entities.Customer{}})
	}

	referees, err := b.customers.ListReferees(ctx, ids)
	if err != nil {
		return nil, err
	}

	for _, referee := range referees {
		if referee.ReferralCustomerID == nil || visited.Contains(referee.ID) {
			continue
		}
		entry, ok := groups.Get(*referee.ReferralCustomerID)
		if !ok {
			continue
		}
		visited.Add(referee.ID)
		entry.Referees = append(entry.Referees, referee)
	}
	return groups, nil
}

func flatten(groups *orderedmap.OrderedMap[entities.CustomerID, *entities.ReferralEntry]) []entities.Customer {
	var out []entities.Customer
	for pair := groups.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Value.Referees...)
	}
	return out
}
