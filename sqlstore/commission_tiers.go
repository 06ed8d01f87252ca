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
package sqlstore

import (
	"context"
	"fmt"

	"code.refchain.io/node/entities"
	"code.refchain.io/node/metrics"

	"github.com/georgysavva/scany/pgxscan"
)

type CommissionTiers struct {
	*ConnectionSource
}

func NewCommissionTiers(connectionSource *ConnectionSource) *CommissionTiers {
	return &CommissionTiers{
		ConnectionSource: connectionSource,
	}
}

func (ct *CommissionTiers) Add(ctx context.Context, tier entities.CommissionTier) error {
	defer metrics.StartSQLQuery("CommissionTiers", "Add")()
	_, err := ct.Connection.Exec(ctx,
		`INSERT INTO commission_tiers (tier, commission_rate) VALUES ($1, $2)`,
		tier.Tier, tier.CommissionRate)
	if isUniqueViolation(err) {
		return fmt.Errorf("commission tier %d: %w", tier.Tier, entities.ErrConflict)
	}
	return err
}

func (ct *CommissionTiers) Update(ctx context.Context, tier entities.CommissionTier) error {
	defer metrics.StartSQLQuery("CommissionTiers", "Update")()
	tag, err := ct.Connection.Exec(ctx,
		`UPDATE commission_tiers SET commission_rate = $2 WHERE tier = $1`,
		tier.Tier, tier.CommissionRate)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("commission tier %d: %w", tier.Tier, entities.ErrNotFound)
	}
	return nil
}

func (ct *CommissionTiers) Delete(ctx context.Context, tier int32) error {
	defer metrics.StartSQLQuery("CommissionTiers", "Delete")()
	tag, err := ct.Connection.Exec(ctx, `DELETE FROM commission_tiers WHERE tier = $1`, tier)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("commission tier %d: %w", tier, entities.ErrNotFound)
	}
	return nil
}

func (ct *CommissionTiers) Get(ctx context.Context, tier int32) (entities.CommissionTier, error) {
	defer metrics.StartSQLQuery("CommissionTiers", "Get")()
	var t entities.CommissionTier
	err := pgxscan.Get(ctx, ct.Connection, &t,
		`SELECT tier, commission_rate FROM commission_tiers WHERE tier = $1`, tier)
	return t, notFoundOr(err, "commission tier", tier)
}

// GetAll returns every configured tier ordered by tier.
func (ct *CommissionTiers) GetAll(ctx context.Context) ([]entities.CommissionTier, error) {
	defer metrics.StartSQLQuery("CommissionTiers", "GetAll")()
	var tiers []entities.CommissionTier
	err := pgxscan.Select(ctx, ct.Connection, &tiers,
		`SELECT tier, commission_rate FROM commission_tiers ORDER BY tier`)
	return tiers, err
}
