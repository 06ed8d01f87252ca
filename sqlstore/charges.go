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

type Charges struct {
	*ConnectionSource
}

const chargeColumns = `id, code, customer_id, pricing, hosted_url, created_at, expires_at`

func NewCharges(connectionSource *ConnectionSource) *Charges {
	return &Charges{
		ConnectionSource: connectionSource,
	}
}

func (cs *Charges) Add(ctx context.Context, c *entities.Charge) error {
	defer metrics.StartSQLQuery("Charges", "Add")()
	pricing := c.Pricing
	if pricing == nil {
		pricing = entities.Pricing{}
	}
	err := cs.Connection.QueryRow(ctx,
		`INSERT INTO charges (code, customer_id, pricing, hosted_url, expires_at)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		c.Code, c.CustomerID, pricing, c.HostedURL, c.ExpiresAt,
	).Scan(&c.ID, &c.CreatedAt)
	if isUniqueViolation(err) {
		return fmt.Errorf("charge %s: %w", c.Code, entities.ErrConflict)
	}
	return err
}

func (cs *Charges) GetByCode(ctx context.Context, code string) (entities.Charge, error) {
	defer metrics.StartSQLQuery("Charges", "GetByCode")()
	var c entities.Charge
	err := pgxscan.Get(ctx, cs.Connection, &c,
		`SELECT `+chargeColumns+` FROM charges WHERE code = $1`, code)
	return c, notFoundOr(err, "charge", code)
}

func (cs *Charges) GetByID(ctx context.Context, id entities.ChargeID) (entities.Charge, error) {
	defer metrics.StartSQLQuery("Charges", "GetByID")()
	var c entities.Charge
	err := pgxscan.Get(ctx, cs.Connection, &c,
		`SELECT `+chargeColumns+` FROM charges WHERE id = $1`, id)
	return c, notFoundOr(err, "charge", id)
}
