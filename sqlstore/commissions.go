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
	"github.com/jackc/pgx/v4"
)

type Commissions struct {
	*ConnectionSource
}

const commissionColumns = `id, customer_id, charge_id, tier, amount, currency, commission_rate, is_transferred, created_at`

func NewCommissions(connectionSource *ConnectionSource) *Commissions {
	return &Commissions{
		ConnectionSource: connectionSource,
	}
}

// AddBatch inserts all the commission lines in one round trip. A second set
// for the same charge violates the (charge_id, tier) uniqueness and fails
// with entities.ErrConflict.
func (cs *Commissions) AddBatch(ctx context.Context, commissions []entities.Commission) error {
	defer metrics.StartSQLQuery("Commissions", "AddBatch")()
	if len(commissions) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, c := range commissions {
		batch.Queue(
			`INSERT INTO commissions (customer_id, charge_id, tier, amount, currency, commission_rate)
			 VALUES ($1, $2, $3, $4, $5, $6)
			 RETURNING id, created_at`,
			c.CustomerID, c.ChargeID, c.Tier, c.Amount, c.Currency, c.CommissionRate)
	}

	results := cs.Connection.SendBatch(ctx, batch)
	defer results.Close()

	for i := range commissions {
		err := results.QueryRow().Scan(&commissions[i].ID, &commissions[i].CreatedAt)
		if isUniqueViolation(err) {
			return fmt.Errorf("commission for charge %d tier %d: %w",
				commissions[i].ChargeID, commissions[i].Tier, entities.ErrConflict)
		}
		if err != nil {
			return classify(err)
		}
	}
	return nil
}

func (cs *Commissions) ListByCharge(ctx context.Context, chargeID entities.ChargeID) ([]entities.Commission, error) {
	defer metrics.StartSQLQuery("Commissions", "ListByCharge")()
	var commissions []entities.Commission
	err := pgxscan.Select(ctx, cs.Connection, &commissions,
		`SELECT `+commissionColumns+` FROM commissions WHERE charge_id = $1 ORDER BY tier`, chargeID)
	return commissions, err
}

func (cs *Commissions) ListByCustomer(ctx context.Context, customerID entities.CustomerID) ([]entities.Commission, error) {
	defer metrics.StartSQLQuery("Commissions", "ListByCustomer")()
	var commissions []entities.Commission
	err := pgxscan.Select(ctx, cs.Connection, &commissions,
		`SELECT `+commissionColumns+` FROM commissions WHERE customer_id = $1 ORDER BY created_at, id`, customerID)
	return commissions, err
}

// MarkTransferred sets the transferred flag. Marking an already transferred
// commission is not an error.
func (cs *Commissions) MarkTransferred(ctx context.Context, id entities.CommissionID) error {
	defer metrics.StartSQLQuery("Commissions", "MarkTransferred")()
	tag, err := cs.Connection.Exec(ctx,
		`UPDATE commissions SET is_transferred = TRUE WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("commission %d: %w", id, entities.ErrNotFound)
	}
	return nil
}
