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

type Customers struct {
	*ConnectionSource
}

const customerColumns = `id, referral_code, referral_customer_id, customer_status, email, created_at`

func NewCustomers(connectionSource *ConnectionSource) *Customers {
	return &Customers{
		ConnectionSource: connectionSource,
	}
}

// Add inserts the customer and fills in the generated id and creation time.
func (cs *Customers) Add(ctx context.Context, c *entities.Customer) error {
	defer metrics.StartSQLQuery("Customers", "Add")()
	if c.CustomerStatus == entities.CustomerStatusUnspecified {
		c.CustomerStatus = entities.CustomerStatusPending
	}
	err := cs.Connection.QueryRow(ctx,
		`INSERT INTO customers (referral_code, referral_customer_id, customer_status, email)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		c.ReferralCode, c.ReferralCustomerID, c.CustomerStatus, c.Email,
	).Scan(&c.ID, &c.CreatedAt)
	if isUniqueViolation(err) {
		return fmt.Errorf("referral code %s: %w", c.ReferralCode, entities.ErrConflict)
	}
	return err
}

func (cs *Customers) GetByID(ctx context.Context, id entities.CustomerID) (entities.Customer, error) {
	defer metrics.StartSQLQuery("Customers", "GetByID")()
	var c entities.Customer
	err := pgxscan.Get(ctx, cs.Connection, &c,
		`SELECT `+customerColumns+` FROM customers WHERE id = $1`, id)
	return c, notFoundOr(err, "customer", id)
}

func (cs *Customers) GetByReferralCode(ctx context.Context, code string) (entities.Customer, error) {
	defer metrics.StartSQLQuery("Customers", "GetByReferralCode")()
	var c entities.Customer
	err := pgxscan.Get(ctx, cs.Connection, &c,
		`SELECT `+customerColumns+` FROM customers WHERE referral_code = $1`, code)
	return c, notFoundOr(err, "referral code", code)
}

// ListReferees returns the direct referees of all the given referrers in one
// query, ordered by referrer then by id.
func (cs *Customers) ListReferees(ctx context.Context, referrers []entities.CustomerID) ([]entities.Customer, error) {
	defer metrics.StartSQLQuery("Customers", "ListReferees")()
	var referees []entities.Customer
	if len(referrers) == 0 {
		return referees, nil
	}
	err := pgxscan.Select(ctx, cs.Connection, &referees,
		`SELECT `+customerColumns+` FROM customers
		 WHERE referral_customer_id = ANY($1)
		 ORDER BY referral_customer_id, id`,
		toInt64s(referrers))
	return referees, err
}

func (cs *Customers) UpdateStatus(ctx context.Context, id entities.CustomerID, status entities.CustomerStatus) error {
	defer metrics.StartSQLQuery("Customers", "UpdateStatus")()
	tag, err := cs.Connection.Exec(ctx,
		`UPDATE customers SET customer_status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("customer %d: %w", id, entities.ErrNotFound)
	}
	return nil
}
