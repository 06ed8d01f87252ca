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

	"code.refchain.io/node/entities"
	"code.refchain.io/node/metrics"

	"github.com/georgysavva/scany/pgxscan"
)

type Payments struct {
	*ConnectionSource
}

const paymentColumns = `id, charge_id, transaction, network, amount, currency, payment_status, unresolved_reason, created_at`

func NewPayments(connectionSource *ConnectionSource) *Payments {
	return &Payments{
		ConnectionSource: connectionSource,
	}
}

// LockCharge takes a transaction scoped advisory lock on the charge code so
// concurrent deliveries for the same charge are processed one at a time.
func (ps *Payments) LockCharge(ctx context.Context, code string) error {
	defer metrics.StartSQLQuery("Payments", "LockCharge")()
	if !ps.HasTransaction(ctx) {
		return ErrNoTransaction
	}
	_, err := ps.Connection.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, code)
	return err
}

// Add records a payment. A payment whose transaction id is already recorded
// for the charge is ignored and false is returned.
func (ps *Payments) Add(ctx context.Context, p *entities.Payment) (bool, error) {
	defer metrics.StartSQLQuery("Payments", "Add")()
	rows, err := ps.Connection.Query(ctx,
		`INSERT INTO payments (charge_id, transaction, network, amount, currency, payment_status, unresolved_reason)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (charge_id, transaction) DO NOTHING
		 RETURNING id, created_at`,
		p.ChargeID, p.Transaction, p.Network, p.Amount, p.Currency, p.PaymentStatus, p.UnresolvedReason)
	if err != nil {
		return false, err
	}
	defer rows.Close()

	inserted := false
	for rows.Next() {
		if err := rows.Scan(&p.ID, &p.CreatedAt); err != nil {
			return false, err
		}
		inserted = true
	}
	return inserted, rows.Err()
}

// ListTransactionIDs returns the non null transaction ids already recorded
// for the charge.
func (ps *Payments) ListTransactionIDs(ctx context.Context, chargeID entities.ChargeID) ([]string, error) {
	defer metrics.StartSQLQuery("Payments", "ListTransactionIDs")()
	var ids []string
	err := pgxscan.Select(ctx, ps.Connection, &ids,
		`SELECT transaction FROM payments WHERE charge_id = $1 AND transaction IS NOT NULL`, chargeID)
	return ids, err
}

func (ps *Payments) CountByStatus(ctx context.Context, chargeID entities.ChargeID, status entities.PaymentStatus) (int64, error) {
	defer metrics.StartSQLQuery("Payments", "CountByStatus")()
	var count int64
	err := ps.Connection.QueryRow(ctx,
		`SELECT count(*) FROM payments WHERE charge_id = $1 AND payment_status = $2`,
		chargeID, status).Scan(&count)
	return count, err
}

func (ps *Payments) ListByCharge(ctx context.Context, chargeID entities.ChargeID) ([]entities.Payment, error) {
	defer metrics.StartSQLQuery("Payments", "ListByCharge")()
	var payments []entities.Payment
	err := pgxscan.Select(ctx, ps.Connection, &payments,
		`SELECT `+paymentColumns+` FROM payments WHERE charge_id = $1 ORDER BY id`, chargeID)
	return payments, err
}
