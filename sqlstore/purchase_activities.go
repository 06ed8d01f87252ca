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

type PurchaseActivities struct {
	*ConnectionSource
}

const purchaseActivityColumns = `id, charge_id, customer_id, token_amount, amount, currency,
	purchase_confirmed, payment_status, unresolved_reason, created_at, updated_at`

func NewPurchaseActivities(connectionSource *ConnectionSource) *PurchaseActivities {
	return &PurchaseActivities{
		ConnectionSource: connectionSource,
	}
}

func (ps *PurchaseActivities) Add(ctx context.Context, p *entities.PurchaseActivity) error {
	defer metrics.StartSQLQuery("PurchaseActivities", "Add")()
	if p.PaymentStatus == entities.PaymentStatusUnspecified {
		p.PaymentStatus = entities.PaymentStatusNew
	}
	err := ps.Connection.QueryRow(ctx,
		`INSERT INTO purchase_activities (charge_id, customer_id, token_amount, amount, currency, payment_status)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, purchase_confirmed, created_at, updated_at`,
		p.ChargeID, p.CustomerID, p.TokenAmount, p.Amount, p.Currency, p.PaymentStatus,
	).Scan(&p.ID, &p.PurchaseConfirmed, &p.CreatedAt, &p.UpdatedAt)
	if isUniqueViolation(err) {
		return fmt.Errorf("purchase activity for charge %d: %w", p.ChargeID, entities.ErrConflict)
	}
	return err
}

func (ps *PurchaseActivities) GetByChargeID(ctx context.Context, chargeID entities.ChargeID) (entities.PurchaseActivity, error) {
	defer metrics.StartSQLQuery("PurchaseActivities", "GetByChargeID")()
	var p entities.PurchaseActivity
	err := pgxscan.Get(ctx, ps.Connection, &p,
		`SELECT `+purchaseActivityColumns+` FROM purchase_activities WHERE charge_id = $1`, chargeID)
	return p, notFoundOr(err, "purchase activity for charge", chargeID)
}

// UpdatePaymentStatus mirrors the latest classified status of the charge.
func (ps *PurchaseActivities) UpdatePaymentStatus(ctx context.Context, chargeID entities.ChargeID, status entities.PaymentStatus, reason *entities.UnresolvedReason) error {
	defer metrics.StartSQLQuery("PurchaseActivities", "UpdatePaymentStatus")()
	tag, err := ps.Connection.Exec(ctx,
		`UPDATE purchase_activities
		 SET payment_status = $2, unresolved_reason = $3, updated_at = now()
		 WHERE charge_id = $1`,
		chargeID, status, reason)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("purchase activity for charge %d: %w", chargeID, entities.ErrNotFound)
	}
	return nil
}

// Confirm flips purchase_confirmed from false to true. It fails with
// entities.ErrAlreadySettled if the purchase is already confirmed.
func (ps *PurchaseActivities) Confirm(ctx context.Context, chargeID entities.ChargeID) error {
	defer metrics.StartSQLQuery("PurchaseActivities", "Confirm")()
	tag, err := ps.Connection.Exec(ctx,
		`UPDATE purchase_activities
		 SET purchase_confirmed = TRUE, updated_at = now()
		 WHERE charge_id = $1 AND NOT purchase_confirmed`,
		chargeID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("charge %d: %w", chargeID, entities.ErrAlreadySettled)
	}
	return nil
}
