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

	"code.refchain.io/node/purchases"

	"github.com/cucumber/godog"
	"github.com/shopspring/decimal"
)

// CustomersPurchase starts a purchase per row, the gateway answering with the
// charge code of the row.
func CustomersPurchase(w *World, table *godog.Table) error {
	for _, row := range StrictParseTable(table, []string{
		"customer",
		"amount",
		"currency",
		"charge",
	}, []string{
		"tokens",
	}) {
		customer, err := w.Customer(row.MustStr("customer"))
		if err != nil {
			return err
		}
		tokens := decimal.Zero
		if row.HasColumn("tokens") {
			tokens = row.MustDecimal("tokens")
		}

		w.Gateway.Queue(row.MustStr("charge"))
		status, err := w.Purchases.Initiate(context.Background(), purchases.Request{
			CustomerID:  customer.ID,
			Amount:      row.MustI64("amount"),
			Currency:    row.MustStr("currency"),
			TokenAmount: tokens,
		})
		if err != nil {
			return fmt.Errorf("couldn't start purchase for %s: %w", row.MustStr("customer"), err)
		}
		if status.Charge.Code != row.MustStr("charge") {
			return fmt.Errorf("expected charge %s, got %s", row.MustStr("charge"), status.Charge.Code)
		}
	}
	return nil
}

func ThePurchaseForChargeShouldBe(w *World, charge string, table *godog.Table) error {
	rows := StrictParseTable(table, []string{
		"payment status",
		"confirmed",
	}, []string{
		"reason",
		"payments",
	})
	if len(rows) != 1 {
		return fmt.Errorf("expected exactly one row, got %d", len(rows))
	}
	row := rows[0]

	status, err := w.Purchases.Status(context.Background(), charge)
	if err != nil {
		return err
	}
	activity := status.Activity

	if got := activity.PaymentStatus.String(); got != row.MustStr("payment status") {
		return fmt.Errorf("expected payment status %s for charge %s, got %s", row.MustStr("payment status"), charge, got)
	}
	if activity.PurchaseConfirmed != row.MustBool("confirmed") {
		return fmt.Errorf("expected purchase confirmed %v for charge %s, got %v", row.MustBool("confirmed"), charge, activity.PurchaseConfirmed)
	}
	if row.HasColumn("reason") {
		if activity.UnresolvedReason == nil || activity.UnresolvedReason.String() != row.Str("reason") {
			return fmt.Errorf("expected unresolved reason %s for charge %s, got %v", row.Str("reason"), charge, activity.UnresolvedReason)
		}
	}
	if row.HasColumn("payments") {
		if got := int64(len(status.Payments)); got != row.MustI64("payments") {
			return fmt.Errorf("expected %d payments for charge %s, got %d", row.MustI64("payments"), charge, got)
		}
	}
	return nil
}
