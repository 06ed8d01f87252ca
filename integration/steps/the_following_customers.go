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

	"code.refchain.io/node/entities"

	"github.com/cucumber/godog"
)

var customerStatuses = map[string]entities.CustomerStatus{
	"PENDING":   entities.CustomerStatusPending,
	"ACTIVE":    entities.CustomerStatusActive,
	"INACTIVE":  entities.CustomerStatusInactive,
	"SUSPENDED": entities.CustomerStatusSuspended,
}

// TheFollowingCustomers registers customers in table order, so a referrer
// must appear before its referees.
func TheFollowingCustomers(w *World, table *godog.Table) error {
	ctx := context.Background()
	for _, row := range StrictParseTable(table, []string{
		"customer",
	}, []string{
		"referrer",
		"status",
		"email",
	}) {
		customer := entities.Customer{
			ReferralCode:   row.MustStr("customer"),
			CustomerStatus: entities.CustomerStatusActive,
		}
		if row.HasColumn("status") {
			status, ok := customerStatuses[row.Str("status")]
			if !ok {
				return fmt.Errorf("unknown customer status %q", row.Str("status"))
			}
			customer.CustomerStatus = status
		}
		if row.HasColumn("email") {
			customer.Email = row.Str("email")
		}
		if row.HasColumn("referrer") {
			referrer, err := w.Customer(row.Str("referrer"))
			if err != nil {
				return err
			}
			customer.ReferralCustomerID = &referrer.ID
		}
		if err := w.Store.Customers.Add(ctx, &customer); err != nil {
			return fmt.Errorf("couldn't add customer %s: %w", customer.ReferralCode, err)
		}
		w.codes[customer.ReferralCode] = customer
	}
	return nil
}

func CustomerIsSuspended(w *World, code string) error {
	customer, err := w.Customer(code)
	if err != nil {
		return err
	}
	updated, err := w.Customers.Suspend(context.Background(), customer.ID)
	if err != nil {
		return err
	}
	w.codes[code] = updated
	return nil
}

func CustomerIsReinstated(w *World, code string) error {
	customer, err := w.Customer(code)
	if err != nil {
		return err
	}
	updated, err := w.Customers.Reinstate(context.Background(), customer.ID)
	if err != nil {
		return err
	}
	w.codes[code] = updated
	return nil
}
