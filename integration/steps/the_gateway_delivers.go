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
	"strings"

	"code.refchain.io/node/gateway/coinbase"
	"code.refchain.io/node/payments"

	"github.com/cucumber/godog"
	"github.com/shopspring/decimal"
)

// TheGatewayDelivers processes one webhook event per row.
func TheGatewayDelivers(w *World, table *godog.Table) error {
	for i, row := range StrictParseTable(table, []string{
		"type",
		"charge",
		"status",
	}, []string{
		"context",
		"transactions",
		"outcome",
		"error",
	}) {
		evt := buildEvent(fmt.Sprintf("evt-%d", i), row)

		outcome, err := w.Processor.Process(context.Background(), evt)
		if row.HasColumn("error") {
			if err == nil || !strings.Contains(err.Error(), row.Str("error")) {
				return fmt.Errorf("expected error containing %q for event %d, got %v", row.Str("error"), i, err)
			}
			continue
		}
		if err != nil {
			return fmt.Errorf("event %d on charge %s failed: %w", i, row.MustStr("charge"), err)
		}
		if row.HasColumn("outcome") && outcome != payments.Outcome(row.Str("outcome")) {
			return fmt.Errorf("expected outcome %s for event %d, got %s", row.Str("outcome"), i, outcome)
		}
	}
	return nil
}

func buildEvent(id string, row RowWrapper) coinbase.Event {
	local := coinbase.Money{Amount: decimal.RequireFromString("100.00"), Currency: "USD"}
	data := coinbase.ChargeResource{
		Code: row.MustStr("charge"),
		Timeline: []coinbase.TimelineEntry{
			{Status: coinbase.StatusNew},
			{Status: row.MustStr("status"), Context: row.Str("context")},
		},
		Pricing: map[string]coinbase.Money{"local": local},
	}
	for _, tx := range row.StrSlice("transactions", ",") {
		data.Payments = append(data.Payments, coinbase.PaymentEntry{
			Network:       "ethereum",
			TransactionID: tx,
			Status:        "CONFIRMED",
			Value: coinbase.PaymentValue{
				Local:  local,
				Crypto: coinbase.Money{Amount: decimal.RequireFromString("0.05"), Currency: "ETH"},
			},
		})
	}
	return coinbase.Event{ID: id, Type: row.MustStr("type"), Data: data}
}

func SettlementNotificationsShouldBe(w *World, count int) error {
	if got := w.Notifier.Count(); got != count {
		return fmt.Errorf("expected %d settlement notifications, got %d", count, got)
	}
	return nil
}
