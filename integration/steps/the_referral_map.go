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

	"code.refchain.io/node/entities"

	"github.com/cucumber/godog"
)

// TheReferralMapShouldBe compares every level, referrer and referee of the
// map in order.
func TheReferralMapShouldBe(w *World, root string, startLevel, depth int, table *godog.Table) error {
	customer, err := w.Customer(root)
	if err != nil {
		return err
	}
	levels, err := w.Referrals.Build(context.Background(), customer.ID, startLevel, depth)
	if err != nil {
		return err
	}

	var got []string
	for _, level := range levels {
		for _, entry := range level.ReferralEntries {
			got = append(got, describeEntry(level.Level, entry))
		}
	}

	rows := StrictParseTable(table, []string{
		"level",
		"referrer",
		"referees",
	}, nil)
	want := make([]string, 0, len(rows))
	for _, row := range rows {
		want = append(want, fmt.Sprintf("%s %s -> %s", row.MustStr("level"), row.MustStr("referrer"), strings.Join(row.StrSlice("referees", ","), ",")))
	}

	if strings.Join(want, "\n") != strings.Join(got, "\n") {
		return fmt.Errorf("unexpected referral map for %s\nexpected:\n%s\ngot:\n%s", root, strings.Join(want, "\n"), strings.Join(got, "\n"))
	}
	return nil
}

func TheReferralMapShouldBeEmpty(w *World, root string, startLevel int) error {
	customer, err := w.Customer(root)
	if err != nil {
		return err
	}
	levels, err := w.Referrals.Build(context.Background(), customer.ID, startLevel, w.Referrals.DefaultDepth())
	if err != nil {
		return err
	}
	if len(levels) > 0 {
		return fmt.Errorf("expected an empty referral map for %s, got %d levels", root, len(levels))
	}
	return nil
}

func describeEntry(level string, entry entities.ReferralEntry) string {
	referees := make([]string, 0, len(entry.Referees))
	for _, r := range entry.Referees {
		referees = append(referees, r.ReferralCode)
	}
	return fmt.Sprintf("%s %s -> %s", level, entry.Referrer.ReferralCode, strings.Join(referees, ","))
}

func TheReferralMapFails(w *World, root string, startLevel int, expected string) error {
	customer, err := w.Customer(root)
	if err != nil {
		return err
	}
	_, err = w.Referrals.Build(context.Background(), customer.ID, startLevel, w.Referrals.DefaultDepth())
	if err == nil || !strings.Contains(err.Error(), expected) {
		return fmt.Errorf("expected error containing %q, got %v", expected, err)
	}
	return nil
}
