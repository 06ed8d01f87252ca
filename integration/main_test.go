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

package integration_test

import (
	"context"
	"flag"
	"os"
	"testing"

	"code.refchain.io/node/integration/steps"

	"github.com/cucumber/godog"
	"github.com/cucumber/godog/colors"
)

var gdOpts = godog.Options{
	Output: colors.Colored(os.Stdout),
	Format: "progress",
}

func init() {
	godog.BindCommandLineFlags("godog.", &gdOpts)
}

func TestMain(m *testing.M) {
	flag.Parse()
	gdOpts.Paths = flag.Args()
	if len(gdOpts.Paths) == 0 {
		gdOpts.Paths = []string{"features"}
	}

	status := godog.TestSuite{
		Name:                "refchain",
		ScenarioInitializer: InitializeScenario,
		Options:             &gdOpts,
	}.Run()

	if st := m.Run(); st > status {
		status = st
	}
	os.Exit(status)
}

func InitializeScenario(s *godog.ScenarioContext) {
	var world *steps.World

	s.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		w, err := steps.NewWorld()
		world = w
		return ctx, err
	})

	// Setup steps
	s.Step(`^the commission tiers:$`, func(table *godog.Table) error {
		return steps.TheCommissionTiers(world, table)
	})
	s.Step(`^commission tier "(\d+)" is updated to rate "([^"]*)"$`, func(tier int32, rate string) error {
		return steps.CommissionTierIsUpdated(world, tier, rate)
	})
	s.Step(`^updating commission tier "(\d+)" to rate "([^"]*)" fails with "([^"]*)"$`, func(tier int32, rate, msg string) error {
		return steps.CommissionTierUpdateFails(world, tier, rate, msg)
	})
	s.Step(`^commission tier "(\d+)" is deleted$`, func(tier int32) error {
		return steps.CommissionTierIsDeleted(world, tier)
	})
	s.Step(`^the following customers:$`, func(table *godog.Table) error {
		return steps.TheFollowingCustomers(world, table)
	})
	s.Step(`^customer "([^"]*)" is suspended$`, func(code string) error {
		return steps.CustomerIsSuspended(world, code)
	})
	s.Step(`^customer "([^"]*)" is reinstated$`, func(code string) error {
		return steps.CustomerIsReinstated(world, code)
	})

	// Action steps
	s.Step(`^the customers purchase:$`, func(table *godog.Table) error {
		return steps.CustomersPurchase(world, table)
	})
	s.Step(`^the gateway delivers:$`, func(table *godog.Table) error {
		return steps.TheGatewayDelivers(world, table)
	})

	// Assertion steps
	s.Step(`^the commissions for charge "([^"]*)" should be:$`, func(code string, table *godog.Table) error {
		return steps.TheCommissionsForChargeShouldBe(world, code, table)
	})
	s.Step(`^no commissions are recorded for charge "([^"]*)"$`, func(code string) error {
		return steps.NoCommissionsForCharge(world, code)
	})
	s.Step(`^the purchase for charge "([^"]*)" should be:$`, func(code string, table *godog.Table) error {
		return steps.ThePurchaseForChargeShouldBe(world, code, table)
	})
	s.Step(`^"(\d+)" settlement notifications? should have been sent$`, func(count int) error {
		return steps.SettlementNotificationsShouldBe(world, count)
	})
	s.Step(`^the referral map of "([^"]*)" from level "(\d+)" with depth "(\d+)" should be:$`, func(root string, start, depth int, table *godog.Table) error {
		return steps.TheReferralMapShouldBe(world, root, start, depth, table)
	})
	s.Step(`^the referral map of "([^"]*)" from level "(-?\d+)" fails with "([^"]*)"$`, func(root string, start int, expected string) error {
		return steps.TheReferralMapFails(world, root, start, expected)
	})
	s.Step(`^the commission rates should be:$`, func(table *godog.Table) error {
		return steps.TheCommissionRatesShouldBe(world, table)
	})
	s.Step(`^the referral map of "([^"]*)" from level "(\d+)" should be empty$`, func(root string, start int) error {
		return steps.TheReferralMapShouldBeEmpty(world, root, start)
	})
}
