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

package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"code.refchain.io/node/api"
	"code.refchain.io/node/commission"
	"code.refchain.io/node/config"
	"code.refchain.io/node/customers"
	"code.refchain.io/node/gateway/coinbase"
	"code.refchain.io/node/internal/logging"
	"code.refchain.io/node/metrics"
	"code.refchain.io/node/notify"
	"code.refchain.io/node/payments"
	"code.refchain.io/node/purchases"
	"code.refchain.io/node/referral"
	"code.refchain.io/node/sqlstore"
	"code.refchain.io/node/version"

	embeddedpostgres "github.com/fergusstrange/embedded-postgres"
	"golang.org/x/sync/errgroup"
)

type node struct {
	home          string
	log           *logging.Logger
	conf          config.Config
	configWatcher *config.Watcher

	embeddedPostgres *embeddedpostgres.EmbeddedPostgres
	postgresLog      io.Closer
	connectionSource *sqlstore.ConnectionSource

	apiServer     *api.Server
	metricsServer *metrics.Server
	dispatcher    *notify.Dispatcher
	processor     *payments.Processor
}

func (n *node) Run(ctx context.Context) error {
	if err := n.setup(ctx); err != nil {
		n.stop()
		return err
	}
	defer n.stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return n.dispatcher.Start(gctx) })
	g.Go(func() error { return n.metricsServer.Start(gctx) })
	g.Go(func() error { return n.apiServer.Start(gctx) })

	err := g.Wait()
	n.log.Info("refchain node stopped", logging.Error(err))
	return err
}

func (n *node) setup(ctx context.Context) error {
	n.conf = n.configWatcher.Get()

	// reload logger with the setup from configuration
	n.log = logging.NewLoggerFromConfig(n.conf.Logging)

	n.log.Info("Starting refchain node",
		logging.String("version", version.Get()),
		logging.String("version-hash", version.GetCommitHash()))

	if n.conf.SQLStore.UseEmbedded {
		pgLog := postgresLogger(n.home)
		n.postgresLog = pgLog
		db, err := sqlstore.StartEmbeddedPostgres(n.log, n.conf.SQLStore, filepath.Join(n.home, postgresDir), pgLog)
		if err != nil {
			return err
		}
		n.embeddedPostgres = db
	}

	if err := sqlstore.MigrateToLatestSchema(n.log, n.conf.SQLStore); err != nil {
		return fmt.Errorf("failed to migrate to latest schema: %w", err)
	}

	cs, err := sqlstore.NewTransactionalConnectionSource(ctx, n.log, n.conf.SQLStore)
	if err != nil {
		return fmt.Errorf("failed to create connection source: %w", err)
	}
	n.connectionSource = cs

	return n.setupServices()
}

func (n *node) setupServices() error {
	var (
		customerStore   = sqlstore.NewCustomers(n.connectionSource)
		tierStore       = sqlstore.NewCommissionTiers(n.connectionSource)
		commissionStore = sqlstore.NewCommissions(n.connectionSource)
		chargeStore     = sqlstore.NewCharges(n.connectionSource)
		activityStore   = sqlstore.NewPurchaseActivities(n.connectionSource)
		paymentStore    = sqlstore.NewPayments(n.connectionSource)
	)

	n.dispatcher = notify.NewDispatcher(n.log, n.conf.Notify, notify.NewLogSender(n.log), customerStore)

	walker := referral.NewAncestryWalker(customerStore, n.conf.Referral)
	settlement := commission.NewSettlement(n.log, n.conf.Commission,
		chargeStore, activityStore, commissionStore, n.connectionSource,
		commission.NewCalculator(tierStore, walker))
	commissions := commission.NewService(n.log, tierStore, commissionStore, settlement, n.dispatcher)

	n.processor = payments.NewProcessor(n.log, n.conf.Payments,
		chargeStore, activityStore, paymentStore, n.connectionSource, settlement, n.dispatcher)

	customerSvc, err := customers.NewService(n.log, n.conf.Customers, customerStore)
	if err != nil {
		return fmt.Errorf("failed to create customer service: %w", err)
	}

	gateway := coinbase.NewClient(n.log, n.conf.Coinbase)
	purchaseSvc := purchases.NewService(n.log, n.conf.Purchases, gateway,
		customerStore, chargeStore, activityStore, paymentStore, n.connectionSource)

	n.apiServer = api.NewServer(n.log, n.conf.API, api.Services{
		Webhook:     gateway,
		Events:      n.processor,
		Commissions: commissions,
		Referrals:   referral.NewMapBuilder(n.log, n.conf.Referral, customerStore),
		Customers:   customerSvc,
		Purchases:   purchaseSvc,
	})
	n.metricsServer = metrics.NewServer(n.log, n.conf.Metrics)

	n.configWatcher.OnConfigUpdate(
		func(cfg config.Config) { n.log.SetLevel(cfg.Logging.Level.Level) },
		func(cfg config.Config) { n.apiServer.ReloadConf(cfg.API) },
		func(cfg config.Config) { n.processor.ReloadConf(cfg.Payments) },
		func(cfg config.Config) { n.dispatcher.ReloadConf(cfg.Notify) },
	)
	return nil
}

func (n *node) stop() {
	if n.connectionSource != nil {
		n.connectionSource.Close()
	}
	if n.embeddedPostgres != nil {
		if err := n.embeddedPostgres.Stop(); err != nil && n.log != nil {
			n.log.Error("failed to stop embedded postgres", logging.Error(err))
		}
	}
	if n.postgresLog != nil {
		_ = n.postgresLog.Close()
	}
}
