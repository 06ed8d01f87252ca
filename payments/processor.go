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
package payments

import (
	"context"
	"errors"
	"fmt"

	"code.refchain.io/node/commission"
	"code.refchain.io/node/entities"
	"code.refchain.io/node/gateway/coinbase"
	"code.refchain.io/node/internal/logging"
	"code.refchain.io/node/metrics"

	"github.com/emirpasic/gods/sets/hashset"
)

//go:generate go run github.com/golang/mock/mockgen -destination mocks/payment_store_mock.go -package mocks code.refchain.io/node/payments PaymentStore
type PaymentStore interface {
	PaymentCounter
	// LockCharge serialises the processing of a charge until the end of the
	// current transaction.
	LockCharge(ctx context.Context, chargeCode string) error
	Add(ctx context.Context, payment *entities.Payment) (bool, error)
	ListTransactionIDs(ctx context.Context, chargeID entities.ChargeID) ([]string, error)
}

type PurchaseStore interface {
	GetByChargeID(ctx context.Context, chargeID entities.ChargeID) (entities.PurchaseActivity, error)
	UpdatePaymentStatus(ctx context.Context, chargeID entities.ChargeID, status entities.PaymentStatus, reason *entities.UnresolvedReason) error
}

//go:generate go run github.com/golang/mock/mockgen -destination mocks/settler_mock.go -package mocks code.refchain.io/node/payments Settler
type Settler interface {
	Settle(ctx context.Context, chargeCode string) (*commission.Result, error)
}

type Transactor interface {
	InTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Outcome describes what processing an event led to.
type Outcome string

const (
	OutcomeIgnored        Outcome = "ignored"
	OutcomeRecorded       Outcome = "recorded"
	OutcomeSettled        Outcome = "settled"
	OutcomeAlreadySettled Outcome = "already-settled"
	OutcomeMultiplePaid   Outcome = "multiple-payments"
)

var handledEvents = map[string]struct{}{
	coinbase.EventChargeCreated:   {},
	coinbase.EventChargePending:   {},
	coinbase.EventChargeConfirmed: {},
	coinbase.EventChargeFailed:    {},
	coinbase.EventChargeDelayed:   {},
	coinbase.EventChargeResolved:  {},
}

// Processor applies gateway events to the stored state of a charge and
// settles the purchase on its first completion.
type Processor struct {
	log       *logging.Logger
	charges   ChargeStore
	purchases PurchaseStore
	payments  PaymentStore
	tx        Transactor
	guard     *Guard
	settler   Settler
	notifier  commission.Notifier
}

func NewProcessor(
	log *logging.Logger,
	cfg Config,
	charges ChargeStore,
	purchases PurchaseStore,
	payments PaymentStore,
	tx Transactor,
	settler Settler,
	notifier commission.Notifier,
) *Processor {
	log = log.Named(namedLogger)
	log.SetLevel(cfg.Level.Get())
	return &Processor{
		log:       log,
		charges:   charges,
		purchases: purchases,
		payments:  payments,
		tx:        tx,
		guard:     NewGuard(charges, payments),
		settler:   settler,
		notifier:  notifier,
	}
}

func (p *Processor) ReloadConf(cfg Config) {
	p.log.Info("reloading configuration")
	if p.log.GetLevel() != cfg.Level.Get() {
		p.log.Info("updating log level",
			logging.String("old", p.log.GetLevel().String()),
			logging.String("new", cfg.Level.String()),
		)
		p.log.SetLevel(cfg.Level.Get())
	}
}

// Process records the event and, when the charge is completed, settles it.
// Everything happens in one transaction holding the lock of the charge, so
// deliveries for the same charge apply in arrival order and a failed
// settlement leaves no trace of the event. Notifications are sent once the
// transaction is committed.
func (p *Processor) Process(ctx context.Context, evt coinbase.Event) (Outcome, error) {
	if _, ok := handledEvents[evt.Type]; !ok {
		p.log.Debug("ignoring webhook event", logging.EventType(evt.Type))
		metrics.WebhookEventInc(evt.Type, "", string(OutcomeIgnored))
		return OutcomeIgnored, nil
	}
	code := evt.Data.Code
	if len(code) == 0 {
		return "", fmt.Errorf("event %s carries no charge code: %w", evt.ID, entities.ErrInvalidArgument)
	}
	class, err := Classify(evt.Data)
	if err != nil {
		return "", err
	}

	var (
		outcome = OutcomeRecorded
		settled *commission.Result
	)
	err = p.tx.InTransaction(ctx, func(ctx context.Context) error {
		if err := p.payments.LockCharge(ctx, code); err != nil {
			return err
		}
		charge, err := p.charges.GetByCode(ctx, code)
		if err != nil {
			return err
		}
		if err := p.purchases.UpdatePaymentStatus(ctx, charge.ID, class.Status, class.Reason); err != nil {
			return err
		}
		if err := p.recordPayments(ctx, charge, evt.Data, class); err != nil {
			return err
		}
		if !class.IsCompleted() {
			return nil
		}

		outcome, settled, err = p.settle(ctx, charge)
		return err
	})
	if err != nil {
		metrics.WebhookEventInc(evt.Type, class.Status.String(), "failed")
		return "", err
	}

	metrics.WebhookEventInc(evt.Type, class.Status.String(), string(outcome))
	p.log.Info("webhook event processed",
		logging.EventType(evt.Type),
		logging.ChargeCode(code),
		logging.String("status", class.Status.String()),
		logging.String("outcome", string(outcome)))

	if settled != nil && p.notifier != nil {
		p.notifier.NotifySettlement(ctx, settled)
	}
	return outcome, nil
}

func (p *Processor) settle(ctx context.Context, charge entities.Charge) (Outcome, *commission.Result, error) {
	multiple, err := p.guard.HasMultipleCompletedPayments(ctx, charge.Code)
	if err != nil {
		return "", nil, err
	}
	if multiple {
		p.log.Warn("charge completed more than once, not settling again", logging.ChargeCode(charge.Code))
		return OutcomeMultiplePaid, nil, nil
	}

	activity, err := p.purchases.GetByChargeID(ctx, charge.ID)
	if err != nil {
		return "", nil, err
	}
	if activity.PurchaseConfirmed {
		return OutcomeAlreadySettled, nil, nil
	}

	res, err := p.settler.Settle(ctx, charge.Code)
	if errors.Is(err, entities.ErrAlreadySettled) {
		return OutcomeAlreadySettled, nil, nil
	}
	if err != nil {
		return "", nil, err
	}
	return OutcomeSettled, res, nil
}

// recordPayments inserts one row per payment of the event whose transaction
// is not recorded yet, or a single row without transaction when the event
// carries no payment.
func (p *Processor) recordPayments(ctx context.Context, charge entities.Charge, data coinbase.ChargeResource, class Classification) error {
	if len(data.Payments) == 0 {
		local := data.Pricing["local"]
		_, err := p.payments.Add(ctx, &entities.Payment{
			ChargeID:         charge.ID,
			Amount:           local.Amount,
			Currency:         local.Currency,
			PaymentStatus:    class.Status,
			UnresolvedReason: class.Reason,
		})
		return err
	}

	known, err := p.payments.ListTransactionIDs(ctx, charge.ID)
	if err != nil {
		return err
	}
	seen := hashset.New()
	for _, id := range known {
		seen.Add(id)
	}

	for _, entry := range data.Payments {
		if seen.Contains(entry.TransactionID) {
			continue
		}
		seen.Add(entry.TransactionID)

		tx := entry.TransactionID
		payment := &entities.Payment{
			ChargeID:         charge.ID,
			Transaction:      &tx,
			Network:          entry.Network,
			Amount:           entry.Value.Crypto.Amount,
			Currency:         entry.Value.Crypto.Currency,
			PaymentStatus:    class.Status,
			UnresolvedReason: class.Reason,
		}
		inserted, err := p.payments.Add(ctx, payment)
		if err != nil {
			return err
		}
		if !inserted {
			p.log.Debug("payment already recorded",
				logging.ChargeCode(charge.Code),
				logging.String("transaction", tx))
		}
	}
	return nil
}
