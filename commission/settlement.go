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
package commission

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"code.refchain.io/node/entities"
	"code.refchain.io/node/internal/logging"
	"code.refchain.io/node/metrics"
)

//go:generate go run github.com/golang/mock/mockgen -destination mocks/commission_store_mock.go -package mocks code.refchain.io/node/commission CommissionStore
type CommissionStore interface {
	AddBatch(ctx context.Context, commissions []entities.Commission) error
}

type ChargeStore interface {
	GetByCode(ctx context.Context, code string) (entities.Charge, error)
}

type PurchaseStore interface {
	GetByChargeID(ctx context.Context, chargeID entities.ChargeID) (entities.PurchaseActivity, error)
	Confirm(ctx context.Context, chargeID entities.ChargeID) error
}

type Transactor interface {
	InTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Result is what a settlement posted.
type Result struct {
	Charge      entities.Charge
	Activity    entities.PurchaseActivity
	Commissions []entities.Commission
}

// Settlement posts the commissions of a purchase and confirms it, both in a
// single transaction.
type Settlement struct {
	log         *logging.Logger
	charges     ChargeStore
	purchases   PurchaseStore
	commissions CommissionStore
	tx          Transactor
	calculator  *Calculator
}

func NewSettlement(
	log *logging.Logger,
	cfg Config,
	charges ChargeStore,
	purchases PurchaseStore,
	commissions CommissionStore,
	tx Transactor,
	calculator *Calculator,
) *Settlement {
	log = log.Named(namedLogger)
	log.SetLevel(cfg.Level.Get())
	return &Settlement{
		log:         log,
		charges:     charges,
		purchases:   purchases,
		commissions: commissions,
		tx:          tx,
		calculator:  calculator,
	}
}

// Settle computes and stores the commissions of the purchase behind the
// charge code and flips its confirmation flag. The flag only moves from false
// to true, so settling a confirmed purchase fails with
// entities.ErrAlreadySettled and stores nothing.
func (s *Settlement) Settle(ctx context.Context, chargeCode string) (*Result, error) {
	charge, err := s.charges.GetByCode(ctx, chargeCode)
	if err != nil {
		return nil, err
	}
	activity, err := s.purchases.GetByChargeID(ctx, charge.ID)
	if err != nil {
		return nil, err
	}
	if activity.Amount == nil || activity.Currency == nil || *activity.Currency == "" {
		return nil, fmt.Errorf("amount/currency not found for charge %s: %w", chargeCode, entities.ErrNotFound)
	}

	lines, err := s.calculator.Calculate(ctx, Purchase{
		ChargeID:    charge.ID,
		PurchaserID: charge.CustomerID,
		Amount:      *activity.Amount,
		Currency:    *activity.Currency,
	})
	if err != nil {
		metrics.SettlementInc("failed")
		return nil, fmt.Errorf("could not calculate commissions for charge %s: %w", chargeCode, err)
	}

	err = s.tx.InTransaction(ctx, func(ctx context.Context) error {
		if err := s.purchases.Confirm(ctx, charge.ID); err != nil {
			return err
		}
		return s.commissions.AddBatch(ctx, lines)
	})
	if err != nil {
		if errors.Is(err, entities.ErrAlreadySettled) || errors.Is(err, entities.ErrConflict) {
			metrics.SettlementInc("duplicate")
		} else {
			metrics.SettlementInc("failed")
		}
		return nil, err
	}

	metrics.SettlementInc("settled")
	for _, line := range lines {
		metrics.CommissionAmountAdd(line.Currency, strconv.Itoa(int(line.Tier)), line.Amount)
	}
	s.log.Info("purchase settled",
		logging.ChargeCode(chargeCode),
		logging.CustomerID(int64(charge.CustomerID)),
		logging.Int("commissions", len(lines)))

	activity.PurchaseConfirmed = true
	return &Result{
		Charge:      charge,
		Activity:    activity,
		Commissions: lines,
	}, nil
}
