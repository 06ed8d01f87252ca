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

	"code.refchain.io/node/entities"
	"code.refchain.io/node/internal/logging"

	"github.com/shopspring/decimal"
)

type TierStore interface {
	TierReader
	Add(ctx context.Context, tier entities.CommissionTier) error
	Update(ctx context.Context, tier entities.CommissionTier) error
	Delete(ctx context.Context, tier int32) error
}

type CommissionReader interface {
	ListByCharge(ctx context.Context, chargeID entities.ChargeID) ([]entities.Commission, error)
	ListByCustomer(ctx context.Context, customerID entities.CustomerID) ([]entities.Commission, error)
	MarkTransferred(ctx context.Context, id entities.CommissionID) error
}

//go:generate go run github.com/golang/mock/mockgen -destination mocks/notifier_mock.go -package mocks code.refchain.io/node/commission Notifier
type Notifier interface {
	NotifySettlement(ctx context.Context, result *Result)
}

// Service exposes the commission operations to the api.
type Service struct {
	log         *logging.Logger
	tiers       TierStore
	commissions CommissionReader
	settlement  *Settlement
	notifier    Notifier
}

func NewService(log *logging.Logger, tiers TierStore, commissions CommissionReader, settlement *Settlement, notifier Notifier) *Service {
	return &Service{
		log:         log.Named(namedLogger),
		tiers:       tiers,
		commissions: commissions,
		settlement:  settlement,
		notifier:    notifier,
	}
}

func (s *Service) GetAllCommissionRates(ctx context.Context) ([]entities.CommissionTier, error) {
	return s.tiers.GetAll(ctx)
}

func (s *Service) CreateCommissionTier(ctx context.Context, tier int32, rate decimal.Decimal) (entities.CommissionTier, error) {
	t := entities.CommissionTier{Tier: tier, CommissionRate: rate}
	if err := t.Validate(); err != nil {
		return entities.CommissionTier{}, err
	}
	if err := s.tiers.Add(ctx, t); err != nil {
		return entities.CommissionTier{}, err
	}
	s.log.Info("commission tier created", logging.Tier(tier), logging.Decimal("rate", rate))
	return t, nil
}

func (s *Service) UpdateCommissionTier(ctx context.Context, tier int32, rate decimal.Decimal) (entities.CommissionTier, error) {
	t := entities.CommissionTier{Tier: tier, CommissionRate: rate}
	if err := t.Validate(); err != nil {
		return entities.CommissionTier{}, err
	}
	if err := s.tiers.Update(ctx, t); err != nil {
		return entities.CommissionTier{}, err
	}
	s.log.Info("commission tier updated", logging.Tier(tier), logging.Decimal("rate", rate))
	return t, nil
}

func (s *Service) DeleteCommissionTier(ctx context.Context, tier int32) error {
	if err := s.tiers.Delete(ctx, tier); err != nil {
		return err
	}
	s.log.Info("commission tier deleted", logging.Tier(tier))
	return nil
}

// CalculateCommission settles the purchase behind the charge code on demand.
// A purchase that is already confirmed fails with entities.ErrAlreadySettled.
func (s *Service) CalculateCommission(ctx context.Context, chargeCode string) (*Result, error) {
	res, err := s.settlement.Settle(ctx, chargeCode)
	if err != nil {
		if !errors.Is(err, entities.ErrAlreadySettled) {
			s.log.Error("could not calculate commission", logging.ChargeCode(chargeCode), logging.Error(err))
		}
		return nil, err
	}
	if s.notifier != nil {
		s.notifier.NotifySettlement(ctx, res)
	}
	return res, nil
}

func (s *Service) ListByCustomer(ctx context.Context, customerID entities.CustomerID) ([]entities.Commission, error) {
	return s.commissions.ListByCustomer(ctx, customerID)
}

func (s *Service) ListByCharge(ctx context.Context, chargeID entities.ChargeID) ([]entities.Commission, error) {
	return s.commissions.ListByCharge(ctx, chargeID)
}

func (s *Service) MarkTransferred(ctx context.Context, id entities.CommissionID) error {
	return s.commissions.MarkTransferred(ctx, id)
}
