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
package customers

import (
	"context"
	"fmt"

	"code.refchain.io/node/entities"
	"code.refchain.io/node/internal/logging"

	lru "github.com/hashicorp/golang-lru/v2"
)

type Store interface {
	GetByID(ctx context.Context, id entities.CustomerID) (entities.Customer, error)
	GetByReferralCode(ctx context.Context, code string) (entities.Customer, error)
	ListReferees(ctx context.Context, referrers []entities.CustomerID) ([]entities.Customer, error)
	UpdateStatus(ctx context.Context, id entities.CustomerID, status entities.CustomerStatus) error
}

// Service looks customers up and administers their status. Referral codes
// never change once issued, so the code to id mapping is cached while the
// customer itself is always read from the store.
type Service struct {
	log   *logging.Logger
	store Store
	codes *lru.Cache[string, entities.CustomerID]
}

func NewService(log *logging.Logger, cfg Config, store Store) (*Service, error) {
	log = log.Named(namedLogger)
	log.SetLevel(cfg.Level.Get())

	size := cfg.ReferralCodeCacheSize
	if size <= 0 {
		size = 1
	}
	codes, err := lru.New[string, entities.CustomerID](size)
	if err != nil {
		return nil, fmt.Errorf("could not create referral code cache: %w", err)
	}
	return &Service{
		log:   log,
		store: store,
		codes: codes,
	}, nil
}

func (s *Service) GetByID(ctx context.Context, id entities.CustomerID) (entities.Customer, error) {
	return s.store.GetByID(ctx, id)
}

func (s *Service) GetByReferralCode(ctx context.Context, code string) (entities.Customer, error) {
	if id, ok := s.codes.Get(code); ok {
		customer, err := s.store.GetByID(ctx, id)
		if err == nil {
			return customer, nil
		}
		s.codes.Remove(code)
	}
	customer, err := s.store.GetByReferralCode(ctx, code)
	if err != nil {
		return entities.Customer{}, err
	}
	s.codes.Add(code, customer.ID)
	return customer, nil
}

// ListReferees returns the customers directly referred by id.
func (s *Service) ListReferees(ctx context.Context, id entities.CustomerID) ([]entities.Customer, error) {
	if _, err := s.store.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.store.ListReferees(ctx, []entities.CustomerID{id})
}

// Suspend stops the customer from earning commissions. Tiers above a
// suspended customer are left untouched.
func (s *Service) Suspend(ctx context.Context, id entities.CustomerID) (entities.Customer, error) {
	return s.setStatus(ctx, id, entities.CustomerStatusSuspended)
}

func (s *Service) Reinstate(ctx context.Context, id entities.CustomerID) (entities.Customer, error) {
	return s.setStatus(ctx, id, entities.CustomerStatusActive)
}

func (s *Service) setStatus(ctx context.Context, id entities.CustomerID, status entities.CustomerStatus) (entities.Customer, error) {
	if err := s.store.UpdateStatus(ctx, id, status); err != nil {
		return entities.Customer{}, err
	}
	s.log.Info("customer status changed",
		logging.CustomerID(int64(id)),
		logging.String("status", status.String()))
	return s.store.GetByID(ctx, id)
}
