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
package purchases

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"code.refchain.io/node/entities"
	"code.refchain.io/node/gateway/coinbase"
	"code.refchain.io/node/internal/logging"

	uuid "github.com/satori/go.uuid"
	"github.com/shopspring/decimal"
)

// Metadata keys attached to gateway charges.
const (
	MetadataCustomerID = "customer_id"
	MetadataReference  = "purchase_reference"
)

//go:generate go run github.com/golang/mock/mockgen -destination mocks/gateway_mock.go -package mocks code.refchain.io/node/purchases Gateway
type Gateway interface {
	CreateCharge(ctx context.Context, req coinbase.ChargeRequest) (coinbase.ChargeResource, error)
}

type CustomerReader interface {
	GetByID(ctx context.Context, id entities.CustomerID) (entities.Customer, error)
}

type ChargeStore interface {
	Add(ctx context.Context, charge *entities.Charge) error
	GetByCode(ctx context.Context, code string) (entities.Charge, error)
}

type ActivityStore interface {
	Add(ctx context.Context, activity *entities.PurchaseActivity) error
	GetByChargeID(ctx context.Context, chargeID entities.ChargeID) (entities.PurchaseActivity, error)
}

type PaymentReader interface {
	ListByCharge(ctx context.Context, chargeID entities.ChargeID) ([]entities.Payment, error)
}

type Transactor interface {
	InTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type Request struct {
	CustomerID  entities.CustomerID
	Amount      int64
	Currency    string
	TokenAmount decimal.Decimal
}

func (r Request) Validate() error {
	if r.Amount <= 0 {
		return fmt.Errorf("amount must be positive: %w", entities.ErrInvalidArgument)
	}
	if len(r.Currency) != 3 || strings.ToUpper(r.Currency) != r.Currency {
		return fmt.Errorf("currency must be an upper case ISO code, got %q: %w", r.Currency, entities.ErrInvalidArgument)
	}
	if r.TokenAmount.IsNegative() {
		return fmt.Errorf("token amount cannot be negative: %w", entities.ErrInvalidArgument)
	}
	return nil
}

type Status struct {
	Charge   entities.Charge
	Activity entities.PurchaseActivity
	Payments []entities.Payment
}

// Service starts purchases and reports their state.
type Service struct {
	log        *logging.Logger
	cfg        Config
	gateway    Gateway
	customers  CustomerReader
	charges    ChargeStore
	activities ActivityStore
	payments   PaymentReader
	tx         Transactor
}

func NewService(
	log *logging.Logger,
	cfg Config,
	gateway Gateway,
	customers CustomerReader,
	charges ChargeStore,
	activities ActivityStore,
	payments PaymentReader,
	tx Transactor,
) *Service {
	log = log.Named(namedLogger)
	log.SetLevel(cfg.Level.Get())
	return &Service{
		log:        log,
		cfg:        cfg,
		gateway:    gateway,
		customers:  customers,
		charges:    charges,
		activities: activities,
		payments:   payments,
		tx:         tx,
	}
}

// Initiate creates the gateway charge of a purchase then stores the charge
// and its purchase activity together.
func (s *Service) Initiate(ctx context.Context, req Request) (*Status, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.customers.GetByID(ctx, req.CustomerID); err != nil {
		return nil, err
	}

	reference := uuid.NewV4().String()
	resource, err := s.gateway.CreateCharge(ctx, coinbase.ChargeRequest{
		Name:        s.cfg.ChargeName,
		Description: fmt.Sprintf("%s tokens", req.TokenAmount.String()),
		LocalPrice: coinbase.Money{
			Amount:   decimal.New(req.Amount, -s.cfg.MinorDigits),
			Currency: req.Currency,
		},
		Metadata: map[string]string{
			MetadataCustomerID: strconv.FormatInt(int64(req.CustomerID), 10),
			MetadataReference:  reference,
		},
	})
	if err != nil {
		return nil, err
	}

	charge := entities.Charge{
		Code:       resource.Code,
		CustomerID: req.CustomerID,
		Pricing:    entities.Pricing{},
		HostedURL:  resource.HostedURL,
		ExpiresAt:  resource.ExpiresAt,
	}
	for k, v := range resource.Pricing {
		charge.Pricing[k] = entities.Price{Amount: v.Amount.String(), Currency: v.Currency}
	}
	amount, currency := req.Amount, req.Currency
	activity := entities.PurchaseActivity{
		CustomerID:    req.CustomerID,
		TokenAmount:   req.TokenAmount,
		Amount:        &amount,
		Currency:      &currency,
		PaymentStatus: entities.PaymentStatusNew,
	}

	err = s.tx.InTransaction(ctx, func(ctx context.Context) error {
		if err := s.charges.Add(ctx, &charge); err != nil {
			return err
		}
		activity.ChargeID = charge.ID
		return s.activities.Add(ctx, &activity)
	})
	if err != nil {
		s.log.Error("could not store purchase",
			logging.ChargeCode(resource.Code),
			logging.String("reference", reference),
			logging.Error(err))
		return nil, err
	}

	s.log.Info("purchase initiated",
		logging.ChargeCode(charge.Code),
		logging.CustomerID(int64(req.CustomerID)),
		logging.String("reference", reference))
	return &Status{Charge: charge, Activity: activity, Payments: []entities.Payment{}}, nil
}

func (s *Service) Status(ctx context.Context, chargeCode string) (*Status, error) {
	charge, err := s.charges.GetByCode(ctx, chargeCode)
	if err != nil {
		return nil, err
	}
	activity, err := s.activities.GetByChargeID(ctx, charge.ID)
	if err != nil {
		return nil, err
	}
	payments, err := s.payments.ListByCharge(ctx, charge.ID)
	if err != nil {
		return nil, err
	}
	if payments == nil {
		payments = []entities.Payment{}
	}
	return &Status{Charge: charge, Activity: activity, Payments: payments}, nil
}
