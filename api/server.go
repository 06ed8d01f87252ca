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
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"code.refchain.io/node/commission"
	"code.refchain.io/node/customers"
	"code.refchain.io/node/entities"
	"code.refchain.io/node/gateway/coinbase"
	"code.refchain.io/node/internal/logging"
	"code.refchain.io/node/metrics"
	"code.refchain.io/node/payments"
	"code.refchain.io/node/purchases"

	"github.com/didip/tollbooth/v7"
	"github.com/didip/tollbooth/v7/limiter"
	"github.com/julienschmidt/httprouter"
	"github.com/rs/cors"
	"github.com/shopspring/decimal"
)

type WebhookVerifier interface {
	Verify(body []byte, signature string) (coinbase.Event, error)
}

//go:generate go run github.com/golang/mock/mockgen -destination mocks/event_processor_mock.go -package mocks code.refchain.io/node/api EventProcessor
type EventProcessor interface {
	Process(ctx context.Context, evt coinbase.Event) (payments.Outcome, error)
}

type CommissionService interface {
	CalculateCommission(ctx context.Context, chargeCode string) (*commission.Result, error)
	GetAllCommissionRates(ctx context.Context) ([]entities.CommissionTier, error)
	CreateCommissionTier(ctx context.Context, tier int32, rate decimal.Decimal) (entities.CommissionTier, error)
	UpdateCommissionTier(ctx context.Context, tier int32, rate decimal.Decimal) (entities.CommissionTier, error)
	DeleteCommissionTier(ctx context.Context, tier int32) error
	ListByCustomer(ctx context.Context, customerID entities.CustomerID) ([]entities.Commission, error)
	MarkTransferred(ctx context.Context, id entities.CommissionID) error
}

type ReferralMapper interface {
	Build(ctx context.Context, root entities.CustomerID, startLevel, depth int) ([]entities.ReferralLevel, error)
	DefaultDepth() int
}

type CustomerService interface {
	Suspend(ctx context.Context, id entities.CustomerID) (entities.Customer, error)
	Reinstate(ctx context.Context, id entities.CustomerID) (entities.Customer, error)
}

type PurchaseService interface {
	Initiate(ctx context.Context, req purchases.Request) (*purchases.Status, error)
	Status(ctx context.Context, chargeCode string) (*purchases.Status, error)
}

var (
	_ CustomerService = (*customers.Service)(nil)
	_ PurchaseService = (*purchases.Service)(nil)
)

// Services groups what the api serves.
type Services struct {
	Webhook     WebhookVerifier
	Events      EventProcessor
	Commissions CommissionService
	Referrals   ReferralMapper
	Customers   CustomerService
	Purchases   PurchaseService
}

// Server serves the payment webhook and the admin endpoints.
type Server struct {
	*httprouter.Router

	log     *logging.Logger
	cfg     Config
	svcs    Services
	limiter *limiter.Limiter
	srv     *http.Server
}

func NewServer(log *logging.Logger, cfg Config, svcs Services) *Server {
	log = log.Named(namedLogger)
	log.SetLevel(cfg.Level.Get())

	lmt := tollbooth.NewLimiter(cfg.RateLimit, &limiter.ExpirableOptions{DefaultExpirationTTL: time.Hour})
	lmt.SetMessageContentType("application/json")

	s := &Server{
		Router:  httprouter.New(),
		log:     log,
		cfg:     cfg,
		svcs:    svcs,
		limiter: lmt,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.handle(http.MethodGet, "/healthz", s.Healthz, false)
	s.handle(http.MethodPost, "/coinbase/webhook", s.Webhook, false)

	s.handle(http.MethodPost, "/commissions/calculate/:chargeCode", s.CalculateCommission, true)
	s.handle(http.MethodPut, "/commissions/:commissionId/transferred", s.MarkTransferred, true)
	s.handle(http.MethodGet, "/commission-tiers", s.GetAllCommissionRates, true)
	s.handle(http.MethodPost, "/commission-tiers", s.CreateCommissionTier, true)
	s.handle(http.MethodPut, "/commission-tiers/:tier", s.UpdateCommissionTier, true)
	s.handle(http.MethodDelete, "/commission-tiers/:tier", s.DeleteCommissionTier, true)
	s.handle(http.MethodGet, "/referrals/:customerId/map", s.GetReferralMap, true)
	s.handle(http.MethodGet, "/customers/:customerId/commissions", s.ListCustomerCommissions, true)
	s.handle(http.MethodPost, "/customers/:customerId/suspend", s.SuspendCustomer, true)
	s.handle(http.MethodPost, "/customers/:customerId/reinstate", s.ReinstateCustomer, true)
	s.handle(http.MethodPost, "/purchases", s.InitiatePurchase, true)
	s.handle(http.MethodGet, "/purchases/:chargeCode", s.PurchaseStatus, true)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) handle(method, path string, h httprouter.Handle, limited bool) {
	s.Handle(method, path, func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		defer func() {
			metrics.APIRequestObserve(path, strconv.Itoa(rec.status), start)
		}()

		if limited {
			if herr := tollbooth.LimitByRequest(s.limiter, rec, r); herr != nil {
				writeError(rec, newError(herr.StatusCode, herr.Message))
				return
			}
		}
		h(rec, r, ps)
	})
}

// Handler returns the router wrapped with CORS support.
func (s *Server) Handler() http.Handler {
	return cors.New(corsOptions(s.cfg.CORS)).Handler(s.Router)
}

func corsOptions(cfg CORSConfig) cors.Options {
	return cors.Options{
		AllowOriginFunc: allowedOrigin(cfg.AllowedOrigins),
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
		},
		AllowedHeaders:   []string{"*"},
		MaxAge:           cfg.MaxAge,
		AllowCredentials: false,
	}
}

func allowedOrigin(allowed []string) func(origin string) bool {
	trimScheme := func(origin string) string {
		return strings.TrimPrefix(strings.TrimPrefix(origin, "https://"), "http://")
	}
	return func(origin string) bool {
		if len(allowed) == 0 || allowed[0] == "*" {
			return true
		}
		for _, a := range allowed {
			if a == origin || trimScheme(a) == trimScheme(origin) {
				return true
			}
		}
		return false
	}
}

func (s *Server) ReloadConf(cfg Config) {
	s.log.Info("reloading configuration")
	if s.log.GetLevel() != cfg.Level.Get() {
		s.log.Info("updating log level",
			logging.String("old", s.log.GetLevel().String()),
			logging.String("new", cfg.Level.String()),
		)
		s.log.SetLevel(cfg.Level.Get())
	}
	s.limiter.SetMax(cfg.RateLimit)
}

// Start serves requests until the context is cancelled, then shuts the
// server down gracefully.
func (s *Server) Start(ctx context.Context) error {
	s.srv = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", s.cfg.IP, s.cfg.Port),
		Handler:      s.Handler(),
		ReadTimeout:  s.cfg.ReadTimeout.Get(),
		WriteTimeout: s.cfg.WriteTimeout.Get(),
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("starting http api", logging.String("address", s.srv.Addr))
		errCh <- s.srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	sctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout.Get())
	defer cancel()
	s.log.Info("stopping http api")
	return s.srv.Shutdown(sctx)
}

func (s *Server) Healthz(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	writeSuccess(w, map[string]string{"status": "ok"}, http.StatusOK)
}
