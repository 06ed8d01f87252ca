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
	"net/http"
	"strconv"

	"code.refchain.io/node/entities"
	"code.refchain.io/node/purchases"

	"github.com/julienschmidt/httprouter"
	"github.com/shopspring/decimal"
)

type TierRequest struct {
	Tier           int32           `json:"tier"`
	CommissionRate decimal.Decimal `json:"commissionRate"`
}

type PurchaseRequest struct {
	CustomerID  entities.CustomerID `json:"customerId"`
	Amount      int64               `json:"amount"`
	Currency    string              `json:"currency"`
	TokenAmount decimal.Decimal     `json:"tokenAmount"`
}

type CommissionsResponse struct {
	Commissions []entities.Commission `json:"commissions"`
}

type PurchaseResponse struct {
	Charge   entities.Charge           `json:"charge"`
	Activity entities.PurchaseActivity `json:"purchaseActivity"`
	Payments []entities.Payment        `json:"payments"`
}

func newPurchaseResponse(st *purchases.Status) PurchaseResponse {
	return PurchaseResponse{Charge: st.Charge, Activity: st.Activity, Payments: st.Payments}
}

func int64Param(ps httprouter.Params, name string) (int64, error) {
	v, err := strconv.ParseInt(ps.ByName(name), 10, 64)
	if err != nil {
		return 0, newError(http.StatusBadRequest, "invalid "+name)
	}
	return v, nil
}

func intQuery(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if len(raw) == 0 {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, newError(http.StatusBadRequest, "invalid "+name)
	}
	return v, nil
}

func (s *Server) CalculateCommission(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	res, err := s.svcs.Commissions.CalculateCommission(r.Context(), ps.ByName("chargeCode"))
	if err != nil {
		writeError(w, toHTTPError(err))
		return
	}
	writeSuccess(w, CommissionsResponse{Commissions: res.Commissions}, http.StatusOK)
}

func (s *Server) GetAllCommissionRates(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	tiers, err := s.svcs.Commissions.GetAllCommissionRates(r.Context())
	if err != nil {
		writeError(w, toHTTPError(err))
		return
	}
	writeSuccess(w, tiers, http.StatusOK)
}

func (s *Server) CreateCommissionTier(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	req := TierRequest{}
	if err := unmarshalBody(r, &req); err != nil {
		writeError(w, toHTTPError(err))
		return
	}
	tier, err := s.svcs.Commissions.CreateCommissionTier(r.Context(), req.Tier, req.CommissionRate)
	if err != nil {
		writeError(w, toHTTPError(err))
		return
	}
	writeSuccess(w, tier, http.StatusCreated)
}

func (s *Server) UpdateCommissionTier(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	n, err := int64Param(ps, "tier")
	if err != nil {
		writeError(w, toHTTPError(err))
		return
	}
	req := TierRequest{}
	if err := unmarshalBody(r, &req); err != nil {
		writeError(w, toHTTPError(err))
		return
	}
	tier, err := s.svcs.Commissions.UpdateCommissionTier(r.Context(), int32(n), req.CommissionRate)
	if err != nil {
		writeError(w, toHTTPError(err))
		return
	}
	writeSuccess(w, tier, http.StatusOK)
}

func (s *Server) DeleteCommissionTier(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	n, err := int64Param(ps, "tier")
	if err != nil {
		writeError(w, toHTTPError(err))
		return
	}
	if err := s.svcs.Commissions.DeleteCommissionTier(r.Context(), int32(n)); err != nil {
		writeError(w, toHTTPError(err))
		return
	}
	writeSuccess(w, nil, http.StatusNoContent)
}

func (s *Server) GetReferralMap(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	root, err := int64Param(ps, "customerId")
	if err != nil {
		writeError(w, toHTTPError(err))
		return
	}
	startLevel, err := intQuery(r, "startLevel", 0)
	if err != nil {
		writeError(w, toHTTPError(err))
		return
	}
	depth, err := intQuery(r, "depth", s.svcs.Referrals.DefaultDepth())
	if err != nil {
		writeError(w, toHTTPError(err))
		return
	}

	levels, err := s.svcs.Referrals.Build(r.Context(), entities.CustomerID(root), startLevel, depth)
	if err != nil {
		writeError(w, toHTTPError(err))
		return
	}
	writeSuccess(w, levels, http.StatusOK)
}

func (s *Server) ListCustomerCommissions(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, err := int64Param(ps, "customerId")
	if err != nil {
		writeError(w, toHTTPError(err))
		return
	}
	lines, err := s.svcs.Commissions.ListByCustomer(r.Context(), entities.CustomerID(id))
	if err != nil {
		writeError(w, toHTTPError(err))
		return
	}
	if lines == nil {
		lines = []entities.Commission{}
	}
	writeSuccess(w, CommissionsResponse{Commissions: lines}, http.StatusOK)
}

func (s *Server) MarkTransferred(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, err := int64Param(ps, "commissionId")
	if err != nil {
		writeError(w, toHTTPError(err))
		return
	}
	if err := s.svcs.Commissions.MarkTransferred(r.Context(), entities.CommissionID(id)); err != nil {
		writeError(w, toHTTPError(err))
		return
	}
	writeSuccess(w, nil, http.StatusNoContent)
}

func (s *Server) SuspendCustomer(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	s.changeStatus(w, r, ps, s.svcs.Customers.Suspend)
}

func (s *Server) ReinstateCustomer(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	s.changeStatus(w, r, ps, s.svcs.Customers.Reinstate)
}

func (s *Server) changeStatus(
	w http.ResponseWriter,
	r *http.Request,
	ps httprouter.Params,
	change func(ctx context.Context, id entities.CustomerID) (entities.Customer, error),
) {
	id, err := int64Param(ps, "customerId")
	if err != nil {
		writeError(w, toHTTPError(err))
		return
	}
	customer, err := change(r.Context(), entities.CustomerID(id))
	if err != nil {
		writeError(w, toHTTPError(err))
		return
	}
	writeSuccess(w, customer, http.StatusOK)
}

func (s *Server) InitiatePurchase(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	req := PurchaseRequest{}
	if err := unmarshalBody(r, &req); err != nil {
		writeError(w, toHTTPError(err))
		return
	}
	st, err := s.svcs.Purchases.Initiate(r.Context(), purchases.Request{
		CustomerID:  req.CustomerID,
		Amount:      req.Amount,
		Currency:    req.Currency,
		TokenAmount: req.TokenAmount,
	})
	if err != nil {
		writeError(w, toHTTPError(err))
		return
	}
	writeSuccess(w, newPurchaseResponse(st), http.StatusCreated)
}

func (s *Server) PurchaseStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	st, err := s.svcs.Purchases.Status(r.Context(), ps.ByName("chargeCode"))
	if err != nil {
		writeError(w, toHTTPError(err))
		return
	}
	writeSuccess(w, newPurchaseResponse(st), http.StatusOK)
}
