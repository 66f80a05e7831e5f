package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"fondo/internal/core"
)

const maxBodyBytes = 1 << 16 // 64KB

type donateRequest struct {
	// AmountMicros takes precedence; Amount is a decimal string in base
	// units for human-driven clients.
	AmountMicros int64  `json:"amount_micros"`
	Amount       string `json:"amount"`
}

type donorResponse struct {
	Identity           string `json:"identity"`
	TotalDonatedMicros int64  `json:"total_donated_micros"`
}

type categoryRequest struct {
	Name string `json:"name"`
}

type categoryResponse struct {
	Name        string `json:"name"`
	Active      bool   `json:"active"`
	SpentMicros int64  `json:"spent_micros"`
}

type proposeRequest struct {
	AmountMicros int64  `json:"amount_micros"`
	Amount       string `json:"amount"`
	Category     string `json:"category"`
	Recipient    string `json:"recipient"`
	Memo         string `json:"memo"`
}

type proposeResponse struct {
	ID int64 `json:"id"`
}

type expenditureResponse struct {
	ID           int64  `json:"id"`
	AmountMicros int64  `json:"amount_micros"`
	Category     string `json:"category"`
	Recipient    string `json:"recipient"`
	Memo         string `json:"memo"`
	Approved     bool   `json:"approved"`
}

type balanceResponse struct {
	BalanceMicros int64 `json:"balance_micros"`
}

func (s *Server) handleDonate(w http.ResponseWriter, r *http.Request) {
	var req donateRequest
	if !decodeBody(w, r, &req) {
		return
	}

	micros, err := resolveAmount(req.AmountMicros, req.Amount)
	if err != nil {
		writeError(w, err)
		return
	}

	donor, err := s.ledger.Donate(r.Context(), caller(r), core.Money{Micros: micros})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, donorResponse{
		Identity:           donor.Identity,
		TotalDonatedMicros: donor.TotalDonated.Micros,
	})
}

func (s *Server) handleAddCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if !decodeBody(w, r, &req) {
		return
	}

	cat, err := s.ledger.AddCategory(r.Context(), caller(r), strings.TrimSpace(req.Name))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, categoryResponse{
		Name:        cat.Name,
		Active:      cat.Active,
		SpentMicros: cat.Spent.Micros,
	})
}

func (s *Server) handleGetCategory(w http.ResponseWriter, r *http.Request) {
	cat, err := s.ledger.CategoryInfo(r.Context(), r.PathValue("name"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, categoryResponse{
		Name:        cat.Name,
		Active:      cat.Active,
		SpentMicros: cat.Spent.Micros,
	})
}

func (s *Server) handlePropose(w http.ResponseWriter, r *http.Request) {
	var req proposeRequest
	if !decodeBody(w, r, &req) {
		return
	}

	micros, err := resolveAmount(req.AmountMicros, req.Amount)
	if err != nil {
		writeError(w, err)
		return
	}

	id, err := s.ledger.ProposeExpenditure(r.Context(), caller(r), core.Proposal{
		Amount:    core.Money{Micros: micros},
		Category:  strings.TrimSpace(req.Category),
		Recipient: req.Recipient,
		Memo:      req.Memo,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, proposeResponse{ID: id})
}

func (s *Server) handleApprove(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	exp, err := s.ledger.ApproveExpenditure(r.Context(), caller(r), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toExpenditureResponse(exp))
}

func (s *Server) handleGetExpenditure(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	exp, err := s.ledger.Expenditure(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toExpenditureResponse(exp))
}

func (s *Server) handleGetDonor(w http.ResponseWriter, r *http.Request) {
	donor, err := s.ledger.DonorInfo(r.Context(), r.PathValue("identity"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, donorResponse{
		Identity:           donor.Identity,
		TotalDonatedMicros: donor.TotalDonated.Micros,
	})
}

func (s *Server) handleGetBalance(w http.ResponseWriter, r *http.Request) {
	balance, err := s.ledger.Balance(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, balanceResponse{BalanceMicros: balance.Micros})
}

func toExpenditureResponse(exp core.Expenditure) expenditureResponse {
	return expenditureResponse{
		ID:           exp.ID,
		AmountMicros: exp.Amount.Micros,
		Category:     exp.Category,
		Recipient:    exp.Recipient,
		Memo:         exp.Memo,
		Approved:     exp.Approved,
	}
}

// caller extracts the authenticated identity forwarded by the gateway.
func caller(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get(CallerHeader))
}

// decodeBody decodes a bounded JSON body, writing a 400 on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeBadRequest(w, "invalid request body")
		return false
	}
	return true
}

// resolveAmount picks the integer micro-unit amount, falling back to the
// decimal string form.
func resolveAmount(micros int64, decimal string) (int64, error) {
	if micros != 0 {
		if micros < 0 {
			return 0, core.ErrInvalidAmount
		}
		return micros, nil
	}
	if strings.TrimSpace(decimal) == "" {
		return 0, core.ErrInvalidAmount
	}
	return core.ParseDecimalToMicros(decimal)
}

// pathID parses the {id} path segment, writing a 400 on failure.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id < 0 {
		writeBadRequest(w, "invalid expenditure id")
		return 0, false
	}
	return id, true
}
