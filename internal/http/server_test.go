package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"fondo/internal/core"
	ledgermem "fondo/internal/ledger/memory"
	"fondo/internal/services"
)

const (
	testOwner = "ST1PQHQKV0RJXZFY1DGX8MNSNYVE3VGZJSRTPGZGM"
	testDonor = "ST2CY5V39NHDPWSXMW9QDT3HC3GD6Q6XX4CFRK9AG"
	testPayee = "ST3AM1A56AK2C1XAFJ4115ZSV26EB49BVQ10MGCS0"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	store := ledgermem.New(testOwner, core.MinDonationMicros)
	svc := services.NewLedgerService(store, nil)
	s := NewServer(":0", svc)
	t.Cleanup(func() { s.rateLimiter.stop() })
	return s
}

func do(t *testing.T, s *Server, method, path, as string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if as != "" {
		req.Header.Set(CallerHeader, as)
	}
	rec := httptest.NewRecorder()
	s.Handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return v
}

func wantStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("status = %d, want %d; body: %s", rec.Code, want, rec.Body.String())
	}
}

func wantErrorCode(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	wantStatus(t, rec, status)
	body := decode[errorBody](t, rec)
	if body.Code != code {
		t.Errorf("error code = %q, want %q", body.Code, code)
	}
}

func TestHealthEndpoints(t *testing.T) {
	s := newTestServer(t)
	wantStatus(t, do(t, s, http.MethodGet, "/healthz", "", nil), http.StatusOK)
	wantStatus(t, do(t, s, http.MethodGet, "/readyz", "", nil), http.StatusOK)
}

func TestDonateEndpoint(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/donate", testDonor, donateRequest{AmountMicros: 1_000_000})
	wantStatus(t, rec, http.StatusCreated)
	resp := decode[donorResponse](t, rec)
	if resp.Identity != testDonor || resp.TotalDonatedMicros != 1_000_000 {
		t.Errorf("response = %+v", resp)
	}

	rec = do(t, s, http.MethodGet, "/balance", "", nil)
	wantStatus(t, rec, http.StatusOK)
	if b := decode[balanceResponse](t, rec); b.BalanceMicros != 1_000_000 {
		t.Errorf("balance = %d, want 1000000", b.BalanceMicros)
	}
}

func TestDonateDecimalAmount(t *testing.T) {
	s := newTestServer(t)
	rec := do(t, s, http.MethodPost, "/donate", testDonor, donateRequest{Amount: "2.5"})
	wantStatus(t, rec, http.StatusCreated)
	if resp := decode[donorResponse](t, rec); resp.TotalDonatedMicros != 2_500_000 {
		t.Errorf("total = %d, want 2500000", resp.TotalDonatedMicros)
	}
}

func TestDonateFailures(t *testing.T) {
	s := newTestServer(t)

	t.Run("below minimum", func(t *testing.T) {
		rec := do(t, s, http.MethodPost, "/donate", testDonor, donateRequest{AmountMicros: 50_000})
		wantErrorCode(t, rec, http.StatusUnprocessableEntity, core.CodeBelowMinimum)
	})

	t.Run("missing caller", func(t *testing.T) {
		rec := do(t, s, http.MethodPost, "/donate", "", donateRequest{AmountMicros: 1_000_000})
		wantErrorCode(t, rec, http.StatusUnprocessableEntity, core.CodeInvalidInput)
	})

	t.Run("negative amount", func(t *testing.T) {
		rec := do(t, s, http.MethodPost, "/donate", testDonor, donateRequest{AmountMicros: -5})
		wantErrorCode(t, rec, http.StatusUnprocessableEntity, core.CodeInvalidAmount)
	})

	t.Run("no amount", func(t *testing.T) {
		rec := do(t, s, http.MethodPost, "/donate", testDonor, donateRequest{})
		wantErrorCode(t, rec, http.StatusUnprocessableEntity, core.CodeInvalidAmount)
	})

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/donate", bytes.NewBufferString("{nope"))
		req.Header.Set(CallerHeader, testDonor)
		rec := httptest.NewRecorder()
		s.Handler.ServeHTTP(rec, req)
		wantStatus(t, rec, http.StatusBadRequest)
	})
}

func TestCategoryEndpoints(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/categories", testOwner, categoryRequest{Name: "Events"})
	wantStatus(t, rec, http.StatusCreated)
	cat := decode[categoryResponse](t, rec)
	if cat.Name != "Events" || !cat.Active || cat.SpentMicros != 0 {
		t.Errorf("category = %+v", cat)
	}

	t.Run("duplicate", func(t *testing.T) {
		rec := do(t, s, http.MethodPost, "/categories", testOwner, categoryRequest{Name: "Events"})
		wantErrorCode(t, rec, http.StatusConflict, core.CodeAlreadyExists)
	})

	t.Run("non-owner", func(t *testing.T) {
		rec := do(t, s, http.MethodPost, "/categories", testDonor, categoryRequest{Name: "Travel"})
		wantErrorCode(t, rec, http.StatusForbidden, core.CodeNotAuthorized)
	})

	t.Run("get", func(t *testing.T) {
		rec := do(t, s, http.MethodGet, "/categories/Events", "", nil)
		wantStatus(t, rec, http.StatusOK)
		if got := decode[categoryResponse](t, rec); got.Name != "Events" {
			t.Errorf("category = %+v", got)
		}
	})

	t.Run("get unknown", func(t *testing.T) {
		rec := do(t, s, http.MethodGet, "/categories/Ghost", "", nil)
		wantErrorCode(t, rec, http.StatusNotFound, core.CodeNotFound)
	})
}

func TestExpenditureWorkflow(t *testing.T) {
	s := newTestServer(t)

	wantStatus(t, do(t, s, http.MethodPost, "/categories", testOwner, categoryRequest{Name: "Events"}), http.StatusCreated)
	wantStatus(t, do(t, s, http.MethodPost, "/donate", testDonor, donateRequest{AmountMicros: 5_000_000}), http.StatusCreated)

	rec := do(t, s, http.MethodPost, "/expenditures", testOwner, proposeRequest{
		AmountMicros: 1_000_000,
		Category:     "Events",
		Recipient:    testPayee,
		Memo:         "Campaign Rally Venue",
	})
	wantStatus(t, rec, http.StatusCreated)
	id := decode[proposeResponse](t, rec).ID
	if id != 0 {
		t.Errorf("first expenditure id = %d, want 0", id)
	}

	rec = do(t, s, http.MethodGet, "/expenditures/0", "", nil)
	wantStatus(t, rec, http.StatusOK)
	exp := decode[expenditureResponse](t, rec)
	if exp.Approved {
		t.Error("proposed expenditure must not be approved")
	}

	rec = do(t, s, http.MethodPost, "/expenditures/0/approve", testOwner, nil)
	wantStatus(t, rec, http.StatusOK)
	exp = decode[expenditureResponse](t, rec)
	if !exp.Approved {
		t.Error("approval response should carry approved=true")
	}

	rec = do(t, s, http.MethodGet, "/balance", "", nil)
	wantStatus(t, rec, http.StatusOK)
	if b := decode[balanceResponse](t, rec); b.BalanceMicros != 4_000_000 {
		t.Errorf("balance = %d, want 4000000", b.BalanceMicros)
	}

	rec = do(t, s, http.MethodGet, "/categories/Events", "", nil)
	wantStatus(t, rec, http.StatusOK)
	if cat := decode[categoryResponse](t, rec); cat.SpentMicros != 1_000_000 {
		t.Errorf("spent = %d, want 1000000", cat.SpentMicros)
	}
}

func TestExpenditureFailures(t *testing.T) {
	s := newTestServer(t)

	wantStatus(t, do(t, s, http.MethodPost, "/categories", testOwner, categoryRequest{Name: "Events"}), http.StatusCreated)
	wantStatus(t, do(t, s, http.MethodPost, "/donate", testDonor, donateRequest{AmountMicros: 2_000_000}), http.StatusCreated)

	propose := proposeRequest{AmountMicros: 1_000_000, Category: "Events", Recipient: testPayee}

	t.Run("unknown category", func(t *testing.T) {
		bad := propose
		bad.Category = "Ghost"
		rec := do(t, s, http.MethodPost, "/expenditures", testOwner, bad)
		wantErrorCode(t, rec, http.StatusUnprocessableEntity, core.CodeUnknownCategory)
	})

	t.Run("non-owner propose", func(t *testing.T) {
		rec := do(t, s, http.MethodPost, "/expenditures", testDonor, propose)
		wantErrorCode(t, rec, http.StatusForbidden, core.CodeNotAuthorized)
	})

	wantStatus(t, do(t, s, http.MethodPost, "/expenditures", testOwner, propose), http.StatusCreated)

	t.Run("non-owner approve", func(t *testing.T) {
		rec := do(t, s, http.MethodPost, "/expenditures/0/approve", testDonor, nil)
		wantErrorCode(t, rec, http.StatusForbidden, core.CodeNotAuthorized)
	})

	t.Run("approve unknown id", func(t *testing.T) {
		rec := do(t, s, http.MethodPost, "/expenditures/99/approve", testOwner, nil)
		wantErrorCode(t, rec, http.StatusNotFound, core.CodeNotFound)
	})

	t.Run("bad id segment", func(t *testing.T) {
		rec := do(t, s, http.MethodPost, "/expenditures/abc/approve", testOwner, nil)
		wantStatus(t, rec, http.StatusBadRequest)
	})

	wantStatus(t, do(t, s, http.MethodPost, "/expenditures/0/approve", testOwner, nil), http.StatusOK)

	t.Run("double approve", func(t *testing.T) {
		rec := do(t, s, http.MethodPost, "/expenditures/0/approve", testOwner, nil)
		wantErrorCode(t, rec, http.StatusConflict, core.CodeAlreadyApproved)
	})

	t.Run("insufficient funds", func(t *testing.T) {
		big := propose
		big.AmountMicros = 9_000_000
		rec := do(t, s, http.MethodPost, "/expenditures", testOwner, big)
		wantStatus(t, rec, http.StatusCreated)
		id := decode[proposeResponse](t, rec).ID

		rec = do(t, s, http.MethodPost, "/expenditures/"+strconv.FormatInt(id, 10)+"/approve", testOwner, nil)
		wantErrorCode(t, rec, http.StatusConflict, core.CodeInsufficientFunds)
	})
}

func TestDonorEndpoint(t *testing.T) {
	s := newTestServer(t)
	wantStatus(t, do(t, s, http.MethodPost, "/donate", testDonor, donateRequest{AmountMicros: 1_500_000}), http.StatusCreated)

	rec := do(t, s, http.MethodGet, "/donors/"+testDonor, "", nil)
	wantStatus(t, rec, http.StatusOK)
	if d := decode[donorResponse](t, rec); d.TotalDonatedMicros != 1_500_000 {
		t.Errorf("donor total = %d, want 1500000", d.TotalDonatedMicros)
	}

	// Identities that never donated read as zero rather than 404
	rec = do(t, s, http.MethodGet, "/donors/"+testPayee, "", nil)
	wantStatus(t, rec, http.StatusOK)
	if d := decode[donorResponse](t, rec); d.TotalDonatedMicros != 0 {
		t.Errorf("unknown donor total = %d, want 0", d.TotalDonatedMicros)
	}
}

func TestSecurityHeaders(t *testing.T) {
	s := newTestServer(t)
	rec := do(t, s, http.MethodGet, "/balance", "", nil)
	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q, want nosniff", got)
	}
	if got := rec.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Errorf("X-Frame-Options = %q, want DENY", got)
	}
}

