package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dukerupert/ghosthunt/internal/model"
)

func checkCode(t *testing.T, f *fixture, cookie *http.Cookie, code string) model.CheckCodeResponse {
	t.Helper()
	req := jsonRequest(t, http.MethodPost, "/check_code", model.CheckCodeRequest{Code: code})
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	f.code.Check(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", w.Code, w.Body.String())
	}
	var resp model.CheckCodeResponse
	decodeBody(t, w, &resp)
	return resp
}

func TestCheckCodeWithoutSession(t *testing.T) {
	f := newFixture(t)

	resp := checkCode(t, f, nil, "A1")
	if resp.Success {
		t.Error("expected rejection without a session")
	}
	if resp.Message == "" {
		t.Error("expected a rejection message")
	}
}

func TestCheckCodeAccepted(t *testing.T) {
	f := newFixture(t)
	cookie := loginAs(t, f, "Hong Gildong", "S001")

	resp := checkCode(t, f, cookie, "A1")
	if !resp.Success {
		t.Fatalf("expected accept, got %q", resp.Message)
	}
	if resp.Page != "boss_ghost.html" {
		t.Errorf("page = %q, want %q", resp.Page, "boss_ghost.html")
	}
}

func TestCheckCodeTrimsInput(t *testing.T) {
	f := newFixture(t)
	cookie := loginAs(t, f, "Hong Gildong", "S001")

	resp := checkCode(t, f, cookie, "  A1  ")
	if !resp.Success {
		t.Errorf("expected trimmed code to match, got %q", resp.Message)
	}
}

func TestCheckCodeClaimedByOther(t *testing.T) {
	f := newFixture(t)

	first := loginAs(t, f, "Hong Gildong", "S001")
	if resp := checkCode(t, f, first, "A1"); !resp.Success {
		t.Fatalf("first claim failed: %q", resp.Message)
	}

	second := loginAs(t, f, "Kim Yeonghee", "S002")
	resp := checkCode(t, f, second, "A1")
	if resp.Success {
		t.Error("expected rejection for a code claimed by another student")
	}
}

func TestCheckCodeUnknown(t *testing.T) {
	f := newFixture(t)
	cookie := loginAs(t, f, "Hong Gildong", "S001")

	resp := checkCode(t, f, cookie, "NOPE")
	if resp.Success {
		t.Error("expected rejection for unknown code")
	}
}

func TestCheckCodeExemptUnlimited(t *testing.T) {
	f := newFixture(t)
	cookie := loginAs(t, f, "Hong Gildong", "S001")

	for i := 0; i < 5; i++ {
		resp := checkCode(t, f, cookie, "FREE")
		if !resp.Success {
			t.Fatalf("exempt submit %d rejected: %q", i, resp.Message)
		}
	}

	n, err := f.ledger.CountAttempts("S001")
	if err != nil {
		t.Fatalf("count attempts: %v", err)
	}
	if n != 0 {
		t.Errorf("attempts = %d, want 0 for exempt code", n)
	}
}

func TestCheckCodeBadBody(t *testing.T) {
	f := newFixture(t)
	cookie := loginAs(t, f, "Hong Gildong", "S001")

	req := httptest.NewRequest(http.MethodPost, "/check_code", nil)
	req.AddCookie(cookie)
	w := httptest.NewRecorder()
	f.code.Check(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}
