package handler

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/dukerupert/ghosthunt/internal/catalog"
	"github.com/dukerupert/ghosthunt/internal/database"
	"github.com/dukerupert/ghosthunt/internal/model"
	"github.com/dukerupert/ghosthunt/internal/redeem"
	"github.com/dukerupert/ghosthunt/internal/roster"
	"github.com/dukerupert/ghosthunt/internal/store"
)

// fixture wires real stores and spreadsheet files for handler tests.
type fixture struct {
	db       *sql.DB
	members  *store.MemberStore
	sessions *store.SessionStore
	ledger   *store.LedgerStore
	auth     *AuthHandler
	code     *CodeHandler
	admin    *AdminHandler
	dir      string
}

func writeSheet(t *testing.T, path string, rows [][]any) {
	t.Helper()
	f := excelize.NewFile()
	for i, row := range rows {
		if err := f.SetSheetRow("Sheet1", fmt.Sprintf("A%d", i+1), &row); err != nil {
			t.Fatalf("set row %d: %v", i+1, err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save %s: %v", path, err)
	}
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	dir := t.TempDir()
	writeSheet(t, filepath.Join(dir, "members.xlsx"), [][]any{
		{"name", "student_id"},
		{"Hong Gildong", "S001"},
		{"Kim Yeonghee", "S002"},
	})
	writeSheet(t, filepath.Join(dir, "codes.xlsx"), [][]any{
		{"code", "page"},
		{"A1", "boss_ghost.html"},
		{"A2", "baby_ghost.html"},
		{"FREE", "fake_ghost.html"},
	})

	logger := slog.New(slog.DiscardHandler)

	members := store.NewMemberStore(db)
	sessions := store.NewSessionStore(db)
	ledger := store.NewLedgerStore(db)
	src := catalog.NewSource(filepath.Join(dir, "codes.xlsx"))
	syncer := roster.NewSyncer(filepath.Join(dir, "members.xlsx"), members, logger)
	engine := redeem.NewEngine(src, ledger, "fake_ghost.html", logger)

	if _, err := syncer.Reload(); err != nil {
		t.Fatalf("load roster: %v", err)
	}

	return &fixture{
		db:       db,
		members:  members,
		sessions: sessions,
		ledger:   ledger,
		auth:     NewAuthHandler(members, sessions, logger),
		code:     NewCodeHandler(engine, sessions, logger),
		admin:    NewAdminHandler(ledger, src, syncer, logger),
		dir:      dir,
	}
}

func jsonRequest(t *testing.T, method, path string, body any) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(dst); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

// loginAs runs a real login and returns the session cookie.
func loginAs(t *testing.T, f *fixture, name, sid string) *http.Cookie {
	t.Helper()
	req := jsonRequest(t, http.MethodPost, "/login", model.LoginRequest{Name: name, StudentID: sid})
	w := httptest.NewRecorder()
	f.auth.Login(w, req)

	var resp model.StatusResponse
	decodeBody(t, w, &resp)
	if !resp.Success {
		t.Fatalf("login failed: %s", resp.Message)
	}
	for _, c := range w.Result().Cookies() {
		if c.Name == sessionCookieName {
			return c
		}
	}
	t.Fatal("no session cookie set")
	return nil
}

func writeStaticFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}
