// Package redeem decides whether a submitted prize code is accepted and
// records the outcome.
package redeem

import (
	"log/slog"
	"sync"

	"github.com/dukerupert/ghosthunt/internal/catalog"
	"github.com/dukerupert/ghosthunt/internal/model"
	"github.com/dukerupert/ghosthunt/internal/store"
)

// maxAttempts caps recorded submissions per student across all codes.
const maxAttempts = 3

// Reason classifies a rejected submission. These are ordinary business
// outcomes, not server faults.
type Reason string

const (
	ReasonUnauthenticated    Reason = "unauthenticated"
	ReasonCatalogUnavailable Reason = "catalog_unavailable"
	ReasonUnknownCode        Reason = "unknown_code"
	ReasonAlreadyClaimed     Reason = "already_claimed"
	ReasonQuotaExceeded      Reason = "quota_exceeded"
)

// Message returns the user-facing text for the reason.
func (r Reason) Message() string {
	switch r {
	case ReasonUnauthenticated:
		return "Your session has expired. Please log in again."
	case ReasonCatalogUnavailable:
		return "Code data file is missing."
	case ReasonUnknownCode:
		return "This code does not exist."
	case ReasonAlreadyClaimed:
		return "This code has already been claimed."
	case ReasonQuotaExceeded:
		return "You can enter codes at most 3 times."
	}
	return ""
}

// Result is the outcome of one submission. Page is set only when accepted.
type Result struct {
	Accepted bool
	Page     string
	Reason   Reason
}

func reject(r Reason) Result {
	return Result{Reason: r}
}

// Engine applies the redemption rules in order: session, catalog lookup,
// exempt destination, claim uniqueness, quota, then record.
type Engine struct {
	catalog *catalog.Source
	ledger  *store.LedgerStore
	exempt  string
	logger  *slog.Logger

	// mu serializes the claim check against the ledger write so two
	// concurrent submissions of one code cannot both pass the uniqueness
	// check.
	mu sync.Mutex
}

// NewEngine creates an engine. exemptPage is the destination whose codes
// bypass the ledger entirely.
func NewEngine(cat *catalog.Source, ledger *store.LedgerStore, exemptPage string, logger *slog.Logger) *Engine {
	return &Engine{catalog: cat, ledger: ledger, exempt: exemptPage, logger: logger}
}

// Submit evaluates one code submission for the given session. A non-nil error
// means the store failed; every rule rejection comes back as a Result.
func (e *Engine) Submit(sess *model.Session, code string) (Result, error) {
	if sess == nil {
		return reject(ReasonUnauthenticated), nil
	}

	page, found, err := e.catalog.Lookup(code)
	if err != nil {
		e.logger.Warn("catalog unavailable", "error", err)
		return reject(ReasonCatalogUnavailable), nil
	}
	if !found {
		e.logger.Info("unknown code", "student_id", sess.StudentID, "code", code)
		return reject(ReasonUnknownCode), nil
	}

	// Codes pointing at the exempt page are unlimited: no attempt is logged,
	// no claim is made, and anyone may reuse them.
	if page == e.exempt {
		e.logger.Info("exempt code accepted", "student_id", sess.StudentID, "code", code)
		return Result{Accepted: true, Page: page}, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	claim, err := e.ledger.GetUsedCode(code)
	if err != nil {
		return Result{}, err
	}
	if claim != nil && claim.StudentID != sess.StudentID {
		e.logger.Info("code already claimed",
			"code", code,
			"owner", claim.StudentID,
			"student_id", sess.StudentID,
		)
		return reject(ReasonAlreadyClaimed), nil
	}

	count, err := e.ledger.CountAttempts(sess.StudentID)
	if err != nil {
		return Result{}, err
	}
	if count >= maxAttempts {
		e.logger.Info("attempt quota exceeded", "student_id", sess.StudentID, "count", count)
		return reject(ReasonQuotaExceeded), nil
	}

	if err := e.ledger.Record(sess.StudentID, sess.Name, code); err != nil {
		return Result{}, err
	}

	e.logger.Info("code accepted", "student_id", sess.StudentID, "code", code, "page", page)
	return Result{Accepted: true, Page: page}, nil
}
