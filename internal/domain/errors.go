package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound           = errors.New("resource not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrDuplicateNumber = errors.New("document number already in use")
	ErrDateOrder       = errors.New("bill date breaks serial order")
	ErrMissingParty    = errors.New("party is required")
	ErrExcessPayment   = errors.New("payment exceeds bill outstanding")
	ErrBillReferenced  = errors.New("bill is referenced by payments")
	ErrPartyReferenced = errors.New("party is referenced by bills")
	ErrStaleSnapshot   = errors.New("snapshot is stale, retry with fresh data")
	ErrAdvanceConsumed = errors.New("payment advance credit already consumed")
	ErrDuplicateGSTIN  = errors.New("gstin already registered for another party")
	ErrInvalidGSTIN    = errors.New("gstin format is invalid")
)

// DuplicateNumberError reports a document number collision, naming the
// document that already owns the number. The scan is cross-type: a sales
// invoice and a purchase bill cannot share a number.
type DuplicateNumberError struct {
	Number    string
	OwnerType BillType
	OwnerID   uuid.UUID
}

func (e *DuplicateNumberError) Error() string {
	return fmt.Sprintf("number %q already used by %s %s", e.Number, e.OwnerType, e.OwnerID)
}

func (e *DuplicateNumberError) Is(target error) bool { return target == ErrDuplicateNumber }

// DateOrderError reports a bill date falling outside the dates of its serial
// neighbors within the financial year.
type DateOrderError struct {
	Number         string
	Date           time.Time
	NeighborNumber string
	NeighborDate   time.Time
	// Position is "before" when the date precedes the lower-serial neighbor,
	// "after" when it follows the higher-serial neighbor.
	Position string
}

func (e *DateOrderError) Error() string {
	return fmt.Sprintf("date %s of %s falls %s neighbor %s dated %s",
		e.Date.Format("2006-01-02"), e.Number, e.Position,
		e.NeighborNumber, e.NeighborDate.Format("2006-01-02"))
}

func (e *DateOrderError) Is(target error) bool { return target == ErrDateOrder }

// ExcessPaymentError reports a targeted payment larger than the bill's
// outstanding balance after available advance credit is consumed.
type ExcessPaymentError struct {
	BillID      uuid.UUID
	BillNumber  string
	Outstanding string
	Attempted   string
}

func (e *ExcessPaymentError) Error() string {
	return fmt.Sprintf("payment %s exceeds outstanding %s on bill %s",
		e.Attempted, e.Outstanding, e.BillNumber)
}

func (e *ExcessPaymentError) Is(target error) bool { return target == ErrExcessPayment }

// ConsistencyWarning flags data that violates a ledger invariant without
// blocking the computation that detected it. Reports surface these rather
// than clamping the bad value away.
type ConsistencyWarning struct {
	Kind    string
	Message string
}

func (w ConsistencyWarning) String() string {
	return fmt.Sprintf("%s: %s", w.Kind, w.Message)
}

const (
	WarnNegativeOutstanding   = "negative_outstanding"
	WarnCompositionDivergence = "composition_summary_divergence"
)
