package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire and storage format for all calendar dates.
const DateLayout = "2006-01-02"

const (
	DrawingPending  DrawingStatus = "pending"
	DrawingApproved DrawingStatus = "approved"
	DrawingRejected DrawingStatus = "rejected"
)

type (
	DrawingStatus string

	Money struct {
		Paise int64
	}

	// LedgerEntry is one recorded transaction of a project's daily report:
	// an expense, a payment, or a material movement. Entries are immutable
	// once appended; edits go through the store's update path.
	LedgerEntry struct {
		ID          string
		SequenceNo  string // ordinal position, zero-padded ("01", "02", ...)
		DRNo        string // delivery receipt / document reference, may be empty
		Particulars string
		Date        string // YYYY-MM-DD
		Amount      Money
		Paid        Money
		Balance     Money // always Amount - Paid at creation time
		Unit        string
		Quantity    float64
		Received    Money
		Consumed    Money
		Remarks     string
	}

	Project struct {
		ID        string
		Name      string
		Client    string
		Location  string
		Budget    Money
		StartDate string // YYYY-MM-DD
	}

	Client struct {
		ID    string
		Name  string
		Phone string
		Email string
	}

	LabourBill struct {
		ID          string
		ProjectID   string
		Contractor  string
		Description string
		Date        string // YYYY-MM-DD
		Amount      Money
		Paid        Money
	}

	ClientPayment struct {
		ID        string
		ProjectID string
		Date      string // YYYY-MM-DD
		Amount    Money
		Mode      string // cash, cheque, transfer, ...
		Reference string
		Remarks   string
	}

	Drawing struct {
		ID          string
		ProjectID   string
		Title       string
		SheetNo     string
		Status      DrawingStatus
		SubmittedOn string // YYYY-MM-DD
		DecidedOn   string // empty while pending
		Remarks     string
	}
)

var (
	ErrMissingParticulars   = errors.New("missing particulars")
	ErrMissingDate          = errors.New("missing date")
	ErrInvalidDate          = errors.New("invalid date")
	ErrInvalidAmount        = errors.New("invalid amount")
	ErrPaidExceedsAmount    = errors.New("paid exceeds amount")
	ErrMissingName          = errors.New("missing name")
	ErrDuplicateClient      = errors.New("client name already exists")
	ErrVerificationMismatch = errors.New("verification text does not match")
	ErrMissingRemarks       = errors.New("missing remarks")
	ErrDrawingDecided       = errors.New("drawing already decided")
)

// ParseDate parses a calendar date in the canonical YYYY-MM-DD layout.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}

// NormalizeDate trims and reformats a date string to the canonical layout.
func NormalizeDate(s string) (string, error) {
	t, err := ParseDate(s)
	if err != nil {
		return "", err
	}
	return t.Format(DateLayout), nil
}

// GroupKey returns the normalized grouping key for a particulars name.
// Grouping is case-insensitive: "Cement" and "cement" fold together.
func GroupKey(particulars string) string {
	return strings.ToLower(strings.TrimSpace(particulars))
}

func (m Money) Validate() error {
	if m.Paise <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Rupees returns the rupee value as a float64 for display purposes.
// Use paise for calculations to avoid floating-point precision issues.
func (m Money) Rupees() float64 {
	return float64(m.Paise) / 100.0
}

// Validate checks the required fields of a new ledger entry: particulars,
// a parseable date, and a positive amount. Paid may be zero but never
// exceeds Amount, and Balance must hold the creation-time invariant.
func (e LedgerEntry) Validate() error {
	if strings.TrimSpace(e.Particulars) == "" {
		return ErrMissingParticulars
	}
	if strings.TrimSpace(e.Date) == "" {
		return ErrMissingDate
	}
	if _, err := ParseDate(e.Date); err != nil {
		return err
	}
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if e.Paid.Paise < 0 {
		return ErrInvalidAmount
	}
	if e.Paid.Paise > e.Amount.Paise {
		return ErrPaidExceedsAmount
	}
	if e.Balance.Paise != e.Amount.Paise-e.Paid.Paise {
		return fmt.Errorf("balance must equal amount minus paid")
	}
	if e.Quantity < 0 {
		return fmt.Errorf("negative quantity")
	}
	return nil
}

// Normalize fills the material-flow fields from their monetary proxies
// when absent. This runs once at append time so consumers never need
// fallback chains.
func (e LedgerEntry) Normalize() LedgerEntry {
	if e.Received.Paise == 0 {
		e.Received = e.Amount
	}
	if e.Consumed.Paise == 0 {
		e.Consumed = e.Paid
	}
	return e
}

func (p Project) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrMissingName
	}
	if err := p.Budget.Validate(); err != nil {
		return err
	}
	if p.StartDate != "" {
		if _, err := ParseDate(p.StartDate); err != nil {
			return err
		}
	}
	return nil
}

func (c Client) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrMissingName
	}
	return nil
}

func (b LabourBill) Validate() error {
	if strings.TrimSpace(b.Contractor) == "" {
		return ErrMissingName
	}
	if strings.TrimSpace(b.Date) == "" {
		return ErrMissingDate
	}
	if _, err := ParseDate(b.Date); err != nil {
		return err
	}
	if err := b.Amount.Validate(); err != nil {
		return err
	}
	if b.Paid.Paise < 0 {
		return ErrInvalidAmount
	}
	if b.Paid.Paise > b.Amount.Paise {
		return ErrPaidExceedsAmount
	}
	return nil
}

// Outstanding returns the unpaid remainder of the bill.
func (b LabourBill) Outstanding() Money {
	return Money{Paise: b.Amount.Paise - b.Paid.Paise}
}

func (p ClientPayment) Validate() error {
	if strings.TrimSpace(p.Date) == "" {
		return ErrMissingDate
	}
	if _, err := ParseDate(p.Date); err != nil {
		return err
	}
	return p.Amount.Validate()
}

func (d Drawing) Validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return ErrMissingName
	}
	if d.SubmittedOn != "" {
		if _, err := ParseDate(d.SubmittedOn); err != nil {
			return err
		}
	}
	return nil
}

// IsValid reports whether the drawing status is one of the known states.
func (s DrawingStatus) IsValid() bool {
	switch s {
	case DrawingPending, DrawingApproved, DrawingRejected:
		return true
	default:
		return false
	}
}

func (s DrawingStatus) String() string {
	return string(s)
}
