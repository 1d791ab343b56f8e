// Package ledger owns the authoritative in-memory entry lists, one per
// project. All mutation funnels through Append, Update and Remove; a Mirror
// collaborator receives the full list after each mutation so the entries
// survive restarts, but mirror failures never fail the mutation.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"sitebook/internal/core"
	applog "sitebook/internal/log"
)

var ErrEntryNotFound = errors.New("entry not found")

// Mirror persists a project's full entry list. Implementations must treat
// the slice as read-only.
type Mirror interface {
	SaveEntries(ctx context.Context, projectID string, entries []core.LedgerEntry) error
}

// EntryPatch carries the fields an update may rewrite. Nil pointers leave
// the current value untouched. Balance is always recomputed from the
// resulting amount and paid values.
type EntryPatch struct {
	DRNo     *string
	Date     *string
	Amount   *core.Money
	Paid     *core.Money
	Unit     *string
	Quantity *float64
	Received *core.Money
	Consumed *core.Money
	Remarks  *string
}

type Store struct {
	mu      sync.Mutex
	entries map[string][]core.LedgerEntry // project ID -> append-ordered list
	mirror  Mirror
}

func NewStore(mirror Mirror) *Store {
	return &Store{
		entries: make(map[string][]core.LedgerEntry),
		mirror:  mirror,
	}
}

// Load seeds a project's entry list, replacing whatever is held. Used at
// startup to restore the mirror's snapshot; does not write back.
func (s *Store) Load(projectID string, entries []core.LedgerEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[projectID] = append([]core.LedgerEntry(nil), entries...)
}

// Append validates and stores a new entry, assigning its identity and the
// next sequence number. Particulars trimming, the balance invariant
// (balance = amount - paid) and material-field normalization are applied
// here, once, at creation time.
func (s *Store) Append(ctx context.Context, projectID string, e core.LedgerEntry) (core.LedgerEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.entries[projectID]

	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	e.SequenceNo = formatSequence(len(list) + 1)
	e.Particulars = strings.TrimSpace(e.Particulars)
	if d, err := core.NormalizeDate(e.Date); err == nil {
		e.Date = d
	}
	e.Balance = core.Money{Paise: e.Amount.Paise - e.Paid.Paise}

	if err := e.Validate(); err != nil {
		return core.LedgerEntry{}, err
	}
	e = e.Normalize()

	s.entries[projectID] = append(list, e)
	s.mirrorLocked(ctx, projectID)

	fields := applog.NewFields().WithEntry(projectID, e.ID, e.Particulars, e.Amount.Paise)
	fields[applog.FieldSequenceNo] = e.SequenceNo
	slog.InfoContext(ctx, "Ledger entry appended", fields.ToSlice()...)

	return e, nil
}

// Entries returns a copy of the project's entry list in append order.
func (s *Store) Entries(projectID string) []core.LedgerEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.LedgerEntry(nil), s.entries[projectID]...)
}

// Particulars returns the distinct particular names known for a project,
// first-seen casing, sorted for stable output.
func (s *Store) Particulars(projectID string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]string)
	for _, e := range s.entries[projectID] {
		key := core.GroupKey(e.Particulars)
		if _, ok := seen[key]; !ok {
			seen[key] = strings.TrimSpace(e.Particulars)
		}
	}
	out := make([]string, 0, len(seen))
	for _, name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Update rewrites the entries whose normalized particulars match and
// returns how many were touched. The patch is applied and re-validated
// against every match before anything is written, so a bad patch leaves
// the list untouched.
func (s *Store) Update(ctx context.Context, projectID, particulars string, patch EntryPatch) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := core.GroupKey(particulars)
	list := s.entries[projectID]

	var updated []core.LedgerEntry
	var indexes []int
	for i, e := range list {
		if core.GroupKey(e.Particulars) != key {
			continue
		}
		next := applyPatch(e, patch)
		if err := next.Validate(); err != nil {
			return 0, fmt.Errorf("entry %s: %w", e.SequenceNo, err)
		}
		updated = append(updated, next.Normalize())
		indexes = append(indexes, i)
	}
	if len(indexes) == 0 {
		return 0, ErrEntryNotFound
	}

	for n, i := range indexes {
		list[i] = updated[n]
	}
	s.entries[projectID] = list
	s.mirrorLocked(ctx, projectID)

	slog.InfoContext(ctx, "Ledger entries updated",
		"project_id", projectID,
		"particulars", particulars,
		"count", len(indexes))

	return len(indexes), nil
}

// Remove deletes one entry by identity and re-sequences the remaining
// entries so sequence numbers stay contiguous from "01".
func (s *Store) Remove(ctx context.Context, projectID, entryID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.entries[projectID]
	idx := -1
	for i, e := range list {
		if e.ID == entryID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrEntryNotFound
	}

	list = append(list[:idx], list[idx+1:]...)
	for i := range list {
		list[i].SequenceNo = formatSequence(i + 1)
	}
	s.entries[projectID] = list
	s.mirrorLocked(ctx, projectID)

	slog.InfoContext(ctx, "Ledger entry removed",
		"project_id", projectID,
		"entry_id", entryID,
		"remaining", len(list))

	return nil
}

// Drop discards a project's entries entirely (project deletion).
func (s *Store) Drop(ctx context.Context, projectID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, projectID)
	s.mirrorLocked(ctx, projectID)
}

// mirrorLocked pushes the current list to the mirror. Persistence is
// fire-and-forget: a failure is logged and the in-memory state stays
// authoritative. Callers must hold s.mu.
func (s *Store) mirrorLocked(ctx context.Context, projectID string) {
	if s.mirror == nil {
		return
	}
	snapshot := append([]core.LedgerEntry(nil), s.entries[projectID]...)
	if err := s.mirror.SaveEntries(ctx, projectID, snapshot); err != nil {
		fields := applog.NewFields().WithError(err)
		fields[applog.FieldProjectID] = projectID
		fields["count"] = len(snapshot)
		slog.ErrorContext(ctx, "Failed to mirror ledger entries", fields.ToSlice()...)
	}
}

func applyPatch(e core.LedgerEntry, p EntryPatch) core.LedgerEntry {
	if p.DRNo != nil {
		e.DRNo = *p.DRNo
	}
	if p.Date != nil {
		if d, err := core.NormalizeDate(*p.Date); err == nil {
			e.Date = d
		} else {
			e.Date = *p.Date
		}
	}
	if p.Amount != nil {
		e.Amount = *p.Amount
	}
	if p.Paid != nil {
		e.Paid = *p.Paid
	}
	if p.Unit != nil {
		e.Unit = *p.Unit
	}
	if p.Quantity != nil {
		e.Quantity = *p.Quantity
	}
	if p.Received != nil {
		e.Received = *p.Received
	}
	if p.Consumed != nil {
		e.Consumed = *p.Consumed
	}
	if p.Remarks != nil {
		e.Remarks = *p.Remarks
	}
	e.Balance = core.Money{Paise: e.Amount.Paise - e.Paid.Paise}
	return e
}

func formatSequence(n int) string {
	return fmt.Sprintf("%02d", n)
}
