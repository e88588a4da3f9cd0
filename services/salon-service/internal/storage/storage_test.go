package storage

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/salonflow/salonflow/services/salon-service/internal/apperr"
	"github.com/salonflow/salonflow/services/salon-service/internal/model"
)

func TestTranslate(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		kind    apperr.Kind
		message string
	}{
		{"exclusion", &pgconn.PgError{Code: "23P01"}, apperr.KindConflict, "employee has a conflicting appointment"},
		{"shift unique", &pgconn.PgError{Code: "23505", ConstraintName: constraintShiftPerDay}, apperr.KindConflict, "employee already has a shift assignment for this date"},
		{"other unique", &pgconn.PgError{Code: "23505", ConstraintName: "outbox_events_event_id_key"}, apperr.KindConflict, "record already exists"},
		{"serialization", fmt.Errorf("commit tx: %w", &pgconn.PgError{Code: "40001"}), apperr.KindConflict, "concurrent update, retry"},
		{"foreign key", &pgconn.PgError{Code: "23503"}, apperr.KindValidation, "referenced record does not exist"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := translate(tc.err)
			var ae *apperr.Error
			if !errors.As(err, &ae) {
				t.Fatalf("expected apperr.Error, got %T", err)
			}
			if ae.Kind != tc.kind || ae.Message != tc.message {
				t.Fatalf("got %s %q", ae.Kind, ae.Message)
			}
		})
	}
}

func TestTranslatePassThrough(t *testing.T) {
	if translate(nil) != nil {
		t.Fatal("nil must stay nil")
	}
	if !errors.Is(translate(pgx.ErrNoRows), model.ErrNotFound) {
		t.Fatal("no rows must become ErrNotFound")
	}
	other := errors.New("connection reset")
	if translate(other) != other {
		t.Fatal("unknown errors must pass through")
	}
	kept := apperr.Validation("bad input")
	if translate(kept) != error(kept) {
		t.Fatal("apperr errors must pass through")
	}
}

func TestPredicates(t *testing.T) {
	if !IsConflict(&pgconn.PgError{Code: "23P01"}) || IsConflict(&pgconn.PgError{Code: "23505"}) {
		t.Fatal("IsConflict")
	}
	if !IsUniqueViolation(&pgconn.PgError{Code: "23505"}) {
		t.Fatal("IsUniqueViolation")
	}
	if !IsSerializationFailure(fmt.Errorf("wrapped: %w", &pgconn.PgError{Code: "40001"})) {
		t.Fatal("IsSerializationFailure")
	}
	if !IsNotFound(fmt.Errorf("wrapped: %w", pgx.ErrNoRows)) {
		t.Fatal("IsNotFound")
	}
}

func TestFilterNumbersPlaceholders(t *testing.T) {
	var f filter
	if f.where() != "" {
		t.Fatalf("empty filter: %q", f.where())
	}
	f.add("a.branch_id = ?", int64(1))
	f.add("a.appointment_date = ?::date", "2025-06-01")
	want := "WHERE a.branch_id = $1 AND a.appointment_date = $2::date"
	if got := f.where(); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
	if len(f.args) != 2 {
		t.Fatalf("args: %v", f.args)
	}
}

func TestMigrationsEmbedded(t *testing.T) {
	list, err := migrations()
	if err != nil {
		t.Fatal(err)
	}
	if len(list) == 0 {
		t.Fatal("no migrations embedded")
	}
	versions := make([]string, len(list))
	var all strings.Builder
	for i, m := range list {
		versions[i] = m.Version
		all.WriteString(m.SQL)
	}
	if !sort.StringsAreSorted(versions) {
		t.Fatalf("migrations out of order: %v", versions)
	}
	for _, want := range []string{"appointments_no_overlap", constraintShiftPerDay, "outbox_events", "btree_gist"} {
		if !strings.Contains(all.String(), want) {
			t.Fatalf("schema is missing %s", want)
		}
	}
	for _, st := range model.BlockingStatuses {
		if !strings.Contains(all.String(), "'"+string(st)+"'") {
			t.Fatalf("exclusion constraint does not cover blocking status %s", st)
		}
	}
}
