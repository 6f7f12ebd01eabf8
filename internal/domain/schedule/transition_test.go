package schedule

import (
	"testing"

	"github.com/BruksfildServices01/home-scheduler/internal/httperr"
)

func TestTransitionTable(t *testing.T) {
	cases := []struct {
		kind Kind
		from []Status
		to   Status
	}{
		{KindConfirm, []Status{StatusAwaitingConfirmation}, StatusScheduled},
		{KindStart, []Status{StatusScheduled}, StatusInProgress},
		{KindPause, []Status{StatusInProgress}, StatusPaused},
		{KindRestart, []Status{StatusPaused}, StatusInProgress},
		{KindFinish, []Status{StatusInProgress}, StatusCompleted},
		{KindCancel, []Status{StatusAwaitingConfirmation, StatusScheduled, StatusInProgress, StatusPaused}, StatusCancelled},
	}

	for _, tc := range cases {
		tr, err := Lookup(tc.kind)
		if err != nil {
			t.Fatalf("Lookup(%s) error: %v", tc.kind, err)
		}
		if tr.To != tc.to {
			t.Fatalf("%s: expected target %s, got %s", tc.kind, tc.to, tr.To)
		}

		allowed := map[Status]bool{}
		for _, s := range tc.from {
			allowed[s] = true
		}
		for _, s := range allStatuses {
			if got := tr.Allows(s); got != allowed[s] {
				t.Fatalf("%s from %s: expected allowed=%v, got %v", tc.kind, s, allowed[s], got)
			}
		}
	}
}

func TestCancelNeverFromTerminal(t *testing.T) {
	tr, _ := Lookup(KindCancel)
	for _, s := range allStatuses {
		if s.Terminal() && tr.Allows(s) {
			t.Fatalf("cancel must not be allowed from %s", s)
		}
		if !s.Terminal() && !tr.Allows(s) {
			t.Fatalf("cancel must be allowed from %s", s)
		}
	}
}

func TestCheckReturnsPreconditionError(t *testing.T) {
	tr, _ := Lookup(KindFinish)

	if err := tr.Check(StatusInProgress); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err := tr.Check(StatusPaused)
	if err == nil {
		t.Fatalf("expected finish from PAUSADO to fail")
	}
	if !httperr.IsBusiness(err, "invalid_state") {
		t.Fatalf("expected invalid_state, got %v", err)
	}
	if kind, _ := httperr.KindOf(err); kind != httperr.KindPrecondition {
		t.Fatalf("expected precondition kind, got %v", kind)
	}
}

func TestParseKind(t *testing.T) {
	if _, err := ParseKind("confirm"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := ParseKind("reopen"); err == nil {
		t.Fatalf("expected unknown transition to fail")
	}
	if _, err := Lookup(Kind("reopen")); err == nil {
		t.Fatalf("expected Lookup of unknown kind to fail")
	}
}
