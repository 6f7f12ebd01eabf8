package schedule

import (
	"reflect"
	"testing"

	"github.com/BruksfildServices01/home-scheduler/internal/httperr"
)

func TestParseStatus(t *testing.T) {
	for _, s := range allStatuses {
		got, err := ParseStatus(string(s))
		if err != nil || got != s {
			t.Fatalf("ParseStatus(%s) = %s, %v", s, got, err)
		}
	}

	for _, raw := range []string{"", "agendado", "DONE", "CONCLUÍDO"} {
		_, err := ParseStatus(raw)
		if err == nil {
			t.Fatalf("expected %q to be rejected", raw)
		}
		if kind, _ := httperr.KindOf(err); kind != httperr.KindValidation {
			t.Fatalf("expected validation kind for %q, got %v", raw, kind)
		}
	}
}

func TestInitialAndTerminal(t *testing.T) {
	if InitialStatus() != StatusAwaitingConfirmation {
		t.Fatalf("unexpected initial status %s", InitialStatus())
	}

	terminal := map[Status]bool{StatusCompleted: true, StatusCancelled: true}
	for _, s := range allStatuses {
		if s.Terminal() != terminal[s] {
			t.Fatalf("%s: expected terminal=%v", s, terminal[s])
		}
	}
}

func TestBuckets(t *testing.T) {
	cases := map[string][]Status{
		"a_confirmar":  {StatusAwaitingConfirmation},
		"agendados":    {StatusScheduled},
		"EM_ANDAMENTO": {StatusInProgress, StatusPaused},
		"concluidos":   {StatusCompleted},
		" cancelados ": {StatusCancelled},
	}

	for raw, want := range cases {
		b, err := ParseBucket(raw)
		if err != nil {
			t.Fatalf("ParseBucket(%q) error: %v", raw, err)
		}
		if !reflect.DeepEqual(b.Statuses(), want) {
			t.Fatalf("bucket %q: expected %v, got %v", raw, want, b.Statuses())
		}
	}

	if _, err := ParseBucket("pausados"); err == nil {
		t.Fatalf("expected unknown bucket to fail")
	}
}
