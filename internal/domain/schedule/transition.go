package schedule

import (
	"fmt"

	"github.com/BruksfildServices01/home-scheduler/internal/httperr"
)

// ===============================
// Transitions
// ===============================

type Kind string

const (
	KindConfirm Kind = "confirm"
	KindStart   Kind = "start"
	KindPause   Kind = "pause"
	KindRestart Kind = "restart"
	KindFinish  Kind = "finish"
	KindCancel  Kind = "cancel"
)

type Transition struct {
	Kind Kind
	From []Status
	To   Status
}

var transitions = map[Kind]Transition{
	KindConfirm: {
		Kind: KindConfirm,
		From: []Status{StatusAwaitingConfirmation},
		To:   StatusScheduled,
	},
	KindStart: {
		Kind: KindStart,
		From: []Status{StatusScheduled},
		To:   StatusInProgress,
	},
	KindPause: {
		Kind: KindPause,
		From: []Status{StatusInProgress},
		To:   StatusPaused,
	},
	KindRestart: {
		Kind: KindRestart,
		From: []Status{StatusPaused},
		To:   StatusInProgress,
	},
	KindFinish: {
		Kind: KindFinish,
		From: []Status{StatusInProgress},
		To:   StatusCompleted,
	},
	KindCancel: {
		Kind: KindCancel,
		From: []Status{
			StatusAwaitingConfirmation,
			StatusScheduled,
			StatusInProgress,
			StatusPaused,
		},
		To: StatusCancelled,
	},
}

func Lookup(kind Kind) (Transition, error) {
	tr, ok := transitions[kind]
	if !ok {
		return Transition{}, fmt.Errorf("unknown transition %q", kind)
	}
	return tr, nil
}

func ParseKind(raw string) (Kind, error) {
	k := Kind(raw)
	if _, ok := transitions[k]; !ok {
		return "", httperr.ErrValidation("invalid_transition", "Operação inválida.")
	}
	return k, nil
}

func (t Transition) Allows(current Status) bool {
	for _, s := range t.From {
		if s == current {
			return true
		}
	}
	return false
}

// Check valida o status atual antes de qualquer escrita
func (t Transition) Check(current Status) error {
	if !t.Allows(current) {
		return ErrInvalidState(t.Kind, current)
	}
	return nil
}

func ErrInvalidState(kind Kind, current Status) error {
	return httperr.ErrBusiness(
		"invalid_state",
		fmt.Sprintf("Agendamento com status %s não permite a operação %s.", current, kind),
	)
}
