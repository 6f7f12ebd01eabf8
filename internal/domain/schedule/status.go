package schedule

import (
	"strings"

	"github.com/BruksfildServices01/home-scheduler/internal/httperr"
)

// ===============================
// Schedule Status
// ===============================

type Status string

const (
	StatusAwaitingConfirmation Status = "A_CONFIRMAR"
	StatusScheduled            Status = "AGENDADO"
	StatusInProgress           Status = "EM_ANDAMENTO"
	StatusPaused               Status = "PAUSADO"
	StatusCompleted            Status = "CONCLUIDO"
	StatusCancelled            Status = "CANCELADO"
)

var allStatuses = []Status{
	StatusAwaitingConfirmation,
	StatusScheduled,
	StatusInProgress,
	StatusPaused,
	StatusCompleted,
	StatusCancelled,
}

func (s Status) Valid() bool {
	for _, st := range allStatuses {
		if st == s {
			return true
		}
	}
	return false
}

// ParseStatus aceita somente os valores do enum (case-sensitive, como no banco)
func ParseStatus(raw string) (Status, error) {
	s := Status(strings.TrimSpace(raw))
	if !s.Valid() {
		return "", httperr.ErrValidation("invalid_status", "Status inválido.")
	}
	return s, nil
}

// Terminal indica que nenhuma transição parte deste status
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// InitialStatus é o status de todo agendamento solicitado por cliente
func InitialStatus() Status {
	return StatusAwaitingConfirmation
}

// ===============================
// Buckets (listagens)
// ===============================

type Bucket string

const (
	BucketAwaitingConfirmation Bucket = "a_confirmar"
	BucketScheduled            Bucket = "agendados"
	BucketOngoing              Bucket = "em_andamento"
	BucketCompleted            Bucket = "concluidos"
	BucketCancelled            Bucket = "cancelados"
)

var bucketStatuses = map[Bucket][]Status{
	BucketAwaitingConfirmation: {StatusAwaitingConfirmation},
	BucketScheduled:            {StatusScheduled},
	BucketOngoing:              {StatusInProgress, StatusPaused},
	BucketCompleted:            {StatusCompleted},
	BucketCancelled:            {StatusCancelled},
}

func ParseBucket(raw string) (Bucket, error) {
	b := Bucket(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := bucketStatuses[b]; !ok {
		return "", httperr.ErrValidation("invalid_bucket", "Grupo de status inválido.")
	}
	return b, nil
}

func (b Bucket) Statuses() []Status {
	return bucketStatuses[b]
}

func StatusStrings(statuses []Status) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}
