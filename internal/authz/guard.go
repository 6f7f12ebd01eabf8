package authz

import (
	"github.com/BruksfildServices01/home-scheduler/internal/httperr"
	"github.com/BruksfildServices01/home-scheduler/internal/models"
)

// Caller é a identidade resolvida pelo middleware de autenticação
type Caller struct {
	UserID uint
	Role   models.Role
}

func (c Caller) IsAdmin() bool {
	return c.Role == models.RoleAdmin
}

type Operation string

const (
	OpConfirm    Operation = "confirm"
	OpStart      Operation = "start"
	OpPause      Operation = "pause"
	OpRestart    Operation = "restart"
	OpFinish     Operation = "finish"
	OpCancel     Operation = "cancel"
	OpReschedule Operation = "reschedule"
	OpEdit       Operation = "edit"
	OpDelete     Operation = "delete"
	OpListAll    Operation = "list_all"
	OpListUser   Operation = "list_user"
	OpListProv   Operation = "list_provider"
	OpCreateFor  Operation = "create_for_other"
	OpViewLogs   Operation = "view_logs"

	OpListProviders Operation = "list_providers"
	OpUpdateUser    Operation = "update_user"
)

// Actor descreve quem pode executar uma operação
type Actor int

const (
	ActorAdmin Actor = 1 << iota
	ActorAssignedProvider
	ActorRequester
	ActorSubject
)

var policy = map[Operation]Actor{
	OpConfirm:    ActorAdmin,
	OpStart:      ActorAdmin | ActorAssignedProvider,
	OpPause:      ActorAdmin | ActorAssignedProvider,
	OpRestart:    ActorAdmin | ActorAssignedProvider,
	OpFinish:     ActorAdmin | ActorAssignedProvider,
	OpCancel:     ActorAdmin | ActorAssignedProvider | ActorRequester,
	OpReschedule: ActorAdmin | ActorRequester,
	OpEdit:       ActorAdmin | ActorRequester,
	OpDelete:     ActorAdmin,
	OpListAll:    ActorAdmin,
	OpListUser:   ActorAdmin | ActorSubject,
	OpListProv:   ActorAdmin | ActorSubject,
	OpCreateFor:  ActorAdmin,
	OpViewLogs:   ActorAdmin,

	OpListProviders: ActorAdmin,
	OpUpdateUser:    ActorAdmin | ActorSubject,
}

var messages = map[Operation]string{
	OpConfirm:   "Apenas administradores podem confirmar agendamentos.",
	OpDelete:    "Apenas administradores podem excluir agendamentos.",
	OpListAll:   "Apenas administradores podem buscar agendamentos.",
	OpCreateFor: "Apenas administradores podem agendar para outro usuário.",
	OpViewLogs:  "Apenas administradores podem consultar o histórico.",

	OpListProviders: "Apenas administradores podem listar prestadores.",
}

// Target carrega as relações do recurso usadas pela política.
// SubjectID é o usuário dono da listagem (list_user / list_provider).
type Target struct {
	RequesterID uint
	ProviderID  *uint
	SubjectID   uint
}

func ForSchedule(s *models.Schedule) Target {
	if s == nil {
		return Target{}
	}
	return Target{RequesterID: s.UserID, ProviderID: s.ProviderID}
}

func ForSubject(userID uint) Target {
	return Target{SubjectID: userID}
}

type Guard struct{}

func NewGuard() *Guard {
	return &Guard{}
}

func (g *Guard) Allowed(caller Caller, op Operation, t Target) bool {
	allowed, ok := policy[op]
	if !ok || caller.UserID == 0 {
		return false
	}

	if allowed&ActorAdmin != 0 && caller.IsAdmin() {
		return true
	}
	if allowed&ActorAssignedProvider != 0 &&
		caller.Role == models.RoleProvider &&
		t.ProviderID != nil && *t.ProviderID == caller.UserID {
		return true
	}
	if allowed&ActorRequester != 0 && t.RequesterID != 0 && t.RequesterID == caller.UserID {
		return true
	}
	if allowed&ActorSubject != 0 && t.SubjectID != 0 && t.SubjectID == caller.UserID {
		return true
	}
	return false
}

func (g *Guard) Authorize(caller Caller, op Operation, t Target) error {
	if g.Allowed(caller, op, t) {
		return nil
	}

	msg, ok := messages[op]
	if !ok {
		msg = "Usuário sem permissão para esta operação."
	}
	return httperr.ErrUnauthorized("forbidden", msg)
}
