package handlers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/BruksfildServices01/home-scheduler/internal/httperr"
)

// tags customizadas com mensagem própria; o resto cai em invalid_request
var bindingMessages = map[string]struct{ code, message string }{
	"schedulestatus": {"invalid_status", "Status inválido."},
	"date":           {"invalid_date", "Data inválida."},
	"clock":          {"invalid_time", "Hora inválida, use o formato HH:MM."},
	"required":       {"missing_field", "Campo obrigatório não informado."},
}

func respondBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		if m, ok := bindingMessages[fe.Tag()]; ok {
			httperr.BadRequest(c, m.code, m.message)
			return
		}
		httperr.BadRequest(c, "invalid_request", "Campo inválido: "+fe.Field()+".")
		return
	}
	httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return 0, false
	}
	return uint(id), true
}
