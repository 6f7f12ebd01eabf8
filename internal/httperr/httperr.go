package httperr

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type HTTPError struct {
	Code    string `json:"error_code"`
	Message string `json:"message"`
}

func Write(c *gin.Context, status int, code, message string) {
	c.JSON(status, HTTPError{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func NotFound(c *gin.Context, code, message string) {
	Write(c, http.StatusNotFound, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}

// Respond traduz o erro de um use case para a resposta HTTP.
// Erros fora de BusinessError são falhas de dependência (500).
func Respond(c *gin.Context, err error) {
	var be BusinessError
	if !errors.As(err, &be) {
		_ = c.Error(err)
		Internal(c, "internal_error", "Erro interno, tente novamente mais tarde.")
		return
	}

	switch be.Kind {
	case KindUnauthorized:
		Unauthorized(c, be.Code, be.Message)
	case KindNotFound:
		NotFound(c, be.Code, be.Message)
	default:
		BadRequest(c, be.Code, be.Message)
	}
}
