package httperr

import "errors"

type Kind int

const (
	KindPrecondition Kind = iota
	KindValidation
	KindUnauthorized
	KindNotFound
)

type BusinessError struct {
	Kind    Kind
	Code    string
	Message string
}

func (e BusinessError) Error() string {
	return e.Code
}

// ErrBusiness cria um erro de regra de negócio (estado inválido etc.)
func ErrBusiness(code, message string) error {
	return BusinessError{Kind: KindPrecondition, Code: code, Message: message}
}

func ErrValidation(code, message string) error {
	return BusinessError{Kind: KindValidation, Code: code, Message: message}
}

func ErrUnauthorized(code, message string) error {
	return BusinessError{Kind: KindUnauthorized, Code: code, Message: message}
}

func ErrNotFound(code, message string) error {
	return BusinessError{Kind: KindNotFound, Code: code, Message: message}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

func KindOf(err error) (Kind, bool) {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Kind, true
	}
	return 0, false
}
