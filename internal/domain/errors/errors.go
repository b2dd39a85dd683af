package errors

import "errors"

// Erros de autorização
// Nota: Estes são códigos de erro (message IDs para i18n).
// As traduções estão em internal/infrastructure/i18n/locales/*.json
var (
	ErrUnauthenticated = errors.New("error.unauthenticated")
	ErrForbidden       = errors.New("error.forbidden")
	ErrNoPharmacy      = errors.New("error.no_pharmacy")
)

// Erros de configuração da tabela de permissões
var (
	ErrInvalidPermissionTable = errors.New("error.invalid_permission_table")
	ErrMalformedPattern       = errors.New("error.malformed_pattern")
)

// ProblemType define tipos de problemas (URIs RFC 7807)
// Nota: O domínio base vem de configuração (API_BASE_URL)
const (
	ProblemTypeValidation   = "/problems/validation-error"
	ProblemTypeNotFound     = "/problems/not-found"
	ProblemTypeUnauthorized = "/problems/unauthorized"
	ProblemTypeForbidden    = "/problems/forbidden"
	ProblemTypeInternal     = "/problems/internal-error"
	ProblemTypeBadRequest   = "/problems/bad-request"
)

// DomainError representa um erro de domínio com contexto adicional
type DomainError struct {
	Type    string
	Title   string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}
