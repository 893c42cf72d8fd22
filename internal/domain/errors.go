package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrDuplicate    = errors.New("recurso duplicado")
	ErrUnauthorized = errors.New("no autorizado")
	ErrForbidden    = errors.New("acceso denegado")
	ErrConflict     = errors.New("conflicto con el estado actual")

	// ErrInconsistentWithdrawal: una salida referencia un lote (estante, vencimiento)
	// inexistente o con cantidad insuficiente. Terminal: el caller debe conciliar
	// con una entrada correctiva, nunca se genera un lote negativo.
	ErrInconsistentWithdrawal = errors.New("retiro inconsistente: lote inexistente o insuficiente")

	// ErrSequenceConflict: dos creaciones concurrentes calcularon el mismo número
	// de documento. Reintentable bajo atomicidad renovada.
	ErrSequenceConflict = errors.New("conflicto de secuencia de numeración")

	// ErrLockTimeout: no se obtuvo el lock de la clave del ledger dentro del
	// plazo. Reintentable.
	ErrLockTimeout = errors.New("timeout esperando lock de clave")
)

// IsRetryable indica si el error es transitorio y la operación puede
// reintentarse tal cual (conflictos de secuencia y contención de locks).
func IsRetryable(err error) bool {
	return errors.Is(err, ErrSequenceConflict) || errors.Is(err, ErrLockTimeout)
}
