// Package pgerrors классифицирует ошибки PostgreSQL (lib/pq) и транспорта.
package pgerrors

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"net"
	"strings"

	"github.com/lib/pq"
)

// SQLSTATE коды, с которыми работает сервис
const (
	CodeUniqueViolation      = "23505"
	CodeExclusionViolation   = "23P01"
	CodeForeignKeyViolation  = "23503"
	CodeSerializationFailure = "40001"
	CodeDeadlockDetected     = "40P01"
	CodeQueryCanceled        = "57014"
	CodeAdminShutdown        = "57P01"
	CodeCannotConnectNow     = "57P03"
	CodeTooManyConnections   = "53300"

	// класс 08 - connection exception
	classConnectionException = "08"
)

// Code возвращает SQLSTATE ошибки или пустую строку
func Code(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}

// IsExclusionViolation нарушение EXCLUDE constraint (пересечение интервалов)
func IsExclusionViolation(err error) bool {
	return Code(err) == CodeExclusionViolation
}

// IsUniqueViolation нарушение уникальности
func IsUniqueViolation(err error) bool {
	return Code(err) == CodeUniqueViolation
}

// IsSerializationFailure конкурентная транзакция изменила прочитанные данные
func IsSerializationFailure(err error) bool {
	code := Code(err)
	return code == CodeSerializationFailure || code == CodeDeadlockDetected
}

// IsUnavailable хранилище недоступно: таймаут, потеря соединения, перегрузка.
// Такие ошибки можно повторить на стороне клиента.
func IsUnavailable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, sql.ErrConnDone) {
		return true
	}

	code := Code(err)
	if strings.HasPrefix(code, classConnectionException) {
		return true
	}
	switch code {
	case CodeQueryCanceled, CodeAdminShutdown, CodeCannotConnectNow, CodeTooManyConnections:
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}
