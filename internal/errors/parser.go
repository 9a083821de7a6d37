package errors

import (
	"errors"
	"strings"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// ErrorInfo is the client facing classification of an error.
type ErrorInfo struct {
	Code    string // error code (see codes.go)
	Message string // safe to show to the client
}

const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
	pqNotNullViolation    = "23502"
	pqStringTooLong       = "22001"
)

// ParseError classifies a database or service error without leaking driver details.
// context names the resource involved ("application", "file") and is used in messages.
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{Code: InternalServerError, Message: getDefaultErrorMessage(context)}
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{Code: ResourceNotFound, Message: getNotFoundMessage(context)}
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case pqUniqueViolation:
			return parseDuplicateKeyError(pqErr.Constraint+" "+pqErr.Message, context)
		case pqForeignKeyViolation:
			return ErrorInfo{Code: ResourceConflict, Message: "The referenced " + context + " does not exist or is still in use"}
		case pqNotNullViolation:
			return ErrorInfo{Code: ValidationRequired, Message: "A required value is missing"}
		case pqStringTooLong:
			return ErrorInfo{Code: ValidationTooLong, Message: "A value exceeds the allowed length"}
		}
	}

	// SQLite and wrapped errors only carry text
	errLower := strings.ToLower(err.Error())
	switch {
	case strings.Contains(errLower, "duplicate key") || strings.Contains(errLower, "unique constraint"):
		return parseDuplicateKeyError(errLower, context)
	case strings.Contains(errLower, "foreign key constraint"):
		return ErrorInfo{Code: ResourceConflict, Message: "The referenced " + context + " does not exist or is still in use"}
	case strings.Contains(errLower, "connection refused") || strings.Contains(errLower, "timeout"):
		return ErrorInfo{Code: InternalDatabaseError, Message: "The database is unavailable. Please try again later"}
	}

	return ErrorInfo{Code: InternalServerError, Message: getDefaultErrorMessage(context)}
}

// IsDuplicateKey reports whether err is a unique constraint violation.
func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	info := ParseError(err, "")
	return info.Code == ResourceAlreadyExists || info.Code == ApplicationReferenceConflict
}

func parseDuplicateKeyError(detail string, context string) ErrorInfo {
	detail = strings.ToLower(detail)

	if strings.Contains(detail, "reference_number") {
		return ErrorInfo{
			Code:    ApplicationReferenceConflict,
			Message: "A reference number collision occurred. Please try again",
		}
	}

	return ErrorInfo{
		Code:    ResourceAlreadyExists,
		Message: "The " + context + " already exists",
	}
}

func getNotFoundMessage(context string) string {
	switch context {
	case "application":
		return "Application not found"
	case "file":
		return "File not found"
	default:
		return "The requested resource was not found"
	}
}

func getDefaultErrorMessage(context string) string {
	if context == "" {
		return "An unexpected error occurred. Please try again later"
	}
	return "An unexpected error occurred while processing the " + context
}
