package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrAccountDisabled    ErrCode = "ACCOUNT_DISABLED"
	ErrTokenRequired      ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALID"
	ErrTokenRevoked       ErrCode = "TOKEN_REVOKED"

	// ─── Authorization ─────────────────────────────────────────────────
	ErrForbidden               ErrCode = "FORBIDDEN"
	ErrPermissionDenied        ErrCode = "PERMISSION_DENIED"
	ErrMasterPasswordImmutable ErrCode = "MASTER_PASSWORD_IMMUTABLE"
	ErrMasterRecordImmutable   ErrCode = "MASTER_RECORD_IMMUTABLE"
	ErrWrongCurrentPassword    ErrCode = "WRONG_CURRENT_PASSWORD"
	ErrEmailDomainNotAllowed   ErrCode = "EMAIL_DOMAIN_NOT_ALLOWED"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation       ErrCode = "VALIDATION_ERROR"
	ErrInvalidID        ErrCode = "INVALID_ID"
	ErrInvalidPayload   ErrCode = "INVALID_PAYLOAD"
	ErrRatingOutOfRange ErrCode = "RATING_OUT_OF_RANGE"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound        ErrCode = "NOT_FOUND"
	ErrCourseNotFound  ErrCode = "COURSE_NOT_FOUND"
	ErrConflict        ErrCode = "CONFLICT"
	ErrActionForbidden ErrCode = "ACTION_FORBIDDEN"

	// ─── Verification codes ────────────────────────────────────────────
	ErrCodeInvalid          ErrCode = "CODE_INVALID"
	ErrCodeExpired          ErrCode = "CODE_EXPIRED"
	ErrCodeExhausted        ErrCode = "CODE_EXHAUSTED"
	ErrCodeConsumed         ErrCode = "CODE_CONSUMED"
	ErrMaxUsesBelowUseCount ErrCode = "MAX_USES_BELOW_USE_COUNT"

	// ─── Delivery ──────────────────────────────────────────────────────
	ErrDeliveryFailed ErrCode = "DELIVERY_FAILED"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Authentication ────────────────────────────────────────────────
	case ErrInvalidCredentials:
		return "Ungültige Anmeldedaten"
	case ErrAccountDisabled:
		return "Account ist deaktiviert"
	case ErrTokenRequired:
		return "Authentifizierung erforderlich"
	case ErrTokenInvalid:
		return "Invalid authentication credentials"
	case ErrTokenRevoked:
		return "Sitzung wurde beendet. Bitte melde dich erneut an."

	// ─── Authorization ─────────────────────────────────────────────────
	case ErrForbidden:
		return "Admin account is deactivated"
	case ErrPermissionDenied:
		return "Keine Berechtigung"
	case ErrMasterPasswordImmutable:
		return "Der Master admin ist nicht befugt sein Passwort zu ändern. Verwaltung liegt bei Astra Capital e.U."
	case ErrMasterRecordImmutable:
		return "Master Admin kann nicht verändert oder gelöscht werden"
	case ErrWrongCurrentPassword:
		return "Aktuelles Passwort ist falsch"
	case ErrEmailDomainNotAllowed:
		return "Du bist nicht berechtigt."

	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Validierung fehlgeschlagen. Bitte überprüfe deine Eingaben."
	case ErrInvalidID:
		return "Ungültiges ID-Format."
	case ErrInvalidPayload:
		return "Ungültige Anfrage."
	case ErrRatingOutOfRange:
		return "Bewertungen müssen zwischen 1 und 5 liegen"

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "Nicht gefunden"
	case ErrCourseNotFound:
		return "LVA nicht gefunden"
	case ErrConflict:
		return "Eintrag existiert bereits"
	case ErrActionForbidden:
		return "Diese Aktion ist nicht erlaubt."

	// ─── Verification codes ────────────────────────────────────────────
	case ErrCodeInvalid:
		return "Ungültiger Code"
	case ErrCodeExpired:
		return "Code ist abgelaufen. Bitte fordere einen neuen Code an."
	case ErrCodeExhausted:
		return "Code wurde bereits vollständig verwendet"
	case ErrCodeConsumed:
		return "Ungültiger oder bereits verwendeter Code"
	case ErrMaxUsesBelowUseCount:
		return "Maximale Nutzungen dürfen nicht kleiner als die bisherigen Nutzungen sein"

	// ─── Delivery ──────────────────────────────────────────────────────
	case ErrDeliveryFailed:
		return "E-Mail konnte nicht gesendet werden. Bitte versuche es später erneut."

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "Zu viele Anfragen. Bitte versuche es später erneut."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "Interner Serverfehler"
	default:
		return "Ein unerwarteter Fehler ist aufgetreten."
	}
}
