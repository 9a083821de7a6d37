package errors

// Error codes returned in the "error" field of every error body.
// Format: CATEGORY_SPECIFIC_DETAIL

const (
	// ==================== Validation (VALIDATION_) ====================
	ValidationInvalidInput  = "VALIDATION_INVALID_INPUT"  // malformed or failing input
	ValidationInvalidID     = "VALIDATION_INVALID_ID"     // malformed id
	ValidationInvalidFormat = "VALIDATION_INVALID_FORMAT" // wrong shape (email, phone, zip)
	ValidationTooLong       = "VALIDATION_TOO_LONG"       // exceeds column cap
	ValidationRequired      = "VALIDATION_REQUIRED"       // required field missing

	// ==================== Resources (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"      // generic not found
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS" // unique constraint hit
	ResourceConflict      = "RESOURCE_CONFLICT"       // referenced by other rows

	// ==================== Applications (APPLICATION_) ====================
	ApplicationNotFound          = "APPLICATION_NOT_FOUND"          // unknown id or reference
	ApplicationNotDraft          = "APPLICATION_NOT_DRAFT"          // update on a non-draft record
	ApplicationInvalidTransition = "APPLICATION_INVALID_TRANSITION" // status change not allowed
	ApplicationReferenceConflict = "APPLICATION_REFERENCE_CONFLICT" // generated reference already used

	// ==================== Files (FILE_) ====================
	FileNotFound     = "FILE_NOT_FOUND"     // unknown file or missing content
	FileEmpty        = "FILE_EMPTY"         // zero-byte upload
	FileTooLarge     = "FILE_TOO_LARGE"     // over the upload limit
	FileInvalidType  = "FILE_INVALID_TYPE"  // extension not allowed
	FileUploadFailed = "FILE_UPLOAD_FAILED" // storage write failed

	// ==================== Internal (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"   // unexpected failure
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR" // database failure
	InternalStorageError  = "INTERNAL_STORAGE_ERROR"  // blob store failure
)
