package errors

import "net/http"

var (
	ErrMissingWKT = New(
		"MISSING_WKT",
		"A WKT geometry value is required",
		http.StatusBadRequest,
	)

	ErrInvalidWKT = New(
		"INVALID_WKT",
		"The submitted WKT value could not be parsed",
		http.StatusBadRequest,
	)

	ErrResourceNotFound = New(
		"RESOURCE_NOT_FOUND",
		"Resource not found",
		http.StatusNotFound,
	)

	ErrMediaNotFound = New(
		"MEDIA_NOT_FOUND",
		"Media not found",
		http.StatusNotFound,
	)

	ErrAnnotationNotFound = New(
		"ANNOTATION_NOT_FOUND",
		"Annotation not found",
		http.StatusNotFound,
	)

	ErrVocabularyNotFound = New(
		"VOCABULARY_NOT_FOUND",
		"Custom vocabulary not found",
		http.StatusNotFound,
	)

	ErrTemplateNotFound = New(
		"TEMPLATE_NOT_FOUND",
		"Resource template not found",
		http.StatusNotFound,
	)

	ErrTemplateRequired = New(
		"TEMPLATE_REQUIRED",
		"Metadata was submitted but no resource template is configured",
		http.StatusBadRequest,
	)

	ErrTemplateMisconfigured = New(
		"TEMPLATE_MISCONFIGURED",
		"The resource template is misconfigured; fix the template settings",
		http.StatusInternalServerError,
	)

	ErrPermissionDenied = New(
		"PERMISSION_DENIED",
		"You are not allowed to perform this action",
		http.StatusForbidden,
	)

	ErrUnauthenticated = New(
		"UNAUTHENTICATED",
		"Authentication required",
		http.StatusUnauthorized,
	)

	ErrInvalidTemplateType = New(
		"INVALID_TEMPLATE_TYPE",
		"Template type must be \"describe\" or \"locate\"",
		http.StatusBadRequest,
	)

	ErrSuggestUnavailable = New(
		"SUGGEST_UNAVAILABLE",
		"The suggestion service did not respond",
		http.StatusBadGateway,
	)

	ErrDatabaseError = New(
		"DATABASE_ERROR",
		"Database operation failed",
		http.StatusInternalServerError,
	)

	ErrCacheError = New(
		"CACHE_ERROR",
		"Cache operation failed",
		http.StatusInternalServerError,
	)

	ErrInvalidRequest = New(
		"INVALID_REQUEST",
		"Invalid request parameters",
		http.StatusBadRequest,
	)

	ErrInternalServer = New(
		"INTERNAL_SERVER_ERROR",
		"Internal server error",
		http.StatusInternalServerError,
	)
)
