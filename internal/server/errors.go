package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/resume-auditor/internal/analysis"
	"github.com/jonathan/resume-auditor/internal/export"
	"github.com/jonathan/resume-auditor/internal/extraction"
	"github.com/jonathan/resume-auditor/internal/matching"
	"github.com/jonathan/resume-auditor/internal/rewriting"
	"github.com/jonathan/resume-auditor/internal/session"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// UserMessage is safe to show to the user.
func (e *ErrValidation) UserMessage() string {
	return e.Error()
}

// userFacing is implemented by errors whose message may be shown to users.
type userFacing interface {
	UserMessage() string
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		validation    *ErrValidation
		fieldErrs     validator.ValidationErrors
		notFound      *session.NotFoundError
		sectionGone   *rewriting.SectionNotFoundError
		transition    *session.TransitionError
		unsupported   *extraction.UnsupportedFormatError
		unreadable    *extraction.ExtractionError
		unknownFormat *export.UnknownFormatError
		analysisErr   *analysis.AnalysisError
		matchErr      *matching.MatchError
		apiErr        *rewriting.APICallError
		parseErr      *rewriting.ParseError
	)

	switch {
	case errors.As(err, &validation), errors.As(err, &fieldErrs), errors.As(err, &unknownFormat):
		return http.StatusBadRequest
	case errors.As(err, &notFound), errors.As(err, &sectionGone):
		return http.StatusNotFound
	case errors.As(err, &transition):
		return http.StatusConflict
	case errors.As(err, &unsupported):
		return http.StatusUnsupportedMediaType
	case errors.As(err, &unreadable):
		return http.StatusUnprocessableEntity
	case errors.As(err, &analysisErr), errors.As(err, &matchErr), errors.As(err, &apiErr), errors.As(err, &parseErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// UserMessage returns the message to show for err. Errors without a user-facing
// message are reported generically so internal details never reach the client.
func UserMessage(err error) string {
	var uf userFacing
	if errors.As(err, &uf) {
		return uf.UserMessage()
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return fmt.Sprintf("invalid %s: failed %q rule", fe.Field(), fe.Tag())
	}

	var unknownFormat *export.UnknownFormatError
	if errors.As(err, &unknownFormat) {
		return unknownFormat.Error()
	}

	var sectionGone *rewriting.SectionNotFoundError
	if errors.As(err, &sectionGone) {
		return sectionGone.Error()
	}

	return "Internal server error"
}
