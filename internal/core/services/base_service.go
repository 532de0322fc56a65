package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"
	"time"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/middleware"
	"github.com/SscSPs/ledger_engine/internal/platform/metrics"
	"github.com/go-playground/validator/v10"
)

// BaseService provides common functionality for all services
type BaseService struct {
	metrics *metrics.Recorder
	clock   func() time.Time
}

// Option configures the shared parts of a service.
type Option func(*BaseService)

// WithMetrics makes the service count what it does on rec.
func WithMetrics(rec *metrics.Recorder) Option {
	return func(s *BaseService) {
		s.metrics = rec
	}
}

// WithClock replaces time.Now, mostly for tests.
func WithClock(clock func() time.Time) Option {
	return func(s *BaseService) {
		s.clock = clock
	}
}

func (s *BaseService) apply(opts []Option) {
	for _, opt := range opts {
		opt(s)
	}
}

func (s *BaseService) now() time.Time {
	if s.clock != nil {
		return s.clock().UTC()
	}
	return time.Now().UTC()
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	return middleware.GetLoggerFromCtx(ctx)
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	s.GetLogger(ctx).Error(msg, args...)
}

// logFailure logs client mistakes at Warn and everything else at Error.
func (s *BaseService) logFailure(ctx context.Context, err error, msg string, keyvals ...any) {
	if isClientError(err) {
		args := append([]any{slog.String("error", err.Error())}, keyvals...)
		s.GetLogger(ctx).Warn(msg, args...)
		return
	}
	s.LogError(ctx, err, msg, keyvals...)
}

func isClientError(err error) bool {
	return errors.Is(err, apperrors.ErrValidation) ||
		errors.Is(err, apperrors.ErrUnbalanced) ||
		errors.Is(err, apperrors.ErrNotFound) ||
		errors.Is(err, apperrors.ErrConflict) ||
		errors.Is(err, apperrors.ErrDuplicate) ||
		errors.Is(err, apperrors.ErrMissingRate)
}

// rejectionReason is the metrics label for a refused submission.
func rejectionReason(err error) string {
	switch {
	case errors.Is(err, apperrors.ErrUnbalanced):
		return "unbalanced"
	case errors.Is(err, apperrors.ErrMissingRate):
		return "missing_rate"
	case errors.Is(err, apperrors.ErrConflict):
		return "conflict"
	case errors.Is(err, apperrors.ErrNotFound):
		return "not_found"
	default:
		return "validation"
	}
}

// The services re-check the same binding tags gin enforces, so the CLI and
// other callers that skip gin get identical validation.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.SetTagName("binding")
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// validateRequest checks req against its binding tags.
func validateRequest(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		field := strings.SplitN(fe.Namespace(), ".", 2)
		name := fe.Field()
		if len(field) == 2 {
			name = field[1]
		}
		msg := fmt.Sprintf("failed on the '%s' rule", fe.Tag())
		if fe.Param() != "" {
			msg = fmt.Sprintf("failed on the '%s=%s' rule", fe.Tag(), fe.Param())
		}
		return apperrors.NewFieldValidationError(name, msg)
	}
	return apperrors.NewValidationError(err.Error())
}

func requireOrganization(organizationID string) error {
	if strings.TrimSpace(organizationID) == "" {
		return apperrors.NewFieldValidationError("organizationID", "organization is required")
	}
	return nil
}
