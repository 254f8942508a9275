// File: services/pipeline/pipeline.go
package pipeline

import (
	"context"
	"errors"

	"resortagent/models"
	"resortagent/services/extractor"
	"resortagent/services/reservation"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RequestPipeline is the single entry point the transport adapters consume:
// one inbound message in, one user-facing reply out. Every failure mode
// resolves to a reply string; nothing here ever crashes the process.
type RequestPipeline interface {
	Process(ctx context.Context, message string) string
}

// DefaultRequestPipeline sequences extraction, completeness validation,
// submission and reply synthesis. Each run is independent — there is no
// memory of prior attempts.
type DefaultRequestPipeline struct {
	Extractor extractor.Extractor
	Submitter reservation.Submitter
	Logger    *zap.Logger
}

func NewDefaultRequestPipeline(ex extractor.Extractor, sub reservation.Submitter, logger *zap.Logger) *DefaultRequestPipeline {
	return &DefaultRequestPipeline{Extractor: ex, Submitter: sub, Logger: logger}
}

// requiredField pairs an internal field check with the human label used in
// the "incomplete" reply. Order here is the order labels appear in replies.
type requiredField struct {
	label   string
	missing func(models.BookingRequest) bool
}

var requiredFields = []requiredField{
	{"your full name", func(r models.BookingRequest) bool { return r.GuestName == "" }},
	{"your email address", func(r models.BookingRequest) bool { return r.Email == "" }},
	{"check-in date", func(r models.BookingRequest) bool { return r.CheckIn == "" }},
	{"check-out date", func(r models.BookingRequest) bool { return r.CheckOut == "" }},
	{"room type", func(r models.BookingRequest) bool { return r.RoomType == "" }},
	{"number of adults", func(r models.BookingRequest) bool { return r.Adults <= 0 }},
}

func (p *DefaultRequestPipeline) Process(ctx context.Context, message string) string {
	logger := p.Logger.With(zap.String("requestId", uuid.New().String()))

	req, err := p.Extractor.Extract(ctx, message)
	if err != nil {
		logger.Error("Extraction failed", zap.Error(err))
		return replyExtractionFailed()
	}
	logger.Info("Extracted booking request",
		zap.String("guest", req.GuestName),
		zap.String("roomType", req.RoomType),
		zap.String("checkIn", req.CheckIn),
		zap.String("checkOut", req.CheckOut),
	)

	var missing []string
	for _, f := range requiredFields {
		if f.missing(req) {
			missing = append(missing, f.label)
		}
	}
	if len(missing) > 0 {
		logger.Warn("Booking request incomplete", zap.Strings("missing", missing))
		return replyIncomplete(missing)
	}

	result, err := p.Submitter.CreateBooking(ctx, req)
	if err != nil {
		logSubmissionFailure(logger, err)
		return replySubmissionFailed(req.GuestName)
	}
	logger.Info("Booking confirmed", zap.Any("result", result))

	return replyConfirmed(req)
}

// logSubmissionFailure records the failure with its kind so operators can
// tell resolver misses, login failures and rejections apart. The guest only
// ever sees the apology reply.
func logSubmissionFailure(logger *zap.Logger, err error) {
	var authErr *reservation.AuthError
	var bookingErr *reservation.BookingError
	switch {
	case errors.As(err, &authErr):
		logger.Error("Reservation login failed", zap.Int("status", authErr.Status), zap.Error(err))
	case errors.As(err, &bookingErr):
		logger.Error("Booking submission rejected", zap.Int("status", bookingErr.Status), zap.Error(err))
	default:
		logger.Error("Booking submission failed", zap.Error(err))
	}
}
