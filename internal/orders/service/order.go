package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	lessonserrors "coursework/internal/lessons/errors"
	lessonsrepository "coursework/internal/lessons/repository"
	orderserrors "coursework/internal/orders/errors"
	"coursework/internal/orders/events"
	"coursework/internal/orders/repository"
	"coursework/internal/orders/validator"
	"coursework/pkg/config"
	apperrors "coursework/pkg/errors"
	"coursework/pkg/metrics"
	"coursework/pkg/model"
	"coursework/pkg/sanitizer"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("coursework/orders")

type OrderService interface {
	Create(ctx context.Context, req *model.OrderRequest) (*model.Order, error)
}

type orderService struct {
	lessons   lessonsrepository.LessonRepository
	orders    repository.OrderRepository
	validator *validator.OrderValidator
	publisher events.OrderPublisher
	cfg       *config.Config
}

func NewOrderService(
	lessons lessonsrepository.LessonRepository,
	orders repository.OrderRepository,
	validator *validator.OrderValidator,
	publisher events.OrderPublisher,
	cfg *config.Config,
) OrderService {
	if publisher == nil {
		publisher = events.NewNoopOrderPublisher()
	}
	return &orderService{
		lessons:   lessons,
		orders:    orders,
		validator: validator,
		publisher: publisher,
		cfg:       cfg,
	}
}

// Create books req.NumSpaces on every lesson in req.LessonIDs and records the
// order. Either every reservation and the order are applied, or none are.
func (s *orderService) Create(ctx context.Context, req *model.OrderRequest) (*model.Order, error) {
	ctx, span := tracer.Start(ctx, "orders.Create", trace.WithAttributes(
		attribute.Int("order.lessons", len(req.LessonIDs)),
		attribute.Int("order.num_spaces", req.NumSpaces),
	))
	defer span.End()

	order, err := s.create(ctx, req, span)
	if err != nil {
		appErr := apperrors.AsAppError(err)
		metrics.BookingFailures.WithLabelValues(appErr.Code).Inc()
		span.SetStatus(codes.Error, appErr.Code)
		return nil, err
	}
	return order, nil
}

func (s *orderService) create(ctx context.Context, req *model.OrderRequest, span trace.Span) (*model.Order, error) {
	s.sanitize(req)

	if err := s.validator.Validate(req); err != nil {
		s.cfg.Log.Warn("Order validation failed",
			"name", req.Name,
			"phone", sanitizer.RedactPhone(req.Phone),
			"error", err,
		)
		return nil, apperrors.InvalidInput("Order validation failed").WithDetails(map[string]any{
			"error": err.Error(),
		})
	}

	reservations := model.Reservations(req.LessonIDs, req.NumSpaces)
	if err := s.checkLessonsExist(ctx, reservations); err != nil {
		return nil, err
	}

	reservationID := uuid.New().String()
	span.SetAttributes(attribute.String("order.reservation_id", reservationID))

	applied, err := s.reserve(ctx, reservations)
	if err != nil {
		if rbErr := s.rollback(ctx, reservationID, req, applied); rbErr != nil {
			return nil, apperrors.Internal("Order could not be completed and lesson spaces could not be restored", rbErr)
		}
		return nil, err
	}

	order := &model.Order{
		Name:      req.Name,
		Phone:     req.Phone,
		LessonIDs: req.LessonIDs,
		NumSpaces: req.NumSpaces,
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
	}
	if err := s.orders.Create(ctx, order); err != nil {
		s.cfg.Log.Error("Failed to save order after reserving spaces",
			"reservation_id", reservationID,
			"lesson_ids", req.LessonIDs,
			"error", err,
		)
		if rbErr := s.rollback(ctx, reservationID, req, applied); rbErr != nil {
			return nil, apperrors.Internal("Order could not be saved and lesson spaces could not be restored", rbErr)
		}
		return nil, apperrors.StoreUnavailable("Failed to save order", err)
	}

	metrics.OrdersCreated.Inc()
	span.SetAttributes(attribute.String("order.id", order.ID))
	s.cfg.Log.Info("Order created successfully",
		"id", order.ID,
		"reservation_id", reservationID,
		"lesson_ids", order.LessonIDs,
		"num_spaces", order.NumSpaces,
		"phone", sanitizer.RedactPhone(order.Phone),
	)

	if err := s.publisher.OrderCreated(ctx, order); err != nil {
		s.cfg.Log.Error("Failed to publish order event",
			"id", order.ID,
			"error", err,
		)
	}

	return order, nil
}

func (s *orderService) sanitize(req *model.OrderRequest) {
	req.Name = sanitizer.NormalizeName(req.Name)
	req.Phone = sanitizer.NormalizePhone(req.Phone)
	req.LessonIDs = sanitizer.TrimEach(req.LessonIDs)
}

// checkLessonsExist rejects the order before any capacity is touched when a
// referenced lesson does not exist.
func (s *orderService) checkLessonsExist(ctx context.Context, reservations []model.Reservation) error {
	ids := make([]string, 0, len(reservations))
	for _, r := range reservations {
		ids = append(ids, r.LessonID)
	}

	missing, err := s.lessons.MissingIDs(ctx, ids)
	if err != nil {
		s.cfg.Log.Error("Failed to check lesson existence",
			"lesson_ids", ids,
			"error", err,
		)
		return apperrors.FromStore("Failed to check lessons", err)
	}
	if len(missing) > 0 {
		s.cfg.Log.Warn("Order references unknown lessons", "missing", missing)
		return apperrors.InvalidInput(fmt.Sprintf("Lesson not found: %s", missing[0])).WithDetails(map[string]any{
			"missing": missing,
		})
	}
	return nil
}

// reserve takes capacity lesson by lesson and stops at the first failure.
// It returns what was applied so far, which the caller must roll back on error.
func (s *orderService) reserve(ctx context.Context, reservations []model.Reservation) ([]model.Reservation, error) {
	applied := make([]model.Reservation, 0, len(reservations))

	for _, r := range reservations {
		_, err := s.lessons.DecrementCapacity(ctx, r.LessonID, r.Amount)
		if err == nil {
			applied = append(applied, r)
			continue
		}

		switch {
		case errors.Is(err, lessonserrors.ErrInsufficientCapacity):
			s.cfg.Log.Warn("Not enough spaces for order",
				"lesson_id", r.LessonID,
				"requested", r.Amount,
			)
			return applied, apperrors.InsufficientCapacity(
				fmt.Sprintf("Not enough spaces available for lesson %s", r.LessonID),
			).WithDetails(map[string]any{
				"lessonId":  r.LessonID,
				"requested": r.Amount,
			})
		case errors.Is(err, lessonserrors.ErrNotFound), errors.Is(err, lessonserrors.ErrInvalidID):
			s.cfg.Log.Warn("Lesson disappeared while reserving", "lesson_id", r.LessonID)
			return applied, apperrors.InvalidInput(fmt.Sprintf("Lesson not found: %s", r.LessonID))
		default:
			s.cfg.Log.Error("Failed to reserve lesson spaces",
				"lesson_id", r.LessonID,
				"requested", r.Amount,
				"error", err,
			)
			return applied, apperrors.FromStore("Failed to reserve lesson spaces", err)
		}
	}

	return applied, nil
}

// rollback gives back every applied reservation. Each increment is retried
// with linear backoff and survives cancellation of the request.
func (s *orderService) rollback(ctx context.Context, reservationID string, req *model.OrderRequest, applied []model.Reservation) error {
	if len(applied) == 0 {
		return nil
	}
	metrics.BookingRollbacks.Inc()

	ctx = context.WithoutCancel(ctx)
	ctx, span := tracer.Start(ctx, "orders.Rollback", trace.WithAttributes(
		attribute.String("order.reservation_id", reservationID),
		attribute.Int("order.rollbacks", len(applied)),
	))
	defer span.End()

	var pending []string
	var lastErr error
	for _, r := range applied {
		if err := s.release(ctx, r); err != nil {
			pending = append(pending, r.LessonID)
			lastErr = err
		}
	}

	if len(pending) == 0 {
		s.cfg.Log.Info("Order reservation rolled back",
			"reservation_id", reservationID,
			"lesson_ids", req.LessonIDs,
		)
		return nil
	}

	metrics.BookingRollbackFailures.Inc()
	span.SetStatus(codes.Error, "rollback incomplete")
	s.cfg.Log.Error("Order rollback failed, lesson capacity needs manual reconciliation",
		"reservation_id", reservationID,
		"lesson_ids", req.LessonIDs,
		"num_spaces", req.NumSpaces,
		"pending_rollbacks", pending,
		"customer_phone", sanitizer.RedactPhone(req.Phone),
		"error", lastErr,
	)
	return fmt.Errorf("%w: %d lesson(s) pending: %v", orderserrors.ErrRollbackFailed, len(pending), lastErr)
}

func (s *orderService) release(ctx context.Context, r model.Reservation) error {
	attempts := s.cfg.RollbackMaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = s.lessons.IncrementCapacity(ctx, r.LessonID, r.Amount); err == nil {
			return nil
		}
		if errors.Is(err, lessonserrors.ErrNotFound) || errors.Is(err, lessonserrors.ErrInvalidID) {
			return err
		}

		s.cfg.Log.Warn("Lesson capacity release failed",
			"lesson_id", r.LessonID,
			"amount", r.Amount,
			"attempt", attempt,
			"error", err,
		)
		if attempt < attempts {
			time.Sleep(time.Duration(attempt) * s.cfg.RollbackRetryDelay)
		}
	}
	return err
}
