package services

import (
	"context"
	"errors"
	"regexp"
	"strconv"
	"strings"

	apperrors "github.com/NomadCrew/feedback-service/errors"
	"github.com/NomadCrew/feedback-service/internal/store"
	"github.com/NomadCrew/feedback-service/logger"
	"github.com/NomadCrew/feedback-service/types"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

const (
	DefaultPageLimit = 50
	MaxPageLimit     = 200
)

// emailPattern is the authoritative server-side shape check: one @, a dot
// somewhere after it, no whitespace anywhere.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// FeedbackService validates submissions and shapes listings.
type FeedbackService struct {
	store    store.FeedbackStore
	validate *validator.Validate
	log      *zap.SugaredLogger
}

func NewFeedbackService(feedbackStore store.FeedbackStore) *FeedbackService {
	v := validator.New()
	// Registration only fails on an empty tag or nil func.
	_ = v.RegisterValidation("feedback_email", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	})

	return &FeedbackService{
		store:    feedbackStore,
		validate: v,
		log:      logger.GetLogger(),
	}
}

// ValidEmail reports whether email passes the server-side format check.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// Create validates req and stores it. Values are persisted exactly as
// submitted; blankness is judged after trimming.
func (s *FeedbackService) Create(ctx context.Context, req types.FeedbackCreate) (*types.Feedback, error) {
	if err := s.validateCreate(req); err != nil {
		return nil, err
	}

	created, err := s.store.CreateFeedback(ctx, &types.Feedback{
		Name:    req.Name,
		Email:   req.Email,
		Message: req.Message,
	})
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}

	s.log.Infow("Feedback submitted",
		"id", created.ID,
		"email", logger.MaskEmail(created.Email),
		"message_length", len(created.Message))
	return created, nil
}

// Validate applies the Create checks without storing anything.
func (s *FeedbackService) Validate(req types.FeedbackCreate) error {
	return s.validateCreate(req)
}

func (s *FeedbackService) validateCreate(req types.FeedbackCreate) error {
	check := types.FeedbackCreate{
		Name:    strings.TrimSpace(req.Name),
		Message: strings.TrimSpace(req.Message),
	}
	if strings.TrimSpace(req.Email) != "" {
		// The raw value is checked so stored addresses never carry whitespace.
		check.Email = req.Email
	}

	err := s.validate.Struct(check)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperrors.InternalServerError(err.Error())
	}

	emailInvalid := false
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			return apperrors.ValidationFailed(apperrors.MsgRequiredFields, fe.Field()+" is empty")
		case "feedback_email":
			emailInvalid = true
		}
	}
	if emailInvalid {
		return apperrors.ValidationFailed(apperrors.MsgInvalidEmail, "email does not match local@domain.tld")
	}
	return apperrors.ValidationFailed(apperrors.MsgRequiredFields, verrs.Error())
}

// List returns one page of feedback, newest first.
func (s *FeedbackService) List(ctx context.Context, page types.FeedbackPage) (*types.FeedbackListResponse, error) {
	items, err := s.store.ListFeedback(ctx, page, types.NewestFirst)
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	if items == nil {
		items = []types.Feedback{}
	}

	return &types.FeedbackListResponse{
		Items:      items,
		Limit:      page.Limit,
		Offset:     page.Offset,
		Count:      len(items),
		NextOffset: page.Offset + len(items),
	}, nil
}

// Count returns the number of stored records.
func (s *FeedbackService) Count(ctx context.Context) (int64, error) {
	n, err := s.store.CountFeedback(ctx)
	if err != nil {
		return 0, apperrors.NewDatabaseError(err)
	}
	return n, nil
}

// NormalizePage parses raw limit/offset query values. Missing, malformed or
// out-of-range limits fall back to DefaultPageLimit and are capped at
// MaxPageLimit; bad offsets fall back to 0.
func NormalizePage(limitRaw, offsetRaw string) types.FeedbackPage {
	limit, err := strconv.Atoi(strings.TrimSpace(limitRaw))
	if err != nil || limit < 1 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}

	offset, err := strconv.Atoi(strings.TrimSpace(offsetRaw))
	if err != nil || offset < 0 {
		offset = 0
	}

	return types.FeedbackPage{Limit: limit, Offset: offset}
}
