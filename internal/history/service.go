// ABOUTME: Calling layer that searches weather and saves or edits history records
// ABOUTME: Owns input validation, location checks and search timestamps before touching the store

package history

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/harper/wxhistory/internal/models"
	"github.com/harper/wxhistory/internal/storage"
	"github.com/harper/wxhistory/internal/weather"
)

// ValidationError rejects user input before it reaches the store.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// SaveRequest asks to save the current weather for a location and date range.
type SaveRequest struct {
	Location  string `json:"location" validate:"required,max=255"`
	StartDate string `json:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"endDate" validate:"required,datetime=2006-01-02"`
}

// EditRequest changes a saved record. Nil fields keep their stored value.
type EditRequest struct {
	Location  *string `json:"location,omitempty" validate:"omitempty,max=255"`
	StartDate *string `json:"startDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	EndDate   *string `json:"endDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// IsEmpty reports whether the request changes nothing.
func (r EditRequest) IsEmpty() bool {
	return r.Location == nil && r.StartDate == nil && r.EndDate == nil
}

// Service ties the weather provider to the record store.
type Service struct {
	store    storage.Repository
	provider weather.Provider
	clock    func() time.Time
	validate *validator.Validate
	logger   *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides time.Now for search timestamps.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithLogger sets the service logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewService creates a service. provider may be nil when only stored records
// are read; operations that need it then fail.
func NewService(store storage.Repository, provider weather.Provider, opts ...Option) *Service {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})

	s := &Service{
		store:    store,
		provider: provider,
		clock:    time.Now,
		validate: v,
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Store returns the underlying record store.
func (s *Service) Store() storage.Repository {
	return s.store
}

func (s *Service) needProvider() error {
	if s.provider == nil {
		return errors.New("no weather provider configured")
	}
	return nil
}

// Search fetches current conditions and forecast for query without saving anything.
func (s *Service) Search(ctx context.Context, query string) (models.Snapshot, error) {
	if strings.TrimSpace(query) == "" {
		return models.Snapshot{}, &ValidationError{Field: "query", Message: "search query cannot be empty"}
	}
	if err := s.needProvider(); err != nil {
		return models.Snapshot{}, err
	}
	return s.provider.FetchCurrentAndForecast(ctx, query)
}

// Suggest returns location suggestions for a partial query.
func (s *Service) Suggest(ctx context.Context, query string) ([]weather.Location, error) {
	if err := s.needProvider(); err != nil {
		return nil, err
	}
	return s.provider.SearchLocations(ctx, query)
}

// Save validates the request, fetches the weather for the location and stores
// it with the current time as the search date.
func (s *Service) Save(ctx context.Context, req SaveRequest) (*models.HistoryRecord, error) {
	req.Location = strings.TrimSpace(req.Location)
	req.StartDate = strings.TrimSpace(req.StartDate)
	req.EndDate = strings.TrimSpace(req.EndDate)

	if err := s.validateStruct(req); err != nil {
		return nil, err
	}
	if err := checkRange(req.StartDate, req.EndDate); err != nil {
		return nil, err
	}
	if err := s.needProvider(); err != nil {
		return nil, err
	}

	ok, err := weather.ValidateLocation(ctx, s.provider, req.Location)
	if err != nil {
		return nil, fmt.Errorf("validate location: %w", err)
	}
	if !ok {
		return nil, &ValidationError{Field: "location", Message: "Please search for a valid location first"}
	}

	snap, err := s.provider.FetchCurrentAndForecast(ctx, req.Location)
	if err != nil {
		return nil, fmt.Errorf("fetch weather: %w", err)
	}

	location := req.Location
	if f, err := weather.DecodeForecast(snap); err == nil && f.Location.Name != "" {
		location = f.Location.Name
	}

	rec, err := s.store.Create(models.RecordInput{
		Location:        location,
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		SearchDate:      s.clock().UTC(),
		WeatherSnapshot: snap,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("saved weather search", "id", rec.ID, "location", rec.Location)
	return rec, nil
}

// Edit changes the location or date range of a saved record. The merged
// values are validated as a whole; the snapshot is left untouched.
func (s *Service) Edit(ctx context.Context, id string, req EditRequest) (*models.HistoryRecord, error) {
	if req.IsEmpty() {
		return nil, &ValidationError{Message: "nothing to update"}
	}
	if err := s.validateStruct(req); err != nil {
		return nil, err
	}

	current, err := s.store.GetByID(id)
	if err != nil {
		return nil, err
	}

	var patch models.RecordPatch
	start, end := current.StartDate, current.EndDate
	if req.StartDate != nil {
		start = strings.TrimSpace(*req.StartDate)
		patch.StartDate = &start
	}
	if req.EndDate != nil {
		end = strings.TrimSpace(*req.EndDate)
		patch.EndDate = &end
	}
	if err := checkRange(start, end); err != nil {
		return nil, err
	}

	if req.Location != nil {
		loc := strings.TrimSpace(*req.Location)
		if err := models.ValidateLocationName(loc); err != nil {
			return nil, &ValidationError{Field: "location", Message: err.Error()}
		}
		if err := s.needProvider(); err != nil {
			return nil, err
		}
		ok, err := weather.ValidateLocation(ctx, s.provider, loc)
		if err != nil {
			return nil, fmt.Errorf("validate location: %w", err)
		}
		if !ok {
			return nil, &ValidationError{Field: "location", Message: "Please enter a valid location"}
		}
		patch.Location = &loc
	}

	updated, err := s.store.Update(id, patch)
	if err != nil {
		return nil, err
	}
	s.logger.Info("updated weather search", "id", id)
	return updated, nil
}

func (s *Service) validateStruct(v any) error {
	err := s.validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return &ValidationError{Field: fe.Field(), Message: describe(fe)}
	}
	return &ValidationError{Message: err.Error()}
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "datetime":
		return fmt.Sprintf("must be a date in %s form", "YYYY-MM-DD")
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	default:
		return fmt.Sprintf("failed %s check", fe.Tag())
	}
}

func checkRange(start, end string) error {
	s, err := models.ParseDate(start)
	if err != nil {
		return &ValidationError{Field: "startDate", Message: err.Error()}
	}
	e, err := models.ParseDate(end)
	if err != nil {
		return &ValidationError{Field: "endDate", Message: err.Error()}
	}
	if s.After(e) {
		return &ValidationError{Field: "startDate", Message: "Start date cannot be after end date"}
	}
	return nil
}
