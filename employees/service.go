package employees

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
)

const (
	// DefaultPageSize is used when a list request omits limit
	DefaultPageSize = 100
	// MaxPageSize caps a single list response
	MaxPageSize = 1000
)

// Service applies business rules on top of a Store
type Service struct {
	store       Store
	phoneRegion string
	now         func() time.Time
}

// ServiceOption configures a Service
type ServiceOption func(*Service)

// WithPhoneRegion sets the default region for phone numbers without a
// country code
func WithPhoneRegion(region string) ServiceOption {
	return func(s *Service) {
		if region != "" {
			s.phoneRegion = region
		}
	}
}

// WithServiceClock overrides the clock used to stamp resignation dates
func WithServiceClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService returns a Service backed by store
func NewService(store Store, opts ...ServiceOption) *Service {
	s := &Service{
		store:       store,
		phoneRegion: DefaultPhoneRegion,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns a page of employees. limit <= 0 uses DefaultPageSize.
func (s *Service) List(ctx context.Context, skip, limit int) ([]Employee, error) {
	if skip < 0 {
		return nil, validation.Errors{"skip": errors.New("must be no less than 0")}
	}

	switch {
	case limit <= 0:
		limit = DefaultPageSize
	case limit > MaxPageSize:
		limit = MaxPageSize
	}

	return s.store.List(ctx, skip, limit)
}

// Get returns a single employee
func (s *Service) Get(ctx context.Context, id string) (*Employee, error) {
	return s.store.Get(ctx, strings.TrimSpace(id))
}

// Count returns the number of employees
func (s *Service) Count(ctx context.Context) (int, error) {
	return s.store.Count(ctx)
}

// Create validates in and stores it under a fresh id
func (s *Service) Create(ctx context.Context, in Employee) (*Employee, error) {
	if err := s.prepare(&in); err != nil {
		return nil, err
	}
	return s.store.Create(ctx, &in)
}

// Update applies patch to an existing employee
func (s *Service) Update(ctx context.Context, id string, patch EmployeeUpdate) (*Employee, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	from := current.Status
	patch.Apply(current)

	if err := checkTransition(from, current.Status); err != nil {
		return nil, err
	}

	switch {
	// rehire reopens the record unless the caller says otherwise
	case from != StatusEmployed && current.Status == StatusEmployed:
		if patch.EndDate == nil {
			current.EndDate = nil
		}
		if patch.IsActive == nil {
			current.IsActive = true
		}
	// leaving employment closes the record the same way Resign does
	case from == StatusEmployed && current.Status != StatusEmployed:
		if current.IsActive && patch.IsActive != nil {
			return nil, validation.Errors{"is_active": fmt.Errorf("must be false when status is %s", current.Status)}
		}
		current.IsActive = false
		if patch.EndDate == nil || strings.TrimSpace(*patch.EndDate) == "" {
			today := s.now().Format(DateLayout)
			current.EndDate = &today
		}
	}

	if err := s.prepare(current); err != nil {
		return nil, err
	}

	if err := s.store.Save(ctx, current); err != nil {
		return nil, err
	}

	return current, nil
}

// Delete removes an employee
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, strings.TrimSpace(id))
}

// ChangeDepartment moves an employee to department
func (s *Service) ChangeDepartment(ctx context.Context, id, department string) (*Employee, error) {
	department = strings.TrimSpace(department)
	err := validation.Errors{
		"department": validation.Validate(department, validation.Required, validation.Length(1, 100)),
	}.Filter()
	if err != nil {
		return nil, err
	}

	return s.Update(ctx, id, EmployeeUpdate{Department: &department})
}

// Resign marks an employed person as resigned and inactive. An empty
// endDate uses today.
func (s *Service) Resign(ctx context.Context, id, endDate string) (*Employee, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if current.Status == StatusResigned {
		return nil, fmt.Errorf("%w: %s already resigned", ErrInvalidTransition, current.EmployeeID)
	}

	if err := checkTransition(current.Status, StatusResigned); err != nil {
		return nil, err
	}

	endDate = strings.TrimSpace(endDate)
	if endDate == "" {
		endDate = s.now().Format(DateLayout)
	}

	resigned := StatusResigned
	inactive := false

	return s.Update(ctx, id, EmployeeUpdate{
		Status:   &resigned,
		IsActive: &inactive,
		EndDate:  &endDate,
	})
}

func (s *Service) prepare(e *Employee) error {
	e.FirstName = strings.TrimSpace(e.FirstName)
	e.LastName = strings.TrimSpace(e.LastName)
	e.Department = strings.TrimSpace(e.Department)

	if e.PhoneNumber != "" {
		normalized, err := NormalizePhone(e.PhoneNumber, s.phoneRegion)
		if err != nil {
			return validation.Errors{"phone_number": err}
		}
		e.PhoneNumber = normalized
	}

	return e.Validate()
}
