package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sainam-co/jobtrack-api/internal/domain"
	"github.com/sainam-co/jobtrack-api/internal/policy"
	"github.com/sainam-co/jobtrack-api/internal/repository"
	"go.uber.org/zap"
)

// CustomerService handles customer management. Customers are shared by
// reference; deleting a job never deletes its customer, and a customer
// with jobs cannot be deleted.
type CustomerService struct {
	customers *repository.CustomerRepository
	logger    *zap.Logger
}

// NewCustomerService creates a new CustomerService
func NewCustomerService(customers *repository.CustomerRepository, logger *zap.Logger) *CustomerService {
	return &CustomerService{
		customers: customers,
		logger:    logger,
	}
}

// Get retrieves a customer by ID
func (s *CustomerService) Get(ctx context.Context, id uuid.UUID) (*domain.Customer, error) {
	if _, err := checkPolicy(ctx, policy.ActionRead, policy.EntityCustomer); err != nil {
		return nil, err
	}
	customer, err := s.customers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, fmt.Errorf("%w: customer %s", ErrNotFound, id)
	}
	return customer, nil
}

// List retrieves customers, optionally filtered by search text
func (s *CustomerService) List(ctx context.Context, search string, limit, offset int) ([]domain.Customer, int64, error) {
	if _, err := checkPolicy(ctx, policy.ActionRead, policy.EntityCustomer); err != nil {
		return nil, 0, err
	}
	if limit <= 0 {
		limit = 50
	}
	return s.customers.List(ctx, search, limit, offset)
}

// Create registers a new customer
func (s *CustomerService) Create(ctx context.Context, req *domain.CreateCustomerRequest) (*domain.Customer, error) {
	if _, err := checkPolicy(ctx, policy.ActionCreate, policy.EntityCustomer); err != nil {
		return nil, err
	}
	customer := &domain.Customer{
		Name:    req.Name,
		Phone:   req.Phone,
		Address: req.Address,
	}
	if err := s.customers.Create(ctx, customer); err != nil {
		return nil, err
	}
	s.logger.Info("customer created", zap.String("customer_id", customer.ID.String()))
	return customer, nil
}

// Update edits customer fields
func (s *CustomerService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateCustomerRequest) (*domain.Customer, error) {
	if _, err := checkPolicy(ctx, policy.ActionUpdate, policy.EntityCustomer); err != nil {
		return nil, err
	}
	customer, err := s.customers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, fmt.Errorf("%w: customer %s", ErrNotFound, id)
	}

	if req.Name != nil {
		customer.Name = *req.Name
	}
	if req.Phone != nil {
		customer.Phone = *req.Phone
	}
	if req.Address != nil {
		customer.Address = *req.Address
	}

	if err := s.customers.Update(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// Delete removes a customer that has no jobs
func (s *CustomerService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := checkPolicy(ctx, policy.ActionDelete, policy.EntityCustomer); err != nil {
		return err
	}
	customer, err := s.customers.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if customer == nil {
		return fmt.Errorf("%w: customer %s", ErrNotFound, id)
	}

	jobCount, err := s.customers.CountJobs(ctx, id)
	if err != nil {
		return err
	}
	if jobCount > 0 {
		return fmt.Errorf("%w: customer has %d jobs", ErrConflict, jobCount)
	}
	return s.customers.Delete(ctx, id)
}
