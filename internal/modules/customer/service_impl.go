package customer

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type service struct {
	repo   Repository
	tokens TokenIssuer
}

// NewService creates a new customer service.
func NewService(repo Repository, tokens TokenIssuer) Service {
	return &service{repo: repo, tokens: tokens}
}

func (s *service) RegisterCustomer(ctx context.Context, storeID uuid.UUID, email, password, name string) (*Session, error) {
	if email == "" || password == "" {
		return nil, errors.New("email and password are required")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	c := &Customer{
		ID:           uuid.New(),
		StoreID:      storeID,
		Email:        email,
		PasswordHash: string(hashedPassword),
		Name:         name,
	}
	if err := s.repo.CreateCustomer(ctx, c); err != nil {
		return nil, err
	}

	return s.session(c)
}

func (s *service) CreateGuest(ctx context.Context, storeID uuid.UUID) (*Session, error) {
	c := &Customer{
		ID:      uuid.New(),
		StoreID: storeID,
		IsGuest: true,
	}
	if err := s.repo.CreateCustomer(ctx, c); err != nil {
		return nil, err
	}
	return s.session(c)
}

func (s *service) ClaimGuest(ctx context.Context, customerID uuid.UUID, email, password, name string) (*Customer, error) {
	if email == "" || password == "" {
		return nil, errors.New("email and password are required")
	}

	c, err := s.repo.GetCustomerByID(ctx, customerID.String())
	if err != nil {
		return nil, err
	}
	if !c.IsGuest {
		return nil, errors.New("account is already registered")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	if err := s.repo.ClaimGuest(ctx, c.ID, email, string(hashedPassword), name); err != nil {
		return nil, err
	}

	c.Email = email
	c.Name = name
	c.IsGuest = false
	return c, nil
}

func (s *service) GetCustomer(ctx context.Context, id string) (*Customer, error) {
	return s.repo.GetCustomerByID(ctx, id)
}

func (s *service) session(c *Customer) (*Session, error) {
	token, err := s.tokens.CustomerToken(c.ID, c.StoreID)
	if err != nil {
		return nil, err
	}
	return &Session{Customer: c, Token: token}, nil
}
