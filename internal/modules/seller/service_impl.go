package seller

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type service struct {
	repo Repository
}

// NewService creates a new seller service.
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) RegisterSeller(ctx context.Context, req RegisterRequest) (*Seller, error) {
	email := NormalizeEmail(req.Email)
	if err := ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := ValidatePassword(req.Password); err != nil {
		return nil, err
	}
	if req.Name == "" {
		return nil, fmt.Errorf("name is required")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	sl := &Seller{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hashedPassword),
		Name:         req.Name,
		BusinessName: req.BusinessName,
		Phone:        req.Phone,
	}

	if err := s.repo.CreateSeller(ctx, sl); err != nil {
		return nil, err
	}

	return sl, nil
}

func (s *service) GetSeller(ctx context.Context, id string) (*Seller, error) {
	return s.repo.GetSellerByID(ctx, id)
}

func (s *service) UpdateProfile(ctx context.Context, id uuid.UUID, req UpdateProfileRequest) (*Seller, error) {
	sl, err := s.repo.GetSellerByID(ctx, id.String())
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		if *req.Name == "" {
			return nil, fmt.Errorf("name must not be empty")
		}
		sl.Name = *req.Name
	}
	if req.BusinessName != nil {
		sl.BusinessName = *req.BusinessName
	}
	if req.Phone != nil {
		sl.Phone = *req.Phone
	}
	if err := s.repo.UpdateSeller(ctx, sl); err != nil {
		return nil, err
	}
	return sl, nil
}
