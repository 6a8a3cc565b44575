package seller

import (
	"context"

	"github.com/google/uuid"
)

// RegisterRequest holds the signup payload.
type RegisterRequest struct {
	Email        string `json:"email"`
	Password     string `json:"password"`
	Name         string `json:"name"`
	BusinessName string `json:"business_name"`
	Phone        string `json:"phone"`
}

// UpdateProfileRequest holds mutable profile fields. Nil means leave
// the field as it is.
type UpdateProfileRequest struct {
	Name         *string `json:"name"`
	BusinessName *string `json:"business_name"`
	Phone        *string `json:"phone"`
}

// Service defines the interface for seller-related business logic.
type Service interface {
	RegisterSeller(ctx context.Context, req RegisterRequest) (*Seller, error)
	GetSeller(ctx context.Context, id string) (*Seller, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, req UpdateProfileRequest) (*Seller, error)
}
