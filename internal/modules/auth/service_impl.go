package auth

import (
	"context"
	"errors"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/IrshaGlobal/sellor-ai-ecommerce-sub000/internal/modules/customer"
	"github.com/IrshaGlobal/sellor-ai-ecommerce-sub000/internal/modules/seller"
)

// ErrInvalidCredentials is returned when email/password verification fails.
var ErrInvalidCredentials = errors.New("invalid credentials")

// customerClaims carries the store scope alongside the standard subject.
type customerClaims struct {
	jwt.StandardClaims
	StoreID string `json:"store_id"`
}

type service struct {
	sellers   seller.Repository
	customers customer.Repository
	secret    []byte
	ttl       time.Duration
}

// NewService creates a new auth service. The signing secret and token
// lifetime come from configuration.
func NewService(sellers seller.Repository, customers customer.Repository, secret string, ttlHours int) Service {
	return &service{
		sellers:   sellers,
		customers: customers,
		secret:    []byte(secret),
		ttl:       time.Duration(ttlHours) * time.Hour,
	}
}

func (s *service) SellerLogin(ctx context.Context, email, password string) (string, error) {
	sl, err := s.sellers.GetSellerByEmail(ctx, seller.NormalizeEmail(email))
	if err != nil {
		return "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(sl.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	claims := &jwt.StandardClaims{
		Subject:   sl.ID.String(),
		Audience:  AudienceSeller,
		ExpiresAt: time.Now().Add(s.ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *service) CustomerLogin(ctx context.Context, storeID uuid.UUID, email, password string) (string, error) {
	c, err := s.customers.GetCustomerByEmail(ctx, storeID, email)
	if err != nil {
		return "", ErrInvalidCredentials
	}
	if c.PasswordHash == "" {
		// guest rows have no credentials
		return "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(c.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}
	return s.CustomerToken(c.ID, c.StoreID)
}

func (s *service) CustomerToken(customerID, storeID uuid.UUID) (string, error) {
	claims := &customerClaims{
		StandardClaims: jwt.StandardClaims{
			Subject:   customerID.String(),
			Audience:  AudienceCustomer,
			ExpiresAt: time.Now().Add(s.ttl).Unix(),
		},
		StoreID: storeID.String(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}
