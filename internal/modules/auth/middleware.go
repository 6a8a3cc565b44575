package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
)

type contextKey string

const (
	customerKey contextKey = "customer_identity"
	sellerKey   contextKey = "seller_identity"
)

// CustomerIdentity is the authenticated (customer, store) pair every cart
// and checkout operation receives.
type CustomerIdentity struct {
	CustomerID uuid.UUID
	StoreID    uuid.UUID
}

// CustomerFromContext returns the identity placed by RequireCustomer.
func CustomerFromContext(ctx context.Context) (CustomerIdentity, bool) {
	id, ok := ctx.Value(customerKey).(CustomerIdentity)
	return id, ok
}

// SellerFromContext returns the seller id placed by RequireSeller.
func SellerFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(sellerKey).(uuid.UUID)
	return id, ok
}

// RequireCustomer rejects requests without a valid customer token and puts
// the resolved identity on the request context.
func RequireCustomer(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := &customerClaims{}
			if !parseToken(r, secret, claims) || claims.Audience != AudienceCustomer {
				unauthenticated(w)
				return
			}
			customerID, err := uuid.Parse(claims.Subject)
			if err != nil {
				unauthenticated(w)
				return
			}
			storeID, err := uuid.Parse(claims.StoreID)
			if err != nil {
				unauthenticated(w)
				return
			}
			identity := CustomerIdentity{CustomerID: customerID, StoreID: storeID}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), customerKey, identity)))
		})
	}
}

// RequireSeller rejects requests without a valid seller token.
func RequireSeller(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := &jwt.StandardClaims{}
			if !parseToken(r, secret, claims) || claims.Audience != AudienceSeller {
				unauthenticated(w)
				return
			}
			sellerID, err := uuid.Parse(claims.Subject)
			if err != nil {
				unauthenticated(w)
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sellerKey, sellerID)))
		})
	}
}

func parseToken(r *http.Request, secret string, claims jwt.Claims) bool {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return false
	}
	raw := strings.TrimPrefix(header, "Bearer ")
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	return err == nil && token.Valid
}

func unauthenticated(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": "unauthenticated"})
}
