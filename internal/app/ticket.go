package app

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/form3tech-oss/jwt-go"
)

var (
	ErrTicketConfig   = errors.New("ticket service config is incomplete")
	ErrTicketInvalid  = errors.New("ticket is invalid")
	ErrTicketMismatch = errors.New("ticket does not match user or match")
)

// TicketService issues and checks the signed console tickets that bind one
// user to one match.
type TicketService struct {
	secret string
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

func NewTicketService(secret, issuer string, ttl time.Duration) *TicketService {
	return &TicketService{
		secret: secret,
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue signs a ticket for userID to drive matchID.
func (s *TicketService) Issue(userID, matchID string) (string, error) {
	if s == nil {
		return "", fmt.Errorf("ticket service is nil")
	}
	if userID == "" || matchID == "" {
		return "", fmt.Errorf("user and match are required")
	}
	if s.secret == "" || s.issuer == "" || s.ttl <= 0 {
		return "", ErrTicketConfig
	}

	now := s.now()
	claims := jwt.MapClaims{
		"iss": s.issuer,
		"sub": userID,
		"mid": matchID,
		"iat": now.Unix(),
		"exp": now.Add(s.ttl).Unix(),
		"jti": fmt.Sprintf("%d-%d", now.UnixNano(), rand.Int63()),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.secret))
}

// Verify checks signature, issuer and expiry, and that the ticket was issued
// to userID for matchID.
func (s *TicketService) Verify(ticket, userID, matchID string) error {
	if s == nil || s.secret == "" {
		return ErrTicketConfig
	}

	token, err := jwt.Parse(ticket, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(s.secret), nil
	})
	if err != nil || !token.Valid {
		return fmt.Errorf("%w: %v", ErrTicketInvalid, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return ErrTicketInvalid
	}
	if !claims.VerifyIssuer(s.issuer, true) {
		return fmt.Errorf("%w: issuer", ErrTicketInvalid)
	}
	if sub, _ := claims["sub"].(string); sub != userID {
		return ErrTicketMismatch
	}
	if mid, _ := claims["mid"].(string); mid != matchID {
		return ErrTicketMismatch
	}
	return nil
}
