package session

import (
	"context"
	"errors"
	"time"

	"moneymarket/core"

	"github.com/asaskevich/govalidator"
	"github.com/bluele/gcache"
	"github.com/golang-jwt/jwt"
	"golang.org/x/sync/singleflight"
)

// ErrInvalidToken token signature, issuer or subject rejected
var ErrInvalidToken = errors.New("invalid access token")

// cacheTTL longest time a verified token is cached, never past its expiry
const cacheTTL = time.Minute

// New new session verifying HS256 tokens signed with secret, tokens of other issuers
// are rejected when issuers is not empty
func New(secret []byte, issuers []string, capacity int) core.Session {
	s := &session{
		secret:  secret,
		issuers: issuers,
		sf:      &singleflight.Group{},
	}

	if capacity > 0 {
		return newCacheSession(s, capacity, gcache.NewRealClock())
	}

	return s
}

type session struct {
	secret  []byte
	issuers []string
	sf      *singleflight.Group
}

func (s *session) Login(_ context.Context, accessToken string) (string, error) {
	claim, err := s.verify(accessToken)
	if err != nil {
		return "", err
	}

	return claim.Subject, nil
}

func (s *session) verify(accessToken string) (*jwt.StandardClaims, error) {
	v, err, _ := s.sf.Do(accessToken, func() (interface{}, error) {
		var claim jwt.StandardClaims
		if _, err := jwt.ParseWithClaims(accessToken, &claim, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, ErrInvalidToken
			}

			return s.secret, nil
		}); err != nil {
			return nil, ErrInvalidToken
		}

		if len(s.issuers) > 0 && !govalidator.IsIn(claim.Issuer, s.issuers...) {
			return nil, ErrInvalidToken
		}

		if claim.Subject == "" {
			return nil, ErrInvalidToken
		}

		return &claim, nil
	})

	if err != nil {
		return nil, err
	}

	return v.(*jwt.StandardClaims), nil
}

type cacheSession struct {
	*session
	tokens gcache.Cache
	clock  gcache.Clock
}

func newCacheSession(s *session, capacity int, clock gcache.Clock) *cacheSession {
	return &cacheSession{
		session: s,
		tokens:  gcache.New(capacity).LRU().Clock(clock).Build(),
		clock:   clock,
	}
}

func (s *cacheSession) Login(_ context.Context, accessToken string) (string, error) {
	if v, err := s.tokens.Get(accessToken); err == nil {
		return v.(string), nil
	}

	claim, err := s.verify(accessToken)
	if err != nil {
		return "", err
	}

	ttl := cacheTTL
	if claim.ExpiresAt > 0 {
		if left := time.Unix(claim.ExpiresAt, 0).Sub(s.clock.Now()); left < ttl {
			ttl = left
		}
	}

	if ttl > 0 {
		_ = s.tokens.SetWithExpire(accessToken, claim.Subject, ttl)
	}

	return claim.Subject, nil
}

// Sign signs an access token for account valid for ttl
func Sign(secret []byte, issuer, account string, ttl time.Duration) (string, error) {
	now := time.Now()
	claim := jwt.StandardClaims{
		Issuer:    issuer,
		Subject:   account,
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(ttl).Unix(),
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claim).SignedString(secret)
}
