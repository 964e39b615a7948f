package services

import (
	"errors"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"partsrecv/internal/config"
)

var (
	ErrBadPairingCode = errors.New("invalid pairing code")
	ErrInvalidToken   = errors.New("invalid token")
)

// PairingService exchanges the station pairing code for a session token.
// Scanners on the shop floor pair once and hold the token for the shift.
type PairingService struct {
	cfg *config.Config
}

type PairingClaims struct {
	Device string `json:"device"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

func NewPairingService(cfg *config.Config) *PairingService {
	return &PairingService{cfg: cfg}
}

// Enabled reports whether pairing is required at all. With no pairing code
// configured the sync endpoints are open, matching a single-bench install.
func (ps *PairingService) Enabled() bool {
	return ps.cfg.PairingCode != ""
}

// Pair validates the code and issues a signed session token.
func (ps *PairingService) Pair(code, device, role string) (string, error) {
	if !ps.Enabled() {
		return "", errors.New("pairing is not enabled")
	}
	if code != ps.cfg.PairingCode {
		return "", ErrBadPairingCode
	}
	if role == "" {
		role = "scanner"
	}
	claims := PairingClaims{
		Device: device,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(ps.secret())
}

// ValidateToken parses and verifies a session token.
func (ps *PairingService) ValidateToken(tokenString string) (*PairingClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &PairingClaims{}, func(token *jwt.Token) (interface{}, error) {
		return ps.secret(), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(*PairingClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, ErrInvalidToken
}

func (ps *PairingService) secret() []byte {
	if s := os.Getenv("JWT_SECRET"); s != "" {
		return []byte(s)
	}
	return []byte("partsrecv-session-" + ps.cfg.PairingCode)
}
