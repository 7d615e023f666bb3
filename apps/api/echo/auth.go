package echoapi

import (
	"context"
	"strings"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/trezcool/studyclub/core"
	"github.com/trezcool/studyclub/core/admin"
)

// appJWTConfig is the default JWT auth middleware config; set up by NewServer.
var appJWTConfig = middleware.JWTConfig{
	SigningMethod: middleware.AlgorithmHS256,
	ContextKey:    "adminToken",
	Claims:        new(Claims),
}

func initJWTConfig(conf *core.Config) {
	appJWTConfig.SigningKey = []byte(conf.SecretKey)
}

// Claims represents the authorization claims transmitted via a JWT.
type Claims struct {
	jwt.StandardClaims
	OrigIssuedAt int64  `json:"oriat,omitempty"`
	Nickname     string `json:"nickname,omitempty"`
	IsAdmin      bool   `json:"is_admin,omitempty"`
}

func GetAdminClaims(adm admin.Admin, origIat ...int64) *Claims {
	now := time.Now()
	nownix := now.Unix()

	var oriat int64
	if len(origIat) > 0 {
		oriat = origIat[0]
	} else {
		oriat = nownix
	}

	claims := &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    core.Conf.AppName,
			Subject:   adm.ID,
			Audience:  "StudyClub",
			ExpiresAt: now.Add(core.Conf.Server.JWTExpirationDelta).Unix(),
			IssuedAt:  nownix,
		},
		OrigIssuedAt: oriat,
		Nickname:     adm.Nickname,
		IsAdmin:      true,
	}
	return claims
}

func authenticate(ctx context.Context, creds admin.Credentials, svc *admin.Service) (*Claims, error) {
	adm, err := svc.Authenticate(ctx, creds)
	if err != nil {
		return nil, err
	}
	return GetAdminClaims(adm), nil
}

// GenerateToken generates a signed JWT token string representing the admin Claims.
func GenerateToken(claims *Claims) (string, error) {
	method := jwt.GetSigningMethod(appJWTConfig.SigningMethod)
	token := jwt.NewWithClaims(method, claims)

	ss, err := token.SignedString(appJWTConfig.SigningKey)
	if err != nil {
		return "", errors.New("signing token")
	}
	return ss, nil
}

func getContextClaims(ctx echo.Context) (Claims, error) {
	if token, ok := ctx.Get(appJWTConfig.ContextKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			return *claims, nil
		}
	}
	return Claims{}, errUnauthorized
}

// isElevated reports whether a valid admin token was supplied on an endpoint
// that does not require auth. A missing header is not an error.
func isElevated(ctx echo.Context) bool {
	auth := ctx.Request().Header.Get(echo.HeaderAuthorization)
	if auth == "" {
		return false
	}
	raw := strings.TrimPrefix(auth, "Bearer ")
	if raw == auth {
		return false
	}

	claims := new(Claims)
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != appJWTConfig.SigningMethod {
			return nil, errors.Errorf("unexpected jwt signing method=%v", t.Header["alg"])
		}
		return appJWTConfig.SigningKey, nil
	})
	if err != nil || !token.Valid {
		return false
	}
	return claims.IsAdmin
}

func refreshToken(ctx echo.Context, svc *admin.Service) (string, error) {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return "", errors.Wrap(err, "getting context claims")
	}

	adm, err := svc.GetByID(ctx.Request().Context(), claims.Subject)
	if err != nil {
		if errors.Cause(err) == admin.ErrNotFound {
			return "", errUnauthorized
		}
		return "", errors.Wrap(err, "finding admin by ID")
	}

	// check if refresh has not expired
	expTime := time.Unix(claims.OrigIssuedAt, 0).Add(core.Conf.Server.JWTRefreshExpirationDelta)
	if time.Now().After(expTime) {
		return "", errRefreshExpired
	}

	newClaims := GetAdminClaims(adm, claims.OrigIssuedAt)
	token, err := GenerateToken(newClaims)
	return token, errors.Wrap(err, "generating token")
}
