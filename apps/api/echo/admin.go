package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/studyclub/core/admin"
)

type adminApi struct {
	svc      *admin.Service
	validate *validator.Validate
}

func registerAdminAPI(
	g *echo.Group,
	jwt echo.MiddlewareFunc,
	svc *admin.Service,
	validate *validator.Validate,
) {
	api := adminApi{
		svc:      svc,
		validate: validate,
	}

	ag := g.Group("/admin")

	// un-authed endpoints
	ag.POST("/login", api.login)

	// authed endpoints
	ag.POST("/token-refresh", api.refreshToken, jwt)
}

// Handlers

func (api *adminApi) login(ctx echo.Context) error {
	var data admin.Credentials
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Credentials")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	claims, err := authenticate(ctx.Request().Context(), data, api.svc)
	if err != nil {
		return err
	}
	token, err := GenerateToken(claims)
	if err != nil {
		return errors.Wrap(err, "generating token")
	}

	return ctx.JSON(http.StatusOK, LoginResponse{Token: token})
}

func (api *adminApi) refreshToken(ctx echo.Context) error {
	token, err := refreshToken(ctx, api.svc)
	if err != nil {
		return errors.Wrap(err, "refreshing token")
	}
	return ctx.JSON(http.StatusOK, LoginResponse{Token: token})
}

type LoginResponse struct {
	Token string `json:"token"`
}
