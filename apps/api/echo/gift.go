package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/studyclub/core/gift"
	"github.com/trezcool/studyclub/core/study"
	"github.com/trezcool/studyclub/core/week"
)

type giftApi struct {
	svc      *gift.Service
	studySvc *study.Service
	validate *validator.Validate
}

func registerGiftAPI(
	g *echo.Group,
	svc *gift.Service,
	studySvc *study.Service,
	validate *validator.Validate,
) {
	api := giftApi{
		svc:      svc,
		studySvc: studySvc,
		validate: validate,
	}

	wg := g.Group("/weeks")
	wg.POST("/current/gifts", api.play)
	wg.GET("/:week/gifts", api.query)
}

// Handlers

func (api *giftApi) play(ctx echo.Context) error {
	var data gift.PlayRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to PlayRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	res, err := api.svc.Play(ctx.Request().Context(), api.studySvc.CurrentWeekKey(), data)
	if err != nil {
		switch errors.Cause(err) {
		case gift.ErrGameNotReady:
			return echo.NewHTTPError(http.StatusConflict, gift.ErrGameNotReady.Error())
		case gift.ErrDrawInFlight:
			return echo.NewHTTPError(http.StatusConflict, gift.ErrDrawInFlight.Error())
		}
		return errors.Wrap(err, "playing gift game")
	}
	return ctx.JSON(http.StatusCreated, res)
}

func (api *giftApi) query(ctx echo.Context) error {
	weekKey := ctx.Param("week")
	if !week.ValidKey(weekKey) {
		return errHttpNotFound
	}
	ordering := new(Ordering)
	ordering.Bind(ctx, "from_name", "to_name", "created_at")

	recs, err := api.svc.QueryWeek(ctx.Request().Context(), weekKey, ordering.Orderings...)
	if err != nil {
		return errors.Wrap(err, "querying gift records")
	}
	if recs == nil {
		recs = []gift.Record{}
	}
	return ctx.JSON(http.StatusOK, recs)
}
