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

type studyApi struct {
	svc      *study.Service
	giftSvc  *gift.Service
	validate *validator.Validate
}

func registerStudyAPI(
	g *echo.Group,
	jwt echo.MiddlewareFunc,
	svc *study.Service,
	giftSvc *gift.Service,
	validate *validator.Validate,
) {
	api := studyApi{
		svc:      svc,
		giftSvc:  giftSvc,
		validate: validate,
	}

	wg := g.Group("/weeks")

	// un-authed endpoints
	wg.GET("/current", api.currentWeek)
	wg.GET("/:week/board", api.board)
	wg.POST("/current/goals", api.registerGoal)
	wg.POST("/current/logs", api.logHours)

	// admin endpoints
	ag := wg.Group("", jwt, adminMiddleware())
	ag.PUT("/:week/participants/:id", api.updateRow)
	ag.DELETE("/:week/participants/:id", api.destroyRow)
	ag.DELETE("/:week", api.resetWeek)
}

// Handlers

func (api *studyApi) currentWeek(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, api.svc.CurrentWeek())
}

func (api *studyApi) board(ctx echo.Context) error {
	weekKey := ctx.Param("week")
	if !week.ValidKey(weekKey) {
		return errHttpNotFound
	}
	ordering := new(Ordering)
	ordering.Bind(ctx, "name", "goal_hours", "studied_hours", "created_at")

	board, err := api.svc.WeekBoard(ctx.Request().Context(), weekKey, ordering.Orderings...)
	if err != nil {
		return errors.Wrap(err, "querying week board")
	}
	return ctx.JSON(http.StatusOK, board)
}

func (api *studyApi) registerGoal(ctx echo.Context) error {
	var data study.NewGoal
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewGoal")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	row, err := api.svc.RegisterGoal(ctx.Request().Context(), data, isElevated(ctx))
	if err != nil {
		switch errors.Cause(err) {
		case study.ErrGateClosed, study.ErrAdminOnly:
			return echo.NewHTTPError(http.StatusForbidden, errors.Cause(err).Error())
		}
		return errors.Wrap(err, "registering goal")
	}
	return ctx.JSON(http.StatusCreated, row)
}

func (api *studyApi) logHours(ctx echo.Context) error {
	var data study.HourLog
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to HourLog")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	res, err := api.svc.LogHours(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "logging hours")
	}
	return ctx.JSON(http.StatusOK, res)
}

func (api *studyApi) updateRow(ctx echo.Context) error {
	weekKey := ctx.Param("week")
	if !week.ValidKey(weekKey) {
		return errHttpNotFound
	}

	var data study.UpdateRow
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateRow")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	row, err := api.svc.UpdateRowByID(ctx.Request().Context(), weekKey, ctx.Param("id"), data)
	if err != nil {
		if errors.Cause(err) == study.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "updating row")
	}
	return ctx.JSON(http.StatusOK, row)
}

func (api *studyApi) destroyRow(ctx echo.Context) error {
	weekKey := ctx.Param("week")
	if !week.ValidKey(weekKey) {
		return errHttpNotFound
	}

	if err := api.svc.DeleteRow(ctx.Request().Context(), weekKey, ctx.Param("id")); err != nil {
		if errors.Cause(err) == study.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "deleting row")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// resetWeek wipes a week's rows and its gift records.
func (api *studyApi) resetWeek(ctx echo.Context) error {
	weekKey := ctx.Param("week")
	if !week.ValidKey(weekKey) {
		return errHttpNotFound
	}

	if err := api.svc.ResetWeek(ctx.Request().Context(), weekKey); err != nil {
		return errors.Wrap(err, "resetting week")
	}
	if err := api.giftSvc.ResetWeek(ctx.Request().Context(), weekKey); err != nil {
		return errors.Wrap(err, "resetting week gifts")
	}
	return ctx.NoContent(http.StatusNoContent)
}
