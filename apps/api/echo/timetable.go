package echoapi

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/ratiba/core"
	"github.com/trezcool/ratiba/core/timetable"
)

const dateLayout = "2006-01-02"

type timetableApi struct {
	svc      *timetable.Service
	validate *validator.Validate
}

func registerTimetableAPI(g *echo.Group, svc *timetable.Service, validate *validator.Validate) {
	api := timetableApi{svc: svc, validate: validate}

	cg := g.Group("/classes")
	cg.GET("", api.queryClasses)
	cg.POST("", api.createClass)

	// stable (baseline) view & template edits
	tg := cg.Group("/:id/timetable")
	tg.GET("", api.stableWeek)
	tg.POST("", api.createStableLesson)

	// per-week views & overrides; :date is any date within the week
	wg := cg.Group("/:id/weeks/:date")
	wg.GET("", api.effectiveWeek)
	wg.GET("/overrides", api.weekOverrides)
	wg.POST("/overrides", api.createWeekLesson)
	wg.POST("/materialize", api.materializeWeek)

	lg := g.Group("/timetable/lessons/:id")
	lg.PUT("", api.updateStableLesson)
	lg.DELETE("", api.destroyStableLesson)

	olg := g.Group("/weeks/lessons/:id")
	olg.PATCH("", api.updateWeekLesson)
	olg.DELETE("", api.destroyWeekLesson)
}

// Handlers

func (api *timetableApi) queryClasses(ctx echo.Context) error {
	classes, err := api.svc.QueryAllClasses(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying classes")
	}
	return ctx.JSON(http.StatusOK, classes)
}

func (api *timetableApi) createClass(ctx echo.Context) error {
	var data timetable.NewClass
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewClass")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	cls, err := api.svc.CreateClass(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating class")
	}
	return ctx.JSON(http.StatusCreated, cls)
}

func (api *timetableApi) stableWeek(ctx echo.Context) error {
	week, err := api.svc.StableWeek(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, week)
}

func (api *timetableApi) createStableLesson(ctx echo.Context) error {
	var data timetable.NewStableLesson
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewStableLesson")
	}
	data.ClassID = ctx.Param("id")
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	les, err := api.svc.CreateStableLesson(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, les)
}

func (api *timetableApi) updateStableLesson(ctx echo.Context) error {
	var data timetable.UpdateStableLesson
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateStableLesson")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	les, err := api.svc.UpdateStableLesson(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, les)
}

func (api *timetableApi) destroyStableLesson(ctx echo.Context) error {
	if err := api.svc.DeleteStableLesson(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting stable lesson")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *timetableApi) effectiveWeek(ctx echo.Context) error {
	date, err := parseDate(ctx)
	if err != nil {
		return err
	}
	week, err := api.svc.EffectiveWeek(ctx.Request().Context(), ctx.Param("id"), date)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, week)
}

func (api *timetableApi) weekOverrides(ctx echo.Context) error {
	date, err := parseDate(ctx)
	if err != nil {
		return err
	}
	lessons, err := api.svc.WeekOverrides(ctx.Request().Context(), ctx.Param("id"), date)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, lessons)
}

func (api *timetableApi) createWeekLesson(ctx echo.Context) error {
	date, err := parseDate(ctx)
	if err != nil {
		return err
	}

	var data timetable.NewWeekLesson
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewWeekLesson")
	}
	data.ClassID = ctx.Param("id")
	data.WeekStart = date
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	les, err := api.svc.CreateWeekLesson(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, les)
}

func (api *timetableApi) updateWeekLesson(ctx echo.Context) error {
	var data timetable.UpdateWeekLesson
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateWeekLesson")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	les, err := api.svc.UpdateWeekLesson(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, les)
}

func (api *timetableApi) destroyWeekLesson(ctx echo.Context) error {
	if err := api.svc.DeleteWeekLesson(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting week lesson")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *timetableApi) materializeWeek(ctx echo.Context) error {
	date, err := parseDate(ctx)
	if err != nil {
		return err
	}
	lessons, err := api.svc.CopyWeekFromStable(ctx.Request().Context(), ctx.Param("id"), date)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, lessons)
}

func parseDate(ctx echo.Context) (time.Time, error) {
	date, err := time.Parse(dateLayout, ctx.Param("date"))
	if err != nil {
		return time.Time{}, core.NewValidationError(err, core.FieldError{Field: "date", Error: "expected a YYYY-MM-DD date"})
	}
	return date, nil
}
