package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/oudercomite/ledenportaal/internal/cache"
	"github.com/oudercomite/ledenportaal/internal/model"
	"github.com/oudercomite/ledenportaal/internal/repository"
)

// EventHandler serves the events agenda. Listing is open to all members;
// mutations are gated by the manage-content capability in the router.
type EventHandler struct {
	Events *repository.EventRepo
	Inval  *cache.Invalidator
}

func NewEventHandler(events *repository.EventRepo, inval *cache.Invalidator) *EventHandler {
	if events == nil {
		panic("nil repository passed to NewEventHandler")
	}
	return &EventHandler{Events: events, Inval: inval}
}

type eventReq struct {
	Title       string    `json:"title" validate:"required,max=200"`
	Description *string   `json:"description"`
	Date        time.Time `json:"date" validate:"required"`
	Location    *string   `json:"location" validate:"omitempty,max=200"`
	ImageURL    *string   `json:"image_url" validate:"omitempty,url"`
}

func (h *EventHandler) invalidate(c echo.Context) {
	h.Inval.InvalidatePaths(c.Request().Context(), "/v1/events")
}

func (h *EventHandler) Create(c echo.Context) error {
	var req eventReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title and date required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	id, err := h.Events.Create(ctx, model.Event{
		Title:       req.Title,
		Description: req.Description,
		Date:        req.Date.UTC(),
		Location:    req.Location,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		return repoError(c, err)
	}

	ev, err := h.Events.GetByID(ctx, id)
	if err != nil {
		return repoError(c, err)
	}
	h.invalidate(c)
	return c.JSON(http.StatusCreated, ev)
}

func (h *EventHandler) Update(c echo.Context) error {
	var req eventReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title and date required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	ev := model.Event{
		ID:          c.Param("id"),
		Title:       req.Title,
		Description: req.Description,
		Date:        req.Date.UTC(),
		Location:    req.Location,
		ImageURL:    req.ImageURL,
	}
	if err := h.Events.Update(ctx, ev); err != nil {
		return repoError(c, err)
	}

	out, err := h.Events.GetByID(ctx, ev.ID)
	if err != nil {
		return repoError(c, err)
	}
	h.invalidate(c)
	return c.JSON(http.StatusOK, out)
}

func (h *EventHandler) Get(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	ev, err := h.Events.GetByID(ctx, c.Param("id"))
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, ev)
}

func (h *EventHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	events, err := h.Events.List(ctx)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"events": events})
}

// Delete removes an event together with its shifts and their sign-ups.
func (h *EventHandler) Delete(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Events.Delete(ctx, c.Param("id")); err != nil {
		return repoError(c, err)
	}
	h.Inval.InvalidatePaths(c.Request().Context(), "/v1/events", "/v1/shifts")
	return c.NoContent(http.StatusNoContent)
}
