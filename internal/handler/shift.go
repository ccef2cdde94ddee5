package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/oudercomite/ledenportaal/internal/cache"
	"github.com/oudercomite/ledenportaal/internal/model"
	"github.com/oudercomite/ledenportaal/internal/repository"
)

// ShiftHandler manages volunteer shifts under events.
type ShiftHandler struct {
	Shifts *repository.ShiftRepo
	Events *repository.EventRepo
	Inval  *cache.Invalidator
}

func NewShiftHandler(shifts *repository.ShiftRepo, events *repository.EventRepo, inval *cache.Invalidator) *ShiftHandler {
	if shifts == nil || events == nil {
		panic("nil repository passed to NewShiftHandler")
	}
	return &ShiftHandler{Shifts: shifts, Events: events, Inval: inval}
}

type shiftReq struct {
	EventID     string    `json:"event_id" validate:"required,uuid4"`
	Title       string    `json:"title" validate:"required,max=200"`
	Description *string   `json:"description"`
	StartTime   time.Time `json:"start_time" validate:"required"`
	EndTime     time.Time `json:"end_time" validate:"required"`
	MaxSlots    int       `json:"max_slots" validate:"required,min=1"`
}

func (h *ShiftHandler) invalidate(c echo.Context) {
	h.Inval.InvalidatePaths(c.Request().Context(), "/v1/shifts", "/v1/events")
}

func (h *ShiftHandler) Create(c echo.Context) error {
	var req shiftReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "event_id, title, time window and max_slots >= 1 required"})
	}
	if !req.EndTime.After(req.StartTime) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "end_time must be after start_time"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	// The parent event must exist; a dangling shift is never created.
	if _, err := h.Events.GetByID(ctx, req.EventID); err != nil {
		return repoError(c, err)
	}

	id, err := h.Shifts.Create(ctx, model.Shift{
		EventID:     req.EventID,
		Title:       req.Title,
		Description: req.Description,
		StartTime:   req.StartTime.UTC(),
		EndTime:     req.EndTime.UTC(),
		MaxSlots:    req.MaxSlots,
	})
	if err != nil {
		return repoError(c, err)
	}

	s, err := h.Shifts.GetByID(ctx, id)
	if err != nil {
		return repoError(c, err)
	}
	h.invalidate(c)
	return c.JSON(http.StatusCreated, s)
}

// Update rewrites a shift. Lowering max_slots below the current sign-up
// count is allowed; existing sign-ups are never evicted, the shift simply
// reports full until enough members cancel.
func (h *ShiftHandler) Update(c echo.Context) error {
	var req shiftReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "event_id, title, time window and max_slots >= 1 required"})
	}
	if !req.EndTime.After(req.StartTime) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "end_time must be after start_time"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	s := model.Shift{
		ID:          c.Param("id"),
		EventID:     req.EventID,
		Title:       req.Title,
		Description: req.Description,
		StartTime:   req.StartTime.UTC(),
		EndTime:     req.EndTime.UTC(),
		MaxSlots:    req.MaxSlots,
	}
	if err := h.Shifts.Update(ctx, s); err != nil {
		return repoError(c, err)
	}

	out, err := h.Shifts.GetByID(ctx, s.ID)
	if err != nil {
		return repoError(c, err)
	}
	h.invalidate(c)
	return c.JSON(http.StatusOK, out)
}

func (h *ShiftHandler) Get(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	s, err := h.Shifts.GetByID(ctx, c.Param("id"))
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, s)
}

// List returns all shifts, or the shifts of one event when the event_id
// query parameter is set.
func (h *ShiftHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	if eventID := c.QueryParam("event_id"); eventID != "" {
		shifts, err := h.Shifts.ListByEvent(ctx, eventID)
		if err != nil {
			return repoError(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"shifts": shifts})
	}
	shifts, err := h.Shifts.List(ctx)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"shifts": shifts})
}

// Delete removes a shift and all its sign-ups.
func (h *ShiftHandler) Delete(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Shifts.Delete(ctx, c.Param("id")); err != nil {
		return repoError(c, err)
	}
	h.invalidate(c)
	return c.NoContent(http.StatusNoContent)
}
