package handler

import (
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/oudercomite/ledenportaal/internal/cache"
	"github.com/oudercomite/ledenportaal/internal/queue"
	"github.com/oudercomite/ledenportaal/internal/repository"
	"github.com/oudercomite/ledenportaal/internal/service"
)

// SignupHandler exposes shift sign-up operations. Capacity and uniqueness
// are enforced by the signup service; this layer only translates HTTP.
type SignupHandler struct {
	Service *service.SignupService
	Shifts  *repository.ShiftRepo
	Signups *repository.SignupRepo
	Events  *repository.EventRepo
	Users   *repository.UserRepo
	Inval   *cache.Invalidator
}

func NewSignupHandler(svc *service.SignupService, shifts *repository.ShiftRepo, signups *repository.SignupRepo, events *repository.EventRepo, users *repository.UserRepo, inval *cache.Invalidator) *SignupHandler {
	if svc == nil || shifts == nil || signups == nil || events == nil || users == nil {
		panic("nil dependency passed to NewSignupHandler")
	}
	return &SignupHandler{Service: svc, Shifts: shifts, Signups: signups, Events: events, Users: users, Inval: inval}
}

type signupReq struct {
	ShiftID string `json:"shift_id" validate:"required,uuid4"`
}

// Create claims one slot on a shift for the authenticated member.
// Responses: 201 on success, 404 when the shift does not exist, 409 when
// the shift is full or the member is already signed up.
func (h *SignupHandler) Create(c echo.Context) error {
	actor, err := getActor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req signupReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "shift_id required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	su, err := h.Service.RequestSignUp(ctx, req.ShiftID, actor.ID)
	if err != nil {
		return repoError(c, err)
	}

	h.publishConfirmed(c, su.ID, su.ShiftID, actor.ID)
	h.Inval.InvalidatePaths(c.Request().Context(), "/v1/shifts", "/v1/signups")
	return c.JSON(http.StatusCreated, su)
}

// Cancel releases a claimed slot. Members can only cancel their own
// sign-ups; cancelling one that no longer exists succeeds quietly so
// retries are harmless.
func (h *SignupHandler) Cancel(c echo.Context) error {
	actor, err := getActor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Service.CancelSignUp(ctx, c.Param("id"), actor.ID); err != nil {
		return repoError(c, err)
	}
	h.Inval.InvalidatePaths(c.Request().Context(), "/v1/shifts", "/v1/signups")
	return c.NoContent(http.StatusNoContent)
}

// ListByShift returns the roster of one shift including member details.
func (h *SignupHandler) ListByShift(c echo.Context) error {
	shiftID := c.QueryParam("shift_id")
	if shiftID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "shift_id query parameter required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if _, err := h.Shifts.GetByID(ctx, shiftID); err != nil {
		return repoError(c, err)
	}
	signups, err := h.Signups.ListByShift(ctx, shiftID)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"signups": signups})
}

// MySignups returns the authenticated member's sign-ups with shift and
// event context.
func (h *SignupHandler) MySignups(c echo.Context) error {
	actor, err := getActor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	signups, err := h.Signups.ListByUser(ctx, actor.ID)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"signups": signups})
}

// Occupancy reports slot usage for a shift.
func (h *SignupHandler) Occupancy(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	occ, err := h.Service.GetOccupancy(ctx, c.Param("id"))
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, occ)
}

// publishConfirmed gathers context for the signup.confirmed event and
// publishes it best-effort; a lost event never fails the request.
func (h *SignupHandler) publishConfirmed(c echo.Context, signupID, shiftID, userID string) {
	ctx, cancel := reqCtx(c)
	defer cancel()

	shift, err := h.Shifts.GetByID(ctx, shiftID)
	if err != nil {
		log.Printf("signup: load shift for event failed: %v", err)
		return
	}
	user, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		log.Printf("signup: load user for event failed: %v", err)
		return
	}
	event, err := h.Events.GetByID(ctx, shift.EventID)
	if err != nil {
		log.Printf("signup: load event for event failed: %v", err)
		return
	}
	count, err := h.Signups.CountByShift(ctx, shiftID)
	if err != nil {
		log.Printf("signup: count for event failed: %v", err)
		return
	}

	_ = queue.PublishSignupConfirmed(ctx, queue.SignupConfirmedEvent{
		SignupID:   signupID,
		ShiftID:    shift.ID,
		ShiftTitle: shift.Title,
		EventID:    event.ID,
		EventTitle: event.Title,
		UserID:     user.ID,
		UserEmail:  user.Email,
		StartsAt:   shift.StartTime.Format(time.RFC3339),
		EndsAt:     shift.EndTime.Format(time.RFC3339),
		SlotsTaken: count,
		MaxSlots:   shift.MaxSlots,
		SignedUpAt: time.Now().UTC().Format(time.RFC3339),
	})
}
