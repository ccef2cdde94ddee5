package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/oudercomite/ledenportaal/internal/cache"
	"github.com/oudercomite/ledenportaal/internal/model"
	"github.com/oudercomite/ledenportaal/internal/repository"
)

// WerkgroepHandler manages work-groups and their memberships.
type WerkgroepHandler struct {
	Werkgroepen *repository.WerkgroepRepo
	Users       *repository.UserRepo
	Inval       *cache.Invalidator
}

func NewWerkgroepHandler(w *repository.WerkgroepRepo, users *repository.UserRepo, inval *cache.Invalidator) *WerkgroepHandler {
	if w == nil || users == nil {
		panic("nil repository passed to NewWerkgroepHandler")
	}
	return &WerkgroepHandler{Werkgroepen: w, Users: users, Inval: inval}
}

type werkgroepReq struct {
	Name        string  `json:"name" validate:"required,max=200"`
	Description *string `json:"description"`
}

type memberReq struct {
	UserID string `json:"user_id" validate:"required,uuid4"`
}

func (h *WerkgroepHandler) invalidate(c echo.Context) {
	h.Inval.InvalidatePaths(c.Request().Context(), "/v1/werkgroepen", "/v1/users")
}

func (h *WerkgroepHandler) Create(c echo.Context) error {
	var req werkgroepReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	id, err := h.Werkgroepen.Create(ctx, model.Werkgroep{Name: req.Name, Description: req.Description})
	if err != nil {
		return repoError(c, err)
	}

	w, err := h.Werkgroepen.GetByID(ctx, id)
	if err != nil {
		return repoError(c, err)
	}
	h.invalidate(c)
	return c.JSON(http.StatusCreated, w)
}

func (h *WerkgroepHandler) Update(c echo.Context) error {
	var req werkgroepReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	w := model.Werkgroep{ID: c.Param("id"), Name: req.Name, Description: req.Description}
	if err := h.Werkgroepen.Update(ctx, w); err != nil {
		return repoError(c, err)
	}

	out, err := h.Werkgroepen.GetByID(ctx, w.ID)
	if err != nil {
		return repoError(c, err)
	}
	h.invalidate(c)
	return c.JSON(http.StatusOK, out)
}

func (h *WerkgroepHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	groups, err := h.Werkgroepen.List(ctx)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"werkgroepen": groups})
}

func (h *WerkgroepHandler) Delete(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Werkgroepen.Delete(ctx, c.Param("id")); err != nil {
		return repoError(c, err)
	}
	h.invalidate(c)
	return c.NoContent(http.StatusNoContent)
}

// AddMember places a user in a work-group; adding twice yields 409.
func (h *WerkgroepHandler) AddMember(c echo.Context) error {
	var req memberReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "user_id required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	werkgroepID := c.Param("id")
	if _, err := h.Werkgroepen.GetByID(ctx, werkgroepID); err != nil {
		return repoError(c, err)
	}
	if _, err := h.Users.GetByID(ctx, req.UserID); err != nil {
		return repoError(c, err)
	}
	if err := h.Werkgroepen.AddMember(ctx, req.UserID, werkgroepID); err != nil {
		return repoError(c, err)
	}
	h.invalidate(c)
	return c.NoContent(http.StatusNoContent)
}

func (h *WerkgroepHandler) RemoveMember(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Werkgroepen.RemoveMember(ctx, c.Param("userID"), c.Param("id")); err != nil {
		return repoError(c, err)
	}
	h.invalidate(c)
	return c.NoContent(http.StatusNoContent)
}
