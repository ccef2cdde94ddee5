package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/oudercomite/ledenportaal/internal/cache"
	"github.com/oudercomite/ledenportaal/internal/config"
	"github.com/oudercomite/ledenportaal/internal/model"
	"github.com/oudercomite/ledenportaal/internal/policy"
	"github.com/oudercomite/ledenportaal/internal/repository"
)

// UserHandler serves the member directory and the admin-only member
// management endpoints.
type UserHandler struct {
	Cfg   config.Config
	Users *repository.UserRepo
	Teams *repository.TeamRepo
	Inval *cache.Invalidator
}

func NewUserHandler(cfg config.Config, users *repository.UserRepo, teams *repository.TeamRepo, inval *cache.Invalidator) *UserHandler {
	if users == nil || teams == nil {
		panic("nil repository passed to NewUserHandler")
	}
	return &UserHandler{Cfg: cfg, Users: users, Teams: teams, Inval: inval}
}

type createUserReq struct {
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=8"`
	Role     string  `json:"role" validate:"required"`
	Name     *string `json:"name" validate:"omitempty,max=120"`
	TeamID   *string `json:"team_id" validate:"omitempty,uuid4"`
}

type updateUserReq struct {
	Role   string  `json:"role" validate:"required"`
	TeamID *string `json:"team_id" validate:"omitempty,uuid4"`
}

type teamReq struct {
	Name        string  `json:"name" validate:"required,max=200"`
	Description *string `json:"description"`
}

func (h *UserHandler) invalidate(c echo.Context) {
	h.Inval.InvalidatePaths(c.Request().Context(), "/v1/users", "/v1/teams")
}

// Directory lists all members with team and work-group context. Visible to
// every authenticated member.
func (h *UserHandler) Directory(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	users, err := h.Users.List(ctx)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"users": users})
}

// Create provisions a member with an explicit role (admin-only).
func (h *UserHandler) Create(c echo.Context) error {
	var req createUserReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := validate.Struct(req); err != nil || !policy.Role(req.Role).Valid() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email, password and a valid role required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	id, err := h.Users.Create(ctx, req.Email, req.Password, req.Role, req.Name, req.TeamID, h.Cfg.BcryptCost)
	if err != nil {
		return repoError(c, err)
	}

	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		return repoError(c, err)
	}
	h.invalidate(c)
	return c.JSON(http.StatusCreated, u)
}

// Update changes a member's role and team assignment (admin-only).
func (h *UserHandler) Update(c echo.Context) error {
	var req updateUserReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := validate.Struct(req); err != nil || !policy.Role(req.Role).Valid() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "a valid role required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	id := c.Param("id")
	if err := h.Users.UpdateRoleTeam(ctx, id, req.Role, req.TeamID); err != nil {
		return repoError(c, err)
	}

	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		return repoError(c, err)
	}
	h.invalidate(c)
	return c.JSON(http.StatusOK, u)
}

// Delete removes a member and their memberships, sign-ups and vault
// allow-list rows (admin-only). Admins cannot delete themselves, which
// keeps at least the acting admin account alive.
func (h *UserHandler) Delete(c echo.Context) error {
	actor, err := getActor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id := c.Param("id")
	if id == actor.ID {
		return c.JSON(http.StatusConflict, echo.Map{"error": "cannot delete your own account"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Users.Delete(ctx, id); err != nil {
		return repoError(c, err)
	}
	h.invalidate(c)
	return c.NoContent(http.StatusNoContent)
}

// ----- teams -----

func (h *UserHandler) CreateTeam(c echo.Context) error {
	var req teamReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	id, err := h.Teams.Create(ctx, model.Team{Name: req.Name, Description: req.Description})
	if err != nil {
		return repoError(c, err)
	}
	t, err := h.Teams.GetByID(ctx, id)
	if err != nil {
		return repoError(c, err)
	}
	h.invalidate(c)
	return c.JSON(http.StatusCreated, t)
}

func (h *UserHandler) ListTeams(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	teams, err := h.Teams.List(ctx)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"teams": teams})
}

func (h *UserHandler) DeleteTeam(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Teams.Delete(ctx, c.Param("id")); err != nil {
		return repoError(c, err)
	}
	h.invalidate(c)
	return c.NoContent(http.StatusNoContent)
}
