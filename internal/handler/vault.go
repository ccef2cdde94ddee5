package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/oudercomite/ledenportaal/internal/cache"
	"github.com/oudercomite/ledenportaal/internal/model"
	"github.com/oudercomite/ledenportaal/internal/policy"
	"github.com/oudercomite/ledenportaal/internal/repository"
	"github.com/oudercomite/ledenportaal/internal/service"
)

// VaultHandler exposes the shared password vault. Reads are filtered per
// entry by the visibility channels; writes are admin-only (enforced in the
// router).
type VaultHandler struct {
	Service *service.VaultService
	Vault   *repository.VaultRepo
	Inval   *cache.Invalidator
}

func NewVaultHandler(svc *service.VaultService, vault *repository.VaultRepo, inval *cache.Invalidator) *VaultHandler {
	if svc == nil || vault == nil {
		panic("nil dependency passed to NewVaultHandler")
	}
	return &VaultHandler{Service: svc, Vault: vault, Inval: inval}
}

type vaultEntryReq struct {
	Platform          string   `json:"platform" validate:"required,max=200"`
	Username          *string  `json:"username" validate:"omitempty,max=200"`
	Password          string   `json:"password" validate:"required"`
	URL               *string  `json:"url" validate:"omitempty,url"`
	Notes             *string  `json:"notes"`
	VisibilityAdmin   bool     `json:"visibility_admin"`
	VisibilityKernlid bool     `json:"visibility_kernlid"`
	VisibilityCustom  bool     `json:"visibility_custom"`
	AllowedUserIDs    []string `json:"allowed_user_ids" validate:"dive,uuid4"`
}

func (r vaultEntryReq) toModel(id string) model.VaultEntry {
	return model.VaultEntry{
		ID:                id,
		Platform:          r.Platform,
		Username:          r.Username,
		Password:          r.Password,
		URL:               r.URL,
		Notes:             r.Notes,
		VisibilityAdmin:   r.VisibilityAdmin,
		VisibilityKernlid: r.VisibilityKernlid,
		VisibilityCustom:  r.VisibilityCustom,
		AllowedUserIDs:    r.AllowedUserIDs,
	}
}

func (h *VaultHandler) invalidate(c echo.Context) {
	h.Inval.InvalidatePaths(c.Request().Context(), "/v1/vault")
}

func (h *VaultHandler) Create(c echo.Context) error {
	var req vaultEntryReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "platform and password required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	entry, err := h.Service.Create(ctx, req.toModel(""))
	if err != nil {
		return repoError(c, err)
	}
	h.invalidate(c)
	return c.JSON(http.StatusCreated, entry)
}

func (h *VaultHandler) Update(c echo.Context) error {
	var req vaultEntryReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "platform and password required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	entry, err := h.Service.Update(ctx, req.toModel(c.Param("id")))
	if err != nil {
		return repoError(c, err)
	}
	h.invalidate(c)
	return c.JSON(http.StatusOK, entry)
}

// List returns only the entries visible to the requesting member.
func (h *VaultHandler) List(c echo.Context) error {
	actor, err := getActor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	entries, err := h.Service.ListVisible(ctx, actor)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"entries": entries})
}

// Get returns a single entry when at least one of its visibility channels
// admits the requesting member.
func (h *VaultHandler) Get(c echo.Context) error {
	actor, err := getActor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	entry, err := h.Vault.GetEntry(ctx, c.Param("id"))
	if err != nil {
		return repoError(c, err)
	}
	if !policy.CanView(entry, actor) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	return c.JSON(http.StatusOK, entry)
}

func (h *VaultHandler) Delete(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Service.Delete(ctx, c.Param("id")); err != nil {
		return repoError(c, err)
	}
	h.invalidate(c)
	return c.NoContent(http.StatusNoContent)
}
