package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/oudercomite/ledenportaal/internal/cache"
	"github.com/oudercomite/ledenportaal/internal/model"
	"github.com/oudercomite/ledenportaal/internal/repository"
)

// SponsorHandler manages the sponsor gallery.
type SponsorHandler struct {
	Sponsors *repository.SponsorRepo
	Inval    *cache.Invalidator
}

func NewSponsorHandler(sponsors *repository.SponsorRepo, inval *cache.Invalidator) *SponsorHandler {
	if sponsors == nil {
		panic("nil repository passed to NewSponsorHandler")
	}
	return &SponsorHandler{Sponsors: sponsors, Inval: inval}
}

type sponsorReq struct {
	Name        string  `json:"name" validate:"required,max=200"`
	LogoURL     *string `json:"logo_url" validate:"omitempty,url"`
	WebsiteURL  *string `json:"website_url" validate:"omitempty,url"`
	Description *string `json:"description"`
}

func (h *SponsorHandler) invalidate(c echo.Context) {
	h.Inval.InvalidatePaths(c.Request().Context(), "/v1/sponsors")
}

func (h *SponsorHandler) Create(c echo.Context) error {
	var req sponsorReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required; urls must be valid"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	id, err := h.Sponsors.Create(ctx, model.Sponsor{
		Name:        req.Name,
		LogoURL:     req.LogoURL,
		WebsiteURL:  req.WebsiteURL,
		Description: req.Description,
	})
	if err != nil {
		return repoError(c, err)
	}

	s, err := h.Sponsors.GetByID(ctx, id)
	if err != nil {
		return repoError(c, err)
	}
	h.invalidate(c)
	return c.JSON(http.StatusCreated, s)
}

func (h *SponsorHandler) Update(c echo.Context) error {
	var req sponsorReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required; urls must be valid"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	s := model.Sponsor{
		ID:          c.Param("id"),
		Name:        req.Name,
		LogoURL:     req.LogoURL,
		WebsiteURL:  req.WebsiteURL,
		Description: req.Description,
	}
	if err := h.Sponsors.Update(ctx, s); err != nil {
		return repoError(c, err)
	}

	out, err := h.Sponsors.GetByID(ctx, s.ID)
	if err != nil {
		return repoError(c, err)
	}
	h.invalidate(c)
	return c.JSON(http.StatusOK, out)
}

func (h *SponsorHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	sponsors, err := h.Sponsors.List(ctx)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"sponsors": sponsors})
}

func (h *SponsorHandler) Delete(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Sponsors.Delete(ctx, c.Param("id")); err != nil {
		return repoError(c, err)
	}
	h.invalidate(c)
	return c.NoContent(http.StatusNoContent)
}
