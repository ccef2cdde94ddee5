package handler

import (
	"net/http"
	"regexp"

	"github.com/labstack/echo/v4"

	"github.com/oudercomite/ledenportaal/internal/cache"
	"github.com/oudercomite/ledenportaal/internal/model"
	"github.com/oudercomite/ledenportaal/internal/repository"
)

// slugPattern restricts page slugs to url-safe lowercase segments.
var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// PageHandler manages static content pages addressed by slug.
type PageHandler struct {
	Pages *repository.PageRepo
	Inval *cache.Invalidator
}

func NewPageHandler(pages *repository.PageRepo, inval *cache.Invalidator) *PageHandler {
	if pages == nil {
		panic("nil repository passed to NewPageHandler")
	}
	return &PageHandler{Pages: pages, Inval: inval}
}

type pageReq struct {
	Slug    string `json:"slug" validate:"required,max=80"`
	Title   string `json:"title" validate:"required,max=200"`
	Content string `json:"content" validate:"required"`
}

func (h *PageHandler) invalidate(c echo.Context) {
	h.Inval.InvalidatePaths(c.Request().Context(), "/v1/pages")
}

func (h *PageHandler) Create(c echo.Context) error {
	var req pageReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := validate.Struct(req); err != nil || !slugPattern.MatchString(req.Slug) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "slug (lowercase, url-safe), title and content required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	id, err := h.Pages.Create(ctx, model.Page{Slug: req.Slug, Title: req.Title, Content: req.Content})
	if err != nil {
		if err == repository.ErrConflict {
			return c.JSON(http.StatusConflict, echo.Map{"error": "slug already in use"})
		}
		return repoError(c, err)
	}

	p, err := h.Pages.GetByID(ctx, id)
	if err != nil {
		return repoError(c, err)
	}
	h.invalidate(c)
	return c.JSON(http.StatusCreated, p)
}

func (h *PageHandler) Update(c echo.Context) error {
	var req pageReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := validate.Struct(req); err != nil || !slugPattern.MatchString(req.Slug) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "slug (lowercase, url-safe), title and content required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	p := model.Page{ID: c.Param("id"), Slug: req.Slug, Title: req.Title, Content: req.Content}
	if err := h.Pages.Update(ctx, p); err != nil {
		if err == repository.ErrConflict {
			return c.JSON(http.StatusConflict, echo.Map{"error": "slug already in use"})
		}
		return repoError(c, err)
	}

	out, err := h.Pages.GetByID(ctx, p.ID)
	if err != nil {
		return repoError(c, err)
	}
	h.invalidate(c)
	return c.JSON(http.StatusOK, out)
}

// GetBySlug resolves a page by its public slug.
func (h *PageHandler) GetBySlug(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	p, err := h.Pages.GetBySlug(ctx, c.Param("slug"))
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *PageHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	pages, err := h.Pages.List(ctx)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"pages": pages})
}

func (h *PageHandler) Delete(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Pages.Delete(ctx, c.Param("id")); err != nil {
		return repoError(c, err)
	}
	h.invalidate(c)
	return c.NoContent(http.StatusNoContent)
}
