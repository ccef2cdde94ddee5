package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/oudercomite/ledenportaal/internal/cache"
	"github.com/oudercomite/ledenportaal/internal/model"
	"github.com/oudercomite/ledenportaal/internal/policy"
	"github.com/oudercomite/ledenportaal/internal/repository"
)

// NewsHandler serves news items and their comment threads.
type NewsHandler struct {
	News  *repository.NewsRepo
	Inval *cache.Invalidator
}

func NewNewsHandler(news *repository.NewsRepo, inval *cache.Invalidator) *NewsHandler {
	if news == nil {
		panic("nil repository passed to NewNewsHandler")
	}
	return &NewsHandler{News: news, Inval: inval}
}

type newsReq struct {
	Title    string  `json:"title" validate:"required,max=200"`
	Content  string  `json:"content" validate:"required"`
	ImageURL *string `json:"image_url" validate:"omitempty,url"`
}

type commentReq struct {
	Content string `json:"content" validate:"required,max=2000"`
}

func (h *NewsHandler) invalidate(c echo.Context) {
	h.Inval.InvalidatePaths(c.Request().Context(), "/v1/news")
}

func (h *NewsHandler) Create(c echo.Context) error {
	actor, err := getActor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req newsReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title and content required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	id, err := h.News.Create(ctx, model.News{
		Title:    req.Title,
		Content:  req.Content,
		ImageURL: req.ImageURL,
		AuthorID: actor.ID,
	})
	if err != nil {
		return repoError(c, err)
	}

	n, err := h.News.GetByID(ctx, id)
	if err != nil {
		return repoError(c, err)
	}
	h.invalidate(c)
	return c.JSON(http.StatusCreated, n)
}

func (h *NewsHandler) Update(c echo.Context) error {
	var req newsReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title and content required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	n := model.News{ID: c.Param("id"), Title: req.Title, Content: req.Content, ImageURL: req.ImageURL}
	if err := h.News.Update(ctx, n); err != nil {
		return repoError(c, err)
	}

	out, err := h.News.GetByID(ctx, n.ID)
	if err != nil {
		return repoError(c, err)
	}
	h.invalidate(c)
	return c.JSON(http.StatusOK, out)
}

func (h *NewsHandler) Get(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	n, err := h.News.GetByID(ctx, c.Param("id"))
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, n)
}

func (h *NewsHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	items, err := h.News.List(ctx)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"news": items})
}

func (h *NewsHandler) Delete(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.News.Delete(ctx, c.Param("id")); err != nil {
		return repoError(c, err)
	}
	h.invalidate(c)
	return c.NoContent(http.StatusNoContent)
}

// ----- comments -----

func (h *NewsHandler) CreateComment(c echo.Context) error {
	actor, err := getActor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req commentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "content required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	newsID := c.Param("id")
	if _, err := h.News.GetByID(ctx, newsID); err != nil {
		return repoError(c, err)
	}

	id, err := h.News.CreateComment(ctx, model.NewsComment{
		NewsID:  newsID,
		UserID:  actor.ID,
		Content: req.Content,
	})
	if err != nil {
		return repoError(c, err)
	}

	cm, err := h.News.GetComment(ctx, id)
	if err != nil {
		return repoError(c, err)
	}
	h.invalidate(c)
	return c.JSON(http.StatusCreated, cm)
}

// UpdateComment lets a member edit their own comment only.
func (h *NewsHandler) UpdateComment(c echo.Context) error {
	actor, err := getActor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req commentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "content required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	cm, err := h.News.GetComment(ctx, c.Param("commentID"))
	if err != nil {
		return repoError(c, err)
	}
	if cm.UserID != actor.ID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	if err := h.News.UpdateComment(ctx, cm.ID, req.Content); err != nil {
		return repoError(c, err)
	}
	out, err := h.News.GetComment(ctx, cm.ID)
	if err != nil {
		return repoError(c, err)
	}
	h.invalidate(c)
	return c.JSON(http.StatusOK, out)
}

func (h *NewsHandler) ListComments(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	newsID := c.Param("id")
	if _, err := h.News.GetByID(ctx, newsID); err != nil {
		return repoError(c, err)
	}
	comments, err := h.News.ListComments(ctx, newsID)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"comments": comments})
}

// DeleteComment removes a comment. Authors delete their own; admins may
// delete any.
func (h *NewsHandler) DeleteComment(c echo.Context) error {
	actor, err := getActor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	cm, err := h.News.GetComment(ctx, c.Param("commentID"))
	if err != nil {
		return repoError(c, err)
	}
	if cm.UserID != actor.ID && actor.Role != policy.RoleAdmin {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	if err := h.News.DeleteComment(ctx, cm.ID); err != nil {
		return repoError(c, err)
	}
	h.invalidate(c)
	return c.NoContent(http.StatusNoContent)
}
