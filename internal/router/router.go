// Package router wires the HTTP routes to their handlers and applies the
// authentication and capability middleware.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/oudercomite/ledenportaal/internal/handler"
	"github.com/oudercomite/ledenportaal/internal/middleware"
	"github.com/oudercomite/ledenportaal/internal/policy"
)

// Handlers collects every handler the API serves.
type Handlers struct {
	Auth       *handler.AuthHandler
	Events     *handler.EventHandler
	Shifts     *handler.ShiftHandler
	Signups    *handler.SignupHandler
	News       *handler.NewsHandler
	Sponsors   *handler.SponsorHandler
	Pages      *handler.PageHandler
	Vault      *handler.VaultHandler
	Werkgroep  *handler.WerkgroepHandler
	Users      *handler.UserHandler
	Uploads    *handler.UploadHandler
}

// Register mounts all routes on the Echo instance. Unauthenticated routes
// are the health check and the auth endpoints; everything else requires a
// valid access token, with write surfaces further gated per capability.
func Register(e *echo.Echo, h Handlers, jwtSecret string) {
	e.GET("/healthz", handler.Health)

	// Session endpoints; no token required.
	ag := e.Group("/v1/auth")
	ag.POST("/register", h.Auth.Register)
	ag.POST("/login", h.Auth.Login)
	ag.POST("/refresh", h.Auth.Refresh)
	ag.POST("/refresh-access", h.Auth.RefreshAccess)
	ag.POST("/logout", h.Auth.Logout)
	ag.POST("/magic-link", h.Auth.MagicLinkRequest)
	ag.POST("/magic-link/exchange", h.Auth.MagicLinkExchange)
	ag.GET("/magic-link/exchange", h.Auth.MagicLinkExchange)

	// Every other endpoint requires an authenticated member.
	v1 := e.Group("/v1", middleware.JWTAuth(jwtSecret))
	v1.GET("/me", h.Auth.Me)

	// Read surfaces open to all roles.
	v1.GET("/events", h.Events.List)
	v1.GET("/events/:id", h.Events.Get)
	v1.GET("/shifts", h.Shifts.List)
	v1.GET("/shifts/:id", h.Shifts.Get)
	v1.GET("/shifts/:id/occupancy", h.Signups.Occupancy)
	v1.GET("/signups", h.Signups.ListByShift)
	v1.GET("/my-signups", h.Signups.MySignups)
	v1.GET("/news", h.News.List)
	v1.GET("/news/:id", h.News.Get)
	v1.GET("/news/:id/comments", h.News.ListComments)
	v1.GET("/sponsors", h.Sponsors.List)
	v1.GET("/pages", h.Pages.List)
	v1.GET("/pages/:slug", h.Pages.GetBySlug)
	v1.GET("/users", h.Users.Directory)
	v1.GET("/teams", h.Users.ListTeams)
	v1.GET("/werkgroepen", h.Werkgroep.List)

	// Shift sign-ups, open to every member role.
	su := v1.Group("", middleware.RequireCapability(policy.SignUpShift))
	su.POST("/signups", h.Signups.Create)
	su.DELETE("/signups/:id", h.Signups.Cancel)

	// News comments.
	cm := v1.Group("", middleware.RequireCapability(policy.CommentNews))
	cm.POST("/news/:id/comments", h.News.CreateComment)
	cm.PUT("/news/:id/comments/:commentID", h.News.UpdateComment)
	cm.DELETE("/news/:id/comments/:commentID", h.News.DeleteComment)

	// Content management: events, shifts, news, sponsors, pages.
	mc := v1.Group("", middleware.RequireCapability(policy.ManageContent))
	mc.POST("/events", h.Events.Create)
	mc.PUT("/events/:id", h.Events.Update)
	mc.DELETE("/events/:id", h.Events.Delete)
	mc.POST("/shifts", h.Shifts.Create)
	mc.PUT("/shifts/:id", h.Shifts.Update)
	mc.DELETE("/shifts/:id", h.Shifts.Delete)
	mc.POST("/news", h.News.Create)
	mc.PUT("/news/:id", h.News.Update)
	mc.DELETE("/news/:id", h.News.Delete)
	mc.POST("/sponsors", h.Sponsors.Create)
	mc.PUT("/sponsors/:id", h.Sponsors.Update)
	mc.DELETE("/sponsors/:id", h.Sponsors.Delete)
	mc.POST("/werkgroepen", h.Werkgroep.Create)
	mc.PUT("/werkgroepen/:id", h.Werkgroep.Update)
	mc.DELETE("/werkgroepen/:id", h.Werkgroep.Delete)
	mc.POST("/werkgroepen/:id/members", h.Werkgroep.AddMember)
	mc.DELETE("/werkgroepen/:id/members/:userID", h.Werkgroep.RemoveMember)

	// Image uploads back content management.
	up := v1.Group("", middleware.RequireCapability(policy.UploadImage))
	up.POST("/uploads", h.Uploads.Upload)

	// Vault reads are per-entry filtered; writes are admin-only.
	bv := v1.Group("", middleware.RequireCapability(policy.BrowseVault))
	bv.GET("/vault", h.Vault.List)
	bv.GET("/vault/:id", h.Vault.Get)
	mv := v1.Group("", middleware.RequireCapability(policy.ManageVault))
	mv.POST("/vault", h.Vault.Create)
	mv.PUT("/vault/:id", h.Vault.Update)
	mv.DELETE("/vault/:id", h.Vault.Delete)

	// Portal administration: members, teams, static pages.
	mp := v1.Group("", middleware.RequireCapability(policy.ManagePortal))
	mp.POST("/users", h.Users.Create)
	mp.PUT("/users/:id", h.Users.Update)
	mp.DELETE("/users/:id", h.Users.Delete)
	mp.POST("/teams", h.Users.CreateTeam)
	mp.DELETE("/teams/:id", h.Users.DeleteTeam)
	mp.POST("/pages", h.Pages.Create)
	mp.PUT("/pages/:id", h.Pages.Update)
	mp.DELETE("/pages/:id", h.Pages.Delete)
}
