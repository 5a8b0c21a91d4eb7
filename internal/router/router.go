// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up all HTTP routes and middleware chains. It
// organizes routes into the public site and the admin back office with
// their respective middleware stacks.
package router

import (
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"pressfolio/internal/handlers"
	"pressfolio/internal/middleware"
	"pressfolio/internal/session"
	"pressfolio/web"
)

// loginRateLimit protects the credential endpoints from brute force.
const (
	loginRateLimit  = 10
	loginRateWindow = time.Minute
)

// healthHandler reports liveness for load balancer checks.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

// New creates the configured Chi router with all middleware and route
// groups wired up. secureCookies should be true behind TLS.
func New(sessionStore *session.Store, admin *handlers.Admin, auth *handlers.Auth, public *handlers.Public, secureCookies bool) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.LoadSession(sessionStore))

	r.Get("/health", healthHandler)

	// Embedded static assets.
	staticFS, err := fs.Sub(web.StaticFS, "static")
	if err != nil {
		panic(err)
	}
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))

	loginLimiter := middleware.NewRateLimiter(loginRateLimit, loginRateWindow)

	// Admin routes: CSRF everywhere, auth and 2FA gates further in.
	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.NewCSRF(secureCookies))

		r.Get("/login", auth.LoginPage)
		r.With(loginLimiter.Middleware).Post("/login", auth.LoginSubmit)
		r.Post("/logout", auth.Logout)

		// 2FA pages require a session but not completed 2FA.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Get("/2fa/setup", auth.TwoFASetupPage)
			r.Get("/2fa/verify", auth.TwoFAVerifyPage)
			r.With(loginLimiter.Middleware).Post("/2fa/verify", auth.TwoFAVerifySubmit)
		})

		// Authenticated, 2FA-verified admin area.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Use(middleware.Require2FA)

			r.Get("/", admin.Dashboard)
			r.Get("/dashboard", admin.Dashboard)

			r.Route("/posts", func(r chi.Router) {
				r.Get("/", admin.PostsList)
				r.Get("/new", admin.PostNew)
				r.Post("/", admin.PostCreate)
				r.Get("/{id}/edit", admin.PostEdit)
				r.Post("/{id}/edit", admin.PostUpdate)
				r.Delete("/{id}", admin.PostDelete)
			})

			r.Route("/categories", func(r chi.Router) {
				r.Get("/", admin.CategoriesPage)
				r.Post("/", admin.CategoryCreate)
				r.Post("/{id}/edit", admin.CategoryUpdate)
				r.Delete("/{id}", admin.CategoryDelete)
			})

			r.Route("/tags", func(r chi.Router) {
				r.Get("/", admin.TagsPage)
				r.Post("/", admin.TagCreate)
				r.Post("/{id}/edit", admin.TagUpdate)
				r.Delete("/{id}", admin.TagDelete)
			})

			r.Route("/topics", func(r chi.Router) {
				r.Get("/", admin.TopicsPage)
				r.Post("/", admin.TopicCreate)
				r.Post("/{id}/edit", admin.TopicUpdate)
				r.Delete("/{id}", admin.TopicDelete)
			})

			r.Route("/series", func(r chi.Router) {
				r.Get("/", admin.SeriesPage)
				r.Post("/", admin.SeriesCreate)
				r.Post("/{id}/edit", admin.SeriesUpdate)
				r.Delete("/{id}", admin.SeriesDelete)
			})

			r.Route("/media", func(r chi.Router) {
				r.Get("/", admin.MediaLibrary)
				r.Post("/", admin.MediaUpload)
				r.Delete("/{id}", admin.MediaDelete)
			})

			// Admin-only management.
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAdmin)

				r.Route("/users", func(r chi.Router) {
					r.Get("/", admin.UsersList)
					r.Post("/", admin.UserCreate)
					r.Post("/{id}/reset-2fa", admin.UserResetTwoFA)
					r.Delete("/{id}", admin.UserDelete)
				})

				r.Get("/settings", admin.SettingsPage)
				r.Post("/settings", admin.SettingsSave)
			})
		})
	})

	// Public site.
	r.Get("/", public.Homepage)
	r.Get("/blog", public.BlogIndex)
	r.Get("/blog/category/{slug}", public.BlogByCategory)
	r.Get("/blog/tag/{slug}", public.BlogByTag)
	r.Get("/blog/{slug}", public.PostDetail)
	r.Get("/series", public.SeriesIndex)
	r.Get("/series/{slug}", public.SeriesDetail)
	r.Get("/topics", public.TopicsPage)
	r.Get("/about", public.StaticPage("about", "About"))
	r.Get("/services", public.StaticPage("services", "Services"))
	r.Get("/work", public.StaticPage("work", "Work"))
	r.Get("/contact", public.ContactPage)
	r.Get("/rss.xml", public.RSS)
	r.Get("/sitemap.xml", public.Sitemap)

	r.NotFound(public.NotFound)

	return r
}
