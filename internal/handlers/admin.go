// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the HTTP handlers for the content hub.
// Handlers are grouped by concern (admin, public, auth) and receive
// their dependencies through the handler struct.
package handlers

import (
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"pressfolio/internal/cache"
	"pressfolio/internal/middleware"
	"pressfolio/internal/models"
	"pressfolio/internal/readtime"
	"pressfolio/internal/render"
	"pressfolio/internal/session"
	"pressfolio/internal/slug"
	"pressfolio/internal/storage"
	"pressfolio/internal/store"
)

const postsPerAdminPage = 10

// Admin groups all admin panel HTTP handlers and their dependencies.
type Admin struct {
	renderer   *render.Renderer
	sessions   *session.Store
	posts      *store.PostStore
	categories *store.CategoryStore
	tags       *store.TagStore
	topics     *store.TopicStore
	series     *store.SeriesStore
	users      *store.UserStore
	media      *store.MediaStore
	settings   *store.SiteSettingStore
	storage    *storage.Client
	pageCache  *cache.PageCache
}

// NewAdmin creates a new Admin handler group with the given dependencies.
// storage may be nil when S3 is not configured.
func NewAdmin(renderer *render.Renderer, sessions *session.Store, posts *store.PostStore, categories *store.CategoryStore, tags *store.TagStore, topics *store.TopicStore, series *store.SeriesStore, users *store.UserStore, media *store.MediaStore, settings *store.SiteSettingStore, storageClient *storage.Client, pageCache *cache.PageCache) *Admin {
	return &Admin{
		renderer:   renderer,
		sessions:   sessions,
		posts:      posts,
		categories: categories,
		tags:       tags,
		topics:     topics,
		series:     series,
		users:      users,
		media:      media,
		settings:   settings,
		storage:    storageClient,
		pageCache:  pageCache,
	}
}

// postStatuses lists the statuses offered in admin dropdowns.
var postStatuses = []models.PostStatus{
	models.PostStatusDraft,
	models.PostStatusPublished,
	models.PostStatusScheduled,
	models.PostStatusArchived,
}

// Dashboard renders the admin dashboard with content stats.
func (a *Admin) Dashboard(w http.ResponseWriter, r *http.Request) {
	postCount, _ := a.posts.Count()
	_, publishedCount, _ := a.posts.List(store.PostFilter{Status: models.PostStatusPublished, Limit: 1})
	cats, _ := a.categories.List()
	var mediaCount int
	if a.media != nil {
		mediaCount, _ = a.media.Count()
	}
	recent, _, _ := a.posts.List(store.PostFilter{Limit: 5})

	a.renderer.Page(w, r, "dashboard", &render.PageData{
		Title:   "Dashboard",
		Section: "dashboard",
		Data: map[string]any{
			"PostCount":      postCount,
			"PublishedCount": publishedCount,
			"CategoryCount":  len(cats),
			"MediaCount":     mediaCount,
			"RecentPosts":    recent,
		},
	})
}

// --- Posts ---

// PostsList renders the posts management page with filters and pagination.
func (a *Admin) PostsList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := store.PostFilter{
		Query: q.Get("q"),
		Limit: postsPerAdminPage,
	}
	if page, err := strconv.Atoi(q.Get("page")); err == nil && page > 0 {
		filter.Page = page
	}
	if st := models.PostStatus(q.Get("status")); models.ValidStatus(st) {
		filter.Status = st
	}
	categoryID := q.Get("category")
	if cid, err := uuid.Parse(categoryID); err == nil {
		filter.CategoryID = &cid
	} else {
		categoryID = ""
	}

	posts, total, err := a.posts.List(filter)
	if err != nil {
		slog.Error("list posts failed", "error", err)
	}

	cats, _ := a.categories.List()

	page := filter.Page
	if page < 1 {
		page = 1
	}
	totalPages := (total + postsPerAdminPage - 1) / postsPerAdminPage

	a.renderer.Page(w, r, "posts", &render.PageData{
		Title:   "Posts",
		Section: "posts",
		Data: map[string]any{
			"Posts":           posts,
			"Query":           filter.Query,
			"Status":          filter.Status,
			"Statuses":        postStatuses,
			"CategoryID":      categoryID,
			"CategoryOptions": store.SelectorOptions(cats),
			"Page":            page,
			"TotalPages":      totalPages,
			"Pages":           pageNumbers(totalPages),
			"FilterQuery":     filterQuery(filter.Query, string(filter.Status), categoryID),
		},
	})
}

// pageNumbers returns 1..n for pagination links.
func pageNumbers(n int) []int {
	pages := make([]int, 0, n)
	for i := 1; i <= n; i++ {
		pages = append(pages, i)
	}
	return pages
}

// filterQuery rebuilds the non-page query string so pagination links
// preserve the active filters.
func filterQuery(q, status, category string) string {
	v := url.Values{}
	if q != "" {
		v.Set("q", q)
	}
	if status != "" {
		v.Set("status", status)
	}
	if category != "" {
		v.Set("category", category)
	}
	if len(v) == 0 {
		return ""
	}
	return "&" + v.Encode()
}

// PostNew renders the new post form.
func (a *Admin) PostNew(w http.ResponseWriter, r *http.Request) {
	a.renderPostForm(w, r, &models.Post{Status: models.PostStatusDraft, BodyFormat: models.BodyFormatHTML}, false, nil, nil, FieldErrors{})
}

// renderPostForm renders the shared create/edit post form.
func (a *Admin) renderPostForm(w http.ResponseWriter, r *http.Request, p *models.Post, isEdit bool, selectedCats, selectedTags []uuid.UUID, errs FieldErrors) {
	cats, _ := a.categories.List()
	tags, _ := a.tags.List()
	series, _ := a.series.List()

	action := "/admin/posts"
	title := "New Post"
	if isEdit {
		action = "/admin/posts/" + p.ID.String() + "/edit"
		title = "Edit Post"
	}

	// When re-rendering after a failed save the selection comes from the
	// form; on a fresh edit it comes from the loaded associations.
	if selectedCats == nil {
		for _, c := range p.Categories {
			selectedCats = append(selectedCats, c.ID)
		}
	}
	if selectedTags == nil {
		for _, t := range p.Tags {
			selectedTags = append(selectedTags, t.ID)
		}
	}

	a.renderer.Page(w, r, "post_form", &render.PageData{
		Title:   title,
		Section: "posts",
		Data: map[string]any{
			"Post":               p,
			"IsEdit":             isEdit,
			"Action":             action,
			"Errors":             errs,
			"Statuses":           postStatuses,
			"Series":             series,
			"CategoryOptions":    store.SelectorOptions(cats),
			"SelectedCategories": uuidSet(selectedCats),
			"Tags":               tags,
			"SelectedTags":       uuidSet(selectedTags),
		},
	})
}

// uuidSet turns a UUID slice into a string-keyed lookup for templates.
func uuidSet(ids []uuid.UUID) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id.String()] = true
	}
	return set
}

// postFromForm reads the shared post form fields into a Post.
func postFromForm(r *http.Request) (*models.Post, []uuid.UUID, []uuid.UUID) {
	p := &models.Post{
		Title:      r.FormValue("title"),
		Slug:       strings.TrimSpace(r.FormValue("slug")),
		Content:    r.FormValue("content"),
		Status:     models.PostStatus(r.FormValue("status")),
		BodyFormat: models.BodyFormat(r.FormValue("body_format")),
	}
	if p.BodyFormat != models.BodyFormatMarkdown {
		p.BodyFormat = models.BodyFormatHTML
	}
	if !models.ValidStatus(p.Status) {
		p.Status = models.PostStatusDraft
	}
	setOptional(&p.Excerpt, r.FormValue("excerpt"))
	setOptional(&p.CoverImage, r.FormValue("cover_image"))
	setOptional(&p.SEOTitle, r.FormValue("seo_title"))
	setOptional(&p.SEODescription, r.FormValue("seo_description"))
	setOptional(&p.SEOKeywords, r.FormValue("seo_keywords"))
	if sid, err := uuid.Parse(r.FormValue("series_id")); err == nil {
		p.SeriesID = &sid
	}

	r.ParseForm()
	return p, parseUUIDs(r.Form["category_ids"]), parseUUIDs(r.Form["tag_ids"])
}

// setOptional stores a trimmed form value, nil when empty.
func setOptional(dst **string, v string) {
	v = strings.TrimSpace(v)
	if v == "" {
		*dst = nil
		return
	}
	*dst = &v
}

// parseUUIDs parses form values, silently skipping malformed ones.
func parseUUIDs(values []string) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(values))
	for _, v := range values {
		if id, err := uuid.Parse(v); err == nil {
			ids = append(ids, id)
		}
	}
	return ids
}

// preparePost fills in derived fields before saving: the slug when the
// author left it blank, the reading time, and the excerpt fallback.
func (a *Admin) preparePost(p *models.Post, excludeID *uuid.UUID) FieldErrors {
	errs := validatePost(p.Title, p.Slug, p.Content, strFromPtr(p.Excerpt), strFromPtr(p.SEODescription), strFromPtr(p.SEOKeywords))
	if !errs.ok() {
		return errs
	}

	if p.Slug == "" {
		p.Slug = slug.Generate(p.Title)
	}
	if !slug.Valid(p.Slug) {
		errs["slug"] = "Slug may only contain lowercase letters, digits and hyphens."
		return errs
	}
	if exists, err := a.posts.SlugExists(p.Slug, excludeID); err == nil && exists {
		errs["slug"] = "A post with this slug already exists."
		return errs
	}

	p.ReadingTime = readtime.Minutes(p.Content)
	if p.Excerpt == nil {
		if ex := readtime.Excerpt(p.Content); ex != "" {
			p.Excerpt = &ex
		}
	}
	return errs
}

func strFromPtr(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// PostCreate handles the new post form submission.
func (a *Admin) PostCreate(w http.ResponseWriter, r *http.Request) {
	p, categoryIDs, tagIDs := postFromForm(r)

	if errs := a.preparePost(p, nil); !errs.ok() {
		a.renderPostForm(w, r, p, false, categoryIDs, tagIDs, errs)
		return
	}

	_, err := a.posts.Create(p, categoryIDs, tagIDs)
	if err != nil {
		slog.Error("create post failed", "error", err)
		errs := FieldErrors{}
		if store.IsUniqueViolation(err) {
			errs["slug"] = "A post with this slug already exists."
		} else {
			errs["title"] = "Failed to save the post."
		}
		a.renderPostForm(w, r, p, false, categoryIDs, tagIDs, errs)
		return
	}

	a.pageCache.InvalidateAll(r.Context())
	http.Redirect(w, r, "/admin/posts", http.StatusSeeOther)
}

// PostEdit renders the edit post form.
func (a *Admin) PostEdit(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}

	p, err := a.posts.FindByID(id)
	if err != nil || p == nil {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	a.renderPostForm(w, r, p, true, nil, nil, FieldErrors{})
}

// PostUpdate handles the edit post form submission.
func (a *Admin) PostUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}

	existing, err := a.posts.FindByID(id)
	if err != nil || existing == nil {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}
	p, categoryIDs, tagIDs := postFromForm(r)
	p.ID = id
	p.PublishedAt = existing.PublishedAt
	p.Views = existing.Views

	if errs := a.preparePost(p, &id); !errs.ok() {
		a.renderPostForm(w, r, p, true, categoryIDs, tagIDs, errs)
		return
	}

	if err := a.posts.Update(p, categoryIDs, tagIDs); err != nil {
		slog.Error("update post failed", "error", err, "id", id)
		errs := FieldErrors{}
		if store.IsUniqueViolation(err) {
			errs["slug"] = "A post with this slug already exists."
		} else {
			errs["title"] = "Failed to save the post."
		}
		a.renderPostForm(w, r, p, true, categoryIDs, tagIDs, errs)
		return
	}

	a.pageCache.InvalidateAll(r.Context())
	http.Redirect(w, r, "/admin/posts", http.StatusSeeOther)
}

// PostDelete handles post deletion.
func (a *Admin) PostDelete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}

	if err := a.posts.Delete(id); err != nil {
		slog.Error("delete post failed", "error", err, "id", id)
	} else {
		a.pageCache.InvalidateAll(r.Context())
	}

	redirectBack(w, r, "/admin/posts")
}

// redirectBack issues an HTMX redirect when the request came from
// HTMX, otherwise a standard 303.
func redirectBack(w http.ResponseWriter, r *http.Request, target string) {
	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", target)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// --- Users ---

// UsersList renders the user management page.
func (a *Admin) UsersList(w http.ResponseWriter, r *http.Request) {
	users, err := a.users.List()
	if err != nil {
		slog.Error("list users failed", "error", err)
	}

	a.renderer.Page(w, r, "users", &render.PageData{
		Title:   "Users",
		Section: "users",
		Data: map[string]any{
			"Users":  users,
			"Errors": FieldErrors{},
		},
	})
}

// UserCreate handles the new user form submission.
func (a *Admin) UserCreate(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.FormValue("email"))
	displayName := strings.TrimSpace(r.FormValue("display_name"))
	password := r.FormValue("password")
	role := models.Role(r.FormValue("role"))

	errs := FieldErrors{}
	if email == "" {
		errs["email"] = "Email is required."
	}
	if displayName == "" {
		errs["display_name"] = "Display name is required."
	}
	if len(password) < 8 {
		errs["password"] = "Password must be at least 8 characters."
	}
	if role != models.RoleAdmin && role != models.RoleEditor {
		errs["role"] = "Invalid role."
	}

	if errs.ok() {
		existing, _ := a.users.FindByEmail(email)
		if existing != nil {
			errs["email"] = "A user with this email already exists."
		}
	}

	if errs.ok() {
		if _, err := a.users.Create(email, password, displayName, role); err != nil {
			slog.Error("create user failed", "error", err)
			errs["email"] = "Failed to create user."
		}
	}

	if !errs.ok() {
		users, _ := a.users.List()
		a.renderer.Page(w, r, "users", &render.PageData{
			Title:   "Users",
			Section: "users",
			Data: map[string]any{
				"Users":  users,
				"Errors": errs,
			},
		})
		return
	}

	sess := middleware.SessionFromCtx(r.Context())
	slog.Info("user created", "admin", sess.Email, "new_user", email, "role", role)
	redirectBack(w, r, "/admin/users")
}

// UserResetTwoFA resets another user's 2FA, forcing re-setup on next login.
func (a *Admin) UserResetTwoFA(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	targetID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}

	// Cannot reset your own 2FA.
	if targetID == sess.UserID {
		http.Error(w, "Cannot reset your own 2FA", http.StatusForbidden)
		return
	}

	if err := a.users.ResetTOTP(targetID); err != nil {
		slog.Error("reset 2fa failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	slog.Info("2fa reset by admin", "admin", sess.Email, "target_user", targetID)
	redirectBack(w, r, "/admin/users")
}

// UserDelete removes a user account. Self-deletion is rejected.
func (a *Admin) UserDelete(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	targetID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}

	if targetID == sess.UserID {
		http.Error(w, "Cannot delete your own account", http.StatusForbidden)
		return
	}

	if err := a.users.Delete(targetID); err != nil {
		slog.Error("delete user failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	slog.Info("user deleted by admin", "admin", sess.Email, "target_user", targetID)
	redirectBack(w, r, "/admin/users")
}

// --- Settings ---

// settingKeys are the site settings editable from the admin panel.
var settingKeys = []string{
	"site_name",
	"tagline",
	"about_html",
	"services_html",
	"work_html",
	"contact_html",
	"contact_email",
}

// SettingsPage renders the site settings form.
func (a *Admin) SettingsPage(w http.ResponseWriter, r *http.Request) {
	settings, err := a.settings.All()
	if err != nil {
		slog.Error("load settings failed", "error", err)
		settings = models.SiteSettings{}
	}

	a.renderer.Page(w, r, "settings", &render.PageData{
		Title:   "Settings",
		Section: "settings",
		Data:    map[string]any{"Settings": settings},
	})
}

// SettingsSave persists the settings form and clears all cached public
// pages, since the layout shows the site name and tagline everywhere.
func (a *Admin) SettingsSave(w http.ResponseWriter, r *http.Request) {
	values := make(map[string]string, len(settingKeys))
	for _, key := range settingKeys {
		values[key] = r.FormValue(key)
	}

	if err := a.settings.SetMany(values); err != nil {
		slog.Error("save settings failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	a.pageCache.InvalidateAll(r.Context())
	http.Redirect(w, r, "/admin/settings", http.StatusSeeOther)
}
