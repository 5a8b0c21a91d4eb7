// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"pressfolio/internal/icons"
	"pressfolio/internal/models"
	"pressfolio/internal/render"
	"pressfolio/internal/slug"
	"pressfolio/internal/store"
)

// --- Categories ---

// CategoriesPage renders the category tree plus the create form, or the
// edit form when the edit query parameter names an existing category.
func (a *Admin) CategoriesPage(w http.ResponseWriter, r *http.Request) {
	editing := &models.Category{}
	isEdit := false
	if editID, err := uuid.Parse(r.URL.Query().Get("edit")); err == nil {
		if c, err := a.categories.FindByID(editID); err == nil && c != nil {
			editing = c
			isEdit = true
		}
	}
	a.renderCategoriesPage(w, r, editing, isEdit, FieldErrors{})
}

func (a *Admin) renderCategoriesPage(w http.ResponseWriter, r *http.Request, editing *models.Category, isEdit bool, errs FieldErrors) {
	flat, err := a.categories.List()
	if err != nil {
		slog.Error("list categories failed", "error", err)
	}

	action := "/admin/categories"
	if isEdit {
		action = "/admin/categories/" + editing.ID.String() + "/edit"
	}

	// A category cannot be its own parent; leave it out of the options.
	parentPool := flat
	if isEdit {
		parentPool = make([]models.Category, 0, len(flat))
		for _, c := range flat {
			if c.ID != editing.ID {
				parentPool = append(parentPool, c)
			}
		}
	}

	a.renderer.Page(w, r, "categories", &render.PageData{
		Title:   "Categories",
		Section: "categories",
		Data: map[string]any{
			"Rows":          store.TableRows(flat),
			"Editing":       editing,
			"IsEdit":        isEdit,
			"Action":        action,
			"Errors":        errs,
			"ParentOptions": store.SelectorOptions(parentPool),
			"Icons":         icons.Names(),
		},
	})
}

// categoryFromForm reads the category form fields.
func categoryFromForm(r *http.Request) *models.Category {
	c := &models.Category{
		Name:        r.FormValue("name"),
		Slug:        strings.TrimSpace(r.FormValue("slug")),
		Description: r.FormValue("description"),
	}
	if icon := r.FormValue("icon"); icons.Valid(icon) {
		c.Icon = icon
	}
	if pid, err := uuid.Parse(r.FormValue("parent_id")); err == nil {
		c.ParentID = &pid
	}
	return c
}

// prepareNamed derives the slug when blank and checks it for shape and
// uniqueness. Shared by all four taxonomy form handlers.
func prepareNamed(name string, slugField *string, exists func(string, *uuid.UUID) (bool, error), excludeID *uuid.UUID) FieldErrors {
	errs := validateNamed(name, *slugField)
	if !errs.ok() {
		return errs
	}
	if *slugField == "" {
		*slugField = slug.Generate(name)
	}
	if !slug.Valid(*slugField) {
		errs["slug"] = "Slug may only contain lowercase letters, digits and hyphens."
		return errs
	}
	if taken, err := exists(*slugField, excludeID); err == nil && taken {
		errs["slug"] = "This slug is already in use."
	}
	return errs
}

// CategoryCreate handles the new category form submission.
func (a *Admin) CategoryCreate(w http.ResponseWriter, r *http.Request) {
	c := categoryFromForm(r)

	if errs := prepareNamed(c.Name, &c.Slug, a.categories.SlugExists, nil); !errs.ok() {
		a.renderCategoriesPage(w, r, c, false, errs)
		return
	}

	if _, err := a.categories.Create(c); err != nil {
		slog.Error("create category failed", "error", err)
		errs := FieldErrors{"name": "Failed to save the category."}
		if store.IsUniqueViolation(err) {
			errs = FieldErrors{"slug": "This slug is already in use."}
		}
		a.renderCategoriesPage(w, r, c, false, errs)
		return
	}

	a.pageCache.InvalidateAll(r.Context())
	http.Redirect(w, r, "/admin/categories", http.StatusSeeOther)
}

// CategoryUpdate handles the edit category form submission.
func (a *Admin) CategoryUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}

	existing, err := a.categories.FindByID(id)
	if err != nil || existing == nil {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	c := categoryFromForm(r)
	c.ID = id

	// Self-parenting would detach the whole subtree from the rendered tree.
	if c.ParentID != nil && *c.ParentID == id {
		c.ParentID = nil
	}

	if errs := prepareNamed(c.Name, &c.Slug, a.categories.SlugExists, &id); !errs.ok() {
		a.renderCategoriesPage(w, r, c, true, errs)
		return
	}

	if err := a.categories.Update(c); err != nil {
		slog.Error("update category failed", "error", err, "id", id)
		errs := FieldErrors{"name": "Failed to save the category."}
		if store.IsUniqueViolation(err) {
			errs = FieldErrors{"slug": "This slug is already in use."}
		}
		a.renderCategoriesPage(w, r, c, true, errs)
		return
	}

	a.pageCache.InvalidateAll(r.Context())
	http.Redirect(w, r, "/admin/categories", http.StatusSeeOther)
}

// CategoryDelete removes a category. Children are left in place with a
// dangling parent reference and drop out of the tree until re-parented.
func (a *Admin) CategoryDelete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}

	if err := a.categories.Delete(id); err != nil {
		slog.Error("delete category failed", "error", err, "id", id)
	} else {
		a.pageCache.InvalidateAll(r.Context())
	}

	redirectBack(w, r, "/admin/categories")
}

// --- Tags ---

// TagsPage renders the tag list plus the create or edit form.
func (a *Admin) TagsPage(w http.ResponseWriter, r *http.Request) {
	editing := &models.Tag{}
	isEdit := false
	if editID, err := uuid.Parse(r.URL.Query().Get("edit")); err == nil {
		if t, err := a.tags.FindByID(editID); err == nil && t != nil {
			editing = t
			isEdit = true
		}
	}
	a.renderTagsPage(w, r, editing, isEdit, FieldErrors{})
}

func (a *Admin) renderTagsPage(w http.ResponseWriter, r *http.Request, editing *models.Tag, isEdit bool, errs FieldErrors) {
	tags, err := a.tags.List()
	if err != nil {
		slog.Error("list tags failed", "error", err)
	}

	action := "/admin/tags"
	if isEdit {
		action = "/admin/tags/" + editing.ID.String() + "/edit"
	}

	a.renderer.Page(w, r, "tags", &render.PageData{
		Title:   "Tags",
		Section: "tags",
		Data: map[string]any{
			"Tags":    tags,
			"Editing": editing,
			"IsEdit":  isEdit,
			"Action":  action,
			"Errors":  errs,
		},
	})
}

// TagCreate handles the new tag form submission.
func (a *Admin) TagCreate(w http.ResponseWriter, r *http.Request) {
	t := &models.Tag{
		Name: r.FormValue("name"),
		Slug: strings.TrimSpace(r.FormValue("slug")),
	}

	if errs := prepareNamed(t.Name, &t.Slug, a.tags.SlugExists, nil); !errs.ok() {
		a.renderTagsPage(w, r, t, false, errs)
		return
	}

	if _, err := a.tags.Create(t.Name, t.Slug); err != nil {
		slog.Error("create tag failed", "error", err)
		errs := FieldErrors{"name": "Failed to save the tag."}
		if store.IsUniqueViolation(err) {
			errs = FieldErrors{"slug": "This slug is already in use."}
		}
		a.renderTagsPage(w, r, t, false, errs)
		return
	}

	a.pageCache.InvalidateAll(r.Context())
	http.Redirect(w, r, "/admin/tags", http.StatusSeeOther)
}

// TagUpdate handles the edit tag form submission.
func (a *Admin) TagUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}

	t := &models.Tag{
		ID:   id,
		Name: r.FormValue("name"),
		Slug: strings.TrimSpace(r.FormValue("slug")),
	}

	if errs := prepareNamed(t.Name, &t.Slug, a.tags.SlugExists, &id); !errs.ok() {
		a.renderTagsPage(w, r, t, true, errs)
		return
	}

	if err := a.tags.Update(id, t.Name, t.Slug); err != nil {
		slog.Error("update tag failed", "error", err, "id", id)
		errs := FieldErrors{"name": "Failed to save the tag."}
		if store.IsUniqueViolation(err) {
			errs = FieldErrors{"slug": "This slug is already in use."}
		}
		a.renderTagsPage(w, r, t, true, errs)
		return
	}

	a.pageCache.InvalidateAll(r.Context())
	http.Redirect(w, r, "/admin/tags", http.StatusSeeOther)
}

// TagDelete removes a tag and its post associations.
func (a *Admin) TagDelete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}

	if err := a.tags.Delete(id); err != nil {
		slog.Error("delete tag failed", "error", err, "id", id)
	} else {
		a.pageCache.InvalidateAll(r.Context())
	}

	redirectBack(w, r, "/admin/tags")
}

// --- Topics ---

// TopicsPage renders the topic list plus the create or edit form.
func (a *Admin) TopicsPage(w http.ResponseWriter, r *http.Request) {
	editing := &models.Topic{}
	isEdit := false
	if editID, err := uuid.Parse(r.URL.Query().Get("edit")); err == nil {
		if t, err := a.topics.FindByID(editID); err == nil && t != nil {
			editing = t
			isEdit = true
		}
	}
	a.renderTopicsPage(w, r, editing, isEdit, FieldErrors{})
}

func (a *Admin) renderTopicsPage(w http.ResponseWriter, r *http.Request, editing *models.Topic, isEdit bool, errs FieldErrors) {
	topics, err := a.topics.List()
	if err != nil {
		slog.Error("list topics failed", "error", err)
	}

	action := "/admin/topics"
	if isEdit {
		action = "/admin/topics/" + editing.ID.String() + "/edit"
	}

	a.renderer.Page(w, r, "topics", &render.PageData{
		Title:   "Topics",
		Section: "topics",
		Data: map[string]any{
			"Topics":  topics,
			"Editing": editing,
			"IsEdit":  isEdit,
			"Action":  action,
			"Errors":  errs,
		},
	})
}

// TopicCreate handles the new topic form submission.
func (a *Admin) TopicCreate(w http.ResponseWriter, r *http.Request) {
	t := &models.Topic{
		Name:        r.FormValue("name"),
		Slug:        strings.TrimSpace(r.FormValue("slug")),
		Description: r.FormValue("description"),
	}

	if errs := prepareNamed(t.Name, &t.Slug, a.topics.SlugExists, nil); !errs.ok() {
		a.renderTopicsPage(w, r, t, false, errs)
		return
	}

	if _, err := a.topics.Create(t.Name, t.Slug, t.Description); err != nil {
		slog.Error("create topic failed", "error", err)
		errs := FieldErrors{"name": "Failed to save the topic."}
		if store.IsUniqueViolation(err) {
			errs = FieldErrors{"slug": "This slug is already in use."}
		}
		a.renderTopicsPage(w, r, t, false, errs)
		return
	}

	a.pageCache.InvalidateAll(r.Context())
	http.Redirect(w, r, "/admin/topics", http.StatusSeeOther)
}

// TopicUpdate handles the edit topic form submission.
func (a *Admin) TopicUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}

	t := &models.Topic{
		ID:          id,
		Name:        r.FormValue("name"),
		Slug:        strings.TrimSpace(r.FormValue("slug")),
		Description: r.FormValue("description"),
	}

	if errs := prepareNamed(t.Name, &t.Slug, a.topics.SlugExists, &id); !errs.ok() {
		a.renderTopicsPage(w, r, t, true, errs)
		return
	}

	if err := a.topics.Update(id, t.Name, t.Slug, t.Description); err != nil {
		slog.Error("update topic failed", "error", err, "id", id)
		errs := FieldErrors{"name": "Failed to save the topic."}
		if store.IsUniqueViolation(err) {
			errs = FieldErrors{"slug": "This slug is already in use."}
		}
		a.renderTopicsPage(w, r, t, true, errs)
		return
	}

	a.pageCache.InvalidateAll(r.Context())
	http.Redirect(w, r, "/admin/topics", http.StatusSeeOther)
}

// TopicDelete removes a topic.
func (a *Admin) TopicDelete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}

	if err := a.topics.Delete(id); err != nil {
		slog.Error("delete topic failed", "error", err, "id", id)
	} else {
		a.pageCache.InvalidateAll(r.Context())
	}

	redirectBack(w, r, "/admin/topics")
}

// --- Series ---

// SeriesPage renders the series list plus the create or edit form.
func (a *Admin) SeriesPage(w http.ResponseWriter, r *http.Request) {
	editing := &models.Series{}
	isEdit := false
	if editID, err := uuid.Parse(r.URL.Query().Get("edit")); err == nil {
		if s, err := a.series.FindByID(editID); err == nil && s != nil {
			editing = s
			isEdit = true
		}
	}
	a.renderSeriesPage(w, r, editing, isEdit, FieldErrors{})
}

func (a *Admin) renderSeriesPage(w http.ResponseWriter, r *http.Request, editing *models.Series, isEdit bool, errs FieldErrors) {
	series, err := a.series.List()
	if err != nil {
		slog.Error("list series failed", "error", err)
	}

	action := "/admin/series"
	if isEdit {
		action = "/admin/series/" + editing.ID.String() + "/edit"
	}

	a.renderer.Page(w, r, "series", &render.PageData{
		Title:   "Series",
		Section: "series",
		Data: map[string]any{
			"Series":  series,
			"Editing": editing,
			"IsEdit":  isEdit,
			"Action":  action,
			"Errors":  errs,
		},
	})
}

// SeriesCreate handles the new series form submission.
func (a *Admin) SeriesCreate(w http.ResponseWriter, r *http.Request) {
	s := &models.Series{
		Name:        r.FormValue("name"),
		Slug:        strings.TrimSpace(r.FormValue("slug")),
		Description: r.FormValue("description"),
	}

	if errs := prepareNamed(s.Name, &s.Slug, a.series.SlugExists, nil); !errs.ok() {
		a.renderSeriesPage(w, r, s, false, errs)
		return
	}

	if _, err := a.series.Create(s.Name, s.Slug, s.Description); err != nil {
		slog.Error("create series failed", "error", err)
		errs := FieldErrors{"name": "Failed to save the series."}
		if store.IsUniqueViolation(err) {
			errs = FieldErrors{"slug": "This slug is already in use."}
		}
		a.renderSeriesPage(w, r, s, false, errs)
		return
	}

	a.pageCache.InvalidateAll(r.Context())
	http.Redirect(w, r, "/admin/series", http.StatusSeeOther)
}

// SeriesUpdate handles the edit series form submission.
func (a *Admin) SeriesUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}

	s := &models.Series{
		ID:          id,
		Name:        r.FormValue("name"),
		Slug:        strings.TrimSpace(r.FormValue("slug")),
		Description: r.FormValue("description"),
	}

	if errs := prepareNamed(s.Name, &s.Slug, a.series.SlugExists, &id); !errs.ok() {
		a.renderSeriesPage(w, r, s, true, errs)
		return
	}

	if err := a.series.Update(id, s.Name, s.Slug, s.Description); err != nil {
		slog.Error("update series failed", "error", err, "id", id)
		errs := FieldErrors{"name": "Failed to save the series."}
		if store.IsUniqueViolation(err) {
			errs = FieldErrors{"slug": "This slug is already in use."}
		}
		a.renderSeriesPage(w, r, s, true, errs)
		return
	}

	a.pageCache.InvalidateAll(r.Context())
	http.Redirect(w, r, "/admin/series", http.StatusSeeOther)
}

// SeriesDelete removes a series. Posts in it stay published and simply
// detach from the sequence.
func (a *Admin) SeriesDelete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}

	if err := a.series.Delete(id); err != nil {
		slog.Error("delete series failed", "error", err, "id", id)
	} else {
		a.pageCache.InvalidateAll(r.Context())
	}

	redirectBack(w, r, "/admin/series")
}
