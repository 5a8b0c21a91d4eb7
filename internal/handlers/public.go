// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/xml"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"pressfolio/internal/cache"
	"pressfolio/internal/markdown"
	"pressfolio/internal/models"
	"pressfolio/internal/render"
	"pressfolio/internal/store"
)

const (
	homePostCount      = 5
	postsPerPublicPage = 10
	feedPostCount      = 50
)

// Public groups handlers for the reader-facing site. Rendered pages go
// through the Valkey full-page cache: hits skip both the database and
// template execution entirely.
type Public struct {
	renderer   *render.Renderer
	posts      *store.PostStore
	categories *store.CategoryStore
	tags       *store.TagStore
	topics     *store.TopicStore
	series     *store.SeriesStore
	settings   *store.SiteSettingStore
	pageCache  *cache.PageCache
	baseURL    string
}

// NewPublic creates a new Public handler group.
func NewPublic(renderer *render.Renderer, posts *store.PostStore, categories *store.CategoryStore, tags *store.TagStore, topics *store.TopicStore, series *store.SeriesStore, settings *store.SiteSettingStore, pageCache *cache.PageCache, baseURL string) *Public {
	return &Public{
		renderer:   renderer,
		posts:      posts,
		categories: categories,
		tags:       tags,
		topics:     topics,
		series:     series,
		settings:   settings,
		pageCache:  pageCache,
		baseURL:    baseURL,
	}
}

// pageData builds a PublicData shell carrying the site identity from
// the settings table.
func (p *Public) pageData(title string) *render.PublicData {
	return &render.PublicData{
		SiteName: p.setting("site_name", "Pressfolio"),
		Tagline:  p.setting("tagline", ""),
		Title:    title,
		Year:     time.Now().Year(),
		Data:     map[string]any{},
	}
}

func (p *Public) setting(key, fallback string) string {
	v, err := p.settings.Get(key, fallback)
	if err != nil {
		return fallback
	}
	return v
}

// serveCached writes a cached page when one exists; otherwise it calls
// build to render the page, stores the result, and writes it. An empty
// cacheKey disables caching for the request.
func (p *Public) serveCached(w http.ResponseWriter, r *http.Request, cacheKey string, build func() ([]byte, error)) {
	ctx := r.Context()
	if cacheKey != "" {
		if cached, ok := p.pageCache.Get(ctx, cacheKey); ok {
			writeHTML(w, cached)
			return
		}
	}

	html, err := build()
	if err != nil {
		slog.Error("public page render failed", "error", err, "path", r.URL.Path)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if cacheKey != "" {
		p.pageCache.Set(ctx, cacheKey, html)
	}
	writeHTML(w, html)
}

func writeHTML(w http.ResponseWriter, html []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(html)
}

// Homepage renders the landing page with the latest published posts.
func (p *Public) Homepage(w http.ResponseWriter, r *http.Request) {
	p.serveCached(w, r, cache.HomepageKey(), func() ([]byte, error) {
		posts, err := p.posts.ListPublished(homePostCount)
		if err != nil {
			return nil, err
		}
		data := p.pageData("")
		data.MetaDescription = data.Tagline
		data.Canonical = p.baseURL + "/"
		data.Data["Posts"] = posts
		return p.renderer.Public("home", data)
	})
}

// BlogIndex renders one page of the published post listing.
func (p *Public) BlogIndex(w http.ResponseWriter, r *http.Request) {
	page := 1
	if n, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && n > 0 {
		page = n
	}

	p.serveCached(w, r, cache.BlogIndexKey(page), func() ([]byte, error) {
		return p.renderBlogListing(page, "/blog", nil, nil)
	})
}

// BlogByCategory renders the post listing filtered by category slug.
func (p *Public) BlogByCategory(w http.ResponseWriter, r *http.Request) {
	cat, err := p.categories.FindBySlug(chi.URLParam(r, "slug"))
	if err != nil {
		slog.Error("category lookup failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if cat == nil {
		p.NotFound(w, r)
		return
	}

	page := 1
	if n, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && n > 0 {
		page = n
	}

	// Filtered listings are cheap enough to render on every request.
	p.serveCached(w, r, "", func() ([]byte, error) {
		return p.renderBlogListing(page, "/blog/category/"+cat.Slug, cat, nil)
	})
}

// BlogByTag renders the post listing filtered by tag slug.
func (p *Public) BlogByTag(w http.ResponseWriter, r *http.Request) {
	tag, err := p.tags.FindBySlug(chi.URLParam(r, "slug"))
	if err != nil {
		slog.Error("tag lookup failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if tag == nil {
		p.NotFound(w, r)
		return
	}

	page := 1
	if n, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && n > 0 {
		page = n
	}

	p.serveCached(w, r, "", func() ([]byte, error) {
		return p.renderBlogListing(page, "/blog/tag/"+tag.Slug, nil, tag)
	})
}

// renderBlogListing renders one page of published posts, optionally
// filtered by a category or tag.
func (p *Public) renderBlogListing(page int, basePath string, cat *models.Category, tag *models.Tag) ([]byte, error) {
	filter := store.PostFilter{
		Status: models.PostStatusPublished,
		Page:   page,
		Limit:  postsPerPublicPage,
	}
	if cat != nil {
		filter.CategoryID = &cat.ID
	}
	if tag != nil {
		filter.TagID = &tag.ID
	}

	posts, total, err := p.posts.List(filter)
	if err != nil {
		return nil, err
	}

	data := p.pageData("Blog")
	data.Canonical = p.baseURL + basePath
	data.Data["Posts"] = posts
	data.Data["BasePath"] = basePath
	if cat != nil {
		data.Title = cat.Name
		data.Data["Category"] = cat
	}
	if tag != nil {
		data.Title = "#" + tag.Name
		data.Data["Tag"] = tag
	}
	if page > 1 {
		data.Data["PrevPage"] = page - 1
	}
	if page*postsPerPublicPage < total {
		data.Data["NextPage"] = page + 1
	}

	return p.renderer.Public("blog", data)
}

// PostDetail renders a single published post. The view counter is
// bumped in the background on every request, cached or not.
func (p *Public) PostDetail(w http.ResponseWriter, r *http.Request) {
	slugParam := chi.URLParam(r, "slug")

	ctx := r.Context()
	if cached, ok := p.pageCache.Get(ctx, cache.PostKey(slugParam)); ok {
		go p.countView(slugParam)
		writeHTML(w, cached)
		return
	}

	post, err := p.posts.FindPublishedBySlug(slugParam)
	if err != nil {
		slog.Error("find post by slug failed", "error", err, "slug", slugParam)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if post == nil {
		p.NotFound(w, r)
		return
	}

	bodyHTML := post.Content
	if post.BodyFormat == models.BodyFormatMarkdown {
		rendered, err := markdown.ToHTML(post.Content)
		if err != nil {
			slog.Error("markdown render failed", "error", err, "slug", slugParam)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		bodyHTML = rendered
	}

	data := p.pageData(post.Title)
	data.Canonical = p.baseURL + "/blog/" + post.Slug
	if post.SEODescription != nil {
		data.MetaDescription = *post.SEODescription
	} else if post.Excerpt != nil {
		data.MetaDescription = *post.Excerpt
	}
	if post.SEOKeywords != nil {
		data.MetaKeywords = *post.SEOKeywords
	}
	if post.SEOTitle != nil {
		data.Title = *post.SEOTitle
	}
	data.Data["Post"] = post
	data.Data["BodyHTML"] = bodyHTML

	if post.SeriesID != nil {
		if series, err := p.series.FindByID(*post.SeriesID); err == nil && series != nil {
			data.Data["Series"] = series
			if seriesPosts, err := p.posts.ListBySeries(series.ID); err == nil {
				data.Data["SeriesPosts"] = seriesPosts
			}
		}
	}

	html, err := p.renderer.Public("post", data)
	if err != nil {
		slog.Error("post render failed", "error", err, "slug", slugParam)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	p.pageCache.Set(ctx, cache.PostKey(slugParam), html)
	go p.countView(slugParam)
	writeHTML(w, html)
}

// countView is fire-and-forget; a lost increment is acceptable.
func (p *Public) countView(slug string) {
	if err := p.posts.IncrementViewsBySlug(slug); err != nil {
		slog.Warn("view count failed", "error", err, "slug", slug)
	}
}

// SeriesIndex lists all series with their post counts.
func (p *Public) SeriesIndex(w http.ResponseWriter, r *http.Request) {
	p.serveCached(w, r, "", func() ([]byte, error) {
		series, err := p.series.List()
		if err != nil {
			return nil, err
		}
		data := p.pageData("Series")
		data.Canonical = p.baseURL + "/series"
		data.Data["Series"] = series
		return p.renderer.Public("series", data)
	})
}

// SeriesDetail renders a series with its published posts in reading order.
func (p *Public) SeriesDetail(w http.ResponseWriter, r *http.Request) {
	slugParam := chi.URLParam(r, "slug")

	series, err := p.series.FindBySlug(slugParam)
	if err != nil {
		slog.Error("series lookup failed", "error", err, "slug", slugParam)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if series == nil {
		p.NotFound(w, r)
		return
	}

	p.serveCached(w, r, cache.SeriesKey(slugParam), func() ([]byte, error) {
		posts, err := p.posts.ListBySeries(series.ID)
		if err != nil {
			return nil, err
		}
		data := p.pageData(series.Name)
		data.MetaDescription = series.Description
		data.Canonical = p.baseURL + "/series/" + series.Slug
		data.Data["Series"] = series
		data.Data["Posts"] = posts
		return p.renderer.Public("series_detail", data)
	})
}

// TopicsPage lists the editorial topics.
func (p *Public) TopicsPage(w http.ResponseWriter, r *http.Request) {
	p.serveCached(w, r, "", func() ([]byte, error) {
		topics, err := p.topics.List()
		if err != nil {
			return nil, err
		}
		data := p.pageData("Topics")
		data.Canonical = p.baseURL + "/topics"
		data.Data["Topics"] = topics
		return p.renderer.Public("topics", data)
	})
}

// StaticPage returns a handler rendering a settings-backed HTML page.
// The body lives in the site settings under "<key>_html".
func (p *Public) StaticPage(key, title string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p.serveCached(w, r, "", func() ([]byte, error) {
			data := p.pageData(title)
			data.Canonical = p.baseURL + "/" + key
			data.Data["BodyHTML"] = p.setting(key+"_html", "")
			return p.renderer.Public("page", data)
		})
	}
}

// ContactPage renders the contact page with the configured email.
func (p *Public) ContactPage(w http.ResponseWriter, r *http.Request) {
	p.serveCached(w, r, "", func() ([]byte, error) {
		data := p.pageData("Contact")
		data.Canonical = p.baseURL + "/contact"
		data.Data["ContactEmail"] = p.setting("contact_email", "")
		data.Data["BodyHTML"] = p.setting("contact_html", "")
		return p.renderer.Public("contact", data)
	})
}

// NotFound renders the public 404 page.
func (p *Public) NotFound(w http.ResponseWriter, r *http.Request) {
	data := p.pageData("Page not found")
	html, err := p.renderer.Public("not_found", data)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	w.Write(html)
}

// --- Feeds ---

type rssFeed struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Items       []rssItem `xml:"item"`
}

type rssItem struct {
	Title   string `xml:"title"`
	Link    string `xml:"link"`
	GUID    string `xml:"guid"`
	PubDate string `xml:"pubDate"`
	Desc    string `xml:"description"`
}

// RSS serves the feed of recently published posts.
func (p *Public) RSS(w http.ResponseWriter, r *http.Request) {
	posts, err := p.posts.ListPublished(feedPostCount)
	if err != nil {
		slog.Error("rss post listing failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	feed := rssFeed{
		Version: "2.0",
		Channel: rssChannel{
			Title:       p.setting("site_name", "Pressfolio"),
			Link:        p.baseURL + "/",
			Description: p.setting("tagline", ""),
		},
	}
	for _, post := range posts {
		item := rssItem{
			Title: post.Title,
			Link:  p.baseURL + "/blog/" + post.Slug,
			GUID:  p.baseURL + "/blog/" + post.Slug,
			Desc:  post.ExcerptText(),
		}
		if post.PublishedAt != nil {
			item.PubDate = post.PublishedAt.Format(time.RFC1123Z)
		}
		feed.Channel.Items = append(feed.Channel.Items, item)
	}

	w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
	fmt.Fprint(w, xml.Header)
	if err := xml.NewEncoder(w).Encode(feed); err != nil {
		slog.Warn("rss encode failed", "error", err)
	}
}

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// Sitemap serves the sitemap covering static pages and published posts.
func (p *Public) Sitemap(w http.ResponseWriter, r *http.Request) {
	set := sitemapURLSet{XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9"}
	for _, path := range []string{"/", "/blog", "/series", "/topics", "/about", "/services", "/work", "/contact"} {
		set.URLs = append(set.URLs, sitemapURL{Loc: p.baseURL + path})
	}

	posts, err := p.posts.ListPublished(0)
	if err != nil {
		slog.Error("sitemap post listing failed", "error", err)
	}
	for _, post := range posts {
		u := sitemapURL{Loc: p.baseURL + "/blog/" + post.Slug}
		u.LastMod = post.UpdatedAt.Format("2006-01-02")
		set.URLs = append(set.URLs, u)
	}

	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	fmt.Fprint(w, xml.Header)
	if err := xml.NewEncoder(w).Encode(set); err != nil {
		slog.Warn("sitemap encode failed", "error", err)
	}
}
