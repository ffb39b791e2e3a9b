// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package testutil

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/ocms-console/internal/backend"
	"github.com/olegiv/ocms-console/internal/model"
)

// DefaultPerPage is the page size of every fake list endpoint.
const DefaultPerPage = 10

// Write is one mutating request received by the fake backend.
type Write struct {
	Method string
	Path   string
	Body   []byte
}

type fakeAccount struct {
	password string
	user     model.User
}

type fakeFailure struct {
	method  string
	status  int
	message string
}

// FakeBackend is an in-memory implementation of the content backend API.
// It speaks the response envelope, filters and paginates lists, and records
// every write so tests can assert what the console sent.
type FakeBackend struct {
	Server  *httptest.Server
	PerPage int

	mu         sync.Mutex
	seq        int
	categories []model.Category
	blogs      []model.Blog
	pages      []model.Page
	sections   []model.Section
	surveys    []model.Survey
	responses  []model.SurveyResponse
	messages   []model.Message
	users      []model.User
	accounts   map[string]fakeAccount
	passwords  map[string]string
	writes     []Write
	failures   []fakeFailure
}

// NewFakeBackend starts a fake backend that is closed when the test ends.
func NewFakeBackend(t *testing.T) *FakeBackend {
	t.Helper()
	fb := &FakeBackend{
		PerPage:   DefaultPerPage,
		accounts:  make(map[string]fakeAccount),
		passwords: make(map[string]string),
	}
	fb.Server = httptest.NewServer(fb.routes())
	t.Cleanup(fb.Server.Close)
	return fb
}

// URL returns the API root of the fake backend.
func (fb *FakeBackend) URL() string {
	return fb.Server.URL
}

// Client returns a backend client pointed at the fake.
func (fb *FakeBackend) Client(t *testing.T) *backend.Client {
	t.Helper()
	c, err := backend.New(fb.URL())
	if err != nil {
		t.Fatalf("backend.New: %v", err)
	}
	return c
}

// FailNext makes the next request with the given method fail with status
// and message. Failures queue up in the order they were added.
func (fb *FakeBackend) FailNext(method string, status int, message string) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.failures = append(fb.failures, fakeFailure{method: method, status: status, message: message})
}

// Writes returns the mutating requests received so far.
func (fb *FakeBackend) Writes() []Write {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return slices.Clone(fb.writes)
}

// AddAccount registers credentials accepted by POST /auth/login.
func (fb *FakeBackend) AddAccount(username, password string, user model.User) model.User {
	user = fb.AddUser(user)
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.accounts[username] = fakeAccount{password: password, user: user}
	return user
}

// Password returns the password last set for a user through the API.
func (fb *FakeBackend) Password(userID string) string {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return fb.passwords[userID]
}

func (fb *FakeBackend) nextID(prefix string) string {
	fb.seq++
	return fmt.Sprintf("%s%d", prefix, fb.seq)
}

// AddCategory seeds a category, assigning an ID when it has none.
func (fb *FakeBackend) AddCategory(c model.Category) model.Category {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	if c.ID == "" {
		c.ID = fb.nextID("c")
	}
	fb.categories = append(fb.categories, c)
	return c
}

// AddBlog seeds a blog post.
func (fb *FakeBackend) AddBlog(b model.Blog) model.Blog {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	if b.ID == "" {
		b.ID = fb.nextID("b")
	}
	fb.blogs = append(fb.blogs, b)
	return b
}

// AddPage seeds a page.
func (fb *FakeBackend) AddPage(p model.Page) model.Page {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	if p.ID == "" {
		p.ID = fb.nextID("p")
	}
	fb.pages = append(fb.pages, p)
	return p
}

// AddSection seeds a section.
func (fb *FakeBackend) AddSection(s model.Section) model.Section {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	if s.ID == "" {
		s.ID = fb.nextID("s")
	}
	fb.sections = append(fb.sections, s)
	return s
}

// AddSurvey seeds a survey.
func (fb *FakeBackend) AddSurvey(s model.Survey) model.Survey {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	if s.ID == "" {
		s.ID = fb.nextID("v")
	}
	fb.surveys = append(fb.surveys, s)
	return s
}

// AddResponse seeds a survey response.
func (fb *FakeBackend) AddResponse(r model.SurveyResponse) model.SurveyResponse {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	if r.ID == "" {
		r.ID = fb.nextID("r")
	}
	fb.responses = append(fb.responses, r)
	return r
}

// AddMessage seeds a contact message.
func (fb *FakeBackend) AddMessage(m model.Message) model.Message {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	if m.ID == "" {
		m.ID = fb.nextID("m")
	}
	if m.Status == "" {
		m.Status = model.MessageStatusUnseen
	}
	fb.messages = append(fb.messages, m)
	return m
}

// AddUser seeds a staff user.
func (fb *FakeBackend) AddUser(u model.User) model.User {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	if u.ID == "" {
		u.ID = fb.nextID("u")
	}
	fb.users = append(fb.users, u)
	return u
}

// Categories returns the stored categories.
func (fb *FakeBackend) Categories() []model.Category {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return slices.Clone(fb.categories)
}

// Blogs returns the stored blog posts.
func (fb *FakeBackend) Blogs() []model.Blog {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return slices.Clone(fb.blogs)
}

// Pages returns the stored pages.
func (fb *FakeBackend) Pages() []model.Page {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return slices.Clone(fb.pages)
}

// Sections returns the stored sections.
func (fb *FakeBackend) Sections() []model.Section {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return slices.Clone(fb.sections)
}

// Surveys returns the stored surveys.
func (fb *FakeBackend) Surveys() []model.Survey {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return slices.Clone(fb.surveys)
}

// Messages returns the stored messages.
func (fb *FakeBackend) Messages() []model.Message {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return slices.Clone(fb.messages)
}

// Users returns the stored users.
func (fb *FakeBackend) Users() []model.User {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return slices.Clone(fb.users)
}

func (fb *FakeBackend) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(fb.recordWrites)
	r.Use(fb.injectFailures)

	r.Post("/auth/login", fb.login)

	r.Group(func(r chi.Router) {
		r.Use(requireBearer)

		r.Get("/categories", fb.listCategories)
		r.Post("/categories", fb.createCategory)
		r.Get("/categories/{id}", fb.getCategory)
		r.Put("/categories/{id}", fb.updateCategory)
		r.Delete("/categories/{id}", fb.deleteCategory)

		r.Get("/blogs", fb.listBlogs)
		r.Post("/blogs", fb.createBlog)
		r.Get("/blogs/{id}", fb.getBlog)
		r.Put("/blogs/{id}", fb.updateBlog)
		r.Delete("/blogs/{id}", fb.deleteBlog)

		r.Get("/pages", fb.listPages)
		r.Post("/pages", fb.createPage)
		r.Get("/pages/{id}", fb.getPage) // by slug
		r.Put("/pages/{id}", fb.updatePage)
		r.Delete("/pages/{id}", fb.deletePage)

		r.Get("/sections", fb.listSections)
		r.Post("/sections", fb.createSection)
		r.Get("/sections/{id}", fb.getSection)
		r.Put("/sections/{id}", fb.updateSection)
		r.Delete("/sections/{id}", fb.deleteSection)

		r.Get("/surveys", fb.listSurveys)
		r.Post("/surveys", fb.createSurvey)
		r.Get("/surveys/{id}", fb.getSurvey)
		r.Put("/surveys/{id}", fb.updateSurvey)
		r.Delete("/surveys/{id}", fb.deleteSurvey)
		r.Get("/surveys/{id}/versions", fb.listSurveyVersions)
		r.Get("/surveys/{id}/responses", fb.listSurveyResponses)

		r.Get("/messages", fb.listMessages)
		r.Get("/messages/{id}", fb.getMessage)
		r.Patch("/messages/{id}/seen", fb.markSeen)

		r.Get("/users", fb.listUsers)
		r.Post("/users", fb.createUser)
		r.Get("/users/{id}", fb.getUser)
		r.Put("/users/{id}", fb.updateUser)
		r.Delete("/users/{id}", fb.deleteUser)
		r.Post("/users/{id}/reset-password", fb.resetPassword)
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "Not found")
	})
	return r
}

// Middleware

func (fb *FakeBackend) recordWrites(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.URL.Path != "/auth/login" {
			body, _ := io.ReadAll(r.Body)
			_ = r.Body.Close()
			r.Body = io.NopCloser(strings.NewReader(string(body)))
			fb.mu.Lock()
			fb.writes = append(fb.writes, Write{Method: r.Method, Path: r.URL.Path, Body: body})
			fb.mu.Unlock()
		}
		next.ServeHTTP(w, r)
	})
}

func (fb *FakeBackend) injectFailures(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fb.mu.Lock()
		idx := slices.IndexFunc(fb.failures, func(f fakeFailure) bool { return f.method == r.Method })
		var failure *fakeFailure
		if idx >= 0 {
			f := fb.failures[idx]
			failure = &f
			fb.failures = slices.Delete(fb.failures, idx, idx+1)
		}
		fb.mu.Unlock()

		if failure != nil {
			writeError(w, failure.status, failure.message)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func requireBearer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.Header.Get("Authorization"), "Bearer ") {
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Envelope helpers

func writeData(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"code": status, "data": data})
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"code": status, "message": message})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return false
	}
	return true
}

// paginate slices items into the page named by the query.
func paginate[T any](items []T, query url.Values, perPage int) backend.Paginated[T] {
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	page, err := strconv.Atoi(query.Get("page"))
	if err != nil || page < 1 {
		page = 1
	}
	total := len(items)
	totalPages := (total + perPage - 1) / perPage
	start := min((page-1)*perPage, total)
	end := min(start+perPage, total)

	data := slices.Clone(items[start:end])
	if data == nil {
		data = []T{}
	}
	return backend.Paginated[T]{
		Data:        data,
		Total:       total,
		TotalPages:  totalPages,
		CurrentPage: page,
	}
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func matchesLocalized(t model.LocalizedText, search string) bool {
	return containsFold(t.EN, search) || containsFold(t.MN, search)
}

// find returns the index of the first item with the given key, or -1.
func find[T any](items []T, key func(T) string, want string) int {
	return slices.IndexFunc(items, func(item T) bool { return key(item) == want })
}

// Auth

func (fb *FakeBackend) login(w http.ResponseWriter, r *http.Request) {
	var creds backend.Credentials
	if !decodeBody(w, r, &creds) {
		return
	}
	fb.mu.Lock()
	account, ok := fb.accounts[creds.Username]
	fb.mu.Unlock()
	if !ok || account.password != creds.Password {
		writeError(w, http.StatusUnauthorized, "Invalid username or password")
		return
	}
	writeData(w, http.StatusOK, backend.LoginResult{Token: "token-" + account.user.ID, User: &account.user})
}

// Categories

func categoryID(c model.Category) string { return c.ID }

func (fb *FakeBackend) listCategories(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	search := q.Get("search")
	fb.mu.Lock()
	var out []model.Category
	for _, c := range fb.categories {
		if search != "" && !matchesLocalized(c.Name, search) {
			continue
		}
		out = append(out, c)
	}
	fb.mu.Unlock()
	writeData(w, http.StatusOK, paginate(out, q, fb.PerPage))
}

func (fb *FakeBackend) getCategory(w http.ResponseWriter, r *http.Request) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	i := find(fb.categories, categoryID, chi.URLParam(r, "id"))
	if i < 0 {
		writeError(w, http.StatusNotFound, "Category not found")
		return
	}
	writeData(w, http.StatusOK, fb.categories[i])
}

func (fb *FakeBackend) createCategory(w http.ResponseWriter, r *http.Request) {
	var in backend.CategoryInput
	if !decodeBody(w, r, &in) {
		return
	}
	fb.mu.Lock()
	defer fb.mu.Unlock()
	c := model.Category{ID: fb.nextID("c"), Name: in.Name, Description: in.Description, CreatedAt: time.Now().UTC()}
	fb.categories = append(fb.categories, c)
	writeData(w, http.StatusCreated, c)
}

func (fb *FakeBackend) updateCategory(w http.ResponseWriter, r *http.Request) {
	var in backend.CategoryInput
	if !decodeBody(w, r, &in) {
		return
	}
	fb.mu.Lock()
	defer fb.mu.Unlock()
	i := find(fb.categories, categoryID, chi.URLParam(r, "id"))
	if i < 0 {
		writeError(w, http.StatusNotFound, "Category not found")
		return
	}
	fb.categories[i].Name = in.Name
	fb.categories[i].Description = in.Description
	writeData(w, http.StatusOK, fb.categories[i])
}

func (fb *FakeBackend) deleteCategory(w http.ResponseWriter, r *http.Request) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	i := find(fb.categories, categoryID, chi.URLParam(r, "id"))
	if i < 0 {
		writeError(w, http.StatusNotFound, "Category not found")
		return
	}
	fb.categories = slices.Delete(fb.categories, i, i+1)
	writeData(w, http.StatusOK, nil)
}

// Blogs

func blogID(b model.Blog) string { return b.ID }

func (fb *FakeBackend) listBlogs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	fb.mu.Lock()
	var out []model.Blog
	for _, b := range fb.blogs {
		if s := q.Get("search"); s != "" && !containsFold(b.Title, s) {
			continue
		}
		if s := q.Get("status"); s != "" && b.Status != s {
			continue
		}
		if l := q.Get("language"); l != "" && b.Language != l {
			continue
		}
		if c := q.Get("category"); c != "" && !slices.Contains(b.CategoryIDs(), c) {
			continue
		}
		out = append(out, b)
	}
	fb.mu.Unlock()
	writeData(w, http.StatusOK, paginate(out, q, fb.PerPage))
}

func (fb *FakeBackend) getBlog(w http.ResponseWriter, r *http.Request) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	i := find(fb.blogs, blogID, chi.URLParam(r, "id"))
	if i < 0 {
		writeError(w, http.StatusNotFound, "Blog not found")
		return
	}
	writeData(w, http.StatusOK, fb.blogs[i])
}

// blogFromInput resolves category IDs against the stored categories.
// Callers hold fb.mu.
func (fb *FakeBackend) blogFromInput(b model.Blog, in backend.BlogInput) model.Blog {
	b.Title = in.Title
	b.Thumbnail = in.Thumbnail
	b.Content = in.Content
	b.Status = in.Status
	b.Language = in.Language
	b.Categories = nil
	for _, id := range in.Categories {
		if i := find(fb.categories, categoryID, id); i >= 0 {
			b.Categories = append(b.Categories, fb.categories[i])
		} else {
			b.Categories = append(b.Categories, model.Category{ID: id})
		}
	}
	return b
}

func (fb *FakeBackend) createBlog(w http.ResponseWriter, r *http.Request) {
	var in backend.BlogInput
	if !decodeBody(w, r, &in) {
		return
	}
	fb.mu.Lock()
	defer fb.mu.Unlock()
	b := fb.blogFromInput(model.Blog{ID: fb.nextID("b"), CreatedAt: time.Now().UTC()}, in)
	fb.blogs = append(fb.blogs, b)
	writeData(w, http.StatusCreated, b)
}

func (fb *FakeBackend) updateBlog(w http.ResponseWriter, r *http.Request) {
	var in backend.BlogInput
	if !decodeBody(w, r, &in) {
		return
	}
	fb.mu.Lock()
	defer fb.mu.Unlock()
	i := find(fb.blogs, blogID, chi.URLParam(r, "id"))
	if i < 0 {
		writeError(w, http.StatusNotFound, "Blog not found")
		return
	}
	fb.blogs[i] = fb.blogFromInput(fb.blogs[i], in)
	writeData(w, http.StatusOK, fb.blogs[i])
}

func (fb *FakeBackend) deleteBlog(w http.ResponseWriter, r *http.Request) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	i := find(fb.blogs, blogID, chi.URLParam(r, "id"))
	if i < 0 {
		writeError(w, http.StatusNotFound, "Blog not found")
		return
	}
	fb.blogs = slices.Delete(fb.blogs, i, i+1)
	writeData(w, http.StatusOK, nil)
}

// Pages

func pageID(p model.Page) string   { return p.ID }
func pageSlug(p model.Page) string { return p.Slug }

func (fb *FakeBackend) listPages(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	search := q.Get("search")
	fb.mu.Lock()
	var out []model.Page
	for _, p := range fb.pages {
		if search != "" && !containsFold(p.Slug, search) && !matchesLocalized(p.Name, search) {
			continue
		}
		out = append(out, p)
	}
	fb.mu.Unlock()
	writeData(w, http.StatusOK, paginate(out, q, fb.PerPage))
}

func (fb *FakeBackend) getPage(w http.ResponseWriter, r *http.Request) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	i := find(fb.pages, pageSlug, chi.URLParam(r, "id"))
	if i < 0 {
		writeError(w, http.StatusNotFound, "Page not found")
		return
	}
	writeData(w, http.StatusOK, fb.pages[i])
}

// pageFromInput resolves section IDs. Callers hold fb.mu.
func (fb *FakeBackend) pageFromInput(p model.Page, in backend.PageInput) model.Page {
	p.Slug = in.Slug
	p.Name = in.Name
	p.Description = in.Description
	p.Keywords = in.Keywords
	p.Sections = nil
	for _, id := range in.Sections {
		ref := model.SectionRef{ID: id}
		if i := find(fb.sections, sectionID, id); i >= 0 {
			ref.Key = fb.sections[i].Key
		}
		p.Sections = append(p.Sections, ref)
	}
	return p
}

// slugTaken reports whether another page already uses slug. Callers hold fb.mu.
func (fb *FakeBackend) slugTaken(slug, exceptID string) bool {
	i := find(fb.pages, pageSlug, slug)
	return i >= 0 && fb.pages[i].ID != exceptID
}

func (fb *FakeBackend) createPage(w http.ResponseWriter, r *http.Request) {
	var in backend.PageInput
	if !decodeBody(w, r, &in) {
		return
	}
	fb.mu.Lock()
	defer fb.mu.Unlock()
	if fb.slugTaken(in.Slug, "") {
		writeError(w, http.StatusConflict, "Slug already exists")
		return
	}
	p := fb.pageFromInput(model.Page{ID: fb.nextID("p")}, in)
	fb.pages = append(fb.pages, p)
	writeData(w, http.StatusCreated, p)
}

func (fb *FakeBackend) updatePage(w http.ResponseWriter, r *http.Request) {
	var in backend.PageInput
	if !decodeBody(w, r, &in) {
		return
	}
	fb.mu.Lock()
	defer fb.mu.Unlock()
	id := chi.URLParam(r, "id")
	i := find(fb.pages, pageID, id)
	if i < 0 {
		writeError(w, http.StatusNotFound, "Page not found")
		return
	}
	if fb.slugTaken(in.Slug, id) {
		writeError(w, http.StatusConflict, "Slug already exists")
		return
	}
	fb.pages[i] = fb.pageFromInput(fb.pages[i], in)
	writeData(w, http.StatusOK, fb.pages[i])
}

func (fb *FakeBackend) deletePage(w http.ResponseWriter, r *http.Request) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	i := find(fb.pages, pageID, chi.URLParam(r, "id"))
	if i < 0 {
		writeError(w, http.StatusNotFound, "Page not found")
		return
	}
	fb.pages = slices.Delete(fb.pages, i, i+1)
	writeData(w, http.StatusOK, nil)
}

// Sections

func sectionID(s model.Section) string { return s.ID }

func (fb *FakeBackend) listSections(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	search := q.Get("search")
	fb.mu.Lock()
	var out []model.Section
	for _, s := range fb.sections {
		if search != "" && !containsFold(s.Key, search) {
			continue
		}
		out = append(out, s)
	}
	fb.mu.Unlock()
	slices.SortStableFunc(out, func(a, b model.Section) int { return a.Sort - b.Sort })
	writeData(w, http.StatusOK, paginate(out, q, fb.PerPage))
}

func (fb *FakeBackend) getSection(w http.ResponseWriter, r *http.Request) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	i := find(fb.sections, sectionID, chi.URLParam(r, "id"))
	if i < 0 {
		writeError(w, http.StatusNotFound, "Section not found")
		return
	}
	writeData(w, http.StatusOK, fb.sections[i])
}

func (fb *FakeBackend) createSection(w http.ResponseWriter, r *http.Request) {
	var in backend.SectionInput
	if !decodeBody(w, r, &in) {
		return
	}
	fb.mu.Lock()
	defer fb.mu.Unlock()
	s := model.Section{ID: fb.nextID("s"), Key: in.Key, Sort: in.Sort, Content: in.Content}
	fb.sections = append(fb.sections, s)
	writeData(w, http.StatusCreated, s)
}

func (fb *FakeBackend) updateSection(w http.ResponseWriter, r *http.Request) {
	var in backend.SectionInput
	if !decodeBody(w, r, &in) {
		return
	}
	fb.mu.Lock()
	defer fb.mu.Unlock()
	i := find(fb.sections, sectionID, chi.URLParam(r, "id"))
	if i < 0 {
		writeError(w, http.StatusNotFound, "Section not found")
		return
	}
	fb.sections[i].Key = in.Key
	fb.sections[i].Sort = in.Sort
	fb.sections[i].Content = in.Content
	writeData(w, http.StatusOK, fb.sections[i])
}

func (fb *FakeBackend) deleteSection(w http.ResponseWriter, r *http.Request) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	i := find(fb.sections, sectionID, chi.URLParam(r, "id"))
	if i < 0 {
		writeError(w, http.StatusNotFound, "Section not found")
		return
	}
	fb.sections = slices.Delete(fb.sections, i, i+1)
	writeData(w, http.StatusOK, nil)
}

// Surveys

func surveyID(s model.Survey) string { return s.ID }

func (fb *FakeBackend) listSurveys(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	search := q.Get("search")
	fb.mu.Lock()
	var out []model.Survey
	for _, s := range fb.surveys {
		if search != "" && !matchesLocalized(s.Title, search) {
			continue
		}
		out = append(out, s)
	}
	fb.mu.Unlock()
	writeData(w, http.StatusOK, paginate(out, q, fb.PerPage))
}

func (fb *FakeBackend) getSurvey(w http.ResponseWriter, r *http.Request) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	i := find(fb.surveys, surveyID, chi.URLParam(r, "id"))
	if i < 0 {
		writeError(w, http.StatusNotFound, "Survey not found")
		return
	}
	writeData(w, http.StatusOK, fb.surveys[i])
}

// Every save of the questions publishes a new version; existing versions
// are never rewritten.
func (fb *FakeBackend) addVersion(s *model.Survey, questions []model.Question) {
	next := 1
	if latest := s.LatestVersion(); latest != nil {
		next = latest.Version + 1
	}
	s.Versions = append(s.Versions, model.SurveyVersion{
		ID:        fb.nextID("sv"),
		Version:   next,
		Questions: questions,
		CreatedAt: time.Now().UTC(),
	})
}

func (fb *FakeBackend) createSurvey(w http.ResponseWriter, r *http.Request) {
	var in backend.SurveyInput
	if !decodeBody(w, r, &in) {
		return
	}
	fb.mu.Lock()
	defer fb.mu.Unlock()
	s := model.Survey{ID: fb.nextID("v"), Title: in.Title, Description: in.Description, CreatedAt: time.Now().UTC()}
	fb.addVersion(&s, in.Questions)
	fb.surveys = append(fb.surveys, s)
	writeData(w, http.StatusCreated, s)
}

func (fb *FakeBackend) updateSurvey(w http.ResponseWriter, r *http.Request) {
	var in backend.SurveyInput
	if !decodeBody(w, r, &in) {
		return
	}
	fb.mu.Lock()
	defer fb.mu.Unlock()
	i := find(fb.surveys, surveyID, chi.URLParam(r, "id"))
	if i < 0 {
		writeError(w, http.StatusNotFound, "Survey not found")
		return
	}
	fb.surveys[i].Title = in.Title
	fb.surveys[i].Description = in.Description
	fb.addVersion(&fb.surveys[i], in.Questions)
	writeData(w, http.StatusOK, fb.surveys[i])
}

func (fb *FakeBackend) deleteSurvey(w http.ResponseWriter, r *http.Request) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	i := find(fb.surveys, surveyID, chi.URLParam(r, "id"))
	if i < 0 {
		writeError(w, http.StatusNotFound, "Survey not found")
		return
	}
	fb.surveys = slices.Delete(fb.surveys, i, i+1)
	writeData(w, http.StatusOK, nil)
}

func (fb *FakeBackend) listSurveyVersions(w http.ResponseWriter, r *http.Request) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	i := find(fb.surveys, surveyID, chi.URLParam(r, "id"))
	if i < 0 {
		writeError(w, http.StatusNotFound, "Survey not found")
		return
	}
	versions := slices.Clone(fb.surveys[i].Versions)
	if versions == nil {
		versions = []model.SurveyVersion{}
	}
	writeData(w, http.StatusOK, versions)
}

func (fb *FakeBackend) listSurveyResponses(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	id := chi.URLParam(r, "id")
	fb.mu.Lock()
	if find(fb.surveys, surveyID, id) < 0 {
		fb.mu.Unlock()
		writeError(w, http.StatusNotFound, "Survey not found")
		return
	}
	var out []model.SurveyResponse
	for _, resp := range fb.responses {
		if resp.SurveyID != id {
			continue
		}
		if v := q.Get("version"); v != "" && strconv.Itoa(resp.Version) != v {
			continue
		}
		out = append(out, resp)
	}
	fb.mu.Unlock()
	writeData(w, http.StatusOK, paginate(out, q, fb.PerPage))
}

// Messages

func messageID(m model.Message) string { return m.ID }

func (fb *FakeBackend) listMessages(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	fb.mu.Lock()
	var out []model.Message
	for _, m := range fb.messages {
		if s := q.Get("status"); s != "" && m.Status != s {
			continue
		}
		if s := q.Get("search"); s != "" && !containsFold(m.Subject, s) && !containsFold(m.Name, s) && !containsFold(m.Email, s) {
			continue
		}
		out = append(out, m)
	}
	fb.mu.Unlock()
	writeData(w, http.StatusOK, paginate(out, q, fb.PerPage))
}

func (fb *FakeBackend) getMessage(w http.ResponseWriter, r *http.Request) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	i := find(fb.messages, messageID, chi.URLParam(r, "id"))
	if i < 0 {
		writeError(w, http.StatusNotFound, "Message not found")
		return
	}
	writeData(w, http.StatusOK, fb.messages[i])
}

func (fb *FakeBackend) markSeen(w http.ResponseWriter, r *http.Request) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	i := find(fb.messages, messageID, chi.URLParam(r, "id"))
	if i < 0 {
		writeError(w, http.StatusNotFound, "Message not found")
		return
	}
	fb.messages[i].Status = model.MessageStatusSeen
	writeData(w, http.StatusOK, fb.messages[i])
}

// Users

func userID(u model.User) string       { return u.ID }
func userUsername(u model.User) string { return u.Username }

func (fb *FakeBackend) listUsers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	search := q.Get("search")
	fb.mu.Lock()
	var out []model.User
	for _, u := range fb.users {
		if search != "" && !containsFold(u.Username, search) && !containsFold(u.FullName(), search) {
			continue
		}
		out = append(out, u)
	}
	fb.mu.Unlock()
	writeData(w, http.StatusOK, paginate(out, q, fb.PerPage))
}

func (fb *FakeBackend) getUser(w http.ResponseWriter, r *http.Request) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	i := find(fb.users, userID, chi.URLParam(r, "id"))
	if i < 0 {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	writeData(w, http.StatusOK, fb.users[i])
}

func (fb *FakeBackend) createUser(w http.ResponseWriter, r *http.Request) {
	var in backend.UserInput
	if !decodeBody(w, r, &in) {
		return
	}
	fb.mu.Lock()
	defer fb.mu.Unlock()
	if find(fb.users, userUsername, in.Username) >= 0 {
		writeError(w, http.StatusConflict, "Username already exists")
		return
	}
	u := model.User{
		ID:           fb.nextID("u"),
		Username:     in.Username,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Role:         in.Role,
		ProfileImage: in.ProfileImage,
		CreatedAt:    time.Now().UTC(),
	}
	fb.users = append(fb.users, u)
	fb.passwords[u.ID] = in.Password
	writeData(w, http.StatusCreated, u)
}

func (fb *FakeBackend) updateUser(w http.ResponseWriter, r *http.Request) {
	var in backend.UserInput
	if !decodeBody(w, r, &in) {
		return
	}
	fb.mu.Lock()
	defer fb.mu.Unlock()
	id := chi.URLParam(r, "id")
	i := find(fb.users, userID, id)
	if i < 0 {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	if j := find(fb.users, userUsername, in.Username); j >= 0 && j != i {
		writeError(w, http.StatusConflict, "Username already exists")
		return
	}
	fb.users[i].Username = in.Username
	fb.users[i].FirstName = in.FirstName
	fb.users[i].LastName = in.LastName
	fb.users[i].Role = in.Role
	fb.users[i].ProfileImage = in.ProfileImage
	writeData(w, http.StatusOK, fb.users[i])
}

func (fb *FakeBackend) deleteUser(w http.ResponseWriter, r *http.Request) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	i := find(fb.users, userID, chi.URLParam(r, "id"))
	if i < 0 {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	fb.users = slices.Delete(fb.users, i, i+1)
	writeData(w, http.StatusOK, nil)
}

func (fb *FakeBackend) resetPassword(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Password string `json:"password"`
	}
	if !decodeBody(w, r, &in) {
		return
	}
	fb.mu.Lock()
	defer fb.mu.Unlock()
	id := chi.URLParam(r, "id")
	if find(fb.users, userID, id) < 0 {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	fb.passwords[id] = in.Password
	writeData(w, http.StatusOK, nil)
}
