package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"inkwell/internal/models"
	"inkwell/internal/slug"
	"inkwell/internal/store"
)

// Taxonomy groups the category and tag handlers. Reads are public;
// mutations are mounted on the admin surface by the router.
type Taxonomy struct {
	categories *store.CategoryStore
	tags       *store.TagStore
}

// NewTaxonomy creates a new Taxonomy handler group.
func NewTaxonomy(categories *store.CategoryStore, tags *store.TagStore) *Taxonomy {
	return &Taxonomy{categories: categories, tags: tags}
}

// ListCategories serves all categories with post counts.
func (h *Taxonomy) ListCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.categories.List(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if cats == nil {
		cats = []models.Category{}
	}
	respondJSON(w, http.StatusOK, map[string]any{"categories": cats})
}

// GetCategory serves one category by slug.
func (h *Taxonomy) GetCategory(w http.ResponseWriter, r *http.Request) {
	cat, err := h.categories.FindBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if cat == nil {
		respondError(w, http.StatusNotFound, "category not found")
		return
	}
	respondJSON(w, http.StatusOK, cat)
}

type categoryRequest struct {
	Name        string  `json:"name" validate:"required,min=1,max=100"`
	Description *string `json:"description" validate:"omitempty,max=500"`
	Color       string  `json:"color" validate:"omitempty,hexcolor"`
}

// CreateCategory adds a category. The slug derives from the name.
func (h *Taxonomy) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decode(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Color == "" {
		req.Color = "#6366f1"
	}

	catSlug := slug.Generate(req.Name)
	if catSlug == "" {
		respondError(w, http.StatusBadRequest, "name does not produce a valid slug")
		return
	}
	if existing, err := h.categories.FindBySlug(r.Context(), catSlug); err != nil {
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	} else if existing != nil {
		respondError(w, http.StatusConflict, "category already exists")
		return
	}

	cat, err := h.categories.Create(r.Context(), req.Name, catSlug, req.Description, req.Color)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	respondJSON(w, http.StatusCreated, cat)
}

// UpdateCategory edits a category's name, description, and color.
func (h *Taxonomy) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid category id")
		return
	}

	var req categoryRequest
	if err := decode(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	cat := &models.Category{
		ID:          id,
		Name:        req.Name,
		Slug:        slug.Generate(req.Name),
		Description: req.Description,
		Color:       req.Color,
	}
	if cat.Color == "" {
		cat.Color = "#6366f1"
	}

	if err := h.categories.Update(r.Context(), cat); err != nil {
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	respondJSON(w, http.StatusOK, cat)
}

// DeleteCategory removes a category; linked posts survive.
func (h *Taxonomy) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid category id")
		return
	}
	if err := h.categories.Delete(r.Context(), id); err != nil {
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "category deleted"})
}

// ListTags serves tags, most used first, with optional ?search=.
func (h *Taxonomy) ListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.tags.List(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if tags == nil {
		tags = []models.Tag{}
	}
	respondJSON(w, http.StatusOK, map[string]any{"tags": tags})
}

type tagRequest struct {
	Name string `json:"name" validate:"required,min=1,max=50"`
}

// CreateTag adds a tag explicitly. Authors usually create tags
// implicitly when saving a post; this exists for editor curation.
func (h *Taxonomy) CreateTag(w http.ResponseWriter, r *http.Request) {
	var req tagRequest
	if err := decode(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	tagSlug := slug.Generate(req.Name)
	if tagSlug == "" {
		respondError(w, http.StatusBadRequest, "name does not produce a valid slug")
		return
	}

	tag, err := h.tags.Ensure(r.Context(), req.Name, tagSlug)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	respondJSON(w, http.StatusCreated, tag)
}

// DeleteTag removes a tag; linked posts survive.
func (h *Taxonomy) DeleteTag(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid tag id")
		return
	}
	if err := h.tags.Delete(r.Context(), id); err != nil {
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "tag deleted"})
}
