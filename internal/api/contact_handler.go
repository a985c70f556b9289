package api

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/phrazzld/contacts-api/internal/api/shared"
	"github.com/phrazzld/contacts-api/internal/domain"
	"github.com/phrazzld/contacts-api/internal/service/contact"
	"github.com/phrazzld/contacts-api/internal/store"
)

// ContactService is the address book surface used by ContactHandler.
type ContactService interface {
	List(ctx context.Context, ownerID uuid.UUID, skip, limit int) ([]*domain.Contact, error)
	Create(ctx context.Context, ownerID uuid.UUID, fields domain.ContactFields) (*domain.Contact, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Contact, error)
	Update(ctx context.Context, id, ownerID uuid.UUID, fields domain.ContactFields) (*domain.Contact, error)
	Delete(ctx context.Context, id, ownerID uuid.UUID) (*domain.Contact, error)
	Search(ctx context.Context, ownerID uuid.UUID, query string) ([]*domain.Contact, error)
	UpcomingBirthdays(ctx context.Context, ownerID uuid.UUID) ([]*domain.Contact, error)
}

// ContactHandler serves the /contacts routes. Every route requires an
// authenticated user.
type ContactHandler struct {
	service ContactService
}

// NewContactHandler creates a ContactHandler.
func NewContactHandler(service ContactService) *ContactHandler {
	return &ContactHandler{service: service}
}

// List handles GET /contacts?skip=&limit=.
func (h *ContactHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	skip, err := queryInt(r, "skip", 0)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	limit, err := queryInt(r, "limit", contact.DefaultLimit)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	contacts, err := h.service.List(r.Context(), user.ID, skip, limit)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, newContactListResponse(contacts))
}

// Create handles POST /contacts.
func (h *ContactHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	fields, ok := decodeContactRequest(w, r)
	if !ok {
		return
	}

	c, err := h.service.Create(r.Context(), user.ID, fields)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, newContactResponse(c))
}

// Get handles GET /contacts/{id}. Contacts owned by someone else are
// reported as not found.
func (h *ContactHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	c, err := h.service.Get(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	if c.OwnerID != user.ID {
		HandleAPIError(w, r, store.ErrContactNotFound, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, newContactResponse(c))
}

// Update handles PUT /contacts/{id}.
func (h *ContactHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	fields, ok := decodeContactRequest(w, r)
	if !ok {
		return
	}

	c, err := h.service.Update(r.Context(), id, user.ID, fields)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, newContactResponse(c))
}

// Delete handles DELETE /contacts/{id} and returns the removed contact.
func (h *ContactHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	c, err := h.service.Delete(r.Context(), id, user.ID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, newContactResponse(c))
}

// Search handles GET /contacts/search?query=.
func (h *ContactHandler) Search(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	contacts, err := h.service.Search(r.Context(), user.ID, r.URL.Query().Get("query"))
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, newContactListResponse(contacts))
}

// UpcomingBirthdays handles GET /contacts/upcoming-birthdays.
func (h *ContactHandler) UpcomingBirthdays(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	contacts, err := h.service.UpcomingBirthdays(r.Context(), user.ID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, newContactListResponse(contacts))
}

func decodeContactRequest(w http.ResponseWriter, r *http.Request) (domain.ContactFields, bool) {
	var req ContactRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		HandleAPIError(w, r, err, "Invalid request format")
		return domain.ContactFields{}, false
	}
	if err := shared.ValidateRequest(&req); err != nil {
		HandleAPIError(w, r, err, "")
		return domain.ContactFields{}, false
	}
	fields, err := req.Fields()
	if err != nil {
		HandleAPIError(w, r, err, "")
		return domain.ContactFields{}, false
	}
	return fields, true
}
