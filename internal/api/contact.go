package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sitrus/server/internal/metrics"
	"sitrus/server/internal/models"
)

// CreateContact stores a contact form submission and queues the admin
// notification. A full queue never fails the request.
func (h *Handler) CreateContact(c *gin.Context) {
	var req models.ContactRequest
	if err := bindJSON(c, &req); err != nil {
		h.fail(c, err, "Invalid contact payload")
		return
	}

	contact := req.ToModel()
	if err := h.db.CreateContact(c.Request.Context(), contact); err != nil {
		h.fail(c, err, "Failed to create contact")
		return
	}
	metrics.ContactsReceived.Inc()

	if h.notifier != nil {
		if err := h.notifier.Enqueue(contact); err != nil {
			h.logger.WithError(err).WithField("contact_id", contact.ID).Warn("Failed to queue contact notification")
		}
	}

	respondMessage(c, http.StatusCreated, contact, "Thank you for contacting us, we will get back to you soon")
}

func (h *Handler) GetContacts(c *gin.Context) {
	contacts, err := h.db.GetAllContacts(c.Request.Context())
	if err != nil {
		h.fail(c, err, "Failed to get contacts")
		return
	}

	respondList(h, c, contacts, "Invalid pagination parameters")
}

func (h *Handler) GetContact(c *gin.Context) {
	contact, err := h.db.GetContactByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err, "Failed to get contact")
		return
	}
	respond(c, http.StatusOK, contact)
}

func (h *Handler) DeleteContact(c *gin.Context) {
	if err := h.db.DeleteContact(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err, "Failed to delete contact")
		return
	}
	respondMessage(c, http.StatusOK, nil, "Contact deleted successfully")
}
