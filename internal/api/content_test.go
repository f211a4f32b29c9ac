package api

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sitrus/server/internal/models"
)

func TestFAQEndpoints(t *testing.T) {
	env := setup(t)

	w, body := env.do(t, http.MethodPost, "/api/faq/createfaq", map[string]string{
		"question": " Is parking included? ", "answer": "Yes",
	}, true)
	require.Equal(t, http.StatusCreated, w.Code)
	var faq models.FAQ
	require.NoError(t, json.Unmarshal(body.Data, &faq))
	assert.Equal(t, "Is parking included?", faq.Question)

	w, _ = env.do(t, http.MethodPost, "/api/faq/createfaq", map[string]string{"question": "Q"}, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = env.do(t, http.MethodPut, "/api/faq/updatefaq/"+faq.ID, map[string]string{
		"question": "Is parking included?", "answer": "Yes, one covered slot",
	}, true)
	require.Equal(t, http.StatusOK, w.Code)

	w, body = env.do(t, http.MethodGet, "/api/faq/getfaqs", nil, false)
	require.Equal(t, http.StatusOK, w.Code)
	var faqs []models.FAQ
	require.NoError(t, json.Unmarshal(body.Data, &faqs))
	require.Len(t, faqs, 1)
	assert.Equal(t, "Yes, one covered slot", faqs[0].Answer)

	w, _ = env.do(t, http.MethodGet, "/api/faq/getfaq/"+faq.ID, nil, false)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = env.do(t, http.MethodDelete, "/api/faq/deletefaq/"+faq.ID, nil, false)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w, _ = env.do(t, http.MethodDelete, "/api/faq/deletefaq/"+faq.ID, nil, true)
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = env.do(t, http.MethodGet, "/api/faq/getfaq/"+faq.ID, nil, false)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTeamEndpoints(t *testing.T) {
	env := setup(t)

	w, body := env.do(t, http.MethodPost, "/api/team/createTeam", map[string]string{
		"name": "neha rao", "role": "Architect", "image": "https://cdn.example.com/neha.jpg",
	}, true)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var member teamMemberView
	require.NoError(t, json.Unmarshal(body.Data, &member))
	assert.Equal(t, "NR", member.Initials)

	w, body = env.do(t, http.MethodPost, "/api/team/createTeam", map[string]string{
		"name": "Asha", "image": "not a url",
	}, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, body.Error.Message, "image must be a valid URL")

	w, _ = env.do(t, http.MethodPut, "/api/team/updateTeam/"+member.ID, map[string]string{
		"name": "Neha Rao", "role": "Principal Architect",
	}, true)
	require.Equal(t, http.StatusOK, w.Code)

	w, body = env.do(t, http.MethodGet, "/api/team/getTeams?pageSize=10", nil, false)
	require.Equal(t, http.StatusOK, w.Code)
	var page struct {
		Items      []teamMemberView `json:"items"`
		TotalPages int              `json:"total_pages"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &page))
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Principal Architect", page.Items[0].Role)
	assert.Equal(t, 1, page.TotalPages)

	w, _ = env.do(t, http.MethodDelete, "/api/team/deleteTeam/"+member.ID, nil, true)
	assert.Equal(t, http.StatusOK, w.Code)

	w, body = env.do(t, http.MethodGet, "/api/team/getTeams?page=1", nil, false)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(body.Data, &page))
	assert.Empty(t, page.Items)
	assert.Equal(t, 1, page.TotalPages)

	// Without paging parameters the list is a plain array
	w, body = env.do(t, http.MethodGet, "/api/team/getTeams", nil, false)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, string(body.Data))
}

func TestStaticEndpoints(t *testing.T) {
	env := setup(t)

	w, body := env.do(t, http.MethodGet, "/api/static/getAllStatics", nil, false)
	require.Equal(t, http.StatusOK, w.Code)
	var statics []models.StaticContent
	require.NoError(t, json.Unmarshal(body.Data, &statics))
	require.Len(t, statics, 1)
	id := statics[0].ID

	w, body = env.do(t, http.MethodPut, "/api/static/updateStatic/"+id, map[string]string{
		"about": "We build homes", "refundPolicy": "30 days",
	}, true)
	require.Equal(t, http.StatusOK, w.Code)

	w, body = env.do(t, http.MethodGet, "/api/static/getStatic/"+id, nil, false)
	require.Equal(t, http.StatusOK, w.Code)
	var static models.StaticContent
	require.NoError(t, json.Unmarshal(body.Data, &static))
	assert.Equal(t, "We build homes", static.About)
	assert.Equal(t, "30 days", static.RefundPolicy)
	assert.Empty(t, static.Terms)

	w, _ = env.do(t, http.MethodPut, "/api/static/updateStatic/missing", map[string]string{"about": "x"}, true)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestContactEndpoints(t *testing.T) {
	env := setup(t)

	valid := map[string]string{
		"firstName": "Asha",
		"lastName":  "Kumar",
		"phone":     "+91 98765 43210",
		"email":     "asha@example.com",
		"subject":   "Site visit",
		"message":   "Can I visit on Saturday?",
	}

	w, body := env.do(t, http.MethodPost, "/api/contact/createContact", valid, false)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var contact models.ContactSubmission
	require.NoError(t, json.Unmarshal(body.Data, &contact))
	assert.NotEmpty(t, contact.ID)

	env.notifier.mu.Lock()
	require.Len(t, env.notifier.contacts, 1)
	assert.Equal(t, contact.ID, env.notifier.contacts[0].ID)
	env.notifier.mu.Unlock()

	invalid := map[string]string{}
	for k, v := range valid {
		invalid[k] = v
	}
	invalid["email"] = "not-an-email"
	invalid["subject"] = " "
	w, body = env.do(t, http.MethodPost, "/api/contact/createContact", invalid, false)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, body.Error.Message, "email must be a valid email address")
	assert.Contains(t, body.Error.Message, "subject is required")

	w, _ = env.do(t, http.MethodGet, "/api/contact/getContacts", nil, false)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, body = env.do(t, http.MethodGet, "/api/contact/getContacts", nil, true)
	require.Equal(t, http.StatusOK, w.Code)
	var contacts []models.ContactSubmission
	require.NoError(t, json.Unmarshal(body.Data, &contacts))
	assert.Len(t, contacts, 1)

	w, body = env.do(t, http.MethodGet, "/api/contact/getContacts?page=1&pageSize=10", nil, true)
	require.Equal(t, http.StatusOK, w.Code)
	var page struct {
		Items      []models.ContactSubmission `json:"items"`
		TotalItems int                        `json:"total_items"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &page))
	assert.Equal(t, 1, page.TotalItems)

	w, _ = env.do(t, http.MethodGet, "/api/contact/getContact/"+contact.ID, nil, true)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = env.do(t, http.MethodDelete, "/api/contact/deleteContact/"+contact.ID, nil, true)
	assert.Equal(t, http.StatusOK, w.Code)

	_, err := env.db.GetContactByID(context.Background(), contact.ID)
	assert.Error(t, err)
}
