package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sitrus/server/internal/models"
)

func TestUnwrap(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"envelope", `{"success":true,"data":[1,2]}`, `[1,2]`},
		{"double wrapped", `{"data":{"data":{"a":1}}}`, `{"a":1}`},
		{"bare array", `[{"a":1}]`, `[{"a":1}]`},
		{"bare object", `{"a":1}`, `{"a":1}`},
		{"data with siblings", `{"data":{"data":1,"total":2}}`, `{"data":1,"total":2}`},
		{"empty body", ``, `null`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Unwrap([]byte(tt.body))
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(got))
		})
	}
}

func TestUnwrapError(t *testing.T) {
	_, err := Unwrap([]byte(`{"success":false,"error":{"code":"not_found","message":"record not found"}}`))

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "not_found", apiErr.Code)
	assert.Equal(t, "record not found", apiErr.Message)
}

func TestDecode(t *testing.T) {
	var faqs []models.FAQ
	err := Decode([]byte(`{"data":{"data":[{"_id":"1","question":"Q","answer":"A"}]}}`), &faqs)
	require.NoError(t, err)
	require.Len(t, faqs, 1)
	assert.Equal(t, "Q", faqs[0].Question)
}

func TestSessionLifecycle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")

	s := NewSession(path)
	require.NoError(t, s.Load())
	assert.False(t, s.IsAuthenticated())
	assert.Nil(t, s.Admin())

	require.NoError(t, s.Save("tok", &models.Admin{ID: "a1", Email: "admin@example.com"}))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	restored := NewSession(path)
	require.NoError(t, restored.Load())
	assert.True(t, restored.IsAuthenticated())
	assert.Equal(t, "tok", restored.Token())
	require.NotNil(t, restored.Admin())
	assert.Equal(t, "a1", restored.Admin().ID)

	require.NoError(t, restored.Clear())
	assert.False(t, restored.IsAuthenticated())
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	// Clearing twice is harmless
	require.NoError(t, restored.Clear())
}

func TestSessionCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	s := NewSession(path)
	require.NoError(t, s.Load())
	assert.False(t, s.IsAuthenticated())
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func newTestServer(t *testing.T) *httptest.Server {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/admin/login", func(w http.ResponseWriter, r *http.Request) {
		var req models.LoginRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Password != "s3cret!" {
			writeJSON(w, http.StatusUnauthorized, map[string]interface{}{
				"success": false,
				"error":   map[string]string{"code": "invalid_credentials", "message": "invalid email or password"},
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"data": models.LoginResponse{
				Token: "valid-token",
				Admin: &models.Admin{ID: "a1", Email: req.Email},
			},
		})
	})

	mux.HandleFunc("/api/admin/me", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer valid-token" {
			writeJSON(w, http.StatusUnauthorized, map[string]interface{}{
				"success": false,
				"error":   map[string]string{"code": "unauthorized", "message": "invalid token"},
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"data":    models.Admin{ID: "a1", Email: "admin@example.com"},
		})
	})

	mux.HandleFunc("/api/faq/getfaqs", func(w http.ResponseWriter, r *http.Request) {
		// Legacy double wrapped shape
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"data": map[string]interface{}{
				"data": []models.FAQ{{ID: "f1", Question: "Q", Answer: "A"}},
			},
		})
	})

	mux.HandleFunc("/api/emi/quote", func(w http.ResponseWriter, r *http.Request) {
		var req LoanRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.True(t, req.Price.Numeric)
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"data": map[string]interface{}{
				"principal":       req.Price.Amount - req.DownPayment,
				"monthly_payment": 19001.37,
				"tenure_months":   req.TenureMonths,
				"display":         map[string]string{"monthly_payment": "₹19,001"},
			},
		})
	})

	mux.HandleFunc("/api/property/getProperties", func(w http.ResponseWriter, r *http.Request) {
		views := []models.PropertyView{
			{Property: models.Property{ID: "p1", Title: "Palm Grove"}, PriceDisplay: "₹25,00,000"},
		}
		if r.URL.Query().Get("page") == "" {
			writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "data": views})
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"data": map[string]interface{}{
				"items": views, "current_page": 1, "total_pages": 1, "total_items": 1, "page_size": 20,
			},
		})
	})

	mux.HandleFunc("/api/property/getProperty/missing", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]interface{}{
			"success": false,
			"error":   map[string]string{"code": "not_found", "message": "record not found"},
		})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestLoginStoresSession(t *testing.T) {
	srv := newTestServer(t)
	path := filepath.Join(t.TempDir(), "session.json")
	c := New(srv.URL, NewSession(path))

	admin, err := c.Login(context.Background(), "admin@example.com", "s3cret!")
	require.NoError(t, err)
	assert.Equal(t, "a1", admin.ID)
	assert.Equal(t, "valid-token", c.Session().Token())

	me, err := c.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", me.Email)

	// A fresh process picks the session up from disk
	restored := NewSession(path)
	require.NoError(t, restored.Load())
	assert.Equal(t, "valid-token", restored.Token())

	require.NoError(t, c.Logout())
	_, err = c.Me(context.Background())
	assert.ErrorIs(t, err, ErrNotLoggedIn)
}

func TestLoginRejected(t *testing.T) {
	srv := newTestServer(t)
	c := New(srv.URL, nil)

	_, err := c.Login(context.Background(), "admin@example.com", "wrong")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "invalid_credentials", apiErr.Code)
	assert.False(t, c.Session().IsAuthenticated())
}

func TestUnauthorizedClearsSession(t *testing.T) {
	srv := newTestServer(t)
	c := New(srv.URL, nil)
	require.NoError(t, c.Session().Save("expired-token", nil))

	_, err := c.Me(context.Background())

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "unauthorized", apiErr.Code)
	assert.False(t, c.Session().IsAuthenticated())
}

func TestGetFAQsLegacyShape(t *testing.T) {
	srv := newTestServer(t)
	c := New(srv.URL, nil)

	faqs, err := c.GetFAQs(context.Background())
	require.NoError(t, err)
	require.Len(t, faqs, 1)
	assert.Equal(t, "f1", faqs[0].ID)
}

func TestQuoteLoan(t *testing.T) {
	srv := newTestServer(t)
	c := New(srv.URL, nil)

	quote, err := c.QuoteLoan(context.Background(), LoanRequest{
		Price:        models.NumericPrice(2500000),
		DownPayment:  500000,
		TenureMonths: 240,
	})
	require.NoError(t, err)
	assert.Equal(t, 2000000.0, quote.Principal)
	assert.Equal(t, 240, quote.TenureMonths)
	assert.Equal(t, "₹19,001", quote.Display["monthly_payment"])
}

func TestNotFound(t *testing.T) {
	srv := newTestServer(t)
	c := New(srv.URL, nil)

	_, err := c.GetProperty(context.Background(), "missing")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "not_found", apiErr.Code)
}

func TestPropertyListShapes(t *testing.T) {
	srv := newTestServer(t)
	c := New(srv.URL, nil)

	views, err := c.ListProperties(context.Background())
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "p1", views[0].ID)

	page, err := c.GetProperties(context.Background(), 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, page.TotalItems)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "₹25,00,000", page.Items[0].PriceDisplay)
}
