package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"sitrus/server/internal/catalog"
	"sitrus/server/internal/finance"
	"sitrus/server/internal/models"
)

// Client talks to the site API on behalf of the public pages and the
// admin panel. Admin calls carry the session token.
type Client struct {
	baseURL string
	http    *http.Client
	session *Session
}

func New(baseURL string, session *Session) *Client {
	if session == nil {
		session = NewSession("")
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
		session: session,
	}
}

// WithHTTPClient replaces the underlying HTTP client
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.http = hc
	return c
}

func (c *Client) Session() *Session {
	return c.session
}

// LoanRequest is the body of a loan quote. A nil rate uses the server default.
type LoanRequest struct {
	Price             models.Price `json:"price"`
	DownPayment       float64      `json:"down_payment"`
	TenureMonths      int          `json:"tenure_months"`
	AnnualRatePercent *float64     `json:"annual_rate_percent,omitempty"`
}

// LoanQuote is a priced loan with its amounts rendered for display
type LoanQuote struct {
	finance.LoanQuoteResult
	Display map[string]string `json:"display"`
}

// Login authenticates an admin and stores the returned credentials
func (c *Client) Login(ctx context.Context, email, password string) (*models.Admin, error) {
	var resp models.LoginResponse
	body := models.LoginRequest{Email: email, Password: password}
	if err := c.do(ctx, http.MethodPost, "/api/admin/login", nil, body, false, &resp); err != nil {
		return nil, err
	}
	if resp.Token == "" {
		return nil, fmt.Errorf("login response carried no token")
	}
	if err := c.session.Save(resp.Token, resp.Admin); err != nil {
		return nil, err
	}
	return resp.Admin, nil
}

// Logout clears the stored session. The server keeps no session state.
func (c *Client) Logout() error {
	return c.session.Clear()
}

// Me returns the admin the session token belongs to
func (c *Client) Me(ctx context.Context) (*models.Admin, error) {
	var admin models.Admin
	if err := c.do(ctx, http.MethodGet, "/api/admin/me", nil, nil, true, &admin); err != nil {
		return nil, err
	}
	return &admin, nil
}

func (c *Client) GetCatalog(ctx context.Context, status string) (*catalog.CatalogViewModel, error) {
	query := url.Values{}
	if status != "" {
		query.Set("status", status)
	}
	var view catalog.CatalogViewModel
	if err := c.do(ctx, http.MethodGet, "/api/property/catalog", query, nil, false, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

func (c *Client) GetProperties(ctx context.Context, page, pageSize int) (*catalog.PageResult[models.PropertyView], error) {
	var result catalog.PageResult[models.PropertyView]
	if err := c.do(ctx, http.MethodGet, "/api/property/getProperties", pageQuery(page, pageSize), nil, false, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListProperties returns every property as one list
func (c *Client) ListProperties(ctx context.Context) ([]models.PropertyView, error) {
	views := make([]models.PropertyView, 0)
	if err := c.do(ctx, http.MethodGet, "/api/property/getProperties", nil, nil, false, &views); err != nil {
		return nil, err
	}
	return views, nil
}

func (c *Client) GetProperty(ctx context.Context, id string) (*models.PropertyView, error) {
	var view models.PropertyView
	if err := c.do(ctx, http.MethodGet, "/api/property/getProperty/"+url.PathEscape(id), nil, nil, false, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

func (c *Client) CreateProperty(ctx context.Context, req models.PropertyRequest) (*models.Property, error) {
	var property models.Property
	if err := c.do(ctx, http.MethodPost, "/api/property/createProperty", nil, req, true, &property); err != nil {
		return nil, err
	}
	return &property, nil
}

func (c *Client) DeleteProperty(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/property/deleteProperty/"+url.PathEscape(id), nil, nil, true, nil)
}

func (c *Client) QuoteLoan(ctx context.Context, req LoanRequest) (*LoanQuote, error) {
	var quote LoanQuote
	if err := c.do(ctx, http.MethodPost, "/api/emi/quote", nil, req, false, &quote); err != nil {
		return nil, err
	}
	return &quote, nil
}

// QuoteProperty prices a loan against a stored property. The price in req
// is ignored by the server.
func (c *Client) QuoteProperty(ctx context.Context, id string, req LoanRequest) (*LoanQuote, error) {
	var quote LoanQuote
	if err := c.do(ctx, http.MethodPost, "/api/property/emi/"+url.PathEscape(id), nil, req, false, &quote); err != nil {
		return nil, err
	}
	return &quote, nil
}

func (c *Client) GetFAQs(ctx context.Context) ([]models.FAQ, error) {
	faqs := make([]models.FAQ, 0)
	if err := c.do(ctx, http.MethodGet, "/api/faq/getfaqs", nil, nil, false, &faqs); err != nil {
		return nil, err
	}
	return faqs, nil
}

// TeamMemberView is a team member with the initials shown when no image is set
type TeamMemberView struct {
	models.TeamMember
	Initials string `json:"initials"`
}

func (c *Client) GetTeams(ctx context.Context, page, pageSize int) (*catalog.PageResult[TeamMemberView], error) {
	var result catalog.PageResult[TeamMemberView]
	if err := c.do(ctx, http.MethodGet, "/api/team/getTeams", pageQuery(page, pageSize), nil, false, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) CreateContact(ctx context.Context, req models.ContactRequest) (*models.ContactSubmission, error) {
	var contact models.ContactSubmission
	if err := c.do(ctx, http.MethodPost, "/api/contact/createContact", nil, req, false, &contact); err != nil {
		return nil, err
	}
	return &contact, nil
}

// pageQuery always carries page so the server answers with a PageResult
func pageQuery(page, pageSize int) url.Values {
	if page < 1 {
		page = 1
	}
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	if pageSize > 0 {
		query.Set("pageSize", strconv.Itoa(pageSize))
	}
	return query
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body interface{}, authed bool, dest interface{}) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		token := c.session.Token()
		if token == "" {
			return ErrNotLoggedIn
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		_, unwrapErr := Unwrap(data)
		if apiErr, ok := unwrapErr.(*APIError); ok {
			apiErr.Status = resp.StatusCode
			if resp.StatusCode == http.StatusUnauthorized && authed {
				// Expired or revoked credentials end the session
				_ = c.session.Clear()
			}
			return apiErr
		}
		return &APIError{Status: resp.StatusCode, Code: "http_error", Message: strings.TrimSpace(string(data))}
	}

	if dest == nil {
		_, err := Unwrap(data)
		return err
	}
	return Decode(data, dest)
}
