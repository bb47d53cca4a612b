package vtiger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sort"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/publicsuffix"

	"crmdesk/internal/record"
)

// Options configures a Client.
type Options struct {
	BaseURL string
	Timeout time.Duration
	// AssignedUserID is attached to createField requests, matching the
	// upstream shim's expectation.
	AssignedUserID string
	Logger         *zap.Logger
}

// Client talks to the CRM API. The session credential is attached to every
// request after Login (or SetSession); server-set cookies ride along in the
// jar.
type Client struct {
	baseURL        string
	assignedUserID string
	httpc          *http.Client
	session        string
	logger         *zap.Logger
}

// New builds a client with a cookie jar so session cookies set by the
// server survive across calls.
func New(opts Options) (*Client, error) {
	if opts.BaseURL == "" {
		return nil, fmt.Errorf("vtiger: base URL is required")
	}
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("vtiger: create cookie jar: %w", err)
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:        opts.BaseURL,
		assignedUserID: opts.AssignedUserID,
		httpc:          &http.Client{Timeout: timeout, Jar: jar},
		logger:         logger,
	}, nil
}

// CloseIdleConnections releases pooled transport connections.
func (c *Client) CloseIdleConnections() { c.httpc.CloseIdleConnections() }

// SetSession installs a previously stored session token.
func (c *Client) SetSession(token string) { c.session = token }

// Session returns the active session token, empty when not logged in.
func (c *Client) Session() string { return c.session }

// BaseURL returns the API endpoint the client was built with.
func (c *Client) BaseURL() string { return c.baseURL }

// Login exchanges credentials for a session name and installs it on the
// client. A body of {"error": "..."} is surfaced as an APIError.
func (c *Client) Login(ctx context.Context, username, accessKey string) (string, error) {
	body, err := c.do(ctx, http.MethodPost, "/login", nil, map[string]string{
		"username":  username,
		"accessKey": accessKey,
	})
	if err != nil {
		return "", err
	}

	var resp struct {
		AuthUser struct {
			SessionName string `json:"sessionName"`
		} `json:"Auth User"`
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("vtiger: decode login response: %w", err)
	}
	if resp.AuthUser.SessionName == "" {
		msg := resp.Error
		if msg == "" {
			msg = "login failed"
		}
		return "", &APIError{Message: msg}
	}
	c.session = resp.AuthUser.SessionName
	c.logger.Info("logged in", zap.String("username", username))
	return resp.AuthUser.SessionName, nil
}

// Contacts fetches the bulk contact list. The payload maps each record
// label to a nested field array; rows come back sorted by display name so
// the table is stable across JSON map ordering.
func (c *Client) Contacts(ctx context.Context) ([]Contact, error) {
	body, err := c.doEnvelope(ctx, http.MethodGet, "/getAll", nil, nil)
	if err != nil {
		return nil, err
	}

	var byLabel map[string]json.RawMessage
	if err := json.Unmarshal(body, &byLabel); err != nil {
		return nil, fmt.Errorf("vtiger: decode contact list: %w", err)
	}

	contacts := make([]Contact, 0, len(byLabel))
	for label, raw := range byLabel {
		fields, values, err := record.NormalizeFields(raw)
		if err != nil {
			return nil, fmt.Errorf("vtiger: normalize contact %q: %w", label, err)
		}
		contacts = append(contacts, contactFromValues(fields, values))
	}
	sort.Slice(contacts, func(i, j int) bool {
		return contacts[i].DisplayName() < contacts[j].DisplayName()
	})
	return contacts, nil
}

// FetchRecord hydrates a single record: its field sections and the related
// potentials list.
func (c *Client) FetchRecord(ctx context.Context, id string) (*Record, error) {
	body, err := c.doEnvelope(ctx, http.MethodGet, "/api", url.Values{"id": {id}}, nil)
	if err != nil {
		return nil, err
	}

	var detail struct {
		ID      string `json:"id"`
		Related struct {
			Potentials []record.Potential `json:"Potentials"`
		} `json:"related"`
	}
	if err := json.Unmarshal(body, &detail); err != nil {
		return nil, fmt.Errorf("vtiger: decode record %s: %w", id, err)
	}
	fields, values, err := record.NormalizeFields(body)
	if err != nil {
		return nil, fmt.Errorf("vtiger: normalize record %s: %w", id, err)
	}

	rec := &Record{
		ID:         detail.ID,
		Fields:     fields,
		Values:     values,
		Potentials: detail.Related.Potentials,
	}
	if rec.ID == "" {
		rec.ID = id
	}
	return rec, nil
}

// UpdateRecord submits a change-tracker delta: only the changed values and
// their descriptors, never the full snapshot.
func (c *Client) UpdateRecord(ctx context.Context, id string, delta record.Delta) error {
	if delta.Empty() {
		return nil
	}
	_, err := c.doEnvelope(ctx, http.MethodPost, "/updateRecord", nil, map[string]any{
		"id":     id,
		"data":   delta.Values,
		"fields": delta.Fields,
	})
	return err
}

// CreateField registers an ad-hoc custom field on a record with its initial
// value.
func (c *Client) CreateField(ctx context.Context, id string, fv record.FieldValue, editable bool) error {
	_, err := c.doEnvelope(ctx, http.MethodPost, "/createField", nil, map[string]any{
		"create_field": true,
		"id":           id,
		"data":         map[string]string{fv.FieldName: fv.Value},
		"field_info": map[string]any{
			"fieldname": fv.FieldName,
			"label":     fv.Label,
			"type":      fv.Type,
			"value":     fv.Value,
			"mandatory": fv.Mandatory,
			"editable":  editable,
		},
		"assigned_user_id": c.assignedUserID,
	})
	return err
}

// UpdatePotentials submits the changed and added rows of a related-list
// delta. Removals are not part of the upstream contract and are skipped.
func (c *Client) UpdatePotentials(ctx context.Context, delta record.RelatedDelta) error {
	ups := delta.Upserts()
	if len(ups) == 0 {
		return nil
	}
	_, err := c.doEnvelope(ctx, http.MethodPost, "/updatePotentials", nil, map[string]any{
		"type": "potentials",
		"data": ups,
	})
	return err
}

// doEnvelope performs a request whose response is the standard
// {success, message, data} envelope and unwraps it.
func (c *Client) doEnvelope(ctx context.Context, method, path string, query url.Values, payload any) (json.RawMessage, error) {
	body, err := c.do(ctx, method, path, query, payload)
	if err != nil {
		return nil, err
	}
	var env struct {
		Success bool            `json:"success"`
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("vtiger: decode %s response: %w", path, err)
	}
	if !env.Success {
		msg := env.Message
		if msg == "" {
			msg = "server returned an error"
		}
		return nil, &APIError{Message: msg}
	}
	return env.Data, nil
}

// do performs one HTTP round trip and returns the raw body. Non-2xx status
// and unreadable bodies surface as transport errors.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, payload any) ([]byte, error) {
	u, err := url.Parse(c.baseURL + path)
	if err != nil {
		return nil, fmt.Errorf("vtiger: build url for %s: %w", path, err)
	}
	if query == nil {
		query = url.Values{}
	}
	if c.session != "" {
		query.Set("sessionName", c.session)
	}
	u.RawQuery = query.Encode()

	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("vtiger: encode %s payload: %w", path, err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reqBody)
	if err != nil {
		return nil, fmt.Errorf("vtiger: build %s request: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("vtiger: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("vtiger: read %s response: %w", path, err)
	}
	c.logger.Debug("api call",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("vtiger: %s %s: server returned status %d", method, path, resp.StatusCode)
	}
	return body, nil
}
