package vtiger

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"crmdesk/internal/record"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := New(Options{BaseURL: srv.URL, Timeout: 5 * time.Second, AssignedUserID: "19x1"})
	require.NoError(t, err)
	t.Cleanup(c.CloseIdleConnections)
	return c, srv
}

func TestNewRequiresBaseURL(t *testing.T) {
	_, err := New(Options{})
	assert.Error(t, err)
}

func TestLoginSuccessAttachesSession(t *testing.T) {
	var sawSession string
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/login":
			var creds map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
			assert.Equal(t, "admin", creds["username"])
			assert.Equal(t, "s3cretkey", creds["accessKey"])
			_ = json.NewEncoder(w).Encode(map[string]any{
				"Auth User": map[string]string{"sessionName": "sess-123"},
			})
		case "/getAll":
			sawSession = r.URL.Query().Get("sessionName")
			_ = json.NewEncoder(w).Encode(map[string]any{"success": true, "data": map[string]any{}})
		}
	}))

	token, err := c.Login(context.Background(), "admin", "s3cretkey")
	require.NoError(t, err)
	assert.Equal(t, "sess-123", token)

	_, err = c.Contacts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "sess-123", sawSession, "session token rides on subsequent requests")
}

func TestLoginApplicationError(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Invalid access key"})
	}))

	_, err := c.Login(context.Background(), "admin", "wrong")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Invalid access key", apiErr.Message)
}

func TestContactsNormalizesBulkShape(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data": map[string]any{
				"Ana Lee": []any{[]any{
					map[string]any{"fieldname": "contact_no", "value": "CON1"},
					map[string]any{"fieldname": "firstname", "value": "Ana"},
					map[string]any{"fieldname": "lastname", "value": "Lee"},
					map[string]any{"fieldname": "email", "value": "ana@x.com"},
					map[string]any{"fieldname": "phone", "value": "555-0101"},
				}},
				"Bob Wu": []any{[]any{
					map[string]any{"fieldname": "contact_no", "value": "CON2"},
					map[string]any{"fieldname": "lastname", "value": "Wu"},
					map[string]any{"fieldname": "mobile", "value": "555-0202"},
				}},
			},
		})
	}))

	contacts, err := c.Contacts(context.Background())
	require.NoError(t, err)
	require.Len(t, contacts, 2)

	ana := contacts[0]
	assert.Equal(t, "CON1", ana.ID)
	assert.Equal(t, "Ana Lee", ana.DisplayName())
	assert.Equal(t, "555-0101", ana.Phone())
	assert.Equal(t, "Unassigned", ana.AssignedTo)

	bob := contacts[1]
	assert.Equal(t, "Wu", bob.DisplayName())
	assert.Equal(t, "555-0202", bob.Phone(), "mobile fallback when office phone is empty")
}

func TestFetchRecordSectionsAndRelated(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "12x3", r.URL.Query().Get("id"))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data": map[string]any{
				"id": "12x3",
				"sections": map[string]any{
					"General Information": []any{
						map[string]any{"fieldname": "firstname", "label": "First Name", "type": "string", "value": "Ana"},
						map[string]any{"fieldname": "donotcall", "label": "Do Not Call", "type": "boolean", "value": "1"},
					},
				},
				"related": map[string]any{
					"Potentials": []any{
						map[string]any{"id": "5x1", "potentialname": "Renewal", "closingdate": "2026-10-01"},
					},
				},
			},
		})
	}))

	rec, err := c.FetchRecord(context.Background(), "12x3")
	require.NoError(t, err)
	assert.Equal(t, "12x3", rec.ID)
	require.Len(t, rec.Fields, 2)
	assert.Equal(t, "Ana", rec.Values["firstname"])
	assert.Equal(t, "1", rec.Values["donotcall"])
	require.Len(t, rec.Potentials, 1)
	assert.Equal(t, "Renewal", rec.Potentials[0].Name)
}

func TestUpdateRecordSendsOnlyDelta(t *testing.T) {
	var got map[string]json.RawMessage
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/updateRecord", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(map[string]any{"success": true})
	}))

	delta := record.Delta{
		Values: map[string]string{"email": "ana@x.com"},
		Fields: []record.FieldValue{{FieldName: "email", Label: "Email", Type: record.TypeEmail, Value: "ana@x.com"}},
	}
	require.NoError(t, c.UpdateRecord(context.Background(), "12x3", delta))

	var values map[string]string
	require.NoError(t, json.Unmarshal(got["data"], &values))
	assert.Equal(t, map[string]string{"email": "ana@x.com"}, values)
}

func TestUpdateRecordSkipsEmptyDelta(t *testing.T) {
	called := false
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	require.NoError(t, c.UpdateRecord(context.Background(), "12x3", record.Delta{Values: map[string]string{}}))
	assert.False(t, called, "empty delta must not hit the network")
}

func TestUpdateRecordApplicationFailure(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "message": "record locked"})
	}))

	err := c.UpdateRecord(context.Background(), "12x3", record.Delta{Values: map[string]string{"a": "b"}})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "record locked", apiErr.Message)
}

func TestTransportFailureStatus(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))

	_, err := c.Contacts(context.Background())
	require.Error(t, err)
	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr), "non-2xx is a transport error, not an application error")
	assert.Contains(t, err.Error(), "status 500")
}

func TestFormatFailureNonJSON(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html>fatal php error</html>"))
	}))

	_, err := c.Contacts(context.Background())
	require.Error(t, err)
	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr))
}

func TestUpdatePotentialsPayload(t *testing.T) {
	var got struct {
		Type string             `json:"type"`
		Data []record.Potential `json:"data"`
	}
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/updatePotentials", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(map[string]any{"success": true})
	}))

	delta := record.RelatedDelta{
		Changed:    []record.Potential{{ID: "5x1", Name: "Renewal+", ClosingDate: "2026-10-01"}},
		RemovedIDs: []string{"5x9"},
	}
	require.NoError(t, c.UpdatePotentials(context.Background(), delta))
	assert.Equal(t, "potentials", got.Type)
	require.Len(t, got.Data, 1, "removals never reach the wire")
	assert.Equal(t, "5x1", got.Data[0].ID)
}

func TestCreateFieldPayload(t *testing.T) {
	var got map[string]json.RawMessage
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/createField", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(map[string]any{"success": true})
	}))

	fv := record.FieldValue{FieldName: "budget", Label: "Budget", Type: record.TypeNumber, Value: "1000"}
	require.NoError(t, c.CreateField(context.Background(), "12x3", fv, true))

	var userID string
	require.NoError(t, json.Unmarshal(got["assigned_user_id"], &userID))
	assert.Equal(t, "19x1", userID)

	var data map[string]string
	require.NoError(t, json.Unmarshal(got["data"], &data))
	assert.Equal(t, map[string]string{"budget": "1000"}, data)
}
