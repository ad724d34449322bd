package testhelpers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// MockTVMServer provides a configurable mock token vending service for
// testing. Both credential endpoints are served; responses and failure modes
// are configurable per test, and incoming authentication parameters are
// captured for assertion.
type MockTVMServer struct {
	Server        *httptest.Server
	Expiration    time.Time // Expiration stamped on vended credentials
	StatusCode    int       // HTTP status code to return (200 if not set)
	ErrorBody     string    // Body returned alongside a non-200 status
	RawBody       string    // Overrides the response body entirely when set
	RequestCount  int       // Number of credential requests received
	LastNamespace string    // Captured owNamespace from the last request
	LastAuth      string    // Captured owAuth from the last request
}

// SetupMockTVMServer creates a mock vending service handling the S3 and Azure
// Blob credential endpoints.
func SetupMockTVMServer(t *testing.T) *MockTVMServer {
	t.Helper()

	mock := &MockTVMServer{
		Expiration: time.Now().Add(1 * time.Hour).UTC(),
		StatusCode: http.StatusOK,
	}

	router := http.NewServeMux()

	router.HandleFunc("GET /aws/s3", func(w http.ResponseWriter, r *http.Request) {
		mock.record(r)

		if mock.respondSpecial(w) {
			return
		}

		WriteJSON(w, map[string]any{
			"accessKeyId":     "mock-access-key",
			"secretAccessKey": "mock-secret-key",
			"sessionToken":    "mock-session-token",
			"expiration":      mock.Expiration.Format(time.RFC3339),
		})
	})

	router.HandleFunc("GET /azure/blob", func(w http.ResponseWriter, r *http.Request) {
		mock.record(r)

		if mock.respondSpecial(w) {
			return
		}

		WriteJSON(w, map[string]any{
			"sasURLPrivate": "https://mock.blob.example/private?sig=abc",
			"sasURLPublic":  "https://mock.blob.example/public?sig=def",
			"expiration":    mock.Expiration.Format(time.RFC3339),
		})
	})

	mock.Server = httptest.NewServer(router)
	t.Cleanup(mock.Server.Close)
	return mock
}

// Close shuts down the mock server.
func (m *MockTVMServer) Close() {
	m.Server.Close()
}

func (m *MockTVMServer) record(r *http.Request) {
	m.RequestCount++
	m.LastNamespace = r.URL.Query().Get("owNamespace")
	m.LastAuth = r.URL.Query().Get("owAuth")
}

// respondSpecial handles the configured error or raw-body overrides,
// reporting whether it wrote a response.
func (m *MockTVMServer) respondSpecial(w http.ResponseWriter) bool {
	if m.StatusCode != http.StatusOK {
		w.WriteHeader(m.StatusCode)
		_, _ = w.Write([]byte(m.ErrorBody))
		return true
	}

	if m.RawBody != "" {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(m.RawBody))
		return true
	}

	return false
}

// WriteJSON is a helper function that writes a JSON response.
// It sets the Content-Type header and marshals the payload to JSON.
func WriteJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	data, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, "marshal failure", http.StatusInternalServerError)
		return
	}
	_, _ = w.Write(data)
}
