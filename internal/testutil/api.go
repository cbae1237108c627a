package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// AlertsPath is where the fake serves the alert collection
const AlertsPath = "/api/HTT/alerts"

const tokenSecret = "test-secret-key-for-testing-only"

// API is an in-process stand-in for the alerting platform: login, alerts,
// comments and the news scraper. Tokens are HS256 JWTs.
type API struct {
	Server *httptest.Server

	mu           sync.Mutex
	users        map[string][]byte // username -> bcrypt hash
	alerts       []map[string]interface{}
	comments     map[int64][]map[string]interface{}
	alertsStatus int
	requests     int
}

// NewAPI starts a fake API server that is closed when t ends
func NewAPI(t *testing.T) *API {
	t.Helper()
	a := &API{
		users:    make(map[string][]byte),
		comments: make(map[int64][]map[string]interface{}),
	}

	r := chi.NewRouter()
	r.Use(a.count)

	// Public routes
	r.Post("/users", a.login)
	r.Get("/scrape", a.news)

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(bearer)
		r.Get(AlertsPath, a.listAlerts)
		r.Get(AlertsPath+"/{id}/comments", a.listComments)
	})

	a.Server = httptest.NewServer(r)
	t.Cleanup(a.Server.Close)
	return a
}

// URL is the server base URL
func (a *API) URL() string { return a.Server.URL }

// AlertsURL is the full alert collection endpoint
func (a *API) AlertsURL() string { return a.Server.URL + AlertsPath }

// AddUser registers a login
func (a *API) AddUser(t *testing.T, username, password string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.users[username] = hash
}

// AddAlerts appends alert records, built with Alert or by hand
func (a *API) AddAlerts(records ...map[string]interface{}) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.alerts = append(a.alerts, records...)
}

// AddComments appends comment records to an alert's thread
func (a *API) AddComments(alertID int64, records ...map[string]interface{}) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.comments[alertID] = append(a.comments[alertID], records...)
}

// FailAlerts makes the alert endpoint answer with status; 0 restores normal replies
func (a *API) FailAlerts(status int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.alertsStatus = status
}

// Requests returns how many requests reached the server
func (a *API) Requests() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.requests
}

func (a *API) count(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		a.mu.Lock()
		a.requests++
		a.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (a *API) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body")
		return
	}

	a.mu.Lock()
	hash, ok := a.users[req.Username]
	a.mu.Unlock()
	if !ok || bcrypt.CompareHashAndPassword(hash, []byte(req.Password)) != nil {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid credentials")
		return
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   req.Username,
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte(tokenSecret))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (a *API) listAlerts(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	status := a.alertsStatus
	alerts := append([]map[string]interface{}{}, a.alerts...)
	a.mu.Unlock()

	if status != 0 {
		writeError(w, status, "FAILED", http.StatusText(status))
		return
	}
	writeJSON(w, http.StatusOK, alerts)
}

func (a *API) listComments(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid alert id")
		return
	}

	a.mu.Lock()
	comments := append([]map[string]interface{}{}, a.comments[id]...)
	a.mu.Unlock()

	writeJSON(w, http.StatusOK, comments)
}

func (a *API) news(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"krebs": []map[string]string{
			{"title": "Patch Tuesday, July 2024 Edition", "link": "https://krebsonsecurity.com/2024/07/patch-tuesday"},
		},
		"threatpost": []map[string]string{
			{"title": "Ransomware Gangs Target Edge Devices", "link": "https://threatpost.com/ransomware-edge"},
		},
	})
}

// bearer rejects requests without a valid token
func bearer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		parts := strings.Split(r.Header.Get("Authorization"), " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Missing authentication token")
			return
		}

		_, err := jwt.ParseWithClaims(parts[1], &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
			return []byte(tokenSecret), nil
		})
		if err != nil {
			writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid or expired token")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]string{"code": code, "message": message})
}
