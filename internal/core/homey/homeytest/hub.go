// Package homeytest provides an in-memory HomeyScript hub served over HTTP
// for tests.
package homeytest

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/homeyscriptkit/hsk/internal/core/homey"
	"github.com/tidwall/sjson"
)

// DefaultToken is the bearer token accepted by hubs created with New("").
const DefaultToken = "test-token"

// Request records a call received by the hub.
type Request struct {
	Method string
	Path   string // Relative to homey.AppPath, e.g. "script/abc".
}

// Hub is a fake HomeyScript app. Listing returns scripts without code, the
// way the real hub's summary listing does; GetScript returns the full record.
type Hub struct {
	mu       sync.Mutex
	token    string
	order    []string
	scripts  map[string]homey.Script
	failures map[string]int
	requests []Request
	created  [][]byte

	server *httptest.Server
}

// New starts a hub that accepts token (DefaultToken when empty).
func New(token string) *Hub {
	if token == "" {
		token = DefaultToken
	}
	h := &Hub{
		token:    token,
		scripts:  make(map[string]homey.Script),
		failures: make(map[string]int),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET "+homey.AppPath+"/script", h.handleList)
	mux.HandleFunc("POST "+homey.AppPath+"/script", h.handleCreate)
	mux.HandleFunc("GET "+homey.AppPath+"/script/{id}", h.handleGet)
	mux.HandleFunc("PUT "+homey.AppPath+"/script/{id}", h.handleUpdate)
	mux.HandleFunc("DELETE "+homey.AppPath+"/script/{id}", h.handleDelete)

	h.server = httptest.NewServer(h.middleware(mux))
	return h
}

// URL returns the hub's base URL (without the app path).
func (h *Hub) URL() string { return h.server.URL }

// Token returns the accepted bearer token.
func (h *Hub) Token() string { return h.token }

// Close shuts the server down.
func (h *Hub) Close() { h.server.Close() }

// Client returns a client configured for this hub.
func (h *Hub) Client() *homey.Client {
	c, err := homey.NewClient(h.URL(), h.token, homey.WithHTTPClient(h.server.Client()))
	if err != nil {
		panic(err)
	}
	return c
}

// Seed stores a script, assigning an ID and version when unset.
func (h *Hub) Seed(s homey.Script) homey.Script {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.insertLocked(s)
}

// Scripts returns all stored scripts in insertion order.
func (h *Hub) Scripts() []homey.Script {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]homey.Script, 0, len(h.order))
	for _, id := range h.order {
		out = append(out, h.scripts[id])
	}
	return out
}

// ByName returns the first stored script with the given name.
func (h *Hub) ByName(name string) (homey.Script, bool) {
	for _, s := range h.Scripts() {
		if s.Name == name {
			return s, true
		}
	}
	return homey.Script{}, false
}

// Fail makes every request with method against target answer with status.
// target is a script ID, or "" for the collection endpoint.
func (h *Hub) Fail(method, target string, status int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.failures[failureKey(method, target)] = status
}

// Requests returns the calls received so far.
func (h *Hub) Requests() []Request {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]Request(nil), h.requests...)
}

// CreateBodies returns the raw bodies of the create requests received so far.
func (h *Hub) CreateBodies() [][]byte {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([][]byte(nil), h.created...)
}

func failureKey(method, target string) string {
	return method + " " + target
}

func (h *Hub) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rel := strings.TrimPrefix(strings.TrimPrefix(r.URL.Path, homey.AppPath), "/")

		h.mu.Lock()
		h.requests = append(h.requests, Request{Method: r.Method, Path: rel})
		target := strings.TrimPrefix(strings.TrimPrefix(rel, "script"), "/")
		status, fail := h.failures[failureKey(r.Method, target)]
		h.mu.Unlock()

		if r.Header.Get("Authorization") != "Bearer "+h.token {
			http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
			return
		}
		if fail {
			http.Error(w, `{"error":"injected failure"}`, status)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *Hub) handleList(w http.ResponseWriter, _ *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	body := []byte("{}")
	for _, id := range h.order {
		s := h.scripts[id]
		summary := homey.Script{ID: s.ID, Name: s.Name, Version: s.Version, LastExecuted: s.LastExecuted}
		raw, err := json.Marshal(summary)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		body, err = sjson.SetRawBytes(body, escapeKey(id), raw)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(body)
}

func (h *Hub) handleGet(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	s, ok := h.scripts[r.PathValue("id")]
	h.mu.Unlock()

	if !ok {
		http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

func (h *Hub) handleCreate(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, `{"error":"invalid body"}`, http.StatusBadRequest)
		return
	}
	var s homey.Script
	if err := json.Unmarshal(raw, &s); err != nil {
		http.Error(w, `{"error":"invalid body"}`, http.StatusBadRequest)
		return
	}

	h.mu.Lock()
	h.created = append(h.created, raw)
	if _, taken := h.scripts[s.ID]; taken {
		s.ID = ""
	}
	created := h.insertLocked(s)
	h.mu.Unlock()

	writeJSON(w, http.StatusOK, created)
}

func (h *Hub) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var body homey.Script
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, `{"error":"invalid body"}`, http.StatusBadRequest)
		return
	}

	h.mu.Lock()
	s, ok := h.scripts[id]
	if ok {
		s.Name = body.Name
		s.Code = body.Code
		s.Version = nextVersion(s.Version)
		h.scripts[id] = s
	}
	h.mu.Unlock()

	if !ok {
		http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

func (h *Hub) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	h.mu.Lock()
	_, ok := h.scripts[id]
	if ok {
		delete(h.scripts, id)
		for i, existing := range h.order {
			if existing == id {
				h.order = append(h.order[:i], h.order[i+1:]...)
				break
			}
		}
	}
	h.mu.Unlock()

	if !ok {
		http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Hub) insertLocked(s homey.Script) homey.Script {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.Version == "" {
		s.Version = homey.NumberVersion(1)
	}
	if _, exists := h.scripts[s.ID]; !exists {
		h.order = append(h.order, s.ID)
	}
	h.scripts[s.ID] = s
	return s
}

// nextVersion bumps numeric versions; string versions are kept as they are.
func nextVersion(v homey.Version) homey.Version {
	if n, ok := v.Int(); ok {
		return homey.NumberVersion(n + 1)
	}
	if v == "" {
		return homey.NumberVersion(1)
	}
	return v
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// escapeKey escapes characters that sjson treats as path syntax. Numeric keys
// get the ':' prefix so they stay object keys.
func escapeKey(key string) string {
	r := strings.NewReplacer(".", `\.`, "*", `\*`, "?", `\?`, "|", `\|`, "#", `\#`, "@", `\@`)
	escaped := r.Replace(key)
	if strings.Trim(key, "0123456789") == "" {
		escaped = ":" + escaped
	}
	return escaped
}
