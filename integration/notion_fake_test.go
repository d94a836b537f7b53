package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
)

type fakePage struct {
	ID       string
	Name     string
	Email    string
	SignedUp string
}

// fakeNotion mimics the three Notion endpoints the service uses and records created pages.
type fakeNotion struct {
	mu           sync.Mutex
	databaseID   string
	pages        []fakePage
	queries      int
	queryStatus  int
	createStatus int
	server       *httptest.Server
}

func newFakeNotion(databaseID string) *fakeNotion {
	f := &fakeNotion{databaseID: databaseID}
	f.server = httptest.NewServer(http.HandlerFunc(f.handle))
	return f
}

func (f *fakeNotion) URL() string { return f.server.URL + "/v1" }

func (f *fakeNotion) Close() { f.server.Close() }

func (f *fakeNotion) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.pages = nil
	f.queries = 0
	f.queryStatus = 0
	f.createStatus = 0
}

func (f *fakeNotion) Pages() []fakePage {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]fakePage(nil), f.pages...)
}

func (f *fakeNotion) Seed(name, email string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.pages = append(f.pages, fakePage{ID: fmt.Sprintf("seed-%d", len(f.pages)+1), Name: name, Email: email})
}

func (f *fakeNotion) FailQueries(status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queryStatus = status
}

func (f *fakeNotion) FailCreates(status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createStatus = status
}

func (f *fakeNotion) writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"object": "error", "status": status, "code": code, "message": message})
}

func (f *fakeNotion) handle(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("Authorization") != "Bearer secret_integration" || r.Header.Get("Notion-Version") == "" {
		f.writeError(w, http.StatusUnauthorized, "unauthorized", "API token is invalid.")
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/v1/databases/"+f.databaseID+"/query":
		f.queries++
		if f.queryStatus != 0 {
			f.writeError(w, f.queryStatus, "service_unavailable", "Notion is unavailable.")
			return
		}

		var body struct {
			Filter struct {
				Property string `json:"property"`
				Email    struct {
					Equals string `json:"equals"`
				} `json:"email"`
			} `json:"filter"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Filter.Property != "Email" {
			f.writeError(w, http.StatusBadRequest, "validation_error", "bad filter")
			return
		}

		results := []map[string]string{}
		for _, p := range f.pages {
			if p.Email == body.Filter.Email.Equals {
				results = append(results, map[string]string{"object": "page", "id": p.ID})
			}
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"object": "list", "results": results, "has_more": false})

	case r.Method == http.MethodPost && r.URL.Path == "/v1/pages":
		if f.createStatus != 0 {
			f.writeError(w, f.createStatus, "internal_server_error", "Unexpected error.")
			return
		}

		var body struct {
			Parent     struct{ DatabaseID string `json:"database_id"` } `json:"parent"`
			Properties struct {
				Name struct {
					Title []struct {
						Text struct{ Content string `json:"content"` } `json:"text"`
					} `json:"title"`
				} `json:"Name"`
				Email struct {
					Email string `json:"email"`
				} `json:"Email"`
				SignedUp struct {
					Date struct{ Start string `json:"start"` } `json:"date"`
				} `json:"Signed Up"`
			} `json:"properties"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Parent.DatabaseID != f.databaseID || len(body.Properties.Name.Title) != 1 {
			f.writeError(w, http.StatusBadRequest, "validation_error", "bad page")
			return
		}

		page := fakePage{
			ID:       fmt.Sprintf("page-%d", len(f.pages)+1),
			Name:     body.Properties.Name.Title[0].Text.Content,
			Email:    body.Properties.Email.Email,
			SignedUp: body.Properties.SignedUp.Date.Start,
		}
		f.pages = append(f.pages, page)
		_ = json.NewEncoder(w).Encode(map[string]any{"object": "page", "id": page.ID})

	case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/v1/databases/"):
		_ = json.NewEncoder(w).Encode(map[string]any{"object": "database", "id": f.databaseID})

	default:
		f.writeError(w, http.StatusNotFound, "object_not_found", "not found")
	}
}
