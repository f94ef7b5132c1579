package repository

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// fakePostgrest serves a single table the way PostgREST does, closely enough
// for the Supabase client.
type fakePostgrest struct {
	t     *testing.T
	table string

	mu       sync.Mutex
	rows     []map[string]any
	nextID   int
	requests []*http.Request
	// listBody, when set, replaces the stored rows in GET responses.
	listBody string
}

func newFakePostgrest(t *testing.T, table string) (*fakePostgrest, *httptest.Server) {
	t.Helper()
	f := &fakePostgrest{t: t, table: table}
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)
	return f, srv
}

func (f *fakePostgrest) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

func (f *fakePostgrest) lastRequest() *http.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.requests) == 0 {
		return nil
	}
	return f.requests[len(f.requests)-1]
}

func (f *fakePostgrest) seed(rows ...map[string]any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows = append(f.rows, rows...)
}

func (f *fakePostgrest) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, r.Clone(r.Context()))

	if !strings.HasSuffix(r.URL.Path, "/rest/v1/"+f.table) {
		writeError(w, http.StatusNotFound, "42P01", fmt.Sprintf("relation %q does not exist", r.URL.Path))
		return
	}

	switch r.Method {
	case http.MethodGet:
		if f.listBody != "" {
			w.Header().Set("Content-Range", "0-0/1")
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(f.listBody))
			return
		}
		f.writeRows(w, http.StatusOK, f.rows)
	case http.MethodPost:
		dec := json.NewDecoder(r.Body)
		dec.UseNumber()
		var in []map[string]any
		if err := dec.Decode(&in); err != nil {
			writeError(w, http.StatusBadRequest, "PGRST102", err.Error())
			return
		}
		created := make([]map[string]any, 0, len(in))
		for _, row := range in {
			f.nextID++
			row["id"] = fmt.Sprintf("exp-%d", f.nextID)
			f.rows = append(f.rows, row)
			created = append(created, row)
		}
		f.writeRows(w, http.StatusCreated, created)
	default:
		writeError(w, http.StatusMethodNotAllowed, "PGRST100", r.Method)
	}
}

func (f *fakePostgrest) writeRows(w http.ResponseWriter, status int, rows []map[string]any) {
	var buf bytes.Buffer
	if rows == nil {
		rows = []map[string]any{}
	}
	if err := json.NewEncoder(&buf).Encode(rows); err != nil {
		f.t.Errorf("encode rows: %v", err)
	}
	last := len(rows) - 1
	if last < 0 {
		w.Header().Set("Content-Range", "*/0")
	} else {
		w.Header().Set("Content-Range", fmt.Sprintf("0-%d/%d", last, len(rows)))
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"code": code, "message": msg, "details": nil, "hint": nil})
}
