package pomotodo

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
)

type recordedRequest struct {
	method string
	path   string
	auth   string
	body   map[string]any
}

func newTestServer(t *testing.T) (*Client, *[]recordedRequest) {
	t.Helper()
	var requests []recordedRequest

	record := func(w http.ResponseWriter, r *http.Request, uuid string) {
		entry := recordedRequest{method: r.Method, path: r.URL.Path, auth: r.Header.Get("Authorization")}
		if r.Body != nil {
			_ = json.NewDecoder(r.Body).Decode(&entry.body)
		}
		requests = append(requests, entry)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"uuid": uuid})
	}

	router := chi.NewRouter()
	router.Get("/account", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(Account{UUID: "me", Name: "Ada", ProExpiresTime: "2027-01-01"})
	})
	router.Post("/todos", func(w http.ResponseWriter, r *http.Request) {
		record(w, r, "todo-1")
	})
	router.Patch("/todos/{id}", func(w http.ResponseWriter, r *http.Request) {
		record(w, r, chi.URLParam(r, "id"))
	})
	router.Post("/todos/{parent}/sub_todos", func(w http.ResponseWriter, r *http.Request) {
		record(w, r, "sub-1")
	})
	router.Patch("/todos/{parent}/sub_todos/{id}", func(w http.ResponseWriter, r *http.Request) {
		record(w, r, chi.URLParam(r, "id"))
	})
	router.Post("/pomos", func(w http.ResponseWriter, r *http.Request) {
		record(w, r, "pomo-1")
	})
	router.Patch("/pomos/{id}", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"not found"}`, http.StatusNotFound)
	})

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return NewClient("secret", WithBaseURL(server.URL)), &requests
}

func TestClientTodos(t *testing.T) {
	client, requests := newTestServer(t)
	ctx := context.Background()

	id, err := client.CreateTodo(ctx, "buy milk")
	if err != nil || id != "todo-1" {
		t.Fatalf("CreateTodo() = %q, %v", id, err)
	}
	id, err = client.FinishTodo(ctx, "abc123")
	if err != nil || id != "abc123" {
		t.Fatalf("FinishTodo() = %q, %v", id, err)
	}
	id, err = client.CreateSubTodo(ctx, "outline", "abc123")
	if err != nil || id != "sub-1" {
		t.Fatalf("CreateSubTodo() = %q, %v", id, err)
	}
	id, err = client.FinishSubTodo(ctx, "abc123", "sub-9")
	if err != nil || id != "sub-9" {
		t.Fatalf("FinishSubTodo() = %q, %v", id, err)
	}

	got := *requests
	if len(got) != 4 {
		t.Fatalf("server saw %d requests, want 4", len(got))
	}
	for _, request := range got {
		if request.auth != "token secret" {
			t.Errorf("%s %s Authorization = %q", request.method, request.path, request.auth)
		}
	}
	if got[0].body["description"] != "buy milk" {
		t.Errorf("create body = %v", got[0].body)
	}
	if got[1].method != http.MethodPatch || got[1].body["completed"] != true {
		t.Errorf("finish request = %+v", got[1])
	}
	if got[2].path != "/todos/abc123/sub_todos" {
		t.Errorf("sub-todo path = %q", got[2].path)
	}
	if got[3].body["parent_uuid"] != "abc123" || got[3].body["completed"] != true {
		t.Errorf("finish sub-todo body = %v", got[3].body)
	}
}

func TestClientCreatePomo(t *testing.T) {
	client, requests := newTestServer(t)

	start := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	id, err := client.CreatePomo(context.Background(), Pomo{Description: "write report", StartedAt: start, Length: 25 * time.Minute})
	if err != nil || id != "pomo-1" {
		t.Fatalf("CreatePomo() = %q, %v", id, err)
	}
	body := (*requests)[0].body
	if body["started_at"] != "2026-03-14 09:00:00" {
		t.Errorf("started_at = %v", body["started_at"])
	}
	if body["length"] != float64(1500) {
		t.Errorf("length = %v, want 1500", body["length"])
	}
}

func TestClientAccount(t *testing.T) {
	client, _ := newTestServer(t)
	account, err := client.Account(context.Background())
	if err != nil {
		t.Fatalf("Account() error = %v", err)
	}
	if account.Name != "Ada" || account.ProExpiresTime != "2027-01-01" {
		t.Errorf("Account() = %+v", account)
	}
}

func TestClientErrors(t *testing.T) {
	client, _ := newTestServer(t)

	_, err := client.ModifyPomo(context.Background(), "missing", "x")
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusNotFound {
		t.Fatalf("ModifyPomo() error = %v, want APIError 404", err)
	}

	_, err = NewClient("").CreateTodo(context.Background(), "x")
	if !errors.Is(err, ErrNoAPIKey) {
		t.Fatalf("CreateTodo() without key error = %v, want ErrNoAPIKey", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := client.CreateTodo(ctx, "x"); !errors.Is(err, context.Canceled) {
		t.Fatalf("CreateTodo() with cancelled context error = %v", err)
	}
}
