package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/yuchan1120/task-manager-cli/internal/models"
	"github.com/yuchan1120/task-manager-cli/internal/testutil"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

func newTestClient(t *testing.T) (*Client, *testutil.FakeServer) {
	t.Helper()
	fake := testutil.NewFakeServer()
	srv := httptest.NewServer(fake.Handler())
	t.Cleanup(srv.Close)
	return New(srv.URL, staticToken(fake.Token)), fake
}

func TestLogin(t *testing.T) {
	t.Parallel()

	client, fake := newTestClient(t)

	token, err := client.Login(context.Background(), models.Credentials{
		Username: fake.Username,
		Password: fake.Password,
	})
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if token != fake.Token {
		t.Errorf("token = %q, want %q", token, fake.Token)
	}
}

func TestLoginRejectionIsAuthError(t *testing.T) {
	t.Parallel()

	client, fake := newTestClient(t)

	_, err := client.Login(context.Background(), models.Credentials{
		Username: fake.Username,
		Password: "wrong",
	})
	if err == nil {
		t.Fatal("expected Login to fail")
	}
	if !IsAuthError(err) {
		t.Errorf("expected auth error, got %v", err)
	}
}

func TestValidateWithBadTokenIsAuthError(t *testing.T) {
	t.Parallel()

	fake := testutil.NewFakeServer()
	srv := httptest.NewServer(fake.Handler())
	t.Cleanup(srv.Close)

	client := New(srv.URL, staticToken("wrong-token"))
	err := client.Validate(context.Background())
	if !IsAuthError(err) {
		t.Errorf("expected auth error, got %v", err)
	}
}

func TestEmptyTokenOmitsAuthorizationHeader(t *testing.T) {
	t.Parallel()

	var sawHeader bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, sawHeader = r.Header["Authorization"]
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte("[]"))
	}))
	t.Cleanup(srv.Close)

	client := New(srv.URL, staticToken(""))
	if _, err := client.ListTasks(context.Background()); err != nil {
		t.Fatalf("ListTasks failed: %v", err)
	}
	if sawHeader {
		t.Error("Authorization header sent despite empty token")
	}
}

func TestTaskRoundTrip(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t)
	ctx := context.Background()

	due := models.NewDate(2025, time.June, 20)
	created, err := client.CreateTask(ctx, models.NewTask{
		Title:       "Write report",
		Description: "quarterly",
		DueDate:     &due,
		TagIDs:      []int64{7},
	})
	if err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}
	if created.ID == 0 {
		t.Fatal("service did not assign an id")
	}

	tasks, err := client.ListTasks(ctx)
	if err != nil {
		t.Fatalf("ListTasks failed: %v", err)
	}
	if len(tasks) != 1 {
		t.Fatalf("listing has %d tasks, want 1", len(tasks))
	}
	got := tasks[0]
	if got.Title != "Write report" || got.Description != "quarterly" {
		t.Errorf("task fields lost in transit: %+v", got)
	}
	if got.DueDate == nil || got.DueDate.String() != "2025-06-20" {
		t.Errorf("due date = %v, want 2025-06-20", got.DueDate)
	}
	if !got.HasTag(7) {
		t.Errorf("tag ids lost in transit: %v", got.TagIDs)
	}

	toggled, err := client.ToggleTask(ctx, created.ID)
	if err != nil {
		t.Fatalf("ToggleTask failed: %v", err)
	}
	if !toggled.Completed {
		t.Error("toggle did not flip completion")
	}

	title := "Revised report"
	updated, err := client.UpdateTask(ctx, created.ID, models.TaskPatch{Title: &title})
	if err != nil {
		t.Fatalf("UpdateTask failed: %v", err)
	}
	if updated.Title != "Revised report" {
		t.Errorf("updated title = %q", updated.Title)
	}
	if updated.Description != "quarterly" {
		t.Errorf("partial update touched description: %q", updated.Description)
	}

	if err := client.DeleteTask(ctx, created.ID); err != nil {
		t.Fatalf("DeleteTask failed: %v", err)
	}
	tasks, err = client.ListTasks(ctx)
	if err != nil {
		t.Fatalf("ListTasks failed: %v", err)
	}
	if len(tasks) != 0 {
		t.Errorf("listing has %d tasks after delete, want 0", len(tasks))
	}
}

func TestTagRoundTrip(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t)
	ctx := context.Background()

	created, err := client.CreateTag(ctx, "work")
	if err != nil {
		t.Fatalf("CreateTag failed: %v", err)
	}

	renamed, err := client.RenameTag(ctx, created.ID, "office")
	if err != nil {
		t.Fatalf("RenameTag failed: %v", err)
	}
	if renamed.Name != "office" {
		t.Errorf("renamed tag = %q", renamed.Name)
	}

	if err := client.DeleteTag(ctx, created.ID); err != nil {
		t.Fatalf("DeleteTag failed: %v", err)
	}
	tags, err := client.ListTags(ctx)
	if err != nil {
		t.Fatalf("ListTags failed: %v", err)
	}
	if len(tags) != 0 {
		t.Errorf("listing has %d tags after delete, want 0", len(tags))
	}
}

func TestServerErrorIsRemoteError(t *testing.T) {
	t.Parallel()

	client, fake := newTestClient(t)
	fake.ForceStatus(http.MethodGet, "/api/tasks", http.StatusInternalServerError)

	_, err := client.ListTasks(context.Background())
	if err == nil {
		t.Fatal("expected ListTasks to fail")
	}
	if !IsRemoteError(err) {
		t.Errorf("expected remote error, got %v", err)
	}
	if IsAuthError(err) {
		t.Error("500 misclassified as auth error")
	}
}

func TestMalformedBodyIsRemoteError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("this is not json"))
	}))
	t.Cleanup(srv.Close)

	client := New(srv.URL, staticToken("token"))
	_, err := client.ListTasks(context.Background())
	if err == nil {
		t.Fatal("expected ListTasks to fail")
	}
	if !IsRemoteError(err) {
		t.Errorf("malformed payload not treated as remote rejection: %v", err)
	}
	if !strings.Contains(err.Error(), "malformed") {
		t.Errorf("error does not mention the malformed body: %v", err)
	}
}

func TestTransportFailureIsNotRemoteError(t *testing.T) {
	t.Parallel()

	// Nothing listens here.
	client := New("http://127.0.0.1:1", staticToken("token"))
	_, err := client.ListTasks(context.Background())
	if err == nil {
		t.Fatal("expected ListTasks to fail")
	}
	if IsRemoteError(err) || IsAuthError(err) {
		t.Errorf("transport failure misclassified: %v", err)
	}
}
