package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"console-backend/internal/notify"
)

func notificationRouter(queue *notify.Queue) http.Handler {
	r := chi.NewRouter()
	r.Get("/api/notifications", GetNotifications(queue))
	r.Post("/api/notifications", PushNotification(queue))
	r.Delete("/api/notifications/{id}", DismissNotification(queue))
	return r
}

func TestPushAndListNotifications(t *testing.T) {
	queue := notify.NewQueue()
	h := notificationRouter(queue)

	body := `{"kind":"success","message":"Order saved","duration_ms":0}`
	req := httptest.NewRequest("POST", "/api/notifications", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("push status = %d, body %s", rec.Code, rec.Body.String())
	}

	req = httptest.NewRequest("GET", "/api/notifications", nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var resp struct {
		Items []notify.Notification `json:"items"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(resp.Items) != 1 || resp.Items[0].Message != "Order saved" {
		t.Fatalf("items = %+v", resp.Items)
	}
	if !resp.Items[0].Sticky {
		t.Fatal("duration_ms 0 should persist until dismissed")
	}
}

func TestPushRejectsUnknownKind(t *testing.T) {
	h := notificationRouter(notify.NewQueue())

	req := httptest.NewRequest("POST", "/api/notifications", strings.NewReader(`{"kind":"fatal","message":"x"}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestDismissNotification(t *testing.T) {
	queue := notify.NewQueue()
	id := queue.PushFor(notify.KindInfo, "bye", 0)
	h := notificationRouter(queue)

	req := httptest.NewRequest("DELETE", "/api/notifications/"+strconv.FormatInt(id, 10), nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if queue.Len() != 0 {
		t.Fatal("notification not removed")
	}

	// Dismissing again is a no-op, not an error.
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("DELETE", "/api/notifications/"+strconv.FormatInt(id, 10), nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("second dismiss status = %d", rec.Code)
	}
}

func TestPushDefaultDurationExpires(t *testing.T) {
	queue := notify.NewQueue()
	h := notificationRouter(queue)

	// Explicit short duration so the test does not wait out the 4s default.
	req := httptest.NewRequest("POST", "/api/notifications", strings.NewReader(`{"kind":"info","message":"gone soon","duration_ms":20}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d", rec.Code)
	}

	time.Sleep(100 * time.Millisecond)
	if queue.Len() != 0 {
		t.Fatal("timed notification still present after expiry")
	}
}
