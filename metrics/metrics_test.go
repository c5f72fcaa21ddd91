package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("scrape status %d", rec.Code)
	}
	body, _ := io.ReadAll(rec.Body)
	return string(body)
}

func TestCounters(t *testing.T) {
	m := New()
	m.ObserveRequest(http.MethodGet, "/blog/:id", 200, 20*time.Millisecond)
	m.ObserveRequest(http.MethodGet, "/blog/:id", 200, 10*time.Millisecond)
	m.PostWritten("delete")
	m.CommentAdded()
	m.ContactMessage(true)
	m.ContactMessage(false)
	m.ContactMessage(false)
	m.Login("ok")

	out := scrape(t, m)
	for _, want := range []string{
		`http_requests_total{method="GET",route="/blog/:id",status="200"} 2`,
		`http_requests_latency_seconds_count{method="GET",route="/blog/:id",status="200"} 2`,
		`blog_posts_total{action="delete"} 1`,
		`blog_comments_total 1`,
		`blog_contact_messages_total{outcome="failed"} 2`,
		`blog_contact_messages_total{outcome="sent"} 1`,
		`blog_logins_total{outcome="ok"} 1`,
		`go_goroutines`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("exposition lacks %s", want)
		}
	}
}

func TestRegistriesAreIndependent(t *testing.T) {
	a, b := New(), New()
	a.CommentAdded()
	if strings.Contains(scrape(t, b), "blog_comments_total 1") {
		t.Fatalf("metrics leaked between registries")
	}
}
