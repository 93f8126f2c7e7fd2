package genservice

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/taxdesk/schedule-generator/internal/domain"
)

func TestHealthConnected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			t.Errorf("path = %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"status":          "healthy",
			"pdf_library":     true,
			"reportlab":       false,
			"template_exists": true,
		})
	}))
	defer srv.Close()

	info, err := New(srv.URL, nil).Health(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	want := domain.ServerInfo{Status: "healthy", PDFLibrary: true, TemplateExists: true}
	if info != want {
		t.Errorf("info = %+v, want %+v", info, want)
	}
}

func TestHealthNonOK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	if _, err := New(srv.URL, nil).Health(context.Background()); err == nil {
		t.Fatal("want error for 503 health response")
	}
}

func TestHealthUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	if _, err := New(srv.URL, nil).Health(context.Background()); err == nil {
		t.Fatal("want error for unreachable service")
	}
}

func TestGenerateSuccess(t *testing.T) {
	pdfBytes := []byte("%PDF-1.4 fake")
	var gotPath, gotContentType string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotContentType = r.Header.Get("Content-Type")
		buf := new(bytes.Buffer)
		buf.ReadFrom(r.Body)
		gotBody = buf.Bytes()
		w.Header().Set("Content-Type", "application/pdf")
		w.Write(pdfBytes)
	}))
	defer srv.Close()

	payload := []byte(`{"name":"Jane"}`)
	pdf, err := New(srv.URL, nil).Generate(context.Background(), domain.ScheduleC, payload)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(pdf, pdfBytes) {
		t.Errorf("pdf = %q", pdf)
	}
	if gotPath != "/generate-schedule-c" {
		t.Errorf("path = %s", gotPath)
	}
	if gotContentType != "application/json" {
		t.Errorf("request content type = %s", gotContentType)
	}
	if !bytes.Equal(gotBody, payload) {
		t.Errorf("request body = %s", gotBody)
	}
}

func TestGenerateScheduleEPath(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/pdf")
		w.Write([]byte("%PDF"))
	}))
	defer srv.Close()

	if _, err := New(srv.URL, nil).Generate(context.Background(), domain.ScheduleE, nil); err != nil {
		t.Fatal(err)
	}
	if gotPath != "/generate-schedule-e" {
		t.Errorf("path = %s", gotPath)
	}
}

func TestGenerateServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "template not found", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := New(srv.URL, nil).Generate(context.Background(), domain.ScheduleC, nil)
	var se *ServerError
	if !errors.As(err, &se) {
		t.Fatalf("err = %v, want ServerError", err)
	}
	if se.Status != 500 || se.Detail != "template not found" {
		t.Errorf("server error = %+v", se)
	}
}

func TestGenerateWrongContentType(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<html>oops</html>"))
	}))
	defer srv.Close()

	_, err := New(srv.URL, nil).Generate(context.Background(), domain.ScheduleC, nil)
	var ce *ContentError
	if !errors.As(err, &ce) {
		t.Fatalf("err = %v, want ContentError", err)
	}
	if ce.Empty {
		t.Error("should not report empty for wrong content type")
	}
}

func TestGenerateEmptyBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
	}))
	defer srv.Close()

	_, err := New(srv.URL, nil).Generate(context.Background(), domain.ScheduleC, nil)
	var ce *ContentError
	if !errors.As(err, &ce) {
		t.Fatalf("err = %v, want ContentError", err)
	}
	if !ce.Empty {
		t.Error("want Empty set for zero-byte PDF body")
	}
}

func TestGenerateTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	_, err := New(srv.URL, nil).Generate(context.Background(), domain.ScheduleC, nil)
	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("err = %v, want TransportError", err)
	}
}

func TestOriginTrimsTrailingSlash(t *testing.T) {
	c := New("http://localhost:9000/", nil)
	if got := c.Origin(); got != "http://localhost:9000" {
		t.Errorf("origin = %q", got)
	}
}
