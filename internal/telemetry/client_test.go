package telemetry

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"thermostat_dashboard/internal/models"
)

func newServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		if got := r.Header.Get("Accept"); got != acceptHeader {
			t.Errorf("Accept header: got %q", got)
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetch_DecodesRecords(t *testing.T) {
	srv := newServer(t, http.StatusOK, `[
		{"Timestamp":"2024-01-01T00:00:00Z","AmbientTemperatureCelsius":20,"AmbientHumidityPercent":41.5,
		 "HeatTemperatureSetpointCelsius":19,"CoolTemperatureSetpointCelsius":-999,"Mode":"HEAT"},
		{"Timestamp":"2024-01-01T00:05:00","AmbientTemperatureCelsius":-999,"AmbientHumidityPercent":40,
		 "HeatTemperatureSetpointCelsius":-999,"CoolTemperatureSetpointCelsius":-999,"Mode":null}
	]`)

	records, err := NewClient(srv.URL, 0).Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("want 2 records, got %d", len(records))
	}

	first := records[0]
	if !first.Timestamp.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("timestamp: %v", first.Timestamp)
	}
	if first.Mode != models.ModeHeat {
		t.Errorf("mode: %q", first.Mode)
	}
	if !models.Present(first.AmbientTemperatureC) || *first.AmbientTemperatureC != 20 {
		t.Errorf("temperature: %v", first.AmbientTemperatureC)
	}
	if models.Present(first.CoolSetpointC) {
		t.Errorf("cool setpoint should be the sentinel")
	}

	second := records[1]
	if second.Mode != "" {
		t.Errorf("null mode should decode as absent, got %q", second.Mode)
	}
	if second.Timestamp.Location() != time.UTC || second.Timestamp.Minute() != 5 {
		t.Errorf("zone-less timestamp should be read as UTC: %v", second.Timestamp)
	}
}

func TestFetch_Non2xxIsFetchError(t *testing.T) {
	srv := newServer(t, http.StatusInternalServerError, "boom")

	_, err := NewClient(srv.URL, 0).Fetch(context.Background())
	var fe *FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("expected *FetchError, got %T (%v)", err, err)
	}
	if fe.StatusCode != http.StatusInternalServerError {
		t.Errorf("status code: want 500, got %d", fe.StatusCode)
	}
	if fe.Body != "boom" {
		t.Errorf("body: %q", fe.Body)
	}
}

func TestFetch_ErrorBodyKeepsRunesWhole(t *testing.T) {
	srv := newServer(t, http.StatusBadGateway, strings.Repeat("a", maxErrorBody-1)+"éé")

	_, err := NewClient(srv.URL, 0).Fetch(context.Background())
	var fe *FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("expected *FetchError, got %T (%v)", err, err)
	}
	if !utf8.ValidString(fe.Body) {
		t.Fatalf("body is not valid UTF-8: %q", fe.Body)
	}
	if want := strings.Repeat("a", maxErrorBody-1) + "..."; fe.Body != want {
		t.Errorf("body: want %q, got %q", want, fe.Body)
	}
}

func TestTruncate(t *testing.T) {
	for _, tc := range []struct {
		in   string
		max  int
		want string
	}{
		{"short", 10, "short"},
		{"abcdef", 3, "abc..."},
		{"日本語", 4, "日..."},
		{"日本語", 6, "日本..."},
		{"é", 1, "..."},
	} {
		if got := truncate([]byte(tc.in), tc.max); got != tc.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tc.in, tc.max, got, tc.want)
		}
	}
}

func TestFetch_TransportErrorIsFetchError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewClient(url, time.Second).Fetch(context.Background())
	var fe *FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("expected *FetchError, got %T (%v)", err, err)
	}
	if fe.StatusCode != 0 {
		t.Errorf("transport failure should carry status 0, got %d", fe.StatusCode)
	}
}

func TestFetch_MalformedBodyIsParseError(t *testing.T) {
	cases := map[string]string{
		"not json":          `<html>oops</html>`,
		"object not array":  `{"Timestamp":"2024-01-01T00:00:00Z"}`,
		"truncated":         `[{"Timestamp":"2024-01-01T00:00:00Z"`,
		"bad timestamp":     `[{"Timestamp":"yesterday"}]`,
		"missing timestamp": `[{"AmbientTemperatureCelsius":20}]`,
		"wrong field type":  `[{"Timestamp":"2024-01-01T00:00:00Z","AmbientTemperatureCelsius":"warm"}]`,
		"null":              `null`,
		"empty":             ``,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			srv := newServer(t, http.StatusOK, body)
			_, err := NewClient(srv.URL, 0).Fetch(context.Background())
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("expected *ParseError, got %T (%v)", err, err)
			}
		})
	}
}

func TestFetch_EmptyArray(t *testing.T) {
	srv := newServer(t, http.StatusOK, `[]`)
	records, err := NewClient(srv.URL, 0).Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("want empty record set, got %d", len(records))
	}
}

func TestFetch_HonorsContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := NewClient(srv.URL, 0).Fetch(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestFetchError_Message(t *testing.T) {
	e := &FetchError{StatusCode: 503}
	if e.Error() != "telemetry endpoint returned 503" {
		t.Errorf("unexpected message: %q", e.Error())
	}
	wrapped := &FetchError{Err: context.Canceled}
	if !errors.Is(wrapped, context.Canceled) {
		t.Errorf("FetchError should unwrap to its cause")
	}
}
