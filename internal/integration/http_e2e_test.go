//go:build integration || !unit

package integration

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	"sifnos_hotels/internal/adapters/events"
	server "sifnos_hotels/internal/adapters/http_server"
	redisad "sifnos_hotels/internal/adapters/redis"
	"sifnos_hotels/internal/app"
	"sifnos_hotels/internal/domain"
	mysqlrepo "sifnos_hotels/internal/storage/mysql"
)

// ---------- helpers ----------
func mustEnv(t *testing.T, k string) string {
	t.Helper()
	v := os.Getenv(k)
	if v == "" {
		t.Fatalf("%s not set; export it (e.g. MIGRATIONS_DIR=/path/to/sql)", k)
	}
	return v
}

func applyMigrations(t *testing.T, db *sql.DB) {
	t.Helper()
	dir := mustEnv(t, "MIGRATIONS_DIR")

	st, err := os.Stat(dir)
	if err != nil || !st.IsDir() {
		t.Fatalf("MIGRATIONS_DIR=%s is not a directory or missing", dir)
	}
	ents, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read migrations dir: %v", err)
	}
	var files []string
	for _, e := range ents {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".sql" {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	if len(files) == 0 {
		t.Fatalf("no .sql files in %s", dir)
	}
	sort.Strings(files)
	for _, f := range files {
		sqlBytes, err := os.ReadFile(f)
		if err != nil {
			t.Fatalf("read %s: %v", f, err)
		}
		if _, err := db.Exec(string(sqlBytes)); err != nil {
			t.Fatalf("exec %s: %v", f, err)
		}
	}
}

func startMySQL(t *testing.T) *sql.DB {
	t.Helper()
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("dockertest: %v", err)
	}
	runOpts := &dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env: []string{
			"MYSQL_ROOT_PASSWORD=root",
			"MYSQL_DATABASE=sifnos",
		},
	}
	resource, err := pool.RunWithOptions(runOpts, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	hostPort := resource.GetPort("3306/tcp")
	dsn := fmt.Sprintf("root:%s@tcp(127.0.0.1:%s)/%s?parseTime=true&multiStatements=true&charset=utf8mb4,utf8&loc=UTC",
		"root", hostPort, "sifnos")

	var db *sql.DB
	if err := pool.Retry(func() error {
		var e error
		db, e = sql.Open("mysql", dsn)
		if e != nil {
			return e
		}
		return db.Ping()
	}); err != nil {
		t.Fatalf("connect mysql: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func seed(t *testing.T, db *sql.DB) {
	t.Helper()
	today := time.Now().UTC()
	stmts := []string{
		`INSERT INTO hotels (id, slug, name, location, rating, price_per_night) VALUES
		  (1, 'kamares-bay', 'Kamares Bay', 'Kamares', 4.4, 110),
		  (2, 'port-house', 'Port House', 'kamares Port', 4.7, 140),
		  (3, 'chora-view', 'Chora View', 'Apollonia', 4.9, 200)`,
		`INSERT INTO hotel_photos (hotel_id, url, is_main, sort_order) VALUES (1, 'https://img/kb.jpg', 1, 0)`,
		fmt.Sprintf(`INSERT INTO bookings (hotel_id, guest_name, guest_email, check_in, check_out, guest_token) VALUES
		  (1, 'Eleni', 'eleni@example.com', '%s', '%s', 'e2e-token')`,
			today.Format("2006-01-02"), today.AddDate(0, 0, 3).Format("2006-01-02")),
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
}

func getJSON(t *testing.T, url string, dst any) int {
	t.Helper()
	res, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer res.Body.Close()
	if dst != nil && res.StatusCode == http.StatusOK {
		if err := json.NewDecoder(res.Body).Decode(dst); err != nil {
			t.Fatalf("decode: %v", err)
		}
	}
	return res.StatusCode
}

func postJSON(t *testing.T, url, body string, dst any) int {
	t.Helper()
	res, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	defer res.Body.Close()
	if dst != nil {
		_ = json.NewDecoder(res.Body).Decode(dst)
	}
	return res.StatusCode
}

// ---------- the test ----------
func TestHTTP_EndToEnd(t *testing.T) {
	db := startMySQL(t)
	applyMigrations(t, db)
	seed(t, db)

	mr := miniredis.RunT(t)
	cache := redisad.New(mr.Addr(), "", 0)
	repo := mysqlrepo.New(db)
	search := app.NewSearchService(repo, nil, cache, time.Minute)

	srv := server.New([]string{"*"})
	srv.MountHandlers(&server.Handlers{
		Query:     app.NewQueryService(repo, cache, time.Minute),
		Search:    search,
		Guests:    app.NewGuestService(repo),
		Sessions:  app.NewBookingSessions(repo, events.Discard{}, 200*time.Millisecond),
		Recent:    app.NewRecentlyViewedService(redisad.NewRecentlyViewed(cache.Client())),
		Concierge: app.NewConcierge(search, nil),
	})
	ts := httptest.NewServer(srv.Mux())
	defer ts.Close()

	t.Run("search by location", func(t *testing.T) {
		var out struct {
			Items []domain.UnifiedHotelResult `json:"items"`
		}
		if code := getJSON(t, ts.URL+"/v1/search?q=rooms+in+kamares", &out); code != http.StatusOK {
			t.Fatalf("status %d", code)
		}
		if len(out.Items) != 2 || out.Items[0].Name != "Port House" || out.Items[1].Name != "Kamares Bay" {
			t.Fatalf("unexpected items: %+v", out.Items)
		}
	})

	t.Run("hotel detail is cached", func(t *testing.T) {
		var hv domain.HotelView
		if code := getJSON(t, ts.URL+"/v1/hotels/kamares-bay", &hv); code != http.StatusOK {
			t.Fatalf("status %d", code)
		}
		if hv.Name != "Kamares Bay" || len(hv.Photos) != 1 || hv.Photos[0] != "https://img/kb.jpg" {
			t.Fatalf("unexpected hotel: %+v", hv)
		}
		if !mr.Exists("hotel:kamares-bay") {
			t.Fatalf("expected hotel cached in redis")
		}
	})

	t.Run("guest token", func(t *testing.T) {
		var ok map[string]any
		if code := postJSON(t, ts.URL+"/v1/guest/validate", `{"guestToken":"e2e-token"}`, &ok); code != http.StatusOK {
			t.Fatalf("status %d body %v", code, ok)
		}
		var denied map[string]any
		if code := postJSON(t, ts.URL+"/v1/guest/validate", `{"guestToken":"nope"}`, &denied); code != http.StatusNotFound || denied["reason"] != "not-found" {
			t.Fatalf("status %d body %v", code, denied)
		}
	})

	t.Run("abandoned session is recorded then converted", func(t *testing.T) {
		var started struct {
			SessionID string `json:"sessionId"`
		}
		if code := postJSON(t, ts.URL+"/v1/booking-sessions", `{"draft":{"booking_type":"hotel","hotel_id":2,"guests":2}}`, &started); code != http.StatusAccepted {
			t.Fatalf("status %d", code)
		}

		deadline := time.Now().Add(5 * time.Second)
		var status string
		for time.Now().Before(deadline) {
			err := db.QueryRow(`SELECT status FROM abandoned_bookings WHERE session_id = ?`, started.SessionID).Scan(&status)
			if err == nil {
				break
			}
			time.Sleep(50 * time.Millisecond)
		}
		if status != "abandoned" {
			t.Fatalf("expected abandoned row, got %q", status)
		}

		if code := postJSON(t, ts.URL+"/v1/booking-sessions/"+started.SessionID+"/complete", `{}`, nil); code != http.StatusOK {
			t.Fatalf("complete status %d", code)
		}
		if err := db.QueryRowContext(context.Background(), `SELECT status FROM abandoned_bookings WHERE session_id = ?`, started.SessionID).Scan(&status); err != nil || status != "converted" {
			t.Fatalf("status %q err %v", status, err)
		}
	})
}
