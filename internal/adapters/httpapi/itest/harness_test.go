package itest

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/Overland-East-Bay/people-directory/internal/adapters/httpapi"
	memclock "github.com/Overland-East-Bay/people-directory/internal/adapters/memory/clock"
	memidempotency "github.com/Overland-East-Bay/people-directory/internal/adapters/memory/idempotency"
	mempersonrepo "github.com/Overland-East-Bay/people-directory/internal/adapters/memory/personrepo"
	pgidempotency "github.com/Overland-East-Bay/people-directory/internal/adapters/postgres/idempotency"
	pgpersonrepo "github.com/Overland-East-Bay/people-directory/internal/adapters/postgres/personrepo"
	postgres_testutil "github.com/Overland-East-Bay/people-directory/internal/adapters/postgres/testutil"
	"github.com/Overland-East-Bay/people-directory/internal/app/people"
	idempotencyport "github.com/Overland-East-Bay/people-directory/internal/ports/out/idempotency"
	personrepoport "github.com/Overland-East-Bay/people-directory/internal/ports/out/personrepo"
)

type backend string

const (
	backendMemory   backend = "memory"
	backendPostgres backend = "postgres"
)

func backendsFromEnv(t *testing.T) []backend {
	t.Helper()
	switch strings.ToLower(strings.TrimSpace(os.Getenv("ITEST_BACKEND"))) {
	case "", "memory":
		return []backend{backendMemory}
	case "postgres":
		return []backend{backendPostgres}
	case "all":
		return []backend{backendMemory, backendPostgres}
	default:
		t.Fatalf("unknown ITEST_BACKEND value (expected memory|postgres|all)")
		return nil
	}
}

type testServer struct {
	baseURL string
	client  *http.Client
}

func newTestServer(t *testing.T, b backend) *testServer {
	t.Helper()

	clk := memclock.NewManualClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	var (
		personRepo personrepoport.Repository
		idemStore  idempotencyport.Store
	)

	switch b {
	case backendPostgres:
		pool := postgres_testutil.OpenMigratedPool(t)
		personRepo = pgpersonrepo.NewRepo(pool)
		idemStore = pgidempotency.NewStore(pool, clk, time.Hour)
	case backendMemory:
		personRepo = mempersonrepo.NewRepo()
		idemStore = memidempotency.NewStore(clk, time.Hour)
	default:
		t.Fatalf("unknown backend: %s", b)
	}

	api := httpapi.NewServer(people.NewService(personRepo, clk), idemStore)
	srv := httptest.NewServer(httpapi.NewRouter(api))
	t.Cleanup(srv.Close)

	return &testServer{
		baseURL: srv.URL,
		client:  srv.Client(),
	}
}

func (s *testServer) url(path string) string {
	if strings.HasPrefix(path, "/") {
		return s.baseURL + path
	}
	return s.baseURL + "/" + path
}

func (s *testServer) doJSON(t *testing.T, method string, path string, headers map[string]string, body any) (int, []byte, http.Header) {
	t.Helper()

	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		r = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, s.url(path), r)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()
	out, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, out, resp.Header
}

type errorResponse struct {
	Error struct {
		Code      string `json:"code"`
		Message   string `json:"message"`
		RequestId string `json:"requestId"`
	} `json:"error"`
}

func mustUnmarshal[T any](t *testing.T, b []byte) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("unmarshal: %v\nbody=%s", err, string(b))
	}
	return out
}

func requireStatus(t *testing.T, status int, body []byte, want int) {
	t.Helper()
	if status != want {
		t.Fatalf("status=%d want=%d body=%s", status, want, string(body))
	}
}

func requireErrorCode(t *testing.T, status int, body []byte, wantStatus int, wantCode string) {
	t.Helper()
	requireStatus(t, status, body, wantStatus)
	got := mustUnmarshal[errorResponse](t, body)
	if got.Error.Code != wantCode {
		t.Fatalf("error.code=%q want=%q body=%s", got.Error.Code, wantCode, string(body))
	}
	if got.Error.RequestId == "" {
		t.Fatalf("expected error.requestId; body=%s", string(body))
	}
}

func requireHeader(t *testing.T, h http.Header, key, want string) {
	t.Helper()
	if got := strings.TrimSpace(h.Get(key)); got != want {
		t.Fatalf("header %q=%q want=%q", key, got, want)
	}
}
