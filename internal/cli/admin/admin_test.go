package admin

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/cloo-solutions/tryonadmin/internal/config"
	"github.com/cloo-solutions/tryonadmin/internal/domain"
	"github.com/cloo-solutions/tryonadmin/internal/logtable"
	"github.com/cloo-solutions/tryonadmin/internal/platform"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const platformLogs = `[
	{"id":"1","businessId":"acme","userId":"u1","clothType":"Dress","numInferenceSteps":30,"seed":11,"guidanceScale":7.5,"createdAt":"2024-05-01T10:00:00Z"},
	{"id":"2","businessId":"beta","userId":"u2","clothType":"Jeans","numInferenceSteps":20,"seed":22,"guidanceScale":5,"createdAt":"2024-05-02T10:00:00Z"},
	{"id":"3","businessId":"acme-eu","userId":"u3","clothType":"Dress","numInferenceSteps":30,"seed":33,"guidanceScale":7.5,"createdAt":"2024-05-03T10:00:00Z"}
]`

func newFakePlatform(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc(platform.PathGetAllLogs, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(platformLogs))
	})
	mux.HandleFunc(platform.PathGetAllBusinesses, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]domain.Business{
			{ID: "acme", Name: "Acme", Email: "ops@acme.io", APIKey: "abcd"},
		})
	})
	mux.HandleFunc(platform.PathCreateBusiness, func(w http.ResponseWriter, r *http.Request) {
		var in domain.CreateBusinessInput
		_ = json.NewDecoder(r.Body).Decode(&in)
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(domain.Business{ID: "b2", Name: in.Name, Email: in.Email, APIKey: "fresh-key"})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	t.Setenv("TRYON_PLATFORM_URL", srv.URL)
	return srv
}

func TestParseFilterFlags(t *testing.T) {
	filters, err := parseFilterFlags([]string{"businessId=acme", "seed=11", "seed=33", "createdAt=2024-05-02"})
	require.NoError(t, err)
	assert.Equal(t, map[logtable.Field]string{
		logtable.FieldBusinessID: "acme",
		logtable.FieldSeed:       "33",
		logtable.FieldCreatedAt:  "2024-05-02",
	}, filters)

	_, err = parseFilterFlags([]string{"seed"})
	assert.ErrorContains(t, err, "expected field=value")

	_, err = parseFilterFlags([]string{"color=red"})
	assert.ErrorIs(t, err, domain.ErrUnknownField)

	_, err = parseFilterFlags([]string{"resultImageUrl=x"})
	assert.ErrorIs(t, err, domain.ErrUnknownField)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 8))
	assert.Equal(t, "exactly8", truncate("exactly8", 8))
	assert.Equal(t, "toolong…", truncate("toolongvalue", 8))
}

func TestRenderLogs_Empty(t *testing.T) {
	var out bytes.Buffer
	renderLogs(&out, nil, 0, 4)
	assert.Equal(t, "No logs found (4 fetched)\n", out.String())
}

func TestRunLogsList_Text(t *testing.T) {
	newFakePlatform(t)

	var out bytes.Buffer
	err := runLogsList(context.Background(), &out, LogsListOptions{
		Filters: []string{"businessId=acme", "clothType=Dress"},
		Sort:    "seed:desc",
		Output:  "text",
	})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.GreaterOrEqual(t, len(lines), 3)
	assert.Contains(t, lines[0], "BUSINESS")
	assert.Contains(t, lines[1], "acme-eu")
	assert.Contains(t, lines[2], "acme")
	assert.Contains(t, out.String(), "Showing 2 of 2 matching logs (3 fetched)")
}

func TestRunLogsList_JSONWithLimit(t *testing.T) {
	newFakePlatform(t)

	var out bytes.Buffer
	err := runLogsList(context.Background(), &out, LogsListOptions{
		Sort:   "createdAt:desc",
		Limit:  2,
		Output: "json",
	})
	require.NoError(t, err)

	var resp struct {
		Items   []domain.LogRecord `json:"items"`
		Total   int                `json:"total"`
		Fetched int                `json:"fetched"`
		Sort    string             `json:"sort"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	require.Len(t, resp.Items, 2)
	assert.Equal(t, "3", resp.Items[0].ID)
	assert.Equal(t, "2", resp.Items[1].ID)
	assert.Equal(t, 3, resp.Total)
	assert.Equal(t, 3, resp.Fetched)
	assert.Equal(t, "createdAt:desc", resp.Sort)
}

func TestRunLogsList_InvalidSort(t *testing.T) {
	var out bytes.Buffer
	err := runLogsList(context.Background(), &out, LogsListOptions{Sort: "personImageUrl"})
	assert.ErrorIs(t, err, domain.ErrInvalidSort)
}

func TestBusinessCmd_Create(t *testing.T) {
	newFakePlatform(t)

	cmd := BusinessCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"create", "Beta", "--email", "ops@beta.io", "--password", "pw"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "Business created: Beta (b2)")
	assert.Contains(t, out.String(), "API key: fresh-key")
}

func TestBusinessCmd_CreateValidation(t *testing.T) {
	newFakePlatform(t)

	cmd := BusinessCmd()
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"create", "Beta", "--email", "not-an-email", "--password", "pw"})

	err := cmd.Execute()
	assert.ErrorIs(t, err, domain.ErrBusinessEmailInvalid)
}

func TestBusinessCmd_List(t *testing.T) {
	newFakePlatform(t)

	var out bytes.Buffer
	require.NoError(t, runBusinessList(&out, "text", false))
	assert.Contains(t, out.String(), "acme: Acme <ops@acme.io>")
	assert.Contains(t, out.String(), "key: ••••")
	assert.NotContains(t, out.String(), "abcd")

	out.Reset()
	require.NoError(t, runBusinessList(&out, "json", true))
	var businesses []domain.Business
	require.NoError(t, json.Unmarshal(out.Bytes(), &businesses))
	require.Len(t, businesses, 1)
	assert.Equal(t, "abcd", businesses[0].APIKey)
}

func testConfig(platformURL, source string) *config.Config {
	return &config.Config{
		Port:             "0",
		PlatformURL:      platformURL,
		RequestTimeout:   5 * time.Second,
		LogSource:        source,
		PollInterval:     time.Hour,
		StreamInterval:   time.Hour,
		LogCapacity:      2,
		RefreshRateLimit: 0,
		Environment:      "development",
	}
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestNewConsole_PollMode(t *testing.T) {
	srv := newFakePlatform(t)
	c := newConsole(testConfig(srv.URL, config.LogSourcePoll), quietLogger())

	go c.worker.Start(context.Background())
	t.Cleanup(c.worker.Stop)

	require.Eventually(t, func() bool { return c.table.Len() == 3 }, 2*time.Second, 10*time.Millisecond)

	w := httptest.NewRecorder()
	c.router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/logs/refresh", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	c.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/sidebar", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Try-On Admin")
}

func TestNewConsole_StreamMode(t *testing.T) {
	srv := newFakePlatform(t)
	c := newConsole(testConfig(srv.URL, config.LogSourceStream), quietLogger())

	_, err := c.businesses.List(context.Background())
	require.NoError(t, err)

	go c.worker.Start(context.Background())
	t.Cleanup(c.worker.Stop)

	require.Eventually(t, func() bool { return c.table.Len() == 1 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, "acme", c.table.View()[0].BusinessID)

	w := httptest.NewRecorder()
	c.router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/logs/refresh", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestConsole_StopWorkerDuringSlowPoll(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once

	mux := http.NewServeMux()
	mux.HandleFunc(platform.PathGetAllLogs, func(w http.ResponseWriter, r *http.Request) {
		once.Do(func() { close(entered) })
		<-release
		_, _ = w.Write([]byte(`[]`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(release) })

	c := newConsole(testConfig(srv.URL, config.LogSourcePoll), quietLogger())

	ctx, cancel := context.WithCancel(context.Background())
	go c.worker.Start(ctx)

	select {
	case <-entered:
	case <-time.After(2 * time.Second):
		t.Fatal("worker never polled the platform")
	}

	stopped := make(chan struct{})
	go func() {
		c.stopWorker(cancel)
		close(stopped)
	}()

	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("stopping the worker waited on the in-flight poll")
	}
	assert.Error(t, ctx.Err())
}
