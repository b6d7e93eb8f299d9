package api

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"revenuelens/internal/config"
	"revenuelens/internal/importer"
	"revenuelens/internal/model"
	"revenuelens/internal/service/excel"
	"revenuelens/internal/service/history"
	"revenuelens/internal/service/insight"
	"revenuelens/internal/store"
)

const sampleCSV = "Title,Custom labels,Video asset ID,Description,Date,Estimated earnings (USD)\n" +
	"V1,L1,a1,#cat,2024-03-05,\"1,500\"\n" +
	"V1,L1,,#dog,2024-03-06,2\n" +
	"V2,L2,a2,#cat,2024-03-07,0.5\n" +
	"V3,L2,a3,,2024-03-08,4\n"

type recordingPublisher struct {
	mu     sync.Mutex
	events []string
}

func (p *recordingPublisher) Publish(eventType string, data any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, eventType)
}

type testEnv struct {
	router     *gin.Engine
	history    *history.Manager
	dispatcher *insight.Dispatcher
	events     *recordingPublisher
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st, err := store.New(filepath.Join(t.TempDir(), "revenuelens.db"))
	if err != nil {
		t.Fatalf("init store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	hist, err := history.NewManager(10, store.NewHistoryStore(st), zap.NewNop())
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	svc := insight.NewService(nil, nil, insight.Options{}, zap.NewNop())
	dispatcher := insight.NewDispatcher(svc, hist, zap.NewNop())
	events := &recordingPublisher{}

	h := NewHandler(Deps{
		Business:    config.DefaultConfig().Business,
		Coordinator: importer.NewCoordinator(importer.Options{}, zap.NewNop()),
		History:     hist,
		Dispatcher:  dispatcher,
		Insight:     svc,
		Store:       st,
		Events:      events,
		Backend:     "sqlite",
		Logger:      zap.NewNop(),
	})

	r := gin.New()
	h.RegisterRoutes(r.Group("/api"))
	return &testEnv{router: r, history: hist, dispatcher: dispatcher, events: events}
}

func (e *testEnv) upload(t *testing.T, name, content string) *httptest.ResponseRecorder {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", name)
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	_, _ = part.Write([]byte(content))
	_ = w.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/analyses", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func TestUpload_CreatesAnalysisAndAttachesPlaceholderInsight(t *testing.T) {
	env := newTestEnv(t)

	rec := env.upload(t, "export.csv", sampleCSV)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status got=%d body=%s", rec.Code, rec.Body.String())
	}
	var resp UploadResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Result.GrandTotal != 1506.5 {
		t.Fatalf("grand total got=%v, want 1506.5", resp.Result.GrandTotal)
	}
	if len(resp.Result.MissingColumns) != 0 {
		t.Fatalf("unexpected warnings: %v", resp.Result.MissingColumns)
	}

	env.dispatcher.Wait()
	got, ok := env.history.Get(resp.Result.ID)
	if !ok || got.Insight == nil || *got.Insight != insight.FailurePlaceholder {
		t.Fatalf("expected placeholder insight, got %+v", got)
	}
	if env.history.CurrentID() != resp.Result.ID {
		t.Fatalf("uploaded analysis should be current")
	}
}

func TestUpload_UnreadableFile(t *testing.T) {
	env := newTestEnv(t)

	rec := env.upload(t, "empty.csv", "")
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status got=%d, want 422 body=%s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "FILE_UNREADABLE") {
		t.Fatalf("body got=%s", rec.Body.String())
	}
	if env.history.Len() != 0 {
		t.Fatalf("no result should be stored")
	}
}

func TestView_FiltersAndClassifies(t *testing.T) {
	env := newTestEnv(t)
	var up UploadResponse
	_ = json.Unmarshal(env.upload(t, "export.csv", sampleCSV).Body.Bytes(), &up)

	rec := env.do(t, http.MethodPost, "/api/analyses/"+up.Result.ID+"/view",
		`{"selectedLabels":["L1","L2"],"selectedHashtags":["#cat"],"bonusPercentage":10,"exchangeRate":25000}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status got=%d body=%s", rec.Code, rec.Body.String())
	}
	var resp ViewResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Result.GrandTotal != 1502.5 {
		t.Fatalf("grand total got=%v, want 1502.5", resp.Result.GrandTotal)
	}
	if len(resp.Efficiency.Labels) != 2 || resp.Efficiency.Labels[0].Label != "L1" || !resp.Efficiency.Labels[0].Highest {
		t.Fatalf("efficiency got=%+v", resp.Efficiency.Labels)
	}
	if resp.Efficiency.Labels[0].BonusAmount != 150.2 {
		t.Fatalf("bonus got=%v, want 150.2", resp.Efficiency.Labels[0].BonusAmount)
	}
}

func TestView_DefaultsToAllLabelsAndExplicitEmptyMeansNone(t *testing.T) {
	env := newTestEnv(t)
	var up UploadResponse
	_ = json.Unmarshal(env.upload(t, "export.csv", sampleCSV).Body.Bytes(), &up)

	var all ViewResponse
	_ = json.Unmarshal(env.do(t, http.MethodPost, "/api/analyses/"+up.Result.ID+"/view", "").Body.Bytes(), &all)
	if all.Result.GrandTotal != up.Result.GrandTotal {
		t.Fatalf("default view total got=%v, want %v", all.Result.GrandTotal, up.Result.GrandTotal)
	}

	var none ViewResponse
	_ = json.Unmarshal(env.do(t, http.MethodPost, "/api/analyses/"+up.Result.ID+"/view", `{"selectedLabels":[]}`).Body.Bytes(), &none)
	if none.Result.GrandTotal != 0 || len(none.Result.VideoEarnings) != 0 {
		t.Fatalf("empty selection got=%+v", none.Result)
	}
}

func TestExport_ReturnsWorkbook(t *testing.T) {
	env := newTestEnv(t)
	var up UploadResponse
	_ = json.Unmarshal(env.upload(t, "export.csv", sampleCSV).Body.Bytes(), &up)

	rec := env.do(t, http.MethodPost, "/api/analyses/"+up.Result.ID+"/export", `{"hideLowEarningVideos":true}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status got=%d body=%s", rec.Code, rec.Body.String())
	}
	if !strings.HasPrefix(rec.Header().Get("Content-Disposition"), "attachment;") {
		t.Fatalf("content-disposition got=%q", rec.Header().Get("Content-Disposition"))
	}

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	if err != nil {
		t.Fatalf("open export: %v", err)
	}
	defer f.Close()
	rows, err := f.GetRows(excel.SheetVideoDetail)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("video rows got=%d, want 3 (header + 2 visible videos)", len(rows))
	}
}

func TestHistoryEndpoints(t *testing.T) {
	env := newTestEnv(t)
	var first, second UploadResponse
	_ = json.Unmarshal(env.upload(t, "a.csv", sampleCSV).Body.Bytes(), &first)
	_ = json.Unmarshal(env.upload(t, "b.csv", sampleCSV).Body.Bytes(), &second)
	env.dispatcher.Wait()

	if rec := env.do(t, http.MethodPost, "/api/analyses/"+first.Result.ID+"/select", ""); rec.Code != http.StatusOK {
		t.Fatalf("select status got=%d", rec.Code)
	}
	var current model.AnalysisResult
	_ = json.Unmarshal(env.do(t, http.MethodGet, "/api/analyses/current", "").Body.Bytes(), &current)
	if current.ID != first.Result.ID {
		t.Fatalf("current got=%q, want %q", current.ID, first.Result.ID)
	}

	if rec := env.do(t, http.MethodDelete, "/api/analyses/"+first.Result.ID, ""); rec.Code != http.StatusNoContent {
		t.Fatalf("delete status got=%d", rec.Code)
	}
	if rec := env.do(t, http.MethodGet, "/api/analyses/"+first.Result.ID, ""); rec.Code != http.StatusNotFound {
		t.Fatalf("get deleted status got=%d", rec.Code)
	}
	if rec := env.do(t, http.MethodPost, "/api/analyses/missing/select", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("select missing status got=%d", rec.Code)
	}

	var list struct {
		Items     []history.Summary `json:"items"`
		CurrentID string            `json:"currentId"`
	}
	_ = json.Unmarshal(env.do(t, http.MethodGet, "/api/analyses", "").Body.Bytes(), &list)
	if len(list.Items) != 1 || list.CurrentID != second.Result.ID {
		t.Fatalf("list got=%+v", list)
	}

	var imports struct {
		Items []store.ImportLog `json:"items"`
	}
	_ = json.Unmarshal(env.do(t, http.MethodGet, "/api/imports", "").Body.Bytes(), &imports)
	if len(imports.Items) != 2 {
		t.Fatalf("imports got=%d, want 2", len(imports.Items))
	}
}

func TestBuildExportContentDisposition(t *testing.T) {
	got := buildExportContentDisposition("Báo cáo tháng 3.csv")
	want := "attachment; filename=\"revenue-report.xlsx\"; filename*=UTF-8''B%C3%A1o%20c%C3%A1o%20th%C3%A1ng%203-bao-cao.xlsx"
	if got != want {
		t.Fatalf("content-disposition mismatch:\n got: %s\nwant: %s", got, want)
	}
}
