package chi

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/resumatch/internal/db/memory"
	"github.com/kailas-cloud/resumatch/internal/domain"
	repoanalysis "github.com/kailas-cloud/resumatch/internal/repository/analysis"
	analysisuc "github.com/kailas-cloud/resumatch/internal/usecase/analysis"
	batchuc "github.com/kailas-cloud/resumatch/internal/usecase/batch"
	"github.com/kailas-cloud/resumatch/internal/usecase/embedding"
	"github.com/kailas-cloud/resumatch/internal/usecase/extraction"
	healthuc "github.com/kailas-cloud/resumatch/internal/usecase/health"
	"github.com/kailas-cloud/resumatch/internal/usecase/semantic"
	"github.com/kailas-cloud/resumatch/internal/usecase/similarity"
	usageuc "github.com/kailas-cloud/resumatch/internal/usecase/usage"
)

const (
	testResume = `Jane Doe
jane@example.com

EXPERIENCE
Senior Python developer, 6 years of experience building Django services on AWS.

SKILLS
Python, Django, PostgreSQL, Docker`

	testJob = `REQUIREMENTS
5+ years of experience with Python, Django and Kubernetes.`
)

// wordEmbedder maps a text to (word count, 1) and charges 7 tokens per text.
type wordEmbedder struct{}

func (wordEmbedder) Embed(_ context.Context, text string) (domain.EmbeddingResult, error) {
	return domain.EmbeddingResult{
		Embedding:   []float32{float32(len(strings.Fields(text))), 1},
		TotalTokens: 7,
	}, nil
}

type testEnv struct {
	handler http.Handler
	budget  *embedding.BudgetTracker
}

func newTestEnv(t *testing.T, withEmbedder bool) testEnv {
	t.Helper()
	logger := zap.NewNop()
	store := memory.New()

	budget := embedding.NewBudgetTracker("words", "test:", embedding.BudgetLimits{Daily: 1000, Monthly: 5000}, logger)
	var providers []semantic.Provider
	var checkers []healthuc.Named
	if withEmbedder {
		emb := embedding.NewInstrumentedEmbedder(wordEmbedder{}, "words", "test", budget, logger)
		providers = append(providers, semantic.NewEmbeddingProvider("words", emb))
		checkers = append(checkers, healthuc.Named{Name: "words", Checker: emb})
	}
	chain := semantic.NewChain(logger, providers...)

	engine, err := similarity.NewEngine(nil, chain, logger)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	extractor := extraction.New(logger)
	analysis := analysisuc.New(extractor, engine, logger,
		analysisuc.WithResultStore(repoanalysis.New(store, "test:"), time.Hour),
		analysisuc.WithProviders(chain),
	)

	srv := NewServer(Deps{
		Analysis:       analysis,
		Batch:          batchuc.New(analysis, logger).WithMaxBatchSize(3),
		Extractor:      extractor,
		Engine:         engine,
		Usage:          usageuc.New(usageuc.Source{Budget: budget, Action: string(budget.Action())}),
		Health:         healthuc.New(store, checkers...),
		MaxUploadBytes: 1 << 20,
	}, logger)
	return testEnv{handler: NewRouter(srv, nil, logger), budget: budget}
}

func (e testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	e.handler.ServeHTTP(rr, req)
	return rr
}

func (e testEnv) upload(
	t *testing.T, path string, fields map[string]string, fileField string, files map[string]string,
) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	for name, content := range files {
		fw, err := mw.CreateFormFile(fileField, name)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		fmt.Fprint(fw, content)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rr := httptest.NewRecorder()
	e.handler.ServeHTTP(rr, req)
	return rr
}

func decodeBody[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rr.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v (body %q)", err, rr.Body.String())
	}
	return v
}

func TestAnalyze_JSONAndGet(t *testing.T) {
	env := newTestEnv(t, false)

	rr := env.do(t, http.MethodPost, "/analyze", AnalyzeRequest{ResumeText: testResume, JobDescription: testJob})
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}
	if rr.Header().Get("X-Embedding-Tokens") != "" {
		t.Error("X-Embedding-Tokens set without an embedding provider")
	}
	resp := decodeBody[AnalyzeResponse](t, rr)
	if resp.AnalysisID == "" || resp.SimilarityAnalysis.OverallScore <= 0 {
		t.Fatalf("response = %+v", resp)
	}

	rr = env.do(t, http.MethodGet, "/analysis/"+resp.AnalysisID, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("GET analysis status = %d", rr.Code)
	}
	stored := decodeBody[map[string]any](t, rr)
	for _, key := range []string{"analysis_id", "resume", "job_description", "similarity", "extraction"} {
		if _, ok := stored[key]; !ok {
			t.Errorf("stored analysis missing %q", key)
		}
	}

	stats := decodeBody[StatsResponse](t, env.do(t, http.MethodGet, "/api/stats", nil))
	if stats.TotalAnalyses != 1 || !stats.ResultStore {
		t.Errorf("stats = %+v", stats)
	}
}

func TestAnalyze_EmbeddingTokensHeader(t *testing.T) {
	env := newTestEnv(t, true)
	rr := env.do(t, http.MethodPost, "/analyze", AnalyzeRequest{ResumeText: testResume, JobDescription: testJob})
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}
	if got := rr.Header().Get("X-Embedding-Tokens"); got != "14" {
		t.Errorf("X-Embedding-Tokens = %q, want 14", got)
	}
	resp := decodeBody[AnalyzeResponse](t, rr)
	if resp.SimilarityAnalysis.SemanticProvider != "words" {
		t.Errorf("SemanticProvider = %q", resp.SimilarityAnalysis.SemanticProvider)
	}

	usage := decodeBody[UsageResponse](t, env.do(t, http.MethodGet, "/usage?period=day", nil))
	if len(usage.Providers) != 1 || usage.Providers[0].Tokens != 14 {
		t.Fatalf("usage = %+v", usage)
	}
	if usage.Providers[0].Budget.TokensRemaining != 986 {
		t.Errorf("remaining = %d, want 986", usage.Providers[0].Budget.TokensRemaining)
	}
}

func TestAnalyze_Multipart(t *testing.T) {
	env := newTestEnv(t, false)
	rr := env.upload(t, "/analyze", map[string]string{"job_description": testJob},
		"resume", map[string]string{"cv.txt": testResume})
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}
	id := decodeBody[AnalyzeResponse](t, rr).AnalysisID

	stored := decodeBody[map[string]any](t, env.do(t, http.MethodGet, "/analysis/"+id, nil))
	ext, _ := stored["extraction"].(map[string]any)
	if ext["file_name"] != "cv.txt" || ext["file_type"] != "txt" {
		t.Errorf("extraction = %v", ext)
	}
}

func TestAnalyze_Errors(t *testing.T) {
	env := newTestEnv(t, false)

	tests := []struct {
		name     string
		rr       *httptest.ResponseRecorder
		wantCode int
		want     ErrorCode
	}{
		{
			"empty job",
			env.do(t, http.MethodPost, "/analyze", AnalyzeRequest{ResumeText: testResume}),
			http.StatusBadRequest, CodeValidationFailed,
		},
		{
			"empty resume",
			env.do(t, http.MethodPost, "/analyze", AnalyzeRequest{JobDescription: testJob}),
			http.StatusBadRequest, CodeEmptyInput,
		},
		{
			"unsupported file",
			env.upload(t, "/analyze", map[string]string{"job_description": testJob},
				"resume", map[string]string{"cv.rtf": testResume}),
			http.StatusBadRequest, CodeUnsupportedFormat,
		},
		{
			"broken pdf degrades to empty text",
			env.upload(t, "/analyze", map[string]string{"job_description": testJob},
				"resume", map[string]string{"cv.pdf": "not a pdf"}),
			http.StatusBadRequest, CodeEmptyInput,
		},
		{
			"missing analysis",
			env.do(t, http.MethodGet, "/analysis/nope", nil),
			http.StatusNotFound, CodeNotFound,
		},
		{
			"wrong method",
			env.do(t, http.MethodGet, "/analyze", nil),
			http.StatusMethodNotAllowed, CodeBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.rr.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d (body %s)", tt.rr.Code, tt.wantCode, tt.rr.Body.String())
			}
			if got := decodeBody[ErrorResponse](t, tt.rr); got.Code != tt.want {
				t.Errorf("code = %q, want %q", got.Code, tt.want)
			}
		})
	}
}

func TestBatchAnalyze(t *testing.T) {
	env := newTestEnv(t, false)
	rr := env.upload(t, "/batch-analyze", map[string]string{"job_description": testJob}, "resumes",
		map[string]string{
			"strong.txt": testResume,
			"weak.txt":   "Jane Doe\nGardener who loves tulips.",
			"bad.rtf":    testResume,
		})
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}

	resp := decodeBody[BatchResponse](t, rr)
	if resp.TotalResumes != 3 || resp.Successful != 2 || resp.Failed != 1 {
		t.Fatalf("counts = %+v", resp)
	}
	if resp.Results[0].Filename != "strong.txt" || resp.Results[1].Filename != "weak.txt" {
		t.Errorf("ranking = %s, %s", resp.Results[0].Filename, resp.Results[1].Filename)
	}
	if *resp.Results[0].OverallScore < *resp.Results[1].OverallScore {
		t.Error("results not sorted by score")
	}
	last := resp.Results[2]
	if last.Status != "failed" || last.Error == nil || last.Error.Code != CodeUnsupportedFormat {
		t.Errorf("failed item = %+v", last)
	}
}

func TestBatchAnalyze_TooLarge(t *testing.T) {
	env := newTestEnv(t, false)
	files := map[string]string{}
	for i := range 4 {
		files[fmt.Sprintf("cv%d.txt", i)] = testResume
	}
	rr := env.upload(t, "/batch-analyze", map[string]string{"job_description": testJob}, "resumes", files)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rr.Code)
	}
	if got := decodeBody[ErrorResponse](t, rr); got.Code != CodeBatchTooLarge {
		t.Errorf("code = %q", got.Code)
	}
}

func TestExtract(t *testing.T) {
	env := newTestEnv(t, false)

	rr := env.do(t, http.MethodPost, "/extract", ExtractRequest{Text: testResume})
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}
	body := decodeBody[map[string]any](t, rr)
	for _, key := range []string{"document", "features", "insights", "text_quality", "summary"} {
		if _, ok := body[key]; !ok {
			t.Errorf("response missing %q", key)
		}
	}

	rr = env.do(t, http.MethodPost, "/extract?format=csv", ExtractRequest{Text: testResume})
	if ct := rr.Header().Get("Content-Type"); ct != "text/csv" {
		t.Errorf("Content-Type = %q", ct)
	}
	rows, err := csv.NewReader(rr.Body).ReadAll()
	if err != nil || len(rows) != 2 {
		t.Fatalf("csv rows = %d, err %v", len(rows), err)
	}
	if !slices.Contains(rows[0], "features_skill_features_programming_languages_list") {
		t.Errorf("csv header = %v", rows[0])
	}

	if rr = env.do(t, http.MethodPost, "/extract", ExtractRequest{}); rr.Code != http.StatusBadRequest {
		t.Errorf("empty extract status = %d", rr.Code)
	}
}

func TestSimilarityMatrix(t *testing.T) {
	env := newTestEnv(t, false)
	rr := env.do(t, http.MethodPost, "/similarity-matrix", MatrixRequest{Texts: []string{"python django", "python flask"}})
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	resp := decodeBody[MatrixResponse](t, rr)
	if resp.Provider != "tfidf" || len(resp.Matrix) != 2 || len(resp.Matrix[0]) != 2 {
		t.Fatalf("response = %+v", resp)
	}
	if resp.Matrix[0][1] != resp.Matrix[1][0] {
		t.Error("matrix not symmetric")
	}

	if rr = env.do(t, http.MethodPost, "/similarity-matrix", MatrixRequest{}); rr.Code != http.StatusBadRequest {
		t.Errorf("empty texts status = %d", rr.Code)
	}
}

func TestJSONBodyLimit(t *testing.T) {
	env := newTestEnv(t, false)
	big := strings.Repeat("python ", 600_000) // ~4 MiB, above every JSON limit with 1 MiB uploads

	tests := []struct {
		name   string
		method string
		path   string
		body   any
	}{
		{"analyze", http.MethodPost, "/analyze", AnalyzeRequest{ResumeText: big, JobDescription: testJob}},
		{"extract", http.MethodPost, "/extract", ExtractRequest{Text: big}},
		{"matrix", http.MethodPost, "/similarity-matrix", MatrixRequest{Texts: []string{big, "go"}}},
		{"weights", http.MethodPut, "/weights", map[string]any{"weights": map[string]float64{"skill_match": 1}, "pad": big}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := env.do(t, tt.method, tt.path, tt.body)
			if rr.Code != http.StatusRequestEntityTooLarge {
				t.Fatalf("status = %d, want 413", rr.Code)
			}
			if e := decodeBody[ErrorResponse](t, rr); e.Code != CodeDocumentTooLarge {
				t.Errorf("code = %q", e.Code)
			}
		})
	}

	rr := env.do(t, http.MethodPost, "/similarity-matrix", MatrixRequest{Texts: []string{"python", "go"}})
	if rr.Code != http.StatusOK {
		t.Errorf("small matrix status = %d", rr.Code)
	}
}

func TestWeights(t *testing.T) {
	env := newTestEnv(t, false)

	got := decodeBody[WeightsResponse](t, env.do(t, http.MethodGet, "/weights", nil))
	if len(got.Weights) != 5 || got.WeightsSum < 0.999999 || got.WeightsSum > 1.000001 {
		t.Fatalf("GET weights = %+v", got)
	}

	rr := env.do(t, http.MethodPut, "/weights", WeightsRequest{Weights: map[string]float64{"skill_match": 0.9}})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("invalid sum status = %d", rr.Code)
	}
	if e := decodeBody[ErrorResponse](t, rr); e.Code != CodeInvalidWeights {
		t.Errorf("code = %q", e.Code)
	}

	full := map[string]float64{
		"semantic_similarity": 0.2, "skill_match": 0.4, "experience_match": 0.2,
		"education_match": 0.1, "keyword_match": 0.1,
	}
	rr = env.do(t, http.MethodPut, "/weights", WeightsRequest{Weights: full})
	if rr.Code != http.StatusOK {
		t.Fatalf("valid update status = %d, body %s", rr.Code, rr.Body.String())
	}
	if got = decodeBody[WeightsResponse](t, rr); got.Weights["skill_match"] != 0.4 {
		t.Errorf("updated weights = %+v", got.Weights)
	}
}

func TestUsage_InvalidPeriod(t *testing.T) {
	env := newTestEnv(t, false)
	if rr := env.do(t, http.MethodGet, "/usage?period=year", nil); rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d", rr.Code)
	}
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t, true)
	rr := env.do(t, http.MethodGet, "/health", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	resp := decodeBody[HealthResponse](t, rr)
	if resp.Status != "ok" || resp.Checks["database"] != "ok" || resp.Checks["embedding:words"] != "ok" {
		t.Errorf("health = %+v", resp)
	}
}

func TestJSONRecoverer(t *testing.T) {
	h := JSONRecoverer(zap.NewNop())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", http.NoBody))
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rr.Code)
	}
	if e := decodeBody[ErrorResponse](t, rr); e.Code != CodeInternalError {
		t.Errorf("code = %q", e.Code)
	}
}
