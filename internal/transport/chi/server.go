// Package chi exposes the scoring services over HTTP with the chi router.
package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	gochi "github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/resumatch/internal/decode"
	"github.com/kailas-cloud/resumatch/internal/domain"
	domanalysis "github.com/kailas-cloud/resumatch/internal/domain/analysis"
	dombatch "github.com/kailas-cloud/resumatch/internal/domain/batch"
	domsim "github.com/kailas-cloud/resumatch/internal/domain/similarity"
	domusage "github.com/kailas-cloud/resumatch/internal/domain/usage"
	"github.com/kailas-cloud/resumatch/internal/export"
	logpkg "github.com/kailas-cloud/resumatch/internal/logger"
	analysisuc "github.com/kailas-cloud/resumatch/internal/usecase/analysis"
	batchuc "github.com/kailas-cloud/resumatch/internal/usecase/batch"
	"github.com/kailas-cloud/resumatch/internal/usecase/extraction"
	healthuc "github.com/kailas-cloud/resumatch/internal/usecase/health"
	"github.com/kailas-cloud/resumatch/internal/usecase/insight"
	"github.com/kailas-cloud/resumatch/internal/usecase/similarity"
	usageuc "github.com/kailas-cloud/resumatch/internal/usecase/usage"
	"github.com/kailas-cloud/resumatch/internal/version"
)

const (
	maxMatrixTexts  = 100
	maxWeightsBody  = 64 << 10
	multipartMemory = 32 << 20
)

var supportedFormats = []string{decode.TypeText, decode.TypePDF, decode.TypeDOCX}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Deps are the services behind the API.
type Deps struct {
	Analysis  *analysisuc.Service
	Batch     *batchuc.Service
	Extractor *extraction.Service
	Engine    *similarity.Engine
	Usage     *usageuc.Service
	Health    *healthuc.Service
	Decoder   *decode.Decoder
	// MaxUploadBytes bounds a single uploaded file.
	MaxUploadBytes int64
}

// Server holds the HTTP handlers.
type Server struct {
	deps          Deps
	logger        *zap.Logger
	started       time.Time
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(deps Deps, logger *zap.Logger) *Server {
	if deps.Decoder == nil {
		deps.Decoder = decode.New(deps.MaxUploadBytes)
	}
	s := &Server{deps: deps, logger: logger, started: time.Now()}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, CodeNotFound),
		sentinelHandler(domain.ErrEmptyInput, http.StatusBadRequest, CodeEmptyInput),
		sentinelHandler(domain.ErrInvalidWeights, http.StatusBadRequest, CodeInvalidWeights),
		sentinelHandler(domain.ErrBatchTooLarge, http.StatusBadRequest, CodeBatchTooLarge),
		sentinelHandler(domain.ErrUnsupportedFormat, http.StatusBadRequest, CodeUnsupportedFormat),
		sentinelHandler(domain.ErrDocumentTooLarge, http.StatusRequestEntityTooLarge, CodeDocumentTooLarge),
		sentinelHandler(domain.ErrRateLimited, http.StatusTooManyRequests, CodeRateLimited),
		sentinelHandler(domain.ErrEmbeddingQuotaExceeded, http.StatusPaymentRequired, CodeQuotaExceeded),
		sentinelHandler(domain.ErrEmbeddingProviderError, http.StatusBadGateway, CodeProviderError),
		timeoutHandler,
	}
	return s
}

// Routes registers every endpoint on r.
func (s *Server) Routes(r gochi.Router) {
	r.Post("/analyze", s.Analyze)
	r.Post("/analyse", s.Analyze)
	r.Get("/analysis/{id}", s.GetAnalysis)
	r.Post("/batch-analyze", s.BatchAnalyze)
	r.Post("/extract", s.Extract)
	r.Post("/similarity-matrix", s.SimilarityMatrix)
	r.Get("/weights", s.GetWeights)
	r.Put("/weights", s.UpdateWeights)
	r.Get("/usage", s.GetUsage)
	r.Get("/api/stats", s.Stats)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// Analyze handles POST /analyze: multipart (resume file + job_description)
// or JSON (resume_text + job_description).
func (s *Server) Analyze(w http.ResponseWriter, r *http.Request) {
	in, ok := s.analyzeInput(w, r)
	if !ok {
		return
	}

	ctx, usage := domain.NewContextWithUsage(r.Context())
	a, err := s.deps.Analysis.Analyze(ctx, in)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	setEmbeddingHeaders(w, usage)
	writeJSON(w, http.StatusOK, AnalyzeResponse{
		AnalysisID:         a.ID,
		SimilarityAnalysis: a.Similarity,
		Timestamp:          a.Timestamp,
	})
}

func (s *Server) analyzeInput(w http.ResponseWriter, r *http.Request) (analysisuc.Input, bool) {
	var in analysisuc.Input
	if isMultipart(r) {
		r.Body = http.MaxBytesReader(w, r.Body, s.uploadLimit(1))
		if err := r.ParseMultipartForm(multipartMemory); err != nil {
			writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid multipart form: "+err.Error())
			return in, false
		}
		in.JobText = r.FormValue("job_description")
		in.ResumeText = r.FormValue("resume_text")
		if name, data, found, err := formFile(r, "resume"); err != nil {
			writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid resume upload: "+err.Error())
			return in, false
		} else if found {
			ext, err := s.decodeResume(r, name, data)
			if err != nil {
				s.handleDomainError(w, r, err)
				return in, false
			}
			in.ResumeText = ext.Text
			in.FileName = name
			in.Extraction = domanalysis.Extraction{FileName: name, FileType: ext.FileType, Method: ext.Method}
		}
	} else {
		var req AnalyzeRequest
		if !s.decodeJSON(w, r, &req, s.uploadLimit(2)) {
			return in, false
		}
		in.ResumeText = req.ResumeText
		in.JobText = req.JobDescription
	}

	if strings.TrimSpace(in.JobText) == "" {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, "Job description cannot be empty")
		return in, false
	}
	return in, true
}

// decodeResume turns an upload into text. Unsupported or oversized files are
// errors; a file that fails to parse degrades to empty text.
func (s *Server) decodeResume(r *http.Request, name string, data []byte) (decode.Extracted, error) {
	ext, err := s.deps.Decoder.Text(r.Context(), data, name)
	if err == nil {
		return ext, nil
	}
	if errors.Is(err, domain.ErrUnsupportedFormat) || errors.Is(err, domain.ErrDocumentTooLarge) {
		return decode.Extracted{}, err
	}
	logpkg.FromContext(r.Context()).Warn("Resume decoding failed, using empty text",
		zap.String("file", name), zap.Error(err))
	return decode.Extracted{FileType: ext.FileType, Method: "failed"}, nil
}

// GetAnalysis handles GET /analysis/{id}.
func (s *Server) GetAnalysis(w http.ResponseWriter, r *http.Request) {
	a, err := s.deps.Analysis.Get(r.Context(), gochi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// BatchAnalyze handles POST /batch-analyze.
func (s *Server) BatchAnalyze(w http.ResponseWriter, r *http.Request) {
	maxItems := s.deps.Batch.MaxBatchSize()
	r.Body = http.MaxBytesReader(w, r.Body, s.uploadLimit(maxItems))
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid multipart form: "+err.Error())
		return
	}

	job := r.FormValue("job_description")
	if strings.TrimSpace(job) == "" {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, "Job description cannot be empty")
		return
	}

	files := make([]*multipart.FileHeader, 0, len(r.MultipartForm.File["resumes"]))
	files = append(files, r.MultipartForm.File["resumes"]...)
	files = append(files, r.MultipartForm.File["resumes[]"]...)
	if len(files) == 0 {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, "At least one resume is required")
		return
	}
	if len(files) > maxItems {
		s.handleDomainError(w, r, fmt.Errorf("maximum %d resumes allowed per batch: %w", maxItems, domain.ErrBatchTooLarge))
		return
	}

	items := make([]batchuc.Item, len(files))
	for i, fh := range files {
		items[i].Name = fh.Filename
		data, err := readFileHeader(fh)
		if err != nil {
			items[i].Err = err
			continue
		}
		ext, err := s.decodeResume(r, fh.Filename, data)
		if err != nil {
			items[i].Err = err
			continue
		}
		items[i].Text = ext.Text
		items[i].Extraction = domanalysis.Extraction{FileName: fh.Filename, FileType: ext.FileType, Method: ext.Method}
	}

	ctx, usage := domain.NewContextWithUsage(r.Context())
	report, err := s.deps.Batch.Rank(ctx, job, items)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	resp := BatchResponse{
		TotalResumes: report.Total,
		Successful:   report.Successful,
		Failed:       report.Failed,
		Results:      make([]BatchItem, len(report.Results)),
	}
	for i, res := range report.Results {
		resp.Results[i] = batchResultToDTO(res)
	}
	setEmbeddingHeaders(w, usage)
	writeJSON(w, http.StatusOK, resp)
}

// Extract handles POST /extract. ?format=csv returns the flattened record.
func (s *Server) Extract(w http.ResponseWriter, r *http.Request) {
	src := insight.Source{FileType: "text", ExtractionMethod: "direct"}
	var text string

	if isMultipart(r) {
		r.Body = http.MaxBytesReader(w, r.Body, s.uploadLimit(1))
		if err := r.ParseMultipartForm(multipartMemory); err != nil {
			writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid multipart form: "+err.Error())
			return
		}
		text = r.FormValue("text")
		name, data, found, err := formFile(r, "document")
		if err != nil {
			writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid upload: "+err.Error())
			return
		}
		if found {
			ext, err := s.deps.Decoder.Text(r.Context(), data, name)
			if err != nil {
				s.handleDomainError(w, r, err)
				return
			}
			text = ext.Text
			src = insight.Source{FileType: ext.FileType, ExtractionMethod: ext.Method}
		}
	} else {
		var req ExtractRequest
		if !s.decodeJSON(w, r, &req, s.uploadLimit(1)) {
			return
		}
		text = req.Text
	}

	if strings.TrimSpace(text) == "" {
		s.handleDomainError(w, r, fmt.Errorf("document text: %w", domain.ErrEmptyInput))
		return
	}

	doc, err := s.deps.Extractor.Extract(r.Context(), text)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	ins := insight.Classify(*doc)
	resp := ExtractResponse{
		Document:    doc,
		Features:    extraction.BuildFeatureVector(*doc),
		Insights:    ins,
		TextQuality: insight.TextQuality(*doc),
		Summary:     insight.Summarize(*doc, ins, src),
	}

	if r.URL.Query().Get("format") == export.FormatCSV {
		w.Header().Set("Content-Type", "text/csv")
		w.WriteHeader(http.StatusOK)
		rec := exportRecord{Features: resp.Features, Summary: resp.Summary, TextQuality: resp.TextQuality}
		if err := export.Write(w, rec, export.FormatCSV); err != nil {
			s.logger.Error("CSV export failed", zap.Error(err))
		}
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// SimilarityMatrix handles POST /similarity-matrix.
func (s *Server) SimilarityMatrix(w http.ResponseWriter, r *http.Request) {
	var req MatrixRequest
	if !s.decodeJSON(w, r, &req, s.uploadLimit(1)) {
		return
	}
	if len(req.Texts) == 0 || len(req.Texts) > maxMatrixTexts {
		writeError(w, http.StatusBadRequest, CodeValidationFailed,
			fmt.Sprintf("texts count must be between 1 and %d", maxMatrixTexts))
		return
	}

	ctx, usage := domain.NewContextWithUsage(r.Context())
	matrix, provider := s.deps.Engine.SimilarityMatrix(ctx, req.Texts)
	setEmbeddingHeaders(w, usage)
	writeJSON(w, http.StatusOK, MatrixResponse{Matrix: matrix, Provider: provider})
}

// GetWeights handles GET /weights.
func (s *Server) GetWeights(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, weightsToDTO(s.deps.Engine.Weights()))
}

// UpdateWeights handles PUT /weights. Listed components are replaced, the rest keep their value.
func (s *Server) UpdateWeights(w http.ResponseWriter, r *http.Request) {
	var req WeightsRequest
	if !s.decodeJSON(w, r, &req, maxWeightsBody) {
		return
	}
	if len(req.Weights) == 0 {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, "weights are required")
		return
	}

	update := make(domsim.Weights, len(req.Weights))
	for k, v := range req.Weights {
		update[domsim.Component(k)] = v
	}
	if err := s.deps.Engine.UpdateWeights(update); err != nil {
		// The message names the offending sum or component.
		if errors.Is(err, domain.ErrInvalidWeights) {
			writeError(w, http.StatusBadRequest, CodeInvalidWeights, err.Error())
			return
		}
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, weightsToDTO(s.deps.Engine.Weights()))
}

// GetUsage handles GET /usage?period=day|month.
func (s *Server) GetUsage(w http.ResponseWriter, r *http.Request) {
	period, ok := domusage.ParsePeriod(r.URL.Query().Get("period"))
	if !ok {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, `period must be "day" or "month"`)
		return
	}

	reports := s.deps.Usage.GetReport(r.Context(), period)
	resp := UsageResponse{Period: string(period), Providers: make([]ProviderUsage, len(reports))}
	for i := range reports {
		resp.Providers[i] = usageToDTO(&reports[i])
	}
	writeJSON(w, http.StatusOK, resp)
}

// Stats handles GET /api/stats.
func (s *Server) Stats(w http.ResponseWriter, r *http.Request) {
	st, err := s.deps.Analysis.Stats(r.Context())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, StatsResponse{
		TotalAnalyses:     st.TotalAnalyses,
		SemanticProviders: st.Providers,
		ResultStore:       st.ResultStore,
		SupportedFormats:  supportedFormats,
		Version:           version.Version,
		Uptime:            time.Since(s.started).Round(time.Second).String(),
	})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.deps.Health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	// Provider outages only degrade scoring to TF-IDF.
	httpStatus := http.StatusOK
	if report.Checks["database"] == healthuc.CheckError {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{Status: string(report.Status), Checks: checks})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// decodeJSON reads at most limit bytes of r's body into dst. On failure it
// writes the error response and returns false.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, dst any, limit int64) bool {
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil {
		return true
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeError(w, http.StatusRequestEntityTooLarge, CodeDocumentTooLarge,
			fmt.Sprintf("Request body exceeds %d bytes", tooLarge.Limit))
		return false
	}
	writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
	return false
}

func (s *Server) uploadLimit(files int) int64 {
	if s.deps.MaxUploadBytes <= 0 {
		return 1 << 62
	}
	// room for form fields and multipart framing
	return s.deps.MaxUploadBytes*int64(files) + 1<<20
}

func isMultipart(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mt == "multipart/form-data"
}

func formFile(r *http.Request, field string) (string, []byte, bool, error) {
	f, fh, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return "", nil, false, nil
	}
	if err != nil {
		return "", nil, false, err
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return "", nil, false, err
	}
	return fh.Filename, data, true, nil
}

func readFileHeader(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	return data, nil
}

func setEmbeddingHeaders(w http.ResponseWriter, usage *domain.EmbeddingUsage) {
	if total, used := usage.Tokens(); used {
		w.Header().Set("X-Embedding-Tokens", strconv.Itoa(total))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{Code: code, Message: message})
}

func weightsToDTO(w domsim.Weights) WeightsResponse {
	out := make(map[string]float64, len(w))
	for c, v := range w {
		out[string(c)] = v
	}
	return WeightsResponse{Weights: out, WeightsSum: w.Sum()}
}

func usageToDTO(r *domusage.Report) ProviderUsage {
	b := r.Budget()
	u := ProviderUsage{
		Provider:      r.Provider(),
		Tokens:        r.Tokens(),
		CostUSD:       r.CostUSD(),
		PeriodStartAt: time.UnixMilli(r.PeriodStart()).UTC(),
		PeriodEndAt:   time.UnixMilli(r.PeriodEnd()).UTC(),
		Budget: BudgetStatus{
			TokensLimit:     b.TokensLimit(),
			TokensRemaining: b.TokensRemaining(),
			IsExhausted:     b.IsExhausted(),
			Action:          b.Action(),
		},
	}
	if b.ResetsAt() > 0 {
		resetsAt := time.UnixMilli(b.ResetsAt()).UTC()
		u.Budget.ResetsAt = &resetsAt
	}
	return u
}

func batchResultToDTO(r dombatch.Result) BatchItem {
	if r.Status() == dombatch.StatusOK {
		score := r.Score()
		return BatchItem{
			Filename:     r.Name(),
			Status:       "success",
			AnalysisID:   r.Analysis().ID,
			OverallScore: &score,
		}
	}
	return BatchItem{
		Filename: r.Name(),
		Status:   "failed",
		Error:    &ErrorResponse{Code: errorCode(r.Err()), Message: safeDomainMessage(r.Err())},
	}
}
