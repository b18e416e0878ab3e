package handlers

import (
	"fmt"
	"net/http"
	"time"

	"entry-optimizer/internal/analysis"
	"entry-optimizer/internal/api/models"
	"entry-optimizer/internal/data"
	"entry-optimizer/internal/logger"
	"entry-optimizer/internal/model"
	"entry-optimizer/internal/pipeline"
	"entry-optimizer/internal/signal"
	"entry-optimizer/internal/solver"

	"github.com/gin-gonic/gin"
)

// MaxNumReads caps per-request sample counts.
const MaxNumReads = 10000

// OptimizeHandler handles optimization requests
type OptimizeHandler struct {
	solver     solver.Solver
	defaults   solver.Options
	batchLimit int
	series     *SeriesHandler
	log        *logger.Logger
}

// NewOptimizeHandler creates a new optimize handler
// series may be nil; it resolves requests that name a symbol instead of
// sending prices.
func NewOptimizeHandler(s solver.Solver, defaults solver.Options, batchLimit int, series *SeriesHandler, log *logger.Logger) *OptimizeHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &OptimizeHandler{
		solver:     s,
		defaults:   defaults,
		batchLimit: batchLimit,
		series:     series,
		log:        log.WithField("handler", "optimize"),
	}
}

// Optimize handles POST /api/v1/optimize
func (h *OptimizeHandler) Optimize(c *gin.Context) {
	var req models.OptimizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
		return
	}

	var series model.Series
	if req.Series == nil && req.Symbol != "" {
		s, ok := h.lookup(req.Symbol)
		if !ok {
			writeError(c, http.StatusNotFound, "SERIES_NOT_FOUND", "unknown symbol: "+req.Symbol, nil)
			return
		}
		series = s
	} else {
		s, err := toSeries(req.Series, data.DefaultSymbol)
		if err != nil {
			writeError(c, http.StatusBadRequest, "INVALID_SERIES", err.Error(), nil)
			return
		}
		series = s
	}
	rule, err := signal.FromConfig(req.Signal.Name, req.Signal.Params)
	if err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_SIGNAL", err.Error(), nil)
		return
	}
	opts, err := h.options(req.Solver)
	if err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_SOLVER_OPTIONS", err.Error(), nil)
		return
	}

	engine := pipeline.New(h.solver, opts, h.log)
	res, err := engine.Run(c.Request.Context(), series, rule)
	if err != nil {
		status, detail := errorDetail(err)
		if res != nil && pipeline.IsPartial(err) {
			detail.Details = map[string]interface{}{"result": buildResponse(res, req.Options)}
		}
		c.JSON(status, models.ErrorResponse{Error: detail})
		return
	}

	c.JSON(http.StatusOK, buildResponse(res, req.Options))
}

// OptimizeBatch handles POST /api/v1/optimize/batch
func (h *OptimizeHandler) OptimizeBatch(c *gin.Context) {
	var req models.BatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
		return
	}

	rule, err := signal.FromConfig(req.Signal.Name, req.Signal.Params)
	if err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_SIGNAL", err.Error(), nil)
		return
	}
	opts, err := h.options(req.Solver)
	if err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_SOLVER_OPTIONS", err.Error(), nil)
		return
	}

	jobs := make([]pipeline.Job, len(req.Series))
	for i := range req.Series {
		series, err := toSeries(&req.Series[i], fmt.Sprintf("SERIES_%d", i+1))
		if err != nil {
			writeError(c, http.StatusBadRequest, "INVALID_SERIES", err.Error(), map[string]interface{}{"index": i})
			return
		}
		jobs[i] = pipeline.Job{Series: series, Rule: rule}
	}

	engine := pipeline.New(h.solver, opts, h.log)
	items, err := engine.RunBatch(c.Request.Context(), jobs, h.batchLimit)
	if err != nil {
		status, detail := errorDetail(err)
		c.JSON(status, models.ErrorResponse{Error: detail})
		return
	}

	resp := models.BatchResponse{
		Results:  make([]models.BatchResult, len(items)),
		Rankings: []models.Ranking{},
	}
	for i, it := range items {
		out := models.BatchResult{Symbol: it.Symbol}
		if it.Result != nil {
			out.Result = buildResponse(it.Result, req.Options)
		}
		if it.Err != nil {
			_, detail := errorDetail(it.Err)
			out.Error = &detail
		}
		resp.Results[i] = out
	}
	for i, cand := range analysis.RankByDiscount(items) {
		resp.Rankings = append(resp.Rankings, models.Ranking{
			Rank:      i + 1,
			Symbol:    cand.Symbol,
			BestEntry: cand.BestEntry,
			BestIndex: cand.BestIndex,
			Mean:      cand.Mean,
			Min:       cand.Min,
			Max:       cand.Max,
			Discount:  cand.Discount,
			Optimal:   cand.Optimal,
		})
	}

	c.JSON(http.StatusOK, resp)
}

func (h *OptimizeHandler) lookup(symbol string) (model.Series, bool) {
	if h.series == nil {
		return model.Series{}, false
	}
	return h.series.Lookup(symbol)
}

// options overlays per-request solver options onto the server defaults.
func (h *OptimizeHandler) options(in models.SolverOptions) (solver.Options, error) {
	opts := h.defaults
	if in.NumReads < 0 || in.NumReads > MaxNumReads {
		return opts, fmt.Errorf("num_reads must be between 0 and %d", MaxNumReads)
	}
	if in.TimeoutMS < 0 {
		return opts, fmt.Errorf("timeout_ms must be >= 0")
	}
	if in.NumReads > 0 {
		opts.NumReads = in.NumReads
	}
	if in.Seed != 0 {
		opts.Seed = in.Seed
	}
	if in.TimeoutMS > 0 {
		opts.Timeout = time.Duration(in.TimeoutMS) * time.Millisecond
	}
	return opts, nil
}
