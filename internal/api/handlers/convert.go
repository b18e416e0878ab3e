package handlers

import (
	"errors"
	"net/http"
	"sort"
	"strings"

	"entry-optimizer/internal/api/models"
	"entry-optimizer/internal/data"
	"entry-optimizer/internal/extract"
	"entry-optimizer/internal/model"
	"entry-optimizer/internal/pipeline"
	"entry-optimizer/internal/solver"

	"github.com/gin-gonic/gin"
)

func writeError(c *gin.Context, status int, code, message string, details map[string]interface{}) {
	c.JSON(status, models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// errorDetail maps a run error to an HTTP status and error body.
func errorDetail(err error) (int, models.ErrorDetail) {
	var se *solver.ServiceError
	switch {
	case errors.Is(err, pipeline.ErrNothingToOptimize):
		return http.StatusUnprocessableEntity, models.ErrorDetail{Code: "NOTHING_TO_OPTIMIZE", Message: err.Error()}
	case errors.Is(err, extract.ErrNoBuyPrice):
		return http.StatusUnprocessableEntity, models.ErrorDetail{Code: "NO_OPTIMAL_BUY_PRICE", Message: err.Error()}
	case errors.As(err, &se):
		status := http.StatusBadGateway
		if se.Code == solver.CodeUnauthorized || se.Code == solver.CodeMissingToken {
			status = http.StatusUnauthorized
		} else if se.Code == solver.CodeQuotaExceeded {
			status = http.StatusTooManyRequests
		}
		return status, models.ErrorDetail{
			Code:    se.Code,
			Message: se.Message,
			Details: map[string]interface{}{
				"status_code": se.StatusCode,
				"retry_after": se.RetryAfter,
			},
		}
	case errors.Is(err, solver.ErrTooManyVariables):
		return http.StatusUnprocessableEntity, models.ErrorDetail{Code: "MODEL_TOO_LARGE", Message: err.Error()}
	case errors.Is(err, solver.ErrSolver):
		return http.StatusBadGateway, models.ErrorDetail{Code: solver.CodeServiceError, Message: err.Error()}
	default:
		return http.StatusInternalServerError, models.ErrorDetail{Code: "OPTIMIZE_ERROR", Message: err.Error()}
	}
}

func toSeries(in *models.SeriesInput, fallbackSymbol string) (model.Series, error) {
	if in == nil {
		return data.DefaultSeries(), nil
	}
	rows := make([]data.PointRecord, len(in.Data))
	for i, p := range in.Data {
		rows[i] = data.PointRecord{Timestamp: p.Timestamp, Close: p.Close}
	}
	symbol := strings.TrimSpace(in.Symbol)
	if symbol == "" {
		symbol = fallbackSymbol
	}
	return data.FromRecords(symbol, rows)
}

func buildResponse(res *pipeline.Result, opts models.OptimizeOptions) *models.OptimizeResponse {
	out := &models.OptimizeResponse{
		ID:     res.ID,
		Status: "ok",
		Symbol: res.Symbol,
		Rule:   res.Rule,
		Solver: res.Solver,
		Summary: models.OptimizeSummary{
			OptimalBuyPrices: []float64{},
			BestIndex:        -1,
			Selected:         []string{},
			NumVariables:     res.NumVariables,
			NumInteractions:  res.NumInteractions,
			ElapsedMS:        res.Elapsed.Milliseconds(),
		},
	}

	if rep := res.Report; rep != nil {
		if len(rep.Prices) > 0 {
			out.Summary.OptimalBuyPrices = rep.Prices
		}
		out.Summary.LowestEnergy = rep.LowestEnergy
		for _, v := range rep.Selected {
			out.Summary.Selected = append(out.Summary.Selected, v.String())
		}
		if rep.BestIndex >= 0 {
			best, ts := rep.BestEntry, rep.BestTimestamp
			out.Summary.BestEntryPrice = &best
			out.Summary.BestIndex = rep.BestIndex
			out.Summary.BestTimestamp = &ts
		}
	}
	if out.Summary.BestEntryPrice == nil {
		out.Status = "no_buy_price"
	}

	if set := res.SampleSet; set != nil {
		out.Summary.NumSamples = len(set.Samples)
		out.Summary.Cached = set.Info.Cached
		if opts.IncludeSamples {
			out.Samples = make([]models.SampleRow, len(set.Samples))
			for i, s := range set.Samples {
				asg := make(map[string]int8, len(s.Assignment))
				for v, x := range s.Assignment {
					asg[v.String()] = x
				}
				out.Samples[i] = models.SampleRow{Assignment: asg, Energy: s.Energy, NumOccurrences: s.NumOccurrences}
			}
		}
	}

	if opts.IncludeLedger {
		out.Ledger = make([]models.LedgerRow, len(res.Ledger))
		for i, r := range res.Ledger {
			out.Ledger[i] = models.LedgerRow{
				Index:      r.Index,
				Timestamp:  r.Timestamp,
				Close:      r.Close,
				BuySignal:  r.Buy,
				SellSignal: r.Sell,
				Selected:   r.Selected,
			}
		}
	}
	return out
}

// sortedKeys is used for stable listings of map-backed registries.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
