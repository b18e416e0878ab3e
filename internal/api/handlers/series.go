package handlers

import (
	"net/http"
	"strings"

	"entry-optimizer/internal/analysis"
	"entry-optimizer/internal/api/models"
	"entry-optimizer/internal/model"

	"github.com/gin-gonic/gin"
)

// SeriesHandler serves the price series loaded at startup
type SeriesHandler struct {
	series map[string]model.Series
}

// NewSeriesHandler creates a new series handler. Symbols are matched
// case-insensitively; a later series replaces an earlier one with the same symbol.
func NewSeriesHandler(series []model.Series) *SeriesHandler {
	m := make(map[string]model.Series, len(series))
	for _, s := range series {
		m[strings.ToUpper(s.Symbol)] = s
	}
	return &SeriesHandler{series: m}
}

// Lookup returns a loaded series by symbol.
func (h *SeriesHandler) Lookup(symbol string) (model.Series, bool) {
	s, ok := h.series[strings.ToUpper(strings.TrimSpace(symbol))]
	return s, ok
}

// ListSeries handles GET /api/v1/series
func (h *SeriesHandler) ListSeries(c *gin.Context) {
	out := make([]models.SeriesInfo, 0, len(h.series))
	for _, key := range sortedKeys(h.series) {
		out = append(out, seriesInfo(h.series[key]))
	}
	c.JSON(http.StatusOK, gin.H{"series": out})
}

// GetSeries handles GET /api/v1/series/:symbol
func (h *SeriesHandler) GetSeries(c *gin.Context) {
	s, ok := h.Lookup(c.Param("symbol"))
	if !ok {
		writeError(c, http.StatusNotFound, "SERIES_NOT_FOUND", "unknown symbol: "+c.Param("symbol"), nil)
		return
	}

	st := analysis.ComputeStats(s)
	detail := models.SeriesDetail{
		SeriesInfo: seriesInfo(s),
		Stats: models.SeriesStats{
			Min:          st.Min,
			Max:          st.Max,
			Mean:         st.Mean,
			StdDev:       st.StdDev,
			P05:          st.P05,
			P95:          st.P95,
			SpreadP95P05: st.SpreadP95P05,
		},
		Points: make([]models.PointInput, s.Len()),
	}
	for i, p := range s.Points {
		detail.Points[i] = models.PointInput{Timestamp: p.Timestamp.Format(model.TimestampLayout), Close: p.Close}
	}
	c.JSON(http.StatusOK, detail)
}

func seriesInfo(s model.Series) models.SeriesInfo {
	info := models.SeriesInfo{Symbol: s.Symbol, Count: s.Len()}
	if s.Len() > 0 {
		info.Start = s.Points[0].Timestamp
		info.End = s.Points[s.Len()-1].Timestamp
	}
	return info
}
