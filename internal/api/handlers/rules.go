package handlers

import (
	"net/http"

	"entry-optimizer/internal/signal"
	"entry-optimizer/internal/solver"

	"github.com/gin-gonic/gin"
)

// CatalogHandler lists the available signal rules and solvers
type CatalogHandler struct {
	active string
}

// NewCatalogHandler creates a new catalog handler. active is the name of the
// solver the server was started with.
func NewCatalogHandler(active string) *CatalogHandler {
	return &CatalogHandler{active: active}
}

// ListRules handles GET /api/v1/rules
func (h *CatalogHandler) ListRules(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"rules":   signal.Catalog(),
		"default": signal.DefaultRule,
	})
}

// ListSolvers handles GET /api/v1/solvers
func (h *CatalogHandler) ListSolvers(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"solvers": solver.Catalog(),
		"active":  h.active,
	})
}
