package solver

import (
	"fmt"
	"strings"
	"time"

	"entry-optimizer/internal/logger"
)

// DefaultSolver is used when no solver is configured.
const DefaultSolver = "anneal"

// Spec selects and configures a solver.
type Spec struct {
	Name      string
	Sweeps    int
	BetaRange [2]float64
	Remote    RemoteConfig
	// CacheTTL > 0 wraps the solver in a Cached decorator.
	CacheTTL time.Duration
	// Metrics wraps the solver in an Instrumented decorator.
	Metrics bool
}

// New builds the solver described by spec, decorators included.
func New(spec Spec, log *logger.Logger) (Solver, error) {
	var s Solver
	switch strings.TrimSpace(spec.Name) {
	case "", DefaultSolver:
		s = NewAnnealing(spec.Sweeps, spec.BetaRange)
	case "exact":
		s = NewExact()
	case "remote":
		if spec.Remote.URL == "" {
			return nil, fmt.Errorf("remote solver requires a URL")
		}
		s = NewRemote(spec.Remote, log)
	default:
		return nil, fmt.Errorf("unsupported solver: %q", spec.Name)
	}
	if spec.CacheTTL > 0 {
		s = NewCached(s, spec.CacheTTL)
	}
	if spec.Metrics {
		s = NewInstrumented(s)
	}
	return s, nil
}

// Descriptor describes a solver for listings.
type Descriptor struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Remote      bool   `json:"remote"`
}

func Catalog() []Descriptor {
	return []Descriptor{
		{
			Name:        "anneal",
			Description: "Classical simulated annealing. Reproducible with a fixed seed.",
		},
		{
			Name:        "exact",
			Description: fmt.Sprintf("Exhaustive search returning the lowest-energy states (up to %d variables).", MaxExactVariables),
		},
		{
			Name:        "remote",
			Description: "HTTP sampling service. Needs a URL and an API token.",
			Remote:      true,
		},
	}
}
