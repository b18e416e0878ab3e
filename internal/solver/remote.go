package solver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"entry-optimizer/internal/bqm"
	"entry-optimizer/internal/logger"

	"golang.org/x/time/rate"
)

// RemoteConfig configures the HTTP sampling service client.
type RemoteConfig struct {
	URL   string
	Token string
	// RatePerSec limits outgoing solve requests. 0 = unlimited.
	RatePerSec float64
	// MaxRetries applies to 5xx and quota responses.
	MaxRetries   int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	HTTPTimeout  time.Duration
}

// RemoteSolver submits models to an HTTP sampling service:
//
//	POST {URL}/v1/sample
//	X-Auth-Token: <token>
//
// The request carries the model in label form (see SampleRequest) and the
// response a list of aggregated samples.
type RemoteSolver struct {
	cfg     RemoteConfig
	client  *http.Client
	limiter *rate.Limiter
	log     *logger.Logger
}

// SampleRequest is the wire form of a solve request.
type SampleRequest struct {
	Vartype   string             `json:"vartype"`
	Linear    map[string]float64 `json:"linear"`
	Quadratic []WireInteraction  `json:"quadratic"`
	Offset    float64            `json:"offset"`
	NumReads  int                `json:"num_reads"`
	Seed      int64              `json:"seed,omitempty"`
}

type WireInteraction struct {
	U    string  `json:"u"`
	V    string  `json:"v"`
	Bias float64 `json:"bias"`
}

// SampleResponse is the wire form of a solve response.
type SampleResponse struct {
	Samples []WireSample `json:"samples"`
	Info    struct {
		TimingMicros int64 `json:"timing_us"`
	} `json:"info"`
}

type WireSample struct {
	Assignment     map[string]int8 `json:"assignment"`
	Energy         float64         `json:"energy"`
	NumOccurrences int             `json:"num_occurrences"`
}

type wireError struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// NewRemote creates a client. An empty token is rejected at solve time so the
// solver can still be listed and configured without credentials.
func NewRemote(cfg RemoteConfig, log *logger.Logger) *RemoteSolver {
	if cfg.HTTPTimeout <= 0 {
		cfg.HTTPTimeout = 60 * time.Second
	}
	if cfg.InitialDelay <= 0 {
		cfg.InitialDelay = 500 * time.Millisecond
	}
	if cfg.MaxDelay <= 0 {
		cfg.MaxDelay = 10 * time.Second
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	lim := rate.NewLimiter(rate.Inf, 1)
	if cfg.RatePerSec > 0 {
		lim = rate.NewLimiter(rate.Limit(cfg.RatePerSec), 1)
	}
	if log == nil {
		log = logger.Nop()
	}
	return &RemoteSolver{
		cfg:     cfg,
		client:  &http.Client{Timeout: cfg.HTTPTimeout},
		limiter: lim,
		log:     log.WithField("solver", "remote"),
	}
}

func (s *RemoteSolver) Name() string { return "remote" }

func (s *RemoteSolver) Sample(ctx context.Context, m *bqm.Model, opts Options) (*SampleSet, error) {
	opts = opts.withDefaults()
	if m == nil || m.IsEmpty() {
		return nil, ErrEmptyModel
	}
	if strings.TrimSpace(s.cfg.Token) == "" {
		return nil, &ServiceError{Code: CodeMissingToken, Message: "API token is required"}
	}
	if s.cfg.URL == "" {
		return nil, fmt.Errorf("%w: sampler URL is not configured", ErrSolver)
	}

	ctx, cancel := withTimeout(ctx, opts)
	defer cancel()

	body, err := json.Marshal(encodeRequest(m, opts))
	if err != nil {
		return nil, fmt.Errorf("encode model: %w", err)
	}

	start := time.Now()
	resp, err := s.doWithRetry(ctx, body)
	if err != nil {
		return nil, err
	}
	set, err := decodeResponse(m, resp)
	if err != nil {
		return nil, &ServiceError{Code: CodeBadResponse, Message: err.Error()}
	}
	set.Info = Info{Solver: s.Name(), NumReads: opts.NumReads, Elapsed: time.Since(start)}

	s.log.WithFields(map[string]interface{}{
		"variables": m.NumVariables(),
		"samples":   len(set.Samples),
		"duration":  set.Info.Elapsed,
	}).Info("Remote sample completed")
	return set, nil
}

// doWithRetry sends the request, retrying retryable failures with
// exponential backoff until MaxRetries or ctx is done.
func (s *RemoteSolver) doWithRetry(ctx context.Context, body []byte) (*SampleResponse, error) {
	delay := s.cfg.InitialDelay
	var lastErr error
	for attempt := 0; attempt <= s.cfg.MaxRetries; attempt++ {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: rate limit wait: %v", ErrSolver, err)
		}
		resp, err := s.post(ctx, body)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		se, ok := err.(*ServiceError)
		if ok && !se.Retryable() {
			return nil, err
		}
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %v", ErrSolver, ctx.Err())
		}
		if attempt == s.cfg.MaxRetries {
			break
		}

		wait := delay
		if ok {
			if ra := se.RetryDelay(); ra > wait {
				wait = ra
			}
		}
		s.log.WithFields(map[string]interface{}{
			"attempt": attempt + 1,
			"delay":   wait,
			"error":   err.Error(),
		}).Warn("Retrying sample request")

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %v", ErrSolver, ctx.Err())
		case <-time.After(wait):
		}
		delay *= 2
		if delay > s.cfg.MaxDelay {
			delay = s.cfg.MaxDelay
		}
	}
	return nil, lastErr
}

func (s *RemoteSolver) post(ctx context.Context, body []byte) (*SampleResponse, error) {
	u := strings.TrimRight(s.cfg.URL, "/") + "/v1/sample"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrSolver, err)
	}
	req.Header.Set("X-Auth-Token", s.cfg.Token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrSolver, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// Success, continue
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, &ServiceError{
			StatusCode: resp.StatusCode,
			Code:       CodeUnauthorized,
			Message:    errorMessage(resp.Body, "invalid API token or insufficient permissions"),
		}
	case http.StatusTooManyRequests:
		retryAfter := resp.Header.Get("Retry-After")
		return nil, &ServiceError{
			StatusCode: resp.StatusCode,
			Code:       CodeQuotaExceeded,
			Message:    fmt.Sprintf("quota exceeded, retry after: %s", retryAfter),
			RetryAfter: retryAfter,
		}
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return nil, &ServiceError{
			StatusCode: resp.StatusCode,
			Code:       CodeMalformedModel,
			Message:    errorMessage(resp.Body, "model rejected by sampler"),
		}
	default:
		return nil, &ServiceError{
			StatusCode: resp.StatusCode,
			Code:       CodeServiceError,
			Message:    fmt.Sprintf("sampler returned status %d: %s", resp.StatusCode, resp.Status),
		}
	}

	var out SampleResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, &ServiceError{StatusCode: resp.StatusCode, Code: CodeBadResponse, Message: fmt.Sprintf("failed to decode response: %v", err)}
	}
	return &out, nil
}

func errorMessage(r io.Reader, def string) string {
	raw, err := io.ReadAll(io.LimitReader(r, 64<<10))
	if err != nil || len(raw) == 0 {
		return def
	}
	var we wireError
	if json.Unmarshal(raw, &we) == nil && we.Error.Message != "" {
		return we.Error.Message
	}
	return def
}

func encodeRequest(m *bqm.Model, opts Options) SampleRequest {
	req := SampleRequest{
		Vartype:   "BINARY",
		Linear:    make(map[string]float64, m.NumVariables()),
		Quadratic: make([]WireInteraction, 0, m.NumInteractions()),
		Offset:    m.Offset(),
		NumReads:  opts.NumReads,
		Seed:      opts.Seed,
	}
	for _, v := range m.Variables() {
		b, _ := m.Linear(v)
		req.Linear[v.String()] = b
	}
	for _, it := range m.Interactions() {
		req.Quadratic = append(req.Quadratic, WireInteraction{U: it.U.String(), V: it.V.String(), Bias: it.Bias})
	}
	return req
}

// decodeResponse maps labels back to typed variables and recomputes energies
// locally so a sampler's rounding cannot disagree with the model.
func decodeResponse(m *bqm.Model, resp *SampleResponse) (*SampleSet, error) {
	vars := m.Variables()
	samples := make([]Sample, 0, len(resp.Samples))
	for i, ws := range resp.Samples {
		asg := make(bqm.Assignment, len(vars))
		for _, v := range vars {
			asg[v] = 0
		}
		for label, val := range ws.Assignment {
			v, err := bqm.ParseVar(label)
			if err != nil {
				return nil, fmt.Errorf("sample %d: %w", i, err)
			}
			if _, ok := m.Linear(v); !ok {
				return nil, fmt.Errorf("sample %d: unknown variable %s", i, label)
			}
			if val != 0 && val != 1 {
				return nil, fmt.Errorf("sample %d: %s has non-binary value %d", i, label, val)
			}
			asg[v] = val
		}
		occ := ws.NumOccurrences
		if occ <= 0 {
			occ = 1
		}
		samples = append(samples, Sample{Assignment: asg, Energy: m.Energy(asg), NumOccurrences: occ})
	}
	sortSamples(vars, samples)
	return &SampleSet{Variables: vars, Samples: samples}, nil
}
