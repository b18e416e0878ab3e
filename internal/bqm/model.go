// Package bqm holds the binary quadratic model the optimizer minimizes:
// a linear bias per decision variable plus pairwise interaction weights.
package bqm

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"entry-optimizer/internal/model"

	"gonum.org/v1/gonum/mat"
)

// Var identifies one binary decision variable: take action Kind at Index.
type Var struct {
	Kind  model.Kind
	Index int
}

// String renders the wire label, e.g. "buy_3".
func (v Var) String() string {
	return v.Kind.String() + "_" + strconv.Itoa(v.Index)
}

// ParseVar is the inverse of Var.String. It is only needed at wire
// boundaries; inside the process variables are always typed.
func ParseVar(s string) (Var, error) {
	kind, idx, ok := strings.Cut(s, "_")
	if !ok {
		return Var{}, fmt.Errorf("invalid variable label %q", s)
	}
	k, err := model.ParseKind(kind)
	if err != nil {
		return Var{}, fmt.Errorf("invalid variable label %q: %w", s, err)
	}
	i, err := strconv.Atoi(idx)
	if err != nil || i < 0 {
		return Var{}, fmt.Errorf("invalid variable index in %q", s)
	}
	return Var{Kind: k, Index: i}, nil
}

// Less orders by index, then kind (buy before sell).
func (v Var) Less(o Var) bool {
	if v.Index != o.Index {
		return v.Index < o.Index
	}
	return v.Kind < o.Kind
}

// MarshalText lets Var be used as a JSON object key.
func (v Var) MarshalText() ([]byte, error) { return []byte(v.String()), nil }

func (v *Var) UnmarshalText(b []byte) error {
	parsed, err := ParseVar(string(b))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// Assignment maps every variable of a model to 0 or 1.
type Assignment map[Var]int8

// Interaction is one quadratic term with U.Less(V).
type Interaction struct {
	U    Var
	V    Var
	Bias float64
}

type pair struct{ u, v Var }

func makePair(u, v Var) pair {
	if v.Less(u) {
		u, v = v, u
	}
	return pair{u, v}
}

// Model is a binary quadratic model in minimization sense.
// The zero value is not usable; call New.
type Model struct {
	linear    map[Var]float64
	quadratic map[pair]float64
	offset    float64
}

func New() *Model {
	return &Model{
		linear:    make(map[Var]float64),
		quadratic: make(map[pair]float64),
	}
}

// AddVariable adds v with the given linear bias. Adding an existing variable
// accumulates the bias.
func (m *Model) AddVariable(v Var, bias float64) {
	m.linear[v] += bias
}

// AddInteraction adds bias to the (u, v) quadratic term, creating either
// variable with zero linear bias if needed.
func (m *Model) AddInteraction(u, v Var, bias float64) error {
	if u == v {
		return fmt.Errorf("self-interaction on %s", u)
	}
	if _, ok := m.linear[u]; !ok {
		m.linear[u] = 0
	}
	if _, ok := m.linear[v]; !ok {
		m.linear[v] = 0
	}
	m.quadratic[makePair(u, v)] += bias
	return nil
}

func (m *Model) AddOffset(c float64) { m.offset += c }

func (m *Model) Offset() float64 { return m.offset }

func (m *Model) NumVariables() int { return len(m.linear) }

func (m *Model) NumInteractions() int { return len(m.quadratic) }

func (m *Model) IsEmpty() bool { return len(m.linear) == 0 }

// Variables returns all variables in Var.Less order.
func (m *Model) Variables() []Var {
	out := make([]Var, 0, len(m.linear))
	for v := range m.linear {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

func (m *Model) Linear(v Var) (float64, bool) {
	b, ok := m.linear[v]
	return b, ok
}

func (m *Model) Quadratic(u, v Var) (float64, bool) {
	b, ok := m.quadratic[makePair(u, v)]
	return b, ok
}

// Interactions returns all quadratic terms ordered by (U, V).
func (m *Model) Interactions() []Interaction {
	out := make([]Interaction, 0, len(m.quadratic))
	for p, b := range m.quadratic {
		out = append(out, Interaction{U: p.u, V: p.v, Bias: b})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].U != out[j].U {
			return out[i].U.Less(out[j].U)
		}
		return out[i].V.Less(out[j].V)
	})
	return out
}

// Energy evaluates the model under a. Variables missing from a count as 0.
// Terms are summed in Variables then Interactions order, so the result is
// bit-for-bit stable across calls.
func (m *Model) Energy(a Assignment) float64 {
	e := m.offset
	for _, v := range m.Variables() {
		if a[v] != 0 {
			e += m.linear[v]
		}
	}
	for _, it := range m.Interactions() {
		if a[it.U] != 0 && a[it.V] != 0 {
			e += it.Bias
		}
	}
	return e
}

// QUBO returns the upper-triangular-equivalent symmetric matrix Q such that
// x'Qx + Offset() equals Energy for binary x ordered as the returned vars.
// Linear biases sit on the diagonal; each interaction is split across the
// two off-diagonal cells. Nil matrix for an empty model.
func (m *Model) QUBO() ([]Var, *mat.SymDense) {
	vars := m.Variables()
	if len(vars) == 0 {
		return vars, nil
	}
	pos := make(map[Var]int, len(vars))
	for i, v := range vars {
		pos[v] = i
	}
	q := mat.NewSymDense(len(vars), nil)
	for v, b := range m.linear {
		i := pos[v]
		q.SetSym(i, i, b)
	}
	for p, b := range m.quadratic {
		q.SetSym(pos[p.u], pos[p.v], b/2)
	}
	return vars, q
}

// Clone returns a deep copy.
func (m *Model) Clone() *Model {
	c := New()
	for v, b := range m.linear {
		c.linear[v] = b
	}
	for p, b := range m.quadratic {
		c.quadratic[p] = b
	}
	c.offset = m.offset
	return c
}
