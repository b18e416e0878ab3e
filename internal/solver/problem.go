package solver

import "entry-optimizer/internal/bqm"

type edge struct {
	j    int
	bias float64
}

type coupling struct {
	i, j int
	bias float64
}

// problem is the indexed form the local samplers work on, read off the
// model's QUBO matrix: h from the diagonal, couplings from the upper triangle.
type problem struct {
	vars   []bqm.Var
	offset float64
	h      []float64
	quad   []coupling // i < j, row-major
	adj    [][]edge
}

func newProblem(m *bqm.Model) problem {
	vars, q := m.QUBO()
	n := len(vars)
	p := problem{
		vars:   vars,
		offset: m.Offset(),
		h:      make([]float64, n),
		adj:    make([][]edge, n),
	}
	for i := 0; i < n; i++ {
		p.h[i] = q.At(i, i)
		for j := i + 1; j < n; j++ {
			b := 2 * q.At(i, j)
			if b == 0 {
				continue
			}
			p.quad = append(p.quad, coupling{i: i, j: j, bias: b})
			p.adj[i] = append(p.adj[i], edge{j: j, bias: b})
			p.adj[j] = append(p.adj[j], edge{j: i, bias: b})
		}
	}
	return p
}

// energy sums terms in the same order as bqm.Model.Energy.
func (p problem) energy(x []int8) float64 {
	e := p.offset
	for i, b := range p.h {
		if x[i] != 0 {
			e += b
		}
	}
	for _, c := range p.quad {
		if x[c.i] != 0 && x[c.j] != 0 {
			e += c.bias
		}
	}
	return e
}

func (p problem) assignment(x []int8) bqm.Assignment {
	asg := make(bqm.Assignment, len(p.vars))
	for i, v := range p.vars {
		asg[v] = x[i]
	}
	return asg
}
