package mcts

import (
	"context"
	"errors"
	"math"
	"sync/atomic"
	"time"

	exprand "golang.org/x/exp/rand"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat/distmv"

	"blokuszero/game"
	"blokuszero/rules"
)

// MCTS runs move decisions for one driver.
type MCTS struct {
	Config    Config
	Evaluator Evaluator
}

// Result summarizes a finished decision: the root's legal moves with their
// visit counts and the normalized visit distribution, which is both the
// move-selection input and the training policy target.
type Result struct {
	Moves    []game.Move
	Visits   []int64
	Policy   []float32
	MaxDepth int
	Nodes    int
}

type search struct {
	cfg  Config
	eval Evaluator
	tree *tree
	root *node

	maxDepth atomic.Int64
}

// Search runs the configured simulation budget from rootState and returns
// the root visit statistics. Callers only invoke it on states with at least
// one legal move; forced passes are applied directly by the driver.
func (m *MCTS) Search(ctx context.Context, rootState game.State) (*Result, error) {
	cfg := m.Config
	cfg.applyDefaults()

	if rules.IsTerminal(&rootState) {
		return nil, errors.New("mcts: search from terminal state")
	}

	s := &search{
		cfg:  cfg,
		eval: m.Evaluator,
		tree: &tree{},
	}
	s.root = newNode(rootState, -1, cfg.Score)
	s.tree.add(s.root)

	// Expand the root before any simulation so every simulation starts by
	// descending into a child; the root's own evaluation value is unused.
	s.root.status.Store(statusExpanding)
	if _, err := s.expand(ctx, s.root); err != nil {
		return nil, err
	}
	if len(s.root.edges) == 1 && s.root.edges[0].move.IsPass() {
		return nil, errors.New("mcts: no legal moves at root")
	}
	s.addRootNoise()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Parallelism)
	for i := 0; i < cfg.Sims; i++ {
		g.Go(func() error {
			return s.simulate(gctx)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return s.result(), nil
}

// simulate runs one selection/expansion/backup cycle. Virtual loss is held
// on every node of the path from selection until backup.
func (s *search) simulate(ctx context.Context) error {
	n := s.root
	n.vloss.Add(1)
	path := []*node{n}

	for {
		if err := ctx.Err(); err != nil {
			s.abort(path)
			return err
		}

		if n.terminal {
			s.backup(path, n.payoff)
			return nil
		}

		switch n.status.Load() {
		case statusNew:
			if n.status.CompareAndSwap(statusNew, statusExpanding) {
				value, err := s.expand(ctx, n)
				if err != nil {
					s.abort(path)
					return err
				}
				s.backup(path, value)
				return nil
			}
			continue
		case statusExpanding:
			// Another simulation owns the expansion and its evaluation is
			// in flight. Wait for publication, then keep descending.
			select {
			case <-n.ready:
			case <-ctx.Done():
				s.abort(path)
				return ctx.Err()
			}
			continue
		}

		e := s.selectEdge(n)
		child, err := s.materialize(n, e)
		if err != nil {
			s.abort(path)
			return err
		}
		child.vloss.Add(1)
		path = append(path, child)
		n = child
	}
}

// expand computes legal moves and the node's evaluation, publishes the
// edges, and returns the leaf value for backup. The caller must hold the
// statusExpanding claim. A position whose player must pass gets a single
// pass edge; the evaluation still supplies the value.
func (s *search) expand(ctx context.Context, n *node) ([game.NumPlayers]float32, error) {
	legal := rules.LegalMoves(&n.state)
	priors, value, err := s.eval.Evaluate(ctx, n.state, legal)
	if err != nil {
		n.status.Store(statusNew)
		return [game.NumPlayers]float32{}, err
	}

	if len(legal) == 0 {
		n.edges = make([]edge, 1)
		n.edges[0].move = game.Pass
		n.edges[0].prior = 1
		n.edges[0].child.Store(-1)
	} else {
		var total float32
		for _, p := range priors {
			total += p
		}
		n.edges = make([]edge, len(legal))
		for i, m := range legal {
			p := float32(1) / float32(len(legal))
			if total > 0 {
				p = priors[i] / total
			}
			n.edges[i].move = m
			n.edges[i].prior = p
			n.edges[i].child.Store(-1)
		}
	}

	n.status.Store(statusExpanded)
	close(n.ready)
	return value, nil
}

// addRootNoise mixes Dirichlet noise into the root priors so self-play does
// not keep replaying the current best line.
func (s *search) addRootNoise() {
	frac := s.cfg.ExplorationFrac
	if frac <= 0 || s.cfg.DirichletAlpha <= 0 || len(s.root.edges) < 2 {
		return
	}
	seed := s.cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	alpha := make([]float64, len(s.root.edges))
	for i := range alpha {
		alpha[i] = s.cfg.DirichletAlpha
	}
	noise := distmv.NewDirichlet(alpha, exprand.NewSource(seed)).Rand(nil)
	for i := range s.root.edges {
		e := &s.root.edges[i]
		e.prior = float32((1-frac)*float64(e.prior) + frac*noise[i])
	}
}

// selectEdge picks the child maximizing the PUCT score, with virtual loss
// folded into both the mean value and the visit counts. Ties break to the
// earliest edge so selection is reproducible.
func (s *search) selectEdge(n *node) *edge {
	parentN := float64(n.visits.Load() + n.vloss.Load())
	c := s.cfg.CInit + math.Log((parentN+s.cfg.CBase+1)/s.cfg.CBase)
	sqrtN := math.Sqrt(parentN)

	var best *edge
	bestScore := math.Inf(-1)
	for i := range n.edges {
		e := &n.edges[i]
		var q, childN float64
		if id := e.child.Load(); id >= 0 {
			child := s.tree.at(id)
			vl := float64(child.vloss.Load())
			childN = float64(child.visits.Load()) + vl
			if childN > 0 {
				q = (child.sum.Load() - vl*virtualLoss) / childN
			}
		}
		u := q + float64(e.prior)*sqrtN/(1+childN)*c
		if u > bestScore {
			bestScore = u
			best = e
		}
	}
	return best
}

// materialize returns the edge's child, creating it on first selection.
// Successor computation happens outside the arena lock; losing the race just
// wastes the duplicate state.
func (s *search) materialize(parent *node, e *edge) (*node, error) {
	if id := e.child.Load(); id >= 0 {
		return s.tree.at(id), nil
	}

	var next game.State
	var err error
	if e.move.IsPass() {
		next, err = rules.ApplyPass(parent.state)
	} else {
		next, err = rules.ApplyMove(parent.state, e.move)
	}
	if err != nil {
		return nil, err
	}
	n := newNode(next, parent.state.Player, s.cfg.Score)

	s.tree.mu.Lock()
	if id := e.child.Load(); id >= 0 {
		s.tree.mu.Unlock()
		return s.tree.at(id), nil
	}
	s.tree.nodes = append(s.tree.nodes, n)
	e.child.Store(int32(len(s.tree.nodes) - 1))
	s.tree.mu.Unlock()
	return n, nil
}

func (s *search) backup(path []*node, payoff [game.NumPlayers]float32) {
	for _, n := range path {
		n.vloss.Add(-1)
		n.visits.Add(1)
		if n.decider >= 0 {
			n.sum.Add(float64(payoff[n.decider]))
		}
	}
	s.noteDepth(len(path) - 1)
}

// abort releases virtual loss without recording a visit; used when a
// simulation fails or is cancelled mid-path.
func (s *search) abort(path []*node) {
	for _, n := range path {
		n.vloss.Add(-1)
	}
}

func (s *search) noteDepth(d int) {
	for {
		old := s.maxDepth.Load()
		if int64(d) <= old || s.maxDepth.CompareAndSwap(old, int64(d)) {
			return
		}
	}
}

func (s *search) result() *Result {
	res := &Result{
		Moves:    make([]game.Move, len(s.root.edges)),
		Visits:   make([]int64, len(s.root.edges)),
		Policy:   make([]float32, len(s.root.edges)),
		MaxDepth: int(s.maxDepth.Load()),
		Nodes:    s.tree.size(),
	}
	var total int64
	for i := range s.root.edges {
		e := &s.root.edges[i]
		res.Moves[i] = e.move
		if id := e.child.Load(); id >= 0 {
			res.Visits[i] = s.tree.at(id).visits.Load()
		}
		total += res.Visits[i]
	}
	if total > 0 {
		for i, v := range res.Visits {
			res.Policy[i] = float32(v) / float32(total)
		}
	}
	return res
}
