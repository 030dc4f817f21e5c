// Package mcts runs the per-move tree search. One tree serves one move
// decision and is discarded once the move is committed; within a decision,
// simulations run concurrently against the shared tree.
package mcts

import (
	"context"
	"math"
	"sync"
	"sync/atomic"

	"blokuszero/game"
	"blokuszero/rules"
)

// Evaluator supplies leaf evaluations: priors aligned with the legal moves
// and the value head in absolute seat order. In production this is the
// inference batcher; tests plug in fakes.
type Evaluator interface {
	Evaluate(ctx context.Context, s game.State, legal []game.Move) ([]float32, [game.NumPlayers]float32, error)
}

// Config holds the search constants. Zero fields take defaults.
type Config struct {
	Sims            int     // simulations per move decision
	CBase           float64 // PUCT exploration growth base
	CInit           float64 // PUCT exploration constant
	DirichletAlpha  float64 // root noise concentration
	ExplorationFrac float64 // root noise mixing weight
	Parallelism     int     // simulations in flight per decision
	Seed            uint64  // root noise seed; 0 seeds from the clock
	Score           rules.ScoreConfig
}

func (c *Config) applyDefaults() {
	if c.Sims <= 0 {
		c.Sims = 128
	}
	if c.CBase <= 0 {
		c.CBase = 19652
	}
	if c.CInit <= 0 {
		c.CInit = 1.25
	}
	if c.Parallelism <= 0 {
		c.Parallelism = 8
	}
	if c.Score == (rules.ScoreConfig{}) {
		c.Score = rules.DefaultScoreConfig()
	}
}

// virtualLoss is subtracted from a node's mean value while a simulation is
// in flight through it, steering concurrent simulations apart.
const virtualLoss = 1.0

const (
	statusNew uint32 = iota
	statusExpanding
	statusExpanded
)

// node is one tree position. Counters are atomic so simulations never take a
// lock on the selection path; edges are written once during expansion and
// published by the status transition plus the ready channel.
type node struct {
	state    game.State
	decider  int8 // player who moved at the parent to reach this node; -1 at root
	terminal bool
	payoff   [game.NumPlayers]float32 // true payoff, terminal nodes only

	status atomic.Uint32
	ready  chan struct{}
	edges  []edge

	visits atomic.Int64
	vloss  atomic.Int64
	sum    atomicFloat64 // accumulated payoff[decider]
}

// edge is a legal move out of a node. The child node is materialized lazily
// on first selection; -1 means not yet created.
type edge struct {
	move  game.Move
	prior float32
	child atomic.Int32
}

func newNode(s game.State, decider int8, score rules.ScoreConfig) *node {
	n := &node{
		state:   s,
		decider: decider,
		ready:   make(chan struct{}),
	}
	if rules.IsTerminal(&s) {
		n.terminal = true
		n.payoff = rules.Payoff(&s, score)
		n.status.Store(statusExpanded)
		close(n.ready)
	}
	return n
}

// tree is an index-addressed node arena. The lock only guards slice growth;
// node contents are synchronized by their own atomics.
type tree struct {
	mu    sync.RWMutex
	nodes []*node
}

func (t *tree) add(n *node) int32 {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.nodes = append(t.nodes, n)
	return int32(len(t.nodes) - 1)
}

func (t *tree) at(id int32) *node {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.nodes[id]
}

func (t *tree) size() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.nodes)
}

type atomicFloat64 struct {
	bits atomic.Uint64
}

func (a *atomicFloat64) Add(v float64) {
	for {
		old := a.bits.Load()
		next := math.Float64bits(math.Float64frombits(old) + v)
		if a.bits.CompareAndSwap(old, next) {
			return
		}
	}
}

func (a *atomicFloat64) Load() float64 {
	return math.Float64frombits(a.bits.Load())
}
