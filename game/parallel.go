package game

import (
	"runtime"
	"sync"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/antnest/components"
	"github.com/pthm-cable/antnest/systems"
)

// parallelThreshold is the minimum moving ant count to use parallel processing.
// Below this, single-threaded is faster due to goroutine overhead.
const parallelThreshold = 64

// antSnapshot captures read-only movement state for parallel processing.
type antSnapshot struct {
	Entity ecs.Entity
	Pos    components.Position
	Target components.Position
	Speed  float32 // effective units per second for this tick
}

// intent captures computed outputs to apply after the parallel phase.
type intent struct {
	NewPos  components.Position
	Arrived bool
}

// workChunk represents a range of ants for a worker to process.
type workChunk struct {
	start, end int
	dt         float32
}

// parallelState holds resources for parallel movement computation.
type parallelState struct {
	snapshots  []antSnapshot
	intents    []intent
	numWorkers int

	// Worker pool channels
	workChan chan workChunk // sends work to workers
	doneChan chan struct{}  // workers signal completion
	stopChan chan struct{}  // signals workers to exit
	wg       sync.WaitGroup // tracks active workers
	running  bool           // true if workers are running
}

func newParallelState() *parallelState {
	return &parallelState{
		numWorkers: runtime.GOMAXPROCS(0),
		snapshots:  make([]antSnapshot, 0, 512),
		intents:    make([]intent, 0, 512),
	}
}

// startWorkers launches persistent worker goroutines.
func (p *parallelState) startWorkers(g *Game) {
	if p.running {
		return
	}

	p.workChan = make(chan workChunk, p.numWorkers)
	p.doneChan = make(chan struct{}, p.numWorkers)
	p.stopChan = make(chan struct{})
	p.running = true

	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker(g)
	}
}

// stopWorkers signals all workers to exit and waits for them.
func (p *parallelState) stopWorkers() {
	if !p.running {
		return
	}

	close(p.stopChan)
	p.wg.Wait()
	close(p.workChan)
	close(p.doneChan)
	p.running = false
}

// worker runs in a goroutine, processing chunks until stopped.
func (p *parallelState) worker(g *Game) {
	defer p.wg.Done()

	for {
		select {
		case <-p.stopChan:
			return
		case chunk, ok := <-p.workChan:
			if !ok {
				return
			}
			g.computeChunk(chunk.start, chunk.end, chunk.dt)
			p.doneChan <- struct{}{}
		}
	}
}

// moveAnts steps every ant that decideAnts queued toward its target.
func (g *Game) moveAnts(dt float32) {
	n := len(g.parallel.snapshots)
	if n == 0 {
		return
	}

	// Resize intents slice
	if cap(g.parallel.intents) < n {
		g.parallel.intents = make([]intent, n)
	}
	g.parallel.intents = g.parallel.intents[:n]

	// Compute - choose single or parallel based on ant count
	if n < parallelThreshold {
		g.computeChunk(0, n, dt)
	} else {
		g.computeParallel(n, dt)
	}

	// Apply intents (single-threaded, preserves determinism)
	g.applyIntents()
}

// computeParallel dispatches work to the worker pool.
func (g *Game) computeParallel(n int, dt float32) {
	// Ensure workers are running
	if !g.parallel.running {
		g.parallel.startWorkers(g)
	}

	numWorkers := g.parallel.numWorkers
	chunkSize := (n + numWorkers - 1) / numWorkers

	// Dispatch chunks to workers
	chunksDispatched := 0
	for w := 0; w < numWorkers; w++ {
		start := w * chunkSize
		end := start + chunkSize
		if end > n {
			end = n
		}
		if start >= end {
			continue
		}

		g.parallel.workChan <- workChunk{start: start, end: end, dt: dt}
		chunksDispatched++
	}

	// Wait for all chunks to complete
	for i := 0; i < chunksDispatched; i++ {
		<-g.parallel.doneChan
	}
}

// computeChunk processes a range of ants for a single worker. It only reads
// snapshots and writes its own intents.
func (g *Game) computeChunk(i0, i1 int, dt float32) {
	arrival := g.behavior.ArrivalDistance

	for i := i0; i < i1; i++ {
		snap := &g.parallel.snapshots[i]
		pos, arrived := systems.StepToward(snap.Pos, snap.Target, snap.Speed*dt, arrival)
		g.parallel.intents[i] = intent{NewPos: pos, Arrived: arrived}
	}
}

// applyIntents writes computed results back to ECS components.
func (g *Game) applyIntents() {
	restDuration := g.behavior.RestDuration

	for i, snap := range g.parallel.snapshots {
		it := &g.parallel.intents[i]
		if !g.reg.world.Alive(snap.Entity) {
			continue
		}

		_, pos, b, _, inv, _, _ := g.reg.workers.Get(snap.Entity)
		*pos = it.NewPos
		g.reg.antGrid.Update(snap.Entity, pos.X, pos.Y)

		if !it.Arrived {
			continue
		}
		prev := b.State
		if delivered := systems.Arrive(b, inv, restDuration); delivered > 0 {
			g.foodStore += float64(delivered)
			g.collector.RecordDelivery(delivered)
			g.metrics.Delivered(delivered)
		}
		if b.State != prev {
			g.collector.RecordTransition()
		}
	}
}

// stopParallelWorkers should be called when shutting down the game.
func (g *Game) stopParallelWorkers() {
	if g.parallel != nil {
		g.parallel.stopWorkers()
	}
}
