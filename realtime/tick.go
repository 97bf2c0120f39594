package realtime

// processWake runs one main-loop wake: deliver queued edges, then tick the
// engine TicksPerWake times.
func (rt *Runtime) processWake() {
	edges := rt.collectEdges()
	sortEdges(edges)
	for _, e := range edges {
		rt.buttons.Press(e.Player)
	}

	rt.mu.Lock()
	defer rt.mu.Unlock()
	for i := 0; i < rt.cfg.TicksPerWake; i++ {
		if err := rt.engine.Tick(); err != nil {
			rt.logger.Error("engine tick failed", "tick", rt.tickNum, "error", err)
			return
		}
		rt.tickNum++
	}
}

// collectEdges atomically retrieves and clears the edge batch.
func (rt *Runtime) collectEdges() []Edge {
	rt.batchMu.Lock()
	defer rt.batchMu.Unlock()

	edges := rt.batch
	rt.batch = make([]Edge, 0, cap(rt.batch))
	return edges
}
