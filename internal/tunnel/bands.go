package tunnel

import "sync"

// band is a contiguous half-open row range [y0, y1) owned by one worker.
type band struct{ y0, y1 int }

// splitBands cuts rows into count contiguous ranges of near-equal height.
// count is clamped to [1, rows].
func splitBands(rows, count int) []band {
	count = clampInt(count, 1, rows)
	bands := make([]band, count)
	for i := range bands {
		bands[i] = band{y0: i * rows / count, y1: (i + 1) * rows / count}
	}
	return bands
}

// bandPool keeps one goroutine per band parked on a condition variable.
// run publishes a job, wakes every worker and waits until each has finished
// its band.
type bandPool struct {
	mu      sync.Mutex
	cond    *sync.Cond
	bands   []band
	job     func(band)
	step    int
	pending int
	closed  bool
	done    sync.WaitGroup
}

// newBandPool launches the workers for bands.
func newBandPool(bands []band) *bandPool {
	p := &bandPool{bands: bands}
	p.cond = sync.NewCond(&p.mu)
	p.done.Add(len(bands))
	for i := range bands {
		go p.workerLoop(i)
	}
	return p
}

// workerLoop executes the published job for the worker's band once per step.
func (p *bandPool) workerLoop(index int) {
	defer p.done.Done()
	lastStep := 0
	p.mu.Lock()
	for {
		for p.step == lastStep && !p.closed {
			p.cond.Wait()
		}
		if p.closed {
			p.mu.Unlock()
			return
		}
		lastStep = p.step
		job := p.job
		b := p.bands[index]
		p.mu.Unlock()

		job(b)

		p.mu.Lock()
		p.pending--
		if p.pending == 0 {
			p.cond.Broadcast()
		}
	}
}

// run dispatches job to every band and blocks until all of them return.
// Callers must not invoke run concurrently or after close.
func (p *bandPool) run(job func(band)) {
	p.mu.Lock()
	p.job = job
	p.pending = len(p.bands)
	p.step++
	p.cond.Broadcast()
	for p.pending > 0 {
		p.cond.Wait()
	}
	p.job = nil
	p.mu.Unlock()
}

// close stops the workers and waits for them to exit.
func (p *bandPool) close() {
	p.mu.Lock()
	p.closed = true
	p.cond.Broadcast()
	p.mu.Unlock()
	p.done.Wait()
}
