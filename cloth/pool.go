package cloth

import (
	"runtime"
	"sync"
)

// chunkJob processes items [start, end) as chunk number chunk.
type chunkJob func(chunk, start, end int)

// workChunk represents a range of items for a worker to process.
type workChunk struct {
	index, start, end int
	job               chunkJob
}

// workerPool runs chunked jobs on persistent goroutines. run returns only
// after every dispatched chunk has completed, which is the barrier between
// solver passes.
type workerPool struct {
	numWorkers int

	workChan chan workChunk // sends work to workers
	doneChan chan struct{}  // workers signal completion
	stopChan chan struct{}  // signals workers to exit
	wg       sync.WaitGroup // tracks active workers
	running  bool
}

func newWorkerPool(numWorkers int) *workerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.GOMAXPROCS(0)
	}
	return &workerPool{numWorkers: numWorkers}
}

// start launches the worker goroutines.
func (p *workerPool) start() {
	if p.running {
		return
	}

	p.workChan = make(chan workChunk, p.numWorkers)
	p.doneChan = make(chan struct{}, p.numWorkers)
	p.stopChan = make(chan struct{})
	p.running = true

	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

// stop signals all workers to exit and waits for them.
func (p *workerPool) stop() {
	if !p.running {
		return
	}

	close(p.stopChan)
	p.wg.Wait()
	close(p.workChan)
	close(p.doneChan)
	p.running = false
}

func (p *workerPool) worker() {
	defer p.wg.Done()

	for {
		select {
		case <-p.stopChan:
			return
		case chunk, ok := <-p.workChan:
			if !ok {
				return
			}
			chunk.job(chunk.index, chunk.start, chunk.end)
			p.doneChan <- struct{}{}
		}
	}
}

// run splits n items into at most numWorkers contiguous chunks, dispatches
// them and waits for all of them. It returns the number of chunks used.
// Inputs smaller than threshold run as a single chunk on the caller.
func (p *workerPool) run(n, threshold int, job chunkJob) int {
	if n == 0 {
		return 0
	}
	if n < threshold || p.numWorkers == 1 {
		job(0, 0, n)
		return 1
	}

	if !p.running {
		p.start()
	}

	chunkSize := (n + p.numWorkers - 1) / p.numWorkers

	chunksDispatched := 0
	for w := 0; w < p.numWorkers; w++ {
		start := w * chunkSize
		end := start + chunkSize
		if end > n {
			end = n
		}
		if start >= end {
			continue
		}

		p.workChan <- workChunk{index: chunksDispatched, start: start, end: end, job: job}
		chunksDispatched++
	}

	for i := 0; i < chunksDispatched; i++ {
		<-p.doneChan
	}
	return chunksDispatched
}
