package renderer

import (
	"runtime"
	"sync"

	"github.com/df07/go-pathtracer/pkg/core"
)

// RowTask represents one scanline to render
type RowTask struct {
	Row int // Image row, 0 is the top
}

// RowResult contains the accumulated colors of a rendered row
type RowResult struct {
	Row    int
	Pixels []core.Color // Per-pixel sums over all samples
	Stats  RenderStats
}

// WorkerPool manages parallel row rendering
type WorkerPool struct {
	taskQueue   chan RowTask
	resultQueue chan RowResult
	workers     []*Worker
	numWorkers  int
	wg          sync.WaitGroup
	cancel      chan struct{}
	cancelOnce  sync.Once
}

// Worker renders rows taken from the shared queue
type Worker struct {
	ID          int
	raytracer   *Raytracer
	taskQueue   chan RowTask
	resultQueue chan RowResult
	cancel      chan struct{}
}

// NewWorkerPool creates a pool of numWorkers workers (0 = CPU count) sized for a full image
func NewWorkerPool(raytracer *Raytracer, numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	height := raytracer.camera.Height()

	wp := &WorkerPool{
		taskQueue:   make(chan RowTask, height),   // Buffer for every row
		resultQueue: make(chan RowResult, height), // Buffer for every result
		numWorkers:  numWorkers,
		cancel:      make(chan struct{}),
	}

	for i := 0; i < numWorkers; i++ {
		wp.workers = append(wp.workers, &Worker{
			ID:          i,
			raytracer:   raytracer,
			taskQueue:   wp.taskQueue,
			resultQueue: wp.resultQueue,
			cancel:      wp.cancel,
		})
	}

	return wp
}

// Start begins all workers
func (wp *WorkerPool) Start() {
	for _, worker := range wp.workers {
		wp.wg.Add(1)
		go worker.run(&wp.wg)
	}
}

// Submit queues a row. Never blocks for up to image-height tasks.
func (wp *WorkerPool) Submit(task RowTask) {
	wp.taskQueue <- task
}

// Results returns the channel completed rows arrive on, in completion order
func (wp *WorkerPool) Results() <-chan RowResult {
	return wp.resultQueue
}

// Cancel makes workers skip every task not yet started
func (wp *WorkerPool) Cancel() {
	wp.cancelOnce.Do(func() { close(wp.cancel) })
}

// Stop closes the task queue, waits for workers to finish and closes Results
func (wp *WorkerPool) Stop() {
	close(wp.taskQueue)
	wp.wg.Wait()
	close(wp.resultQueue)
}

// NumWorkers returns the number of workers in the pool
func (wp *WorkerPool) NumWorkers() int {
	return wp.numWorkers
}

// run is the main worker loop
func (w *Worker) run(wg *sync.WaitGroup) {
	defer wg.Done()

	for task := range w.taskQueue {
		select {
		case <-w.cancel:
			continue
		default:
		}

		// Each row owns its random stream, so output does not depend on scheduling
		sampler := w.raytracer.RowSampler(task.Row)
		pixels, stats := w.raytracer.RenderRow(task.Row, sampler)

		w.resultQueue <- RowResult{Row: task.Row, Pixels: pixels, Stats: stats}
	}
}
