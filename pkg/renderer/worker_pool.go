package renderer

import (
	"image/color"
	"runtime"
	"sync"

	"github.com/df07/go-pathtracer/pkg/core"
)

// PixelTask represents a single pixel of the scanline in flight
type PixelTask struct {
	Row    int // Image row, 0 at the bottom
	Column int
}

// PixelResult contains the quantized color of a rendered pixel
type PixelResult struct {
	Column  int
	Color   color.RGBA
	Samples int
}

// WorkerPool manages parallel pixel rendering
type WorkerPool struct {
	taskQueue   chan PixelTask
	resultQueue chan PixelResult
	workers     []*Worker
	numWorkers  int
	wg          sync.WaitGroup
}

// Worker handles individual pixel rendering tasks
type Worker struct {
	ID          int
	raytracer   *Raytracer
	sampler     core.Sampler // Private stream used when the render is unseeded
	taskQueue   chan PixelTask
	resultQueue chan PixelResult
}

// NewWorkerPool creates a worker pool with the specified number of workers.
// Queues are sized to hold one full scanline.
func NewWorkerPool(raytracer *Raytracer, numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}

	width := raytracer.width
	wp := &WorkerPool{
		taskQueue:   make(chan PixelTask, width),
		resultQueue: make(chan PixelResult, width),
		numWorkers:  numWorkers,
	}

	for i := 0; i < numWorkers; i++ {
		worker := &Worker{
			ID:          i,
			raytracer:   raytracer,
			sampler:     core.NewEntropySampler(),
			taskQueue:   wp.taskQueue,
			resultQueue: wp.resultQueue,
		}
		wp.workers = append(wp.workers, worker)
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

// Stop gracefully shuts down all workers
func (wp *WorkerPool) Stop() {
	close(wp.taskQueue) // No more tasks
	wp.wg.Wait()        // Wait for workers to finish
	close(wp.resultQueue)
}

// SubmitTask submits a pixel task to the worker pool
func (wp *WorkerPool) SubmitTask(task PixelTask) {
	wp.taskQueue <- task
}

// GetResult retrieves a completed pixel result
func (wp *WorkerPool) GetResult() (PixelResult, bool) {
	result, ok := <-wp.resultQueue
	return result, ok
}

// GetNumWorkers returns the number of workers in the pool
func (wp *WorkerPool) GetNumWorkers() int {
	return wp.numWorkers
}

// RenderRow fans the columns of row j out to the workers and writes the
// results into dst in column order. dst must have one entry per column.
func (wp *WorkerPool) RenderRow(j int, dst []color.RGBA) int {
	for i := range dst {
		wp.SubmitTask(PixelTask{Row: j, Column: i})
	}

	samples := 0
	for range dst {
		result, _ := wp.GetResult()
		dst[result.Column] = result.Color
		samples += result.Samples
	}
	return samples
}

// run is the main worker loop
func (w *Worker) run(wg *sync.WaitGroup) {
	defer wg.Done()

	for task := range w.taskQueue {
		sampler := w.raytracer.pixelSampler(task.Column, task.Row)
		if sampler == nil {
			sampler = w.sampler
		}

		stats := w.raytracer.RenderPixel(task.Column, task.Row, sampler)

		w.resultQueue <- PixelResult{
			Column:  task.Column,
			Color:   stats.GetRGBA(),
			Samples: stats.SampleCount,
		}
	}
}
