package photo

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	_ "image/gif"
	_ "image/png"

	"github.com/google/uuid"
)

const jpegQuality = 85

// ConvertJob is one uploaded image waiting for re-encoding. Result is
// buffered so a worker never blocks on a caller that gave up.
type ConvertJob struct {
	Filename string
	Data     []byte
	Result   chan ConvertResult
}

type ConvertResult struct {
	Filename   string
	OutputName string
	Err        error
}

type Worker struct {
	ID         int
	WorkerPool chan chan ConvertJob
	JobChannel chan ConvertJob
	Logger     *slog.Logger
}

func NewWorker(id int, workerPool chan chan ConvertJob, logger *slog.Logger) *Worker {
	return &Worker{
		ID:         id,
		WorkerPool: workerPool,
		JobChannel: make(chan ConvertJob),
		Logger:     logger,
	}
}

func (w *Worker) Start(ctx context.Context, wg *sync.WaitGroup, processFunc func(ConvertJob)) {
	wg.Add(1)
	go func() {
		defer wg.Done()

		for {
			w.WorkerPool <- w.JobChannel

			select {
			case job := <-w.JobChannel:
				w.Logger.Debug("worker processing image", "worker_id", w.ID, "filename", job.Filename)
				processFunc(job)
			case <-ctx.Done():
				w.Logger.Debug("worker shutting down", "worker_id", w.ID)
				return
			}
		}
	}()
}

// Converter runs a fixed pool of workers that decode uploaded images and
// re-encode them as JPEG into the public image directory.
type Converter struct {
	outputDir string
	logger    *slog.Logger

	jobQueue   chan ConvertJob
	workerPool chan chan ConvertJob
	maxWorkers int
	ctx        context.Context
	cancel     context.CancelFunc
	wg         sync.WaitGroup
	once       sync.Once
}

type ConverterConfig struct {
	OutputDir    string
	MaxWorkers   int
	JobQueueSize int
}

func NewConverter(config ConverterConfig, logger *slog.Logger) *Converter {
	ctx, cancel := context.WithCancel(context.Background())

	maxWorkers := config.MaxWorkers
	if maxWorkers <= 0 {
		maxWorkers = 4
	}
	jobQueueSize := config.JobQueueSize
	if jobQueueSize <= 0 {
		jobQueueSize = 100
	}

	c := &Converter{
		outputDir:  config.OutputDir,
		logger:     logger,
		maxWorkers: maxWorkers,
		jobQueue:   make(chan ConvertJob, jobQueueSize),
		workerPool: make(chan chan ConvertJob, maxWorkers),
		ctx:        ctx,
		cancel:     cancel,
	}

	c.startWorkerPool()

	return c
}

func (c *Converter) startWorkerPool() {
	c.once.Do(func() {
		for i := 0; i < c.maxWorkers; i++ {
			worker := NewWorker(i, c.workerPool, c.logger)
			worker.Start(c.ctx, &c.wg, c.processJob)
		}

		c.wg.Add(1)
		go c.dispatch()

		c.logger.Info("image converter pool started",
			"max_workers", c.maxWorkers,
			"queue_size", cap(c.jobQueue))
	})
}

func (c *Converter) dispatch() {
	defer c.wg.Done()

	for {
		select {
		case job := <-c.jobQueue:
			select {
			case jobChannel := <-c.workerPool:
				select {
				case jobChannel <- job:
				case <-c.ctx.Done():
					return
				}
			case <-c.ctx.Done():
				return
			}
		case <-c.ctx.Done():
			return
		}
	}
}

// Enqueue queues an image for conversion and returns the channel its result
// arrives on. A full queue is reported to the caller instead of blocking the
// upload request.
func (c *Converter) Enqueue(filename string, data []byte) (chan ConvertResult, error) {
	job := ConvertJob{
		Filename: filename,
		Data:     data,
		Result:   make(chan ConvertResult, 1),
	}

	select {
	case c.jobQueue <- job:
		return job.Result, nil
	default:
		c.logger.Warn("image conversion queue full", "filename", filename, "queue_capacity", cap(c.jobQueue))
		return nil, fmt.Errorf("conversion queue full, try again later")
	}
}

func (c *Converter) Shutdown() {
	c.logger.Info("shutting down image converter")
	c.cancel()
	c.wg.Wait()
	c.logger.Info("image converter shutdown complete")
}

func (c *Converter) processJob(job ConvertJob) {
	outputName, err := c.convert(job.Filename, job.Data)
	if err != nil {
		c.logger.Error("image conversion failed", "filename", job.Filename, "error", err)
	}
	job.Result <- ConvertResult{
		Filename:   job.Filename,
		OutputName: outputName,
		Err:        err,
	}
}

func (c *Converter) convert(filename string, data []byte) (string, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("decode %s: %w", filename, err)
	}

	if err := os.MkdirAll(c.outputDir, 0o755); err != nil {
		return "", err
	}

	outputName := uuid.NewString() + ".jpg"
	dst := filepath.Join(c.outputDir, outputName)

	f, err := os.Create(dst)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if err := jpeg.Encode(f, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		os.Remove(dst)
		return "", fmt.Errorf("encode %s: %w", filename, err)
	}

	c.logger.Debug("image converted", "filename", filename, "format", format, "output", outputName)
	return outputName, nil
}
