package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/amala-code/new-admin-backend/internal/photo"
	"github.com/amala-code/new-admin-backend/pkg/logger"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Start worker pools",
	Long:  `Start and manage background worker pools, like the image conversion pool.`,
}

var photoWorkerCmd = &cobra.Command{
	Use:   "photos",
	Short: "Start the image conversion worker pool",
	Run: func(cmd *cobra.Command, args []string) {
		startPhotoWorker()
	},
}

var (
	maxWorkers   int
	jobQueueSize int
)

func startPhotoWorker() {
	config, err := loadConfig(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(os.Getenv("APP_ENV"))
	lg := logger.LoggerWrapper()

	converterConfig := photo.ConverterConfig{
		OutputDir:    config.Uploads.ImageDir,
		MaxWorkers:   getIntFlag(maxWorkers, config.Uploads.MaxWorkers),
		JobQueueSize: getIntFlag(jobQueueSize, config.Uploads.JobQueueSize),
	}

	lg.Info("starting image conversion worker",
		"output_dir", converterConfig.OutputDir,
		"max_workers", converterConfig.MaxWorkers,
		"job_queue_size", converterConfig.JobQueueSize)

	converter := photo.NewConverter(converterConfig, lg)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	lg.Info("image conversion worker is running. Press Ctrl+C to stop.")

	sig := <-sigChan
	lg.Info("received signal, shutting down image conversion worker", "signal", sig)

	converter.Shutdown()
}

func getIntFlag(flagValue, configValue int) int {
	if flagValue > 0 {
		return flagValue
	}
	return configValue
}

func init() {
	photoWorkerCmd.Flags().IntVar(&maxWorkers, "max-workers", 0, "Maximum number of workers (overrides config)")
	photoWorkerCmd.Flags().IntVar(&jobQueueSize, "job-queue-size", 0, "Job queue buffer size (overrides config)")

	workerCmd.AddCommand(photoWorkerCmd)

	rootCmd.AddCommand(workerCmd)
}
