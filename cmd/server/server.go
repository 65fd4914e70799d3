package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	lambdakernel "github.com/vilterp/lambdakernel/pkg"
	clog "github.com/vilterp/lambdakernel/pkg/log"
	"go.uber.org/zap"
)

var (
	configFile string
	host       string
	port       int
	dataFile   string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "lambdakernel-server",
	Short: "Serve the lambda kernel over WebSocket",
	Long: `Serves normalization, equivalence and consistency requests at /ws,
keeping every proof in a bolt file. Prometheus metrics are at /metrics.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger, err := clog.NewLogger(verbose)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		clog.SetLogger(logger)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = clog.L().Sync()
	},
	RunE: runServer,
}

func init() {
	rootCmd.Flags().StringVar(&configFile, "config", "", "YAML config file")
	rootCmd.Flags().StringVar(&host, "host", "", "host to listen on (overrides config)")
	rootCmd.Flags().IntVar(&port, "port", 0, "port to listen on (overrides config)")
	rootCmd.Flags().StringVar(&dataFile, "data-file", "", "proof store file (overrides config)")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}

func loadConfig(cmd *cobra.Command) (*lambdakernel.Config, error) {
	config := lambdakernel.DefaultConfig()
	if configFile != "" {
		var err error
		if config, err = lambdakernel.LoadConfig(configFile); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("host") {
		config.Host = host
	}
	if cmd.Flags().Changed("port") {
		config.Port = port
	}
	if cmd.Flags().Changed("data-file") {
		config.DataFile = dataFile
	}
	return config, config.Validate()
}

func runServer(cmd *cobra.Command, args []string) error {
	config, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	server, err := lambdakernel.NewServer(config)
	if err != nil {
		return err
	}

	// graceful shutdown on Ctrl-C
	ctrlCChan := make(chan os.Signal, 1)
	signal.Notify(ctrlCChan, os.Interrupt, syscall.SIGTERM)
	closed := make(chan struct{})
	go func() {
		<-ctrlCChan
		if err := server.Close(); err != nil {
			clog.L().Error("error closing", zap.Error(err))
		}
		close(closed)
	}()

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		return fmt.Errorf("error listening: %w", err)
	}
	<-closed
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
