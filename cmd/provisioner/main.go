package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"project-provisioner/pkg/config"
	"project-provisioner/pkg/domain/workflow"
	"project-provisioner/pkg/infrastructure/gcp"
	"project-provisioner/pkg/infrastructure/orchestration/steps"
	"project-provisioner/pkg/infrastructure/persistence/checkpoint"
	"project-provisioner/pkg/logger"
)

// Build-time variables set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
)

var (
	configFile string
	scope      string
	stateFile  string
	storeKind  string
	region     string
	logLevel   string
	logFormat  string
)

var rootCmd = &cobra.Command{
	Use:     "provisioner",
	Short:   "Provision cloud projects through a resumable step sequence",
	Version: fmt.Sprintf("%s (%s)", Version, GitCommit),
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the provisioning sequence described by the configuration file",
	Long: `The run command executes the provisioning steps in order, skipping any
step already recorded as completed for the scope. Progress is persisted
after each successful step, so an interrupted run resumes where it left
off. The first failing step stops the run and the command exits non-zero.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cfg, err := config.Load(configFile)
		if err != nil {
			return fmt.Errorf("loading configuration: %w", err)
		}
		applyFlagOverrides(cfg, cmd)

		zlevel, slevel := logger.ParseLevel(logLevel)
		logger.SetLevel(zlevel)
		slogCfg := logger.DefaultSlogConfig()
		slogCfg.Level = slevel
		slogCfg.Format = logFormat
		log := logger.NewSlogLogger(slogCfg)

		clients, err := gcp.NewClients(ctx, cfg.DeployApp.Region)
		if err != nil {
			return fmt.Errorf("initializing cloud clients: %w", err)
		}

		store, closeStore, err := openStore(cfg)
		if err != nil {
			return fmt.Errorf("opening checkpoint store: %w", err)
		}
		defer closeStore()

		built, err := steps.Build(steps.Deps{
			Clients: clients,
			Config:  cfg,
			Logger:  log,
		}, steps.DefaultOrder())
		if err != nil {
			return fmt.Errorf("building steps: %w", err)
		}

		orch, err := workflow.NewOrchestrator(built, store, log)
		if err != nil {
			return fmt.Errorf("assembling workflow: %w", err)
		}

		logger.Infof("provisioning scope %q with %d steps", cfg.Scope, len(built))
		if err := orch.Run(ctx, cfg.Scope); err != nil {
			logger.Errorf("provisioning failed: %v", err)
			return err
		}
		logger.Info("provisioning complete")
		return nil
	},
}

var listAPIsCmd = &cobra.Command{
	Use:   "list-apis <project-id>",
	Short: "List the APIs currently enabled on a project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		clients, err := gcp.NewClients(ctx, region)
		if err != nil {
			return fmt.Errorf("initializing cloud clients: %w", err)
		}

		apis, err := clients.ListEnabledAPIs(ctx, args[0])
		if err != nil {
			return fmt.Errorf("listing enabled APIs: %w", err)
		}
		for _, api := range apis {
			fmt.Fprintln(cmd.OutOrStdout(), api)
		}
		return nil
	},
}

var stepsCmd = &cobra.Command{
	Use:   "steps",
	Short: "List the provisioning steps in execution order",
	Run: func(cmd *cobra.Command, args []string) {
		for _, name := range steps.DefaultOrder() {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
	},
}

// applyFlagOverrides lets command line flags win over the configuration
// file for the run-shaping settings.
func applyFlagOverrides(cfg *config.Config, cmd *cobra.Command) {
	if cmd.Flags().Changed("scope") {
		cfg.Scope = scope
	}
	if cmd.Flags().Changed("state-file") {
		cfg.StatePath = stateFile
	}
	if cmd.Flags().Changed("store") {
		cfg.Store = storeKind
	}
}

func openStore(cfg *config.Config) (checkpoint.Store, func(), error) {
	switch cfg.Store {
	case config.StoreBolt:
		store, err := checkpoint.NewBoltStore(cfg.StatePath)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { store.Close() }, nil
	default:
		store, err := checkpoint.NewFileStore(cfg.StatePath)
		if err != nil {
			return nil, nil, err
		}
		return store, func() {}, nil
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "Structured log format: text or json")

	runCmd.Flags().StringVarP(&configFile, "config", "c", "provisioner.yaml", "Path to the provisioning configuration file")
	runCmd.Flags().StringVar(&scope, "scope", "", "Scope keying the completion record (overrides the configuration file)")
	runCmd.Flags().StringVar(&stateFile, "state-file", "", "Path to the checkpoint state (overrides the configuration file)")
	runCmd.Flags().StringVar(&storeKind, "store", "", "Checkpoint backend: file or bolt (overrides the configuration file)")

	listAPIsCmd.Flags().StringVar(&region, "region", "us-east1", "Region used when building clients")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(listAPIsCmd)
	rootCmd.AddCommand(stepsCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
