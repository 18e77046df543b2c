package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/pedoman/internal/common"
)

// cli holds flags and the state resolved before any command runs
type cli struct {
	configFiles []string
	port        int
	host        string
	backendURL  string
	verbose     bool

	config *common.Config
	logger arbor.ILogger
}

func main() {
	common.InstallCrashHandler(common.LogsDir())
	defer common.RecoverWithCrashFile()

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:          "pedoman",
		Short:        "Web client for the Pedoman Skripsi RAG assistant",
		Long:         `Serves the browser UI for the thesis-guideline assistant and offers one-shot commands against the same backend.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringArrayVarP(&c.configFiles, "config", "c", nil, "Configuration file path (repeatable, later files override earlier ones)")
	flags.IntVarP(&c.port, "port", "p", 0, "Server port (overrides config)")
	flags.StringVar(&c.host, "host", "", "Server host (overrides config)")
	flags.StringVar(&c.backendURL, "backend", "", "Backend base URL (overrides config)")
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "Log at the configured level for one-shot commands")

	root.AddCommand(
		c.serveCmd(),
		c.askCmd(),
		c.documentsCmd(),
		c.uploadCmd(),
		c.healthCmd(),
		c.statsCmd(),
		versionCmd(),
	)

	return root
}

// setup resolves configuration in order: defaults -> files -> .env -> env -> flags, then the logger
func (c *cli) setup(cmd *cobra.Command) error {
	files := c.configFiles
	if len(files) == 0 {
		if _, err := os.Stat("pedoman.toml"); err == nil {
			files = append(files, "pedoman.toml")
		} else if _, err := os.Stat("deployments/local/pedoman.toml"); err == nil {
			files = append(files, "deployments/local/pedoman.toml")
		}
	}

	config, err := common.LoadFromFiles(files...)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	common.ApplyFlagOverrides(config, c.port, c.host, c.backendURL)
	if err := config.Validate(); err != nil {
		return err
	}

	// One-shot commands print results to stdout; keep routine logs out of the way
	if cmd.Name() != "serve" && cmd.Name() != "pedoman" && !c.verbose {
		config.Logging.Level = "error"
	}

	c.config = config
	c.logger = common.InitLogger(config)

	c.logger.Debug().
		Strs("config_files", files).
		Str("backend", config.Backend.BaseURL).
		Str("log_level", config.Logging.Level).
		Msg("Resolved configuration")

	return nil
}
