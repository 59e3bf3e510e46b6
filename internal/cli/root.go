// Package cli implements h2a, a command line client for the hate-2-action
// backend: CRUD on every entity, the message log and process-message.
package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/spf13/cobra"

	"github.com/gumanista/hate-2-action/config"
	"github.com/gumanista/hate-2-action/pkg/apiclient"
	"github.com/gumanista/hate-2-action/pkg/logging"
)

// App is the state shared by every subcommand. The client is built once the
// flags are parsed.
type App struct {
	out    io.Writer
	client *apiclient.Client
	logger ectologger.Logger
	format Format

	envFile string
	apiURL  string
	apiKey  string
	timeout time.Duration
	output  string
	verbose bool
}

// NewRootCommand builds the h2a command tree writing results to out.
func NewRootCommand(out io.Writer) *cobra.Command {
	app := &App{out: out}

	root := &cobra.Command{
		Use:           "h2a",
		Short:         "Command line client for the hate-2-action backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return app.init()
		},
	}
	root.SetOut(out)

	flags := root.PersistentFlags()
	flags.StringVar(&app.envFile, "env-file", ".env", "dotenv file to read before the environment")
	flags.StringVar(&app.apiURL, "api-url", "", "backend base URL (default $API_URL)")
	flags.StringVar(&app.apiKey, "api-key", "", "backend API key (default $API_KEY)")
	flags.DurationVar(&app.timeout, "timeout", 0, "backend request timeout (default $BACKEND_TIMEOUT)")
	flags.StringVarP(&app.output, "output", "o", string(FormatJSON), "output format: json or yaml")
	flags.BoolVarP(&app.verbose, "verbose", "v", false, "log backend calls to stderr")

	for _, cmd := range entityCommands(app) {
		root.AddCommand(cmd)
	}
	root.AddCommand(newMessagesCommand(app))
	root.AddCommand(newProcessMessageCommand(app))

	return root
}

func (a *App) init() error {
	format, err := ParseFormat(a.output)
	if err != nil {
		return err
	}
	a.format = format

	cfg, err := config.Read(a.envFile)
	if err != nil {
		return err
	}
	if a.apiURL != "" {
		cfg.APIURL = a.apiURL
	}
	if a.apiKey != "" {
		cfg.APIKey = a.apiKey
	}
	if a.timeout > 0 {
		cfg.BackendTimeout = a.timeout
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	a.logger = logging.Nop()
	if a.verbose {
		logger, _, err := logging.New("debug", true)
		if err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}
		a.logger = logger
	}

	a.client, err = apiclient.NewClient(apiclient.ConfigFrom(cfg), a.logger)
	return err
}

func (a *App) print(v any) error {
	return Print(a.out, a.format, v)
}

// Execute runs h2a with os.Args and returns the process exit code.
func Execute() int {
	root := NewRootCommand(os.Stdout)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error: "+errorMessage(err))
		return 1
	}
	return 0
}
