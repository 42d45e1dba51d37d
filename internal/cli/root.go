// Package cli wires the cobra command tree: the bare command runs the TUI,
// subcommands edit the same stored list from the shell.
package cli

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dori/tickoff/internal/app"
	"github.com/dori/tickoff/internal/config"
	"github.com/dori/tickoff/internal/ui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Version is set at build time with -ldflags
var Version = "0.1.0"

type state struct {
	configFile string
	cfg        *config.Config
}

// NewRootCmd builds a fresh command tree
func NewRootCmd() *cobra.Command {
	s := &state{}

	rootCmd := &cobra.Command{
		Use:   "tickoff",
		Short: "A small task list for the terminal",
		Long: `tickoff keeps a single list of tasks. Add, edit, complete and delete
them in the TUI, or script the same list with the subcommands below.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return s.initConfig()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.runTUI()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&s.configFile, "config", "c", "", "config file (default is $XDG_CONFIG_HOME/tickoff/config.yaml)")

	rootCmd.AddCommand(
		newAddCmd(s),
		newListCmd(s),
		newToggleCmd(s),
		newEditCmd(s),
		newRmCmd(s),
		newClearCompletedCmd(s),
		newVersionCmd(),
	)

	return rootCmd
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}

func (s *state) initConfig() error {
	// Set defaults first so they're available even without a config file
	config.SetDefaults()

	if s.configFile != "" {
		viper.SetConfigFile(s.configFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(config.ConfigDir())
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("TICKOFF")
	// e.g. TICKOFF_STORAGE_PATH for storage.path
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		// A missing default config file is fine; an explicit one must exist
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || s.configFile != "" {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	s.cfg = cfg
	return nil
}

func (s *state) openApp() (*app.App, error) {
	return app.New(s.cfg)
}

func (s *state) runTUI() error {
	application, err := s.openApp()
	if err != nil {
		return err
	}
	defer application.Close()

	p := tea.NewProgram(
		ui.NewRootModel(application),
		tea.WithAltScreen(),
	)

	_, err = p.Run()
	return err
}
