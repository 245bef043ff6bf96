package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/dbnav/dbnav/app"
	"github.com/dbnav/dbnav/config"
	"github.com/dbnav/dbnav/internal/version"
	"github.com/dbnav/dbnav/logger"
	"github.com/dbnav/dbnav/ui/theme"
)

var (
	configPath string
	debug      bool
)

var rootCmd = &cobra.Command{
	Use:     "dbnav",
	Short:   "Terminal browser for mysql, postgres and sqlite databases",
	Long: `dbnav browses the databases declared in its config file: navigate the
table tree, page through records, inspect column schemas, and hand the
terminal to pgcli, mycli or litecli for ad-hoc SQL.`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}

		// The UI owns the terminal, so the log goes to a file.
		if dir, derr := config.Dir(); derr == nil {
			_ = logger.SetFile(filepath.Join(dir, "dbnav.log"))
		}
		logger.SetDebug(debug)
		defer logger.Sync()

		theme.SetTheme(theme.GetThemeByName(cfg.UI.Theme))

		logger.Info("starting", map[string]any{"version": version.Version, "connections": len(cfg.Connections)})
		p := tea.NewProgram(app.New(cfg), tea.WithAltScreen())
		_, err = p.Run()
		return err
	},
}

func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "path to config file")
	rootCmd.Flags().BoolVar(&debug, "debug", false, "enable debug logging")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
