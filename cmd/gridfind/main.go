package main

import (
	"fmt"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/altinukshini/gridfind/internal/config"
	"github.com/altinukshini/gridfind/internal/store"
	"github.com/altinukshini/gridfind/internal/tui"
)

var version = "dev"

func init() {
	if version != "dev" {
		return
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		version = info.Main.Version
	}
}

// flags override whatever GRIDFIND_* and .env provide.
type flags struct {
	backend       string
	path          string
	spreadsheetID string
	credentials   string
	page          string
	region        string
	accumulate    bool
}

var (
	globals  flags
	cfg      config.Config
	closeLog = func() {}
)

func main() {
	root := newRootCmd()
	err := root.Execute()
	closeLog()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "gridfind [QUERY]",
		Short: "Find every cell equal to a number in a spreadsheet region",
		Long: `Search a rectangular region of a workbook page for cells equal to a number
and list each hit as a row in a scrollable panel. The rows can be exported to a
new "Results <date>" page of the same workbook.

Backends: sqlite (default), xlsx, sheets, memory.`,
		Version:       version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			closeLog, err = setupEnvironment(cmd.Name() == "gridfind")
			if err != nil {
				return err
			}
			cfg = loadConfig(cmd)
			return cfg.Validate()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			book, err := store.Open(cmd.Context(), cfg.StoreOptions())
			if err != nil {
				return fmt.Errorf("open %s store: %w", cfg.Backend, err)
			}
			defer book.Close()

			app, err := tui.NewApp(cfg, book)
			if err != nil {
				return err
			}
			if len(args) == 1 {
				app = app.WithQuery(args[0])
			}
			log.Info().Str("backend", cfg.Backend).Str("target", cfg.Target()).Msg("Starting panel")

			p := tea.NewProgram(app, tea.WithAltScreen())
			_, err = p.Run()
			return err
		},
	}
	root.SetVersionTemplate("gridfind {{.Version}}\n")

	pf := root.PersistentFlags()
	pf.StringVarP(&globals.backend, "backend", "b", "", "Store backend (sqlite, xlsx, sheets, memory)")
	pf.StringVar(&globals.path, "path", "", "Store file for the sqlite and xlsx backends")
	pf.StringVar(&globals.spreadsheetID, "spreadsheet-id", "", "Google Sheets spreadsheet id")
	pf.StringVar(&globals.credentials, "credentials", "", "Google service account credentials file")
	pf.StringVarP(&globals.page, "page", "p", "", "Page holding the data")
	pf.StringVarP(&globals.region, "region", "r", "", "Region to search, header row first (e.g. B2:Z350)")
	pf.BoolVar(&globals.accumulate, "accumulate", false, "Keep earlier results when searching again")

	root.AddCommand(newFindCmd())
	root.AddCommand(newExportCmd())
	root.AddCommand(newImportCmd())
	return root
}

func loadConfig(cmd *cobra.Command) config.Config {
	c := config.FromEnv()
	f := cmd.Flags()
	if f.Changed("backend") {
		c.Backend = globals.backend
	}
	if f.Changed("path") {
		c.Path = globals.path
	}
	if f.Changed("spreadsheet-id") {
		c.SpreadsheetID = globals.spreadsheetID
	}
	if f.Changed("credentials") {
		c.CredentialsFile = globals.credentials
	}
	if f.Changed("page") {
		c.Page = globals.page
	}
	if f.Changed("region") {
		c.Region = globals.region
	}
	if f.Changed("accumulate") {
		c.Accumulate = globals.accumulate
	}
	return c
}
