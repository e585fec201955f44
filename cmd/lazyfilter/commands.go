package main

import (
	"bufio"
	"fmt"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/rebeliceyang/lazyfilter/internal/app"
	"github.com/rebeliceyang/lazyfilter/internal/db/connection"
	"github.com/rebeliceyang/lazyfilter/internal/export"
	"github.com/rebeliceyang/lazyfilter/internal/history"
	"github.com/rebeliceyang/lazyfilter/internal/models"
	"github.com/rebeliceyang/lazyfilter/internal/server"
	"github.com/rebeliceyang/lazyfilter/internal/service"
	"github.com/rebeliceyang/lazyfilter/internal/ui/highlight"
	"github.com/rebeliceyang/lazyfilter/internal/ui/theme"
	"github.com/spf13/cobra"
)

var (
	outputFormat string
	outputPath   string
	historyLimit int
	historyClear bool
	historyText  string
	noColor      bool
)

var explainCmd = &cobra.Command{
	Use:   "explain <table> [query]",
	Short: "Print the SQL a filter compiles to without running it",
	Example: `  lazyfilter explain users 'age=gt_30&name=lk_*jo*'
  lazyfilter explain orders 'total=10_bt_20|null&order=id&sort=asc'`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv()
		if err != nil {
			return err
		}
		defer e.close()

		table := args[0]
		// Declared tables compile without a database
		if _, ok := e.declared[table]; !ok {
			if err := e.connect(cmd.Context()); err != nil {
				return err
			}
		}

		req, page, err := service.ParseQuery(queryArg(args))
		if err != nil {
			return err
		}
		prepared, err := e.service().Prepare(cmd.Context(), table, req, page)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		styleName := theme.GetTheme(e.cfg.UI.Theme).SyntaxStyle
		for _, sql := range []string{prepared.Statement.SQL, prepared.Statement.CountSQL} {
			if noColor {
				fmt.Fprintln(out, sql)
			} else {
				fmt.Fprintln(out, highlight.SQL(sql, styleName))
			}
		}
		for i, arg := range prepared.Statement.Args {
			fmt.Fprintf(out, "  arg %d: %v (%T)\n", i+1, arg, arg)
		}
		return nil
	},
}

var queryCmd = &cobra.Command{
	Use:   "query <table> [query]",
	Short: "Run a filter and print the matching rows",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := export.ParseFormat(outputFormat)
		if err != nil {
			return err
		}
		// --output picks the format from the file extension unless --format is given
		if outputPath != "" && !cmd.Flags().Changed("format") {
			format = formatForPath(outputPath)
		}

		e, err := loadEnv()
		if err != nil {
			return err
		}
		defer e.close()
		if err := e.connect(cmd.Context()); err != nil {
			return err
		}
		e.openHistory()

		req, page, err := service.ParseQuery(queryArg(args))
		if err != nil {
			return err
		}
		result, err := e.service().Run(cmd.Context(), args[0], req, page)
		if err != nil {
			return err
		}
		if outputPath != "" {
			if err := exportFile(result, format, outputPath); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d of %d rows to %s\n", len(result.Rows), result.Total, outputPath)
			return nil
		}
		return export.Write(cmd.OutOrStdout(), result, format)
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve filtered table queries over HTTP",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv()
		if err != nil {
			return err
		}
		defer e.close()
		if err := e.connect(cmd.Context()); err != nil {
			return err
		}
		e.openHistory()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		router := server.NewRouter(e.service(), e.log)
		return server.Run(ctx, e.cfg.Server, router, e.log)
	},
}

var consoleCmd = &cobra.Command{
	Use:   "console <table> [query]",
	Short: "Open an interactive filter console for a table",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv()
		if err != nil {
			return err
		}
		defer e.close()
		if err := e.connect(cmd.Context()); err != nil {
			return err
		}
		e.openHistory()

		return app.Run(app.New(e.cfg, e.service(), args[0], queryArg(args)))
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recently run filters",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv()
		if err != nil {
			return err
		}
		defer e.close()

		store, err := history.NewStore(e.cfg.History.Path)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()

		if historyClear {
			return store.Clear()
		}

		var entries []history.Entry
		if historyText != "" {
			entries, err = store.Search(historyText, historyLimit)
		} else {
			entries, err = store.GetRecent(historyLimit)
		}
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, h := range entries {
			status := "ok"
			if !h.Success {
				status = "error: " + h.ErrorMessage
			}
			fmt.Fprintf(out, "%s  %-16s %s  [%d rows, %s] %s\n",
				h.ExecutedAt.Format("2006-01-02 15:04:05"), h.Table, h.Filter, h.TotalRows, h.Duration, status)
		}
		return nil
	},
}

var passwordCmd = &cobra.Command{
	Use:   "password",
	Short: "Manage the database password stored in the OS keyring",
}

var passwordSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Read a password from stdin and store it in the OS keyring",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Password for %s: ", e.cfg.Database.KeyringUser())
		line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil && line == "" {
			return err
		}
		return connection.SavePassword(e.cfg.Database, strings.TrimRight(line, "\r\n"))
	},
}

var passwordDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Remove the stored password from the OS keyring",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv()
		if err != nil {
			return err
		}
		return connection.DeletePassword(e.cfg.Database)
	},
}

func init() {
	queryCmd.Flags().StringVarP(&outputFormat, "format", "f", "table", "output format: table, csv or json")
	queryCmd.Flags().StringVarP(&outputPath, "output", "o", "", "write rows to a CSV or JSON file instead of stdout")
	explainCmd.Flags().BoolVar(&noColor, "no-color", false, "print SQL without syntax highlighting")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "number of entries to show")
	historyCmd.Flags().StringVarP(&historyText, "search", "s", "", "only show entries whose table or filter contains text")
	historyCmd.Flags().BoolVar(&historyClear, "clear", false, "delete all history entries")
	passwordCmd.AddCommand(passwordSetCmd, passwordDeleteCmd)
}

func queryArg(args []string) string {
	if len(args) < 2 {
		return ""
	}
	return args[1]
}

func formatForPath(path string) export.Format {
	if filepath.Ext(path) == ".json" {
		return export.FormatJSON
	}
	return export.FormatCSV
}

func exportFile(result models.QueryResult, format export.Format, path string) error {
	switch format {
	case export.FormatCSV:
		return export.ExportToCSV(result, path)
	case export.FormatJSON:
		return export.ExportToJSON(result, path)
	default:
		return fmt.Errorf("format %q cannot be written to a file, use csv or json", format)
	}
}
