package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"paneldeck/internal/config"
	"paneldeck/internal/engine"
	"paneldeck/internal/logging"
	"paneldeck/internal/storage"
)

// headlessApp is the engine over persisted state, without the UI. Engine
// notices go to the command's stdout, so refusals ("layout is locked") and
// confirmations ("layout reset to default") read as the command's output.
type headlessApp struct {
	cfg config.Config
	eng *engine.Engine

	gateway storage.Gateway
	logger  *zap.Logger
}

func openHeadless(cmd *cobra.Command) (*headlessApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(cfg.Log.Path, cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	gateway, err := openGateway(cfg, logger)
	if err != nil {
		_ = logger.Sync()
		return nil, err
	}
	eng, err := engine.New(engine.Options{
		Columns:      cfg.Layout.Columns,
		HistoryLimit: cfg.Layout.HistoryLimit,
		Widgets:      registrations(cfg),
		Gateway:      gateway,
		Notifier: engine.NotifierFunc(func(text string) {
			fmt.Fprintln(cmd.OutOrStdout(), text)
		}),
		Logger: logger,
	})
	if err != nil {
		_ = gateway.Close()
		_ = logger.Sync()
		return nil, err
	}
	return &headlessApp{cfg: cfg, eng: eng, gateway: gateway, logger: logger}, nil
}

// Close flushes pending writes before the process exits.
func (a *headlessApp) Close() {
	_ = a.eng.Close()
	_ = a.gateway.Close()
	_ = a.logger.Sync()
}

func openGateway(cfg config.Config, logger *zap.Logger) (storage.Gateway, error) {
	if cfg.Storage.Path == "" {
		logger.Info("no storage path configured, state is session-only")
		return storage.NewMemory(), nil
	}
	gw, err := storage.Open(cfg.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	return gw, nil
}

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the persisted layout and preset state",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openHeadless(cmd)
			if err != nil {
				return err
			}
			defer app.Close()

			titles := make(map[string]string, len(app.cfg.Panels))
			for _, p := range app.cfg.Panels {
				titles[p.ID] = p.Title
			}

			out := cmd.OutOrStdout()
			for col := 0; col < app.eng.Columns(); col++ {
				fmt.Fprintf(out, "column %d:\n", col)
				ids := app.eng.ColumnWidgets(col)
				if len(ids) == 0 {
					fmt.Fprintln(out, "  (empty)")
					continue
				}
				for i, id := range ids {
					title := titles[id]
					if title == "" || title == id {
						fmt.Fprintf(out, "  %d. %s\n", i+1, id)
					} else {
						fmt.Fprintf(out, "  %d. %s (%s)\n", i+1, title, id)
					}
				}
			}
			if names := app.eng.PresetNames(); len(names) > 0 {
				fmt.Fprintf(out, "presets: %s\n", strings.Join(names, ", "))
			}
			if name, ok := app.eng.ActivePreset(); ok {
				fmt.Fprintf(out, "active preset: %s\n", name)
			}
			if app.eng.Locked() {
				fmt.Fprintln(out, "layout is locked")
			}
			return nil
		},
	}
}

func newExportCmd() *cobra.Command {
	var outPath string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write all presets as a JSON document",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openHeadless(cmd)
			if err != nil {
				return err
			}
			defer app.Close()

			data, err := app.eng.ExportPresets()
			if err != nil {
				return err
			}
			if outPath == "" {
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return nil
			}
			if err := os.WriteFile(outPath, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", outPath, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exported %d presets to %s\n",
				len(app.eng.PresetNames()), outPath)
			return nil
		},
	}
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "write to a file instead of stdout")
	return cmd
}

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Merge presets from an exported JSON document",
		Long: `Merge presets from a document produced by "paneldeck export". Pass "-"
to read from stdin. Entries that do not survive sanitizing against the
configured column count are rejected individually; the rest import.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				data []byte
				err  error
			)
			if args[0] == "-" {
				data, err = io.ReadAll(cmd.InOrStdin())
			} else {
				data, err = os.ReadFile(args[0])
			}
			if err != nil {
				return err
			}

			app, err := openHeadless(cmd)
			if err != nil {
				return err
			}
			defer app.Close()

			app.eng.ImportPresets(data)
			return nil
		},
	}
}

func newResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Restore the default arrangement",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openHeadless(cmd)
			if err != nil {
				return err
			}
			defer app.Close()

			app.eng.ResetToDefault()
			return nil
		},
	}
}

func newLockCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lock",
		Short: "Freeze the arrangement",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openHeadless(cmd)
			if err != nil {
				return err
			}
			defer app.Close()

			app.eng.Lock()
			return nil
		},
	}
}

func newUnlockCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unlock",
		Short: "Make the arrangement editable again",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openHeadless(cmd)
			if err != nil {
				return err
			}
			defer app.Close()

			app.eng.Unlock()
			return nil
		},
	}
}
