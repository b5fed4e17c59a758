package main

// go build -buildvcs=false -o codedeck .

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Version of the playground.
// Версия песочницы.
const Version = "1.0.0"

// services bundles the collaborators built from the configuration.
type services struct {
	cfg        Config
	logger     *zap.Logger
	fs         afero.Fs
	store      *Store
	exporter   *Exporter
	client     *PistonClient
	browser    Browser
	dispatcher *Dispatcher
	statsClose io.Closer
}

func newServices(v *viper.Viper, fs afero.Fs, browser Browser) (*services, error) {
	if err := readConfigFile(v); err != nil {
		return nil, err
	}
	cfg, err := LoadConfig(v)
	if err != nil {
		return nil, err
	}
	logger, err := newLogger(cfg.LogFile, cfg.Verbose)
	if err != nil {
		return nil, err
	}
	client := NewPistonClient(cfg.Endpoint, cfg.Timeout, logger)
	stats, statsClose := newStatsScope(logger)
	return &services{
		cfg:        cfg,
		logger:     logger,
		fs:         fs,
		store:      NewStore(fs, cfg.WorkspacePath, logger),
		exporter:   NewExporter(fs, cfg.ExportDir, logger),
		client:     client,
		browser:    browser,
		dispatcher: NewDispatcher(client, browser, stats, logger),
		statsClose: statsClose,
	}, nil
}

func (s *services) Close() {
	s.client.Close()
	if err := s.statsClose.Close(); err != nil {
		s.logger.Warn("stats close", zap.Error(err))
	}
	_ = s.logger.Sync()
}

// newRootCmd builds the command tree. The root command starts the UI.
func newRootCmd(fs afero.Fs, browser Browser) *cobra.Command {
	v := newViper()
	lang := detectSystemLanguage()

	root := &cobra.Command{
		Use:           appName,
		Short:         "Multi-language code playground in the terminal",
		Long:          usageLong(lang),
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := newServices(v, fs, browser)
			if err != nil {
				return err
			}
			defer svc.Close()
			return runUI(svc)
		},
	}

	flags := root.PersistentFlags()
	flags.String(keyConfig, "", "config file (default "+configDir()+"/config.yaml)")
	flags.String(keyEndpoint, DefaultEndpoint, "code execution endpoint")
	flags.Duration(keyTimeout, DefaultTimeout, "execution request timeout")
	flags.String(keyWorkspace, "", "workspace file")
	flags.String(keyExportDir, ".", "directory for saved files")
	flags.String(keyPreviewAddr, "127.0.0.1:0", "live preview listen address, empty to disable")
	flags.String(keyLogFile, "", "log file, empty for the default location")
	flags.BoolP(keyVerbose, "v", false, "debug logging")
	// flags left unset keep the viper defaults
	_ = v.BindPFlags(flags)

	root.AddCommand(
		newRunCmd(v, fs, browser),
		newResetCmd(v, fs, browser),
		newExportCmd(v, fs, browser),
		newLanguagesCmd(),
		newVersionCmd(),
	)
	return root
}

func runUI(svc *services) error {
	var preview *PreviewServer
	if svc.cfg.PreviewAddr != "" {
		preview = NewPreviewServer(svc.logger)
		if err := preview.Start(svc.cfg.PreviewAddr); err != nil {
			svc.logger.Warn("live preview disabled", zap.Error(err))
			preview = nil
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
				defer cancel()
				if err := preview.Shutdown(ctx); err != nil {
					svc.logger.Warn("preview shutdown", zap.Error(err))
				}
			}()
		}
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	app := NewApp(screen, AppDeps{
		Store:      svc.store,
		Exporter:   svc.exporter,
		Dispatcher: svc.dispatcher,
		Browser:    svc.browser,
		Preview:    preview,
		Logger:     svc.logger,
	})
	return app.Run()
}

func newRunCmd(v *viper.Viper, fs afero.Fs, browser Browser) *cobra.Command {
	var langFlag string
	cmd := &cobra.Command{
		Use:   "run FILE",
		Short: "Run or preview a file without the UI",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newServices(v, fs, browser)
			if err != nil {
				return err
			}
			defer svc.Close()
			return runFile(cmd.Context(), svc, cmd.OutOrStdout(), args[0], langFlag)
		},
	}
	cmd.Flags().StringVarP(&langFlag, "lang", "l", "", "language, detected from the extension when empty")
	return cmd
}

func runFile(ctx context.Context, svc *services, out io.Writer, path, langName string) error {
	var lang Language
	if langName != "" {
		l, err := ParseLanguage(langName)
		if err != nil {
			return err
		}
		lang = l
	} else {
		lang = DetectLanguage(path)
		if lang == LangUnknown {
			return fmt.Errorf("%w: cannot detect language of %s", ErrUnknownLanguage, path)
		}
	}
	data, err := afero.ReadFile(svc.fs, path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if ctx == nil {
		ctx = context.Background()
	}
	res, err := svc.dispatcher.Dispatch(ctx, lang, string(data))
	if err != nil {
		return fmt.Errorf("%s: %w", Message(err), err)
	}
	if res.Kind == OutcomePreview {
		_, err = fmt.Fprintln(out, "Preview opened in browser")
		return err
	}
	_, err = fmt.Fprintln(out, res.Output)
	return err
}

func newResetCmd(v *viper.Viper, fs afero.Fs, browser Browser) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Forget the saved workspace",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := newServices(v, fs, browser)
			if err != nil {
				return err
			}
			defer svc.Close()
			if _, err := svc.store.Reset(); err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), "Workspace reset:", svc.store.Path())
			return err
		},
	}
}

func newExportCmd(v *viper.Viper, fs afero.Fs, browser Browser) *cobra.Command {
	return &cobra.Command{
		Use:   "export [DIR]",
		Short: "Save the workspace file into DIR",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newServices(v, fs, browser)
			if err != nil {
				return err
			}
			defer svc.Close()
			exporter := svc.exporter
			if len(args) == 1 {
				exporter = NewExporter(fs, args[0], svc.logger)
			}
			ws := svc.store.Load()
			path, err := exporter.Export(ws.ActiveFile())
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), path)
			return err
		},
	}
}

func newLanguagesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "languages",
		Short: "List supported languages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			var err error
			for _, l := range Languages() {
				t, _ := LookupTemplate(l)
				_, werr := fmt.Fprintf(out, "%-12s %-12s %-10s %s\n", l, t.Name, t.FileName(), t.Strategy)
				err = multierr.Append(err, werr)
			}
			return err
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show program version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), appName, Version)
		},
	}
}

// main is the entry point of the program.
// main является точкой входа в программу.
func main() {
	if err := newRootCmd(afero.NewOsFs(), newSystemBrowser()).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
