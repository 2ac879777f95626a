package mimer

import (
	"embed"
	"fmt"
	"io"

	"github.com/arthur-debert/mimer/internal/version"
	"github.com/arthur-debert/mimer/pkg/cobrax/topics"
	"github.com/arthur-debert/mimer/pkg/config"
	"github.com/arthur-debert/mimer/pkg/core"
	"github.com/arthur-debert/mimer/pkg/desktop"
	"github.com/arthur-debert/mimer/pkg/errors"
	"github.com/arthur-debert/mimer/pkg/filesystem"
	"github.com/arthur-debert/mimer/pkg/logging"
	"github.com/arthur-debert/mimer/pkg/paths"
	"github.com/arthur-debert/mimer/pkg/types"
	"github.com/arthur-debert/mimer/pkg/ui"
	"github.com/arthur-debert/mimer/pkg/ui/styles"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

//go:embed topics/*.md
var helpTopics embed.FS

// options is the state shared by the commands of one invocation. Config
// and paths are loaded on first use so help and completion never fail on
// a broken config file.
type options struct {
	verbosity  int
	format     string
	configFile string
	locale     string
	desktops   []string

	env   paths.Env
	cfg   *config.Config
	dirs  paths.Dirs
	paths paths.Paths
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	initTemplateFormatting()

	opts := &options{env: paths.OSEnv()}

	rootCmd := &cobra.Command{
		Use:     "mimer",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(opts.verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return errors.New(errors.ErrInvalidInput, "no command specified")
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
		CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
	}

	rootCmd.PersistentFlags().CountVarP(&opts.verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().StringVarP(&opts.format, "format", "f", "", MsgFlagFormat)
	rootCmd.PersistentFlags().StringVar(&opts.configFile, "config", "", MsgFlagConfig)
	rootCmd.PersistentFlags().StringVar(&opts.locale, "locale", "", MsgFlagLocale)
	rootCmd.PersistentFlags().StringSliceVar(&opts.desktops, "desktop", nil, MsgFlagDesktop)
	_ = rootCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return ui.Formats, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddGroup(&cobra.Group{ID: "query", Title: "QUERY:"})
	rootCmd.AddGroup(&cobra.Group{ID: "edit", Title: "EDIT:"})
	rootCmd.AddGroup(&cobra.Group{ID: "misc", Title: "MISC:"})

	rootCmd.SetUsageTemplate(MsgUsageTemplate)

	rootCmd.AddCommand(newListCmd(opts))
	rootCmd.AddCommand(newShowCmd(opts))
	rootCmd.AddCommand(newAppCmd(opts))
	rootCmd.AddCommand(newDoctorCmd(opts))
	rootCmd.AddCommand(newSetDefaultCmd(opts))
	rootCmd.AddCommand(newAddCmd(opts))
	rootCmd.AddCommand(newRemoveCmd(opts))
	rootCmd.AddCommand(newResetCmd(opts))
	rootCmd.AddCommand(newWatchCmd(opts))
	rootCmd.AddCommand(newPathsCmd(opts))
	rootCmd.AddCommand(newConfigCmd(opts))
	rootCmd.AddCommand(newVersionCmd(opts))
	rootCmd.AddCommand(newCompletionCmd())
	rootCmd.AddCommand(newManCmd())

	topicOpts := topics.Options{
		Extensions: []string{".md"},
		Renderer:   topics.NewGlamourRenderer(),
	}
	if err := topics.InitializeWithOptions(rootCmd, helpTopics, "topics", topicOpts); err != nil {
		log.Warn().Err(err).Msg("Help topics unavailable")
	}
	rootCmd.SetHelpCommandGroupID("misc")

	return rootCmd
}

// load reads the config file and resolves the XDG directories once
func (o *options) load() error {
	if o.cfg != nil {
		return nil
	}
	o.dirs = paths.FromXDG()
	cfg, err := config.LoadWithOverrides(o.configPath(), o.overrides())
	if err != nil {
		return err
	}
	if cfg.Output.Styles != "" {
		if err := styles.LoadStyles(cfg.Output.Styles); err != nil {
			return err
		}
	}
	o.cfg = cfg
	o.paths = paths.New(o.dirs, cfg.DesktopNames(o.env))
	log.Debug().
		Str("config", cfg.Source).
		Strs("layers", o.paths.LayerPath()).
		Msg("Configuration loaded")
	return nil
}

// overrides turns the flags that shadow config keys into koanf keys
func (o *options) overrides() map[string]interface{} {
	out := make(map[string]interface{})
	if o.locale != "" {
		out["locale"] = o.locale
	}
	if len(o.desktops) > 0 {
		out["desktop_specific"] = true
		out["desktops"] = o.desktops
	}
	return out
}

func (o *options) configPath() string {
	if o.configFile != "" {
		return o.configFile
	}
	return config.DefaultPath(o.dirs)
}

func (o *options) displayLocale() desktop.Locale {
	if o.cfg.Locale != "" {
		return desktop.ParseLocale(o.cfg.Locale)
	}
	return desktop.LocaleFromEnv(o.env.Getenv)
}

// session opens a session over the real filesystem. Unless quiet, read
// problems are summarized on stderr.
func (o *options) session(cmd *cobra.Command, quiet bool) (*core.Session, error) {
	if err := o.load(); err != nil {
		return nil, err
	}
	s, err := core.Open(cmd.Context(), core.Options{
		FS:        filesystem.NewOS(),
		Paths:     o.paths,
		Locale:    o.displayLocale(),
		Workers:   o.cfg.Scan.Workers,
		CacheSize: o.cfg.Scan.CacheSize,
	})
	if err != nil {
		return nil, err
	}
	if !quiet {
		reportDiagnostics(cmd.ErrOrStderr(), s.Diagnostics())
	}
	return s, nil
}

// outputFormat resolves --format, falling back to output.format
func (o *options) outputFormat() (ui.Format, error) {
	name := o.format
	if name == "" {
		if err := o.load(); err != nil {
			return ui.FormatAuto, err
		}
		name = o.cfg.Output.Format
	}
	return ui.ParseFormat(name)
}

func (o *options) renderer(cmd *cobra.Command) (ui.Renderer, error) {
	format, err := o.outputFormat()
	if err != nil {
		return nil, err
	}
	return ui.NewRenderer(format, cmd.OutOrStdout())
}

// machineReadable reports whether output goes to json or yaml
func (o *options) machineReadable() bool {
	format, err := o.outputFormat()
	return err == nil && (format == ui.FormatJSON || format == ui.FormatYAML)
}

// reportDiagnostics prints error diagnostics one per line and summarizes
// the rest. Informational codes are left to `mimer doctor`.
func reportDiagnostics(w io.Writer, diags []types.Diagnostic) {
	warnings := 0
	for _, d := range diags {
		switch {
		case d.Severity == types.SeverityError:
			_, _ = fmt.Fprintln(w, d.String())
		case d.Code == types.DiagNotApplication, d.Code == types.DiagShadowed:
		default:
			warnings++
		}
	}
	if warnings > 0 {
		_, _ = fmt.Fprintf(w, MsgProblemsSummary+"\n", warnings)
	}
}
