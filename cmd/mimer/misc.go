package mimer

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/arthur-debert/mimer/internal/version"
	"github.com/arthur-debert/mimer/pkg/watch"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
)

func newWatchCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:     "watch",
		Short:   MsgWatchShort,
		Long:    MsgWatchLong,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := o.session(cmd, false)
			if err != nil {
				return err
			}
			r, err := o.renderer(cmd)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			w, err := watch.New(watch.Config{
				Targets:  watch.TargetsFor(o.paths),
				Debounce: o.cfg.Watch.Debounce,
				Reloader: s,
				OnReload: func(changed []string, err error) {
					if err != nil {
						_ = r.RenderError(fmt.Errorf(MsgReloadFailed, err))
						return
					}
					log.Debug().Strs("changed", changed).Msg("Reloaded")
					_ = r.RenderMessage(fmt.Sprintf(MsgReloaded, len(changed)))
					reportDiagnostics(cmd.ErrOrStderr(), s.Diagnostics())
				},
			})
			if err != nil {
				return err
			}
			if err := r.RenderMessage(fmt.Sprintf(MsgWatching, len(w.Watched()))); err != nil {
				return err
			}
			return w.Run(ctx)
		},
	}
}

func newConfigCmd(o *options) *cobra.Command {
	configCmd := &cobra.Command{
		Use:     "config",
		Short:   MsgConfigShort,
		GroupID: "misc",
	}
	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: MsgConfigShowShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := o.load(); err != nil {
				return err
			}
			data, err := o.cfg.TOML()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if o.cfg.Source != "" {
				_, _ = fmt.Fprintf(out, MsgConfigSource, o.cfg.Source)
			} else {
				_, _ = fmt.Fprintf(out, MsgConfigDefaults, o.configPath())
			}
			_, err = out.Write(data)
			return err
		},
	})
	return configCmd
}

func newVersionCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   MsgVersionShort,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if o.machineReadable() {
				r, err := o.renderer(cmd)
				if err != nil {
					return err
				}
				return r.RenderResult(version.Get())
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), version.Get().String())
			return err
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		Long:                  MsgCompletionLong,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		GroupID:               "misc",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
}

func newManCmd() *cobra.Command {
	var dir string
	manCmd := &cobra.Command{
		Use:     "man",
		Short:   MsgManShort,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return fmt.Errorf(MsgErrManDir, err)
			}
			header := &doc.GenManHeader{
				Title:   "MIMER",
				Section: "1",
				Source:  "mimer " + version.Version,
				Manual:  "mimer manual",
			}
			if err := doc.GenManTree(cmd.Root(), header, dir); err != nil {
				return fmt.Errorf(MsgErrManPage, err)
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), MsgManWritten+"\n", dir)
			return err
		},
	}
	manCmd.Flags().StringVarP(&dir, "dir", "d", ".", MsgFlagManDir)
	return manCmd
}
