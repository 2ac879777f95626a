package mimer

import (
	"fmt"
	"strings"

	"github.com/arthur-debert/mimer/pkg/errors"
	"github.com/arthur-debert/mimer/pkg/logging"
	"github.com/arthur-debert/mimer/pkg/resolve"
	"github.com/arthur-debert/mimer/pkg/types"
	"github.com/arthur-debert/mimer/pkg/ui/display"
	"github.com/spf13/cobra"
)

func newListCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:     "list [filter]",
		Short:   MsgListShort,
		Example: MsgListExample,
		GroupID: "query",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := o.session(cmd, false)
			if err != nil {
				return err
			}
			r, err := o.renderer(cmd)
			if err != nil {
				return err
			}

			var filter string
			if len(args) == 1 {
				filter = args[0]
			}
			wanted := make(map[types.MimeType]bool)
			for _, mime := range s.MimeTypes(filter) {
				wanted[mime] = true
			}
			entries := make([]resolve.Effective, 0, len(wanted))
			for _, eff := range s.All() {
				if wanted[eff.Mime] {
					entries = append(entries, eff)
				}
			}
			return r.RenderResult(display.Listing{Filter: filter, Entries: entries})
		},
	}
}

func newShowCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:               "show <mime>",
		Short:             MsgShowShort,
		Long:              MsgShowLong,
		GroupID:           "query",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: o.completeMimeTypes,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := o.session(cmd, false)
			if err != nil {
				return err
			}
			r, err := o.renderer(cmd)
			if err != nil {
				return err
			}
			eff, err := s.Effective(types.MimeType(args[0]))
			if err != nil {
				return err
			}
			return r.RenderResult(display.MimeReport{
				Info:      s.Describe(eff.Mime),
				Effective: eff,
				Names:     display.Names(s.Registry(), eff.Candidates),
			})
		},
	}
}

func newAppCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:               "app <id>",
		Short:             MsgAppShort,
		GroupID:           "query",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: o.completeApps,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := o.session(cmd, false)
			if err != nil {
				return err
			}
			r, err := o.renderer(cmd)
			if err != nil {
				return err
			}
			info, err := s.App(normalizeAppID(args[0]))
			if err != nil {
				return err
			}
			return r.RenderResult(info)
		},
	}
}

func newDoctorCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:     "doctor",
		Short:   MsgDoctorShort,
		Long:    MsgDoctorLong,
		GroupID: "query",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := o.session(cmd, true)
			if err != nil {
				return err
			}
			r, err := o.renderer(cmd)
			if err != nil {
				return err
			}
			diags := s.Doctor(cmd.Context())
			if len(diags) == 0 && !o.machineReadable() {
				return r.RenderMessage(MsgNoProblems)
			}
			if err := r.RenderResult(diags); err != nil {
				return err
			}

			failed := 0
			for _, d := range diags {
				if d.Severity == types.SeverityError {
					failed++
				}
			}
			if failed > 0 {
				return errors.Newf(errors.ErrParse, MsgErrDoctor, failed).WithDetail("errors", failed)
			}
			return nil
		},
	}
}

func newPathsCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:     "paths",
		Short:   MsgPathsShort,
		GroupID: "query",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := o.load(); err != nil {
				return err
			}
			r, err := o.renderer(cmd)
			if err != nil {
				return err
			}
			layers := o.paths.LayerPath()
			return r.RenderResult(display.PathsReport{
				LayerPath:       layers,
				Target:          layers.Top(),
				ApplicationDirs: o.paths.ApplicationDirs(),
				MimeDirs:        o.paths.MimeDirs(),
				ConfigFile:      o.configPath(),
				LogFile:         logging.LogFilePath(),
			})
		},
	}
}

// normalizeAppID accepts ids with or without the .desktop suffix
func normalizeAppID(arg string) types.ApplicationID {
	arg = strings.TrimSpace(arg)
	if arg != "" && !strings.HasSuffix(arg, types.DesktopSuffix) {
		arg += types.DesktopSuffix
	}
	return types.ApplicationID(arg)
}

// completeMimeTypes completes the first argument with known MIME types
func (o *options) completeMimeTypes(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	s, err := o.session(cmd, true)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	var out []string
	for _, mime := range s.MimeTypes(toComplete) {
		out = append(out, string(mime))
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}

// completeApps completes application ids, with their names as descriptions
func (o *options) completeApps(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	s, err := o.session(cmd, true)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	reg := s.Registry()
	var out []string
	for _, id := range reg.IDs() {
		entry, ok := reg.Lookup(id)
		if !ok || entry.Hidden {
			continue
		}
		out = append(out, fmt.Sprintf("%s\t%s", id, entry.Name))
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}

// completeMimeThenApp completes `<mime> <app>` argument pairs
func (o *options) completeMimeThenApp(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	switch len(args) {
	case 0:
		return o.completeMimeTypes(cmd, args, toComplete)
	case 1:
		return o.completeApps(cmd, args, toComplete)
	default:
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
}
