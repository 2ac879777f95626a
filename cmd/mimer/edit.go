package mimer

import (
	"fmt"

	"github.com/arthur-debert/mimer/pkg/core"
	"github.com/arthur-debert/mimer/pkg/types"
	"github.com/spf13/cobra"
)

// editFunc applies one change through the session and returns the message
// to print on success
type editFunc func(cmd *cobra.Command, s *core.Session, mime types.MimeType, args []string) (string, error)

// runEdit opens a session, applies edit and reports the written file
func (o *options) runEdit(edit editFunc) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		s, err := o.session(cmd, false)
		if err != nil {
			return err
		}
		r, err := o.renderer(cmd)
		if err != nil {
			return err
		}
		mime, err := types.ParseMimeType(args[0])
		if err != nil {
			return err
		}
		msg, err := edit(cmd, s, mime, args[1:])
		if err != nil {
			return err
		}
		return r.RenderMessage(msg)
	}
}

func newSetDefaultCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:               "set-default <mime> <app>",
		Short:             MsgSetDefaultShort,
		Long:              MsgSetDefaultLong,
		Example:           MsgSetDefaultExample,
		GroupID:           "edit",
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: o.completeMimeThenApp,
		RunE: o.runEdit(func(cmd *cobra.Command, s *core.Session, mime types.MimeType, args []string) (string, error) {
			app := normalizeAppID(args[0])
			if err := s.SetDefault(cmd.Context(), mime, app); err != nil {
				return "", err
			}
			return fmt.Sprintf(MsgDefaultSet, app, mime, s.Target()), nil
		}),
	}
}

func newAddCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:               "add <mime> <app>",
		Short:             MsgAddShort,
		GroupID:           "edit",
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: o.completeMimeThenApp,
		RunE: o.runEdit(func(cmd *cobra.Command, s *core.Session, mime types.MimeType, args []string) (string, error) {
			app := normalizeAppID(args[0])
			if err := s.AddAssociation(cmd.Context(), mime, app); err != nil {
				return "", err
			}
			return fmt.Sprintf(MsgAssociationAdded, app, mime, s.Target()), nil
		}),
	}
}

func newRemoveCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:               "remove <mime> <app>",
		Short:             MsgRemoveShort,
		Long:              MsgRemoveLong,
		GroupID:           "edit",
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: o.completeMimeThenApp,
		RunE: o.runEdit(func(cmd *cobra.Command, s *core.Session, mime types.MimeType, args []string) (string, error) {
			app := normalizeAppID(args[0])
			if err := s.RemoveAssociation(cmd.Context(), mime, app); err != nil {
				return "", err
			}
			return fmt.Sprintf(MsgAssociationRemoved, app, mime, s.Target()), nil
		}),
	}
}

func newResetCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:               "reset <mime>",
		Short:             MsgResetShort,
		GroupID:           "edit",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: o.completeMimeTypes,
		RunE: o.runEdit(func(cmd *cobra.Command, s *core.Session, mime types.MimeType, args []string) (string, error) {
			if err := s.ResetDefault(cmd.Context(), mime); err != nil {
				return "", err
			}
			return fmt.Sprintf(MsgDefaultReset, mime, s.Target()), nil
		}),
	}
}
