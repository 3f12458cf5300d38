package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	identityCommands "github.com/felixgeelhaar/ordo/internal/identity/application/commands"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage user capabilities",
}

var grantCmd = &cobra.Command{
	Use:   "grant <username>",
	Short: "Allow a user to modify their todos",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setModify(cmd, args[0], true)
	},
}

var revokeCmd = &cobra.Command{
	Use:   "revoke <username>",
	Short: "Make a user's todos read-only",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setModify(cmd, args[0], false)
	},
}

func setModify(cmd *cobra.Command, username string, canModify bool) error {
	ctx := cmd.Context()
	container, err := OpenContainer(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = container.Close() }()

	changed, err := container.SetModifyHandler.Handle(ctx, identityCommands.SetModifyCommand{
		Username:  username,
		CanModify: canModify,
	})
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), modifyMessage(username, canModify, changed))
	return nil
}

func modifyMessage(username string, canModify, changed bool) string {
	switch {
	case !changed:
		return fmt.Sprintf("%s: unchanged", username)
	case canModify:
		return fmt.Sprintf("%s: can modify todos", username)
	default:
		return fmt.Sprintf("%s: read-only", username)
	}
}

func init() {
	userCmd.AddCommand(grantCmd, revokeCmd)
	rootCmd.AddCommand(userCmd)
}
