package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	identityCommands "github.com/felixgeelhaar/ordo/internal/identity/application/commands"
	identityDomain "github.com/felixgeelhaar/ordo/internal/identity/domain"
	todoCommands "github.com/felixgeelhaar/ordo/internal/todos/application/commands"
)

var withSampleData bool

var demoUserCmd = &cobra.Command{
	Use:   "demo-user",
	Short: "Create or reset the read-only demo account",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		container, err := OpenContainer(ctx)
		if err != nil {
			return err
		}
		defer func() { _ = container.Close() }()

		res, err := container.EnsureDemoUserHandler.Handle(ctx)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if res.Created {
			fmt.Fprintf(out, "created demo user %q\n", identityDomain.DemoUsername)
		} else {
			fmt.Fprintf(out, "reset demo user %q\n", identityDomain.DemoUsername)
		}
		fmt.Fprintf(out, "password: %s\n", identityCommands.DemoPassword)

		if !withSampleData {
			return nil
		}
		seeded, err := container.SeedSampleDataHandler.Handle(ctx, todoCommands.SeedSampleDataCommand{OwnerID: res.User.ID()})
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "seeded %d categories and %d items\n", seeded.Categories, seeded.Items)
		return nil
	},
}

func init() {
	demoUserCmd.Flags().BoolVar(&withSampleData, "with-sample-data", false, "replace the demo user's todos with sample data")
	rootCmd.AddCommand(demoUserCmd)
}
