package cli

import (
	"github.com/spf13/cobra"

	"github.com/gumanista/hate-2-action/internal/repositories/message"
)

func newMessagesCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "messages",
		Short: "Browse stored messages",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List every message",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			messages, err := message.NewRepository(app.client, app.logger).List(cmd.Context())
			if err != nil {
				return err
			}
			return app.print(messages)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "get <id>",
		Short: "Show one message and its reply",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			m, err := message.NewRepository(app.client, app.logger).GetByID(cmd.Context(), id)
			if err != nil {
				return err
			}
			return app.print(m)
		},
	})

	return cmd
}
