package cli

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gumanista/hate-2-action/internal/repositories/recommendation"
	"github.com/gumanista/hate-2-action/pkg/models"
)

func newProcessMessageCommand(app *App) *cobra.Command {
	var style string

	cmd := &cobra.Command{
		Use:   "process-message --style <empathetic|rude|formal> <text...>",
		Short: "Send a message for processing and print the reply with recommendations",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rs, err := models.ParseResponseStyle(style)
			if err != nil {
				return err
			}
			text := strings.Join(args, " ")
			if strings.TrimSpace(text) == "" {
				return errors.New("message text is required")
			}

			resp, err := recommendation.NewRepository(app.client, app.logger).Process(cmd.Context(), models.ProcessMessageRequest{
				Message:       text,
				ResponseStyle: rs,
			})
			if err != nil {
				return err
			}
			return app.print(resp)
		},
	}
	cmd.Flags().StringVarP(&style, "style", "s", "", "response style: empathetic, rude or formal")
	_ = cmd.MarkFlagRequired("style")

	return cmd
}
