package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/musicverse/musicverse-backend-go/internal/config"
)

var errAnnouncementRequired = errors.New("--title and --body are required")

func newAnnounceCmd() *cobra.Command {
	var title, body string

	cmd := &cobra.Command{
		Use:   "announce",
		Short: "Broadcast an announcement to every registered device",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			title, body = strings.TrimSpace(title), strings.TrimSpace(body)
			if title == "" || body == "" {
				return errAnnouncementRequired
			}

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			a, err := newApp(cmd.Context(), cfg, newLogger(cfg.App.LogLevel))
			if err != nil {
				return err
			}
			defer a.Close()

			res, err := a.notifications.AnnouncementToAll(cmd.Context(), title, body)
			if err != nil {
				return fmt.Errorf("announcement failed: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "sent to %d tokens: %d succeeded, %d failed\n",
				res.Tokens, res.SuccessCount, res.FailureCount)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "announcement title")
	cmd.Flags().StringVar(&body, "body", "", "announcement body")
	return cmd
}
