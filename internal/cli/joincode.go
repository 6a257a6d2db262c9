package cli

import (
	"time"

	"github.com/spf13/cobra"
)

// JoinCodeResult is the join code creation response
type JoinCodeResult struct {
	Code      string    `json:"code"`
	JoinURL   string    `json:"join_url"`
	ExpiresAt time.Time `json:"expires_at"`
}

func newJoinCodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "joincode",
		Short: "Manage join codes",
	}
	cmd.AddCommand(newJoinCodeCreateCmd())
	return cmd
}

func newJoinCodeCreateCmd() *cobra.Command {
	var userID, groupID string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Mint a join code for a user to join a group's session",
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]string{
				"user_id":  userID,
				"group_id": groupID,
			}

			var result JoinCodeResult
			if err := client.Post("/api/v1/join-codes", body, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Printf(result, "Code: %s (expires %s)", result.Code, result.ExpiresAt.Format(time.RFC3339))
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "User ID (required)")
	cmd.Flags().StringVar(&groupID, "group", "", "Group ID (required)")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("group")

	return cmd
}
