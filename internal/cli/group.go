package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// MemberEntry is one member in a roster push or response
type MemberEntry struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
}

// MembersResult is the group roster response
type MembersResult struct {
	Members []MemberEntry `json:"members"`
}

func newGroupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "group",
		Short: "Manage voice group rosters",
	}
	cmd.AddCommand(newGroupSetMembersCmd())
	cmd.AddCommand(newGroupMembersCmd())
	return cmd
}

func newGroupSetMembersCmd() *cobra.Command {
	var members []string

	cmd := &cobra.Command{
		Use:   "set-members GROUP_ID",
		Short: "Replace a group's voice roster",
		Long: `Replace a group's voice roster. Each --member is "id=name" or
"id=name=avatar_url". Players online in the session but absent from the new
roster are evicted.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entries := make([]MemberEntry, 0, len(members))
			for _, m := range members {
				parts := strings.SplitN(m, "=", 3)
				if len(parts) < 2 {
					return fmt.Errorf("invalid member %q, want id=name[=avatar_url]", m)
				}
				entry := MemberEntry{ID: parts[0], Name: parts[1]}
				if len(parts) == 3 {
					entry.AvatarURL = parts[2]
				}
				entries = append(entries, entry)
			}

			body := map[string]any{"members": entries}
			path := fmt.Sprintf("/api/v1/groups/%s/members", args[0])
			if err := client.Put(path, body, nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Printf(body, "Roster updated: %d members", len(entries))
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&members, "member", nil, `Member as "id=name[=avatar_url]" (repeatable)`)

	return cmd
}

func newGroupMembersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "members GROUP_ID",
		Short: "Show a group's current voice roster",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result MembersResult
			path := fmt.Sprintf("/api/v1/groups/%s/members", args[0])
			if err := client.Get(path, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			if cfg.Output == "json" {
				out.Print(result)
				return nil
			}
			for _, m := range result.Members {
				fmt.Printf("%s\t%s\n", m.ID, m.Name)
			}
			return nil
		},
	}
}
