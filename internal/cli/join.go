package cli

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"

	"github.com/JupiterPi/verse/internal/protocol"
)

func newJoinCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "join CODE",
		Short: "Redeem a join code over the game websocket and stream broadcasts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			wsURL, err := gameSocketURL(cfg.ServerURL)
			if err != nil {
				return err
			}

			conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
			if err != nil {
				return fmt.Errorf("failed to connect: %w", err)
			}
			defer func() { _ = conn.Close() }()

			if err := conn.WriteJSON(protocol.JoinRequest{JoinCode: args[0]}); err != nil {
				return fmt.Errorf("failed to send join request: %w", err)
			}

			var self protocol.SelfInfo
			if err := conn.ReadJSON(&self); err != nil {
				return joinError(err)
			}

			out := NewOutput(cfg.Output)
			out.Printf(self, "Joined as %s (%s), color %s", self.Name, self.ID, self.Color)

			// Close the socket on interrupt so the server sees a clean leave.
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			go func() {
				<-sigCh
				_ = conn.Close()
			}()

			for {
				var state protocol.GameState
				if err := conn.ReadJSON(&state); err != nil {
					return joinError(err)
				}
				printGameState(out, state)
			}
		},
	}
}

func gameSocketURL(serverURL string) (string, error) {
	parsed, err := url.Parse(serverURL)
	if err != nil {
		return "", fmt.Errorf("invalid server URL: %w", err)
	}
	switch parsed.Scheme {
	case "http":
		parsed.Scheme = "ws"
	case "https":
		parsed.Scheme = "wss"
	}
	parsed.Path = strings.TrimSuffix(parsed.Path, "/") + "/api/game"
	return parsed.String(), nil
}

func joinError(err error) error {
	var ce *websocket.CloseError
	if errors.As(err, &ce) {
		if ce.Code == websocket.CloseNormalClosure {
			return nil
		}
		if ce.Text != "" {
			return fmt.Errorf("server closed connection: %s", ce.Text)
		}
		return fmt.Errorf("server closed connection (code %d)", ce.Code)
	}
	return err
}

func printGameState(out *Output, state protocol.GameState) {
	if cfg.Output == "json" {
		out.Print(state)
		return
	}
	names := make([]string, 0, len(state.Players))
	for _, p := range state.Players {
		names = append(names, fmt.Sprintf("%s@(%.1f, %.1f, %.1f)", p.Name,
			p.State.Position.X, p.State.Position.Y, p.State.Position.Z))
	}
	fmt.Printf("online: [%s], available: %d\n", strings.Join(names, ", "), len(state.AvailablePlayers))
}
