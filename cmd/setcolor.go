package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/smazurov/colornode/internal/api/models"
	"github.com/spf13/cobra"
)

const defaultNodeAddr = "http://localhost:8080"

// CreateSetColorCmd creates the set-color command.
func CreateSetColorCmd() *cobra.Command {
	var addr string
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "set-color [color]",
		Short: "Set the color of a running node",
		Long:  `Sends the color to a running colornode through POST /api/color and prints the applied state.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			applied, err := postColor(ctx, http.DefaultClient, addr, args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s applied to %d positions\n", applied.Hex, applied.Positions)
			return err
		},
	}

	cmd.Flags().StringVar(&addr, "addr", defaultNodeAddr, "Base URL of the node")
	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Second, "Request timeout")

	return cmd
}

func postColor(ctx context.Context, client *http.Client, addr, color string) (*models.ColorData, error) {
	body, err := json.Marshal(map[string]string{"color": color})
	if err != nil {
		return nil, err
	}

	url := strings.TrimSuffix(addr, "/") + "/api/color"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("post %s: %w", url, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		var problem struct {
			Detail string `json:"detail"`
		}
		if json.Unmarshal(data, &problem) == nil && problem.Detail != "" {
			return nil, fmt.Errorf("node rejected color: %s (%d)", problem.Detail, resp.StatusCode)
		}
		return nil, fmt.Errorf("node rejected color: status %d", resp.StatusCode)
	}

	var applied models.ColorData
	if err := json.Unmarshal(data, &applied); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &applied, nil
}
