package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/assetkit/assetkit/pkg/assetkit/config"
)

var randomCmd = &cobra.Command{
	Use:   "random",
	Short: "Select a random asset and log its details",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		svc, err := cfg.BuildService(cmd.Context(), slog.Default())
		if err != nil {
			return err
		}

		asset, err := svc.Random(cmd.Context())
		if err != nil {
			return fmt.Errorf("no asset available: %w", err)
		}

		fmt.Println("Random asset selected:")
		fmt.Printf("  Name:        %s\n", asset.Name)
		fmt.Printf("  Path:        %s\n", asset.Path)
		fmt.Printf("  MIME Type:   %s\n", asset.MimeType)
		fmt.Printf("  Size:        %s\n", formatBytes(asset.Size))
		if asset.Description != "" {
			fmt.Printf("  Description: %s\n", asset.Description)
		} else {
			fmt.Printf("  Description: No description\n")
		}
		fmt.Printf("  Created:     %s\n", asset.CreatedAt.Format("2006-01-02 15:04:05"))

		slog.Info("random asset selected",
			"asset_id", asset.ID,
			"name", asset.Name,
			"path", asset.Path,
			"mime_type", asset.MimeType,
			"size", asset.Size,
			"created_at", asset.CreatedAt)

		return nil
	},
}

// formatBytes renders a byte count in human readable units
func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.2f %cB", float64(bytes)/float64(div), "KMGT"[exp])
}
