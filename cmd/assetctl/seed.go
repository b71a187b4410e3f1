package main

import (
	"bytes"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/assetkit/assetkit/pkg/assetkit"
	"github.com/assetkit/assetkit/pkg/assetkit/config"
	"github.com/assetkit/assetkit/pkg/assetkit/storagekey"
)

var seedCount int

// seedTypes covers the upload allow-list with plausible size ranges
var seedTypes = []struct {
	mimeType string
	ext      string
	minSize  int64
	maxSize  int64
}{
	{"application/pdf", "pdf", 100 << 10, 512 << 10},
	{"application/msword", "doc", 50 << 10, 256 << 10},
	{"application/vnd.openxmlformats-officedocument.wordprocessingml.document", "docx", 50 << 10, 256 << 10},
	{"application/vnd.ms-excel", "xls", 50 << 10, 256 << 10},
	{"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "xlsx", 50 << 10, 256 << 10},
	{"image/jpeg", "jpg", 50 << 10, 512 << 10},
	{"image/png", "png", 50 << 10, 512 << 10},
	{"image/gif", "gif", 10 << 10, 128 << 10},
	{"image/webp", "webp", 10 << 10, 128 << 10},
	{"text/plain", "txt", 1 << 10, 100 << 10},
}

var seedWords = []string{
	"quarterly", "budget", "summary", "invoice", "roadmap", "onboarding",
	"release", "inventory", "survey", "handbook", "proposal", "minutes",
}

var seedSuffixes = []string{
	"Document", "File", "Report", "Data", "Archive", "Backup",
	"Template", "Draft", "Final", "Version",
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Populate the stores with sample assets for development",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		repo, err := cfg.BuildRepository(ctx)
		if err != nil {
			return err
		}
		store, err := cfg.BuildBlobStore()
		if err != nil {
			return err
		}

		keys := storagekey.New()
		for i := 0; i < seedCount; i++ {
			ft := seedTypes[rand.Intn(len(seedTypes))]
			name := fmt.Sprintf("%s %s %s.%s",
				seedWords[rand.Intn(len(seedWords))],
				seedWords[rand.Intn(len(seedWords))],
				seedSuffixes[rand.Intn(len(seedSuffixes))],
				ft.ext)
			size := ft.minSize + rand.Int63n(ft.maxSize-ft.minSize+1)
			content := bytes.Repeat([]byte{byte('a' + i%26)}, int(size))

			key := keys.Generate(name)
			if err := store.Upload(ctx, key, bytes.NewReader(content)); err != nil {
				return fmt.Errorf("seed blob %s: %w", key, err)
			}

			// Spread creation dates over the last six months
			created := time.Now().UTC().Add(-time.Duration(rand.Intn(180*24)) * time.Hour)
			asset := &assetkit.Asset{
				ID:          uuid.New(),
				Name:        name,
				Path:        key,
				MimeType:    ft.mimeType,
				Size:        size,
				Description: seedDescription(i),
				CreatedAt:   created,
				UpdatedAt:   created,
			}
			if err := repo.Create(ctx, asset); err != nil {
				return fmt.Errorf("seed record %s: %w", name, err)
			}
		}

		slog.Info("seeded assets", "count", seedCount)
		return nil
	},
}

func seedDescription(i int) string {
	// Leave roughly one in five without a description
	if i%5 == 4 {
		return ""
	}
	word := seedWords[i%len(seedWords)]
	return strings.ToUpper(word[:1]) + word[1:] + " materials for internal review."
}

func init() {
	seedCmd.Flags().IntVar(&seedCount, "count", 100, "number of assets to create")
}
