package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/betis-escocia/backend/internal/lib/email"
	"github.com/spf13/cobra"
)

var previewDir string

var emailCmd = &cobra.Command{
	Use:   "email",
	Short: "Render email templates with sample data",
}

var emailPreviewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Write every template rendered with sample data as HTML files",
	RunE: func(_ *cobra.Command, _ []string) error {
		if err := os.MkdirAll(previewDir, 0o755); err != nil {
			return fmt.Errorf("creating preview dir: %w", err)
		}

		for name, data := range email.PreviewData {
			html, err := email.Render(name, data)
			if err != nil {
				return fmt.Errorf("rendering %s: %w", name, err)
			}

			path := filepath.Join(previewDir, string(name)+".html")
			if err := os.WriteFile(path, []byte(html), 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", path, err)
			}
			fmt.Println(path)
		}
		return nil
	},
}

func init() {
	emailPreviewCmd.Flags().StringVar(&previewDir, "out", "tmp/email-preview", "output directory")
	emailCmd.AddCommand(emailPreviewCmd)
}
