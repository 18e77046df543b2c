package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/ternarybob/pedoman/internal/app"
	"github.com/ternarybob/pedoman/internal/httpclient"
	"github.com/ternarybob/pedoman/internal/models"
	"github.com/ternarybob/pedoman/internal/services/upload"
)

func (c *cli) uploadCmd() *cobra.Command {
	var kindFlag string

	cmd := &cobra.Command{
		Use:   "upload [file]",
		Short: "Upload a PDF as guidelines or a student thesis",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, ok := models.ParseUploadKind(kindFlag)
			if !ok {
				return fmt.Errorf("--type must be guidelines or thesis, got %q", kindFlag)
			}

			path := args[0]
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", path, err)
			}

			backend, err := app.NewBackend(c.config, c.logger)
			if err != nil {
				return err
			}
			service := upload.NewService(backend, nil, c.config.MaxUploadBytes(), c.logger)

			// The extension stands in for the browser's declared type; content is sniffed when unknown
			file := models.UploadFile{
				Name:        filepath.Base(path),
				ContentType: contentTypeFor(path),
				Data:        data,
			}

			result, err := service.Upload(cmd.Context(), kind, file, "")
			if err != nil {
				return fmt.Errorf("%s", httpclient.UserMessage(err, upload.FallbackMessage(kind)))
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Upload Berhasil! %s\n", result.Response.Message)
			if result.Response.ChunksCreated != nil {
				fmt.Fprintf(out, "Chunks: %s\n", models.ChunksLabel(*result.Response.ChunksCreated))
			}
			if result.Pages > 0 {
				fmt.Fprintf(out, "Halaman: %d\n", result.Pages)
			}
			if result.Response.DocumentID != "" {
				fmt.Fprintf(out, "ID: %s\n", result.Response.DocumentID)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&kindFlag, "type", "t", string(models.UploadKindGuidelines), "Document type: guidelines or thesis")
	return cmd
}

func contentTypeFor(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		return "application/pdf"
	}
	return ""
}
