package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/ternarybob/pedoman/internal/app"
	"github.com/ternarybob/pedoman/internal/httpclient"
	"github.com/ternarybob/pedoman/internal/models"
	"github.com/ternarybob/pedoman/internal/services/chat"
	"github.com/ternarybob/pedoman/internal/services/pdf"
)

func (c *cli) askCmd() *cobra.Command {
	var (
		documentID   string
		noGuidelines bool
		pdfPath      string
	)

	cmd := &cobra.Command{
		Use:   "ask [question]",
		Short: "Ask the assistant one question",
		Long:  `Sends one question to the assistant and prints the answer with its source references.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			backend, err := app.NewBackend(c.config, c.logger)
			if err != nil {
				return err
			}

			session := chat.NewSession(backend, c.logger)
			resp, err := session.Submit(cmd.Context(), chat.Input{
				Question:          args[0],
				DocumentID:        documentID,
				IncludeGuidelines: !noGuidelines,
			})
			if err != nil {
				switch {
				case errors.Is(err, chat.ErrEmptyQuestion):
					return fmt.Errorf("pertanyaan kosong")
				case errors.Is(err, chat.ErrQuestionTooLong):
					return fmt.Errorf("pertanyaan maksimal 1000 karakter")
				}
				return fmt.Errorf("%s", httpclient.UserMessage(err, chat.FallbackErrorMessage))
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, resp.Answer)
			if len(resp.Sources) > 0 {
				fmt.Fprintln(out)
				fmt.Fprintln(out, "Sumber Referensi:")
				for _, source := range resp.Sources {
					fmt.Fprintf(out, "  - %s\n", source.Line())
				}
			}
			fmt.Fprintf(out, "\nWaktu proses: %s\n", models.FormatProcessingTime(resp.ProcessingTime))

			if pdfPath == "" {
				return nil
			}
			data, err := pdf.NewService(c.logger).RenderTranscript(pdf.TranscriptTitle, session.Snapshot().Messages)
			if err != nil {
				return err
			}
			if err := os.WriteFile(pdfPath, data, 0644); err != nil {
				return fmt.Errorf("failed to write %s: %w", pdfPath, err)
			}
			fmt.Fprintf(out, "Percakapan disimpan ke %s\n", pdfPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&documentID, "document", "", "Student thesis document id to focus on")
	cmd.Flags().BoolVar(&noGuidelines, "no-guidelines", false, "Do not include the thesis guidelines")
	cmd.Flags().StringVar(&pdfPath, "pdf", "", "Also save the question and answer as a PDF file")

	return cmd
}
