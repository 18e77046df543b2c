package main

import (
	"bufio"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/ternarybob/pedoman/internal/app"
	"github.com/ternarybob/pedoman/internal/httpclient"
	"github.com/ternarybob/pedoman/internal/models"
	"github.com/ternarybob/pedoman/internal/services/cache"
	"github.com/ternarybob/pedoman/internal/services/documents"
)

func (c *cli) documentService() (*documents.Service, error) {
	backend, err := app.NewBackend(c.config, c.logger)
	if err != nil {
		return nil, err
	}
	// One-shot commands never reuse a listing
	return documents.NewService(backend, cache.NewService(0, c.logger), nil, c.logger), nil
}

func (c *cli) documentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "documents",
		Short: "List indexed documents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			service, err := c.documentService()
			if err != nil {
				return err
			}

			resp, err := service.List(cmd.Context())
			if err != nil {
				return fmt.Errorf("%s", httpclient.UserMessage(err, "Gagal memuat daftar dokumen"))
			}

			printDocuments(cmd, resp)
			return nil
		},
	}

	cmd.AddCommand(c.documentsDeleteCmd())
	return cmd
}

func printDocuments(cmd *cobra.Command, resp *models.DocumentsResponse) {
	out := cmd.OutOrStdout()
	if len(resp.Documents) == 0 {
		fmt.Fprintln(out, "Belum ada dokumen")
	} else {
		tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tNAMA\tJENIS\tCHUNKS\tNAMESPACE")
		for _, doc := range resp.Documents {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n", doc.ID, doc.Name, models.DocumentTypeLabel(doc.Type), doc.ChunksCount, doc.Namespace)
		}
		tw.Flush()
	}

	fmt.Fprintf(out, "\nTotal Dokumen: %d  Total Chunks: %d  Pedoman Skripsi: %d\n",
		resp.TotalDocuments, resp.TotalChunks, resp.GuidelineCount())
}

func (c *cli) documentsDeleteCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete a document after confirmation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			service, err := c.documentService()
			if err != nil {
				return err
			}

			if !yes {
				name := id
				if resp, err := service.List(cmd.Context()); err == nil {
					if doc, ok := resp.Find(id); ok {
						name = doc.Name
					}
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N] ", documents.ConfirmMessage(name))

				answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				switch strings.ToLower(strings.TrimSpace(answer)) {
				case "y", "ya", "yes":
				default:
					fmt.Fprintln(cmd.OutOrStdout(), "Dibatalkan")
					return nil
				}
			}

			resp, err := service.Delete(cmd.Context(), id, true, "")
			if err != nil {
				return fmt.Errorf("%s", httpclient.UserMessage(err, documents.FallbackDeleteMessage))
			}

			message := resp.Message
			if message == "" {
				message = "Dokumen berhasil dihapus"
			}
			fmt.Fprintln(cmd.OutOrStdout(), message)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}
