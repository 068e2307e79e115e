package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thingsboard/tb-cli/internal/api"
	"github.com/thingsboard/tb-cli/internal/iocontext"
)

func newImagesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "images",
		Aliases: []string{"image", "img"},
		Short:   "Manage the image gallery",
	}
	cmd.AddCommand(newImagesUploadCmd())
	cmd.AddCommand(newImagesListCmd())
	cmd.AddCommand(newImagesDownloadCmd())
	return cmd
}

func newImagesUploadCmd() *cobra.Command {
	var title, subType string
	cmd := &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload an image",
		Long: `Upload an image to the gallery. The file type is detected from its
content, so the local file name does not matter.`,
		Example: `  tb images upload logo.png --title "Company logo"
  cat pump.svg | tb images upload - --title Pump --sub-type SCADA_SYMBOL`,
		Args: cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			content, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			if len(content) == 0 {
				return fmt.Errorf("image is empty")
			}
			if title == "" && args[0] != "-" {
				title = strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
			}
			subType = strings.ToUpper(subType)

			client, err := getClient()
			if err != nil {
				return err
			}
			if stop, err := previewOperation(cmd, client, "uploadImage", callWith("file", content, "title", title, "imageSubType", subType)); stop {
				return err
			}
			image, err := client.Images().Upload(cmdContext(cmd), content, title, subType)
			if err != nil {
				return err
			}
			printAction(cmd, "Uploaded", "image", image.ResourceKey, image.Title)
			if isStructured(cmd) {
				return printJSON(cmd, image)
			}
			if !flags.Quiet && image.Link != "" {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "  Link: %s\n", image.Link)
			}
			return nil
		}),
	}
	cmd.Flags().StringVar(&title, "title", "", "Image title (default: file name)")
	cmd.Flags().StringVar(&subType, "sub-type", "", "IMAGE or SCADA_SYMBOL")
	return cmd
}

func newImagesListCmd() *cobra.Command {
	var (
		page    pageFlags
		subType string
		system  bool
	)
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List images",
		Args:    cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			client, err := getClient()
			if err != nil {
				return err
			}
			result, err := fetchPages(cmdContext(cmd), page, func(ctx context.Context, p api.PageParams) (*api.PageData[api.ImageInfo], error) {
				params := api.ImageListParams{PageParams: p, ImageSubType: strings.ToUpper(subType)}
				if cmd.Flags().Changed("system") {
					params.IncludeSystemImages = &system
				}
				return client.Images().List(ctx, params)
			})
			if err != nil {
				return err
			}
			return renderPage(cmd, result, table[api.ImageInfo]{
				headers: []string{"KEY", "TITLE", "TYPE", "LINK"},
				row: func(i api.ImageInfo) []string {
					return []string{i.ResourceKey, i.Title, i.ResourceType, i.Link}
				},
				empty: "No images found.",
			})
		}),
	}
	addPageFlags(cmd, &page)
	cmd.Flags().StringVar(&subType, "sub-type", "", "IMAGE or SCADA_SYMBOL")
	cmd.Flags().BoolVar(&system, "system", false, "Include system images")
	return cmd
}

func newImagesDownloadCmd() *cobra.Command {
	var output string
	var system bool
	cmd := &cobra.Command{
		Use:   "download <key>",
		Short: "Download an image",
		Example: `  tb images download logo.png -O logo.png
  tb images download logo.png > logo.png`,
		Args: cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			imageType := "tenant"
			if system {
				imageType = "system"
			}
			client, err := getClient()
			if err != nil {
				return err
			}
			data, err := client.Images().Download(cmdContext(cmd), imageType, args[0])
			if err != nil {
				return err
			}
			if output == "" || output == "-" {
				_, err := iocontext.GetIO(cmd.Context()).Out.Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", output, err)
			}
			printAction(cmd, "Saved", "image to", output, fmt.Sprintf("%d bytes", len(data)))
			return nil
		}),
	}
	cmd.Flags().StringVarP(&output, "out-file", "O", "", "Write to a file instead of stdout")
	cmd.Flags().BoolVar(&system, "system", false, "Download a system image")
	return cmd
}
