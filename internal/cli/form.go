package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/yildizm/ocrsnap/internal/form"
	"github.com/yildizm/ocrsnap/internal/ocr"
	"github.com/yildizm/ocrsnap/internal/ui"
)

var (
	formMode     string
	formLanguage string
	formURL      string
)

func newFormCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "form",
		Short: "Open the interactive submission form",
		Long: `Open the interactive form in the terminal.

Choose File or URL input, enter a path or an image URL, pick the translation
language and run OCR (ctrl+o) or OCR + translate (ctrl+t). Only one
submission runs at a time; the buttons show "Processing..." until it ends.
Press Esc to leave; a running submission is abandoned.

Examples:
  ocrsnap form
  ocrsnap form --mode url --url https://example.com/menu.jpg --to fr`,
		Args: cobra.NoArgs,
		RunE: runForm,
	}

	cmd.Flags().StringVarP(&formMode, "mode", "m", "", "initial input mode (file, url)")
	cmd.Flags().StringVarP(&formLanguage, "to", "l", "", "initial translation language")
	cmd.Flags().StringVar(&formURL, "url", "", "prefill the image URL")

	return cmd
}

func runForm(cmd *cobra.Command, args []string) error {
	cfg := GetGlobalConfig()
	log := newLogger("form")

	modeName := cfg.Defaults.Mode
	if formMode != "" {
		modeName = formMode
	}
	mode, err := form.ParseInputMode(modeName)
	if err != nil {
		return err
	}

	langName := cfg.Defaults.Language
	if formLanguage != "" {
		langName = formLanguage
	}
	lang, err := ocr.ParseLanguage(langName)
	if err != nil {
		return err
	}

	client, err := newClient(cfg, log)
	if err != nil {
		return err
	}

	f := form.New(form.WithMode(mode), form.WithLanguage(lang), form.WithLogger(log))
	if formURL != "" {
		f.SetURL(formURL)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	model := ui.NewFormModel(f, client,
		ui.WithContext(ctx),
		ui.WithMaxUploadBytes(cfg.Service.MaxUploadBytes),
		ui.WithLogger(log))
	return ui.Run(ctx, model)
}
