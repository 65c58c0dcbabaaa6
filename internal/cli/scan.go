package cli

import (
	"bytes"
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	scanTranslate  bool
	scanLanguage   string
	scanMode       string
	scanOutputFile string
)

func newScanCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan [file or url]",
		Short: "Extract text from one image",
		Long: `Submit a single image to the OCR service and print the result.

The argument is treated as a URL when it is exactly one http or https URL,
otherwise as a local file. Use --mode to force either.

Examples:
  ocrsnap scan receipt.png
  ocrsnap scan https://example.com/menu.jpg --translate --to fr
  ocrsnap scan scan.tiff -o json --output-file result.json`,
		Args: cobra.ExactArgs(1),
		RunE: runScan,
	}

	cmd.Flags().BoolVarP(&scanTranslate, "translate", "t", false, "also translate the extracted text")
	cmd.Flags().StringVarP(&scanLanguage, "to", "l", "", "translation target language (es, en, fr, de, it, pt)")
	cmd.Flags().StringVarP(&scanMode, "mode", "m", "auto", "input mode (auto, file, url)")
	cmd.Flags().StringVar(&scanOutputFile, "output-file", "", "save output to file instead of stdout")

	return cmd
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg := GetGlobalConfig()
	log := newLogger("scan")

	opts, err := resolveSubmitOptions(cfg, scanTranslate, cmd.Flags().Changed("translate"), scanLanguage, scanMode)
	if err != nil {
		return err
	}

	client, err := newClient(cfg, log)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, err := submitOnce(ctx, client, args[0], opts, cfg.Service.MaxUploadBytes, log)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	w, err := newReportWriter(&buf, getOutputFormat(), useColor() && scanOutputFile == "")
	if err != nil {
		return err
	}
	if err := w.Write(report); err != nil {
		return err
	}
	if err := handleOutputDestination(buf.Bytes(), scanOutputFile); err != nil {
		return err
	}

	if report.Failed() {
		return errSubmissionFailed
	}
	return nil
}
