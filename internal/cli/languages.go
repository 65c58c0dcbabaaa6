package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/yildizm/go-termfmt"
	"github.com/yildizm/ocrsnap/internal/emoji"
	"github.com/yildizm/ocrsnap/internal/ocr"
)

// LanguageOutput describes one supported translation target
type LanguageOutput struct {
	Code    string `json:"code"`
	Name    string `json:"name"`
	Native  string `json:"native"`
	Default bool   `json:"default"`
}

func newLanguagesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "languages",
		Short: "List supported translation languages",
		Long: `List the target languages accepted by the OCR + translate workflow.
The configured default is marked.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeLanguages(os.Stdout, getOutputFormat(), ocr.Language(GetGlobalConfig().Defaults.Language))
		},
	}
}

func languageOutputs(def ocr.Language) []LanguageOutput {
	langs := ocr.Languages()
	out := make([]LanguageOutput, 0, len(langs))
	for _, l := range langs {
		out = append(out, LanguageOutput{
			Code:    string(l),
			Name:    l.Name(),
			Native:  l.SelfName(),
			Default: l == def,
		})
	}
	return out
}

func writeLanguages(w io.Writer, format string, def ocr.Language) error {
	langs := languageOutputs(def)

	switch format {
	case "json":
		data, err := json.MarshalIndent(langs, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal languages: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case "", "text":
		opts := termfmt.DefaultOptions()
		opts.Emoji = !emoji.IsEmojiDisabled()
		opts.Color = useColor()

		items := make([]termfmt.TreeItem, 0, len(langs))
		for i, l := range langs {
			value := fmt.Sprintf("%s (%s)", l.Name, l.Native)
			if l.Default {
				value += " [default]"
			}
			items = append(items, termfmt.TreeItem{Label: l.Code, Value: value, Last: i == len(langs)-1})
		}
		_, err := fmt.Fprintf(w, "%s Translation languages\n%s\n",
			emoji.GetEmoji("language"), termfmt.TreeViewWithOptions(items, opts))
		return err
	default:
		for _, l := range langs {
			if _, err := fmt.Fprintf(w, "%s\t%s\t%s\n", l.Code, l.Name, l.Native); err != nil {
				return err
			}
		}
		return nil
	}
}
