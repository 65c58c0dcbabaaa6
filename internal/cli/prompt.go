package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"
	"github.com/yildizm/ocrsnap/internal/config"
	"github.com/yildizm/ocrsnap/internal/emoji"
	"github.com/yildizm/ocrsnap/internal/form"
	"github.com/yildizm/ocrsnap/internal/formatter"
	"github.com/yildizm/ocrsnap/internal/logger"
	"github.com/yildizm/ocrsnap/internal/ocr"
)

var promptHistory string

func newPromptCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prompt",
		Short: "Run a line-based submission session",
		Long: `Start an interactive line-based session backed by the same form as
"ocrsnap form", for terminals where the full-screen form is not wanted.

Type "help" for the list of commands. Pasting an image URL on its own
switches to URL mode and selects it.

Examples:
  ocrsnap prompt
  ocrsnap prompt --history ~/.ocrsnap_history`,
		Args: cobra.NoArgs,
		RunE: runPrompt,
	}

	cmd.Flags().StringVar(&promptHistory, "history", "", "history file (default: none)")

	return cmd
}

func runPrompt(cmd *cobra.Command, args []string) error {
	cfg := GetGlobalConfig()
	log := newLogger("prompt")

	client, err := newClient(cfg, log)
	if err != nil {
		return err
	}

	session, err := newPromptSession(cfg, client, os.Stdout, log)
	if err != nil {
		return err
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "ocrsnap> ",
		HistoryFile:     promptHistory,
		AutoComplete:    promptCompleter(),
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
	})
	if err != nil {
		return fmt.Errorf("failed to start prompt: %w", err)
	}
	defer func() {
		_ = rl.Close()
	}()

	fmt.Fprintln(rl.Stdout(), `Type "help" for commands, "quit" to leave.`)
	ctx := context.Background()
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			if line == "" {
				break
			}
			continue
		}
		if err != nil { // io.EOF
			break
		}
		if session.exec(ctx, line) {
			break
		}
	}
	session.form.Discard()
	return nil
}

func promptCompleter() *readline.PrefixCompleter {
	langs := make([]readline.PrefixCompleterInterface, 0, len(ocr.Languages()))
	for _, l := range ocr.Languages() {
		langs = append(langs, readline.PcItem(string(l)))
	}
	return readline.NewPrefixCompleter(
		readline.PcItem("mode", readline.PcItem("file"), readline.PcItem("url")),
		readline.PcItem("file", readline.PcItemDynamic(listImageFiles)),
		readline.PcItem("url"),
		readline.PcItem("lang", langs...),
		readline.PcItem("ocr"),
		readline.PcItem("translate"),
		readline.PcItem("show"),
		readline.PcItem("clear"),
		readline.PcItem("help"),
		readline.PcItem("quit"),
	)
}

// listImageFiles completes image names in the current directory
func listImageFiles(string) []string {
	entries, err := os.ReadDir(".")
	if err != nil {
		return nil
	}
	exts := GetGlobalConfig().Watch.Extensions
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		for _, want := range exts {
			if ext == strings.ToLower(want) {
				names = append(names, e.Name())
				break
			}
		}
	}
	return names
}

// promptSession executes prompt commands against one form
type promptSession struct {
	form      *form.Form
	processor form.Processor
	out       io.Writer
	reports   *reportWriter
	maxBytes  int64
	log       *logger.Logger

	// filePath is the path of the selected image
	filePath string
	info     *ocr.ImageInfo
}

func newPromptSession(cfg *config.Config, p form.Processor, out io.Writer, log *logger.Logger) (*promptSession, error) {
	mode, err := form.ParseInputMode(cfg.Defaults.Mode)
	if err != nil {
		return nil, err
	}
	lang, err := ocr.ParseLanguage(cfg.Defaults.Language)
	if err != nil {
		return nil, err
	}
	reports, err := newReportWriter(out, getOutputFormat(), useColor())
	if err != nil {
		return nil, err
	}

	return &promptSession{
		form:      form.New(form.WithMode(mode), form.WithLanguage(lang), form.WithLogger(log)),
		processor: p,
		out:       out,
		reports:   reports,
		maxBytes:  cfg.Service.MaxUploadBytes,
		log:       log,
	}, nil
}

// exec runs one input line; it reports whether the session should end
func (s *promptSession) exec(ctx context.Context, line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}

	if isImageURL(line) {
		s.form.SetMode(form.ModeURL)
		s.form.SetURL(line)
		s.printf("%s URL selected\n", emoji.GetEmoji("link"))
		return false
	}

	name, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch strings.ToLower(name) {
	case "quit", "exit", "q":
		return true
	case "help", "?":
		s.printHelp()
	case "mode":
		s.setMode(arg)
	case "file":
		s.selectFile(arg)
	case "url":
		s.form.SetMode(form.ModeURL)
		s.form.SetURL(arg)
		s.printf("%s URL set\n", emoji.GetEmoji("link"))
	case "lang", "language", "to":
		s.setLanguage(arg)
	case "ocr":
		s.submit(ctx, ocr.WorkflowOCR)
	case "translate":
		s.submit(ctx, ocr.WorkflowTranslate)
	case "show", "status":
		s.show()
	case "clear":
		s.form.Discard()
		s.printf("%s Result cleared\n", emoji.GetEmoji("success"))
	default:
		s.printf("%s Unknown command: %s (type \"help\")\n", emoji.GetEmoji("warning"), name)
	}
	return false
}

func (s *promptSession) printf(format string, args ...interface{}) {
	fmt.Fprintf(s.out, format, args...)
}

func (s *promptSession) setMode(arg string) {
	if arg == "" {
		s.printf("Mode: %s\n", s.form.Mode())
		return
	}
	mode, err := form.ParseInputMode(arg)
	if err != nil {
		s.printf("%s %v\n", emoji.GetEmoji("error"), err)
		return
	}
	s.form.SetMode(mode)
	s.printf("Mode: %s\n", mode)
}

func (s *promptSession) selectFile(path string) {
	s.form.SetMode(form.ModeFile)
	s.filePath = path
	s.info = nil

	if path == "" {
		s.form.SetImage(nil)
		s.printf("%s File cleared\n", emoji.GetEmoji("file"))
		return
	}

	img, err := ocr.LoadImage(path, s.maxBytes)
	if err != nil {
		s.form.RejectInput(err)
		s.printf("%s %s\n", emoji.GetEmoji("error"), s.form.Result().Error)
		return
	}
	s.form.SetImage(img)
	if info, err := img.Inspect(); err == nil {
		s.info = info
		s.printf("%s %s (%s)\n", emoji.GetEmoji("file"), img.Name, info)
		return
	}
	s.printf("%s %s\n", emoji.GetEmoji("file"), img.Name)
}

func (s *promptSession) setLanguage(arg string) {
	if arg == "" {
		current := s.form.Language()
		for _, l := range ocr.Languages() {
			marker := "  "
			if l == current {
				marker = "* "
			}
			s.printf("%s%s  %s (%s)\n", marker, l, l.Name(), l.SelfName())
		}
		return
	}
	lang, err := ocr.ParseLanguage(arg)
	if err == nil {
		err = s.form.SetLanguage(lang)
	}
	if err != nil {
		s.printf("%s %v\n", emoji.GetEmoji("error"), err)
		return
	}
	s.printf("%s Target language: %s\n", emoji.GetEmoji("language"), lang.Name())
}

func (s *promptSession) submit(ctx context.Context, workflow ocr.Workflow) {
	report := &formatter.Report{
		Source:    s.source(),
		Workflow:  workflow,
		Mode:      s.form.Mode(),
		Timestamp: time.Now(),
	}
	if workflow.Translates() {
		report.Language = s.form.Language()
	}
	if s.form.Mode() == form.ModeFile {
		report.Image = s.info
	}

	start := time.Now()
	res, err := s.form.Submit(ctx, s.processor, workflow)
	report.Duration = time.Since(start)
	report.Result = res
	if err != nil {
		s.log.Debug("submission failed", logger.Workflow(workflow), logger.Error(err))
	}

	if werr := s.reports.Write(report); werr != nil {
		s.printf("%s %v\n", emoji.GetEmoji("error"), werr)
	}
}

func (s *promptSession) source() string {
	if s.form.Mode() == form.ModeURL {
		return s.form.URL()
	}
	return s.filePath
}

func (s *promptSession) show() {
	input := s.source()
	if input == "" {
		input = "(none)"
	}
	s.printf("Mode:     %s\n", s.form.Mode())
	s.printf("Input:    %s\n", input)
	s.printf("Language: %s (%s)\n", s.form.Language().Name(), s.form.Language())
	s.printf("State:    %s\n", s.form.State())

	res := s.form.Result()
	switch {
	case res.Error != "":
		s.printf("Error:    %s\n", res.Error)
	case res.Text != "":
		s.printf("Text:\n%s\n", res.Text)
		if res.Translation != "" {
			s.printf("Translation:\n%s\n", res.Translation)
		}
		if res.DetectedLanguage != "" {
			s.printf("Detected language: %s (%s)\n", ocr.Language(res.DetectedLanguage).Name(), res.DetectedLanguage)
		}
	}
}

func (s *promptSession) printHelp() {
	s.printf(`%s Commands:
  mode [file|url]    show or switch the input mode
  file <path>        select an image file (switches to file mode)
  url <url>          set the image URL (switches to URL mode)
  lang [code]        list languages or set the translation target
  ocr                extract text
  translate          extract and translate text
  show               show the form state and last result
  clear              clear the displayed result
  help               show this help
  quit               leave
`, emoji.GetEmoji("help"))
}
