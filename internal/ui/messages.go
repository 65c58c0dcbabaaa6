package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/yildizm/ocrsnap/internal/form"
	"github.com/yildizm/ocrsnap/internal/ocr"
)

// submissionDoneMsg carries the outcome of one dispatched submission back
// to the update loop.
type submissionDoneMsg struct {
	id  string
	res *ocr.Result
	err error
}

type tickMsg time.Time

// Animation command
func tick() tea.Cmd {
	return tea.Tick(time.Millisecond*100, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// submitCmd performs the request off the update loop
func submitCmd(ctx context.Context, p form.Processor, sub *form.Submission) tea.Cmd {
	return func() tea.Msg {
		res, err := p.Process(ctx, sub.Request)
		return submissionDoneMsg{id: sub.ID, res: res, err: err}
	}
}
