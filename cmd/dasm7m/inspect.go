package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/xyproto/dynasm7m/pkg/dasm"
)

// Inspector is a read-only text UI over an encoder State: sections on the
// left, label slots on the right, the sticky status along the bottom. It
// exists for the situation where a template fails Link or Encode and the
// useful question is "which label chain is still open, and in which
// section did Pass 1 end up".
type Inspector struct {
	App *tview.Application

	SectionsView *tview.TextView
	LabelsView   *tview.TextView
	StatusView   *tview.TextView
}

// NewInspector builds the inspector layout for the given state.
func NewInspector(st *dasm.State, putErr error) *Inspector {
	insp := &Inspector{
		App: tview.NewApplication(),
	}

	insp.SectionsView = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWrap(false)
	insp.SectionsView.SetBorder(true).SetTitle(" Sections ")

	insp.LabelsView = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWrap(false)
	insp.LabelsView.SetBorder(true).SetTitle(" Labels ")

	insp.StatusView = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(false)
	insp.StatusView.SetBorder(true).SetTitle(" Status ")

	insp.SectionsView.SetText(formatSections(st))
	insp.LabelsView.SetText(formatLabels(st))
	insp.StatusView.SetText(formatStatus(st, putErr))

	top := tview.NewFlex().
		AddItem(insp.SectionsView, 0, 1, false).
		AddItem(insp.LabelsView, 0, 1, false)
	layout := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(top, 0, 1, false).
		AddItem(insp.StatusView, 4, 0, false)

	insp.App.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch {
		case event.Key() == tcell.KeyEscape, event.Key() == tcell.KeyCtrlC,
			event.Rune() == 'q':
			insp.App.Stop()
			return nil
		}
		return event
	})

	insp.App.SetRoot(layout, true)
	return insp
}

// Run starts the interactive loop and blocks until the user quits.
func (i *Inspector) Run() error {
	return i.App.Run()
}

func runInspector(st *dasm.State, putErr error) error {
	return NewInspector(st, putErr).Run()
}

func formatSections(st *dasm.State) string {
	var b strings.Builder
	fmt.Fprintf(&b, "active section: %d\n\n", st.ActiveSection())
	fmt.Fprintf(&b, "[yellow]sec   cells   ofs[-]\n")
	for _, info := range st.SectionInfos() {
		fmt.Fprintf(&b, "%3d   %5d   %3d\n", info.Index, info.Cells, info.Ofs)
	}
	return b.String()
}

func formatLabels(st *dasm.State) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[yellow]local/global slots[-]\n")
	for i, v := range st.LGLabelSlots() {
		if v == 0 {
			continue
		}
		fmt.Fprintf(&b, "lg %3d  %s\n", i, describeSlot(v))
	}
	fmt.Fprintf(&b, "\n[yellow]pc slots[-]\n")
	for i, v := range st.PCLabelSlots() {
		if v == 0 {
			continue
		}
		fmt.Fprintf(&b, "pc %3d  %s\n", i, describeSlot(v))
	}
	return b.String()
}

func describeSlot(v int32) string {
	if v < 0 {
		return fmt.Sprintf("[green]defined[-] at biased pos %d", -v)
	}
	return fmt.Sprintf("[red]open chain[-] head at biased pos %d", v)
}

func formatStatus(st *dasm.State, putErr error) string {
	var b strings.Builder
	fmt.Fprintf(&b, "status: %s\n", st.Status())
	if putErr != nil {
		var de *dasm.Error
		if errors.As(putErr, &de) {
			fmt.Fprintf(&b, "[red]%s[-]\n", de.Report())
		} else {
			fmt.Fprintf(&b, "[red]%v[-]\n", putErr)
		}
	}
	b.WriteString("q / Esc to quit")
	return b.String()
}
