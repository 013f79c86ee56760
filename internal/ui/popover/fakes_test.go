package popover

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/riordanpawley/floatui/internal/core/bus"
	"github.com/riordanpawley/floatui/internal/core/tick"
	"github.com/riordanpawley/floatui/internal/domain"
	"github.com/riordanpawley/floatui/internal/services/affix"
)

// recordingAffixer wraps a CellAffixer and records every call made against
// it and its handles
type recordingAffixer struct {
	inner *affix.CellAffixer
	calls []string
}

func newRecordingAffixer(w, h int) *recordingAffixer {
	return &recordingAffixer{inner: affix.NewCellAffixer(w, h, nil)}
}

func (r *recordingAffixer) log(call string) {
	r.calls = append(r.calls, call)
}

func (r *recordingAffixer) count(call string) int {
	n := 0
	for _, c := range r.calls {
		if c == call {
			n++
		}
	}
	return n
}

func (r *recordingAffixer) AffixTo(target domain.Rect, content domain.Size, cfg affix.Config) affix.Handle {
	r.log("AffixTo")
	return &recordingHandle{Handle: r.inner.AffixTo(target, content, cfg), rec: r}
}

type recordingHandle struct {
	affix.Handle
	rec *recordingAffixer
}

func (h *recordingHandle) wrap(unsub func()) func() {
	return func() {
		h.rec.log("unsubscribe")
		unsub()
	}
}

func (h *recordingHandle) OnPlacementChange(fn func(domain.Placement)) func() {
	h.rec.log("OnPlacementChange")
	return h.wrap(h.Handle.OnPlacementChange(fn))
}

func (h *recordingHandle) OnOffsetChange(fn func(domain.Point)) func() {
	h.rec.log("OnOffsetChange")
	return h.wrap(h.Handle.OnOffsetChange(fn))
}

func (h *recordingHandle) OnOverflowScroll(fn func()) func() {
	h.rec.log("OnOverflowScroll")
	return h.wrap(h.Handle.OnOverflowScroll(fn))
}

func (h *recordingHandle) Update(target domain.Rect, size domain.Size, cfg affix.Config) {
	h.rec.log("Update")
	h.Handle.Update(target, size, cfg)
}

func (h *recordingHandle) Destroy() {
	h.rec.log("Destroy")
	h.Handle.Destroy()
}

// fixedView renders a block of the given size
type fixedView struct {
	size domain.Size
}

func (v fixedView) View() string {
	row := strings.Repeat("x", v.size.W)
	rows := make([]string, v.size.H)
	for i := range rows {
		rows[i] = row
	}
	return strings.Join(rows, "\n")
}

func (v fixedView) Measure() domain.Size {
	return v.size
}

// commandLog records every command delivered on a bus
type commandLog struct {
	commands []bus.Command
}

func watch(b *bus.Bus) *commandLog {
	l := &commandLog{}
	b.Subscribe(func(c bus.Command) {
		l.commands = append(l.commands, c)
	})
	return l
}

func (l *commandLog) count(c bus.Command) int {
	n := 0
	for _, got := range l.commands {
		if got == c {
			n++
		}
	}
	return n
}

func (l *commandLog) reset() {
	l.commands = nil
}

// collect runs cmd and flattens batches into the produced messages
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

// settle feeds flush messages back into p until nothing is deferred and
// returns every other message produced along the way
func settle(p *Popover, cmd tea.Cmd) []tea.Msg {
	var out []tea.Msg
	for range 10 {
		msgs := collect(cmd)
		cmd = nil
		var next []tea.Cmd
		for _, m := range msgs {
			if f, ok := m.(tick.FlushMsg); ok {
				c, _ := p.Update(f)
				next = append(next, c)
				continue
			}
			out = append(out, m)
		}
		if len(next) == 0 {
			return out
		}
		cmd = tea.Batch(next...)
	}
	return out
}
