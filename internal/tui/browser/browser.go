package browser

import (
	"fmt"
	"time"

	"guidebook/internal/logging"
	"guidebook/internal/templates"
	"guidebook/internal/tui/helpers"
	"guidebook/internal/tui/styles"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"
)

const (
	title = "Guidebook"

	// descriptionWidth caps a list item's summary line.
	descriptionWidth = 72
)

type KeyMap struct {
	Open key.Binding
	Back key.Binding
	Up   key.Binding
	Down key.Binding
	Quit key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Open: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		Back: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Up:   key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down: key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Quit: key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// listKeys is the help shown while choosing a template.
type listKeys struct{ KeyMap }

func (k listKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Open, k.Quit}
}

func (k listKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// documentKeys is the help shown while reading a document.
type documentKeys struct{ KeyMap }

func (k documentKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Back, k.Quit}
}

func (k documentKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

type state int

const (
	stateList state = iota
	stateDocument
)

// Item is one template in the list.
type Item struct {
	Info    templates.Info
	Summary string
}

func (i Item) Title() string { return i.Info.Language }

func (i Item) Description() string {
	desc := i.Info.Category.Title()
	if i.Summary != "" {
		desc += " · " + i.Summary
	}
	return truncate.StringWithTail(desc, descriptionWidth, "…")
}

func (i Item) FilterValue() string {
	return i.Info.Language + " " + i.Info.Category.Kind()
}

type (
	// TemplatesLoadedMsg carries the result of scanning the templates
	// directory.
	TemplatesLoadedMsg struct {
		Items []Item
		Err   error
	}

	// DocumentLoadedMsg carries a read and rendered template.
	DocumentLoadedMsg struct {
		Doc      templates.Document
		Rendered string
		Err      error
	}
)

// Options tune rendering. The zero value detects the glamour style from the
// terminal.
type Options struct {
	// GlamourStyle is a glamour standard style name. Empty means detect.
	GlamourStyle string
	// Raw disables markdown rendering.
	Raw bool
}

// Model browses the templates of an Index.
type Model struct {
	index  *templates.Index
	logger *logging.AppLogger
	opts   Options

	state    state
	list     list.Model
	viewport viewport.Model
	help     help.Model
	keys     KeyMap

	current templates.Document
	err     error
	loaded  bool

	width  int
	height int
}

func New(index *templates.Index, ctx helpers.UIContext, opts Options) *Model {
	logger := ctx.Logger
	if logger == nil {
		logger = logging.GetDefault()
	}

	l := list.New(nil, list.NewDefaultDelegate(), ctx.Width, ctx.Height)
	l.Title = "Templates"
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(true)
	// q and ctrl+c are handled here so that they also work from the document.
	l.KeyMap.Quit.SetEnabled(false)
	l.KeyMap.ForceQuit.SetEnabled(false)

	vp := viewport.New(ctx.Width, ctx.Height)
	vp.MouseWheelEnabled = true

	m := &Model{
		index:    index,
		logger:   logger,
		opts:     opts,
		list:     l,
		viewport: vp,
		help:     help.New(),
		keys:     DefaultKeyMap(),
		width:    ctx.Width,
		height:   ctx.Height,
	}
	if ctx.HasValidDimensions() {
		m.resize(ctx.Width, ctx.Height)
	}
	return m
}

func (m *Model) Init() tea.Cmd {
	if !m.opts.Raw && m.opts.GlamourStyle == "" {
		m.opts.GlamourStyle = helpers.DetectGlamourStyle(50 * time.Millisecond)
		m.logger.Debug("Glamour style selected", "style", m.opts.GlamourStyle)
	}
	return m.loadTemplates()
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m.logger.LogMessage(msg)

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case TemplatesLoadedMsg:
		m.loaded = true
		m.err = msg.Err
		items := make([]list.Item, len(msg.Items))
		for i, it := range msg.Items {
			items[i] = it
		}
		return m, m.list.SetItems(items)

	case DocumentLoadedMsg:
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		m.err = nil
		m.current = msg.Doc
		m.viewport.SetContent(msg.Rendered)
		m.state = stateDocument
		if m.width > 0 && m.height > 0 {
			m.resize(m.width, m.height)
		}
		m.viewport.GotoTop()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.forward(msg)
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	filtering := m.state == stateList && m.list.FilterState() == list.Filtering

	if msg.String() == "ctrl+c" || (!filtering && key.Matches(msg, m.keys.Quit)) {
		return m, tea.Quit
	}

	switch m.state {
	case stateList:
		if !filtering && key.Matches(msg, m.keys.Open) {
			if it, ok := m.list.SelectedItem().(Item); ok {
				return m, m.loadDocument(it.Info)
			}
			return m, nil
		}
	case stateDocument:
		if key.Matches(msg, m.keys.Back) {
			m.state = stateList
			m.err = nil
			if m.width > 0 && m.height > 0 {
				m.resize(m.width, m.height)
			}
			return m, nil
		}
	}

	return m.forward(msg)
}

// forward passes msg to the active component.
func (m *Model) forward(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if m.state == stateDocument {
		m.viewport, cmd = m.viewport.Update(msg)
	} else {
		m.list, cmd = m.list.Update(msg)
	}
	return m, cmd
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height
	m.help.Width = width

	frameW, frameH := styles.PaneStyle.GetFrameSize()
	headerH := lipgloss.Height(m.headerView())
	helpH := lipgloss.Height(m.helpView())

	contentW := max(width-frameW-1, 20)
	contentH := max(height-headerH-helpH-frameH, 5)

	m.list.SetSize(contentW, contentH)
	m.viewport.Width = contentW
	m.viewport.Height = contentH
}

func (m *Model) headerView() string {
	header := styles.TitleStyle.Render(title)
	subtitle := m.index.Dir()
	if m.state == stateDocument {
		subtitle = fmt.Sprintf("%s · %s", m.current.Category.Title(), m.current.Filename)
		if summary := m.current.Summary(); summary != "" {
			subtitle += "\n" + wordwrap.String(summary, max(m.width-4, 20))
		}
	}
	header = lipgloss.JoinVertical(lipgloss.Left, header, styles.SubtitleStyle.Render(subtitle))
	return styles.HeaderContainerStyle.Render(header)
}

func (m *Model) helpView() string {
	var keys help.KeyMap = listKeys{m.keys}
	if m.state == stateDocument {
		keys = documentKeys{m.keys}
	}
	return styles.HelpContainerStyle.Render(styles.HelpStyle.Render(m.help.View(keys)))
}

func (m *Model) View() string {
	var body string
	switch {
	case m.state == stateDocument:
		body = styles.PaneFocusedStyle.Render(m.viewport.View())
	case !m.loaded:
		body = styles.PaneStyle.Render("Loading templates...")
	case len(m.list.Items()) == 0 && m.err == nil:
		body = styles.PaneStyle.Render("No templates found in " + m.index.Dir())
	default:
		body = styles.PaneFocusedStyle.Render(m.list.View())
	}
	body = styles.MainContainerStyle.Render(body)

	parts := []string{m.headerView(), body}
	if m.err != nil {
		parts = append(parts, styles.MainContainerStyle.Render(styles.ErrorStyle.Render(templates.Sentinel(m.err))))
	}
	parts = append(parts, m.helpView())

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// Current returns the open document, if any.
func (m *Model) Current() (templates.Document, bool) {
	return m.current, m.state == stateDocument
}

// Err returns the last load error.
func (m *Model) Err() error {
	return m.err
}

//  COMMANDS

func (m *Model) loadTemplates() tea.Cmd {
	index := m.index
	return func() tea.Msg {
		listing, err := index.List()
		if err != nil {
			return TemplatesLoadedMsg{Err: err}
		}

		entries := listing.Entries()
		items := make([]Item, 0, len(entries))
		for _, info := range entries {
			it := Item{Info: info}
			if doc, err := index.Get(info.Language, info.Category); err == nil {
				it.Summary = doc.Summary()
			}
			items = append(items, it)
		}
		return TemplatesLoadedMsg{Items: items}
	}
}

func (m *Model) loadDocument(info templates.Info) tea.Cmd {
	index, opts, logger := m.index, m.opts, m.logger
	width := m.viewport.Width - 2

	return func() tea.Msg {
		start := time.Now()
		defer logger.LogPerformance("render_template", start)

		doc, err := index.Get(info.Language, info.Category)
		if err != nil {
			return DocumentLoadedMsg{Err: err}
		}
		if opts.Raw {
			return DocumentLoadedMsg{Doc: doc, Rendered: doc.Content}
		}

		rendered, err := helpers.RenderMarkdown(doc.Content, opts.GlamourStyle, width)
		if err != nil {
			logger.Warn("Markdown rendering failed, showing raw content", "file", doc.Filename, "error", err)
			rendered = doc.Content
		}
		return DocumentLoadedMsg{Doc: doc, Rendered: rendered}
	}
}
