package ui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/five82/showcase/internal/catalog"
	"github.com/five82/showcase/internal/imageload"
	"github.com/five82/showcase/internal/prefs"
	"github.com/five82/showcase/internal/session"
	"github.com/five82/showcase/internal/source"
	"github.com/five82/showcase/internal/status"
)

// field identifies the form input that has focus.
type field int

const (
	fieldNone field = iota
	fieldPrice
	fieldNote
)

// Options configures the UI.
type Options struct {
	Context   context.Context
	Session   *session.Session
	Source    source.Fetcher
	ThemeName string
	PrefsPath string
	// ResumeID selects the product shown first when it exists.
	ResumeID    string
	LoadTimeout time.Duration
	Logger      *zap.Logger
}

// Model is the root application state for Bubble Tea.
type Model struct {
	ctx         context.Context
	session     *session.Session
	source      source.Fetcher
	prefsPath   string
	resumeID    string
	loadTimeout time.Duration
	log         *zap.Logger

	// UI state
	theme  Theme
	keys   keyMap
	width  int
	height int
	ready  bool

	loading bool // catalog fetch in flight

	// Form for the current product
	priceInput   textinput.Model
	noteInput    textinput.Model
	notAvailable bool
	focus        field

	// Deadline of the status message a redraw is already scheduled for
	statusDeadline time.Time

	showHelp bool
	modal    Modal
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = "Nightfox"
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	loadTimeout := opts.LoadTimeout
	if loadTimeout <= 0 {
		loadTimeout = 30 * time.Second
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	sess := opts.Session
	if sess == nil {
		sess = session.New(session.Options{Logger: logger})
	}

	price := textinput.New()
	price.Placeholder = "blank = no price"
	price.CharLimit = priceCharLimit
	price.Prompt = ""

	note := textinput.New()
	note.Placeholder = "add a note"
	note.CharLimit = noteCharLimit
	note.Prompt = ""

	return Model{
		ctx:         ctx,
		session:     sess,
		source:      opts.Source,
		prefsPath:   prefsPath,
		resumeID:    opts.ResumeID,
		loadTimeout: loadTimeout,
		log:         logger,
		theme:       GetTheme(themeName),
		keys:        DefaultKeyMap(),
		loading:     opts.Source != nil,
		priceInput:  price,
		noteInput:   note,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	if m.source != nil {
		return loadCatalogCmd(m.ctx, m.session, m.source, m.loadTimeout)
	}
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.resizeInputs()
		return m, nil

	case catalogLoadedMsg:
		m.loading = false
		if msg.err != nil {
			return m, nil
		}
		if msg.stats.Skipped > 0 {
			m.session.Notify("Skipped "+pluralize(msg.stats.Skipped, "record")+" without a title or image",
				status.LevelWarning, 4*time.Second)
		}
		ticket, ok := m.session.Open(m.resumeID)
		m.resetForm()
		if !ok {
			return m, m.scheduleStatusExpiry()
		}
		return m, tea.Batch(loadImageCmd(m.ctx, m.session, ticket), m.scheduleStatusExpiry())

	case imageLoadedMsg:
		if m.session.ResolveImage(imageload.Result(msg)) {
			return m, m.scheduleStatusExpiry()
		}
		return m, nil

	case statusExpiredMsg:
		// A stale expiry only triggers a redraw; the notifier decides
		// what is visible.
		if time.Time(msg).Equal(m.statusDeadline) {
			m.statusDeadline = time.Time{}
		}
		return m, m.scheduleStatusExpiry()
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelp()
	}

	if m.modal != nil {
		return m.modal.View(m.theme, m.width, m.height)
	}

	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.modal != nil {
		modal, cmd, done := m.modal.Update(msg, m.keys)
		if done {
			m.modal = nil
		} else {
			m.modal = modal
		}
		return m, cmd
	}

	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	if msg.String() == "ctrl+c" {
		return m.quit()
	}

	if m.focus != fieldNone {
		return m.handleFieldKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.savePrefs()
		return m, nil
	}

	if m.loading || m.session.Empty() {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Prev):
		return m.navigate(-1)

	case key.Matches(msg, m.keys.Next):
		return m.navigate(1)

	case key.Matches(msg, m.keys.First):
		return m.jump(0)

	case key.Matches(msg, m.keys.Last):
		return m.jump(-1)

	case key.Matches(msg, m.keys.EditPrice):
		return m.focusField(fieldPrice)

	case key.Matches(msg, m.keys.EditNote):
		return m.focusField(fieldNote)

	case key.Matches(msg, m.keys.ToggleAvailability):
		// A toggle is a completed change, like leaving an edited field.
		m.notAvailable = !m.notAvailable
		return m.save()

	case key.Matches(msg, m.keys.Save):
		return m.save()

	case key.Matches(msg, m.keys.CopyAll):
		return m.copyAll()
	}

	return m, nil
}

// handleFieldKey routes keys while a text field has focus.
func (m Model) handleFieldKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		m.blurFields()
		return m.save()

	case key.Matches(msg, m.keys.Escape):
		// Leaving without saving keeps the text pending; the next
		// navigation or export commits it silently.
		m.blurFields()
		return m, nil

	case key.Matches(msg, m.keys.Tab), key.Matches(msg, m.keys.ShiftTab):
		next := fieldNote
		if m.focus == fieldNote {
			next = fieldPrice
		}
		return m.focusField(next)

	case key.Matches(msg, m.keys.PageUp):
		return m.navigate(-1)

	case key.Matches(msg, m.keys.PageDown):
		return m.navigate(1)
	}

	var cmd tea.Cmd
	switch m.focus {
	case fieldPrice:
		m.priceInput, cmd = m.priceInput.Update(msg)
	case fieldNote:
		m.noteInput, cmd = m.noteInput.Update(msg)
	}
	return m, cmd
}

func (m Model) navigate(delta int) (tea.Model, tea.Cmd) {
	ticket, ok := m.session.Navigate(delta, m.pending())
	return m.afterMove(ticket, ok)
}

func (m Model) jump(index int) (tea.Model, tea.Cmd) {
	ticket, ok := m.session.Jump(index, m.pending())
	return m.afterMove(ticket, ok)
}

func (m Model) afterMove(ticket imageload.Ticket, ok bool) (tea.Model, tea.Cmd) {
	focus := m.focus
	m.resetForm()
	if focus != fieldNone {
		m.focusInput(focus)
	}
	if !ok {
		return m, m.scheduleStatusExpiry()
	}
	return m, tea.Batch(loadImageCmd(m.ctx, m.session, ticket), m.scheduleStatusExpiry())
}

func (m Model) save() (tea.Model, tea.Cmd) {
	m.session.Save(m.pending())
	m.resetForm()
	return m, m.scheduleStatusExpiry()
}

func (m Model) copyAll() (tea.Model, tea.Cmd) {
	err := m.session.CopyAll(m.pending())
	m.resetForm()
	if err != nil {
		m.modal = newAckModal("Copy failed",
			"The product list could not be copied to the clipboard: "+err.Error(),
			status.LevelError)
	} else {
		_, count := m.session.Position()
		m.modal = newAckModal("Ready to share",
			pluralize(count, "product")+" copied to the clipboard. Paste it anywhere to share.",
			status.LevelSuccess)
	}
	return m, m.scheduleStatusExpiry()
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.savePrefs()
	m.session.Close()
	return m, tea.Quit
}

func (m Model) focusField(f field) (tea.Model, tea.Cmd) {
	m.blurFields()
	return m, m.focusInput(f)
}

func (m *Model) focusInput(f field) tea.Cmd {
	m.focus = f
	switch f {
	case fieldPrice:
		return m.priceInput.Focus()
	case fieldNote:
		return m.noteInput.Focus()
	}
	return nil
}

func (m *Model) blurFields() {
	m.priceInput.Blur()
	m.noteInput.Blur()
	m.focus = fieldNone
}

// pending returns the form values as an uncommitted edit.
func (m Model) pending() catalog.Edit {
	return catalog.Edit{
		Price:        m.priceInput.Value(),
		NotAvailable: m.notAvailable,
		Note:         m.noteInput.Value(),
	}
}

// resetForm loads the current product into the form.
func (m *Model) resetForm() {
	m.blurFields()
	p, ok := m.session.Current()
	if !ok {
		m.priceInput.SetValue("")
		m.noteInput.SetValue("")
		m.notAvailable = false
		return
	}
	edit := catalog.EditFor(p)
	m.priceInput.SetValue(edit.Price)
	m.noteInput.SetValue(edit.Note)
	m.notAvailable = edit.NotAvailable
}

func (m *Model) resizeInputs() {
	_, detailWidth := m.paneWidths()
	w := max(detailWidth-fieldLabelWidth-6, 8)
	m.priceInput.Width = w
	m.noteInput.Width = w
}

func (m Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	p := prefs.Prefs{Theme: m.theme.Name}
	if cur, ok := m.session.Current(); ok {
		p.LastProductID = cur.ID
	}
	if err := prefs.Save(m.prefsPath, p); err != nil {
		m.log.Warn("save preferences failed", zap.Error(err))
	}
}

// scheduleStatusExpiry asks for a redraw when the visible status message
// expires. Each message gets at most one timer.
func (m *Model) scheduleStatusExpiry() tea.Cmd {
	msg, ok := m.session.Status()
	if !ok || msg.Deadline.Equal(m.statusDeadline) {
		return nil
	}
	m.statusDeadline = msg.Deadline
	return statusExpiryCmd(msg.Deadline, msg.Remaining(time.Now()))
}

// Messages

type catalogLoadedMsg struct {
	stats catalog.LoadStats
	err   error
}

type imageLoadedMsg imageload.Result

type statusExpiredMsg time.Time

// Commands

func loadCatalogCmd(ctx context.Context, sess *session.Session, src source.Fetcher, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		loadCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		stats, err := sess.Load(loadCtx, src)
		return catalogLoadedMsg{stats: stats, err: err}
	}
}

func loadImageCmd(ctx context.Context, sess *session.Session, ticket imageload.Ticket) tea.Cmd {
	return func() tea.Msg {
		return imageLoadedMsg(sess.LoadImage(ctx, ticket))
	}
}

func statusExpiryCmd(deadline time.Time, after time.Duration) tea.Cmd {
	// Tick a hair past the deadline so the notifier already reports expiry.
	return tea.Tick(after+10*time.Millisecond, func(time.Time) tea.Msg {
		return statusExpiredMsg(deadline)
	})
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	return err
}
