package ui

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/waslerr/internal/auth"
	"github.com/desertthunder/waslerr/internal/nav"
	"github.com/desertthunder/waslerr/internal/notify"
	"github.com/desertthunder/waslerr/internal/session"
	"github.com/desertthunder/waslerr/internal/shared"
)

// DefaultCellWidth is the assumed width of a terminal cell in logical pixels.
const DefaultCellWidth = 8

const (
	sidebarWidth = 26
	headerHeight = 2
	cardWidth    = 28
)

// API is the remote backend used by the storefront.
type API interface {
	auth.Authenticator
	session.ProfileFetcher
}

// Options configures a [Model].
type Options struct {
	Context context.Context
	Store   session.Store
	API     API
	Logger  *log.Logger
	// DesktopMinWidth is the desktop threshold in logical pixels. Defaults to [nav.DesktopMinWidth].
	DesktopMinWidth int
	// CellWidth converts columns to logical pixels. Defaults to [DefaultCellWidth].
	CellWidth int
	ToastTTL  time.Duration
}

// Model is the root TUI model. It also serves as the [nav.Navigator] handed to
// the controllers; navigations they request are applied at the end of Update.
type Model struct {
	ctx       context.Context
	api       API
	store     session.Store
	logger    *log.Logger
	cellWidth int

	layout   *nav.Layout
	notifier *notify.Notifier
	session  *session.Controller

	route   nav.Route
	pending []nav.Visit
	form    *authForm
	toastID uint64

	changes     <-chan session.Change
	unsubscribe func()

	catalog list.Model
	help    help.Model
	keys    keyMap
	width   int
	height  int
}

var (
	_ tea.Model     = (*Model)(nil)
	_ nav.Navigator = (*Model)(nil)
)

// New creates the root model on the landing route.
func New(opts Options) *Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	cellWidth := opts.CellWidth
	if cellWidth <= 0 {
		cellWidth = DefaultCellWidth
	}
	threshold := opts.DesktopMinWidth
	if threshold <= 0 {
		threshold = nav.DesktopMinWidth
	}

	m := &Model{
		ctx:       ctx,
		api:       opts.API,
		store:     opts.Store,
		logger:    logger,
		cellWidth: cellWidth,
		layout:    nav.NewLayout(threshold),
		notifier:  notify.New(notify.Options{TTL: opts.ToastTTL}),
		route:     nav.RouteLanding,
		catalog:   newCatalogList(),
		help:      help.New(),
		keys:      newKeyMap(),
	}
	m.session = session.NewController(session.ControllerOpts{
		Store:     opts.Store,
		API:       opts.API,
		Menus:     m.layout,
		Navigator: m,
		Logger:    logger,
	})
	if opts.Store != nil {
		m.changes, m.unsubscribe = opts.Store.Subscribe()
	}
	return m
}

// Navigate queues a route change.
func (m *Model) Navigate(route nav.Route, reload bool) {
	m.pending = append(m.pending, nav.Visit{Route: route, Reload: reload})
}

// Route returns the current route.
func (m *Model) Route() nav.Route { return m.route }

// Close releases the storage subscription.
func (m *Model) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.initSession(), m.waitForChange())
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.layout.Resize(msg.Width * m.cellWidth)
	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress {
			m.layout.PointerDown(m.insideSidebar(msg.X, msg.Y))
		}
	case tea.KeyMsg:
		cmds = append(cmds, m.handleKey(msg))
	case Msg:
		cmds = append(cmds, m.handleMsg(msg))
	default:
		if m.form != nil {
			cmds = append(cmds, m.form.update(msg))
		}
	}

	cmds = append(cmds, m.applyNavigation(), m.syncToast())
	m.resizeCatalog()
	return m, tea.Batch(cmds...)
}

func (m *Model) handleMsg(msg Msg) tea.Cmd {
	switch msg.kind {
	case MsgSessionLoaded:
		state := msg.data.(session.State)
		m.logger.Debug("session loaded", "authenticated", state.Authenticated)
	case MsgStorageChanged:
		change := msg.data.(session.Change)
		m.logger.Debug("storage changed", "key", change.Key, "external", change.External)
		return tea.Batch(m.reloadSession(change.Key), m.waitForChange())
	case MsgAuthResult:
		return m.completeAuth(msg.data.(authResult))
	case MsgProfileRefreshed:
		res := msg.data.(refreshResult)
		switch {
		case res.err == nil:
			m.notifier.Show("Profile refreshed", notify.KindInfo)
		case errors.Is(res.err, shared.ErrNotAuthenticated):
			m.notifier.Show("You are not signed in", notify.KindInfo)
		default:
			m.logger.Warn("profile refresh failed", "error", res.err)
			m.notifier.Show("Your session has expired. Please sign in again.", notify.KindError)
		}
	case MsgToastExpired:
		m.notifier.Expire(msg.data.(uint64))
	}
	return nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if m.route == nav.RouteAuth && m.form != nil {
		if key.Matches(msg, m.form.keys.quit) {
			return m.quit()
		}
		cmd, action := m.form.handleKey(msg)
		switch action {
		case formSubmit:
			return m.submit()
		case formLeave:
			m.Navigate(nav.RouteLanding, false)
		}
		return cmd
	}

	state := m.session.State()
	switch {
	case key.Matches(msg, m.keys.quit):
		return m.quit()
	case key.Matches(msg, m.keys.home):
		m.Navigate(nav.RouteLanding, false)
	case key.Matches(msg, m.keys.login):
		if !state.Authenticated {
			m.layout.CloseMenus()
			m.Navigate(nav.RouteAuth, false)
		}
	case key.Matches(msg, m.keys.profile):
		m.layout.CloseMenus()
		m.Navigate(nav.RouteProfile, false)
	case key.Matches(msg, m.keys.logout):
		if state.Authenticated {
			if err := m.session.Logout(m.ctx); err != nil {
				m.notifier.Show("Failed to clear the stored session", notify.KindError)
			}
		}
	case key.Matches(msg, m.keys.refresh):
		return m.refreshProfile()
	case key.Matches(msg, m.keys.sidebar):
		m.layout.ToggleSidebar()
	case key.Matches(msg, m.keys.userMenu):
		if state.Authenticated {
			m.layout.ToggleUserMenu()
		}
	case key.Matches(msg, m.keys.dismiss):
		m.notifier.Close()
	default:
		if m.route == nav.RouteLanding && m.layout.State().Mode == nav.Mobile {
			var cmd tea.Cmd
			m.catalog, cmd = m.catalog.Update(msg)
			return cmd
		}
	}
	return nil
}

func (m *Model) quit() tea.Cmd {
	m.Close()
	return tea.Quit
}

// submit validates the form and sends the request off the event loop.
func (m *Model) submit() tea.Cmd {
	form := m.form
	req, err := form.ctrl.Begin()
	if err != nil {
		m.logger.Debug("submission not started", "error", err)
		return nil
	}
	ctx := m.ctx
	return func() tea.Msg {
		resp, err := form.ctrl.Send(ctx, req)
		return authResultMsg(form, req, resp, err)
	}
}

// completeAuth applies a submission result, unless the form it belongs to was left.
func (m *Model) completeAuth(res authResult) tea.Cmd {
	if res.form != m.form || m.route != nav.RouteAuth {
		m.logger.Debug("discarding auth result for an unmounted form")
		return nil
	}
	out, err := res.form.ctrl.Complete(m.ctx, res.req, res.resp, res.err)
	if err != nil {
		m.logger.Debug("auth result not applied", "error", err)
		return nil
	}
	if out.Success {
		m.logger.Info("signed in", "mode", res.req.Mode)
		res.form.reset()
	}
	return nil
}

func (m *Model) refreshProfile() tea.Cmd {
	ctrl, ctx := m.session, m.ctx
	return func() tea.Msg {
		state, err := ctrl.Refresh(ctx)
		return profileRefreshedMsg(state, err)
	}
}

func (m *Model) initSession() tea.Cmd {
	ctrl, ctx := m.session, m.ctx
	return func() tea.Msg {
		return sessionLoadedMsg(ctrl.Initialize(ctx))
	}
}

func (m *Model) reloadSession(key string) tea.Cmd {
	ctrl, ctx := m.session, m.ctx
	return func() tea.Msg {
		ctrl.OnExternalSessionChange(ctx, key)
		return sessionLoadedMsg(ctrl.State())
	}
}

// waitForChange blocks on the storage subscription.
func (m *Model) waitForChange() tea.Cmd {
	ch := m.changes
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		change, ok := <-ch
		if !ok {
			return nil
		}
		return storageChangedMsg(change)
	}
}

// applyNavigation performs queued navigations. A reload rebuilds the
// session-derived state and drops any mounted form.
func (m *Model) applyNavigation() tea.Cmd {
	var cmds []tea.Cmd
	for len(m.pending) > 0 {
		v := m.pending[0]
		m.pending = m.pending[1:]
		cmds = append(cmds, m.goTo(v.Route, v.Reload))
	}
	return tea.Batch(cmds...)
}

func (m *Model) goTo(route nav.Route, reload bool) tea.Cmd {
	if m.route == route && !reload {
		return nil
	}
	m.logger.Debug("navigate", "from", m.route, "to", route, "reload", reload)

	m.form = nil
	m.route = route

	var cmds []tea.Cmd
	if reload {
		m.layout.CloseMenus()
		cmds = append(cmds, m.initSession())
	}
	if route == nav.RouteAuth {
		m.form = newAuthForm(auth.ControllerOpts{
			API:       m.api,
			Store:     m.store,
			Notifier:  m.notifier,
			Navigator: m,
			Logger:    m.logger,
		})
		cmds = append(cmds, textinput.Blink)
	}
	return tea.Batch(cmds...)
}

// syncToast arms a dismissal tick for a notification not yet scheduled.
func (m *Model) syncToast() tea.Cmd {
	n, ok := m.notifier.Current()
	if !ok || n.ID == m.toastID {
		return nil
	}
	m.toastID = n.ID
	id := n.ID
	return tea.Tick(m.notifier.TTL(), func(time.Time) tea.Msg {
		return toastExpiredMsg(id)
	})
}

func (m *Model) insideSidebar(x, y int) bool {
	state := m.layout.State()
	return state.Mode == nav.Mobile && state.SidebarOpen && x < sidebarWidth && y >= headerHeight
}

func (m *Model) resizeCatalog() {
	w := m.width
	if m.layout.State().SidebarOpen {
		w -= sidebarWidth
	}
	h := m.height - headerHeight - 10
	if h < 5 {
		h = 5
	}
	if w < 10 {
		w = 10
	}
	m.catalog.SetSize(w, h)
}

func (m *Model) View() string {
	header := m.navbar()
	body := m.body()

	if state := m.layout.State(); state.Mode == nav.Mobile && state.SidebarOpen {
		body = lipgloss.JoinHorizontal(lipgloss.Top, m.sidebar(), body)
	}

	parts := []string{header}
	if toast := m.toast(); toast != "" {
		parts = append(parts, lipgloss.PlaceHorizontal(m.width, lipgloss.Right, toast))
	}
	parts = append(parts, body)
	if m.route != nav.RouteAuth {
		parts = append(parts, "", m.help.FullHelpView(m.keys.FullHelp()))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m *Model) body() string {
	switch m.route {
	case nav.RouteAuth:
		if m.form != nil {
			return lipgloss.NewStyle().Padding(1, 2).Render(m.form.view(styles))
		}
	case nav.RouteProfile:
		return m.profile()
	}
	return m.landing()
}
