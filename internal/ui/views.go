package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/waslerr/internal/models"
	"github.com/desertthunder/waslerr/internal/nav"
	"github.com/desertthunder/waslerr/internal/shared"
)

const brand = "♪ Waslerrfields"

var navItems = []string{"Home", "Music", "Orders", "Support"}

// navbar renders the desktop bar or the mobile header.
func (m *Model) navbar() string {
	layout := m.layout.State()
	state := m.session.State()

	left := styles.accent.Render(brand)
	var right string
	switch {
	case state.Loading:
		right = styles.muted.Render("…")
	case state.Authenticated && state.User != nil:
		right = styles.ok.Render(state.User.DisplayName()) + styles.muted.Render(" ▾ (u)")
	default:
		right = styles.accent.Render("Sign In") + styles.muted.Render(" (a)")
	}

	var bar string
	if layout.Mode == nav.Desktop {
		links := make([]string, len(navItems))
		for i, item := range navItems {
			if i == 0 && m.route == nav.RouteLanding {
				links[i] = styles.accent.Render(item)
			} else {
				links[i] = item
			}
		}
		left = left + "    " + strings.Join(links, "   ")
		bar = spread(m.width, left, right)
	} else {
		toggle := "☰ (m)"
		if layout.SidebarOpen {
			toggle = "✕ (m)"
		}
		bar = spread(m.width, left, toggle)
	}
	bar = styles.bar.Width(max(m.width, lipgloss.Width(bar))).Render(bar)

	if layout.Mode == nav.Desktop && layout.Dropdown == nav.DropdownUserMenu && state.Authenticated {
		menu := styles.card.Render(userMenu())
		bar = lipgloss.JoinVertical(lipgloss.Left, bar, lipgloss.PlaceHorizontal(m.width, lipgloss.Right, menu))
	}
	return bar
}

func userMenu() string {
	return "Your Profile (p)\n" + styles.err.Render("Sign out (o)")
}

// sidebar renders the mobile navigation panel.
func (m *Model) sidebar() string {
	layout := m.layout.State()
	state := m.session.State()

	var b strings.Builder
	for _, item := range navItems {
		b.WriteString(item + "\n")
	}
	b.WriteString("\n")
	switch {
	case state.Loading:
		b.WriteString(styles.muted.Render("Loading…"))
	case state.Authenticated && state.User != nil:
		b.WriteString(styles.ok.Render(state.User.DisplayName()) + styles.muted.Render(" ▾ (u)") + "\n")
		b.WriteString(styles.muted.Render(state.User.Email))
		if layout.Dropdown == nav.DropdownUserMenu {
			b.WriteString("\n\n" + userMenu())
		}
	default:
		b.WriteString(styles.accent.Render("Sign In (a)"))
	}
	return styles.side.Width(sidebarWidth - 2).Render(b.String())
}

func (m *Model) toast() string {
	n, ok := m.notifier.Current()
	if !ok {
		return ""
	}
	return styles.forKind(n.Kind).Render(n.Message + styles.muted.Render("  (x)"))
}

// landing renders the hero, the featured albums and the genre tiles.
func (m *Model) landing() string {
	hero := lipgloss.JoinVertical(lipgloss.Left,
		styles.title.Render("Authentic Audio Drops"),
		"Hear It. Love It. Make It Yours",
	)
	if m.layout.State().Mode == nav.Mobile {
		return lipgloss.NewStyle().Padding(1, 1).Render(lipgloss.JoinVertical(lipgloss.Left, hero, "", m.catalog.View()))
	}

	sections := []string{
		hero,
		"",
		styles.accent.Render("Featured Albums"),
		styles.muted.Render("Your original music collection"),
		albumGrid(models.FeaturedAlbums(), m.columns()),
		"",
		styles.accent.Render("Explore Genres"),
		styles.muted.Render("Discover music in your favorite styles"),
		genreTiles(models.Genres()),
	}
	return lipgloss.NewStyle().Padding(1, 2).Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

// columns is the number of album cards per row, at most four.
func (m *Model) columns() int {
	n := (m.width - 4) / (cardWidth + 2)
	return max(1, min(4, n))
}

func albumCard(a models.Album) string {
	lines := []string{
		styles.accent.Render(a.Title),
		a.Artist,
		styles.muted.Render(a.Genre),
	}
	p := styles.ok.Render(shared.FormatPrice(a.Price))
	if a.Discount() > 0 {
		p += " " + styles.muted.Strikethrough(true).Render(shared.FormatPrice(a.OriginalPrice))
	}
	lines = append(lines, p)
	if a.Badge != "" {
		lines = append(lines, styles.warn.Render(a.Badge))
	}
	return styles.card.Width(cardWidth).Render(strings.Join(lines, "\n"))
}

func albumGrid(albums []models.Album, cols int) string {
	var rows []string
	for i := 0; i < len(albums); i += cols {
		end := min(i+cols, len(albums))
		cards := make([]string, 0, end-i)
		for _, a := range albums[i:end] {
			cards = append(cards, albumCard(a))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func genreTiles(genres []models.Genre) string {
	tiles := make([]string, len(genres))
	for i, g := range genres {
		tiles[i] = styles.card.Render(styles.accent.Render(g.Name) + "\n" + styles.muted.Render(g.Label()))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tiles...)
}

func (m *Model) profile() string {
	state := m.session.State()
	pad := lipgloss.NewStyle().Padding(1, 2)
	switch {
	case state.Loading:
		return pad.Render(styles.muted.Render("Loading…"))
	case !state.Authenticated || state.User == nil:
		return pad.Render(styles.title.Render("Your Profile") + "\n" +
			"You are not signed in. Press " + styles.accent.Render("a") + " to sign in.")
	}

	u := state.User.WithDefaults()
	rows := []string{
		styles.title.Render("Your Profile"),
		fmt.Sprintf("%-8s %s", "Name", u.Name),
		fmt.Sprintf("%-8s %s", "Email", u.Email),
		fmt.Sprintf("%-8s %s", "Role", u.Role),
	}
	if u.ID != "" {
		rows = append(rows, fmt.Sprintf("%-8s %s", "ID", styles.muted.Render(u.ID)))
	}
	rows = append(rows, "", styles.help.Render("r re-validates the session with the server"))
	return pad.Render(strings.Join(rows, "\n"))
}

// spread places left and right at opposite ends of width columns.
func spread(width int, left, right string) string {
	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}
