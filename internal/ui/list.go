package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/waslerr/internal/models"
	"github.com/desertthunder/waslerr/internal/shared"
)

var (
	_ list.Item = albumItem{}
	_ list.Item = genreItem{}
)

// albumItem wraps [models.Album] to implement [list.Item].
type albumItem struct {
	album models.Album
}

func (i albumItem) FilterValue() string { return i.album.Title }
func (i albumItem) Title() string       { return i.album.Title }
func (i albumItem) Description() string {
	desc := fmt.Sprintf("%s • %s", i.album.Artist, shared.FormatPrice(i.album.Price))
	if i.album.Badge != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.album.Badge)
	}
	return desc
}

// genreItem wraps [models.Genre] to implement [list.Item].
type genreItem struct {
	genre models.Genre
}

func (i genreItem) FilterValue() string { return i.genre.Name }
func (i genreItem) Title() string       { return i.genre.Name }
func (i genreItem) Description() string { return i.genre.Label() }

// catalogItems lists the featured albums followed by the genre tiles.
func catalogItems() []list.Item {
	albums := models.FeaturedAlbums()
	genres := models.Genres()
	items := make([]list.Item, 0, len(albums)+len(genres))
	for _, a := range albums {
		items = append(items, albumItem{album: a})
	}
	for _, g := range genres {
		items = append(items, genreItem{genre: g})
	}
	return items
}

func newCatalogList() list.Model {
	l := list.New(catalogItems(), list.NewDefaultDelegate(), 0, 0)
	l.Title = "Featured Albums"
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	return l
}
