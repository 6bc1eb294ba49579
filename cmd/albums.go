package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/desertthunder/waslerr/internal/formatter"
	"github.com/desertthunder/waslerr/internal/models"
	"github.com/desertthunder/waslerr/internal/shared"
	"github.com/urfave/cli/v3"
)

// AlbumsList prints the featured albums, optionally filtered by genre.
func (r *Runner) AlbumsList(ctx context.Context, cmd *cli.Command) error {
	albums := models.FeaturedAlbums()
	if genre := strings.TrimSpace(cmd.String("genre")); genre != "" {
		filtered := albums[:0]
		for _, a := range albums {
			if strings.EqualFold(a.Genre, genre) {
				filtered = append(filtered, a)
			}
		}
		albums = filtered
	}

	if cmd.Bool("json") {
		return r.writeJSON(albums, cmd.Bool("pretty"))
	}

	if len(albums) == 0 {
		return r.writePlain("No albums found\n")
	}
	data, err := formatter.ExportToText(albums)
	if err != nil {
		return err
	}
	return r.writePlain("%s", data)
}

// AlbumsShow prints a single album.
func (r *Runner) AlbumsShow(ctx context.Context, cmd *cli.Command) error {
	raw := cmd.StringArg("id")
	if raw == "" {
		return fmt.Errorf("%w: album id", shared.ErrMissingArgument)
	}
	id, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("%w: album id %q is not a number", shared.ErrInvalidArgument, raw)
	}

	a, ok := models.FindAlbum(id)
	if !ok {
		return fmt.Errorf("%w: %d", shared.ErrAlbumNotFound, id)
	}

	r.writePlainHeader(a.Title)
	r.writePlain("Artist: %s\n", a.Artist)
	r.writePlain("Genre:  %s\n", a.Genre)
	r.writePlain("Price:  %s", shared.FormatPrice(a.Price))
	if d := a.Discount(); d > 0 {
		r.writePlain(" (was %s, save %s)", shared.FormatPrice(a.OriginalPrice), shared.FormatPrice(d))
	}
	r.writePlain("\n")
	if a.Badge != "" {
		r.writePlain("Badge:  %s\n", a.Badge)
	}
	return nil
}

// AlbumsGenres prints the genre tiles.
func (r *Runner) AlbumsGenres(ctx context.Context, cmd *cli.Command) error {
	genres := models.Genres()
	if cmd.Bool("json") {
		return r.writeJSON(genres, true)
	}
	for _, g := range genres {
		r.writePlain("%-12s %s\n", g.Name, g.Label())
	}
	return nil
}

// AlbumsExport writes the featured albums to a file.
func (r *Runner) AlbumsExport(ctx context.Context, cmd *cli.Command) error {
	f, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	path, err := formatter.WriteExport(models.FeaturedAlbums(), f, cmd.String("output"))
	if err != nil {
		return err
	}

	r.logger.Info("exported featured albums", "format", f, "path", path)
	return r.writePlain("✓ Exported %d albums to %s\n", len(models.FeaturedAlbums()), path)
}
