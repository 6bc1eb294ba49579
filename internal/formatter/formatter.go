// package formatter exports the featured catalog to CSV, Markdown and plain text and renders session summaries
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/waslerr/internal/models"
	"github.com/desertthunder/waslerr/internal/shared"
)

// Format is an export format.
type Format string

const (
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "md"
	FormatText     Format = "txt"
	FormatJSON     Format = "json"
)

// Formats lists the supported export formats.
var Formats = []Format{FormatCSV, FormatMarkdown, FormatText, FormatJSON}

// ParseFormat accepts a format name or a file extension.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")) {
	case "csv":
		return FormatCSV, nil
	case "md", "markdown":
		return FormatMarkdown, nil
	case "txt", "text":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: unsupported format %q", shared.ErrInvalidArgument, s)
	}
}

// Export renders albums in format f.
func Export(albums []models.Album, f Format) ([]byte, error) {
	switch f {
	case FormatCSV:
		return ExportToCSV(albums)
	case FormatMarkdown:
		return ExportToMarkdown(albums, models.Genres())
	case FormatText:
		return ExportToText(albums)
	case FormatJSON:
		return shared.MarshalJSON(albums, true)
	default:
		return nil, fmt.Errorf("%w: unsupported format %q", shared.ErrInvalidArgument, f)
	}
}

// ExportToCSV converts albums to CSV with columns: ID, Title, Artist, Genre, Price, Original Price, Badge, Image
func ExportToCSV(albums []models.Album) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Title", "Artist", "Genre", "Price", "Original Price", "Badge", "Image"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, a := range albums {
		record := []string{
			strconv.Itoa(a.ID),
			a.Title,
			a.Artist,
			a.Genre,
			shared.FormatPrice(a.Price),
			shared.FormatPrice(a.OriginalPrice),
			a.Badge,
			a.Image,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown renders albums as a Markdown catalog followed by the genre list.
func ExportToMarkdown(albums []models.Album, genres []models.Genre) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("# Featured Albums\n\n")
	buf.WriteString(fmt.Sprintf("**Albums**: %d\n\n", len(albums)))

	for _, a := range albums {
		buf.WriteString(fmt.Sprintf("## %s\n\n", a.Title))
		if a.Image != "" {
			buf.WriteString(fmt.Sprintf("![%s](%s)\n\n", a.Title, a.Image))
		}
		buf.WriteString(fmt.Sprintf("- **Artist**: %s\n", a.Artist))
		buf.WriteString(fmt.Sprintf("- **Genre**: %s\n", a.Genre))
		buf.WriteString(fmt.Sprintf("- **Price**: %s", shared.FormatPrice(a.Price)))
		if a.Discount() > 0 {
			buf.WriteString(fmt.Sprintf(" ~~%s~~", shared.FormatPrice(a.OriginalPrice)))
		}
		buf.WriteString("\n")
		if a.Badge != "" {
			buf.WriteString(fmt.Sprintf("- **Badge**: %s\n", a.Badge))
		}
		buf.WriteString("\n")
	}

	if len(genres) > 0 {
		buf.WriteString("## Genres\n\n")
		for _, g := range genres {
			buf.WriteString(fmt.Sprintf("- %s (%s)\n", g.Name, g.Label()))
		}
	}

	return buf.Bytes(), nil
}

// ExportToText renders one line per album.
func ExportToText(albums []models.Album) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Featured Albums: %d\n\n", len(albums)))
	for i, a := range albums {
		buf.WriteString(fmt.Sprintf("%d. %s - %s [%s] %s", i+1, a.Artist, a.Title, a.Genre, shared.FormatPrice(a.Price)))
		if a.Discount() > 0 {
			buf.WriteString(fmt.Sprintf(" (was %s)", shared.FormatPrice(a.OriginalPrice)))
		}
		buf.WriteString("\n")
	}

	return buf.Bytes(), nil
}

// WriteExport renders albums and writes them to path, creating parent directories.
// An empty path uses featured_albums.{format}.
func WriteExport(albums []models.Album, f Format, path string) (string, error) {
	data, err := Export(albums, f)
	if err != nil {
		return "", err
	}

	if path == "" {
		path = "featured_albums." + string(f)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export: %w", err)
	}
	return path, nil
}

// SessionSummary describes a signed-in user for `auth status`.
//
// expiry is the zero time when the token carries none.
func SessionSummary(user *models.User, expiry time.Time, now time.Time) string {
	if user == nil {
		return "Not signed in\n"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Signed in as %s\n", user.DisplayName())
	if user.Email != "" {
		fmt.Fprintf(&b, "  Email: %s\n", user.Email)
	}
	if user.Role != "" {
		fmt.Fprintf(&b, "  Role:  %s\n", user.Role)
	}
	if user.ID != "" {
		fmt.Fprintf(&b, "  ID:    %s\n", user.ID)
	}

	switch {
	case expiry.IsZero():
		b.WriteString("  Token: no expiry\n")
	case expiry.After(now):
		fmt.Fprintf(&b, "  Token: expires %s (in %s)\n", expiry.Format(time.RFC3339), expiry.Sub(now).Round(time.Minute))
	default:
		fmt.Fprintf(&b, "  Token: expired %s\n", expiry.Format(time.RFC3339))
	}

	return b.String()
}
