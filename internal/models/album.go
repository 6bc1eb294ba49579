package models

import "fmt"

// Album is a featured album card on the landing view. Prices are in cents.
type Album struct {
	ID            int    `json:"id"`
	Title         string `json:"title"`
	Artist        string `json:"artist"`
	Genre         string `json:"genre"`
	Price         int    `json:"price"`
	OriginalPrice int    `json:"original_price"`
	Badge         string `json:"badge"`
	Image         string `json:"image"`
}

// Discount returns the saving against the original price in cents.
func (a Album) Discount() int {
	if a.OriginalPrice <= a.Price {
		return 0
	}
	return a.OriginalPrice - a.Price
}

// Genre is a genre tile with its album count.
type Genre struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Label renders the tile caption, e.g. "45 albums".
func (g Genre) Label() string {
	if g.Count == 1 {
		return "1 album"
	}
	return fmt.Sprintf("%d albums", g.Count)
}

var featuredAlbums = []Album{
	{
		ID: 1, Title: "Midnight Dreams", Artist: "Your Artist Name", Genre: "Electronic",
		Price: 999, OriginalPrice: 1299, Badge: "New Release",
		Image: "https://images.unsplash.com/photo-1470225620780-dba8ba36b745?w=400&h=400&fit=crop",
	},
	{
		ID: 2, Title: "Urban Echoes", Artist: "Your Artist Name", Genre: "Hip Hop",
		Price: 799, OriginalPrice: 999, Badge: "Best Seller",
		Image: "https://images.unsplash.com/photo-1496293455970-f8581aae0e3b?w=400&h=400&fit=crop",
	},
	{
		ID: 3, Title: "Ocean Breeze", Artist: "Your Artist Name", Genre: "Ambient",
		Price: 850, OriginalPrice: 1099, Badge: "Editor's Pick",
		Image: "https://images.unsplash.com/photo-1508700115892-45ecd05ae2ad?w=400&h=400&fit=crop",
	},
	{
		ID: 4, Title: "Neon Lights", Artist: "Your Artist Name", Genre: "Synthwave",
		Price: 699, OriginalPrice: 899, Badge: "Fan Favorite",
		Image: "https://images.unsplash.com/photo-1511671782779-c97d3d27a1d4?w=400&h=400&fit=crop",
	},
}

var genres = []Genre{
	{Name: "Electronic", Count: 45},
	{Name: "Ambient", Count: 32},
	{Name: "Hip Hop", Count: 28},
	{Name: "Synthwave", Count: 18},
}

// FeaturedAlbums returns a copy of the featured catalog.
func FeaturedAlbums() []Album {
	out := make([]Album, len(featuredAlbums))
	copy(out, featuredAlbums)
	return out
}

// Genres returns a copy of the genre tiles.
func Genres() []Genre {
	out := make([]Genre, len(genres))
	copy(out, genres)
	return out
}

// FindAlbum looks up a featured album by ID.
func FindAlbum(id int) (Album, bool) {
	for _, a := range featuredAlbums {
		if a.ID == id {
			return a, true
		}
	}
	return Album{}, false
}
