package catalog

// Song is the domain view over one catalog track.
type Song struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Artist     string `json:"artist"`
	Album      string `json:"album"`
	ImageURL   string `json:"imageUrl,omitempty"`
	PreviewURL string `json:"previewUrl,omitempty"`
}

// Wire types for the upstream search and token endpoints.

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

type searchResponse struct {
	Tracks struct {
		Items []trackItem `json:"items"`
	} `json:"tracks"`
}

type trackItem struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Artists []struct {
		Name string `json:"name"`
	} `json:"artists"`
	Album struct {
		Name   string `json:"name"`
		Images []struct {
			URL string `json:"url"`
		} `json:"images"`
	} `json:"album"`
	PreviewURL string `json:"preview_url"`
}

func (t trackItem) toSong() Song {
	song := Song{
		ID:         t.ID,
		Title:      t.Name,
		Album:      t.Album.Name,
		PreviewURL: t.PreviewURL,
	}
	if len(t.Artists) > 0 {
		song.Artist = t.Artists[0].Name
	}
	if len(t.Album.Images) > 0 {
		song.ImageURL = t.Album.Images[0].URL
	}
	return song
}
