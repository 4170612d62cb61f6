package metadata

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/mrlokans/librarian/internal/entities"
)

const googleBooksBaseURL = "https://www.googleapis.com"

// GoogleBooksClient reads the Google Books volumes API.
type GoogleBooksClient struct {
	httpSource
}

// NewGoogleBooksClient creates a rate-limited Google Books client.
func NewGoogleBooksClient(cfg ClientConfig) *GoogleBooksClient {
	return &GoogleBooksClient{httpSource: newHTTPSource(cfg, googleBooksBaseURL)}
}

func (c *GoogleBooksClient) Name() string {
	return "googlebooks"
}

// LookupISBN takes the first volume returned for the ISBN query.
func (c *GoogleBooksClient) LookupISBN(ctx context.Context, isbn string) (*BookInfo, error) {
	endpoint := fmt.Sprintf("%s/books/v1/volumes?q=%s", c.baseURL, url.QueryEscape("isbn:"+isbn))

	var response googleBooksResponse
	found, err := c.getJSON(ctx, endpoint, &response)
	if err != nil {
		return nil, err
	}
	if !found || len(response.Items) == 0 {
		return nil, nil
	}

	return c.convert(&response.Items[0].VolumeInfo), nil
}

func (c *GoogleBooksClient) convert(volume *googleVolumeInfo) *BookInfo {
	info := &BookInfo{
		Title:       volume.Title,
		Publisher:   volume.Publisher,
		Description: entities.ClipDescription(volume.Description),
		Source:      c.Name(),
	}

	if len(volume.Authors) > 0 {
		info.Author = volume.Authors[0]
	}
	if volume.PublishedDate != "" {
		info.PublicationYear = extractYear(volume.PublishedDate)
	}
	if volume.ImageLinks.Thumbnail != "" {
		info.CoverURL = improveThumbnail(volume.ImageLinks.Thumbnail)
	}

	return info
}

// improveThumbnail asks for the larger zoom level and drops the page-curl
// decoration.
func improveThumbnail(thumbnail string) string {
	thumbnail = strings.Replace(thumbnail, "zoom=1", "zoom=2", 1)
	thumbnail = strings.ReplaceAll(thumbnail, "&edge=curl", "")
	thumbnail = strings.ReplaceAll(thumbnail, "&source=gbs_api", "")
	return thumbnail
}

type googleBooksResponse struct {
	TotalItems int `json:"totalItems"`
	Items      []struct {
		VolumeInfo googleVolumeInfo `json:"volumeInfo"`
	} `json:"items"`
}

type googleVolumeInfo struct {
	Title         string   `json:"title"`
	Authors       []string `json:"authors"`
	Publisher     string   `json:"publisher"`
	PublishedDate string   `json:"publishedDate"`
	Description   string   `json:"description"`
	ImageLinks    struct {
		Thumbnail string `json:"thumbnail"`
	} `json:"imageLinks"`
}
