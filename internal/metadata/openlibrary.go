package metadata

import (
	"context"
	"fmt"
	"net/url"
)

const openLibraryBaseURL = "https://openlibrary.org"

// OpenLibraryClient reads the Open Library books API (jscmd=data).
type OpenLibraryClient struct {
	httpSource
}

// NewOpenLibraryClient creates a rate-limited Open Library client.
func NewOpenLibraryClient(cfg ClientConfig) *OpenLibraryClient {
	return &OpenLibraryClient{httpSource: newHTTPSource(cfg, openLibraryBaseURL)}
}

func (c *OpenLibraryClient) Name() string {
	return "openlibrary"
}

// LookupISBN fetches a single bibkey and maps it to BookInfo.
func (c *OpenLibraryClient) LookupISBN(ctx context.Context, isbn string) (*BookInfo, error) {
	bibkey := "ISBN:" + isbn
	endpoint := fmt.Sprintf("%s/api/books?bibkeys=%s&format=json&jscmd=data", c.baseURL, url.QueryEscape(bibkey))

	var response map[string]openLibraryBook
	found, err := c.getJSON(ctx, endpoint, &response)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}

	book, ok := response[bibkey]
	if !ok {
		return nil, nil
	}

	return c.convert(&book), nil
}

func (c *OpenLibraryClient) convert(book *openLibraryBook) *BookInfo {
	info := &BookInfo{
		Title:       book.Title,
		Description: book.Subtitle,
		Source:      c.Name(),
	}

	if len(book.Authors) > 0 {
		info.Author = book.Authors[0].Name
	}
	if len(book.Publishers) > 0 {
		info.Publisher = book.Publishers[0].Name
	}
	if book.PublishDate != "" {
		info.PublicationYear = extractYear(book.PublishDate)
	}

	switch {
	case book.Cover.Large != "":
		info.CoverURL = book.Cover.Large
	case book.Cover.Medium != "":
		info.CoverURL = book.Cover.Medium
	case book.Cover.Small != "":
		info.CoverURL = book.Cover.Small
	}

	return info
}

// Open Library API response types (internal)

type openLibraryBook struct {
	Title       string `json:"title"`
	Subtitle    string `json:"subtitle"`
	PublishDate string `json:"publish_date"`
	Authors     []struct {
		Name string `json:"name"`
	} `json:"authors"`
	Publishers []struct {
		Name string `json:"name"`
	} `json:"publishers"`
	Cover struct {
		Small  string `json:"small"`
		Medium string `json:"medium"`
		Large  string `json:"large"`
	} `json:"cover"`
}
