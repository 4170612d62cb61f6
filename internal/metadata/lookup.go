package metadata

import (
	"context"
	"log"

	domainerrors "github.com/mrlokans/librarian/internal/errors"
)

// Lookup consults sources in order and returns the first non-empty result.
type Lookup struct {
	sources []Source
}

// NewLookup creates a lookup chain. Order is priority.
func NewLookup(sources ...Source) *Lookup {
	return &Lookup{sources: sources}
}

// Sources returns the names of the configured sources in priority order.
func (l *Lookup) Sources() []string {
	names := make([]string, 0, len(l.sources))
	for _, s := range l.sources {
		names = append(names, s.Name())
	}
	return names
}

// Lookup normalizes the ISBN and asks each source in turn.
//
// It returns nil, nil when every source answered without data. A source
// error is logged and the next source is tried; only when every source
// failed does Lookup return UPSTREAM_UNAVAILABLE.
func (l *Lookup) Lookup(ctx context.Context, isbn string) (*BookInfo, error) {
	normalized := NormalizeISBN(isbn)
	if len(normalized) < 10 {
		return nil, domainerrors.InvalidInputf("invalid ISBN %q", isbn).
			WithDetails(map[string]any{"isbn": isbn})
	}

	var failures []error
	for _, source := range l.sources {
		info, err := source.LookupISBN(ctx, normalized)
		if err != nil {
			log.Printf("[METADATA] %s lookup for ISBN %s failed: %v", source.Name(), normalized, err)
			if ctx.Err() != nil {
				return nil, domainerrors.Wrapf(ctx.Err(), domainerrors.CodeUpstreamUnavailable,
					"metadata lookup for ISBN %s cancelled", normalized)
			}
			failures = append(failures, err)
			continue
		}
		if info.IsEmpty() {
			continue
		}
		if info.Source == "" {
			info.Source = source.Name()
		}
		log.Printf("[METADATA] Found ISBN %s in %s: %q", normalized, info.Source, info.Title)
		return info, nil
	}

	if len(failures) > 0 && len(failures) == len(l.sources) {
		return nil, domainerrors.Wrapf(domainerrors.Join(failures...), domainerrors.CodeUpstreamUnavailable,
			"metadata sources unavailable for ISBN %s", normalized).
			WithDetails(map[string]any{"isbn": normalized})
	}

	log.Printf("[METADATA] No information found for ISBN %s", normalized)
	return nil, nil
}

// NewDefaultLookup builds the Open Library then Google Books chain. Both
// clients share the timeout, rate and User-Agent of base.
func NewDefaultLookup(openLibraryURL, googleBooksURL string, base ClientConfig) *Lookup {
	ol := base
	ol.BaseURL = openLibraryURL
	gb := base
	gb.BaseURL = googleBooksURL
	return NewLookup(NewOpenLibraryClient(ol), NewGoogleBooksClient(gb))
}
