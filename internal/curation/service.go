package curation

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"sort"
	"sync"

	"github.com/mmcdole/airwave/internal/domain"
	"github.com/mmcdole/airwave/internal/radiobrowser"
)

// Display sizes for the curated home sections.
const (
	topCount       = 6
	trendingCount  = 8
	genreCount     = 16
	featuredCount  = 5
	discoveryFetch = 50
	discoveryCount = 36
	relatedFetch   = 30
	relatedCount   = 18
	backfillFetch  = 20
)

// homeGenres are the fixed tag buckets shown on the home page, in order.
var homeGenres = []string{"latino", "rock", "pop", "news", "electronic", "sports"}

// gateway is the slice of the directory client the curation engine needs
// (consumer-defined interface, satisfied by *radiobrowser.Client).
type gateway interface {
	Search(ctx context.Context, p radiobrowser.SearchParams) ([]domain.Station, error)
	StationsByTag(ctx context.Context, tag string, limit int, order string) ([]domain.Station, error)
	RelatedStations(ctx context.Context, station domain.Station, limit int) ([]domain.Station, error)
	Countries(ctx context.Context) ([]domain.Country, error)
	Languages(ctx context.Context) ([]domain.Language, error)
	TagsList(ctx context.Context) ([]domain.Tag, error)
	Stats(ctx context.Context) (*domain.Stats, error)
}

// GenreSection is one named home-page bucket.
type GenreSection struct {
	Name     string
	Stations []domain.Station
}

// HomePage holds the assembled curated collections.
type HomePage struct {
	Featured []domain.Station
	Top      []domain.Station
	Trending []domain.Station
	Genres   []GenreSection
	Stats    *domain.Stats
}

// Filters holds the browsable metadata lists for the search view.
type Filters struct {
	Countries []domain.Country
	Languages []domain.Language
	Tags      []domain.Tag
}

// Service assembles curated station collections from raw gateway result sets.
type Service struct {
	gw     gateway
	logger *slog.Logger
}

// NewService creates a new curation service.
func NewService(gw gateway, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{gw: gw, logger: logger}
}

// FetchHome issues the nine home-page queries concurrently and assembles the
// curated sections. The join is all-or-nothing: a single failed query fails
// the whole assembly and no section is populated.
func (s *Service) FetchHome(ctx context.Context) (*HomePage, error) {
	randomOffset := rand.Intn(20)

	var (
		top      []domain.Station
		trending []domain.Station
		genres   = make([][]domain.Station, len(homeGenres))
		stats    *domain.Stats
	)

	var wg sync.WaitGroup
	errs := make([]error, 3+len(homeGenres))
	run := func(slot int, fn func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[slot] = fn()
		}()
	}

	run(0, func() (err error) {
		top, err = s.gw.Search(ctx, radiobrowser.SearchParams{Limit: 10, Order: "votes", Reverse: true, Offset: randomOffset})
		return err
	})
	run(1, func() (err error) {
		trending, err = s.gw.Search(ctx, radiobrowser.SearchParams{Limit: 10, Order: "votes", Reverse: true})
		return err
	})
	for i, genre := range homeGenres {
		run(2+i, func() (err error) {
			genres[i], err = s.gw.StationsByTag(ctx, genre, 20, "random")
			return err
		})
	}
	run(2+len(homeGenres), func() (err error) {
		stats, err = s.gw.Stats(ctx)
		return err
	})

	wg.Wait()
	if err := errors.Join(errs...); err != nil {
		s.logger.Error("home assembly failed", "error", err)
		return nil, err
	}

	page := &HomePage{Stats: stats}

	// Top uses a randomized offset, so shuffling it is fine; trending stays
	// in vote order.
	Shuffle(top)
	page.Top = capAt(top, topCount)
	page.Trending = capAt(trending, trendingCount)

	for i, genre := range homeGenres {
		page.Genres = append(page.Genres, GenreSection{
			Name:     genre,
			Stations: dedupeShuffle(genres[i], genreCount),
		})
	}

	// Featured: a shuffled sample of everything above the fold.
	pool := make([]domain.Station, 0, len(top)+len(trending)+3*20)
	pool = append(pool, top...)
	pool = append(pool, trending...)
	pool = append(pool, genres[0]...)
	pool = append(pool, genres[1]...)
	pool = append(pool, genres[2]...)
	page.Featured = dedupeShuffle(pool, featuredCount)

	s.logger.Debug("assembled home page",
		"top", len(page.Top), "trending", len(page.Trending), "featured", len(page.Featured))
	return page, nil
}

// FetchDiscovery returns the random discovery grid.
func (s *Service) FetchDiscovery(ctx context.Context) ([]domain.Station, error) {
	randoms, err := s.gw.Search(ctx, radiobrowser.SearchParams{Limit: discoveryFetch, Order: "random"})
	if err != nil {
		s.logger.Error("discovery fetch failed", "error", err)
		return nil, err
	}
	return dedupeShuffle(randoms, discoveryCount), nil
}

// FetchRelated returns stations related to seed: an over-fetched related set
// with the seed and duplicates removed, backfilled from a random query when
// too few remain.
func (s *Service) FetchRelated(ctx context.Context, seed domain.Station) ([]domain.Station, error) {
	related, err := s.gw.RelatedStations(ctx, seed, relatedFetch)
	if err != nil {
		s.logger.Error("related fetch failed", "error", err, "stationUUID", seed.StationUUID)
		return nil, err
	}
	related = Dedupe(dropStation(related, seed.StationUUID))

	if len(related) < relatedCount {
		fill, err := s.gw.Search(ctx, radiobrowser.SearchParams{Limit: backfillFetch, Order: "random"})
		if err == nil {
			related = Dedupe(append(related, dropStation(fill, seed.StationUUID)...))
		} else {
			s.logger.Debug("related backfill failed", "error", err)
		}
	}

	return capAt(related, relatedCount), nil
}

// FetchFilters loads the country/language/tag metadata for the search view,
// keeping only the most populated entries.
func (s *Service) FetchFilters(ctx context.Context) (*Filters, error) {
	var (
		countries []domain.Country
		languages []domain.Language
		tags      []domain.Tag
	)

	var wg sync.WaitGroup
	errs := make([]error, 3)
	wg.Add(3)
	go func() {
		defer wg.Done()
		countries, errs[0] = s.gw.Countries(ctx)
	}()
	go func() {
		defer wg.Done()
		languages, errs[1] = s.gw.Languages(ctx)
	}()
	go func() {
		defer wg.Done()
		tags, errs[2] = s.gw.TagsList(ctx)
	}()
	wg.Wait()

	if err := errors.Join(errs...); err != nil {
		s.logger.Error("filter fetch failed", "error", err)
		return nil, err
	}

	sort.Slice(countries, func(i, j int) bool { return countries[i].StationCount > countries[j].StationCount })
	sort.Slice(languages, func(i, j int) bool { return languages[i].StationCount > languages[j].StationCount })
	sort.Slice(tags, func(i, j int) bool { return tags[i].StationCount > tags[j].StationCount })

	return &Filters{
		Countries: capAt(countries, 30),
		Languages: capAt(languages, 20),
		Tags:      capAt(tags, 30),
	}, nil
}

func dropStation(stations []domain.Station, uuid string) []domain.Station {
	out := stations[:0]
	for _, s := range stations {
		if s.StationUUID != uuid {
			out = append(out, s)
		}
	}
	return out
}

// capAt truncates a slice to at most n elements.
func capAt[T any](v []T, n int) []T {
	if len(v) > n {
		return v[:n]
	}
	return v
}
