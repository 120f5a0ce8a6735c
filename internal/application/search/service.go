package search

import (
	"context"
	"strings"
	"time"

	"github.com/turtacn/patent-prophet/internal/infrastructure/monitoring/logging"
	metrics "github.com/turtacn/patent-prophet/internal/infrastructure/monitoring/prometheus"
	appErrors "github.com/turtacn/patent-prophet/pkg/errors"
)

const (
	// MinQueryLength is the shortest accepted query after trimming.
	MinQueryLength = 2

	DefaultLimit = 12
	MaxLimit     = 50
)

// SearchRow is one persisted patent matched by the repository, carrying the
// raw display fields before scoring and fallback rendering.
type SearchRow struct {
	ID              string
	Title           string
	Abstract        string
	PublicationDate string
	IPCCodes        string // joined code list as stored
	CPCCodes        string
	Assignee        string
	Inventors       []string
}

// Repository is the persisted read path the service queries.
type Repository interface {
	Search(ctx context.Context, query string, limit int) ([]SearchRow, error)
}

// Cache is the optional response cache. Implementations must tolerate
// being backed by a nil connection (permanent miss).
type Cache interface {
	Key(query string, limit int) string
	Get(ctx context.Context, key string, dest any) bool
	Set(ctx context.Context, key string, value any)
}

// PatentHit is the display projection of one matched patent.
type PatentHit struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	Abstract        string   `json:"abstract"`
	PublicationDate string   `json:"publicationDate"`
	Assignee        string   `json:"assignee"`
	Inventors       []string `json:"inventors"`
	Classifications []string `json:"classifications"`
}

// Result is one ranked search hit.
type Result struct {
	Patent     PatentHit `json:"patent"`
	Score      float64   `json:"score"`
	Highlights []string  `json:"highlights"`
}

// Service validates queries, consults the cache and assembles ranked
// results from the repository.
type Service struct {
	repo    Repository
	cache   Cache
	logger  logging.Logger
	metrics *metrics.Metrics
}

func NewService(repo Repository, cache Cache, logger logging.Logger, m *metrics.Metrics) *Service {
	if cache == nil {
		cache = noopCache{}
	}
	return &Service{
		repo:    repo,
		cache:   cache,
		logger:  logger.Named("search"),
		metrics: m,
	}
}

// noopCache stands in when no cache is configured.
type noopCache struct{}

func (noopCache) Key(query string, limit int) string    { return query }
func (noopCache) Get(context.Context, string, any) bool { return false }
func (noopCache) Set(context.Context, string, any)      {}

// Search returns ranked results for a free-text query. Queries shorter than
// MinQueryLength are rejected; zero matches yield an empty list, not an
// error. limit values outside [1, MaxLimit] are clamped, zero and negative
// values fall back to DefaultLimit.
func (s *Service) Search(ctx context.Context, query string, limit int) ([]Result, error) {
	query = strings.TrimSpace(query)
	if len(query) < MinQueryLength {
		return nil, appErrors.New(appErrors.CodeSearchQueryInvalid, "query must be at least 2 characters")
	}
	limit = clampLimit(limit)

	key := s.cache.Key(query, limit)
	var cached []Result
	if s.cache.Get(ctx, key, &cached) {
		s.metrics.SearchCacheHits.Inc()
		return cached, nil
	}

	start := time.Now()
	rows, err := s.repo.Search(ctx, query, limit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.CodeSearchFailed, "search patents")
	}
	s.metrics.SearchDuration.Observe(time.Since(start).Seconds())

	tokens := Tokenize(query)
	results := make([]Result, 0, len(rows))
	for _, row := range rows {
		hit := toPatentHit(row)
		results = append(results, Result{
			Patent:     hit,
			Score:      Score(tokens, row.Title, row.Abstract),
			Highlights: Highlights(tokens, hit.Classifications),
		})
	}

	s.cache.Set(ctx, key, results)
	s.logger.Debug("search complete",
		logging.String("query", query),
		logging.Int("results", len(results)),
	)
	return results, nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

func toPatentHit(row SearchRow) PatentHit {
	title := row.Title
	if title == "" {
		title = "Untitled patent"
	}
	date := row.PublicationDate
	if date == "" {
		date = "Unknown"
	}
	assignee := row.Assignee
	if assignee == "" {
		assignee = "Unknown assignee"
	}
	inventors := row.Inventors
	if len(inventors) == 0 {
		inventors = []string{"Unknown inventor"}
	}
	return PatentHit{
		ID:              row.ID,
		Title:           title,
		Abstract:        row.Abstract,
		PublicationDate: date,
		Assignee:        assignee,
		Inventors:       inventors,
		Classifications: classificationList(row.CPCCodes, row.IPCCodes),
	}
}

// classificationList splits the stored joined code columns and deduplicates,
// CPC codes first.
func classificationList(cpc, ipc string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, joined := range []string{cpc, ipc} {
		for _, code := range strings.Split(joined, ",") {
			code = strings.TrimSpace(code)
			if code == "" {
				continue
			}
			if _, ok := seen[code]; ok {
				continue
			}
			seen[code] = struct{}{}
			out = append(out, code)
		}
	}
	return out
}
