package service

import (
	"log/slog"
	"regexp"

	"github.com/jengzang/meteorites-backend-go/internal/apperr"
	"github.com/jengzang/meteorites-backend-go/internal/catalog"
	"github.com/jengzang/meteorites-backend-go/internal/config"
	"github.com/jengzang/meteorites-backend-go/internal/models"
	"github.com/jengzang/meteorites-backend-go/internal/search"
)

var positiveIntegerID = regexp.MustCompile(`^[1-9]\d*$`)

// MeteoriteService answers read queries against the catalog
type MeteoriteService struct {
	catalog   *catalog.Catalog
	limits    config.Limits
	hashKey   bool
	configErr error
	log       *slog.Logger
}

// NewMeteoriteService creates a new meteorite service. An invalid configuration
// is recorded rather than rejected; Check reports it on every request.
func NewMeteoriteService(c *catalog.Catalog, cfg *config.Config, log *slog.Logger) *MeteoriteService {
	s := &MeteoriteService{
		catalog:   c,
		limits:    cfg.Limits,
		hashKey:   cfg.HashKey != "",
		configErr: cfg.Limits.Validate(),
		log:       log,
	}
	if !s.hashKey {
		log.Error("hash key is not configured; data endpoints are disabled")
	}
	if s.configErr != nil {
		log.Error("invalid limits configuration; data endpoints are disabled", "error", s.configErr)
	}
	return s
}

// Check verifies the service can serve data: credentials, configuration, then readiness
func (s *MeteoriteService) Check() error {
	if !s.hashKey {
		return apperr.Misconfigured("Your credentials are missing.")
	}
	if s.configErr != nil {
		return apperr.Misconfigured("Invalid configuration detected. Please refer to the documentation.")
	}
	if !s.catalog.Ready() {
		s.log.Error("data cache is not ready or empty")
		return apperr.NotReady("Service is warming up or data source is unavailable.")
	}
	return nil
}

// Statistics returns the precomputed dataset statistics
func (s *MeteoriteService) Statistics() (*models.Statistics, error) {
	if err := s.Check(); err != nil {
		return nil, err
	}
	return s.catalog.Statistics(), nil
}

// Lookup finds one meteorite by id or by name; exactly one must be given
func (s *MeteoriteService) Lookup(q models.LookupQuery) (*models.Meteorite, error) {
	if err := s.Check(); err != nil {
		return nil, err
	}

	id := search.TrimmedParam(q.ID)
	name := search.TrimmedParam(q.Name)

	switch {
	case id == nil && name == nil:
		return nil, apperr.Validation("Please provide either 'id' or 'name' as a query parameter.")
	case id != nil && name != nil:
		return nil, apperr.Validation("Please provide either 'id' or 'name', not both.")
	case id != nil && !positiveIntegerID.MatchString(*id):
		return nil, apperr.Validation("The ID must be a positive integer.")
	}

	var (
		m  *models.Meteorite
		ok bool
	)
	if id != nil {
		m, ok = s.catalog.ByID(*id)
	} else {
		m, ok = s.catalog.ByName(*name)
	}
	if !ok {
		return nil, apperr.NotFound("No meteorite found for the given identifier.")
	}
	return m, nil
}

// Random returns a random window of the shuffled snapshot. A missing or
// unparseable count falls back to the configured default.
func (s *MeteoriteService) Random(q models.RandomQuery) ([]*models.Meteorite, error) {
	if err := s.Check(); err != nil {
		return nil, err
	}

	requested := s.limits.DefaultRandomCount
	if n := catalog.ParseInt(q.Count); n != nil {
		requested = *n
	}

	count := min(requested, s.catalog.Len())
	if count > s.limits.MaxRandomRecords || count <= 0 {
		return nil, apperr.Validation("The number of meteorites must be between 1 and %d.", s.limits.MaxRandomRecords)
	}

	return s.catalog.Sample(count), nil
}

// Search runs a filtered scan over the catalog
func (s *MeteoriteService) Search(q models.SearchQuery) ([]*models.Meteorite, error) {
	if err := s.Check(); err != nil {
		return nil, err
	}

	return search.Run(s.catalog.Meteorites(), search.ParseQuery(q), search.Limits{
		MaxResults: s.limits.MaxReturnedSearchResults,
		MinRadius:  float64(s.limits.MinRadius),
		MaxRadius:  float64(s.limits.MaxRadius),
	})
}
