package metrics

import (
	"context"
	"errors"
	"moviefav/movie"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "moviefav"

// Outcome label values.
const (
	OutcomeOK       = "ok"
	OutcomeEmpty    = "empty"
	OutcomeError    = "error"
	OutcomeCanceled = "canceled"
)

type Collectors struct {
	Searches   *prometheus.CounterVec
	StoreOps   *prometheus.CounterVec
	StoreTimes *prometheus.HistogramVec
}

// NewCollectors registers the application collectors on reg.
func NewCollectors(reg prometheus.Registerer) *Collectors {
	c := &Collectors{
		Searches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "searches_total",
			Help:      "External movie searches by outcome.",
		}, []string{"outcome"}),
		StoreOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_operations_total",
			Help:      "Favorites store operations by operation and outcome.",
		}, []string{"operation", "outcome"}),
		StoreTimes: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "store_operation_seconds",
			Help:      "Favorites store operation latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
	}
	reg.MustRegister(c.Searches, c.StoreOps, c.StoreTimes)
	return c
}

// Searcher counts search outcomes of the wrapped movie.Searcher.
type Searcher struct {
	next movie.Searcher
	c    *Collectors
}

func NewSearcher(next movie.Searcher, c *Collectors) *Searcher {
	return &Searcher{next: next, c: c}
}

func (s *Searcher) Search(ctx context.Context, title string) ([]movie.Movie, error) {
	movies, err := s.next.Search(ctx, title)
	switch {
	case err != nil:
		s.c.Searches.WithLabelValues(OutcomeError).Inc()
	case len(movies) == 0:
		s.c.Searches.WithLabelValues(OutcomeEmpty).Inc()
	default:
		s.c.Searches.WithLabelValues(OutcomeOK).Inc()
	}
	return movies, err
}

// Repository times and counts operations of the wrapped movie.Repository.
type Repository struct {
	next movie.Repository
	c    *Collectors
}

func NewRepository(next movie.Repository, c *Collectors) *Repository {
	return &Repository{next: next, c: c}
}

func (r *Repository) Insert(ctx context.Context, m movie.Movie) error {
	return r.observe("insert", func() error { return r.next.Insert(ctx, m) })
}

func (r *Repository) All(ctx context.Context) ([]movie.Movie, error) {
	var movies []movie.Movie
	err := r.observe("list", func() error {
		var err error
		movies, err = r.next.All(ctx)
		return err
	})
	return movies, err
}

func (r *Repository) DeleteByTitle(ctx context.Context, title string) error {
	return r.observe("delete_one", func() error { return r.next.DeleteByTitle(ctx, title) })
}

func (r *Repository) DeleteAll(ctx context.Context) error {
	return r.observe("delete_all", func() error { return r.next.DeleteAll(ctx) })
}

func (r *Repository) observe(op string, fn func() error) error {
	timer := prometheus.NewTimer(r.c.StoreTimes.WithLabelValues(op))
	err := fn()
	timer.ObserveDuration()

	outcome := OutcomeOK
	if err != nil {
		outcome = OutcomeError
		if errors.Is(err, context.Canceled) {
			outcome = OutcomeCanceled
		}
	}
	r.c.StoreOps.WithLabelValues(op, outcome).Inc()
	return err
}
