package narrative

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/ehr/formulation/internal/domain/criteria"
)

const defaultBatchConcurrency = 8

// Request is one unit of batch generation.
type Request struct {
	Disorder  string             `json:"disorder"`
	Selection criteria.Selection `json:"selection"`
}

// BatchItem carries either a result or the reason the request was rejected.
type BatchItem struct {
	Disorder string  `json:"disorder"`
	Result   *Result `json:"result,omitempty"`
	Error    string  `json:"error,omitempty"`
}

// Recorder observes every generated formulation.
type Recorder interface {
	RecordFormulation(ctx context.Context, disorder string, met bool, dropped int)
}

type Service struct {
	catalog     *criteria.Catalog
	gen         *Generator
	logger      zerolog.Logger
	recorder    Recorder
	concurrency int
}

// NewService binds a catalog to its rule book. Catalog keys without authored
// rules get generated defaults.
func NewService(catalog *criteria.Catalog, rules *RuleBook, logger zerolog.Logger) (*Service, error) {
	book, err := rules.WithDefaults(catalog.Entries())
	if err != nil {
		return nil, fmt.Errorf("build default rules: %w", err)
	}
	return &Service{
		catalog:     catalog,
		gen:         NewGenerator(book),
		logger:      logger,
		concurrency: defaultBatchConcurrency,
	}, nil
}

func (s *Service) SetBatchConcurrency(n int) {
	if n > 0 {
		s.concurrency = n
	}
}

func (s *Service) SetRecorder(r Recorder) { s.recorder = r }

func (s *Service) Catalog() *criteria.Catalog { return s.catalog }

func (s *Service) ListDisorders() []criteria.Summary {
	return s.catalog.Summaries()
}

func (s *Service) ListSections(key string) ([]criteria.Section, error) {
	return s.catalog.Sections(key)
}

// Generate renders the formulation for one disorder. An unknown key returns an
// error matching criteria.ErrUnknownDisorder.
func (s *Service) Generate(ctx context.Context, key string, sel criteria.Selection) (*Result, error) {
	entry, err := s.catalog.Get(key)
	if err != nil {
		return nil, err
	}
	res, err := s.gen.Generate(entry, sel)
	if err != nil {
		return nil, fmt.Errorf("generate %s: %w", key, err)
	}
	s.logger.Debug().
		Str("disorder", key).
		Int("selected", len(sel)).
		Int("dropped", res.Dropped).
		Bool("met", res.Met).
		Msg("formulation generated")
	if s.recorder != nil {
		s.recorder.RecordFormulation(ctx, key, res.Met, res.Dropped)
	}
	return res, nil
}

// GenerateBatch runs requests concurrently and returns results in request
// order. Unknown disorders are reported per item; any other failure or a
// cancelled context aborts the batch.
func (s *Service) GenerateBatch(ctx context.Context, reqs []Request) ([]BatchItem, error) {
	out := make([]BatchItem, len(reqs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for i, r := range reqs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out[i].Disorder = r.Disorder
			res, err := s.Generate(gctx, r.Disorder, r.Selection)
			if errors.Is(err, criteria.ErrUnknownDisorder) {
				out[i].Error = err.Error()
				return nil
			}
			if err != nil {
				return err
			}
			out[i].Result = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.logger.Debug().Int("requests", len(reqs)).Msg("formulation batch generated")
	return out, nil
}
