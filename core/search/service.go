package search

import (
	"context"
	"fmt"
	"time"

	"github.com/goto/encoded/core/item"
	"github.com/goto/encoded/core/user"
	"github.com/goto/encoded/pkg/statsd"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type Service struct {
	registry       *item.Registry
	repository     Repository
	config         Config
	statsdReporter *statsd.Reporter

	searchCounter metric.Int64Counter
}

type ServiceOption func(*Service)

func ServiceWithStatsDReporter(statsdReporter *statsd.Reporter) ServiceOption {
	return func(s *Service) {
		s.statsdReporter = statsdReporter
	}
}

func NewService(cfg Config, registry *item.Registry, repository Repository, opts ...ServiceOption) *Service {
	searchCounter, err := otel.Meter("github.com/goto/encoded/core/search").
		Int64Counter("encoded.search.operation")
	if err != nil {
		otel.Handle(err)
	}

	s := &Service{
		registry:      registry,
		repository:    repository,
		config:        cfg,
		searchCounter: searchCounter,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Search runs the query string rawQuery against route on behalf of
// the user carried by ctx.
func (s *Service) Search(ctx context.Context, route Route, rawQuery string) (res Result, err error) {
	defer func(start time.Time) {
		s.instrumentSearch(ctx, route, start, err)
	}(time.Now())

	params := Normalize(s.registry, ParseParams(rawQuery))

	requested := nonBlank(params.GetAll(paramType))
	if len(requested) == 0 {
		requested = []string{route.DefaultType}
	}
	docTypes, err := ResolveDocTypes(s.registry, requested)
	if err != nil {
		return Result{}, err
	}

	usr := user.FromContext(ctx)
	text := parseText(params)
	size, all := parseLimit(params, s.config.limit())
	q := Query{
		Text:       text,
		TextFields: s.config.textFields(),
		Principals: usr.EffectivePrincipals(),
		DocTypes:   docTypes,
		Filters:    NewFilters(params),
		Facets:     BuildFacets(s.registry, docTypes, usr),
		Sort:       parseSort(params, s.registry, docTypes, text),
		Frame:      parseFrame(params),
		Fields:     parseFields(params),
		From:       parseFrom(params),
		Size:       size,
		All:        all,
	}

	resp, err := s.repository.Search(ctx, q)
	if err != nil {
		return Result{}, fmt.Errorf("search %s: %w", route.Path, err)
	}

	return formatResult(ctx, resultInput{
		route:    route,
		params:   params,
		docTypes: docTypes,
		reg:      s.registry,
		filters:  q.Filters,
		facets:   q.Facets,
		sort:     q.Sort,
		response: resp,
	}), nil
}

func (s *Service) instrumentSearch(ctx context.Context, route Route, start time.Time, err error) {
	if s.searchCounter != nil {
		s.searchCounter.Add(ctx, 1, metric.WithAttributes(
			attribute.String("encoded.search.route", route.Name),
			attribute.Bool("operation.success", err == nil),
		))
	}

	m := s.statsdReporter.Timing("searchDuration", time.Since(start)).Tag("route", route.Name)
	if err != nil {
		m.Failure(err).Publish()
		return
	}
	m.Success().Publish()
}
