package cubebuilder

import (
	"context"
	goerrors "errors"
	"fmt"
	"io"

	"github.com/diwise/csvcube/internal/pkg/application/notifications"
	"github.com/diwise/csvcube/pkg/csvw"
	"github.com/diwise/csvcube/pkg/qb/cube"
	"github.com/diwise/csvcube/pkg/qb/dsd"
	"github.com/diwise/csvcube/pkg/qb/urihelper"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/tracing"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
)

var tracer = otel.Tracer("csvcube/cubebuilder")

//go:generate moq -rm -out cubebuilder_mock.go . CubeBuilder

type CubeBuilder interface {
	Build(ctx context.Context, cfg *Config, data *Table) (*Result, error)
	BuildAll(ctx context.Context, jobs []Job) ([]*Result, error)
}

type Job struct {
	Config *Config
	Data   *Table
}

// Result holds everything needed to publish a cube: the data CSV, the CSV-W
// document describing it and one CSV-W document per local code list
type Result struct {
	BuildID   string
	Cube      *cube.Cube
	Data      *Table
	Graph     *dsd.Graph
	Metadata  *csvw.Metadata
	CodeLists []*CodeListResult
}

type CodeListResult struct {
	CodeList cube.LocalCodeList
	Metadata *csvw.Metadata
}

// Identifier is the document identifier shared by the cube's files
func (r *Result) Identifier() string {
	return r.Cube.Identifier()
}

func (r *Result) WriteData(w io.Writer) error {
	if r.Data == nil {
		return fmt.Errorf("cube %q has no data", r.Identifier())
	}
	return WriteDataCSV(w, r.Cube, r.Data)
}

type cubeBuilderApp struct {
	maxConcurrentBuilds int
	notifier            notifications.Notifier
}

type Option func(*cubeBuilderApp)

// WithNotifier reports the outcome of every build to n
func WithNotifier(n notifications.Notifier) Option {
	return func(app *cubeBuilderApp) {
		app.notifier = n
	}
}

func New(maxConcurrentBuilds int, options ...Option) CubeBuilder {
	if maxConcurrentBuilds <= 0 {
		maxConcurrentBuilds = 1
	}

	app := &cubeBuilderApp{
		maxConcurrentBuilds: maxConcurrentBuilds,
	}

	for _, option := range options {
		option(app)
	}

	return app
}

func (app *cubeBuilderApp) Build(ctx context.Context, cfg *Config, data *Table) (result *Result, err error) {
	buildID := uuid.NewString()

	ctx, span := tracer.Start(ctx, "build-cube")
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()
	defer func() { app.notify(ctx, buildID, result, err) }()

	span.SetAttributes(attribute.String("build_id", buildID))

	logger := logging.GetFromContext(ctx)
	ctx = logging.NewContextWithLogger(ctx, logger, "build_id", buildID)
	logger = logging.GetFromContext(ctx)

	if data == nil {
		data, err = cfg.Table()
		if err != nil {
			return nil, err
		}
	}

	values := data.Values()

	c, err := cfg.Cube(values)
	if err != nil {
		logger.Error("invalid cube description", "err", err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.String("cube", c.Identifier()))
	logger.Info("building cube", "cube", c.Identifier(), "columns", len(c.Columns), "rows", len(data.Rows))

	if errs := c.ValidateData(values); len(errs) > 0 {
		err = goerrors.Join(errs...)
		logger.Error("cube data did not validate", "cube", c.Identifier(), "err", err.Error())
		return nil, err
	}

	g, err := dsd.AssembleContext(ctx, c)
	if err != nil {
		logger.Error("failed to assemble data structure definition", "cube", c.Identifier(), "err", err.Error())
		return nil, err
	}

	h, err := urihelper.New(c)
	if err != nil {
		return nil, err
	}

	metadata, err := csvw.NewMetadataContext(ctx, c, g, h)
	if err != nil {
		logger.Error("failed to emit csvw metadata", "cube", c.Identifier(), "err", err.Error())
		return nil, err
	}

	result = &Result{
		BuildID:  buildID,
		Cube:     c,
		Data:     data,
		Graph:    g,
		Metadata: metadata,
	}

	for _, clg := range g.CodeLists {
		result.CodeLists = append(result.CodeLists, &CodeListResult{
			CodeList: clg.CodeList,
			Metadata: csvw.NewCodeListMetadata(clg),
		})
	}

	logger.Info("cube built", "cube", c.Identifier(),
		"components", len(g.Components), "resources", g.Resources.Len(), "code_lists", len(result.CodeLists))

	return result, nil
}

func (app *cubeBuilderApp) notify(ctx context.Context, buildID string, result *Result, err error) {
	if app.notifier == nil {
		return
	}

	if err != nil {
		app.notifier.BuildFailed(ctx, notifications.Build{BuildID: buildID, Error: err.Error()})
		return
	}

	b := notifications.Build{
		BuildID:    buildID,
		Cube:       result.Identifier(),
		Dataset:    result.Metadata.ID,
		Components: len(result.Graph.Components),
	}
	for _, cl := range result.CodeLists {
		b.CodeLists = append(b.CodeLists, cl.Metadata.ID)
	}

	app.notifier.CubeBuilt(ctx, b)
}

// BuildAll builds independent cubes concurrently. The results are returned in
// job order and the first failure cancels the builds that have not finished.
func (app *cubeBuilderApp) BuildAll(ctx context.Context, jobs []Job) ([]*Result, error) {
	results := make([]*Result, len(jobs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(app.maxConcurrentBuilds)

	for i, job := range jobs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			result, err := app.Build(ctx, job.Config, job.Data)
			if err != nil {
				return fmt.Errorf("build %d failed: %w", i, err)
			}

			results[i] = result
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}
