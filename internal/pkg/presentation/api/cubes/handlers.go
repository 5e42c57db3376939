package cubes

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/diwise/csvcube/internal/pkg/application/cubebuilder"
	"github.com/diwise/csvcube/internal/pkg/presentation/api/cubes/auth"
	"github.com/diwise/csvcube/internal/pkg/presentation/api/cubes/errors"
	"github.com/diwise/csvcube/pkg/csvw"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/tracing"
	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("csvcube/api/cubes")

const (
	BuildIDHeader string = "X-Build-ID"

	TraceAttributeBuildID string = "csvcube.build_id"
	TraceAttributeCube    string = "csvcube.cube"

	maxRequestSize int64 = 32 << 20
)

func RegisterHandlers(ctx context.Context, r chi.Router, policies io.Reader, app cubebuilder.CubeBuilder) error {

	authenticator, err := auth.NewAuthenticator(ctx, policies)
	if err != nil {
		return fmt.Errorf("failed to create api authenticator: %w", err)
	}

	r.Route("/api/v1/cubes", func(r chi.Router) {
		r.Use(
			Logger(logging.GetFromContext(ctx)),
			RequiredContentTypes([]string{"application/yaml", "application/x-yaml", "text/yaml", "multipart/form-data"}),
		)

		r.Post("/csvw", NewBuildCSVWHandler(app, authenticator))
		r.Post("/dsd", NewBuildDSDHandler(app, authenticator))
	})

	return nil
}

func Logger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			_, ctx, _ = o11y.AddTraceIDToLoggerAndStoreInContext(
				trace.SpanFromContext(ctx),
				logger,
				ctx)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func RequiredContentTypes(validTypes []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			contentType := r.Header.Get("Content-Type")
			isValidContentType := true

			if len(contentType) > 0 {
				isValidContentType = false

				for _, t := range validTypes {
					if strings.HasPrefix(contentType, t) {
						isValidContentType = true
						break
					}
				}
			}

			if isValidContentType {
				next.ServeHTTP(w, r)
			} else {
				http.Error(w, "unsupported media type", http.StatusUnsupportedMediaType)
			}
		})
	}
}

// NewBuildCSVWHandler responds with the CSV-W metadata of the described cube
func NewBuildCSVWHandler(app cubebuilder.CubeBuilder, authenticator auth.Enticator) http.HandlerFunc {
	return newBuildHandler(app, authenticator, "csvw", csvw.MetadataContentType,
		func(result *cubebuilder.Result) any { return result.Metadata },
	)
}

// NewBuildDSDHandler responds with the data structure definition graph only
func NewBuildDSDHandler(app cubebuilder.CubeBuilder, authenticator auth.Enticator) http.HandlerFunc {
	return newBuildHandler(app, authenticator, "dsd", "application/ld+json",
		func(result *cubebuilder.Result) any { return result.Graph },
	)
}

func newBuildHandler(app cubebuilder.CubeBuilder, authenticator auth.Enticator, output, contentType string, body func(*cubebuilder.Result) any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error

		ctx, span := tracer.Start(r.Context(), "build-"+output)
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

		logger := logging.GetFromContext(ctx)

		cfg, data, readErr := readBuildRequest(r)

		// the policies decide on the build as far as it could be read, so that
		// an unauthorized request is reported as such even when its body is broken
		grant, err := authenticator.CheckAccess(ctx, r, describeBuild(output, cfg, data))
		if err != nil {
			logger.Warn("access denied", "err", err.Error())
			errors.ReportUnauthorizedRequest(w, "not authorized to build cubes")
			return
		}

		if grant.Subject != "" {
			ctx = logging.NewContextWithLogger(ctx, logger, "subject", grant.Subject)
			logger = logging.GetFromContext(ctx)
		}

		if err = readErr; err != nil {
			logger.Error("failed to read build request", "err", err.Error())
			errors.ReportNewBadRequestData(w, err.Error())
			return
		}

		result, err := app.Build(ctx, cfg, data)
		if err != nil {
			logger.Error("cube build failed", "err", err.Error())
			errors.ReportBuildError(w, err)
			return
		}

		if labeler, found := otelhttp.LabelerFromContext(ctx); found {
			labeler.Add(attribute.String(TraceAttributeCube, result.Identifier()))
		}
		span.SetAttributes(
			attribute.String(TraceAttributeBuildID, result.BuildID),
			attribute.String(TraceAttributeCube, result.Identifier()),
		)

		responseBody, err := json.Marshal(body(result))
		if err != nil {
			logger.Error("failed to marshal build result", "err", err.Error())
			errors.NewInternalError("failed to encode the build result").WriteResponse(w)
			return
		}

		w.Header().Add("Content-Type", contentType)
		w.Header().Add(BuildIDHeader, result.BuildID)
		w.WriteHeader(http.StatusOK)
		w.Write(responseBody)
	}
}

func describeBuild(output string, cfg *cubebuilder.Config, data *cubebuilder.Table) auth.Build {
	build := auth.Build{Output: output}

	if cfg == nil {
		return build
	}

	build.Cube = cfg.DocumentIdentifier()
	build.URIStyle = cfg.URIStyle
	build.Columns = len(cfg.Columns)

	if data == nil {
		data, _ = cfg.Table()
	}
	if data != nil {
		build.Rows = len(data.Rows)
	}

	return build
}

// readBuildRequest accepts either a bare yaml cube description with inline
// data, or a multipart form with the description in a "config" part and the
// cell values in an optional "data" csv part
func readBuildRequest(r *http.Request) (*cubebuilder.Config, *cubebuilder.Table, error) {
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		cfg, err := cubebuilder.LoadConfiguration(http.MaxBytesReader(nil, r.Body, maxRequestSize))
		if err != nil {
			return nil, nil, fmt.Errorf("failed to decode cube description: %w", err)
		}
		return cfg, nil, nil
	}

	if err := r.ParseMultipartForm(maxRequestSize); err != nil {
		return nil, nil, fmt.Errorf("failed to parse multipart form: %w", err)
	}

	configPart, _, err := r.FormFile("config")
	if err != nil {
		return nil, nil, fmt.Errorf("cube description is missing: %w", err)
	}
	defer configPart.Close()

	cfg, err := cubebuilder.LoadConfiguration(configPart)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decode cube description: %w", err)
	}

	dataPart, _, err := r.FormFile("data")
	if err != nil {
		return cfg, nil, nil
	}
	defer dataPart.Close()

	data, err := cubebuilder.ReadCSV(dataPart)
	if err != nil {
		return nil, nil, err
	}

	return cfg, data, nil
}
