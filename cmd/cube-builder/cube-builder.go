package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/diwise/csvcube/internal/pkg/application/cubebuilder"
	"github.com/diwise/csvcube/internal/pkg/application/notifications"
	"github.com/diwise/csvcube/internal/pkg/infrastructure/router"
	"github.com/diwise/csvcube/internal/pkg/presentation/api/cubes"
	"github.com/diwise/service-chassis/pkg/infrastructure/buildinfo"
	"github.com/diwise/service-chassis/pkg/infrastructure/env"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
)

const serviceName string = "cube-builder"

func defaultFlags() FlagMap {
	return FlagMap{
		listenAddress:       "",
		servicePort:         "8080",
		outputDir:           ".",
		opaPath:             "/opt/diwise/config/authz.rego",
		serveMode:           "false",
		maxConcurrentBuilds: "4",
	}
}

func main() {
	serviceVersion := buildinfo.SourceVersion()

	ctx, logger, cleanup := o11y.Init(context.Background(), serviceName, serviceVersion, "json")
	defer cleanup()

	flags := parseExternalConfig(ctx, defaultFlags())

	limit, err := strconv.Atoi(flags[maxConcurrentBuilds])
	if err != nil {
		logger.Error("invalid number of concurrent builds", "err", err.Error())
		os.Exit(1)
	}

	options, stop, err := notifierOptions(ctx, flags)
	if err != nil {
		logger.Error("failed to create build notifier", "err", err.Error())
		os.Exit(1)
	}
	defer stop()

	app := cubebuilder.New(limit, options...)

	if flags[serveMode] == "true" {
		err = serve(ctx, flags, app)
	} else {
		err = build(ctx, flags, app)
	}

	if err != nil {
		logger.Error("cube builder failed", "err", err.Error())
		os.Exit(1)
	}
}

func parseExternalConfig(ctx context.Context, flags FlagMap) FlagMap {

	// Allow environment variables to override certain defaults
	envOrDef := env.GetVariableOrDefault
	flags[servicePort] = envOrDef(ctx, "SERVICE_PORT", flags[servicePort])
	flags[opaPath] = envOrDef(ctx, "CUBE_BUILDER_POLICIES", flags[opaPath])
	flags[outputDir] = envOrDef(ctx, "CUBE_BUILDER_OUTPUT", flags[outputDir])
	flags[notifierEndpoint] = envOrDef(ctx, "CUBE_BUILDER_NOTIFIER_ENDPOINT", flags[notifierEndpoint])

	apply := func(f FlagType) func(string) error {
		return func(value string) error {
			flags[f] = value
			return nil
		}
	}

	// Allow command line arguments to override defaults and environment variables
	flag.Func("config", "comma separated list of yaml cube descriptions", apply(configPath))
	flag.Func("csv", "comma separated list of csv files, one per cube description", apply(dataPath))
	flag.Func("out", "directory to write the csv-w files to", apply(outputDir))
	flag.Func("policies", "an authorization policy file", apply(opaPath))
	flag.Func("builds", "maximum number of cubes built at the same time", apply(maxConcurrentBuilds))
	flag.BoolFunc("serve", "serve the build api instead of building the configured cubes", func(value string) error {
		flags[serveMode] = value
		return nil
	})
	flag.Parse()

	return flags
}

// notifierOptions starts a notifier when an endpoint is configured. The returned
// func stops it again.
func notifierOptions(ctx context.Context, flags FlagMap) ([]cubebuilder.Option, func(), error) {
	if flags[notifierEndpoint] == "" {
		return nil, func() {}, nil
	}

	n, err := notifications.NewNotifier(ctx, flags[notifierEndpoint])
	if err != nil {
		return nil, nil, err
	}

	if err = n.Start(); err != nil {
		return nil, nil, err
	}

	return []cubebuilder.Option{cubebuilder.WithNotifier(n)}, func() { n.Stop() }, nil
}

func serve(ctx context.Context, flags FlagMap, app cubebuilder.CubeBuilder) error {
	logger := logging.GetFromContext(ctx)

	policies, err := os.Open(flags[opaPath])
	if err != nil {
		return fmt.Errorf("unable to open opa policy file: %w", err)
	}
	defer policies.Close()

	r, err := newRouter(ctx, policies, app)
	if err != nil {
		return err
	}

	address := flags[listenAddress] + ":" + flags[servicePort]
	logger.Info("starting to listen for connections", "address", address)

	return http.ListenAndServe(address, r)
}

func newRouter(ctx context.Context, policies io.Reader, app cubebuilder.CubeBuilder) (http.Handler, error) {
	r := router.New(serviceName)

	err := cubes.RegisterHandlers(ctx, r, policies, app)
	if err != nil {
		return nil, err
	}

	return r, nil
}

// build reads every configured cube description and its optional csv file,
// builds them and writes the results to the output directory
func build(ctx context.Context, flags FlagMap, app cubebuilder.CubeBuilder) error {
	logger := logging.GetFromContext(ctx)

	configs := splitList(flags[configPath])
	if len(configs) == 0 {
		return fmt.Errorf("no cube description given, use -config or -serve")
	}

	datafiles := splitList(flags[dataPath])
	if len(datafiles) > 0 && len(datafiles) != len(configs) {
		return fmt.Errorf("got %d csv files for %d cube descriptions", len(datafiles), len(configs))
	}

	jobs := make([]cubebuilder.Job, 0, len(configs))

	for i, path := range configs {
		cfg, err := loadConfigFile(path)
		if err != nil {
			return err
		}

		job := cubebuilder.Job{Config: cfg}

		if len(datafiles) > 0 {
			job.Data, err = loadDataFile(datafiles[i])
			if err != nil {
				return err
			}
		}

		jobs = append(jobs, job)
	}

	results, err := app.BuildAll(ctx, jobs)
	if err != nil {
		return err
	}

	for _, result := range results {
		files, err := writeResult(flags[outputDir], result)
		if err != nil {
			return err
		}
		logger.Info("cube written", "cube", result.Identifier(), "build_id", result.BuildID, "files", files)
	}

	return nil
}

func loadConfigFile(path string) (*cubebuilder.Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open cube description: %w", err)
	}
	defer f.Close()

	cfg, err := cubebuilder.LoadConfiguration(f)
	if err != nil {
		return nil, fmt.Errorf("failed to load cube description %s: %w", path, err)
	}

	return cfg, nil
}

func loadDataFile(path string) (*cubebuilder.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open csv file: %w", err)
	}
	defer f.Close()

	return cubebuilder.ReadCSV(f)
}

func splitList(list string) []string {
	items := []string{}
	for _, item := range strings.Split(list, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
