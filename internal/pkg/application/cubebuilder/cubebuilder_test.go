package cubebuilder

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/diwise/csvcube/internal/pkg/application/notifications"
	"github.com/diwise/csvcube/pkg/csvw"
	qberrors "github.com/diwise/csvcube/pkg/qb/errors"
	"github.com/google/uuid"
	"github.com/matryer/is"
)

func TestBuild(t *testing.T) {
	is, app, config, table := setupBuilderTest(t)

	result, err := app.Build(context.Background(), config, table)
	is.NoErr(err)

	_, err = uuid.Parse(result.BuildID)
	is.NoErr(err) // build id should be a uuid

	is.Equal(result.Identifier(), "population")
	is.Equal(result.Metadata.ID, "population.csv#dataset")
	is.Equal(result.Metadata.Tables[0].URL, "population.csv")
	is.Equal(result.Metadata.Tables[0].TableSchema.AboutURL, "population.csv#obs/{area},{sex}@{measure}")

	is.Equal(len(result.CodeLists), 1) // should have a code list for sex
	is.Equal(result.CodeLists[0].Metadata.ID, "sex.csv#code-list")
	is.Equal(result.CodeLists[0].CodeList.Identifier(), "sex")

	buf := &bytes.Buffer{}
	is.NoErr(result.WriteData(buf))
	is.Equal(buf.String(), expectedDataFile)
}

func TestBuildFromInlineData(t *testing.T) {
	is, app, config, _ := setupBuilderTest(t)

	config.Columns[0].Data = []string{"http://example.org/area/south"}
	config.Columns[1].Data = []string{"Female"}
	config.Columns[2].Data = []string{"Count"}
	config.Columns[3].Data = []string{"People"}
	config.Columns[4].Data = []string{"7"}
	config.Columns[5].Data = []string{"Final"}

	result, err := app.Build(context.Background(), config, nil)
	is.NoErr(err)
	is.Equal(len(result.Data.Rows), 1)
}

func TestBuildRejectsInvalidData(t *testing.T) {
	is, app, config, _ := setupBuilderTest(t)

	table, err := ReadCSV(strings.NewReader(strings.Replace(dataFile, "1200", "many", 1)))
	is.NoErr(err)

	_, err = app.Build(context.Background(), config, table)
	is.True(errors.Is(err, qberrors.ErrDataValidation))
}

func TestBuildReportsStructuralErrors(t *testing.T) {
	is, app, config, table := setupBuilderTest(t)

	config.Columns[5].DescribesObservations = "Nothing"

	_, err := app.Build(context.Background(), config, table)
	is.True(errors.Is(err, qberrors.ErrMissingObservationBackReference))
}

func TestBuildAllKeepsJobOrder(t *testing.T) {
	is, app, config, table := setupBuilderTest(t)

	other, err := LoadConfiguration(strings.NewReader(strings.Replace(configFile, "title: Population", "title: Households", 1)))
	is.NoErr(err)

	results, err := app.BuildAll(context.Background(), []Job{
		{Config: config, Data: table},
		{Config: other, Data: table},
	})
	is.NoErr(err)

	is.Equal(len(results), 2)
	is.Equal(results[0].Identifier(), "population")
	is.Equal(results[1].Identifier(), "households")
	is.True(results[0].BuildID != results[1].BuildID) // every build should get its own id
}

func TestBuildAllFailsWhenAnyBuildFails(t *testing.T) {
	is, app, config, table := setupBuilderTest(t)

	broken, err := LoadConfiguration(strings.NewReader(strings.Replace(configFile, "type: units", "type: spreadsheet", 1)))
	is.NoErr(err)

	_, err = app.BuildAll(context.Background(), []Job{
		{Config: config, Data: table},
		{Config: broken, Data: table},
	})
	is.True(errors.Is(err, qberrors.ErrInvalidCube))
	is.True(strings.HasPrefix(err.Error(), "build 1 failed"))
}

func TestBuildOutcomesAreNotified(t *testing.T) {
	is := is.New(t)

	n := &notifications.NotifierMock{
		CubeBuiltFunc:   func(context.Context, notifications.Build) {},
		BuildFailedFunc: func(context.Context, notifications.Build) {},
	}
	app := New(1, WithNotifier(n))

	config, _ := LoadConfiguration(strings.NewReader(configFile))
	table, _ := ReadCSV(strings.NewReader(dataFile))

	result, err := app.Build(context.Background(), config, table)
	is.NoErr(err)

	is.Equal(len(n.CubeBuiltCalls()), 1)
	built := n.CubeBuiltCalls()[0].B
	is.Equal(built.BuildID, result.BuildID)
	is.Equal(built.Dataset, "population.csv#dataset")
	is.Equal(built.CodeLists, []string{"sex.csv#code-list"})

	config.Columns[5].DescribesObservations = "Nothing"
	_, err = app.Build(context.Background(), config, table)
	is.True(err != nil) // build should fail

	is.Equal(len(n.BuildFailedCalls()), 1)
	is.True(n.BuildFailedCalls()[0].B.Error != "") // failure should carry the error
}

func TestMetadataFileNames(t *testing.T) {
	is := is.New(t)

	is.Equal(csvw.MetadataFileName("population"), "population.csv-metadata.json")
}

func setupBuilderTest(t *testing.T) (*is.I, CubeBuilder, *Config, *Table) {
	is := is.New(t)

	config, err := LoadConfiguration(strings.NewReader(configFile))
	is.NoErr(err)

	table, err := ReadCSV(strings.NewReader(dataFile))
	is.NoErr(err)

	return is, New(2), config, table
}
