package main

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/diwise/csvcube/internal/pkg/application/cubebuilder"
	"github.com/matryer/is"
)

func TestBuildWritesCSVWFiles(t *testing.T) {
	is, flags := setupBuildTest(t)

	err := build(context.Background(), flags, cubebuilder.New(1))
	is.NoErr(err)

	for _, name := range []string{
		"population.csv", "population.csv-metadata.json",
		"sex.csv", "sex.csv-metadata.json",
	} {
		_, err := os.Stat(filepath.Join(flags[outputDir], name))
		is.NoErr(err) // expected file is missing
	}

	data, err := os.ReadFile(filepath.Join(flags[outputDir], "population.csv"))
	is.NoErr(err)
	is.Equal(string(data), "Area,Sex,Value\nNorth,female,10\nNorth,male,12\n")

	codes, err := os.ReadFile(filepath.Join(flags[outputDir], "sex.csv"))
	is.NoErr(err)
	is.Equal(string(codes), "Label,Notation,Parent Notation,Sort Priority,Description\nFemale,female,,0,\nMale,male,,1,\n")

	b, err := os.ReadFile(filepath.Join(flags[outputDir], "population.csv-metadata.json"))
	is.NoErr(err)

	metadata := map[string]any{}
	is.NoErr(json.Unmarshal(b, &metadata))
	is.Equal(metadata["@id"], "population.csv#dataset")
}

func TestBuildNeedsOneCSVFilePerDescription(t *testing.T) {
	is, flags := setupBuildTest(t)

	flags[dataPath] = flags[dataPath] + "," + flags[dataPath]

	err := build(context.Background(), flags, cubebuilder.New(1))
	is.True(err != nil) // should fail on mismatched file lists
}

func TestBuildWithoutDescriptionFails(t *testing.T) {
	is := is.New(t)

	err := build(context.Background(), defaultFlags(), cubebuilder.New(1))
	is.True(err != nil) // should fail without a cube description
}

func TestNoNotifierWithoutEndpoint(t *testing.T) {
	is := is.New(t)

	options, stop, err := notifierOptions(context.Background(), defaultFlags())
	is.NoErr(err)
	is.Equal(len(options), 0)
	stop()
}

func TestFailingCloseIsReported(t *testing.T) {
	is := is.New(t)

	path := filepath.Join(t.TempDir(), "counts.csv")

	err := writeFile(path, func(w io.Writer) error {
		// leaves nothing for the final close to succeed with
		return w.(*os.File).Close()
	})
	is.True(err != nil) // the close error should not be swallowed
	is.True(strings.Contains(err.Error(), "failed to close"))

	err = writeFile(path, func(w io.Writer) error {
		_, err := io.WriteString(w, "Area\n")
		return err
	})
	is.NoErr(err)
}

func TestCubeNamedAfterItsCodeListIsNotWritten(t *testing.T) {
	is, flags := setupBuildTest(t)

	description := strings.Replace(cubeDescription, "title: Population", "title: Sex", 1)
	is.NoErr(os.WriteFile(flags[configPath], []byte(description), 0644))

	err := build(context.Background(), flags, cubebuilder.New(1))
	is.True(err != nil) // sex.csv would hold both the cube and its code list

	_, err = os.Stat(filepath.Join(flags[outputDir], "sex.csv"))
	is.True(os.IsNotExist(err))
}

func TestSplitList(t *testing.T) {
	is := is.New(t)

	is.Equal(splitList(" a.yaml, ,b.yaml"), []string{"a.yaml", "b.yaml"})
	is.Equal(splitList(""), []string{})
}

func setupBuildTest(t *testing.T) (*is.I, FlagMap) {
	is := is.New(t)
	dir := t.TempDir()

	configFile := filepath.Join(dir, "population.yaml")
	is.NoErr(os.WriteFile(configFile, []byte(cubeDescription), 0644))

	dataFile := filepath.Join(dir, "population-data.csv")
	is.NoErr(os.WriteFile(dataFile, []byte(cubeData), 0644))

	flags := defaultFlags()
	flags[configPath] = configFile
	flags[dataPath] = dataFile
	flags[outputDir] = filepath.Join(dir, "out")

	return is, flags
}

const cubeDescription string = `
title: Population
columns:
  - title: Area
    type: dimension
    uri: http://example.org/def/area
  - title: Sex
    type: dimension
  - title: Value
    type: observations
    dataType: integer
    measure:
      label: Residents
    unit:
      uri: http://qudt.org/vocab/unit/NUM
`

const cubeData string = `Area,Sex,Value
North,Female,10
North,Male,12
`
