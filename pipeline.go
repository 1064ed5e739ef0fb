package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/ttpr0/go-accessibility/costdist"
	"github.com/ttpr0/go-accessibility/friction"
	"github.com/ttpr0/go-accessibility/raster"
	"github.com/ttpr0/go-accessibility/speed"
	"github.com/ttpr0/go-accessibility/vector"
	. "github.com/ttpr0/go-accessibility/util"
	"golang.org/x/exp/slog"
)

//**********************************************************
// pipeline
//**********************************************************

// RunPipeline produces the accessibility map: road and land-cover
// speeds, combined speed, friction and finally the cost-distance
// rasters. Every stage skips itself when its output artifact already
// exists, so a partially failed run can simply be restarted.
func RunPipeline(config Config) error {
	dir := config.Output.Dir
	if dir == "" {
		dir = "./output"
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrap(err, "can't create output directory")
	}
	workers := config.WorkerCount()

	// the shared grid is taken from the first land-cover layer; every
	// other input has to align with it
	if len(config.Data.Landcover) == 0 {
		return errors.New("no landcover layers configured")
	}
	grid, err := read_grid(config.Data.Landcover[0].File)
	if err != nil {
		return err
	}

	landcover_file := filepath.Join(dir, "speed_landcover.grid")
	if err := stage_landcover_speed(config, grid, landcover_file, workers); err != nil {
		return err
	}
	roads_file := filepath.Join(dir, "speed_roads.grid")
	if err := stage_road_speed(config, grid, roads_file); err != nil {
		return err
	}
	combined_file := filepath.Join(dir, "speed.grid")
	if err := stage_combined_speed(landcover_file, roads_file, combined_file); err != nil {
		return err
	}
	friction_file := filepath.Join(dir, "friction.grid")
	if err := stage_friction(config, combined_file, friction_file, workers); err != nil {
		return err
	}
	return stage_cost_distance(config, grid, friction_file, dir)
}

func stage_landcover_speed(config Config, grid raster.Grid, file string, workers int) error {
	if FileExists(file) {
		slog.Info("Landcover speed raster already exists, skipping")
		return nil
	}
	slog.Info("Computing landcover speed raster")
	layers := NewList[speed.LandcoverLayer](len(config.Data.Landcover))
	for _, source := range config.Data.Landcover {
		reader, err := raster.OpenBand[float64](source.File)
		if err != nil {
			return errors.Wrapf(err, "can't open landcover layer %s", source.Class)
		}
		defer reader.Close()
		layers.Add(speed.LandcoverLayer{Class: source.Class, Cover: reader})
	}
	var water raster.WindowSource[int32]
	if config.Data.Water != "" {
		reader, err := raster.OpenBand[int32](config.Data.Water)
		if err != nil {
			return errors.Wrap(err, "can't open surface water raster")
		}
		defer reader.Close()
		water = reader
	}
	writer, err := raster.CreateBand(file, grid, speed.NoData)
	if err != nil {
		return err
	}
	if err := speed.CompositeLandcover(layers, water, config.LandcoverSpeeds(), writer, workers); err != nil {
		writer.Close()
		os.Remove(file)
		return err
	}
	return writer.Close()
}

func stage_road_speed(config Config, grid raster.Grid, file string) error {
	if FileExists(file) {
		slog.Info("Road speed raster already exists, skipping")
		return nil
	}
	slog.Info("Computing road speed raster")
	roads, err := load_roads(config.Data.Roads)
	if err != nil {
		return err
	}
	slog.Debug(fmt.Sprintf("loaded %v road features", roads.Length()))
	band := speed.RasterizeRoads(roads, config.RoadSpeeds(), grid)
	return raster.WriteBand(band, file)
}

func stage_combined_speed(landcover_file, roads_file, file string) error {
	if FileExists(file) {
		slog.Info("Combined speed raster already exists, skipping")
		return nil
	}
	slog.Info("Combining speed rasters")
	landcover, err := raster.ReadBand[float64](landcover_file)
	if err != nil {
		return err
	}
	roads, err := raster.ReadBand[float64](roads_file)
	if err != nil {
		return err
	}
	combined, err := speed.CombineAll(landcover, roads)
	if err != nil {
		return err
	}
	return raster.WriteBand(combined, file)
}

func stage_friction(config Config, speed_file, file string, workers int) error {
	if FileExists(file) {
		slog.Info("Friction raster already exists, skipping")
		return nil
	}
	slog.Info("Computing friction raster")
	reader, err := raster.OpenBand[float64](speed_file)
	if err != nil {
		return err
	}
	defer reader.Close()
	writer, err := raster.CreateBand(file, reader.Grid(), friction.NoData)
	if err != nil {
		return err
	}
	if err := friction.FromSpeed(reader, config.MaxTime(), writer, workers); err != nil {
		writer.Close()
		os.Remove(file)
		return err
	}
	return writer.Close()
}

func stage_cost_distance(config Config, grid raster.Grid, friction_file, dir string) error {
	cost_file := filepath.Join(dir, "cost.grid")
	nearest_file := filepath.Join(dir, "nearest.grid")
	backlink_file := filepath.Join(dir, "backlink.grid")
	done := FileExists(cost_file) && FileExists(nearest_file)
	if config.CostDistance.Backlink {
		done = done && FileExists(backlink_file)
	}
	if done {
		slog.Info("Cost-distance rasters already exist, skipping")
		return nil
	}

	// fail fast on an unknown method before any work happens
	engine, err := costdist.New(config.Method(), config.CostDistance.Backlink)
	if err != nil {
		return err
	}
	facilities, err := load_facilities(config.Data.Facilities)
	if err != nil {
		return err
	}
	sources, err := costdist.SourcesFromFacilities(facilities, grid)
	if err != nil {
		return err
	}
	friction_band, err := raster.ReadBand[float64](friction_file)
	if err != nil {
		return err
	}

	slog.Info(fmt.Sprintf("Computing cost-distance from %v sources", sources.Length()))
	result, err := engine.Compute(friction_band, sources)
	if err != nil {
		return err
	}
	slog.Info("Cost-distance finished, writing outputs")
	if err := raster.WriteBand(result.Cost, cost_file); err != nil {
		return err
	}
	if err := raster.WriteBand(result.Nearest, nearest_file); err != nil {
		return err
	}
	if result.Backlink != nil {
		if err := raster.WriteBand(result.Backlink, backlink_file); err != nil {
			return err
		}
	}
	return nil
}

//**********************************************************
// input loaders
//**********************************************************

func load_roads(file string) (List[vector.RoadFeature], error) {
	if file == "" {
		return nil, errors.New("no road data configured")
	}
	if filepath.Ext(file) == ".pbf" {
		return vector.LoadRoadsPBF(file)
	}
	return vector.LoadRoadsGeoJSON(file)
}

func load_facilities(file string) (List[vector.FacilityPoint], error) {
	if file == "" {
		return nil, errors.New("no facility data configured")
	}
	if filepath.Ext(file) == ".pbf" {
		return vector.LoadFacilitiesPBF(file)
	}
	return vector.LoadFacilitiesGeoJSON(file)
}

func read_grid(file string) (raster.Grid, error) {
	reader, err := raster.OpenBand[float64](file)
	if err != nil {
		return raster.Grid{}, errors.Wrap(err, "can't read grid from landcover layer")
	}
	defer reader.Close()
	return reader.Grid(), nil
}
