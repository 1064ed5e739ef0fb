package main

import (
	"os"
	"runtime"

	"github.com/ttpr0/go-accessibility/friction"
	"github.com/ttpr0/go-accessibility/speed"
	. "github.com/ttpr0/go-accessibility/util"
	"golang.org/x/exp/slog"
	"gopkg.in/yaml.v3"
)

//**********************************************************
// config
//**********************************************************

func ReadConfig(file string) Config {
	slog.Info("Reading config file")
	data, err := os.ReadFile(file)
	if err != nil {
		slog.Error("failed to read config file: " + err.Error())
		panic(err)
	}
	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		slog.Error("failed to parse config file: " + err.Error())
		panic(err)
	}
	return config
}

type Config struct {
	Data struct {
		// roads and facilities accept .geojson or pre-filtered .pbf
		Roads      string            `yaml:"roads"`
		Facilities string            `yaml:"facilities"`
		Landcover  []LandcoverSource `yaml:"landcover"`
		Water      string            `yaml:"water"`
	} `yaml:"data"`
	Output struct {
		Dir string `yaml:"dir"`
	} `yaml:"output"`
	Speeds struct {
		Roads     *speed.RoadSpeeds     `yaml:"roads"`
		Landcover Dict[string, float64] `yaml:"landcover"`
	} `yaml:"speeds"`
	CostDistance struct {
		Method   string  `yaml:"method"`
		MaxTime  float64 `yaml:"max-time"`
		Backlink bool    `yaml:"backlink"`
	} `yaml:"cost-distance"`
	Workers int `yaml:"workers"`
}

type LandcoverSource struct {
	Class string `yaml:"class"`
	File  string `yaml:"file"`
}

// RoadSpeeds returns the built-in road speed table with config
// overrides merged in.
func (self *Config) RoadSpeeds() *speed.RoadSpeeds {
	table := speed.DefaultRoadSpeeds()
	if self.Speeds.Roads != nil {
		table.Merge(self.Speeds.Roads)
	}
	return table
}

// LandcoverSpeeds returns the built-in land-cover speed table with
// config overrides merged in.
func (self *Config) LandcoverSpeeds() speed.LandcoverSpeeds {
	table := speed.DefaultLandcoverSpeeds()
	for class, value := range self.Speeds.Landcover {
		table[class] = value
	}
	return table
}

func (self *Config) Method() string {
	if self.CostDistance.Method == "" {
		return "dijkstra"
	}
	return self.CostDistance.Method
}

func (self *Config) MaxTime() float64 {
	if self.CostDistance.MaxTime <= 0 {
		return friction.DefaultMaxTime
	}
	return self.CostDistance.MaxTime
}

func (self *Config) WorkerCount() int {
	if self.Workers <= 0 {
		return runtime.NumCPU()
	}
	return self.Workers
}
