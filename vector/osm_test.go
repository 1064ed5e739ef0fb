package vector

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadRoadsPBFInvalid(t *testing.T) {
	// a broken file surfaces the scanner error instead of an empty result
	file := write_temp(t, "roads.pbf", "not a pbf file")
	_, err := LoadRoadsPBF(file)
	assert.Error(t, err)

	_, err = LoadRoadsPBF(filepath.Join(t.TempDir(), "missing.pbf"))
	assert.Error(t, err)
}

func TestLoadFacilitiesPBFInvalid(t *testing.T) {
	file := write_temp(t, "facilities.pbf", "not a pbf file")
	_, err := LoadFacilitiesPBF(file)
	assert.Error(t, err)
}
