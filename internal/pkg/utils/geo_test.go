package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateCoordinates(t *testing.T) {
	assert.True(t, ValidateCoordinates(48.85, 2.29))
	assert.True(t, ValidateCoordinates(-90, 180))
	assert.True(t, ValidateCoordinates(90, -180))
	assert.False(t, ValidateCoordinates(90.01, 0))
	assert.False(t, ValidateCoordinates(0, -180.01))
}

func TestValidateMapRadius(t *testing.T) {
	assert.True(t, ValidateMapRadius(0.001))
	assert.True(t, ValidateMapRadius(20037.9))
	assert.False(t, ValidateMapRadius(0))
	assert.False(t, ValidateMapRadius(-1))
	assert.False(t, ValidateMapRadius(20038))
}

func TestValidatePixelRadius(t *testing.T) {
	assert.True(t, ValidatePixelRadius(1))
	assert.True(t, ValidatePixelRadius(1e6))
	assert.False(t, ValidatePixelRadius(0))
	assert.False(t, ValidatePixelRadius(-5))
}
