package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name               string
		page, size         int
		wantPage, wantSize int
	}{
		{"defaults", 0, 0, DefaultPage, DefaultSize},
		{"negative", -3, -1, DefaultPage, DefaultSize},
		{"kept", 3, 20, 3, 20},
		{"capped", 1, 1000, 1, MaxSize},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, size := Normalize(tt.page, tt.size)
			assert.Equal(t, tt.wantPage, page)
			assert.Equal(t, tt.wantSize, size)
		})
	}
}

func TestWindow(t *testing.T) {
	start, end := Window(1, 10, 25)
	assert.Equal(t, 0, start)
	assert.Equal(t, 10, end)

	start, end = Window(3, 10, 25)
	assert.Equal(t, 20, start)
	assert.Equal(t, 25, end)

	start, end = Window(5, 10, 25)
	assert.Equal(t, 25, start)
	assert.Equal(t, 25, end, "pages past the end are empty")

	assert.Equal(t, 40, Offset(5, 10))
}
