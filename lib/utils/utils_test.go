package utils_test

import (
	"image/color"
	"testing"
	"time"

	"github.com/fosdem/trimix/lib/utils"
	"github.com/stretchr/testify/assert"
)

func TestColourValidate(t *testing.T) {
	assert.True(t, utils.ColourValidate("#334d4dff"))
	assert.True(t, utils.ColourValidate("#FF00FF80"))
	assert.False(t, utils.ColourValidate("#334d4d"))
	assert.False(t, utils.ColourValidate("334d4dff"))
	assert.False(t, utils.ColourValidate("#334d4dffx"))
	assert.False(t, utils.ColourValidate("#gg4d4dff"))
}

func TestColourParse(t *testing.T) {
	c := utils.ColourParse("#ff000080")
	assert.Equal(t, float32(1), c.R)
	assert.Equal(t, float32(0), c.G)
	assert.InDelta(t, 128.0/255, c.A, 1e-6)
	assert.Equal(t, "#ff000080", c.String())

	assert.Equal(t, utils.Colour{}, utils.ColourParse("red"))
	assert.Equal(t, "#334d4dff", utils.ColourFromRGBA(color.RGBA{0x33, 0x4d, 0x4d, 0xff}).String())
}

func TestDeltaTimer(t *testing.T) {
	now := time.Unix(1000, 0)
	timer := utils.NewDeltaTimerWithClock(func() time.Time { return now })

	assert.Equal(t, time.Duration(0), timer.Next())
	now = now.Add(16 * time.Millisecond)
	assert.Equal(t, 16*time.Millisecond, timer.Next())
	now = now.Add(40 * time.Millisecond)
	assert.Equal(t, 40*time.Millisecond, timer.Next())
}
