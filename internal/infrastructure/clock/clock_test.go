package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garyjia/closing-dashboard/internal/application/view"
	"github.com/garyjia/closing-dashboard/internal/domain/entity"
)

func TestShifted_PinsCalendarDate(t *testing.T) {
	c := NewShifted(entity.MustParseDate("2026-01-13"), time.UTC)

	now := c.Now().In(time.UTC)
	// the test could straddle midnight; allow the following day
	d := entity.DateOf(now)
	assert.True(t, d.Equal(entity.MustParseDate("2026-01-13")) || d.Equal(entity.MustParseDate("2026-01-14")), "got %s", d)

	later := c.Now()
	assert.False(t, later.Before(now), "shifted clock must keep moving forward")
}

func TestShifted_DateFollowsConfiguredZone(t *testing.T) {
	// Kiritimati and Etc/GMT+12 are 26 hours apart: whatever the host zone,
	// one of them is on another calendar day than time.Local
	for _, name := range []string{"Pacific/Kiritimati", "Etc/GMT+12", "Asia/Ho_Chi_Minh"} {
		t.Run(name, func(t *testing.T) {
			c, err := New("2026-01-13", name)
			require.NoError(t, err)

			now := c.Now()
			assert.Equal(t, name, now.Location().String())

			d := entity.DateOf(now)
			if d.Equal(entity.MustParseDate("2026-01-14")) {
				t.Skip("crossed midnight in " + name)
			}
			assert.Equal(t, "2026-01-13", d.String())
			assert.Equal(t, 2, view.SLA(entity.MustParseDate("2026-01-15"), now))
		})
	}
}

func TestSystem_UsesConfiguredZone(t *testing.T) {
	c, err := New("", "Pacific/Kiritimati")
	require.NoError(t, err)

	assert.Equal(t, "Pacific/Kiritimati", c.Now().Location().String())
	assert.Equal(t, "Local", System{}.Now().Location().String())
}

func TestNew(t *testing.T) {
	c, err := New("", "")
	require.NoError(t, err)
	assert.IsType(t, System{}, c)

	c, err = New("2026-01-13", "UTC")
	require.NoError(t, err)
	assert.IsType(t, &Shifted{}, c)

	_, err = New("13/01/2026", "")
	assert.Error(t, err)

	_, err = New("", "Mars/Olympus_Mons")
	assert.Error(t, err)
}

func TestFixed(t *testing.T) {
	at := time.Date(2026, 1, 13, 8, 0, 0, 0, time.UTC)
	assert.Equal(t, at, Fixed{At: at}.Now())
}
