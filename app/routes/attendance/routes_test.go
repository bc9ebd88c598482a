package attendance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakthimugupython/Vetri-Training-Final/app/models"
)

func TestCalendarDays(t *testing.T) {
	records := []*models.TraineeAttendance{
		{Date: time.Date(2025, 3, 3, 0, 0, 0, 0, time.Local), Status: models.Present},
		{Date: time.Date(2025, 3, 4, 0, 0, 0, 0, time.Local), Status: models.Informed, Remarks: "Called in sick"},
		{Date: time.Date(2025, 3, 28, 0, 0, 0, 0, time.Local), Status: models.NotInformed},
	}

	days := calendarDays(records)

	require.Len(t, days, 3)
	assert.Equal(t, calendarDay{Status: "present"}, days[3])
	assert.Equal(t, calendarDay{Status: "informed", Remarks: "Called in sick"}, days[4])
	assert.Equal(t, calendarDay{Status: "not_informed"}, days[28])

	_, marked := days[5]
	assert.False(t, marked, "unmarked days stay absent from the map")
}

func TestCalendarDaysEmpty(t *testing.T) {
	assert.Empty(t, calendarDays(nil))
}

func TestLocalDateStripsTime(t *testing.T) {
	in := time.Date(2025, 6, 15, 23, 45, 12, 999, time.Local)
	got := localDate(in)

	assert.Equal(t, time.Date(2025, 6, 15, 0, 0, 0, 0, time.Local), got)
	assert.Equal(t, time.Local, got.Location())
}
