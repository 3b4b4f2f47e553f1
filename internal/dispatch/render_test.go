package dispatch

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ridehub/taxi-bot/internal/models"
)

func TestWazeLink(t *testing.T) {
	tests := []struct {
		name  string
		place models.Place
		want  string
	}{
		{
			name:  "shared location navigates to coordinates",
			place: models.SharedPlace(32.0853, 34.7818),
			want:  "https://waze.com/ul?ll=32.0853,34.7818&navigate=yes",
		},
		{
			name:  "typed address uses search",
			place: models.TypedPlace("12 Elm St"),
			want:  "https://waze.com/ul?q=12%20Elm%20St&navigate=yes",
		},
		{
			name:  "reserved characters are escaped",
			place: models.TypedPlace("Main & 5th"),
			want:  "https://waze.com/ul?q=Main%20%26%205th&navigate=yes",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, WazeLink(tc.place))
			assert.Equal(t, WazeLink(tc.place), WazeLink(tc.place))
		})
	}
}

func TestRenderOrder(t *testing.T) {
	o := models.NewDraft(1, 100, "dana")
	o.Name = "Dana"
	o.Phone = models.TypedPhone("+15551234567")
	o.Pickup = models.TypedPlace("12 Elm St")
	o.Dropoff = "45 Oak Ave"

	t.Run("without comment", func(t *testing.T) {
		text := RenderOrder(*o)

		assert.Contains(t, text, "🚖 NEW ORDER #"+o.ShortID())
		assert.Contains(t, text, "👤 Name: Dana\n")
		assert.Contains(t, text, "📱 Phone: +15551234567\n")
		assert.Contains(t, text, "📍 Pickup: 12 Elm St\n")
		assert.Contains(t, text, "🏁 Drop-off: 45 Oak Ave\n")
		assert.Contains(t, text, "https://waze.com/ul?q=12%20Elm%20St&navigate=yes")
		assert.Contains(t, text, "Contact customer: @dana")
		assert.NotContains(t, text, "Comment:")
	})

	t.Run("with comment and no username", func(t *testing.T) {
		cp := *o
		cp.Comment = "two suitcases"
		cp.PassengerUsername = ""

		text := RenderOrder(cp)

		assert.Contains(t, text, "💬 Comment: two suitcases\n")
		assert.Contains(t, text, "Contact customer by phone: +15551234567")
	})
}
