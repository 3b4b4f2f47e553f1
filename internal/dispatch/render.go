package dispatch

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/ridehub/taxi-bot/internal/models"
)

// WazeLink builds a navigation link to the pickup. Shared locations navigate
// to the coordinates, typed addresses go through Waze search.
func WazeLink(p models.Place) string {
	if p.Source == models.SourceShared {
		return fmt.Sprintf("https://waze.com/ul?ll=%v,%v&navigate=yes", p.Lat, p.Lon)
	}
	q := strings.ReplaceAll(url.QueryEscape(p.Address), "+", "%20")
	return fmt.Sprintf("https://waze.com/ul?q=%s&navigate=yes", q)
}

// RenderOrder creates the message every driver receives for an order.
func RenderOrder(o models.Order) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("🚖 NEW ORDER #%s\n\n", o.ShortID()))
	sb.WriteString(fmt.Sprintf("👤 Name: %s\n", o.Name))
	sb.WriteString(fmt.Sprintf("📱 Phone: %s\n", o.Phone))
	sb.WriteString(fmt.Sprintf("📍 Pickup: %s\n", o.Pickup))
	sb.WriteString(fmt.Sprintf("🏁 Drop-off: %s\n", o.Dropoff))
	if o.Comment != "" {
		sb.WriteString(fmt.Sprintf("💬 Comment: %s\n", o.Comment))
	}

	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("🔗 Waze Navigation: %s\n", WazeLink(o.Pickup)))

	if o.PassengerUsername != "" {
		sb.WriteString(fmt.Sprintf("💬 Contact customer: @%s", o.PassengerUsername))
	} else {
		sb.WriteString(fmt.Sprintf("💬 Contact customer by phone: %s", o.Phone))
	}

	return sb.String()
}
