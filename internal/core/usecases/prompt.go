package usecases

import (
	"fmt"
	"strings"

	"github.com/samirrijal/oceanhelm/internal/core/domain"
)

// buildChatPrompt renders the system instructions for one chat turn.
// When a mission is active the prompt carries its named endpoints and
// coordinates so the oracle answers about the actual route instead of
// inventing one.
func buildChatPrompt(m domain.Mission) string {
	missionContext := "STATUS: IDLE. No active route."
	if m.Active {
		missionContext = fmt.Sprintf(`ACTIVE ROUTE DATA:
------------------
FROM (Origin): %s
     - Coordinates: %v, %v

TO (Destination): %s
     - Coordinates: %v, %v
------------------
Mission Summary: %s`,
			m.Origin.Name, m.Origin.Lat, m.Origin.Lng,
			m.Destination.Name, m.Destination.Lat, m.Destination.Lng,
			m.Summary)
	}

	var b strings.Builder
	b.WriteString("You are OceanHelm, an Ocean Mission Controller.\n\n")
	b.WriteString(missionContext)
	b.WriteString("\n\nINSTRUCTIONS:\n")
	b.WriteString("1. If user asks about the current mission (destination/origin), use the data above.\n")
	b.WriteString(`2. If user asks to PLAN A ROUTE (e.g. "Route from A to B"), reply EXACTLY: "To plan a route, please click 'Enable Route Planner' (top right) and select two points on the globe."` + "\n")
	b.WriteString(`3. If user wants to Zoom/Go to a SINGLE SPECIFIC PLACE (e.g. "Zoom to Paris"), return ONLY: [LOOKUP: Place Name]` + "\n")
	b.WriteString("4. Keep normal replies under 2 sentences.\n")
	b.WriteString(`5. If a location is mentioned from the active route, append: [COMMAND: {"lat": X, "lng": Y, "zoom": Z}]` + "\n")
	return b.String()
}
