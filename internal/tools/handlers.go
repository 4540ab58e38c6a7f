package tools

import (
	"encoding/json"
	"fmt"
	"log"

	"vyna-tutor-agent/internal/app"
)

// ToggleComponentMethod is the method name the frontend invokes to report
// a component click back to the agent.
const ToggleComponentMethod = "agent.toggleComponent"

// NewToggleComponentHandler returns the handler for frontend-initiated
// component toggles. It replies "success" or "error: <message>"; the
// frontend only checks the prefix.
func NewToggleComponentHandler(session *app.SessionState) func(payload string) string {
	return func(payload string) string {
		var data struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal([]byte(payload), &data); err != nil {
			log.Printf("tools: toggle handler: bad payload: %v", err)
			return fmt.Sprintf("error: %v", err)
		}
		if data.ID == "" {
			log.Printf("tools: toggle handler: no action ID in payload")
			return "error: no action ID in payload"
		}

		component, err := session.ToggleComponent(data.ID)
		if err != nil {
			log.Printf("tools: toggle handler: component %s not found", data.ID)
			return fmt.Sprintf("error: %v", err)
		}
		log.Printf("tools: toggled component %s, is_showed: %v", component.ID, component.IsShowed)
		return "success"
	}
}
