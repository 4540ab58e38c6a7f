package tools

import (
	"context"
	"errors"
	"fmt"
	"log"

	"vyna-tutor-agent/internal/protocol"
	"vyna-tutor-agent/internal/rpc"
)

// CreateComponent stores a text component in the session and shows it on
// the frontend. The component exists locally even when display fails.
func (t *Toolset) CreateComponent(ctx context.Context, content string) string {
	component := t.session.AddComponent(content)

	_, err := t.callFrontend(ctx, t.methods.Component, protocol.ComponentRequest{
		Action:  protocol.ActionShowComponent,
		ID:      component.ID,
		Content: component.Content,
		Index:   len(t.session.Components) - 1,
	})
	switch {
	case errors.Is(err, errNoRoom):
		return "Created a component, but couldn't access the room to send it"
	case errors.Is(err, rpc.ErrNoPeer):
		return "Created a component, but no participants found to send it to"
	case err != nil:
		log.Printf("tools: show component: %v", err)
		return "Created a component, but couldn't display it"
	}
	return fmt.Sprintf("I've created a component with the content: %s", content)
}

// ToggleComponent flips a component's visibility and mirrors the change
// on the frontend.
func (t *Toolset) ToggleComponent(ctx context.Context, componentID string) string {
	component, err := t.session.ToggleComponent(componentID)
	if err != nil {
		return fmt.Sprintf("Component with ID %s not found", componentID)
	}

	_, err = t.callFrontend(ctx, t.methods.Component, protocol.ComponentRequest{
		Action: protocol.ActionToggleComponent,
		ID:     component.ID,
	})
	switch {
	case errors.Is(err, errNoRoom):
		return "Toggled the component, but couldn't access the room to send it"
	case errors.Is(err, rpc.ErrNoPeer):
		return "Toggled the component, but no participants found to send it to"
	case err != nil:
		log.Printf("tools: toggle component: %v", err)
		return "Toggled the component, but couldn't display it"
	}

	state := "hide"
	if component.IsShowed {
		state = "show"
	}
	return fmt.Sprintf("I've toggled the component to %s the component", state)
}
