package tools

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"vyna-tutor-agent/internal/domain"
	"vyna-tutor-agent/internal/protocol"
	"vyna-tutor-agent/internal/rpc"
)

// availableIllustrations is the registry of visual aids the agent can
// display. Add entries here as assets become available.
var availableIllustrations = map[string]domain.Illustration{
	"pythagoras": {
		URL:         "https://upload.wikimedia.org/wikipedia/commons/thumb/d/d2/Pythagorean.svg/512px-Pythagorean.svg.png",
		Description: "Pythagorean theorem diagram showing a² + b² = c²",
		Topics:      []string{"mathematics", "geometry", "pythagoras", "triangle", "theorem"},
	},
	"trigonometry": {
		URL:         "https://upload.wikimedia.org/wikipedia/commons/thumb/7/7e/Trigonometry_triangle.svg/800px-Trigonometry_triangle.svg.png",
		Description: "A trigonometry triangle is a right-angled triangle used as the fundamental scaffold for defining sine, cosine, and tangent",
		Topics:      []string{"mathematics", "geometry", "trigonometry", "triangle"},
	},
}

// ShowIllustration displays a registered illustration to the student.
func (t *Toolset) ShowIllustration(ctx context.Context, illustrationKey string) string {
	illustration, ok := availableIllustrations[illustrationKey]
	if !ok {
		keys := make([]string, 0, len(availableIllustrations))
		for key := range availableIllustrations {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		return fmt.Sprintf("I don't have an illustration called '%s'. Available illustrations are: %s",
			illustrationKey, strings.Join(keys, ", "))
	}

	resp, err := t.callFrontend(ctx, t.methods.Illustration, protocol.IllustrationRequest{
		State:    "show",
		ImageURL: illustration.URL,
	})
	switch {
	case errors.Is(err, errNoRoom):
		return "Cannot show illustration: couldn't access the room"
	case errors.Is(err, rpc.ErrNoPeer):
		return "Cannot show illustration: no participants found in the room"
	case rpc.IsKind(err, rpc.KindTimeout):
		return "The illustration request timed out. Please make sure the frontend is connected and try again."
	case err != nil:
		return "I encountered an error while trying to show the illustration. The frontend may not be ready to receive it."
	case !resp.OK:
		return fmt.Sprintf("I tried to show the illustration but encountered an error: %s", respError(resp))
	}
	return fmt.Sprintf("I've displayed the illustration showing %s to you.", illustration.Description)
}

// HideIllustration clears the currently displayed illustration.
func (t *Toolset) HideIllustration(ctx context.Context) string {
	resp, err := t.callFrontend(ctx, t.methods.Illustration, protocol.IllustrationRequest{State: "hidden"})
	switch {
	case errors.Is(err, errNoRoom):
		return "Cannot hide illustration: couldn't access the room"
	case errors.Is(err, rpc.ErrNoPeer):
		return "Cannot hide illustration: no participants found in the room"
	case rpc.IsKind(err, rpc.KindTimeout):
		return "The hide illustration request timed out. Please make sure the frontend is connected."
	case err != nil:
		return "I encountered an error while trying to hide the illustration. The frontend may not be ready."
	case !resp.OK:
		return fmt.Sprintf("I tried to hide the illustration but encountered an error: %s", respError(resp))
	}
	return "I've hidden the illustration."
}
