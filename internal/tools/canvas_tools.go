package tools

import (
	"context"
	"errors"
	"fmt"
	"log"

	"vyna-tutor-agent/internal/domain"
	"vyna-tutor-agent/internal/protocol"
	"vyna-tutor-agent/internal/rpc"
)

// GetCanvasDrawing asks the frontend for a snapshot of the student's
// canvas and stores it for analysis.
func (t *Toolset) GetCanvasDrawing(ctx context.Context) string {
	resp, err := t.callFrontend(ctx, t.methods.Canvas, protocol.CanvasRequest{Action: protocol.ActionGetDrawing})
	switch {
	case errors.Is(err, errNoRoom):
		return "Cannot get canvas: couldn't access the room"
	case errors.Is(err, rpc.ErrNoPeer):
		return "Cannot get canvas: no participants found in the room"
	case rpc.IsKind(err, rpc.KindTimeout):
		return "The canvas request timed out. Please make sure you've drawn something on the canvas."
	case err != nil:
		return "I encountered an error while trying to get your drawing. Please try again."
	case !resp.OK:
		return fmt.Sprintf("I couldn't get your canvas drawing: %s", respError(resp))
	}

	var drawing domain.CanvasDrawing
	if ok, err := resp.Field("drawing_data", &drawing); !ok || err != nil {
		log.Printf("tools: canvas snapshot missing drawing_data: %v", err)
		return "I couldn't get your canvas drawing: the snapshot was empty."
	}
	// Keep the previous snapshot around for later review.
	t.session.SaveCanvasToHistory()
	t.session.SetCanvasDrawing(drawing)
	return fmt.Sprintf("I can see your drawing. It contains %d strokes. Let me analyze it.", len(drawing.Strokes))
}

// ClearCanvas wipes the frontend canvas and forgets the stored snapshot.
func (t *Toolset) ClearCanvas(ctx context.Context) string {
	resp, err := t.callFrontend(ctx, t.methods.Canvas, protocol.CanvasRequest{Action: protocol.ActionClear})
	switch {
	case errors.Is(err, errNoRoom):
		return "Cannot clear canvas: couldn't access the room"
	case errors.Is(err, rpc.ErrNoPeer):
		return "Cannot clear canvas: no participants found in the room"
	case rpc.IsKind(err, rpc.KindTimeout):
		return "The clear request timed out. Please try again."
	case err != nil:
		return "I encountered an error while clearing the canvas."
	case !resp.OK:
		return fmt.Sprintf("I couldn't clear the canvas: %s", respError(resp))
	}
	t.session.ClearCanvasDrawing()
	return "I've cleared the canvas. You can start drawing a new problem."
}

// AnalyzeMathDrawing looks at the stored snapshot (fetching one when
// absent) and describes what the student appears to have drawn. The
// stroke-count heuristic stands in for a vision model.
func (t *Toolset) AnalyzeMathDrawing(ctx context.Context) string {
	if t.session.LastCanvasDrawing == nil {
		reply := t.GetCanvasDrawing(ctx)
		if t.session.LastCanvasDrawing == nil {
			return reply
		}
	}

	drawing := t.session.LastCanvasDrawing
	strokes := len(drawing.Strokes)

	var element, suggestion string
	switch {
	case strokes < 5:
		element = "Simple shape or number"
		suggestion = "Try drawing more complex mathematical expressions"
	case strokes < 20:
		element = "Mathematical equation or expression"
		suggestion = "Make sure numbers and operators are clear"
	default:
		element = "Complex diagram or graph"
		suggestion = "This looks like a detailed mathematical concept"
	}

	return fmt.Sprintf("I can see you've drawn something with %d strokes. %s. %s", strokes, element, suggestion)
}

// HighlightCanvasArea draws attention to a rectangle on the canvas.
func (t *Toolset) HighlightCanvasArea(ctx context.Context, x, y, width, height int, color string) string {
	if color == "" {
		color = "yellow"
	}
	resp, err := t.callFrontend(ctx, t.methods.Canvas, protocol.CanvasRequest{
		Action: protocol.ActionHighlight,
		X:      x,
		Y:      y,
		Width:  width,
		Height: height,
		Color:  color,
	})
	switch {
	case errors.Is(err, errNoRoom):
		return "Cannot highlight: couldn't access the room"
	case errors.Is(err, rpc.ErrNoPeer):
		return "Cannot highlight: no participants found"
	case rpc.IsKind(err, rpc.KindTimeout):
		return "The highlight request timed out."
	case err != nil:
		return "I encountered an error while highlighting."
	case !resp.OK:
		return fmt.Sprintf("I couldn't highlight the area: %s", respError(resp))
	}
	return fmt.Sprintf("I've highlighted the area at (%d, %d) to draw your attention to it.", x, y)
}
