package http

import (
	"encoding/json"
	"log"
	"net/http"

	"vyna-tutor-agent/internal/app"
	"vyna-tutor-agent/internal/rpc"
	"vyna-tutor-agent/internal/tools"
)

// InvokeHandler is the boundary the conversational engine calls tools
// through. One invocation runs at a time per session; the engine already
// serializes per conversation, the hub's per-room lock keeps that true
// even with a misbehaving caller, and the websocket agent-side handlers
// take the same lock.
type InvokeHandler struct {
	hub      *Hub
	sessions app.SessionRepository
	gateway  *rpc.Gateway
	methods  tools.Methods
}

func NewInvokeHandler(hub *Hub, sessions app.SessionRepository, gateway *rpc.Gateway, methods tools.Methods) *InvokeHandler {
	return &InvokeHandler{
		hub:      hub,
		sessions: sessions,
		gateway:  gateway,
		methods:  methods,
	}
}

type invokeRequest struct {
	Room string          `json:"room"`
	Tool string          `json:"tool"`
	Args json.RawMessage `json:"args,omitempty"`
}

type invokeResponse struct {
	Reply string `json:"reply"`
}

type toolArgs struct {
	Topic           string `json:"topic"`
	NumQuestions    *int   `json:"num_questions"`
	Difficulty      string `json:"difficulty"`
	Answer          string `json:"answer"`
	X               int    `json:"x"`
	Y               int    `json:"y"`
	Width           int    `json:"width"`
	Height          int    `json:"height"`
	Color           string `json:"color"`
	IllustrationKey string `json:"illustration_key"`
	Content         string `json:"content"`
	ComponentID     string `json:"component_id"`
	Name            string `json:"name"`
	Age             int    `json:"age"`
}

// ServeHTTP dispatches one tool invocation and always answers with a
// spoken-reply string on success paths; tools themselves never fail.
func (h *InvokeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req invokeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Room == "" || req.Tool == "" {
		http.Error(w, "missing room or tool", http.StatusBadRequest)
		return
	}

	var args toolArgs
	if len(req.Args) > 0 {
		if err := json.Unmarshal(req.Args, &args); err != nil {
			http.Error(w, "invalid tool args", http.StatusBadRequest)
			return
		}
	}

	lock := h.hub.SessionLock(req.Room)
	lock.Lock()
	defer lock.Unlock()

	session := h.sessions.GetOrCreate(req.Room)

	// The room is looked up fresh per call; a session can outlive its
	// peers and reconnect later.
	var room rpc.Room
	if hubRoom, ok := h.hub.Room(req.Room); ok {
		room = hubRoom
	}
	toolset := tools.NewToolset(session, room, h.gateway, h.methods)

	reply, ok := h.dispatch(r, toolset, req.Tool, args)
	if !ok {
		http.Error(w, "unknown tool "+req.Tool, http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(invokeResponse{Reply: reply}); err != nil {
		log.Printf("invoke: write response: %v", err)
	}
}

func (h *InvokeHandler) dispatch(r *http.Request, toolset *tools.Toolset, tool string, args toolArgs) (string, bool) {
	ctx := r.Context()
	switch tool {
	case "create_quiz":
		numQuestions := 5
		if args.NumQuestions != nil {
			numQuestions = *args.NumQuestions
		}
		difficulty := args.Difficulty
		if difficulty == "" {
			difficulty = "medium"
		}
		return toolset.CreateQuiz(ctx, args.Topic, numQuestions, difficulty), true
	case "submit_answer":
		return toolset.SubmitAnswer(ctx, args.Answer), true
	case "get_quiz_status":
		return toolset.GetQuizStatus(), true
	case "skip_question":
		return toolset.SkipQuestion(ctx), true
	case "show_quiz_results":
		return toolset.ShowQuizResults(ctx), true
	case "get_canvas_drawing":
		return toolset.GetCanvasDrawing(ctx), true
	case "clear_canvas":
		return toolset.ClearCanvas(ctx), true
	case "analyze_math_drawing":
		return toolset.AnalyzeMathDrawing(ctx), true
	case "highlight_canvas_area":
		return toolset.HighlightCanvasArea(ctx, args.X, args.Y, args.Width, args.Height, args.Color), true
	case "show_illustration":
		return toolset.ShowIllustration(ctx, args.IllustrationKey), true
	case "hide_illustration":
		return toolset.HideIllustration(ctx), true
	case "create_component":
		return toolset.CreateComponent(ctx, args.Content), true
	case "toggle_component":
		return toolset.ToggleComponent(ctx, args.ComponentID), true
	case "set_user_data":
		return toolset.SetUserData(args.Name, args.Age), true
	case "get_user_data":
		return toolset.GetUserData(), true
	default:
		return "", false
	}
}
