package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/wricardo/hexgolf/game/engine"
	"github.com/wricardo/hexgolf/game/notation"
	"github.com/wricardo/hexgolf/game/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Hex Golf",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Hex Golf - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAME OBJECTIVE:
Sink the ball (@) in the hole (O) in as few swings as possible.

AVAILABLE TOOLS:
- create_session / list_sessions: start or find a round
- game_state: board, hands and current selection
- select_club / toggle_modifier: build the next shot
- preview_shot: planned range, distance and eligible targets
- commit_shot: play the selected shot toward a direction or a target hex
- play_script: play several shots at once, e.g. "Iron + Tailwind > ne; Putter @ (1,-2)"
- reset_round, shot_history, list_courses, leaderboard
- game_instructions: full rules`),
	)

	c.registerTools()
}

func sessionProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Session ID",
	}
}

func sessionOnly() mcp.ToolInputSchema {
	return mcp.ToolInputSchema{
		Type:       "object",
		Properties: map[string]interface{}{"session_id": sessionProperty()},
		Required:   []string{"session_id"},
	}
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Sessions
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new game session on a course",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"course_id": map[string]interface{}{
					"type":        "string",
					"description": "Course to play (optional, see list_courses)",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active game sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Get the board, both hands, the selection and the swing count",
		InputSchema: sessionOnly(),
	}, c.handleGameState)

	// Selection
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "select_club",
		Description: "Select the club at a hand index. Omit index to deselect.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"index": map[string]interface{}{
					"type":        "integer",
					"description": "0-based index into the club hand",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleSelectClub)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "toggle_modifier",
		Description: "Add or remove the modifier at a hand index from the selection",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"index": map[string]interface{}{
					"type":        "integer",
					"description": "0-based index into the modifier hand",
				},
			},
			Required: []string{"session_id", "index"},
		},
	}, c.handleToggleModifier)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "preview_shot",
		Description: "Show the planned range, distance and eligible targets for the selection",
		InputSchema: sessionOnly(),
	}, c.handlePreviewShot)

	// Shots
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "commit_shot",
		Description: "Play the selected shot toward a direction, or to a target hex given as q and r",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"direction": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"e", "ne", "nw", "w", "sw", "se"},
					"description": "Direction of the shot",
				},
				"q": map[string]interface{}{
					"type":        "integer",
					"description": "Target column (axial q), used with r instead of direction",
				},
				"r": map[string]interface{}{
					"type":        "integer",
					"description": "Target row (axial r), used with q instead of direction",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleCommitShot)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "play_script",
		Description: `Play a sequence of shots, e.g. "Iron + Tailwind > ne; Putter @ (1,-2)". Stops at the first error or when the ball is holed.`,
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"script": map[string]interface{}{
					"type":        "string",
					"description": "Shots separated by ';'. Each shot is CLUB (+ MODIFIER)* then '> DIRECTION' or '@ (q,r)'",
				},
				"reset": map[string]interface{}{
					"type":        "boolean",
					"description": "Start a new round before playing",
				},
			},
			Required: []string{"session_id", "script"},
		},
	}, c.handlePlayScript)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "reset_round",
		Description: "Start a new round on the same course",
		InputSchema: sessionOnly(),
	}, c.handleReset)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "shot_history",
		Description: "Get the shots of the current round",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"page": map[string]interface{}{
					"type":        "integer",
					"description": "Page number",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Items per page",
				},
				"order": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"asc", "desc"},
					"description": "Oldest or newest first",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleShotHistory)

	// Courses and scores
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_courses",
		Description: "List available courses",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListCourses)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "leaderboard",
		Description: "Best finished rounds on a course",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"course": map[string]interface{}{
					"type":        "string",
					"description": "Course ID",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Number of rounds to show",
				},
			},
			Required: []string{"course"},
		},
	}, c.handleLeaderboard)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get comprehensive game instructions and rules",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameInstructions)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error string `json:"error"`
		}
		json.NewDecoder(resp.Body).Decode(&errResp)
		if errResp.Error != "" {
			return fmt.Errorf("%s", errResp.Error)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

func arguments(request mcp.CallToolRequest) map[string]interface{} {
	args, _ := request.Params.Arguments.(map[string]interface{})
	return args
}

// intArg reads a JSON number argument
func intArg(args map[string]interface{}, name string) (int, bool) {
	switch v := args[name].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	}
	return 0, false
}

func sessionPath(args map[string]interface{}, suffix string) (string, error) {
	sessionID, _ := args["session_id"].(string)
	if sessionID == "" {
		return "", fmt.Errorf("session_id is required")
	}
	return "/api/sessions/" + url.PathEscape(sessionID) + suffix, nil
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	courseID, _ := args["course_id"].(string)

	body := map[string]string{}
	if courseID != "" {
		body["course_id"] = courseID
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, "POST", "/api/sessions", body, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(&session)), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}

	if err := c.apiCall(ctx, "GET", "/api/sessions", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		swings, won := 0, false
		if s.GameState != nil {
			swings, won = s.GameState.SwingCount, s.GameState.Won
		}
		status := "in play"
		if won {
			status = "holed"
		}
		fmt.Fprintf(&b, "- %s (Course: %s, Swings: %d, %s, Created: %s)\n",
			s.ID, s.CourseName, swings, status, s.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := sessionPath(arguments(request), "/state")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var state engine.GameState
	if err := c.apiCall(ctx, "GET", path, nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatGameState(&state)), nil
}

func (c *Client) handleSelectClub(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	path, err := sessionPath(args, "/club")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	body := map[string]interface{}{"index": nil}
	if index, ok := intArg(args, "index"); ok {
		body["index"] = index
	}

	var result service.SelectionResult
	if err := c.apiCall(ctx, "POST", path, body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSelection(&result)), nil
}

func (c *Client) handleToggleModifier(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	path, err := sessionPath(args, "/modifier")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	index, ok := intArg(args, "index")
	if !ok {
		return mcp.NewToolResultError("index is required"), nil
	}

	var result service.SelectionResult
	if err := c.apiCall(ctx, "POST", path, map[string]int{"index": index}, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSelection(&result)), nil
}

func (c *Client) handlePreviewShot(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := sessionPath(arguments(request), "/preview")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var preview engine.Preview
	if err := c.apiCall(ctx, "GET", path, nil, &preview); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatPreview(&preview)), nil
}

func (c *Client) handleCommitShot(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	path, err := sessionPath(args, "/shot")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var body service.ShotRequest
	q, hasQ := intArg(args, "q")
	r, hasR := intArg(args, "r")
	switch {
	case hasQ && hasR:
		body.Target = &engine.Hex{Q: q, R: r}
	case hasQ || hasR:
		return mcp.NewToolResultError("a target needs both q and r"), nil
	default:
		body.Direction, _ = args["direction"].(string)
	}

	var result service.ShotResult
	if err := c.apiCall(ctx, "POST", path, body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatShotResult(&result)), nil
}

func (c *Client) handlePlayScript(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	path, err := sessionPath(args, "/script")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	script, _ := args["script"].(string)
	reset, _ := args["reset"].(bool)

	var result service.ScriptResult
	body := map[string]interface{}{"script": script, "reset": reset}
	if err := c.apiCall(ctx, "POST", path, body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatScriptResult(&result)), nil
}

func (c *Client) handleReset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := sessionPath(arguments(request), "/reset")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var response struct {
		Message string            `json:"message"`
		State   *engine.GameState `json:"state"`
	}
	if err := c.apiCall(ctx, "POST", path, nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("%s\n\n%s", response.Message, formatGameState(response.State))), nil
}

func (c *Client) handleShotHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	path, err := sessionPath(args, "/history")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	params := url.Values{}
	if page, ok := intArg(args, "page"); ok {
		params.Set("page", fmt.Sprint(page))
	}
	if limit, ok := intArg(args, "limit"); ok {
		params.Set("limit", fmt.Sprint(limit))
	}
	if order, _ := args["order"].(string); order != "" {
		params.Set("order", order)
	}
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var history service.HistoryResponse
	if err := c.apiCall(ctx, "GET", path, nil, &history); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatHistory(&history)), nil
}

func (c *Client) handleListCourses(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var courses []service.CourseInfo
	if err := c.apiCall(ctx, "GET", "/api/courses", nil, &courses); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	b.WriteString("Available Courses:\n\n")
	for _, course := range courses {
		fmt.Fprintf(&b, "• %s (%s)\n  %s\n  Size: %dx%d, Generator: %s\n\n",
			course.Name, course.CourseID, course.Description, course.Cols, course.Rows, course.Generator)
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleLeaderboard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	course, _ := args["course"].(string)
	if course == "" {
		return mcp.NewToolResultError("course is required"), nil
	}

	params := url.Values{"course": {course}}
	if limit, ok := intArg(args, "limit"); ok {
		params.Set("limit", fmt.Sprint(limit))
	}

	var response struct {
		Rounds []service.RoundResult `json:"rounds"`
	}
	if err := c.apiCall(ctx, "GET", "/api/leaderboard?"+params.Encode(), nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatLeaderboard(course, response.Rounds)), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(instructions), nil
}

const instructions = `⛳ Hex Golf - Complete Instructions

GAME OBJECTIVE:
Move the ball from the start cell to the hole in as few swings as possible.

THE BOARD:
Cells use axial coordinates (q,r). The six directions are e (+1,0), ne (+1,-1),
nw (0,-1), w (-1,0), sw (-1,+1) and se (0,+1).

BOARD LEGEND:
` + engine.BoardLegend + `

CARDS:
• Each round deals 3 clubs and 3 modifiers. Playing a shot spends the club and
  every selected modifier, then the hands are topped up from the decks.
• Clubs set the base range: Driver 4-6, Iron 2-4, Wedge 1-2, Putter 1.
• Pre-shot modifiers change the range: Tailwind adds 1-2 to the max,
  Headwind shifts both ends down by 1-2, Mega adds 2 to the max, Precision
  lowers the min to 1, Fireball ignores sand and water.
• Post-shot modifiers move the ball after it lands: Wind blows it 1-2 cells in
  a random direction, Chip drops it in the hole when within 2 cells, Portal
  jumps it to a random green cell.

TERRAIN UNDER THE BALL:
• Sand: max range -1
• Green: min range drops to 1
• Water: max -2 and min -1
• Trees: cannot be landed on and stop a ball flying through them
• Grass and rough: no change

SHOT FLOW:
1. select_club with a hand index
2. toggle_modifier for each modifier you want (optional)
3. preview_shot to see the range, the sampled distance and eligible targets
4. commit_shot with a direction, or q and r of an eligible target

HAZARDS:
Landing in water returns the ball to where it was hit from and costs an extra
swing, unless Fireball was selected.

SCRIPTS:
play_script runs several shots in one call:
  Driver > e; Iron + Tailwind > ne; Putter @ (1,-2)
Names match cards in your hand, case-insensitively. Quote names with spaces.

VICTORY:
The round ends when the ball stops on the hole. Finished rounds are recorded on
the course leaderboard.

Good luck on the course!`

// Formatting helpers

func formatSessionInfo(session *service.SessionInfo) string {
	return fmt.Sprintf("Session: %s\nCourse: %s\nCreated: %s\n\n%s",
		session.ID, session.CourseName,
		session.CreatedAt.Format("2006-01-02 15:04:05"),
		formatGameState(session.GameState))
}

func formatGameState(state *engine.GameState) string {
	if state == nil {
		return "No game state available"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Course: %s | Ball: %s | Hole: %s | Distance: %d | Swings: %d\n",
		state.CourseName, state.PlayerPos, state.GoalPos, state.DistanceToGoal, state.SwingCount)
	if state.TileInfo != "" {
		fmt.Fprintf(&b, "Lie: %s\n", state.TileInfo)
	}
	b.WriteString("\n")

	grid := engine.NewGridFromCells(state.Cols, state.Rows, state.Cells)
	b.WriteString(engine.RenderBoard(grid, engine.StateMarks(state)))
	b.WriteString(engine.BoardLegend + "\n\n")

	b.WriteString("Clubs:\n")
	for i, club := range state.ClubHand {
		mark := " "
		if state.Selection.Club != nil && *state.Selection.Club == i {
			mark = "*"
		}
		fmt.Fprintf(&b, " %s[%d] %s %d-%d\n", mark, i, club.Name, club.MinRange, club.MaxRange)
	}
	b.WriteString("Modifiers:\n")
	for i, mod := range state.ModifierHand {
		mark := " "
		for _, sel := range state.Selection.Modifiers {
			if sel == i {
				mark = "*"
			}
		}
		fmt.Fprintf(&b, " %s[%d] %s (%s, %s)\n", mark, i, mod.Name, mod.Kind, mod.Timing())
	}
	fmt.Fprintf(&b, "Decks: clubs %d left, %d discarded | modifiers %d left, %d discarded\n",
		state.ClubDeck, state.ClubDiscard, state.ModifierDeck, state.ModifierDiscard)

	if state.Preview.Club != nil {
		b.WriteString("\n" + formatPreview(&state.Preview))
	}

	if state.Won {
		fmt.Fprintf(&b, "\n🎉 HOLED in %d swings!", state.SwingCount)
	}

	if state.Message != "" {
		fmt.Fprintf(&b, "\nMessage: %s", state.Message)
	}

	return b.String()
}

func formatPreview(preview *engine.Preview) string {
	if preview.Club == nil {
		return "No club selected"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Preview: %s", preview.Club.Name)
	for _, mod := range preview.Modifiers {
		fmt.Fprintf(&b, " + %s", mod.Name)
	}
	fmt.Fprintf(&b, " | Range: %d-%d | Distance: %d\n", preview.Range.Min, preview.Range.Max, preview.Distance)
	if preview.IgnoreSand || preview.IgnoreWater {
		b.WriteString("Fireball: sand and water ignored\n")
	}

	if len(preview.Targets) == 0 {
		b.WriteString("No eligible targets; pick another club or modifier\n")
		return b.String()
	}
	b.WriteString("Eligible targets:\n")
	for _, t := range preview.Targets {
		fmt.Fprintf(&b, "  %-2s -> %s\n", t.Direction, t.Hex)
	}
	return b.String()
}

func formatSelection(result *service.SelectionResult) string {
	return formatPreview(&result.Preview)
}

func formatOutcome(out *engine.ShotOutcome) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Shot %s x%d from %s", out.Direction, out.Distance, out.From)
	switch {
	case out.Blocked:
		fmt.Fprintf(&b, ", stopped by trees at %s", out.Landing)
	case out.HazardTriggered:
		fmt.Fprintf(&b, ", splashed at %s and dropped back (+1 penalty)", out.Landing)
	default:
		fmt.Fprintf(&b, ", landed on %s", out.Landing)
	}
	for _, eff := range out.PostEffects {
		if eff.Applied {
			fmt.Fprintf(&b, "; %s moved it to %s", eff.Modifier, eff.To)
		} else {
			fmt.Fprintf(&b, "; %s had no effect", eff.Modifier)
		}
	}
	fmt.Fprintf(&b, " | Ball: %s | Swings: %d", out.Position, out.Swings)
	if out.Won {
		b.WriteString(" | HOLED!")
	}
	return b.String()
}

func formatShotResult(result *service.ShotResult) string {
	var b strings.Builder
	if result.Outcome != nil {
		b.WriteString("✓ " + formatOutcome(result.Outcome) + "\n")
	}
	if result.Message != "" {
		fmt.Fprintf(&b, "%s\n", result.Message)
	}
	b.WriteString("\n" + formatGameState(result.GameState))
	return b.String()
}

func formatScriptResult(result *service.ScriptResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Script: %d/%d shots played", result.ShotsPlayed, result.RequestedShots)
	if result.Truncated {
		fmt.Fprintf(&b, " (truncated to %d)", result.Limit)
	}
	b.WriteString("\n")
	for i := range result.Outcomes {
		fmt.Fprintf(&b, "%d. %s\n", i+1, formatOutcome(&result.Outcomes[i]))
	}
	if !result.Success {
		fmt.Fprintf(&b, "✗ Stopped: %s\n", result.StoppedReason)
	} else if result.StoppedReason != "" {
		fmt.Fprintf(&b, "Stopped: %s\n", result.StoppedReason)
	}
	b.WriteString("\n" + formatGameState(result.GameState))
	return b.String()
}

func formatHistory(history *service.HistoryResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Shot History (Page %d/%d) - Total shots this round: %d\n\n",
		history.Page, history.TotalPages, history.TotalShots)

	for _, rec := range history.Shots {
		fmt.Fprintf(&b, "%d. %s - %s\n", rec.ShotNumber, notation.FromRecord(rec), formatOutcome(&rec.ShotOutcome))
	}
	if len(history.Shots) == 0 {
		b.WriteString("(no shots)\n")
	}

	return b.String()
}

func formatLeaderboard(course string, rounds []service.RoundResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Leaderboard: %s\n\n", course)
	if len(rounds) == 0 {
		b.WriteString("(no finished rounds yet)\n")
		return b.String()
	}
	for _, r := range rounds {
		fmt.Fprintf(&b, "%-4s %d swings (%d shots) - session %s, %s\n", r.Rank, r.Swings, r.Shots, r.SessionID, r.PlayedAgo)
	}
	return b.String()
}
