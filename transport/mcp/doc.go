// Package mcp exposes Hex Golf to AI agents over the Model Context Protocol.
//
// The Client is a thin proxy: every tool call becomes one request against the
// REST API (package api), and the JSON reply is rendered as plain text with
// the board drawn by engine.RenderBoard.
//
// Tools:
//   - create_session, list_sessions: start or find a round
//   - game_state: board, hands, selection and swing count
//   - select_club, toggle_modifier, preview_shot: build the next shot
//   - commit_shot: play toward a direction or an eligible target hex
//   - play_script: several shots in one call, e.g. "Iron + Tailwind > ne"
//   - reset_round, shot_history
//   - list_courses, leaderboard
//   - game_instructions: the full rules
//
// Transport:
//
// The same MCP server is served over stdio by "hexgolf mcp" and over HTTP
// at /mcp by "hexgolf serve".
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
package mcp
