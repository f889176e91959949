// Package api provides the HTTP REST API for Hex Golf.
//
// Endpoints:
//
// Sessions:
//   - POST /api/sessions {"course_id": "links"} - Create a session (default course when empty)
//   - GET /api/sessions?sort=created|accessed&order=asc|desc&limit=N - List sessions
//   - GET /api/sessions/{id} - Get a session
//   - DELETE /api/sessions/{id} - Delete a session
//
// Play:
//   - GET /api/sessions/{id}/state - Current game state
//   - GET /api/sessions/{id}/preview - Planned range, distance and eligible targets
//   - POST /api/sessions/{id}/club {"index": 0} - Select a club; null deselects
//   - POST /api/sessions/{id}/modifier {"index": 1} - Toggle a modifier
//   - POST /api/sessions/{id}/shot {"direction": "ne"} or {"target": {"q": 1, "r": -2}}
//   - POST /api/sessions/{id}/script {"script": "Iron + Tailwind > ne; Putter @ (1,-2)", "reset": false}
//   - POST /api/sessions/{id}/reset - Start a new round on the same course
//   - GET /api/sessions/{id}/history?page=1&limit=20&order=desc - Shot history
//
// Courses and scores:
//   - GET /api/courses - List course files
//   - GET /api/courses/{name} - Load a course
//   - POST /api/courses?id=dunes.yaml - Validate and save a course
//   - GET /api/leaderboard?course=classic&limit=10 - Best finished rounds
//   - GET /api/health
//
// WebSocket:
//   - GET /ws?session={id} - Push channel, see package websocket
//
// Every mutating request is followed by a broadcast to the session's
// WebSocket clients.
//
// Errors:
//
// Errors are returned as JSON with the HTTP status code repeated in the body:
//
//	{"error": "invalid selection: club 7", "code": 400}
//
// Unknown sessions and courses are 404, bad selections, illegal targets and
// malformed scripts are 400, and shots after the hole is sunk are 409.
package api
