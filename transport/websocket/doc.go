// Package websocket pushes Hex Golf state to browsers watching a session.
//
// A central Hub owns every connection. Registration, removal and fan-out all
// happen on the Hub's Run goroutine, so callers never touch the client map.
// Each client has a read pump that only keeps the connection alive and a write
// pump that drains its send buffer and pings.
//
// Message Protocol:
//
// Every frame is one JSON document:
//
//	{"session_id": "ab12", "event": "shot", "game_state": {...}}
//
// A client connecting with ?session=ab12 first receives a "connected" frame
// carrying the current state, then one frame per mutation of that session.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run(ctx)
//
//	hub.ServeWS(w, r, sessionID, state)
//	hub.BroadcastState(sessionID, websocket.EventShot, state)
//
// A slow client whose buffer fills is dropped rather than blocking others.
package websocket
