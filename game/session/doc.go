// Package session provides session management for Hex Golf.
//
// The session package implements:
//   - Thread-safe session storage and retrieval
//   - Unique session ID generation
//   - Expiry of idle sessions
//
// Core Types:
//
// Manager is the session manager that handles all session operations. Each
// service.Session owns its own engine.GameEngine, seeded from the course, and
// tracks creation and last access times.
//
// Session Identifiers:
//
// Sessions use 4-character hex IDs for easy reference, generated from
// crypto/rand and retried on collision. Lookups are case-insensitive.
//
// Concurrency:
//
// The manager guards its map with an RWMutex. It does not serialize play
// inside a session; the service layer does that.
//
// Usage:
//
//	manager := session.NewManager()
//
//	sess, err := manager.Create("", course)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	sess, err = manager.Get(sess.ID)
//
//	// drop sessions idle for an hour, checking every ten minutes
//	go manager.RunJanitor(ctx, 10*time.Minute, time.Hour)
//
// Sessions live in memory only and are gone after a restart.
package session
