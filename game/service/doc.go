// Package service provides the business logic layer for Hex Golf.
//
// The service package implements:
//   - Multi-session game management
//   - Card selection, shot commits and shot scripts
//   - Shot history with pagination
//   - Course listing, loading and saving
//   - Archiving won rounds to a scorecard
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level game operations.
// SessionManager handles session creation, retrieval, and lifecycle.
// CourseManager loads and validates course files.
// Scorecard stores finished rounds and ranks them.
//
// Architecture:
//
// The service layer sits between the transports (HTTP, WebSocket, MCP) and the
// game engine. Every call that touches a session runs under one mutex, so a
// commit is atomic with respect to other requests. Each session owns its own engine.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	courseMgr, _ := config.NewManager("configs")
//	gameService := service.NewGameService(sessionMgr, courseMgr, nil)
//
//	info, err := gameService.CreateSession(ctx, "classic")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	club := 0
//	gameService.SelectClub(ctx, info.ID, &club)
//	result, err := gameService.CommitShot(ctx, info.ID, service.ShotRequest{Direction: "ne"})
//
//	// or several shots at once
//	script, err := gameService.PlayScript(ctx, info.ID, "Iron + Tailwind > ne; Putter @ (1,-2)", false)
package service
