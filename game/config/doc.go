// Package config provides course management for Hex Golf.
//
// The config package handles:
//   - Loading course files in JSON or YAML from a directory
//   - Validation before a course is cached or saved
//   - Default course selection
//   - Course discovery and listing
//
// Course Format:
//
// A course file describes how boards are generated, not a fixed layout. It
// names the board size, the terrain generator ("weighted" or "noise") and its
// parameters, terrain floors, green size, the club and modifier cards with
// their copy count, and the status messages. Unset fields take the classic
// defaults from the engine package.
//
// Bundled Courses:
//   - classic: six by four parkland, weighted terrain
//   - links: noise generated dunes and greens
//   - putting: a tiny practice board with short clubs
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Load a specific course; "links", "links.yaml" both work
//	course, err := manager.LoadConfig("links")
//
//	// Default course (classic, else the first valid file, else built-in)
//	course = manager.GetDefault()
//
//	// List available courses
//	courses, err := manager.ListConfigs()
package config
