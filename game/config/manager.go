package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/wricardo/hexgolf/game/engine"
	"github.com/wricardo/hexgolf/game/service"
)

var (
	ErrCourseNotFound = service.ErrCourseNotFound
	ErrInvalidCourse  = errors.New("invalid course")
)

// DefaultCourseID is the course used when a session names none
const DefaultCourseID = "classic"

// Manager handles course loading and caching
type Manager struct {
	configDir     string
	defaultConfig *engine.CourseConfig
	configs       map[string]*engine.CourseConfig
	mu            sync.RWMutex
}

// NewManager creates a new course manager
func NewManager(configDir string) (*Manager, error) {
	// Ensure config directory exists
	if _, err := os.Stat(configDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("config directory does not exist: %s", configDir)
	}

	m := &Manager{
		configDir: configDir,
		configs:   make(map[string]*engine.CourseConfig),
	}

	m.defaultConfig = m.loadDefaultConfig()
	return m, nil
}

// courseID strips a known extension from name
func courseID(name string) string {
	ext := filepath.Ext(name)
	if slices.Contains(engine.CourseExtensions, ext) {
		return strings.TrimSuffix(name, ext)
	}
	return name
}

// LoadConfig loads a course by ID, with or without its file extension
func (m *Manager) LoadConfig(name string) (*engine.CourseConfig, error) {
	id := courseID(name)

	m.mu.RLock()
	// Check cache first
	if config, exists := m.configs[id]; exists {
		m.mu.RUnlock()
		return config, nil
	}
	m.mu.RUnlock()

	// Load from file
	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring write lock
	if config, exists := m.configs[id]; exists {
		return config, nil
	}

	config, err := m.readCourse(name)
	if err != nil {
		return nil, err
	}

	m.configs[id] = config
	return config, nil
}

// readCourse finds the course file for name and decodes it. An explicit
// extension is honoured; otherwise every known extension is tried in order.
func (m *Manager) readCourse(name string) (*engine.CourseConfig, error) {
	candidates := []string{name}
	if courseID(name) == name {
		candidates = candidates[:0]
		for _, ext := range engine.CourseExtensions {
			candidates = append(candidates, name+ext)
		}
	}

	for _, filename := range candidates {
		path := filepath.Join(m.configDir, filename)
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("failed to read course file: %w", err)
		}

		config, err := engine.DecodeCourseConfig(data, filepath.Ext(filename))
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidCourse, filename, err)
		}
		return config, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrCourseNotFound, name)
}

// ListConfigs returns information about all available courses
func (m *Manager) ListConfigs() ([]*service.CourseInfo, error) {
	entries, err := os.ReadDir(m.configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read config directory: %w", err)
	}

	var courses []*service.CourseInfo
	seen := make(map[string]bool)

	for _, entry := range entries {
		if entry.IsDir() || !slices.Contains(engine.CourseExtensions, filepath.Ext(entry.Name())) {
			continue
		}

		id := courseID(entry.Name())
		if seen[id] {
			continue
		}
		seen[id] = true

		config, err := m.LoadConfig(entry.Name())
		if err != nil {
			log.WithError(err).WithField("file", entry.Name()).Warn("skipping course")
			continue
		}

		courses = append(courses, &service.CourseInfo{
			Filename:    entry.Name(),
			CourseID:    id, // This is the identifier to use for session creation
			Name:        config.Name,
			Description: config.Description,
			Cols:        config.Cols,
			Rows:        config.Rows,
			Generator:   config.Generator,
		})
	}

	return courses, nil
}

// GetDefault returns the default course
func (m *Manager) GetDefault() *engine.CourseConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultConfig
}

// SetDefault sets the default course by ID
func (m *Manager) SetDefault(name string) error {
	config, err := m.LoadConfig(name)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultConfig = config
	return nil
}

// RefreshCache drops every cached course and reloads the default from disk
func (m *Manager) RefreshCache() {
	m.mu.Lock()
	m.configs = make(map[string]*engine.CourseConfig)
	m.mu.Unlock()

	def := m.loadDefaultConfig()

	m.mu.Lock()
	m.defaultConfig = def
	m.mu.Unlock()
}

// loadDefaultConfig picks classic, then the first listed course, then the built-in course
func (m *Manager) loadDefaultConfig() *engine.CourseConfig {
	config, err := m.LoadConfig(DefaultCourseID)
	if err == nil {
		return config
	}

	courses, listErr := m.ListConfigs()
	if listErr != nil || len(courses) == 0 {
		return engine.DefaultCourseConfig()
	}

	config, err = m.LoadConfig(courses[0].Filename)
	if err != nil {
		return engine.DefaultCourseConfig()
	}
	return config
}

// SaveConfig validates a course and writes it to disk. The extension of name
// picks the format; names without one are written as JSON.
func (m *Manager) SaveConfig(name string, config *engine.CourseConfig) error {
	if config == nil {
		return fmt.Errorf("%w: empty course", ErrInvalidCourse)
	}
	if err := engine.ValidateCourseConfig(config); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidCourse, err)
	}

	id := courseID(name)
	if id == "" || strings.ContainsAny(id, `/\`) || strings.HasPrefix(id, ".") {
		return fmt.Errorf("%w: bad course name %q", ErrInvalidCourse, name)
	}
	filename := name
	if id == name {
		filename = name + ".json"
	}

	var data []byte
	var err error
	switch filepath.Ext(filename) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(config)
	default:
		data, err = json.MarshalIndent(config, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("failed to marshal course: %w", err)
	}

	configPath := filepath.Join(m.configDir, filename)
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write course file: %w", err)
	}

	// Update cache
	m.mu.Lock()
	m.configs[id] = config.WithDefaults()
	m.mu.Unlock()

	log.WithFields(log.Fields{"course": id, "file": filename}).Info("course saved")
	return nil
}

var _ service.CourseManager = (*Manager)(nil)
