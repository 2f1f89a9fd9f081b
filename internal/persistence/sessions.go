package persistence

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"go.uber.org/zap"

	"github.com/Phippsy/exercise/internal/domain"
	"github.com/Phippsy/exercise/internal/observability"
)

// ErrExportsDirNotFound indicates the exports directory does not exist.
var ErrExportsDirNotFound = errors.New("exports directory not found")

// SessionSet is the outcome of scanning an exports directory.
type SessionSet struct {
	Sessions []domain.Session
	// Loaded lists the file names whose sessions were kept.
	Loaded []string
	// Ignored lists readable files of another export type.
	Ignored []string
	// Skipped lists files that could not be read or decoded.
	Skipped []string
}

// Option configures a SessionLoader.
type Option func(*SessionLoader)

// WithLogger sets a custom logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *SessionLoader) { s.logger = l }
}

// SessionLoader reads workout-session exports from a directory.
type SessionLoader struct {
	logger *zap.Logger
}

// NewSessionLoader constructs a SessionLoader.
func NewSessionLoader(opts ...Option) *SessionLoader {
	s := &SessionLoader{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reads every *.json file of dir in name order. Files that fail to
// decode are logged and skipped rather than aborting the scan.
func (s *SessionLoader) Load(dir string) (SessionSet, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return SessionSet{}, fmt.Errorf("%w: %s", ErrExportsDirNotFound, dir)
		}
		return SessionSet{}, err
	}
	if !info.IsDir() {
		return SessionSet{}, fmt.Errorf("%w: %s is not a directory", ErrExportsDirNotFound, dir)
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return SessionSet{}, err
	}
	sort.Strings(files)

	var set SessionSet
	for _, file := range files {
		name := filepath.Base(file)
		session, err := readSession(file)
		if err != nil {
			s.logger.Warn("skipping export", zap.String("file", name), zap.Error(err))
			observability.RecordExportSkipped()
			set.Skipped = append(set.Skipped, name)
			continue
		}
		if session.ExportType != domain.SessionExportType {
			s.logger.Debug("ignoring export", zap.String("file", name), zap.String("export_type", session.ExportType))
			set.Ignored = append(set.Ignored, name)
			continue
		}
		s.logger.Info("loaded export", zap.String("file", name))
		set.Sessions = append(set.Sessions, session)
		set.Loaded = append(set.Loaded, name)
	}
	observability.RecordSessionsLoaded(len(set.Sessions))
	return set, nil
}

func readSession(path string) (domain.Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Session{}, err
	}
	var session domain.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return domain.Session{}, err
	}
	return session, nil
}
