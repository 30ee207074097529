package fs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/option"
	"github.com/viant/afs/url"
	"github.com/viant/houghcircles/service/dao"
	"github.com/viant/houghcircles/service/dao/run"
)

// Service stores run records as JSON files under a base URL.
type Service struct {
	baseURL string
	fs      afs.Service
	logger  logrus.FieldLogger
	mu      sync.RWMutex
}

var _ run.Service = (*Service)(nil)

// Save persists a record
func (s *Service) Save(ctx context.Context, record *run.Record) error {
	if record == nil {
		return dao.ErrNilEntity
	}
	if record.UID == "" {
		return dao.ErrInvalidID
	}
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal run %s: %w", record.UID, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	URL := s.recordURL(record.UID)
	if err = s.fs.Upload(ctx, URL, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to save run to %s: %w", URL, err)
	}
	return nil
}

// Load retrieves a record
func (s *Service) Load(ctx context.Context, uid string) (*run.Record, error) {
	if uid == "" {
		return nil, dao.ErrInvalidID
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	URL := s.recordURL(uid)
	exists, err := s.fs.Exists(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to check if run exists: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: run %s", dao.ErrNotFound, uid)
	}
	data, err := s.fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to read run file: %w", err)
	}
	record := &run.Record{}
	if err = json.Unmarshal(data, record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal run %s: %w", uid, err)
	}
	return record, nil
}

// Delete removes a record
func (s *Service) Delete(ctx context.Context, uid string) error {
	if uid == "" {
		return dao.ErrInvalidID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	URL := s.recordURL(uid)
	exists, err := s.fs.Exists(ctx, URL)
	if err != nil {
		return fmt.Errorf("failed to check if run exists: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: run %s", dao.ErrNotFound, uid)
	}
	return s.fs.Delete(ctx, URL)
}

// List returns matching records ordered by start time. Unreadable files are
// skipped with a warning.
func (s *Service) List(ctx context.Context, parameters ...*dao.Parameter) ([]*run.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	objects, err := s.fs.List(ctx, s.baseURL, option.NewRecursive(false))
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	var records []*run.Record
	for _, object := range objects {
		if object.IsDir() || !strings.HasSuffix(object.Name(), ".json") {
			continue
		}
		data, err := s.fs.Download(ctx, object)
		if err != nil {
			s.logger.WithError(err).Warnf("failed to read %s", object.URL())
			continue
		}
		record := &run.Record{}
		if err = json.Unmarshal(data, record); err != nil {
			s.logger.WithError(err).Warnf("failed to decode %s", object.URL())
			continue
		}
		if record.Matches(parameters) {
			records = append(records, record)
		}
	}
	sort.SliceStable(records, func(i, j int) bool { return records[i].StartedAt.Before(records[j].StartedAt) })
	return records, nil
}

func (s *Service) recordURL(uid string) string {
	return url.Join(s.baseURL, uid+".json")
}

// New creates a store under baseURL, creating the location when missing.
func New(ctx context.Context, baseURL string, logger logrus.FieldLogger) (*Service, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("base URL cannot be empty")
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	fs := afs.New()
	baseURL = url.Normalize(baseURL, file.Scheme)
	exists, err := fs.Exists(ctx, baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to check %s: %w", baseURL, err)
	}
	if !exists {
		if err = fs.Create(ctx, baseURL, file.DefaultDirOsMode, true); err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", baseURL, err)
		}
	}
	return &Service{baseURL: baseURL, fs: fs, logger: logger}, nil
}
