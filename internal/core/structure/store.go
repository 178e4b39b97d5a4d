package structure

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Source は参照データの読み込み元を抽象化します。
type Source interface {
	Load(ctx context.Context) (*Snapshot, error)
}

// Store は参照データを初回利用時に一度だけ読み込み、Directory として提供します。
// 読み込みに失敗した場合は次回の呼び出しで再試行します。
type Store struct {
	src    Source
	logger *zap.Logger

	mu  sync.Mutex
	dir *Directory
}

// NewStore は Store を生成します。
func NewStore(src Source, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{src: src, logger: logger}
}

// Load は参照データを読み込みます。読み込み済みであれば何もしません。
func (s *Store) Load(ctx context.Context) error {
	_, err := s.Directory(ctx)
	return err
}

// Directory は読み込み済みの Directory を返します。未読み込みであればここで読み込みます。
func (s *Store) Directory(ctx context.Context) (*Directory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.dir != nil {
		return s.dir, nil
	}
	if s.src == nil {
		return nil, fmt.Errorf("%w: %w", ErrLoad, ErrSourceRequired)
	}

	snapshot, err := s.src.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoad, err)
	}

	dir, err := newDirectory(snapshot)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoad, err)
	}

	for _, ref := range dir.danglingReferences() {
		s.logger.Warn("dangling reference in reference data", zap.String("reference", ref))
	}

	s.logger.Info("reference data loaded",
		zap.String("company", dir.company.ID),
		zap.Int("departments", len(dir.departmentOrder)),
		zap.Int("roles", len(dir.roleOrder)),
		zap.Int("teams", len(dir.teamOrder)),
		zap.Int("qualifications", len(dir.qualificationOrder)),
	)

	s.dir = dir
	return dir, nil
}
