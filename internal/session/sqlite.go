package session

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/waslerr/internal/models"
	"github.com/desertthunder/waslerr/internal/repositories"
	"github.com/desertthunder/waslerr/internal/shared"
)

// DefaultPollInterval is how often [SQLiteStore.Watch] checks for foreign writes.
const DefaultPollInterval = 500 * time.Millisecond

// SQLiteStore is a [Store] backed by the storage table.
//
// Several processes may share the database file. Writes are last-writer-wins;
// [SQLiteStore.Watch] makes the others notice.
type SQLiteStore struct {
	db     *sql.DB
	repo   *repositories.StorageRepository
	broker *Broker
	logger *log.Logger

	mu      sync.Mutex
	primed  bool
	version int64
	known   map[string]string
}

// NewSQLiteStore creates a store on db and snapshots the current session keys.
// A nil broker gets a fresh one and a nil logger discards output.
func NewSQLiteStore(ctx context.Context, db *sql.DB, broker *Broker, logger *log.Logger) (*SQLiteStore, error) {
	if broker == nil {
		broker = NewBroker(0)
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}

	s := &SQLiteStore{
		db:     db,
		repo:   repositories.NewStorageRepository(db),
		broker: broker,
		logger: logger,
		known:  make(map[string]string),
	}

	if _, err := s.Poll(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) Read(ctx context.Context) (*models.Session, error) {
	token, _, err := s.repo.Get(ctx, KeyToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrStorage, err)
	}
	user, _, err := s.repo.Get(ctx, KeyUser)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrStorage, err)
	}
	return Decode(token, user)
}

func (s *SQLiteStore) Write(ctx context.Context, sess models.Session) error {
	token, user, err := Encode(sess)
	if err != nil {
		return err
	}

	err = shared.WithTx(ctx, s.db, func(ctx context.Context, tx shared.DBTX) error {
		repo := repositories.NewStorageRepository(tx)
		if err := repo.Set(ctx, KeyToken, token); err != nil {
			return err
		}
		return repo.Set(ctx, KeyUser, user)
	})
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrStorage, err)
	}

	s.remember(ctx, map[string]string{KeyToken: token, KeyUser: user})
	s.broker.Publish(Change{Key: KeyToken})
	s.broker.Publish(Change{Key: KeyUser})
	return nil
}

func (s *SQLiteStore) Clear(ctx context.Context) error {
	err := shared.WithTx(ctx, s.db, func(ctx context.Context, tx shared.DBTX) error {
		repo := repositories.NewStorageRepository(tx)
		if err := repo.Delete(ctx, KeyToken); err != nil {
			return err
		}
		return repo.Delete(ctx, KeyUser)
	})
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrStorage, err)
	}

	s.remember(ctx, map[string]string{KeyToken: "", KeyUser: ""})
	s.broker.Publish(Change{Key: KeyToken})
	s.broker.Publish(Change{Key: KeyUser})
	return nil
}

func (s *SQLiteStore) Subscribe() (<-chan Change, func()) {
	return s.broker.Subscribe()
}

// Poll compares the stored session keys with the last values this store saw
// and publishes an external [Change] for each key that differs.
func (s *SQLiteStore) Poll(ctx context.Context) ([]Change, error) {
	version, err := s.repo.Version(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrStorage, err)
	}

	s.mu.Lock()
	if s.primed && version == s.version {
		s.mu.Unlock()
		return nil, nil
	}
	s.mu.Unlock()

	values, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrStorage, err)
	}

	var changes []Change
	s.mu.Lock()
	for _, key := range []string{KeyToken, KeyUser} {
		if s.primed && s.known[key] != values[key] {
			changes = append(changes, Change{Key: key, External: true})
		}
		s.known[key] = values[key]
	}
	s.version = version
	s.primed = true
	s.mu.Unlock()

	for _, c := range changes {
		s.broker.Publish(c)
	}
	return changes, nil
}

// Watch polls for foreign writes every interval until ctx is done.
func (s *SQLiteStore) Watch(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			changes, err := s.Poll(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				s.logger.Warn("session poll failed", "error", err)
				continue
			}
			for _, c := range changes {
				s.logger.Debug("session changed externally", "key", c.Key)
			}
		}
	}
}

func (s *SQLiteStore) remember(ctx context.Context, values map[string]string) {
	version, err := s.repo.Version(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range values {
		s.known[k] = v
	}
	if err == nil {
		s.version = version
	}
}
