package inmemstore

import (
	"context"
	"sync"
	"time"

	"github.com/eduport/admin/core/session"
)

type (
	DB struct {
		sessions *sessionTable
	}

	sessionTable struct {
		mutex sync.RWMutex
		table map[string]*session.Record
	}
)

func Open() *DB {
	return &DB{
		sessions: &sessionTable{table: make(map[string]*session.Record)},
	}
}

type sessionRepository struct {
	db  *sessionTable
	now func() time.Time
}

var (
	_ session.Repository = (*sessionRepository)(nil)
	_ session.Purger     = (*sessionRepository)(nil)
)

// NewSessionRepository keeps session records in memory; they are lost on restart.
func NewSessionRepository(db *DB) session.Repository {
	return &sessionRepository{db: db.sessions, now: time.Now}
}

func (repo *sessionRepository) Get(_ context.Context, id string) (session.Record, error) {
	repo.db.mutex.RLock()
	rec, ok := repo.db.table[id]
	repo.db.mutex.RUnlock()

	if !ok {
		return session.Record{}, session.ErrNotFound
	}
	if rec.Expired(repo.now()) {
		repo.db.mutex.Lock()
		delete(repo.db.table, id)
		repo.db.mutex.Unlock()
		return session.Record{}, session.ErrNotFound
	}
	return copyRecord(*rec), nil
}

func (repo *sessionRepository) Save(_ context.Context, rec session.Record) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	rec = copyRecord(rec)
	repo.db.table[rec.ID] = &rec
	return nil
}

func (repo *sessionRepository) Delete(_ context.Context, id string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()
	delete(repo.db.table, id)
	return nil
}

func (repo *sessionRepository) PurgeExpired(_ context.Context) (int, error) {
	now := repo.now()

	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()
	var n int
	for id, rec := range repo.db.table {
		if rec.Expired(now) {
			delete(repo.db.table, id)
			n++
		}
	}
	return n, nil
}

func copyRecord(rec session.Record) session.Record {
	if rec.BackendCookies != nil {
		rec.BackendCookies = append([]session.Cookie(nil), rec.BackendCookies...)
	}
	return rec
}
