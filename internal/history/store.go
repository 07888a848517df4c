// Package history persists finished matches to Postgres.
package history

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/DoyleJ11/connect4-client/internal/engine"
)

type Outcome string

const (
	OutcomeWin  Outcome = "win"
	OutcomeLoss Outcome = "loss"
	OutcomeDraw Outcome = "draw"
)

// Record is one finished match as seen by the local player.
type Record struct {
	ID          uint      `gorm:"primaryKey;autoIncrement"`
	// MatchID repeats across a rematch of the same match instance.
	MatchID     string    `gorm:"index;size:36;not null"`
	LocalPlayer string    `gorm:"index;not null"`
	Opponent    string    `gorm:"not null"`
	Inviter     bool      `gorm:"not null"`
	Role        string    `gorm:"size:8"`
	Outcome     Outcome   `gorm:"size:8;not null"`
	Winner      string
	FinishedAt  time.Time `gorm:"index;not null"`
}

func (Record) TableName() string { return "match_history" }

// NewRecord builds a Record from a finished match view. ok is false when the view
// carries no result.
func NewRecord(v engine.View, at time.Time) (Record, bool) {
	if v.Result == nil {
		return Record{}, false
	}
	r := Record{
		MatchID:     v.ID,
		LocalPlayer: v.LocalPlayer,
		Opponent:    v.Opponent,
		Inviter:     v.IsInviter,
		Role:        v.Role,
		Winner:      v.Result.Winner,
		FinishedAt:  at.UTC(),
	}
	switch {
	case v.Result.Kind == engine.ResultDraw:
		r.Outcome = OutcomeDraw
	case v.Result.LocalWin(v.LocalPlayer):
		r.Outcome = OutcomeWin
	default:
		r.Outcome = OutcomeLoss
	}
	return r, true
}

type inserter interface {
	Insert(ctx context.Context, r Record) error
}

type gormInserter struct {
	db *gorm.DB
}

func (g gormInserter) Insert(ctx context.Context, r Record) error {
	return g.db.WithContext(ctx).Create(&r).Error
}

// Store queues records from the session goroutine and writes them from Run.
type Store struct {
	ins   inserter
	queue chan Record
	log   *zap.Logger
	now   func() time.Time
	close func() error
}

// Open connects to Postgres and migrates the history table.
func Open(dsn string, log *zap.Logger) (*Store, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	if err := db.AutoMigrate(&Record{}); err != nil {
		return nil, fmt.Errorf("migrate history: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("history db handle: %w", err)
	}
	s := newStore(gormInserter{db: db}, log)
	s.close = sqlDB.Close
	return s, nil
}

func newStore(ins inserter, log *zap.Logger) *Store {
	return &Store{
		ins:   ins,
		queue: make(chan Record, 16),
		log:   log.Named("history"),
		now:   time.Now,
		close: func() error { return nil },
	}
}

// Record implements session.Recorder. It never blocks.
func (s *Store) Record(v engine.View) {
	r, ok := NewRecord(v, s.now())
	if !ok {
		s.log.Warn("view without result not recorded", zap.String("match", v.ID))
		return
	}
	select {
	case s.queue <- r:
	default:
		s.log.Warn("history queue full, record dropped", zap.String("match", r.MatchID))
	}
}

// Run writes queued records until ctx ends, then drains what is left.
func (s *Store) Run(ctx context.Context) error {
	for {
		select {
		case r := <-s.queue:
			s.write(ctx, r)
		case <-ctx.Done():
			for {
				select {
				case r := <-s.queue:
					s.write(context.Background(), r)
				default:
					return nil
				}
			}
		}
	}
}

func (s *Store) write(ctx context.Context, r Record) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.ins.Insert(ctx, r); err != nil {
		s.log.Error("history insert failed", zap.Error(err), zap.String("match", r.MatchID))
		return
	}
	s.log.Debug("match recorded", zap.String("match", r.MatchID), zap.String("outcome", string(r.Outcome)))
}

func (s *Store) Close() error { return s.close() }
