package services

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/fastygo/focusboard/domain"
	"github.com/fastygo/focusboard/usecase"
)

// SessionState reports whether the document has been loaded.
type SessionState interface {
	Loaded() bool
}

// SchedulerConfig controls the housekeeping jobs.
type SchedulerConfig struct {
	TimerCheckInterval time.Duration
	// StreakSchedule is a six-field cron expression (with seconds) for the daily streak refresh.
	StreakSchedule     string
}

// Scheduler runs time-driven actions: it completes focus timers that reached
// their planned length and refreshes the streak after midnight. Running
// timers are not ticked every second; readers derive elapsed time from the
// running anchor.
type Scheduler struct {
	dispatcher *usecase.Dispatcher
	session    SessionState
	cron       *cron.Cron
	now        func() time.Time
	logger     *zap.Logger
}

func NewScheduler(dispatcher *usecase.Dispatcher, session SessionState, logger *zap.Logger, cfg SchedulerConfig) (*Scheduler, error) {
	if cfg.TimerCheckInterval < time.Second {
		cfg.TimerCheckInterval = time.Second
	}
	if cfg.StreakSchedule == "" {
		cfg.StreakSchedule = "5 0 0 * * *"
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Scheduler{
		dispatcher: dispatcher,
		session:    session,
		cron:       cron.New(cron.WithSeconds()),
		now:        time.Now,
		logger:     logger,
	}
	if _, err := s.cron.AddFunc("@every "+cfg.TimerCheckInterval.String(), func() { s.CompleteDueTimers() }); err != nil {
		return nil, err
	}
	if _, err := s.cron.AddFunc(cfg.StreakSchedule, s.RefreshStreak); err != nil {
		return nil, err
	}
	return s, nil
}

// Start refreshes the streak once and launches the schedule.
func (s *Scheduler) Start() {
	s.RefreshStreak()
	s.cron.Start()
}

// Stop waits for running jobs or ctx, whichever ends first.
func (s *Scheduler) Stop(ctx context.Context) {
	stopCtx := s.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
}

// CompleteDueTimers ticks every running pomodoro whose planned length has
// elapsed and returns how many were ticked.
func (s *Scheduler) CompleteDueTimers() int {
	if !s.session.Loaded() {
		return 0
	}
	now := s.now()
	var due []string
	s.dispatcher.Read(func(doc *domain.Document) {
		for i := range doc.Pomodoros {
			p := &doc.Pomodoros[i]
			if p.Status != domain.PomodoroRunning {
				continue
			}
			if planned := p.PlannedSeconds(); planned > 0 && p.EffectiveElapsed(now) >= planned {
				due = append(due, p.ID)
			}
		}
	})
	for _, id := range due {
		s.dispatcher.Dispatch(domain.TickPomodoro{ID: id})
		s.logger.Info("focus timer completed", zap.String("pomodoro_id", id))
	}
	return len(due)
}

// RefreshStreak recomputes the current streak from the daily stats.
func (s *Scheduler) RefreshStreak() {
	if !s.session.Loaded() {
		return
	}
	s.dispatcher.Dispatch(domain.UpdateStreak{})
}
