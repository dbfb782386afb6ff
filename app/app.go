// Package app assembles repositories and services into a running engine.
package app

import (
	"time"

	bookingRepo "caretrust/database/repository/booking"
	counterRepo "caretrust/database/repository/counter"
	incidentRepo "caretrust/database/repository/incident"
	"caretrust/database/repository/memstore"
	metricsRepo "caretrust/database/repository/metrics"
	notificationRepo "caretrust/database/repository/notification"
	rankingRepo "caretrust/database/repository/ranking"
	reviewRepo "caretrust/database/repository/review"
	userRepo "caretrust/database/repository/user"
	"caretrust/cron"
	"caretrust/services/escalation"
	"caretrust/services/incident"
	"caretrust/services/orchestrator"
	"caretrust/services/quality"
	"caretrust/services/tasks"
	"caretrust/services/triggers"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// Repositories is every store the engine reads or writes.
type Repositories struct {
	Users         userRepo.UserRepository
	Bookings      bookingRepo.BookingRepository
	Reviews       reviewRepo.ReviewRepository
	Incidents     incidentRepo.IncidentRepository
	Notifications notificationRepo.NotificationRepository
	Metrics       metricsRepo.MetricsRepository
	Counter       counterRepo.SequenceStore
	Ranking       rankingRepo.Ranking
}

// MemoryRepositories exposes an in-memory store as Repositories.
func MemoryRepositories(s *memstore.Store) Repositories {
	return Repositories{
		Users:         s.Users,
		Bookings:      s.Bookings,
		Reviews:       s.Reviews,
		Incidents:     s.Incidents,
		Notifications: s.Notifications,
		Metrics:       s.Metrics,
		Counter:       s.Counters,
		Ranking:       s.Ranking,
	}
}

// Options tunes the engine. Zero values fall back to service defaults.
type Options struct {
	WindowDays    int
	Workers       int
	TaskTimeout   time.Duration
	SnapshotLimit int
	Pusher        escalation.Pusher
	// Dispatcher delivers tasks. Nil runs every task inline through the engine's mux.
	Dispatcher tasks.Dispatcher
	Logger     *zap.Logger
	Now        func() time.Time
}

type App struct {
	Repos        Repositories
	Escalation   *escalation.DefaultEscalationService
	Incidents    *incident.DefaultIncidentService
	Quality      *quality.DefaultQualityService
	Orchestrator *orchestrator.Orchestrator
	Triggers     *triggers.Triggers
	Publisher    *tasks.Publisher
	Mux          *asynq.ServeMux
}

func Build(repos Repositories, opts Options) *App {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	var inline *tasks.InlineDispatcher
	dispatcher := opts.Dispatcher
	if dispatcher == nil {
		inline = tasks.NewInlineDispatcher(nil)
		dispatcher = inline
	}
	publisher := tasks.NewPublisher(dispatcher)

	esc := escalation.NewDefaultEscalationService(repos.Users, repos.Incidents, repos.Notifications, opts.Pusher, logger.Named("escalation"))
	esc.Now = now

	allocator := incident.NewIdentifierAllocator(repos.Counter, repos.Incidents)
	allocator.Now = now
	incidents := incident.NewDefaultIncidentService(repos.Incidents, allocator, esc, publisher, logger.Named("incident"))
	incidents.Now = now

	qs := quality.NewDefaultQualityService(repos.Bookings, repos.Reviews, repos.Incidents, repos.Metrics, repos.Ranking, logger.Named("quality"))
	qs.Now = now
	if opts.SnapshotLimit > 0 {
		qs.SnapshotLimit = opts.SnapshotLimit
	}

	orch := orchestrator.NewOrchestrator(repos.Users, qs, logger.Named("orchestrator"))
	orch.Now = now
	if opts.WindowDays > 0 {
		orch.WindowDays = opts.WindowDays
	}
	if opts.Workers > 0 {
		orch.MaxWorkers = opts.Workers
	}
	if opts.TaskTimeout > 0 {
		orch.TaskTimeout = opts.TaskTimeout
	}

	trig := &triggers.Triggers{
		Reviews:      repos.Reviews,
		Bookings:     repos.Bookings,
		Incidents:    repos.Incidents,
		IncidentSvc:  incidents,
		Escalation:   esc,
		Orchestrator: orch,
		Events:       publisher,
		Logger:       logger.Named("triggers"),
		Now:          now,
	}

	mux := cron.NewTaskMux(trig, logger.Named("tasks"))
	if inline != nil {
		inline.SetHandler(mux)
	}

	return &App{
		Repos:        repos,
		Escalation:   esc,
		Incidents:    incidents,
		Quality:      qs,
		Orchestrator: orch,
		Triggers:     trig,
		Publisher:    publisher,
		Mux:          mux,
	}
}
