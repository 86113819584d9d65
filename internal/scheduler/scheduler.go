package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/barbershop/internal/config"
	"github.com/mamadbah2/barbershop/internal/domain/models"
	"github.com/mamadbah2/barbershop/internal/repository/sheets"
	"github.com/mamadbah2/barbershop/internal/service/reporting"
)

const jobTimeout = 5 * time.Minute

// Reporter is the reporting surface the jobs use.
type Reporter interface {
	Dashboard(ctx context.Context, barberID string, year int, month time.Month) (*models.BarberDashboard, error)
	Overview(ctx context.Context, year int, month time.Month) (*models.ManagerOverview, error)
	MonthlyResults(ctx context.Context, year int, month time.Month) ([]models.MonthlyResult, error)
	Today() time.Time
}

// BarberLister lists the barbers a digest goes to.
type BarberLister interface {
	ListBarbers(ctx context.Context, unitID string, activeOnly bool) ([]models.Barber, error)
}

// Messenger delivers a digest line.
type Messenger interface {
	SendOutbound(ctx context.Context, req models.OutboundMessageRequest) error
}

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron      *cron.Cron
	cfg       config.Config
	reporter  Reporter
	barbers   BarberLister
	messenger Messenger
	exporter  sheets.Repository
	logger    *zap.Logger
}

// NewScheduler creates a new scheduler instance. A nil messenger disables the
// digest; a nil exporter disables the monthly export.
func NewScheduler(cfg config.Config, reporter Reporter, barbers BarberLister, messenger Messenger, exporter sheets.Repository, logger *zap.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	loc, err := cfg.Scheduler.Location()
	if err != nil {
		return nil, fmt.Errorf("load scheduler timezone: %w", err)
	}

	return &Scheduler{
		cron:      cron.New(cron.WithLocation(loc)),
		cfg:       cfg,
		reporter:  reporter,
		barbers:   barbers,
		messenger: messenger,
		exporter:  exporter,
		logger:    logger,
	}, nil
}

// Start registers the jobs and starts the cron loop.
func (s *Scheduler) Start() error {
	s.logger.Info("starting scheduler")

	if s.messenger != nil {
		if _, err := s.cron.AddFunc(s.cfg.Scheduler.DigestSchedule, s.job("digest", s.RunDigest)); err != nil {
			return fmt.Errorf("schedule digest: %w", err)
		}
	}

	if s.exporter != nil {
		if _, err := s.cron.AddFunc(s.cfg.Scheduler.ExportSchedule, s.job("export", s.RunExport)); err != nil {
			return fmt.Errorf("schedule export: %w", err)
		}
	}

	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) job(name string, run func(context.Context) error) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()

		start := time.Now()
		if err := run(ctx); err != nil {
			s.logger.Error("scheduled job failed", zap.String("job", name), zap.Error(err))
			return
		}
		s.logger.Info("scheduled job completed", zap.String("job", name), zap.Duration("duration", time.Since(start)))
	}
}

// RunDigest sends each active barber with a phone their target for today, and the
// manager the month's overview.
func (s *Scheduler) RunDigest(ctx context.Context) error {
	if s.messenger == nil {
		return nil
	}

	today := s.reporter.Today()
	barbers, err := s.barbers.ListBarbers(ctx, "", true)
	if err != nil {
		return fmt.Errorf("list barbers: %w", err)
	}

	var errs []error
	sent := 0
	for _, b := range barbers {
		if b.Phone == "" {
			continue
		}

		dash, err := s.reporter.Dashboard(ctx, b.ID, today.Year(), today.Month())
		if err != nil {
			errs = append(errs, fmt.Errorf("dashboard for %s: %w", b.ID, err))
			continue
		}
		if dash.Target == nil || !dash.Target.Available {
			continue
		}

		req := models.OutboundMessageRequest{To: b.Phone, Message: reporting.FormatTarget(dash)}
		if err := s.messenger.SendOutbound(ctx, req); err != nil {
			errs = append(errs, fmt.Errorf("send digest to %s: %w", b.ID, err))
			continue
		}
		sent++
	}

	if manager := s.cfg.WhatsApp.ManagerID; manager != "" {
		overview, err := s.reporter.Overview(ctx, today.Year(), today.Month())
		if err != nil {
			errs = append(errs, fmt.Errorf("overview: %w", err))
		} else if err := s.messenger.SendOutbound(ctx, models.OutboundMessageRequest{To: manager, Message: reporting.FormatOverview(overview)}); err != nil {
			errs = append(errs, fmt.Errorf("send overview: %w", err))
		}
	}

	s.logger.Info("digest sent", zap.Int("barbers", sent), zap.Int("failures", len(errs)))
	return errors.Join(errs...)
}

// RunExport appends last month's results to the spreadsheet unless that month was
// already exported.
func (s *Scheduler) RunExport(ctx context.Context) error {
	if s.exporter == nil {
		return nil
	}

	today := s.reporter.Today()
	prev := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location()).AddDate(0, -1, 0)

	done, err := s.exporter.ExportedPeriods(ctx)
	if err != nil {
		return fmt.Errorf("read exported periods: %w", err)
	}
	key := sheets.PeriodKey(prev.Year(), int(prev.Month()))
	if done[key] {
		s.logger.Info("month already exported", zap.String("period", key))
		return nil
	}

	results, err := s.reporter.MonthlyResults(ctx, prev.Year(), prev.Month())
	if err != nil {
		return fmt.Errorf("build monthly results: %w", err)
	}

	if err := s.exporter.AppendResults(ctx, results); err != nil {
		return fmt.Errorf("export %s: %w", key, err)
	}

	s.logger.Info("monthly results exported", zap.String("period", key), zap.Int("rows", len(results)))
	return nil
}
