package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/kovacsd/petcare/internal/config"
	"github.com/kovacsd/petcare/internal/domain/models"
)

// PetLister is the slice of the API client the scheduler needs.
type PetLister interface {
	ListPetsByOwner(ctx context.Context, owner string) ([]models.Pet, error)
}

// Scheduler runs the periodic vaccination-expiry scan for the configured
// owner's pets.
type Scheduler struct {
	cron    *cron.Cron
	backend PetLister
	cfg     config.Config
	logger  *zap.Logger
}

// NewScheduler creates a new scheduler instance.
func NewScheduler(cfg config.Config, backend PetLister, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Scheduler{
		cron:    cron.New(),
		backend: backend,
		cfg:     cfg,
		logger:  logger,
	}
}

// Start schedules the reminder scan and starts the cron loop.
func (s *Scheduler) Start() {
	s.logger.Info("starting scheduler", zap.String("schedule", s.cfg.Reminder.CronSchedule))

	if _, err := s.cron.AddFunc(s.cfg.Reminder.CronSchedule, s.scanExpiringVaccinations); err != nil {
		s.logger.Error("failed to schedule vaccination reminder", zap.Error(err))
	}

	s.cron.Start()
}

// Stop stops the scheduler.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	s.cron.Stop()
}

func (s *Scheduler) scanExpiringVaccinations() {
	if s.cfg.Owner == "" {
		s.logger.Debug("no owner configured, skipping vaccination scan")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pets, err := s.backend.ListPetsByOwner(ctx, s.cfg.Owner)
	if err != nil {
		s.logger.Error("failed to list pets for vaccination scan", zap.Error(err))
		return
	}

	now := time.Now()
	deadline := now.AddDate(0, 0, s.cfg.Reminder.WindowDays)

	for _, pet := range pets {
		for _, rec := range ExpiringVaccinations(pet, now, deadline) {
			s.logger.Warn("vaccination expiring",
				zap.String("pet", pet.Name),
				zap.Int64("petId", pet.ID),
				zap.String("vaccine", rec.VaccineName),
				zap.String("expires", rec.ExpirationDate.String()))
		}
	}
}

// ExpiringVaccinations returns the pet's vaccinations whose expiration falls
// inside (now, deadline]. Already-expired and undated records are skipped.
func ExpiringVaccinations(pet models.Pet, now, deadline time.Time) []models.VaccinationRecord {
	var out []models.VaccinationRecord
	for _, rec := range pet.MedicalHistory.VaccinationRecords {
		if rec.ExpirationDate.IsZero() {
			continue
		}
		exp := rec.ExpirationDate.Time
		if exp.After(now) && !exp.After(deadline) {
			out = append(out, rec)
		}
	}
	return out
}
