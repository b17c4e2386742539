package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/ikkim/messreview-backend/internal/app/model"
	"github.com/ikkim/messreview-backend/internal/app/schedule"
	"github.com/ikkim/messreview-backend/internal/app/service"
	"github.com/ikkim/messreview-backend/internal/websocket"
	"github.com/ikkim/messreview-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

const (
	weekdays = "1-5"
	weekends = "0,6"

	// Late enough that the day's dinner reviews are in.
	reportArchiveSpec = "55 23 * * *"
	archiveTimeout    = 2 * time.Minute
)

type job struct {
	name string
	spec string
	run  func()
}

// MenuScheduler announces slot openings and archives the daily report, both
// evaluated in the institution's timezone.
type MenuScheduler struct {
	cron    *cron.Cron
	clock   *schedule.Clock
	events  service.EventPublisher
	reports service.ReportService

	announceSlots  bool
	archiveReports bool
}

// NewMenuScheduler builds the scheduler. A nil events or reports disables
// the matching jobs.
func NewMenuScheduler(
	clock *schedule.Clock,
	events service.EventPublisher,
	reports service.ReportService,
	announceSlots, archiveReports bool,
) *MenuScheduler {
	return &MenuScheduler{
		cron:           cron.New(cron.WithLocation(clock.Location())),
		clock:          clock,
		events:         events,
		reports:        reports,
		announceSlots:  announceSlots && events != nil,
		archiveReports: archiveReports && reports != nil,
	}
}

func (s *MenuScheduler) jobs() []job {
	var jobs []job

	if s.announceSlots {
		for _, slot := range model.MealSlots {
			for _, day := range []struct {
				dayType model.DayType
				dow     string
			}{
				{model.DayTypeWeekday, weekdays},
				{model.DayTypeWeekend, weekends},
			} {
				w, ok := schedule.WindowFor(slot, day.dayType)
				if !ok {
					continue
				}
				slot := slot
				jobs = append(jobs, job{
					name: fmt.Sprintf("%s %s opening", day.dayType, slot),
					spec: fmt.Sprintf("%d %d * * %s", w.Open%60, w.Open/60, day.dow),
					run:  func() { s.announceSlot(slot) },
				})
			}
		}
	}

	if s.archiveReports {
		jobs = append(jobs, job{
			name: "daily report archive",
			spec: reportArchiveSpec,
			run:  s.archiveReport,
		})
	}

	return jobs
}

func (s *MenuScheduler) announceSlot(slot model.MealSlot) {
	date := s.clock.Today()
	logger.Info("Meal slot opened", map[string]interface{}{
		"meal_slot": slot,
		"date":      date,
	})
	s.events.Publish(websocket.Event{
		Type:     websocket.EventSlotOpened,
		Date:     date,
		MealSlot: slot,
	})
}

func (s *MenuScheduler) archiveReport() {
	ctx, cancel := context.WithTimeout(context.Background(), archiveTimeout)
	defer cancel()

	date := s.clock.Today()
	if _, err := s.reports.Archive(ctx, date); err != nil {
		logger.Error("Scheduled report archive failed", err, map[string]interface{}{
			"date": date,
		})
	}
}

// Start registers every job and starts the cron loop.
func (s *MenuScheduler) Start() error {
	jobs := s.jobs()
	for _, j := range jobs {
		if _, err := s.cron.AddFunc(j.spec, j.run); err != nil {
			logger.Error("Failed to add cron job", err, map[string]interface{}{
				"job":  j.name,
				"spec": j.spec,
			})
			return err
		}
	}

	s.cron.Start()
	logger.Info("Menu scheduler started", map[string]interface{}{
		"jobs":     len(jobs),
		"timezone": s.clock.Location().String(),
	})
	return nil
}

// Stop waits for running jobs to finish.
func (s *MenuScheduler) Stop() {
	logger.Info("Stopping menu scheduler...")
	<-s.cron.Stop().Done()
	logger.Info("Menu scheduler stopped")
}
