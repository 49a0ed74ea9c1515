package scheduler

import (
	"time"

	"github.com/go-co-op/gocron"

	"github.com/blocknames/registrar/internal/core/ports"
)

type service struct {
	scheduler *gocron.Scheduler
}

func NewScheduler() ports.SchedulerService {
	svc := gocron.NewScheduler(time.UTC)
	return &service{svc}
}

func (s *service) Start() {
	s.scheduler.StartAsync()
}

func (s *service) Stop() {
	s.scheduler.Stop()
}

func (s *service) ScheduleTask(
	interval time.Duration, immediate bool, task func(),
) error {
	if immediate {
		_, err := s.scheduler.Every(interval).Do(task)
		return err
	}
	_, err := s.scheduler.Every(interval).WaitForSchedule().Do(task)
	return err
}
