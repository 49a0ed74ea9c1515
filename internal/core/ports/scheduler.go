package ports

import "time"

type SchedulerService interface {
	Start()
	Stop()
	ScheduleTask(interval time.Duration, immediate bool, task func()) error
}
