package cleanup

import "log/slog"

// Job is a named shutdown step, registered at construction time and run
// when the process winds down.
type Job struct {
	Name string
	F    func() error
}

var jobs []*Job

func Register(j *Job) {
	jobs = append(jobs, j)
}

// CleanUp runs every registered job in registration order. Failures are
// logged and do not stop the remaining jobs.
func CleanUp() {
	for _, j := range jobs {
		logger := slog.Default().With(slog.String("job", j.Name))
		logger.Info("cleanup job started")
		if err := j.F(); err != nil {
			logger.Error("cleanup job failed", slog.String("error", err.Error()))
			continue
		}
		logger.Info("cleanup job finished")
	}
}
