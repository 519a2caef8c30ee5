package maintenance

import (
	"database/sql"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// Janitor runs periodic database housekeeping: VACUUM/ANALYZE on the
// SQLite file plus a table-count snapshot in the logs.
type Janitor struct {
	db       *sql.DB
	schedule cron.Schedule
	done     chan bool
}

// NewJanitor creates a janitor from a standard cron expression.
func NewJanitor(db *sql.DB, spec string) (*Janitor, error) {
	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, err
	}
	return &Janitor{
		db:       db,
		schedule: schedule,
		done:     make(chan bool),
	}, nil
}

// Run starts the janitor's ticking loop.
func (j *Janitor) Run() {
	log.Info().Time("next_run", j.schedule.Next(time.Now())).Msg("Starting maintenance janitor")
	next := j.schedule.Next(time.Now())

	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-j.done:
			log.Info().Msg("Stopping maintenance janitor")
			return
		case now := <-ticker.C:
			if now.After(next) {
				j.runMaintenance()
				next = j.schedule.Next(now)
			}
		}
	}
}

// Stop halts the janitor.
func (j *Janitor) Stop() {
	j.done <- true
}

// runMaintenance compacts the database and logs table counts.
func (j *Janitor) runMaintenance() {
	start := time.Now()

	if _, err := j.db.Exec("VACUUM"); err != nil {
		log.Error().Err(err).Msg("Janitor: VACUUM failed")
		return
	}
	if _, err := j.db.Exec("ANALYZE"); err != nil {
		log.Error().Err(err).Msg("Janitor: ANALYZE failed")
		return
	}

	var users, posts int64
	if err := j.db.QueryRow("SELECT COUNT(*) FROM user").Scan(&users); err != nil {
		log.Error().Err(err).Msg("Janitor: failed to count users")
		return
	}
	if err := j.db.QueryRow("SELECT COUNT(*) FROM post").Scan(&posts); err != nil {
		log.Error().Err(err).Msg("Janitor: failed to count posts")
		return
	}

	log.Info().
		Int64("users", users).
		Int64("posts", posts).
		Dur("took", time.Since(start)).
		Msg("Database maintenance complete")
}
