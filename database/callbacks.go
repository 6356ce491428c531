package database

import (
	"time"

	"hackathon-api/metrics"

	"gorm.io/gorm"
)

const startedAtKey = "metrics:started_at"

// RegisterMetrics times every create, query, update and delete into metrics.DatabaseOperationDuration
func RegisterMetrics(db *gorm.DB) error {
	cb := db.Callback()
	steps := []struct {
		operation string
		before    func(string, func(*gorm.DB)) error
		after     func(string, func(*gorm.DB)) error
	}{
		{"create", cb.Create().Before("gorm:create").Register, cb.Create().After("gorm:create").Register},
		{"query", cb.Query().Before("gorm:query").Register, cb.Query().After("gorm:query").Register},
		{"update", cb.Update().Before("gorm:update").Register, cb.Update().After("gorm:update").Register},
		{"delete", cb.Delete().Before("gorm:delete").Register, cb.Delete().After("gorm:delete").Register},
	}
	for _, s := range steps {
		if err := s.before("metrics:before_"+s.operation, markStart); err != nil {
			return err
		}
		if err := s.after("metrics:after_"+s.operation, observe(s.operation)); err != nil {
			return err
		}
	}
	return nil
}

func markStart(db *gorm.DB) {
	db.InstanceSet(startedAtKey, time.Now())
}

func observe(operation string) func(*gorm.DB) {
	return func(db *gorm.DB) {
		v, ok := db.InstanceGet(startedAtKey)
		if !ok {
			return
		}
		started, ok := v.(time.Time)
		if !ok {
			return
		}
		table := db.Statement.Table
		if table == "" {
			table = "raw"
		}
		metrics.RecordDBOperation(operation, table, started)
	}
}
