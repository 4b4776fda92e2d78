package cmd

import (
	"github.com/sirupsen/logrus"

	"github.com/production-sim/production-sim/sim/experiment"
	"github.com/production-sim/production-sim/sim/recorder"
)

// openRecorder returns a SQLite recorder for dbPath, or a no-op one when
// dbPath is empty.
func openRecorder(dbPath string) recorder.Recorder {
	if dbPath == "" {
		return recorder.NewNoopRecorder()
	}
	rec, err := recorder.NewSQLiteRecorder(dbPath)
	if err != nil {
		logrus.Fatalf("Failed to open results database: %v", err)
	}
	return rec
}

// recordResults stores one run and its arm rows in dbPath.
func recordResults(dbPath, kind string, sc *experiment.Scenario, results []experiment.ArmResult) {
	rec := openRecorder(dbPath)
	defer func() {
		if err := rec.Close(); err != nil {
			logrus.Warnf("Closing results database: %v", err)
		}
	}()
	run := recorder.NewRun(kind, sc)
	if err := rec.RecordRun(run); err != nil {
		logrus.Fatalf("Failed to record run: %v", err)
	}
	if err := rec.RecordRows(run.ID, recorder.RowsFromResults(results)); err != nil {
		logrus.Fatalf("Failed to record results: %v", err)
	}
	if dbPath != "" {
		logrus.Infof("Recorded %s run %s in %s", kind, run.ID, dbPath)
	}
}
