// Command checkjobs prints recent scheduled job runs and can trigger a job
// immediately.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/sahilchouksey/bursary-hub/config"
	"github.com/sahilchouksey/bursary-hub/database"
	"github.com/sahilchouksey/bursary-hub/model"
	"github.com/sahilchouksey/bursary-hub/services"
	"github.com/sahilchouksey/bursary-hub/services/cron"
	"github.com/sahilchouksey/bursary-hub/utils/logger"
)

func main() {
	limit := flag.Int("n", 20, "number of runs to show")
	job := flag.String("job", "", "only show runs of this job")
	run := flag.String("run", "", "run this job now before listing")
	flag.Parse()

	if err := config.LoadENV(); err != nil {
		log.Println("No .env file found, using environment variables")
	}
	env, err := config.Get()
	if err != nil {
		log.Fatalf("Failed to read configuration: %v", err)
	}

	appLog, err := logger.New(env.GO_ENV)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer appLog.Sync()

	store, err := database.StartGORM(env, appLog)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer store.Close()
	db := store.DB()

	if *run != "" {
		manager := cron.NewCronManager(db,
			services.NewBursaryService(db, nil, appLog),
			services.NewAnalyticsService(db, nil, appLog),
			appLog, nil)

		found := false
		for _, j := range manager.Jobs() {
			if j.Name == *run {
				found = true
				if err := manager.RunJob(context.Background(), j); err != nil {
					log.Printf("❌ %s failed: %v", j.Name, err)
				}
			}
		}
		if !found {
			log.Fatalf("Unknown job %q", *run)
		}
	}

	query := db.Order("started_at DESC").Limit(*limit)
	if *job != "" {
		query = query.Where("job_name = ?", *job)
	}

	var runs []model.CronJobLog
	if err := query.Find(&runs).Error; err != nil {
		log.Fatalf("Failed to query cron_job_logs: %v", err)
	}

	separator := strings.Repeat("=", 90)
	fmt.Println(separator)
	fmt.Printf("Recent job runs (%d)\n", len(runs))
	fmt.Println(separator)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tJOB\tSTATUS\tSTARTED\tDURATION\tROWS\tERROR")
	for _, r := range runs {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%dms\t%d\t%s\n",
			r.ID, r.JobName, r.Status, r.StartedAt.Format("2006-01-02 15:04:05"),
			r.DurationMS, r.RowsAffected, r.ErrorMsg)
	}
	w.Flush()
}
