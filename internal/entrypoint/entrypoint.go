package entrypoint

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/librarian/internal/attachments"
	"github.com/mrlokans/librarian/internal/audit"
	"github.com/mrlokans/librarian/internal/catalog"
	"github.com/mrlokans/librarian/internal/config"
	"github.com/mrlokans/librarian/internal/database"
	auditrepo "github.com/mrlokans/librarian/internal/database/audit"
	"github.com/mrlokans/librarian/internal/database/books"
	http_controllers "github.com/mrlokans/librarian/internal/http"
	"github.com/mrlokans/librarian/internal/report"
	"github.com/mrlokans/librarian/internal/scheduler"
	"github.com/mrlokans/librarian/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		log.Printf("Starting server at %s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// kill -2 is SIGINT, plain kill is SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Stop accepting requests first so no mutation lands after the queue stops.
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server Shutdown: %v", err)
	}

	if onShutdown != nil {
		onShutdown(ctx)
	}

	log.Println("Server exiting")
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting Librarian v%s", version)

	db, err := database.NewDatabase(cfg.Database.Path, cfg.Database.LogSQL)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	var opts []catalog.Option

	var auditService *audit.Service
	if cfg.Audit.Enabled {
		auditService = audit.NewService(auditrepo.NewRepository(db.DB))
		opts = append(opts, catalog.WithListener(auditService.CatalogListener()))
		log.Printf("Audit trail enabled (retention: %d days)", cfg.Audit.RetentionDays)
	}

	var taskClient *tasks.Client
	if cfg.Tasks.Enabled {
		taskClient, err = tasks.NewClient(cfg.Database.Path, tasks.Config{
			Workers:         cfg.Tasks.Workers,
			ReleaseAfter:    cfg.Tasks.ReleaseAfter,
			CleanupInterval: cfg.Tasks.CleanupInterval,
		})
		if err != nil {
			log.Fatalf("Failed to initialize task queue: %v", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Printf("Error closing task client: %v", err)
			}
		}()
		opts = append(opts, catalog.WithListener(tasks.RefreshOnMutation(taskClient)))
	}

	catalogService := catalog.NewService(books.NewRepository(db.DB), opts...)
	generator := report.NewGenerator(catalogService, attachments.NewInspector())

	// Optional interfaces stay nil unless the feature is on.
	var reportAuditor http_controllers.ReportAuditor
	var auditReader http_controllers.AuditReader
	var taskAuditor tasks.ReportAuditor
	if auditService != nil {
		reportAuditor = auditService
		auditReader = auditService
		taskAuditor = auditService
	}

	var taskCtxCancel context.CancelFunc
	var reportQueue http_controllers.ReportQueue
	var taskStatus http_controllers.TaskStatusReader
	if taskClient != nil {
		taskClient.Register(tasks.NewRefreshReportQueue(generator, cfg.Report.Path, taskAuditor))
		if auditService != nil {
			taskClient.Register(tasks.NewTrimAuditTrailQueue(auditService))
		}

		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)
		reportQueue = taskClient
		taskStatus = taskClient
	}

	sched, err := buildScheduler(cfg, generator, auditService, taskClient)
	if err != nil {
		log.Fatalf("Failed to initialize scheduler: %v", err)
	}
	schedCtx, schedCancel := context.WithCancel(context.Background())
	defer schedCancel()
	sched.Start(schedCtx)

	router := http_controllers.NewRouter(http_controllers.RouterConfig{
		Catalog:     catalogService,
		Database:    db,
		Reports:     generator,
		ReportPath:  cfg.Report.Path,
		ReportQueue: reportQueue,
		TaskStatus:  taskStatus,
		Auditor:     reportAuditor,
		AuditReader: auditReader,
		Version:     version,
	})

	onShutdown := func(ctx context.Context) {
		sched.Stop()
		if taskClient != nil && taskCtxCancel != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
		if auditService != nil {
			auditService.Flush()
		}
	}

	Serve(router, cfg, onShutdown)
}

// buildScheduler registers the periodic jobs. With a task queue the jobs
// only enqueue work; without one they run in the scheduler goroutine.
func buildScheduler(cfg *config.Config, generator *report.Generator, auditService *audit.Service, taskClient *tasks.Client) (*scheduler.Scheduler, error) {
	sched := scheduler.New(5 * time.Minute)

	if cfg.Report.ScheduleEnabled {
		var job scheduler.JobFunc
		if taskClient != nil {
			job = scheduler.EnqueueReportJob(taskClient)
		} else {
			var auditor scheduler.ReportAuditor
			if auditService != nil {
				auditor = auditService
			}
			job = scheduler.WriteReportJob(generator, cfg.Report.Path, auditor)
		}
		if err := sched.Add(scheduler.ReportJobName, cfg.Report.Schedule, job); err != nil {
			return nil, err
		}
	}

	if auditService != nil && cfg.Audit.RetentionDays > 0 {
		var job scheduler.JobFunc
		if taskClient != nil {
			job = scheduler.EnqueueAuditCleanupJob(taskClient, cfg.Audit.RetentionDays)
		} else {
			job = scheduler.CleanupAuditJob(auditService, cfg.Audit.RetentionDays)
		}
		if err := sched.Add(scheduler.AuditCleanupJobName, scheduler.DefaultAuditCleanupSchedule, job); err != nil {
			return nil, err
		}
	}

	return sched, nil
}
