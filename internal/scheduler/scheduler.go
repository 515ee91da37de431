package scheduler

import (
	"context"
	"sync"
	"time"
	"ytwatch/internal/providers"
	"ytwatch/internal/scheduler/interfaces"
	"ytwatch/internal/services"
	"ytwatch/internal/store"
	"ytwatch/internal/structures"

	"github.com/roylee0704/gron"
	"go.uber.org/atomic"
)

type Scheduler struct {
	config      *structures.Config
	logger      providers.Logger
	dispatcher  services.DispatcherInterface
	fileManager *store.FileManager
	metrics     providers.MetricsProviderInterface
	cron        *gron.Cron
	opsMu       sync.Mutex
	polling     atomic.Bool
}

func (s *Scheduler) Init() {
	s.cron = gron.New()

	if s.fileManager.Enabled() && s.config.Store.SaveInterval > 0 && s.config.Store.FilePath != "" {
		s.cron.AddFunc(gron.Every(s.config.Store.SaveInterval), func() {
			_ = s.Persist()
		})
	}

	if s.config.Poll.Enabled {
		s.cron.AddFunc(gron.Every(s.config.Poll.Interval), s.poll)
		s.logger.Infof(providers.TypeApp, "Polling %d channel(s) every %s", len(s.config.Poll.Channels), s.config.Poll.Interval)
	}

	s.cron.Start()
}

// poll runs the dispatcher unless the previous tick is still in flight.
func (s *Scheduler) poll() {
	if !s.polling.CompareAndSwap(false, true) {
		s.logger.Warnf(providers.TypePoll, "Previous poll still running, tick skipped")
		return
	}
	defer s.polling.Store(false)

	report, err := s.dispatcher.Run(context.Background())
	if err != nil {
		s.logger.Errorf(providers.TypePoll, "Scheduled poll failed: %s", err)
		return
	}
	s.logger.Infof(providers.TypePoll, "Scheduled poll %s done, %d email(s) sent", report.RunID, report.SentCount)
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

func (s *Scheduler) Restore() error {
	if !s.fileManager.Enabled() || s.config.Store.FilePath == "" {
		return nil
	}
	if err := s.fileManager.LoadFromFile(s.config.Store.FilePath); err != nil {
		return err
	}
	s.logger.Infof(providers.TypeApp, "Restored store from %s", s.config.Store.FilePath)
	return nil
}

func (s *Scheduler) Persist() error {
	if !s.fileManager.Enabled() || s.config.Store.FilePath == "" {
		return nil
	}
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	start := time.Now()
	err := s.fileManager.SaveToFile(s.config.Store.FilePath)
	if err != nil {
		s.logger.Errorf(providers.TypeApp, "Error while persisting store: %s", err)
		return err
	}
	s.metrics.ObservePersistenceDuration(time.Since(start))
	s.logger.Debugf(providers.TypeApp, "Persisted store to file %s", s.config.Store.FilePath)
	return nil
}

func NewScheduler(config *structures.Config, logger providers.Logger, dispatcher services.DispatcherInterface, fileManager *store.FileManager, metrics providers.MetricsProviderInterface) interfaces.SchedulerInterface {
	return &Scheduler{
		config:      config,
		logger:      logger,
		dispatcher:  dispatcher,
		fileManager: fileManager,
		metrics:     metrics,
	}
}
