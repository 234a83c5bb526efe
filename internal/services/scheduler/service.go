package scheduler

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"

	"github.com/darukaa-earth/daruka-rag/internal/common"
	"github.com/darukaa-earth/daruka-rag/internal/interfaces"
)

// Service runs periodic maintenance, currently conversation pruning.
type Service struct {
	memory  interfaces.ConversationMemory
	cron    *cron.Cron
	logger  arbor.ILogger
	maxIdle time.Duration
	running bool
}

// NewService creates a scheduler bound to the conversation memory.
func NewService(memory interfaces.ConversationMemory, config *common.MemoryConfig, logger arbor.ILogger) (*Service, error) {
	maxIdle := 24 * time.Hour
	if config.MaxIdle != "" {
		parsed, err := time.ParseDuration(config.MaxIdle)
		if err != nil {
			return nil, fmt.Errorf("invalid max_idle duration %q: %w", config.MaxIdle, err)
		}
		maxIdle = parsed
	}

	return &Service{
		memory:  memory,
		cron:    cron.New(),
		logger:  logger,
		maxIdle: maxIdle,
	}, nil
}

// Start registers the prune job and starts the cron loop. An empty schedule
// disables pruning.
func (s *Service) Start(schedule string) error {
	if s.running {
		return fmt.Errorf("scheduler already running")
	}
	if schedule == "" {
		s.logger.Info().Msg("Conversation pruning disabled (no schedule configured)")
		return nil
	}

	if _, err := s.cron.AddFunc(schedule, s.pruneConversations); err != nil {
		return fmt.Errorf("failed to register prune job: %w", err)
	}

	s.cron.Start()
	s.running = true
	s.logger.Info().
		Str("schedule", schedule).
		Str("max_idle", s.maxIdle.String()).
		Msg("Conversation pruning scheduled")
	return nil
}

// Stop halts the cron loop and waits for any in-flight run to finish.
func (s *Service) Stop() {
	if !s.running {
		return
	}
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.running = false
	s.logger.Info().Msg("Scheduler stopped")
}

func (s *Service) pruneConversations() {
	pruned := s.memory.PruneIdle(s.maxIdle)
	if pruned > 0 {
		s.logger.Info().
			Int("pruned", pruned).
			Str("max_idle", s.maxIdle.String()).
			Msg("Pruned idle conversations")
	}
}
