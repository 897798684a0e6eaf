package service

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/task-service/internal/domain"
	"github.com/spec-kit/task-service/internal/repository"
)

const statsCacheKey = "stats:tasks"

// deadlineFormat matches the export format of the deadline column.
const deadlineFormat = "2006-01-02 15:04"

// TaskStatistics summarizes system-wide task counts.
type TaskStatistics struct {
	TotalTasks      int64            `json:"totalTasks"`
	CompletedTasks  int64            `json:"completedTasks"`
	UnfinishedTasks int64            `json:"unfinishedTasks"`
	UserStatistics  map[string]int64 `json:"userStatistics"`
}

// StatisticsService computes admin statistics and CSV exports. Computed
// statistics may be served from a short-lived redis cache; exports always
// read the store.
type StatisticsService struct {
	tasks    repository.TaskRepository
	users    repository.UserRepository
	cache    *redis.Client
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewStatisticsService constructs the service. cache may be nil.
func NewStatisticsService(tasks repository.TaskRepository, users repository.UserRepository, cache *redis.Client, cacheTTL time.Duration, logger *zap.Logger) *StatisticsService {
	return &StatisticsService{
		tasks:    tasks,
		users:    users,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

// GetTaskStatistics returns overall and per-user task counts.
func (s *StatisticsService) GetTaskStatistics(ctx context.Context) (*TaskStatistics, error) {
	if cached := s.readCache(ctx); cached != nil {
		return cached, nil
	}

	total, err := s.tasks.CountAll(ctx)
	if err != nil {
		return nil, err
	}
	completed, err := s.tasks.CountByStatus(ctx, domain.TaskStatusCompleted)
	if err != nil {
		return nil, err
	}
	unfinished, err := s.tasks.CountByStatus(ctx, domain.TaskStatusUnfinished)
	if err != nil {
		return nil, err
	}
	perUser, err := s.tasks.CountPerUser(ctx)
	if err != nil {
		return nil, err
	}

	stats := &TaskStatistics{
		TotalTasks:      total,
		CompletedTasks:  completed,
		UnfinishedTasks: unfinished,
		UserStatistics:  make(map[string]int64, len(perUser)),
	}
	for _, entry := range perUser {
		stats.UserStatistics[entry.Username] = entry.TaskCount
	}

	s.writeCache(ctx, stats)
	return stats, nil
}

// WriteUserStatisticsCSV writes per-user completed/unfinished counts as
// semicolon-separated CSV.
func (s *StatisticsService) WriteUserStatisticsCSV(ctx context.Context, w io.Writer) error {
	users, err := s.users.List(ctx)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	cw.Comma = ';'
	if err := cw.Write([]string{"Username", "TasksCount", "CompletedTasks", "UnfinishedTasks"}); err != nil {
		return err
	}

	for _, user := range users {
		completed, err := s.tasks.CountByUserAndStatus(ctx, user.ID, domain.TaskStatusCompleted)
		if err != nil {
			return err
		}
		unfinished, err := s.tasks.CountByUserAndStatus(ctx, user.ID, domain.TaskStatusUnfinished)
		if err != nil {
			return err
		}
		record := []string{
			user.Username,
			strconv.FormatInt(completed+unfinished, 10),
			strconv.FormatInt(completed, 10),
			strconv.FormatInt(unfinished, 10),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteTasksByDeadlineCSV writes every task sorted by deadline descending.
func (s *StatisticsService) WriteTasksByDeadlineCSV(ctx context.Context, w io.Writer) error {
	tasks, err := s.tasks.ListAllByDeadlineDesc(ctx)
	if err != nil {
		return err
	}
	users, err := s.users.List(ctx)
	if err != nil {
		return err
	}
	usernames := make(map[string]string, len(users))
	for _, user := range users {
		usernames[user.ID] = user.Username
	}

	cw := csv.NewWriter(w)
	cw.Comma = ';'
	if err := cw.Write([]string{"Title", "Description", "Deadline", "Priority", "Status", "Username"}); err != nil {
		return err
	}

	for _, task := range tasks {
		username := usernames[task.UserID]
		if username == "" {
			username = "Unknown"
		}
		record := []string{
			task.Title,
			task.Description,
			task.Deadline.Format(deadlineFormat),
			string(task.Priority),
			string(task.Status),
			username,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func (s *StatisticsService) readCache(ctx context.Context) *TaskStatistics {
	if s.cache == nil || s.cacheTTL <= 0 {
		return nil
	}
	raw, err := s.cache.Get(ctx, statsCacheKey).Bytes()
	if err != nil {
		return nil
	}
	var stats TaskStatistics
	if err := json.Unmarshal(raw, &stats); err != nil {
		return nil
	}
	return &stats
}

func (s *StatisticsService) writeCache(ctx context.Context, stats *TaskStatistics) {
	if s.cache == nil || s.cacheTTL <= 0 {
		return
	}
	raw, err := json.Marshal(stats)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, statsCacheKey, raw, s.cacheTTL).Err(); err != nil {
		s.logger.Debug("stats cache write failed", zap.Error(err))
	}
}
