package service

import (
	"context"
	"sort"
	"strconv"
	"sync"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/task-service/internal/domain"
	"github.com/spec-kit/task-service/internal/repository"
)

// memUserRepo is an in-memory UserRepository for service tests.
type memUserRepo struct {
	mu    sync.Mutex
	seq   int
	users map[string]*domain.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[string]*domain.User{}}
}

func (r *memUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	user.ID = "user-" + strconv.Itoa(r.seq)
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *memUserRepo) Update(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *memUserRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.users, id)
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *user
	return &copied, nil
}

func (r *memUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Username == username {
			copied := *user
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memUserRepo) List(_ context.Context) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	users := make([]domain.User, 0, len(r.users))
	for _, user := range r.users {
		users = append(users, *user)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })
	return users, nil
}

// memTaskRepo is an in-memory TaskRepository for service tests.
type memTaskRepo struct {
	mu    sync.Mutex
	seq   int
	tasks map[string]*domain.Task
	users *memUserRepo
}

func newMemTaskRepo(users *memUserRepo) *memTaskRepo {
	return &memTaskRepo{tasks: map[string]*domain.Task{}, users: users}
}

func (r *memTaskRepo) Create(_ context.Context, task *domain.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	task.ID = "task-" + strconv.Itoa(r.seq)
	copied := *task
	r.tasks[task.ID] = &copied
	return nil
}

func (r *memTaskRepo) Update(_ context.Context, task *domain.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tasks[task.ID]; !ok {
		return pgx.ErrNoRows
	}
	copied := *task
	r.tasks[task.ID] = &copied
	return nil
}

func (r *memTaskRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tasks[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.tasks, id)
	return nil
}

func (r *memTaskRepo) GetByID(_ context.Context, id string) (*domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	task, ok := r.tasks[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *task
	return &copied, nil
}

func (r *memTaskRepo) ListByUser(_ context.Context, userID string, status *domain.TaskStatus) ([]domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	tasks := []domain.Task{}
	for _, task := range r.tasks {
		if task.UserID != userID {
			continue
		}
		if status != nil && task.Status != *status {
			continue
		}
		tasks = append(tasks, *task)
	}
	sortByDeadline(tasks, false)
	return tasks, nil
}

func (r *memTaskRepo) ListAll(_ context.Context) ([]domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	tasks := make([]domain.Task, 0, len(r.tasks))
	for _, task := range r.tasks {
		tasks = append(tasks, *task)
	}
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].ID < tasks[j].ID })
	return tasks, nil
}

func (r *memTaskRepo) ListAllByDeadlineDesc(_ context.Context) ([]domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	tasks := make([]domain.Task, 0, len(r.tasks))
	for _, task := range r.tasks {
		tasks = append(tasks, *task)
	}
	sortByDeadline(tasks, true)
	return tasks, nil
}

func (r *memTaskRepo) CountAll(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.tasks)), nil
}

func (r *memTaskRepo) CountByStatus(_ context.Context, status domain.TaskStatus) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, task := range r.tasks {
		if task.Status == status {
			count++
		}
	}
	return count, nil
}

func (r *memTaskRepo) CountByUserAndStatus(_ context.Context, userID string, status domain.TaskStatus) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, task := range r.tasks {
		if task.UserID == userID && task.Status == status {
			count++
		}
	}
	return count, nil
}

func (r *memTaskRepo) CountPerUser(ctx context.Context) ([]repository.UserTaskCount, error) {
	users, err := r.users.List(ctx)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := make([]repository.UserTaskCount, 0, len(users))
	for _, user := range users {
		entry := repository.UserTaskCount{Username: user.Username}
		for _, task := range r.tasks {
			if task.UserID == user.ID {
				entry.TaskCount++
			}
		}
		counts = append(counts, entry)
	}
	return counts, nil
}

func sortByDeadline(tasks []domain.Task, desc bool) {
	sort.Slice(tasks, func(i, j int) bool {
		if desc {
			return tasks[i].Deadline.After(tasks[j].Deadline)
		}
		return tasks[i].Deadline.Before(tasks[j].Deadline)
	})
}
