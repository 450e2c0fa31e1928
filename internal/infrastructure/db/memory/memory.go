// Package memory is a process-local Record Store. It backs STORE_BACKEND=memory
// and the service tests; data is lost on restart.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/fintrack/expense-api/internal/core/aggregate"
	"github.com/fintrack/expense-api/internal/core/domain"
	"github.com/fintrack/expense-api/internal/core/ports"
)

// UserRepository implements ports.UserRepository.
type UserRepository struct {
	mu    sync.RWMutex
	users []*domain.User
}

func NewUserRepository() *UserRepository {
	return &UserRepository{}
}

func cloneUser(u *domain.User) *domain.User {
	c := *u
	return &c
}

func (r *UserRepository) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	email := domain.NormalizeEmail(user.Email)
	for _, u := range r.users {
		if u.Email == email {
			return nil, domain.ErrUserExists
		}
	}

	c := cloneUser(user)
	c.Email = email
	if c.ID == "" {
		c.ID = domain.NewID()
	}
	r.users = append(r.users, c)
	return cloneUser(c), nil
}

func (r *UserRepository) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.ID == id {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	email = domain.NormalizeEmail(email)
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *UserRepository) FindByIDs(_ context.Context, ids []string) (map[string]*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	wanted := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}
	out := make(map[string]*domain.User, len(ids))
	for _, u := range r.users {
		if _, ok := wanted[u.ID]; ok {
			out[u.ID] = cloneUser(u)
		}
	}
	return out, nil
}

func (r *UserRepository) Count(context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.users)), nil
}

// Delete removes a user. Only used to simulate vanished owners.
func (r *UserRepository) Delete(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, u := range r.users {
		if u.ID == id {
			r.users = append(r.users[:i], r.users[i+1:]...)
			return
		}
	}
}

// TransactionRepository implements ports.TransactionRepository. Records are
// kept in insertion order, which drives every tie-break.
type TransactionRepository struct {
	mu  sync.RWMutex
	txs []*domain.Transaction
}

func NewTransactionRepository() *TransactionRepository {
	return &TransactionRepository{}
}

func cloneTx(t *domain.Transaction) *domain.Transaction {
	c := *t
	return &c
}

func (r *TransactionRepository) Create(_ context.Context, t *domain.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if t.ID == "" {
		t.ID = domain.NewID()
	}
	for _, existing := range r.txs {
		if existing.ID == t.ID {
			return fmt.Errorf("duplicate transaction id %s", t.ID)
		}
	}
	r.txs = append(r.txs, cloneTx(t))
	return nil
}

func (r *TransactionRepository) indexOf(id string) int {
	for i, t := range r.txs {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func (r *TransactionRepository) FindByID(_ context.Context, id string) (*domain.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.indexOf(id)
	if i < 0 {
		return nil, domain.ErrTransactionNotFound
	}
	return cloneTx(r.txs[i]), nil
}

func (r *TransactionRepository) Update(_ context.Context, t *domain.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(t.ID)
	if i < 0 {
		return domain.ErrTransactionNotFound
	}
	r.txs[i] = cloneTx(t)
	return nil
}

func (r *TransactionRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return domain.ErrTransactionNotFound
	}
	r.txs = append(r.txs[:i], r.txs[i+1:]...)
	return nil
}

// matching returns clones of the records that satisfy filter, in insertion order.
func (r *TransactionRepository) matching(filter ports.TransactionFilter) []*domain.Transaction {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*domain.Transaction
	for _, t := range r.txs {
		if filter.Matches(t) {
			out = append(out, cloneTx(t))
		}
	}
	return out
}

func (r *TransactionRepository) List(_ context.Context, filter ports.TransactionFilter) ([]*domain.Transaction, error) {
	found := r.matching(filter)
	out := make([]*domain.Transaction, len(found))
	for i, t := range found {
		out[len(found)-1-i] = t
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	return out, nil
}

func (r *TransactionRepository) Latest(_ context.Context, limit int) ([]*domain.Transaction, error) {
	return aggregate.Latest(r.matching(ports.TransactionFilter{}), limit), nil
}

func (r *TransactionRepository) Count(_ context.Context, filter ports.TransactionFilter) (int64, error) {
	return int64(len(r.matching(filter))), nil
}

func (r *TransactionRepository) GroupAndSum(_ context.Context, filter ports.TransactionFilter, key aggregate.GroupKey) ([]aggregate.Group, error) {
	return aggregate.Fold(r.matching(filter), key), nil
}
