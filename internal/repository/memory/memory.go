// Package memory implements repository.Store over process-local maps. It
// backs the service tests and mirrors the contracts of the Postgres store,
// including the conditional stock adjustment.
package memory

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"go-branchpos-ws/internal/apperr"
	"go-branchpos-ws/internal/model"
	"go-branchpos-ws/internal/repository"
)

type Store struct {
	mu       sync.Mutex
	items    map[uuid.UUID]model.Item
	groups   map[uuid.UUID]model.TransactionGroup
	lines    []model.TransactionLine
	users    map[uuid.UUID]model.User
	branches map[uuid.UUID]model.Branch
}

func New() *Store {
	return &Store{
		items:    make(map[uuid.UUID]model.Item),
		groups:   make(map[uuid.UUID]model.TransactionGroup),
		users:    make(map[uuid.UUID]model.User),
		branches: make(map[uuid.UUID]model.Branch),
	}
}

func (s *Store) Catalog() repository.CatalogRepository { return &catalogRepo{s} }
func (s *Store) Ledger() repository.LedgerRepository   { return &ledgerRepo{s} }
func (s *Store) Users() repository.UserRepository      { return &userRepo{s} }
func (s *Store) Branches() repository.BranchRepository { return &branchRepo{s} }

// Atomic snapshots the state and restores it when fn fails. Good enough for
// single-process tests; the Postgres store uses a real transaction.
func (s *Store) Atomic(fn func(repository.Store) error) error {
	s.mu.Lock()
	items := copyMap(s.items)
	groups := copyMap(s.groups)
	lines := make([]model.TransactionLine, len(s.lines))
	copy(lines, s.lines)
	users := copyMap(s.users)
	branches := copyMap(s.branches)
	s.mu.Unlock()

	if err := fn(s); err != nil {
		s.mu.Lock()
		s.items = items
		s.groups = groups
		s.lines = lines
		s.users = users
		s.branches = branches
		s.mu.Unlock()
		return err
	}
	return nil
}

func copyMap[V any](src map[uuid.UUID]V) map[uuid.UUID]V {
	dst := make(map[uuid.UUID]V, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

type catalogRepo struct {
	s *Store
}

func (r *catalogRepo) Create(item *model.Item) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ensureID(&item.ID)
	item.CreatedAt = time.Now()
	item.UpdatedAt = item.CreatedAt
	r.s.items[item.ID] = *item
	return nil
}

func (r *catalogRepo) FindAll(branchID uuid.UUID, search string) ([]model.Item, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var items []model.Item
	for _, item := range r.s.items {
		if item.BranchID != branchID {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(item.ItemName), strings.ToLower(search)) {
			continue
		}
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ItemName < items[j].ItemName })
	return items, nil
}

func (r *catalogRepo) FindByID(id uuid.UUID) (*model.Item, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	item, ok := r.s.items[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	return &item, nil
}

func (r *catalogRepo) Update(item *model.Item) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.items[item.ID]; !ok {
		return apperr.ErrNotFound
	}
	item.UpdatedAt = time.Now()
	r.s.items[item.ID] = *item
	return nil
}

func (r *catalogRepo) Delete(id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.items[id]; !ok {
		return apperr.ErrNotFound
	}
	delete(r.s.items, id)
	return nil
}

func (r *catalogRepo) AdjustStock(id uuid.UUID, delta int, updatedBy string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	item, ok := r.s.items[id]
	if !ok {
		return apperr.ErrNotFound
	}
	if item.Stock+delta < 0 {
		return &apperr.InsufficientStockError{
			ItemName:  item.ItemName,
			Requested: -delta,
			Available: item.Stock,
		}
	}
	item.Stock += delta
	item.UpdatedBy = updatedBy
	item.UpdatedAt = time.Now()
	r.s.items[id] = item
	return nil
}

func (r *catalogRepo) CountByBranch(branchID uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var count int64
	for _, item := range r.s.items {
		if item.BranchID == branchID {
			count++
		}
	}
	return count, nil
}

func (r *catalogRepo) LowStock(branchID uuid.UUID, threshold int) ([]model.Item, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var items []model.Item
	for _, item := range r.s.items {
		if item.BranchID == branchID && item.Stock < threshold {
			items = append(items, item)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Stock < items[j].Stock })
	return items, nil
}

type ledgerRepo struct {
	s *Store
}

func (r *ledgerRepo) InsertGroup(group *model.TransactionGroup) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ensureID(&group.ID)
	group.CreatedAt = time.Now()
	group.UpdatedAt = group.CreatedAt
	stored := *group
	stored.Lines = nil
	r.s.groups[group.ID] = stored
	return nil
}

func (r *ledgerRepo) InsertLines(lines []model.TransactionLine) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range lines {
		ensureID(&lines[i].ID)
		lines[i].CreatedAt = time.Now()
		lines[i].UpdatedAt = lines[i].CreatedAt
		r.s.lines = append(r.s.lines, lines[i])
	}
	return nil
}

func (r *ledgerRepo) FindGroups(branchID uuid.UUID, limit int) ([]model.TransactionGroup, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var groups []model.TransactionGroup
	for _, group := range r.s.groups {
		if group.BranchID == branchID {
			groups = append(groups, r.hydrate(group))
		}
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].TransactionDate.After(groups[j].TransactionDate)
	})
	if limit > 0 && len(groups) > limit {
		groups = groups[:limit]
	}
	return groups, nil
}

func (r *ledgerRepo) FindGroupByID(id uuid.UUID) (*model.TransactionGroup, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	group, ok := r.s.groups[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	hydrated := r.hydrate(group)
	return &hydrated, nil
}

// hydrate attaches lines, item references, and the acting user the way the
// Postgres store preloads them. Caller must hold the lock.
func (r *ledgerRepo) hydrate(group model.TransactionGroup) model.TransactionGroup {
	for _, line := range r.s.lines {
		if line.GroupID != group.ID {
			continue
		}
		if line.ItemID != nil {
			if item, ok := r.s.items[*line.ItemID]; ok {
				line.Item = &item
			}
		}
		group.Lines = append(group.Lines, line)
	}
	if user, ok := r.s.users[group.UserID]; ok {
		group.User = &user
	}
	return group
}

func (r *ledgerRepo) SumQuantityByType(branchID uuid.UUID, txType model.TransactionType) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var total int64
	for _, line := range r.s.lines {
		if line.BranchID == branchID && line.TransactionType == txType {
			total += int64(line.Quantity)
		}
	}
	return total, nil
}

func (r *ledgerRepo) ProfitTotal(branchID uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var total int64
	for _, line := range r.s.lines {
		if line.BranchID != branchID {
			continue
		}
		if line.TransactionType == model.TxOut {
			total += line.Subtotal
		} else {
			total -= line.Subtotal
		}
	}
	return total, nil
}

func (r *ledgerRepo) RecentLines(branchID uuid.UUID, limit int) ([]model.TransactionLine, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var lines []model.TransactionLine
	for _, line := range r.s.lines {
		if line.BranchID == branchID {
			lines = append(lines, line)
		}
	}
	sort.Slice(lines, func(i, j int) bool {
		return lines[i].TransactionDate.After(lines[j].TransactionDate)
	})
	if limit > 0 && len(lines) > limit {
		lines = lines[:limit]
	}
	return lines, nil
}

type userRepo struct {
	s *Store
}

func (r *userRepo) FindByEmail(email string) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, user := range r.s.users {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, apperr.ErrNotFound
}

func (r *userRepo) FindByID(id uuid.UUID) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	user, ok := r.s.users[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	return &user, nil
}

func (r *userRepo) FindByBranch(branchID uuid.UUID) ([]model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var users []model.User
	for _, user := range r.s.users {
		if user.BranchID == branchID {
			users = append(users, user)
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })
	return users, nil
}

func (r *userRepo) Create(user *model.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ensureID(&user.ID)
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	r.s.users[user.ID] = *user
	return nil
}

func (r *userRepo) Update(user *model.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[user.ID]; !ok {
		return apperr.ErrNotFound
	}
	user.UpdatedAt = time.Now()
	r.s.users[user.ID] = *user
	return nil
}

func (r *userRepo) Delete(id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.users, id)
	return nil
}

func (r *userRepo) UpdatePassword(userID uuid.UUID, hashedPassword string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	user, ok := r.s.users[userID]
	if !ok {
		return apperr.ErrNotFound
	}
	user.Password = hashedPassword
	r.s.users[userID] = user
	return nil
}

func (r *userRepo) UpdateTokenVersion(userID uuid.UUID, version string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	user, ok := r.s.users[userID]
	if !ok {
		return apperr.ErrNotFound
	}
	user.TokenVersion = version
	r.s.users[userID] = user
	return nil
}

func (r *userRepo) UpdateLastSeen(userID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	user, ok := r.s.users[userID]
	if !ok {
		return apperr.ErrNotFound
	}
	now := time.Now()
	user.LastSeenAt = &now
	r.s.users[userID] = user
	return nil
}

type branchRepo struct {
	s *Store
}

func (r *branchRepo) Create(branch *model.Branch) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ensureID(&branch.ID)
	branch.CreatedAt = time.Now()
	branch.UpdatedAt = branch.CreatedAt
	r.s.branches[branch.ID] = *branch
	return nil
}

func (r *branchRepo) FindAll() ([]model.Branch, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var branches []model.Branch
	for _, branch := range r.s.branches {
		branches = append(branches, branch)
	}
	sort.Slice(branches, func(i, j int) bool { return branches[i].BranchName < branches[j].BranchName })
	return branches, nil
}

func (r *branchRepo) FindByID(id uuid.UUID) (*model.Branch, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	branch, ok := r.s.branches[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	return &branch, nil
}

func (r *branchRepo) FindByName(name string) (*model.Branch, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, branch := range r.s.branches {
		if branch.BranchName == name {
			b := branch
			return &b, nil
		}
	}
	return nil, apperr.ErrNotFound
}
