package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/Prateekyadav17/ElectricHelp/internal/domain"
	"github.com/Prateekyadav17/ElectricHelp/internal/repository"
)

func zapNop() *zap.Logger {
	return zap.NewNop()
}

// memAccountRepo is an in-memory AccountRepository for tests.
type memAccountRepo struct {
	mu       sync.Mutex
	accounts map[string]*domain.Account
}

var _ repository.AccountRepository = (*memAccountRepo)(nil)

func newMemAccountRepo() *memAccountRepo {
	return &memAccountRepo{accounts: make(map[string]*domain.Account)}
}

func (r *memAccountRepo) Create(_ context.Context, account *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if account.ID == "" {
		account.ID = domain.NewID()
	}
	now := time.Now()
	account.CreatedAt = now
	account.UpdatedAt = now
	clone := *account
	r.accounts[account.ID] = &clone
	return nil
}

func (r *memAccountRepo) GetByID(_ context.Context, id string) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	account, ok := r.accounts[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *account
	return &clone, nil
}

func (r *memAccountRepo) GetByEmail(_ context.Context, email string) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, account := range r.accounts {
		if strings.EqualFold(account.Email, email) {
			clone := *account
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memAccountRepo) Search(_ context.Context, filter repository.AccountFilter) ([]domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Account
	q := strings.ToLower(strings.TrimSpace(filter.Query))
	for _, account := range r.accounts {
		if filter.Role != nil && account.Role != *filter.Role {
			continue
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(account.Name), q) &&
			!strings.Contains(strings.ToLower(account.Email), q) {
			continue
		}
		result = append(result, *account)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (r *memAccountRepo) SetResetToken(_ context.Context, id, token string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	account, ok := r.accounts[id]
	if !ok {
		return pgx.ErrNoRows
	}
	account.ResetToken = &token
	account.ResetTokenExp = &expiresAt
	return nil
}

func (r *memAccountRepo) ConsumeResetToken(_ context.Context, token, newHash string, now time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, account := range r.accounts {
		if account.ResetToken != nil && *account.ResetToken == token &&
			account.ResetTokenExp != nil && account.ResetTokenExp.After(now) {
			account.PasswordHash = newHash
			account.ResetToken = nil
			account.ResetTokenExp = nil
			return true, nil
		}
	}
	return false, nil
}

func (r *memAccountRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.accounts[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.accounts, id)
	return nil
}

// memComplaintRepo is an in-memory ComplaintRepository for tests. It expands
// creator and assignee display fields from the account repo on reads, the way
// the SQL joins do.
type memComplaintRepo struct {
	mu          sync.Mutex
	accounts    *memAccountRepo
	complaints  map[string]*domain.Complaint
	seq         int
	failComment bool
}

var errStoreUnavailable = errors.New("store unavailable")

var _ repository.ComplaintRepository = (*memComplaintRepo)(nil)

func newMemComplaintRepo(accounts *memAccountRepo) *memComplaintRepo {
	return &memComplaintRepo{accounts: accounts, complaints: make(map[string]*domain.Complaint)}
}

func (r *memComplaintRepo) Create(_ context.Context, complaint *domain.Complaint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if complaint.ID == "" {
		complaint.ID = domain.NewID()
	}
	r.seq++
	now := time.Now().Add(time.Duration(r.seq) * time.Millisecond)
	complaint.CreatedAt = now
	complaint.UpdatedAt = now
	clone := cloneComplaint(complaint)
	r.complaints[complaint.ID] = clone
	return nil
}

func (r *memComplaintRepo) GetByID(ctx context.Context, id string) (*domain.Complaint, error) {
	r.mu.Lock()
	complaint, ok := r.complaints[id]
	r.mu.Unlock()
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return r.expand(ctx, complaint), nil
}

func (r *memComplaintRepo) GetVisibleTo(ctx context.Context, id, electricianID string) (*domain.Complaint, error) {
	r.mu.Lock()
	complaint, ok := r.complaints[id]
	r.mu.Unlock()
	if !ok || !visibleTo(complaint, electricianID) {
		return nil, pgx.ErrNoRows
	}
	return r.expand(ctx, complaint), nil
}

func (r *memComplaintRepo) ListByCreator(ctx context.Context, creatorID string) ([]domain.Complaint, error) {
	return r.listMatching(ctx, func(c *domain.Complaint) bool {
		return c.CreatedBy.ID == creatorID
	})
}

func (r *memComplaintRepo) ListVisibleTo(ctx context.Context, electricianID string) ([]domain.Complaint, error) {
	return r.listMatching(ctx, func(c *domain.Complaint) bool {
		return visibleTo(c, electricianID)
	})
}

func (r *memComplaintRepo) ListWithFilter(ctx context.Context, filter repository.ComplaintFilter) ([]domain.Complaint, error) {
	return r.listMatching(ctx, func(c *domain.Complaint) bool {
		switch {
		case filter.Broadcast:
			return c.VisibleToAll
		case filter.Unassigned:
			return !c.VisibleToAll && c.AssignedTo == nil
		case filter.AssignedTo != nil:
			return c.AssignedTo != nil && c.AssignedTo.ID == *filter.AssignedTo
		}
		return true
	})
}

func (r *memComplaintRepo) listMatching(ctx context.Context, match func(*domain.Complaint) bool) ([]domain.Complaint, error) {
	r.mu.Lock()
	var matched []*domain.Complaint
	for _, complaint := range r.complaints {
		if match(complaint) {
			matched = append(matched, complaint)
		}
	}
	r.mu.Unlock()

	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })
	result := make([]domain.Complaint, 0, len(matched))
	for _, complaint := range matched {
		result = append(result, *r.expand(ctx, complaint))
	}
	return result, nil
}

func (r *memComplaintRepo) UpdateAssignment(_ context.Context, id string, assignedTo *string, visibleToAll bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	complaint, ok := r.complaints[id]
	if !ok {
		return pgx.ErrNoRows
	}
	complaint.VisibleToAll = visibleToAll
	if assignedTo != nil {
		complaint.AssignedTo = &domain.AccountRef{ID: *assignedTo}
	} else {
		complaint.AssignedTo = nil
	}
	complaint.UpdatedAt = time.Now()
	return nil
}

func (r *memComplaintRepo) UpdateStatus(_ context.Context, id string, status domain.ComplaintStatus, comment *domain.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	complaint, ok := r.complaints[id]
	if !ok {
		return pgx.ErrNoRows
	}
	if comment != nil && r.failComment {
		// the SQL implementation runs both statements in one transaction,
		// so a comment failure must leave the status untouched
		return errStoreUnavailable
	}
	complaint.Status = status
	if comment != nil {
		complaint.Comments = append(complaint.Comments, *comment)
	}
	complaint.UpdatedAt = time.Now()
	return nil
}

func (r *memComplaintRepo) ExistsAssignedTo(_ context.Context, accountID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, complaint := range r.complaints {
		if complaint.AssignedTo != nil && complaint.AssignedTo.ID == accountID {
			return true, nil
		}
	}
	return false, nil
}

func (r *memComplaintRepo) expand(ctx context.Context, complaint *domain.Complaint) *domain.Complaint {
	clone := cloneComplaint(complaint)
	if account, err := r.accounts.GetByID(ctx, clone.CreatedBy.ID); err == nil {
		clone.CreatedBy = account.Ref()
	}
	if clone.AssignedTo != nil {
		if account, err := r.accounts.GetByID(ctx, clone.AssignedTo.ID); err == nil {
			ref := account.Ref()
			clone.AssignedTo = &ref
		}
	}
	return clone
}

func visibleTo(c *domain.Complaint, electricianID string) bool {
	return c.VisibleToAll || (c.AssignedTo != nil && c.AssignedTo.ID == electricianID)
}

func cloneComplaint(c *domain.Complaint) *domain.Complaint {
	clone := *c
	if c.AssignedTo != nil {
		ref := *c.AssignedTo
		clone.AssignedTo = &ref
	}
	clone.Images = append([]string(nil), c.Images...)
	clone.Comments = append([]domain.Comment(nil), c.Comments...)
	return &clone
}

// stubMailer records reset mail attempts.
type stubMailer struct {
	configured bool
	fail       bool
	sent       []string
}

func (m *stubMailer) Configured() bool {
	return m.configured
}

func (m *stubMailer) SendResetMail(_ context.Context, toEmail, _ string) error {
	m.sent = append(m.sent, toEmail)
	if m.fail {
		return context.DeadlineExceeded
	}
	return nil
}
