package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Prateekyadav17/ElectricHelp/internal/domain"
)

// ComplaintFilter captures admin/staff listing parameters. At most one of
// Broadcast, Unassigned or AssignedTo is set.
type ComplaintFilter struct {
	Broadcast  bool
	Unassigned bool
	AssignedTo *string
}

// ComplaintRepository encapsulates complaint persistence. Reads expand the
// creator and assignee to display form via joins.
type ComplaintRepository interface {
	Create(ctx context.Context, complaint *domain.Complaint) error
	GetByID(ctx context.Context, id string) (*domain.Complaint, error)
	GetVisibleTo(ctx context.Context, id, electricianID string) (*domain.Complaint, error)
	ListByCreator(ctx context.Context, creatorID string) ([]domain.Complaint, error)
	ListVisibleTo(ctx context.Context, electricianID string) ([]domain.Complaint, error)
	ListWithFilter(ctx context.Context, filter ComplaintFilter) ([]domain.Complaint, error)
	UpdateAssignment(ctx context.Context, id string, assignedTo *string, visibleToAll bool) error
	UpdateStatus(ctx context.Context, id string, status domain.ComplaintStatus, comment *domain.Comment) error
	ExistsAssignedTo(ctx context.Context, accountID string) (bool, error)
}

type complaintRepository struct {
	pool *pgxpool.Pool
}

// NewComplaintRepository instantiates the repository.
func NewComplaintRepository(pool *pgxpool.Pool) ComplaintRepository {
	return &complaintRepository{pool: pool}
}

func (r *complaintRepository) Create(ctx context.Context, complaint *domain.Complaint) error {
	if complaint.ID == "" {
		complaint.ID = domain.NewID()
	}
	var assignedTo *string
	if complaint.AssignedTo != nil {
		assignedTo = &complaint.AssignedTo.ID
	}
	const query = `
        INSERT INTO complaints (id, title, description, location, priority, category, status,
                                created_by, assigned_to, visible_to_all, images)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
        RETURNING created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		complaint.ID,
		complaint.Title,
		complaint.Description,
		complaint.Location,
		complaint.Priority,
		complaint.Category,
		complaint.Status,
		complaint.CreatedBy.ID,
		assignedTo,
		complaint.VisibleToAll,
		complaint.Images,
	).Scan(&complaint.CreatedAt, &complaint.UpdatedAt)
}

const complaintSelect = `
        SELECT c.id, c.title, c.description, c.location, c.priority, c.category, c.status,
               c.created_by, creator.name, creator.email,
               c.assigned_to, assignee.name, assignee.email,
               c.visible_to_all, c.images, c.created_at, c.updated_at
        FROM complaints c
        LEFT JOIN users creator ON creator.id = c.created_by
        LEFT JOIN users assignee ON assignee.id = c.assigned_to`

func (r *complaintRepository) GetByID(ctx context.Context, id string) (*domain.Complaint, error) {
	return r.fetchSingle(ctx, complaintSelect+` WHERE c.id=$1`, id)
}

func (r *complaintRepository) GetVisibleTo(ctx context.Context, id, electricianID string) (*domain.Complaint, error) {
	const clause = ` WHERE c.id=$1 AND (c.visible_to_all OR c.assigned_to=$2)`
	var complaint domain.Complaint
	if err := r.scanComplaint(r.pool.QueryRow(ctx, complaintSelect+clause, id, electricianID), &complaint); err != nil {
		return nil, err
	}
	if err := r.loadComments(ctx, []*domain.Complaint{&complaint}); err != nil {
		return nil, err
	}
	return &complaint, nil
}

func (r *complaintRepository) fetchSingle(ctx context.Context, query string, args ...any) (*domain.Complaint, error) {
	var complaint domain.Complaint
	if err := r.scanComplaint(r.pool.QueryRow(ctx, query, args...), &complaint); err != nil {
		return nil, err
	}
	if err := r.loadComments(ctx, []*domain.Complaint{&complaint}); err != nil {
		return nil, err
	}
	return &complaint, nil
}

func (r *complaintRepository) ListByCreator(ctx context.Context, creatorID string) ([]domain.Complaint, error) {
	query := complaintSelect + ` WHERE c.created_by=$1 ORDER BY c.created_at DESC`
	return r.list(ctx, query, creatorID)
}

func (r *complaintRepository) ListVisibleTo(ctx context.Context, electricianID string) ([]domain.Complaint, error) {
	query := complaintSelect + ` WHERE c.visible_to_all OR c.assigned_to=$1 ORDER BY c.created_at DESC`
	return r.list(ctx, query, electricianID)
}

func (r *complaintRepository) ListWithFilter(ctx context.Context, filter ComplaintFilter) ([]domain.Complaint, error) {
	query := complaintSelect
	args := []any{}
	switch {
	case filter.Broadcast:
		query += ` WHERE c.visible_to_all`
	case filter.Unassigned:
		query += ` WHERE NOT c.visible_to_all AND c.assigned_to IS NULL`
	case filter.AssignedTo != nil:
		args = append(args, *filter.AssignedTo)
		query += ` WHERE c.assigned_to=$1`
	}
	query += ` ORDER BY c.created_at DESC`
	return r.list(ctx, query, args...)
}

func (r *complaintRepository) list(ctx context.Context, query string, args ...any) ([]domain.Complaint, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Complaint
	for rows.Next() {
		var complaint domain.Complaint
		if err := r.scanComplaint(rows, &complaint); err != nil {
			return nil, err
		}
		result = append(result, complaint)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	refs := make([]*domain.Complaint, len(result))
	for i := range result {
		refs[i] = &result[i]
	}
	if err := r.loadComments(ctx, refs); err != nil {
		return nil, err
	}
	return result, nil
}

// scanComplaint tolerates creator or assignee rows that no longer exist: the
// stored id is kept and the display fields stay empty. Account deletion does
// not rewrite complaint history.
func (r *complaintRepository) scanComplaint(row pgx.Row, complaint *domain.Complaint) error {
	var (
		creatorName   *string
		creatorEmail  *string
		assigneeID    *string
		assigneeName  *string
		assigneeEmail *string
	)
	if err := row.Scan(
		&complaint.ID,
		&complaint.Title,
		&complaint.Description,
		&complaint.Location,
		&complaint.Priority,
		&complaint.Category,
		&complaint.Status,
		&complaint.CreatedBy.ID,
		&creatorName,
		&creatorEmail,
		&assigneeID,
		&assigneeName,
		&assigneeEmail,
		&complaint.VisibleToAll,
		&complaint.Images,
		&complaint.CreatedAt,
		&complaint.UpdatedAt,
	); err != nil {
		return err
	}
	if creatorName != nil {
		complaint.CreatedBy.Name = *creatorName
	}
	if creatorEmail != nil {
		complaint.CreatedBy.Email = *creatorEmail
	}
	if assigneeID != nil {
		ref := domain.AccountRef{ID: *assigneeID}
		if assigneeName != nil {
			ref.Name = *assigneeName
		}
		if assigneeEmail != nil {
			ref.Email = *assigneeEmail
		}
		complaint.AssignedTo = &ref
	}
	return nil
}

func (r *complaintRepository) loadComments(ctx context.Context, complaints []*domain.Complaint) error {
	if len(complaints) == 0 {
		return nil
	}
	ids := make([]string, len(complaints))
	byID := make(map[string]*domain.Complaint, len(complaints))
	for i, c := range complaints {
		ids[i] = c.ID
		byID[c.ID] = c
	}

	const query = `
        SELECT complaint_id, author_id, body, created_at
        FROM complaint_comments
        WHERE complaint_id = ANY($1)
        ORDER BY created_at`
	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			complaintID string
			comment     domain.Comment
		)
		if err := rows.Scan(&complaintID, &comment.By, &comment.Text, &comment.At); err != nil {
			return err
		}
		if c, ok := byID[complaintID]; ok {
			c.Comments = append(c.Comments, comment)
		}
	}
	return rows.Err()
}

func (r *complaintRepository) UpdateAssignment(ctx context.Context, id string, assignedTo *string, visibleToAll bool) error {
	const query = `
        UPDATE complaints SET assigned_to=$1, visible_to_all=$2, updated_at=NOW()
        WHERE id=$3`
	cmd, err := r.pool.Exec(ctx, query, assignedTo, visibleToAll, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// UpdateStatus transitions a complaint and optionally appends a comment in
// one transaction, so a failed comment insert never leaves the status
// changed on its own.
func (r *complaintRepository) UpdateStatus(ctx context.Context, id string, status domain.ComplaintStatus, comment *domain.Comment) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	const query = `
        UPDATE complaints SET status=$1, updated_at=NOW()
        WHERE id=$2`
	cmd, err := tx.Exec(ctx, query, status, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	if comment != nil {
		const insert = `
        INSERT INTO complaint_comments (id, complaint_id, author_id, body, created_at)
        VALUES ($1,$2,$3,$4,$5)`
		if _, err := tx.Exec(ctx, insert, domain.NewID(), id, comment.By, comment.Text, comment.At); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (r *complaintRepository) ExistsAssignedTo(ctx context.Context, accountID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM complaints WHERE assigned_to=$1)`, accountID,
	).Scan(&exists)
	return exists, err
}
