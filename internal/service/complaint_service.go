package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Prateekyadav17/ElectricHelp/internal/auth"
	"github.com/Prateekyadav17/ElectricHelp/internal/domain"
	"github.com/Prateekyadav17/ElectricHelp/internal/events"
	"github.com/Prateekyadav17/ElectricHelp/internal/repository"
	apperrors "github.com/Prateekyadav17/ElectricHelp/pkg/util"
)

// ListAll filter keywords for the assignedTo query parameter.
const (
	FilterBroadcast  = "any"
	FilterUnassigned = "unassigned"
)

// ComplaintService coordinates complaint workflows.
type ComplaintService struct {
	complaints repository.ComplaintRepository
	dispatcher events.Dispatcher
}

// NewComplaintService constructs the service.
func NewComplaintService(complaints repository.ComplaintRepository, dispatcher events.Dispatcher) *ComplaintService {
	return &ComplaintService{complaints: complaints, dispatcher: dispatcher}
}

// ComplaintCreateInput describes the creation payload.
type ComplaintCreateInput struct {
	Title        string
	Description  string
	Location     string
	Priority     domain.ComplaintPriority
	Category     string
	Images       []string
	VisibleToAll bool
	AssignedTo   string
}

// Create registers a new complaint for the actor and resolves its visibility
// channel. Broadcast wins over a target id; a target that is not a 24-char
// identifier leaves the complaint unassigned.
func (s *ComplaintService) Create(ctx context.Context, actor *auth.Principal, input ComplaintCreateInput) (*domain.Complaint, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, apperrors.NewValidationError("Title is required", nil)
	}

	priority := input.Priority
	if priority == "" {
		priority = domain.ComplaintPriorityMedium
	}
	if !priority.Valid() {
		return nil, apperrors.NewValidationError("Invalid priority", nil)
	}

	category := input.Category
	if category == "" {
		category = domain.DefaultCategory
	}
	images := input.Images
	if images == nil {
		images = []string{}
	}

	complaint := &domain.Complaint{
		Title:        title,
		Description:  input.Description,
		Location:     input.Location,
		Priority:     priority,
		Category:     category,
		Status:       domain.ComplaintStatusPending,
		CreatedBy:    actor.Ref(),
		VisibleToAll: input.VisibleToAll,
		Images:       images,
	}
	if !input.VisibleToAll && domain.IsID(input.AssignedTo) {
		complaint.AssignedTo = &domain.AccountRef{ID: input.AssignedTo}
	}

	if err := s.complaints.Create(ctx, complaint); err != nil {
		return nil, apperrors.MapError(err)
	}

	created, err := s.complaints.GetByID(ctx, complaint.ID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	s.publish(ctx, actor, events.Event{
		Type:        events.EventComplaintCreated,
		ComplaintID: created.ID,
		Payload: events.ComplaintCreatedPayload{
			Title:        created.Title,
			Priority:     created.Priority,
			VisibleToAll: created.VisibleToAll,
			AssignedTo:   assigneeID(created),
		},
	})
	return created, nil
}

// ListMine returns the actor's own complaints, newest first.
func (s *ComplaintService) ListMine(ctx context.Context, actor *auth.Principal) ([]domain.Complaint, error) {
	items, err := s.complaints.ListByCreator(ctx, actor.ID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return items, nil
}

// ListForElectrician returns the complaints the actor may act on: every
// broadcast complaint plus those claimed for them.
func (s *ComplaintService) ListForElectrician(ctx context.Context, actor *auth.Principal) ([]domain.Complaint, error) {
	items, err := s.complaints.ListVisibleTo(ctx, actor.ID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return items, nil
}

// ListAll returns complaints for admin/staff listings with an optional
// assignedTo filter: "any" selects broadcast complaints, "unassigned" selects
// complaints that are neither broadcast nor claimed, and a literal id selects
// complaints claimed by that account.
func (s *ComplaintService) ListAll(ctx context.Context, assignedTo string) ([]domain.Complaint, error) {
	var filter repository.ComplaintFilter
	switch assignedTo {
	case "":
	case FilterBroadcast:
		filter.Broadcast = true
	case FilterUnassigned:
		filter.Unassigned = true
	default:
		filter.AssignedTo = &assignedTo
	}

	items, err := s.complaints.ListWithFilter(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return items, nil
}

// Assign overwrites a complaint's visibility channel. Broadcast forces the
// assignee to nil; otherwise only a well-formed 24-char id is accepted.
func (s *ComplaintService) Assign(ctx context.Context, actor *auth.Principal, complaintID, assignedTo string, visibleToAll bool) (*domain.Complaint, error) {
	var target *string
	if !visibleToAll && domain.IsID(assignedTo) {
		target = &assignedTo
	}

	if err := s.complaints.UpdateAssignment(ctx, complaintID, target, visibleToAll); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("Not found", nil)
		}
		return nil, apperrors.MapError(err)
	}

	updated, err := s.complaints.GetByID(ctx, complaintID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	s.publish(ctx, actor, events.Event{
		Type:        events.EventComplaintAssigned,
		ComplaintID: updated.ID,
		Payload: events.ComplaintAssignedPayload{
			VisibleToAll: updated.VisibleToAll,
			AssignedTo:   assigneeID(updated),
		},
	})
	return updated, nil
}

// UpdateStatus transitions a complaint's status on behalf of an electrician
// and optionally appends a comment. A complaint that does not exist and one
// the actor cannot see produce the same NotFound, so existence is never
// leaked to unauthorized actors.
func (s *ComplaintService) UpdateStatus(ctx context.Context, actor *auth.Principal, complaintID string, status domain.ComplaintStatus, comment string) (*domain.Complaint, error) {
	if !status.Valid() {
		return nil, apperrors.NewValidationError("Invalid status", nil)
	}

	complaint, err := s.complaints.GetVisibleTo(ctx, complaintID, actor.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("Not found or not allowed", nil)
		}
		return nil, apperrors.MapError(err)
	}
	oldStatus := complaint.Status

	var entry *domain.Comment
	if trimmed := strings.TrimSpace(comment); trimmed != "" {
		entry = &domain.Comment{Text: trimmed, By: actor.ID, At: time.Now()}
	}
	if err := s.complaints.UpdateStatus(ctx, complaintID, status, entry); err != nil {
		return nil, apperrors.MapError(err)
	}

	updated, err := s.complaints.GetByID(ctx, complaintID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	s.publish(ctx, actor, events.Event{
		Type:        events.EventComplaintStatusChanged,
		ComplaintID: updated.ID,
		Payload: events.ComplaintStatusChangedPayload{
			OldStatus: oldStatus,
			NewStatus: status,
			Comment:   strings.TrimSpace(comment),
		},
	})
	return updated, nil
}

func (s *ComplaintService) publish(ctx context.Context, actor *auth.Principal, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Actor = events.Actor{ID: actor.ID, Role: actor.Role}
	event.Timestamp = time.Now()
	_ = s.dispatcher.Publish(ctx, event)
}

func assigneeID(c *domain.Complaint) *string {
	if c.AssignedTo == nil {
		return nil
	}
	return &c.AssignedTo.ID
}
