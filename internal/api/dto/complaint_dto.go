package dto

import (
	"time"

	"github.com/Prateekyadav17/ElectricHelp/internal/domain"
)

// CreateComplaintRequest payload for new complaints.
type CreateComplaintRequest struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Location     string   `json:"location"`
	Priority     string   `json:"priority"`
	Category     string   `json:"category"`
	Images       []string `json:"images"`
	VisibleToAll bool     `json:"visibleToAll"`
	AssignedTo   string   `json:"assignedTo"`
}

// AssignComplaintRequest payload for overwriting the visibility channel.
type AssignComplaintRequest struct {
	AssignedTo   string `json:"assignedTo"`
	VisibleToAll bool   `json:"visibleToAll"`
}

// UpdateStatusRequest payload for status transitions.
type UpdateStatusRequest struct {
	Status  string `json:"status"`
	Comment string `json:"comment"`
}

// ComplaintResponse is the wire view of a complaint with creator and
// assignee expanded to display form.
type ComplaintResponse struct {
	ID           string                   `json:"id"`
	Title        string                   `json:"title"`
	Description  string                   `json:"description"`
	Location     string                   `json:"location"`
	Priority     domain.ComplaintPriority `json:"priority"`
	Category     string                   `json:"category"`
	Status       domain.ComplaintStatus   `json:"status"`
	CreatedBy    domain.AccountRef        `json:"createdBy"`
	AssignedTo   *domain.AccountRef       `json:"assignedTo"`
	VisibleToAll bool                     `json:"visibleToAll"`
	Images       []string                 `json:"images"`
	Comments     []domain.Comment         `json:"comments"`
	CreatedAt    time.Time                `json:"createdAt"`
	UpdatedAt    time.Time                `json:"updatedAt"`
}

// NewComplaintResponse maps a complaint to its wire view.
func NewComplaintResponse(c *domain.Complaint) ComplaintResponse {
	images := c.Images
	if images == nil {
		images = []string{}
	}
	comments := c.Comments
	if comments == nil {
		comments = []domain.Comment{}
	}
	return ComplaintResponse{
		ID:           c.ID,
		Title:        c.Title,
		Description:  c.Description,
		Location:     c.Location,
		Priority:     c.Priority,
		Category:     c.Category,
		Status:       c.Status,
		CreatedBy:    c.CreatedBy,
		AssignedTo:   c.AssignedTo,
		VisibleToAll: c.VisibleToAll,
		Images:       images,
		Comments:     comments,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

// NewComplaintListResponse maps a slice of complaints.
func NewComplaintListResponse(items []domain.Complaint) []ComplaintResponse {
	out := make([]ComplaintResponse, 0, len(items))
	for i := range items {
		out = append(out, NewComplaintResponse(&items[i]))
	}
	return out
}
