package service

import (
	"time"

	"staffhub/internal/dto"
	"staffhub/internal/model"
	"staffhub/pkg/daterange"
)

const timestampLayout = "2006-01-02T15:04:05Z"

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

// parseOptionalDate 空指针或空串返回 nil
func parseOptionalDate(field string, s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := time.Parse(daterange.Layout, *s)
	if err != nil {
		return nil, invalidDate(field)
	}
	return &t, nil
}

func parseDate(field, s string) (time.Time, error) {
	t, err := time.Parse(daterange.Layout, s)
	if err != nil {
		return time.Time{}, invalidDate(field)
	}
	return t, nil
}

func toUserResponse(u *model.User) *dto.UserResponse {
	return &dto.UserResponse{
		ID:                 u.UserID,
		Username:           u.Username,
		Name:               u.Name,
		Email:              u.Email,
		Role:               u.Role.String(),
		PhoneNumber:        u.PhoneNumber,
		Address:            u.Address,
		JobTitle:           u.JobTitle,
		Department:         u.Department,
		ExperienceLevel:    u.ExperienceLevel,
		HourlyRate:         u.HourlyRate,
		AvailabilityStatus: u.AvailabilityStatus,
		LinkedInProfile:    u.LinkedInProfile,
		CurrentProjectID:   u.CurrentProjectID,
		CreatedAt:          formatTimestamp(u.CreatedAt),
	}
}

func toUserBrief(u *model.User) *dto.UserBrief {
	if u == nil {
		return nil
	}
	return &dto.UserBrief{ID: u.UserID, Name: u.DisplayName(), Email: u.Email}
}

func toClientResponse(c *model.Client) *dto.ClientResponse {
	return &dto.ClientResponse{
		ID:            c.ClientID,
		Name:          c.Name,
		ContactPerson: c.ContactPerson,
		Email:         c.Email,
		PhoneNumber:   c.PhoneNumber,
		Address:       c.Address,
		Notes:         c.Notes,
		CreatedAt:     formatTimestamp(c.CreatedAt),
	}
}

func toProjectResponse(p *model.Project) *dto.ProjectResponse {
	resp := &dto.ProjectResponse{
		ID:          p.ProjectID,
		Name:        p.Name,
		Description: p.Description,
		StartDate:   model.FormatDate(p.StartDate),
		EndDate:     model.FormatDatePtr(p.EndDate),
		Budget:      p.Budget,
		Status:      p.Status,
		ClientID:    p.ClientID,
		CreatedAt:   formatTimestamp(p.CreatedAt),
	}
	if p.Client != nil {
		resp.Client = &dto.ClientBrief{ID: p.Client.ClientID, Name: p.Client.Name}
	}
	return resp
}

func toProjectBrief(p *model.Project) *dto.ProjectBrief {
	if p == nil {
		return nil
	}
	return &dto.ProjectBrief{ID: p.ProjectID, Name: p.Name}
}

func toLeaveResponse(l *model.Leave) *dto.LeaveResponse {
	return &dto.LeaveResponse{
		ID:        l.LeaveID,
		UserID:    l.UserID,
		User:      toUserBrief(l.User),
		StartDate: model.FormatDate(l.StartDate),
		EndDate:   model.FormatDate(l.EndDate),
		Days:      l.Range().Days(),
		Reason:    l.Reason,
		CreatedAt: formatTimestamp(l.CreatedAt),
	}
}

func toTimeEntryResponse(e *model.TimeEntry) *dto.TimeEntryResponse {
	return &dto.TimeEntryResponse{
		ID:              e.TimeEntryID,
		UserID:          e.UserID,
		User:            toUserBrief(e.User),
		ProjectID:       e.ProjectID,
		Project:         toProjectBrief(e.Project),
		StartDate:       model.FormatDate(e.StartDate),
		EndDate:         model.FormatDatePtr(e.EndDate),
		HoursSpent:      e.HoursSpent,
		WorkDescription: e.WorkDescription,
		CreatedAt:       formatTimestamp(e.CreatedAt),
	}
}

func toAssignmentResponse(a *model.Assignment) *dto.AssignmentResponse {
	return &dto.AssignmentResponse{
		ID:            a.AssignmentID,
		EngineerID:    a.EngineerID,
		Engineer:      toUserBrief(a.Engineer),
		ProjectID:     a.ProjectID,
		Project:       toProjectBrief(a.Project),
		StartDate:     model.FormatDate(a.StartDate),
		EndDate:       model.FormatDatePtr(a.EndDate),
		HoursWorked:   a.HoursWorked,
		RoleInProject: a.RoleInProject,
	}
}
