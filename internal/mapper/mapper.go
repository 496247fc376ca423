// Package mapper converts domain entities into API response shapes.
package mapper

import (
	"github.com/sainam-co/jobtrack-api/internal/domain"
	"github.com/sainam-co/jobtrack-api/internal/policy"
)

// ToJobResponse builds the API view of a job. AllowedNext lists the
// transitions valid from the job's current status that the caller's
// role is also permitted to perform.
func ToJobResponse(job *domain.Job, role domain.Role, warnings []string) domain.JobResponse {
	allowed := []domain.JobStatus{}
	if policy.Can(role, policy.ActionTransition, policy.EntityJob) {
		allowed = job.Status.AllowedNext()
	}
	return domain.JobResponse{
		Job:         *job,
		AllowedNext: allowed,
		Warnings:    warnings,
	}
}

// ToJobListResponse builds a paged job listing
func ToJobListResponse(jobs []domain.Job, total int64, limit, offset int) domain.JobListResponse {
	if jobs == nil {
		jobs = []domain.Job{}
	}
	return domain.JobListResponse{
		Jobs:   jobs,
		Total:  total,
		Limit:  limit,
		Offset: offset,
	}
}

// ToHistoryResponse builds a job's transition audit trail
func ToHistoryResponse(job *domain.Job, history []domain.JobStatusHistory) domain.JobStatusHistoryResponse {
	if history == nil {
		history = []domain.JobStatusHistory{}
	}
	return domain.JobStatusHistoryResponse{
		JobID:   job.ID,
		History: history,
	}
}
