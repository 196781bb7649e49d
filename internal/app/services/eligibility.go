package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gosimple/slug"
	"github.com/yigit/assigntrack/internal/app/models"
	"github.com/yigit/assigntrack/internal/app/repositories"
	"github.com/yigit/assigntrack/internal/pkg/apperrors"
	"github.com/yigit/assigntrack/internal/pkg/validation"
)

// SubmissionAttempt is everything the eligibility pipeline looks at
type SubmissionAttempt struct {
	Principal      models.Principal
	Assignment     *models.Assignment
	HasFile        bool
	Link           string
	SupportingLink string
	GroupID        *int64
}

// IndividualGroupName is the deterministic name of a student's singleton group
func IndividualGroupName(p models.Principal) string {
	base := slug.Make(p.Username)
	if base == "" {
		base = fmt.Sprintf("student-%d", p.UserID)
	}
	return base + "-individual"
}

// maxIndividualNameAttempts bounds the numbered fallbacks tried after the
// user-ID name, which no other student can derive.
const maxIndividualNameAttempts = 20

// individualGroupName returns the attempt-th candidate name: the plain name,
// then <name>-<userID>, then <name>-<userID>-<n>.
func individualGroupName(p models.Principal, attempt int) string {
	name := IndividualGroupName(p)
	switch attempt {
	case 0:
		return name
	case 1:
		return fmt.Sprintf("%s-%d", name, p.UserID)
	default:
		return fmt.Sprintf("%s-%d-%d", name, p.UserID, attempt)
	}
}

// CheckSubmissionEligibility runs the submission checks in their fixed order and
// returns the group the submission is recorded against. The first failing check wins:
//
//  1. the caller is a student
//  2. now is not after the deadline
//  3. the caller has not submitted yet
//  4. a file or a link is present (links must be http(s) URLs)
//  5. group policies: a group of this assignment the caller belongs to is named
//  6. individual policy: the caller's singleton group, created on first use
//
// Step 6 writes, so tx must be the transaction the submission is inserted in.
func CheckSubmissionEligibility(ctx context.Context, tx repositories.Store, attempt SubmissionAttempt, now time.Time) (*models.Group, error) {
	group, err := precheckSubmission(ctx, tx, attempt, now)
	if err != nil || group != nil {
		return group, err
	}
	return ensureIndividualGroup(ctx, tx, attempt.Assignment, attempt.Principal)
}

// precheckSubmission runs steps 1 to 5 without writing anything. For the
// individual policy it returns a nil group.
func precheckSubmission(ctx context.Context, store repositories.Store, attempt SubmissionAttempt, now time.Time) (*models.Group, error) {
	p, a := attempt.Principal, attempt.Assignment

	if !p.IsStudent() {
		return nil, apperrors.ErrStudentOnly
	}

	if a.DeadlinePassed(now) {
		return nil, apperrors.ErrAssignmentDeadline
	}

	submitted, err := store.Submissions().ExistsForStudent(ctx, a.ID, p.UserID)
	if err != nil {
		return nil, fmt.Errorf("error checking existing submission: %w", err)
	}
	if submitted {
		return nil, apperrors.ErrAlreadySubmitted
	}

	link := strings.TrimSpace(attempt.Link)
	if !attempt.HasFile && link == "" {
		return nil, apperrors.ErrSubmissionEmpty
	}
	if link != "" && !validation.IsHTTPURL(link) {
		return nil, apperrors.ErrInvalidLink
	}
	if s := strings.TrimSpace(attempt.SupportingLink); s != "" && !validation.IsHTTPURL(s) {
		return nil, apperrors.ErrInvalidLink
	}

	if a.GroupPolicy.UsesGroups() {
		return checkGroupMembership(ctx, store, a, p, attempt.GroupID)
	}
	return nil, nil
}

func checkGroupMembership(ctx context.Context, tx repositories.Store, a *models.Assignment, p models.Principal, groupID *int64) (*models.Group, error) {
	if groupID == nil || *groupID <= 0 {
		return nil, apperrors.ErrGroupRequired
	}

	group, err := tx.Groups().GetGroupByID(ctx, *groupID)
	if err != nil {
		return nil, err
	}
	if group.AssignmentID != a.ID {
		return nil, apperrors.ErrGroupNotInAssignment
	}

	member, err := tx.Groups().IsMember(ctx, group.ID, p.UserID)
	if err != nil {
		return nil, fmt.Errorf("error checking group membership: %w", err)
	}
	if !member {
		return nil, apperrors.ErrNotGroupMember
	}
	return group, nil
}

func ensureIndividualGroup(ctx context.Context, tx repositories.Store, a *models.Assignment, p models.Principal) (*models.Group, error) {
	current, err := tx.Groups().FindMemberGroup(ctx, a.ID, p.UserID)
	if err != nil {
		return nil, fmt.Errorf("error checking current group: %w", err)
	}
	if current != nil {
		return current, nil
	}

	for attempt := 0; attempt < maxIndividualNameAttempts; attempt++ {
		group, err := tx.Groups().GetOrCreateGroup(ctx, a.ID, individualGroupName(p, attempt))
		if err != nil {
			return nil, fmt.Errorf("error creating individual group: %w", err)
		}

		count, err := tx.Groups().CountMembers(ctx, group.ID)
		if err != nil {
			return nil, fmt.Errorf("error counting group members: %w", err)
		}
		if count > 0 {
			// held by a student whose username slugs to the same name
			continue
		}

		if err := tx.Groups().AddMember(ctx, group.ID, a.ID, p.UserID); err != nil {
			return nil, err
		}
		return group, nil
	}
	return nil, fmt.Errorf("no free individual group name for user %d in assignment %d", p.UserID, a.ID)
}
