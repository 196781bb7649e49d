package services

import (
	"context"
	"fmt"

	"github.com/yigit/assigntrack/internal/app/auth"
	"github.com/yigit/assigntrack/internal/app/models"
	"github.com/yigit/assigntrack/internal/app/models/dto"
	"github.com/yigit/assigntrack/internal/app/repositories"
	"github.com/yigit/assigntrack/internal/pkg/apperrors"
	"github.com/yigit/assigntrack/internal/pkg/logger"
)

// GroupService defines the group operations
type GroupService interface {
	JoinGroup(ctx context.Context, p models.Principal, groupID int64) (*dto.JoinGroupResponse, error)
	ListGroups(ctx context.Context, p models.Principal, assignmentID int64) ([]dto.GroupResponse, error)
}

type groupServiceImpl struct {
	store     repositories.Store
	authz     *auth.AuthorizationService
	publisher EventPublisher
	now       Clock
}

// NewGroupService creates a new GroupService
func NewGroupService(store repositories.Store, authz *auth.AuthorizationService, publisher EventPublisher, clock Clock) GroupService {
	return &groupServiceImpl{
		store:     store,
		authz:     authz,
		publisher: publisherOrDefault(publisher),
		now:       clockOrDefault(clock),
	}
}

// JoinGroup adds the student to a manual-policy group. The group row stays locked
// from the capacity check until the membership is written.
func (s *groupServiceImpl) JoinGroup(ctx context.Context, p models.Principal, groupID int64) (*dto.JoinGroupResponse, error) {
	if err := s.authz.RequireStudent(p); err != nil {
		return nil, err
	}

	var resp *dto.JoinGroupResponse
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx repositories.Store) error {
		group, err := tx.Groups().LockGroup(ctx, groupID)
		if err != nil {
			return err
		}

		assignment, err := tx.Assignments().GetAssignmentByID(ctx, group.AssignmentID)
		if err != nil {
			return err
		}

		if assignment.DeadlinePassed(s.now()) {
			return apperrors.ErrAssignmentDeadline
		}
		if assignment.GroupPolicy != models.GroupPolicyManual {
			return apperrors.ErrJoinNotAllowed
		}

		resp = &dto.JoinGroupResponse{
			GroupID:      group.ID,
			AssignmentID: assignment.ID,
			GroupName:    group.Name,
			Capacity:     assignment.GroupCapacity(),
		}

		current, err := tx.Groups().FindMemberGroup(ctx, assignment.ID, p.UserID)
		if err != nil {
			return fmt.Errorf("error checking current group: %w", err)
		}
		if current != nil {
			if current.ID != group.ID {
				return apperrors.ErrAlreadyInGroup.WithDetails(map[string]interface{}{"groupId": current.ID})
			}
			resp.AlreadyMember = true
			resp.MemberCount, err = tx.Groups().CountMembers(ctx, group.ID)
			return err
		}

		capacity := assignment.GroupCapacity()
		if capacity == 0 {
			return apperrors.ErrGroupSizeNotConfigured
		}

		count, err := tx.Groups().CountMembers(ctx, group.ID)
		if err != nil {
			return fmt.Errorf("error counting group members: %w", err)
		}
		if count >= capacity {
			return apperrors.ErrGroupFull
		}

		if err := tx.Groups().AddMember(ctx, group.ID, assignment.ID, p.UserID); err != nil {
			return err
		}
		resp.MemberCount = count + 1
		return nil
	})
	if err != nil {
		if apperrors.Kind(err) == nil {
			logger.Error().Err(err).Int64("groupID", groupID).Int64("userID", p.UserID).Msg("Error joining group")
		}
		return nil, err
	}

	if !resp.AlreadyMember {
		s.publisher.Publish(resp.AssignmentID, EventGroupJoined, map[string]interface{}{
			"groupId":     resp.GroupID,
			"userId":      p.UserID,
			"memberCount": resp.MemberCount,
		})
	}
	return resp, nil
}

// ListGroups lists the groups of an assignment with their members
func (s *groupServiceImpl) ListGroups(ctx context.Context, p models.Principal, assignmentID int64) ([]dto.GroupResponse, error) {
	assignment, err := s.store.Assignments().GetAssignmentByID(ctx, assignmentID)
	if err != nil {
		return nil, err
	}

	groups, err := s.store.Groups().ListGroupsByAssignment(ctx, assignmentID)
	if err != nil {
		return nil, fmt.Errorf("error listing groups: %w", err)
	}

	users, err := s.store.Users().GetUsersByIDs(ctx, memberIDs(groups))
	if err != nil {
		return nil, fmt.Errorf("error loading group members: %w", err)
	}

	capacity := assignment.GroupCapacity()
	result := make([]dto.GroupResponse, 0, len(groups))
	for _, g := range groups {
		result = append(result, dto.GroupResponse{
			ID:           g.ID,
			AssignmentID: g.AssignmentID,
			Name:         g.Name,
			MemberCount:  g.MemberCount(),
			Capacity:     capacity,
			IsFull:       capacity > 0 && g.MemberCount() >= capacity,
			IsMember:     g.HasMember(p.UserID),
			Members:      memberResponses(g.MemberIDs, users),
			CreatedAt:    g.CreatedAt,
		})
	}
	return result, nil
}

func memberIDs(groups []*models.GroupWithMembers) []int64 {
	var ids []int64
	for _, g := range groups {
		ids = append(ids, g.MemberIDs...)
	}
	return ids
}

func memberResponses(ids []int64, users map[int64]*models.User) []dto.MemberResponse {
	members := make([]dto.MemberResponse, 0, len(ids))
	for _, id := range ids {
		if u, ok := users[id]; ok {
			members = append(members, dto.NewMemberResponse(u))
		} else {
			members = append(members, dto.MemberResponse{ID: id})
		}
	}
	return members
}
