package service

import (
	"context"
	"fmt"
	"time"

	"geneailogy/tree-service/internal/errs"
	"geneailogy/tree-service/internal/models"
	"geneailogy/tree-service/internal/repository"
	"geneailogy/tree-service/pkg/helpers"
)

// CreateMemberInput carries the fields required to create a member. TreeID is
// empty when the member starts a new tree; the service mints the tree id.
type CreateMemberInput struct {
	TreeID    string `json:"tree_id"`
	FirstName string `json:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name" validate:"required,max=100"`
}

// AddRelationInput links two existing members
type AddRelationInput struct {
	RelatedID string `json:"related_id" validate:"required"`
	Relation  string `json:"relation" validate:"required,relation_type"`
}

// MemberService owns member CRUD and relation linkage. The graph engines
// never mutate members; every relation change goes through here.
type MemberService struct {
	memberRepo *repository.MemberRepository
	validator  *helpers.CustomValidator
	ids        *helpers.IDGenerator
}

func NewMemberService(
	memberRepo *repository.MemberRepository,
	validator *helpers.CustomValidator,
	ids *helpers.IDGenerator,
) *MemberService {
	return &MemberService{
		memberRepo: memberRepo,
		validator:  validator,
		ids:        ids,
	}
}

// CreateMember creates a member with an initially empty relation set. A member
// created without a tree id becomes the first member of a fresh tree.
func (s *MemberService) CreateMember(ctx context.Context, input CreateMemberInput) (*models.Member, error) {
	if err := s.validator.Validate(input); err != nil {
		return nil, err
	}

	if input.TreeID == "" {
		input.TreeID = s.ids.GenerateTreeID()
	}

	member := &models.Member{
		ID:        s.ids.GenerateUUID(),
		TreeID:    input.TreeID,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := s.memberRepo.CreateMember(ctx, member); err != nil {
		return nil, err
	}

	return member, nil
}

// GetMember retrieves a member by id
func (s *MemberService) GetMember(ctx context.Context, id string) (*models.Member, error) {
	member, err := s.memberRepo.GetMemberByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, errs.ErrMemberNotFound
	}
	return member, nil
}

// ListTreeMembers retrieves the full member snapshot for one tree
func (s *MemberService) ListTreeMembers(ctx context.Context, treeID string) ([]*models.Member, error) {
	return s.memberRepo.GetMembersByTree(ctx, treeID)
}

// AddRelation records a relation edge and its inverse. Writers maintain both
// directions on a best-effort basis; readers still tolerate asymmetric data.
func (s *MemberService) AddRelation(ctx context.Context, memberID string, input AddRelationInput) error {
	if err := s.validator.Validate(input); err != nil {
		return err
	}

	member, err := s.memberRepo.GetMemberByID(ctx, memberID)
	if err != nil {
		return err
	}
	if member == nil {
		return errs.ErrMemberNotFound
	}

	related, err := s.memberRepo.GetMemberByID(ctx, input.RelatedID)
	if err != nil {
		return err
	}
	if related == nil {
		return errs.ErrMemberNotFound
	}

	if err := s.memberRepo.AddRelation(ctx, memberID, input.RelatedID, input.Relation); err != nil {
		return err
	}

	inverse, err := inverseRelation(input.Relation)
	if err != nil {
		return err
	}
	if err := s.memberRepo.AddRelation(ctx, input.RelatedID, memberID, inverse); err != nil {
		return err
	}

	return nil
}

// DeleteMember removes a member and all edges referencing it
func (s *MemberService) DeleteMember(ctx context.Context, id string) error {
	member, err := s.memberRepo.GetMemberByID(ctx, id)
	if err != nil {
		return err
	}
	if member == nil {
		return errs.ErrMemberNotFound
	}
	return s.memberRepo.DeleteMember(ctx, id)
}

func inverseRelation(relation string) (string, error) {
	switch relation {
	case models.EdgeParent:
		return models.EdgeChild, nil
	case models.EdgeChild:
		return models.EdgeParent, nil
	case models.EdgeSibling:
		return models.EdgeSibling, nil
	case models.EdgeSpouse:
		return models.EdgeSpouse, nil
	}
	return "", fmt.Errorf("%w: %s", errs.ErrInvalidRelation, relation)
}
