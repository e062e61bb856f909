package service

import (
	"context"
	"fmt"

	"geneailogy/tree-service/internal/errs"
	"geneailogy/tree-service/internal/models"
	"geneailogy/tree-service/internal/repository"
)

// Typed relation edge steps used by the bounded traversal
const (
	stepParent  = "parent"
	stepChild   = "child"
	stepSibling = "sibling"
)

// maxRelationDepth bounds the breadth-first walk. The label vocabulary only
// reaches second cousins / great-grand relatives, all within four edges.
const maxRelationDepth = 4

// relationRules maps edge-type paths from viewer to target onto labels. The
// slice order is the precedence order: the first matching rule wins, and
// reordering it changes the output for ambiguous graphs, so it is part of the
// observable contract.
var relationRules = []struct {
	label   models.RelationshipLabel
	pattern string
}{
	{models.RelationParent, "parent"},
	{models.RelationChild, "child"},
	{models.RelationSibling, "sibling"},
	{models.RelationNieceNephew, "sibling.child"},
	{models.RelationGrandparent, "parent.parent"},
	{models.RelationGreatGrandparent, "parent.parent.parent"},
	{models.RelationGrandchild, "child.child"},
	{models.RelationGreatGrandchild, "child.child.child"},
	{models.RelationUncleAunt, "parent.sibling"},
	{models.RelationGreatUncleAunt, "parent.parent.sibling"},
	{models.RelationCousin, "parent.sibling.child"},
	{models.RelationGrandNieceNephew, "sibling.child.child"},
	{models.RelationSecondCousin, "parent.sibling.child.child"},
}

// RelationshipService answers "how is X related to Y" over a tree snapshot
type RelationshipService struct {
	memberRepo *repository.MemberRepository
}

func NewRelationshipService(memberRepo *repository.MemberRepository) *RelationshipService {
	return &RelationshipService{memberRepo: memberRepo}
}

// GetRelationship loads the tree snapshot and describes the relationship of
// target as seen from viewer.
func (s *RelationshipService) GetRelationship(ctx context.Context, treeID, viewerID, targetID string) (models.RelationshipLabel, error) {
	members, err := s.memberRepo.GetMembersByTree(ctx, treeID)
	if err != nil {
		return "", fmt.Errorf("failed to load tree snapshot: %w", err)
	}

	return DescribeRelationship(viewerID, targetID, members)
}

// DescribeRelationship computes the relationship label for the ordered pair
// (viewer, target). The result is not symmetric by construction: the reversed
// pair may yield a different (but linguistically correct) label, e.g. "parent"
// vs "child".
//
// Pure function; the snapshot is never mutated.
func DescribeRelationship(viewerID, targetID string, members []*models.Member) (models.RelationshipLabel, error) {
	index := indexMembers(members)

	if _, ok := index[viewerID]; !ok {
		return "", errs.ErrMemberNotFound
	}
	if _, ok := index[targetID]; !ok {
		return "", errs.ErrMemberNotFound
	}

	if viewerID == targetID {
		return models.RelationSelf, nil
	}

	patterns := collectRelationPatterns(index, viewerID)
	reachable := patterns[targetID]
	for _, rule := range relationRules {
		if reachable[rule.pattern] {
			return rule.label, nil
		}
	}

	// Never an error: anything else in the tree is just family
	return models.RelationOther, nil
}

// collectRelationPatterns runs a bounded breadth-first walk over the typed
// relation edges (parent, child, sibling), recording every distinct edge-type
// path of length <= maxRelationDepth that reaches each member. Cycles are cut
// by the per-(member, path) dedup, so malformed data (a member listed as its
// own ancestor) cannot loop.
func collectRelationPatterns(index map[string]*models.Member, startID string) map[string]map[string]bool {
	type frame struct {
		id      string
		pattern string
		depth   int
	}

	result := make(map[string]map[string]bool)
	visited := make(map[string]bool)
	queue := []frame{{id: startID}}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if current.depth == maxRelationDepth {
			continue
		}
		member, ok := index[current.id]
		if !ok {
			continue
		}

		expand := func(ids []string, step string) {
			for _, nextID := range ids {
				pattern := step
				if current.pattern != "" {
					pattern = current.pattern + "." + step
				}
				key := nextID + "|" + pattern
				if visited[key] {
					continue
				}
				visited[key] = true

				if result[nextID] == nil {
					result[nextID] = make(map[string]bool)
				}
				result[nextID][pattern] = true

				queue = append(queue, frame{id: nextID, pattern: pattern, depth: current.depth + 1})
			}
		}

		expand(member.ParentsIDs, stepParent)
		expand(member.ChildrenIDs, stepChild)
		expand(member.BrothersIDs, stepSibling)
	}

	return result
}
