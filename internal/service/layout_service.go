package service

import (
	"context"
	"fmt"

	"geneailogy/tree-service/internal/errs"
	"geneailogy/tree-service/internal/models"
	"geneailogy/tree-service/internal/repository"
)

// TreeService computes generation layouts over a member snapshot
type TreeService struct {
	memberRepo *repository.MemberRepository
}

func NewTreeService(memberRepo *repository.MemberRepository) *TreeService {
	return &TreeService{memberRepo: memberRepo}
}

// GetGenerationLayout loads the tree snapshot and builds the layout centered
// on focusID. isOwner is derived from viewer == focus and affects label text
// only, never the graph shape.
func (s *TreeService) GetGenerationLayout(ctx context.Context, treeID, focusID, viewerID string) (*models.GenerationLayout, error) {
	members, err := s.memberRepo.GetMembersByTree(ctx, treeID)
	if err != nil {
		return nil, fmt.Errorf("failed to load tree snapshot: %w", err)
	}

	return BuildGenerationLayout(members, focusID, viewerID, viewerID == focusID)
}

// BuildGenerationLayout computes the ordered generation layers for one focus
// member. It is a pure function of its inputs: the members snapshot is never
// mutated and no state is retained between calls.
//
// Traversal is bounded to two ancestor levels (parents, grandparents) and two
// descendant levels (children, grandchildren), so cyclic relation data cannot
// cause non-termination; members beyond that bound are simply not reached.
func BuildGenerationLayout(members []*models.Member, focusID, viewerID string, isOwner bool) (*models.GenerationLayout, error) {
	index := indexMembers(members)

	focus, ok := index[focusID]
	if !ok {
		// All-or-nothing: no partial layout for an unknown focus
		return nil, errs.ErrMemberNotFound
	}

	ownerName := focus.DisplayName()

	parents := resolveMembers(index, focus.ParentsIDs)

	// Branch assignment is positional: parentsIds[0] opens the paternal-side
	// branch and parentsIds[1] the maternal-side branch. This mirrors the
	// stored array order, not the gender field.
	var paternal, maternal []*models.Member
	if len(parents) > 0 {
		paternal = resolveMembers(index, parents[0].ParentsIDs)
	}
	if len(parents) > 1 {
		maternal = resolveMembers(index, parents[1].ParentsIDs)
	}

	siblings := resolveMembers(index, focus.BrothersIDs)
	children := resolveMembers(index, focus.ChildrenIDs)

	var grandchildrenIDs []string
	for _, child := range children {
		grandchildrenIDs = append(grandchildrenIDs, child.ChildrenIDs...)
	}
	grandchildren := resolveMembers(index, grandchildrenIDs)

	// Aunts/uncles are the siblings of each resolved parent; cousins are the
	// children of each resolved aunt/uncle. Both are deduplicated so a member
	// reachable through two paths appears once.
	var uncleIDs []string
	for _, parent := range parents {
		uncleIDs = append(uncleIDs, parent.BrothersIDs...)
	}
	uncles := resolveMembers(index, uncleIDs)

	var cousinIDs []string
	for _, uncle := range uncles {
		cousinIDs = append(cousinIDs, uncle.ChildrenIDs...)
	}
	cousins := resolveMembers(index, cousinIDs)

	layout := &models.GenerationLayout{FocusID: focus.ID}

	if len(paternal) > 0 {
		generation := models.Generation{
			Label:   caption(isOwner, ownerName, "Vos grands-parents paternels", "Les grands-parents paternels de %s"),
			Type:    models.GenerationPaternalGrandparents,
			Members: paternal,
		}
		layout.PaternalBranch = &generation
		layout.Generations = append(layout.Generations, generation)
	}
	if len(maternal) > 0 {
		generation := models.Generation{
			Label:   caption(isOwner, ownerName, "Vos grands-parents maternels", "Les grands-parents maternels de %s"),
			Type:    models.GenerationMaternalGrandparents,
			Members: maternal,
		}
		layout.MaternalBranch = &generation
		layout.Generations = append(layout.Generations, generation)
	}

	if len(parents) > 0 {
		generation := models.Generation{
			Label:   caption(isOwner, ownerName, "Vos parents", "Les parents de %s"),
			Type:    models.GenerationParents,
			Members: parents,
		}
		if len(uncles) > 0 {
			uncleSection := models.Generation{
				Label:   caption(isOwner, ownerName, "Vos oncles et tantes", "Les oncles et tantes de %s"),
				Type:    models.GenerationUnclesAunts,
				Members: uncles,
			}
			if len(cousins) > 0 {
				uncleSection.ChildrenSections = []models.Generation{{
					Label:   caption(isOwner, ownerName, "Vos cousins", "Les cousins de %s"),
					Type:    models.GenerationCousins,
					Members: cousins,
				}}
			}
			generation.ChildrenSections = []models.Generation{uncleSection}
		}
		layout.Generations = append(layout.Generations, generation)
	}

	// The focus member occupies exactly this layer, alongside its declared
	// siblings.
	focusMembers := dedupeMembers(append([]*models.Member{focus}, siblings...))
	layout.Generations = append(layout.Generations, models.Generation{
		Label:   caption(isOwner, ownerName, "Votre génération", "La génération de %s"),
		Type:    models.GenerationFocus,
		Members: focusMembers,
	})

	if len(children) > 0 {
		layout.Generations = append(layout.Generations, models.Generation{
			Label:   caption(isOwner, ownerName, "Vos enfants", "Les enfants de %s"),
			Type:    models.GenerationChildren,
			Members: children,
		})
	}
	if len(grandchildren) > 0 {
		layout.Generations = append(layout.Generations, models.Generation{
			Label:   caption(isOwner, ownerName, "Vos petits-enfants", "Les petits-enfants de %s"),
			Type:    models.GenerationGrandchildren,
			Members: grandchildren,
		})
	}

	return layout, nil
}

// indexMembers indexes a snapshot by id for O(1) lookup
func indexMembers(members []*models.Member) map[string]*models.Member {
	index := make(map[string]*models.Member, len(members))
	for _, member := range members {
		index[member.ID] = member
	}
	return index
}

// resolveMembers maps ids to members, dropping unknown ids (the raw data may
// reference members missing from the snapshot) and deduplicating by id while
// preserving order.
func resolveMembers(index map[string]*models.Member, ids []string) []*models.Member {
	var resolved []*models.Member
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if member, ok := index[id]; ok {
			resolved = append(resolved, member)
		}
	}
	return resolved
}

// dedupeMembers removes duplicate members by id, preserving first-seen order
func dedupeMembers(members []*models.Member) []*models.Member {
	var deduped []*models.Member
	seen := make(map[string]bool, len(members))
	for _, member := range members {
		if seen[member.ID] {
			continue
		}
		seen[member.ID] = true
		deduped = append(deduped, member)
	}
	return deduped
}

func caption(isOwner bool, ownerName, owned, other string) string {
	if isOwner {
		return owned
	}
	return fmt.Sprintf(other, ownerName)
}
