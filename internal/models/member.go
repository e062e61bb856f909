package models

import (
	"strings"
	"time"
)

// Relation edge vocabulary stored in member_relations
const (
	EdgeParent  = "parent"
	EdgeChild   = "child"
	EdgeSibling = "sibling"
	EdgeSpouse  = "spouse"
)

// Member represents one person in a family tree.
//
// The relation id lists are each member's own declared edges. The raw data may
// be asymmetric (a parent's ChildrenIDs can lag behind a child's ParentsIDs),
// so readers always trust a member's own lists and never assume the inverse
// edge exists.
type Member struct {
	ID        string    `json:"id"`
	TreeID    string    `json:"tree_id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// ParentsIDs holds at most two ids. Position 0 is the paternal-side
	// branch and position 1 the maternal-side branch by array-position
	// convention only; the gender field of the raw data is not authoritative
	// for branch assignment.
	ParentsIDs  []string `json:"parents_ids"`
	ChildrenIDs []string `json:"children_ids"`
	// BrothersIDs lists siblings declared directly, not derived from shared
	// parents.
	BrothersIDs []string `json:"brothers_ids"`
	// MariageID is the id of a current/former spouse, empty when none.
	MariageID string `json:"mariage_id,omitempty"`
}

// DisplayName returns the member's full display name
func (m *Member) DisplayName() string {
	return strings.TrimSpace(m.FirstName + " " + m.LastName)
}

// GenerationType tags special layout categories
type GenerationType string

const (
	GenerationPaternalGrandparents GenerationType = "paternal-grandparents"
	GenerationMaternalGrandparents GenerationType = "maternal-grandparents"
	GenerationParents              GenerationType = "parents"
	GenerationUnclesAunts          GenerationType = "uncles-aunts"
	GenerationCousins              GenerationType = "cousins"
	GenerationFocus                GenerationType = "focus"
	GenerationChildren             GenerationType = "children"
	GenerationGrandchildren        GenerationType = "grandchildren"
)

// Generation is one horizontal tier of the rendered tree, relative to the
// focus member. It is derived and never persisted.
type Generation struct {
	Label            string         `json:"label"`
	Type             GenerationType `json:"type"`
	Members          []*Member      `json:"members"`
	ChildrenSections []Generation   `json:"children_sections,omitempty"`
}

// GenerationLayout is the full ordered layout for one focus member, from the
// most distant ancestor layer down to the most distant descendant layer. The
// two grandparent branches are also surfaced as a distinguished pair for
// side-by-side rendering.
type GenerationLayout struct {
	FocusID        string       `json:"focus_id"`
	Generations    []Generation `json:"generations"`
	PaternalBranch *Generation  `json:"paternal_branch,omitempty"`
	MaternalBranch *Generation  `json:"maternal_branch,omitempty"`
}

// RelationshipLabel is the derived label for an ordered (viewer, target) pair.
// It is not symmetric by construction: DescribeRelationship(A, B) may yield
// "child" while DescribeRelationship(B, A) yields "parent".
type RelationshipLabel string

const (
	RelationSelf             RelationshipLabel = "self"
	RelationParent           RelationshipLabel = "parent"
	RelationChild            RelationshipLabel = "child"
	RelationSibling          RelationshipLabel = "sibling"
	RelationNieceNephew      RelationshipLabel = "niece/nephew"
	RelationGrandparent      RelationshipLabel = "grandparent"
	RelationGreatGrandparent RelationshipLabel = "great-grandparent"
	RelationGrandchild       RelationshipLabel = "grandchild"
	RelationGreatGrandchild  RelationshipLabel = "great-grandchild"
	RelationUncleAunt        RelationshipLabel = "uncle/aunt"
	RelationGreatUncleAunt   RelationshipLabel = "great-uncle/aunt"
	RelationCousin           RelationshipLabel = "cousin"
	RelationGrandNieceNephew RelationshipLabel = "grand-niece/nephew"
	RelationSecondCousin     RelationshipLabel = "second cousin"
	RelationOther            RelationshipLabel = "other family member"
)
