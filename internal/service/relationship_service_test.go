package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geneailogy/tree-service/internal/errs"
	"geneailogy/tree-service/internal/models"
)

// extendedFamily builds a snapshot covering every labeled relation from the
// point of view of member "v":
//
//	ggp (great-grandparent)
//	 └── gp ── gu (great-uncle)
//	      └── p ── u (uncle)
//	           │     └── cz (cousin)
//	           │          └── sc (second cousin)
//	           └── v ── sib (sibling)
//	                │     └── nn (niece/nephew)
//	                │          └── gn (grand-niece/nephew)
//	                └── c (child)
//	                     └── gc (grandchild)
//	                          └── ggc (great-grandchild)
func extendedFamily() []*models.Member {
	ggp := newMember("ggp", "Albert", "Dupont")
	gp := newMember("gp", "Louis", "Dupont")
	gp.ParentsIDs = []string{"ggp"}
	gp.BrothersIDs = []string{"gu"}
	gu := newMember("gu", "Georges", "Dupont")
	p := newMember("p", "Pierre", "Dupont")
	p.ParentsIDs = []string{"gp"}
	p.BrothersIDs = []string{"u"}
	u := newMember("u", "Henri", "Dupont")
	u.ChildrenIDs = []string{"cz"}
	cz := newMember("cz", "Sophie", "Dupont")
	cz.ChildrenIDs = []string{"sc"}
	sc := newMember("sc", "Hugo", "Dupont")
	v := newMember("v", "Jean", "Dupont")
	v.ParentsIDs = []string{"p"}
	v.BrothersIDs = []string{"sib"}
	v.ChildrenIDs = []string{"c"}
	sib := newMember("sib", "Anne", "Dupont")
	sib.ChildrenIDs = []string{"nn"}
	nn := newMember("nn", "Paul", "Dupont")
	nn.ChildrenIDs = []string{"gn"}
	gn := newMember("gn", "Zoé", "Dupont")
	c := newMember("c", "Luc", "Dupont")
	c.ChildrenIDs = []string{"gc"}
	gc := newMember("gc", "Léa", "Dupont")
	gc.ChildrenIDs = []string{"ggc"}
	ggc := newMember("ggc", "Tom", "Dupont")

	return []*models.Member{ggp, gp, gu, p, u, cz, sc, v, sib, nn, gn, c, gc, ggc}
}

func TestDescribeRelationship(t *testing.T) {
	family := extendedFamily()

	t.Run("Labels", func(t *testing.T) {
		cases := []struct {
			target string
			want   models.RelationshipLabel
		}{
			{"v", models.RelationSelf},
			{"p", models.RelationParent},
			{"c", models.RelationChild},
			{"sib", models.RelationSibling},
			{"nn", models.RelationNieceNephew},
			{"gp", models.RelationGrandparent},
			{"ggp", models.RelationGreatGrandparent},
			{"gc", models.RelationGrandchild},
			{"ggc", models.RelationGreatGrandchild},
			{"u", models.RelationUncleAunt},
			{"gu", models.RelationGreatUncleAunt},
			{"cz", models.RelationCousin},
			{"gn", models.RelationGrandNieceNephew},
			{"sc", models.RelationSecondCousin},
		}

		for _, tc := range cases {
			t.Run(string(tc.want), func(t *testing.T) {
				got, err := DescribeRelationship("v", tc.target, family)
				require.NoError(t, err)
				assert.Equal(t, tc.want, got)
			})
		}
	})

	t.Run("AsymmetricByConstruction", func(t *testing.T) {
		fromViewer, err := DescribeRelationship("v", "p", family)
		require.NoError(t, err)
		fromParent, err := DescribeRelationship("p", "v", family)
		require.NoError(t, err)

		assert.Equal(t, models.RelationParent, fromViewer)
		assert.Equal(t, models.RelationChild, fromParent)
	})

	t.Run("PrecedenceSiblingOverCousin", func(t *testing.T) {
		// Malformed data may make the same person reachable as both a
		// sibling and a cousin; the closer rule must win.
		p := newMember("p", "Pierre", "Dupont")
		p.BrothersIDs = []string{"u"}
		u := newMember("u", "Henri", "Dupont")
		u.ChildrenIDs = []string{"t"}
		v := newMember("v", "Jean", "Dupont")
		v.ParentsIDs = []string{"p"}
		v.BrothersIDs = []string{"t"}
		target := newMember("t", "Sophie", "Dupont")

		got, err := DescribeRelationship("v", "t", []*models.Member{p, u, v, target})
		require.NoError(t, err)
		assert.Equal(t, models.RelationSibling, got)
	})

	t.Run("FallbackIsNeverAnError", func(t *testing.T) {
		// Five parent edges away: outside the bounded walk
		far := newMember("far", "Marcel", "Dupont")
		chain := []*models.Member{far}
		prev := "far"
		for _, id := range []string{"a4", "a3", "a2", "a1", "v"} {
			m := newMember(id, "X", "Dupont")
			m.ParentsIDs = []string{prev}
			chain = append(chain, m)
			prev = id
		}

		got, err := DescribeRelationship("v", "far", chain)
		require.NoError(t, err)
		assert.Equal(t, models.RelationOther, got)
	})

	t.Run("UnknownMembers", func(t *testing.T) {
		_, err := DescribeRelationship("missing", "v", family)
		assert.ErrorIs(t, err, errs.ErrMemberNotFound)

		_, err = DescribeRelationship("v", "missing", family)
		assert.ErrorIs(t, err, errs.ErrMemberNotFound)
	})

	t.Run("CyclicDataTerminates", func(t *testing.T) {
		a := newMember("a", "Jean", "Dupont")
		a.ParentsIDs = []string{"b"}
		b := newMember("b", "Luc", "Dupont")
		b.ParentsIDs = []string{"a"}

		got, err := DescribeRelationship("a", "b", []*models.Member{a, b})
		require.NoError(t, err)
		assert.Equal(t, models.RelationParent, got)
	})
}
