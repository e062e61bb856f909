package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geneailogy/tree-service/internal/errs"
	"geneailogy/tree-service/internal/models"
	"geneailogy/tree-service/internal/repository"
	"geneailogy/tree-service/pkg/helpers"
)

func newMemberServiceMock(t *testing.T) (*MemberService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := repository.NewMemberRepository(db)
	return NewMemberService(repo, helpers.NewCustomValidator(), helpers.NewIDGenerator()), mock
}

// expectMemberLookup wires the member row plus its relation query
func expectMemberLookup(mock sqlmock.Sqlmock, id string) {
	now := time.Now()
	mock.ExpectQuery("SELECT id, tree_id, first_name, last_name").
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"id", "tree_id", "first_name", "last_name", "created_at", "updated_at"}).
			AddRow(id, "tree-1", "Jean", "Dupont", now, now))
	mock.ExpectQuery("SELECT related_id, relation").
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"related_id", "relation"}))
}

func TestMemberServiceCreateMember(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		svc, mock := newMemberServiceMock(t)

		mock.ExpectExec("INSERT INTO members").
			WithArgs(sqlmock.AnyArg(), "tree-1", "Jean", "Dupont").
			WillReturnResult(sqlmock.NewResult(1, 1))

		member, err := svc.CreateMember(context.Background(), CreateMemberInput{
			TreeID:    "tree-1",
			FirstName: "Jean",
			LastName:  "Dupont",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, member.ID)
		assert.Equal(t, "Jean Dupont", member.DisplayName())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("MintsTreeIDWhenAbsent", func(t *testing.T) {
		svc, mock := newMemberServiceMock(t)

		mock.ExpectExec("INSERT INTO members").
			WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), "Jean", "Dupont").
			WillReturnResult(sqlmock.NewResult(1, 1))

		member, err := svc.CreateMember(context.Background(), CreateMemberInput{
			FirstName: "Jean",
			LastName:  "Dupont",
		})
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(member.TreeID, "TREE-"), member.TreeID)
	})

	t.Run("ValidationFailure", func(t *testing.T) {
		svc, _ := newMemberServiceMock(t)

		_, err := svc.CreateMember(context.Background(), CreateMemberInput{TreeID: "tree-1"})
		assert.Error(t, err)
	})
}

func TestMemberServiceAddRelation(t *testing.T) {
	t.Run("WritesBothDirections", func(t *testing.T) {
		svc, mock := newMemberServiceMock(t)

		expectMemberLookup(mock, "m-1")
		expectMemberLookup(mock, "p-1")
		mock.ExpectExec("INSERT INTO member_relations").
			WithArgs("m-1", "p-1", models.EdgeParent).
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectExec("INSERT INTO member_relations").
			WithArgs("p-1", "m-1", models.EdgeChild).
			WillReturnResult(sqlmock.NewResult(2, 1))

		err := svc.AddRelation(context.Background(), "m-1", AddRelationInput{
			RelatedID: "p-1",
			Relation:  models.EdgeParent,
		})
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("SiblingIsItsOwnInverse", func(t *testing.T) {
		svc, mock := newMemberServiceMock(t)

		expectMemberLookup(mock, "m-1")
		expectMemberLookup(mock, "s-1")
		mock.ExpectExec("INSERT INTO member_relations").
			WithArgs("m-1", "s-1", models.EdgeSibling).
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectExec("INSERT INTO member_relations").
			WithArgs("s-1", "m-1", models.EdgeSibling).
			WillReturnResult(sqlmock.NewResult(2, 1))

		err := svc.AddRelation(context.Background(), "m-1", AddRelationInput{
			RelatedID: "s-1",
			Relation:  models.EdgeSibling,
		})
		assert.NoError(t, err)
	})

	t.Run("UnknownRelationTypeRejected", func(t *testing.T) {
		svc, _ := newMemberServiceMock(t)

		err := svc.AddRelation(context.Background(), "m-1", AddRelationInput{
			RelatedID: "p-1",
			Relation:  "stepcousin",
		})
		assert.Error(t, err)
	})

	t.Run("RelatedMemberMissing", func(t *testing.T) {
		svc, mock := newMemberServiceMock(t)

		expectMemberLookup(mock, "m-1")
		mock.ExpectQuery("SELECT id, tree_id, first_name, last_name").
			WithArgs("ghost").
			WillReturnRows(sqlmock.NewRows([]string{"id", "tree_id", "first_name", "last_name", "created_at", "updated_at"}))

		err := svc.AddRelation(context.Background(), "m-1", AddRelationInput{
			RelatedID: "ghost",
			Relation:  models.EdgeParent,
		})
		assert.ErrorIs(t, err, errs.ErrMemberNotFound)
	})
}

func TestMemberServiceGetMember(t *testing.T) {
	t.Run("NotFound", func(t *testing.T) {
		svc, mock := newMemberServiceMock(t)

		mock.ExpectQuery("SELECT id, tree_id, first_name, last_name").
			WithArgs("missing").
			WillReturnRows(sqlmock.NewRows([]string{"id", "tree_id", "first_name", "last_name", "created_at", "updated_at"}))

		_, err := svc.GetMember(context.Background(), "missing")
		assert.ErrorIs(t, err, errs.ErrMemberNotFound)
	})
}
