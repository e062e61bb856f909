package repository

import (
	"context"
	"database/sql"
	"fmt"

	"geneailogy/tree-service/internal/errs"
	"geneailogy/tree-service/internal/models"
)

type MemberRepository struct {
	db *sql.DB
}

func NewMemberRepository(db *sql.DB) *MemberRepository {
	return &MemberRepository{db: db}
}

// CreateMember creates a new member with an empty relation set
func (r *MemberRepository) CreateMember(ctx context.Context, member *models.Member) error {
	query := `INSERT INTO members (id, tree_id, first_name, last_name, created_at, updated_at)
	          VALUES (?, ?, ?, ?, NOW(), NOW())`

	_, err := r.db.ExecContext(ctx, query, member.ID, member.TreeID, member.FirstName, member.LastName)
	if err != nil {
		return fmt.Errorf("failed to create member: %w", err)
	}

	return nil
}

// GetMemberByID retrieves a member by ID, including its declared relation lists
func (r *MemberRepository) GetMemberByID(ctx context.Context, id string) (*models.Member, error) {
	query := `SELECT id, tree_id, first_name, last_name, created_at, updated_at
	          FROM members WHERE id = ?`

	var member models.Member
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&member.ID,
		&member.TreeID,
		&member.FirstName,
		&member.LastName,
		&member.CreatedAt,
		&member.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get member: %w", err)
	}

	if err := r.loadRelations(ctx, &member); err != nil {
		return nil, err
	}

	return &member, nil
}

// GetMembersByTree retrieves the full member snapshot for one tree, with every
// member's declared relation lists populated. The layout and relationship
// engines treat this snapshot as immutable for the duration of one call.
func (r *MemberRepository) GetMembersByTree(ctx context.Context, treeID string) ([]*models.Member, error) {
	query := `SELECT id, tree_id, first_name, last_name, created_at, updated_at
	          FROM members
	          WHERE tree_id = ?
	          ORDER BY created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, treeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get tree members: %w", err)
	}
	defer rows.Close()

	var members []*models.Member
	byID := make(map[string]*models.Member)
	for rows.Next() {
		var member models.Member
		if err := rows.Scan(
			&member.ID,
			&member.TreeID,
			&member.FirstName,
			&member.LastName,
			&member.CreatedAt,
			&member.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, &member)
		byID[member.ID] = &member
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tree members: %w", err)
	}

	relationQuery := `SELECT r.member_id, r.related_id, r.relation
	                  FROM member_relations r
	                  JOIN members m ON m.id = r.member_id
	                  WHERE m.tree_id = ?
	                  ORDER BY r.id ASC`

	relationRows, err := r.db.QueryContext(ctx, relationQuery, treeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get tree relations: %w", err)
	}
	defer relationRows.Close()

	for relationRows.Next() {
		var memberID, relatedID, relation string
		if err := relationRows.Scan(&memberID, &relatedID, &relation); err != nil {
			return nil, fmt.Errorf("failed to scan relation: %w", err)
		}
		if member, ok := byID[memberID]; ok {
			applyRelation(member, relatedID, relation)
		}
	}
	if err := relationRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tree relations: %w", err)
	}

	return members, nil
}

// AddRelation records one directed relation edge
func (r *MemberRepository) AddRelation(ctx context.Context, memberID, relatedID, relation string) error {
	query := `INSERT INTO member_relations (member_id, related_id, relation, created_at)
	          VALUES (?, ?, ?, NOW())`

	_, err := r.db.ExecContext(ctx, query, memberID, relatedID, relation)
	if err != nil {
		return fmt.Errorf("failed to add relation: %w", err)
	}

	return nil
}

// DeleteMember removes a member and every edge that references it
func (r *MemberRepository) DeleteMember(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM member_relations WHERE member_id = ? OR related_id = ?`, id, id); err != nil {
		return fmt.Errorf("failed to delete member relations: %w", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM members WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete member: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		// The member vanished between lookup and delete
		return errs.ErrMemberNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}

	return nil
}

// loadRelations populates one member's declared relation lists
func (r *MemberRepository) loadRelations(ctx context.Context, member *models.Member) error {
	query := `SELECT related_id, relation
	          FROM member_relations
	          WHERE member_id = ?
	          ORDER BY id ASC`

	rows, err := r.db.QueryContext(ctx, query, member.ID)
	if err != nil {
		return fmt.Errorf("failed to get member relations: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var relatedID, relation string
		if err := rows.Scan(&relatedID, &relation); err != nil {
			return fmt.Errorf("failed to scan relation: %w", err)
		}
		applyRelation(member, relatedID, relation)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate member relations: %w", err)
	}

	return nil
}

func applyRelation(member *models.Member, relatedID, relation string) {
	switch relation {
	case models.EdgeParent:
		member.ParentsIDs = append(member.ParentsIDs, relatedID)
	case models.EdgeChild:
		member.ChildrenIDs = append(member.ChildrenIDs, relatedID)
	case models.EdgeSibling:
		member.BrothersIDs = append(member.BrothersIDs, relatedID)
	case models.EdgeSpouse:
		member.MariageID = relatedID
	}
}
