package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/siherrmann/kgview/helper"
	"github.com/siherrmann/kgview/model"
	loadSql "github.com/siherrmann/kgview/sql"
)

// RelationsDBHandlerFunctions defines the interface for Relations database operations.
type RelationsDBHandlerFunctions interface {
	InsertRelation(ctx context.Context, relation *model.Relation) error
	InsertRelationTx(ctx context.Context, tx *sql.Tx, relation *model.Relation) error
	SelectRelation(ctx context.Context, id uuid.UUID) (*model.Relation, error)
	SelectRelationsFromEntity(ctx context.Context, name string, relationType *string) ([]*model.Relation, error)
	SelectRelationsToEntity(ctx context.Context, name string, relationType *string) ([]*model.Relation, error)
	SelectAllRelations(ctx context.Context) ([]*model.Relation, error)
	DeleteRelation(ctx context.Context, id uuid.UUID) error
}

// RelationsDBHandler handles relation-related database operations
type RelationsDBHandler struct {
	db *helper.Database
}

// NewRelationsDBHandler creates a new relations database handler.
// It loads relation-related SQL functions and creates the table.
// If force is true, it will reload the SQL functions even if they already exist.
func NewRelationsDBHandler(db *helper.Database, force bool) (*RelationsDBHandler, error) {
	if db == nil {
		return nil, helper.NewError("database connection validation", fmt.Errorf("database connection is nil"))
	}

	relationsDbHandler := &RelationsDBHandler{
		db: db,
	}

	err := loadSql.LoadRelationsSql(relationsDbHandler.db.Instance, force)
	if err != nil {
		return nil, helper.NewError("load relations sql", err)
	}

	err = relationsDbHandler.CreateTable()
	if err != nil {
		return nil, helper.NewError("create table", err)
	}

	db.Logger.Info("Initialized RelationsDBHandler")

	return relationsDbHandler, nil
}

// CreateTable creates the 'relations' table in the database.
// If the table already exists, it does not create it again.
// Relations have no foreign key to entities.
func (h *RelationsDBHandler) CreateTable() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := h.db.Instance.ExecContext(ctx, `SELECT init_relations();`)
	if err != nil {
		log.Panicf("error initializing relations table: %#v", err)
	}

	h.db.Logger.Info("Checked/created table relations")

	return nil
}

// InsertRelation inserts a new relation. Inserting an existing
// from/to/type triple returns the stored relation.
func (h *RelationsDBHandler) InsertRelation(ctx context.Context, relation *model.Relation) error {
	return insertRelation(ctx, h.db.Instance, relation)
}

// InsertRelationTx is InsertRelation inside tx.
func (h *RelationsDBHandler) InsertRelationTx(ctx context.Context, tx *sql.Tx, relation *model.Relation) error {
	return insertRelation(ctx, tx, relation)
}

func insertRelation(ctx context.Context, q querier, relation *model.Relation) error {
	row := q.QueryRowContext(
		ctx,
		`SELECT * FROM insert_relation($1, $2, $3)`,
		relation.From,
		relation.To,
		relation.RelationType,
	)

	err := scanRelation(row, relation)
	if err != nil {
		return helper.NewError("scan", err)
	}

	return nil
}

// SelectRelation retrieves a relation by ID
func (h *RelationsDBHandler) SelectRelation(ctx context.Context, id uuid.UUID) (*model.Relation, error) {
	row := h.db.Instance.QueryRowContext(
		ctx,
		`SELECT * FROM select_relation($1)`,
		id,
	)

	relation := &model.Relation{}
	err := scanRelation(row, relation)
	if err != nil {
		return nil, helper.NewError("scan", err)
	}

	return relation, nil
}

// SelectRelationsFromEntity retrieves relations leaving the named entity,
// optionally restricted to one relation type
func (h *RelationsDBHandler) SelectRelationsFromEntity(ctx context.Context, name string, relationType *string) ([]*model.Relation, error) {
	return h.selectRelations(ctx, `SELECT * FROM select_relations_from_entity($1, $2)`, name, nullString(relationType))
}

// SelectRelationsToEntity retrieves relations pointing at the named entity,
// optionally restricted to one relation type
func (h *RelationsDBHandler) SelectRelationsToEntity(ctx context.Context, name string, relationType *string) ([]*model.Relation, error) {
	return h.selectRelations(ctx, `SELECT * FROM select_relations_to_entity($1, $2)`, name, nullString(relationType))
}

// SelectAllRelations retrieves all relations in insertion order
func (h *RelationsDBHandler) SelectAllRelations(ctx context.Context) ([]*model.Relation, error) {
	return h.selectRelations(ctx, `SELECT * FROM select_all_relations()`)
}

// DeleteRelation deletes a relation by ID
func (h *RelationsDBHandler) DeleteRelation(ctx context.Context, id uuid.UUID) error {
	_, err := h.db.Instance.ExecContext(
		ctx,
		`SELECT delete_relation($1)`,
		id,
	)
	if err != nil {
		return helper.NewError("exec", err)
	}
	return nil
}

func (h *RelationsDBHandler) selectRelations(ctx context.Context, query string, args ...any) ([]*model.Relation, error) {
	rows, err := h.db.Instance.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	relations := []*model.Relation{}
	for rows.Next() {
		relation := &model.Relation{}
		err := scanRelation(rows, relation)
		if err != nil {
			return nil, helper.NewError("scan", err)
		}

		relations = append(relations, relation)
	}

	err = rows.Err()
	if err != nil {
		return nil, helper.NewError("rows error", err)
	}

	return relations, nil
}

func scanRelation(row scanner, relation *model.Relation) error {
	return row.Scan(
		&relation.ID,
		&relation.From,
		&relation.To,
		&relation.RelationType,
		&relation.CreatedAt,
	)
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
