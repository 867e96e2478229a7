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

// EntitiesDBHandlerFunctions defines the interface for Entities database operations.
type EntitiesDBHandlerFunctions interface {
	InsertEntity(ctx context.Context, entity *model.Entity) error
	InsertEntityTx(ctx context.Context, tx *sql.Tx, entity *model.Entity) error
	AddObservations(ctx context.Context, id uuid.UUID, observations []string) (*model.Entity, error)
	DeleteEntity(ctx context.Context, id uuid.UUID) error
	SelectEntity(ctx context.Context, id uuid.UUID) (*model.Entity, error)
	SelectEntityByName(ctx context.Context, name string) (*model.Entity, error)
	SelectEntitiesByType(ctx context.Context, entityType string, limit int) ([]*model.Entity, error)
	SelectAllEntities(ctx context.Context) ([]*model.Entity, error)
}

// EntitiesDBHandler handles entity-related database operations
type EntitiesDBHandler struct {
	db *helper.Database
}

// NewEntitiesDBHandler creates a new entities database handler.
// It loads entity-related SQL functions and creates the table.
// If force is true, it will reload the SQL functions even if they already exist.
func NewEntitiesDBHandler(db *helper.Database, force bool) (*EntitiesDBHandler, error) {
	if db == nil {
		return nil, helper.NewError("database connection validation", fmt.Errorf("database connection is nil"))
	}

	entitiesDbHandler := &EntitiesDBHandler{
		db: db,
	}

	err := loadSql.Init(entitiesDbHandler.db.Instance)
	if err != nil {
		return nil, helper.NewError("init sql", err)
	}

	err = loadSql.LoadEntitiesSql(entitiesDbHandler.db.Instance, force)
	if err != nil {
		return nil, helper.NewError("load entities sql", err)
	}

	err = entitiesDbHandler.CreateTable()
	if err != nil {
		return nil, helper.NewError("create table", err)
	}

	db.Logger.Info("Initialized EntitiesDBHandler")

	return entitiesDbHandler, nil
}

// CreateTable creates the 'entities' table in the database.
// If the table already exists, it does not create it again.
func (h *EntitiesDBHandler) CreateTable() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := h.db.Instance.ExecContext(ctx, `SELECT init_entities();`)
	if err != nil {
		log.Panicf("error initializing entities table: %#v", err)
	}

	h.db.Logger.Info("Checked/created table entities")

	return nil
}

// InsertEntity inserts a new entity or merges it into the stored entity of
// the same name. The stored row is scanned back into entity.
func (h *EntitiesDBHandler) InsertEntity(ctx context.Context, entity *model.Entity) error {
	return insertEntity(ctx, h.db.Instance, entity)
}

// InsertEntityTx is InsertEntity inside tx.
func (h *EntitiesDBHandler) InsertEntityTx(ctx context.Context, tx *sql.Tx, entity *model.Entity) error {
	return insertEntity(ctx, tx, entity)
}

func insertEntity(ctx context.Context, q querier, entity *model.Entity) error {
	row := q.QueryRowContext(
		ctx,
		`SELECT * FROM insert_entity($1, $2, $3)`,
		entity.Name,
		entity.EntityType,
		entity.Observations,
	)

	err := row.Scan(
		&entity.ID,
		&entity.Name,
		&entity.EntityType,
		&entity.Observations,
		&entity.CreatedAt,
	)
	if err != nil {
		return helper.NewError("scan", err)
	}

	return nil
}

// AddObservations appends observations the entity does not hold yet
func (h *EntitiesDBHandler) AddObservations(ctx context.Context, id uuid.UUID, observations []string) (*model.Entity, error) {
	entity := &model.Entity{}
	row := h.db.Instance.QueryRowContext(
		ctx,
		`SELECT * FROM add_observations($1, $2)`,
		id,
		model.Observations(observations),
	)

	err := scanEntity(row, entity)
	if err != nil {
		return nil, helper.NewError("scan", err)
	}

	return entity, nil
}

// DeleteEntity deletes an entity by ID. Relations naming it are kept.
func (h *EntitiesDBHandler) DeleteEntity(ctx context.Context, id uuid.UUID) error {
	_, err := h.db.Instance.ExecContext(
		ctx,
		`SELECT delete_entity($1)`,
		id,
	)
	if err != nil {
		return helper.NewError("exec", err)
	}
	return nil
}

// SelectEntity retrieves an entity by ID
func (h *EntitiesDBHandler) SelectEntity(ctx context.Context, id uuid.UUID) (*model.Entity, error) {
	entity := &model.Entity{}
	row := h.db.Instance.QueryRowContext(
		ctx,
		`SELECT * FROM select_entity($1)`,
		id,
	)

	err := scanEntity(row, entity)
	if err != nil {
		return nil, helper.NewError("scan", err)
	}

	return entity, nil
}

// SelectEntityByName retrieves an entity by name
func (h *EntitiesDBHandler) SelectEntityByName(ctx context.Context, name string) (*model.Entity, error) {
	entity := &model.Entity{}
	row := h.db.Instance.QueryRowContext(
		ctx,
		`SELECT * FROM select_entity_by_name($1)`,
		name,
	)

	err := scanEntity(row, entity)
	if err != nil {
		return nil, helper.NewError("scan", err)
	}

	return entity, nil
}

// SelectEntitiesByType retrieves entities by type in insertion order
func (h *EntitiesDBHandler) SelectEntitiesByType(ctx context.Context, entityType string, limit int) ([]*model.Entity, error) {
	return h.selectEntities(ctx, `SELECT * FROM select_entities_by_type($1, $2)`, entityType, limit)
}

// SelectAllEntities retrieves all entities in insertion order
func (h *EntitiesDBHandler) SelectAllEntities(ctx context.Context) ([]*model.Entity, error) {
	return h.selectEntities(ctx, `SELECT * FROM select_all_entities()`)
}

func (h *EntitiesDBHandler) selectEntities(ctx context.Context, query string, args ...any) ([]*model.Entity, error) {
	rows, err := h.db.Instance.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	entities := []*model.Entity{}
	for rows.Next() {
		entity := &model.Entity{}
		err := scanEntity(rows, entity)
		if err != nil {
			return nil, helper.NewError("scan", err)
		}

		entities = append(entities, entity)
	}

	err = rows.Err()
	if err != nil {
		return nil, helper.NewError("rows error", err)
	}

	return entities, nil
}

type scanner interface {
	Scan(dest ...any) error
}

// querier is implemented by *sql.DB and *sql.Tx.
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func scanEntity(row scanner, entity *model.Entity) error {
	return row.Scan(
		&entity.ID,
		&entity.Name,
		&entity.EntityType,
		&entity.Observations,
		&entity.CreatedAt,
	)
}
