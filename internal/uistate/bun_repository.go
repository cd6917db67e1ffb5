package uistate

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

var errNoDatabase = errors.New("uistate: bun repository requires a database")

// BunRepository persists flags in the ui_flags table.
type BunRepository struct {
	repo   repository.Repository[*flagModel]
	events *broadcaster
}

var _ Repository = (*BunRepository)(nil)

// NewBunRepository returns a repository backed by db.
func NewBunRepository(db *bun.DB) *BunRepository {
	r := &BunRepository{events: newBroadcaster()}
	if db != nil {
		r.repo = newFlagRepository(db)
	}
	return r
}

func newFlagRepository(db *bun.DB) repository.Repository[*flagModel] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*flagModel]{
		NewRecord:          func() *flagModel { return &flagModel{} },
		GetID:              func(m *flagModel) uuid.UUID { return m.ID },
		SetID:              func(m *flagModel, id uuid.UUID) { m.ID = id },
		GetIdentifier:      func() string { return "flag_key" },
		GetIdentifierValue: func(m *flagModel) string { return m.Key },
	})
}

// Migrate creates the ui_flags table when it does not exist.
func Migrate(ctx context.Context, db *bun.DB) error {
	if db == nil {
		return errNoDatabase
	}
	_, err := db.NewCreateTable().Model((*flagModel)(nil)).IfNotExists().Exec(ctx)
	return err
}

// flagID addresses a session key with a stable row id.
func flagID(session uuid.UUID, key string) uuid.UUID {
	return uuid.NewSHA1(session, []byte(key))
}

func (r *BunRepository) Get(ctx context.Context, session uuid.UUID, key string) (Flag, error) {
	if r.repo == nil {
		return Flag{}, errNoDatabase
	}
	model, err := r.repo.GetByID(ctx, flagID(session, key).String())
	if err != nil {
		return Flag{}, mapRepositoryError(err, key)
	}
	return model.flag(), nil
}

func (r *BunRepository) List(ctx context.Context, session uuid.UUID) ([]Flag, error) {
	if r.repo == nil {
		return nil, errNoDatabase
	}
	models, _, err := r.repo.List(ctx, repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("?TableAlias.session_id = ?", session)
	}))
	if err != nil {
		return nil, err
	}
	out := make([]Flag, len(models))
	for i, model := range models {
		out[i] = model.flag()
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

// Set inserts or updates flag. Writing an unchanged value emits no event.
func (r *BunRepository) Set(ctx context.Context, flag Flag) (Flag, error) {
	if r.repo == nil {
		return Flag{}, errNoDatabase
	}
	if err := validFlag(flag); err != nil {
		return Flag{}, err
	}

	existing, err := r.Get(ctx, flag.SessionID, flag.Key)
	created := errors.Is(err, ErrFlagNotFound)
	if err != nil && !created {
		return Flag{}, err
	}
	if !created && existing.Value == flag.Value {
		return existing, nil
	}

	model := modelFromFlag(flag)
	model.UpdatedAt = time.Now().UTC()

	changeType := ChangeUpdated
	if created {
		changeType = ChangeCreated
		if _, err := r.repo.Create(ctx, model); err != nil {
			return Flag{}, err
		}
	} else {
		if _, err := r.repo.Update(ctx, model,
			repository.UpdateByID(model.ID.String()),
			repository.UpdateColumns("value", "updated_at"),
		); err != nil {
			return Flag{}, mapRepositoryError(err, flag.Key)
		}
	}

	stored := model.flag()
	r.events.publish(newChangeEvent(changeType, stored))
	return stored, nil
}

func (r *BunRepository) Delete(ctx context.Context, session uuid.UUID, key string) error {
	if r.repo == nil {
		return errNoDatabase
	}
	existing, err := r.Get(ctx, session, key)
	if err != nil {
		return err
	}
	if err := r.repo.Delete(ctx, &flagModel{ID: flagID(session, key)}); err != nil {
		return mapRepositoryError(err, key)
	}
	r.events.publish(newChangeEvent(ChangeDeleted, existing))
	return nil
}

func (r *BunRepository) Clear(ctx context.Context, session uuid.UUID) error {
	if r.repo == nil {
		return errNoDatabase
	}
	flags, err := r.List(ctx, session)
	if err != nil {
		return err
	}
	for _, flag := range flags {
		if err := r.repo.Delete(ctx, &flagModel{ID: flagID(session, flag.Key)}); err != nil {
			return mapRepositoryError(err, flag.Key)
		}
		r.events.publish(newChangeEvent(ChangeDeleted, flag))
	}
	return nil
}

func (r *BunRepository) Subscribe(ctx context.Context) (<-chan ChangeEvent, error) {
	return r.events.subscribe(ctx)
}

func mapRepositoryError(err error, key string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return fmt.Errorf("%w: %s", ErrFlagNotFound, key)
	}
	return fmt.Errorf("uistate repository error: %w", err)
}

type flagModel struct {
	bun.BaseModel `bun:"table:ui_flags"`

	ID        uuid.UUID `bun:"id,pk,type:uuid"`
	SessionID uuid.UUID `bun:"session_id,notnull,type:uuid"`
	Key       string    `bun:"flag_key,notnull"`
	Value     string    `bun:"value,notnull"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}

func modelFromFlag(flag Flag) *flagModel {
	return &flagModel{
		ID:        flagID(flag.SessionID, flag.Key),
		SessionID: flag.SessionID,
		Key:       flag.Key,
		Value:     flag.Value,
		UpdatedAt: flag.UpdatedAt,
	}
}

func (m *flagModel) flag() Flag {
	return Flag{
		SessionID: m.SessionID,
		Key:       m.Key,
		Value:     m.Value,
		UpdatedAt: m.UpdatedAt,
	}
}
