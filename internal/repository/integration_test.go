//go:build integration

package repository_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/atinyakov/UserNotepad/internal/attribute"
	"github.com/atinyakov/UserNotepad/internal/db"
	"github.com/atinyakov/UserNotepad/internal/models"
	"github.com/atinyakov/UserNotepad/internal/repository"
)

var dsn string

func TestMain(m *testing.M) {
	ctx := context.Background()
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "postgres:15-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "postgres",
				"POSTGRES_PASSWORD": "password",
				"POSTGRES_DB":       "usernotepad_test",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(2 * time.Minute),
		},
		Started: true,
	})
	if err != nil {
		panic(err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		panic(err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		panic(err)
	}
	dsn = fmt.Sprintf("postgres://postgres:password@%s:%s/usernotepad_test?sslmode=disable", host, port.Port())

	code := m.Run()
	_ = container.Terminate(ctx)
	os.Exit(code)
}

func vt(t models.ValueType) *models.ValueType { return &t }

func TestRepositories_Postgres(t *testing.T) {
	ctx := context.Background()
	conn, err := db.InitPostgres(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	persons := repository.NewPostgresPersonRepository(conn)
	operators := repository.NewPostgresOperatorRepository(conn)

	t.Run("operators", func(t *testing.T) {
		op := models.Operator{ID: uuid.New(), Username: "alice", Nickname: "Al", PasswordHash: []byte("hash")}
		require.NoError(t, operators.Create(ctx, op))
		require.ErrorIs(t, operators.Create(ctx, models.Operator{ID: uuid.New(), Username: "alice"}), models.ErrConflict)

		exists, err := operators.UserExists(ctx, "alice")
		require.NoError(t, err)
		require.True(t, exists)

		got, err := operators.GetByUsername(ctx, "alice")
		require.NoError(t, err)
		require.Equal(t, op.ID, got.ID)
		require.Equal(t, "Al", got.Nickname)

		_, err = operators.GetByUsername(ctx, "bob")
		require.ErrorIs(t, err, models.ErrNotFound)
	})

	t.Run("person_roundtrip", func(t *testing.T) {
		id := uuid.New()
		p := models.Person{
			ID:        id,
			Name:      "Maria",
			Surname:   "Konopnicka",
			BirthDate: models.NewDate(1842, time.May, 23),
			Sex:       models.SexFemale,
			CreatedAt: time.Now().UTC(),
		}
		p.Attributes = attribute.Merge(id, nil, []models.AttributeInput{
			{Key: "poems", Value: "120", ValueType: vt(models.ValueTypeInt)},
			{Key: "debut", Value: "1870-01-01", ValueType: vt(models.ValueTypeDate)},
		}).Insert

		_, err := persons.Create(ctx, p)
		require.NoError(t, err)

		got, err := persons.GetByID(ctx, id)
		require.NoError(t, err)
		require.Equal(t, "1842-05-23", got.BirthDate.String())
		require.Len(t, got.Attributes, 2)

		updated, err := persons.Update(ctx, got, []models.AttributeInput{
			{Key: "poems", Value: "121", ValueType: vt(models.ValueTypeInt)},
			{Key: "nobel", Value: "false", ValueType: vt(models.ValueTypeBool)},
		})
		require.NoError(t, err)
		require.Len(t, updated.Attributes, 2)

		stored, err := persons.AttributesByPerson(ctx, id)
		require.NoError(t, err)
		keys := map[string]string{}
		for _, a := range stored {
			keys[a.Key] = a.Value
		}
		require.Equal(t, map[string]string{"poems": "121", "nobel": "false"}, keys)

		require.NoError(t, persons.Delete(ctx, id))
		require.ErrorIs(t, persons.Delete(ctx, id), models.ErrNotFound)

		orphaned, err := persons.AttributesByPerson(ctx, id)
		require.NoError(t, err)
		require.Empty(t, orphaned)
	})

	t.Run("pagination", func(t *testing.T) {
		base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		for i := 0; i < 15; i++ {
			_, err := persons.Create(ctx, models.Person{
				ID:        uuid.New(),
				Name:      "Person",
				Surname:   fmt.Sprintf("Number%c", 'a'+i),
				BirthDate: models.NewDate(1990, time.January, 1),
				CreatedAt: base.Add(time.Duration(i) * time.Minute),
			})
			require.NoError(t, err)
		}

		page, total, err := persons.List(ctx, 10, 10)
		require.NoError(t, err)
		require.Equal(t, 15, total)
		require.Len(t, page, 5)
		require.Equal(t, "Numberk", page[0].Surname)

		all, err := persons.ListAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, 15)
	})
}
