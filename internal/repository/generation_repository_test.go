package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/fadilmartias/resume-ai/internal/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockRepository(t *testing.T) (*GenerationRepository, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGenerationRepository(db), mock
}

func TestGenerationRepositoryCreateAssignsID(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectExec(`INSERT INTO "generations"`).
		WillReturnResult(sqlmock.NewResult(1, 1))

	generation := &model.Generation{
		ResumeName:     "resume.pdf",
		JobDescription: "Backend engineer",
		Status:         model.GenerationStatusProcessing,
	}
	require.NoError(t, repo.Create(context.Background(), generation))

	assert.NotEqual(t, uuid.Nil, generation.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGenerationRepositoryFindByID(t *testing.T) {
	repo, mock := newMockRepository(t)
	id := uuid.New()
	now := time.Now()

	rows := sqlmock.NewRows([]string{"id", "resume_name", "recruiter_message", "cover_letter", "status", "created_at", "updated_at"}).
		AddRow(id.String(), "resume.pdf", "A", "B", model.GenerationStatusCompleted, now, now)
	mock.ExpectQuery(`SELECT \* FROM "generations" WHERE id = \$1`).
		WillReturnRows(rows)

	generation, err := repo.FindByID(context.Background(), id.String())
	require.NoError(t, err)
	assert.Equal(t, id, generation.ID)
	assert.Equal(t, "A", generation.RecruiterMessage)
	assert.Equal(t, "B", generation.CoverLetter)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGenerationRepositoryFindByIDNotFound(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery(`SELECT \* FROM "generations"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.FindByID(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestGenerationRepositoryList(t *testing.T) {
	repo, mock := newMockRepository(t)
	now := time.Now()

	mock.ExpectQuery(`SELECT count\(\*\) FROM "generations"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery(`SELECT \* FROM "generations" ORDER BY created_at DESC`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "resume_name", "created_at"}).
			AddRow(uuid.NewString(), "a.pdf", now).
			AddRow(uuid.NewString(), "b.docx", now))

	generations, total, err := repo.List(context.Background(), 0, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, generations, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}
