package integration

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"careercoach-be/internal/constant"
	"careercoach-be/internal/entity"
	"careercoach-be/internal/repository/specification"
	"careercoach-be/internal/repository/unitofwork"
	"careercoach-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormConnection(t *testing.T) {
	// Load .env from root
	err := godotenv.Load("../../.env")
	if err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}

	// Verify Wiring
	uowFactory := unitofwork.NewRepositoryFactory(gormDB)
	uow := uowFactory.NewUnitOfWork(context.Background())

	assert.NotNil(t, uow.ProjectRepository())
	assert.NotNil(t, uow.SessionRepository())
	assert.NotNil(t, uow.TurnRepository())

	// Basic Ping
	sqlDB, _ := gormDB.DB()
	err = sqlDB.Ping()
	assert.NoError(t, err)
	t.Log("Successfully connected to DB and initialized UnitOfWork Factory")

	t.Run("Session and turn round trip", func(t *testing.T) {
		ctx := context.Background()
		userId := uuid.New()

		project := &entity.Project{
			Id:          uuid.New(),
			UserId:      userId,
			CompanyName: "통합테스트 주식회사",
			RoleTitle:   "백엔드 엔지니어",
			CreatedAt:   time.Now(),
		}
		require.NoError(t, uow.ProjectRepository().Create(ctx, project))

		now := time.Now()
		total := 6
		session := &entity.Session{
			Id:           uuid.New(),
			ProjectId:    project.Id,
			UserId:       userId,
			Mode:         constant.SessionModeDeepInterview,
			Status:       constant.SessionStatusInProgress,
			TotalItems:   &total,
			CurrentIndex: 1,
			StartedAt:    &now,
			Meta:         map[string]interface{}{"askedCount": 1},
			CreatedAt:    now,
		}
		require.NoError(t, uow.SessionRepository().Create(ctx, session))

		turn := &entity.Turn{
			Id:        uuid.New(),
			SessionId: session.Id,
			ProjectId: project.Id,
			UserId:    userId,
			TurnIndex: 1,
			Role:      constant.TurnRoleAI,
			Speaker:   "AI 인터뷰어",
			Prompt:    "가장 어려웠던 기술적 결정은 무엇이었나요?",
			CreatedAt: now,
		}
		require.NoError(t, uow.TurnRepository().Create(ctx, turn))

		// duplicate index must bounce off the unique constraint
		dup := *turn
		dup.Id = uuid.New()
		assert.Error(t, uow.TurnRepository().Create(ctx, &dup))

		max, err := uow.TurnRepository().MaxTurnIndex(ctx, session.Id)
		require.NoError(t, err)
		assert.Equal(t, 1, max)

		found, err := uow.SessionRepository().FindOne(ctx,
			specification.ByID{ID: session.Id},
			specification.UserOwnedBy{UserID: userId},
		)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, constant.SessionModeDeepInterview, found.Mode)
		assert.NotNil(t, found.TotalItems)

		// owner scoping: another user sees nothing
		foreign, err := uow.SessionRepository().FindOne(ctx,
			specification.ByID{ID: session.Id},
			specification.UserOwnedBy{UserID: uuid.New()},
		)
		require.NoError(t, err)
		assert.Nil(t, foreign)
	})
}
