package snapshot

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/rollcall/internal/models"
)

type RedisRepositoryTestSuite struct {
	suite.Suite
	mr      *miniredis.Miniredis
	client  *redis.Client
	repo    Repository
	testNow time.Time
}

func (s *RedisRepositoryTestSuite) SetupTest() {
	// Create a new miniredis server for each test
	mr, err := miniredis.Run()
	s.Require().NoError(err)
	s.mr = mr

	s.client = redis.NewClient(&redis.Options{
		Addr: s.mr.Addr(),
	})

	repo, err := NewRedis(&Config{
		RedisClient: s.client,
	})
	s.Require().NoError(err)
	s.repo = repo

	s.testNow = time.Date(2025, 4, 5, 10, 0, 0, 0, time.UTC)
}

func (s *RedisRepositoryTestSuite) TearDownTest() {
	s.client.Close()
	s.mr.Close()
}

func TestRedisRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(RedisRepositoryTestSuite))
}

func (s *RedisRepositoryTestSuite) TestSaveAndLoad() {
	snap := &models.Snapshot{
		Active: map[string]*models.Session{
			"Aria": {
				User:     "Aria",
				Channel:  "Lobby",
				JoinedAt: s.testNow,
			},
		},
		History: []*models.HistoryEntry{
			{
				ID:      "test-entry-id",
				Type:    models.EventTypeJoin,
				User:    "Aria",
				Channel: "Lobby",
				Time:    s.testNow,
			},
		},
		Totals: map[string]int64{
			"Aria": 300,
		},
	}

	err := s.repo.Save(context.Background(), &SaveInput{
		Snapshot: snap,
	})
	s.Require().NoError(err)

	loaded, err := s.repo.Load(context.Background(), &LoadInput{})
	s.Require().NoError(err)
	s.Require().NotNil(loaded)

	s.Require().Contains(loaded.Active, "Aria")
	s.Equal("Lobby", loaded.Active["Aria"].Channel)
	s.Equal(s.testNow.Unix(), loaded.Active["Aria"].JoinedAt.Unix())
	s.Require().Len(loaded.History, 1)
	s.Equal("test-entry-id", loaded.History[0].ID)
	s.Equal(models.EventTypeJoin, loaded.History[0].Type)
	s.Equal(int64(300), loaded.Totals["Aria"])
}

func (s *RedisRepositoryTestSuite) TestSaveOverwritesPrevious() {
	first := models.NewSnapshot()
	first.Totals["Aria"] = 100

	err := s.repo.Save(context.Background(), &SaveInput{Snapshot: first})
	s.Require().NoError(err)

	second := models.NewSnapshot()
	second.Totals["Aria"] = 400

	err = s.repo.Save(context.Background(), &SaveInput{Snapshot: second})
	s.Require().NoError(err)

	loaded, err := s.repo.Load(context.Background(), &LoadInput{})
	s.Require().NoError(err)
	s.Equal(int64(400), loaded.Totals["Aria"])
}

func (s *RedisRepositoryTestSuite) TestLoadNotFound() {
	loaded, err := s.repo.Load(context.Background(), &LoadInput{})
	s.Require().ErrorIs(err, ErrSnapshotNotFound)
	s.Nil(loaded)
}

func (s *RedisRepositoryTestSuite) TestLoadCorruptSnapshot() {
	s.Require().NoError(s.mr.Set(defaultKey, "not json"))

	loaded, err := s.repo.Load(context.Background(), &LoadInput{})
	s.Require().Error(err)
	s.Nil(loaded)
}

func (s *RedisRepositoryTestSuite) TestSaveNilInput() {
	s.Require().Error(s.repo.Save(context.Background(), nil))
	s.Require().Error(s.repo.Save(context.Background(), &SaveInput{}))
}

func (s *RedisRepositoryTestSuite) TestNewRedisValidation() {
	_, err := NewRedis(nil)
	s.Require().Error(err)

	_, err = NewRedis(&Config{})
	s.Require().Error(err)
}
