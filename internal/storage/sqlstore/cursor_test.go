package sqlstore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/suite"
	_ "modernc.org/sqlite"

	"video_notifier/internal/domain"
)

type SQLiteCursorSuite struct {
	suite.Suite
	ctx   context.Context
	db    *sqlx.DB
	store *CursorStore
}

func (s *SQLiteCursorSuite) SetupTest() {
	s.ctx = context.Background()

	db, err := sqlx.Connect("sqlite", filepath.Join(s.T().TempDir(), "cursor.db"))
	s.Require().NoError(err)
	s.db = db

	s.store = NewCursorStore(db)
	s.Require().NoError(s.store.Migrate(s.ctx))
}

func (s *SQLiteCursorSuite) TearDownTest() {
	if s.db != nil {
		s.db.Close()
	}
}

func TestSQLiteCursorSuite(t *testing.T) {
	suite.Run(t, new(SQLiteCursorSuite))
}

func (s *SQLiteCursorSuite) TestLoad_Empty() {
	_, err := s.store.Load(s.ctx)

	s.ErrorIs(err, domain.ErrCursorNotFound)
}

func (s *SQLiteCursorSuite) TestStoreThenLoad() {
	want := domain.Cursor{ChannelID: "C1", LastItemID: "V2"}

	s.Require().NoError(s.store.Store(s.ctx, want))

	got, err := s.store.Load(s.ctx)
	s.NoError(err)
	s.Equal(want, got)
}

func (s *SQLiteCursorSuite) TestStore_Overwrites() {
	s.Require().NoError(s.store.Store(s.ctx, domain.Cursor{ChannelID: "C1", LastItemID: "V1"}))
	s.Require().NoError(s.store.Store(s.ctx, domain.Cursor{ChannelID: "C1", LastItemID: "V2"}))

	var count int
	s.Require().NoError(s.db.GetContext(s.ctx, &count, "SELECT COUNT(*) FROM cursor_state"))
	s.Equal(1, count)

	got, err := s.store.Load(s.ctx)
	s.NoError(err)
	s.Equal("V2", got.LastItemID)
}

func (s *SQLiteCursorSuite) TestMigrate_Idempotent() {
	s.NoError(s.store.Migrate(s.ctx))
}
