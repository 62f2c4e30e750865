package sqlite_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/jlin/hanziflash/internal/db"
	"github.com/jlin/hanziflash/internal/models"
	"github.com/jlin/hanziflash/internal/repository"
	"github.com/jlin/hanziflash/internal/repository/sqlite"
	"github.com/jlin/hanziflash/internal/testutil"
)

type ConnectionRepositorySuite struct {
	suite.Suite
	db   *db.DB
	repo repository.ConnectionRepository
}

func (s *ConnectionRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlite.NewConnectionRepository(s.db.DB)
}

func (s *ConnectionRepositorySuite) seedGraph() {
	for _, c := range []models.Connection{
		{SourceChar: "水", TargetChar: "冰", ConnectionType: "semantic", Strength: 0.9},
		{SourceChar: "水", TargetChar: "河", ConnectionType: "semantic", Strength: 0.7},
		{SourceChar: "水", TargetChar: "水果", ConnectionType: "compound", Strength: 0.95},
		{SourceChar: "江", TargetChar: "水", ConnectionType: "radical", Strength: 0.5},
		{SourceChar: "火", TargetChar: "灯", ConnectionType: "visual", Strength: 1.0},
	} {
		testutil.SeedConnection(s.T(), s.db, "chinese", c)
	}
}

func (s *ConnectionRepositorySuite) TestConnectedTo() {
	ctx := context.Background()
	s.seedGraph()

	conns, err := s.repo.ConnectedTo(ctx, "chinese", []string{"水"}, 10)
	s.Require().NoError(err)
	s.Require().Len(conns, 4)

	// Semantic edges first by strength, then compound, then radical.
	s.Assert().Equal("冰", conns[0].TargetChar)
	s.Assert().Equal("河", conns[1].TargetChar)
	s.Assert().Equal("compound", conns[2].ConnectionType)
	s.Assert().Equal("radical", conns[3].ConnectionType)

	conns, err = s.repo.ConnectedTo(ctx, "chinese", []string{"水"}, 2)
	s.Require().NoError(err)
	s.Assert().Len(conns, 2, "limit applies")

	conns, err = s.repo.ConnectedTo(ctx, "chinese", []string{"火"}, 10)
	s.Require().NoError(err)
	s.Assert().Empty(conns, "unsupported edge types are excluded")

	conns, err = s.repo.ConnectedTo(ctx, "chinese", nil, 10)
	s.Require().NoError(err)
	s.Assert().Empty(conns)
}

func (s *ConnectionRepositorySuite) TestSemanticAmong() {
	ctx := context.Background()
	s.seedGraph()

	conns, err := s.repo.SemanticAmong(ctx, "chinese", []string{"水", "冰", "水果"})
	s.Require().NoError(err)
	s.Require().Len(conns, 1, "both endpoints must be in the group, semantic only")
	s.Assert().Equal("水", conns[0].SourceChar)
	s.Assert().Equal("冰", conns[0].TargetChar)

	conns, err = s.repo.SemanticAmong(ctx, "chinese", []string{"水"})
	s.Require().NoError(err)
	s.Assert().Empty(conns)
}

func TestConnectionRepositorySuite(t *testing.T) {
	suite.Run(t, new(ConnectionRepositorySuite))
}
