package repositories

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/suite"

	"github.com/turtacn/patent-prophet/internal/infrastructure/database/postgres"
	"github.com/turtacn/patent-prophet/internal/infrastructure/monitoring/logging"
	appErrors "github.com/turtacn/patent-prophet/pkg/errors"
)

type SearchRepoTestSuite struct {
	suite.Suite
	mock sqlmock.Sqlmock
	db   *sql.DB
	repo *SearchRepository
}

func (s *SearchRepoTestSuite) SetupTest() {
	var err error
	s.db, s.mock, err = sqlmock.New()
	s.NoError(err)

	logger := logging.NewNopLogger()
	conn := postgres.NewConnectionWithDB(s.db, logger)
	s.repo = NewSearchRepository(conn, logger)
}

func (s *SearchRepoTestSuite) TearDownTest() {
	s.NoError(s.mock.ExpectationsWereMet())
	s.db.Close()
}

func searchColumns() []string {
	return []string{"id", "title", "abstract", "publication_date", "ipc", "cpc", "assignee"}
}

func (s *SearchRepoTestSuite) TestSearch_ReturnsRowsWithInventors() {
	s.mock.ExpectQuery("(?s)SELECT.*FROM patents p.*ILIKE").
		WithArgs("%solar%", 12).
		WillReturnRows(sqlmock.NewRows(searchColumns()).
			AddRow("US123", "Solar panel", "A panel.", "2024-03-15", "H02S", "H02S20/00", "Acme").
			AddRow("US124", "Solar tracker", "", "", "", "", ""))

	s.mock.ExpectQuery("FROM inventors i").
		WithArgs("US123").
		WillReturnRows(sqlmock.NewRows([]string{"first_name", "last_name"}).
			AddRow("Jane", "Doe").
			AddRow("", "Smith"))
	s.mock.ExpectQuery("FROM inventors i").
		WithArgs("US124").
		WillReturnRows(sqlmock.NewRows([]string{"first_name", "last_name"}))

	rows, err := s.repo.Search(context.Background(), "solar", 12)
	s.NoError(err)
	s.Len(rows, 2)

	s.Equal("US123", rows[0].ID)
	s.Equal("Acme", rows[0].Assignee)
	s.Equal([]string{"Jane Doe", "Smith"}, rows[0].Inventors)

	s.Equal("US124", rows[1].ID)
	s.Empty(rows[1].Assignee)
	s.Empty(rows[1].Inventors)
}

func (s *SearchRepoTestSuite) TestSearch_DeduplicatesInventorNames() {
	s.mock.ExpectQuery("(?s)SELECT.*FROM patents p.*ILIKE").
		WithArgs("%battery%", 12).
		WillReturnRows(sqlmock.NewRows(searchColumns()).
			AddRow("US200", "Battery pack", "", "", "", "", ""))

	// Two inventor rows with distinct ids render to the same display
	// string; the rendered list keeps the name once.
	s.mock.ExpectQuery("FROM inventors i").
		WithArgs("US200").
		WillReturnRows(sqlmock.NewRows([]string{"first_name", "last_name"}).
			AddRow("Jane", "Doe").
			AddRow("Jane", "Doe").
			AddRow("John", "Roe"))

	rows, err := s.repo.Search(context.Background(), "battery", 12)
	s.NoError(err)
	s.Len(rows, 1)
	s.Equal([]string{"Jane Doe", "John Roe"}, rows[0].Inventors)
}

func (s *SearchRepoTestSuite) TestSearch_EmptyResult() {
	s.mock.ExpectQuery("FROM patents p").
		WithArgs("%nothing%", 5).
		WillReturnRows(sqlmock.NewRows(searchColumns()))

	rows, err := s.repo.Search(context.Background(), "nothing", 5)
	s.NoError(err)
	s.Empty(rows)
}

func (s *SearchRepoTestSuite) TestSearch_QueryError() {
	s.mock.ExpectQuery("FROM patents p").
		WillReturnError(sql.ErrConnDone)

	_, err := s.repo.Search(context.Background(), "solar", 12)
	s.Error(err)
	s.Equal(appErrors.CodeDBQueryError, appErrors.GetCode(err))
}

func TestSearchRepoTestSuite(t *testing.T) {
	suite.Run(t, new(SearchRepoTestSuite))
}
