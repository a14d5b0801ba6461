package store

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"gorm.io/gorm/schema"

	"taxmind/internal/models"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()

	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: conn}), &gorm.Config{
		NamingStrategy: schema.NamingStrategy{SingularTable: true},
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	return New(db), mock
}

func TestTeamsWithChat(t *testing.T) {
	st, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "team" WHERE chat_id IS NOT NULL`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "chat_id", "name"}).
			AddRow(1, int64(-100), "Accounting").
			AddRow(2, int64(-200), "Payroll"))

	teams, err := st.TeamsWithChat(context.Background())
	require.NoError(t, err)
	require.Len(t, teams, 2)
	assert.Equal(t, int64(-100), teams[0].ChatID)
	assert.Equal(t, "Payroll", teams[1].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeamByChatIDNotFound(t *testing.T) {
	st, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "team" WHERE chat_id = $1`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "chat_id", "name"}))

	_, err := st.TeamByChatID(context.Background(), -999)
	assert.ErrorIs(t, err, ErrTeamNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHasSubmission(t *testing.T) {
	st, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "submission" WHERE company_tax_id = $1 AND form_code = $2 AND period = $3`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	filed, err := st.HasSubmission(context.Background(), "0312345678", "01/GTGT", "12/2023")
	require.NoError(t, err)
	assert.True(t, filed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddRequirementDuplicate(t *testing.T) {
	st, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "requirement" WHERE company_tax_id = $1 AND form_code = $2 AND frequency = $3`)).
		WithArgs("0312345678", "01/GTGT", "monthly").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	err := st.AddRequirement(context.Background(), models.Requirement{
		CompanyTaxID: "0312345678",
		FormCode:     "01/GTGT",
		Frequency:    models.Monthly,
	})
	assert.ErrorIs(t, err, ErrDuplicateRequirement)
	// no INSERT was expected: the duplicate check short-circuits
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddRequirementInserts(t *testing.T) {
	st, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "requirement"`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "requirement"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectCommit()

	err := st.AddRequirement(context.Background(), models.Requirement{
		CompanyTaxID: "0312345678",
		FormCode:     "01/GTGT",
		Frequency:    models.Monthly,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertReminderSentStampsSentAt(t *testing.T) {
	st, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "reminder_sent"`)).
		WithArgs(uint(5), "2024-01-20", models.ModeHourly, sqlmock.AnyArg(), "hourly reminder").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	err := st.InsertReminderSent(context.Background(), models.ReminderSent{
		RequirementID: 5,
		RemindForDate: "2024-01-20",
		Mode:          models.ModeHourly,
		Note:          "hourly reminder",
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLastHourlySentAt(t *testing.T) {
	st, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "reminder_sent" WHERE requirement_id = $1 AND remind_for_date = $2 AND mode = $3 ORDER BY sent_at DESC`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "requirement_id", "remind_for_date", "mode", "sent_at", "note"}).
			AddRow(3, 5, "2024-01-20", models.ModeHourly, "2024-01-20 03:00:00", ""))

	raw, found, err := st.LastHourlySentAt(context.Background(), 5, "2024-01-20")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "2024-01-20 03:00:00", raw)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLastHourlySentAtMissing(t *testing.T) {
	st, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "reminder_sent"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, found, err := st.LastHourlySentAt(context.Background(), 5, "2024-01-20")
	require.NoError(t, err)
	assert.False(t, found)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHolidaysSkipsMalformedRows(t *testing.T) {
	st, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "holiday"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "date", "name"}).
			AddRow(1, "2024-04-30", "Reunification Day").
			AddRow(2, "not-a-date", "broken row"))

	set, err := st.Holidays(context.Background())
	require.NoError(t, err)
	assert.Contains(t, set, "2024-04-30")
	assert.NotContains(t, set, "not-a-date")
	assert.NoError(t, mock.ExpectationsWereMet())
}
