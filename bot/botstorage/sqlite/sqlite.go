package sqlite

import (
	"database/sql"
	"errors"
	"time"

	"github.com/goserg/clubsite/bot/botstorage"
	dbmodel "github.com/goserg/clubsite/bot/gen/model"
	"github.com/goserg/clubsite/bot/gen/table"
	"github.com/goserg/clubsite/bot/model"
	"github.com/goserg/clubsite/internal/config"
	"github.com/goserg/clubsite/internal/migrate"

	"github.com/go-jet/jet/v2/qrm"
	"github.com/go-jet/jet/v2/sqlite"
	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
)

type Storage struct {
	db  *sql.DB
	log *logrus.Entry
	now func() time.Time
}

var _ botstorage.BotStorage = (*Storage)(nil)

func New(l *logrus.Logger, cfg config.TgBot) (*Storage, error) {
	log := l.WithField("name", "bot-storage")
	db, err := sql.Open("sqlite3", buildSource(cfg.SqliteFile))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	err = migrate.UpBotDB(db)
	if err != nil {
		db.Close()
		return nil, err
	}

	err = db.Ping()
	if err != nil {
		db.Close()
		return nil, err
	}
	log.Info("bot storage connected")
	return &Storage{
		db:  db,
		log: log,
		now: func() time.Time { return time.Now().UTC() },
	}, nil
}

func buildSource(fileName string) string {
	return "file:" + fileName + "?cache=shared&_foreign_keys=on"
}

func (s *Storage) Close() error {
	return s.db.Close()
}

// NewUser stores a chat user with the default role.
func (s *Storage) NewUser(user model.User) (model.User, error) {
	if user.Role == 0 {
		user.Role = model.RoleUser
	}
	tx, err := s.db.Begin()
	if err != nil {
		return model.User{}, err
	}
	defer tx.Rollback()

	var dbuser dbmodel.Users
	err = table.Users.
		INSERT(table.Users.AllColumns).
		MODEL(convertUserFromDomain(user)).
		RETURNING(table.Users.AllColumns).
		Query(tx, &dbuser)
	if err != nil {
		return model.User{}, err
	}
	_, err = table.UserRoles.
		INSERT(table.UserRoles.AllColumns).
		MODEL(dbmodel.UserRoles{UserID: user.ID, RoleID: int64(user.Role)}).
		Exec(tx)
	if err != nil {
		return model.User{}, err
	}
	if err := tx.Commit(); err != nil {
		return model.User{}, err
	}
	created := convertUserToDomain(dbuser)
	created.Role = user.Role
	return created, nil
}

func convertUserFromDomain(user model.User) dbmodel.Users {
	return dbmodel.Users{
		ID:        user.ID,
		FirstName: user.FirstName,
		Username:  user.Username,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

func convertUserToDomain(user dbmodel.Users) model.User {
	return model.User{
		ID:        user.ID,
		FirstName: user.FirstName,
		Username:  user.Username,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

type getUserModel struct {
	dbmodel.Users
	UserRoles dbmodel.UserRoles
}

func (s *Storage) GetUser(id int64) (model.User, error) {
	var dest getUserModel
	err := table.Users.
		SELECT(table.Users.AllColumns, table.UserRoles.AllColumns).
		FROM(table.Users.
			INNER_JOIN(table.UserRoles, table.UserRoles.UserID.EQ(table.Users.ID)),
		).
		WHERE(table.Users.ID.EQ(sqlite.Int(id))).
		Query(s.db, &dest)
	if err != nil {
		if errors.Is(err, qrm.ErrNoRows) {
			return model.User{}, botstorage.ErrNotFound
		}
		return model.User{}, err
	}
	user := convertUserToDomain(dest.Users)
	user.Role = model.UserRole(dest.UserRoles.RoleID)

	subs, err := s.subscriptions(id)
	if err != nil {
		return model.User{}, err
	}
	user.Subscriptions = subs
	return user, nil
}

func (s *Storage) subscriptions(userID int64) ([]model.EventType, error) {
	var rows []dbmodel.UserEvents
	err := table.UserEvents.
		SELECT(table.UserEvents.AllColumns).
		WHERE(table.UserEvents.UserID.EQ(sqlite.Int(userID))).
		Query(s.db, &rows)
	if err != nil && !errors.Is(err, qrm.ErrNoRows) {
		return nil, err
	}
	events := make([]model.EventType, 0, len(rows))
	for i := range rows {
		events = append(events, model.EventType(rows[i].Event))
	}
	return events, nil
}

func (s *Storage) ListUsers() ([]model.User, error) {
	var dest []getUserModel
	err := table.Users.
		SELECT(table.Users.AllColumns, table.UserRoles.AllColumns).
		FROM(table.Users.
			INNER_JOIN(table.UserRoles, table.UserRoles.UserID.EQ(table.Users.ID)),
		).
		ORDER_BY(table.Users.ID.ASC()).
		Query(s.db, &dest)
	if err != nil && !errors.Is(err, qrm.ErrNoRows) {
		return nil, err
	}

	var events []dbmodel.UserEvents
	err = table.UserEvents.
		SELECT(table.UserEvents.AllColumns).
		Query(s.db, &events)
	if err != nil && !errors.Is(err, qrm.ErrNoRows) {
		return nil, err
	}
	byUser := make(map[int64][]model.EventType)
	for i := range events {
		byUser[events[i].UserID] = append(byUser[events[i].UserID], model.EventType(events[i].Event))
	}

	users := make([]model.User, 0, len(dest))
	for i := range dest {
		u := convertUserToDomain(dest[i].Users)
		u.Role = model.UserRole(dest[i].UserRoles.RoleID)
		u.Subscriptions = byUser[u.ID]
		users = append(users, u)
	}
	return users, nil
}

func (s *Storage) UpdateUserRole(user model.User) error {
	_, err := table.UserRoles.
		UPDATE(table.UserRoles.RoleID).
		SET(sqlite.Int(int64(user.Role))).
		WHERE(table.UserRoles.UserID.EQ(sqlite.Int(user.ID))).
		Exec(s.db)
	return err
}

// Subscribe is idempotent.
func (s *Storage) Subscribe(user model.User, event model.EventType) error {
	_, err := table.UserEvents.
		INSERT(table.UserEvents.AllColumns).
		MODEL(dbmodel.UserEvents{UserID: user.ID, Event: string(event)}).
		ON_CONFLICT(table.UserEvents.UserID, table.UserEvents.Event).
		DO_NOTHING().
		Exec(s.db)
	return err
}

func (s *Storage) Unsubscribe(user model.User, event model.EventType) error {
	_, err := table.UserEvents.
		DELETE().
		WHERE(
			table.UserEvents.UserID.EQ(sqlite.Int(user.ID)).
				AND(table.UserEvents.Event.EQ(sqlite.String(string(event)))),
		).Exec(s.db)
	return err
}

func (s *Storage) Log(user model.User, msg string) error {
	message := dbmodel.Log{
		UserID:    user.ID,
		Message:   msg,
		CreatedAt: s.now(),
	}
	_, err := table.Log.
		INSERT(table.Log.UserID, table.Log.Message, table.Log.CreatedAt).
		MODEL(message).
		Exec(s.db)
	return err
}

func (s *Storage) Unnotified(emailIDs []int) ([]int, error) {
	if len(emailIDs) == 0 {
		return nil, nil
	}
	ids := make([]sqlite.Expression, 0, len(emailIDs))
	for _, id := range emailIDs {
		ids = append(ids, sqlite.Int(int64(id)))
	}
	var rows []dbmodel.NotifiedEmails
	err := table.NotifiedEmails.
		SELECT(table.NotifiedEmails.AllColumns).
		WHERE(table.NotifiedEmails.EmailID.IN(ids...)).
		Query(s.db, &rows)
	if err != nil && !errors.Is(err, qrm.ErrNoRows) {
		return nil, err
	}
	seen := make(map[int]struct{}, len(rows))
	for i := range rows {
		seen[int(rows[i].EmailID)] = struct{}{}
	}
	var fresh []int
	for _, id := range emailIDs {
		if _, ok := seen[id]; !ok {
			fresh = append(fresh, id)
		}
	}
	return fresh, nil
}

func (s *Storage) MarkNotified(email model.NotifiedEmail) error {
	if email.NotifiedAt.IsZero() {
		email.NotifiedAt = s.now()
	}
	email.NotifiedAt = email.NotifiedAt.UTC()
	_, err := table.NotifiedEmails.
		INSERT(table.NotifiedEmails.AllColumns).
		MODEL(dbmodel.NotifiedEmails{
			EmailID:    int64(email.EmailID),
			Subject:    email.Subject,
			NotifiedAt: email.NotifiedAt,
		}).
		ON_CONFLICT(table.NotifiedEmails.EmailID).
		DO_NOTHING().
		Exec(s.db)
	return err
}

func (s *Storage) LastNotified() (model.NotifiedEmail, error) {
	var row dbmodel.NotifiedEmails
	err := table.NotifiedEmails.
		SELECT(table.NotifiedEmails.AllColumns).
		ORDER_BY(table.NotifiedEmails.NotifiedAt.DESC()).
		LIMIT(1).
		Query(s.db, &row)
	if err != nil {
		if errors.Is(err, qrm.ErrNoRows) {
			return model.NotifiedEmail{}, botstorage.ErrNotFound
		}
		return model.NotifiedEmail{}, err
	}
	return model.NotifiedEmail{
		EmailID:    int(row.EmailID),
		Subject:    row.Subject,
		NotifiedAt: row.NotifiedAt,
	}, nil
}

func (s *Storage) CountNotifiedSince(t time.Time) (int, error) {
	var dest struct {
		Count int64
	}
	err := table.NotifiedEmails.
		SELECT(sqlite.COUNT(table.NotifiedEmails.EmailID).AS("count")).
		WHERE(table.NotifiedEmails.NotifiedAt.GT_EQ(sqlite.TimestampT(t.UTC()))).
		Query(s.db, &dest)
	if err != nil {
		return 0, err
	}
	return int(dest.Count), nil
}
