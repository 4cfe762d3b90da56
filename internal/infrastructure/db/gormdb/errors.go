package gormdb

import (
	"errors"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/warbler/warbler/internal/core/domain"
)

var (
	sqliteConstraint = regexp.MustCompile(`(UNIQUE|NOT NULL|CHECK|FOREIGN KEY) constraint failed(?:: ([^()]+))?`)
	pgKeyDetail      = regexp.MustCompile(`Key \(([^)]+)\)`)
)

var entities = map[string]string{
	"users":    "user",
	"messages": "message",
	"follows":  "follow",
}

// translate turns a driver constraint failure into a *domain.IntegrityError.
// Any other error is returned unchanged.
func translate(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return translatePostgres(pgErr, err)
	}
	if m := sqliteConstraint.FindStringSubmatch(err.Error()); m != nil {
		return translateSQLite(m[1], strings.TrimSpace(m[2]), err)
	}
	return err
}

func translatePostgres(pgErr *pgconn.PgError, err error) error {
	ie := &domain.IntegrityError{Entity: entities[pgErr.TableName], Err: err}
	switch pgErr.Code {
	case "23505":
		ie.Kind = domain.ViolationUnique
		if m := pgKeyDetail.FindStringSubmatch(pgErr.Detail); m != nil {
			ie.Field = strings.ReplaceAll(m[1], " ", "")
		}
	case "23502":
		ie.Kind = domain.ViolationNotNull
		ie.Field = pgErr.ColumnName
	case "23503":
		ie.Kind = domain.ViolationForeignKey
		ie.Field = pgErr.ConstraintName
	case "23514":
		ie.Kind = domain.ViolationCheck
		ie.Field = pgErr.ConstraintName
	default:
		return err
	}
	return ie
}

// translateSQLite handles messages such as
// "UNIQUE constraint failed: users.email" and
// "UNIQUE constraint failed: follows.follower_id, follows.followed_id".
func translateSQLite(kind, target string, err error) error {
	ie := &domain.IntegrityError{Err: err}
	switch kind {
	case "UNIQUE":
		ie.Kind = domain.ViolationUnique
	case "NOT NULL":
		ie.Kind = domain.ViolationNotNull
	case "CHECK":
		ie.Kind = domain.ViolationCheck
		ie.Field = target
		ie.Entity = checkEntity(target)
		return ie
	case "FOREIGN KEY":
		ie.Kind = domain.ViolationForeignKey
		return ie
	}

	var fields []string
	for _, col := range strings.Split(target, ",") {
		table, field, ok := strings.Cut(strings.TrimSpace(col), ".")
		if !ok {
			continue
		}
		ie.Entity = entities[table]
		fields = append(fields, field)
	}
	ie.Field = strings.Join(fields, ",")
	return ie
}

func checkEntity(constraint string) string {
	for table, entity := range entities {
		if strings.Contains(constraint, "_"+table+"_") {
			return entity
		}
	}
	return ""
}
