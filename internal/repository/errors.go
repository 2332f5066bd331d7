// Package repository implements MySQL persistence for the directory
// (users, refresh tokens) and for the collection documents behind the
// storage port.  Sentinel errors let the service layer tell missing rows
// and uniqueness conflicts apart from infrastructure failures.
package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// ErrUserNotFound is returned when no users row matches the lookup.
var ErrUserNotFound = errors.New("user not found")

// ErrEmailExists is returned when inserting a user whose email is taken.
var ErrEmailExists = errors.New("email already exists")

// ErrTokenInvalid is returned for refresh tokens that are unknown, expired
// or revoked.
var ErrTokenInvalid = errors.New("refresh token invalid")

const mysqlDuplicateEntry = 1062

func isDuplicate(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == mysqlDuplicateEntry
}
