// Package repository contains the MySQL data access layer.  This file
// defines sentinel errors shared by the repositories so that higher layers
// can distinguish failure scenarios without inspecting driver errors.
package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

var (
	// ErrScreeningNotFound is returned when a screening row does not exist.
	ErrScreeningNotFound = errors.New("screening not found")
	// ErrMovieNotFound is returned when a movie row does not exist.
	ErrMovieNotFound = errors.New("movie not found")
	// ErrBookingNotFound is returned when a booking row does not exist.
	ErrBookingNotFound = errors.New("booking not found")
	// ErrDuplicateActiveSeat is returned when an insert collides with the
	// unique (screening_id, active_seat) key.
	ErrDuplicateActiveSeat = errors.New("seat already has an active booking")
	// ErrUsernameExists is returned on signup with a taken username.
	ErrUsernameExists = errors.New("username already exists")
	// ErrTokenInvalid is returned for unknown, expired or revoked refresh tokens.
	ErrTokenInvalid = errors.New("refresh token invalid")
)

// MySQL server error numbers inspected by the repositories.
const (
	mysqlErrDupEntry      = 1062
	mysqlErrNoReferenced  = 1452
	mysqlErrDeadlock      = 1213
	mysqlErrLockWaitLimit = 1205
)

func mysqlErrNumber(err error) uint16 {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me.Number
	}
	return 0
}

func isDuplicateKey(err error) bool { return mysqlErrNumber(err) == mysqlErrDupEntry }

func isMissingReference(err error) bool { return mysqlErrNumber(err) == mysqlErrNoReferenced }

// IsLockConflict reports whether err is an InnoDB deadlock or lock wait
// timeout.  The transaction that received it has been rolled back and may
// be retried from the start.
func IsLockConflict(err error) bool {
	switch mysqlErrNumber(err) {
	case mysqlErrDeadlock, mysqlErrLockWaitLimit:
		return true
	}
	return false
}
