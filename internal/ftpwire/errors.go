package ftpwire

import (
	"errors"
	"fmt"
)

// ReplyError is an FTP reply with a failure code, carrying enough of
// the conversation to tell a permission denial from a protocol fault.
type ReplyError struct {
	// Cmd is the FTP command that drew the reply (e.g. "CWD").
	Cmd string

	// Code is the three-digit reply code (e.g. 550).
	Code int

	// Message is the server's reply text.
	Message string
}

// Error implements the error interface.
func (e *ReplyError) Error() string {
	return fmt.Sprintf("ftp: %s failed: %s (code %d)", e.Cmd, e.Message, e.Code)
}

// Permission reports whether the reply is a permanent-failure (5xx)
// reply. This mirrors the permission-error class of classic FTP
// clients: "550 Permission denied", "550 No such directory", and
// friends all land here.
func (e *ReplyError) Permission() bool {
	return e.Code >= 500 && e.Code < 600
}

// IsPermission reports whether err is (or wraps) a permission-class
// reply error. Directory walkers use this to decide skip versus abort:
// a permission denial skips one directory, anything else kills the
// session.
func IsPermission(err error) bool {
	var re *ReplyError
	return errors.As(err, &re) && re.Permission()
}
