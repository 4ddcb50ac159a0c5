package store

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/collegefest/festadmin/internal/domain"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// attachmentColumns scans the three inline attachment columns. The content
// type column decides presence; the columns are written together.
type attachmentColumns struct {
	data        []byte
	contentType sql.NullString
	filename    sql.NullString
}

func (c *attachmentColumns) attachment() domain.Attachment {
	if !c.contentType.Valid {
		return domain.Attachment{}
	}
	return domain.Attachment{
		Present:     true,
		Data:        c.data,
		ContentType: c.contentType.String,
		Filename:    c.filename.String,
	}
}

// attachmentArgs returns the data, content type and filename bind values for
// a, all NULL when a is absent.
func attachmentArgs(a domain.Attachment) (any, any, any) {
	if !a.Present {
		return nil, nil, nil
	}
	data := a.Data
	if data == nil {
		data = []byte{}
	}
	return data, a.ContentType, a.Filename
}

// isUniqueViolation reports whether err is a SQLite UNIQUE constraint failure
// on the given table.column.
func isUniqueViolation(err error, column string) bool {
	var serr *sqlite.Error
	if !errors.As(err, &serr) {
		return false
	}
	if serr.Code()&0xff != sqlite3.SQLITE_CONSTRAINT {
		return false
	}
	return strings.Contains(serr.Error(), column)
}
