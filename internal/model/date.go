package model

import (
    "database/sql/driver"
    "fmt"
    "time"
)

// DateLayout is the wire and storage format of a show date.
const DateLayout = "2006-01-02"

// ShowDate is a calendar date without a time component.
type ShowDate struct {
    t time.Time
}

// ParseShowDate parses a YYYY-MM-DD string.
func ParseShowDate(s string) (ShowDate, error) {
    t, err := time.Parse(DateLayout, s)
    if err != nil {
        return ShowDate{}, fmt.Errorf("invalid show date %q: %w", s, err)
    }
    return ShowDate{t: t}, nil
}

// DateOf truncates t to its calendar date in UTC.
func DateOf(t time.Time) ShowDate {
    y, m, d := t.UTC().Date()
    return ShowDate{t: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// String formats the date as YYYY-MM-DD.
func (d ShowDate) String() string { return d.t.Format(DateLayout) }

// IsZero reports whether the date is unset.
func (d ShowDate) IsZero() bool { return d.t.IsZero() }

// Before reports whether d is strictly earlier than o.
func (d ShowDate) Before(o ShowDate) bool { return d.t.Before(o.t) }

// MarshalText implements encoding.TextMarshaler.
func (d ShowDate) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *ShowDate) UnmarshalText(b []byte) error {
    v, err := ParseShowDate(string(b))
    if err != nil {
        return err
    }
    *d = v
    return nil
}

// Value implements driver.Valuer so a ShowDate binds as a DATE literal.
func (d ShowDate) Value() (driver.Value, error) {
    return d.String(), nil
}

// Scan implements sql.Scanner for DATE columns read with or without
// parseTime.
func (d *ShowDate) Scan(src any) error {
    switch v := src.(type) {
    case time.Time:
        *d = DateOf(v)
        return nil
    case []byte:
        return d.UnmarshalText(v)
    case string:
        return d.UnmarshalText([]byte(v))
    case nil:
        *d = ShowDate{}
        return nil
    }
    return fmt.Errorf("cannot scan %T into ShowDate", src)
}
