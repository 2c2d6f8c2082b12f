package settings

import (
	"strconv"
	"strings"
)

// Kind is the value type of a setting.
type Kind string

const (
	KindBool   Kind = "bool"
	KindInt    Kind = "int"
	KindString Kind = "string"
)

// Field describes one setting: its stored key, an optional descriptive
// alias, its type and a short description.
type Field struct {
	Key   string
	Alias string
	Kind  Kind
	Doc   string

	get func(*Record) string
	set func(*Record, string) error
}

// Value formats the field's value in r.
func (f Field) Value(r *Record) string { return f.get(r) }

// Default formats the field's default value.
func (f Field) Default() string { return f.get(Defaults()) }

// Set parses value according to the field kind and stores it in r.
func (f Field) Set(r *Record, value string) error { return f.set(r, value) }

func boolField(key, alias, doc string, ptr func(*Record) *bool) Field {
	f := Field{Key: key, Alias: alias, Kind: KindBool, Doc: doc}
	f.get = func(r *Record) string { return strconv.FormatBool(*ptr(r)) }
	f.set = func(r *Record, v string) error {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return &InvalidValueError{Key: key, Value: v, Kind: KindBool}
		}
		*ptr(r) = b
		return nil
	}
	return f
}

func intField(key, alias, doc string, ptr func(*Record) *int) Field {
	f := Field{Key: key, Alias: alias, Kind: KindInt, Doc: doc}
	f.get = func(r *Record) string { return strconv.Itoa(*ptr(r)) }
	f.set = func(r *Record, v string) error {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return &InvalidValueError{Key: key, Value: v, Kind: KindInt}
		}
		*ptr(r) = n
		return nil
	}
	return f
}

func stringField(key, alias, doc string, ptr func(*Record) *string) Field {
	f := Field{Key: key, Alias: alias, Kind: KindString, Doc: doc}
	f.get = func(r *Record) string { return *ptr(r) }
	f.set = func(r *Record, v string) error {
		*ptr(r) = v
		return nil
	}
	return f
}

var fields = []Field{
	stringField("DataLocation", "dataLocation", "custom location where save data is stored",
		func(r *Record) *string { return &r.DataLocation }),
	boolField("AutoCopy", "autoCopy", "copy newly detected save codes automatically",
		func(r *Record) *bool { return &r.AutoCopy }),
	boolField("PlayAudio", "playAudio", "play a sound when a new save is detected",
		func(r *Record) *bool { return &r.PlayAudio }),
	stringField("AudioLocation", "audioLocation", "custom notification sound (.wav)",
		func(r *Record) *string { return &r.AudioLocation }),
	boolField("SaveNames", "saveNames", "store the players present when a save is made",
		func(r *Record) *bool { return &r.SaveNames }),
	boolField("SaveRoundInfo", "saveRoundInfo", "store the terrors survived with each save",
		func(r *Record) *bool { return &r.SaveRoundInfo }),
	boolField("ShowWinLose", "showWinLose", "show the round result next to each save",
		func(r *Record) *bool { return &r.ShowWinLose }),
	boolField("SaveRoundNote", "saveRoundNote", "note the survived terrors on each save",
		func(r *Record) *bool { return &r.SaveRoundNote }),
	boolField("SkipParsedLogs", "skipParsedLogs", "skip logs already parsed at startup",
		func(r *Record) *bool { return &r.SkipParsedLogs }),
	boolField("XSOverlay", "xsOverlayEnabled", "send popup notifications to XSOverlay",
		func(r *Record) *bool { return &r.XSOverlay }),
	intField("XSOverlayPort", "xsOverlayPort", "XSOverlay notification port",
		func(r *Record) *int { return &r.XSOverlayPort }),
	boolField("Use24Hour", "use24Hour", "use a 24 hour clock",
		func(r *Record) *bool { return &r.Use24Hour }),
	boolField("ShowSeconds", "showSeconds", "include seconds in times",
		func(r *Record) *bool { return &r.ShowSeconds }),
	boolField("InvertMD", "invertMonthDay", "put the day before the month",
		func(r *Record) *bool { return &r.InvertMD }),
	boolField("ShowDate", "showDate", "show the full date in entries",
		func(r *Record) *bool { return &r.ShowDate }),
	boolField("ColorfulObjectives", "colorfulObjectives", "color objective items like in game",
		func(r *Record) *bool { return &r.ColorfulObjectives }),
	stringField("IgnoreRelease", "ignoreRelease", "release tag the update prompt was dismissed for",
		func(r *Record) *string { return &r.IgnoreRelease }),
	boolField("RecordInstanceLogs", "recordInstanceLogs", "capture the logs generated in the world",
		func(r *Record) *bool { return &r.RecordInstanceLogs }),
}

// Fields lists every setting in file order.
func Fields() []Field {
	return append([]Field(nil), fields...)
}

// Lookup finds a field by stored key or alias, ignoring case.
func Lookup(key string) (Field, bool) {
	key = strings.TrimSpace(key)
	for _, f := range fields {
		if strings.EqualFold(f.Key, key) || strings.EqualFold(f.Alias, key) {
			return f, true
		}
	}
	return Field{}, false
}

// Get formats the value of key in the live record.
func (s *Store) Get(key string) (string, error) {
	f, ok := Lookup(key)
	if !ok {
		return "", &UnknownKeyError{Key: key}
	}
	return f.Value(s.record), nil
}

// Set parses value and stores it under key in the live record. Nothing is
// written to disk until Export.
func (s *Store) Set(key, value string) error {
	f, ok := Lookup(key)
	if !ok {
		return &UnknownKeyError{Key: key}
	}
	if err := f.Set(s.record, value); err != nil {
		return err
	}
	s.logger.Debug("setting changed", "key", f.Key, "value", f.Value(s.record))
	return nil
}
