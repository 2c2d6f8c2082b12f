package settings

import (
	"bytes"
	"encoding/json"
	"strings"
)

// DefaultXSOverlayPort is the UDP port XSOverlay listens on for
// notification payloads.
const DefaultXSOverlayPort = 42069

// Record holds every user-configurable option. Fields are independent;
// there are no cross-field invariants. JSON keys match the names the
// settings file has always used.
type Record struct {
	// DataLocation is a custom root directory for save data.
	DataLocation string `json:"DataLocation,omitempty" yaml:"DataLocation,omitempty"`

	// AutoCopy copies newly detected save codes as they appear.
	AutoCopy bool `json:"AutoCopy" yaml:"AutoCopy"`

	// PlayAudio plays a sound when a new save is detected.
	PlayAudio bool `json:"PlayAudio" yaml:"PlayAudio"`

	// AudioLocation is a custom notification sound. Must be a .wav file;
	// the format is checked by the audio player, not here.
	AudioLocation string `json:"AudioLocation,omitempty" yaml:"AudioLocation,omitempty"`

	SaveNames      bool `json:"SaveNames" yaml:"SaveNames"`
	SaveRoundInfo  bool `json:"SaveRoundInfo" yaml:"SaveRoundInfo"`
	ShowWinLose    bool `json:"ShowWinLose" yaml:"ShowWinLose"`
	SaveRoundNote  bool `json:"SaveRoundNote" yaml:"SaveRoundNote"`
	SkipParsedLogs bool `json:"SkipParsedLogs" yaml:"SkipParsedLogs"`

	// XSOverlay sends popup notifications to XSOverlay on XSOverlayPort.
	XSOverlay     bool `json:"XSOverlay" yaml:"XSOverlay"`
	XSOverlayPort int  `json:"XSOverlayPort" yaml:"XSOverlayPort"`

	// Time format.
	Use24Hour   bool `json:"Use24Hour" yaml:"Use24Hour"`
	ShowSeconds bool `json:"ShowSeconds" yaml:"ShowSeconds"`
	InvertMD    bool `json:"InvertMD" yaml:"InvertMD"`
	ShowDate    bool `json:"ShowDate" yaml:"ShowDate"`

	ColorfulObjectives bool `json:"ColorfulObjectives" yaml:"ColorfulObjectives"`

	// IgnoreRelease is a release tag the user chose not to update to.
	IgnoreRelease string `json:"IgnoreRelease,omitempty" yaml:"IgnoreRelease,omitempty"`

	RecordInstanceLogs bool `json:"RecordInstanceLogs" yaml:"RecordInstanceLogs"`
}

// Defaults returns a record with every field at its default value.
func Defaults() *Record {
	return &Record{
		SaveRoundInfo:      true,
		ShowWinLose:        true,
		SaveRoundNote:      true,
		SkipParsedLogs:     true,
		XSOverlayPort:      DefaultXSOverlayPort,
		Use24Hour:          true,
		ShowSeconds:        true,
		ColorfulObjectives: true,
	}
}

// UnmarshalJSON decodes on top of the receiver's current values, so
// absent keys keep whatever the receiver held. The descriptive aliases
// xsOverlayEnabled and invertMonthDay are honored when the stored key is
// missing.
func (r *Record) UnmarshalJSON(data []byte) error {
	type plain Record
	aux := struct {
		*plain
		XSOverlayEnabled *bool `json:"xsOverlayEnabled"`
		InvertMonthDay   *bool `json:"invertMonthDay"`
	}{plain: (*plain)(r)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if aux.XSOverlayEnabled == nil && aux.InvertMonthDay == nil {
		return nil
	}

	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return err
	}
	if aux.XSOverlayEnabled != nil && !hasKey(keys, "XSOverlay") {
		r.XSOverlay = *aux.XSOverlayEnabled
	}
	if aux.InvertMonthDay != nil && !hasKey(keys, "InvertMD") {
		r.InvertMD = *aux.InvertMonthDay
	}
	return nil
}

func hasKey(keys map[string]json.RawMessage, name string) bool {
	for k := range keys {
		if strings.EqualFold(k, name) {
			return true
		}
	}
	return false
}

// Decode parses a settings document. Keys absent from data take their
// default. Empty input and a literal null are reported as errors so the
// caller can tell "nothing usable" from a real record.
func Decode(data []byte) (*Record, error) {
	trimmed := bytes.TrimSpace(data)
	switch {
	case len(trimmed) == 0:
		return nil, ErrEmptyDocument
	case bytes.Equal(trimmed, []byte("null")):
		return nil, ErrNullDocument
	}

	rec := Defaults()
	if err := json.Unmarshal(trimmed, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// Encode renders r in the on-disk form.
func Encode(r *Record) ([]byte, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
