package metadata

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/paulmach/orb"

	"commonsmeta/pkg/model"
)

// Extended metadata keys read by Summarize.
const (
	KeyDateTimeOriginal = "DateTimeOriginal"
	KeyDateTime         = "DateTime"
	KeyCategories       = "Categories"
	KeyLicense          = "License"
	KeyArtist           = "Artist"
	KeyLicenseURL       = "LicenseUrl"
	KeyCredit           = "Credit"
	KeyImageDescription = "ImageDescription"
	KeyGPSLatitude      = "GPSLatitude"
	KeyGPSLongitude     = "GPSLongitude"
)

// ErrAbsent is the Reason of an Optional field that is not in the response.
var ErrAbsent = errors.New("field not present")

// GPS is the camera location as returned by the API (decimal degrees, as text).
type GPS struct {
	Latitude  string
	Longitude string
}

var world = orb.Bound{Min: orb.Point{-180, -90}, Max: orb.Point{180, 90}}

// Point converts the location to an orb.Point (lon, lat).
func (g GPS) Point() (orb.Point, error) {
	lat, err := strconv.ParseFloat(strings.TrimSpace(g.Latitude), 64)
	if err != nil {
		return orb.Point{}, fmt.Errorf("invalid latitude %q: %w", g.Latitude, err)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(g.Longitude), 64)
	if err != nil {
		return orb.Point{}, fmt.Errorf("invalid longitude %q: %w", g.Longitude, err)
	}
	p := orb.Point{lon, lat}
	if !world.Contains(p) {
		return orb.Point{}, fmt.Errorf("coordinates out of range: %s, %s", g.Latitude, g.Longitude)
	}
	return p, nil
}

// Summary is the curated extended metadata of one file revision.
type Summary struct {
	Title string

	// required
	DateTimeOriginal string
	DateTime         string
	Categories       string
	License          string
	Artist           string

	LicenseURL       Optional[string]
	Credit           Text
	ImageDescription Text
	GPS              Optional[GPS]
}

// Summarize builds one Summary per imageinfo entry from its "extmetadata" facet.
// Missing required fields fail with model.ErrMissingField; an Artist value
// without anchor or span markup fails with extract.ErrNoMatch.
func Summarize(title string, entries []json.RawMessage) ([]*Summary, error) {
	out := make([]*Summary, 0, len(entries))
	for _, raw := range entries {
		var entry struct {
			ExtMetadata json.RawMessage `json:"extmetadata"`
		}
		if err := json.Unmarshal(raw, &entry); err != nil {
			return nil, fmt.Errorf("imageinfo entry: %w", err)
		}
		if entry.ExtMetadata == nil {
			return nil, model.MissingField("extmetadata", title)
		}

		ext, err := Decode(entry.ExtMetadata)
		if err != nil {
			return nil, fmt.Errorf("extmetadata for %s: %w", title, err)
		}
		if ext.Kind != KindMap {
			// An empty extmetadata comes back as [] rather than {}
			if ext.Kind == KindList && len(ext.Items) == 0 {
				return nil, model.MissingField(KeyDateTimeOriginal, title)
			}
			return nil, fmt.Errorf("%w: extmetadata for %s is a %s", ErrUnexpectedShape, title, ext.Kind)
		}

		s, err := summarizeEntry(title, ext)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func summarizeEntry(title string, ext Value) (*Summary, error) {
	s := &Summary{Title: title}

	required := []struct {
		key string
		dst *string
	}{
		{KeyDateTimeOriginal, &s.DateTimeOriginal},
		{KeyDateTime, &s.DateTime},
		{KeyCategories, &s.Categories},
		{KeyLicense, &s.License},
	}
	for _, r := range required {
		v, err := extValue(ext, r.key, title)
		if err != nil {
			return nil, err
		}
		*r.dst = v
	}

	artistRaw, err := extValue(ext, KeyArtist, title)
	if err != nil {
		return nil, err
	}
	if s.Artist, err = artistText(artistRaw); err != nil {
		return nil, fmt.Errorf("%s: %w", title, err)
	}

	if v, err := extValue(ext, KeyLicenseURL, title); err == nil {
		s.LicenseURL = some(v)
	} else {
		s.LicenseURL = none[string](err)
	}

	if v, err := extValue(ext, KeyCredit, title); err == nil {
		s.Credit = creditText(v)
	} else {
		return nil, err
	}

	if v, err := extValue(ext, KeyImageDescription, title); err == nil {
		s.ImageDescription = descriptionText(v)
	} else {
		return nil, err
	}

	// latitude and longitude are one unit
	lat, errLat := extValue(ext, KeyGPSLatitude, title)
	lon, errLon := extValue(ext, KeyGPSLongitude, title)
	switch {
	case errLat != nil:
		s.GPS = none[GPS](errLat)
	case errLon != nil:
		s.GPS = none[GPS](errLon)
	default:
		s.GPS = some(GPS{Latitude: lat, Longitude: lon})
	}

	return s, nil
}

// extValue returns ext[key]["value"] as text.
func extValue(ext Value, key, title string) (string, error) {
	field, ok := ext.Member(key)
	if !ok {
		return "", fmt.Errorf("%w: %w", ErrAbsent, model.MissingField(key, title))
	}
	v, ok := field.Member("value")
	if !ok {
		return "", model.MissingField(key+".value", title)
	}
	return v.String(), nil
}

// Lines renders the summary in its fixed field order. Optional fields that
// are absent produce no line.
func (s *Summary) Lines() []Line {
	lines := []Line{
		newLine(s.DateTimeOriginal, KeyDateTimeOriginal),
		newLine(s.DateTime, KeyDateTime),
		newLine(s.Categories, KeyCategories),
		newLine(s.License, KeyLicense),
		newLine(s.Artist, KeyArtist),
	}
	if s.LicenseURL.Present {
		lines = append(lines, newLine(s.LicenseURL.Value, KeyLicenseURL))
	}
	lines = append(lines,
		newLine(s.Credit.Value, KeyCredit),
		newLine(s.ImageDescription.Value, KeyImageDescription),
	)
	if s.GPS.Present {
		lines = append(lines,
			newLine(s.GPS.Value.Latitude, KeyGPSLatitude),
			newLine(s.GPS.Value.Longitude, KeyGPSLongitude),
		)
	}
	return lines
}

// Notes lists the reasons optional fields were skipped or fell back to raw values.
func (s *Summary) Notes() []string {
	var notes []string
	if !s.LicenseURL.Present && s.LicenseURL.Reason != nil {
		notes = append(notes, s.LicenseURL.Reason.Error())
	}
	if s.Credit.Fallback {
		notes = append(notes, s.Credit.Reason.Error())
	}
	if s.ImageDescription.Fallback {
		notes = append(notes, s.ImageDescription.Reason.Error())
	}
	if !s.GPS.Present && s.GPS.Reason != nil {
		notes = append(notes, s.GPS.Reason.Error())
	}
	return notes
}
