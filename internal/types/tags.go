package types

import (
	"iter"
	"slices"
	"strconv"
	"strings"
)

// Tags represents the metadata carried by an Ogg comment header.
//
// Common fields are mapped to struct fields. Every comment, mapped or not,
// is also kept in the raw table in the order it was first seen, so unknown
// fields survive a read-modify-write cycle.
//
// Field names are case-insensitive and stored upper-case.
type Tags struct {
	raw         map[string][]string
	order       []string
	Vendor      string
	Title       string
	Artist      string
	Album       string
	AlbumArtist string
	Date        string
	Comment     string
	Copyright   string
	Publisher   string
	Label       string
	ISRC        string
	Artists     []string
	Genres      []string
	Composers   []string
	Performers  []string
	TrackNumber int
	TrackTotal  int
	DiscNumber  int
	DiscTotal   int
	Year        int
}

// All returns an iterator over all raw tags in first-seen order.
//
// Example:
//
//	for key, values := range file.Tags.All() {
//		fmt.Printf("%s: %v\n", key, values)
//	}
//
// The returned iterator is read-only. Do not modify the returned slices.
func (t *Tags) All() iter.Seq2[string, []string] {
	return func(yield func(string, []string) bool) {
		for _, key := range t.order {
			values, ok := t.raw[key]
			if !ok {
				continue
			}
			if !yield(key, values) {
				return
			}
		}
	}
}

// Get retrieves all values for a tag key.
//
// Returns nil if the key doesn't exist.
func (t *Tags) Get(key string) []string {
	if t.raw == nil {
		return nil
	}
	values := t.raw[normalizeKey(key)]
	if values == nil {
		return nil
	}
	return slices.Clone(values)
}

// GetFirst retrieves the first value for a tag key.
//
// Returns empty string if the key doesn't exist or has no values.
func (t *Tags) GetFirst(key string) string {
	values := t.Get(key)
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

// GetBest tries multiple tag keys and returns the first non-empty value.
//
//	year := tags.GetBest("DATE", "YEAR", "ORIGINALDATE")
func (t *Tags) GetBest(candidates ...string) string {
	for _, key := range candidates {
		if value := t.GetFirst(key); value != "" {
			return value
		}
	}
	return ""
}

// Set replaces all values of a raw tag.
//
// If values is empty, the tag is removed. The standard field mapped to the
// key, if any, is updated as well.
//
//	tags.Set("GENRE", "Rock", "Alternative") // Multi-value
func (t *Tags) Set(key string, values ...string) {
	key = normalizeKey(key)
	if len(values) == 0 {
		t.Delete(key)
		return
	}
	t.touch(key)
	t.raw[key] = slices.Clone(values)
	t.sync(key)
}

// Add appends one value to a raw tag.
func (t *Tags) Add(key, value string) {
	key = normalizeKey(key)
	t.touch(key)
	t.raw[key] = append(t.raw[key], value)
	t.sync(key)
}

// Delete removes a raw tag and clears the standard field mapped to it.
func (t *Tags) Delete(key string) {
	key = normalizeKey(key)
	delete(t.raw, key)
	if i := slices.Index(t.order, key); i >= 0 {
		t.order = slices.Delete(t.order, i, i+1)
	}
	t.sync(key)
}

// Comments returns the comment list to write back, as "KEY=VALUE" strings.
//
// Standard fields win over the raw table: a field set to its zero value
// removes the corresponding comment. Unmapped comments keep their order.
func (t *Tags) Comments() []string {
	out := t.Clone()
	for _, f := range out.fields() {
		if values := f.get(); len(values) > 0 {
			out.Set(f.key, values...)
		} else {
			delete(out.raw, f.key)
		}
	}

	var comments []string
	for key, values := range out.All() {
		for _, v := range values {
			comments = append(comments, key+"="+v)
		}
	}
	return comments
}

// Clone creates a deep copy of the Tags.
func (t *Tags) Clone() *Tags {
	if t == nil {
		return nil
	}

	clone := *t
	clone.Artists = slices.Clone(t.Artists)
	clone.Genres = slices.Clone(t.Genres)
	clone.Composers = slices.Clone(t.Composers)
	clone.Performers = slices.Clone(t.Performers)
	clone.order = slices.Clone(t.order)
	clone.raw = nil
	if t.raw != nil {
		clone.raw = make(map[string][]string, len(t.raw))
		for key, values := range t.raw {
			clone.raw[key] = slices.Clone(values)
		}
	}
	return &clone
}

// Equal reports whether two Tags would produce the same comment header.
func (t *Tags) Equal(other *Tags) bool {
	if t == nil || other == nil {
		return t == other
	}
	return t.Vendor == other.Vendor && slices.Equal(t.Comments(), other.Comments())
}

func (t *Tags) touch(key string) {
	if t.raw == nil {
		t.raw = make(map[string][]string)
	}
	if _, ok := t.raw[key]; !ok && !slices.Contains(t.order, key) {
		t.order = append(t.order, key)
	}
}

// sync copies the raw values of key into its standard field.
func (t *Tags) sync(key string) {
	for _, f := range t.fields() {
		if f.key == key {
			f.set(t.raw[key])
		}
	}
	if key == "DATE" {
		t.Year = 0
		if len(t.Date) >= 4 {
			t.Year = LeadingInt(t.Date[:4])
		}
	}
}

// field binds a comment key to a standard struct field.
type field struct {
	key string
	get func() []string
	set func([]string)
}

func (t *Tags) fields() []field {
	return []field{
		stringField("TITLE", &t.Title),
		{
			key: "ARTIST",
			get: func() []string {
				artists := slices.Clone(t.Artists)
				switch {
				case t.Artist == "":
					return nil
				case len(artists) == 0:
					return []string{t.Artist}
				default:
					artists[0] = t.Artist
					return artists
				}
			},
			set: func(v []string) {
				t.Artists = slices.Clone(v)
				t.Artist = ""
				if len(v) > 0 {
					t.Artist = v[0]
				}
			},
		},
		stringField("ALBUM", &t.Album),
		stringField("ALBUMARTIST", &t.AlbumArtist),
		stringField("DATE", &t.Date),
		stringField("COMMENT", &t.Comment),
		stringField("COPYRIGHT", &t.Copyright),
		stringField("PUBLISHER", &t.Publisher),
		stringField("LABEL", &t.Label),
		stringField("ISRC", &t.ISRC),
		listField("GENRE", &t.Genres),
		listField("COMPOSER", &t.Composers),
		listField("PERFORMER", &t.Performers),
		t.intField("TRACKNUMBER", &t.TrackNumber),
		t.intField("TRACKTOTAL", &t.TrackTotal),
		t.intField("DISCNUMBER", &t.DiscNumber),
		t.intField("DISCTOTAL", &t.DiscTotal),
	}
}

func stringField(key string, p *string) field {
	return field{
		key: key,
		get: func() []string {
			if *p == "" {
				return nil
			}
			return []string{*p}
		},
		set: func(v []string) {
			*p = ""
			if len(v) > 0 {
				*p = v[0]
			}
		},
	}
}

func listField(key string, p *[]string) field {
	return field{
		key: key,
		get: func() []string { return slices.Clone(*p) },
		set: func(v []string) { *p = slices.Clone(v) },
	}
}

// intField keeps the raw spelling ("3/12", "03") while it still agrees
// with the numeric field.
func (t *Tags) intField(key string, p *int) field {
	return field{
		key: key,
		get: func() []string {
			if *p <= 0 {
				return nil
			}
			if raw := t.raw[key]; len(raw) > 0 && LeadingInt(raw[0]) == *p {
				return []string{raw[0]}
			}
			return []string{strconv.Itoa(*p)}
		},
		set: func(v []string) {
			*p = 0
			if len(v) > 0 {
				*p = LeadingInt(v[0])
			}
		},
	}
}

// LeadingInt parses the decimal number at the start of s ("3/12" -> 3).
// Returns 0 when s does not start with a digit.
func LeadingInt(s string) int {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	n, _ := strconv.Atoi(s[:end]) //nolint:errcheck // Best effort parsing, zero value is fine
	return n
}

func normalizeKey(key string) string {
	return strings.ToUpper(key)
}
