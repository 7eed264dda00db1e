package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Kind is the closed set of message kinds carried on the wire. The
// original clients also defined emoji/audio/contact kinds but never
// rendered them; they fall through to an empty content string.
type Kind string

const (
	KindText     Kind = "text"
	KindPhoto    Kind = "photo"
	KindVideo    Kind = "video"
	KindLocation Kind = "location"
)

// ErrBadLocation reports a location content string that is not a
// "<longitude>,<latitude>" pair.
var ErrBadLocation = errors.New("malformed location content")

// DateLayout is the fixed message date format. It matches the en_US
// medium-date/long-time formatter the mobile clients write, so date
// strings are comparable across platforms.
const DateLayout = "Jan 2, 2006 at 3:04:05 PM MST"

// FormatDate renders a message timestamp in the wire date format
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate parses a wire date string
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// Location is a coordinate pair sent as a location message
type Location struct {
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
}

// Body is the typed content of a message before rendering. Exactly one
// of the payload fields is meaningful, selected by Kind.
type Body struct {
	Kind     Kind
	Text     string   // KindText
	URL      string   // KindPhoto, KindVideo: public blob URL
	Location Location // KindLocation
}

// Render flattens a typed body to the wire content string: text
// verbatim, photo/video as the blob URL, location as
// "<longitude>,<latitude>". Unsupported kinds render empty.
func (b Body) Render() string {
	switch b.Kind {
	case KindText:
		return b.Text
	case KindPhoto, KindVideo:
		return b.URL
	case KindLocation:
		return FormatLocation(b.Location)
	default:
		return ""
	}
}

// DecodeBody reconstructs a typed body from wire kind and content
func DecodeBody(kind Kind, content string) (Body, error) {
	switch kind {
	case KindText:
		return Body{Kind: KindText, Text: content}, nil
	case KindPhoto, KindVideo:
		return Body{Kind: kind, URL: content}, nil
	case KindLocation:
		loc, err := ParseLocation(content)
		if err != nil {
			return Body{}, err
		}
		return Body{Kind: KindLocation, Location: loc}, nil
	default:
		// Unknown kinds are carried through as empty text so old logs
		// with unsupported entries still decode.
		return Body{Kind: kind}, nil
	}
}

// FormatLocation renders a coordinate pair with the minimum digits that
// round-trip the doubles exactly.
func FormatLocation(loc Location) string {
	return strconv.FormatFloat(loc.Longitude, 'f', -1, 64) + "," +
		strconv.FormatFloat(loc.Latitude, 'f', -1, 64)
}

// ParseLocation parses a "<longitude>,<latitude>" content string
func ParseLocation(content string) (Location, error) {
	parts := strings.Split(content, ",")
	if len(parts) != 2 {
		return Location{}, ErrBadLocation
	}
	lon, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return Location{}, ErrBadLocation
	}
	lat, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return Location{}, ErrBadLocation
	}
	return Location{Longitude: lon, Latitude: lat}, nil
}

// MessageRecord is one entry in a conversation's message log, embedded
// at <conversationID>/messages. Append-only except whole-conversation
// deletion.
type MessageRecord struct {
	ID          string `json:"id"`
	Type        Kind   `json:"type"`
	Content     string `json:"content"`
	Date        string `json:"date"`
	SenderEmail string `json:"sender_email"` // safe-identity of the sender
	IsRead      bool   `json:"is_read"`
	Name        string `json:"name"` // sender display name at send time
}

// NewMessageID builds a message id from the two participant identities
// and the formatted send time. The embedded date text is the only
// ordering hint; no numeric ordering is implied.
func NewMessageID(otherSafe, selfSafe string, sentAt time.Time) string {
	return fmt.Sprintf("%s_%s_%s", otherSafe, selfSafe, FormatDate(sentAt))
}

// ConversationID derives a conversation id from its first message's id
func ConversationID(messageID string) string {
	return "conversation_" + messageID
}
