package domain

import "time"

// ChildRecord is one child's identity plus their self-reported profile
// attributes. The identifier is assigned at creation and never changes;
// records are never deleted.
type ChildRecord struct {
	ID           string                    `json:"id"`
	DisplayName  string                    `json:"name"`
	AgeYears     int                       `json:"age"`
	ColorTag     string                    `json:"color"`
	Attributes   map[string]AttributeValue `json:"profile,omitempty"`
	LastModified time.Time                 `json:"lastUpdated"`
}

// Attribute looks up one profile attribute. Absence means "unknown",
// never an error.
func (c ChildRecord) Attribute(key string) (AttributeValue, bool) {
	if c.Attributes == nil {
		return AttributeValue{}, false
	}
	v, ok := c.Attributes[key]
	if !ok || v.IsZero() {
		return AttributeValue{}, false
	}
	return v, true
}

// MessageRecord is one message in a per-child thread. Threads are
// append-only; messages are never edited or deleted.
type MessageRecord struct {
	SenderLabel string    `json:"from"`
	Body        string    `json:"text"`
	SentAt      time.Time `json:"timestamp"`
}

// Attribute keys the profile form populates. The attribute mapping is
// open-ended; these are only the keys other components reference by name.
const (
	AttrShirtSize        = "shirtSize"
	AttrShirtFit         = "shirtFit"
	AttrPantsSize        = "pantsSize"
	AttrPantsFit         = "pantsFit"
	AttrShoeSize         = "shoeSize"
	AttrShoeWidth        = "shoeWidth"
	AttrPantsPreference  = "pantsPreference"
	AttrStylePreference  = "stylePreference"
	AttrToyPreference    = "toyPreference"
	AttrFavoriteColors   = "favoriteColors"
	AttrLikedTextures    = "likedTextures"
	AttrDislikedTextures = "dislikedTextures"
	AttrUrgentNeeds      = "urgentNeeds"
	AttrNeedsExplanation = "needsExplanation"
)

// DefaultSenderLabel is used when a message arrives without an explicit sender.
const DefaultSenderLabel = "Family Member"
