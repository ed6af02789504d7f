// Package render builds the read-only HTML fragments shown on the adult
// summary view. It makes no decisions beyond "absent means Not set".
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"family-hub-service/internal/domain"
)

var childCardTmpl = template.Must(template.New("child-card").Parse(`<div class="adult-kid-card {{.ColorTag}}">
  <h3>{{.Name}} (Age {{.Age}}) {{.AvatarEmoji}}</h3>
  <p class="last-updated">Last Updated: {{.LastUpdated}}</p>
  <div class="kid-info">
    <h4>Clothing Sizes</h4>
    <p><strong>Shirt:</strong> {{.ShirtSize}}{{if .ShirtFit}} ({{.ShirtFit}} fit){{end}}</p>
    <p><strong>Pants:</strong> {{.PantsSize}}{{if .PantsFit}} ({{.PantsFit}} fit){{end}}</p>
    <p><strong>Shoes:</strong> {{.ShoeSize}}{{if .ShoeWidth}} ({{.ShoeWidth}} width){{end}}</p>
  </div>
  <div class="kid-info">
    <h4>Clothing Preferences</h4>
    <p><strong>Preferred pants:</strong> {{.PantsPreference}}</p>
    <p><strong>Style:</strong> {{.StylePreference}}</p>
    <p><strong>Dislikes:</strong> {{.DislikedTextures}}</p>
    <p><strong>Loves:</strong> {{.LikedTextures}}</p>
    <p><strong>Favorite colors:</strong> {{.FavoriteColors}}</p>
  </div>
  <div class="kid-info">
    <h4>Toys &amp; Games</h4>
    <p><strong>Likes best:</strong> {{.ToyPreference}}</p>
  </div>
{{if .UrgentNeeds}}  <div class="kid-info urgent-needs-display">
    <h4>URGENT NEEDS</h4>
    <p class="urgent">Needs: {{.UrgentNeeds}}</p>
{{if .NeedsExplanation}}    <p><strong>Why:</strong> &quot;{{.NeedsExplanation}}&quot;</p>
{{end}}  </div>
{{end}}</div>
`))

var messageThreadTmpl = template.Must(template.New("message-thread").Parse(`<div class="message-thread">
{{if not .Messages}}  <p class="empty">No messages yet. Start a conversation!</p>
{{end}}{{range .Messages}}  <div class="message">
    <div class="message-head"><strong>{{.From}}</strong> <small>{{.SentAt}}</small></div>
    <p>{{.Body}}</p>
  </div>
{{end}}</div>
`))

type childCardView struct {
	Name             string
	Age              int
	AvatarEmoji      string
	ColorTag         string
	LastUpdated      string
	ShirtSize        string
	ShirtFit         string
	PantsSize        string
	PantsFit         string
	ShoeSize         string
	ShoeWidth        string
	PantsPreference  string
	StylePreference  string
	ToyPreference    string
	FavoriteColors   string
	LikedTextures    string
	DislikedTextures string
	UrgentNeeds      string
	NeedsExplanation string
}

type messageView struct {
	From   string
	Body   string
	SentAt string
}

// ChildCard renders the adult summary card for one child.
func ChildCard(child domain.ChildRecord) (template.HTML, error) {
	text := func(key string) string {
		v, ok := child.Attribute(key)
		if !ok {
			return "Not set"
		}
		first, ok := v.First()
		if !ok {
			return "Not set"
		}
		return first
	}
	optional := func(key string) string {
		v, ok := child.Attribute(key)
		if !ok {
			return ""
		}
		first, _ := v.First()
		return first
	}
	joined := func(key, fallback string) string {
		v, ok := child.Attribute(key)
		if !ok {
			return fallback
		}
		if items, ok := v.ListValue(); ok {
			return strings.Join(items, ", ")
		}
		if first, ok := v.First(); ok {
			return first
		}
		return fallback
	}

	view := childCardView{
		Name:             child.DisplayName,
		Age:              child.AgeYears,
		AvatarEmoji:      AvatarEmoji(child.AgeYears),
		ColorTag:         domain.CanonicalColorTag(child.ColorTag),
		LastUpdated:      child.LastModified.Format("Jan 2, 2006"),
		ShirtSize:        text(domain.AttrShirtSize),
		ShirtFit:         optional(domain.AttrShirtFit),
		PantsSize:        text(domain.AttrPantsSize),
		PantsFit:         optional(domain.AttrPantsFit),
		ShoeSize:         text(domain.AttrShoeSize),
		ShoeWidth:        optional(domain.AttrShoeWidth),
		PantsPreference:  text(domain.AttrPantsPreference),
		StylePreference:  text(domain.AttrStylePreference),
		ToyPreference:    text(domain.AttrToyPreference),
		FavoriteColors:   joined(domain.AttrFavoriteColors, "Not set"),
		LikedTextures:    joined(domain.AttrLikedTextures, "Not set"),
		DislikedTextures: joined(domain.AttrDislikedTextures, "None specified"),
		UrgentNeeds:      joined(domain.AttrUrgentNeeds, ""),
		NeedsExplanation: optional(domain.AttrNeedsExplanation),
	}

	var buf bytes.Buffer
	if err := childCardTmpl.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("render child card: %w", err)
	}
	return template.HTML(buf.String()), nil
}

// Summary renders the whole adult view: one card per child, or the
// empty-state message.
func Summary(children []domain.ChildRecord) (template.HTML, error) {
	if len(children) == 0 {
		return template.HTML(`<p class="empty">No kids have created profiles yet!</p>` + "\n"), nil
	}
	var buf bytes.Buffer
	for _, child := range children {
		card, err := ChildCard(child)
		if err != nil {
			return "", err
		}
		buf.WriteString(string(card))
	}
	return template.HTML(buf.String()), nil
}

// MessageThread renders one child's thread, oldest first.
func MessageThread(messages []domain.MessageRecord) (template.HTML, error) {
	views := make([]messageView, 0, len(messages))
	for _, m := range messages {
		views = append(views, messageView{
			From:   m.SenderLabel,
			Body:   m.Body,
			SentAt: m.SentAt.Format("Jan 2, 2006 3:04 PM"),
		})
	}
	var buf bytes.Buffer
	if err := messageThreadTmpl.Execute(&buf, struct{ Messages []messageView }{views}); err != nil {
		return "", fmt.Errorf("render message thread: %w", err)
	}
	return template.HTML(buf.String()), nil
}

// AvatarEmoji picks the landing-page avatar for an age.
func AvatarEmoji(age int) string {
	switch {
	case age <= 5:
		return "👶"
	case age <= 10:
		return "🧒"
	case age <= 15:
		return "👦"
	default:
		return "👨"
	}
}
