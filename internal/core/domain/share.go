package domain

import "strings"

const (
	// DefaultShareTemplate - stock share text, Korean booking call to action.
	DefaultShareTemplate = "[지금 이 가격에 예약하세요!!] {title} {price} 사진보기 : {imgUrl}"
	ShareMIMEType        = "text/plain"
)

// SharePayload - plain-text payload handed to the platform share facility.
type SharePayload struct {
	ListingID string
	Text      string
	MIMEType  string
}

// NewSharePayload fills the {title}, {price} and {imgUrl} placeholders of template.
func NewSharePayload(l Listing, template string) SharePayload {
	if template == "" {
		template = DefaultShareTemplate
	}
	r := strings.NewReplacer(
		"{title}", l.Title,
		"{price}", l.Price,
		"{imgUrl}", l.ImageURL,
	)
	return SharePayload{
		ListingID: l.ID,
		Text:      r.Replace(template),
		MIMEType:  ShareMIMEType,
	}
}
