package notion

import "time"

// Property is a store-native typed value. Exactly one of the variant fields
// is set; the zero Property marshals to {} and must not be written.
type Property struct {
	Title    []RichText    `json:"title,omitempty"`
	RichText []RichText    `json:"rich_text,omitempty"`
	Number   *float64      `json:"number,omitempty"`
	Date     *DateValue    `json:"date,omitempty"`
	Select   *SelectOption `json:"select,omitempty"`
	Checkbox *bool         `json:"checkbox,omitempty"`
	URL      *string       `json:"url,omitempty"`
}

type RichText struct {
	Text      *TextContent `json:"text,omitempty"`
	PlainText string       `json:"plain_text,omitempty"`
}

type TextContent struct {
	Content string `json:"content"`
}

type DateValue struct {
	Start string `json:"start"`
}

type SelectOption struct {
	Name string `json:"name"`
}

func Title(s string) Property {
	return Property{Title: []RichText{{Text: &TextContent{Content: s}}}}
}

func Text(s string) Property {
	return Property{RichText: []RichText{{Text: &TextContent{Content: s}}}}
}

func Number(v float64) Property {
	return Property{Number: &v}
}

func Date(t time.Time) Property {
	return Property{Date: &DateValue{Start: t.Format(time.RFC3339)}}
}

// DateOnly writes a date without a time component; Notion treats these as
// all-day values, which keeps daily-summary keys timezone-stable.
func DateOnly(date string) Property {
	return Property{Date: &DateValue{Start: date}}
}

func Select(name string) Property {
	return Property{Select: &SelectOption{Name: name}}
}

func Checkbox(v bool) Property {
	return Property{Checkbox: &v}
}

func URL(u string) Property {
	return Property{URL: &u}
}

// PlainText extracts the readable text of a title or rich_text property as
// returned by queries. Empty for other variants.
func (p Property) PlainText() string {
	spans := p.RichText
	if len(spans) == 0 {
		spans = p.Title
	}
	if len(spans) == 0 {
		return ""
	}
	if spans[0].PlainText != "" {
		return spans[0].PlainText
	}
	if spans[0].Text != nil {
		return spans[0].Text.Content
	}
	return ""
}

// NumberValue returns the numeric payload, or false for non-number variants.
func (p Property) NumberValue() (float64, bool) {
	if p.Number == nil {
		return 0, false
	}
	return *p.Number, true
}

// DateStart returns the start of a date property, empty when unset.
func (p Property) DateStart() string {
	if p.Date == nil {
		return ""
	}
	return p.Date.Start
}

// Page is one row of a database as returned by queries.
type Page struct {
	ID         string              `json:"id"`
	Properties map[string]Property `json:"properties"`
}
