// Package schema defines the persisted form model: fields, pages, forms, and
// the pure helpers that keep that model consistent. It performs no I/O; the
// builder produces values of these types and the fill-time interpreter
// consumes them read-only.
package schema

// FieldType enumerates the closed set of field kinds a form can declare.
type FieldType string

const (
	TypeText        FieldType = "text"
	TypeTextarea    FieldType = "textarea"
	TypeEmail       FieldType = "email"
	TypeNumber      FieldType = "number"
	TypeURL         FieldType = "url"
	TypeTel         FieldType = "tel"
	TypePassword    FieldType = "password"
	TypeDate        FieldType = "date"
	TypeDatetime    FieldType = "datetime"
	TypeSelect      FieldType = "select"
	TypeRadio       FieldType = "radio"
	TypeCheckbox    FieldType = "checkbox"
	TypeMultiselect FieldType = "multiselect"
	TypeFile        FieldType = "file"
	TypeHidden      FieldType = "hidden"
	TypeHeading     FieldType = "heading"
	TypeParagraph   FieldType = "paragraph"
	TypeDivider     FieldType = "divider"
	TypeSignature   FieldType = "signature"
	TypeRating      FieldType = "rating"
	TypeToggle      FieldType = "toggle"
	TypeColor       FieldType = "color"
	TypeRange       FieldType = "range"
	TypeRichtext    FieldType = "richtext"
	TypeCaptcha     FieldType = "captcha"

	// Aliases that share rendering and validation rules with a base type.
	TypePhone   FieldType = "phone"
	TypeCountry FieldType = "country"
)

// aliases maps domain-specific field types onto the base type whose rules
// they share.
var aliases = map[FieldType]FieldType{
	TypePhone:   TypeTel,
	TypeCountry: TypeSelect,
}

// Canonical resolves aliases (phone, country, ...) to their base type.
// Unknown types pass through unchanged.
func Canonical(t FieldType) FieldType {
	if base, ok := aliases[t]; ok {
		return base
	}
	return t
}

// Known reports whether t belongs to the closed enumeration, aliases included.
func Known(t FieldType) bool {
	switch Canonical(t) {
	case TypeText, TypeTextarea, TypeEmail, TypeNumber, TypeURL, TypeTel,
		TypePassword, TypeDate, TypeDatetime, TypeSelect, TypeRadio,
		TypeCheckbox, TypeMultiselect, TypeFile, TypeHidden, TypeHeading,
		TypeParagraph, TypeDivider, TypeSignature, TypeRating, TypeToggle,
		TypeColor, TypeRange, TypeRichtext, TypeCaptcha:
		return true
	}
	return false
}

// NeedsOptions reports whether fields of this type must carry a non-empty
// option list (or a remote option source).
func NeedsOptions(t FieldType) bool {
	switch Canonical(t) {
	case TypeSelect, TypeRadio, TypeCheckbox, TypeMultiselect:
		return true
	}
	return false
}

// IsInput reports whether fields of this type collect a value. Display-only
// types (heading, paragraph, divider) never appear in initial values,
// rulesets, or submission payloads.
func IsInput(t FieldType) bool {
	switch Canonical(t) {
	case TypeHeading, TypeParagraph, TypeDivider:
		return false
	}
	return true
}

// RuleKind names the conditional behaviours a field can declare.
type RuleKind string

const (
	RuleVisibleIf  RuleKind = "visibleIf"
	RuleEnableIf   RuleKind = "enableIf"
	RuleRequiredIf RuleKind = "requiredIf"
)

// Rule attaches a conditional expression to a field. Expressions reference
// other fields' current values, e.g. `{country} == "India"`.
type Rule struct {
	Kind       RuleKind `json:"kind" yaml:"kind"`
	Expression string   `json:"expression" yaml:"expression"`
}

// CustomValidator appends an admin-supplied regex check with its own message.
type CustomValidator struct {
	Regex string `json:"regex" yaml:"regex"`
	Text  string `json:"text,omitempty" yaml:"text,omitempty"`
}

// SourceDescriptor points an option-bearing field at a remote option list.
// DependsOn optionally names another field whose current value parameterizes
// the request.
type SourceDescriptor struct {
	URL         string            `json:"url" yaml:"url"`
	Method      string            `json:"method,omitempty" yaml:"method,omitempty"`
	ValueField  string            `json:"valueField,omitempty" yaml:"valueField,omitempty"`
	LabelField  string            `json:"labelField,omitempty" yaml:"labelField,omitempty"`
	ResultsPath string            `json:"resultsPath,omitempty" yaml:"resultsPath,omitempty"`
	DependsOn   string            `json:"dependsOn,omitempty" yaml:"dependsOn,omitempty"`
	Params      map[string]string `json:"params,omitempty" yaml:"params,omitempty"`
}

// Field is one form field definition. Name keys the submission payload and is
// derived from Title unless NameOverridden is set. Position orders the field
// within its page and is kept contiguous by NormalizePositions.
type Field struct {
	ID                string            `json:"id" yaml:"id"`
	Type              FieldType         `json:"type" yaml:"type"`
	Name              string            `json:"name" yaml:"name"`
	Title             string            `json:"title,omitempty" yaml:"title,omitempty"`
	Placeholder       string            `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Description       string            `json:"description,omitempty" yaml:"description,omitempty"`
	IsRequired        bool              `json:"isRequired,omitempty" yaml:"isRequired,omitempty"`
	RequiredErrorText string            `json:"requiredErrorText,omitempty" yaml:"requiredErrorText,omitempty"`
	NameOverridden    bool              `json:"nameOverridden,omitempty" yaml:"nameOverridden,omitempty"`
	Options           OptionList        `json:"options,omitempty" yaml:"options,omitempty"`
	OptionSource      *SourceDescriptor `json:"optionSource,omitempty" yaml:"optionSource,omitempty"`
	MinLength         *int              `json:"minLength,omitempty" yaml:"minLength,omitempty"`
	MaxLength         *int              `json:"maxLength,omitempty" yaml:"maxLength,omitempty"`
	FileTypes         []string          `json:"fileTypes,omitempty" yaml:"fileTypes,omitempty"`
	FileSizeLimit     string            `json:"fileSizeLimit,omitempty" yaml:"fileSizeLimit,omitempty"`
	Validators        []CustomValidator `json:"validators,omitempty" yaml:"validators,omitempty"`
	Rules             []Rule            `json:"conditionalLogic,omitempty" yaml:"conditionalLogic,omitempty"`
	Position          int               `json:"position" yaml:"position"`
}

// RulesOf returns the field's conditional expressions of the given kind.
func (f Field) RulesOf(kind RuleKind) []Rule {
	var out []Rule
	for _, rule := range f.Rules {
		if rule.Kind == kind {
			out = append(out, rule)
		}
	}
	return out
}

// Page is an ordered sequence of fields plus display metadata.
type Page struct {
	Title       string  `json:"title,omitempty" yaml:"title,omitempty"`
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
	Elements    []Field `json:"elements" yaml:"elements"`
}

// Settings carries form-level presentation knobs.
type Settings struct {
	SubmitText          string `json:"submitText,omitempty" yaml:"submitText,omitempty"`
	ConfirmationMessage string `json:"confirmationMessage,omitempty" yaml:"confirmationMessage,omitempty"`
}

// Form is the persisted schema: ordered pages plus top-level metadata.
// The fill-time interpreter treats a fetched Form as read-only.
type Form struct {
	ID          string   `json:"id" yaml:"id"`
	Title       string   `json:"title,omitempty" yaml:"title,omitempty"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Settings    Settings `json:"settings,omitempty" yaml:"settings,omitempty"`
	Pages       []Page   `json:"pages" yaml:"pages"`
}

// Flatten returns every input field across all pages in page order. The
// compiler builds its ruleset over this union.
func (f Form) Flatten() []Field {
	var out []Field
	for _, page := range f.Pages {
		out = append(out, page.Elements...)
	}
	return out
}

// FieldByName scans all pages for the first field with the given name.
func (f Form) FieldByName(name string) (Field, bool) {
	for _, page := range f.Pages {
		for _, field := range page.Elements {
			if field.Name == name {
				return field, true
			}
		}
	}
	return Field{}, false
}
